package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/game/service"
)

// serverMessage mirrors the websocket envelope pushed by the server
type serverMessage struct {
	SessionID string          `json:"session_id"`
	Event     string          `json:"event"`
	View      *intent.View    `json:"view,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// client talks to one session. Frames go over the websocket when it is up
// and over HTTP otherwise.
type client struct {
	base      *url.URL
	http      *http.Client
	sessionID string
	conn      *websocket.Conn

	mu        sync.RWMutex
	view      *intent.View
	lastEvent string
}

func newClient(server string) (*client, error) {
	base, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	return &client{base: base, http: &http.Client{Timeout: 5 * time.Second}}, nil
}

func (c *client) endpoint(path string) string {
	return c.base.JoinPath(path).String()
}

func (c *client) do(ctx context.Context, method, path string, body, result any) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), &payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, apiErr.Error)
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// open attaches to sessionID, creating a session from configID when it is empty
func (c *client) open(ctx context.Context, sessionID, configID string) error {
	var info service.SessionInfo
	if sessionID == "" {
		if err := c.do(ctx, http.MethodPost, "/api/sessions", map[string]string{"config_id": configID}, &info); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		log.Info().Str("session", info.ID).Str("config", info.ConfigName).Msg("created session")
	} else if err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID, nil, &info); err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	c.sessionID = info.ID
	c.setView(info.View)
	return nil
}

// connect dials the session's websocket and starts reading views
func (c *client) connect() error {
	wsURL := *c.base
	wsURL.Scheme = "ws"
	if c.base.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	wsURL.Path = "/ws"
	wsURL.RawQuery = url.Values{"session": {c.sessionID}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}
	c.conn = conn
	go c.listen(conn)
	log.Info().Str("session", c.sessionID).Msg("websocket connected")
	return nil
}

func (c *client) listen(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Warn().Err(err).Str("session", c.sessionID).Msg("websocket closed")
			return
		}
		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("bad websocket message")
			continue
		}
		c.apply(msg)
	}
}

func (c *client) apply(msg serverMessage) {
	switch msg.Event {
	case "view":
		c.setView(msg.View)
	case "events":
		var events []service.GameEvent
		if json.Unmarshal(msg.Data, &events) == nil && len(events) > 0 {
			c.setEvent(events[len(events)-1].Message)
		}
	case "error":
		var text string
		json.Unmarshal(msg.Data, &text)
		c.setEvent("error: " + text)
	}
}

// sendFrame pushes one frame. Over HTTP the reply view is applied directly.
func (c *client) sendFrame(ctx context.Context, req service.FrameRequest) error {
	if c.conn != nil {
		if err := c.conn.WriteJSON(req); err == nil {
			return nil
		}
		log.Warn().Msg("websocket write failed, falling back to http")
		c.conn = nil
	}

	var result service.FrameResult
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+c.sessionID+"/frame", req, &result); err != nil {
		return err
	}
	c.setView(result.View)
	if n := len(result.Events); n > 0 {
		c.setEvent(result.Events[n-1].Message)
	}
	return nil
}

func (c *client) setView(view *intent.View) {
	if view == nil {
		return
	}
	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
}

func (c *client) setEvent(text string) {
	c.mu.Lock()
	c.lastEvent = text
	c.mu.Unlock()
}

func (c *client) snapshot() (*intent.View, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view, c.lastEvent
}
