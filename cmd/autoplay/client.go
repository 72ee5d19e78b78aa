package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/snakegrid/game/service"
)

// Client is a minimal REST client for the game API
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, apiErr.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// CreateSession starts a session with configID, or the default config when empty
func (c *Client) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	var info service.SessionInfo
	err := c.do(ctx, http.MethodPost, "/api/sessions", map[string]string{"config_id": configID}, &info)
	return &info, err
}

// StartRun jumps straight into a run
func (c *Client) StartRun(ctx context.Context, sessionID, mode string, loadout []string) (*service.FrameResult, error) {
	var result service.FrameResult
	body := map[string]any{"mode": mode, "loadout": loadout}
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/start", body, &result)
	return &result, err
}

// Frame sends one frame of input
func (c *Client) Frame(ctx context.Context, sessionID string, req service.FrameRequest) (*service.FrameResult, error) {
	var result service.FrameResult
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/frame", req, &result)
	return &result, err
}
