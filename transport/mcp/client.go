package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/game/service"
)

// Version is reported to MCP clients
const Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Snake Grid",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Snake Grid - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Each session is one player: menus, a running snake game, leaderboards and a
profile that unlocks tools as Invincible runs grow the snake.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage sessions
- view: render the current screen (menus, board, summary)
- command: send one command (up/down/left/right/confirm/back) without advancing time
- frame: send commands, an optional pointer position and advance time by dt_ms
- start_run: jump straight into a run of a mode with an optional tool loadout
- leaderboard / profile / set_replay: progression and settings
- top_runs: best archived runs across every session
- list_configs: available board configurations
- game_instructions: full rules

Time only passes in frame. A running snake keeps moving every tick, so plan
turns before asking for large dt_ms values.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": map[string]any{
					"type":        "string",
					"description": "Config to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions, most recently used first",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session including its current screen",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Play
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "view",
		Description: "Render the current screen of a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleView)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Send one command to a session without advancing time",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"command": map[string]any{
					"type":        "string",
					"enum":        commandNames(),
					"description": "Command to apply",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of why you are sending this command",
				},
			},
			Required: []string{"session_id", "command"},
		},
	}, c.handleCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "frame",
		Description: "Apply commands, then an optional pointer sample, then advance time by dt_ms",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"commands": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "string",
						"enum": commandNames(),
					},
					"description": "Commands applied in order",
				},
				"pointer_x": map[string]any{
					"type":        "number",
					"description": "Pointer x in screen pixels (optional, requires pointer_y)",
				},
				"pointer_y": map[string]any{
					"type":        "number",
					"description": "Pointer y in screen pixels (optional, requires pointer_x)",
				},
				"wheel": map[string]any{
					"type":        "number",
					"description": "Vertical wheel delta, positive scrolls up",
				},
				"dt_ms": map[string]any{
					"type":        "integer",
					"description": fmt.Sprintf("Milliseconds to advance (0-%d)", service.MaxFrameMs),
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of what this frame should achieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleFrame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_run",
		Description: "Start a run in a mode, skipping the menus",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"mode": map[string]any{
					"type":        "string",
					"enum":        modeNames(),
					"description": "Game mode",
				},
				"loadout": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Exactly three unlocked tool ids, required for experimental runs",
				},
			},
			Required: []string{"session_id", "mode"},
		},
	}, c.handleStartRun)

	// Progression
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the leaderboard of a mode for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"mode": map[string]any{
					"type": "string",
					"enum": modeNames(),
				},
			},
			Required: []string{"session_id", "mode"},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "profile",
		Description: "Show a session's profile and which tools are unlocked",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleProfile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_replay",
		Description: "Turn the death replay on or off",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"enabled":    map[string]any{"type": "boolean"},
			},
			Required: []string{"session_id", "enabled"},
		},
	}, c.handleSetReplay)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "top_runs",
		Description: "Best archived runs of a mode across all sessions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"mode": map[string]any{
					"type": "string",
					"enum": modeNames(),
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum rows (default 10)",
				},
			},
			Required: []string{"mode"},
		},
	}, c.handleTopRuns)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs one REST request and decodes the JSON reply into result
func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]any {
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		return args
	}
	return map[string]any{}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func stringsArg(args map[string]any, key string) []string {
	raw, _ := args[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func numberArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := stringArg(arguments(request), "config_id"); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatView(session.View))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		screen := "unknown"
		if s.View != nil {
			screen = s.View.Screen.String()
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Screen: %s, Last used: %s)\n",
			s.ID, s.ConfigName, screen, s.LastAccessedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var view intent.View
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/view"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatView(&view)), nil
}

func (c *Client) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")
	// intent is only there to make the caller explain itself
	body := map[string]string{"command": stringArg(args, "command")}

	var result service.FrameResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/command"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatFrameResult(&result)), nil
}

func (c *Client) handleFrame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")

	req := service.FrameRequest{Commands: stringsArg(args, "commands")}
	x, hasX := numberArg(args, "pointer_x")
	y, hasY := numberArg(args, "pointer_y")
	if hasX != hasY {
		return mcp.NewToolResultError("pointer_x and pointer_y must be given together"), nil
	}
	if hasX {
		req.Pointer = &intent.Vec2{X: x, Y: y}
	}
	if wheel, ok := numberArg(args, "wheel"); ok {
		req.Wheel = wheel
	}
	if dt, ok := numberArg(args, "dt_ms"); ok {
		req.DtMs = int(dt)
	}

	var result service.FrameResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/frame"), req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatFrameResult(&result)), nil
}

func (c *Client) handleStartRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")
	body := map[string]any{
		"mode":    stringArg(args, "mode"),
		"loadout": stringsArg(args, "loadout"),
	}

	var result service.FrameResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/start"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatFrameResult(&result)), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path := sessionPath(stringArg(args, "session_id"), "/leaderboard/"+url.PathEscape(stringArg(args, "mode")))

	var board service.LeaderboardResponse
	if err := c.apiCall(ctx, "GET", path, nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatLeaderboard(&board)), nil
}

func (c *Client) handleProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var profile service.ProfileInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/profile"), nil, &profile); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatProfile(&profile)), nil
}

func (c *Client) handleSetReplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	enabled, ok := args["enabled"].(bool)
	if !ok {
		return mcp.NewToolResultError("enabled must be a boolean"), nil
	}

	var profile service.ProfileInfo
	path := sessionPath(stringArg(args, "session_id"), "/settings/replay")
	if err := c.apiCall(ctx, "PUT", path, map[string]bool{"enabled": enabled}, &profile); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatProfile(&profile)), nil
}

func (c *Client) handleTopRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	query := url.Values{}
	query.Set("mode", stringArg(args, "mode"))
	if limit, ok := numberArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}

	var response struct {
		Mode string                 `json:"mode"`
		Runs []*service.ArchivedRun `json:"runs"`
	}
	if err := c.apiCall(ctx, "GET", "/api/runs/top?"+query.Encode(), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatTopRuns(response.Mode, response.Runs)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s (config_id: %s)\n  %s\n  Board: %dx%d, Tick: %dms\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.BoardWidth, cfg.BoardHeight, cfg.TickMs)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}
