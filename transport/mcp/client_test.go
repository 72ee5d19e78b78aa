package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/game/sim"
	"github.com/wricardo/snakegrid/game/service"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestToolsAreListed(t *testing.T) {
	client := NewClient("http://localhost:8080")

	response := client.GetMCPServer().HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	for _, name := range []string{
		"create_session", "list_sessions", "get_session", "view", "command", "frame",
		"start_run", "leaderboard", "profile", "set_replay", "top_runs", "list_configs", "game_instructions",
	} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Errorf("Expected tool %s to be listed", name)
		}
	}
}

func TestApiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"id": "abc"})
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": "session not found: zzz", "code": 404})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	var response map[string]string
	if err := client.apiCall(ctx, "GET", "/ok", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "abc" {
		t.Errorf("Expected id abc, got %v", response["id"])
	}

	err := client.apiCall(ctx, "GET", "/missing", nil, nil)
	if err == nil || err.Error() != "session not found: zzz" {
		t.Errorf("Expected API error message, got %v", err)
	}

	err = client.apiCall(ctx, "GET", "/boom", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "API error: 500") {
		t.Errorf("Expected 'API error: 500', got %v", err)
	}
}

func TestApiCallUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for unreachable server")
	}
}

func TestCreateSessionTool(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "sess-123",
			ConfigName: "Wide",
			View:       &intent.View{Screen: intent.MainMenu, MainMenu: intent.MainMenuItems},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callRequest("create_session", map[string]any{"config_id": "wide"}))
	if err != nil {
		t.Fatalf("create_session failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "sess-123") || !strings.Contains(text, "> Play") {
		t.Errorf("Expected session id and menu in result, got: %s", text)
	}
	if gotBody["config_id"] != "wide" {
		t.Errorf("Expected config_id wide, got %v", gotBody)
	}
}

func TestFrameTool(t *testing.T) {
	var got service.FrameRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abc/frame" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.FrameResult{
			Success: true,
			View:    &intent.View{Screen: intent.Summary, Summary: &intent.RunSummary{Mode: engine.Practice, Score: 20}},
			Events:  []service.GameEvent{{Type: "run_finished", Message: "practice run scored 20"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleFrame(ctx, callRequest("frame", map[string]any{
		"session_id": "abc",
		"commands":   []any{"up", "left"},
		"pointer_x":  float64(40),
		"pointer_y":  float64(90),
		"dt_ms":      float64(360),
	}))
	if err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	if len(got.Commands) != 2 || got.Commands[1] != "left" {
		t.Errorf("Expected commands [up left], got %v", got.Commands)
	}
	if got.Pointer == nil || got.Pointer.X != 40 || got.DtMs != 360 {
		t.Errorf("Unexpected frame request %+v", got)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "[run_finished]") || !strings.Contains(text, "Score: 20") {
		t.Errorf("Expected events and summary, got: %s", text)
	}

	t.Run("half a pointer is rejected", func(t *testing.T) {
		result, err := client.handleFrame(ctx, callRequest("frame", map[string]any{"session_id": "abc", "pointer_x": float64(1)}))
		if err != nil {
			t.Fatalf("frame failed: %v", err)
		}
		if !result.IsError {
			t.Error("Expected tool error for pointer_x without pointer_y")
		}
	})
}

func TestErrorsBecomeToolErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"error": "a run is already in progress"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleStartRun(context.Background(), callRequest("start_run", map[string]any{"session_id": "abc", "mode": "practice"}))
	if err != nil {
		t.Fatalf("start_run returned a protocol error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected tool error result")
	}
	if text := resultText(t, result); !strings.Contains(text, "already in progress") {
		t.Errorf("Expected conflict message, got: %s", text)
	}
}

func TestSetReplayRequiresBoolean(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	result, err := client.handleSetReplay(context.Background(), callRequest("set_replay", map[string]any{"session_id": "abc", "enabled": "yes"}))
	if err != nil {
		t.Fatalf("set_replay failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected tool error for non-boolean enabled")
	}
}

func TestTopRunsTool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mode") != "challenge" || r.URL.Query().Get("limit") != "3" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"mode": "challenge",
			"runs": []service.ArchivedRun{{SessionID: "abc", Mode: engine.Challenge, Score: 5000, SurvivalTicks: 5, LoadoutSummary: "none"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleTopRuns(context.Background(), callRequest("top_runs", map[string]any{"mode": "challenge", "limit": float64(3)}))
	if err != nil {
		t.Fatalf("top_runs failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "abc: score 5000") {
		t.Errorf("Expected archived run, got: %s", text)
	}
}

func TestRenderBoard(t *testing.T) {
	run := &intent.RunView{
		Board: engine.Board{Width: 5, Height: 3},
		Snake: []engine.Point{{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Foods: []engine.Point{{X: 4, Y: 0}, {X: 9, Y: 9}},
	}

	want := "....*\nooH..\n.....\n"
	if got := renderBoard(run); got != want {
		t.Errorf("Expected board\n%s\ngot\n%s", want, got)
	}

	if got := renderBoard(&intent.RunView{}); got != "" {
		t.Errorf("Expected empty board, got %q", got)
	}
}

func TestFormatView(t *testing.T) {
	tests := []struct {
		name string
		view *intent.View
		want []string
	}{
		{"nil", nil, []string{"No view available"}},
		{
			"mode select",
			&intent.View{Screen: intent.ModeSelect, Modes: engine.Modes, ModeCursor: 1},
			[]string{"Screen: mode_select", "> challenge", "  practice"},
		},
		{
			"running",
			&intent.View{Screen: intent.Running, Run: &intent.RunView{
				Mode:      engine.Invincible,
				Phase:     "active",
				Board:     engine.Board{Width: 3, Height: 1},
				Snake:     []engine.Point{{X: 1, Y: 0}},
				Direction: sim.Right,
				Queued:    []sim.Direction{sim.Up},
				Score:     8,
			}},
			[]string{"Mode: invincible", "Phase: active", "Queued: up", ".H."},
		},
		{
			"settings",
			&intent.View{Screen: intent.Settings, ReplayOnDeath: true, CumulativeLength: 42, UnlockedTools: []string{engine.ToolTurnBuffer}},
			[]string{"Replay on death: true", "Invincible growth: 42", "turn-buffer"},
		},
		{
			"leaderboard",
			&intent.View{Screen: intent.Leaderboard, LeaderboardMode: engine.Practice},
			[]string{"Mode: practice", "No runs yet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatView(tt.view)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Expected %q in output, got:\n%s", want, got)
				}
			}
		})
	}
}

func TestFormatProfile(t *testing.T) {
	threshold := uint64(15)
	best := uint64(120)
	info := &service.ProfileInfo{
		Profile: engine.Profile{InvincibleCumulativeLength: 20, OldBestScore: &best},
		Tools: []*service.ToolInfo{
			{ID: engine.ToolTurnBuffer, Category: engine.ControlAssist, UnlockThreshold: &threshold, Unlocked: true, IncompatibleWith: []string{}},
			{ID: engine.ToolSoftWrap, Category: engine.RuleModifying, IncompatibleWith: []string{engine.ToolRewindStep}},
		},
	}

	got := formatProfile(info)
	for _, want := range []string{
		"Invincible growth: 20",
		"older version: 120",
		"turn-buffer [control_assist] unlocked, threshold 15",
		"soft-wrap [rule_modifying] locked, threshold none, not with rewind-step",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, got)
		}
	}
}

func TestGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", nil))
	if err != nil {
		t.Fatalf("game_instructions failed: %v", err)
	}
	text := resultText(t, result)
	for _, mode := range modeNames() {
		if !strings.Contains(text, mode) {
			t.Errorf("Expected instructions to mention %s", mode)
		}
	}
}
