package engine

import (
	"errors"
	"testing"
)

func TestRegistryListIsOrderedByID(t *testing.T) {
	registry := DemoRegistry()

	var ids []string
	for tool := range registry.List() {
		ids = append(ids, tool.ID)
	}

	expected := []string{ToolRewindStep, ToolSlowWindow, ToolSoftWrap, ToolTurnBuffer}
	if len(ids) != len(expected) {
		t.Fatalf("Expected %d tools, got %d", len(expected), len(ids))
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("Expected tool %d to be %s, got %s", i, expected[i], ids[i])
		}
	}
}

func TestRegistryListStopsEarly(t *testing.T) {
	registry := DemoRegistry()

	count := 0
	for range registry.List() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("Expected iteration to stop after 2 tools, got %d", count)
	}
}

func TestRegistryTool(t *testing.T) {
	registry := DemoRegistry()

	def, ok := registry.Tool(ToolSoftWrap)
	if !ok {
		t.Fatal("Expected soft-wrap to exist")
	}
	if def.Category != RuleModifying {
		t.Errorf("Expected category %v, got %v", RuleModifying, def.Category)
	}
	if threshold, ok := def.Threshold(); !ok || threshold != 80 {
		t.Errorf("Expected threshold 80, got %d (set=%v)", threshold, ok)
	}

	if _, ok := registry.Tool("laser"); ok {
		t.Error("Expected unknown tool lookup to fail")
	}
}

func TestValidateLoadout(t *testing.T) {
	registry := NewToolRegistry(
		NewTool("a", ControlAssist, 1),
		NewTool("b", ControlAssist, 2, "c"),
		NewTool("c", Hybrid, 3),
		NewTool("d", RuleModifying, 4),
	)
	unlocked := NewIDSet("a", "b", "c")

	tests := []struct {
		name      string
		requested []string
		wantErr   error
	}{
		{"valid", []string{"a", "b", "a"}, nil},
		{"too few", []string{"a"}, ErrInvalidSlotCount},
		{"too many", []string{"a", "b", "c", "a"}, ErrInvalidSlotCount},
		{"unknown before locked", []string{"a", "zzz", "d"}, ErrUnknownTool},
		{"locked", []string{"a", "d", "b"}, ErrToolLocked},
		{"incompatible", []string{"b", "a", "c"}, ErrIncompatibleTools},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loadout, err := registry.ValidateLoadout(unlocked, tt.requested)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if loadout.Summary() != "a+b+a" {
					t.Errorf("Expected summary a+b+a, got %s", loadout.Summary())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateLoadoutNamesBothIncompatibleTools(t *testing.T) {
	registry := NewToolRegistry(
		NewTool("a", ControlAssist, 1),
		NewTool("b", ControlAssist, 2, "a"),
		NewTool("c", Hybrid, 3),
	)

	_, err := registry.ValidateLoadout(NewIDSet("a", "b", "c"), []string{"a", "c", "b"})

	var incompatible *IncompatibleToolsError
	if !errors.As(err, &incompatible) {
		t.Fatalf("Expected IncompatibleToolsError, got %v", err)
	}
	if incompatible.Tool != "b" || incompatible.Conflict != "a" {
		t.Errorf("Expected b incompatible with a, got %s with %s", incompatible.Tool, incompatible.Conflict)
	}
}

func TestIDSetJSONIsSorted(t *testing.T) {
	set := NewIDSet("soft-wrap", "rewind-step", "turn-buffer")

	data, err := set.MarshalJSON()
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `["rewind-step","soft-wrap","turn-buffer"]` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	var decoded IDSet
	if err := decoded.UnmarshalJSON(data); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if !decoded.Equal(set) {
		t.Errorf("Expected %v, got %v", set.Sorted(), decoded.Sorted())
	}
}
