package engine

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Demo tool ids
const (
	ToolTurnBuffer = "turn-buffer"
	ToolSlowWindow = "slow-window"
	ToolSoftWrap   = "soft-wrap"
	ToolRewindStep = "rewind-step"
)

// ToolCategory groups tools by how they change play
type ToolCategory int

const (
	ControlAssist ToolCategory = iota
	RuleModifying
	Hybrid
)

var categoryNames = [...]string{"control_assist", "rule_modifying", "hybrid"}

func (c ToolCategory) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText encodes the category as its name
func (c ToolCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name
func (c *ToolCategory) UnmarshalText(text []byte) error {
	i := slices.Index(categoryNames[:], strings.ToLower(strings.TrimSpace(string(text))))
	if i < 0 {
		return fmt.Errorf("unknown tool category %q", string(text))
	}
	*c = ToolCategory(i)
	return nil
}

// IDSet is a set of tool ids, encoded as a sorted JSON array
type IDSet map[string]struct{}

// NewIDSet builds a set from ids
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order
func (s IDSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy
func (s IDSet) Clone() IDSet {
	if s == nil {
		return IDSet{}
	}
	return maps.Clone(s)
}

// Equal reports whether both sets hold the same ids
func (s IDSet) Equal(other IDSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	ids := s.Sorted()
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

// ToolDefinition describes one optional modifier tool
type ToolDefinition struct {
	ID               string       `json:"id"`
	Category         ToolCategory `json:"category"`
	UnlockThreshold  *uint64      `json:"unlock_threshold,omitempty"`
	IncompatibleWith IDSet        `json:"incompatible_with"`
}

// Threshold returns the unlock threshold if the tool has one
func (d ToolDefinition) Threshold() (uint64, bool) {
	if d.UnlockThreshold == nil {
		return 0, false
	}
	return *d.UnlockThreshold, true
}

// NewTool builds a definition with an unlock threshold
func NewTool(id string, category ToolCategory, threshold uint64, incompatible ...string) ToolDefinition {
	return ToolDefinition{
		ID:               id,
		Category:         category,
		UnlockThreshold:  &threshold,
		IncompatibleWith: NewIDSet(incompatible...),
	}
}

// ToolLoadout is the fixed set of tools attached to an Experimental run
type ToolLoadout struct {
	slots [LoadoutSlots]string
}

// Slots returns the tool ids in slot order
func (l ToolLoadout) Slots() []string {
	return l.slots[:]
}

// Summary joins the tool ids with "+"
func (l ToolLoadout) Summary() string {
	return strings.Join(l.slots[:], "+")
}

// Has reports whether a tool is in the loadout
func (l ToolLoadout) Has(id string) bool {
	return slices.Contains(l.slots[:], id)
}

// ToolRegistry is the read-only catalog of tools
type ToolRegistry struct {
	tools map[string]ToolDefinition
	order []string
}

// NewToolRegistry builds a registry; later definitions replace earlier ones with the same id
func NewToolRegistry(defs ...ToolDefinition) *ToolRegistry {
	r := &ToolRegistry{tools: make(map[string]ToolDefinition, len(defs))}
	for _, def := range defs {
		if def.IncompatibleWith == nil {
			def.IncompatibleWith = IDSet{}
		}
		r.tools[def.ID] = def
	}
	r.order = slices.Sorted(maps.Keys(r.tools))
	return r
}

// DemoRegistry returns the built-in tool catalog
func DemoRegistry() *ToolRegistry {
	return NewToolRegistry(
		NewTool(ToolTurnBuffer, ControlAssist, 15),
		NewTool(ToolSlowWindow, ControlAssist, 40),
		NewTool(ToolSoftWrap, RuleModifying, 80),
		NewTool(ToolRewindStep, Hybrid, 140),
	)
}

// Tool looks up a definition by id
func (r *ToolRegistry) Tool(id string) (ToolDefinition, bool) {
	def, ok := r.tools[id]
	return def, ok
}

// List yields every definition ordered by id
func (r *ToolRegistry) List() iter.Seq[ToolDefinition] {
	return func(yield func(ToolDefinition) bool) {
		for _, id := range r.order {
			if !yield(r.tools[id]) {
				return
			}
		}
	}
}

// IDs returns the tool ids ordered by id
func (r *ToolRegistry) IDs() []string {
	return slices.Clone(r.order)
}

// Len returns the number of tools
func (r *ToolRegistry) Len() int {
	return len(r.order)
}

// ValidateLoadout checks a requested loadout against the registry and the unlocked set
func (r *ToolRegistry) ValidateLoadout(unlocked IDSet, requested []string) (ToolLoadout, error) {
	var loadout ToolLoadout
	if len(requested) != LoadoutSlots {
		return loadout, fmt.Errorf("%w: got %d", ErrInvalidSlotCount, len(requested))
	}

	for i, id := range requested {
		def, ok := r.tools[id]
		if !ok {
			return loadout, fmt.Errorf("%w: %s", ErrUnknownTool, id)
		}
		if !unlocked.Has(id) {
			return loadout, fmt.Errorf("%w: %s", ErrToolLocked, id)
		}
		for _, accepted := range requested[:i] {
			if def.IncompatibleWith.Has(accepted) || r.tools[accepted].IncompatibleWith.Has(id) {
				return loadout, &IncompatibleToolsError{Tool: id, Conflict: accepted}
			}
		}
		loadout.slots[i] = id
	}
	return loadout, nil
}
