package engine

import (
	"fmt"
	"slices"
)

// CurrentSchemaVersion is the profile schema this build reads and writes
const CurrentSchemaVersion uint32 = 2

// DefaultThresholds are the cumulative Invincible growth values that unlock tools
var DefaultThresholds = []uint64{15, 40, 80, 140}

// Profile is a player's persisted progression and settings
type Profile struct {
	SchemaVersion              uint32  `json:"schema_version"`
	ReplayOnDeath              bool    `json:"replay_on_death"`
	InvincibleCumulativeLength uint64  `json:"invincible_cumulative_length"`
	UnlockedToolIDs            IDSet   `json:"unlocked_tool_ids"`
	OldBestScore               *uint64 `json:"old_best_score,omitempty"`
}

// LegacyProfile is the pre-versioned profile shape
type LegacyProfile struct {
	BestScore     uint64  `json:"best_score"`
	ReplayOnDeath *bool   `json:"replay_on_death,omitempty"`
	SchemaVersion *uint32 `json:"schema_version,omitempty"`
}

// DefaultProfile returns a fresh profile at the current schema
func DefaultProfile() Profile {
	return Profile{
		SchemaVersion:   CurrentSchemaVersion,
		UnlockedToolIDs: IDSet{},
	}
}

// Clone returns a deep copy
func (p Profile) Clone() Profile {
	out := p
	out.UnlockedToolIDs = p.UnlockedToolIDs.Clone()
	if p.OldBestScore != nil {
		best := *p.OldBestScore
		out.OldBestScore = &best
	}
	return out
}

// FromLegacy converts a legacy profile and migrates it to the current schema
func FromLegacy(legacy LegacyProfile) (Profile, error) {
	schema := uint32(1)
	if legacy.SchemaVersion != nil {
		schema = *legacy.SchemaVersion
	}
	if schema > CurrentSchemaVersion {
		return Profile{}, fmt.Errorf("%w: version %d", ErrSchemaTooNew, schema)
	}

	best := legacy.BestScore
	profile := Profile{
		SchemaVersion:   schema,
		UnlockedToolIDs: IDSet{},
		OldBestScore:    &best,
	}
	if legacy.ReplayOnDeath != nil {
		profile.ReplayOnDeath = *legacy.ReplayOnDeath
	}
	return MigrateProfile(profile)
}

// MigrateProfile raises a profile to the current schema
func MigrateProfile(profile Profile) (Profile, error) {
	if profile.SchemaVersion > CurrentSchemaVersion {
		return Profile{}, fmt.Errorf("%w: version %d", ErrSchemaTooNew, profile.SchemaVersion)
	}
	out := profile.Clone()
	if out.SchemaVersion < CurrentSchemaVersion {
		// replay is honored only from schema 1 onwards
		out.ReplayOnDeath = out.ReplayOnDeath && out.SchemaVersion >= 1
		out.SchemaVersion = CurrentSchemaVersion
	}
	return out, nil
}

// ApplyThresholdUnlocks recomputes the unlocked set from the cumulative length
func (p *Profile) ApplyThresholdUnlocks(registry *ToolRegistry, thresholds []uint64) {
	unlocked := IDSet{}
	for tool := range registry.List() {
		threshold, ok := tool.Threshold()
		if !ok {
			continue
		}
		if slices.Contains(thresholds, threshold) && p.InvincibleCumulativeLength >= threshold {
			unlocked[tool.ID] = struct{}{}
		}
	}
	p.UnlockedToolIDs = unlocked
}
