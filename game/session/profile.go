package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakegrid/game/engine"
)

// DecodeProfile reads a stored profile document. Documents carrying
// best_score predate schema versioning and go through engine.FromLegacy.
func DecodeProfile(data []byte) (engine.Profile, error) {
	if len(data) == 0 || string(data) == "null" {
		return engine.DefaultProfile(), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return engine.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}

	if _, legacy := probe["best_score"]; legacy {
		var old engine.LegacyProfile
		if err := json.Unmarshal(data, &old); err != nil {
			return engine.Profile{}, fmt.Errorf("failed to decode legacy profile: %w", err)
		}
		return engine.FromLegacy(old)
	}

	var profile engine.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return engine.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if profile.UnlockedToolIDs == nil {
		profile.UnlockedToolIDs = engine.IDSet{}
	}
	return engine.MigrateProfile(profile)
}

// LoadProfile decodes a profile, falling back to defaults when it was
// written by a newer build
func LoadProfile(data []byte) (engine.Profile, error) {
	profile, err := DecodeProfile(data)
	if errors.Is(err, engine.ErrSchemaTooNew) {
		log.Warn().Err(err).Msg("profile schema is newer than this build, starting from defaults")
		return engine.DefaultProfile(), nil
	}
	return profile, err
}
