// Package config provides configuration management for the snake grid game.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation through engine.ValidateGameConfig
//   - Default configuration management
//   - Configuration discovery, listing and saving
//   - Process settings read from the environment
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Board width and height
//   - Tick interval and death replay duration
//   - Initial food count and refill cadence
//   - Tool unlock thresholds
//   - Pointer tuning (idle pause, displacement tolerance, dwell, grace)
//
// Available Configurations:
//   - classic: 12x12 board at the standard pace
//   - compact: 8x8 board with a slower tick
//   - wide: 24x14 field with faster ticks and larger refills
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("wide")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// Settings:
//
// LoadSettings reads SNAKEGRID_HOST, SNAKEGRID_PORT, CONFIG_DIR,
// SESSIONS_DIR, ARCHIVE_PATH, LOG_LEVEL, API_URL and the NGROK_* variables.
// Command-line flags take precedence over these values.
package config
