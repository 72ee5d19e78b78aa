package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Settings are the process-level options read from the environment
type Settings struct {
	Host           string `env:"SNAKEGRID_HOST" envDefault:"localhost"`
	Port           int    `env:"SNAKEGRID_PORT" envDefault:"8080"`
	ConfigDir      string `env:"CONFIG_DIR" envDefault:"configs"`
	SessionsDir    string `env:"SESSIONS_DIR" envDefault:"sessions"`
	ArchivePath    string `env:"ARCHIVE_PATH" envDefault:"data/runs.db"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthtoken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
	APIURL         string `env:"API_URL" envDefault:"http://localhost:8080"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings reads Settings from the environment and validates them
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if s.Port <= 0 || s.Port > 65535 {
		return Settings{}, fmt.Errorf("parse env: SNAKEGRID_PORT out of range: %d", s.Port)
	}
	if s.NgrokEnabled && s.NgrokAuthtoken == "" {
		return Settings{}, fmt.Errorf("parse env: NGROK_AUTHTOKEN is required when NGROK_ENABLED is set")
	}
	return s, nil
}

// Addr returns the host:port the server listens on
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
