package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	for _, key := range []string{"SNAKEGRID_HOST", "SNAKEGRID_PORT", "CONFIG_DIR", "SESSIONS_DIR", "ARCHIVE_PATH", "LOG_LEVEL", "NGROK_ENABLED", "NGROK_AUTHTOKEN", "NGROK_DOMAIN", "API_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.Addr() != "localhost:8080" {
		t.Errorf("Expected localhost:8080, got %s", s.Addr())
	}
	if s.ConfigDir != "configs" || s.SessionsDir != "sessions" {
		t.Errorf("Unexpected directories %q %q", s.ConfigDir, s.SessionsDir)
	}
	if s.LogLevel != "info" {
		t.Errorf("Expected info log level, got %s", s.LogLevel)
	}
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("SNAKEGRID_HOST", "0.0.0.0")
	t.Setenv("SNAKEGRID_PORT", "9090")
	t.Setenv("ARCHIVE_PATH", "/tmp/runs.db")
	t.Setenv("NGROK_ENABLED", "true")
	t.Setenv("NGROK_AUTHTOKEN", "token")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.Addr() != "0.0.0.0:9090" {
		t.Errorf("Expected 0.0.0.0:9090, got %s", s.Addr())
	}
	if s.ArchivePath != "/tmp/runs.db" {
		t.Errorf("Expected archive path from env, got %s", s.ArchivePath)
	}
	if !s.NgrokEnabled || s.NgrokAuthtoken != "token" {
		t.Errorf("Expected ngrok settings from env, got %+v", s)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port not a number", map[string]string{"SNAKEGRID_PORT": "eighty"}},
		{"port out of range", map[string]string{"SNAKEGRID_PORT": "70000"}},
		{"ngrok without token", map[string]string{"NGROK_ENABLED": "true", "NGROK_AUTHTOKEN": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadSettings()
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.HasPrefix(err.Error(), "parse env:") {
				t.Errorf("Expected parse env prefix, got %v", err)
			}
		})
	}
}
