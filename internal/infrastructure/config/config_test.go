package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfigFile writes a temporary YAML config and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, `
hub:
  token: test-session-token
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Hub.Protocol != "http" {
		t.Errorf("Hub.Protocol = %q, want http", cfg.Hub.Protocol)
	}
	if cfg.Hub.Port != 8083 {
		t.Errorf("Hub.Port = %d, want 8083", cfg.Hub.Port)
	}
	if cfg.Hub.Timeout != 10 {
		t.Errorf("Hub.Timeout = %d, want 10", cfg.Hub.Timeout)
	}
	if cfg.Blinds.TickInterval != 150 {
		t.Errorf("Blinds.TickInterval = %d, want 150", cfg.Blinds.TickInterval)
	}
	if cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = true, want false by default")
	}
}

func TestLoadFileValues(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8090
  cors:
    allowed_origins:
      - https://blinds.example.com
hub:
  protocol: https
  host: zway.local
  port: 8084
  token: abc123
database:
  path: /tmp/test.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Hub.Host != "zway.local" {
		t.Errorf("Hub.Host = %q, want zway.local", cfg.Hub.Host)
	}
	if cfg.Hub.Protocol != "https" {
		t.Errorf("Hub.Protocol = %q, want https", cfg.Hub.Protocol)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 1 || cfg.Server.CORS.AllowedOrigins[0] != "https://blinds.example.com" {
		t.Errorf("CORS.AllowedOrigins = %v", cfg.Server.CORS.AllowedOrigins)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("BLINDBRIDGE_HUB_TOKEN", "env-token")
	t.Setenv("BLINDBRIDGE_HUB_HOST", "192.168.1.10")
	t.Setenv("BLINDBRIDGE_SERVER_PORT", "4000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() with missing file error = %v", err)
	}

	if cfg.Hub.Token != "env-token" {
		t.Errorf("Hub.Token = %q, want env-token", cfg.Hub.Token)
	}
	if cfg.Hub.Host != "192.168.1.10" {
		t.Errorf("Hub.Host = %q, want 192.168.1.10", cfg.Hub.Host)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("BLINDBRIDGE_HUB_TOKEN", "from-env")

	path := writeConfigFile(t, `
hub:
  token: from-file
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Hub.Token != "from-env" {
		t.Errorf("Hub.Token = %q, want env value to win", cfg.Hub.Token)
	}
}

func TestLoadCORSOriginList(t *testing.T) {
	t.Setenv("BLINDBRIDGE_HUB_TOKEN", "tok")
	t.Setenv("BLINDBRIDGE_CORS_ORIGIN", "https://a.example.com, https://b.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Server.CORS.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.Server.CORS.AllowedOrigins, want)
	}
	for i, origin := range want {
		if cfg.Server.CORS.AllowedOrigins[i] != origin {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.Server.CORS.AllowedOrigins[i], origin)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) { c.Hub.Token = "tok" },
			wantErr: "",
		},
		{
			name:    "missing hub token",
			mutate:  func(c *Config) {},
			wantErr: "hub.token is required",
		},
		{
			name: "bad hub protocol",
			mutate: func(c *Config) {
				c.Hub.Token = "tok"
				c.Hub.Protocol = "ftp"
			},
			wantErr: "hub.protocol must be http or https",
		},
		{
			name: "server port out of range",
			mutate: func(c *Config) {
				c.Hub.Token = "tok"
				c.Server.Port = 70000
			},
			wantErr: "server.port must be between 1 and 65535",
		},
		{
			name: "zero tick interval",
			mutate: func(c *Config) {
				c.Hub.Token = "tok"
				c.Blinds.TickInterval = 0
			},
			wantErr: "blinds.tick_interval must be at least 1ms",
		},
		{
			name: "invalid qos",
			mutate: func(c *Config) {
				c.Hub.Token = "tok"
				c.MQTT.QoS = 3
			},
			wantErr: "mqtt.qos must be 0, 1, or 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.Hub.GetTimeout(); got != 10*time.Second {
		t.Errorf("Hub.GetTimeout() = %v, want 10s", got)
	}
	if got := cfg.Blinds.GetTickInterval(); got != 150*time.Millisecond {
		t.Errorf("Blinds.GetTickInterval() = %v, want 150ms", got)
	}
	if got := cfg.GetReadTimeout(); got != 30*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 30s", got)
	}
}
