package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfig writes a config file and points BLINDBRIDGE_CONFIG at it.
func writeConfig(t *testing.T, content string) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test-config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("BLINDBRIDGE_CONFIG", configPath)
}

func TestRunFailsWithoutHubToken(t *testing.T) {
	writeConfig(t, `
hub:
  protocol: http
  host: localhost
  port: 8083
logging:
  level: error
  format: text
  output: stdout
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail when hub.token is missing")
	}
}

func TestRunStartupAndShutdown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 38331
hub:
  protocol: http
  host: "127.0.0.1"
  port: 18083
  token: test-token
database:
  path: "`+dbPath+`"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: false
influxdb:
  enabled: false
logging:
  level: error
  format: text
  output: stdout
`)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() should shut down cleanly, got %v", err)
	}
}

func TestGetConfigPathDefault(t *testing.T) {
	t.Setenv("BLINDBRIDGE_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

func TestGetConfigPathEnvOverride(t *testing.T) {
	t.Setenv("BLINDBRIDGE_CONFIG", "/custom/path/config.yaml")

	if path := getConfigPath(); path != "/custom/path/config.yaml" {
		t.Errorf("getConfigPath() = %q, want /custom/path/config.yaml", path)
	}
}
