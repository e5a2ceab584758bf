package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for blindbridge.
// Values are loaded from YAML and can be overridden by environment variables,
// so a container deployment can run from environment alone.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Hub       HubConfig       `yaml:"hub"`
	Database  DatabaseConfig  `yaml:"database"`
	Blinds    BlindsConfig    `yaml:"blinds"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host     string              `yaml:"host"`
	Port     int                 `yaml:"port"`
	Timeouts ServerTimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig          `yaml:"cors"`
}

// ServerTimeoutConfig contains HTTP timeout settings in seconds.
type ServerTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
// AllowedOrigins supports "*" as a wildcard entry.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// HubConfig contains the Z-Way hub connection settings.
//
// Token is the hub session credential sent as the ZWaySession header on
// every proxied command. It is required: the process refuses to start
// without it, since the proxy cannot authenticate otherwise.
type HubConfig struct {
	Protocol string `yaml:"protocol"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Token    string `yaml:"token"`
	Timeout  int    `yaml:"timeout"` // seconds, per proxied request
}

// DatabaseConfig contains SQLite settings for the user device store.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// BlindsConfig contains position simulation settings.
type BlindsConfig struct {
	// TickInterval is the simulation step period in milliseconds.
	// Each tick moves an animating blind by one percent.
	TickInterval int `yaml:"tick_interval"`

	// CommandTimeout bounds the background hub notification per movement
	// command, in seconds.
	CommandTimeout int `yaml:"command_timeout"`
}

// MQTTConfig contains settings for the optional MQTT status mirror.
type MQTTConfig struct {
	Enabled bool             `yaml:"enabled"`
	Broker  MQTTBrokerConfig `yaml:"broker"`
	Auth    MQTTAuthConfig   `yaml:"auth"`
	QoS     int              `yaml:"qos"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains settings for the optional position history writer.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// WebSocketConfig contains WebSocket push settings.
type WebSocketConfig struct {
	Path         string `yaml:"path"`
	PingInterval int    `yaml:"ping_interval"`
	PongTimeout  int    `yaml:"pong_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// Loading order:
//  1. Default values
//  2. YAML file values (the file is optional; a missing file is not an error
//     so that pure-environment deployments work)
//  3. Environment variables (BLINDBRIDGE_SECTION_KEY)
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Environment-only deployment; defaults plus env overrides.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
			Timeouts: ServerTimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
			},
		},
		Hub: HubConfig{
			Protocol: "http",
			Host:     "localhost",
			Port:     8083,
			Timeout:  10,
		},
		Database: DatabaseConfig{
			Path:        "./data/blindbridge.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Blinds: BlindsConfig{
			TickInterval:   150,
			CommandTimeout: 10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "blindbridge",
			},
			QoS: 1,
		},
		WebSocket: WebSocketConfig{
			Path:         "/ws",
			PingInterval: 30,
			PongTimeout:  10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
// Variables follow the pattern BLINDBRIDGE_SECTION_KEY.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("BLINDBRIDGE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v, ok := envInt("BLINDBRIDGE_SERVER_PORT"); ok {
		cfg.Server.Port = v
	}
	if v := os.Getenv("BLINDBRIDGE_CORS_ORIGIN"); v != "" {
		cfg.Server.CORS.AllowedOrigins = splitAndTrim(v)
	}

	// Hub
	if v := os.Getenv("BLINDBRIDGE_HUB_PROTOCOL"); v != "" {
		cfg.Hub.Protocol = v
	}
	if v := os.Getenv("BLINDBRIDGE_HUB_HOST"); v != "" {
		cfg.Hub.Host = v
	}
	if v, ok := envInt("BLINDBRIDGE_HUB_PORT"); ok {
		cfg.Hub.Port = v
	}
	if v := os.Getenv("BLINDBRIDGE_HUB_TOKEN"); v != "" {
		cfg.Hub.Token = v
	}

	// Database
	if v := os.Getenv("BLINDBRIDGE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("BLINDBRIDGE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("BLINDBRIDGE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("BLINDBRIDGE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("BLINDBRIDGE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// envInt reads an integer environment variable.
func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitAndTrim splits a comma-separated list and trims whitespace.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	// The session token is the proxy's only credential; without it every
	// upstream call would fail with an auth error, so refuse to start.
	if c.Hub.Token == "" {
		errs = append(errs, "hub.token is required (set BLINDBRIDGE_HUB_TOKEN environment variable)")
	}
	if c.Hub.Protocol != "http" && c.Hub.Protocol != "https" {
		errs = append(errs, "hub.protocol must be http or https")
	}
	if c.Hub.Host == "" {
		errs = append(errs, "hub.host is required")
	}
	if c.Hub.Port < 1 || c.Hub.Port > 65535 {
		errs = append(errs, "hub.port must be between 1 and 65535")
	}
	if c.Hub.Timeout < 1 {
		errs = append(errs, "hub.timeout must be at least 1 second")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.Blinds.TickInterval < 1 {
		errs = append(errs, "blinds.tick_interval must be at least 1ms")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the server read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the server write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the server idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Idle) * time.Second
}

// GetTimeout returns the per-request hub timeout as a Duration.
func (c *HubConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// GetTickInterval returns the simulation tick period as a Duration.
func (c *BlindsConfig) GetTickInterval() time.Duration {
	return time.Duration(c.TickInterval) * time.Millisecond
}

// GetCommandTimeout returns the hub notification timeout as a Duration.
func (c *BlindsConfig) GetCommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeout) * time.Second
}
