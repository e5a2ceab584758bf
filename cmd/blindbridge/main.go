// blindbridge - Z-Way blind control service
//
// blindbridge fronts a Z-Way home automation hub for motorised blinds.
// It proxies validated movement commands to the hub, maintains a device
// registry merging a built-in catalog with user-added blinds, and
// simulates blind position locally since the controllers report none.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/blindbridge/migrations"

	"github.com/nerrad567/blindbridge/internal/api"
	"github.com/nerrad567/blindbridge/internal/blinds"
	"github.com/nerrad567/blindbridge/internal/device"
	"github.com/nerrad567/blindbridge/internal/hub"
	"github.com/nerrad567/blindbridge/internal/infrastructure/config"
	"github.com/nerrad567/blindbridge/internal/infrastructure/database"
	"github.com/nerrad567/blindbridge/internal/infrastructure/influxdb"
	"github.com/nerrad567/blindbridge/internal/infrastructure/logging"
	"github.com/nerrad567/blindbridge/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting blindbridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// User device store
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Device registry: built-in catalog plus the user store
	repo := device.NewSQLiteRepository(db.DB)
	registry := device.NewRegistry(device.DefaultCatalog(), repo)
	registry.SetLogger(log)
	log.Info("device registry initialised", "devices", registry.Count(ctx))

	// Hub command proxy. The session token comes from config and is
	// never logged.
	zway := hub.NewClient(cfg.Hub)
	log.Info("hub client initialised",
		"protocol", cfg.Hub.Protocol,
		"host", cfg.Hub.Host,
		"port", cfg.Hub.Port,
	)

	// Position simulation engine
	engine := blinds.NewEngine(cfg.Blinds, zway, registry, log)
	defer engine.Close()
	log.Info("blinds engine initialised", "tick_interval_ms", cfg.Blinds.TickInterval)

	// Optional MQTT status mirror
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mirrorStatus(engine, registry, mqttClient, log)
	} else {
		log.Info("MQTT disabled")
	}

	// Optional position history
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		engine.Subscribe(func(st blinds.DeviceStatus) {
			influxClient.WritePosition(st.ID, string(st.Status), st.Position)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// HTTP API and WebSocket push
	server, err := api.New(api.Deps{
		Config:   cfg.Server,
		WS:       cfg.WebSocket,
		Logger:   log,
		Registry: registry,
		Hub:      zway,
		Engine:   engine,
		DB:       db,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
	)

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("blindbridge stopped")
	return nil
}

// mirrorStatus publishes engine and registry changes to the broker.
// Publishes are best effort; failures are logged at debug since the
// client reconnects on its own.
func mirrorStatus(engine *blinds.Engine, registry *device.Registry, client *mqtt.Client, log *logging.Logger) {
	engine.Subscribe(func(st blinds.DeviceStatus) {
		payload, err := json.Marshal(st)
		if err != nil {
			return
		}
		if err := client.Publish(mqtt.StatusTopic(st.ID), payload, true); err != nil {
			log.Debug("status mirror publish failed", "device_id", st.ID, "error", err)
		}
	})
	registry.Subscribe(func(devices []device.Device) {
		payload, err := json.Marshal(devices)
		if err != nil {
			return
		}
		if err := client.Publish(mqtt.DevicesTopic(), payload, true); err != nil {
			log.Debug("device mirror publish failed", "error", err)
		}
	})
}

// getConfigPath returns the configuration file path.
// Uses the BLINDBRIDGE_CONFIG environment variable if set.
func getConfigPath() string {
	if path := os.Getenv("BLINDBRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies the infrastructure connections are healthy.
// mqttClient and influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
