package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/blindbridge/internal/blinds"
	"github.com/nerrad567/blindbridge/internal/device"
	"github.com/nerrad567/blindbridge/internal/hub"
	"github.com/nerrad567/blindbridge/internal/infrastructure/config"
	"github.com/nerrad567/blindbridge/internal/infrastructure/database"
	"github.com/nerrad567/blindbridge/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.ServerConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger
	Registry *device.Registry
	Hub      *hub.Client
	Engine   *blinds.Engine
	DB       *database.DB // optional, for pool metrics
	Version  string
}

// Server is the HTTP API server.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg      config.ServerConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	registry *device.Registry
	zway     *hub.Client
	engine   *blinds.Engine
	db       *database.DB
	version  string

	server    *http.Server
	wsHub     *Hub
	cancel    context.CancelFunc
	startTime time.Time
}

// New creates an API server with the given dependencies.
// The server is not listening until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("device registry is required")
	}
	if deps.Hub == nil {
		return nil, fmt.Errorf("hub client is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("blinds engine is required")
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		logger:   deps.Logger,
		registry: deps.Registry,
		zway:     deps.Hub,
		engine:   deps.Engine,
		db:       deps.DB,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub, wires the registry and engine into the
// hub's broadcast channels, and launches the listener in a background
// goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.startTime = time.Now()

	s.wsHub = NewHub(s.wsCfg, s.logger)
	go s.wsHub.Run(srvCtx)

	// Push the merged device list and per-blind status to WebSocket
	// clients as they change.
	s.registry.Subscribe(func(devices []device.Device) {
		s.wsHub.Broadcast("devices", map[string]any{
			"devices": devices,
			"count":   len(devices),
		})
	})
	s.engine.Subscribe(func(st blinds.DeviceStatus) {
		s.wsHub.Broadcast("status", st)
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to ten seconds
// for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
