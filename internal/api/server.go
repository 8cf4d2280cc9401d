package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/busylight-core/internal/command"
	"github.com/nerrad567/busylight-core/internal/infrastructure/config"
	"github.com/nerrad567/busylight-core/internal/infrastructure/logging"
	"github.com/nerrad567/busylight-core/internal/metrics"
	"github.com/nerrad567/busylight-core/internal/orchestrator"
	"github.com/nerrad567/busylight-core/internal/rules"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Engine is the decision engine surface the API drives.
// orchestrator.Engine satisfies this interface.
type Engine interface {
	Apply(ctx context.Context, cmd command.Command)
	RulesChanged(ctx context.Context)
	State() orchestrator.State
	RecentLogs() []string
}

// RuleStore is the rule registry surface the API manages.
// rules.Registry satisfies this interface.
type RuleStore interface {
	Get(ctx context.Context, id string) (*rules.Rule, error)
	List(ctx context.Context) ([]rules.Rule, error)
	Create(ctx context.Context, rule *rules.Rule) error
	Update(ctx context.Context, rule *rules.Rule) error
	Delete(ctx context.Context, id string) error
}

// MetricsSource serves per-rule activity summaries.
// metrics.Store satisfies this interface.
type MetricsSource interface {
	Summary(ruleID string, nowMS int64) (metrics.Summary, bool)
	Delete(ctx context.Context, ruleID string)
}

// StatePublisher publishes the retained daemon state to the signal bus.
// mqtt.Client satisfies this interface.
type StatePublisher interface {
	PublishRetained(topic string, payload []byte) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config          config.APIConfig
	Logger          *logging.Logger
	Engine          Engine
	Rules           RuleStore
	Metrics         MetricsSource
	Publisher       StatePublisher // optional
	StateTopic      string         // required when Publisher is set
	DefaultPeriodMS int
	Version         string
}

// Server is the HTTP control plane for the busylight daemon.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg             config.APIConfig
	logger          *logging.Logger
	engine          Engine
	rules           RuleStore
	metrics         MetricsSource
	publisher       StatePublisher
	stateTopic      string
	defaultPeriodMS int
	version         string
	server          *http.Server
	hub             *Hub
	cancel          context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, engine, rules, metrics)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if deps.Rules == nil {
		return nil, fmt.Errorf("rule store is required")
	}
	if deps.Metrics == nil {
		return nil, fmt.Errorf("metrics source is required")
	}

	defaultPeriod := deps.DefaultPeriodMS
	if defaultPeriod <= 0 {
		defaultPeriod = 600
	}

	return &Server{
		cfg:             deps.Config,
		logger:          deps.Logger,
		engine:          deps.Engine,
		rules:           deps.Rules,
		metrics:         deps.Metrics,
		publisher:       deps.Publisher,
		stateTopic:      deps.StateTopic,
		defaultPeriodMS: defaultPeriod,
		version:         deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, and launches the
// HTTP listener in a background goroutine. The server can be stopped
// with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.logger)
	go s.hub.Run(srvCtx)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server listening", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
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

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
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

// broadcastState pushes the current engine state to WebSocket clients
// and, when configured, to the retained MQTT state topic.
func (s *Server) broadcastState() {
	state := s.engine.State()

	if s.hub != nil {
		s.hub.Broadcast(ChannelState, state)
	}

	if s.publisher != nil && s.stateTopic != "" {
		payload, err := marshalState(state)
		if err != nil {
			s.logger.Error("marshalling state for publication", "error", err)
			return
		}
		if err := s.publisher.PublishRetained(s.stateTopic, payload); err != nil {
			s.logger.Warn("publishing retained state", "error", err)
		}
	}
}
