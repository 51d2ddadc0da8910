package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/engine"
	"github.com/eduforge/mathcore/backend/internal/logging"
	"github.com/eduforge/mathcore/backend/internal/monitoring"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router  *gin.Engine
	http    *http.Server
	log     *logging.Logger
	engine  *engine.Engine
	metrics *monitoring.Metrics
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithMetrics attaches a prometheus recorder. The same recorder is wired
// into the engine as its observer.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New assembles the router, the engine, and all middleware.
func New(cfg *config.Config, log *logging.Logger, opts ...Option) *Server {
	s := &Server{log: log}
	for _, opt := range opts {
		opt(s)
	}

	var engineOpts []engine.Option
	if s.metrics != nil {
		engineOpts = append(engineOpts, engine.WithObserver(s.metrics))
	}
	s.engine = engine.New(log, cfg.Engine, engineOpts...)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORS(DefaultCORSConfig()))
	router.Use(RequestID())
	if cfg.RateLimit.Enabled {
		router.Use(RateLimit(cfg.RateLimit))
	}
	if s.metrics != nil {
		router.Use(monitoring.Middleware(s.metrics))
	}

	router.GET("/", s.Root)
	router.GET("/health", s.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/api/:domain/:operation", s.Compute)
	router.GET("/stream", s.Stream)

	s.router = router
	s.http = &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Router exposes the gin engine; used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Run() error {
	s.log.Info("server starting", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")
	return s.http.Shutdown(ctx)
}
