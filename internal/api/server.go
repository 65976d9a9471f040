package api

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/sadopc/efficia/internal/metrics"
	"golang.org/x/time/rate"
)

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	BodyLimit      string
	RateLimit      float64 // requests per second per client, 0 disables
	DefaultLimit   int
	MaxLimit       int
	Clock          func() time.Time
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:           "127.0.0.1:8000",
		AllowedOrigins: []string{"*"},
		BodyLimit:      "64K",
		DefaultLimit:   100,
		MaxLimit:       1000,
		Clock:          time.Now,
	}
}

// Server represents the HTTP API server
type Server struct {
	echo   *echo.Echo
	config *ServerConfig
	store  ActivityStore
	logger zerolog.Logger
}

// NewServer creates a new API server
func NewServer(config *ServerConfig, store ActivityStore, logger zerolog.Logger) *Server {
	if config.Clock == nil {
		config.Clock = time.Now
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(io.Discard)
	e.Validator = NewValidator()
	e.HTTPErrorHandler = httpErrorHandler

	s := &Server{
		echo:   e,
		config: config,
		store:  store,
		logger: logger.With().Str("component", "api").Logger(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware stack
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.logger.Debug()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = s.logger.Warn().Err(v.Error)
			}
			ev.Str("id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	s.echo.Use(metrics.Middleware())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	if s.config.BodyLimit != "" {
		s.echo.Use(middleware.BodyLimit(s.config.BodyLimit))
	}

	if s.config.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStore(rate.Limit(s.config.RateLimit)),
		))
	}
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readyCheck)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	activityHandler := NewActivityHandler(s.store, s.config, s.logger)
	s.echo.POST("/activity", activityHandler.Create)
	s.echo.GET("/activity", activityHandler.List)
	s.echo.GET("/activity/:id", activityHandler.Get)
	s.echo.GET("/daily-summary", activityHandler.DailySummary)
}

// healthCheck returns basic health status
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.config.Clock().Format(time.RFC3339),
	})
}

// readyCheck checks if the store can be reached
func (s *Server) readyCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Readiness check failed")
		return ErrorServiceUnavailable(c, "database unavailable")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   s.config.Clock().Format(time.RFC3339),
	})
}

// Start starts the HTTP server. It blocks until the server stops and
// returns http.ErrServerClosed after Shutdown.
// Listen binds the configured address without serving. Start reuses the
// bound listener, so a caller can report readiness between the two.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	}
	s.echo.Listener = ln
	return nil
}

// Start serves on the listener bound by Listen, binding one first if needed.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.config.Addr).Msg("Starting API server")
	return s.echo.Start(s.config.Addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Stopping API server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance for testing
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
