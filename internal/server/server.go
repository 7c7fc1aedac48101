// Package server exposes the ledger parsing pipeline as an HTTP
// service: a multipart upload endpoint backed by the on-disk result
// cache and per-client rate limiting, plus health and engine probes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/ledgerocr/ledgerocr/cache"
	"github.com/ledgerocr/ledgerocr/internal/config"
	"github.com/ledgerocr/ledgerocr/ratelimit"
)

// Server is the ledgerocr HTTP server.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	cache      *cache.Cache
	limiter    *ratelimit.Registry
	logger     *slog.Logger

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host overrides the configured bind address when non-empty.
	Host string
	// Port overrides the configured port when non-zero.
	Port int
	// ConfigManager provides configuration with hot-reload support.
	ConfigManager *config.Manager
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	appCfg := cfg.ConfigManager.Get()
	host := appCfg.Server.Host
	if cfg.Host != "" {
		host = cfg.Host
	}
	port := appCfg.Server.Port
	if cfg.Port != 0 {
		port = cfg.Port
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		limiter:   ratelimit.NewWithConfig(appCfg.LimitConfig()),
		logger:    cfg.Logger,
	}

	if appCfg.Cache.Enabled {
		c, err := cache.NewWithConfig(appCfg.CacheConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		s.cache = c
	}

	// Parse and OCR settings are read from the manager per request, so
	// a config reload takes effect without a restart. Bind address,
	// cache placement and rate limits are fixed at construction.
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		cfg.Logger.Info("configuration reloaded")
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ocr/parse", s.handleParse)
	mux.HandleFunc("GET /api/ocr/health", s.handleHealth)
	mux.HandleFunc("GET /api/ocr/tesseract", s.handleTesseract)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: appCfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	})

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		Handler: corsMiddleware.Handler(s.accessLog(mux)),
		// OCR of a multi-page scan can run for minutes, so writes get
		// far more room than reads.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or
// an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the server's root HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// accessLog logs one line per request with a generated request id.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"id", uuid.New().String(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", clientIP(r),
			"duration", time.Since(start),
		)
	})
}

// clientIP identifies the caller for rate limiting. Proxied requests
// carry the original address in X-Forwarded-For, possibly as a list.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
