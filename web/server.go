// Package web serves the interactive bug-report dashboard.
//
// The page is rendered once with html/template; after that every filter
// change is a datastar request answered over server-sent events with a
// morph patch of the dashboard fragment.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/bugdash/engine"
)

// Config holds configuration for the dashboard server.
type Config struct {
	Relation        engine.RecordView
	Addr            string
	SessionSecret   string
	ShutdownTimeout time.Duration
	TopCategories   int
	KPISeverities   []string
	Palette         string
	Locale          string
	Logger          *slog.Logger
	Registry        *prometheus.Registry // nil creates a private registry
}

// Server is the dashboard HTTP server.
type Server struct {
	relation        engine.RecordView
	addr            string
	shutdownTimeout time.Duration
	logger          *slog.Logger
	handlers        *Handlers
	metrics         *Metrics
	router          chi.Router
}

// NewServer creates a server over an already loaded relation.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Relation == nil {
		return nil, fmt.Errorf("%w: no relation", engine.ErrDataUnavailable)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		cfg.Logger.Warn("no session secret configured, sessions will not survive a restart")
		secret = securecookie.GenerateRandomKey(32)
	}
	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(86400) // 1 day
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	metrics := NewMetrics(cfg.Registry)
	metrics.datasetRows.Set(float64(cfg.Relation.Len()))

	handlers, err := NewHandlers(HandlerDeps{
		Relation:      cfg.Relation,
		Sessions:      sessionStore,
		Metrics:       metrics,
		Logger:        cfg.Logger,
		TopCategories: cfg.TopCategories,
		KPISeverities: cfg.KPISeverities,
		Palette:       cfg.Palette,
		Locale:        cfg.Locale,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		relation:        cfg.Relation,
		addr:            cfg.Addr,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          cfg.Logger,
		handlers:        handlers,
		metrics:         metrics,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/", s.handlers.Page)
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/sse", s.handlers.DashboardSSE)
		r.Post("/filter", s.handlers.Filter)
		r.Post("/reset", s.handlers.Reset)
	})
	r.Get("/charts/{file}", s.handlers.Chart)
	r.Get("/healthz", s.handlers.Health)
	r.Handle("/metrics", s.metrics.Handler())

	return r
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting dashboard", "addr", s.addr, "rows", s.relation.Len())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down dashboard")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
