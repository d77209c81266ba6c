package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/jekabolt/salon-analytics/internal/analytics"
	"github.com/jekabolt/salon-analytics/internal/dependency"
	"github.com/jekabolt/salon-analytics/internal/middleware"
	"github.com/jekabolt/salon-analytics/internal/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Config is the configuration for the http server
type Config struct {
	Port           string           `mapstructure:"port"`
	Address        string           `mapstructure:"address"`
	AllowedOrigins []string         `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	RateLimit      ratelimit.Config `mapstructure:"rate_limit"`
}

// HealthCheck is reported by /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Server is the http server
type Server struct {
	hs        *http.Server
	c         *Config
	dashboard dependency.Dashboard
	analytics analytics.Config
	limiter   *ratelimit.Limiter
	checks    []HealthCheck
	now       func() time.Time
	done      chan struct{}
}

// New creates a new server
func New(c *Config, d dependency.Dashboard, ac analytics.Config, checks ...HealthCheck) *Server {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
	return &Server{
		c:         c,
		dashboard: d,
		analytics: ac,
		limiter:   ratelimit.NewLimiter(c.RateLimit),
		checks:    checks,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return isOriginAllowed(origin, s.c.AllowedOrigins)
		},
		AllowedMethods: []string{http.MethodHead, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", middleware.SlotHeader},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
	}))
	r.Use(chimw.RequestID)
	r.Use(middleware.ClientIdentifier)
	r.Use(middleware.Logger(slog.Default()))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(chimw.Timeout(s.c.RequestTimeout))
		r.Use(middleware.RateLimit(s.limiter, renderError))

		r.Get("/dashboard", s.getDashboard)
		r.Get("/export.csv", s.exportDashboard("csv"))
		r.Get("/export.xlsx", s.exportDashboard("xlsx"))
		r.Get("/{section}", s.getSection)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Render(w, r, ErrNotFound)
	})

	return r
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              listenerAddr,
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer close(s.done)
		slog.Default().InfoContext(ctx, fmt.Sprintf("salon-analytics new listener on: http://%v", listenerAddr))
		err := s.hs.ListenAndServe()
		if err == http.ErrServerClosed {
			slog.Default().InfoContext(ctx, "http server returned")
			return
		}
		slog.Default().ErrorContext(ctx, "http server exited with an error",
			slog.String("err", err.Error()),
		)
	}()
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.limiter.Stop()
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	// Always allow localhost origins
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "https://localhost:") {
		return true
	}
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || origin == allowedOrigin {
			return true
		}
	}
	return false
}
