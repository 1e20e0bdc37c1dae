package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"valuation/internal/core"
	applog "valuation/internal/log"
	"valuation/internal/middleware/ratelimit"
	"valuation/internal/middleware/security"
	"valuation/internal/middleware/trace"
	"valuation/internal/services"
	appweb "valuation/web"
)

// Valuations is the application service the handlers drive.
type Valuations interface {
	Calculate(ctx context.Context, raw core.RawInputs) (services.Calculation, error)
	Clear(ctx context.Context) (int, string, error)
	History() core.History
	Ping(ctx context.Context) error
}

// Options tunes the server; zero values fall back to defaults.
type Options struct {
	Logger       *applog.Logger
	RateLimitRPM int
}

type Server struct {
	http.Server
	templates  *template.Template
	valuations Valuations
	limiter    *ratelimit.Limiter
	tracer     *trace.Middleware
	logger     *applog.Logger
	started    time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, valuations Valuations, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	rlConfig := ratelimit.DefaultConfig()
	if opts.RateLimitRPM > 0 {
		rlConfig.RequestsPerMinute = opts.RateLimitRPM
	}

	r := chi.NewRouter()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		valuations: valuations,
		limiter:    ratelimit.NewLimiter(rlConfig),
		tracer:     trace.NewMiddleware(clientIP),
		logger:     logger,
		started:    time.Now(),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	r.Use(applog.Middleware(logger))
	r.Use(s.tracer.Middleware)
	r.Use(applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	}))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.limiter.Middleware(clientIP, s.handleRateLimited, http.MethodPost, http.MethodDelete))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Post("/valuations", s.handleCalculate)
	r.Post("/history/clear", s.handleClearHistory)
	r.Delete("/history", s.handleClearHistory)

	// UI partials
	r.Post("/ui/normalize/{field}", s.handleNormalize)
	r.Get("/ui/history", s.handleHistoryPartial)

	r.Get("/api/history", s.handleHistorySeries)

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	return s
}

// Shutdown stops the rate limiter and then the HTTP server. Safe to call twice.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Info("HTTP server shutting down", applog.FieldOperation, applog.OpShutdown)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// events returns a structured logger carrying the request ID.
func events(r *http.Request) *applog.StructuredLogger {
	return applog.NewStructuredLogger(applog.FromContext(r.Context()))
}

func (s *Server) logTemplateError(r *http.Request, name string, err error) {
	events(r).LogError(r.Context(), "Template execution failed", err,
		applog.ComponentTemplate, applog.OpRender,
		applog.LogFields{"template": name})
}
