// Package server exposes reports and reading intake over HTTP. It is a
// thin layer over the store and the scoring builder; all scoring rules
// live in internal/scoring.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/scoring"
	"github.com/cleardwell/assess-cli/internal/store"
)

// Options tune server behavior; zero values fall back to defaults.
type Options struct {
	ShareTTL        time.Duration // share link lifetime, default 7 days
	ShareRatePerMin float64       // share link creations per minute, default 10
	Now             func() time.Time
}

type Server struct {
	store        store.Store
	builder      *scoring.Builder
	catalog      *catalog.Catalog
	shareTTL     time.Duration
	shareLimiter *rate.Limiter
	now          func() time.Time
}

func New(st store.Store, builder *scoring.Builder, cat *catalog.Catalog, opts Options) *Server {
	if opts.ShareTTL <= 0 {
		opts.ShareTTL = 7 * 24 * time.Hour
	}
	if opts.ShareRatePerMin <= 0 {
		opts.ShareRatePerMin = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		store:        st,
		builder:      builder,
		catalog:      cat,
		shareTTL:     opts.ShareTTL,
		shareLimiter: rate.NewLimiter(rate.Limit(opts.ShareRatePerMin/60.0), int(opts.ShareRatePerMin)),
		now:          opts.Now,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/properties", s.handleListProperties)
		r.Get("/properties/{id}/report", s.handleReport)
		r.Post("/properties/{id}/share", s.handleCreateShare)
		r.Post("/readings", s.handleCreateReading)
		r.Get("/shared/{token}/report", s.handleSharedReport)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
