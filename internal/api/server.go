// Package api serves the active catalog over HTTP and lets clients trigger
// an update.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blackwell-systems/cardctl/internal/cache"
	"github.com/blackwell-systems/cardctl/internal/logging"
	"github.com/blackwell-systems/cardctl/internal/updater"
)

// Updater is the part of updater.Updater the API needs.
type Updater interface {
	NewVersionAvailable(ctx context.Context) (bool, error)
	LocalVersion() (string, bool, error)
	Update(ctx context.Context) updater.Result
}

// Server is the HTTP server for the catalog API.
type Server struct {
	cache   *cache.Cache
	updater Updater
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server reading from c. u may be nil, which disables
// the update routes.
func NewServer(c *cache.Cache, u Updater) *Server {
	s := &Server{
		cache:   c,
		updater: u,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(generationHeader(s.cache))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/update", s.handleUpdateAvailable)
		r.Post("/update", s.handleUpdate)

		r.Get("/cards", s.handleListCards)
		r.Get("/cards/{id}", s.handleCard)
		r.Get("/sets", s.handleListSets)
		r.Get("/sets/{name}", s.handleSet)
		r.Get("/banlists", s.handleBanlists)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// POST /api/update blocks for the whole attempt.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	logging.FromContext(context.Background()).Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// requestLogger logs one line per request through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond))
	})
}

// generationHeader tags responses with the cache generation so clients can
// tell when the catalog was replaced.
func generationHeader(c *cache.Cache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Catalog-Generation", strconv.FormatUint(c.Generation(), 10))
			next.ServeHTTP(w, r)
		})
	}
}
