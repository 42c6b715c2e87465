// Package rest exposes the Venus JSON API over HTTP using chi.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/venus/internal/logging"
	"github.com/dmitrijs2005/venus/internal/server/auth"
	"github.com/dmitrijs2005/venus/internal/server/metrics"
	"github.com/dmitrijs2005/venus/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	maxJSONBody = 32 << 20

	// multipart framing on top of the file itself
	multipartOverhead = 1 << 20

	imageCacheControl = "private, max-age=31536000"
)

// Pinger reports database health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	CORSOrigin    string
	CookieSecure  bool
	TokenTTL      time.Duration
	MaxUploadSize int64
	StaticDir     string
}

// Deps are the collaborators of the HTTP layer. Metrics and Gatherer may be nil.
type Deps struct {
	Users    *services.UserService
	Projects *services.ProjectService
	Images   *services.ImageService
	Resolver *auth.Resolver
	DB       Pinger
	Logger   logging.Logger
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

type Server struct {
	opts     Options
	users    *services.UserService
	projects *services.ProjectService
	images   *services.ImageService
	resolver *auth.Resolver
	db       Pinger
	logger   logging.Logger
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
}

func NewServer(opts Options, d Deps) *Server {
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Server{
		opts:     opts,
		users:    d.Users,
		projects: d.Projects,
		images:   d.Images,
		resolver: d.Resolver,
		db:       d.DB,
		logger:   logger,
		metrics:  d.Metrics,
		gatherer: d.Gatherer,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	var recorder HTTPRecorder
	if s.metrics != nil {
		recorder = s.metrics
	}

	r := chi.NewRouter()
	r.Use(NewRecoveryMiddleware(s.logger))
	r.Use(NewLoggingMiddleware(s.logger, recorder))
	r.Use(NewCORSMiddleware(s.opts.CORSOrigin))

	r.Get("/healthz", s.health)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(s.gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.Post("/auth/logout", s.logout)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/auth/user", s.currentUser)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.listProjects)
				r.Post("/", s.createProject)
				r.Get("/{id}", s.getProject)
				r.Put("/{id}", s.updateProject)
				r.Delete("/{id}", s.deleteProject)
			})

			r.Route("/images", func(r chi.Router) {
				r.Get("/", s.listImages)
				r.Post("/", s.uploadImage)
				r.Get("/{id}", s.getImage)
				r.Delete("/{id}", s.deleteImage)
			})
		})

		r.NotFound(s.apiNotFound)
	})

	if s.opts.StaticDir != "" {
		r.NotFound(spaHandler(s.opts.StaticDir))
	}

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn(r.Context(), "health check failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) apiNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
}
