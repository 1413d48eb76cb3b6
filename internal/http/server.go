package http

import (
	"net/http"
	"strings"

	"github.com/mverde/game-record/internal/config"
	"github.com/mverde/game-record/internal/docstore"
	"github.com/mverde/game-record/internal/metrics"
	"github.com/rs/cors"
)

// Domains of the hosted frontend that are always allowed, alongside the
// configured FRONTEND_URL and vercel preview deployments.
var fixedOrigins = []string{
	"https://game-record.app",
	"https://www.game-record.app",
}

func NewServer(store docstore.DocumentStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		cors:           newCors(cfg),
	}

	server.routes()
	return server
}

func newCors(cfg config.Config) *cors.Cors {
	return cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			// No FRONTEND_URL configured means a development setup: allow
			// every origin. Requests without an Origin header (native apps,
			// curl) never reach this check.
			if cfg.FrontendURL == "" {
				return true
			}
			if origin == cfg.FrontendURL {
				return true
			}
			for _, fixed := range fixedOrigins {
				if origin == fixed {
					return true
				}
			}
			return strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, ".vercel.app")
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/app-data", Chain(s.GetAppDataHandler(), paramsMiddleware))
	s.Router.Handle("PUT /api/app-data", Chain(s.SaveAppDataHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/app-data/upload", Chain(s.UploadAppDataHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /api/app-data/sets/{setID}/entries/{entryID}", Chain(s.DeleteEntryHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.cors.Handler(s.Router).ServeHTTP(w, r)
}
