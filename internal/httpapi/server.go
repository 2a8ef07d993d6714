package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/statusforge/internal/httpapi/middleware"
	"github.com/hamed0406/statusforge/internal/service"
)

// Pinger reports store health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Logger  *zap.Logger
	Service *service.Service
	Health  Pinger
}

func NewServer(l *zap.Logger, svc *service.Service, health Pinger) *Server {
	return &Server{Logger: l, Service: svc, Health: health}
}

// Router wires the API. Reads accept a public or admin key and are limited
// with the public budget; writes need an admin key and use the admin budget.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, publicRPM, publicBurst, adminRPM, adminBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(s.Logger))
	r.Use(chimw.Recoverer)
	r.Use(corsHandler(allowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Code: "NOT_FOUND", Message: "route not found"}})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"}})
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apimw.RateLimit(publicRPM, publicBurst))
			r.Use(apimw.RequireAny(keys))
			r.Get("/projects/{projectID}/monitors", s.handleListMonitors)
			r.Get("/monitors/{id}", s.handleGetMonitor)
			r.Get("/monitors/{id}/results", s.handleListResults)
		})
		r.Group(func(r chi.Router) {
			r.Use(apimw.RateLimit(adminRPM, adminBurst))
			r.Use(apimw.RequireAdmin(keys))
			r.Post("/projects/{projectID}/monitors", s.handleCreateMonitor)
			r.Put("/monitors/{id}", s.handleUpdateMonitor)
			r.Patch("/monitors/{id}", s.handleUpdateMonitor)
			r.Delete("/monitors/{id}", s.handleDeleteMonitor)
			r.Post("/monitors/{id}/check", s.handleRunCheck)
			r.Post("/monitors/{id}/results", s.handleCreateResult)
		})
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := map[string]string{"app": "healthy", "store": "healthy"}
	status := http.StatusOK
	if s.Health != nil {
		if err := s.Health.Ping(ctx); err != nil {
			s.Logger.Warn("health_store_unhealthy", zap.Error(err))
			body["store"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, body)
}
