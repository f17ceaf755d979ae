// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitefix/internal/adapter/storage"
	"sitefix/internal/config"
	"sitefix/internal/server/handlers"
	"sitefix/internal/service/detect"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	sessions *detect.Manager,
	businessStore *storage.BusinessStore,
	tenantID string,
	eventsSubject string,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	detectHandler := handlers.NewDetectHandler(sessions, businessStore, tenantID)
	businessHandler := handlers.NewBusinessHandler(businessStore, tenantID)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Detection API
			r.Route("/detect", func(r chi.Router) {
				r.Post("/", detectHandler.Detect)
				r.Post("/confirm", detectHandler.Confirm)
				r.Post("/manual", detectHandler.Manual)
				r.Post("/reset", detectHandler.Reset)
				r.Delete("/cache", detectHandler.ClearCache)
			})

			// Business registry API
			r.Route("/businesses", func(r chi.Router) {
				r.Get("/", businessHandler.ListBusinesses)
				r.Post("/", businessHandler.CreateBusiness)
				r.Get("/{id}", businessHandler.GetBusiness)
			})
		})
	})

	// Prometheus metrics
	router.Handle("/metrics", promhttp.Handler())

	// WebSocket endpoint streaming detection events
	router.Get("/ws/detections", handlers.DetectionStreamHandler(natsConn, eventsSubject))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
