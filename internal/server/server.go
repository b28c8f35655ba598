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

	"trendpulse/internal/config"
	"trendpulse/internal/server/handlers"
	"trendpulse/internal/service/analytics"
	"trendpulse/internal/service/forecast"
	"trendpulse/internal/service/growth"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	natsConn *nats.Conn,
	analyticsService *analytics.Service,
	benchmarkEngine *analytics.BenchmarkEngine,
	forecastGenerator *forecast.Generator,
	growthProjector *growth.Projector,
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
		AllowedOrigins:   cfg.Server.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, benchmarkEngine)
	forecastHandler := handlers.NewForecastHandler(forecastGenerator)
	growthHandler := handlers.NewGrowthHandler(growthProjector)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Analytics API
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/engagement", analyticsHandler.AnalyzeEngagement)
				r.Get("/benchmarks/{platform}", analyticsHandler.GetBenchmarks)
			})

			// Predictions API
			r.Route("/predictions", func(r chi.Router) {
				r.Get("/", forecastHandler.History)
				r.Post("/", forecastHandler.Predict)
				r.Get("/{id}", forecastHandler.GetPrediction)
			})

			// Growth API
			r.Route("/growth", func(r chi.Router) {
				r.Post("/projection", growthHandler.Project)
			})
		})
	})

	// WebSocket endpoint for real-time metrics events
	router.Get("/ws/metrics/{platform}", handlers.MetricsWebSocketHandler(natsConn, handlers.MetricsStreamTopics{
		Analytics: cfg.Analytics.EventsTopic,
		Forecast:  cfg.Forecast.EventsTopic,
	}))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
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
