// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"trendpulse/internal/adapter/insight"
	"trendpulse/internal/adapter/storage"
	"trendpulse/internal/config"
	"trendpulse/internal/server"
	"trendpulse/internal/service/analytics"
	forecastService "trendpulse/internal/service/forecast"
	"trendpulse/internal/service/growth"
)

func main() {
	// Load .env if present; real deployments configure the environment
	// directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Initialize storage adapters
	recordStore := storage.NewRecordStore(db)
	predictionStore := storage.NewPredictionStore(db)

	// Initialize the insight client. A missing API key fails startup
	// outside development; in development the forecast generator runs
	// on its deterministic fallback.
	var insightClient forecastService.InsightGenerator
	if client, err := insight.NewClient(
		cfg.Insight.APIKey,
		cfg.Insight.BaseURL,
		cfg.Insight.Model,
		cfg.Insight.Timeout,
	); err != nil {
		log.Printf("Insight client disabled: %v", err)
	} else {
		insightClient = client
	}

	// Initialize services
	aggregator := analytics.NewAggregator(recordStore)

	analyticsService := analytics.NewService(
		recordStore,
		aggregator,
		natsConn,
		analytics.ServiceConfig{
			EventsTopic:       cfg.Analytics.EventsTopic,
			WeeklyLookback:    cfg.Analytics.WeeklyLookback,
			MonthlyLookback:   cfg.Analytics.MonthlyLookback,
			ViralContentLimit: cfg.Analytics.ViralContentLimit,
		},
	)

	benchmarkEngine := analytics.NewBenchmarkEngine(
		recordStore,
		analytics.BenchmarkEngineConfig{
			SampleSize: cfg.Benchmark.SampleSize,
		},
	)

	forecastGenerator := forecastService.NewGenerator(
		aggregator,
		insightClient,
		predictionStore,
		natsConn,
		forecastService.GeneratorConfig{
			EventsTopic:    cfg.Forecast.EventsTopic,
			InsightTimeout: cfg.Forecast.InsightTimeout,
			CategoryCap:    cfg.Forecast.CategoryCap,
		},
	)

	growthProjector := growth.NewProjector()

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg,
		natsConn,
		analyticsService,
		benchmarkEngine,
		forecastGenerator,
		growthProjector,
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	log.Println("Shutting down services...")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
