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

	"sitefix/internal/adapter/directory"
	"sitefix/internal/adapter/storage"
	"sitefix/internal/config"
	"sitefix/internal/server"
	"sitefix/internal/service/detect"
	"sitefix/internal/service/position"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
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
	businessStore := storage.NewBusinessStore(db)
	affinityStore := storage.NewAffinityStore(db)
	detectionStore := storage.NewDetectionStore(db)

	// Initialize the directory lookup provider
	var directoryProvider detect.Directory
	if cfg.Directory.Provider == "registry" {
		directoryProvider = directory.NewRegistry(businessStore, cfg.Detect.TenantID)
	} else {
		directoryProvider = directory.NewClient(directory.Config{
			BaseURL: cfg.Directory.BaseURL,
			APIKey:  cfg.Directory.APIKey,
			Timeout: cfg.Directory.Timeout,
		})
	}

	// One resolution session per reporting device, built on demand
	sessions := detect.NewManager(func(deviceID string) *detect.ManagedSession {
		feed := position.NewDeviceFeed()

		sampler := position.NewSampler(feed, position.SamplerConfig{
			Timeout:   cfg.Detect.PositionTimeout,
			Freshness: cfg.Detect.PositionFreshness,
		})
		collector := position.NewCollector(feed, cfg.Detect.WiFiBudget)

		session := detect.NewSession(
			sampler,
			collector,
			directoryProvider,
			affinityStore,
			detectionStore,
			natsConn,
			detect.RetryConfig{
				MaxAttempts: cfg.Detect.MaxAttempts,
				Backoff:     cfg.Detect.RetryBackoff,
			},
			detect.SessionConfig{
				TenantID:                cfg.Detect.TenantID,
				SearchRadiusMeters:      cfg.Detect.SearchRadiusMeters,
				CacheTTL:                cfg.Detect.CacheTTL,
				MovementThresholdMeters: cfg.Detect.MovementThresholdMeters,
				EventsSubject:           cfg.Detect.EventsSubject,
			},
		)

		return &detect.ManagedSession{
			Session: session,
			Feed:    feed,
		}
	})

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		natsConn,
		sessions,
		businessStore,
		cfg.Detect.TenantID,
		cfg.Detect.EventsSubject,
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
