package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-connect-backend/internal/catalog"
	"campus-connect-backend/internal/config"
	"campus-connect-backend/internal/handlers"
	"campus-connect-backend/internal/kvstore"
	"campus-connect-backend/internal/ledger"
	"campus-connect-backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// configEnv names the environment variable that overrides the config path
const configEnv = "CAMPUS_CONFIG"

func Run() {
	// Load configuration
	path := os.Getenv(configEnv)
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Open the key-value backend
	backend, err := openBackend(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer backend.Close()
	log.Info().Str("driver", cfg.Storage.Driver).Msg("Storage backend ready")

	// Initialize ledgers
	metrics := ledger.NewMetrics(prometheus.DefaultRegisterer)
	books := ledger.NewBooks(backend,
		ledger.WithMetrics(metrics),
		ledger.WithDefaultReviewAuthor(cfg.Ledger.DefaultReviewAuthor),
		ledger.WithDefaultUploader(cfg.Ledger.DefaultUploader),
	)

	// Initialize services
	wsHub := services.NewWSHub()
	deviceService := services.NewDeviceService(cfg.JWT.Secret)
	eventService := services.NewEventService(catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout), books, wsHub)
	photoService, err := services.NewPhotoService(context.Background(), books, wsHub, services.S3Options{
		Region:    cfg.AWS.Region,
		Bucket:    cfg.AWS.S3Bucket,
		AccessKey: cfg.AWS.AccessKey,
		SecretKey: cfg.AWS.SecretKey,
		Endpoint:  cfg.AWS.Endpoint,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create photo service")
	}
	if cfg.AWS.S3Bucket == "" {
		log.Warn().Msg("No S3 bucket configured, photo uploads are disabled")
	}

	// Setup router
	r := handlers.NewRouter(handlers.Dependencies{
		Devices:  deviceService,
		Events:   eventService,
		Photos:   photoService,
		Hub:      wsHub,
		Gatherer: prometheus.DefaultGatherer,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openBackend builds the storage backend selected in the config
func openBackend(ctx context.Context, cfg config.StorageConfig) (kvstore.Backend, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return kvstore.OpenSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		backend := kvstore.NewPostgresBackend(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return backend, nil
	default:
		return kvstore.NewMemoryBackend(), nil
	}
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
