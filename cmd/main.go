package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/sirupsen/logrus"

	"github.com/YJlang/gacha/internal/auth"
	"github.com/YJlang/gacha/internal/catalog"
	"github.com/YJlang/gacha/internal/collection"
	"github.com/YJlang/gacha/internal/config"
	"github.com/YJlang/gacha/internal/database"
	"github.com/YJlang/gacha/internal/gacha"
	"github.com/YJlang/gacha/internal/ledger"
	"github.com/YJlang/gacha/internal/lock"
	"github.com/YJlang/gacha/internal/logging"
	"github.com/YJlang/gacha/internal/server"
)

func main() {
	ctx := context.Background()

	// Load configuration from environment variables
	cfg, err := config.Load(ctx)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logging.New(cfg.App)
	log.Infof("Starting gacha service in %s mode", cfg.App.Environment)

	loc, err := cfg.Draw.Location()
	if err != nil {
		log.Fatalf("Invalid draw time zone: %v", err)
	}

	// Initialize database connections
	db, err := database.NewDB(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Error closing database connections: %v", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db.Postgres, log); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Catalog store, loaded lazily and warmed below
	source, err := newCatalogSource(ctx, cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to create catalog source: %v", err)
	}
	columns, err := catalog.LoadColumns(cfg.Catalog.ColumnsFile)
	if err != nil {
		log.Fatalf("Failed to load catalog columns: %v", err)
	}
	store := catalog.NewStore(catalog.NewLoader(source, columns, cfg.Catalog.Encoding, log), log)

	if records, err := store.All(ctx); err != nil {
		log.WithError(err).WithField("source", source.String()).Warn("Catalog not loaded at startup, will retry on first request")
	} else {
		log.WithFields(logrus.Fields{
			"source":  source.String(),
			"records": len(records),
		}).Info("Catalog loaded")
	}

	if cfg.Catalog.ReloadSchedule != "" {
		scheduler, err := catalog.ScheduleReload(store, cfg.Catalog.ReloadSchedule, loc, time.Minute, log)
		if err != nil {
			log.Fatalf("Failed to schedule catalog reload: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Per-user draw lock, shared across replicas when Redis is configured
	var locker lock.Locker = lock.NewKeyedMutex()
	if db.Redis != nil {
		locker = lock.NewRedisLocker(db.Redis, cfg.Redis.LockTTL, log)
	}

	gachaService := gacha.NewService(store, ledger.NewPostgresLedger(db.Postgres, loc), locker, gacha.Config{
		DailyLimit: cfg.Draw.DailyLimit,
		Location:   loc,
	}, log)
	collectionService := collection.NewService(collection.NewPostgresStore(db.Postgres), store, log)

	handler := server.NewRouter(server.Deps{
		Catalog:     store,
		Gacha:       gachaService,
		Collections: collectionService,
		Verifier:    auth.NewVerifier(cfg.Auth),
		DB:          db,
		RateLimit:   cfg.RateLimit,
		Log:         log,
	})
	srv := server.NewHTTPServer(cfg.Server, handler)

	// Start server in goroutine
	go func() {
		log.Infof("Starting gacha service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully")
}

// newCatalogSource picks where the dataset is read from
func newCatalogSource(ctx context.Context, cfg config.CatalogConfig) (catalog.Source, error) {
	if cfg.Source == "s3" {
		return catalog.NewS3Source(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Key)
	}
	return catalog.FileSource{Path: cfg.Path}, nil
}
