package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/YJlang/gacha/internal/config"
)

// DB holds database connections
type DB struct {
	Postgres *sqlx.DB
	// Redis is nil when REDIS_ADDR is not configured
	Redis *redis.Client
}

// NewDB creates new database connections using config
func NewDB(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*DB, error) {
	// Connect to PostgreSQL
	postgres, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Configure connection pool
	postgres.SetMaxOpenConns(cfg.Database.MaxConns)
	postgres.SetMaxIdleConns(cfg.Database.MinConns)
	postgres.SetConnMaxLifetime(time.Hour)

	// Test PostgreSQL connection
	if err := postgres.PingContext(ctx); err != nil {
		postgres.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	log.WithField("database", cfg.Database.Name).Info("Successfully connected to PostgreSQL")

	db := &DB{Postgres: postgres}

	if cfg.Redis.Enabled() {
		client, err := NewRedis(ctx, cfg.Redis)
		if err != nil {
			postgres.Close()
			return nil, err
		}
		log.WithField("addr", cfg.Redis.Addr).Info("Successfully connected to Redis")
		db.Redis = client
	}

	return db, nil
}

// NewRedis opens and pings a Redis client
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

// Ping checks every configured backend
func (db *DB) Ping(ctx context.Context) error {
	if err := db.Postgres.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres unavailable: %w", err)
	}
	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis unavailable: %w", err)
		}
	}
	return nil
}

// Close closes all database connections
func (db *DB) Close() error {
	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	if err := db.Postgres.Close(); err != nil {
		return fmt.Errorf("failed to close PostgreSQL: %w", err)
	}

	return nil
}
