package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `env:",prefix=SERVER_"`

	// Database configuration
	Database DatabaseConfig `env:",prefix=DB_"`

	// Redis configuration (optional, enables cross-replica draw locking)
	Redis RedisConfig `env:",prefix=REDIS_"`

	// Application configuration
	App AppConfig `env:",prefix=APP_"`

	// Catalog dataset configuration
	Catalog CatalogConfig `env:",prefix=CATALOG_"`

	// Draw policy configuration
	Draw DrawConfig `env:",prefix=DRAW_"`

	// Auth configuration
	Auth AuthConfig `env:",prefix=AUTH_"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `env:",prefix=RATE_LIMIT_"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string `env:"PORT,default=8080"`
	Host         string `env:"HOST,default=0.0.0.0"`
	ReadTimeout  int    `env:"READ_TIMEOUT,default=30"`  // seconds
	WriteTimeout int    `env:"WRITE_TIMEOUT,default=30"` // seconds
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host        string `env:"HOST,default=localhost"`
	Port        string `env:"PORT,default=5432"`
	User        string `env:"USER,default=postgres"`
	Password    string `env:"PASSWORD,default=postgres"`
	Name        string `env:"NAME,default=gacha"`
	SSLMode     string `env:"SSL_MODE,default=disable"`
	MaxConns    int    `env:"MAX_CONNS,default=25"`
	MinConns    int    `env:"MIN_CONNS,default=5"`
	AutoMigrate bool   `env:"AUTO_MIGRATE,default=true"`
}

// RedisConfig holds Redis configuration. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB,default=0"`
	LockTTL  time.Duration `env:"LOCK_TTL,default=10s"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	Debug       bool   `env:"DEBUG,default=false"`
}

// CatalogConfig describes where the destination dataset lives and how to read it
type CatalogConfig struct {
	Source         string `env:"SOURCE,default=file"` // file or s3
	Path           string `env:"PATH,default=data/villages.csv"`
	Encoding       string `env:"ENCODING,default=UTF-8"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Key          string `env:"S3_KEY"`
	S3Region       string `env:"S3_REGION,default=ap-northeast-2"`
	ColumnsFile    string `env:"COLUMNS_FILE"`
	ReloadSchedule string `env:"RELOAD_SCHEDULE"` // cron spec, empty disables
}

// DrawConfig holds the daily draw policy
type DrawConfig struct {
	DailyLimit int    `env:"DAILY_LIMIT,default=1"`
	TimeZone   string `env:"TIME_ZONE,default=Asia/Seoul"`
}

// AuthConfig holds bearer token verification settings
type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET,default=change-me"`
	Issuer    string `env:"ISSUER"`
}

// RateLimitConfig holds the per-process request rate limit. Zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `env:"RPS,default=0"`
	Burst int     `env:"BURST,default=100"`
}

// Load loads configuration from environment variables, reading a .env file first if present
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith loads configuration using the given lookuper
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express
func (c *Config) Validate() error {
	if c.Draw.DailyLimit < 1 {
		return fmt.Errorf("DRAW_DAILY_LIMIT must be at least 1, got %d", c.Draw.DailyLimit)
	}
	if _, err := c.Draw.Location(); err != nil {
		return err
	}
	switch c.Catalog.Source {
	case "file":
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required for file source")
		}
	case "s3":
		if c.Catalog.S3Bucket == "" || c.Catalog.S3Key == "" {
			return fmt.Errorf("CATALOG_S3_BUCKET and CATALOG_S3_KEY are required for s3 source")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}
	return nil
}

// GetDatabaseURL returns the PostgreSQL connection URL
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Enabled reports whether a Redis address is configured
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Location resolves the reference time zone used for day boundaries
func (c *DrawConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid DRAW_TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// IsDevelopment returns true if running in development environment
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
