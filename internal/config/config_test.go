package config

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetServerAddr())
	assert.Equal(t, 1, cfg.Draw.DailyLimit)
	assert.Equal(t, "Asia/Seoul", cfg.Draw.TimeZone)
	assert.Equal(t, "file", cfg.Catalog.Source)
	assert.Equal(t, "UTF-8", cfg.Catalog.Encoding)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=gacha sslmode=disable",
		cfg.Database.GetDatabaseURL())

	loc, err := cfg.Draw.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SERVER_PORT":       "9090",
		"DRAW_DAILY_LIMIT":  "3",
		"DRAW_TIME_ZONE":    "UTC",
		"REDIS_ADDR":        "localhost:6379",
		"REDIS_LOCK_TTL":    "2s",
		"CATALOG_SOURCE":    "s3",
		"CATALOG_S3_BUCKET": "datasets",
		"CATALOG_S3_KEY":    "villages.csv",
		"APP_ENVIRONMENT":   "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Draw.DailyLimit)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "datasets", cfg.Catalog.S3Bucket)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero daily limit", env: map[string]string{"DRAW_DAILY_LIMIT": "0"}},
		{name: "unknown zone", env: map[string]string{"DRAW_TIME_ZONE": "Mars/Olympus"}},
		{name: "unknown source", env: map[string]string{"CATALOG_SOURCE": "ftp"}},
		{name: "s3 without key", env: map[string]string{"CATALOG_SOURCE": "s3", "CATALOG_S3_BUCKET": "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			assert.Error(t, err)
		})
	}
}
