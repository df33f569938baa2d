package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 環境変数をクリア
	envVars := []string{
		"PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"STORAGE_DRIVER", "CATALOG_MOVIES_PATH", "CATALOG_SCHEDULES_PATH",
		"SEAT_MAP_DIR", "SEAT_MAP_SEED_PATH", "RESERVATION_LOG_PATH", "MIGRATIONS_PATH",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_ENABLED",
		"ENGINE_MAX_COMMIT_ATTEMPTS", "ENGINE_LOCK_TTL", "ENGINE_CACHE_TTL",
	}
	for _, env := range envVars {
		os.Unsetenv(env)
	}

	cfg := Load()

	// Server defaults
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	// Storage defaults
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "data/movies.json", cfg.Storage.MoviesPath)
	assert.Equal(t, "data/schedules.json", cfg.Storage.SchedulesPath)
	assert.Equal(t, "data/seat_maps", cfg.Storage.SeatMapDir)
	assert.Equal(t, "data/seat_availability.json", cfg.Storage.SeatMapSeedPath)
	assert.Equal(t, "data/reservations.jsonl", cfg.Storage.ReservationLog)
	assert.Equal(t, "migrations", cfg.Storage.MigrationsPath)

	// Database defaults
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "movie_reservation", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	// Redis defaults
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.Redis.Enabled)

	// Engine defaults
	assert.Equal(t, 5, cfg.Engine.MaxCommitAttempts)
	assert.Equal(t, 10*time.Second, cfg.Engine.LockTTL)
	assert.Equal(t, 30*time.Second, cfg.Engine.CacheTTL)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "60s")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("SEAT_MAP_DIR", "/var/lib/app/seat_maps")
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "1")
	t.Setenv("ENGINE_MAX_COMMIT_ATTEMPTS", "10")
	t.Setenv("ENGINE_LOCK_TTL", "5s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/app/seat_maps", cfg.Storage.SeatMapDir)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "testdb", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 10, cfg.Engine.MaxCommitAttempts)
	assert.Equal(t, 5*time.Second, cfg.Engine.LockTTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	// 不正な値はデフォルトへフォールバックする
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("REDIS_ENABLED", "not-a-bool")
	t.Setenv("ENGINE_LOCK_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Engine.LockTTL)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host: "localhost", Port: "5432", User: "postgres",
		Password: "secret", DBName: "movie_reservation", SSLMode: "disable",
	}

	dsn := cfg.DSN()

	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=movie_reservation sslmode=disable", dsn)
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := &RedisConfig{Host: "redis.example.com", Port: "6380"}

	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}
