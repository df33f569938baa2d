package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Engine   EngineConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig は永続化層の設定
// Driver は "file"（デフォルト）または "postgres"
type StorageConfig struct {
	Driver          string
	MoviesPath      string
	SchedulesPath   string
	SeatMapDir      string
	SeatMapSeedPath string
	ReservationLog  string
	MigrationsPath  string
}

// DatabaseConfig はデータベース設定（postgresドライバ使用時）
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// EngineConfig は予約エンジンの設定
type EngineConfig struct {
	// MaxCommitAttempts は楽観的コミットの最大試行回数
	MaxCommitAttempts int
	// LockTTL は上映単位の分散ロックの有効期限
	LockTTL time.Duration
	// CacheTTL は空席数キャッシュの有効期限
	CacheTTL time.Duration
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Driver:          getEnv("STORAGE_DRIVER", "file"),
			MoviesPath:      getEnv("CATALOG_MOVIES_PATH", "data/movies.json"),
			SchedulesPath:   getEnv("CATALOG_SCHEDULES_PATH", "data/schedules.json"),
			SeatMapDir:      getEnv("SEAT_MAP_DIR", "data/seat_maps"),
			SeatMapSeedPath: getEnv("SEAT_MAP_SEED_PATH", "data/seat_availability.json"),
			ReservationLog:  getEnv("RESERVATION_LOG_PATH", "data/reservations.jsonl"),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "movie_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
		},
		Engine: EngineConfig{
			MaxCommitAttempts: getIntEnv("ENGINE_MAX_COMMIT_ATTEMPTS", 5),
			LockTTL:           getDurationEnv("ENGINE_LOCK_TTL", 10*time.Second),
			CacheTTL:          getDurationEnv("ENGINE_CACHE_TTL", 30*time.Second),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
