package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Embedding EmbeddingConfig
	Pipeline  PipelineConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout      time.Duration
	PoolMaxConns        int32
	PoolMinConns        int32
	PoolMaxConnLifetime time.Duration
	PoolMaxConnIdleTime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
}

type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type PipelineConfig struct {
	Workers       int
	RateLimit     int
	FetchLimit    int
	EnableNaukri  bool
	EnableMock    bool
	SnapshotCron  string
	RetentionDays int

	// BoardTargets lists scraped ATS boards as
	// "kind:Company:https://url" entries separated by commas, where
	// kind is greenhouse or lever.
	BoardTargets string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optInt := func(key string, def int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	}
	optBool := func(key string, def bool) bool {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	optDur := func(key string, def time.Duration) time.Duration {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return def
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:      optDur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:        int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:        int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime: optDur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime: optDur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Addr:     opt("REDIS_ADDR"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
	}

	cfg.Auth = AuthConfig{
		JWTSecret: req("JWT_SECRET"),
		JWTExpiry: optDur("JWT_EXPIRY", 24*time.Hour),
	}

	cfg.Embedding = EmbeddingConfig{
		APIKey:  opt("EMBEDDING_API_KEY"),
		BaseURL: opt("EMBEDDING_BASE_URL"),
		Model:   opt("EMBEDDING_MODEL"),
	}

	cfg.Pipeline = PipelineConfig{
		Workers:       optInt("PIPELINE_WORKERS", 4),
		RateLimit:     optInt("PIPELINE_RATE_LIMIT", 0),
		FetchLimit:    optInt("PIPELINE_FETCH_LIMIT", 10),
		EnableNaukri:  optBool("ENABLE_NAUKRI", false),
		EnableMock:    optBool("ENABLE_MOCK_SOURCE", false),
		SnapshotCron:  opt("SNAPSHOT_CRON"),
		RetentionDays: optInt("JOB_RETENTION_DAYS", 30),
		BoardTargets:  opt("BOARD_TARGETS"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
