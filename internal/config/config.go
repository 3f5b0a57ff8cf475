package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the AiCoach gateway.
type Config struct {
	HTTPPort       string
	UserJWTSecret  []byte
	AdminJWTSecret []byte
	WidgetCode     string
	Database       DatabaseConfig
	Redis          RedisConfig
	Providers      ProviderKeys
	Archive        ArchiveConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	SettingsCacheTTL time.Duration
}

// ProviderKeys holds upstream AI provider credentials
type ProviderKeys struct {
	DeepSeek string
	OpenAI   string
	Together string

	RequestTimeout time.Duration
}

// ArchiveConfig holds configuration for the S3-based ledger archive
type ArchiveConfig struct {
	Enabled       bool
	BufferSize    int
	FlushSize     int
	FlushInterval time.Duration
	S3Bucket      string
	S3Region      string
	S3Prefix      string
	PodName       string
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getEnvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		HTTPPort:       getEnvString("HTTP_PORT", "8080"),
		UserJWTSecret:  []byte(getEnvString("USER_JWT_SECRET", "supersecretkey")),
		AdminJWTSecret: []byte(getEnvString("ADMIN_JWT_SECRET", "adminsecretkey")),
		WidgetCode:     getEnvString("INTERNAL_WIDGET_CODE", "SYS_INTERNAL_WIDGET"),
		Database: DatabaseConfig{
			URL:             dbURL,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Redis: RedisConfig{
			Address:          getEnvString("REDIS_ADDR", "localhost:6379"),
			Password:         getEnvString("REDIS_PASSWORD", ""),
			DB:               getEnvInt("REDIS_DB", 0),
			PoolSize:         getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:     getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:      getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:      getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:     getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			SettingsCacheTTL: getEnvDuration("SETTINGS_CACHE_TTL", 5*time.Minute),
		},
		Providers: ProviderKeys{
			DeepSeek:       os.Getenv("DEEPSEEK_API_KEY"),
			OpenAI:         os.Getenv("OPENAI_API_KEY"),
			Together:       os.Getenv("TOGETHER_AI_KEY"),
			RequestTimeout: getEnvDuration("PROVIDER_REQUEST_TIMEOUT", 120*time.Second),
		},
		Archive: ArchiveConfig{
			Enabled:       getEnvBool("LEDGER_ARCHIVE_ENABLED", false),
			BufferSize:    getEnvInt("LEDGER_ARCHIVE_BUFFER_SIZE", 1000),
			FlushSize:     getEnvInt("LEDGER_ARCHIVE_FLUSH_SIZE", 100),
			FlushInterval: getEnvDuration("LEDGER_ARCHIVE_FLUSH_INTERVAL", time.Minute),
			S3Bucket:      os.Getenv("LEDGER_ARCHIVE_S3_BUCKET"),
			S3Region:      getEnvString("LEDGER_ARCHIVE_S3_REGION", "us-east-1"),
			S3Prefix:      getEnvString("LEDGER_ARCHIVE_S3_PREFIX", "ledger/"),
			PodName:       getEnvString("POD_NAME", "aicoach-0"),
		},
	}

	return cfg, nil
}
