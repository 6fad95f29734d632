package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MinGeocodeInterval - нижняя граница паузы между запросами к геокодеру (1 запрос в секунду)
	MinGeocodeInterval = time.Second
	// MaxGeocodeBatch - жесткий потолок размера пакета геокодирования
	MaxGeocodeBatch = 100
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`
	AlertMinSeverity  int           `env:"ALERT_MIN_SEVERITY" envDefault:"4"`

	// Ingestion Config
	SourcesFile       string        `env:"SOURCES_FILE" envDefault:"sources.yml"`
	IngestSchedule    string        `env:"INGEST_SCHEDULE" envDefault:"@every 15m"`
	IngestConcurrency int           `env:"INGEST_CONCURRENCY" envDefault:"2"`
	ProviderTimeout   time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"15s"`
	MinTextLength     int           `env:"MIN_TEXT_LENGTH" envDefault:"20"`
	BotAnalyst        string        `env:"BOT_ANALYST" envDefault:"osint-bot"`
	Sources           []SourceConfig

	// Geocoding Config
	GeocoderURL        string        `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent  string        `env:"GEOCODER_USER_AGENT" envDefault:"osint-pipeline/1.0"`
	GeocoderEmail      string        `env:"GEOCODER_EMAIL"`
	GeocodeMinInterval time.Duration `env:"GEOCODE_MIN_INTERVAL" envDefault:"1s"`
	GeocodeBatchLimit  int           `env:"GEOCODE_BATCH_LIMIT" envDefault:"25"`
	EnrichSchedule     string        `env:"ENRICH_SCHEDULE" envDefault:"@every 10m"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		WebhookURL:         os.Getenv("WEBHOOK_URL"),
		WebhookSecret:      os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:     getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:  getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:   getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		AlertMinSeverity:   getEnvAsInt("ALERT_MIN_SEVERITY", 4),
		SourcesFile:        getEnv("SOURCES_FILE", "sources.yml"),
		IngestSchedule:     getEnv("INGEST_SCHEDULE", "@every 15m"),
		IngestConcurrency:  getEnvAsInt("INGEST_CONCURRENCY", 2),
		ProviderTimeout:    getEnvAsDuration("PROVIDER_TIMEOUT", 15*time.Second),
		MinTextLength:      getEnvAsInt("MIN_TEXT_LENGTH", 20),
		BotAnalyst:         getEnv("BOT_ANALYST", "osint-bot"),
		GeocoderURL:        getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:  getEnv("GEOCODER_USER_AGENT", "osint-pipeline/1.0"),
		GeocoderEmail:      os.Getenv("GEOCODER_EMAIL"),
		GeocodeMinInterval: getEnvAsDuration("GEOCODE_MIN_INTERVAL", time.Second),
		GeocodeBatchLimit:  getEnvAsInt("GEOCODE_BATCH_LIMIT", 25),
		EnrichSchedule:     getEnv("ENRICH_SCHEDULE", "@every 10m"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	sources, err := LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources

	cfg.normalize()
	return cfg, nil
}

// normalize приводит значения к допустимым границам
func (c *Config) normalize() {
	if c.GeocodeMinInterval < MinGeocodeInterval {
		c.GeocodeMinInterval = MinGeocodeInterval
	}
	c.GeocodeBatchLimit = ClampBatchLimit(c.GeocodeBatchLimit)
	if c.DBMaxConns < 1 {
		c.DBMaxConns = 1
	}
	if c.IngestConcurrency < 1 {
		c.IngestConcurrency = 1
	}
	if c.MinTextLength < 0 {
		c.MinTextLength = 0
	}
	if c.WebhookMaxRetries < 1 {
		c.WebhookMaxRetries = 1
	}
}

// ClampBatchLimit ограничивает размер пакета геокодирования диапазоном [1, MaxGeocodeBatch]
func ClampBatchLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxGeocodeBatch {
		return MaxGeocodeBatch
	}
	return limit
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
