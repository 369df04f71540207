// ABOUTME: Configuration management for the application with YAML file and environment variable support
// ABOUTME: Defines configuration structures for the provider, cache, storage, logging and API bridge

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	appName       = "newshub"
	configPathEnv = "NEWSHUB_CONFIG"
)

// Config holds all application configuration
type Config struct {
	// API describes the news provider
	API APIConfig `yaml:"api"`

	// News holds paging and retry policy for the news service
	News NewsConfig `yaml:"news"`

	// Cache contains response cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Storage contains key-value store configuration
	Storage StorageConfig `yaml:"storage"`

	// Log contains logger configuration
	Log LogConfig `yaml:"log"`

	// Server contains local API bridge configuration
	Server ServerConfig `yaml:"server"`
}

// APIConfig holds provider transport settings
type APIConfig struct {
	// BaseURL is the provider root
	BaseURL string `yaml:"baseUrl"`

	// TimeoutMS is the fixed per-request timeout in milliseconds
	TimeoutMS int `yaml:"timeoutMs"`

	// RateLimit is the client-side request budget per second; 0 disables limiting
	RateLimit float64 `yaml:"rateLimit"`

	// RateBurst is the token bucket size
	RateBurst int `yaml:"rateBurst"`
}

// NewsConfig holds news service policy
type NewsConfig struct {
	PageSize           int `yaml:"pageSize"`
	SearchPageSize     int `yaml:"searchPageSize"`
	SearchSupersetSize int `yaml:"searchSupersetSize"`
	MaxRetries         int `yaml:"maxRetries"`
	RetryBaseDelayMS   int `yaml:"retryBaseDelayMs"`
}

// CacheConfig holds response cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/sqlite/redis)
	Type string `yaml:"type"`

	// TTLSeconds is how long a cached page stays fresh
	TTLSeconds int `yaml:"ttlSeconds"`

	// SweepIntervalSeconds is how often expired entries are purged
	SweepIntervalSeconds int `yaml:"sweepIntervalSeconds"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `yaml:"redis"`

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// StorageConfig holds key-value store backend configuration
type StorageConfig struct {
	// Type specifies the storage backend (memory/sqlite/redis)
	Type string `yaml:"type"`

	Redis  RedisConfig  `yaml:"redis"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `yaml:"address"`

	// Password is the Redis authentication password
	Password string `yaml:"password"`

	// DB is the Redis database number
	DB int `yaml:"db"`
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string `yaml:"path"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File sends logs to a rotating file instead of stderr
	File   string `yaml:"file"`
}

// ServerConfig holds API bridge configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `yaml:"port"`

	// RateLimit is the per-client request budget per second
	RateLimit float64 `yaml:"rateLimit"`
}

// Timeout returns the per-request timeout
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// RetryBaseDelay returns the first backoff delay
func (c NewsConfig) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}

// TTL returns the cache freshness window
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SweepInterval returns the cache sweep period
func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://jsonplaceholder.typicode.com",
			TimeoutMS: 10000,
			RateBurst: 1,
		},
		News: NewsConfig{
			PageSize:           20,
			SearchPageSize:     50,
			SearchSupersetSize: 100,
			MaxRetries:         2,
			RetryBaseDelayMS:   1000,
		},
		Cache: CacheConfig{
			Type:                 "memory",
			TTLSeconds:           300,
			SweepIntervalSeconds: 60,
			Redis:                RedisConfig{Address: "localhost:6379"},
			SQLite:               SQLiteConfig{Path: DefaultDataPath("cache.db")},
		},
		Storage: StorageConfig{
			Type:   "sqlite",
			Redis:  RedisConfig{Address: "localhost:6379"},
			SQLite: SQLiteConfig{Path: DefaultDataPath("newshub.db")},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Port:      "8000",
			RateLimit: 10,
		},
	}
}

// DefaultConfigPath is where Load looks when no path or env override is given
func DefaultConfigPath() string {
	if p := os.Getenv(configPathEnv); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// DefaultDataPath places name under the user's data directory
func DefaultDataPath(name string) string {
	return filepath.Join(xdg.DataHome, appName, name)
}

// LoadFromEnv loads the defaults overridden by environment variables
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	applyEnv(cfg)
	return cfg, nil
}

// Load reads defaults, overlays the YAML file at path when it exists, then applies
// environment overrides. An empty path means DefaultConfigPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.API.BaseURL = getEnvOrDefault("NEWS_API_BASE_URL", cfg.API.BaseURL)
	cfg.API.TimeoutMS = getEnvAsIntOrDefault("NEWS_API_TIMEOUT_MS", cfg.API.TimeoutMS)
	cfg.API.RateLimit = getEnvAsFloatOrDefault("NEWS_API_RATE_LIMIT", cfg.API.RateLimit)
	cfg.API.RateBurst = getEnvAsIntOrDefault("NEWS_API_RATE_BURST", cfg.API.RateBurst)

	cfg.News.PageSize = getEnvAsIntOrDefault("NEWS_PAGE_SIZE", cfg.News.PageSize)
	cfg.News.MaxRetries = getEnvAsIntOrDefault("NEWS_MAX_RETRIES", cfg.News.MaxRetries)
	cfg.News.RetryBaseDelayMS = getEnvAsIntOrDefault("NEWS_RETRY_DELAY_MS", cfg.News.RetryBaseDelayMS)

	cfg.Cache.Type = getEnvOrDefault("CACHE_TYPE", cfg.Cache.Type)
	cfg.Cache.TTLSeconds = getEnvAsIntOrDefault("CACHE_TTL", cfg.Cache.TTLSeconds)
	cfg.Cache.SweepIntervalSeconds = getEnvAsIntOrDefault("CACHE_SWEEP_INTERVAL", cfg.Cache.SweepIntervalSeconds)
	cfg.Cache.SQLite.Path = getEnvOrDefault("CACHE_SQLITE_PATH", cfg.Cache.SQLite.Path)

	cfg.Storage.Type = getEnvOrDefault("STORAGE_TYPE", cfg.Storage.Type)
	cfg.Storage.SQLite.Path = getEnvOrDefault("STORAGE_SQLITE_PATH", cfg.Storage.SQLite.Path)

	// Both backends share one Redis server unless the file says otherwise
	cfg.Cache.Redis = redisFromEnv(cfg.Cache.Redis)
	cfg.Storage.Redis = redisFromEnv(cfg.Storage.Redis)

	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvOrDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = getEnvOrDefault("LOG_FILE", cfg.Log.File)

	cfg.Server.Port = getEnvOrDefault("PORT", cfg.Server.Port)
}

func redisFromEnv(r RedisConfig) RedisConfig {
	return RedisConfig{
		Address:  getEnvOrDefault("REDIS_ADDRESS", r.Address),
		Password: getEnvOrDefault("REDIS_PASSWORD", r.Password),
		DB:       getEnvAsIntOrDefault("REDIS_DB", r.DB),
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

var validBackends = map[string]bool{"memory": true, "sqlite": true, "redis": true}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base url cannot be empty")
	}

	if c.API.TimeoutMS < 1 {
		return errors.New("request timeout must be positive")
	}

	if c.News.PageSize < 1 {
		return errors.New("page size must be at least 1")
	}

	if c.News.SearchSupersetSize < 1 {
		return errors.New("search superset size must be at least 1")
	}

	if c.News.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}

	if c.Cache.TTLSeconds < 1 {
		return errors.New("cache ttl must be at least 1 second")
	}

	if !validBackends[c.Cache.Type] {
		return errors.New("cache type must be 'memory', 'sqlite' or 'redis'")
	}

	if !validBackends[c.Storage.Type] {
		return errors.New("storage type must be 'memory', 'sqlite' or 'redis'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Storage.Type == "redis" && c.Storage.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis storage")
	}

	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	return nil
}
