package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	infraconfig "projectchart-service/internal/infrastructure/config"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Common
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	// API
	Port           string        `yaml:"port"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// Storage
	Storage     string `yaml:"storage"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	// Provider
	Provider        string        `yaml:"provider"`
	ProviderBaseURL string        `yaml:"provider_base_url"`
	ProviderAPIKey  string        `yaml:"provider_api_key"`
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
	// Cache / sessions
	CacheBackend    string        `yaml:"cache_backend"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	HistoryCacheTTL time.Duration `yaml:"history_cache_ttl"`
	// Worker
	SyncCron    string   `yaml:"sync_cron"`
	SyncTickers []string `yaml:"sync_tickers"`
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func durMS(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func listEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func orStr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDur(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

func orList(v, def []string) []string {
	if len(v) > 0 {
		return v
	}
	return def
}

// Load reads CONFIG_FILE when set, then environment variables, then applies
// defaults. A broken config file is ignored in favour of the environment.
func Load() Config {
	cfg, err := LoadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fromEnv(Config{})
	}
	return cfg
}

// LoadFile reads a YAML config file and applies environment overrides and
// defaults on top. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	var file Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, &file); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	return fromEnv(file), nil
}

func fromEnv(f Config) Config {
	return Config{
		Env:             getEnv("ENV", orStr(f.Env, "local")),
		LogLevel:        getEnv("LOG_LEVEL", orStr(f.LogLevel, "info")),
		Port:            getEnv("PORT", orStr(f.Port, infraconfig.DefaultHTTPPort)),
		CORSOrigins:     listEnv("CORS_ORIGINS", orList(f.CORSOrigins, []string{"*"})),
		RequestTimeout:  durMS("REQUEST_TIMEOUT_MS", orDur(f.RequestTimeout, 3*time.Second)),
		Storage:         getEnv("STORAGE", orStr(f.Storage, "pg")),
		DatabaseURL:     getEnv("DATABASE_URL", f.DatabaseURL),
		SQLitePath:      getEnv("SQLITE_PATH", orStr(f.SQLitePath, "data/projectchart.db")),
		Provider:        getEnv("PROVIDER", orStr(f.Provider, "fake")),
		ProviderBaseURL: getEnv("PROVIDER_BASE_URL", orStr(f.ProviderBaseURL, "https://api.santiment.net")),
		ProviderAPIKey:  getEnv("PROVIDER_API_KEY", f.ProviderAPIKey),
		ProviderTimeout: durMS("PROVIDER_TIMEOUT_MS", orDur(f.ProviderTimeout, 4*time.Second)),
		CacheBackend:    getEnv("CACHE_BACKEND", orStr(f.CacheBackend, "redis")),
		RedisAddr:       getEnv("REDIS_ADDR", orStr(f.RedisAddr, "localhost:6379")),
		RedisPassword:   getEnv("REDIS_PASSWORD", f.RedisPassword),
		RedisDB:         atoiDef(getEnv("REDIS_DB", ""), f.RedisDB),
		SessionTTL:      durMS("SESSION_TTL_MS", orDur(f.SessionTTL, infraconfig.DefaultSessionTTL)),
		HistoryCacheTTL: durMS("HISTORY_CACHE_TTL_MS", orDur(f.HistoryCacheTTL, infraconfig.DefaultHistoryCacheTTL)),
		SyncCron:        getEnv("SYNC_CRON", orStr(f.SyncCron, infraconfig.DefaultSyncCron)),
		SyncTickers:     listEnv("SYNC_TICKERS", orList(f.SyncTickers, []string{"SAN", "ETH"})),
	}
}
