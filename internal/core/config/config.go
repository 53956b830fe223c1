package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is the config file read when none is given. Unlike an explicit
// path it may be absent.
const DefaultPath = "uniqterms.yaml"

const envPrefix = "UNIQTERMS_"

// Cache store types.
const (
	CacheMemory   = "memory"
	CachePostgres = "postgres"
	CacheBadger   = "badger"
	CacheTiered   = "tiered"
)

// LogValue logs each section, with secrets redacted.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("server", c.Server),
		slog.Any("log", c.Log),
		slog.Any("search", c.Search),
		slog.Any("query", c.Query),
		slog.Any("partition", c.Partition),
		slog.Any("cache", c.Cache),
		slog.Any("database", c.Database),
		slog.Any("metrics", c.Metrics),
	)
}

// Config represents the top-level application config.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Search    SearchConfig    `koanf:"search"`
	Query     QueryConfig     `koanf:"query"`
	Partition PartitionConfig `koanf:"partition"`
	Cache     CacheConfig     `koanf:"cache"`
	Database  DatabaseConfig  `koanf:"database"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

type SearchConfig struct {
	URL          string        `koanf:"url"`
	Timeout      time.Duration `koanf:"timeout"` // per sub-query
	MaxIdleConns int           `koanf:"max_idle_conns"`
}

type QueryConfig struct {
	FacetName string `koanf:"facet_name"`
	TimeField string `koanf:"time_field"`
}

type PartitionConfig struct {
	Layout   string        `koanf:"layout"` // Go time layout of the partition name suffix, UTC
	Duration time.Duration `koanf:"duration"`
}

type CacheConfig struct {
	Type           string        `koanf:"type"` // memory | postgres | badger | tiered
	MemoryCapacity int           `koanf:"memory_capacity"`
	FlushInterval  time.Duration `koanf:"flush_interval"`
	BadgerDir      string        `koanf:"badger_dir"`
	// Backend is the durable tier behind a tiered cache: postgres | badger.
	Backend string `koanf:"backend"`
}

type DatabaseConfig struct {
	DSN            string        `koanf:"dsn"`
	MaxOpenConns   int           `koanf:"max_open_conns"`
	MaxIdleConns   int           `koanf:"max_idle_conns"`
	AutoMigrate    bool          `koanf:"auto_migrate"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

var dsnPasswordPattern = regexp.MustCompile(`(password\s*=\s*)('[^']*'|\S+)`)

// LogValue hides the DSN password.
func (c DatabaseConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dsn", redactDSN(c.DSN)),
		slog.Int("max_open_conns", c.MaxOpenConns),
		slog.Int("max_idle_conns", c.MaxIdleConns),
		slog.Bool("auto_migrate", c.AutoMigrate),
		slog.Duration("connect_timeout", c.ConnectTimeout),
	)
}

// redactDSN masks the password of a URL or key=value connection string.
func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		return u.Redacted()
	}
	return dsnPasswordPattern.ReplaceAllString(dsn, "${1}xxxxx")
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// SlogLevel maps log.level to a slog level.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// UsesPostgres reports whether the configured cache needs a database.
func (c CacheConfig) UsesPostgres() bool {
	return c.Type == CachePostgres || (c.Type == CacheTiered && c.Backend == CachePostgres)
}

// UsesBadger reports whether the configured cache needs a badger directory.
func (c CacheConfig) UsesBadger() bool {
	return c.Type == CacheBadger || (c.Type == CacheTiered && c.Backend == CacheBadger)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (must be debug, info, warn or error)", c.Log.Level)
	}

	u, err := url.Parse(c.Search.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid search.url %q (must be an http(s) URL)", c.Search.URL)
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be > 0")
	}
	if c.Search.MaxIdleConns <= 0 {
		return fmt.Errorf("search.max_idle_conns must be > 0")
	}

	if strings.TrimSpace(c.Query.FacetName) == "" {
		return fmt.Errorf("query.facet_name is required")
	}
	if strings.TrimSpace(c.Query.TimeField) == "" {
		return fmt.Errorf("query.time_field is required")
	}

	if strings.TrimSpace(c.Partition.Layout) == "" {
		return fmt.Errorf("partition.layout is required")
	}
	if c.Partition.Duration <= 0 {
		return fmt.Errorf("partition.duration must be > 0")
	}

	switch c.Cache.Type {
	case CacheMemory, CachePostgres, CacheBadger:
	case CacheTiered:
		if c.Cache.Backend != CachePostgres && c.Cache.Backend != CacheBadger {
			return fmt.Errorf("unsupported cache.backend %q for tiered cache (must be postgres or badger)", c.Cache.Backend)
		}
		if c.Cache.FlushInterval <= 0 {
			return fmt.Errorf("cache.flush_interval must be > 0")
		}
	default:
		return fmt.Errorf("unsupported cache.type %q", c.Cache.Type)
	}
	if c.Cache.MemoryCapacity <= 0 {
		return fmt.Errorf("cache.memory_capacity must be > 0")
	}
	if c.Cache.UsesBadger() && strings.TrimSpace(c.Cache.BadgerDir) == "" {
		return fmt.Errorf("cache.badger_dir is required for a badger cache")
	}

	if c.Cache.UsesPostgres() {
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for a postgres cache")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("invalid metrics.path %q (must start with /)", c.Metrics.Path)
	}

	return nil
}

// Load parses config from defaults, file and env, then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":              8080,
		"server.host":              "0.0.0.0",
		"server.max_body_size_mb":  1,
		"server.mode":              "release",
		"log.level":                "info",
		"search.url":               "http://localhost:9200",
		"search.timeout":           "30s",
		"search.max_idle_conns":    64,
		"query.facet_name":         "terms",
		"query.time_field":         "@timestamp",
		"partition.layout":         "2006.01.02-15",
		"partition.duration":       "1h",
		"cache.type":               CacheMemory,
		"cache.memory_capacity":    10000,
		"cache.flush_interval":     "10m",
		"cache.badger_dir":         "./data/cache",
		"cache.backend":            CachePostgres,
		"database.dsn":             "",
		"database.max_open_conns":  25,
		"database.max_idle_conns":  25,
		"database.auto_migrate":    true,
		"database.connect_timeout": "30s",
		"metrics.enabled":          true,
		"metrics.path":             "/metrics",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath == "" {
		configPath = DefaultPath
	}
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		if configPath != DefaultPath || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		slog.Info("No config file found, using defaults and environment", "path", configPath)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
