// Package config loads stayscout settings from a TOML or YAML file.
//
// Every key is optional: values missing from the file keep their
// [Default]. A missing file is not an error.
//
//	[scraper]
//	requests_per_second = 0.5
//	max_retries = 2
//
//	[structured]
//	enabled = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[cache.ttl]
//	search = "15m"
package config

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/integrations"
	"github.com/matzehuels/stayscout/pkg/integrations/document"
	"github.com/matzehuels/stayscout/pkg/integrations/structured"
)

const (
	appName = "stayscout"

	// EnvPath names a config file when --config is not given.
	EnvPath = "STAYSCOUT_CONFIG"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config is the full settings tree.
type Config struct {
	Scraper    Scraper    `toml:"scraper" yaml:"scraper"`
	Structured Structured `toml:"structured" yaml:"structured"`
	Cache      Cache      `toml:"cache" yaml:"cache"`
	Server     Server     `toml:"server" yaml:"server"`
}

// Scraper configures the document source and the shared HTTP identity.
type Scraper struct {
	BaseURL           string        `toml:"base_url" yaml:"base_url"`
	UserAgent         string        `toml:"user_agent" yaml:"user_agent"`
	RequestsPerSecond float64       `toml:"requests_per_second" yaml:"requests_per_second"`
	RequestTimeout    time.Duration `toml:"request_timeout" yaml:"request_timeout"`
	MaxRetries        int           `toml:"max_retries" yaml:"max_retries"`
	BaseRetryDelay    time.Duration `toml:"base_retry_delay" yaml:"base_retry_delay"`
	RetryOnThrottle   bool          `toml:"retry_on_throttle" yaml:"retry_on_throttle"`
}

// Structured configures the persisted-query source.
type Structured struct {
	Enabled           bool              `toml:"enabled" yaml:"enabled"`
	RequestsPerSecond float64           `toml:"requests_per_second" yaml:"requests_per_second"`
	CredentialTTL     time.Duration     `toml:"credential_ttl" yaml:"credential_ttl"`
	Hashes            structured.Hashes `toml:"hashes" yaml:"hashes"`
}

// Cache configures the response cache shared by both sources.
type Cache struct {
	Backend     string            `toml:"backend" yaml:"backend"`
	Capacity    int               `toml:"capacity" yaml:"capacity"`
	RedisURL    string            `toml:"redis_url" yaml:"redis_url"`
	RedisPrefix string            `toml:"redis_prefix" yaml:"redis_prefix"`
	TTL         integrations.TTLs `toml:"ttl" yaml:"ttl"`
}

// Server configures the HTTP front-end.
type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Scraper: Scraper{
			BaseURL:           "https://www.airbnb.com",
			UserAgent:         defaultUserAgent,
			RequestsPerSecond: 0.5,
			RequestTimeout:    30 * time.Second,
			MaxRetries:        document.DefaultMaxRetries,
			BaseRetryDelay:    document.DefaultBaseRetryDelay,
		},
		Structured: Structured{
			Enabled:           true,
			RequestsPerSecond: 0.5,
			CredentialTTL:     24 * time.Hour,
			Hashes:            structured.DefaultHashes(),
		},
		Cache: Cache{
			Backend:     BackendMemory,
			Capacity:    500,
			RedisPrefix: appName + ":",
			TTL:         integrations.DefaultTTLs(),
		},
		Server: Server{Addr: ":8080"},
	}
}

// Path resolves the config file location: flag if set, then $STAYSCOUT_CONFIG,
// then $XDG_CONFIG_HOME/stayscout/config.toml (~/.config when unset).
// It returns "" when no location can be determined.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.toml")
}

// Load reads path over [Default] and validates the result. An empty path
// or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if goerrors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.Validation("config", "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !goerrors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, errors.Validation("config", "%s: unsupported format %q (want .toml, .yaml or .yml)", path, ext)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no client could run with.
func (c Config) Validate() error {
	v := func(format string, args ...any) error { return errors.Validation("config", format, args...) }
	switch {
	case c.Scraper.BaseURL == "":
		return v("scraper.base_url is required")
	case c.Scraper.RequestsPerSecond < 0:
		return v("scraper.requests_per_second must not be negative")
	case c.Structured.RequestsPerSecond < 0:
		return v("structured.requests_per_second must not be negative")
	case c.Scraper.RequestTimeout <= 0:
		return v("scraper.request_timeout must be positive")
	case c.Scraper.MaxRetries < 0:
		return v("scraper.max_retries must not be negative")
	case c.Scraper.BaseRetryDelay < 0:
		return v("scraper.base_retry_delay must not be negative")
	case c.Structured.CredentialTTL <= 0:
		return v("structured.credential_ttl must be positive")
	}
	switch c.Cache.Backend {
	case BackendMemory, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return v("cache.redis_url is required for the redis backend")
		}
	default:
		return v("cache.backend %q is not one of memory, redis, none", c.Cache.Backend)
	}
	return nil
}
