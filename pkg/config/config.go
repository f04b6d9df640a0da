// Package config loads spectromap settings from TOML and the environment.
//
// Settings are resolved in order: built-in defaults, then the TOML file (if
// any), then SPECTROMAP_* environment variables.
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//	database = "spectromap"
//
//	[render]
//	scale = 2
//	[render.style]
//	stroke = "#FF0000"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/overlay/sink"
)

const appName = "spectromap"

// Backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Redis   RedisConfig   `toml:"redis"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Mongo   MongoConfig `toml:"mongo"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type RenderConfig struct {
	Style sink.Style `toml:"style"`
	Scale float64    `toml:"scale"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", ReadTimeout: 15 * time.Second, WriteTimeout: 60 * time.Second},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     DefaultCacheDir(),
			TTL:     24 * time.Hour,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     DefaultDataDir(),
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: appName},
		},
		Render: RenderConfig{Style: sink.DefaultStyle, Scale: 1},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path (skipped when empty) and applies environment overrides.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := errors.ValidatePath(path); err != nil {
			return Config{}, err
		}
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"SPECTROMAP_ADDR":           &c.Server.Addr,
		"SPECTROMAP_CACHE":          &c.Cache.Backend,
		"SPECTROMAP_CACHE_DIR":      &c.Cache.Dir,
		"SPECTROMAP_REDIS_ADDR":     &c.Cache.Redis.Addr,
		"SPECTROMAP_REDIS_PASSWORD": &c.Cache.Redis.Password,
		"SPECTROMAP_STORE":          &c.Store.Backend,
		"SPECTROMAP_DATA_DIR":       &c.Store.Dir,
		"SPECTROMAP_MONGO_URI":      &c.Store.Mongo.URI,
		"SPECTROMAP_MONGO_DB":       &c.Store.Mongo.Database,
		"SPECTROMAP_LOG_LEVEL":      &c.Log.Level,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("SPECTROMAP_CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "SPECTROMAP_CACHE_TTL")
		}
		c.Cache.TTL = d
	}
	if v, ok := lookup("SPECTROMAP_REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "SPECTROMAP_REDIS_DB")
		}
		c.Cache.Redis.DB = n
	}
	if v, ok := lookup("SPECTROMAP_PNG_SCALE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "SPECTROMAP_PNG_SCALE")
		}
		c.Render.Scale = f
	}
	return nil
}

// Validate checks backend names, the render style and numeric ranges.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr is required")
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q must be none, file or redis", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.dir is required for the file cache")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis.addr is required for the redis cache")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl cannot be negative")
	}
	if !slices.Contains([]string{BackendFile, BackendMongo}, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "store.backend %q must be file or mongo", c.Store.Backend)
	}
	if c.Store.Backend == BackendFile && c.Store.Dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store.dir is required for the file store")
	}
	if c.Store.Backend == BackendMongo && (c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "") {
		return errors.New(errors.ErrCodeInvalidInput, "store.mongo.uri and store.mongo.database are required")
	}
	if !(c.Render.Scale > 0 && c.Render.Scale <= 8) {
		return errors.New(errors.ErrCodeInvalidInput, "render.scale must be in (0, 8], got %v", c.Render.Scale)
	}
	if err := c.Render.Style.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "render.style")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	return nil
}

// DefaultCacheDir follows XDG: $XDG_CACHE_HOME/spectromap or ~/.cache/spectromap.
func DefaultCacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DefaultDataDir follows XDG: $XDG_DATA_HOME/spectromap or ~/.local/share/spectromap.
func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// DefaultConfigPath returns the config file location, whether or not it exists.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, fallback, appName)
}
