// Package config loads the treeprint configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/treeprint/config.toml
// (~/.config/treeprint/config.toml) unless a path is given explicitly. A
// missing file is not an error; every setting has a default.
//
//	[layout]
//	box_width = 40
//	generation_spacing = 20
//
//	[render]
//	style = "classic"
//	formats = ["svg", "png"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
// Command-line flags override values from the file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/layout"
)

const appName = "treeprint"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Defaults for settings outside the layout constants.
const (
	DefaultStyle        = "classic"
	DefaultServerAddr   = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultCacheTTL     = 7 * 24 * time.Hour
	DefaultRedisAddr    = "localhost:6379"
)

// Config is the complete configuration file.
type Config struct {
	Layout layout.Config `toml:"layout"`
	Render Render        `toml:"render"`
	Cache  Cache         `toml:"cache"`
	Server Server        `toml:"server"`
	Source Source        `toml:"source"`
}

// Render holds rendering defaults.
type Render struct {
	Style   string   `toml:"style"`
	Formats []string `toml:"formats"`
	PanZoom bool     `toml:"pan_zoom"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	RedisDB   int           `toml:"redis_db"`
	TTL       time.Duration `toml:"ttl"`
}

// Server configures `treeprint serve`.
type Server struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Source holds database connection defaults for record loading.
type Source struct {
	SQLite          string `toml:"sqlite"`
	SQLitePrefix    string `toml:"sqlite_prefix"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero fields with their defaults.
func (c *Config) SetDefaults() {
	c.Layout = c.Layout.WithDefaults()
	if c.Render.Style == "" {
		c.Render.Style = DefaultStyle
	}
	if len(c.Render.Formats) == 0 {
		c.Render.Formats = []string{"svg"}
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = DefaultRedisAddr
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Source.MongoDatabase == "" {
		c.Source.MongoDatabase = appName
	}
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be %q, %q or %q, got %q",
			CacheFile, CacheRedis, CacheNone, c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must not be negative")
	}
	if p := c.Source.SQLitePrefix; p != "" {
		if err := errors.ValidateIdentifier(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "source.sqlite_prefix")
		}
	}
	return nil
}

// Path returns the default configuration file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the default file cache directory (~/.cache/treeprint/).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the configuration from path, or from Path() when path is empty.
// A missing default file yields Default(); a missing explicit file is an
// error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
