// Package config loads the mapforge server configuration from a TOML file.
//
// Every field has a working default, so the server runs with no config file
// at all. A file only needs to spell out the sections it changes.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mapforge/mapforge/pkg/errors"
)

// Cache backends accepted in the [cache] section.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full server configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Cache    Cache    `toml:"cache"`
	Archive  Archive  `toml:"archive"`
	Palette  Palette  `toml:"palette"`
	Defaults Defaults `toml:"defaults"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     duration `toml:"read_timeout"`
	WriteTimeout    duration `toml:"write_timeout"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
}

// Cache selects and configures the render cache backend.
type Cache struct {
	Backend string `toml:"backend"` // none, file or redis
	Dir     string `toml:"dir"`     // file backend; empty means XDG cache dir
	Addr     string `toml:"addr"` // redis backend
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// TTL overrides how long rendered maps stay cached. Zero keeps the
	// pipeline default of 24h.
	TTL duration `toml:"ttl"`
}

// Archive configures the optional MongoDB generation archive.
type Archive struct {
	Enabled  bool   `toml:"enabled"`
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Defaults lets a deployment change the canvas size applied to requests
// that omit w/h. Zero values keep the pipeline defaults.
type Defaults struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Palette overrides the map colors. Values are hex strings like "#228B22"
// or "#228B22FF"; empty keeps the built-in color.
type Palette struct {
	Water string `toml:"water"`
	Land  string `toml:"land"`
	Dense string `toml:"dense"`
}

// duration wraps time.Duration so TOML values can be written as "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     duration{15 * time.Second},
			WriteTimeout:    duration{30 * time.Second},
			ShutdownTimeout: duration{10 * time.Second},
		},
		Cache: Cache{
			Backend: CacheFile,
		},
		Archive: Archive{
			Database: "mapforge",
		},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file is
// not an error when path is empty; an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "parse config file %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", CacheNone, CacheFile, CacheRedis:
	default:
		return errors.New(errors.ErrCodeInternal, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.Addr == "" {
		return errors.New(errors.ErrCodeInternal, "cache backend redis requires cache.addr")
	}
	if c.Archive.Enabled && c.Archive.URI == "" {
		return errors.New(errors.ErrCodeInternal, "archive.enabled requires archive.uri")
	}
	if c.Defaults.Width < 0 || c.Defaults.Height < 0 {
		return errors.New(errors.ErrCodeInvalidSize, "defaults.width and defaults.height must not be negative")
	}
	return nil
}
