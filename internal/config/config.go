// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "PLACENAME"

	BackendMemory = "memory"
	BackendRedis  = "redis"

	ProviderGoogle       = "google"
	ProviderNominatim    = "osm-nominatim"
	ProviderOpenCage     = "opencage"
	ProviderGeocodeEarth = "geocode-earth"
)

// Config represents the application's configuration structure.
type Config struct {
	Locale      string     `fig:"locale"`
	LogLevel    slog.Level `fig:"loglevel" default:"0"`
	Listen      string     `fig:"listen" default:"127.0.0.1:8080"`
	CORSOrigins []string   `fig:"cors_origins"`

	GeoCoder struct {
		// Allowed values: google, osm-nominatim, opencage, geocode-earth
		Provider string `fig:"provider" default:"google"`
		APIKey   string `fig:"apikey"`
		// Upper bound for a single lookup, 0 uses the default
		Timeout time.Duration `fig:"timeout" default:"8s"`
		// 0 disables rate limiting
		RequestsPerSecond float64 `fig:"requests_per_second"`
	} `fig:"geocoder"`

	Cache struct {
		// Allowed values: memory, redis
		Backend       string        `fig:"backend" default:"memory"`
		RedisURL      string        `fig:"redis_url"`
		KeyPrefix     string        `fig:"key_prefix" default:"placename:"`
		SweepInterval time.Duration `fig:"sweep_interval" default:"1h"`
	} `fig:"cache"`

	Label struct {
		Template string `fig:"template" default:"{{.Name}}"`
		MaxWidth int    `fig:"max_width"`
	} `fig:"label"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	c.GeoCoder.Provider = strings.ToLower(c.GeoCoder.Provider)
	switch c.GeoCoder.Provider {
	case ProviderNominatim:
	case ProviderGoogle, ProviderOpenCage, ProviderGeocodeEarth:
		if c.GeoCoder.APIKey == "" {
			return fmt.Errorf("%s geocoder requires an API key", c.GeoCoder.Provider)
		}
	default:
		return fmt.Errorf("unsupported geocoder provider: %s", c.GeoCoder.Provider)
	}
	if c.GeoCoder.Timeout <= 0 {
		return fmt.Errorf("invalid geocoder timeout: %s", c.GeoCoder.Timeout)
	}
	if c.GeoCoder.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid geocoder requests per second: %g", c.GeoCoder.RequestsPerSecond)
	}

	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	switch c.Cache.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("redis cache backend requires a redis URL")
		}
	default:
		return fmt.Errorf("unsupported cache backend: %s", c.Cache.Backend)
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("invalid cache sweep interval: %s", c.Cache.SweepInterval)
	}

	if c.Label.MaxWidth < 0 {
		return fmt.Errorf("invalid label max width: %d", c.Label.MaxWidth)
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}

	return nil
}
