// Package config loads econdag configuration from a TOML file.
//
// All fields have working defaults; an absent config file yields the
// default configuration rather than an error.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/fabrikdev/econdag/pkg/generate"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Cache     CacheConfig     `toml:"cache"`
	Store     StoreConfig     `toml:"store"`
	Generator GeneratorConfig `toml:"generator"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"` // "file", "redis", or "none"
	Dir     string      `toml:"dir"`     // file backend; empty uses the XDG cache dir
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Backend    string `toml:"backend"` // "file" or "mongo"
	Dir        string `toml:"dir"`     // file backend; empty uses ~/.config/econdag
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// GeneratorConfig carries the default bounds for random generation and an
// optional icon catalog.
type GeneratorConfig struct {
	NumNodes  int             `toml:"num_nodes"`
	MaxDepth  int             `toml:"max_depth"`
	MinInputs int             `toml:"min_inputs"`
	MaxInputs int             `toml:"max_inputs"`
	Seed      uint64          `toml:"seed"` // 0 means time-seeded
	Icons     []generate.Icon `toml:"icons"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache:  CacheConfig{Backend: "file"},
		Store:  StoreConfig{Backend: "file", MongoURI: "mongodb://localhost:27017"},
		Generator: GeneratorConfig{
			NumNodes:  12,
			MaxDepth:  3,
			MinInputs: 1,
			MaxInputs: 3,
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path or a
// missing file returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
