package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "file" || cfg.Store.Backend != "file" {
		t.Errorf("backends = %q/%q, want file/file", cfg.Cache.Backend, cfg.Store.Backend)
	}
	if cfg.Generator.NumNodes != 12 || cfg.Generator.MaxDepth != 3 {
		t.Errorf("generator defaults = %d/%d, want 12/3", cfg.Generator.NumNodes, cfg.Generator.MaxDepth)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Cache.Backend != "file" {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-file.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default :8080", cfg.Server.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "econdag.toml")
	content := `
[server]
addr = ":9999"

[cache]
backend = "redis"

[cache.redis]
addr = "localhost:6379"
db = 2

[store]
backend = "mongo"
mongo_uri = "mongodb://db:27017"

[generator]
num_nodes = 40
max_depth = 5
seed = 7

[[generator.icons]]
name = "Ore"
path = "icons/ore.png"

[[generator.icons]]
name = "Coal"
path = "icons/coal.png"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("cache = %+v, want redis backend with db 2", cfg.Cache)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.MongoURI != "mongodb://db:27017" {
		t.Errorf("store = %+v, want mongo backend", cfg.Store)
	}
	if cfg.Generator.NumNodes != 40 || cfg.Generator.Seed != 7 {
		t.Errorf("generator = %+v, want num_nodes 40 seed 7", cfg.Generator)
	}
	if len(cfg.Generator.Icons) != 2 || cfg.Generator.Icons[1].Name != "Coal" {
		t.Errorf("icons = %+v, want Ore and Coal", cfg.Generator.Icons)
	}

	// Unset keys keep their defaults.
	if cfg.Generator.MinInputs != 1 || cfg.Generator.MaxInputs != 3 {
		t.Errorf("inputs = %d/%d, want defaults 1/3", cfg.Generator.MinInputs, cfg.Generator.MaxInputs)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[[[not toml"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}
