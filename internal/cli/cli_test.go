package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fabrikdev/econdag/pkg/cache"
	"github.com/fabrikdev/econdag/pkg/config"
	"github.com/fabrikdev/econdag/pkg/economy"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "econdag" {
		t.Errorf("Use = %q, want econdag", root.Use)
	}

	want := []string{"generate", "inspect", "render", "browse", "fetch", "serve", "cache"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "economy.json")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "-n", "10", "-d", "2", "--seed", "42", "--fuel", "-o", out})

	if err := root.Execute(); err != nil {
		t.Fatalf("generate: %v", err)
	}

	g, err := economy.ImportFile(out)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if g.Len() == 0 || g.Len() > 10 {
		t.Errorf("generated %d products, want 1..10", g.Len())
	}
	fuelID, ok := g.FuelProduct()
	if !ok {
		t.Fatal("no fuel product designated")
	}
	fuel, _ := g.Product(fuelID)
	if !fuel.IsRawMaterial() {
		t.Error("fuel product is not a raw material")
	}
}

func TestGenerateDeterministicAcrossRuns(t *testing.T) {
	run := func(path string) string {
		c := New(io.Discard, LogInfo)
		root := c.RootCommand()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs([]string{"generate", "-n", "8", "-d", "2", "--seed", "7", "-o", path})
		if err := root.Execute(); err != nil {
			t.Fatalf("generate: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		return string(data)
	}

	dir := t.TempDir()
	a := run(filepath.Join(dir, "a.json"))
	b := run(filepath.Join(dir, "b.json"))
	if a != b {
		t.Error("same seed produced different documents")
	}
}

func TestValueOr(t *testing.T) {
	if got := valueOr(5, 10); got != 5 {
		t.Errorf("valueOr(5, 10) = %d, want 5", got)
	}
	if got := valueOr(0, 10); got != 10 {
		t.Errorf("valueOr(0, 10) = %d, want 10", got)
	}
}

func TestCountRaw(t *testing.T) {
	g := economy.New()
	ore, err := g.AddProduct("Ore", "", nil)
	if err != nil {
		t.Fatalf("add Ore: %v", err)
	}
	if _, err := g.AddProduct("Coal", "", nil); err != nil {
		t.Fatalf("add Coal: %v", err)
	}
	if _, err := g.AddProduct("Iron", "", []economy.Input{{ProductID: ore, Amount: 1}}); err != nil {
		t.Fatalf("add Iron: %v", err)
	}

	if got := countRaw(g); got != 2 {
		t.Errorf("countRaw = %d, want 2", got)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	// --no-cache wins over any backend.
	c, err := newCache(ctx, config.CacheConfig{Backend: "file"}, true)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("cache = %T with noCache, want NullCache", c)
	}

	// The none backend disables caching too.
	c, err = newCache(ctx, config.CacheConfig{Backend: "none"}, false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("cache = %T for none backend, want NullCache", c)
	}

	// File backend with an explicit directory.
	c, err = newCache(ctx, config.CacheConfig{Backend: "file", Dir: t.TempDir()}, false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("cache = %T for file backend, want FileCache", c)
	}

	// Unknown backends are rejected.
	if _, err := newCache(ctx, config.CacheConfig{Backend: "memcached"}, false); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNewRNGDeterministic(t *testing.T) {
	a := newRNG(42)
	b := newRNG(42)
	for i := 0; i < 10; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatal("same seed produced different sequences")
		}
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", appName) {
		t.Errorf("dir = %q, want XDG path", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".cache", appName)) {
		t.Errorf("dir = %q, want ~/.cache/%s", dir, appName)
	}
}
