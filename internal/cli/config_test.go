package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withConfigHome points XDG_CONFIG_HOME at dir for the duration of the test.
func withConfigHome(t *testing.T, dir string) {
	t.Helper()
	oldXdg := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", dir)
	t.Cleanup(func() {
		if oldXdg != "" {
			os.Setenv("XDG_CONFIG_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	withConfigHome(t, t.TempDir())

	c := New(io.Discard, LogInfo)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Store.Backend != "file" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "file")
	}
	if cfg.Render.Formats != "svg" {
		t.Errorf("Render.Formats = %q, want %q", cfg.Render.Formats, "svg")
	}
	if cfg.Render.RankDir != "LR" {
		t.Errorf("Render.RankDir = %q, want %q", cfg.Render.RankDir, "LR")
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Serve.Addr = %q, want %q", cfg.Serve.Addr, ":8080")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[render]
formats = "svg,png"
detailed = true

[store]
backend = "redis"
redis_addr = "redis.internal:6379"

[serve]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.ConfigPath = path

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Render.Formats != "svg,png" {
		t.Errorf("Render.Formats = %q, want %q", cfg.Render.Formats, "svg,png")
	}
	if !cfg.Render.Detailed {
		t.Error("Render.Detailed = false, want true")
	}
	if cfg.Store.Backend != "redis" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "redis")
	}
	if cfg.Store.RedisAddr != "redis.internal:6379" {
		t.Errorf("Store.RedisAddr = %q, want %q", cfg.Store.RedisAddr, "redis.internal:6379")
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Serve.Addr = %q, want %q", cfg.Serve.Addr, ":9090")
	}

	// Values absent from the file keep their defaults.
	if cfg.Render.RankDir != "LR" {
		t.Errorf("Render.RankDir = %q, want default %q", cfg.Render.RankDir, "LR")
	}
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	withConfigHome(t, dir)

	appDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(appDir, 0o700); err != nil {
		t.Fatal(err)
	}
	content := "[store]\nbackend = \"memory\"\n"
	if err := os.WriteFile(filepath.Join(appDir, "config.toml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "memory")
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.ConfigPath = filepath.Join(t.TempDir(), "nope.toml")

	if _, err := c.loadConfig(); err == nil {
		t.Error("loadConfig() with missing --config file should fail")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("store = [broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.ConfigPath = path

	_, err := c.loadConfig()
	if err == nil {
		t.Fatal("loadConfig() with invalid TOML should fail")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("error = %v, want parse config error", err)
	}
}

func TestLoadConfigCached(t *testing.T) {
	withConfigHome(t, t.TempDir())

	c := New(io.Discard, LogInfo)
	first, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("loadConfig() should return the cached config on repeat calls")
	}
}

func TestOpenStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		c := New(io.Discard, LogInfo)
		c.config = defaultConfig()
		c.config.Store.Backend = "memory"

		s, err := c.openStore(context.Background())
		if err != nil {
			t.Fatalf("openStore() error: %v", err)
		}
		defer s.Close()

		if err := s.Put(context.Background(), "demo", []byte("{}")); err != nil {
			t.Errorf("Put() error: %v", err)
		}
	})

	t.Run("file with explicit path", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "graphs")
		c := New(io.Discard, LogInfo)
		c.config = defaultConfig()
		c.config.Store.Backend = "file"
		c.config.Store.Path = dir

		s, err := c.openStore(context.Background())
		if err != nil {
			t.Fatalf("openStore() error: %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(dir); err != nil {
			t.Errorf("store directory not created: %v", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		c := New(io.Discard, LogInfo)
		c.config = defaultConfig()
		c.config.Store.Backend = "etcd"

		if _, err := c.openStore(context.Background()); err == nil {
			t.Error("openStore() with unknown backend should fail")
		}
	})
}
