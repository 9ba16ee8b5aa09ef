package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flatgraph/pkg/pipeline"
	"github.com/matzehuels/flatgraph/pkg/store"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config holds settings read from the flatgraph config file. Every field is
// optional; missing values fall back to built-in defaults, and command-line
// flags take precedence over file values.
type Config struct {
	Render RenderConfig `toml:"render"`
	Store  StoreConfig  `toml:"store"`
	Serve  ServeConfig  `toml:"serve"`
}

// RenderConfig provides defaults for the render command.
type RenderConfig struct {
	// Formats is a comma-separated list of output formats (svg, png, dot, json).
	Formats string `toml:"formats"`
	// RankDir is the DOT layout direction (LR, TB, RL, BT).
	RankDir string `toml:"rankdir"`
	// Detailed includes socket-level edges in DOT output.
	Detailed bool `toml:"detailed"`
}

// StoreConfig selects the document store backend used by the graphs and
// serve commands.
type StoreConfig struct {
	// Backend is one of file, memory, redis or mongo.
	Backend string `toml:"backend"`
	// Path is the directory for the file backend.
	// Defaults to ~/.config/flatgraph/graphs/.
	Path string `toml:"path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// ServeConfig provides defaults for the serve command.
type ServeConfig struct {
	// Addr is the listen address, e.g. ":8080" or "localhost:9000".
	Addr string `toml:"addr"`
}

// defaultConfig returns the configuration used when no config file exists.
func defaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Formats: pipeline.FormatSVG,
			RankDir: pipeline.DefaultRankDir,
		},
		Store: StoreConfig{
			Backend:   "file",
			RedisAddr: "localhost:6379",
			MongoURI:  "mongodb://localhost:27017",
			MongoDB:   appName,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// loadConfig reads the config file, caching the result for later calls.
// A missing file at the default location is not an error; a missing file
// passed via --config is.
func (c *CLI) loadConfig() (*Config, error) {
	if c.config != nil {
		return c.config, nil
	}

	cfg := defaultConfig()
	path := c.ConfigPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			c.config = cfg
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && c.ConfigPath == "" {
			c.config = cfg
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	c.config = cfg
	return cfg, nil
}

// openStore creates the document store selected by the configuration.
// The caller owns the returned store and must close it.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case "", "file":
		dir := cfg.Store.Path
		if dir == "" {
			base, err := configDir()
			if err != nil {
				return nil, fmt.Errorf("resolve store directory: %w", err)
			}
			dir = filepath.Join(base, "graphs")
		}
		return store.NewFileStore(dir)
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB), nil
	case "mongo":
		return store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.MongoDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q (expected file, memory, redis or mongo)", cfg.Store.Backend)
	}
}
