package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/flowboardhq/flowboard/pkg/store"
)

// Config is the TOML configuration for the CLI.
//
// Example:
//
//	[store]
//	backend = "file"           # memory | file | redis | mongo
//	dir = "~/.local/share/flowboard"
//
//	[store.redis]
//	address = "localhost:6379"
//
//	[canvas]
//	history_limit = 100
//	snap = true
//
//	[server]
//	address = ":8080"
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Canvas CanvasConfig `toml:"canvas"`
	Server ServerConfig `toml:"server"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig holds mongo connection settings.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CanvasConfig tunes the interactive editor.
type CanvasConfig struct {
	HistoryLimit int  `toml:"history_limit"`
	Snap         bool `toml:"snap"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `toml:"address"`
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Backend: "file",
			Dir:     defaultStoreDir(),
			Redis:   RedisConfig{Address: "localhost:6379"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "flowboard", Collection: "workflows"},
		},
		Canvas: CanvasConfig{HistoryLimit: 100, Snap: true},
		Server: ServerConfig{Address: ":8080"},
	}
}

// defaultStoreDir returns the platform data directory for workflow files.
func defaultStoreDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".local", "share", appName)
	}
	return "." + appName
}

// defaultConfigPath returns the conventional config file location.
func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName, "config.toml")
	}
	return appName + ".toml"
}

// loadConfig reads the TOML config at path, layered over defaults. A missing
// file at the default location is not an error; an explicitly requested file
// that does not exist is.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// openStore builds the configured store backend.
func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file", "":
		return store.NewFileStore(cfg.Store.Dir)
	case "redis":
		r := cfg.Store.Redis
		return store.NewRedisStore(r.Address, r.Password, r.DB), nil
	case "mongo":
		m := cfg.Store.Mongo
		return store.NewMongoStore(ctx, m.URI, m.Database, m.Collection)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
