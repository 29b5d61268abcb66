package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/layer-3/nearstore/core"
)

// Config contains all process settings, read from the environment
type Config struct {
	NearEnv      string        `envconfig:"NEAR_ENV" default:"testnet"`
	HTTPAddr     string        `envconfig:"HTTP_ADDR" default:":9000"`
	PublicURL    string        `envconfig:"PUBLIC_URL" default:"http://localhost:9000"`
	StoreDriver  string        `envconfig:"STORE_DRIVER" default:"badger"`
	BadgerPath   string        `envconfig:"BADGER_PATH" default:"~/.nearstore/data"`
	RedisURL     string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	EventsDriver string        `envconfig:"EVENTS_DRIVER" default:"gochannel"`
	RPCTimeout   time.Duration `envconfig:"RPC_TIMEOUT" default:"15s"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads Config from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.StoreDriver {
	case "badger", "redis", "memory":
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q (allowed: badger, redis, memory)", cfg.StoreDriver)
	}
	switch cfg.EventsDriver {
	case "gochannel", "redis":
	default:
		return nil, fmt.Errorf("invalid EVENTS_DRIVER %q (allowed: gochannel, redis)", cfg.EventsDriver)
	}

	cfg.BadgerPath = expandHome(cfg.BadgerPath)
	return cfg, nil
}

// Network resolves the NEAR network for NearEnv
func (c *Config) Network() (core.NetworkConfig, error) {
	return GetConfig(c.NearEnv)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
