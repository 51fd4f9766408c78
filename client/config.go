package client

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	// URL is the websocket endpoint, ws:// or wss://.
	URL string `yaml:"url"`

	// Reconnect backoff bounds for the session loop.
	ReconnectMin time.Duration `yaml:"reconnectMin"`
	ReconnectMax time.Duration `yaml:"reconnectMax"`

	PingInterval time.Duration `yaml:"pingInterval"`

	// ActionWindow overrides the duplicate-action suppression window.
	ActionWindow time.Duration `yaml:"actionWindow"`
}

func DefaultConfig() Config {
	return Config{
		ReconnectMin: time.Second,
		ReconnectMax: 30 * time.Second,
		PingInterval: 25 * time.Second,
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	d, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(d, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.URL == "" {
		return cfg, fmt.Errorf("config %s: missing url", path)
	}
	return cfg, nil
}
