package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func Load() (*Config, error) {
	path := os.Getenv("STREAM_CONFIG_PATH")
	if path == "" {
		path = "configs/stream.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Stream.Provider == "" {
		cfg.Stream.Provider = "sse"
	}
	if cfg.Stream.Redis.RequestStream == "" {
		cfg.Stream.Redis.RequestStream = "comparison-requests"
	}
	if cfg.Stream.Redis.FramePrefix == "" {
		cfg.Stream.Redis.FramePrefix = "comparison-frames:"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 18090
	}
}

func (c *Config) Validate() error {
	switch c.Stream.Provider {
	case "sse":
		if c.Stream.SSE.BaseURL == "" {
			return fmt.Errorf("stream.sse.base_url is required for the sse provider")
		}
	case "redis":
		if c.Stream.Redis.Addr == "" {
			return fmt.Errorf("stream.redis.addr is required for the redis provider")
		}
	default:
		return fmt.Errorf("unsupported stream provider: %s", c.Stream.Provider)
	}
	return nil
}
