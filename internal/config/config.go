package config

// Config is the gateway-side configuration for the comparison stream service.
type Config struct {
	Stream StreamConfig `yaml:"stream"`
	API    APIConfig    `yaml:"api"`
}

// StreamConfig selects and tunes the frame transport.
type StreamConfig struct {
	Provider string      `yaml:"provider"` // sse, redis
	SSE      SSEConfig   `yaml:"sse"`
	Redis    RedisConfig `yaml:"redis"`
}

type SSEConfig struct {
	BaseURL string `yaml:"base_url"`
}

type RedisConfig struct {
	Addr          string `yaml:"addr"`
	Password      string `yaml:"password"`
	RequestStream string `yaml:"request_stream"`
	FramePrefix   string `yaml:"frame_prefix"`

	// Connection tuning; zero values take the redis package defaults.
	ConnectRetries int `yaml:"connect_retries"`
	DialTimeoutMS  int `yaml:"dial_timeout_ms"`
	ReadTimeoutMS  int `yaml:"read_timeout_ms"`
	WriteTimeoutMS int `yaml:"write_timeout_ms"`
}

type APIConfig struct {
	Port int `yaml:"port"`
}
