package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("STREAM_CONFIG_PATH", path)
}

func TestLoad_SSEProvider(t *testing.T) {
	writeConfig(t, `
stream:
  provider: sse
  sse:
    base_url: http://localhost:18080
api:
  port: 9000
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Stream.Provider != "sse" {
		t.Errorf("provider = %q", cfg.Stream.Provider)
	}
	if cfg.Stream.SSE.BaseURL != "http://localhost:18080" {
		t.Errorf("base_url = %q", cfg.Stream.SSE.BaseURL)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("port = %d", cfg.API.Port)
	}
}

func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, `
stream:
  sse:
    base_url: http://localhost:18080
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Stream.Provider != "sse" {
		t.Errorf("default provider = %q, want sse", cfg.Stream.Provider)
	}
	if cfg.Stream.Redis.RequestStream != "comparison-requests" {
		t.Errorf("request stream = %q", cfg.Stream.Redis.RequestStream)
	}
	if cfg.Stream.Redis.FramePrefix != "comparison-frames:" {
		t.Errorf("frame prefix = %q", cfg.Stream.Redis.FramePrefix)
	}
	if cfg.API.Port != 18090 {
		t.Errorf("default port = %d", cfg.API.Port)
	}
}

func TestLoad_RedisConnectionTuning(t *testing.T) {
	writeConfig(t, `
stream:
  provider: redis
  redis:
    addr: localhost:6379
    connect_retries: 2
    dial_timeout_ms: 1000
    read_timeout_ms: 250
    write_timeout_ms: 250
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	r := cfg.Stream.Redis
	if r.ConnectRetries != 2 {
		t.Errorf("connect_retries = %d, want 2", r.ConnectRetries)
	}
	if r.DialTimeoutMS != 1000 || r.ReadTimeoutMS != 250 || r.WriteTimeoutMS != 250 {
		t.Errorf("timeouts = %d/%d/%d, want 1000/250/250", r.DialTimeoutMS, r.ReadTimeoutMS, r.WriteTimeoutMS)
	}
}

func TestLoad_RedisProviderRequiresAddr(t *testing.T) {
	writeConfig(t, `
stream:
  provider: redis
`)

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for redis provider without addr")
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	writeConfig(t, `
stream:
  provider: kafka
`)

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unsupported provider")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("STREAM_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
