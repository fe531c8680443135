package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse_EmbeddedDefaults(t *testing.T) {
	c, err := Parse(embeddedConfig)
	if err != nil {
		t.Fatalf("embedded config should parse: %v", err)
	}
	if c.RateLimit.Policy != PolicySliding {
		t.Fatalf("expected sliding policy, got %q", c.RateLimit.Policy)
	}
	if c.RateLimit.Window() != time.Minute {
		t.Fatalf("expected 1m window, got %s", c.RateLimit.Window())
	}
	if c.Upstream.APIKeyEnv != "DEEPSEEK_API_KEY" {
		t.Fatalf("unexpected api key env %q", c.Upstream.APIKeyEnv)
	}
	if c.Upstream.RequestTimeout() != 2*time.Minute {
		t.Fatalf("expected 2m upstream timeout, got %s", c.Upstream.RequestTimeout())
	}
}

func TestParse_PartialFileKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte("port: 9090\nrate_limit:\n  policy: daily\n  daily_max_requests: 20\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", c.Port)
	}
	if c.RateLimit.Policy != PolicyDaily {
		t.Fatalf("expected daily policy, got %q", c.RateLimit.Policy)
	}
	if c.Generation.MaxExplanationRunes != 120 {
		t.Fatalf("expected default explanation bound, got %d", c.Generation.MaxExplanationRunes)
	}
}

func TestParse_RejectsUnknownPolicy(t *testing.T) {
	if _, err := Parse([]byte("rate_limit:\n  policy: leaky\n")); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestParse_RejectsDefaultCountAboveMax(t *testing.T) {
	if _, err := Parse([]byte("generation:\n  default_name_count: 20\n  max_name_count: 10\n")); err == nil {
		t.Fatalf("expected error when default count exceeds max")
	}
}

func TestNewConfig_ReadsConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: 7070\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	c, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != 7070 {
		t.Fatalf("expected port 7070, got %d", c.Port)
	}
	if GetConfig() != c {
		t.Fatalf("expected GetConfig to return loaded config")
	}
}
