package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8000")
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Summary.RetryDelay != 800*time.Millisecond {
		t.Errorf("Summary.RetryDelay = %v, want 800ms", cfg.Summary.RetryDelay)
	}
	if cfg.Summary.Keys != nil {
		t.Errorf("Summary.Keys = %v, want nil without env", cfg.Summary.Keys)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("RateLimit.RequestsPerMinute = %d, want 30", cfg.RateLimit.RequestsPerMinute)
	}
}

func TestLoad_KeyPool(t *testing.T) {
	t.Setenv("SUMMARY_API_KEYS", "sk-a, sk-b ,,sk-c")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"sk-a", "sk-b", "sk-c"}
	if len(cfg.Summary.Keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", cfg.Summary.Keys, want)
	}
	for i, k := range want {
		if cfg.Summary.Keys[i] != k {
			t.Errorf("Keys[%d] = %q, want %q", i, cfg.Summary.Keys[i], k)
		}
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("SEARCH_TIMEOUT_SEC", "5")
	t.Setenv("SUMMARY_RETRY_DELAY_MS", "100")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("Backend.Timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.Summary.RetryDelay != 100*time.Millisecond {
		t.Errorf("Summary.RetryDelay = %v", cfg.Summary.RetryDelay)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: ErrMissingAddr,
		},
		{
			name:    "missing backend",
			mutate:  func(c *Config) { c.Backend.BaseURL = "" },
			wantErr: ErrMissingBackend,
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Summary.RetryDelay = -time.Second },
			wantErr: ErrNegativeDelay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL_SEC", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want default 1h", cfg.Cache.TTL)
	}
}
