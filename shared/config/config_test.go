package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")

	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Fetcher.Keyword != "generative AI" {
		t.Errorf("Keyword = %q, want %q", cfg.Fetcher.Keyword, "generative AI")
	}
	if cfg.Fetcher.MaxResults != MaxSearchResults {
		t.Errorf("MaxResults = %d, want %d", cfg.Fetcher.MaxResults, MaxSearchResults)
	}
	if cfg.Fetcher.LookbackDays != 7 {
		t.Errorf("LookbackDays = %d, want 7", cfg.Fetcher.LookbackDays)
	}
	if cfg.Storage.Bucket != "raw-youtube-data-9" {
		t.Errorf("Bucket = %q", cfg.Storage.Bucket)
	}
	if cfg.Storage.RawPrefix != "raw_data/" || cfg.Storage.ProcessedPrefix != "youtube_processed/" {
		t.Errorf("prefixes = %q, %q", cfg.Storage.RawPrefix, cfg.Storage.ProcessedPrefix)
	}
	if cfg.Storage.UseSSL == nil || !*cfg.Storage.UseSSL {
		t.Error("UseSSL should default to true")
	}
	if cfg.Transformer.RawGlob != "*.json" {
		t.Errorf("RawGlob = %q", cfg.Transformer.RawGlob)
	}
	if cfg.Dashboard.Port != 8501 || cfg.Dashboard.SearchLimit != 50 || cfg.Dashboard.HistogramMaxBins != 30 {
		t.Errorf("dashboard defaults = %+v", cfg.Dashboard)
	}
	if cfg.Monitoring.HealthPort == nil || *cfg.Monitoring.HealthPort != 8080 {
		t.Errorf("HealthPort = %v, want 8080", cfg.Monitoring.HealthPort)
	}
}

func TestParseKeepsExplicitValues(t *testing.T) {
	yamlData := `
fetcher:
  keyword: "golang"
  max_results: 10
storage:
  use_ssl: false
  local_dir: /tmp/objects
dashboard:
  top_channels: 5
monitoring:
  health_port: 0
`
	cfg, err := Parse([]byte(yamlData))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Fetcher.Keyword != "golang" || cfg.Fetcher.MaxResults != 10 {
		t.Errorf("fetcher = %+v", cfg.Fetcher)
	}
	if *cfg.Storage.UseSSL {
		t.Error("explicit use_ssl: false was overridden")
	}
	if cfg.Storage.LocalDir != "/tmp/objects" {
		t.Errorf("LocalDir = %q", cfg.Storage.LocalDir)
	}
	if cfg.Dashboard.TopChannels != 5 {
		t.Errorf("TopChannels = %d", cfg.Dashboard.TopChannels)
	}
	if cfg.Monitoring.HealthPort == nil || *cfg.Monitoring.HealthPort != 0 {
		t.Errorf("explicit health_port: 0 was overridden: %v", cfg.Monitoring.HealthPort)
	}
}

func TestParseEnvFallback(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("AWS_ACCESS_KEY_ID", "env-access")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret")

	cfg, err := Parse([]byte("youtube:\n  token_file: tok.json\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.YouTube.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.YouTube.APIKey)
	}
	if cfg.Storage.AccessKeyID != "env-access" || cfg.Storage.SecretAccessKey != "env-secret" {
		t.Errorf("storage credentials not read from env: %+v", cfg.Storage)
	}
	if cfg.YouTube.TokenFile != "tok.json" {
		t.Errorf("TokenFile = %q", cfg.YouTube.TokenFile)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("fetcher: [unterminated")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidateFetcher(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "api key",
			mutate: func(c *Config) { c.YouTube.APIKey = "key" },
		},
		{
			name: "oauth pair",
			mutate: func(c *Config) {
				c.YouTube.ClientID = "id"
				c.YouTube.ClientSecret = "secret"
			},
		},
		{
			name:    "no credentials",
			mutate:  func(c *Config) {},
			wantErr: "credentials",
		},
		{
			name: "max results above cap",
			mutate: func(c *Config) {
				c.YouTube.APIKey = "key"
				c.Fetcher.MaxResults = 51
			},
			wantErr: "max_results",
		},
		{
			name: "missing bucket",
			mutate: func(c *Config) {
				c.YouTube.APIKey = "key"
				c.Storage.Bucket = ""
			},
			wantErr: "bucket",
		},
		{
			name: "local dir needs no bucket",
			mutate: func(c *Config) {
				c.YouTube.APIKey = "key"
				c.Storage.Bucket = ""
				c.Storage.LocalDir = "data"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("YOUTUBE_API_KEY", "")
			t.Setenv("GOOGLE_CLIENT_ID", "")
			t.Setenv("GOOGLE_CLIENT_SECRET", "")
			cfg, err := Parse([]byte("{}"))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.ValidateFetcher()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateFetcher() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateFetcher() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDashboard(t *testing.T) {
	cfg, err := Parse([]byte("dashboard:\n  port: 70000\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := cfg.ValidateDashboard(); err == nil {
		t.Error("expected port range error")
	}
	cfg.Dashboard.Port = 8501
	if err := cfg.ValidateDashboard(); err != nil {
		t.Errorf("ValidateDashboard() unexpected error: %v", err)
	}
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	if err := os.WriteFile(path, []byte("fetcher:\n  keyword: kubernetes\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Fetcher.Keyword != "kubernetes" {
		t.Errorf("Keyword = %q, want kubernetes", cfg.Fetcher.Keyword)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}
