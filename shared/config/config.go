package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// YouTube search results are capped at 50 items per request.
const MaxSearchResults = 50

type Config struct {
	YouTube     YouTubeConfig     `yaml:"youtube"`
	Fetcher     FetcherConfig     `yaml:"fetcher"`
	Transformer TransformerConfig `yaml:"transformer"`
	Storage     StorageConfig     `yaml:"storage"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
}

// YouTubeConfig selects the credentials for the Data API. An API key is
// preferred; the OAuth client pair is used only when no key is set.
type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
}

type FetcherConfig struct {
	Keyword      string `yaml:"keyword"`
	MaxResults   int64  `yaml:"max_results"`
	LookbackDays int    `yaml:"lookback_days"`
	Schedule     string `yaml:"schedule"`
}

type TransformerConfig struct {
	RawGlob  string `yaml:"raw_glob"`
	Schedule string `yaml:"schedule"`
}

// StorageConfig points at an S3-compatible bucket. When LocalDir is set the
// bucket is emulated by a directory tree instead.
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
	UseSSL          *bool  `yaml:"use_ssl"`
	Bucket          string `yaml:"bucket"`
	RawPrefix       string `yaml:"raw_prefix"`
	ProcessedPrefix string `yaml:"processed_prefix"`
	LocalDir        string `yaml:"local_dir"`
}

type DashboardConfig struct {
	Port             int    `yaml:"port"`
	SearchLimit      int    `yaml:"search_limit"`
	HistogramMaxBins int    `yaml:"histogram_max_bins"`
	TopChannels      int    `yaml:"top_channels"`
	Title            string `yaml:"title"`
	Description      string `yaml:"description"`
}

type MonitoringConfig struct {
	HealthPort *int `yaml:"health_port"` // 0 disables the health server
}

const defaultDescription = "Explore YouTube trending videos related to Generative AI with insights on " +
	"content categories, freshness, and publishing trends."

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes and fills in environment fallbacks and defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if c.YouTube.APIKey == "" {
		c.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.YouTube.ClientID == "" {
		c.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.YouTube.ClientSecret == "" {
		c.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if c.Storage.AccessKeyID == "" {
		c.Storage.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if c.Storage.SecretAccessKey == "" {
		c.Storage.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
}

func (c *Config) applyDefaults() {
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}

	if c.Fetcher.Keyword == "" {
		c.Fetcher.Keyword = "generative AI"
	}
	if c.Fetcher.MaxResults == 0 {
		c.Fetcher.MaxResults = MaxSearchResults
	}
	if c.Fetcher.LookbackDays == 0 {
		c.Fetcher.LookbackDays = 7
	}
	if c.Fetcher.Schedule == "" {
		c.Fetcher.Schedule = "0 0 9 * * *" // Daily at 9 AM
	}

	if c.Transformer.RawGlob == "" {
		c.Transformer.RawGlob = "*.json"
	}
	if c.Transformer.Schedule == "" {
		c.Transformer.Schedule = "0 30 9 * * *" // Daily at 9:30 AM, after the fetch
	}

	if c.Storage.Endpoint == "" {
		c.Storage.Endpoint = "s3.amazonaws.com"
	}
	if c.Storage.UseSSL == nil {
		secure := true
		c.Storage.UseSSL = &secure
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "raw-youtube-data-9"
	}
	if c.Storage.RawPrefix == "" {
		c.Storage.RawPrefix = "raw_data/"
	}
	if c.Storage.ProcessedPrefix == "" {
		c.Storage.ProcessedPrefix = "youtube_processed/"
	}

	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8501
	}
	if c.Dashboard.SearchLimit == 0 {
		c.Dashboard.SearchLimit = 50
	}
	if c.Dashboard.HistogramMaxBins == 0 {
		c.Dashboard.HistogramMaxBins = 30
	}
	if c.Dashboard.Title == "" {
		c.Dashboard.Title = "YouTube Popularity Forecast Dashboard"
	}
	if c.Dashboard.Description == "" {
		c.Dashboard.Description = defaultDescription
	}

	if c.Monitoring.HealthPort == nil {
		port := 8080
		c.Monitoring.HealthPort = &port
	}
}

// ValidateFetcher checks the settings the fetch stage depends on.
func (c *Config) ValidateFetcher() error {
	if c.YouTube.APIKey == "" && (c.YouTube.ClientID == "" || c.YouTube.ClientSecret == "") {
		return fmt.Errorf("YouTube credentials are required (set YOUTUBE_API_KEY, or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET)")
	}
	if c.Fetcher.Keyword == "" {
		return fmt.Errorf("fetcher keyword is required (fetcher.keyword)")
	}
	if c.Fetcher.MaxResults < 1 || c.Fetcher.MaxResults > MaxSearchResults {
		return fmt.Errorf("fetcher.max_results must be between 1 and %d, got %d", MaxSearchResults, c.Fetcher.MaxResults)
	}
	if c.Fetcher.LookbackDays < 1 {
		return fmt.Errorf("fetcher.lookback_days must be positive, got %d", c.Fetcher.LookbackDays)
	}
	return c.ValidateStorage()
}

// ValidateStorage checks that an object store can be built.
func (c *Config) ValidateStorage() error {
	if c.Storage.LocalDir != "" {
		return nil
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required (storage.bucket)")
	}
	if c.Storage.Endpoint == "" {
		return fmt.Errorf("storage endpoint is required (storage.endpoint)")
	}
	return nil
}

// ValidateDashboard checks the settings of the dashboard server.
func (c *Config) ValidateDashboard() error {
	if c.Dashboard.Port < 1 || c.Dashboard.Port > 65535 {
		return fmt.Errorf("dashboard.port out of range: %d", c.Dashboard.Port)
	}
	if c.Dashboard.SearchLimit < 1 {
		return fmt.Errorf("dashboard.search_limit must be positive, got %d", c.Dashboard.SearchLimit)
	}
	return c.ValidateStorage()
}
