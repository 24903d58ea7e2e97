package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for textfetch.
type Config struct {
	Extractor ExtractorConfig `mapstructure:"extractor" yaml:"extractor"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"   yaml:"fetcher"`
	History   HistoryConfig   `mapstructure:"history"   yaml:"history"`
	Server    ServerConfig    `mapstructure:"server"    yaml:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   yaml:"metrics"`
}

// ExtractorConfig controls how page text is extracted.
type ExtractorConfig struct {
	// Mode selects the extraction strategy: strip, selector, or xpath.
	Mode string `mapstructure:"mode" yaml:"mode"`

	// XPath is the expression used when Mode is "xpath".
	XPath string `mapstructure:"xpath" yaml:"xpath"`

	// Normalize collapses runs of whitespace and trims the extracted text.
	Normalize bool `mapstructure:"normalize" yaml:"normalize"`

	// MaxTextSize truncates extracted text beyond this many bytes (0 = unlimited).
	MaxTextSize int `mapstructure:"max_text_size" yaml:"max_text_size"`
}

// FetcherConfig controls the HTTP fetcher.
type FetcherConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
}

// HistoryConfig controls the extraction record history.
type HistoryConfig struct {
	// Backend is one of: none, file, mongo.
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the history file location for the file backend.
	Path string `mapstructure:"path" yaml:"path"`

	// MongoURI, MongoDatabase and MongoCollection configure the mongo backend.
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// ServerConfig controls the web shell.
type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extractor: ExtractorConfig{
			Mode: "strip",
		},
		Fetcher: FetcherConfig{
			RequestTimeout:  10 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		History: HistoryConfig{
			Backend:         "file",
			Path:            "./textfetch_history.json",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "textfetch",
			MongoCollection: "records",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
