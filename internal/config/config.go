// Package config holds the s3sentinel application configuration: the
// defaults applied when a command-line flag is not provided.
package config

import (
	"fmt"
	"time"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/logging"
)

// Config is the top-level application configuration.
// It is loaded from ~/.config/s3-sentinel/config.yaml. Flags always win.
type Config struct {
	AWS    AWSConfig      `yaml:"aws"    json:"aws"`
	Scan   ScanConfig     `yaml:"scan"   json:"scan"`
	Log    logging.Config `yaml:"log"    json:"log"`
	Output OutputConfig   `yaml:"output" json:"output"`
}

// AWSConfig holds AWS-specific defaults used when flags are not provided.
type AWSConfig struct {
	// Profile is used when no --profile flag is provided.
	Profile string `yaml:"profile" json:"profile"`

	// Region is the default for --region. When set it overrides the profile
	// region and restricts ListBuckets to buckets in that region.
	Region string `yaml:"region" json:"region"`

	// MaxAttempts caps SDK retries per API call. Zero keeps the SDK default.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
}

// ScanConfig tunes the scan orchestrator.
type ScanConfig struct {
	// Concurrency is the number of buckets scanned at once.
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	// CheckConcurrency is the number of checks run at once per bucket.
	CheckConcurrency int `yaml:"check_concurrency" json:"check_concurrency"`

	// CheckTimeout bounds a single check invocation, e.g. "30s".
	CheckTimeout time.Duration `yaml:"check_timeout" json:"check_timeout"`

	// Timeout bounds the whole scan. Zero means no deadline.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Policy is the default policy file path.
	Policy string `yaml:"policy" json:"policy"`

	// MetricsFile, when set, receives Prometheus text-format scan metrics.
	MetricsFile string `yaml:"metrics_file" json:"metrics_file"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Format is table, json or ndjson.
	Format string `yaml:"format" json:"format"`

	// NoColor disables ANSI colours in table output.
	NoColor bool `yaml:"no_color" json:"no_color"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Concurrency:      5,
			CheckConcurrency: 1,
			CheckTimeout:     30 * time.Second,
		},
		Log:    logging.DefaultConfig(),
		Output: OutputConfig{Format: "table"},
	}
}

// Validate rejects values the orchestrator cannot use.
func (c *Config) Validate() error {
	switch {
	case c.AWS.MaxAttempts < 0:
		return fmt.Errorf("aws.max_attempts must be >= 0, got %d", c.AWS.MaxAttempts)
	case c.Scan.Concurrency < 0:
		return fmt.Errorf("scan.concurrency must be >= 0, got %d", c.Scan.Concurrency)
	case c.Scan.CheckConcurrency < 0:
		return fmt.Errorf("scan.check_concurrency must be >= 0, got %d", c.Scan.CheckConcurrency)
	case c.Scan.CheckTimeout < 0:
		return fmt.Errorf("scan.check_timeout must be >= 0, got %s", c.Scan.CheckTimeout)
	case c.Scan.Timeout < 0:
		return fmt.Errorf("scan.timeout must be >= 0, got %s", c.Scan.Timeout)
	}
	return nil
}

// Loader is the interface for reading Config from disk.
// Default implementation reads from ~/.config/s3-sentinel/config.yaml.
type Loader interface {
	// Load reads, parses, and validates the configuration file.
	Load() (*Config, error)

	// ConfigPath returns the absolute path to the configuration file.
	ConfigPath() string
}
