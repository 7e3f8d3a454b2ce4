package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// monthLayout is the wire format for period boundaries, e.g. "2015-01".
const monthLayout = "2006-01"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Reconcile ReconcileConfig `yaml:"reconcile" envconfig:"RECONCILE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration.
// Relative paths resolve against the working directory the run is started from.
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// ReconcileConfig contains the reconciliation run parameters
type ReconcileConfig struct {
	// SubscriptionFile is the tab-separated subscription export to reconcile against.
	SubscriptionFile string `yaml:"subscription_file" envconfig:"SUBSCRIPTION_FILE" validate:"required"`
	// ReportsGlob selects the usage report files to aggregate.
	ReportsGlob string `yaml:"reports_glob" envconfig:"REPORTS_GLOB" validate:"required"`
	// PolicyFile holds publisher ignore/special-case lists and manual overrides.
	PolicyFile string `yaml:"policy_file" envconfig:"POLICY_FILE"`
	// PeriodStart and PeriodEnd bound the reporting period, inclusive, as YYYY-MM.
	PeriodStart string `yaml:"period_start" envconfig:"PERIOD_START" validate:"required"`
	PeriodEnd   string `yaml:"period_end" envconfig:"PERIOD_END" validate:"required"`
	// UsageThreshold flags titles whose total usage falls below it in the summary.
	UsageThreshold int `yaml:"usage_threshold" envconfig:"USAGE_THRESHOLD" validate:"min=0"`
}

// defaultConfig returns the built-in defaults a config file or environment
// variables override
func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/reconciler.log",
		},
		Paths: PathsConfig{
			DataDir:   "data",
			OutputDir: "data/output",
			LogsDir:   "logs",
		},
		Reconcile: ReconcileConfig{
			SubscriptionFile: "data/wtcox_fulfilled.tsv",
			ReportsGlob:      "data/*.tsv",
			PolicyFile:       "policy.yml",
			PeriodStart:      "2015-01",
			PeriodEnd:        "2017-09",
			UsageThreshold:   1,
		},
	}
}

// Load builds the configuration in three layers: built-in defaults, then an
// optional YAML config file, then environment variables (prefix USAGE).
func Load(configFile string) (*Config, error) {
	cfg := defaultConfig()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	if err := envconfig.Process("USAGE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate checks struct tags and the period boundaries
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	start, end, err := c.Reconcile.Period()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("period_end %s precedes period_start %s", c.Reconcile.PeriodEnd, c.Reconcile.PeriodStart)
	}
	return nil
}

// Period parses the configured reporting period boundaries.
// Both boundaries are first-of-month dates in UTC.
func (r ReconcileConfig) Period() (start, end time.Time, err error) {
	start, err = time.Parse(monthLayout, r.PeriodStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period_start %q: %w", r.PeriodStart, err)
	}
	end, err = time.Parse(monthLayout, r.PeriodEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period_end %q: %w", r.PeriodEnd, err)
	}
	return start, end, nil
}
