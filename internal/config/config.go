package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/flakescan/internal/scanner"
)

// Scorer providers.
const (
	ProviderAzure  = "azure"
	ProviderGemini = "gemini"
)

var (
	// ErrMissingEndpoint is returned when the Azure provider has no endpoint.
	ErrMissingEndpoint = errors.New("scorer endpoint is not set (AZURE_OPENAI_ENDPOINT)")

	// ErrMissingAPIKey is returned when the selected provider has no key.
	ErrMissingAPIKey = errors.New("scorer API key is not set (FLAKESCAN_API_KEY, AZURE_OPENAI_KEY or GEMINI_API_KEY)")
)

// Config is the top-level flakescan configuration.
type Config struct {
	Log    Log    `mapstructure:"log"`
	Output Output `mapstructure:"output"`
	Scan   Scan   `mapstructure:"scan"`
	Report Report `mapstructure:"report"`
	Scorer Scorer `mapstructure:"scorer"`
}

// Log defines logging preferences.
type Log struct {
	Level string `mapstructure:"level"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
}

// Scan defines traversal settings.
type Scan struct {
	Workers int      `mapstructure:"workers"`
	Exclude []string `mapstructure:"exclude"`
}

// Report defines artifact names and the structured report format.
type Report struct {
	Format      string `mapstructure:"format"`
	SummaryFile string `mapstructure:"summary_file"`
	IssuesFile  string `mapstructure:"issues_file"`
	SARIF       bool   `mapstructure:"sarif"`
}

// Scorer configures the remote model that grades a scan.
type Scorer struct {
	Provider    string        `mapstructure:"provider"`
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	Deployment  string        `mapstructure:"deployment"`
	APIVersion  string        `mapstructure:"api_version"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. A .env file in the working
// directory is loaded first; variables already set in the environment win.
func Load(cfgFile string) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("scan.workers", DefaultScan.Workers)
	v.SetDefault("scan.exclude", DefaultScan.Exclude)
	v.SetDefault("report.format", DefaultReport.Format)
	v.SetDefault("report.summary_file", DefaultReport.SummaryFile)
	v.SetDefault("report.issues_file", DefaultReport.IssuesFile)
	v.SetDefault("report.sarif", DefaultReport.SARIF)
	v.SetDefault("scorer.provider", DefaultScorer.Provider)
	v.SetDefault("scorer.endpoint", "")
	v.SetDefault("scorer.api_key", "")
	v.SetDefault("scorer.deployment", DefaultScorer.Deployment)
	v.SetDefault("scorer.api_version", DefaultScorer.APIVersion)
	v.SetDefault("scorer.model", DefaultScorer.Model)
	v.SetDefault("scorer.timeout", DefaultScorer.Timeout)
	v.SetDefault("scorer.max_tokens", DefaultScorer.MaxTokens)
	v.SetDefault("scorer.temperature", DefaultScorer.Temperature)

	// BindEnv only fails when called without a key.
	_ = v.BindEnv("log.level", "FLAKESCAN_LOG_LEVEL")
	_ = v.BindEnv("scorer.provider", "FLAKESCAN_SCORER")
	_ = v.BindEnv("scorer.endpoint", "AZURE_OPENAI_ENDPOINT")
	_ = v.BindEnv("scorer.api_key", "FLAKESCAN_API_KEY", "AZURE_OPENAI_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("scorer.deployment", "AZURE_OAI_DEPLOYMENT")

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Scorer.Provider = strings.ToLower(strings.TrimSpace(cfg.Scorer.Provider))
	cfg.Scorer.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Scorer.Endpoint), "/")

	return &cfg, nil
}

// Validate checks the settings the scan command depends on.
func (c *Config) Validate() error {
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must not be negative (got %d)", c.Scan.Workers)
	}
	switch c.Report.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("report.format must be json or yaml (got %q)", c.Report.Format)
	}
	if c.Report.SummaryFile == "" || c.Report.IssuesFile == "" {
		return errors.New("report.summary_file and report.issues_file must not be empty")
	}
	if err := scanner.ValidateExcludes(c.Scan.Exclude); err != nil {
		return fmt.Errorf("scan.exclude: %w", err)
	}
	return nil
}

// Validate checks that the selected provider has what it needs to connect.
func (s Scorer) Validate() error {
	switch s.Provider {
	case ProviderAzure:
		if s.Endpoint == "" {
			return ErrMissingEndpoint
		}
		if s.Deployment == "" {
			return errors.New("scorer deployment is not set (AZURE_OAI_DEPLOYMENT)")
		}
	case ProviderGemini:
		if s.Model == "" {
			return errors.New("scorer model is not set")
		}
	default:
		return fmt.Errorf("unknown scorer provider %q (want %s or %s)", s.Provider, ProviderAzure, ProviderGemini)
	}
	if s.APIKey == "" {
		return ErrMissingAPIKey
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("scorer timeout must be positive (got %s)", s.Timeout)
	}
	return nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
