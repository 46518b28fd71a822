// Package core contains the configuration logic for ogit: loading the
// .ogitconfig file, environment variables and command-line flags into a
// single validated models.Config.
package core

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/valter-silva-au/ogit/pkg/models"
)

// ConfigFileName is the name of the YAML configuration file, looked up in the
// base path and then in the user's home directory.
const ConfigFileName = ".ogitconfig"

// flagKeys maps persistent CLI flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":      "logging.level",
	"log-file":       "logging.file",
	"seq-url":        "logging.seq_url",
	"correlation-id": "logging.correlation_id",
	"no-seq":         "logging.no_seq",
}

// ConfigurationManager defines the interface for loading and validating the
// effective ogit configuration.
type ConfigurationManager interface {
	Load(flags *pflag.FlagSet) (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
}

// viperConfigManager implements ConfigurationManager using Viper.
type viperConfigManager struct {
	basePath string
	homeDir  string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .ogitconfig from basePath, falling back to homeDir.
func NewConfigurationManager(basePath, homeDir string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath, homeDir: homeDir}
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *models.Config {
	return &models.Config{
		Logging: models.LoggingConfig{
			Level:       "info",
			Sinks:       []string{"seq"},
			SeqURL:      "http://localhost:5341/api/events/raw?clef",
			TimeoutSecs: 5,
		},
	}
}

// Load merges, in increasing precedence: defaults, .ogitconfig, a .env file
// in the base path, OGIT_* environment variables and explicitly set flags.
// flags may be nil. A missing config file is not an error.
func (cm *viperConfigManager) Load(flags *pflag.FlagSet) (*models.Config, error) {
	cfg := DefaultConfig()

	// Existing environment variables take precedence over .env entries.
	_ = godotenv.Load(filepath.Join(cm.basePath, ".env"))

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	if cm.homeDir != "" {
		v.AddConfigPath(cm.homeDir)
	}

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.sinks", cfg.Logging.Sinks)
	v.SetDefault("logging.seq_url", cfg.Logging.SeqURL)
	v.SetDefault("logging.timeout_seconds", cfg.Logging.TimeoutSecs)
	v.SetDefault("logging.no_seq", false)

	v.SetEnvPrefix("OGIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Short aliases for the settings most often changed per invocation.
	_ = v.BindEnv("logging.level", "OGIT_LOG_LEVEL", "OGIT_LOGGING_LEVEL")
	_ = v.BindEnv("logging.file", "OGIT_LOG_FILE", "OGIT_LOGGING_FILE")
	_ = v.BindEnv("logging.no_seq", "OGIT_NO_SEQ", "OGIT_LOGGING_NO_SEQ")
	_ = v.BindEnv("logging.correlation_id", "OGIT_CORRELATION_ID", "OGIT_LOGGING_CORRELATION_ID")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v.GetString("logging.level")))
	cfg.Logging.Sinks = splitList(v.GetStringSlice("logging.sinks"))
	cfg.Logging.File = v.GetString("logging.file")
	cfg.Logging.SeqURL = v.GetString("logging.seq_url")
	cfg.Logging.SeqAPIKey = v.GetString("logging.seq_api_key")
	cfg.Logging.TimeoutSecs = v.GetInt("logging.timeout_seconds")
	cfg.Logging.MetricsFile = v.GetString("logging.metrics_file")
	cfg.Logging.CorrelationID = v.GetString("logging.correlation_id")
	cfg.Commit.AuthorName = v.GetString("commit.author_name")
	cfg.Commit.AuthorEmail = v.GetString("commit.author_email")

	// A file path enables the file sink; --no-seq disables the collector.
	if cfg.Logging.File != "" && !containsString(cfg.Logging.Sinks, "file") {
		cfg.Logging.Sinks = append(cfg.Logging.Sinks, "file")
	}
	if v.GetBool("logging.no_seq") {
		cfg.Logging.Sinks = removeString(cfg.Logging.Sinks, "seq")
	}

	if err := cm.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validLevels is the set of accepted logging.level values.
var validLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
	"off":     true,
}

// validSinks is the set of accepted logging.sinks values.
var validSinks = map[string]bool{
	"seq":  true,
	"file": true,
}

// ValidateConfig checks cfg for invalid values and reports every problem
// found in a single error.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string
	lc := cfg.Logging

	if !validLevels[strings.ToLower(lc.Level)] {
		errs = append(errs, fmt.Sprintf(
			"logging.level %q is invalid, must be one of: debug, info, warn, error, off",
			lc.Level,
		))
	}

	for _, s := range lc.Sinks {
		if !validSinks[s] {
			errs = append(errs, fmt.Sprintf("logging.sinks entry %q is invalid, must be one of: seq, file", s))
		}
	}

	if containsString(lc.Sinks, "file") && lc.File == "" {
		errs = append(errs, "logging.file must be set when the file sink is enabled")
	}

	if containsString(lc.Sinks, "seq") {
		if u, err := url.Parse(lc.SeqURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("logging.seq_url %q is not an absolute URL", lc.SeqURL))
		}
	}

	if lc.TimeoutSecs < 0 {
		errs = append(errs, fmt.Sprintf("logging.timeout_seconds must be non-negative, got %d", lc.TimeoutSecs))
	}

	if lc.CorrelationID != "" {
		if _, err := uuid.Parse(lc.CorrelationID); err != nil {
			errs = append(errs, fmt.Sprintf("logging.correlation_id %q is not a uuid", lc.CorrelationID))
		}
	}

	if (cfg.Commit.AuthorName == "") != (cfg.Commit.AuthorEmail == "") {
		errs = append(errs, "commit.author_name and commit.author_email must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// splitList flattens comma-separated entries, as produced by environment
// variables like OGIT_LOGGING_SINKS=seq,file.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.ToLower(strings.TrimSpace(part)); p != "" && !containsString(out, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0:0]
	for _, item := range list {
		if item != s {
			out = append(out, item)
		}
	}
	return out
}
