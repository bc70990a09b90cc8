// Package settings loads run-level settings for the shelltest CLI.
// Values come from flags, SHELLTEST_* environment variables and an optional
// .shelltest.yaml project file, in that order of precedence.
package settings

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"shelltest/internal/config"
	"shelltest/internal/output"
	"shelltest/internal/report"
)

// EnvPrefix is the prefix of environment variables read into settings.
const EnvPrefix = "SHELLTEST"

// Setting keys.
const (
	KeyLogLevel     = "log_level"
	KeyLogFile      = "log_file"
	KeyVerbose      = "verbose"
	KeyShowOutput   = "show_output"
	KeyStrict       = "strict"
	KeyTimeout      = "timeout"
	KeyEnvFile      = "env_file"
	KeyReportFile   = "report_file"
	KeyOutputMaxLen = "output_max_len"
	KeyInlineDiff   = "inline_diff"
	KeyColor        = "color"
	KeyOptions      = "options"
)

// Settings holds everything that shapes a run beyond the test files themselves.
type Settings struct {
	LogLevel     string        `mapstructure:"log_level"`
	LogFile      string        `mapstructure:"log_file"`
	Verbose      bool          `mapstructure:"verbose"`
	ShowOutput   bool          `mapstructure:"show_output"`
	Strict       bool          `mapstructure:"strict"`
	Timeout      time.Duration `mapstructure:"timeout"`
	EnvFile      string        `mapstructure:"env_file"`
	ReportFile   string        `mapstructure:"report_file"`
	OutputMaxLen int           `mapstructure:"output_max_len"`
	InlineDiff   bool          `mapstructure:"inline_diff"`
	Color        string        `mapstructure:"color"`
	// Options are config option values applied to every file before parsing.
	Options map[string]any `mapstructure:"options"`
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyShowOutput, false)
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyEnvFile, "")
	v.SetDefault(KeyReportFile, "")
	v.SetDefault(KeyOutputMaxLen, report.DefaultOutputMaxLen)
	v.SetDefault(KeyInlineDiff, false)
	v.SetDefault(KeyColor, "auto")
	v.SetDefault(KeyOptions, map[string]any{})
	return v
}

// Load reads the project file and decodes all settings. An explicit
// configFile must exist; otherwise .shelltest.yaml in the working directory is
// used when present.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".shelltest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read project config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if s.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative: %v", s.Timeout)
	}
	if _, err := output.ParseMode(s.Color); err != nil {
		return nil, err
	}
	return &s, nil
}

// BaseConfig builds the starting config for every test file, applying
// Options through Config.Set so editability and validation still hold.
func (s *Settings) BaseConfig() (*config.Config, error) {
	cfg := config.New()
	names := make([]string, 0, len(s.Options))
	for name := range s.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cfg.Set(name, fmt.Sprint(s.Options[name])); err != nil {
			return nil, fmt.Errorf("invalid project option: %w", err)
		}
	}
	return cfg, nil
}

// LoadEnvFile reads KEY=VALUE pairs for the child process environment.
// An empty path yields no variables.
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return env, nil
}
