package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	CurrentVersion = 1
	DefaultPath    = "~/.salesinsight/salesinsight.yaml"

	DefaultDataDir     = "data"
	DefaultDelimiter   = ";"
	DefaultChurnWindow = 90
	DefaultTopN        = 10
)

// Config is the top-level configuration.
type Config struct {
	Version  int            `yaml:"version" validate:"eq=1"`
	Source   SourceConfig   `yaml:"source"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LogConfig      `yaml:"logging,omitempty"`
	AWS      AWSConfig      `yaml:"aws,omitempty"`
}

// SourceConfig selects where the tables are read from.
type SourceConfig struct {
	Type             string `yaml:"type" validate:"oneof=csv postgresql oracle mongodb"`
	Directory        string `yaml:"directory,omitempty" validate:"required_if=Type csv"`
	Delimiter        string `yaml:"delimiter,omitempty" validate:"omitempty,len=1"`
	Catalog          string `yaml:"catalog,omitempty"` // optional YAML table catalog
	ConnectionString string `yaml:"connection_string,omitempty" validate:"required_if=Type postgresql,required_if=Type oracle,required_if=Type mongodb"`
	Database         string `yaml:"database,omitempty" validate:"required_if=Type mongodb"`
	Schema           string `yaml:"schema,omitempty"` // postgresql (default public) and oracle
}

// AnalysisConfig tunes the analyses.
type AnalysisConfig struct {
	ChurnWindowDays int `yaml:"churn_window_days" validate:"min=0"`
	TopN            int `yaml:"top_n" validate:"min=0"`
}

// AWSConfig selects the credentials used to publish exports to S3.
type AWSConfig struct {
	Profile string `yaml:"profile,omitempty"`
	Region  string `yaml:"region,omitempty"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level     string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Directory string `yaml:"directory,omitempty"` // empty logs to stderr only
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := newConfig()
	cfg.Version = CurrentVersion
	cfg.applyDefaults()
	return cfg
}

// newConfig presets the analysis settings so that values absent from the file
// take their defaults while explicit zeros are kept.
func newConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			ChurnWindowDays: DefaultChurnWindow,
			TopN:            DefaultTopN,
		},
	}
}

// Load reads and parses the config file from the given path.
// An empty path falls back to DefaultPath; a missing default file yields Default().
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ExpandHome(DefaultPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentVersion)
	}

	if err := cfg.resolveSecrets(); err != nil {
		return nil, fmt.Errorf("resolving secrets: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the given path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints after defaults are applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Source.Type == "" {
		c.Source.Type = "csv"
	}
	if c.Source.Type == "csv" && c.Source.Directory == "" {
		c.Source.Directory = DefaultDataDir
	}
	if c.Source.Delimiter == "" {
		c.Source.Delimiter = DefaultDelimiter
	}
	if c.Source.Type == "postgresql" && c.Source.Schema == "" {
		c.Source.Schema = "public"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Directory != "" {
		c.Logging.Directory = ExpandHome(c.Logging.Directory)
	}
}

var secretPattern = regexp.MustCompile(`\$\{(ENV|VAULT|AWS_SM):([^}]+)\}`)

func (c *Config) resolveSecrets() error {
	var err error
	c.Source.ConnectionString, err = ResolveValue(c.Source.ConnectionString)
	if err != nil {
		return fmt.Errorf("source connection string: %w", err)
	}
	return nil
}

// ResolveValue replaces every ${PROVIDER:ref} reference in val with its secret.
func ResolveValue(val string) (string, error) {
	var firstErr error
	out := secretPattern.ReplaceAllStringFunc(val, func(m string) string {
		if firstErr != nil {
			return m
		}
		parts := secretPattern.FindStringSubmatch(m)
		s, err := resolveRef(parts[1], parts[2])
		if err != nil {
			firstErr = err
			return m
		}
		return s
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func resolveRef(provider, ref string) (string, error) {
	switch provider {
	case "ENV":
		v := os.Getenv(ref)
		if v == "" {
			return "", fmt.Errorf("environment variable %s not set", ref)
		}
		return v, nil
	case "VAULT":
		return resolveVault(ref)
	case "AWS_SM":
		return resolveAWSSecretsManager(ref)
	default:
		return "", fmt.Errorf("unknown secrets provider: %s", provider)
	}
}

// ExpandHome expands ~ to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
