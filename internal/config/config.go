package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the wpquery configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Query   QueryConfig   `yaml:"query"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// QueryConfig holds builder defaults.
type QueryConfig struct {
	DefaultLimit int `yaml:"default_limit"` // posts_per_page when a definition sets none
	MaxLimit     int `yaml:"max_limit"`     // 0 = unbounded
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Pretty bool `yaml:"pretty"`
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile path, empty disables
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A missing file yields the defaults.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	var cfg Config
	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	default:
		if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Query.DefaultLimit == 0 {
		c.Query.DefaultLimit = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Query.MaxLimit < 0 {
		return fmt.Errorf("query.max_limit must be >= 0, got %d", c.Query.MaxLimit)
	}
	if c.Query.DefaultLimit < -1 {
		return fmt.Errorf("query.default_limit must be -1 or positive, got %d", c.Query.DefaultLimit)
	}
	if c.Query.MaxLimit > 0 && (c.Query.DefaultLimit == -1 || c.Query.DefaultLimit > c.Query.MaxLimit) {
		return fmt.Errorf("query.default_limit %d exceeds query.max_limit %d", c.Query.DefaultLimit, c.Query.MaxLimit)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests and `go run` from subdirectories.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
