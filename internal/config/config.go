package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
)

// Source drivers.
const (
	DriverFS    = "fs"
	DriverRedis = "redis"
)

// Config holds the perkdex configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Source  SourceConfig  `yaml:"source"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys means auth is off.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SourceConfig selects and configures where offer documents are read from.
type SourceConfig struct {
	Driver     string      `yaml:"driver"` // fs, redis (default: fs)
	Dir        string      `yaml:"dir"`
	Extensions []string    `yaml:"extensions"`
	Workers    int         `yaml:"workers"`
	Watch      bool        `yaml:"watch"`
	DebounceMS int         `yaml:"debounce_ms"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig holds the connection settings of the redis source driver.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds query defaults.
type SearchConfig struct {
	DefaultTopK int    `yaml:"default_top_k"`
	MaxTopK     int    `yaml:"max_top_k"`
	Strategy    string `yaml:"strategy"` // name, keyword (default: name)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML, substitutes ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Source.Driver == "" {
		c.Source.Driver = DriverFS
	}
	if c.Source.Dir == "" {
		c.Source.Dir = "./offers"
	}
	if len(c.Source.Extensions) == 0 {
		c.Source.Extensions = []string{".txt", ".pdf"}
	}
	if c.Source.Workers <= 0 {
		c.Source.Workers = 4
	}
	if c.Source.DebounceMS <= 0 {
		c.Source.DebounceMS = 500
	}
	if c.Source.Redis.KeyPrefix == "" {
		c.Source.Redis.KeyPrefix = "perkdex:offers:"
	}
	if c.Source.Redis.ReadinessTimeout <= 0 {
		c.Source.Redis.ReadinessTimeout = 10
	}
	if c.Search.DefaultTopK <= 0 {
		c.Search.DefaultTopK = 10
	}
	if c.Search.MaxTopK <= 0 {
		c.Search.MaxTopK = 100
	}
	if c.Search.Strategy == "" {
		c.Search.Strategy = string(mode.Name)
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Source.Driver {
	case DriverFS:
		for _, ext := range c.Source.Extensions {
			if strings.TrimPrefix(strings.TrimSpace(ext), ".") == "" {
				return fmt.Errorf("source.extensions must not contain blank entries")
			}
		}
	case DriverRedis:
		if len(c.Source.Redis.Addrs) == 0 {
			return fmt.Errorf("source.redis.addrs is required for the redis driver")
		}
		if c.Source.Watch {
			return fmt.Errorf("source.watch is only supported by the fs driver")
		}
	default:
		return fmt.Errorf("source.driver must be %q or %q, got %q", DriverFS, DriverRedis, c.Source.Driver)
	}
	if !mode.Mode(c.Search.Strategy).IsValid() {
		return fmt.Errorf("search.strategy must be %q or %q, got %q", mode.Name, mode.Keyword, c.Search.Strategy)
	}
	if c.Search.DefaultTopK > c.Search.MaxTopK {
		return fmt.Errorf("search.default_top_k (%d) exceeds search.max_top_k (%d)", c.Search.DefaultTopK, c.Search.MaxTopK)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
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
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
