package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed config.example.toml
var exampleConf []byte

// Ledger backends accepted in [LedgerConfig.Backend].
const (
	LedgerSQLite = "sqlite"
	LedgerFile   = "file"
	LedgerRedis  = "redis"
	LedgerMemory = "memory"
)

// Config represents the application configuration loaded from a TOML file
// and overridden by PERSONAS_* environment variables.
type Config struct {
	API      APIConfig      `toml:"api"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig locates the remote directory service.
type APIConfig struct {
	BaseURL string   `toml:"base_url" env:"PERSONAS_API_URL"`
	Timeout Duration `toml:"timeout" env:"PERSONAS_API_TIMEOUT"`
}

// LedgerConfig selects where the "already voted" marks are kept.
type LedgerConfig struct {
	Backend  string `toml:"backend" env:"PERSONAS_LEDGER_BACKEND"`
	Path     string `toml:"path" env:"PERSONAS_LEDGER_PATH"`
	RedisURL string `toml:"redis_url" env:"PERSONAS_REDIS_URL"`
	Key      string `toml:"key" env:"PERSONAS_LEDGER_KEY"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"PERSONAS_DB_PATH"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" env:"PERSONAS_LOG_LEVEL"`
}

// Duration wraps [time.Duration] so it can be written as "30s" in TOML and env vars.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: bad duration %q: %v", ErrInvalidConfig, s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config fields with any PERSONAS_* environment variables that are set.
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}
	return config.Validate()
}

// Validate checks the values that would otherwise fail late at first use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	if c.API.Timeout.Duration < 0 {
		return fmt.Errorf("%w: api.timeout must not be negative", ErrInvalidConfig)
	}

	switch c.Ledger.Backend {
	case LedgerSQLite, LedgerFile, LedgerMemory:
	case LedgerRedis:
		if c.Ledger.RedisURL == "" {
			return fmt.Errorf("%w: ledger.redis_url is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown ledger backend %q", ErrInvalidConfig, c.Ledger.Backend)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
