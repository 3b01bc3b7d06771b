package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	PettyCash PettyCashConfig `mapstructure:"pettycash"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// PettyCashConfig holds domain defaults
type PettyCashConfig struct {
	// DefaultCurrency is assigned to wallets created without one.
	DefaultCurrency string `mapstructure:"default_currency"`
	// ActorHeader names the HTTP header carrying the acting user,
	// filled upstream by the identity proxy.
	ActorHeader string `mapstructure:"actor_header"`
	// LowBalanceScanInterval is how often the background scanner checks
	// wallets against their low-balance thresholds.
	LowBalanceScanInterval time.Duration `mapstructure:"low_balance_scan_interval"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
// A missing config file is not an error; defaults and environment
// variables are enough to run.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/pettycash.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Domain defaults
	v.SetDefault("pettycash.default_currency", "THB")
	v.SetDefault("pettycash.actor_header", "X-Actor-ID")
	v.SetDefault("pettycash.low_balance_scan_interval", 15*time.Minute)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "PETTYCASH_DB_PATH")
	v.BindEnv("server.port", "PETTYCASH_PORT")
	v.BindEnv("logger.level", "PETTYCASH_LOG_LEVEL")
	v.BindEnv("pettycash.default_currency", "PETTYCASH_CURRENCY")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.PettyCash.DefaultCurrency == "" {
		return fmt.Errorf("pettycash.default_currency is required")
	}
	return nil
}

// isNotExist reports whether reading the config failed because the file is
// absent. viper returns ConfigFileNotFoundError only when searching paths;
// with an explicit file it surfaces the raw fs error.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
