package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Flash    FlashConfig    `mapstructure:"flash"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // "development" or "production"
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // "sqlite" or "postgres"
	DSN             string `mapstructure:"dsn"`               // Connection string
	LogLevel        string `mapstructure:"log_level"`         // GORM log level; empty follows log.level
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // Maximum idle connections (Postgres)
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // Maximum open connections (Postgres)
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // Connection max lifetime in minutes (Postgres)
}

// FlashConfig holds user-message storage configuration
type FlashConfig struct {
	Type       string `mapstructure:"type"`        // "memory" or "valkey"
	ValkeyAddr string `mapstructure:"valkey_addr"` // Valkey address (if type=valkey), e.g., "localhost:6379"
	TTLSeconds int    `mapstructure:"ttl_seconds"` // How long undelivered messages are kept
}

// LogConfig holds logging configuration
type LogConfig struct {
	Format string `mapstructure:"format"` // "json" or "text"
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from the given file, or from the default
// search path when file is empty.
func LoadFrom(file string) (*Config, error) {
	v := viper.New()

	// Set defaults for local development
	v.SetDefault("server.port", 8470)
	v.SetDefault("server.mode", "development")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./multiversion.db")
	v.SetDefault("database.log_level", "")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60) // 60 minutes
	v.SetDefault("flash.type", "memory")
	v.SetDefault("flash.valkey_addr", "localhost:6379")
	v.SetDefault("flash.ttl_seconds", 3600)
	v.SetDefault("log.format", "text")
	v.SetDefault("log.level", "info")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/multiversion/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, using defaults
	}

	// Environment variables override
	v.SetEnvPrefix("MULTIVERSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
