package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/s0up4200/qbitwatch/sensor"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".qbitwatch"))
		}

		// Check /etc
		v.AddConfigPath("/etc/qbitwatch/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// qBittorrent defaults
	v.SetDefault("qbittorrent.url", "http://localhost:8080")
	v.SetDefault("qbittorrent.timeout", "30s")

	// Poll defaults
	v.SetDefault("poll.interval", "30s")

	// Server defaults
	v.SetDefault("server.listen", ":8790")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.QBittorrent.URL == "" {
		return fmt.Errorf("qbittorrent.url is required")
	}

	if cfg.QBittorrent.Username == "" {
		return fmt.Errorf("qbittorrent.username is required")
	}

	if cfg.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive")
	}

	if cfg.Poll.Filter != "" {
		if _, err := sensor.CompileFilter(cfg.Poll.Filter); err != nil {
			return fmt.Errorf("invalid poll.filter: %w", err)
		}
	}

	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
