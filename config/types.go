package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	QBittorrent QBittorrentConfig `mapstructure:"qbittorrent"`
	Poll        PollConfig        `mapstructure:"poll"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// QBittorrentConfig holds qBittorrent Web API connection details
type QBittorrentConfig struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PollConfig controls the fetch-then-reduce cycle
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	// Filter is an optional expr expression scoping which torrents feed the
	// sensors, e.g. `Category == "movies" and not isPaused()`.
	Filter string `mapstructure:"filter"`
}

// ServerConfig holds the HTTP sensor surface settings
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
