// Package config provides the configuration schema and loader for the
// Lectern skill server.
package config

import "time"

// LogLevel controls log verbosity for the Lectern server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// StoreDriver selects the session store backend.
type StoreDriver string

const (
	// StorePostgres persists session attributes in PostgreSQL. Intended for
	// production deployments.
	StorePostgres StoreDriver = "postgres"

	// StoreSQLite persists session attributes in a local SQLite file.
	StoreSQLite StoreDriver = "sqlite"

	// StoreMemory keeps session attributes in process memory. Intended for
	// tests and local experiments; state is lost on restart.
	StoreMemory StoreDriver = "memory"
)

// IsValid reports whether d is a recognised store driver.
func (d StoreDriver) IsValid() bool {
	switch d {
	case StorePostgres, StoreSQLite, StoreMemory:
		return true
	}
	return false
}

// Config is the root configuration structure for Lectern.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Skill   SkillConfig   `yaml:"skill"`
	Content ContentConfig `yaml:"content"`
	Store   StoreConfig   `yaml:"store"`
}

// ServerConfig holds network and logging settings for the skill server.
type ServerConfig struct {
	// ListenAddr is the TCP address the skill endpoint listens on
	// (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// MetricsAddr is the TCP address the /metrics and health endpoints
	// listen on. When empty they are served on ListenAddr.
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// SkillConfig holds the voice-platform binding.
type SkillConfig struct {
	// ApplicationIDs is the allow-list of platform application IDs this
	// server accepts requests for. Requests carrying any other ID are
	// rejected before dialog handling runs.
	ApplicationIDs []string `yaml:"application_ids"`
}

// ContentConfig configures the content search API client.
type ContentConfig struct {
	// BaseURL is the root of the learning content API
	// (e.g., "https://www.linkedin.com/learning-api").
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each search and playback-URL request. Default: 10s.
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig configures the session attribute store.
type StoreConfig struct {
	// Driver selects the backend: postgres, sqlite, or memory.
	Driver StoreDriver `yaml:"driver"`

	// DSN is the PostgreSQL connection string. Required for the postgres
	// driver. May also be supplied via the LECTERN_STORE_DSN environment
	// variable, which takes precedence.
	DSN string `yaml:"dsn"`

	// Path is the SQLite database file path. Required for the sqlite driver.
	Path string `yaml:"path"`
}
