package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Database     DatabaseConfig   `mapstructure:"database"`
	Search       SearchConfig     `mapstructure:"search"`
	Cache        CacheConfig      `mapstructure:"cache"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Logging      LoggingConfig    `mapstructure:"logging"`
	Monitoring   MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path                  string        `mapstructure:"path"`
	MaxConnections        int           `mapstructure:"max_connections" validate:"min=0"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections" validate:"min=0"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	Verbose               bool          `mapstructure:"verbose"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	DefaultLimit  int           `mapstructure:"default_limit" validate:"min=1,ltefield=MaxLimit"`
	MaxLimit      int           `mapstructure:"max_limit" validate:"min=1,max=50"`
	FacetLimit    int           `mapstructure:"facet_limit" validate:"min=1,max=100"`
	ExcerptLength int           `mapstructure:"excerpt_length" validate:"min=1"`
	IncludeDrafts bool          `mapstructure:"include_drafts"`
}

// CacheConfig contains search response cache settings
type CacheConfig struct {
	Backend    string        `mapstructure:"backend" validate:"oneof=memory redis none"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries" validate:"min=0"`
	RedisURL   string        `mapstructure:"redis_url" validate:"required_if=Backend redis"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
	// TTLByPath overrides TTL for request paths; the longest matching
	// prefix wins
	TTLByPath map[string]time.Duration `mapstructure:"ttl_by_path" validate:"dive,keys,startswith=/,endkeys,gt=0"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	SearchRPS   int  `mapstructure:"search_rps" validate:"min=1"`
	SearchBurst int  `mapstructure:"search_burst" validate:"min=1"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// MonitoringConfig contains monitoring settings
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path" validate:"required_if=Enabled true"`
}
