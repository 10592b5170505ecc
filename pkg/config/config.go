package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultConfigFile is read when no explicit file is configured
const DefaultConfigFile = "./config/settings.yaml"

var (
	mu          sync.Mutex
	initialized bool
	configFile  = DefaultConfigFile
	validate    = validator.New(validator.WithRequiredStructEnabled())
)

// SetConfigFile overrides the settings file read by Init
func SetConfigFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	if path != "" {
		configFile = filepath.Clean(path)
	}
}

// Init initializes the configuration system.
// Subsequent calls are no-ops until Reset is called.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return nil
	}

	setDefaults()

	viper.SetEnvPrefix("DISCOVERY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and env vars apply
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	initialized = true
	return nil
}

// IsInitialized reports whether Init completed successfully
func IsInitialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}

// Reset clears viper state so Init can run again (used by tests)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	viper.Reset()
	initialized = false
	configFile = DefaultConfigFile
}

// GetConfig returns the current configuration as a struct.
// Init() must be called before using this.
func GetConfig() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// Validate checks the struct tags and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed on '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	if c.Environment == "production" && c.Cache.Backend == "memory" && c.Cache.MaxEntries == 0 {
		return fmt.Errorf("cache.max_entries must be bounded in production")
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 15*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	viper.SetDefault("database.path", "./data/discovery.db")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.verbose", false)

	viper.SetDefault("search.timeout", 5*time.Second)
	viper.SetDefault("search.default_limit", 10)
	viper.SetDefault("search.max_limit", 50)
	viper.SetDefault("search.facet_limit", 10)
	viper.SetDefault("search.excerpt_length", 200)
	viper.SetDefault("search.include_drafts", false)

	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.ttl", 30*time.Second)
	viper.SetDefault("cache.max_entries", 1000)
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.key_prefix", "discovery:search:")
	viper.SetDefault("cache.ttl_by_path", map[string]any{"/api/v1/categories": "24h"})

	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.search_rps", 5)
	viper.SetDefault("rate_limiting.search_burst", 10)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
}
