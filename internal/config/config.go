// Package config loads the gateway's runtime tunables from the environment,
// via Viper, the same way the teacher codebase's config package does:
// a viper.New() instance with AutomaticEnv and a SetDefault per tunable,
// then a typed Config assembled with the typed Get* accessors.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/vivrish/navgateway/internal/keytable"
)

// Config is the gateway's full runtime configuration.
type Config struct {
	Server    ServerConfig
	Timeouts  TimeoutConfig
	Logging   LoggingConfig
	Redis     RedisConfig
	Dashboard DashboardConfig
}

// ServerConfig controls the robot-facing TCP listener.
type ServerConfig struct {
	Port          int    `mapstructure:"port"`
	Host          string `mapstructure:"host"`
	AcceptBacklog int    `mapstructure:"accept_backlog"`
}

// TimeoutConfig controls per-read socket deadlines.
type TimeoutConfig struct {
	DefaultSec  int `mapstructure:"default_sec"`
	RechargeSec int `mapstructure:"recharge_sec"`
}

// Default returns the configured default per-read timeout.
func (t TimeoutConfig) Default() time.Duration {
	return time.Duration(t.DefaultSec) * time.Second
}

// Recharge returns the configured recharge-episode per-read timeout.
func (t TimeoutConfig) Recharge() time.Duration {
	return time.Duration(t.RechargeSec) * time.Second
}

// LoggingConfig controls the process-wide zap logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// RedisConfig controls the best-effort event mirror (internal/bridge).
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// DashboardConfig controls the fleet operator WebSocket feed.
type DashboardConfig struct {
	Port int `mapstructure:"port"`
}

// KeyTable returns the fixed, non-overridable authentication key table.
// Exposed here for symmetry with the rest of Config even though Load never
// mutates it: the handshake's key table is shared protocol knowledge, not a
// deployment-time tunable.
func (c *Config) KeyTable() [5]keytable.Entry {
	return keytable.Default
}

// Load reads every tunable from the environment (falling back to its
// default), following the teacher's Viper pattern exactly.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("NAVGATEWAY_PORT", 7777)
	v.SetDefault("NAVGATEWAY_HOST", "0.0.0.0")
	v.SetDefault("NAVGATEWAY_ACCEPT_BACKLOG", 10)

	v.SetDefault("NAVGATEWAY_DEFAULT_TIMEOUT_SEC", 1)
	v.SetDefault("NAVGATEWAY_RECHARGE_TIMEOUT_SEC", 5)

	v.SetDefault("NAVGATEWAY_LOG_LEVEL", "info")

	v.SetDefault("NAVGATEWAY_REDIS_URL", "redis://localhost:6379/0")

	v.SetDefault("NAVGATEWAY_DASHBOARD_PORT", 8090)

	cfg := &Config{
		Server: ServerConfig{
			Port:          v.GetInt("NAVGATEWAY_PORT"),
			Host:          v.GetString("NAVGATEWAY_HOST"),
			AcceptBacklog: v.GetInt("NAVGATEWAY_ACCEPT_BACKLOG"),
		},
		Timeouts: TimeoutConfig{
			DefaultSec:  v.GetInt("NAVGATEWAY_DEFAULT_TIMEOUT_SEC"),
			RechargeSec: v.GetInt("NAVGATEWAY_RECHARGE_TIMEOUT_SEC"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("NAVGATEWAY_LOG_LEVEL"),
		},
		Redis: RedisConfig{
			URL: v.GetString("NAVGATEWAY_REDIS_URL"),
		},
		Dashboard: DashboardConfig{
			Port: v.GetInt("NAVGATEWAY_DASHBOARD_PORT"),
		},
	}

	return cfg, nil
}
