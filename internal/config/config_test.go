package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Timeouts.DefaultSec != 1 {
		t.Errorf("Timeouts.DefaultSec = %d, want 1", cfg.Timeouts.DefaultSec)
	}
	if cfg.Timeouts.RechargeSec != 5 {
		t.Errorf("Timeouts.RechargeSec = %d, want 5", cfg.Timeouts.RechargeSec)
	}
	if cfg.Dashboard.Port != 8090 {
		t.Errorf("Dashboard.Port = %d, want 8090", cfg.Dashboard.Port)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("NAVGATEWAY_PORT", "9999")
	t.Setenv("NAVGATEWAY_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestTimeoutConfig_DurationConversion(t *testing.T) {
	tc := TimeoutConfig{DefaultSec: 2, RechargeSec: 7}
	if tc.Default().Seconds() != 2 {
		t.Errorf("Default() = %v, want 2s", tc.Default())
	}
	if tc.Recharge().Seconds() != 7 {
		t.Errorf("Recharge() = %v, want 7s", tc.Recharge())
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NAVGATEWAY_PORT", "NAVGATEWAY_HOST", "NAVGATEWAY_ACCEPT_BACKLOG",
		"NAVGATEWAY_DEFAULT_TIMEOUT_SEC", "NAVGATEWAY_RECHARGE_TIMEOUT_SEC",
		"NAVGATEWAY_LOG_LEVEL", "NAVGATEWAY_REDIS_URL", "NAVGATEWAY_DASHBOARD_PORT",
	} {
		val, had := os.LookupEnv(key)
		os.Unsetenv(key)
		if had {
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}
}
