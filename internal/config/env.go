package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default and file values
func LoadFromEnv(cfg *Config) {
	if title := os.Getenv("WINKEEP_TITLE"); title != "" {
		cfg.Target.Title = title
	}

	// Tracker configuration
	if pollInterval := os.Getenv("WINKEEP_POLL_INTERVAL"); pollInterval != "" {
		var d Duration
		if err := d.UnmarshalText([]byte(pollInterval)); err == nil && d > 0 {
			if d >= cfg.Tracker.MinPollInterval && d <= cfg.Tracker.MaxPollInterval {
				cfg.Tracker.PollInterval = d
			}
		}
	}

	// Storage configuration
	if geometryPath := os.Getenv("WINKEEP_GEOMETRY_PATH"); geometryPath != "" {
		cfg.Storage.GeometryPath = geometryPath
	}

	if positionPath := os.Getenv("WINKEEP_POSITION_PATH"); positionPath != "" {
		cfg.Storage.PositionPath = positionPath
	}

	// Host configuration
	if hostTitle := os.Getenv("WINKEEP_HOST_TITLE"); hostTitle != "" {
		cfg.Host.Title = hostTitle
	}

	// Journal configuration
	if enabled := os.Getenv("WINKEEP_JOURNAL"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Journal.Enabled = val
		}
	}

	if dbPath := os.Getenv("WINKEEP_DB_PATH"); dbPath != "" {
		cfg.Journal.Path = dbPath
	}

	// Daemon configuration
	if pidFile := os.Getenv("WINKEEP_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if logFile := os.Getenv("WINKEEP_LOG_FILE"); logFile != "" {
		cfg.Daemon.LogFile = logFile
	}

	// Web configuration
	if webHost := os.Getenv("WINKEEP_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("WINKEEP_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}

	if backend := os.Getenv("WINKEEP_BACKEND"); backend != "" {
		cfg.Backend.Prefer = backend
	}
}

// PollInterval returns the configured poll interval
func (c *Config) PollInterval() time.Duration {
	return c.Tracker.PollInterval.Duration()
}
