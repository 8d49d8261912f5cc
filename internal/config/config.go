package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const appDir = "winkeep"

// Backend names accepted by BackendConfig.Prefer
var Backends = []string{"auto", "x11", "xdotool", "sway", "win32"}

// Config holds all application configuration
type Config struct {
	// Window to track
	Target TargetConfig `toml:"target"`

	// Tracker configuration
	Tracker TrackerConfig `toml:"tracker"`

	// Geometry record locations
	Storage StorageConfig `toml:"storage"`

	// Host window position handling
	Host HostConfig `toml:"host"`

	// Event journal configuration
	Journal JournalConfig `toml:"journal"`

	// Daemon configuration
	Daemon DaemonConfig `toml:"daemon"`

	// Web server configuration
	Web WebConfig `toml:"web"`

	// Window system integration
	Backend BackendConfig `toml:"backend"`
}

// TargetConfig identifies the tracked window
type TargetConfig struct {
	Title string `toml:"title"` // Exact window title to look for
}

// TrackerConfig holds polling behavior configuration
type TrackerConfig struct {
	PollInterval    Duration `toml:"poll_interval"` // How often to look for the window
	MinPollInterval Duration `toml:"-"`             // Minimum allowed poll interval
	MaxPollInterval Duration `toml:"-"`             // Maximum allowed poll interval
}

// StorageConfig holds the paths of the durable records
type StorageConfig struct {
	GeometryPath string `toml:"geometry_path"` // Tracked window geometry
	PositionPath string `toml:"position_path"` // Host window position
}

// HostConfig describes winkeep's own window
type HostConfig struct {
	Title    string `toml:"title"` // Empty disables host position handling
	DefaultX int32  `toml:"default_x"`
	DefaultY int32  `toml:"default_y"`
}

// JournalConfig holds event journal configuration
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Empty means ~/.config/winkeep/journal.db
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `toml:"pid_file"` // Path to PID file for daemon management
	LogFile string `toml:"log_file"` // Where the daemonized process logs
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string `toml:"host"` // Host to bind web server to
	Port int    `toml:"port"` // Port for web server
}

// BackendConfig selects the window system integration
type BackendConfig struct {
	Prefer string `toml:"prefer"`
}

// Dir returns the directory holding winkeep's configuration and records
func Dir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, appDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appDir)
	}
	return filepath.Join(os.TempDir(), appDir)
}

// DefaultFilePath returns the default location of the TOML config file
func DefaultFilePath() string {
	return filepath.Join(Dir(), "winkeep.toml")
}

// Default returns a Config with sensible default values
func Default() *Config {
	dir := Dir()
	return &Config{
		Target: TargetConfig{
			Title: "Replayer",
		},
		Tracker: TrackerConfig{
			PollInterval:    Duration(2 * time.Second),
			MinPollInterval: Duration(100 * time.Millisecond),
			MaxPollInterval: Duration(60 * time.Second),
		},
		Storage: StorageConfig{
			GeometryPath: filepath.Join(dir, "geometry.yaml"),
			PositionPath: filepath.Join(dir, "position.yaml"),
		},
		Host: HostConfig{
			Title:    "",
			DefaultX: 100,
			DefaultY: 100,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "", // Empty means use default ~/.config/winkeep/journal.db
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/winkeep-%d.pid", os.Getuid()),
			LogFile: "/tmp/winkeep.log",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 17000 + os.Getuid()%1000,
		},
		Backend: BackendConfig{
			Prefer: "auto",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Target.Title == "" {
		return fmt.Errorf("target window title cannot be empty")
	}

	// Validate tracker intervals
	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	if c.Storage.GeometryPath == "" {
		return fmt.Errorf("geometry path cannot be empty")
	}

	if c.Host.Title != "" && c.Storage.PositionPath == "" {
		return fmt.Errorf("position path cannot be empty when a host title is set")
	}

	if c.Host.Title != "" && c.Host.Title == c.Target.Title {
		return fmt.Errorf("host title cannot equal the target title %q", c.Target.Title)
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	if !validBackend(c.Backend.Prefer) {
		return fmt.Errorf("unknown backend %q (valid: %v)", c.Backend.Prefer, Backends)
	}

	return nil
}

func validBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if Duration(interval) < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if Duration(interval) > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = Duration(interval)
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Target:
    Title: %s
  Tracker:
    Poll Interval: %v
  Storage:
    Geometry: %s
    Position: %s
  Host:
    Title: %s
    Default: (%d, %d)
  Journal:
    Enabled: %v
    Path: %s
  Daemon:
    PID File: %s
    Log File: %s
  Web:
    Host: %s
    Port: %d
  Backend:
    Prefer: %s`,
		c.Target.Title,
		c.Tracker.PollInterval,
		c.Storage.GeometryPath,
		c.Storage.PositionPath,
		c.Host.Title,
		c.Host.DefaultX, c.Host.DefaultY,
		c.Journal.Enabled,
		c.Journal.Path,
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
		c.Web.Host,
		c.Web.Port,
		c.Backend.Prefer,
	)
}
