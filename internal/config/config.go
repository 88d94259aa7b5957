package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/platform"
)

// Config represents the glue configuration
type Config struct {
	App           AppConfig           `json:"app"`
	Notifications NotificationsConfig `json:"notifications"`
	Engine        EngineConfig        `json:"engine"`
	Daemon        DaemonConfig        `json:"daemon"`
	Logging       LoggingConfig       `json:"logging"`
}

// AppConfig identifies the real application window and the tap handler target
type AppConfig struct {
	Name              string   `json:"name"`
	WindowTarget      string   `json:"windowTarget"`      // Target of the relaunch intent (the real window)
	ReactivatorTarget string   `json:"reactivatorTarget"` // Target of notification taps
	DesktopID         string   `json:"desktopId"`         // .desktop file id, e.g. "org.example.Engine"
	WindowClass       string   `json:"windowClass"`       // WM_CLASS for xdotool/kdotool (empty = Name)
	WindowTitle       string   `json:"windowTitle"`       // Title substring for title-based focus (empty = Name)
	LaunchCommand     string   `json:"launchCommand"`     // Started with --intent=<wire form> when no window can be focused
	LaunchArgs        []string `json:"launchArgs"`
}

// NotificationsConfig represents notification settings
type NotificationsConfig struct {
	Enabled         bool   `json:"enabled"`
	Backend         string `json:"backend"` // auto, dbus, beeep, memory
	Title           string `json:"title"`
	Icon            string `json:"icon"`
	LightColor      string `json:"lightColor"` // "#RRGGBB" or "#AARRGGBB"
	LightOnMs       int    `json:"lightOnMs"`
	LightOffMs      int    `json:"lightOffMs"`
	TimeoutSeconds  int    `json:"timeoutSeconds"`  // 0 = server default
	ShowSessionName *bool  `json:"showSessionName"` // Append a friendly session label to the title (default: true)
}

// EngineConfig describes the native engine's live-signal command
type EngineConfig struct {
	Command string   `json:"command"` // Resolved with a PATH lookup at signal time (empty = not loaded)
	Args    []string `json:"args"`
}

// DaemonConfig represents the IPC daemon settings
type DaemonConfig struct {
	SocketPath         string `json:"socketPath"`         // empty = $XDG_RUNTIME_DIR default
	IdleTimeoutSeconds int    `json:"idleTimeoutSeconds"` // 0 = never exit on idle
	MetricsAddr        string `json:"metricsAddr"`        // e.g. "127.0.0.1:9464" (empty = disabled)
}

// LoggingConfig represents logger settings
type LoggingConfig struct {
	Level   string `json:"level"`
	File    string `json:"file"`
	Console *bool  `json:"console"` // default: true
}

const (
	defaultName              = "engine"
	defaultWindowTarget      = "engine-main"
	defaultReactivatorTarget = "engine-reactivate"
	defaultBackend           = "auto"
	defaultLightColor        = "#0000FF"
	defaultLightMs           = 500
	defaultIdleTimeout       = 600
)

var validBackends = map[string]bool{
	"auto":   true,
	"dbus":   true,
	"beeep":  true,
	"memory": true,
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:              defaultName,
			WindowTarget:      defaultWindowTarget,
			ReactivatorTarget: defaultReactivatorTarget,
		},
		Notifications: NotificationsConfig{
			Enabled:    true,
			Backend:    defaultBackend,
			Title:      "Engine",
			LightColor: defaultLightColor,
			LightOnMs:  defaultLightMs,
			LightOffMs: defaultLightMs,
		},
		Daemon: DaemonConfig{
			IdleTimeoutSeconds: defaultIdleTimeout,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a file
// If the file doesn't exist, returns default config
func Load(path string) (*Config, error) {
	if !platform.FileExists(path) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand environment variables in paths
	config.Notifications.Icon = platform.ExpandEnv(config.Notifications.Icon)
	config.Engine.Command = platform.ExpandEnv(config.Engine.Command)
	config.App.LaunchCommand = platform.ExpandEnv(config.App.LaunchCommand)
	config.Daemon.SocketPath = platform.ExpandEnv(config.Daemon.SocketPath)
	config.Logging.File = platform.ExpandEnv(config.Logging.File)

	config.ApplyDefaults()

	return config, nil
}

// GetStableConfigDir returns the per-user config directory.
func GetStableConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "engine-notifications"), nil
}

// GetStableConfigPath returns the per-user config file path.
func GetStableConfigPath() (string, error) {
	dir, err := GetStableConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadDefault loads the config from path, or from the stable path when path
// is empty. A corrupted file is non-fatal: a warning is printed to stderr and
// logged, and defaults are used.
func LoadDefault(path string) *Config {
	if path == "" {
		stablePath, err := GetStableConfigPath()
		if err != nil {
			msg := fmt.Sprintf("warning: cannot resolve config path: %v, using defaults", err)
			fmt.Fprintln(os.Stderr, msg)
			logging.Warn("%s", msg)
			return DefaultConfig()
		}
		path = stablePath
	}

	cfg, err := Load(path)
	if err != nil {
		msg := fmt.Sprintf("warning: failed to load config from %s: %v, using defaults", path, err)
		fmt.Fprintln(os.Stderr, msg)
		logging.Warn("%s", msg)
		return DefaultConfig()
	}
	return cfg
}

// Save writes the config to path atomically (temp file + rename in the same
// directory), creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// ApplyDefaults fills in missing fields with default values
func (c *Config) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = defaultName
	}
	if c.App.WindowTarget == "" {
		c.App.WindowTarget = defaultWindowTarget
	}
	if c.App.ReactivatorTarget == "" {
		c.App.ReactivatorTarget = defaultReactivatorTarget
	}

	if c.Notifications.Backend == "" {
		c.Notifications.Backend = defaultBackend
	}
	if c.Notifications.LightColor == "" {
		c.Notifications.LightColor = defaultLightColor
	}
	if c.Notifications.LightOnMs == 0 {
		c.Notifications.LightOnMs = defaultLightMs
	}
	if c.Notifications.LightOffMs == 0 {
		c.Notifications.LightOffMs = defaultLightMs
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.WindowTarget == c.App.ReactivatorTarget {
		return fmt.Errorf("windowTarget and reactivatorTarget must differ (both %q)", c.App.WindowTarget)
	}

	if !validBackends[c.Notifications.Backend] {
		return fmt.Errorf("invalid notification backend: %s (must be one of: auto, dbus, beeep, memory)", c.Notifications.Backend)
	}

	if _, err := ParseColor(c.Notifications.LightColor); err != nil {
		return err
	}

	if c.Notifications.LightOnMs < 0 || c.Notifications.LightOffMs < 0 {
		return fmt.Errorf("lightOnMs and lightOffMs must be >= 0")
	}
	if c.Notifications.TimeoutSeconds < 0 {
		return fmt.Errorf("timeoutSeconds must be >= 0")
	}
	if c.Daemon.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("idleTimeoutSeconds must be >= 0")
	}

	return nil
}

// ParseColor parses "#RRGGBB" (opaque) or "#AARRGGBB" into an ARGB value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("invalid light color %q: want #RRGGBB or #AARRGGBB", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid light color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v |= 0xFF000000
	}
	return uint32(v), nil
}

// LightARGB returns the configured light color, falling back to opaque blue.
func (c *Config) LightARGB() uint32 {
	v, err := ParseColor(c.Notifications.LightColor)
	if err != nil {
		return 0xFF0000FF
	}
	return v
}

// IsNotificationsEnabled returns true if notifications should be posted
func (c *Config) IsNotificationsEnabled() bool {
	return c.Notifications.Enabled
}

// ShouldShowSessionName returns true if the title carries a session label (default: true)
func (c *Config) ShouldShowSessionName() bool {
	if c.Notifications.ShowSessionName == nil {
		return true
	}
	return *c.Notifications.ShowSessionName
}

// IsConsoleLoggingEnabled returns true if logs go to stderr (default: true)
func (c *Config) IsConsoleLoggingEnabled() bool {
	if c.Logging.Console == nil {
		return true
	}
	return *c.Logging.Console
}
