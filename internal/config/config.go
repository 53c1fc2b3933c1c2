package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/logger"
)

// Config holds the settings shared by the deskclock binaries.
type Config struct {
	// ServerAddress is the gRPC address of the deskclock server.
	ServerAddress string `yaml:"server_addr"`
	// PublishedFile is where the published shortcut set is mirrored for the launcher.
	PublishedFile string `yaml:"published_file"`
	// LabelsFile optionally overrides shortcut labels and icons.
	LabelsFile string `yaml:"labels_file,omitempty"`
	// LauncherProcess, when set, makes publishing depend on that process running.
	LauncherProcess string `yaml:"launcher_process,omitempty"`
	// LockFile, when set, blocks publishing while the file exists.
	LockFile string `yaml:"lock_file,omitempty"`
	// Activity is the launcher activity shortcuts are attached to.
	Activity string `yaml:"activity,omitempty"`
	// MaxShortcuts is the launcher shortcut quota.
	MaxShortcuts int `yaml:"max_shortcuts,omitempty"`
	// Timeout is the duration for RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level,omitempty"`
}

const (
	// DefaultConfigFilename is the default settings filename.
	DefaultConfigFilename = "deskclock-shortcuts.yaml"

	// DefaultPublishedFilename is the default published shortcut set filename.
	DefaultPublishedFilename = "deskclock-shortcuts.json"

	// DefaultTimeout is the default duration for RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxShortcuts is the default launcher shortcut quota.
	DefaultMaxShortcuts = 5

	// DefaultFilePermissions is the permission used for files written by the binaries.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerAddressRequired is returned when the server address is missing.
	errServerAddressRequired = errors.New("server address must be provided")
	// errInvalidLogLevel is returned for unknown log level names.
	errInvalidLogLevel = errors.New("invalid log level")
	// errMaxShortcutsTooSmall is returned when the quota cannot hold the shortcut set.
	errMaxShortcutsTooSmall = errors.New("max_shortcuts is smaller than the shortcut set")
)

// Load reads settings from path and validates them.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save validates cfg and writes it to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults.
func Validate(settings *Config) error {
	if settings.ServerAddress == "" {
		return errServerAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if settings.LogLevel != "" {
		if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
			return fmt.Errorf("%w: %q", errInvalidLogLevel, settings.LogLevel)
		}
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.PublishedFile == "" {
		settings.PublishedFile = DefaultPublishedFilename
	}

	if settings.MaxShortcuts <= 0 {
		settings.MaxShortcuts = DefaultMaxShortcuts
	}

	// A quota below the set size would reject every publish.
	if settings.MaxShortcuts < shortcut.Count() {
		return fmt.Errorf("%w: %d, need at least %d", errMaxShortcutsTooSmall, settings.MaxShortcuts, shortcut.Count())
	}

	return nil
}
