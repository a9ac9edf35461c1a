package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/reconcile"
	"github.com/netfabric/fabricctl/internal/tabular"
)

const (
	appName    = "fabricctl"
	configFile = "config.yaml"

	// EnvPrefix prefixes every environment override
	EnvPrefix = "FABRIC"
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/fabricctl or $HOME/.config/fabricctl
//   - macOS: $HOME/.config/fabricctl (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\fabricctl
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the default configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// envOverrides are read from FABRIC_* variables
type envOverrides struct {
	Host       string `envconfig:"HOST"`
	Username   string `envconfig:"USERNAME"`
	Password   string `envconfig:"PASSWORD"`
	Generation string `envconfig:"GENERATION"`
	LogLevel   string `envconfig:"LOG_LEVEL"`

	// TaskTimeout is parsed after Process so an empty value means unset
	TaskTimeout string `envconfig:"TASK_TIMEOUT"`
}

// Load reads the configuration file at path and applies environment
// overrides. An empty path means the default location, where a missing file
// simply yields the defaults. An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	cfg, err := loadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile parses a config file over the defaults, so omitted keys keep
// their default values.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", cfg.Version, CurrentVersion)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("unable to parse environment overrides: %w", err)
	}

	if env.Host != "" {
		c.Controller.Host = env.Host
	}
	if env.Username != "" {
		c.Controller.Username = env.Username
	}
	if env.Password != "" {
		c.Password = env.Password
	}
	if env.Generation != "" {
		c.Controller.Generation = env.Generation
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.TaskTimeout != "" {
		timeout, err := time.ParseDuration(env.TaskTimeout)
		if err != nil {
			return controller.NewValidationError(fmt.Sprintf("invalid %s_TASK_TIMEOUT %q: %v", EnvPrefix, env.TaskTimeout, err))
		}
		c.Task.Timeout = timeout
	}
	return nil
}

// Validate checks the settings a run depends on
func (c *Config) Validate() error {
	var errs []error

	if c.Controller.Host == "" {
		errs = append(errs, errors.New("controller host is not set (use --host, FABRIC_HOST or the config file)"))
	}
	if c.Controller.Username == "" {
		errs = append(errs, errors.New("controller username is not set"))
	}
	if _, err := reconcile.ParseGeneration(c.Controller.Generation); err != nil {
		errs = append(errs, err)
	}
	if _, err := tabular.ParseDelimiter(c.Import.Delimiter); err != nil {
		errs = append(errs, err)
	}
	if c.Controller.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("controller timeout must be positive, got %s", c.Controller.Timeout))
	}
	if c.Task.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("task timeout must be positive, got %s", c.Task.Timeout))
	}
	if c.Task.Interval <= 0 {
		errs = append(errs, fmt.Errorf("task interval must be positive, got %s", c.Task.Interval))
	}
	if c.Task.Backoff < 1 {
		errs = append(errs, fmt.Errorf("task backoff must be at least 1, got %g", c.Task.Backoff))
	}

	return errors.Join(errs...)
}

// Save writes the configuration to path, or to the default location when
// path is empty. Performs an atomic write to prevent corruption on crash.
func (c *Config) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# fabricctl configuration file
#
# Security Note: the controller password is NEVER stored in this file.
# Set FABRIC_PASSWORD or enter it when prompted.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}
