package config

import (
	"time"

	"github.com/netfabric/fabricctl/internal/controller"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Config represents the entire configuration: the YAML file merged with
// environment overrides. Command-line flags are applied on top by the CLI.
type Config struct {
	Version    int              `yaml:"version"`
	Controller ControllerConfig `yaml:"controller"`
	Import     ImportConfig     `yaml:"import"`
	Task       TaskConfig       `yaml:"task"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Password is only ever read from the environment or a prompt.
	// It is NEVER written to the config file.
	Password string `yaml:"-"`
}

// ControllerConfig describes how to reach the controller
type ControllerConfig struct {
	Host               string        `yaml:"host"`
	Username           string        `yaml:"username"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Timeout            time.Duration `yaml:"timeout"`
	Generation         string        `yaml:"generation"` // v1, v2 or auto
}

// ImportConfig holds the default input files
type ImportConfig struct {
	PortsFile string `yaml:"ports_file"`
	PoolsFile string `yaml:"pools_file"`
	Delimiter string `yaml:"delimiter"`
}

// TaskConfig controls task polling
type TaskConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	Interval time.Duration `yaml:"interval"`
	Backoff  float64       `yaml:"backoff"`
}

// LoggingConfig sets the log level; empty means silent
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration with every default filled in
func Default() *Config {
	task := controller.DefaultTaskOptions()
	return &Config{
		Version: CurrentVersion,
		Controller: ControllerConfig{
			Username:           "admin",
			InsecureSkipVerify: true,
			Timeout:            controller.DefaultTimeout,
			Generation:         "auto",
		},
		Import: ImportConfig{
			PortsFile: "cfs-import.csv",
			PoolsFile: "pool-import.csv",
			Delimiter: ",",
		},
		Task: TaskConfig{
			Timeout:  task.Timeout,
			Interval: task.Interval,
			Backoff:  task.Backoff,
		},
	}
}

// TaskOptions converts the task settings for the controller client
func (c *Config) TaskOptions() controller.TaskOptions {
	return controller.TaskOptions{
		Timeout:  c.Task.Timeout,
		Interval: c.Task.Interval,
		Backoff:  c.Task.Backoff,
	}
}

// ClientOptions converts the controller settings for the controller client
func (c *Config) ClientOptions() []controller.ClientOption {
	return []controller.ClientOption{
		controller.WithInsecureSkipVerify(c.Controller.InsecureSkipVerify),
		controller.WithTimeout(c.Controller.Timeout),
	}
}
