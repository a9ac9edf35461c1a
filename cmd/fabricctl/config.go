package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/netfabric/fabricctl/internal/config"
	"github.com/netfabric/fabricctl/internal/logging"
	"github.com/netfabric/fabricctl/internal/ui"
)

// Commands annotated with annotationConfig: configDefaults run on the built-in
// defaults plus flags and never read the config file.
const (
	annotationConfig = "fabricctl/config"
	configDefaults   = "defaults"
)

var (
	// Global flags
	cfgFile     string
	host        string
	username    string
	logLevel    string
	generation  string
	taskTimeout time.Duration
	insecure    bool

	// Import flags
	assumeYes bool

	// Config flags
	initForce bool

	// cfg is the effective configuration of the running command
	cfg *config.Config
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.config/fabricctl/config.yaml)")
	pf.StringVar(&host, "host", "", "controller host name or URL")
	pf.StringVarP(&username, "username", "u", "", "controller user name")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default silent)")
	pf.StringVar(&generation, "generation", "", "controller generation: v1, v2 or auto")
	pf.DurationVar(&taskTimeout, "task-timeout", 0, "how long to wait for each controller task")
	pf.BoolVarP(&insecure, "insecure", "k", true, "skip TLS certificate verification")

	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the fabricctl configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	Long: `Write a configuration file with the default settings.

Flags given on the command line (--host, --username, --generation, ...) are
stored in the new file. The controller password is never written; set
FABRIC_PASSWORD or enter it when prompted.`,
	Example: `  fabricctl config init --host dnac.example.net --username netops`,
	Annotations: map[string]string{annotationConfig: configDefaults},
	RunE:        runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the config file, FABRIC_* environment
variables and flags are applied.`,
	RunE: runConfigShow,
}

// loadConfig builds cfg for every command: file, then environment, then the
// flags that were set explicitly
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cmd.Annotations[annotationConfig] == configDefaults {
		cfg = config.Default()
	} else if cfg, err = config.Load(cfgFile); err != nil {
		return err
	}

	applyFlags(cmd, cfg)

	if err := logging.Initialize(cfg.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		c.Controller.Host = host
	}
	if flags.Changed("username") {
		c.Controller.Username = username
	}
	if flags.Changed("log-level") {
		c.Logging.Level = logLevel
	}
	if flags.Changed("generation") {
		c.Controller.Generation = generation
	}
	if flags.Changed("task-timeout") {
		c.Task.Timeout = taskTimeout
	}
	if flags.Changed("insecure") {
		c.Controller.InsecureSkipVerify = insecure
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := cfg.Validate(); err != nil && cfg.Controller.Host != "" {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	details := []ui.Detail{ui.D("File", path)}
	if cfg.Controller.Host == "" {
		printer.PrintWarning("Configuration written", append(details,
			ui.D("Next", "set controller.host in the file or pass --host")))
		return nil
	}
	printer.PrintSuccess("Configuration written", append(details,
		ui.D("Controller", cfg.Controller.Host),
		ui.D("Username", cfg.Controller.Username)))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
