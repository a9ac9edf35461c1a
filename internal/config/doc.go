// Package config provides configuration management for fabricctl.
//
// Settings come from three layers, later layers winning:
//  1. a YAML file (defaults apply for omitted keys)
//  2. FABRIC_* environment variables
//  3. command-line flags, applied by the CLI
//
// # Configuration File Location
//
// The default configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/fabricctl/config.yaml or $HOME/.config/fabricctl/config.yaml
//   - macOS: $HOME/.config/fabricctl/config.yaml
//   - Windows: %LOCALAPPDATA%\fabricctl\config.yaml
//
// # Environment
//
//	FABRIC_HOST, FABRIC_USERNAME, FABRIC_PASSWORD, FABRIC_GENERATION,
//	FABRIC_LOG_LEVEL, FABRIC_TASK_TIMEOUT
//
// # Security
//
// IMPORTANT: the controller password is NEVER written to the configuration
// file. It is read from FABRIC_PASSWORD or prompted without echo.
package config
