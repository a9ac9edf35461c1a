package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netfabric/fabricctl/internal/controller"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		dir, err := GetConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/xdg", "fabricctl"), dir)
	}

	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "auto", cfg.Controller.Generation)
	assert.True(t, cfg.Controller.InsecureSkipVerify)
	assert.Equal(t, 5*time.Minute, cfg.Controller.Timeout)
	assert.Equal(t, ",", cfg.Import.Delimiter)
	assert.Equal(t, 125*time.Second, cfg.Task.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Task.Interval)
	assert.Equal(t, 1.15, cfg.Task.Backoff)
	assert.Empty(t, cfg.Logging.Level)

	opts := cfg.TaskOptions()
	assert.Equal(t, cfg.Task.Timeout, opts.Timeout)
	assert.Equal(t, cfg.Task.Backoff, opts.Backoff)
	assert.Len(t, cfg.ClientOptions(), 2)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
version: 1
controller:
  host: dnac.example.net
  username: netops
  insecure_skip_verify: false
  timeout: 90s
  generation: v2
import:
  delimiter: ";"
task:
  timeout: 5m
  backoff: 1.5
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dnac.example.net", cfg.Controller.Host)
	assert.Equal(t, "netops", cfg.Controller.Username)
	assert.False(t, cfg.Controller.InsecureSkipVerify)
	assert.Equal(t, 90*time.Second, cfg.Controller.Timeout)
	assert.Equal(t, "v2", cfg.Controller.Generation)
	assert.Equal(t, ";", cfg.Import.Delimiter)
	assert.Equal(t, 5*time.Minute, cfg.Task.Timeout)
	assert.Equal(t, 1.5, cfg.Task.Backoff)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Omitted keys keep their defaults
	assert.Equal(t, 2*time.Second, cfg.Task.Interval)
	assert.Equal(t, "cfs-import.csv", cfg.Import.PortsFile)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "version: 1\ncontroller:\n  host: from-file\n")

	t.Setenv("FABRIC_HOST", "from-env")
	t.Setenv("FABRIC_USERNAME", "svc-fabric")
	t.Setenv("FABRIC_PASSWORD", "s3cret")
	t.Setenv("FABRIC_GENERATION", "v1")
	t.Setenv("FABRIC_LOG_LEVEL", "info")
	t.Setenv("FABRIC_TASK_TIMEOUT", "10m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Controller.Host)
	assert.Equal(t, "svc-fabric", cfg.Controller.Username)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, "v1", cfg.Controller.Generation)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10*time.Minute, cfg.Task.Timeout)
}

func TestLoad_InvalidEnv(t *testing.T) {
	path := writeConfig(t, "version: 1\n")
	t.Setenv("FABRIC_TASK_TIMEOUT", "soon")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, controller.IsValidationError(err), "error = %v", err)
	assert.Contains(t, err.Error(), "FABRIC_TASK_TIMEOUT")
}

func TestLoad_EmptyEnvIsUnset(t *testing.T) {
	path := writeConfig(t, "version: 1\ncontroller:\n  host: from-file\ntask:\n  timeout: 90s\n")
	for _, name := range []string{"HOST", "USERNAME", "PASSWORD", "GENERATION", "LOG_LEVEL", "TASK_TIMEOUT"} {
		t.Setenv("FABRIC_"+name, "")
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Controller.Host)
	assert.Equal(t, 90*time.Second, cfg.Task.Timeout)
	assert.Empty(t, cfg.Password)
}

func TestLoad_MissingFiles(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("default path falls back to defaults", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HOME", t.TempDir())
		t.Setenv("LOCALAPPDATA", t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default().Task, cfg.Task)
	})
}

func TestLoad_BadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"wrong version", "version: 2\n", "unsupported config version"},
		{"not yaml", "controller: [\n", "failed to parse"},
		{"bad duration", "version: 1\ntask:\n  timeout: forever\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Controller.Host = "dnac.example.net"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no host", func(c *Config) { c.Controller.Host = "" }, "host is not set"},
		{"no username", func(c *Config) { c.Controller.Username = "" }, "username"},
		{"bad generation", func(c *Config) { c.Controller.Generation = "v9" }, "generation"},
		{"long delimiter", func(c *Config) { c.Import.Delimiter = ";;" }, "single character"},
		{"zero interval", func(c *Config) { c.Task.Interval = 0 }, "interval"},
		{"negative timeout", func(c *Config) { c.Task.Timeout = -time.Second }, "task timeout"},
		{"shrinking backoff", func(c *Config) { c.Task.Backoff = 0.5 }, "backoff"},
		{"zero request timeout", func(c *Config) { c.Controller.Timeout = 0 }, "controller timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Controller.Host = "dnac.example.net"
	cfg.Password = "must-not-leak"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "must-not-leak"), "password written to disk")
	assert.Contains(t, string(data), "timeout: 2m5s")

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file left behind")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Controller, loaded.Controller)
	assert.Equal(t, cfg.Task, loaded.Task)
	assert.Empty(t, loaded.Password)
}
