package cliconfig

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config but uses strings for durations to make TOML and YAML friendly.
type FileConfig struct {
	Name              string    `toml:"name" yaml:"name"`
	Shell             string    `toml:"shell" yaml:"shell"`
	HookTimeout       string    `toml:"hook_timeout" yaml:"hook_timeout"`
	MaxRestarts       *int      `toml:"max_restarts" yaml:"max_restarts"`
	RestartBackoff    string    `toml:"restart_backoff" yaml:"restart_backoff"`
	MaxRestartBackoff string    `toml:"max_restart_backoff" yaml:"max_restart_backoff"`
	Watch             *bool     `toml:"watch" yaml:"watch"`
	StatusDir         string    `toml:"status_dir" yaml:"status_dir"`
	MetricsAddr       string    `toml:"metrics_addr" yaml:"metrics_addr"`
	LogLevel          string    `toml:"log_level" yaml:"log_level"`
	Hooks             FileHooks `toml:"hooks" yaml:"hooks"`
}

// FileHooks holds the [hooks] table: one shell command per lifecycle stage.
type FileHooks struct {
	Init    string `toml:"init" yaml:"init"`
	Start   string `toml:"start" yaml:"start"`
	Suspend string `toml:"suspend" yaml:"suspend"`
	Resume  string `toml:"resume" yaml:"resume"`
	Destroy string `toml:"destroy" yaml:"destroy"`
}

// LoadFileConfig reads and parses a config file from the given path.
// Files ending in .yaml or .yml are parsed as YAML, anything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	unmarshal := toml.Unmarshal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	}
	if err := unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.ubean/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ubean", "config.toml")
	}
	return ""
}

// DefaultStatusDir returns the default directory for component status files.
// Returns ~/.ubean/run if user home directory is accessible.
func DefaultStatusDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ubean", "run")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", fc.Name, &cfg.Name)
	s.setString("shell", fc.Shell, &cfg.Shell)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("status-dir", fc.StatusDir, &cfg.StatusDir)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)

	s.setString("init", fc.Hooks.Init, &cfg.InitCmd)
	s.setString("start", fc.Hooks.Start, &cfg.StartCmd)
	s.setString("suspend", fc.Hooks.Suspend, &cfg.SuspendCmd)
	s.setString("resume", fc.Hooks.Resume, &cfg.ResumeCmd)
	s.setString("destroy", fc.Hooks.Destroy, &cfg.DestroyCmd)

	if err := s.setDuration("hook-timeout", fc.HookTimeout, &cfg.HookTimeout); err != nil {
		return err
	}
	if err := s.setDuration("restart-backoff", fc.RestartBackoff, &cfg.RestartBackoff); err != nil {
		return err
	}
	if err := s.setDuration("max-restart-backoff", fc.MaxRestartBackoff, &cfg.MaxRestartBackoff); err != nil {
		return err
	}

	s.setIntPtr("max-restarts", fc.MaxRestarts, &cfg.MaxRestarts)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
