package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (UBEAN_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", os.Getenv("UBEAN_NAME"), &cfg.Name)
	s.setString("shell", os.Getenv("UBEAN_SHELL"), &cfg.Shell)
	s.setString("log-level", os.Getenv("UBEAN_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("status-dir", os.Getenv("UBEAN_STATUS_DIR"), &cfg.StatusDir)
	s.setString("metrics-addr", os.Getenv("UBEAN_METRICS_ADDR"), &cfg.MetricsAddr)

	s.setString("init", os.Getenv("UBEAN_INIT_CMD"), &cfg.InitCmd)
	s.setString("start", os.Getenv("UBEAN_START_CMD"), &cfg.StartCmd)
	s.setString("suspend", os.Getenv("UBEAN_SUSPEND_CMD"), &cfg.SuspendCmd)
	s.setString("resume", os.Getenv("UBEAN_RESUME_CMD"), &cfg.ResumeCmd)
	s.setString("destroy", os.Getenv("UBEAN_DESTROY_CMD"), &cfg.DestroyCmd)

	if err := s.setDuration("hook-timeout", os.Getenv("UBEAN_HOOK_TIMEOUT"), &cfg.HookTimeout); err != nil {
		return err
	}
	if err := s.setDuration("restart-backoff", os.Getenv("UBEAN_RESTART_BACKOFF"), &cfg.RestartBackoff); err != nil {
		return err
	}
	if err := s.setDuration("max-restart-backoff", os.Getenv("UBEAN_MAX_RESTART_BACKOFF"), &cfg.MaxRestartBackoff); err != nil {
		return err
	}

	if err := s.setIntFromString("max-restarts", os.Getenv("UBEAN_MAX_RESTARTS"), &cfg.MaxRestarts); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("UBEAN_WATCH"), &cfg.Watch)

	return nil
}
