package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/ytbean/ubean"
	"github.com/ytbean/ubean/internal/cliconfig"
	"github.com/ytbean/ubean/internal/component"
	"github.com/ytbean/ubean/internal/metrics"
	"github.com/ytbean/ubean/internal/status"
	"github.com/ytbean/ubean/internal/supervisor"
	"github.com/ytbean/ubean/internal/watch"
	"github.com/ytbean/ubean/pkg/lifecycle"
	logAdapter "github.com/ytbean/ubean/pkg/log"
)

const helpDescription = `
Run a component through its lifecycle: init, start, suspend, resume, destroy.

Each stage runs a shell command. A failing command marks the component sick
and it is restarted with exponential backoff until the restart budget runs out.

Signals:
  SIGINT, SIGTERM  destroy the component and exit
  SIGUSR1          suspend the component
  SIGUSR2          resume the component
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  ubean --name web --start "nginx" --destroy "nginx -s quit"
  ubean --config $HOME/.ubean/config.toml --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger(cfg.Level())

	root := &cobra.Command{
		Use:     "ubean",
		Short:   "Run a shell-command component under a supervised lifecycle",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s (lifecycle %s) %s/%s", getVersion(), ubean.Version, runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ubean.ValidateModuleVersions(); err != nil {
				return err
			}

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// cfg now holds defaults plus flags; reloads layer file and env over it again.
			base := cfg
			loaded, err := loadConfig(base, cfgFile, changed)
			if err != nil {
				return err
			}
			cfg = loaded

			log = log.Level(cfg.Level())
			log.Info().Interface("config", cfg).Msg("configuration")

			logger := logAdapter.NewZerologAdapterWithLogger(log)

			var opts []lifecycle.Option
			if cfg.StatusDir != "" {
				repo := status.NewFileRepository(cfg.StatusDir)
				opts = append(opts, lifecycle.WithListener(status.NewRecorder(repo, cfg.Name, logger)))
				log.Info().Str("path", repo.Path(cfg.Name)).Msg("recording status")
			}

			var reg *prometheus.Registry
			if cfg.MetricsAddr != "" {
				reg = prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				opts = append(opts, lifecycle.WithListener(metrics.New(reg).Listener(cfg.Name, lifecycle.StateNew)))
			}

			comp := component.New(component.Config{
				Name:     cfg.Name,
				Shell:    cfg.Shell,
				Timeout:  cfg.HookTimeout,
				Commands: commandsFrom(cfg),
			}, logger, opts...)

			sup := supervisor.New(comp, supervisor.Config{
				MaxRestarts: cfg.MaxRestarts,
				Backoff:     cfg.RestartBackoff,
				MaxBackoff:  cfg.MaxRestartBackoff,
			}, logAdapter.With(logger, logAdapter.String("component", cfg.Name)))

			// Setup signal handling for graceful shutdown
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if reg != nil {
				go func() {
					if err := metrics.Serve(ctx, cfg.MetricsAddr, reg, logger); err != nil {
						log.Error().Err(err).Msg("metrics server stopped")
					}
				}()
			}

			ctrlCh := make(chan os.Signal, 1)
			notifyControl(ctrlCh)
			defer signal.Stop(ctrlCh)

			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case sig := <-ctrlCh:
						switch {
						case isSuspend(sig):
							log.Info().Str("signal", sig.String()).Msg("suspending")
							if err := sup.Suspend(ctx); err != nil {
								log.Warn().Err(err).Msg("suspend failed")
							}
						case isResume(sig):
							log.Info().Str("signal", sig.String()).Msg("resuming")
							if err := sup.Resume(ctx); err != nil {
								log.Warn().Err(err).Msg("resume failed")
							}
						}
					}
				}
			}()

			if cfg.Watch {
				if !cliconfig.FileExists(cfgFile) {
					log.Warn().Str("path", cfgFile).Msg("config file not found, watch disabled")
				} else {
					w := watch.New(watch.Config{Path: cfgFile}, func(ctx context.Context) {
						next, err := loadConfig(base, cfgFile, changed)
						if err != nil {
							log.Error().Err(err).Msg("reload config")
							return
						}
						err = sup.Reload(ctx, func() error {
							comp.Reload(commandsFrom(next))
							return nil
						})
						if err != nil {
							log.Error().Err(err).Msg("reload component")
							return
						}
						log.Info().Msg("commands reloaded")
					}, logger)

					go func() {
						if err := w.Run(ctx); err != nil {
							log.Error().Err(err).Msg("config watcher stopped")
						}
					}()
				}
			}

			if err := sup.Run(ctx); err != nil {
				return fmt.Errorf("run %s: %w", cfg.Name, err)
			}
			log.Info().Msg("stopped")
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.ubean/config.toml)")
	root.Flags().StringVar(&cfg.Name, "name", cfg.Name, "component name used in logs and UBEAN_COMPONENT")
	root.Flags().StringVar(&cfg.Shell, "shell", cfg.Shell, "shell used to run stage commands")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.Flags().StringVar(&cfg.InitCmd, "init", cfg.InitCmd, "command run on init")
	root.Flags().StringVar(&cfg.StartCmd, "start", cfg.StartCmd, "command run on start")
	root.Flags().StringVar(&cfg.SuspendCmd, "suspend", cfg.SuspendCmd, "command run on suspend")
	root.Flags().StringVar(&cfg.ResumeCmd, "resume", cfg.ResumeCmd, "command run on resume")
	root.Flags().StringVar(&cfg.DestroyCmd, "destroy", cfg.DestroyCmd, "command run on destroy")

	root.Flags().DurationVar(&cfg.HookTimeout, "hook-timeout", cfg.HookTimeout, "timeout for each stage command")
	root.Flags().IntVar(&cfg.MaxRestarts, "max-restarts", cfg.MaxRestarts, "restarts allowed after the component turns sick")
	root.Flags().DurationVar(&cfg.RestartBackoff, "restart-backoff", cfg.RestartBackoff, "initial delay before a restart")
	root.Flags().DurationVar(&cfg.MaxRestartBackoff, "max-restart-backoff", cfg.MaxRestartBackoff, "maximum delay between restarts")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload stage commands when the config file changes")
	root.Flags().StringVar(&cfg.StatusDir, "status-dir", cfg.StatusDir, "directory for status files (empty disables)")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address for the Prometheus /metrics endpoint (empty disables)")

	root.AddCommand(newStatusCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("ubean")
		os.Exit(1)
	}
}

// loadConfig layers the config file and UBEAN_* environment over base,
// leaving explicitly set flags untouched, and validates the result.
func loadConfig(base cliconfig.Config, path string, changed map[string]bool) (cliconfig.Config, error) {
	cfg := base
	if path != "" && cliconfig.FileExists(path) {
		fc, err := cliconfig.LoadFileConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
			return cfg, err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func commandsFrom(cfg cliconfig.Config) component.Commands {
	return component.Commands{
		Init:    cfg.InitCmd,
		Start:   cfg.StartCmd,
		Suspend: cfg.SuspendCmd,
		Resume:  cfg.ResumeCmd,
		Destroy: cfg.DestroyCmd,
	}
}
