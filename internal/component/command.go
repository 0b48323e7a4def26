// Package component provides Command, a lifecycle-managed component whose
// stage hooks run shell commands.
package component

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/ytbean/ubean/pkg/lifecycle"
	"github.com/ytbean/ubean/pkg/log"
)

// waitDelay bounds how long a cancelled command may keep its output pipe
// open before Wait gives up on it.
const waitDelay = time.Second

// Commands holds one shell command per lifecycle stage. Empty commands are no-ops.
type Commands struct {
	Init    string
	Start   string
	Suspend string
	Resume  string
	Destroy string
}

// For returns the command for a stage name ("init", "start", ...).
func (c Commands) For(stage string) string {
	switch stage {
	case "init":
		return c.Init
	case "start":
		return c.Start
	case "suspend":
		return c.Suspend
	case "resume":
		return c.Resume
	case "destroy":
		return c.Destroy
	default:
		return ""
	}
}

// Config configures a Command.
type Config struct {
	Name     string
	Shell    string
	Timeout  time.Duration // per hook; zero means no limit
	Commands Commands
}

// Command is a component whose hooks run shell commands through Shell -c.
// A command that exits non-zero or outlives the timeout fails its hook.
type Command struct {
	*lifecycle.Machine

	shell   string
	timeout time.Duration
	logger  log.Logger

	mu       sync.RWMutex
	commands Commands
}

// New creates a Command in lifecycle.StateNew.
func New(cfg Config, logger log.Logger, opts ...lifecycle.Option) *Command {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	shell := cfg.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	c := &Command{
		shell:    shell,
		timeout:  cfg.Timeout,
		logger:   log.With(logger, log.String("component", cfg.Name)),
		commands: cfg.Commands,
	}

	base := []lifecycle.Option{lifecycle.WithName(cfg.Name), lifecycle.WithLogger(logger)}
	c.Machine = lifecycle.New(c, append(base, opts...)...)
	return c
}

// Reload replaces the commands used by subsequent hooks.
func (c *Command) Reload(commands Commands) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = commands
}

// Commands returns the current command set.
func (c *Command) Commands() Commands {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commands
}

func (c *Command) OnInit(ctx context.Context) error    { return c.run(ctx, "init") }
func (c *Command) OnStart(ctx context.Context) error   { return c.run(ctx, "start") }
func (c *Command) OnSuspend(ctx context.Context) error { return c.run(ctx, "suspend") }
func (c *Command) OnResume(ctx context.Context) error  { return c.run(ctx, "resume") }
func (c *Command) OnDestroy(ctx context.Context) error { return c.run(ctx, "destroy") }

func (c *Command) run(ctx context.Context, stage string) error {
	script := c.Commands().For(stage)
	if script == "" {
		return nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.shell, "-c", script)
	cmd.Env = append(os.Environ(),
		"UBEAN_COMPONENT="+c.Name(),
		"UBEAN_STAGE="+stage,
	)
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	start := time.Now()
	out, err := cmd.CombinedOutput()
	fields := []log.Field{
		log.String("stage", stage),
		log.Duration("duration", time.Since(start)),
	}
	if output := strings.TrimSpace(string(out)); output != "" {
		fields = append(fields, log.String("output", output))
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		c.logger.Warn("hook command failed", append(fields, log.Err(err))...)
		return fmt.Errorf("%s command: %w", stage, err)
	}

	c.logger.Info("hook command finished", fields...)
	return nil
}

var _ lifecycle.Hooks = (*Command)(nil)
