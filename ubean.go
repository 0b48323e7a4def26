// Package ubean manages component lifecycles: a guarded state machine that
// runs Init, Start, Suspend, Resume and Destroy hooks and notifies listeners
// of every committed state change.
//
// Example usage:
//
//	m := ubean.New(ubean.HookFuncs{
//	    Start: func(ctx context.Context) error { return srv.Listen() },
//	    Destroy: func(ctx context.Context) error { return srv.Close() },
//	}, ubean.WithName("http"))
//	if err := m.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Destroy(context.Background())
package ubean

import (
	"fmt"

	"github.com/ytbean/ubean/pkg/lifecycle"
	"github.com/ytbean/ubean/pkg/log"
)

// Version is the version of the lifecycle module re-exported here.
const Version = lifecycle.Version

// Lifecycle is the contract every managed component satisfies.
type Lifecycle = lifecycle.Lifecycle

// Machine is the standard Lifecycle implementation.
type Machine = lifecycle.Machine

// State is a lifecycle state.
type State = lifecycle.State

// Hooks are the per-stage callbacks a Machine runs.
type Hooks = lifecycle.Hooks

// HookFuncs adapts plain functions to Hooks; nil fields are no-ops.
type HookFuncs = lifecycle.HookFuncs

// NoopHooks implements Hooks with no-ops, for embedding.
type NoopHooks = lifecycle.NoopHooks

// Listener observes committed state changes.
type Listener = lifecycle.Listener

// Option configures a Machine.
type Option = lifecycle.Option

// Logger is the logging interface accepted by WithLogger.
type Logger = log.Logger

// States.
const (
	StateNew          = lifecycle.StateNew
	StateInitializing = lifecycle.StateInitializing
	StateInitialized  = lifecycle.StateInitialized
	StateStarting     = lifecycle.StateStarting
	StateStarted      = lifecycle.StateStarted
	StateSuspending   = lifecycle.StateSuspending
	StateSuspended    = lifecycle.StateSuspended
	StateResuming     = lifecycle.StateResuming
	StateDestroying   = lifecycle.StateDestroying
	StateDestroyed    = lifecycle.StateDestroyed
	StateSick         = lifecycle.StateSick
)

// Errors.
var (
	ErrIllegalState = lifecycle.ErrIllegalState
	ErrHookFailed   = lifecycle.ErrHookFailed
)

// New creates a Machine in StateNew. A nil hooks value behaves like NoopHooks.
func New(hooks Hooks, opts ...Option) *Machine {
	return lifecycle.New(hooks, opts...)
}

// WithLogger sets the Machine's logger.
func WithLogger(logger Logger) Option { return lifecycle.WithLogger(logger) }

// WithName names the Machine; the name is attached to every log record.
func WithName(name string) Option { return lifecycle.WithName(name) }

// WithListener registers a listener at construction.
func WithListener(l Listener) Option { return lifecycle.WithListener(l) }

// ListenerFunc adapts a function to a Listener with its own identity.
func ListenerFunc(fn func(previous, current State)) Listener {
	return lifecycle.ListenerFunc(fn)
}

// ValidateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func ValidateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"lifecycle": {lifecycle.Version, lifecycle.MinCompatibleVersion},
		"log":       {log.Version, log.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}

// isVersionCompatible checks if version >= minVersion using semantic versioning.
// Assumes versions are in format "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
