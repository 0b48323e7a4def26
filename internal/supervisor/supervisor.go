// Package supervisor keeps a lifecycle component running, restarting it with
// exponential backoff when it turns Sick.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ytbean/ubean/pkg/lifecycle"
	"github.com/ytbean/ubean/pkg/log"
)

// ShutdownTimeout bounds the Destroy issued when Run's context ends.
const ShutdownTimeout = 30 * time.Second

// ErrTooManyRestarts is returned by Run once the restart budget is spent.
var ErrTooManyRestarts = errors.New("supervisor: too many restarts")

// errSick stands in for a failure the supervisor did not observe, such as a
// hook failing in an operation issued directly on the target.
var errSick = errors.New("component became sick")

// Config controls restart behavior.
type Config struct {
	// MaxRestarts is the number of restarts allowed per Run. Zero disables restarts.
	MaxRestarts int

	// Backoff is the initial delay before a restart.
	// Default: 500 milliseconds
	Backoff time.Duration

	// MaxBackoff caps the delay between restarts.
	// Default: 10 seconds
	MaxBackoff time.Duration

	// ShutdownTimeout bounds the final Destroy.
	// Default: 30 seconds
	ShutdownTimeout time.Duration
}

// Supervisor drives a lifecycle.Lifecycle from Run until its context ends.
type Supervisor struct {
	target lifecycle.Lifecycle
	cfg    Config
	logger log.Logger

	sick     chan struct{}
	restarts atomic.Int32

	// opMu orders operations issued by callers against Run's reading of
	// their outcome, so a Sick signal is never paired with a stale error.
	opMu    sync.Mutex
	lastErr error
}

// New creates a Supervisor for target.
func New(target lifecycle.Lifecycle, cfg Config, logger log.Logger) *Supervisor {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoffInitial
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = DefaultBackoffMax
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = ShutdownTimeout
	}
	return &Supervisor{
		target: target,
		cfg:    cfg,
		logger: logger,
		sick:   make(chan struct{}, 1),
	}
}

// Restarts reports how many restarts the current or last Run performed.
func (s *Supervisor) Restarts() int {
	return int(s.restarts.Load())
}

// Run starts the target and blocks until ctx ends, restarting the target
// each time it becomes Sick. When ctx ends the target is destroyed and the
// destroy error (if any) is returned. Once MaxRestarts is exceeded Run
// returns an error matching both ErrTooManyRestarts and the last failure.
func (s *Supervisor) Run(ctx context.Context) error {
	listener := lifecycle.ListenerFunc(s.onStateChange)
	s.target.AddListener(listener)
	defer s.target.RemoveListener(listener)

	// A signal queued after an earlier Run stopped reading belongs to that Run.
	select {
	case <-s.sick:
	default:
	}

	s.restarts.Store(0)
	bo := newBackoff(s.cfg.Backoff, s.cfg.MaxBackoff)

	s.opMu.Lock()
	err := s.target.Start(ctx)
	s.record(err)
	s.opMu.Unlock()
	if errors.Is(err, lifecycle.ErrIllegalState) {
		return err
	}
	if err == nil {
		s.logger.Info("component started")
	}

	for {
		select {
		case <-ctx.Done():
			return s.shutdown()
		case <-s.sick:
		}

		cause := s.lastError()
		if cause == nil {
			cause = errSick
		}
		restarts := s.Restarts()
		if restarts >= s.cfg.MaxRestarts {
			s.logger.Error("restart budget exhausted",
				log.Int("restarts", restarts),
				log.Err(cause),
			)
			return fmt.Errorf("%w after %d restarts: %w", ErrTooManyRestarts, restarts, cause)
		}

		s.logger.Warn("component sick, restarting",
			log.Int("attempt", restarts+1),
			log.Duration("backoff", bo.Current()),
			log.Err(cause),
		)
		if err := bo.Wait(ctx); err != nil {
			return s.shutdown()
		}
		s.restarts.Add(1)

		if s.restart(ctx) {
			bo.Reset()
			s.logger.Info("component restarted", log.Int("restarts", s.Restarts()))
		}
	}
}

// restart destroys and starts the target. A failure leaves it Sick, which
// queues the next round.
func (s *Supervisor) restart(ctx context.Context) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.target.Destroy(ctx); err != nil {
		s.record(err)
		return false
	}
	err := s.target.Start(ctx)
	s.record(err)
	return err == nil
}

func (s *Supervisor) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.target.Destroy(ctx); err != nil {
		s.logger.Error("shutdown failed", log.Err(err))
		return err
	}
	s.logger.Info("component destroyed")
	return nil
}

// Suspend suspends the target.
func (s *Supervisor) Suspend(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	err := s.target.Suspend(ctx)
	s.record(err)
	return err
}

// Resume resumes the target.
func (s *Supervisor) Resume(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	err := s.target.Resume(ctx)
	s.record(err)
	return err
}

// Reload applies fn with the target quiesced: a Started target is suspended
// before fn and resumed after it, even when fn fails. Targets in any other
// state just get fn applied.
func (s *Supervisor) Reload(ctx context.Context, fn func() error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.target.State() != lifecycle.StateStarted {
		return fn()
	}

	if err := s.target.Suspend(ctx); err != nil {
		s.record(err)
		return err
	}

	var result *multierror.Error
	if err := fn(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.target.Resume(ctx); err != nil {
		s.record(err)
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (s *Supervisor) onStateChange(_, current lifecycle.State) {
	if current != lifecycle.StateSick {
		return
	}
	select {
	case s.sick <- struct{}{}:
	default:
	}
}

// record keeps err as the latest failure. Callers hold opMu.
func (s *Supervisor) record(err error) {
	if err != nil && !errors.Is(err, lifecycle.ErrIllegalState) {
		s.lastErr = err
	}
}

func (s *Supervisor) lastError() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.lastErr
}
