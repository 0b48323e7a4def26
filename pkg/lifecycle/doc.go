// Package lifecycle provides a reusable component lifecycle state machine.
//
// A component embeds a [Machine] and supplies its stage behavior through
// [Hooks]. The machine validates every operation against the current state,
// runs the matching hook and notifies registered [Listener] values of each
// transition.
//
// # Usage
//
// Implement only the stages you need by embedding [NoopHooks]:
//
//	type server struct {
//	    *lifecycle.Machine
//	    lifecycle.NoopHooks
//	    ln net.Listener
//	}
//
//	func (s *server) OnStart(ctx context.Context) error {
//	    ln, err := net.Listen("tcp", ":8080")
//	    s.ln = ln
//	    return err
//	}
//
//	s := &server{}
//	s.Machine = lifecycle.New(s, lifecycle.WithName("server"))
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//
// Or pass closures with [HookFuncs]:
//
//	m := lifecycle.New(lifecycle.HookFuncs{
//	    Destroy: func(ctx context.Context) error { return db.Close() },
//	})
//
// # State Machine
//
// Valid state transitions:
//   - New, Destroyed -> Initializing -> Initialized
//   - Initialized -> Starting -> Started
//   - Started -> Suspending -> Suspended
//   - Suspended -> Resuming -> Started
//   - any -> Destroying -> Destroyed
//   - Initializing, Starting, Suspending, Resuming, Destroying -> Sick
//
// Start on a New or Destroyed machine runs Init first. A hook that fails
// drives the machine to Sick; from there only Destroy is accepted.
//
// # Errors
//
// Operations attempted from the wrong state return an [IllegalStateError]
// (errors.Is(err, ErrIllegalState)). Hook failures return a [HookError]
// (errors.Is(err, ErrHookFailed)) wrapping the hook's error.
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
//
// See version.go for version constants that can be used programmatically.
package lifecycle
