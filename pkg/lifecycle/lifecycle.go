package lifecycle

import "context"

// Lifecycle is the contract exposed by every lifecycle-managed component.
type Lifecycle interface {
	// Init moves a New or Destroyed component to Initialized.
	Init(ctx context.Context) error

	// Start moves an Initialized component to Started.
	// A New or Destroyed component is initialized first.
	Start(ctx context.Context) error

	// Suspend moves a Started component to Suspended.
	Suspend(ctx context.Context) error

	// Resume moves a Suspended component back to Started.
	Resume(ctx context.Context) error

	// Destroy moves a component in any state, including Sick, to Destroyed.
	Destroy(ctx context.Context) error

	// AddListener registers a listener for future transitions.
	// Registering an already registered listener is a no-op.
	AddListener(l Listener)

	// RemoveListener stops notifying l. It reports whether l was registered.
	RemoveListener(l Listener) bool

	// State returns the current lifecycle state.
	State() State
}

// Hooks supplies the stage-specific behavior of a component.
// Each hook runs while the component is in the matching in-progress state;
// returning an error (or panicking) drives the component to StateSick.
type Hooks interface {
	OnInit(ctx context.Context) error
	OnStart(ctx context.Context) error
	OnSuspend(ctx context.Context) error
	OnResume(ctx context.Context) error
	OnDestroy(ctx context.Context) error
}

// Listener is notified synchronously on every state transition.
// Implementations should return quickly: the component stays locked until
// every listener has returned.
type Listener interface {
	OnStateChange(previous, current State)
}
