package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/looplab/fsm"

	"github.com/ytbean/ubean/pkg/log"
)

// Transition table events.
const (
	eventInit        = "init"
	eventInitialized = "initialized"
	eventStart       = "start"
	eventStarted     = "started"
	eventSuspend     = "suspend"
	eventSuspended   = "suspended"
	eventResume      = "resume"
	eventDestroy     = "destroy"
	eventDestroyed   = "destroyed"
	eventFail        = "fail"
)

// stage describes one guarded operation: the event that enters its
// in-progress state, the event that completes it and the hook run in between.
type stage struct {
	op       string
	begin    string
	complete string
	hook     func(Hooks, context.Context) error
}

var (
	initStage    = stage{op: "init", begin: eventInit, complete: eventInitialized, hook: Hooks.OnInit}
	startStage   = stage{op: "start", begin: eventStart, complete: eventStarted, hook: Hooks.OnStart}
	suspendStage = stage{op: "suspend", begin: eventSuspend, complete: eventSuspended, hook: Hooks.OnSuspend}
	resumeStage  = stage{op: "resume", begin: eventResume, complete: eventStarted, hook: Hooks.OnResume}
	destroyStage = stage{op: "destroy", begin: eventDestroy, complete: eventDestroyed, hook: Hooks.OnDestroy}
)

func names(states ...State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.String()
	}
	return out
}

// newTransitionTable builds the state machine:
//
//	New|Destroyed --init--> Initializing --initialized--> Initialized
//	Initialized --start--> Starting --started--> Started
//	Started --suspend--> Suspending --suspended--> Suspended
//	Suspended --resume--> Resuming --started--> Started
//	any --destroy--> Destroying --destroyed--> Destroyed
//	Initializing|Starting|Suspending|Resuming|Destroying --fail--> Sick
func newTransitionTable() *fsm.FSM {
	var settled []State
	for _, s := range States() {
		if s != StateDestroying {
			settled = append(settled, s)
		}
	}

	return fsm.NewFSM(
		StateNew.String(),
		fsm.Events{
			{Name: eventInit, Src: names(StateNew, StateDestroyed), Dst: StateInitializing.String()},
			{Name: eventInitialized, Src: names(StateInitializing), Dst: StateInitialized.String()},
			{Name: eventStart, Src: names(StateInitialized), Dst: StateStarting.String()},
			{Name: eventStarted, Src: names(StateStarting, StateResuming), Dst: StateStarted.String()},
			{Name: eventSuspend, Src: names(StateStarted), Dst: StateSuspending.String()},
			{Name: eventSuspended, Src: names(StateSuspending), Dst: StateSuspended.String()},
			{Name: eventResume, Src: names(StateSuspended), Dst: StateResuming.String()},
			{Name: eventDestroy, Src: names(settled...), Dst: StateDestroying.String()},
			{Name: eventDestroyed, Src: names(StateDestroying), Dst: StateDestroyed.String()},
			{Name: eventFail, Src: names(StateInitializing, StateStarting, StateSuspending, StateResuming, StateDestroying), Dst: StateSick.String()},
		},
		fsm.Callbacks{},
	)
}

// Machine is the lifecycle state machine. Components embed a *Machine and
// pass their stage behavior as Hooks:
//
//	type cache struct {
//	    *lifecycle.Machine
//	    lifecycle.NoopHooks
//	}
//
//	c := &cache{}
//	c.Machine = lifecycle.New(c)
//
// All operations on one Machine are serialized by a single mutex that is held
// while the hook and every listener run. Hooks and listeners may call State,
// AddListener and RemoveListener, but must not call the other operations of
// the same Machine.
type Machine struct {
	mu    sync.Mutex
	table *fsm.FSM
	state atomic.Int32

	hooks     Hooks
	listeners registry
	logger    log.Logger
	name      string
}

// New creates a Machine in StateNew. A nil hooks value makes every stage a no-op.
func New(hooks Hooks, opts ...Option) *Machine {
	if hooks == nil {
		hooks = NoopHooks{}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if o.name != "" {
		logger = log.With(logger, log.String("component", o.name))
	}

	m := &Machine{
		table:  newTransitionTable(),
		hooks:  hooks,
		logger: logger,
		name:   o.name,
	}
	m.state.Store(int32(StateNew))

	for _, l := range o.listeners {
		m.listeners.add(l)
	}
	return m
}

// Init runs the init hook. Legal only from StateNew or StateDestroyed.
func (m *Machine) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.run(ctx, initStage)
}

// Start runs the start hook, running the init hook first when the machine is
// New or Destroyed. Otherwise legal only from StateInitialized.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.table.Can(eventInit) {
		if err := m.run(ctx, initStage); err != nil {
			return err
		}
	}
	return m.run(ctx, startStage)
}

// Suspend runs the suspend hook. Legal only from StateStarted.
func (m *Machine) Suspend(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.run(ctx, suspendStage)
}

// Resume runs the resume hook and returns to StateStarted.
// Legal only from StateSuspended.
func (m *Machine) Resume(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.run(ctx, resumeStage)
}

// Destroy runs the destroy hook. Legal from any state, including StateSick.
func (m *Machine) Destroy(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.run(ctx, destroyStage)
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return State(m.state.Load())
}

// Name returns the name given with WithName.
func (m *Machine) Name() string {
	return m.name
}

// AddListener registers l for future transitions. Registering the same
// listener again is a no-op.
func (m *Machine) AddListener(l Listener) {
	m.listeners.add(l)
}

// RemoveListener stops notifying l and reports whether it was registered.
func (m *Machine) RemoveListener(l Listener) bool {
	return m.listeners.remove(l)
}

// ListenerCount returns the number of registered listeners.
func (m *Machine) ListenerCount() int {
	return m.listeners.len()
}

// run performs one stage. Must be called with m.mu held.
func (m *Machine) run(ctx context.Context, s stage) error {
	if !m.table.Can(s.begin) {
		return &IllegalStateError{Op: s.op, State: m.State()}
	}

	m.fire(s.begin)

	if err := m.invoke(ctx, s); err != nil {
		m.fire(eventFail)
		m.logger.Error("lifecycle hook failed",
			log.String("op", s.op),
			log.Err(err),
		)
		return wrap(s.op, err)
	}

	m.fire(s.complete)
	return nil
}

func (m *Machine) invoke(ctx context.Context, s stage) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v}
		}
	}()
	return s.hook(m.hooks, ctx)
}

// fire commits the transition for event and notifies listeners.
// Must be called with m.mu held.
func (m *Machine) fire(event string) {
	previous := m.State()

	// The table is only driven from here under m.mu, after run checked the
	// begin event, so an error means the table itself is wrong.
	if err := m.table.Event(context.Background(), event); err != nil {
		panic(fmt.Sprintf("lifecycle: %s from %s: %v", event, previous, err))
	}
	current, ok := ParseState(m.table.Current())
	if !ok {
		panic(fmt.Sprintf("lifecycle: unknown state %q", m.table.Current()))
	}
	m.state.Store(int32(current))

	m.logger.Debug("state transition",
		log.String("from", previous.String()),
		log.String("to", current.String()),
	)

	m.listeners.notify(previous, current, func(l Listener, v interface{}) {
		m.logger.Error("listener panicked",
			log.String("listener", fmt.Sprintf("%T", l)),
			log.String("from", previous.String()),
			log.String("to", current.String()),
			log.Any("panic", v),
		)
	})
}

var _ Lifecycle = (*Machine)(nil)
