package lifecycle

import (
	"context"
	"sync/atomic"
	"testing"
)

// valueListener is not comparable (it holds a func), so it has no identity.
type valueListener struct {
	fn func(previous, current State)
}

func (v valueListener) OnStateChange(previous, current State) { v.fn(previous, current) }

func TestListener_DuplicateRegistrationFiresOnce(t *testing.T) {
	var fired atomic.Int32
	l := ListenerFunc(func(previous, current State) { fired.Add(1) })

	m := New(nil)
	m.AddListener(l)
	m.AddListener(l)

	if n := m.ListenerCount(); n != 1 {
		t.Fatalf("ListenerCount() = %d, want 1", n)
	}

	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	// Initializing, Initialized
	if got := fired.Load(); got != 2 {
		t.Errorf("fired %d times after Init, want 2", got)
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	// Starting, Started
	if got := fired.Load(); got != 4 {
		t.Errorf("fired %d times after Start, want 4", got)
	}
}

func TestListener_DuplicateRegistrationCounts(t *testing.T) {
	tests := []struct {
		name      string
		adds      int
		wantCount int
		wantFired int32
	}{
		{"once", 1, 1, 2},
		{"twice", 2, 1, 2},
		{"five times", 5, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fired atomic.Int32
			rec := ListenerFunc(func(previous, current State) { fired.Add(1) })
			m := New(nil)
			for i := 0; i < tt.adds; i++ {
				m.AddListener(rec)
			}

			_ = m.Init(context.Background())

			if n := m.ListenerCount(); n != tt.wantCount {
				t.Errorf("ListenerCount() = %d, want %d", n, tt.wantCount)
			}
			if got := fired.Load(); got != tt.wantFired {
				t.Errorf("fired %d times, want %d", got, tt.wantFired)
			}
		})
	}
}

func TestListener_WithListenerAndAddListenerDeduplicate(t *testing.T) {
	rec := &recorder{}
	m := New(nil, WithListener(rec), WithListener(rec))
	m.AddListener(rec)

	_ = m.Init(context.Background())

	if n := len(rec.Events()); n != 2 {
		t.Errorf("got %d events, want 2", n)
	}
}

func TestListener_DistinctFuncsAreDistinct(t *testing.T) {
	var fired atomic.Int32
	fn := func(previous, current State) { fired.Add(1) }

	m := New(nil)
	m.AddListener(ListenerFunc(fn))
	m.AddListener(ListenerFunc(fn))

	_ = m.Init(context.Background())

	if n := m.ListenerCount(); n != 2 {
		t.Errorf("ListenerCount() = %d, want 2", n)
	}
	if got := fired.Load(); got != 4 {
		t.Errorf("fired %d times, want 4", got)
	}
}

func TestListener_NonComparableStoredPerRegistration(t *testing.T) {
	var fired atomic.Int32
	l := valueListener{fn: func(previous, current State) { fired.Add(1) }}

	m := New(nil)
	m.AddListener(l)
	m.AddListener(l)

	_ = m.Init(context.Background())

	if n := m.ListenerCount(); n != 2 {
		t.Errorf("ListenerCount() = %d, want 2", n)
	}
	if got := fired.Load(); got != 4 {
		t.Errorf("fired %d times, want 4", got)
	}
	if m.RemoveListener(l) {
		t.Error("RemoveListener() = true for a listener without identity")
	}
}

// wrappedListener is comparable by type, but comparing two values panics
// when the embedded listener is a valueListener.
type wrappedListener struct{ Listener }

func TestListener_NonComparableFieldStoredPerRegistration(t *testing.T) {
	var fired atomic.Int32
	l := wrappedListener{valueListener{fn: func(previous, current State) { fired.Add(1) }}}

	m := New(nil)
	m.AddListener(l)
	m.AddListener(l)

	if n := m.ListenerCount(); n != 2 {
		t.Errorf("ListenerCount() = %d, want 2", n)
	}
	if m.RemoveListener(l) {
		t.Error("RemoveListener() = true for a listener without identity")
	}

	_ = m.Init(context.Background())
	if got := fired.Load(); got != 4 {
		t.Errorf("fired %d times, want 4", got)
	}
}

func TestListener_NilIgnored(t *testing.T) {
	m := New(nil)
	m.AddListener(nil)

	if n := m.ListenerCount(); n != 0 {
		t.Errorf("ListenerCount() = %d, want 0", n)
	}
	if m.RemoveListener(nil) {
		t.Error("RemoveListener(nil) = true")
	}
	if err := m.Init(context.Background()); err != nil {
		t.Errorf("Init() = %v", err)
	}
}

func TestListener_Remove(t *testing.T) {
	rec := &recorder{}
	m := New(nil)
	m.AddListener(rec)

	_ = m.Init(context.Background())

	if !m.RemoveListener(rec) {
		t.Fatal("RemoveListener() = false, want true")
	}
	if m.RemoveListener(rec) {
		t.Error("second RemoveListener() = true, want false")
	}

	_ = m.Start(context.Background())

	if n := len(rec.Events()); n != 2 {
		t.Errorf("got %d events, want 2 (none after removal)", n)
	}
}

func TestListener_PanicIsContained(t *testing.T) {
	logger := &mockLogger{}
	before := &recorder{}
	after := &recorder{}

	m := New(nil, WithLogger(logger))
	m.AddListener(before)
	m.AddListener(ListenerFunc(func(previous, current State) { panic("listener failure") }))
	m.AddListener(after)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v, listener failure must not surface", err)
	}
	if m.State() != StateStarted {
		t.Errorf("state = %v, want Started", m.State())
	}
	if n := len(before.Events()); n != 4 {
		t.Errorf("listener before panic got %d events, want 4", n)
	}
	if n := len(after.Events()); n != 4 {
		t.Errorf("listener after panic got %d events, want 4", n)
	}
	if n := len(logger.Errors()); n != 4 {
		t.Errorf("logged %d listener failures, want 4", n)
	}
}

func TestListener_AddDuringNotification(t *testing.T) {
	m := New(nil)
	late := &recorder{}

	var added atomic.Bool
	m.AddListener(ListenerFunc(func(previous, current State) {
		if added.CompareAndSwap(false, true) {
			m.AddListener(late)
		}
	}))

	_ = m.Init(context.Background())

	// late joins after the first snapshot, so it only sees Initialized.
	events := late.Events()
	if len(events) != 1 || events[0].current != StateInitialized {
		t.Errorf("late listener events = %v, want [Initializing->Initialized]", events)
	}
}

func TestListener_RemoveDuringNotification(t *testing.T) {
	m := New(nil)
	rec := &recorder{}

	var self Listener
	self = ListenerFunc(func(previous, current State) {
		m.RemoveListener(self)
	})
	m.AddListener(self)
	m.AddListener(rec)

	_ = m.Init(context.Background())

	if n := m.ListenerCount(); n != 1 {
		t.Errorf("ListenerCount() = %d, want 1", n)
	}
	if n := len(rec.Events()); n != 2 {
		t.Errorf("remaining listener got %d events, want 2", n)
	}
}
