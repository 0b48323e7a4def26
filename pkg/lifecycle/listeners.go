package lifecycle

import (
	"reflect"
	"sync"
)

// ListenerFunc returns a Listener that calls fn. Every call returns a distinct
// listener, so keep the returned value to register or remove it later.
func ListenerFunc(fn func(previous, current State)) Listener {
	return &funcListener{fn: fn}
}

type funcListener struct {
	fn func(previous, current State)
}

func (l *funcListener) OnStateChange(previous, current State) {
	l.fn(previous, current)
}

// registry is a copy-on-write listener set. Writers replace the slice,
// so a snapshot taken by notify is never mutated and listeners may add or
// remove listeners while being notified.
type registry struct {
	mu        sync.Mutex
	listeners []Listener
}

// add stores l unless an equal listener is already present.
// Listeners whose dynamic type is not comparable are stored per call.
func (r *registry) add(l Listener) bool {
	if l == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(l) >= 0 {
		return false
	}

	next := make([]Listener, len(r.listeners), len(r.listeners)+1)
	copy(next, r.listeners)
	r.listeners = append(next, l)
	return true
}

func (r *registry) remove(l Listener) bool {
	if l == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(l)
	if i < 0 {
		return false
	}

	next := make([]Listener, 0, len(r.listeners)-1)
	next = append(next, r.listeners[:i]...)
	r.listeners = append(next, r.listeners[i+1:]...)
	return true
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

func (r *registry) snapshot() []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listeners
}

// indexOf must be called with r.mu held.
func (r *registry) indexOf(l Listener) int {
	if !reflect.TypeOf(l).Comparable() {
		return -1
	}
	for i, existing := range r.listeners {
		if sameListener(existing, l) {
			return i
		}
	}
	return -1
}

// sameListener reports whether a and b are equal. A comparable struct can
// still hold a non-comparable value in an interface field; comparing two of
// those panics, and the pair is treated as distinct.
func sameListener(a, b Listener) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// notify calls every listener in the current snapshot exactly once.
// A panicking listener is reported to onPanic and does not stop the others.
func (r *registry) notify(previous, current State, onPanic func(l Listener, v interface{})) {
	for _, l := range r.snapshot() {
		dispatch(l, previous, current, onPanic)
	}
}

func dispatch(l Listener, previous, current State, onPanic func(l Listener, v interface{})) {
	defer func() {
		if v := recover(); v != nil && onPanic != nil {
			onPanic(l, v)
		}
	}()
	l.OnStateChange(previous, current)
}
