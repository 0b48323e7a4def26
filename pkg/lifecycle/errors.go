package lifecycle

import (
	"errors"
	"fmt"
)

// Common lifecycle errors. Check them with errors.Is.
var (
	// ErrIllegalState is matched by every IllegalStateError.
	ErrIllegalState = errors.New("lifecycle: illegal state")

	// ErrHookFailed is matched by every HookError.
	ErrHookFailed = errors.New("lifecycle: hook failed")
)

// IllegalStateError is returned when an operation is attempted from a state
// that does not permit it. The component state is left unchanged.
type IllegalStateError struct {
	Op    string
	State State
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("lifecycle: illegal state %s for %s", e.State, e.Op)
}

// Is reports whether target is ErrIllegalState.
func (e *IllegalStateError) Is(target error) bool {
	return target == ErrIllegalState
}

// HookError is returned when a stage hook fails. By the time the caller sees
// it the component is already Sick.
type HookError struct {
	Op  string
	Err error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("lifecycle: %s hook failed: %v", e.Op, e.Err)
}

// Unwrap returns the hook's original error.
func (e *HookError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrHookFailed.
func (e *HookError) Is(target error) bool {
	return target == ErrHookFailed
}

// PanicError carries the value recovered from a panicking hook.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// wrap converts a hook failure into a lifecycle error. Errors that already
// belong to this package are returned as they are.
func wrap(op string, err error) error {
	var hookErr *HookError
	if errors.As(err, &hookErr) {
		return err
	}
	var stateErr *IllegalStateError
	if errors.As(err, &stateErr) {
		return err
	}
	return &HookError{Op: op, Err: err}
}
