// Package status persists the last known lifecycle state of a component so
// other processes (such as `ubean status`) can inspect it.
package status

import (
	"time"
)

// Status is the on-disk record of a component's lifecycle state.
type Status struct {
	// Name is the component name
	Name string `json:"name"`

	// State is the current lifecycle state
	State string `json:"state"`

	// Previous is the state before the last transition
	Previous string `json:"previous,omitempty"`

	// PID is the process running the component
	PID int `json:"pid"`

	// ChangedAt is the time of the last transition
	ChangedAt time.Time `json:"changed_at"`
}

// IsEmpty returns true if no status has been recorded.
func (s Status) IsEmpty() bool {
	return s.State == ""
}
