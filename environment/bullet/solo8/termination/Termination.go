// Package termination implements episode-ending conditions for solo8
// environments. Conditions are registered with a Factory; the episode
// ends as soon as any registered condition fires.
package termination

import (
	"fmt"
)

// Condition computes whether the episode is over from the current
// physics state. Conditions carrying per-episode state (e.g. tick
// counters) reset it in Reset, which environments call on every
// episode reset.
type Condition interface {
	IsTerminated() (bool, error)
	Reset()
}

// Factory aggregates registered Conditions
type Factory struct {
	conditions []Condition
}

// NewFactory returns a Factory with no registered Conditions. An empty
// Factory never terminates the episode.
func NewFactory() *Factory {
	return &Factory{}
}

// Register adds a Condition
func (f *Factory) Register(c Condition) {
	f.conditions = append(f.conditions, c)
}

// IsTerminated reports whether any registered Condition has fired.
// Every condition is queried on every call so that stateful conditions
// observe every step.
func (f *Factory) IsTerminated() (bool, error) {
	done := false
	for _, c := range f.conditions {
		fired, err := c.IsTerminated()
		if err != nil {
			return false, fmt.Errorf("isTerminated: %v", err)
		}
		done = done || fired
	}
	return done, nil
}

// Reset resets every registered Condition for a new episode
func (f *Factory) Reset() {
	for _, c := range f.conditions {
		c.Reset()
	}
}
