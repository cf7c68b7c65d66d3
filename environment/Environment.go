// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gosolo/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Environment implements a simulated environment driven through the
// step/reset control loop.
//
// Step applies one action vector, advances the simulation by exactly
// one timestep, and returns the resulting TimeStep along with whether
// the episode ended. An action whose length does not match the action
// specification is a contract violation and results in an error, never
// silent truncation or padding.
//
// Reset starts a new episode and returns its first TimeStep. Neither
// reward nor termination is computed on reset.
//
// Close releases the resources backing the environment. Environments
// hold live connections to physics backends, so Close must be called on
// every exit path. No method may be called after Close.
type Environment interface {
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)
	Reset() (timestep.TimeStep, error)
	CurrentTimeStep() timestep.TimeStep
	ObservationSpec() Spec
	ActionSpec() Spec
	Close() error
}
