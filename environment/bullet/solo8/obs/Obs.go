// Package obs implements observations of the solo8 robot's physics
// state. Observations are registered with a Factory, which concatenates
// them into the single fixed-shape vector an environment returns on
// every step, together with a parallel list of human-readable labels.
package obs

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gosolo/environment"
)

// Observation derives a fixed-length slice of values from the current
// physics state. Implementations read state through idempotent client
// queries only, so observations may be computed in any order within a
// single step without affecting one another.
//
// The lengths of Observe results, Labels, LowerBound, and UpperBound
// must all agree and must stay constant for the lifetime of a loaded
// robot.
type Observation interface {
	Observe() ([]float64, error)
	Labels() []string
	LowerBound() []float64
	UpperBound() []float64
}

// Factory aggregates registered Observations in registration order
type Factory struct {
	observations []Observation
}

// NewFactory returns a Factory with no registered Observations. An
// empty Factory produces an empty observation vector and an empty
// label list.
func NewFactory() *Factory {
	return &Factory{}
}

// Register adds an Observation to the end of the observation vector
func (f *Factory) Register(o Observation) {
	f.observations = append(f.observations, o)
}

// GetObs computes the current observation vector and its labels
func (f *Factory) GetObs() (*mat.VecDense, []string, error) {
	values := make([]float64, 0)
	labels := make([]string, 0)

	for _, o := range f.observations {
		v, err := o.Observe()
		if err != nil {
			return nil, nil, fmt.Errorf("getObs: %v", err)
		}
		l := o.Labels()
		if len(v) != len(l) {
			return nil, nil, fmt.Errorf("getObs: observation returned %v "+
				"values but declares %v labels", len(v), len(l))
		}

		values = append(values, v...)
		labels = append(labels, l...)
	}

	if len(values) == 0 {
		return &mat.VecDense{}, labels, nil
	}
	return mat.NewVecDense(len(values), values), labels, nil
}

// ObservationSpec returns the shape and bounds of the concatenated
// observation vector. It is an error to request the spec before any
// Observation has been registered, since an empty vector has no
// declarable shape.
func (f *Factory) ObservationSpec() (environment.Spec, error) {
	if len(f.observations) == 0 {
		return environment.Spec{}, fmt.Errorf(
			"observationSpec: no observations registered")
	}

	low := make([]float64, 0)
	high := make([]float64, 0)
	for _, o := range f.observations {
		low = append(low, o.LowerBound()...)
		high = append(high, o.UpperBound()...)
	}
	if len(low) != len(high) {
		return environment.Spec{}, fmt.Errorf("observationSpec: lower and "+
			"upper bounds differ in length (%v != %v)", len(low), len(high))
	}

	shape := mat.NewVecDense(len(low), nil)
	lowVec := mat.NewVecDense(len(low), low)
	highVec := mat.NewVecDense(len(high), high)

	return environment.NewSpec(shape, environment.Observation, lowVec,
		highVec, environment.Continuous), nil
}
