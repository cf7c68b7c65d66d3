// Package experiment runs policies against environments and records
// the generated data
package experiment

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gosolo/environment"
	ts "github.com/samuelfneumann/gosolo/timestep"
)

// Policy selects the action to take on each timestep of a rollout
type Policy interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
}

// UniformRandom is a Policy that samples every action uniformly from
// the action specification bounds of an environment, ignoring the
// observation. It is the natural baseline policy for checking that an
// environment behaves sensibly.
type UniformRandom struct {
	dists []distuv.Uniform
}

// NewUniformRandom returns a UniformRandom policy acting within the
// bounds of spec. Unbounded action dimensions are not supported and
// cause a panic.
func NewUniformRandom(spec environment.Spec, seed uint64) *UniformRandom {
	src := rand.NewSource(seed)

	dists := make([]distuv.Uniform, spec.Shape.Len())
	for i := range dists {
		min := spec.LowerBound.AtVec(i)
		max := spec.UpperBound.AtVec(i)
		if min >= max {
			panic("newUniformRandom: action dimension has empty bounds")
		}

		dists[i] = distuv.Uniform{Min: min, Max: max, Src: src}
	}

	return &UniformRandom{dists: dists}
}

// SelectAction samples a fresh uniformly random action
func (u *UniformRandom) SelectAction(ts.TimeStep) *mat.VecDense {
	action := make([]float64, len(u.dists))
	for i := range u.dists {
		action[i] = u.dists[i].Rand()
	}

	return mat.NewVecDense(len(action), action)
}
