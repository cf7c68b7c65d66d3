package planarsolo_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gosolo/environment/box2d/planarsolo"
)

func TestNew(t *testing.T) {
	env, step, err := planarsolo.New(500, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	if !step.First() {
		t.Error("first timestep should have step type First")
	}
	if step.Observation.Len() != planarsolo.StateObservations {
		t.Errorf("wrong observation size \n\thave(%v) \n\twant(%v)",
			step.Observation.Len(), planarsolo.StateObservations)
	}
	if labels := step.Info.Labels(); len(labels) != step.Observation.Len() {
		t.Errorf("labels and observation disagree: %v labels for %v values",
			len(labels), step.Observation.Len())
	}

	// The settle pass should leave the torso resting above the ground
	if height := step.Observation.AtVec(0); height <= 0 {
		t.Errorf("torso should rest above the ground, height %v", height)
	}
}

func TestNewRequiresPositiveCutoff(t *testing.T) {
	if _, _, err := planarsolo.New(0, 123); err == nil {
		t.Error("a non-positive step cutoff should be rejected")
	}
}

func TestActionSpec(t *testing.T) {
	env, _, err := planarsolo.New(500, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	spec := env.ActionSpec()
	if spec.Shape.Len() != 4 {
		t.Errorf("wrong action dimensions \n\thave(%v) \n\twant(%v)",
			spec.Shape.Len(), 4)
	}
	for j := 0; j < spec.Shape.Len(); j++ {
		if spec.LowerBound.AtVec(j) != -planarsolo.TorqueLimit ||
			spec.UpperBound.AtVec(j) != planarsolo.TorqueLimit {
			t.Errorf("joint %v: wrong torque bounds [%v, %v]", j,
				spec.LowerBound.AtVec(j), spec.UpperBound.AtVec(j))
		}
	}
}

func TestStepInvalidActionDimensions(t *testing.T) {
	env, _, err := planarsolo.New(500, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	_, done, err := env.Step(mat.NewVecDense(3, nil))
	if err == nil {
		t.Error("stepping with a malformed action should fail")
	}
	if !done {
		t.Error("a malformed action should end the episode")
	}
}

func TestStepAdvancesTimestepNumbers(t *testing.T) {
	env, _, err := planarsolo.New(500, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	action := mat.NewVecDense(4, []float64{0.5, -0.5, 0.5, -0.5})
	for i := 1; i <= 10; i++ {
		step, done, err := env.Step(action)
		if err != nil {
			t.Fatalf("could not step: %v", err)
		}
		if done {
			t.Fatalf("episode ended early at step %v", i)
		}
		if step.Number != i {
			t.Errorf("wrong timestep number \n\thave(%v) \n\twant(%v)",
				step.Number, i)
		}
		if env.CurrentTimeStep().Number != step.Number {
			t.Error("CurrentTimeStep should reflect the last step taken")
		}
	}
}

func TestEpisodeCutoff(t *testing.T) {
	const cutoff = 5
	env, _, err := planarsolo.New(cutoff, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	action := mat.NewVecDense(4, nil)
	for i := 1; i < cutoff; i++ {
		step, done, err := env.Step(action)
		if err != nil {
			t.Fatalf("could not step: %v", err)
		}
		if done || step.Last() {
			t.Fatalf("episode ended early at step %v", i)
		}
	}

	step, done, err := env.Step(action)
	if err != nil {
		t.Fatalf("could not step: %v", err)
	}
	if !done || !step.Last() {
		t.Error("episode should end at the step cutoff")
	}

	// Reset starts a fresh episode
	step, err = env.Reset()
	if err != nil {
		t.Fatalf("could not reset: %v", err)
	}
	if !step.First() || step.Number != 0 {
		t.Error("reset should return the first timestep of a new episode")
	}
}

func TestDeterministicWithEqualSeeds(t *testing.T) {
	var seed uint64 = 456

	run := func() []float64 {
		env, _, err := planarsolo.New(500, seed)
		if err != nil {
			t.Fatalf("could not create environment: %v", err)
		}
		defer env.Close()

		action := mat.NewVecDense(4, []float64{1.0, -1.0, -1.0, 1.0})
		var step = env.CurrentTimeStep()
		for i := 0; i < 20; i++ {
			var err error
			step, _, err = env.Step(action)
			if err != nil {
				t.Fatalf("could not step: %v", err)
			}
		}

		out := make([]float64, step.Observation.Len())
		for i := range out {
			out[i] = step.Observation.AtVec(i)
		}
		return out
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("index %v: runs with equal seeds diverged: %v != %v",
				i, first[i], second[i])
		}
	}
}

func TestObservationSpecMatchesObservation(t *testing.T) {
	env, step, err := planarsolo.New(500, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	spec := env.ObservationSpec()
	if spec.Shape.Len() != step.Observation.Len() {
		t.Errorf("spec and observation disagree \n\thave(%v) \n\twant(%v)",
			spec.Shape.Len(), step.Observation.Len())
	}
}
