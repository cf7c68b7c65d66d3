package experiment_test

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gosolo/environment/box2d/planarsolo"
	"github.com/samuelfneumann/gosolo/experiment"
	"github.com/samuelfneumann/gosolo/experiment/tracker"
	"github.com/samuelfneumann/gosolo/experiment/trackers"
)

func TestUniformRandomStaysInBounds(t *testing.T) {
	env, step, err := planarsolo.New(100, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	spec := env.ActionSpec()
	policy := experiment.NewUniformRandom(spec, 123)

	for i := 0; i < 50; i++ {
		action := policy.SelectAction(step)
		if action.Len() != spec.Shape.Len() {
			t.Fatalf("wrong action dimensions \n\thave(%v) \n\twant(%v)",
				action.Len(), spec.Shape.Len())
		}

		for j := 0; j < action.Len(); j++ {
			if action.AtVec(j) < spec.LowerBound.AtVec(j) ||
				action.AtVec(j) > spec.UpperBound.AtVec(j) {
				t.Errorf("action %v out of bounds at joint %v: %v",
					i, j, action.AtVec(j))
			}
		}
	}
}

func TestRolloutRunsAndSaves(t *testing.T) {
	const cutoff = 25
	const totalSteps = 100

	env, _, err := planarsolo.New(cutoff, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	policy := experiment.NewUniformRandom(env.ActionSpec(), 123)

	returnsFile := filepath.Join(t.TempDir(), "returns.bin")
	rollout := experiment.NewRollout(env, policy, totalSteps, false,
		trackers.NewReturn(returnsFile))

	if err := rollout.Run(); err != nil {
		t.Fatalf("could not run rollout: %v", err)
	}
	rollout.Save()

	// Episodes are cut off every 25 steps, so a 100 step rollout
	// completes 4 episodes
	returns := tracker.LoadData(returnsFile)
	if len(returns) != totalSteps/cutoff {
		t.Errorf("wrong episode count \n\thave(%v) \n\twant(%v)",
			len(returns), totalSteps/cutoff)
	}
}

func TestRegisteredTracker(t *testing.T) {
	const cutoff = 10

	env, _, err := planarsolo.New(cutoff, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	lengthsFile := filepath.Join(t.TempDir(), "lengths.bin")
	registered := tracker.Register(trackers.NewEpisodeLength(lengthsFile), env)

	policy := experiment.NewUniformRandom(env.ActionSpec(), 123)
	rollout := experiment.NewRollout(env, policy, 30, false, registered)

	if err := rollout.Run(); err != nil {
		t.Fatalf("could not run rollout: %v", err)
	}
	rollout.Save()

	// Episode lengths are saved as integers
	file, err := os.Open(lengthsFile)
	if err != nil {
		t.Fatalf("could not open saved data: %v", err)
	}
	defer file.Close()

	var lengths []int
	if err := gob.NewDecoder(file).Decode(&lengths); err != nil {
		t.Fatalf("could not decode saved data: %v", err)
	}

	if len(lengths) != 3 {
		t.Errorf("wrong episode count \n\thave(%v) \n\twant(%v)",
			len(lengths), 3)
	}
	for _, length := range lengths {
		if length != cutoff {
			t.Errorf("wrong episode length \n\thave(%v) \n\twant(%v)",
				length, cutoff)
		}
	}
}
