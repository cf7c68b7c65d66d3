package main

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/gosolo/environment/envconfig"
	"github.com/samuelfneumann/gosolo/experiment"
	"github.com/samuelfneumann/gosolo/experiment/tracker"
	"github.com/samuelfneumann/gosolo/experiment/trackers"
)

func main() {
	var seed uint64 = 192382

	// Create the environment config with default parameters
	envConf := envconfig.NewConfig(envconfig.PlanarSolo, envconfig.Stand,
		500, false, false)
	env, _, err := envConf.Create(seed)
	if err != nil {
		log.Fatalf("could not create environment: %v", err)
	}
	defer env.Close()

	// Create the random policy acting within the action bounds
	policy := experiment.NewUniformRandom(env.ActionSpec(), seed)

	// Track episodic returns and episode lengths
	returns := trackers.NewReturn("./data.bin")
	lengths := trackers.NewEpisodeLength("./episodes.bin")

	// Run the rollout
	rollout := experiment.NewRollout(env, policy, 10_000, true, returns,
		lengths)
	if err := rollout.Run(); err != nil {
		log.Fatalf("could not run rollout: %v", err)
	}
	rollout.Save()

	// Display the saved data
	data := tracker.LoadData("./data.bin")
	fmt.Println("Episodic returns:", data)
}
