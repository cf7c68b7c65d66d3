package experiment

import (
	"fmt"
	"time"

	env "github.com/samuelfneumann/gosolo/environment"
	"github.com/samuelfneumann/gosolo/experiment/tracker"
	ts "github.com/samuelfneumann/gosolo/timestep"
	"github.com/samuelfneumann/gosolo/utils/progressbar"
)

// Rollout runs a Policy on an Environment for a fixed number of
// timesteps, tracking data along the way. No learning is performed.
type Rollout struct {
	env.Environment
	Policy
	maxSteps     uint
	currentSteps uint
	trackers     []tracker.Tracker
	showProgress bool
}

// NewRollout creates and returns a new rollout of a given policy on a
// given environment. The steps parameter determines how many timesteps
// the rollout is run for, and the t parameter is a slice of
// tracker.Tracker which determine what data is recorded.
func NewRollout(e env.Environment, p Policy, steps uint, showProgress bool,
	t ...tracker.Tracker) *Rollout {
	return &Rollout{e, p, steps, 0, t, showProgress}
}

// Register registers a tracker.Tracker with a Rollout so that data
// generated during the rollout can be tracked and saved
func (r *Rollout) Register(t tracker.Tracker) {
	r.trackers = append(r.trackers, t)
}

// RunEpisode runs a single episode of the rollout. It returns whether
// the rollout's timestep limit has been reached.
func (r *Rollout) RunEpisode(bar *progressbar.ProgressBar) (bool, error) {
	step, err := r.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: could not reset "+
			"environment: %v", err)
	}
	r.track(step)

	// Run the next timestep
	for !step.Last() && r.currentSteps < r.maxSteps {
		r.currentSteps++

		// Select action, step in environment
		action := r.Policy.SelectAction(step)
		step, _, err = r.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not step "+
				"environment: %v", err)
		}

		// Cache the environment step in each Tracker
		r.track(step)

		if bar != nil {
			bar.Increment()
		}
	}

	// Return whether or not the max timestep limit has been reached
	return r.currentSteps >= r.maxSteps, nil
}

// Run runs the entire rollout for all timesteps
func (r *Rollout) Run() error {
	var bar *progressbar.ProgressBar
	if r.showProgress {
		bar = progressbar.NewProgressBar(50, int(r.maxSteps),
			time.Second, false)
		bar.Display()
		defer bar.Close()
	}

	ended := false
	for !ended {
		var err error
		ended, err = r.RunEpisode(bar)
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}
	}

	return nil
}

// Save saves all the data cached by the Trackers to disk
func (r *Rollout) Save() {
	for _, t := range r.trackers {
		t.Save()
	}
}

// track tracks the current timestep by caching its data in each tracker
func (r *Rollout) track(t ts.TimeStep) {
	for _, tr := range r.trackers {
		tr.Track(t)
	}
}
