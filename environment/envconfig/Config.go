// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/gosolo/environment"
	"github.com/samuelfneumann/gosolo/environment/box2d/planarsolo"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8/obs"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8/rewards"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8/termination"
	ts "github.com/samuelfneumann/gosolo/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Solo8Vanilla EnvName = "Solo8Vanilla"
	PlanarSolo   EnvName = "PlanarSolo"
)

// TaskName stores the tasks that can be configured with this package.
// The tasks that can be used with each environment are as follows:
//
//	Environment			Task
//	Solo8Vanilla		Stand
//						Perpetual
//	PlanarSolo			Stand
type TaskName string

// Tasks available for configuration
const (
	// Stand rewards keeping the torso level and at its start height.
	// Episodes are cut off after a fixed number of steps.
	Stand TaskName = "Stand"

	// Perpetual runs episodes without any termination condition
	Perpetual TaskName = "Perpetual"
)

// Config implements a specific configuration of a specific environment
// and specific task. Not all environments can have all tasks.
type Config struct {
	Environment   EnvName
	Task          TaskName
	EpisodeCutoff uint
	UseGUI        bool
	Realtime      bool
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, taskName TaskName, episodeCutoff uint,
	useGUI, realtime bool) Config {
	return Config{
		Environment:   envName,
		Task:          taskName,
		EpisodeCutoff: episodeCutoff,
		UseGUI:        useGUI,
		Realtime:      realtime,
	}
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	switch c.Environment {
	case Solo8Vanilla:
		return CreateSolo8Vanilla(c.Task, int(c.EpisodeCutoff), c.UseGUI,
			c.Realtime, seed)

	case PlanarSolo:
		return CreatePlanarSolo(c.Task, int(c.EpisodeCutoff), seed)
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: cannot create "+
		"environment %v, no such environment", c.Environment)
}

// CreateSolo8Vanilla is a factory for creating the full quadruped
// environment with default physical parameters, the standard torso and
// encoder observations, and the task's rewards and termination
// conditions registered.
func CreateSolo8Vanilla(taskName TaskName, cutoff int, useGUI,
	realtime bool, seed uint64) (env.Environment, ts.TimeStep, error) {
	config := solo8.NewConfig()

	solo, err := solo8.New(useGUI, realtime, config, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createSolo8Vanilla: %v", err)
	}

	body := solo.RobotBody()
	solo.Obs.Register(obs.NewTorsoIMU(body))
	solo.Obs.Register(obs.NewMotorEncoders(body, solo.NumActuators()))

	switch taskName {
	case Stand:
		height, err := rewards.NewTorsoHeight(body, solo8.DefaultStartHeight)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("createSolo8Vanilla: %v",
				err)
		}
		solo.Rewards.Register(rewards.NewUpright(body), 1.0)
		solo.Rewards.Register(height, 1.0)
		solo.Terminations.Register(termination.NewTimeBased(cutoff))

	case Perpetual:
		solo.Terminations.Register(termination.NewPerpetual())

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createSolo8Vanilla: "+
			"environment has no task %v", taskName)
	}

	// Factories were registered after construction, so produce a fresh
	// first timestep that reflects them
	firstStep, err := solo.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createSolo8Vanilla: %v", err)
	}

	return solo, firstStep, nil
}

// CreatePlanarSolo is a factory for creating the planar environment
// with default physical parameters. The planar environment has a fixed
// standing task, so only the Stand task is supported.
func CreatePlanarSolo(taskName TaskName, cutoff int,
	seed uint64) (env.Environment, ts.TimeStep, error) {
	if taskName != Stand {
		return nil, ts.TimeStep{}, fmt.Errorf("createPlanarSolo: "+
			"environment has no task %v", taskName)
	}

	planar, firstStep, err := planarsolo.New(cutoff, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createPlanarSolo: %v", err)
	}

	return planar, firstStep, nil
}
