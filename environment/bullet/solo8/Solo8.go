// Package solo8 implements an environment around the solo8 quadruped
// robot simulated by an external physics engine. The environment owns
// the physics session exclusively: it loads a static ground plane and
// one robot model instance, commands per-joint torques on each step,
// and reads the post-step state back through the observation, reward,
// and termination factories the caller populates.
package solo8

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gosolo/environment"
	"github.com/samuelfneumann/gosolo/environment/bullet"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8/obs"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8/rewards"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8/termination"
	ts "github.com/samuelfneumann/gosolo/timestep"
)

// planeModel is the shared asset holding the static ground plane
const planeModel string = "plane.urdf"

// settleSteps is the number of zero-torque simulation steps run after
// every robot reload. Gravity alone drives the freshly loaded model
// into a repeatable resting pose, which removes the need for an
// explicit home-position definition at the cost of a fixed per-reset
// latency. The count is unconditional: it is not adaptive to when the
// model actually stops moving, and downstream code may depend on the
// fixed latency.
const settleSteps int = 1000

// Solo8 implements environment.Environment for the solo8 robot.
//
// The Obs, Rewards, and Terminations factories start empty. Until
// observations are registered, steps and resets return empty
// observation vectors with empty label lists; an empty reward factory
// reports 0 and an empty termination factory never ends the episode.
// Callers register their policies after construction and before the
// first real Reset.
type Solo8 struct {
	client   bullet.Client
	config   Config
	realtime bool

	plane   bullet.BodyID
	robot   *bullet.Body
	nJoints int

	zeroForces []float64
	zeroGains  []float64

	Obs          *obs.Factory
	Rewards      *rewards.Factory
	Terminations *termination.Factory

	startNoise   distuv.Uniform
	actionBounds r1.Interval
	currentStep  ts.TimeStep
}

// New connects to the physics engine and returns a new Solo8
// environment. With useGui the engine runs its visualizer, which fails
// on machines without a display. With realtime each step additionally
// sleeps for one timestep of wall-clock time as best-effort pacing.
//
// The seed determines every stochastic choice the environment makes
// (currently the start-position noise); environments constructed with
// equal configs and seeds behave identically given a deterministic
// engine.
func New(useGui, realtime bool, config Config, seed uint64) (*Solo8, error) {
	mode := bullet.Direct
	if useGui {
		mode = bullet.GUI
	}

	client, err := bullet.Connect(mode)
	if err != nil {
		return nil, fmt.Errorf("newSolo8: %v", err)
	}

	env, err := NewWithClient(client, realtime, config, seed)
	if err != nil {
		client.Disconnect()
		return nil, err
	}
	return env, nil
}

// NewWithClient wires a Solo8 environment around an existing client
// connection, taking ownership of it. This is the constructor to use
// with an alternative Client implementation.
func NewWithClient(client bullet.Client, realtime bool, config Config,
	seed uint64) (*Solo8, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newSolo8: invalid config: %v", err)
	}

	if err := client.SetAdditionalSearchPath(config.SearchPath); err != nil {
		return nil, fmt.Errorf("newSolo8: could not set search path: %v", err)
	}
	if err := client.SetGravity(config.Gravity); err != nil {
		return nil, fmt.Errorf("newSolo8: could not set gravity: %v", err)
	}
	if err := client.SetTimeStep(config.Dt, 1); err != nil {
		return nil, fmt.Errorf("newSolo8: could not set timestep: %v", err)
	}

	plane, err := client.LoadModel(planeModel, r3.Vec{},
		bullet.IdentityQuaternion(), 0, true)
	if err != nil {
		return nil, fmt.Errorf("newSolo8: could not load ground plane: %v",
			err)
	}

	s := &Solo8{
		client:   client,
		config:   config,
		realtime: realtime,
		plane:    plane,
		startNoise: distuv.Uniform{
			Min: -1.0,
			Max: 1.0,
			Src: rand.NewSource(seed),
		},
		actionBounds: r1.Interval{
			Min: -config.MotorTorqueLimit,
			Max: config.MotorTorqueLimit,
		},
	}

	robot, nJoints, err := s.loadRobot()
	if err != nil {
		return nil, fmt.Errorf("newSolo8: %v", err)
	}
	s.robot = bullet.NewBody(client, robot)
	s.nJoints = nJoints
	s.zeroForces = make([]float64, nJoints)
	s.zeroGains = make([]float64, nJoints)

	s.Obs = obs.NewFactory()
	s.Rewards = rewards.NewFactory()
	s.Terminations = termination.NewFactory()

	// The construction-time reset returns an empty placeholder
	// observation: no observations are registered yet, so no
	// observation shape is meaningful here.
	if _, err := s.reset(true); err != nil {
		return nil, fmt.Errorf("newSolo8: %v", err)
	}

	return s, nil
}

// RobotBody returns the handle of the loaded robot. The handle stays
// valid across resets. Use it to construct observations, rewards, and
// termination conditions for this environment.
func (s *Solo8) RobotBody() *bullet.Body {
	return s.robot
}

// NumActuators returns the number of torque-controlled joints. The
// count is fixed for the lifetime of the environment.
func (s *Solo8) NumActuators() int {
	return s.nJoints
}

// Step commands one torque per actuated joint, advances the simulation
// by exactly one fixed timestep, and returns the resulting TimeStep.
// Torque application and the simulation step happen before any factory
// reads state, so every factory observes the post-step state.
func (s *Solo8) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != s.nJoints {
		return ts.TimeStep{}, true, fmt.Errorf("step: invalid action "+
			"dimensions \n\thave(%v) \n\twant(%v)", action.Len(), s.nJoints)
	}

	forces := make([]float64, s.nJoints)
	copy(forces, action.RawVector().Data)

	// Zero gains so the implicit PD controller does not override the
	// commanded torques
	err := s.client.SetJointMotorControls(s.robot.ID(),
		bullet.TorqueControl, forces, s.zeroGains, s.zeroGains)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not command "+
			"torques: %v", err)
	}
	if err := s.client.StepSimulation(); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}

	if s.realtime {
		time.Sleep(time.Duration(s.config.Dt * float64(time.Second)))
	}

	obsVec, labels, err := s.Obs.GetObs()
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}
	reward, err := s.Rewards.GetReward()
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}
	done, err := s.Terminations.IsTerminated()
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}

	stepType := ts.Mid
	if done {
		stepType = ts.Last
	}
	t := ts.New(stepType, reward, obsVec, s.currentStep.Number+1,
		ts.Info{"labels": labels})
	s.currentStep = t

	return t, done, nil
}

// Reset destroys the robot instance, reloads a fresh one at the
// configured start pose, and runs the settle pass before returning the
// first observation of the new episode
func (s *Solo8) Reset() (ts.TimeStep, error) {
	return s.reset(false)
}

func (s *Solo8) reset(initCall bool) (ts.TimeStep, error) {
	if err := s.client.RemoveBody(s.robot.ID()); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not remove robot: %v",
			err)
	}

	robot, nJoints, err := s.loadRobot()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	if nJoints != s.nJoints {
		return ts.TimeStep{}, fmt.Errorf("reset: joint count changed "+
			"across reload \n\thave(%v) \n\twant(%v)", nJoints, s.nJoints)
	}
	s.robot.Relabel(robot)

	// Settle pass: let gravity bring the fresh model to rest
	for i := 0; i < settleSteps; i++ {
		err := s.client.SetJointMotorControls(s.robot.ID(),
			bullet.TorqueControl, s.zeroForces, s.zeroGains, s.zeroGains)
		if err != nil {
			return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
		}
		if err := s.client.StepSimulation(); err != nil {
			return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
		}
	}

	s.Terminations.Reset()

	if initCall {
		t := ts.New(ts.First, 0, &mat.VecDense{}, 0,
			ts.Info{"labels": []string{}})
		s.currentStep = t
		return t, nil
	}

	obsVec, labels, err := s.Obs.GetObs()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	t := ts.New(ts.First, 0, obsVec, 0, ts.Info{"labels": labels})
	s.currentStep = t
	return t, nil
}

// loadRobot loads the robot model at the configured start pose,
// discovers its joint count, zeroes the engine's default velocity
// controllers so the robot does not move uncommanded, and applies the
// configured per-joint dynamics overrides.
func (s *Solo8) loadRobot() (bullet.BodyID, int, error) {
	position := s.config.StartPosition
	if noise := s.config.StartPositionNoise; noise > 0 {
		position.X += noise * s.startNoise.Rand()
		position.Y += noise * s.startNoise.Rand()
	}
	orientation := bullet.QuaternionFromEuler(s.config.StartOrientation)

	robot, err := s.client.LoadModel(s.config.ModelPath, position,
		orientation, bullet.UseInertiaFromFile, false)
	if err != nil {
		return -1, 0, fmt.Errorf("loadRobot: could not load robot model: %v",
			err)
	}

	nJoints, err := s.client.NumJoints(robot)
	if err != nil {
		return -1, 0, fmt.Errorf("loadRobot: %v", err)
	}

	zero := make([]float64, nJoints)
	err = s.client.SetJointMotorControls(robot, bullet.VelocityControl,
		zero, zero, zero)
	if err != nil {
		return -1, 0, fmt.Errorf("loadRobot: could not zero default "+
			"controllers: %v", err)
	}

	dynamics := bullet.Dynamics{
		LinearDamping:   s.config.LinearDamping,
		AngularDamping:  s.config.AngularDamping,
		Restitution:     s.config.Restitution,
		LateralFriction: s.config.LateralFriction,
	}
	for j := 0; j < nJoints; j++ {
		if err := s.client.ChangeDynamics(robot, j, dynamics); err != nil {
			return -1, 0, fmt.Errorf("loadRobot: could not set joint "+
				"dynamics: %v", err)
		}
	}

	return robot, nJoints, nil
}

// CurrentTimeStep returns the last TimeStep produced by the
// environment
func (s *Solo8) CurrentTimeStep() ts.TimeStep {
	return s.currentStep
}

// ObservationSpec returns the observation specification declared by
// the registered observations. ObservationSpec panics before any
// observation has been registered.
func (s *Solo8) ObservationSpec() environment.Spec {
	spec, err := s.Obs.ObservationSpec()
	if err != nil {
		panic(fmt.Sprintf("observationSpec: %v", err))
	}
	return spec
}

// ActionSpec returns the action specification: a symmetric box of
// ±MotorTorqueLimit per actuator
func (s *Solo8) ActionSpec() environment.Spec {
	low := make([]float64, s.nJoints)
	high := make([]float64, s.nJoints)
	for j := 0; j < s.nJoints; j++ {
		low[j] = s.actionBounds.Min
		high[j] = s.actionBounds.Max
	}

	shape := mat.NewVecDense(s.nJoints, nil)
	lowVec := mat.NewVecDense(s.nJoints, low)
	highVec := mat.NewVecDense(s.nJoints, high)

	return environment.NewSpec(shape, environment.Action, lowVec, highVec,
		environment.Continuous)
}

// Close disconnects from the physics engine. No method may be called
// on the environment afterwards.
func (s *Solo8) Close() error {
	if err := s.client.Disconnect(); err != nil {
		return fmt.Errorf("close: %v", err)
	}
	return nil
}
