// Package bullet provides a Go handle to the Bullet physics server.
//
// The physics engine itself is an opaque external collaborator: this
// package only wires commands to it (load a model, command joint
// motors, advance the simulation one tick) and reads state back from
// it. All contact dynamics, constraint solving, and model-description
// parsing happen inside the engine.
//
// Environments depend on the Client interface rather than on the cgo
// implementation so that caller-supplied observation, reward, and
// termination policies can read physics state through the same
// contract, and so that alternative backends can be substituted.
package bullet

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// ConnectionMode selects how a Client connects to the physics server
type ConnectionMode int

const (
	// Direct runs a headless in-process server
	Direct ConnectionMode = iota

	// GUI runs an in-process server with a visualizer attached. GUI
	// connections fail on machines without a display.
	GUI
)

// ControlMode selects the per-joint motor controller used by
// SetJointMotorControls
type ControlMode int

const (
	// VelocityControl servos each joint to a target velocity, bounded
	// by the given maximum force
	VelocityControl ControlMode = iota

	// TorqueControl applies the given forces as raw joint torques. The
	// implicit PD controller must be given zero gains or it overrides
	// the commanded torque.
	TorqueControl

	// PositionControl servos each joint to a target position
	PositionControl
)

// LoadFlag alters how LoadModel interprets a model description file
type LoadFlag int

const (
	// UseInertiaFromFile takes inertia tensors from the model
	// description rather than recomputing them from collision geometry
	UseInertiaFromFile LoadFlag = 1 << iota
)

// BodyID identifies one model instance loaded into a physics session
type BodyID int

// JointState is the state of a single joint read back from the engine
type JointState struct {
	Position      float64
	Velocity      float64
	AppliedTorque float64
}

// Dynamics holds the per-joint dynamics overrides applied by
// ChangeDynamics
type Dynamics struct {
	LinearDamping   float64
	AngularDamping  float64
	Restitution     float64
	LateralFriction float64
}

// Client is an exclusive connection to a physics server. A Client is
// owned by exactly one environment and is not safe for concurrent use.
//
// State queries (NumJoints, JointStates, BasePositionAndOrientation,
// BaseVelocity) are idempotent and free of side effects, so multiple
// policies may read state independently between simulation steps and
// observe identical values.
//
// Disconnect must be called when the session is no longer needed; no
// method may be called afterwards.
type Client interface {
	// SetAdditionalSearchPath registers a directory searched for
	// shared model assets referenced by relative path
	SetAdditionalSearchPath(path string) error

	// SetGravity sets the gravity vector applied to every dynamic body
	SetGravity(gravity r3.Vec) error

	// SetTimeStep fixes the simulated time advanced by each call to
	// StepSimulation
	SetTimeStep(dt float64, numSubSteps int) error

	// LoadModel loads a model description file at the given base pose
	// and returns the instance handle
	LoadModel(path string, position r3.Vec, orientation Quaternion,
		flags LoadFlag, useFixedBase bool) (BodyID, error)

	// RemoveBody removes a model instance from the session
	RemoveBody(body BodyID) error

	// NumJoints reports the number of joints of a loaded instance
	NumJoints(body BodyID) (int, error)

	// SetJointMotorControls commands every joint of a body in a single
	// call. The forces, positionGains, and velocityGains slices must
	// each have one entry per joint.
	SetJointMotorControls(body BodyID, mode ControlMode, forces,
		positionGains, velocityGains []float64) error

	// ChangeDynamics overrides the dynamics properties of one joint
	ChangeDynamics(body BodyID, joint int, dynamics Dynamics) error

	// StepSimulation advances the simulation by one fixed timestep
	StepSimulation() error

	// JointStates reads back the state of every joint of a body
	JointStates(body BodyID) ([]JointState, error)

	// BasePositionAndOrientation reads back the world pose of the base
	// link of a body
	BasePositionAndOrientation(body BodyID) (r3.Vec, Quaternion, error)

	// BaseVelocity reads back the linear and angular world velocity of
	// the base link of a body
	BaseVelocity(body BodyID) (linear, angular r3.Vec, err error)

	// Disconnect shuts down the connection to the physics server
	Disconnect() error
}
