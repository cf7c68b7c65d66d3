package solo8

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Default physical parameters
const (
	DefaultDt               float64 = 1e-3
	DefaultStartHeight      float64 = 0.35
	DefaultMotorTorqueLimit float64 = 2.0
	DefaultLinearDamping    float64 = 0.04
	DefaultAngularDamping   float64 = 0.04
	DefaultRestitution      float64 = 0.0
	DefaultLateralFriction  float64 = 0.5

	DefaultModelPath  string = "assets/solo8v2/solo.urdf"
	DefaultSearchPath string = "assets"
)

// Config holds the physical parameters of a solo8 environment. A
// Config is constructed once by the caller, validated at environment
// construction, and never mutated by the environment.
type Config struct {
	// Gravity is the gravity vector of the simulation
	Gravity r3.Vec

	// Dt is the fixed simulated time advance per step, in seconds
	Dt float64

	// ModelPath locates the robot model description file
	ModelPath string

	// SearchPath is the directory searched for shared assets such as
	// the ground plane model
	SearchPath string

	// StartPosition is the world position of the robot base at load
	// time
	StartPosition r3.Vec

	// StartOrientation is the robot base orientation at load time, as
	// roll-pitch-yaw Euler angles in radians
	StartOrientation r3.Vec

	// MotorTorqueLimit bounds the commandable torque of every
	// actuator, in newton-metres. The action space is the symmetric
	// box ±MotorTorqueLimit per actuator.
	MotorTorqueLimit float64

	// Per-joint dynamics overrides applied uniformly to every joint
	LinearDamping   float64
	AngularDamping  float64
	Restitution     float64
	LateralFriction float64

	// StartPositionNoise is the half-width of uniform noise added to
	// the X and Y start position on every robot load. Zero disables
	// the noise. Noise is drawn from the environment's seeded random
	// source, so runs with equal seeds load the robot at equal poses.
	StartPositionNoise float64
}

// NewConfig returns a Config populated with the default solo8v2
// parameters
func NewConfig() Config {
	return Config{
		Gravity:          r3.Vec{Z: -9.81},
		Dt:               DefaultDt,
		ModelPath:        DefaultModelPath,
		SearchPath:       DefaultSearchPath,
		StartPosition:    r3.Vec{Z: DefaultStartHeight},
		MotorTorqueLimit: DefaultMotorTorqueLimit,
		LinearDamping:    DefaultLinearDamping,
		AngularDamping:   DefaultAngularDamping,
		Restitution:      DefaultRestitution,
		LateralFriction:  DefaultLateralFriction,
	}
}

// Validate reports whether the Config describes a legal environment
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("validate: timestep must be positive, got %v", c.Dt)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("validate: no model path given")
	}
	if c.MotorTorqueLimit <= 0 {
		return fmt.Errorf("validate: motor torque limit must be positive, "+
			"got %v", c.MotorTorqueLimit)
	}
	if c.LinearDamping < 0 || c.AngularDamping < 0 {
		return fmt.Errorf("validate: damping coefficients cannot be negative")
	}
	if c.Restitution < 0 {
		return fmt.Errorf("validate: restitution cannot be negative")
	}
	if c.LateralFriction < 0 {
		return fmt.Errorf("validate: lateral friction cannot be negative")
	}
	if c.StartPositionNoise < 0 {
		return fmt.Errorf("validate: start position noise cannot be negative")
	}
	return nil
}
