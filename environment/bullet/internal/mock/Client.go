// Package mock provides a deterministic in-memory stand-in for a live
// physics server. It integrates crude joint and base dynamics (torque
// integrates to velocity, velocity to position, the base falls under
// gravity until it reaches the ground plane) so environment tests can
// exercise the full step/reset loop without an engine installed.
package mock

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/gosolo/environment/bullet"
)

type body struct {
	fixedBase bool
	pos       r3.Vec
	orn       bullet.Quaternion
	linVel    r3.Vec
	angVel    r3.Vec

	jointPos []float64
	jointVel []float64

	mode     bullet.ControlMode
	forces   []float64
	posGains []float64
	velGains []float64

	dynamics map[int]bullet.Dynamics
}

// Client implements bullet.Client with deterministic fake dynamics.
// Exported fields record the commands the client received so tests can
// assert on them.
type Client struct {
	// JointsPerModel is the joint count reported for every model
	// loaded with a free base. Fixed-base models report zero joints.
	JointsPerModel int

	// FailPaths lists model paths whose load should fail
	FailPaths map[string]bool

	Gravity      r3.Vec
	Dt           float64
	NumSubSteps  int
	SearchPath   string
	StepCount    int
	LoadCount    int
	Disconnected bool

	LastControlMode   bullet.ControlMode
	LastForces        []float64
	LastPositionGains []float64
	LastVelocityGains []float64

	nextID int
	bodies map[bullet.BodyID]*body
}

// NewClient returns a mock physics client whose free-base models all
// have jointsPerModel joints
func NewClient(jointsPerModel int) *Client {
	return &Client{
		JointsPerModel: jointsPerModel,
		Dt:             1e-3,
		bodies:         make(map[bullet.BodyID]*body),
	}
}

func (c *Client) SetAdditionalSearchPath(path string) error {
	c.SearchPath = path
	return nil
}

func (c *Client) SetGravity(gravity r3.Vec) error {
	c.Gravity = gravity
	return nil
}

func (c *Client) SetTimeStep(dt float64, numSubSteps int) error {
	if dt <= 0 {
		return fmt.Errorf("setTimeStep: timestep must be positive, got %v", dt)
	}
	c.Dt = dt
	c.NumSubSteps = numSubSteps
	return nil
}

func (c *Client) LoadModel(path string, position r3.Vec,
	orientation bullet.Quaternion, flags bullet.LoadFlag,
	useFixedBase bool) (bullet.BodyID, error) {
	if c.FailPaths[path] {
		return -1, fmt.Errorf("loadModel: could not load model '%v'", path)
	}

	nJoints := c.JointsPerModel
	if useFixedBase {
		nJoints = 0
	}

	id := bullet.BodyID(c.nextID)
	c.nextID++
	c.LoadCount++
	c.bodies[id] = &body{
		fixedBase: useFixedBase,
		pos:       position,
		orn:       orientation,
		jointPos:  make([]float64, nJoints),
		jointVel:  make([]float64, nJoints),
		forces:    make([]float64, nJoints),
		posGains:  make([]float64, nJoints),
		velGains:  make([]float64, nJoints),
		dynamics:  make(map[int]bullet.Dynamics),
	}
	return id, nil
}

func (c *Client) RemoveBody(id bullet.BodyID) error {
	if _, ok := c.bodies[id]; !ok {
		return fmt.Errorf("removeBody: no such body %v", id)
	}
	delete(c.bodies, id)
	return nil
}

func (c *Client) NumJoints(id bullet.BodyID) (int, error) {
	b, ok := c.bodies[id]
	if !ok {
		return 0, fmt.Errorf("numJoints: no such body %v", id)
	}
	return len(b.jointPos), nil
}

func (c *Client) SetJointMotorControls(id bullet.BodyID,
	mode bullet.ControlMode, forces, positionGains,
	velocityGains []float64) error {
	b, ok := c.bodies[id]
	if !ok {
		return fmt.Errorf("setJointMotorControls: no such body %v", id)
	}
	if len(forces) != len(b.jointPos) {
		return fmt.Errorf("setJointMotorControls: invalid force "+
			"dimensions \n\thave(%v) \n\twant(%v)", len(forces),
			len(b.jointPos))
	}

	b.mode = mode
	copy(b.forces, forces)
	copy(b.posGains, positionGains)
	copy(b.velGains, velocityGains)

	c.LastControlMode = mode
	c.LastForces = append([]float64(nil), forces...)
	c.LastPositionGains = append([]float64(nil), positionGains...)
	c.LastVelocityGains = append([]float64(nil), velocityGains...)
	return nil
}

func (c *Client) ChangeDynamics(id bullet.BodyID, joint int,
	dynamics bullet.Dynamics) error {
	b, ok := c.bodies[id]
	if !ok {
		return fmt.Errorf("changeDynamics: no such body %v", id)
	}
	b.dynamics[joint] = dynamics
	return nil
}

// StepSimulation advances the fake dynamics by one tick. Joints under
// torque control integrate commanded torque to velocity and velocity
// to position; free bases fall under gravity and stop at the ground
// plane (z = 0).
func (c *Client) StepSimulation() error {
	c.StepCount++
	for _, b := range c.bodies {
		if b.fixedBase {
			continue
		}

		if b.mode == bullet.TorqueControl {
			for j := range b.jointPos {
				b.jointVel[j] += b.forces[j] * c.Dt
				b.jointPos[j] += b.jointVel[j] * c.Dt
			}
		}

		b.linVel = b.linVel.Add(c.Gravity.Scale(c.Dt))
		b.pos = b.pos.Add(b.linVel.Scale(c.Dt))
		if b.pos.Z < 0 {
			b.pos.Z = 0
			b.linVel = r3.Vec{}
		}
	}
	return nil
}

func (c *Client) JointStates(id bullet.BodyID) ([]bullet.JointState, error) {
	b, ok := c.bodies[id]
	if !ok {
		return nil, fmt.Errorf("jointStates: no such body %v", id)
	}

	states := make([]bullet.JointState, len(b.jointPos))
	for j := range states {
		states[j] = bullet.JointState{
			Position:      b.jointPos[j],
			Velocity:      b.jointVel[j],
			AppliedTorque: b.forces[j],
		}
	}
	return states, nil
}

func (c *Client) BasePositionAndOrientation(id bullet.BodyID) (r3.Vec,
	bullet.Quaternion, error) {
	b, ok := c.bodies[id]
	if !ok {
		return r3.Vec{}, bullet.Quaternion{}, fmt.Errorf(
			"basePositionAndOrientation: no such body %v", id)
	}
	return b.pos, b.orn, nil
}

func (c *Client) BaseVelocity(id bullet.BodyID) (r3.Vec, r3.Vec, error) {
	b, ok := c.bodies[id]
	if !ok {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("baseVelocity: no such body %v",
			id)
	}
	return b.linVel, b.angVel, nil
}

func (c *Client) Disconnect() error {
	c.Disconnected = true
	return nil
}
