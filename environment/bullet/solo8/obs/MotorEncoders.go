package obs

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gosolo/environment/bullet"
)

// MotorEncoders observes the angular position and velocity of every
// actuated joint, positions first, then velocities, each in joint
// index order.
type MotorEncoders struct {
	body    *bullet.Body
	nJoints int
}

// NewMotorEncoders returns a MotorEncoders observing the nJoints
// actuators of body. The joint count is fixed at construction; a robot
// reload that changes the joint count is a contract violation reported
// by Observe.
func NewMotorEncoders(body *bullet.Body, nJoints int) *MotorEncoders {
	return &MotorEncoders{body: body, nJoints: nJoints}
}

func (m *MotorEncoders) Observe() ([]float64, error) {
	states, err := m.body.JointStates()
	if err != nil {
		return nil, fmt.Errorf("observe: could not read joint states: %v",
			err)
	}
	if len(states) != m.nJoints {
		return nil, fmt.Errorf("observe: invalid joint count \n\thave(%v) "+
			"\n\twant(%v)", len(states), m.nJoints)
	}

	values := make([]float64, 2*m.nJoints)
	for j, state := range states {
		values[j] = state.Position
		values[m.nJoints+j] = state.Velocity
	}
	return values, nil
}

func (m *MotorEncoders) Labels() []string {
	labels := make([]string, 2*m.nJoints)
	for j := 0; j < m.nJoints; j++ {
		labels[j] = fmt.Sprintf("joint_%v_position", j)
		labels[m.nJoints+j] = fmt.Sprintf("joint_%v_velocity", j)
	}
	return labels
}

func (m *MotorEncoders) LowerBound() []float64 {
	bounds := make([]float64, 2*m.nJoints)
	for j := 0; j < m.nJoints; j++ {
		bounds[j] = -2.0 * math.Pi
		bounds[m.nJoints+j] = math.Inf(-1)
	}
	return bounds
}

func (m *MotorEncoders) UpperBound() []float64 {
	bounds := make([]float64, 2*m.nJoints)
	for j := 0; j < m.nJoints; j++ {
		bounds[j] = 2.0 * math.Pi
		bounds[m.nJoints+j] = math.Inf(1)
	}
	return bounds
}
