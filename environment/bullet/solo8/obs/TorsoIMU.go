package obs

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gosolo/environment/bullet"
)

// TorsoIMU observes the robot torso the way an onboard IMU would: the
// base orientation as roll-pitch-yaw Euler angles, followed by the
// angular and linear world velocities of the base.
type TorsoIMU struct {
	body *bullet.Body
}

// NewTorsoIMU returns a TorsoIMU observing the base of body
func NewTorsoIMU(body *bullet.Body) *TorsoIMU {
	return &TorsoIMU{body: body}
}

func (t *TorsoIMU) Observe() ([]float64, error) {
	_, orn, err := t.body.PositionAndOrientation()
	if err != nil {
		return nil, fmt.Errorf("observe: could not read torso pose: %v", err)
	}
	linear, angular, err := t.body.Velocity()
	if err != nil {
		return nil, fmt.Errorf("observe: could not read torso velocity: %v",
			err)
	}

	euler := orn.Euler()
	return []float64{
		euler.X, euler.Y, euler.Z,
		angular.X, angular.Y, angular.Z,
		linear.X, linear.Y, linear.Z,
	}, nil
}

func (t *TorsoIMU) Labels() []string {
	return []string{
		"torso_roll", "torso_pitch", "torso_yaw",
		"torso_wx", "torso_wy", "torso_wz",
		"torso_vx", "torso_vy", "torso_vz",
	}
}

func (t *TorsoIMU) LowerBound() []float64 {
	inf := math.Inf(-1)
	return []float64{
		-math.Pi, -math.Pi / 2.0, -math.Pi,
		inf, inf, inf,
		inf, inf, inf,
	}
}

func (t *TorsoIMU) UpperBound() []float64 {
	inf := math.Inf(1)
	return []float64{
		math.Pi, math.Pi / 2.0, math.Pi,
		inf, inf, inf,
		inf, inf, inf,
	}
}
