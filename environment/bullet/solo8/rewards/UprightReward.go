package rewards

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gosolo/environment/bullet"
)

// UprightReward rewards the robot for keeping its torso level. The
// reward is 1 when the torso has zero roll and pitch and decreases
// linearly to -1 as the torso tips upside down.
type UprightReward struct {
	body *bullet.Body
}

// NewUpright returns an UprightReward reading the torso orientation of
// body
func NewUpright(body *bullet.Body) *UprightReward {
	return &UprightReward{body: body}
}

func (u *UprightReward) Compute() (float64, error) {
	_, orn, err := u.body.PositionAndOrientation()
	if err != nil {
		return 0, fmt.Errorf("compute: could not read torso pose: %v", err)
	}

	euler := orn.Euler()
	tilt := (math.Abs(euler.X) + math.Abs(euler.Y)) / math.Pi
	return 1.0 - 2.0*tilt, nil
}
