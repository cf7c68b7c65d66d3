package rewards

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gosolo/environment/bullet"

	"github.com/samuelfneumann/gosolo/utils/floatutils"
)

// TorsoHeightReward rewards the robot for holding its torso near a
// target height above the ground plane. The reward is 1 at the target
// height and falls off linearly to 0 at a full target-height's
// distance away.
type TorsoHeightReward struct {
	body   *bullet.Body
	target float64
}

// NewTorsoHeight returns a TorsoHeightReward with the given target
// height in metres. The target must be positive.
func NewTorsoHeight(body *bullet.Body, target float64) (*TorsoHeightReward,
	error) {
	if target <= 0 {
		return nil, fmt.Errorf("newTorsoHeight: target height must be "+
			"positive, got %v", target)
	}
	return &TorsoHeightReward{body: body, target: target}, nil
}

func (t *TorsoHeightReward) Compute() (float64, error) {
	pos, _, err := t.body.PositionAndOrientation()
	if err != nil {
		return 0, fmt.Errorf("compute: could not read torso pose: %v", err)
	}

	miss := math.Abs(pos.Z-t.target) / t.target
	return floatutils.Clip(1.0-miss, 0.0, 1.0), nil
}
