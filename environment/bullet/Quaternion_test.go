package bullet_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/gosolo/environment/bullet"
)

const tolerance float64 = 1e-9

func TestIdentityQuaternion(t *testing.T) {
	euler := bullet.IdentityQuaternion().Euler()
	if euler != (r3.Vec{}) {
		t.Errorf("identity quaternion should have zero Euler angles, "+
			"got %v", euler)
	}
}

func TestEulerRoundTrip(t *testing.T) {
	angles := []r3.Vec{
		{X: 0.3},
		{Y: -0.7},
		{Z: 1.2},
		{X: 0.1, Y: 0.2, Z: 0.3},
		{X: -1.0, Y: 0.5, Z: -2.0},
	}

	for _, want := range angles {
		have := bullet.QuaternionFromEuler(want).Euler()

		if math.Abs(have.X-want.X) > tolerance ||
			math.Abs(have.Y-want.Y) > tolerance ||
			math.Abs(have.Z-want.Z) > tolerance {
			t.Errorf("round trip changed angles \n\thave(%v) \n\twant(%v)",
				have, want)
		}
	}
}

func TestQuaternionIsNormalized(t *testing.T) {
	q := bullet.QuaternionFromEuler(r3.Vec{X: 0.4, Y: -0.9, Z: 2.1})

	norm := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if math.Abs(norm-1.0) > tolerance {
		t.Errorf("quaternion should be unit length, has norm %v", norm)
	}
}
