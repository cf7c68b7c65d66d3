package bullet

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Quaternion is a unit quaternion in (x, y, z, w) order, the order the
// physics server uses on the wire
type Quaternion struct {
	X, Y, Z, W float64
}

// IdentityQuaternion returns the identity rotation
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1.0}
}

// QuaternionFromEuler converts roll-pitch-yaw Euler angles (radians,
// applied about the fixed X, Y, then Z axes) to a quaternion
func QuaternionFromEuler(euler r3.Vec) Quaternion {
	cr := math.Cos(euler.X * 0.5)
	sr := math.Sin(euler.X * 0.5)
	cp := math.Cos(euler.Y * 0.5)
	sp := math.Sin(euler.Y * 0.5)
	cy := math.Cos(euler.Z * 0.5)
	sy := math.Sin(euler.Z * 0.5)

	return Quaternion{
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
		W: cr*cp*cy + sr*sp*sy,
	}
}

// Euler converts the quaternion back to roll-pitch-yaw Euler angles.
// The pitch is clamped to ±π/2 at the gimbal-lock singularity.
func (q Quaternion) Euler() r3.Vec {
	sinr := 2.0 * (q.W*q.X + q.Y*q.Z)
	cosr := 1.0 - 2.0*(q.X*q.X+q.Y*q.Y)
	roll := math.Atan2(sinr, cosr)

	sinp := 2.0 * (q.W*q.Y - q.Z*q.X)
	var pitch float64
	if math.Abs(sinp) >= 1.0 {
		pitch = math.Copysign(math.Pi/2.0, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	siny := 2.0 * (q.W*q.Z + q.X*q.Y)
	cosy := 1.0 - 2.0*(q.Y*q.Y+q.Z*q.Z)
	yaw := math.Atan2(siny, cosy)

	return r3.Vec{X: roll, Y: pitch, Z: yaw}
}
