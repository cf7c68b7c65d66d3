package bullet

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Body couples a Client with the ID of one loaded model instance. An
// environment that destroys and reloads its robot on every reset keeps
// a single Body and relabels it with the fresh instance ID, so policies
// holding the Body keep reading the current robot without rebinding.
type Body struct {
	client Client
	id     BodyID
}

// NewBody returns a Body for the instance id loaded into client
func NewBody(client Client, id BodyID) *Body {
	return &Body{client: client, id: id}
}

// ID returns the current instance ID of the body
func (b *Body) ID() BodyID {
	return b.id
}

// Relabel points the Body at a freshly loaded instance
func (b *Body) Relabel(id BodyID) {
	b.id = id
}

// NumJoints reports the joint count of the body
func (b *Body) NumJoints() (int, error) {
	return b.client.NumJoints(b.id)
}

// JointStates reads back the state of every joint of the body
func (b *Body) JointStates() ([]JointState, error) {
	return b.client.JointStates(b.id)
}

// PositionAndOrientation reads back the world pose of the body's base
func (b *Body) PositionAndOrientation() (r3.Vec, Quaternion, error) {
	return b.client.BasePositionAndOrientation(b.id)
}

// Velocity reads back the linear and angular velocity of the body's
// base
func (b *Body) Velocity() (linear, angular r3.Vec, err error) {
	return b.client.BaseVelocity(b.id)
}
