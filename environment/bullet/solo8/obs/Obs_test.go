package obs_test

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/gosolo/environment/bullet"
	"github.com/samuelfneumann/gosolo/environment/bullet/internal/mock"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8/obs"
)

func newMockBody(t *testing.T, nJoints int) *bullet.Body {
	t.Helper()

	client := mock.NewClient(nJoints)
	id, err := client.LoadModel("robot.urdf", r3.Vec{Z: 0.35},
		bullet.IdentityQuaternion(), 0, false)
	if err != nil {
		t.Fatalf("could not load model: %v", err)
	}
	return bullet.NewBody(client, id)
}

func TestEmptyFactory(t *testing.T) {
	factory := obs.NewFactory()

	vec, labels, err := factory.GetObs()
	if err != nil {
		t.Fatalf("empty factory should not fail: %v", err)
	}
	if vec.Len() != 0 {
		t.Errorf("empty factory should give an empty observation, got %v "+
			"values", vec.Len())
	}
	if len(labels) != 0 {
		t.Errorf("empty factory should give no labels, got %v", labels)
	}

	if _, err := factory.ObservationSpec(); err == nil {
		t.Error("an empty factory has no meaningful observation spec")
	}
}

func TestFactoryConcatenatesInOrder(t *testing.T) {
	const nJoints = 8
	body := newMockBody(t, nJoints)

	factory := obs.NewFactory()
	factory.Register(obs.NewTorsoIMU(body))
	factory.Register(obs.NewMotorEncoders(body, nJoints))

	vec, labels, err := factory.GetObs()
	if err != nil {
		t.Fatalf("could not observe: %v", err)
	}

	want := 9 + 2*nJoints
	if vec.Len() != want {
		t.Errorf("wrong observation size \n\thave(%v) \n\twant(%v)",
			vec.Len(), want)
	}
	if len(labels) != want {
		t.Errorf("wrong label count \n\thave(%v) \n\twant(%v)",
			len(labels), want)
	}

	// Registration order fixes the layout
	if labels[0] != "torso_roll" {
		t.Errorf("first label should be torso_roll, got %v", labels[0])
	}
	if labels[9] != "joint_0_position" {
		t.Errorf("label 9 should be joint_0_position, got %v", labels[9])
	}

	spec, err := factory.ObservationSpec()
	if err != nil {
		t.Fatalf("could not get observation spec: %v", err)
	}
	if spec.Shape.Len() != want {
		t.Errorf("wrong spec size \n\thave(%v) \n\twant(%v)",
			spec.Shape.Len(), want)
	}
}

func TestMotorEncodersJointCountMismatch(t *testing.T) {
	body := newMockBody(t, 8)

	// Declared joint count disagrees with the model
	encoders := obs.NewMotorEncoders(body, 4)
	if _, err := encoders.Observe(); err == nil {
		t.Error("observing with a wrong joint count should fail")
	}
}

func TestTorsoIMUAtRest(t *testing.T) {
	body := newMockBody(t, 8)

	imu := obs.NewTorsoIMU(body)
	values, err := imu.Observe()
	if err != nil {
		t.Fatalf("could not observe: %v", err)
	}

	// Identity orientation and zero velocity at rest
	for i, v := range values {
		if v != 0 {
			t.Errorf("%v should be 0 at rest, got %v", imu.Labels()[i], v)
		}
	}
}
