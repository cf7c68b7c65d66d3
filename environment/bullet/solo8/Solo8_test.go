package solo8_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gosolo/environment/bullet"
	"github.com/samuelfneumann/gosolo/environment/bullet/internal/mock"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8/obs"
	"github.com/samuelfneumann/gosolo/environment/bullet/solo8/termination"
)

const nJoints int = 8

func newMockEnv(t *testing.T, seed uint64) (*solo8.Solo8, *mock.Client) {
	t.Helper()

	client := mock.NewClient(nJoints)
	env, err := solo8.NewWithClient(client, false, solo8.NewConfig(), seed)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	return env, client
}

func TestNewWithClient(t *testing.T) {
	env, client := newMockEnv(t, 123)

	if env.NumActuators() != nJoints {
		t.Errorf("wrong actuator count \n\thave(%v) \n\twant(%v)",
			env.NumActuators(), nJoints)
	}
	if client.SearchPath != solo8.DefaultSearchPath {
		t.Errorf("search path not forwarded: %v", client.SearchPath)
	}

	// The construction-time settle pass runs unconditionally
	if client.StepCount < 1000 {
		t.Errorf("settle pass too short: %v steps", client.StepCount)
	}

	// Before any observation is registered, the first timestep carries
	// an empty observation and empty labels
	first := env.CurrentTimeStep()
	if !first.First() {
		t.Error("first timestep should have step type First")
	}
	if first.Observation.Len() != 0 {
		t.Errorf("initial observation should be empty, has %v values",
			first.Observation.Len())
	}
	if labels := first.Info.Labels(); len(labels) != 0 {
		t.Errorf("initial labels should be empty, have %v", labels)
	}
}

func TestActionSpec(t *testing.T) {
	env, _ := newMockEnv(t, 123)

	spec := env.ActionSpec()
	if spec.Shape.Len() != nJoints {
		t.Errorf("wrong action dimensions \n\thave(%v) \n\twant(%v)",
			spec.Shape.Len(), nJoints)
	}
	for j := 0; j < nJoints; j++ {
		if spec.LowerBound.AtVec(j) != -solo8.DefaultMotorTorqueLimit ||
			spec.UpperBound.AtVec(j) != solo8.DefaultMotorTorqueLimit {
			t.Errorf("joint %v: wrong torque bounds [%v, %v]", j,
				spec.LowerBound.AtVec(j), spec.UpperBound.AtVec(j))
		}
	}
}

func TestStepCommandsTorques(t *testing.T) {
	env, client := newMockEnv(t, 123)
	env.Obs.Register(obs.NewMotorEncoders(env.RobotBody(), nJoints))

	action := make([]float64, nJoints)
	for j := range action {
		action[j] = 0.5 * float64(j%3)
	}

	step, done, err := env.Step(mat.NewVecDense(nJoints, action))
	if err != nil {
		t.Fatalf("could not step: %v", err)
	}
	if done {
		t.Error("episode should not end with no termination registered")
	}

	if client.LastControlMode != bullet.TorqueControl {
		t.Errorf("wrong control mode: %v", client.LastControlMode)
	}
	for j := range action {
		if client.LastForces[j] != action[j] {
			t.Errorf("joint %v: commanded torque %v, want %v", j,
				client.LastForces[j], action[j])
		}
		if client.LastPositionGains[j] != 0 || client.LastVelocityGains[j] != 0 {
			t.Errorf("joint %v: controller gains should be zero", j)
		}
	}

	// Step reads state after simulation, and labels must agree with the
	// observation in length
	if step.Observation.Len() != 2*nJoints {
		t.Errorf("wrong observation size \n\thave(%v) \n\twant(%v)",
			step.Observation.Len(), 2*nJoints)
	}
	if labels := step.Info.Labels(); len(labels) != step.Observation.Len() {
		t.Errorf("labels and observation disagree: %v labels for %v values",
			len(labels), step.Observation.Len())
	}
	if step.Number != 1 {
		t.Errorf("wrong timestep number: %v", step.Number)
	}
}

func TestStepInvalidActionDimensions(t *testing.T) {
	env, _ := newMockEnv(t, 123)

	_, done, err := env.Step(mat.NewVecDense(nJoints+1, nil))
	if err == nil {
		t.Error("stepping with a malformed action should fail")
	}
	if !done {
		t.Error("a malformed action should end the episode")
	}
}

func TestResetReloadsAndSettles(t *testing.T) {
	env, client := newMockEnv(t, 123)
	env.Obs.Register(obs.NewTorsoIMU(env.RobotBody()))
	env.Obs.Register(obs.NewMotorEncoders(env.RobotBody(), nJoints))

	loadsBefore := client.LoadCount
	stepsBefore := client.StepCount

	step, err := env.Reset()
	if err != nil {
		t.Fatalf("could not reset: %v", err)
	}

	if client.LoadCount != loadsBefore+1 {
		t.Errorf("reset should reload the robot exactly once, loaded %v times",
			client.LoadCount-loadsBefore)
	}
	if settled := client.StepCount - stepsBefore; settled < 1000 {
		t.Errorf("settle pass too short: %v steps", settled)
	}

	if !step.First() {
		t.Error("reset should return a First timestep")
	}
	if step.Number != 0 {
		t.Errorf("reset timestep number should be 0, got %v", step.Number)
	}
	if step.Observation.Len() != 9+2*nJoints {
		t.Errorf("wrong observation size \n\thave(%v) \n\twant(%v)",
			step.Observation.Len(), 9+2*nJoints)
	}
}

func TestResetDeterministicStartPose(t *testing.T) {
	config := solo8.NewConfig()
	config.StartPositionNoise = 0.05

	var seed uint64 = 456
	envs := make([]*solo8.Solo8, 2)
	for i := range envs {
		env, err := solo8.NewWithClient(mock.NewClient(nJoints), false,
			config, seed)
		if err != nil {
			t.Fatalf("could not create environment: %v", err)
		}
		if _, err := env.Reset(); err != nil {
			t.Fatalf("could not reset: %v", err)
		}
		envs[i] = env
	}

	pos0, _, err := envs[0].RobotBody().PositionAndOrientation()
	if err != nil {
		t.Fatal(err)
	}
	pos1, _, err := envs[1].RobotBody().PositionAndOrientation()
	if err != nil {
		t.Fatal(err)
	}

	if pos0 != pos1 {
		t.Errorf("equal seeds should give equal start poses: %v != %v",
			pos0, pos1)
	}
}

func TestTimeBasedEpisodeEnds(t *testing.T) {
	env, _ := newMockEnv(t, 123)
	env.Obs.Register(obs.NewMotorEncoders(env.RobotBody(), nJoints))
	env.Terminations.Register(termination.NewTimeBased(3))

	action := mat.NewVecDense(nJoints, nil)
	for i := 0; i < 2; i++ {
		step, done, err := env.Step(action)
		if err != nil {
			t.Fatalf("could not step: %v", err)
		}
		if done || step.Last() {
			t.Errorf("episode ended early at step %v", i+1)
		}
	}

	step, done, err := env.Step(action)
	if err != nil {
		t.Fatalf("could not step: %v", err)
	}
	if !done || !step.Last() {
		t.Error("episode should end on the third step")
	}

	// Reset restarts the counter
	if _, err := env.Reset(); err != nil {
		t.Fatalf("could not reset: %v", err)
	}
	step, done, err = env.Step(action)
	if err != nil {
		t.Fatalf("could not step: %v", err)
	}
	if done || step.Last() {
		t.Error("episode should not end on the first step after a reset")
	}
}

func TestObservationSpecStableAcrossReset(t *testing.T) {
	env, _ := newMockEnv(t, 123)
	env.Obs.Register(obs.NewTorsoIMU(env.RobotBody()))

	before := env.ObservationSpec()
	if _, err := env.Reset(); err != nil {
		t.Fatalf("could not reset: %v", err)
	}
	after := env.ObservationSpec()

	if before.Shape.Len() != after.Shape.Len() {
		t.Errorf("observation size changed across reset \n\thave(%v) "+
			"\n\twant(%v)", after.Shape.Len(), before.Shape.Len())
	}
	for i := 0; i < before.Shape.Len(); i++ {
		if before.LowerBound.AtVec(i) != after.LowerBound.AtVec(i) ||
			before.UpperBound.AtVec(i) != after.UpperBound.AtVec(i) {
			t.Errorf("observation bounds changed across reset at index %v", i)
		}
	}
}

func TestClose(t *testing.T) {
	env, client := newMockEnv(t, 123)

	if err := env.Close(); err != nil {
		t.Fatalf("could not close: %v", err)
	}
	if !client.Disconnected {
		t.Error("close should disconnect the client")
	}
}
