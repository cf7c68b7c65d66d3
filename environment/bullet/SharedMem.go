//go:build bullet

package bullet

// * Leaving the cgo directives in so VSCode doesn't complain, even though
// * CGO_CFLAGS and CGO_LDFLAGS have been set.

// #cgo CFLAGS: -O2 -I/home/samuel/bullet3/src -I/home/samuel/bullet3/examples/SharedMemory
// #cgo LDFLAGS: -L/home/samuel/bullet3/build_cmake/lib -lBulletRobotics -lBulletDynamics -lBulletCollision -lLinearMath -lBullet3Common -lstdc++ -lm
// #include "PhysicsClientC_API.h"
// #include "PhysicsDirectC_API.h"
// #include "SharedMemoryInProcessPhysicsC_API.h"
// #include <stdlib.h>
import "C"

import (
	"fmt"
	"os"
	"unsafe"

	"gonum.org/v1/gonum/spatial/r3"
)

// sharedMemClient implements Client over the Bullet physics server's
// shared memory command protocol. Direct connections run the server
// headless in-process; GUI connections additionally start the
// visualizer, which requires a display.
type sharedMemClient struct {
	handle C.b3PhysicsClientHandle
	mode   ConnectionMode
}

// Connect opens a connection to an in-process physics server and
// returns the Client for it
func Connect(mode ConnectionMode) (Client, error) {
	var handle C.b3PhysicsClientHandle

	switch mode {
	case Direct:
		handle = C.b3ConnectPhysicsDirect()

	case GUI:
		argv := C.CString(os.Args[0])
		defer C.free(unsafe.Pointer(argv))
		handle = C.b3CreateInProcessPhysicsServerAndConnect(1, &argv)

	default:
		return nil, fmt.Errorf("connect: no such connection mode %v", mode)
	}

	if handle == nil || C.b3CanSubmitCommand(handle) == 0 {
		return nil, fmt.Errorf("connect: could not start physics server "+
			"(mode %v)", mode)
	}

	return &sharedMemClient{handle: handle, mode: mode}, nil
}

// submit submits a command to the physics server and waits for its
// status
func (s *sharedMemClient) submit(
	cmd C.b3SharedMemoryCommandHandle) C.b3SharedMemoryStatusHandle {
	return C.b3SubmitClientCommandAndWaitStatus(s.handle, cmd)
}

func (s *sharedMemClient) SetAdditionalSearchPath(path string) error {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	cmd := C.b3SetAdditionalSearchPath(s.handle, cPath)
	s.submit(cmd)
	return nil
}

func (s *sharedMemClient) SetGravity(gravity r3.Vec) error {
	cmd := C.b3InitPhysicsParamCommand(s.handle)
	C.b3PhysicsParamSetGravity(cmd, C.double(gravity.X),
		C.double(gravity.Y), C.double(gravity.Z))
	s.submit(cmd)
	return nil
}

func (s *sharedMemClient) SetTimeStep(dt float64, numSubSteps int) error {
	if dt <= 0 {
		return fmt.Errorf("setTimeStep: timestep must be positive, got %v", dt)
	}

	cmd := C.b3InitPhysicsParamCommand(s.handle)
	C.b3PhysicsParamSetTimeStep(cmd, C.double(dt))
	C.b3PhysicsParamSetNumSubSteps(cmd, C.int(numSubSteps))
	s.submit(cmd)
	return nil
}

func (s *sharedMemClient) LoadModel(path string, position r3.Vec,
	orientation Quaternion, flags LoadFlag,
	useFixedBase bool) (BodyID, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	cmd := C.b3LoadUrdfCommandInit(s.handle, cPath)
	C.b3LoadUrdfCommandSetStartPosition(cmd, C.double(position.X),
		C.double(position.Y), C.double(position.Z))
	C.b3LoadUrdfCommandSetStartOrientation(cmd, C.double(orientation.X),
		C.double(orientation.Y), C.double(orientation.Z),
		C.double(orientation.W))
	if flags&UseInertiaFromFile != 0 {
		C.b3LoadUrdfCommandSetFlags(cmd, C.URDF_USE_INERTIA_FROM_FILE)
	}
	if useFixedBase {
		C.b3LoadUrdfCommandSetUseFixedBase(cmd, 1)
	}

	status := s.submit(cmd)
	if C.b3GetStatusType(status) != C.CMD_URDF_LOADING_COMPLETED {
		return -1, fmt.Errorf("loadModel: could not load model '%v'", path)
	}

	return BodyID(C.b3GetStatusBodyIndex(status)), nil
}

func (s *sharedMemClient) RemoveBody(body BodyID) error {
	cmd := C.b3InitRemoveBodyCommand(s.handle, C.int(body))
	status := s.submit(cmd)
	if C.b3GetStatusType(status) != C.CMD_REMOVE_BODY_COMPLETED {
		return fmt.Errorf("removeBody: could not remove body %v", body)
	}
	return nil
}

func (s *sharedMemClient) NumJoints(body BodyID) (int, error) {
	n := int(C.b3GetNumJoints(s.handle, C.int(body)))
	if n < 0 {
		return 0, fmt.Errorf("numJoints: no such body %v", body)
	}
	return n, nil
}

func (s *sharedMemClient) SetJointMotorControls(body BodyID,
	mode ControlMode, forces, positionGains, velocityGains []float64) error {
	nJoints, err := s.NumJoints(body)
	if err != nil {
		return fmt.Errorf("setJointMotorControls: %v", err)
	}
	if len(forces) != nJoints {
		return fmt.Errorf("setJointMotorControls: invalid force "+
			"dimensions \n\thave(%v) \n\twant(%v)", len(forces), nJoints)
	}
	if len(positionGains) != nJoints || len(velocityGains) != nJoints {
		return fmt.Errorf("setJointMotorControls: gains must have one "+
			"entry per joint (%v)", nJoints)
	}

	var cMode C.int
	switch mode {
	case VelocityControl:
		cMode = C.CONTROL_MODE_VELOCITY
	case TorqueControl:
		cMode = C.CONTROL_MODE_TORQUE
	case PositionControl:
		cMode = C.CONTROL_MODE_POSITION_VELOCITY_PD
	default:
		return fmt.Errorf("setJointMotorControls: no such control mode %v",
			mode)
	}

	cmd := C.b3JointControlCommandInit2(s.handle, C.int(body), cMode)
	for j := 0; j < nJoints; j++ {
		var info C.struct_b3JointInfo
		C.b3GetJointInfo(s.handle, C.int(body), C.int(j), &info)

		switch mode {
		case TorqueControl:
			C.b3JointControlSetDesiredForceTorque(cmd, info.m_uIndex,
				C.double(forces[j]))
			C.b3JointControlSetKp(cmd, info.m_qIndex,
				C.double(positionGains[j]))
			C.b3JointControlSetKd(cmd, info.m_uIndex,
				C.double(velocityGains[j]))

		case VelocityControl:
			// Zero target velocity with a force bound: the engine's
			// default damping motor
			C.b3JointControlSetDesiredVelocity(cmd, info.m_uIndex, 0)
			C.b3JointControlSetMaximumForce(cmd, info.m_uIndex,
				C.double(forces[j]))
			C.b3JointControlSetKd(cmd, info.m_uIndex,
				C.double(velocityGains[j]))

		case PositionControl:
			C.b3JointControlSetMaximumForce(cmd, info.m_uIndex,
				C.double(forces[j]))
			C.b3JointControlSetKp(cmd, info.m_qIndex,
				C.double(positionGains[j]))
			C.b3JointControlSetKd(cmd, info.m_uIndex,
				C.double(velocityGains[j]))
		}
	}
	s.submit(cmd)
	return nil
}

func (s *sharedMemClient) ChangeDynamics(body BodyID, joint int,
	dynamics Dynamics) error {
	cmd := C.b3InitChangeDynamicsInfo(s.handle)
	C.b3ChangeDynamicsInfoSetLinearDamping(cmd, C.int(body),
		C.double(dynamics.LinearDamping))
	C.b3ChangeDynamicsInfoSetAngularDamping(cmd, C.int(body),
		C.double(dynamics.AngularDamping))
	C.b3ChangeDynamicsInfoSetRestitution(cmd, C.int(body), C.int(joint),
		C.double(dynamics.Restitution))
	C.b3ChangeDynamicsInfoSetLateralFriction(cmd, C.int(body), C.int(joint),
		C.double(dynamics.LateralFriction))
	s.submit(cmd)
	return nil
}

func (s *sharedMemClient) StepSimulation() error {
	cmd := C.b3InitStepSimulationCommand(s.handle)
	status := s.submit(cmd)
	if C.b3GetStatusType(status) != C.CMD_STEP_FORWARD_SIMULATION_COMPLETED {
		return fmt.Errorf("stepSimulation: simulation step failed")
	}
	return nil
}

func (s *sharedMemClient) JointStates(body BodyID) ([]JointState, error) {
	nJoints, err := s.NumJoints(body)
	if err != nil {
		return nil, fmt.Errorf("jointStates: %v", err)
	}

	cmd := C.b3RequestActualStateCommandInit(s.handle, C.int(body))
	status := s.submit(cmd)
	if C.b3GetStatusType(status) != C.CMD_ACTUAL_STATE_UPDATE_COMPLETED {
		return nil, fmt.Errorf("jointStates: could not read state of body %v",
			body)
	}

	states := make([]JointState, nJoints)
	for j := 0; j < nJoints; j++ {
		var sensor C.struct_b3JointSensorState
		if C.b3GetJointState(s.handle, status, C.int(j), &sensor) == 0 {
			return nil, fmt.Errorf("jointStates: could not read joint %v "+
				"of body %v", j, body)
		}
		states[j] = JointState{
			Position:      float64(sensor.m_jointPosition),
			Velocity:      float64(sensor.m_jointVelocity),
			AppliedTorque: float64(sensor.m_jointMotorTorque),
		}
	}
	return states, nil
}

func (s *sharedMemClient) BasePositionAndOrientation(body BodyID) (r3.Vec,
	Quaternion, error) {
	q, _, err := s.actualBaseState(body)
	if err != nil {
		return r3.Vec{}, Quaternion{}, fmt.Errorf(
			"basePositionAndOrientation: %v", err)
	}

	pos := r3.Vec{X: q[0], Y: q[1], Z: q[2]}
	orn := Quaternion{X: q[3], Y: q[4], Z: q[5], W: q[6]}
	return pos, orn, nil
}

func (s *sharedMemClient) BaseVelocity(body BodyID) (r3.Vec, r3.Vec, error) {
	_, qdot, err := s.actualBaseState(body)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("baseVelocity: %v", err)
	}

	linear := r3.Vec{X: qdot[0], Y: qdot[1], Z: qdot[2]}
	angular := r3.Vec{X: qdot[3], Y: qdot[4], Z: qdot[5]}
	return linear, angular, nil
}

// actualBaseState requests the actual state of a body and copies out
// the 7 base pose coordinates (position + quaternion) and the 6 base
// velocity coordinates
func (s *sharedMemClient) actualBaseState(body BodyID) ([7]float64,
	[6]float64, error) {
	var q [7]float64
	var qdot [6]float64

	cmd := C.b3RequestActualStateCommandInit(s.handle, C.int(body))
	status := s.submit(cmd)
	if C.b3GetStatusType(status) != C.CMD_ACTUAL_STATE_UPDATE_COMPLETED {
		return q, qdot, fmt.Errorf("could not read state of body %v", body)
	}

	var bodyID, numQ, numU C.int
	var actualQ, actualQdot *C.double
	C.b3GetStatusActualState(status, &bodyID, &numQ, &numU, nil, &actualQ,
		&actualQdot, nil)
	if int(numQ) < 7 || int(numU) < 6 {
		return q, qdot, fmt.Errorf("body %v has no free-floating base", body)
	}

	qSlice := F64SliceC2Go(actualQ, 7)
	qdotSlice := F64SliceC2Go(actualQdot, 6)
	copy(q[:], qSlice)
	copy(qdot[:], qdotSlice)
	return q, qdot, nil
}

func (s *sharedMemClient) Disconnect() error {
	C.b3DisconnectSharedMemory(s.handle)
	return nil
}

// F64SliceC2Go converts a copy of a C double array to a Go []float64
//
// See https://github.com/golang/go/wiki/cgo#turning-c-arrays-into-go-slices
func F64SliceC2Go(array *C.double, len int) []float64 {
	list := (*[1 << 30]float64)(unsafe.Pointer(array))[:len:len]

	newList := make([]float64, len)
	copy(newList, list)

	return newList
}
