// Package planarsolo provides a sagittal-plane rendition of the solo8
// quadruped built directly on an in-process 2D rigid-body engine. The
// robot is reduced to a torso and two hip-knee legs (front and rear
// leg pairs collapse into one leg each), torque-controlled exactly
// like the full environment. Because the engine runs in-process and is
// deterministic, this environment needs no external physics server and
// carries the deterministic tests of the step/reset semantics.
package planarsolo

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/gosolo/environment"
	ts "github.com/samuelfneumann/gosolo/timestep"
	"github.com/samuelfneumann/gosolo/utils/floatutils"
)

// Physical constants
const (
	Gravity float64 = -9.81
	Dt      float64 = 1.0 / 240.0

	VelocityIterations int = 6
	PositionIterations int = 2

	TorsoHalfWidth  float64 = 0.20
	TorsoHalfHeight float64 = 0.05
	TorsoDensity    float64 = 2.5

	LegHalfWidth      float64 = 0.015
	SegmentHalfLength float64 = 0.08
	LegDensity        float64 = 1.0

	GroundFriction float64 = 0.9
	FootFriction   float64 = 0.9

	HipLimit  float64 = 1.5
	KneeLimit float64 = 1.5

	// Action
	NumActuators int     = 4
	TorqueLimit  float64 = 2.0

	// State observations
	StateObservations int     = 13
	MinTorsoHeight    float64 = 0.03
	FallAngle         float64 = math.Pi / 2.0

	// Default starting values
	StartHeight      float64 = 0.32
	StartHeightRange float64 = 0.02
	StartPitchRange  float64 = 0.05

	// Rendering
	ViewportW float64 = 640
	ViewportH float64 = 360
	Scale     float64 = 400
)

// settleSteps is the number of zero-torque simulation steps run after
// every rebuild so gravity brings the robot to a repeatable resting
// pose before control begins. The count is fixed, not adaptive.
const settleSteps int = 1000

var obsLabels []string = []string{
	"torso_height", "torso_pitch", "torso_vx", "torso_vz", "torso_w",
	"front_hip_angle", "front_knee_angle",
	"rear_hip_angle", "rear_knee_angle",
	"front_hip_velocity", "front_knee_velocity",
	"rear_hip_velocity", "rear_knee_velocity",
}

// WorldToPixelCoord converts world coordinates (metres, y up, origin
// under the robot) to image coordinates
func WorldToPixelCoord(coords [2]float64) [2]float64 {
	pixelX := ViewportW/2.0 + Scale*coords[0]
	pixelY := ViewportH - Scale*coords[1]

	return [2]float64{pixelX, pixelY}
}

// PlanarSolo implements environment.Environment for the planar
// quadruped. Actions are the four joint torques in N•m, ordered
// [front hip, front knee, rear hip, rear knee], clipped to
// ±TorqueLimit.
type PlanarSolo struct {
	world box2d.B2World

	ground *box2d.B2Body
	torso  *box2d.B2Body
	legs   []*box2d.B2Body // upper front, lower front, upper rear, lower rear
	joints []*box2d.B2RevoluteJoint

	starter  environment.UniformStarter
	maxSteps int
	steps    int

	actionBounds r1.Interval
	currentStep  ts.TimeStep

	torsoShade  color.Color
	legShade    color.Color
	groundShade color.Color
	skyShade    color.Color
}

// New returns a new PlanarSolo environment along with the first
// TimeStep of its first episode. Episodes are cut off after maxSteps
// steps; the robot falling over ends them early. The seed drives the
// start-pose jitter.
func New(maxSteps int, seed uint64) (*PlanarSolo, ts.TimeStep, error) {
	if maxSteps <= 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("newPlanarSolo: maxSteps "+
			"must be positive, got %v", maxSteps)
	}

	p := &PlanarSolo{
		world:    box2d.MakeB2World(box2d.MakeB2Vec2(0.0, Gravity)),
		maxSteps: maxSteps,
		starter: environment.NewUniformStarter([]r1.Interval{
			{Min: StartHeight, Max: StartHeight + StartHeightRange},
			{Min: -StartPitchRange, Max: StartPitchRange},
		}, seed),
		actionBounds: r1.Interval{Min: -TorqueLimit, Max: TorqueLimit},
		torsoShade:   color.RGBA{R: 128, G: 102, B: 230, A: 255},
		legShade:     color.RGBA{R: 77, G: 77, B: 128, A: 255},
		groundShade:  color.RGBA{R: 255, G: 166, B: 0, A: 255},
		skyShade:     color.RGBA{R: 30, G: 30, B: 30, A: 255},
	}

	step, err := p.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newPlanarSolo: %v", err)
	}

	return p, step, nil
}

func (p *PlanarSolo) destroy() {
	if p.torso == nil {
		return
	}

	for _, leg := range p.legs {
		p.world.DestroyBody(leg)
	}
	p.legs = nil
	p.joints = nil

	p.world.DestroyBody(p.torso)
	p.torso = nil

	p.world.DestroyBody(p.ground)
	p.ground = nil
}

// Reset tears the robot down, rebuilds it at a freshly sampled start
// pose, and runs the settle pass before returning the first TimeStep
// of the new episode
func (p *PlanarSolo) Reset() (ts.TimeStep, error) {
	p.destroy()
	p.steps = 0

	start := p.starter.Start()
	startHeight := start.AtVec(0)
	startPitch := start.AtVec(1)

	// Ground
	groundDef := box2d.NewB2BodyDef()
	groundDef.Type = 0 // Static body
	p.ground = p.world.CreateBody(groundDef)
	groundShape := box2d.NewB2EdgeShape()
	groundShape.Set(box2d.MakeB2Vec2(-50.0, 0.0), box2d.MakeB2Vec2(50.0, 0.0))
	groundFix := box2d.MakeB2FixtureDef()
	groundFix.Shape = groundShape
	groundFix.Friction = GroundFriction
	p.ground.CreateFixtureFromDef(&groundFix)

	// Robot parts never collide with each other
	filter := box2d.MakeB2Filter()
	filter.GroupIndex = -1

	// Torso
	torsoDef := box2d.MakeB2BodyDef()
	torsoDef.Type = 2 // Dynamic body
	torsoDef.Position = box2d.MakeB2Vec2(0.0, startHeight)
	torsoDef.Angle = startPitch
	p.torso = p.world.CreateBody(&torsoDef)

	torsoShape := box2d.NewB2PolygonShape()
	torsoShape.SetAsBox(TorsoHalfWidth, TorsoHalfHeight)
	torsoFix := box2d.MakeB2FixtureDef()
	torsoFix.Shape = torsoShape
	torsoFix.Density = TorsoDensity
	torsoFix.Friction = 0.2
	torsoFix.Filter = filter
	p.torso.CreateFixtureFromDef(&torsoFix)

	// Legs: one hip-knee pair at each end of the torso
	p.legs = make([]*box2d.B2Body, 0, 4)
	p.joints = make([]*box2d.B2RevoluteJoint, 0, 4)
	for _, side := range []float64{1.0, -1.0} {
		hipX := side * (TorsoHalfWidth - LegHalfWidth)

		upper := p.createSegment(hipX, startHeight-SegmentHalfLength, filter)
		hip := p.createJoint(p.torso, upper,
			box2d.MakeB2Vec2(hipX, 0.0),
			box2d.MakeB2Vec2(0.0, SegmentHalfLength), HipLimit)

		lower := p.createSegment(hipX, startHeight-3.0*SegmentHalfLength,
			filter)
		knee := p.createJoint(upper, lower,
			box2d.MakeB2Vec2(0.0, -SegmentHalfLength),
			box2d.MakeB2Vec2(0.0, SegmentHalfLength), KneeLimit)

		p.legs = append(p.legs, upper, lower)
		p.joints = append(p.joints, hip, knee)
	}

	// Settle pass: no torques, gravity only
	for i := 0; i < settleSteps; i++ {
		p.world.Step(Dt, VelocityIterations, PositionIterations)
	}

	step := ts.New(ts.First, 0, p.getObs(), 0, ts.Info{"labels": obsLabels})
	p.currentStep = step

	return step, nil
}

func (p *PlanarSolo) createSegment(x, y float64,
	filter box2d.B2Filter) *box2d.B2Body {
	def := box2d.MakeB2BodyDef()
	def.Type = 2 // Dynamic body
	def.Position = box2d.MakeB2Vec2(x, y)
	segment := p.world.CreateBody(&def)

	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(LegHalfWidth, SegmentHalfLength)
	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Density = LegDensity
	fix.Friction = FootFriction
	fix.Restitution = 0.0
	fix.Filter = filter
	segment.CreateFixtureFromDef(&fix)

	return segment
}

func (p *PlanarSolo) createJoint(parent, child *box2d.B2Body, anchorParent,
	anchorChild box2d.B2Vec2, limit float64) *box2d.B2RevoluteJoint {
	rjd := box2d.MakeB2RevoluteJointDef()
	rjd.BodyA = parent
	rjd.BodyB = child
	rjd.LocalAnchorA = anchorParent
	rjd.LocalAnchorB = anchorChild
	rjd.EnableLimit = true
	rjd.LowerAngle = -limit
	rjd.UpperAngle = limit

	return p.world.CreateJoint(&rjd).(*box2d.B2RevoluteJoint)
}

// Step applies one torque per joint, advances the simulation by one
// fixed timestep, and returns the resulting TimeStep. Torques outside
// ±TorqueLimit are clipped; an action of the wrong length is an error.
func (p *PlanarSolo) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != len(p.joints) {
		return ts.TimeStep{}, true, fmt.Errorf("step: invalid action "+
			"dimensions \n\thave(%v) \n\twant(%v)", action.Len(),
			len(p.joints))
	}

	for j, joint := range p.joints {
		torque := floatutils.ClipInterval(action.AtVec(j), p.actionBounds)

		// Equal and opposite torques on the two connected bodies so
		// the joint motor is a pure torque source
		joint.GetBodyB().ApplyTorque(torque, true)
		joint.GetBodyA().ApplyTorque(-torque, true)
	}

	p.world.Step(Dt, VelocityIterations, PositionIterations)
	p.steps++

	obs := p.getObs()
	reward := p.getReward(obs)
	done := p.fallen(obs) || p.steps >= p.maxSteps

	stepType := ts.Mid
	if done {
		stepType = ts.Last
	}
	t := ts.New(stepType, reward, obs, p.currentStep.Number+1,
		ts.Info{"labels": obsLabels})
	p.currentStep = t

	return t, done, nil
}

func (p *PlanarSolo) getObs() *mat.VecDense {
	pos := p.torso.GetPosition()
	vel := p.torso.GetLinearVelocity()

	state := make([]float64, 0, StateObservations)
	state = append(state,
		pos.Y,
		floatutils.Wrap(p.torso.GetAngle(), -math.Pi, math.Pi),
		vel.X,
		vel.Y,
		p.torso.GetAngularVelocity(),
	)
	for _, joint := range p.joints {
		state = append(state, joint.GetJointAngle())
	}
	for _, joint := range p.joints {
		state = append(state, joint.GetJointSpeed())
	}

	if len(state) != StateObservations {
		panic(fmt.Sprintf("getObs: illegal number of state observations "+
			"\n\twant(%v) \n\thave(%v)", StateObservations, len(state)))
	}
	return mat.NewVecDense(StateObservations, state)
}

// getReward rewards standing: torso uprightness scaled by how close
// the torso rides to its start height
func (p *PlanarSolo) getReward(obs *mat.VecDense) float64 {
	height := obs.AtVec(0)
	pitch := obs.AtVec(1)

	heightReward := floatutils.Clip(1.0-math.Abs(height-StartHeight)/
		StartHeight, 0.0, 1.0)
	return math.Cos(pitch) * heightReward
}

func (p *PlanarSolo) fallen(obs *mat.VecDense) bool {
	return obs.AtVec(0) < MinTorsoHeight ||
		math.Abs(obs.AtVec(1)) > FallAngle
}

// CurrentTimeStep returns the last TimeStep produced by the
// environment
func (p *PlanarSolo) CurrentTimeStep() ts.TimeStep {
	return p.currentStep
}

// ObservationSpec returns the observation specification of the
// environment
func (p *PlanarSolo) ObservationSpec() environment.Spec {
	inf := math.Inf(1)

	low := []float64{0.0, -math.Pi, -inf, -inf, -inf,
		-HipLimit, -KneeLimit, -HipLimit, -KneeLimit,
		-inf, -inf, -inf, -inf}
	high := []float64{inf, math.Pi, inf, inf, inf,
		HipLimit, KneeLimit, HipLimit, KneeLimit,
		inf, inf, inf, inf}

	shape := mat.NewVecDense(StateObservations, nil)
	lowVec := mat.NewVecDense(StateObservations, low)
	highVec := mat.NewVecDense(StateObservations, high)

	return environment.NewSpec(shape, environment.Observation, lowVec,
		highVec, environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (p *PlanarSolo) ActionSpec() environment.Spec {
	n := len(p.joints)
	low := make([]float64, n)
	high := make([]float64, n)
	for j := 0; j < n; j++ {
		low[j] = p.actionBounds.Min
		high[j] = p.actionBounds.Max
	}

	shape := mat.NewVecDense(n, nil)
	lowVec := mat.NewVecDense(n, low)
	highVec := mat.NewVecDense(n, high)

	return environment.NewSpec(shape, environment.Action, lowVec, highVec,
		environment.Continuous)
}

// Close releases the environment. The engine runs in-process, so there
// is nothing to disconnect.
func (p *PlanarSolo) Close() error {
	p.destroy()
	return nil
}

// Render draws the current state to PlanarSolo<frame>.png
func (p *PlanarSolo) Render(frame int) error {
	dc := gg.NewContext(int(ViewportW), int(ViewportH))
	dc.SetColor(p.skyShade)
	dc.Clear()

	// Ground
	dc.SetColor(p.groundShade)
	dc.SetLineWidth(3.0)
	left := WorldToPixelCoord([2]float64{-ViewportW / 2.0 / Scale, 0.0})
	right := WorldToPixelCoord([2]float64{ViewportW / 2.0 / Scale, 0.0})
	dc.DrawLine(left[0], left[1], right[0], right[1])
	dc.Stroke()

	p.renderBody(dc, p.torso, p.torsoShade)
	for _, leg := range p.legs {
		p.renderBody(dc, leg, p.legShade)
	}

	return dc.SavePNG(fmt.Sprintf("./PlanarSolo%v.png", frame))
}

func (p *PlanarSolo) renderBody(dc *gg.Context, body *box2d.B2Body,
	shade color.Color) {
	fix := body.GetFixtureList()
	for fix != nil {
		shape, ok := fix.M_shape.(*box2d.B2PolygonShape)
		if !ok {
			fix = fix.M_next
			continue
		}

		dc.ClearPath()
		path := make([][2]float64, 0, shape.M_count)
		for i, vertex := range shape.M_vertices {
			if i >= shape.M_count {
				break
			}
			trans := fix.M_body.M_xf
			vertex = box2d.B2TransformVec2Mul(trans, vertex)
			path = append(path, WorldToPixelCoord([2]float64{vertex.X,
				vertex.Y}))
		}
		for _, point := range path {
			dc.LineTo(point[0], point[1])
		}
		dc.LineTo(path[0][0], path[0][1])

		dc.SetColor(shade)
		dc.Fill()
		fix = fix.M_next
	}
}
