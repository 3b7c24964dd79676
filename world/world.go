// Package world implements the append-only structure-of-arrays store for
// particles, rigid bodies, constraints, colliders, and joints. Entities are
// addressed by stable integer indices, never pointers (spec.md §3).
package world

import (
	"math"

	"github.com/gekko3d-research/xpbdevo/xerrors"
)

// WorldState owns every particle/constraint/collider/rigid-body/joint in a
// simulation run. Collections only ever grow: indices handed out by an
// add* call remain valid for the lifetime of the world.
type WorldState struct {
	// Particles (SoA, indexed by particle id).
	PosX, PosY     []float64
	VelX, VelY     []float64
	ForceX, ForceY []float64
	InvMass        []float64
	Radius         []float64

	// Rod (bilateral distance) constraints.
	RodI, RodJ    []int
	RodRestLength []float64
	RodCompliance []float64
	RodLambda     []float64

	// Angle (soft bend) constraints.
	AngleI, AngleJ, AngleK []int
	AngleTheta0            []float64
	AngleCompliance        []float64
	AngleLambda            []float64

	// Motor-angle constraints: same shape as Angle, with an externally
	// driven target instead of a fixed rest angle.
	MotorI, MotorJ, MotorK []int
	MotorTarget            []float64
	MotorCompliance        []float64
	MotorLambda            []float64

	// Static colliders.
	CircleCX, CircleCY, CircleRadius []float64

	CapsuleCX, CapsuleCY             []float64
	CapsuleUX, CapsuleUY             []float64
	CapsuleHalfLength, CapsuleRadius []float64

	OBBCX, OBBCY                   []float64
	OBBUX, OBBUY                   []float64
	OBBHalfExtentX, OBBHalfExtentY []float64

	// Rigid bodies.
	RBX, RBY, RBAngle        []float64
	RBVelX, RBVelY           []float64
	RBAngularVel             []float64
	RBInvMass, RBInvInertia  []float64
	RBGeomStart, RBGeomCount []int
	RBForceX, RBForceY       []float64
	RBTorque                 []float64

	// Shared pool of local-space circle geometry owned in contiguous runs
	// by rigid bodies (RBGeomStart/RBGeomCount index into these slices).
	GeomLocalX, GeomLocalY, GeomRadius []float64

	// Revolute joints.
	JointBodyA, JointBodyB           []int
	JointAnchorAX, JointAnchorAY     []float64
	JointAnchorBX, JointAnchorBY     []float64
	JointReferenceAngle              []float64
	JointEnableLimits                []bool
	JointLowerLimit, JointUpperLimit []float64
	JointEnableMotor                 []bool
	JointMotorSpeed                  []float64
	JointMaxMotorTorque              []float64
	JointLambdaX, JointLambdaY       []float64
	JointLambdaAngle                 []float64
}

// New returns an empty WorldState ready to accept entities.
func New() *WorldState {
	return &WorldState{}
}

// AddParticle appends a particle and returns its id.
func (w *WorldState) AddParticle(x, y, vx, vy, mass, radius float64) int {
	id := len(w.PosX)
	w.PosX = append(w.PosX, x)
	w.PosY = append(w.PosY, y)
	w.VelX = append(w.VelX, vx)
	w.VelY = append(w.VelY, vy)
	w.ForceX = append(w.ForceX, 0)
	w.ForceY = append(w.ForceY, 0)
	invMass := 0.0
	if mass > 0 {
		invMass = 1 / mass
	}
	w.InvMass = append(w.InvMass, invMass)
	w.Radius = append(w.Radius, radius)
	return id
}

// NumParticles returns the number of particles in the world.
func (w *WorldState) NumParticles() int { return len(w.PosX) }

// AddRod appends a distance constraint between particles i and j. i must
// differ from j (spec.md §3) — this is the one WorldState add-operation
// with a construction-time validation, so unlike its siblings it returns
// an error instead of a bare id (SPEC_FULL.md §3).
func (w *WorldState) AddRod(i, j int, restLength, compliance float64) (int, error) {
	if i == j {
		return -1, xerrors.NewConfigError("AddRod", "i must differ from j")
	}
	id := len(w.RodI)
	w.RodI = append(w.RodI, i)
	w.RodJ = append(w.RodJ, j)
	w.RodRestLength = append(w.RodRestLength, restLength)
	w.RodCompliance = append(w.RodCompliance, compliance)
	w.RodLambda = append(w.RodLambda, 0)
	return id, nil
}

// AddAngle appends a soft-bend angle constraint at vertex j between edges
// j->i and j->k.
func (w *WorldState) AddAngle(i, j, k int, theta0, compliance float64) int {
	id := len(w.AngleI)
	w.AngleI = append(w.AngleI, i)
	w.AngleJ = append(w.AngleJ, j)
	w.AngleK = append(w.AngleK, k)
	w.AngleTheta0 = append(w.AngleTheta0, theta0)
	w.AngleCompliance = append(w.AngleCompliance, compliance)
	w.AngleLambda = append(w.AngleLambda, 0)
	return id
}

// AddMotorAngle appends a motor-driven angle constraint; target may be
// reassigned later via SetMotorTarget, but only between substeps (spec.md §9).
func (w *WorldState) AddMotorAngle(i, j, k int, target, compliance float64) int {
	id := len(w.MotorI)
	w.MotorI = append(w.MotorI, i)
	w.MotorJ = append(w.MotorJ, j)
	w.MotorK = append(w.MotorK, k)
	w.MotorTarget = append(w.MotorTarget, target)
	w.MotorCompliance = append(w.MotorCompliance, compliance)
	w.MotorLambda = append(w.MotorLambda, 0)
	return id
}

// SetMotorTarget reassigns a motor's driven target.
func (w *WorldState) SetMotorTarget(motorID int, target float64) {
	w.MotorTarget[motorID] = target
}

// AddAngleConstraintAsRod computes the rod rest length implied by a target
// angle at a corner of two edges of known length via the law of cosines,
// and appends that rod between the two non-shared endpoints i and k. This
// is the preferred encoding for rigid corners (spec.md §4.2): direct
// 3-point angle constraints with stiff compliance over-constrain distance
// rods and diverge.
func (w *WorldState) AddAngleConstraintAsRod(i, j, k int, targetAngle, len1, len2, compliance float64) int {
	d := math.Sqrt(len1*len1 + len2*len2 - 2*len1*len2*math.Cos(targetAngle))
	id, err := w.AddRod(i, k, d, compliance)
	if err != nil {
		// i == k collapses the corner to a point; nothing meaningful to
		// constrain, so skip silently rather than propagate (spec.md §7).
		return -1
	}
	return id
}

// AddCircleCollider appends a static circle collider.
func (w *WorldState) AddCircleCollider(cx, cy, radius float64) int {
	id := len(w.CircleCX)
	w.CircleCX = append(w.CircleCX, cx)
	w.CircleCY = append(w.CircleCY, cy)
	w.CircleRadius = append(w.CircleRadius, radius)
	return id
}

// AddCapsuleCollider appends a static capsule collider with unit axis (ux, uy).
func (w *WorldState) AddCapsuleCollider(cx, cy, ux, uy, halfLength, radius float64) int {
	id := len(w.CapsuleCX)
	w.CapsuleCX = append(w.CapsuleCX, cx)
	w.CapsuleCY = append(w.CapsuleCY, cy)
	w.CapsuleUX = append(w.CapsuleUX, ux)
	w.CapsuleUY = append(w.CapsuleUY, uy)
	w.CapsuleHalfLength = append(w.CapsuleHalfLength, halfLength)
	w.CapsuleRadius = append(w.CapsuleRadius, radius)
	return id
}

// AddOBBCollider appends a static oriented-box collider with unit axis (ux, uy).
func (w *WorldState) AddOBBCollider(cx, cy, ux, uy, halfExtentX, halfExtentY float64) int {
	id := len(w.OBBCX)
	w.OBBCX = append(w.OBBCX, cx)
	w.OBBCY = append(w.OBBCY, cy)
	w.OBBUX = append(w.OBBUX, ux)
	w.OBBUY = append(w.OBBUY, uy)
	w.OBBHalfExtentX = append(w.OBBHalfExtentX, halfExtentX)
	w.OBBHalfExtentY = append(w.OBBHalfExtentY, halfExtentY)
	return id
}

// AddRigidBody appends a rigid body with no attached geometry yet; use
// AddRigidBodyGeom to append circles to its geometry run immediately after
// (geometry runs must be contiguous, per spec.md §3).
func (w *WorldState) AddRigidBody(x, y, angle, velX, velY, angularVel, invMass, invInertia float64) int {
	id := len(w.RBX)
	w.RBX = append(w.RBX, x)
	w.RBY = append(w.RBY, y)
	w.RBAngle = append(w.RBAngle, angle)
	w.RBVelX = append(w.RBVelX, velX)
	w.RBVelY = append(w.RBVelY, velY)
	w.RBAngularVel = append(w.RBAngularVel, angularVel)
	w.RBInvMass = append(w.RBInvMass, invMass)
	w.RBInvInertia = append(w.RBInvInertia, invInertia)
	w.RBGeomStart = append(w.RBGeomStart, len(w.GeomLocalX))
	w.RBGeomCount = append(w.RBGeomCount, 0)
	w.RBForceX = append(w.RBForceX, 0)
	w.RBForceY = append(w.RBForceY, 0)
	w.RBTorque = append(w.RBTorque, 0)
	return id
}

// AddRigidBodyGeom appends a circle to the geometry pool and extends the
// most recently added rigid body's contiguous run. It must be called
// immediately after AddRigidBody for that body, before any other rigid
// body is added, to preserve contiguity.
func (w *WorldState) AddRigidBodyGeom(bodyID int, localX, localY, radius float64) int {
	id := len(w.GeomLocalX)
	w.GeomLocalX = append(w.GeomLocalX, localX)
	w.GeomLocalY = append(w.GeomLocalY, localY)
	w.GeomRadius = append(w.GeomRadius, radius)
	w.RBGeomCount[bodyID]++
	return id
}

// AddRevoluteJoint appends a revolute joint between two rigid bodies.
func (w *WorldState) AddRevoluteJoint(bodyA, bodyB int, anchorAX, anchorAY, anchorBX, anchorBY, referenceAngle float64) int {
	id := len(w.JointBodyA)
	w.JointBodyA = append(w.JointBodyA, bodyA)
	w.JointBodyB = append(w.JointBodyB, bodyB)
	w.JointAnchorAX = append(w.JointAnchorAX, anchorAX)
	w.JointAnchorAY = append(w.JointAnchorAY, anchorAY)
	w.JointAnchorBX = append(w.JointAnchorBX, anchorBX)
	w.JointAnchorBY = append(w.JointAnchorBY, anchorBY)
	w.JointReferenceAngle = append(w.JointReferenceAngle, referenceAngle)
	w.JointEnableLimits = append(w.JointEnableLimits, false)
	w.JointLowerLimit = append(w.JointLowerLimit, 0)
	w.JointUpperLimit = append(w.JointUpperLimit, 0)
	w.JointEnableMotor = append(w.JointEnableMotor, false)
	w.JointMotorSpeed = append(w.JointMotorSpeed, 0)
	w.JointMaxMotorTorque = append(w.JointMaxMotorTorque, 0)
	w.JointLambdaX = append(w.JointLambdaX, 0)
	w.JointLambdaY = append(w.JointLambdaY, 0)
	w.JointLambdaAngle = append(w.JointLambdaAngle, 0)
	return id
}

// SetJointLimits configures the joint's bilateral angular limit.
func (w *WorldState) SetJointLimits(jointID int, lower, upper float64) {
	w.JointEnableLimits[jointID] = true
	w.JointLowerLimit[jointID] = lower
	w.JointUpperLimit[jointID] = upper
}

// SetJointMotor configures the joint's angular motor.
func (w *WorldState) SetJointMotor(jointID int, speed, maxTorque float64) {
	w.JointEnableMotor[jointID] = true
	w.JointMotorSpeed[jointID] = speed
	w.JointMaxMotorTorque[jointID] = maxTorque
}

// ClearForces zeros particle and rigid-body force/torque accumulators.
// The integrator does not call it: integrate.Particles and
// integrate.RigidBodies clear their own accumulators at the end of each
// sub-step.
func (w *WorldState) ClearForces() {
	for i := range w.ForceX {
		w.ForceX[i] = 0
		w.ForceY[i] = 0
	}
	for i := range w.RBForceX {
		w.RBForceX[i] = 0
		w.RBForceY[i] = 0
		w.RBTorque[i] = 0
	}
}

// ResetLambdas zeros every constraint's accumulated Lagrange multiplier.
// Called once at the start of every substep (spec.md §3 invariant).
func (w *WorldState) ResetLambdas() {
	for i := range w.RodLambda {
		w.RodLambda[i] = 0
	}
	for i := range w.AngleLambda {
		w.AngleLambda[i] = 0
	}
	for i := range w.MotorLambda {
		w.MotorLambda[i] = 0
	}
	for i := range w.JointLambdaX {
		w.JointLambdaX[i] = 0
		w.JointLambdaY[i] = 0
		w.JointLambdaAngle[i] = 0
	}
}
