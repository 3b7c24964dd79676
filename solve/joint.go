package solve

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d-research/xpbdevo/vec2"
	"github.com/gekko3d-research/xpbdevo/world"
)

// worldAnchor returns the world-space position of a rigid body's local
// anchor point.
func worldAnchor(w *world.WorldState, body int, localX, localY float64) (float64, float64) {
	r := vec2.Rotate(vec2.Of(localX, localY), w.RBAngle[body])
	return w.RBX[body] + r.X(), w.RBY[body] + r.Y()
}

// Joints projects every revolute joint once: a positional constraint
// equating the world anchors of body A and B (two scalar distance-like
// projections), plus optional angular limit and motor terms acting on
// (angleB - angleA - referenceAngle) (spec.md §4.4).
func Joints(w *world.WorldState, dtSub float64) {
	for idx := range w.JointBodyA {
		a, b := w.JointBodyA[idx], w.JointBodyB[idx]
		wa, wb := w.RBInvMass[a], w.RBInvMass[b]
		ia, ib := w.RBInvInertia[a], w.RBInvInertia[b]

		projectJointPoint(w, idx, a, b, dtSub)
		if w.JointEnableLimits[idx] {
			projectJointLimit(w, idx, a, b, wa, wb, ia, ib)
		}
		if w.JointEnableMotor[idx] {
			projectJointMotor(w, idx, a, b, ia, ib, dtSub)
		}
	}
}

func projectJointPoint(w *world.WorldState, idx, a, b int, dtSub float64) {
	wa, wb := w.RBInvMass[a], w.RBInvMass[b]
	if wa == 0 && wb == 0 {
		return
	}
	ia, ib := w.RBInvInertia[a], w.RBInvInertia[b]

	w.JointLambdaX[idx] = projectPointAxis(w, idx, a, b, wa, wb, ia, ib, dtSub, vec2.Of(1, 0), w.JointLambdaX[idx])
	w.JointLambdaY[idx] = projectPointAxis(w, idx, a, b, wa, wb, ia, ib, dtSub, vec2.Of(0, 1), w.JointLambdaY[idx])
}

// projectPointAxis projects the world-anchor gap onto a single fixed world
// axis and returns the updated accumulated multiplier for that axis. The
// point constraint runs as two such projections, x then y, each with its
// own lambda (spec.md §4.4's "two scalar distance-like projections").
func projectPointAxis(w *world.WorldState, idx, a, b int, wa, wb, ia, ib, dtSub float64, axis mgl64.Vec2, lambda float64) float64 {
	ax, ay := worldAnchor(w, a, w.JointAnchorAX[idx], w.JointAnchorAY[idx])
	bx, by := worldAnchor(w, b, w.JointAnchorBX[idx], w.JointAnchorBY[idx])
	ra := vec2.Of(ax-w.RBX[a], ay-w.RBY[a])
	rb := vec2.Of(bx-w.RBX[b], by-w.RBY[b])

	c := (ax-bx)*axis.X() + (ay-by)*axis.Y()

	raCross := vec2.Cross(ra, axis)
	rbCross := vec2.Cross(rb, axis)
	gradW := wa + wb + ia*raCross*raCross + ib*rbCross*rbCross
	if gradW < epsilon {
		return lambda
	}

	deltaLambda := lagrange(c, gradW, 0, dtSub, lambda)
	impulseX := deltaLambda * axis.X()
	impulseY := deltaLambda * axis.Y()

	if wa != 0 {
		w.RBX[a] += wa * impulseX
		w.RBY[a] += wa * impulseY
		w.RBAngle[a] += ia * vec2.Cross(ra, vec2.Of(impulseX, impulseY))
	}
	if wb != 0 {
		w.RBX[b] -= wb * impulseX
		w.RBY[b] -= wb * impulseY
		w.RBAngle[b] -= ib * vec2.Cross(rb, vec2.Of(impulseX, impulseY))
	}

	return lambda + deltaLambda
}

func relativeAngle(w *world.WorldState, idx, a, b int) float64 {
	return vec2.WrapAngle(w.RBAngle[b] - w.RBAngle[a] - w.JointReferenceAngle[idx])
}

// projectJointLimit enforces a bilateral equality when the relative angle
// lies outside [lower, upper]; otherwise it is inactive (spec.md §4.4).
func projectJointLimit(w *world.WorldState, idx, a, b int, wa, wb, ia, ib float64) {
	if ia == 0 && ib == 0 {
		return
	}
	rel := relativeAngle(w, idx, a, b)
	var c float64
	switch {
	case rel < w.JointLowerLimit[idx]:
		c = rel - w.JointLowerLimit[idx]
	case rel > w.JointUpperLimit[idx]:
		c = rel - w.JointUpperLimit[idx]
	default:
		return
	}

	gradW := ia + ib
	if gradW < epsilon {
		return
	}
	deltaLambda := lagrange(c, gradW, 0, 1, w.JointLambdaAngle[idx])
	w.JointLambdaAngle[idx] += deltaLambda
	w.RBAngle[a] -= ia * deltaLambda
	w.RBAngle[b] += ib * deltaLambda
}

// projectJointMotor enforces the motor's target angular velocity subject to
// an impulse-level torque clamp |deltaOmega * I_eff| <= maxMotorTorque*dt
// (spec.md §4.4, §9).
func projectJointMotor(w *world.WorldState, idx, a, b int, ia, ib, dtSub float64) {
	if ia == 0 && ib == 0 {
		return
	}
	effInv := ia + ib
	if effInv < epsilon {
		return
	}
	effInertia := 1 / effInv

	relOmega := w.RBAngularVel[b] - w.RBAngularVel[a]
	deltaOmega := w.JointMotorSpeed[idx] - relOmega

	maxImpulse := w.JointMaxMotorTorque[idx] * dtSub
	impulse := deltaOmega * effInertia
	if impulse > maxImpulse {
		impulse = maxImpulse
	} else if impulse < -maxImpulse {
		impulse = -maxImpulse
	}

	w.RBAngularVel[a] -= ia * impulse
	w.RBAngularVel[b] += ib * impulse
}
