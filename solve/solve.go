// Package solve implements the XPBD Gauss-Seidel constraint projection
// routines: rod (distance), angle, motor-angle, contact (inequality), and
// revolute joint (spec.md §4.4).
package solve

import (
	"github.com/gekko3d-research/xpbdevo/vec2"
	"github.com/gekko3d-research/xpbdevo/world"
)

const epsilon = 1e-9

// lagrange computes the XPBD multiplier update for a single constraint:
//
//	alphaTilde = compliance / dtSub^2
//	deltaLambda = -(C + alphaTilde*lambda) / (w + alphaTilde)
//
// w is the inverse-mass-weighted squared gradient norm, C the constraint
// value, and lambda the multiplier accumulated so far this substep.
func lagrange(c, w, compliance, dtSub, lambda float64) float64 {
	alphaTilde := compliance / (dtSub * dtSub)
	denom := w + alphaTilde
	if denom < epsilon {
		return 0
	}
	return -(c + alphaTilde*lambda) / denom
}

// Rods projects every rod (distance) constraint once.
//
// C = |p_i - p_j| - restLength. Skipped when both particles are pinned,
// the current length is below epsilon, or the weighted gradient norm is
// below epsilon.
func Rods(w *world.WorldState, dtSub float64) {
	for idx := range w.RodI {
		i, j := w.RodI[idx], w.RodJ[idx]
		wi, wj := w.InvMass[i], w.InvMass[j]
		if wi == 0 && wj == 0 {
			continue
		}

		d := vec2.Of(w.PosX[i]-w.PosX[j], w.PosY[i]-w.PosY[j])
		n, length := vec2.Normalize(d)
		if length < epsilon {
			continue
		}

		gradW := wi + wj
		if gradW < epsilon {
			continue
		}

		c := length - w.RodRestLength[idx]
		deltaLambda := lagrange(c, gradW, w.RodCompliance[idx], dtSub, w.RodLambda[idx])
		w.RodLambda[idx] += deltaLambda

		w.PosX[i] += wi * deltaLambda * n.X()
		w.PosY[i] += wi * deltaLambda * n.Y()
		w.PosX[j] -= wj * deltaLambda * n.X()
		w.PosY[j] -= wj * deltaLambda * n.Y()
	}
}

// angleGradients returns the classical perp-per-length gradients for an
// angle constraint at vertex j between edges j->i and j->k, plus the edge
// lengths and the current signed angle value. ok is false when either edge
// is degenerate.
func angleGradients(w *world.WorldState, i, j, k int) (gi, gj, gk [2]float64, c float64, ok bool) {
	e1 := vec2.Of(w.PosX[i]-w.PosX[j], w.PosY[i]-w.PosY[j])
	e2 := vec2.Of(w.PosX[k]-w.PosX[j], w.PosY[k]-w.PosY[j])
	len1 := e1.Len()
	len2 := e2.Len()
	if len1 < epsilon || len2 < epsilon {
		return gi, gj, gk, 0, false
	}

	gi = [2]float64{-e1.Y() / len1, e1.X() / len1}
	gk = [2]float64{e2.Y() / len2, -e2.X() / len2}
	gj = [2]float64{-(gi[0] + gk[0]), -(gi[1] + gk[1])}

	angle := vec2.AngleBetween(e1, e2)
	return gi, gj, gk, angle, true
}

// projectAngleFamily runs one Gauss-Seidel pass over a family of angle-like
// constraints (angle or motor) sharing the same storage shape.
func projectAngleFamily(w *world.WorldState, is, js, ks []int, targets, compliances, lambdas []float64, dtSub float64) {
	for idx := range is {
		i, j, k := is[idx], js[idx], ks[idx]
		if w.InvMass[i] == 0 && w.InvMass[j] == 0 && w.InvMass[k] == 0 {
			continue
		}

		gi, gj, gk, angle, ok := angleGradients(w, i, j, k)
		if !ok {
			continue
		}

		wi, wj, wk := w.InvMass[i], w.InvMass[j], w.InvMass[k]
		gradW := wi*(gi[0]*gi[0]+gi[1]*gi[1]) + wj*(gj[0]*gj[0]+gj[1]*gj[1]) + wk*(gk[0]*gk[0]+gk[1]*gk[1])
		if gradW < epsilon {
			continue
		}

		c := vec2.WrapAngle(angle - targets[idx])
		deltaLambda := lagrange(c, gradW, compliances[idx], dtSub, lambdas[idx])
		lambdas[idx] += deltaLambda

		w.PosX[i] += wi * deltaLambda * gi[0]
		w.PosY[i] += wi * deltaLambda * gi[1]
		w.PosX[j] += wj * deltaLambda * gj[0]
		w.PosY[j] += wj * deltaLambda * gj[1]
		w.PosX[k] += wk * deltaLambda * gk[0]
		w.PosY[k] += wk * deltaLambda * gk[1]
	}
}

// Angles projects every soft-bend angle constraint once. Retained only for
// soft/bendy articulation; rigid corners should use
// WorldState.AddAngleConstraintAsRod instead (spec.md §4.2, §9).
func Angles(w *world.WorldState, dtSub float64) {
	projectAngleFamily(w, w.AngleI, w.AngleJ, w.AngleK, w.AngleTheta0, w.AngleCompliance, w.AngleLambda, dtSub)
}

// Motors projects every motor-angle constraint once, driving toward
// MotorTarget, which may be changed externally between substeps but not
// between Gauss-Seidel iterations within one (spec.md §4.4, §9).
func Motors(w *world.WorldState, dtSub float64) {
	projectAngleFamily(w, w.MotorI, w.MotorJ, w.MotorK, w.MotorTarget, w.MotorCompliance, w.MotorLambda, dtSub)
}

// Contacts projects every non-pinned particle against every static collider
// once. Contact lambdas are not accumulated across iterations (one-shot
// inequality constraints): deltaLambda is recomputed from scratch and
// clamped to be non-negative so particles are only ever pushed out, never
// pulled in (spec.md §4.4).
func Contacts(w *world.WorldState, dtSub float64) {
	for i := range w.PosX {
		if w.InvMass[i] == 0 {
			continue
		}
		px, py := w.PosX[i], w.PosY[i]
		inflate := w.Radius[i]

		for c := range w.CircleCX {
			phi, nx, ny := vec2.CircleSDF(px, py, w.CircleCX[c], w.CircleCY[c], w.CircleRadius[c])
			projectContact(w, i, phi-inflate, nx, ny, dtSub)
			px, py = w.PosX[i], w.PosY[i]
		}
		for c := range w.CapsuleCX {
			phi, nx, ny := vec2.CapsuleSDF(px, py, w.CapsuleCX[c], w.CapsuleCY[c], w.CapsuleUX[c], w.CapsuleUY[c], w.CapsuleHalfLength[c], w.CapsuleRadius[c])
			projectContact(w, i, phi-inflate, nx, ny, dtSub)
			px, py = w.PosX[i], w.PosY[i]
		}
		for c := range w.OBBCX {
			phi, nx, ny := vec2.OBBSDF(px, py, w.OBBCX[c], w.OBBCY[c], w.OBBUX[c], w.OBBUY[c], w.OBBHalfExtentX[c], w.OBBHalfExtentY[c])
			projectContact(w, i, phi-inflate, nx, ny, dtSub)
			px, py = w.PosX[i], w.PosY[i]
		}
	}
}

func projectContact(w *world.WorldState, i int, phi, nx, ny, dtSub float64) {
	if phi >= 0 {
		return
	}
	wi := w.InvMass[i]
	if wi < epsilon {
		return
	}
	c := phi
	deltaLambda := lagrange(c, wi, 0, dtSub, 0)
	if deltaLambda < 0 {
		deltaLambda = 0
	}
	w.PosX[i] += wi * deltaLambda * nx
	w.PosY[i] += wi * deltaLambda * ny
}
