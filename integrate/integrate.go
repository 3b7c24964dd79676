// Package integrate implements the symplectic-Euler predictor for
// particles and rigid bodies (spec.md §4.3).
package integrate

import "github.com/gekko3d-research/xpbdevo/world"

// ApplyGravity accumulates F += m*g for every mobile particle.
func ApplyGravity(w *world.WorldState, gravityX, gravityY float64) {
	for i := range w.PosX {
		if w.InvMass[i] == 0 {
			continue
		}
		mass := 1 / w.InvMass[i]
		w.ForceX[i] += mass * gravityX
		w.ForceY[i] += mass * gravityY
	}
}

// ApplyRigidBodyGravity accumulates linear force on every mobile rigid body.
func ApplyRigidBodyGravity(w *world.WorldState, gravityX, gravityY float64) {
	for i := range w.RBX {
		if w.RBInvMass[i] == 0 {
			continue
		}
		mass := 1 / w.RBInvMass[i]
		w.RBForceX[i] += mass * gravityX
		w.RBForceY[i] += mass * gravityY
	}
}

// Particles integrates velocity then position for every mobile particle
// with the given sub-step dt, then clears the force accumulators.
func Particles(w *world.WorldState, dt float64) {
	for i := range w.PosX {
		if w.InvMass[i] == 0 {
			continue
		}
		w.VelX[i] += dt * w.ForceX[i] * w.InvMass[i]
		w.VelY[i] += dt * w.ForceY[i] * w.InvMass[i]
		w.PosX[i] += dt * w.VelX[i]
		w.PosY[i] += dt * w.VelY[i]
	}
	for i := range w.ForceX {
		w.ForceX[i] = 0
		w.ForceY[i] = 0
	}
}

// RigidBodies integrates linear and angular velocity then pose for every
// mobile rigid body with the given sub-step dt, then clears accumulators.
func RigidBodies(w *world.WorldState, dt float64) {
	for i := range w.RBX {
		if w.RBInvMass[i] == 0 {
			continue
		}
		w.RBVelX[i] += dt * w.RBForceX[i] * w.RBInvMass[i]
		w.RBVelY[i] += dt * w.RBForceY[i] * w.RBInvMass[i]
		w.RBAngularVel[i] += dt * w.RBTorque[i] * w.RBInvInertia[i]

		w.RBX[i] += dt * w.RBVelX[i]
		w.RBY[i] += dt * w.RBVelY[i]
		w.RBAngle[i] += dt * w.RBAngularVel[i]
	}
	for i := range w.RBForceX {
		w.RBForceX[i] = 0
		w.RBForceY[i] = 0
		w.RBTorque[i] = 0
	}
}

// ApplyDamping multiplies every mobile particle's and rigid body's velocity
// by max(0, 1 - damping*dt).
func ApplyDamping(w *world.WorldState, damping, dt float64) {
	factor := 1 - damping*dt
	if factor < 0 {
		factor = 0
	}
	for i := range w.VelX {
		if w.InvMass[i] == 0 {
			continue
		}
		w.VelX[i] *= factor
		w.VelY[i] *= factor
	}
	for i := range w.RBVelX {
		if w.RBInvMass[i] == 0 {
			continue
		}
		w.RBVelX[i] *= factor
		w.RBVelY[i] *= factor
		w.RBAngularVel[i] *= factor
	}
}

// RigidBodyPose snapshots position/angle, used to recover corrected
// velocity from the positional delta after constraint projection
// (spec.md §4.3's stabilization step).
type RigidBodyPose struct {
	X, Y, Angle []float64
}

// SnapshotRigidBodies captures the current pose of every rigid body.
func SnapshotRigidBodies(w *world.WorldState) RigidBodyPose {
	return RigidBodyPose{
		X:     append([]float64(nil), w.RBX...),
		Y:     append([]float64(nil), w.RBY...),
		Angle: append([]float64(nil), w.RBAngle...),
	}
}

// StabilizeRigidBodies blends the integrated velocity with the velocity
// implied by the positional delta since before, per spec.md §4.3:
//
//	v' = (p_after - p_before) / dt
//	v_final = beta*v' + (1-beta)*v
//
// beta=1 fully replaces integrated velocity with the positional delta
// (canonical XPBD); beta=0 disables stabilization.
func StabilizeRigidBodies(w *world.WorldState, before RigidBodyPose, dt, beta float64) {
	if beta <= 0 || dt == 0 {
		return
	}
	for i := range w.RBX {
		if w.RBInvMass[i] == 0 {
			continue
		}
		vx := (w.RBX[i] - before.X[i]) / dt
		vy := (w.RBY[i] - before.Y[i]) / dt
		vAngle := (w.RBAngle[i] - before.Angle[i]) / dt

		w.RBVelX[i] = beta*vx + (1-beta)*w.RBVelX[i]
		w.RBVelY[i] = beta*vy + (1-beta)*w.RBVelY[i]
		w.RBAngularVel[i] = beta*vAngle + (1-beta)*w.RBAngularVel[i]
	}
}
