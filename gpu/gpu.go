// Package gpu defines plain-data mirrors of constraints and colliders with
// sequential field layout, safe for direct GPU buffer upload. No actual GPU
// dispatch is implemented here (spec.md §6: "real GPU dispatch... is an
// implementation concern", a stated non-goal).
package gpu

import "github.com/gekko3d-research/xpbdevo/world"

type GPURod struct {
	I, J              int32
	RestLength        float32
	Compliance        float32
}

type GPUAngle struct {
	I, J, K    int32
	Theta0     float32
	Compliance float32
}

type GPUMotorAngle struct {
	I, J, K    int32
	Target     float32
	Compliance float32
}

type GPUCircleCollider struct {
	CX, CY, Radius float32
}

type GPUCapsuleCollider struct {
	CX, CY             float32
	UX, UY             float32
	HalfLength, Radius float32
}

type GPUOBBCollider struct {
	CX, CY                   float32
	UX, UY                   float32
	HalfExtentX, HalfExtentY float32
}

// BlitRods copies every rod constraint into a GPU-blittable slice.
func BlitRods(w *world.WorldState) []GPURod {
	out := make([]GPURod, len(w.RodI))
	for i := range w.RodI {
		out[i] = GPURod{
			I:          int32(w.RodI[i]),
			J:          int32(w.RodJ[i]),
			RestLength: float32(w.RodRestLength[i]),
			Compliance: float32(w.RodCompliance[i]),
		}
	}
	return out
}

// BlitAngles copies every angle constraint into a GPU-blittable slice.
func BlitAngles(w *world.WorldState) []GPUAngle {
	out := make([]GPUAngle, len(w.AngleI))
	for i := range w.AngleI {
		out[i] = GPUAngle{
			I:          int32(w.AngleI[i]),
			J:          int32(w.AngleJ[i]),
			K:          int32(w.AngleK[i]),
			Theta0:     float32(w.AngleTheta0[i]),
			Compliance: float32(w.AngleCompliance[i]),
		}
	}
	return out
}

// BlitMotorAngles copies every motor-angle constraint into a GPU-blittable slice.
func BlitMotorAngles(w *world.WorldState) []GPUMotorAngle {
	out := make([]GPUMotorAngle, len(w.MotorI))
	for i := range w.MotorI {
		out[i] = GPUMotorAngle{
			I:          int32(w.MotorI[i]),
			J:          int32(w.MotorJ[i]),
			K:          int32(w.MotorK[i]),
			Target:     float32(w.MotorTarget[i]),
			Compliance: float32(w.MotorCompliance[i]),
		}
	}
	return out
}

// BlitCircleColliders copies every static circle collider.
func BlitCircleColliders(w *world.WorldState) []GPUCircleCollider {
	out := make([]GPUCircleCollider, len(w.CircleCX))
	for i := range w.CircleCX {
		out[i] = GPUCircleCollider{
			CX:     float32(w.CircleCX[i]),
			CY:     float32(w.CircleCY[i]),
			Radius: float32(w.CircleRadius[i]),
		}
	}
	return out
}

// BlitCapsuleColliders copies every static capsule collider.
func BlitCapsuleColliders(w *world.WorldState) []GPUCapsuleCollider {
	out := make([]GPUCapsuleCollider, len(w.CapsuleCX))
	for i := range w.CapsuleCX {
		out[i] = GPUCapsuleCollider{
			CX:         float32(w.CapsuleCX[i]),
			CY:         float32(w.CapsuleCY[i]),
			UX:         float32(w.CapsuleUX[i]),
			UY:         float32(w.CapsuleUY[i]),
			HalfLength: float32(w.CapsuleHalfLength[i]),
			Radius:     float32(w.CapsuleRadius[i]),
		}
	}
	return out
}

// BlitOBBColliders copies every static oriented-box collider.
func BlitOBBColliders(w *world.WorldState) []GPUOBBCollider {
	out := make([]GPUOBBCollider, len(w.OBBCX))
	for i := range w.OBBCX {
		out[i] = GPUOBBCollider{
			CX:          float32(w.OBBCX[i]),
			CY:          float32(w.OBBCY[i]),
			UX:          float32(w.OBBUX[i]),
			UY:          float32(w.OBBUY[i]),
			HalfExtentX: float32(w.OBBHalfExtentX[i]),
			HalfExtentY: float32(w.OBBHalfExtentY[i]),
		}
	}
	return out
}
