package solve

import (
	"github.com/gekko3d-research/xpbdevo/collide"
	"github.com/gekko3d-research/xpbdevo/world"
)

// RigidBodyContacts projects every rigid body's geometry circles against
// every static collider once, using collide's narrow phase for detection
// (spec.md §4.5). Like particle Contacts, these are one-shot inequality
// constraints: push-only, lambda not accumulated across iterations.
// Angular correction follows the same Lagrange-multiplier shape as the
// linear case, with the contact-point lever arm folded into the
// effective inverse mass (rCrossN^2 * invInertia).
func RigidBodyContacts(w *world.WorldState, dtSub float64) {
	for body := range w.RBX {
		if w.RBInvMass[body] == 0 && w.RBInvInertia[body] == 0 {
			continue
		}
		start, count := w.RBGeomStart[body], w.RBGeomCount[body]
		for k := 0; k < count; k++ {
			gx, gy, gr := collide.RigidBodyGeomWorld(w, body, k)

			for c := range w.CircleCX {
				info := collide.CircleVsStaticCircle(gx, gy, gr, w.CircleCX[c], w.CircleCY[c], w.CircleRadius[c])
				projectRigidBodyContact(w, body, info, dtSub)
				gx, gy, _ = collide.RigidBodyGeomWorld(w, body, k)
			}
			for c := range w.CapsuleCX {
				info := collide.CircleVsStaticCapsule(gx, gy, gr, w.CapsuleCX[c], w.CapsuleCY[c], w.CapsuleUX[c], w.CapsuleUY[c], w.CapsuleHalfLength[c], w.CapsuleRadius[c])
				projectRigidBodyContact(w, body, info, dtSub)
				gx, gy, _ = collide.RigidBodyGeomWorld(w, body, k)
			}
			for c := range w.OBBCX {
				info := collide.CircleVsStaticOBB(gx, gy, gr, w.OBBCX[c], w.OBBCY[c], w.OBBUX[c], w.OBBUY[c], w.OBBHalfExtentX[c], w.OBBHalfExtentY[c])
				projectRigidBodyContact(w, body, info, dtSub)
				gx, gy, _ = collide.RigidBodyGeomWorld(w, body, k)
			}
		}
	}
}

func projectRigidBodyContact(w *world.WorldState, body int, info collide.ContactInfo, dtSub float64) {
	if info.Separation >= 0 {
		return
	}
	invMass := w.RBInvMass[body]
	invInertia := w.RBInvInertia[body]

	rx := info.CX - w.RBX[body]
	ry := info.CY - w.RBY[body]
	rCrossN := rx*info.NY - ry*info.NX

	gradW := invMass + invInertia*rCrossN*rCrossN
	if gradW < epsilon {
		return
	}

	deltaLambda := lagrange(info.Separation, gradW, 0, dtSub, 0)
	if deltaLambda < 0 {
		deltaLambda = 0
	}

	w.RBX[body] += invMass * deltaLambda * info.NX
	w.RBY[body] += invMass * deltaLambda * info.NY
	w.RBAngle[body] += invInertia * deltaLambda * rCrossN
}
