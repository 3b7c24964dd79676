// Package collide implements circle-vs-static narrow-phase detection used
// by rigid-body collision response (spec.md §4.5).
package collide

import (
	"math"

	"github.com/gekko3d-research/xpbdevo/vec2"
	"github.com/gekko3d-research/xpbdevo/world"
)

// ContactInfo describes a single narrow-phase contact. Separation < 0 means
// penetration. Normal always points from the static collider into the
// dynamic circle.
type ContactInfo struct {
	CX, CY         float64
	NX, NY         float64
	Separation     float64
}

// WorldTransform returns the world-space position of a rigid body's local
// point, given the body's pose.
func WorldTransform(rbX, rbY, rbAngle, localX, localY float64) (float64, float64) {
	sin, cos := math.Sincos(rbAngle)
	return rbX + cos*localX - sin*localY, rbY + sin*localX + cos*localY
}

// CircleVsStaticCircle detects a contact between a dynamic circle at
// (dx, dy) with radius dr and a static circle at (sx, sy) with radius sr.
// The degenerate (concentric) case falls back to a deterministic (1, 0)
// normal.
func CircleVsStaticCircle(dx, dy, dr, sx, sy, sr float64) ContactInfo {
	d := vec2.Of(dx-sx, dy-sy)
	n, length := vec2.Normalize(d)
	separation := length - (dr + sr)

	staticSurface := vec2.Of(sx, sy).Add(n.Mul(sr))
	dynamicSurface := vec2.Of(dx, dy).Sub(n.Mul(dr))
	mid := staticSurface.Add(dynamicSurface).Mul(0.5)

	return ContactInfo{
		CX: mid.X(), CY: mid.Y(),
		NX: n.X(), NY: n.Y(),
		Separation: separation,
	}
}

// CircleVsStaticCapsule detects a contact between a dynamic circle at
// (dx, dy) with radius dr and a static capsule segment from center (sx, sy)
// along unit axis (ux, uy) for halfLength, inflated by sr.
func CircleVsStaticCapsule(dx, dy, dr, sx, sy, ux, uy, halfLength, sr float64) ContactInfo {
	phi, nx, ny := vec2.CapsuleSDF(dx, dy, sx, sy, ux, uy, halfLength, sr)
	separation := phi - dr
	surfaceStatic := vec2.Of(dx, dy).Sub(vec2.Of(nx, ny).Mul(phi))
	surfaceDynamic := vec2.Of(dx, dy).Sub(vec2.Of(nx, ny).Mul(dr))
	mid := surfaceStatic.Add(surfaceDynamic).Mul(0.5)
	return ContactInfo{
		CX: mid.X(), CY: mid.Y(),
		NX: nx, NY: ny,
		Separation: separation,
	}
}

// CircleVsStaticOBB detects a contact between a dynamic circle at (dx, dy)
// with radius dr and a static oriented box centered at (sx, sy) with axis
// (ux, uy) and half-extents (hx, hy).
func CircleVsStaticOBB(dx, dy, dr, sx, sy, ux, uy, hx, hy float64) ContactInfo {
	phi, nx, ny := vec2.OBBSDF(dx, dy, sx, sy, ux, uy, hx, hy)
	separation := phi - dr
	surfaceStatic := vec2.Of(dx, dy).Sub(vec2.Of(nx, ny).Mul(phi))
	surfaceDynamic := vec2.Of(dx, dy).Sub(vec2.Of(nx, ny).Mul(dr))
	mid := surfaceStatic.Add(surfaceDynamic).Mul(0.5)
	return ContactInfo{
		CX: mid.X(), CY: mid.Y(),
		NX: nx, NY: ny,
		Separation: separation,
	}
}

// RigidBodyGeomWorld returns the world-space position and radius of the
// k-th circle in a rigid body's geometry run.
func RigidBodyGeomWorld(w *world.WorldState, body, localIndex int) (x, y, radius float64) {
	start := w.RBGeomStart[body]
	lx := w.GeomLocalX[start+localIndex]
	ly := w.GeomLocalY[start+localIndex]
	x, y = WorldTransform(w.RBX[body], w.RBY[body], w.RBAngle[body], lx, ly)
	return x, y, w.GeomRadius[start+localIndex]
}
