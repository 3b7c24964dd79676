package vec2

import "github.com/go-gl/mathgl/mgl64"

// SDF contract (spec.md §4.1): phi < 0 means penetration, phi == 0 on the
// boundary, (nx, ny) is the unit outward normal at the query point.

// CircleSDF evaluates the signed distance from point p to a circle centered
// at (cx, cy) with the given radius. The degenerate case (p exactly at the
// center) returns phi = -radius with a deterministic normal of (1, 0).
func CircleSDF(px, py, cx, cy, radius float64) (phi, nx, ny float64) {
	d := Of(px-cx, py-cy)
	n, length := Normalize(d)
	if length < 1e-12 {
		return -radius, 1, 0
	}
	return length - radius, n.X(), n.Y()
}

// CapsuleSDF evaluates the signed distance from p to a capsule whose
// segment runs from the center (cx, cy) along unit axis (ux, uy) for
// halfLength in both directions, inflated by radius. The degenerate case
// (p exactly on the axis) returns phi = -radius with a normal perpendicular
// to the axis.
func CapsuleSDF(px, py, cx, cy, ux, uy, halfLength, radius float64) (phi, nx, ny float64) {
	axis, axisLen := Normalize(Of(ux, uy))
	if axisLen < 1e-12 {
		axis = mgl64.Vec2{1, 0}
	}
	rel := Of(px-cx, py-cy)
	t := Clamp(Dot(rel, axis), -halfLength, halfLength)
	closest := Of(cx, cy).Add(axis.Mul(t))
	d := Of(px, py).Sub(closest)
	n, length := Normalize(d)
	if length < 1e-12 {
		perp := mgl64.Vec2{-axis.Y(), axis.X()}
		return -radius, perp.X(), perp.Y()
	}
	return length - radius, n.X(), n.Y()
}

// OBBSDF evaluates the signed distance from p to an oriented box centered at
// (cx, cy) with local axes (ux, uy) (the local-x axis; local-y is its
// perpendicular) and half-extents (hx, hy). Inside the box, phi is negative
// and the normal points out through the nearest face; outside, phi is the
// distance to the clamped point. The degenerate case (p exactly at the
// center) returns phi = -min(hx, hy) with normal (1, 0) in world space.
func OBBSDF(px, py, cx, cy, ux, uy, hx, hy float64) (phi, nx, ny float64) {
	axisX, axisLen := Normalize(Of(ux, uy))
	if axisLen < 1e-12 {
		axisX = mgl64.Vec2{1, 0}
	}
	axisY := mgl64.Vec2{-axisX.Y(), axisX.X()}

	rel := Of(px-cx, py-cy)
	localX := Dot(rel, axisX)
	localY := Dot(rel, axisY)

	if localX == 0 && localY == 0 {
		he := hx
		if hy < he {
			he = hy
		}
		return -he, 1, 0
	}

	clampedX := Clamp(localX, -hx, hx)
	clampedY := Clamp(localY, -hy, hy)

	inside := localX > -hx && localX < hx && localY > -hy && localY < hy
	if inside {
		distToFaceX := hx - abs(localX)
		distToFaceY := hy - abs(localY)
		var localNX, localNY, depth float64
		if distToFaceX < distToFaceY {
			depth = distToFaceX
			localNX = sign(localX)
			localNY = 0
		} else {
			depth = distToFaceY
			localNX = 0
			localNY = sign(localY)
		}
		world := axisX.Mul(localNX).Add(axisY.Mul(localNY))
		return -depth, world.X(), world.Y()
	}

	localClosest := mgl64.Vec2{clampedX, clampedY}
	localDiff := mgl64.Vec2{localX, localY}.Sub(localClosest)
	n, length := Normalize(localDiff)
	world := axisX.Mul(n.X()).Add(axisY.Mul(n.Y()))
	if length < 1e-12 {
		return 0, world.X(), world.Y()
	}
	return length, world.X(), world.Y()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
