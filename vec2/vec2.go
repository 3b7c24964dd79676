// Package vec2 provides scalar 2-D vector helpers and signed-distance
// primitives shared by the physics solver and collision layer.
package vec2

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Of builds a working mgl64.Vec2 from two SoA floats. WorldState never
// stores Vec2 values directly (see SPEC_FULL.md §4.1) — this is the only
// seam between the flat storage and vector arithmetic.
func Of(x, y float64) mgl64.Vec2 { return mgl64.Vec2{x, y} }

// Dot returns a.Dot(b).
func Dot(a, b mgl64.Vec2) float64 { return a.Dot(b) }

// Cross returns the scalar z-component of the 3-D cross product of a and b
// extended with z=0: a.X*b.Y - a.Y*b.X.
func Cross(a, b mgl64.Vec2) float64 { return a.X()*b.Y() - a.Y()*b.X() }

// Normalize returns (unit vector, original length). A degenerate (near-zero)
// input returns ((1,0), 0) per spec.md §4.1 rather than propagating NaN.
func Normalize(v mgl64.Vec2) (mgl64.Vec2, float64) {
	length := v.Len()
	if length < 1e-12 {
		return mgl64.Vec2{1, 0}, 0
	}
	return v.Mul(1 / length), length
}

// AngleBetween returns the signed angle from a to b in (-pi, pi], via
// atan2(cross, dot) — robust near 0 and pi, unlike acos(dot/|a||b|).
func AngleBetween(a, b mgl64.Vec2) float64 {
	return math.Atan2(Cross(a, b), Dot(a, b))
}

// WrapAngle wraps theta into [-pi, pi]. Idempotent on that range.
func WrapAngle(theta float64) float64 {
	if theta >= -math.Pi && theta <= math.Pi {
		return theta
	}
	theta = math.Mod(theta+math.Pi, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta - math.Pi
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rotate rotates v by theta radians (counter-clockwise).
func Rotate(v mgl64.Vec2, theta float64) mgl64.Vec2 {
	s, c := math.Sincos(theta)
	return mgl64.Vec2{
		c*v.X() - s*v.Y(),
		s*v.X() + c*v.Y(),
	}
}
