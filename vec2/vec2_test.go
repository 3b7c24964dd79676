package vec2

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDegenerate(t *testing.T) {
	n, length := Normalize(mgl64.Vec2{0, 0})
	require.Equal(t, mgl64.Vec2{1, 0}, n)
	require.Equal(t, 0.0, length)
}

func TestNormalizeUnit(t *testing.T) {
	n, length := Normalize(mgl64.Vec2{3, 4})
	require.InDelta(t, 5.0, length, 1e-12)
	require.InDelta(t, 0.6, n.X(), 1e-12)
	require.InDelta(t, 0.8, n.Y(), 1e-12)
}

func TestCross(t *testing.T) {
	require.InDelta(t, 1.0, Cross(mgl64.Vec2{1, 0}, mgl64.Vec2{0, 1}), 1e-12)
	require.InDelta(t, -1.0, Cross(mgl64.Vec2{0, 1}, mgl64.Vec2{1, 0}), 1e-12)
}

func TestAngleBetween(t *testing.T) {
	a := mgl64.Vec2{1, 0}
	b := mgl64.Vec2{0, 1}
	require.InDelta(t, math.Pi/2, AngleBetween(a, b), 1e-12)
	require.InDelta(t, -math.Pi/2, AngleBetween(b, a), 1e-12)
}

func TestWrapAngleIdempotent(t *testing.T) {
	for _, theta := range []float64{0, math.Pi, -math.Pi, math.Pi / 2, 3 * math.Pi, -5 * math.Pi / 2} {
		wrapped := WrapAngle(theta)
		require.GreaterOrEqual(t, wrapped, -math.Pi-1e-9)
		require.LessOrEqual(t, wrapped, math.Pi+1e-9)
		twice := WrapAngle(wrapped)
		require.InDelta(t, wrapped, twice, 1e-9)
	}
}

func TestClamp(t *testing.T) {
	require.Equal(t, 0.0, Clamp(-5, 0, 10))
	require.Equal(t, 10.0, Clamp(15, 0, 10))
	require.Equal(t, 5.0, Clamp(5, 0, 10))
}

func TestRotate(t *testing.T) {
	r := Rotate(mgl64.Vec2{1, 0}, math.Pi/2)
	require.InDelta(t, 0.0, r.X(), 1e-9)
	require.InDelta(t, 1.0, r.Y(), 1e-9)
}
