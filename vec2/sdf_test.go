package vec2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCircleSDFBoundary(t *testing.T) {
	phi, nx, ny := CircleSDF(1, 0, 0, 0, 1)
	require.InDelta(t, 0.0, phi, 1e-9)
	require.InDelta(t, 1.0, nx, 1e-9)
	require.InDelta(t, 0.0, ny, 1e-9)
}

func TestCircleSDFInside(t *testing.T) {
	phi, _, _ := CircleSDF(0.5, 0, 0, 0, 1)
	require.InDelta(t, -0.5, phi, 1e-9)
}

func TestCircleSDFDegenerate(t *testing.T) {
	phi, nx, ny := CircleSDF(0, 0, 0, 0, 2)
	require.InDelta(t, -2.0, phi, 1e-9)
	require.Equal(t, 1.0, nx)
	require.Equal(t, 0.0, ny)
}

func TestCapsuleSDFAlongAxis(t *testing.T) {
	// Capsule from (-1,0) to (1,0), radius 0.5, query directly above center.
	phi, nx, ny := CapsuleSDF(0, 0.5, 0, 0, 1, 0, 1, 0.5)
	require.InDelta(t, 0.0, phi, 1e-9)
	require.InDelta(t, 0.0, nx, 1e-9)
	require.InDelta(t, 1.0, ny, 1e-9)
}

func TestCapsuleSDFPastEnd(t *testing.T) {
	phi, nx, ny := CapsuleSDF(2.5, 0, 0, 0, 1, 0, 1, 0.5)
	require.InDelta(t, 1.0, phi, 1e-9)
	require.InDelta(t, 1.0, nx, 1e-9)
	require.InDelta(t, 0.0, ny, 1e-9)
}

func TestOBBSDFInsideNearestFace(t *testing.T) {
	// Box centered at origin, axis-aligned, half-extents 2x1.
	phi, nx, ny := OBBSDF(0, 0.9, 0, 0, 1, 0, 2, 1)
	require.Less(t, phi, 0.0)
	require.InDelta(t, 0.0, nx, 1e-9)
	require.InDelta(t, 1.0, ny, 1e-9)
}

func TestOBBSDFOutside(t *testing.T) {
	phi, nx, ny := OBBSDF(3, 0, 0, 0, 1, 0, 2, 1)
	require.InDelta(t, 1.0, phi, 1e-9)
	require.InDelta(t, 1.0, nx, 1e-9)
	require.InDelta(t, 0.0, ny, 1e-9)
}

func TestOBBSDFRotated(t *testing.T) {
	// Axis rotated 90deg: local-x is world +Y, so local-y is world -X.
	phi, nx, ny := OBBSDF(2, 0, 0, 0, 0, 1, 1, 1)
	require.InDelta(t, 1.0, phi, 1e-9)
	require.InDelta(t, 1.0, nx, 1e-9)
	require.InDelta(t, 0.0, ny, 1e-9)
}

func TestOBBSDFDegenerate(t *testing.T) {
	phi, _, _ := OBBSDF(0, 0, 0, 0, 1, 0, 3, 2)
	require.InDelta(t, -2.0, phi, 1e-9)
}
