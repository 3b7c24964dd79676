package integrate

import (
	"testing"

	"github.com/gekko3d-research/xpbdevo/world"
	"github.com/stretchr/testify/require"
)

func TestFreeFall(t *testing.T) {
	w := world.New()
	id := w.AddParticle(0, 0, 0, 0, 1, 0)

	dt := 1.0 / 60.0
	for step := 0; step < 60; step++ {
		ApplyGravity(w, 0, -9.81)
		Particles(w, dt)
	}

	// symplectic-Euler drift bound, spec.md §8 scenario 1
	require.InDelta(t, -9.81/2, w.PosY[id], 0.02*9.81)
}

func TestPinnedParticleUnaffected(t *testing.T) {
	w := world.New()
	id := w.AddParticle(5, 5, 0, 0, 0, 0)
	ApplyGravity(w, 0, -9.81)
	Particles(w, 1.0/60.0)

	require.Equal(t, 5.0, w.PosX[id])
	require.Equal(t, 5.0, w.PosY[id])
	require.Equal(t, 0.0, w.VelY[id])
}

func TestDampingReducesVelocity(t *testing.T) {
	w := world.New()
	id := w.AddParticle(0, 0, 2, 0, 1, 0)
	ApplyDamping(w, 1.0, 0.5)
	require.InDelta(t, 1.0, w.VelX[id], 1e-12)
}

func TestDampingFloorsAtZero(t *testing.T) {
	w := world.New()
	id := w.AddParticle(0, 0, 2, 0, 1, 0)
	ApplyDamping(w, 10.0, 1.0)
	require.Equal(t, 0.0, w.VelX[id])
}

func TestStabilizeRigidBodiesFullBeta(t *testing.T) {
	w := world.New()
	rb := w.AddRigidBody(0, 0, 0, 3, 0, 0, 1, 1)
	before := SnapshotRigidBodies(w)
	w.RBX[rb] = 1 // constraint moved the body by 1 unit over dt=1
	StabilizeRigidBodies(w, before, 1.0, 1.0)
	require.InDelta(t, 1.0, w.RBVelX[rb], 1e-12)
}

func TestStabilizeRigidBodiesDisabled(t *testing.T) {
	w := world.New()
	rb := w.AddRigidBody(0, 0, 0, 3, 0, 0, 1, 1)
	before := SnapshotRigidBodies(w)
	w.RBX[rb] = 1
	StabilizeRigidBodies(w, before, 1.0, 0.0)
	require.InDelta(t, 3.0, w.RBVelX[rb], 1e-12)
}
