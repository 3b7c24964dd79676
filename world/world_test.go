package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddParticlePinned(t *testing.T) {
	w := New()
	id := w.AddParticle(1, 2, 0, 0, 0, 0.1)
	require.Equal(t, 0.0, w.InvMass[id])
}

func TestAddParticleMobile(t *testing.T) {
	w := New()
	id := w.AddParticle(0, 0, 0, 0, 2, 0.1)
	require.InDelta(t, 0.5, w.InvMass[id], 1e-12)
}

func TestAddAngleConstraintAsRod(t *testing.T) {
	w := New()
	i := w.AddParticle(1, 0, 0, 0, 1, 0)
	j := w.AddParticle(0, 0, 0, 0, 1, 0)
	k := w.AddParticle(0, 1, 0, 0, 1, 0)
	rodID := w.AddAngleConstraintAsRod(i, j, k, math.Pi/2, 1, 1, 0)

	// current distance(i,k) for a right angle with unit legs is sqrt(2)
	require.InDelta(t, math.Sqrt2, w.RodRestLength[rodID], 1e-9)
	require.Equal(t, i, w.RodI[rodID])
	require.Equal(t, k, w.RodJ[rodID])
}

func TestAddRodRejectsSelfLoop(t *testing.T) {
	w := New()
	i := w.AddParticle(0, 0, 0, 0, 1, 0)
	_, err := w.AddRod(i, i, 1, 0)
	require.Error(t, err)
}

func TestResetLambdas(t *testing.T) {
	w := New()
	i := w.AddParticle(0, 0, 0, 0, 1, 0)
	j := w.AddParticle(1, 0, 0, 0, 1, 0)
	rodID, err := w.AddRod(i, j, 1, 0)
	require.NoError(t, err)
	w.RodLambda[rodID] = 42

	w.ResetLambdas()
	require.Equal(t, 0.0, w.RodLambda[rodID])
}

func TestClearForces(t *testing.T) {
	w := New()
	id := w.AddParticle(0, 0, 0, 0, 1, 0)
	w.ForceX[id] = 5
	w.ForceY[id] = 5
	w.ClearForces()
	require.Equal(t, 0.0, w.ForceX[id])
	require.Equal(t, 0.0, w.ForceY[id])
}

func TestRigidBodyGeomContiguity(t *testing.T) {
	w := New()
	rb := w.AddRigidBody(0, 0, 0, 0, 0, 0, 1, 1)
	w.AddRigidBodyGeom(rb, 0, 0, 0.5)
	w.AddRigidBodyGeom(rb, 1, 0, 0.5)

	require.Equal(t, 0, w.RBGeomStart[rb])
	require.Equal(t, 2, w.RBGeomCount[rb])
}

func TestJointLimitsAndMotor(t *testing.T) {
	w := New()
	a := w.AddRigidBody(0, 0, 0, 0, 0, 0, 1, 1)
	b := w.AddRigidBody(1, 0, 0, 0, 0, 0, 1, 1)
	joint := w.AddRevoluteJoint(a, b, 0, 0, 0, 0, 0)

	w.SetJointLimits(joint, -1, 1)
	w.SetJointMotor(joint, 2, 5)

	require.True(t, w.JointEnableLimits[joint])
	require.True(t, w.JointEnableMotor[joint])
	require.InDelta(t, 2.0, w.JointMotorSpeed[joint], 1e-12)
}
