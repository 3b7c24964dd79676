// Package step orchestrates a single fixed-timestep tick: predict, project
// (N iterations x M substeps), then stabilize (spec.md §4.6).
package step

import (
	"github.com/gekko3d-research/xpbdevo/integrate"
	"github.com/gekko3d-research/xpbdevo/solve"
	"github.com/gekko3d-research/xpbdevo/world"
	"github.com/gekko3d-research/xpbdevo/xlog"
)

// Config holds the per-tick parameters (spec.md §6).
type Config struct {
	Dt                float64
	Substeps          int
	Iterations        int
	GravityX, GravityY float64
	Damping           float64
	StabilizationBeta float64

	// Logger receives periodic debug summaries; nil is treated as xlog.NewNop().
	Logger xlog.Logger
}

// frameCount is only used to throttle debug logging the way the teacher's
// PhysicsSystem logs every 60 frames; it is local to a Stepper instance so
// two Steppers never interfere.
type Stepper struct {
	frameCount uint64
}

// New returns a ready-to-use Stepper.
func New() *Stepper { return &Stepper{} }

// Step advances the world by cfg.Dt, in cfg.Substeps XPBD substeps, each
// with cfg.Iterations Gauss-Seidel passes projecting constraints in the
// canonical order: rods -> angles -> motors -> contacts -> joints
// (spec.md §4.4, §4.6).
func (s *Stepper) Step(w *world.WorldState, cfg Config) {
	logger := cfg.Logger
	if logger == nil {
		logger = xlog.NewNop()
	}

	substeps := cfg.Substeps
	if substeps < 1 {
		substeps = 1
	}
	iterations := cfg.Iterations
	if iterations < 1 {
		iterations = 1
	}
	dtSub := cfg.Dt / float64(substeps)

	for sub := 0; sub < substeps; sub++ {
		w.ResetLambdas()

		integrate.ApplyGravity(w, cfg.GravityX, cfg.GravityY)
		integrate.ApplyRigidBodyGravity(w, cfg.GravityX, cfg.GravityY)

		var before integrate.RigidBodyPose
		if cfg.StabilizationBeta > 0 {
			before = integrate.SnapshotRigidBodies(w)
		}

		integrate.Particles(w, dtSub)
		integrate.RigidBodies(w, dtSub)

		for iter := 0; iter < iterations; iter++ {
			solve.Rods(w, dtSub)
			solve.Angles(w, dtSub)
			solve.Motors(w, dtSub)
			solve.Contacts(w, dtSub)
			solve.RigidBodyContacts(w, dtSub)
			solve.Joints(w, dtSub)
		}

		if cfg.StabilizationBeta > 0 {
			integrate.StabilizeRigidBodies(w, before, dtSub, cfg.StabilizationBeta)
		}

		integrate.ApplyDamping(w, cfg.Damping, dtSub)
	}

	s.frameCount++
	if s.frameCount%60 == 0 {
		logger.Debugf("step - particles:%d rods:%d angles:%d motors:%d rigidBodies:%d joints:%d",
			w.NumParticles(), len(w.RodI), len(w.AngleI), len(w.MotorI), len(w.RBX), len(w.JointBodyA))
	}
}
