// Package xrand centralizes the one seeding convention every seed-scoped
// random stream in this repository follows: a private *rand.Rand built
// from an explicit int64 seed, never the global math/rand source.
// Grounded on particles_ecs.go's rand.New(rand.NewSource(seed)) per-worker
// pattern, generalized here to a single call site evolve and task-facing
// evaluators both go through (SPEC_FULL.md §5).
package xrand

import "math/rand"

// New returns a freshly seeded generator.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Derive produces a child seed that is deterministic in (seed, index),
// letting one seed fan out into independent streams — one per batch slot,
// one per worker — without drawing from (and thereby perturbing) a shared
// *rand.Rand. Uses splitmix64's mixing step.
func Derive(seed int64, index int) int64 {
	h := uint64(seed) + uint64(index)*0x9E3779B97F4A7C15
	h = (h ^ (h >> 30)) * 0xBF58476D1CE4E5B9
	h = (h ^ (h >> 27)) * 0x94D049BB133111EB
	h ^= h >> 31
	return int64(h)
}
