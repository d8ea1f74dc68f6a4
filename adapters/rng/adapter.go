package rng

import (
	"context"
	"math/rand"
)

// Adapter implements ports.RNGPort with explicitly seeded math/rand sources.
// Sources are caller-owned; the adapter never touches the global generator.
type Adapter struct{}

// New creates an RNG adapter.
func New() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic RNG stream for a named stage by mixing
// the stage name into the base seed, so distinct stages of one analysis never
// share a draw sequence and the same (name, seed) pair always replays.
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if name != "" {
		seed += int64(hashString(name))
	}
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = hash*33 + uint32(c)
	}
	return hash
}
