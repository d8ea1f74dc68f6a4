package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations.
// Random sources are always explicitly constructed and caller-owned; nothing in
// the system reads from a process-global seed.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named
	// stage. The stage name is mixed into the seed so bootstrap and placebo
	// streams under the same base seed never replay each other's draws, while
	// the same (name, seed) pair always reproduces the same sequence.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)
}
