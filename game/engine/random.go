package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source is the single randomness provider of an engine.
// Dice, deck shuffles, swap picks and teleports all draw from it.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// NewSource returns a deterministic source for the given seed
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewSeed generates a random seed using crypto/rand
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
