package service

import (
	"math/rand"
	"time"
)

// Random is the single source of randomness used by session building.
// *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRandom returns a random source seeded from the current time.
func NewRandom() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeededRandom returns a deterministic random source.
func NewSeededRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
