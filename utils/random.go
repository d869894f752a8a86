package utils

import (
	"math/rand"
	"time"
)

// NewRand returns a source seeded with *seed, or with the wall clock when
// seed is nil. Two sources built from the same seed yield the same stream.
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	}
	return rand.New(rand.NewSource(*seed))
}

// RandomArray returns 'size' samples from U(-1, 1) * scale, drawn in order.
func RandomArray(rng *rand.Rand, size int, scale float64) []float64 {
	out := make([]float64, size)
	for i := 0; i < size; i++ {
		out[i] = (rng.Float64()*2 - 1) * scale
	}
	return out
}
