// Package randutil centralises how RNGs are seeded so that every consumer
// (deck shuffles, room codes, bot noise) gets a reproducible sequence from a
// single int64 seed.
package randutil

import rand "math/rand/v2"

// New returns a *rand.Rand seeded deterministically from the provided int64.
// rand/v2's PCG wants two 64-bit seeds; both are derived from the input via
// splitmix64 steps so nearby seeds still produce unrelated streams.
func New(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(splitmix64(&s), splitmix64(&s)))
}

func splitmix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
