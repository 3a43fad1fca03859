package game

import "golang.org/x/exp/rand"

// Random is the only source of chance in the simulation. Every draw made by the
// executor and the simulator goes through it, so a seeded Random replays a match
// exactly.
type Random interface {
	Float64() float64
}

// NewRandom returns a PCG-backed generator seeded with seed.
func NewRandom(seed uint64) Random {
	return rand.New(rand.NewSource(seed))
}

// uniform draws from [lo, hi).
func uniform(rnd Random, lo, hi float64) float64 {
	return lo + rnd.Float64()*(hi-lo)
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
