package common

import "time"

// SeededRNG implements a Mulberry32 seeded pseudo-random number generator.
// It is the entropy source for synthesized noise, reverb impulses and wind jitter.
// Not safe for concurrent use; the engine only touches it under its own lock.
type SeededRNG struct {
	state       uint32
	initialSeed uint32
}

// NewSeededRNG creates a new seeded random number generator.
func NewSeededRNG(seed uint32) *SeededRNG {
	return &SeededRNG{
		state:       seed,
		initialSeed: seed,
	}
}

// NewEntropyRNG seeds a generator from the wall clock.
func NewEntropyRNG() *SeededRNG {
	return NewSeededRNG(MixSeed(uint32(time.Now().UnixNano()), 0))
}

// Seed returns the seed the generator was created with.
func (r *SeededRNG) Seed() uint32 {
	return r.initialSeed
}

// Reset resets the generator to its initial seed.
func (r *SeededRNG) Reset() {
	r.state = r.initialSeed
}

// Random generates the next random number using Mulberry32 algorithm.
// Returns a float64 between 0 (inclusive) and 1 (exclusive).
func (r *SeededRNG) Random() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Bipolar returns a uniform sample in [-1, 1).
func (r *SeededRNG) Bipolar() float64 {
	return r.Random()*2 - 1
}

// Derive returns an independent generator for the given stream number.
// Each noise buffer or impulse response draws from its own stream so that
// building one voice never shifts the samples of another.
func (r *SeededRNG) Derive(stream uint32) *SeededRNG {
	r.state += 0x9E3779B9
	return NewSeededRNG(MixSeed(r.state, stream))
}

// MixSeed combines a base seed and a stream number into a well-distributed seed.
func MixSeed(baseSeed uint32, stream uint32) uint32 {
	seed := baseSeed ^ (stream * 2654435761)
	seed = (seed ^ (seed >> 16)) * 0x85ebca6b
	seed = (seed ^ (seed >> 13)) * 0xc2b2ae35
	return seed ^ (seed >> 16)
}
