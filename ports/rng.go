package ports

// RandomSource is the injectable pseudo-random generator every stochastic draw goes through.
// *math/rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
	Int63() int64
	NormFloat64() float64
	// Read fills p with random bytes; used for reproducible identifiers.
	Read(p []byte) (n int, err error)
}

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// Stream creates a generator for a named operation. The same (name, seed) pair always
	// yields the same sequence; seed 0 requests a high-entropy seed.
	Stream(name string, seed int64) RandomSource

	// Seed reports the effective seed Stream would use for (name, seed).
	Seed(name string, seed int64) int64
}
