package retina

import "math/rand/v2"

// Stream is an explicit pseudorandom stream threaded through every operator.
// A Stream is not safe for concurrent use; parallel evaluation builds one
// private Stream per individual from a seed drawn with Seed.
type Stream struct {
	src *rand.PCG
	rng *rand.Rand
}

// NewStream creates a deterministic stream from a seed.
func NewStream(seed int64) *Stream {
	src := rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
	return &Stream{src: src, rng: rand.New(src)}
}

// Seed draws a fresh non-negative seed from s without creating a stream.
func (s *Stream) Seed() int64 {
	return s.rng.Int64()
}

// MarshalBinary captures the generator state. Restoring it with
// UnmarshalBinary continues the exact same sequence.
func (s *Stream) MarshalBinary() ([]byte, error) {
	return s.src.MarshalBinary()
}

// UnmarshalBinary replaces the generator state with one captured by MarshalBinary.
func (s *Stream) UnmarshalBinary(data []byte) error {
	if s.src == nil {
		s.src = rand.NewPCG(0, 0)
		s.rng = rand.New(s.src)
	}
	return s.src.UnmarshalBinary(data)
}

// Uniform returns a value uniformly distributed in [lo, hi).
func (s *Stream) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Gaussian returns a normally distributed value with the given mean and standard deviation.
func (s *Stream) Gaussian(mean, stdev float64) float64 {
	return mean + s.rng.NormFloat64()*stdev
}

// Intn returns a value uniformly distributed in [0, n).
func (s *Stream) Intn(n int) int {
	return s.rng.IntN(n)
}

// IntRange returns a value uniformly distributed in [lo, hi).
func (s *Stream) IntRange(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo)
}

// Uint32 returns a uniformly distributed 32-bit code.
func (s *Stream) Uint32() uint32 {
	return s.rng.Uint32()
}

// Float64 returns a value uniformly distributed in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Bernoulli reports true with probability p.
func (s *Stream) Bernoulli(p float64) bool {
	return s.rng.Float64() < p
}

// FillUniform overwrites v with values uniformly distributed in [lo, hi).
func (s *Stream) FillUniform(v []float64, lo, hi float64) {
	for i := range v {
		v[i] = s.Uniform(lo, hi)
	}
}
