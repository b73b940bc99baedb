// Package rng provides the deterministic random source used by map
// generation.
//
// The generator is a splitmix64 stream rather than math/rand so that a given
// seed produces the same placement sequence on every platform and across Go
// releases. Normal variates use the classic Box-Muller transform with a
// spare-value cache: each pair of uniform draws yields two normals, and the
// second is handed out on the following call. The cache is part of the
// observable sequence, so callers must not assume one uniform draw per
// normal draw.
package rng

import "math"

// Source is a deterministic pseudo-random generator. It is not safe for
// concurrent use; every generation run owns its own Source.
type Source struct {
	state    uint64
	spare    float64
	hasSpare bool
}

// New creates a Source from a non-negative 63-bit seed.
func New(seed int64) *Source {
	return &Source{state: uint64(seed)}
}

// next advances the splitmix64 state and returns the next 64-bit value.
func (s *Source) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a uniform value in [0, 1).
func (s *Source) Float64() float64 {
	return float64(s.next()>>11) / (1 << 53)
}

// Intn returns a uniform integer in [0, n). It returns 0 when n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Float64() * float64(n))
}

// NormFloat64 returns a standard-normal value. Draws are produced in pairs
// by the Box-Muller transform; the second value of each pair is cached and
// returned by the next call before new uniforms are consumed.
func (s *Source) NormFloat64() float64 {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}

	u1 := s.Float64()
	for u1 == 0 {
		u1 = s.Float64()
	}
	u2 := s.Float64()

	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	s.spare = r * math.Sin(theta)
	s.hasSpare = true
	return r * math.Cos(theta)
}
