package rng

import "time"

const (
	fnvOffset = 1469598103934665603
	fnvPrime  = 1099511628211
)

// SeedFromString derives a 63-bit non-negative seed from an arbitrary seed
// string using an FNV-1a style hash over its code points. An empty string
// yields a time-derived seed, which is the only non-reproducible path in
// the system.
func SeedFromString(seed string) int64 {
	if seed == "" {
		return time.Now().UnixNano() & math63Mask
	}
	h := uint64(fnvOffset)
	for _, r := range seed {
		h ^= uint64(r)
		h *= fnvPrime
	}
	return int64(h & math63Mask)
}

// math63Mask keeps seeds in the non-negative int64 range.
const math63Mask = 1<<63 - 1
