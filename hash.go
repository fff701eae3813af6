package symtable

import (
	"github.com/cespare/xxhash/v2"
)

// HashFunc maps a key to an unreduced 64-bit hash. The table reduces it
// modulo the current bucket count.
type HashFunc func(key string) uint64

const hashMultiplier = 65599

// MultiplicativeHash computes h = h*65599 + b over the bytes of key with
// wraparound. It is the default HashFunc.
func MultiplicativeHash(key string) uint64 {
	var h uint64
	for i := 0; i < len(key); i++ {
		h = h*hashMultiplier + uint64(key[i])
	}
	return h
}

// XXHash hashes key with xxhash64.
func XXHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Hash returns the bucket index of key in a table of bucketCount buckets
// using MultiplicativeHash. It panics if bucketCount is not positive.
func Hash(key string, bucketCount int) int {
	if bucketCount <= 0 {
		panic("symtable: non-positive bucket count")
	}
	return int(MultiplicativeHash(key) % uint64(bucketCount))
}
