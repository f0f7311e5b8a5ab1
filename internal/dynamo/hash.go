package dynamo

import (
	"encoding/binary"
	"hash"
	"math"
)

// Hashable is implemented by values that contribute to an integration cache
// key. Implementations write a stable byte representation into h.
type Hashable interface {
	Hash(h hash.Hash64)
}

// HashFloat writes the IEEE-754 bits of f. -0 and +0 hash differently.
func HashFloat(h hash.Hash64, f float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	_, _ = h.Write(buf[:])
}

func HashString(h hash.Hash64, s string) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(s))
}

func (p Position) Hash(h hash.Hash64) {
	HashFloat(h, p.X)
	HashFloat(h, p.Y)
	HashFloat(h, p.Z)
}

func (v Velocity) Hash(h hash.Hash64) {
	HashFloat(h, v.X)
	HashFloat(h, v.Y)
	HashFloat(h, v.Z)
}

func (d Duration) Hash(h hash.Hash64) {
	HashFloat(h, float64(d))
}
