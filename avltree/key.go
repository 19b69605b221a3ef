// Package avltree holds the types and pure algebra shared by the prover and
// verifier sides of the batched authenticated AVL dictionary: keys, values,
// labels, the domain-tagged hash adapter, and the AVL rotation-balance
// tables. Neither side's tree-walking logic lives here; this package is the
// common vocabulary both sides are built from.
package avltree

import (
	"bytes"
	"errors"
)

// Key is a fixed-length opaque byte string. Ordering is unsigned
// byte-wise lexicographic, most significant byte first.
type Key []byte

// Value is a fixed-length byte string, opaque to the tree itself.
type Value []byte

// ErrReservedKey is returned by the prover when a modification names one of
// the two sentinel keys (NegativeInfinity or PositiveInfinity) as a real
// dictionary key.
var ErrReservedKey = errors.New("avltree: key is reserved (NegativeInfinity or PositiveInfinity)")

// NegativeInfinity returns the all-zero sentinel key of length kl. It seeds
// every fresh tree's sole leaf and must never be used as a real key.
func NegativeInfinity(kl int) Key {
	return make(Key, kl)
}

// PositiveInfinity returns the all-0xFF sentinel key of length kl. It
// terminates the sorted-leaf chain as the rightmost leaf's nextLeafKey and
// must never be used as a real key.
func PositiveInfinity(kl int) Key {
	k := make(Key, kl)
	for i := range k {
		k[i] = 0xFF
	}
	return k
}

// IsSentinel reports whether k is the NegativeInfinity or PositiveInfinity
// sentinel of length kl.
func IsSentinel(k Key, kl int) bool {
	return bytes.Equal(k, NegativeInfinity(kl)) || bytes.Equal(k, PositiveInfinity(kl))
}

// CompareKeys returns -1, 0, or +1 as a is less than, equal to, or greater
// than b, using unsigned lexicographic byte order.
func CompareKeys(a, b Key) int {
	return bytes.Compare(a, b)
}

// Clone returns a fresh copy of k so callers cannot mutate tree-internal
// byte slices through a returned key.
func (k Key) Clone() Key {
	if k == nil {
		return nil
	}
	c := make(Key, len(k))
	copy(c, k)
	return c
}

// Clone returns a fresh copy of v so callers cannot mutate tree-internal
// byte slices through a returned value.
func (v Value) Clone() Value {
	if v == nil {
		return nil
	}
	c := make(Value, len(v))
	copy(c, v)
	return c
}
