package avltree

import (
	"golang.org/x/crypto/sha3"
)

// DigestSize is the fixed width of the underlying cryptographic digest, in
// bytes. Keccak-256 is the concrete hash function used here.
const DigestSize = 32

// Domain tags distinguish leaf and internal node preimages so a leaf label
// can never collide with an internal label for the same bytes.
const (
	leafDomainTag     byte = 0x00
	internalDomainTag byte = 0x01
)

// Label is a node commitment: a DigestSize-byte hash with one trailing
// height byte. Because Go's byte is unsigned, the height is read back
// directly with no sign correction (unlike languages with signed bytes,
// where a negative byte value needs +256 added back).
type Label []byte

// Size is the fixed length of every Label value.
const Size = DigestSize + 1

// Height returns the subtree height recorded in the label's trailing byte.
func (l Label) Height() int {
	return int(l[len(l)-1])
}

// Equal reports whether two labels are byte-identical.
func (l Label) Equal(other Label) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the label.
func (l Label) Clone() Label {
	c := make(Label, len(l))
	copy(c, l)
	return c
}

// Hasher computes node labels. It wraps a fresh Keccak-256 state per call
// (sha3 state is not safe for concurrent reuse), matching the declared
// single-threaded, one-hasher-per-instance resource model.
type Hasher struct{}

// NewHasher creates a label hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// LeafLabel computes H(0x00 || key || value || nextLeafKey) and appends a
// height byte of 0 (leaves are always height 0).
func (h *Hasher) LeafLabel(key Key, value Value, next Key) Label {
	d := sha3.NewLegacyKeccak256()
	d.Write([]byte{leafDomainTag})
	d.Write(key)
	d.Write(value)
	d.Write(next)
	sum := d.Sum(nil)
	return append(sum, 0)
}

// InternalLabel computes H(0x01 || balance || left.label || right.label)
// and appends a height byte of max(left.height, right.height)+1.
func (h *Hasher) InternalLabel(balance Balance, left, right Label) Label {
	d := sha3.NewLegacyKeccak256()
	d.Write([]byte{internalDomainTag, balance.Byte()})
	d.Write(left)
	d.Write(right)
	sum := d.Sum(nil)
	lh, rh := left.Height(), right.Height()
	height := lh
	if rh > height {
		height = rh
	}
	return append(sum, byte(height+1))
}
