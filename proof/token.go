// Package proof implements the packed wire encoding shared by the prover and
// verifier: a post-order skeleton of the subtree touched by a batch, followed
// by a terminator and a bit-packed direction stream. Neither side's tree
// representation lives here; this package only knows how to read and write
// the byte-exact wire format both sides must agree on.
package proof

import "github.com/reyzin/scrypto/avltree"

// Token is a single skeleton byte discriminating what follows it.
type Token byte

const (
	// LabelOnly carries an opaque subtree represented solely by its label:
	// used for anything untouched by the batch.
	LabelOnly Token = 0x01
	// LeafWithKey carries a full leaf whose key could not be inferred from
	// the previously emitted leaf's nextLeafKey.
	LeafWithKey Token = 0x02
	// EndOfTree terminates the skeleton; exactly one stack element must
	// remain when it is reached.
	EndOfTree Token = 0x03
	// LeafOmitKey carries a leaf whose key equals the previously emitted
	// leaf's nextLeafKey, so the key bytes themselves are elided.
	LeafOmitKey Token = 0x04
	// InternalNeg/InternalZero/InternalPos pop two stack items and push a
	// new internal node with the named balance.
	InternalNeg  Token = 0x10
	InternalZero Token = 0x11
	InternalPos  Token = 0x12
)

// internalToken maps a balance to its skeleton byte.
func internalToken(b avltree.Balance) Token {
	switch b {
	case avltree.LeftHeavy:
		return InternalNeg
	case avltree.RightHeavy:
		return InternalPos
	default:
		return InternalZero
	}
}

// balanceFromToken is the inverse of internalToken; ok is false for any
// token that is not one of the three internal tokens.
func balanceFromToken(t Token) (avltree.Balance, bool) {
	switch t {
	case InternalNeg:
		return avltree.LeftHeavy, true
	case InternalZero:
		return avltree.Balanced, true
	case InternalPos:
		return avltree.RightHeavy, true
	default:
		return 0, false
	}
}

// IsInternal reports whether t is one of the three internal tokens.
func IsInternal(t Token) bool {
	_, ok := balanceFromToken(t)
	return ok
}
