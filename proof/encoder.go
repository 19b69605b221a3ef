package proof

import "github.com/reyzin/scrypto/avltree"

// Encoder accumulates a proof's skeleton bytes and direction bits as a
// prover walks the nodes touched by a batch. Skeleton tokens must be
// emitted in post-order (children before parent); direction bits may be
// emitted in any order relative to the skeleton, since the two streams are
// concatenated only at Finish.
type Encoder struct {
	skeleton []byte
	bits     bitWriter

	havePrevLeaf bool
	prevLeafNext avltree.Key
}

// NewEncoder creates an empty proof encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EmitLabelOnly appends a LabelOnly token for an untouched subtree.
func (e *Encoder) EmitLabelOnly(label avltree.Label) {
	e.skeleton = append(e.skeleton, byte(LabelOnly))
	e.skeleton = append(e.skeleton, label...)
}

// EmitLeaf appends a leaf token, eliding key if it equals the previous
// emitted leaf's nextLeafKey (the sorted-leaf-chain invariant makes that
// inference sound: no other leaf can share that key).
func (e *Encoder) EmitLeaf(key avltree.Key, value avltree.Value, next avltree.Key) {
	omit := e.havePrevLeaf && avltree.CompareKeys(e.prevLeafNext, key) == 0
	if omit {
		e.skeleton = append(e.skeleton, byte(LeafOmitKey))
	} else {
		e.skeleton = append(e.skeleton, byte(LeafWithKey))
		e.skeleton = append(e.skeleton, key...)
	}
	e.skeleton = append(e.skeleton, next...)
	e.skeleton = append(e.skeleton, value...)
	e.havePrevLeaf = true
	e.prevLeafNext = next
}

// EmitInternal appends an internal token carrying the node's balance; the
// two child tokens it consumes must already have been emitted.
func (e *Encoder) EmitInternal(balance avltree.Balance) {
	e.skeleton = append(e.skeleton, byte(internalToken(balance)))
}

// EmitDirection appends one bit to the direction stream (true = left).
func (e *Encoder) EmitDirection(isLeft bool) {
	e.bits.writeBit(isLeft)
}

// Finish appends EndOfTree and the padded direction stream, returning the
// complete proof as a fresh, owned byte string.
func (e *Encoder) Finish() []byte {
	out := make([]byte, 0, len(e.skeleton)+1+len(e.bits.bytes()))
	out = append(out, e.skeleton...)
	out = append(out, byte(EndOfTree))
	out = append(out, e.bits.bytes()...)
	return out
}
