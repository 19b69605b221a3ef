package verifier

import (
	"fmt"

	"github.com/reyzin/scrypto/proof"
)

// decodeSkeleton runs the stack machine described by the proof codec over
// data, returning the reconstructed root and the byte offset where the
// direction bitstream begins. touchedLeaves counts the leaf tokens that
// carried real content, used for the construction-time envelope check.
func (v *Verifier) decodeSkeleton(data []byte) (root node, dirStart int, touchedLeaves int, err error) {
	r := proof.NewTokenReader(data, v.kl, v.vl)
	var stack []node

	for {
		tok, err := r.Next()
		if err != nil {
			return nil, 0, 0, err
		}
		switch tok.Kind {
		case proof.EndOfTree:
			if len(stack) != 1 {
				return nil, 0, 0, fmt.Errorf("verifier: skeleton left %d elements on the stack, want 1: %w", len(stack), ErrProofMalformed)
			}
			return stack[0], r.Pos(), touchedLeaves, nil

		case proof.LabelOnly:
			stack = append(stack, &labelOnlyNode{lbl: tok.Label})

		case proof.LeafWithKey, proof.LeafOmitKey:
			lbl := v.hasher.LeafLabel(tok.Key, tok.Value, tok.Next)
			stack = append(stack, &leafNode{key: tok.Key, next: tok.Next, value: tok.Value, lbl: lbl})
			touchedLeaves++

		default:
			bal := tok.Balance
			if len(stack) < 2 {
				return nil, 0, 0, fmt.Errorf("verifier: skeleton stack underflow: %w", ErrProofMalformed)
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			lbl := v.hasher.InternalLabel(bal, left.label(), right.label())
			stack = append(stack, &internalNode{left: left, right: right, balance: bal, lbl: lbl})
		}
	}
}
