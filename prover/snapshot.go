package prover

import (
	"fmt"

	"github.com/reyzin/scrypto/avltree"
	"github.com/reyzin/scrypto/internal/log"
	"github.com/reyzin/scrypto/proof"
)

// Snapshot serializes the entire live tree (not just nodes touched since
// the last GenerateProof) using the same skeleton encoding a proof uses,
// with an empty direction stream. It is the wire form the persistence
// layer stores per version.
func (p *Prover) Snapshot() []byte {
	enc := proof.NewEncoder()
	p.walkFull(p.root, enc)
	return enc.Finish()
}

func (p *Prover) walkFull(n node, enc *proof.Encoder) {
	switch nd := n.(type) {
	case *leafNode:
		enc.EmitLeaf(nd.key, nd.value, nd.next)
	case *internalNode:
		p.walkFull(nd.left, enc)
		p.walkFull(nd.right, enc)
		enc.EmitInternal(nd.balance)
	}
}

// Restore reconstructs a Prover from a Snapshot's bytes. Internal tokens in
// the wire format carry no split key, so each internal node's key is
// recovered as the leftmost leaf key of its freshly rebuilt right subtree.
func Restore(data []byte, kl, vl int, logger *log.Logger) (*Prover, error) {
	hasher := avltree.NewHasher()
	r := proof.NewTokenReader(data, kl, vl)
	var stack []node

	for {
		tok, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("prover: restoring snapshot: %w", err)
		}
		switch tok.Kind {
		case proof.EndOfTree:
			if len(stack) != 1 {
				return nil, fmt.Errorf("prover: snapshot left %d elements on the stack, want 1", len(stack))
			}
			return newSeeded(kl, vl, stack[0], logger), nil

		case proof.LabelOnly:
			return nil, fmt.Errorf("prover: snapshot unexpectedly contains an opaque LabelOnly node")

		case proof.LeafWithKey, proof.LeafOmitKey:
			leaf := &leafNode{key: tok.Key, next: tok.Next, value: tok.Value}
			leaf.lbl = hasher.LeafLabel(leaf.key, leaf.value, leaf.next)
			stack = append(stack, leaf)

		default:
			if len(stack) < 2 {
				return nil, fmt.Errorf("prover: snapshot stack underflow")
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			internal := &internalNode{
				key:     leftmostLeafKey(right),
				left:    left,
				right:   right,
				balance: tok.Balance,
			}
			internal.lbl = hasher.InternalLabel(internal.balance, left.label(), right.label())
			stack = append(stack, internal)
		}
	}
}

func leftmostLeafKey(n node) avltree.Key {
	for {
		switch nd := n.(type) {
		case *leafNode:
			return nd.key
		case *internalNode:
			n = nd.left
		default:
			panic("prover: unknown node type")
		}
	}
}
