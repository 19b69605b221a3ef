// Package verifier reconstructs a partial AVL tree from a proof and
// replays a batch of modifications against it, deriving the post-batch
// digest without ever seeing the prover's full dictionary.
package verifier

import "github.com/reyzin/scrypto/avltree"

// node is implemented by all three verifier-side node variants.
type node interface {
	label() avltree.Label
}

// labelOnlyNode is an opaque subtree represented solely by its label: a
// part of the dictionary the batch never touched.
type labelOnlyNode struct {
	lbl avltree.Label
}

// leafNode is a fully reconstructed leaf, carried by the proof because the
// batch touched it.
type leafNode struct {
	key, next avltree.Key
	value     avltree.Value
	lbl       avltree.Label
}

// internalNode is a fully reconstructed internal node. Unlike the prover's
// internalNode, it carries no split key: the verifier never compares
// search keys against internal nodes, since descent direction comes
// entirely from the proof's direction bitstream.
type internalNode struct {
	left, right node
	balance     avltree.Balance
	lbl         avltree.Label
}

func (n *labelOnlyNode) label() avltree.Label { return n.lbl }
func (n *leafNode) label() avltree.Label      { return n.lbl }
func (n *internalNode) label() avltree.Label  { return n.lbl }
