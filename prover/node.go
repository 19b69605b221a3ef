package prover

import "github.com/reyzin/scrypto/avltree"

// node is the interface implemented by both prover node variants. Only a
// label accessor is needed generically; everything else is handled through
// type switches, since the two variants behave quite differently during
// descent and rebuild.
type node interface {
	label() avltree.Label
}

// leafNode carries a key, its value, and the key of the next leaf in the
// sorted-leaf chain. visited marks it for inclusion in the next generated
// proof's skeleton; it is cleared once that proof is emitted.
type leafNode struct {
	key, next avltree.Key
	value     avltree.Value
	lbl       avltree.Label
	visited   bool
}

// internalNode carries the split key (the minimum key of its right
// subtree), its two children, and its balance factor (height(right) -
// height(left)).
type internalNode struct {
	key         avltree.Key
	left, right node
	balance     avltree.Balance
	lbl         avltree.Label
	visited     bool
}

func (n *leafNode) label() avltree.Label     { return n.lbl }
func (n *internalNode) label() avltree.Label { return n.lbl }

func height(n node) int { return n.label().Height() }

// cloneLeaf returns a fresh leaf carrying the same fields, marked visited.
// Every path touched during a batch is rebuilt through fresh objects like
// this one so the pre-batch tree, still referenced by any older root a
// caller may be holding, is never mutated in place.
func cloneLeaf(n *leafNode) *leafNode {
	c := *n
	c.visited = true
	return &c
}

// markVisited returns a shallow, visited-marked copy of n, regardless of
// its concrete type. Used when a subtree is re-pointed into a new position
// without any of its own fields changing (e.g. promoting a sibling past a
// deleted leaf).
func markVisited(n node) node {
	switch nd := n.(type) {
	case *leafNode:
		return cloneLeaf(nd)
	case *internalNode:
		c := *nd
		c.visited = true
		return &c
	default:
		panic("prover: unknown node type")
	}
}
