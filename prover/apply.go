package prover

import (
	"github.com/reyzin/scrypto/avltree"
	"github.com/reyzin/scrypto/proof"
)

// applyOutcome is what each level of apply hands back to its caller.
type applyOutcome struct {
	// node is the (possibly rebuilt) subtree to install at this position.
	// nil only ever appears as the direct return from applyLeaf signalling
	// a deletion; an internal node always resolves a nil child before
	// returning one level further up.
	node node

	// deleted is true once a leaf has been removed somewhere within this
	// subtree, whether or not this call's own position changed structure.
	deleted bool

	// deletedNext carries the removed leaf's nextLeafKey so the
	// predecessor leaf's own next field can be patched to skip over it.
	deletedNext avltree.Key

	// predPending is true while a predecessor patch is still owed: it
	// starts true the instant a leaf is deleted and is resolved (cleared)
	// by the first ancestor reached via its right child on the way back
	// up, since that ancestor's left subtree contains the predecessor.
	predPending bool
}

// apply descends to the leaf governing key, applies f there, and rebuilds
// the path back to n as fresh, rebalanced nodes. Every node on the
// descended path is cloned rather than mutated, so a caller that discards
// the returned outcome's error leaves the original subtree at n completely
// untouched.
func (p *Prover) apply(n node, key avltree.Key, f avltree.UpdateFunc, enc *proof.Encoder) (applyOutcome, error) {
	switch nd := n.(type) {
	case *leafNode:
		return p.applyLeaf(nd, key, f)
	case *internalNode:
		return p.applyInternal(nd, key, f, enc)
	default:
		panic("prover: unknown node type")
	}
}

func (p *Prover) applyLeaf(n *leafNode, key avltree.Key, f avltree.UpdateFunc) (applyOutcome, error) {
	exists := avltree.CompareKeys(key, n.key) == 0
	var old avltree.Value
	if exists {
		old = n.value
	}
	res, err := f(old, exists)
	if err != nil {
		return applyOutcome{}, err
	}

	switch res.Action {
	case avltree.NoOp:
		return applyOutcome{node: markVisited(n)}, nil

	case avltree.Set:
		if exists {
			nn := cloneLeaf(n)
			nn.value = res.Value.Clone()
			nn.lbl = p.hasher.LeafLabel(nn.key, nn.value, nn.next)
			return applyOutcome{node: nn}, nil
		}
		// Insert: n splits into (n with next=key) ‖ (new leaf at key).
		newLeaf := &leafNode{key: key.Clone(), value: res.Value.Clone(), next: n.next.Clone(), visited: true}
		newLeaf.lbl = p.hasher.LeafLabel(newLeaf.key, newLeaf.value, newLeaf.next)
		left := cloneLeaf(n)
		left.next = key.Clone()
		left.lbl = p.hasher.LeafLabel(left.key, left.value, left.next)
		internal := p.buildInternalRaw(key, left, newLeaf, avltree.Balanced)
		return applyOutcome{node: internal}, nil

	case avltree.Delete:
		return applyOutcome{node: nil, deleted: true, deletedNext: n.next.Clone(), predPending: true}, nil

	default:
		panic("prover: unknown update action")
	}
}

func (p *Prover) applyInternal(n *internalNode, key avltree.Key, f avltree.UpdateFunc, enc *proof.Encoder) (applyOutcome, error) {
	goLeft := avltree.CompareKeys(key, n.key) < 0
	enc.EmitDirection(goLeft)

	var child applyOutcome
	var err error
	if goLeft {
		child, err = p.apply(n.left, key, f, enc)
	} else {
		child, err = p.apply(n.right, key, f, enc)
	}
	if err != nil {
		return applyOutcome{}, err
	}

	if child.node == nil {
		// The direct child we recursed into was itself the removed leaf;
		// this node disappears and is replaced by its sibling.
		var sibling node
		if goLeft {
			sibling = markVisited(n.right)
		} else {
			sibling = markVisited(n.left)
		}
		out := applyOutcome{node: sibling, deleted: true, deletedNext: child.deletedNext, predPending: true}
		return p.resolvePredecessor(out, goLeft), nil
	}

	newLeft, newRight := n.left, n.right
	if goLeft {
		newLeft = child.node
	} else {
		newRight = child.node
	}

	if !child.deleted {
		rebuilt := p.buildInternal(n.key, newLeft, newRight)
		return applyOutcome{node: p.rebalance(rebuilt)}, nil
	}

	pending := child.predPending
	splitKey := n.key
	if pending && !goLeft {
		newLeft = p.patchRightmostNext(newLeft, child.deletedNext)
		// The removed leaf was the leftmost of the right subtree, so its
		// successor is now that subtree's minimum key.
		splitKey = child.deletedNext
		pending = false
	}
	rebuilt := p.buildInternal(splitKey, newLeft, newRight)
	return applyOutcome{
		node:        p.rebalance(rebuilt),
		deleted:     true,
		deletedNext: child.deletedNext,
		predPending: pending,
	}, nil
}

// resolvePredecessor patches the predecessor leaf's nextLeafKey into out.node
// when this call sits at the nearest ancestor reached via a right turn (the
// only position whose left subtree is guaranteed to hold the predecessor).
func (p *Prover) resolvePredecessor(out applyOutcome, goLeft bool) applyOutcome {
	if !out.predPending || goLeft {
		return out
	}
	out.node = p.patchRightmostNext(out.node, out.deletedNext)
	out.predPending = false
	return out
}

// patchRightmostNext clones the spine down to n's rightmost leaf and sets
// that leaf's nextLeafKey to newNext, leaving every other leaf untouched.
func (p *Prover) patchRightmostNext(n node, newNext avltree.Key) node {
	switch nd := n.(type) {
	case *leafNode:
		c := cloneLeaf(nd)
		c.next = newNext.Clone()
		c.lbl = p.hasher.LeafLabel(c.key, c.value, c.next)
		return c
	case *internalNode:
		newRight := p.patchRightmostNext(nd.right, newNext)
		return p.buildInternalRaw(nd.key, nd.left, newRight, nd.balance)
	default:
		panic("prover: unknown node type")
	}
}
