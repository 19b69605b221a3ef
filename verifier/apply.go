package verifier

import (
	"errors"
	"fmt"

	"github.com/reyzin/scrypto/avltree"
)

// ErrModificationInapplicable is returned when the proof does not convey
// the leaf a modification needs, or the modification's update function
// itself rejects the replayed state.
var ErrModificationInapplicable = errors.New("verifier: modification inapplicable")

// ErrProofMalformed covers a descent into unauthenticated territory, an
// exhausted direction bitstream, a skeleton whose stack machine underflows
// or ends with other than one element, and a skeleton touching more leaves
// than the declared envelope allows.
var ErrProofMalformed = errors.New("verifier: proof malformed")

type applyOutcome struct {
	node        node
	inserted    bool
	deleted     bool
	deletedNext avltree.Key
	predPending bool
}

func (v *Verifier) apply(n node, key avltree.Key, f avltree.UpdateFunc) (applyOutcome, error) {
	switch nd := n.(type) {
	case *leafNode:
		return v.applyLeaf(nd, key, f)
	case *internalNode:
		return v.applyInternal(nd, key, f)
	case *labelOnlyNode:
		return applyOutcome{}, fmt.Errorf("verifier: descended into an unauthenticated subtree: %w", ErrProofMalformed)
	default:
		panic("verifier: unknown node type")
	}
}

func (v *Verifier) applyLeaf(n *leafNode, key avltree.Key, f avltree.UpdateFunc) (applyOutcome, error) {
	exists := avltree.CompareKeys(key, n.key) == 0
	if !exists && (avltree.CompareKeys(key, n.key) < 0 || avltree.CompareKeys(key, n.next) >= 0) {
		return applyOutcome{}, fmt.Errorf("verifier: key outside reconstructed leaf band: %w", ErrModificationInapplicable)
	}

	var old avltree.Value
	if exists {
		old = n.value
	}
	res, err := f(old, exists)
	if err != nil {
		return applyOutcome{}, fmt.Errorf("verifier: update function rejected replay: %w", ErrModificationInapplicable)
	}

	switch res.Action {
	case avltree.NoOp:
		return applyOutcome{node: n}, nil

	case avltree.Set:
		if exists {
			nn := &leafNode{key: n.key, next: n.next, value: res.Value.Clone()}
			nn.lbl = v.hasher.LeafLabel(nn.key, nn.value, nn.next)
			return applyOutcome{node: nn}, nil
		}
		newLeaf := &leafNode{key: key.Clone(), value: res.Value.Clone(), next: n.next}
		newLeaf.lbl = v.hasher.LeafLabel(newLeaf.key, newLeaf.value, newLeaf.next)
		left := &leafNode{key: n.key, next: key.Clone(), value: n.value}
		left.lbl = v.hasher.LeafLabel(left.key, left.value, left.next)
		internal := v.buildInternalRaw(left, newLeaf, avltree.Balanced)
		return applyOutcome{node: internal, inserted: true}, nil

	case avltree.Delete:
		return applyOutcome{node: nil, deleted: true, deletedNext: n.next, predPending: true}, nil

	default:
		panic("verifier: unknown update action")
	}
}

func (v *Verifier) applyInternal(n *internalNode, key avltree.Key, f avltree.UpdateFunc) (applyOutcome, error) {
	goLeft, ok := v.dir.Next()
	if !ok {
		return applyOutcome{}, fmt.Errorf("verifier: direction bitstream exhausted: %w", ErrProofMalformed)
	}

	var child applyOutcome
	var err error
	if goLeft {
		child, err = v.apply(n.left, key, f)
	} else {
		child, err = v.apply(n.right, key, f)
	}
	if err != nil {
		return applyOutcome{}, err
	}

	if child.node == nil {
		var sibling node
		if goLeft {
			sibling = n.right
		} else {
			sibling = n.left
		}
		out := applyOutcome{node: sibling, deleted: true, deletedNext: child.deletedNext, predPending: true}
		return v.resolvePredecessor(out, goLeft)
	}

	newLeft, newRight := n.left, n.right
	if goLeft {
		newLeft = child.node
	} else {
		newRight = child.node
	}

	if !child.deleted {
		rebuilt := v.buildInternal(newLeft, newRight)
		return applyOutcome{node: v.rebalance(rebuilt), inserted: child.inserted}, nil
	}

	pending := child.predPending
	if pending && !goLeft {
		patched, err := v.patchRightmostNext(newLeft, child.deletedNext)
		if err != nil {
			return applyOutcome{}, err
		}
		newLeft = patched
		pending = false
	}
	rebuilt := v.buildInternal(newLeft, newRight)
	return applyOutcome{
		node:        v.rebalance(rebuilt),
		deleted:     true,
		deletedNext: child.deletedNext,
		predPending: pending,
	}, nil
}

func (v *Verifier) resolvePredecessor(out applyOutcome, goLeft bool) (applyOutcome, error) {
	if !out.predPending || goLeft {
		return out, nil
	}
	patched, err := v.patchRightmostNext(out.node, out.deletedNext)
	if err != nil {
		return applyOutcome{}, err
	}
	out.node = patched
	out.predPending = false
	return out, nil
}

func (v *Verifier) patchRightmostNext(n node, newNext avltree.Key) (node, error) {
	switch nd := n.(type) {
	case *leafNode:
		c := &leafNode{key: nd.key, next: newNext, value: nd.value}
		c.lbl = v.hasher.LeafLabel(c.key, c.value, c.next)
		return c, nil
	case *internalNode:
		newRight, err := v.patchRightmostNext(nd.right, newNext)
		if err != nil {
			return nil, err
		}
		return v.buildInternalRaw(nd.left, newRight, nd.balance), nil
	default:
		return nil, fmt.Errorf("verifier: predecessor leaf lies in an unauthenticated subtree: %w", ErrProofMalformed)
	}
}
