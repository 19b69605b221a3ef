package prover

import (
	"errors"
	"fmt"

	"github.com/reyzin/scrypto/avltree"
)

// ErrInvariantViolated is wrapped by CheckTree to describe exactly which
// structural guarantee failed.
var ErrInvariantViolated = errors.New("prover: tree invariant violated")

// CheckTree walks the live tree and verifies the AVL balance, sorted-leaf
// chain, and search invariants from scratch. When postProof is true it also
// requires every visited/touched marker to have been cleared, as they
// should be immediately after GenerateProof.
func (p *Prover) CheckTree(postProof bool) error {
	_, _, _, err := p.checkSubtree(p.root, nil, nil, postProof)
	return err
}

// checkSubtree returns (height, leftmostKey, rightmostNext, error). lo/hi
// bound the keys permitted in this subtree (nil = unbounded).
func (p *Prover) checkSubtree(n node, lo, hi avltree.Key, postProof bool) (int, avltree.Key, avltree.Key, error) {
	switch nd := n.(type) {
	case *leafNode:
		if postProof && nd.visited {
			return 0, nil, nil, fmt.Errorf("%w: leaf %x still marked visited", ErrInvariantViolated, nd.key)
		}
		if lo != nil && avltree.CompareKeys(nd.key, lo) < 0 {
			return 0, nil, nil, fmt.Errorf("%w: leaf key below lower bound", ErrInvariantViolated)
		}
		if hi != nil && avltree.CompareKeys(nd.key, hi) >= 0 {
			return 0, nil, nil, fmt.Errorf("%w: leaf key at or above upper bound", ErrInvariantViolated)
		}
		wantLabel := p.hasher.LeafLabel(nd.key, nd.value, nd.next)
		if !wantLabel.Equal(nd.lbl) {
			return 0, nil, nil, fmt.Errorf("%w: stale leaf label", ErrInvariantViolated)
		}
		return 0, nd.key, nd.next, nil

	case *internalNode:
		if postProof && nd.visited {
			return 0, nil, nil, fmt.Errorf("%w: internal node %x still marked visited", ErrInvariantViolated, nd.key)
		}
		leftHeight, leftLo, leftNext, err := p.checkSubtree(nd.left, lo, nd.key, postProof)
		if err != nil {
			return 0, nil, nil, err
		}
		rightHeight, rightLo, rightNext, err := p.checkSubtree(nd.right, nd.key, hi, postProof)
		if err != nil {
			return 0, nil, nil, err
		}
		if avltree.CompareKeys(leftNext, rightLo) != 0 {
			return 0, nil, nil, fmt.Errorf("%w: sorted-leaf-chain break at key %x", ErrInvariantViolated, nd.key)
		}
		wantBalance := avltree.Balance(rightHeight - leftHeight)
		if wantBalance != nd.balance {
			return 0, nil, nil, fmt.Errorf("%w: stored balance %d, computed %d", ErrInvariantViolated, nd.balance, wantBalance)
		}
		if wantBalance < -1 || wantBalance > 1 {
			return 0, nil, nil, fmt.Errorf("%w: balance %d out of range at key %x", ErrInvariantViolated, wantBalance, nd.key)
		}
		wantLabel := p.hasher.InternalLabel(nd.balance, nd.left.label(), nd.right.label())
		if !wantLabel.Equal(nd.lbl) {
			return 0, nil, nil, fmt.Errorf("%w: stale internal label at key %x", ErrInvariantViolated, nd.key)
		}
		height := leftHeight
		if rightHeight > height {
			height = rightHeight
		}
		return height + 1, leftLo, rightNext, nil

	default:
		panic("prover: unknown node type")
	}
}
