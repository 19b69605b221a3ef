package prover

import "github.com/reyzin/scrypto/avltree"

// buildInternal assembles a fresh internal node, computing its balance from
// the actual heights of its (already-finalized) children. The result may be
// transiently out of the [-1,+1] range; rebalance fixes that before the
// node is handed to a caller.
func (p *Prover) buildInternal(key avltree.Key, left, right node) *internalNode {
	bal := avltree.Balance(height(right) - height(left))
	return p.buildInternalRaw(key, left, right, bal)
}

// buildInternalRaw assembles a fresh internal node with an explicit
// balance, used after rotations where the correct balance comes from the
// rotation tables rather than from comparing child heights directly.
func (p *Prover) buildInternalRaw(key avltree.Key, left, right node, balance avltree.Balance) *internalNode {
	n := &internalNode{
		key:     key.Clone(),
		left:    left,
		right:   right,
		balance: balance,
		visited: true,
	}
	n.lbl = p.hasher.InternalLabel(balance, left.label(), right.label())
	return n
}

// rebalance restores the AVL invariant at n if its balance has drifted to
// ±2, via a single or double rotation. Children are assumed already
// balanced; only n itself can be out of range, since it was just rebuilt.
func (p *Prover) rebalance(n *internalNode) node {
	switch n.balance {
	case -2:
		left := n.left.(*internalNode)
		if left.balance <= 0 {
			return p.rotateRight(n, left)
		}
		return p.rotateLeftRight(n, left)
	case 2:
		right := n.right.(*internalNode)
		if right.balance >= 0 {
			return p.rotateLeft(n, right)
		}
		return p.rotateRightLeft(n, right)
	default:
		return n
	}
}

// rotateRight fixes a left-heavy (-2) violation where the left child is
// itself left-heavy or balanced (single rotation).
func (p *Prover) rotateRight(n, pivot *internalNode) node {
	newParentBal, newChildBal := avltree.SingleRotateBalances(pivot.balance)
	newN := p.buildInternalRaw(n.key, pivot.right, n.right, newParentBal)
	return p.buildInternalRaw(pivot.key, pivot.left, newN, newChildBal)
}

// rotateLeftRight fixes a left-heavy (-2) violation where the left child is
// right-heavy (double rotation).
func (p *Prover) rotateLeftRight(n, pivot *internalNode) node {
	grandchild := pivot.right.(*internalNode)
	newParentBal, newChildBal, newGrandchildBal := avltree.DoubleRotateBalances(grandchild.balance)
	newN := p.buildInternalRaw(n.key, grandchild.right, n.right, newParentBal)
	newPivot := p.buildInternalRaw(pivot.key, pivot.left, grandchild.left, newChildBal)
	return p.buildInternalRaw(grandchild.key, newPivot, newN, newGrandchildBal)
}

// rotateLeft fixes a right-heavy (+2) violation where the right child is
// itself right-heavy or balanced; the mirror of rotateRight.
func (p *Prover) rotateLeft(n, pivot *internalNode) node {
	newParentBal, newChildBal := avltree.SingleRotateBalances(-pivot.balance)
	newN := p.buildInternalRaw(n.key, n.left, pivot.left, -newParentBal)
	return p.buildInternalRaw(pivot.key, newN, pivot.right, -newChildBal)
}

// rotateRightLeft fixes a right-heavy (+2) violation where the right child
// is left-heavy; the mirror of rotateLeftRight.
func (p *Prover) rotateRightLeft(n, pivot *internalNode) node {
	grandchild := pivot.left.(*internalNode)
	newParentBal, newChildBal, newGrandchildBal := avltree.DoubleRotateBalances(-grandchild.balance)
	newN := p.buildInternalRaw(n.key, n.left, grandchild.left, -newParentBal)
	newPivot := p.buildInternalRaw(pivot.key, grandchild.right, pivot.right, -newChildBal)
	return p.buildInternalRaw(grandchild.key, newN, newPivot, -newGrandchildBal)
}
