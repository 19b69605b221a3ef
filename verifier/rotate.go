package verifier

import "github.com/reyzin/scrypto/avltree"

func (v *Verifier) buildInternal(left, right node) *internalNode {
	bal := avltree.Balance(right.label().Height() - left.label().Height())
	return v.buildInternalRaw(left, right, bal)
}

func (v *Verifier) buildInternalRaw(left, right node, balance avltree.Balance) *internalNode {
	return &internalNode{
		left:    left,
		right:   right,
		balance: balance,
		lbl:     v.hasher.InternalLabel(balance, left.label(), right.label()),
	}
}

// rebalance mirrors prover.rebalance exactly, operating over verifier node
// types and the same shared rotation-balance tables.
func (v *Verifier) rebalance(n *internalNode) node {
	switch n.balance {
	case -2:
		left := n.left.(*internalNode)
		if left.balance <= 0 {
			return v.rotateRight(n, left)
		}
		return v.rotateLeftRight(n, left)
	case 2:
		right := n.right.(*internalNode)
		if right.balance >= 0 {
			return v.rotateLeft(n, right)
		}
		return v.rotateRightLeft(n, right)
	default:
		return n
	}
}

func (v *Verifier) rotateRight(n, pivot *internalNode) node {
	newParentBal, newChildBal := avltree.SingleRotateBalances(pivot.balance)
	newN := v.buildInternalRaw(pivot.right, n.right, newParentBal)
	return v.buildInternalRaw(pivot.left, newN, newChildBal)
}

func (v *Verifier) rotateLeftRight(n, pivot *internalNode) node {
	grandchild := pivot.right.(*internalNode)
	newParentBal, newChildBal, newGrandchildBal := avltree.DoubleRotateBalances(grandchild.balance)
	newN := v.buildInternalRaw(grandchild.right, n.right, newParentBal)
	newPivot := v.buildInternalRaw(pivot.left, grandchild.left, newChildBal)
	return v.buildInternalRaw(newPivot, newN, newGrandchildBal)
}

func (v *Verifier) rotateLeft(n, pivot *internalNode) node {
	newParentBal, newChildBal := avltree.SingleRotateBalances(-pivot.balance)
	newN := v.buildInternalRaw(n.left, pivot.left, -newParentBal)
	return v.buildInternalRaw(newN, pivot.right, -newChildBal)
}

func (v *Verifier) rotateRightLeft(n, pivot *internalNode) node {
	grandchild := pivot.left.(*internalNode)
	newParentBal, newChildBal, newGrandchildBal := avltree.DoubleRotateBalances(-grandchild.balance)
	newN := v.buildInternalRaw(n.left, grandchild.left, -newParentBal)
	newPivot := v.buildInternalRaw(grandchild.right, pivot.right, -newChildBal)
	return v.buildInternalRaw(newN, newPivot, -newGrandchildBal)
}
