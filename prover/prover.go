// Package prover implements the mutable, AVL-balanced side of the
// authenticated dictionary: a copy-on-write tree that applies batches of
// modifications and, on request, serializes a compact proof of everything
// it touched since the last batch.
package prover

import (
	"fmt"

	"github.com/reyzin/scrypto/avltree"
	"github.com/reyzin/scrypto/internal/log"
	"github.com/reyzin/scrypto/proof"
)

// Prover holds a single authenticated AVL dictionary. It is not safe for
// concurrent use: one logical thread performs a batch of modifications
// followed by a single GenerateProof.
type Prover struct {
	kl, vl int
	hasher *avltree.Hasher
	root   node
	enc    *proof.Encoder
	logger *log.Logger
}

// New creates an empty dictionary with the given key and value lengths,
// logging to the package default logger.
func New(kl, vl int) *Prover {
	return NewWithLogger(kl, vl, log.Default())
}

// NewWithLogger creates an empty dictionary using the supplied logger as
// the parent for this prover's "prover" child logger.
func NewWithLogger(kl, vl int, logger *log.Logger) *Prover {
	h := avltree.NewHasher()
	neg := avltree.NegativeInfinity(kl)
	pos := avltree.PositiveInfinity(kl)
	root := &leafNode{key: neg, next: pos, value: make(avltree.Value, vl)}
	root.lbl = h.LeafLabel(root.key, root.value, root.next)
	return &Prover{
		kl:     kl,
		vl:     vl,
		hasher: h,
		root:   root,
		enc:    proof.NewEncoder(),
		logger: logger.Module("prover"),
	}
}

// newSeeded rebuilds a Prover directly from a restored root, used by the
// persistence layer after a rollback.
func newSeeded(kl, vl int, root node, logger *log.Logger) *Prover {
	return &Prover{
		kl:     kl,
		vl:     vl,
		hasher: avltree.NewHasher(),
		root:   root,
		enc:    proof.NewEncoder(),
		logger: logger.Module("prover"),
	}
}

// PerformOneModification applies a single modification to the live tree.
// On failure the tree is left byte-for-byte as it was before the call and
// nothing is recorded into the pending proof. A modification naming one of
// the two sentinel keys fails with avltree.ErrReservedKey.
func (p *Prover) PerformOneModification(m avltree.Modification) error {
	if avltree.IsSentinel(m.Key, p.kl) {
		p.logger.Debug("modification rejected", "kind", m.Kind, "error", avltree.ErrReservedKey)
		return fmt.Errorf("prover: modification rejected: %w", avltree.ErrReservedKey)
	}
	// Dry run against a scratch encoder first, so a rejected modification
	// leaves no direction bits behind in the batch's proof.
	if _, err := p.apply(p.root, m.Key, m.UpdateFn, proof.NewEncoder()); err != nil {
		p.logger.Debug("modification rejected", "kind", m.Kind, "error", err)
		return fmt.Errorf("prover: modification rejected: %w", err)
	}
	outcome, err := p.apply(p.root, m.Key, m.UpdateFn, p.enc)
	if err != nil {
		p.logger.Debug("modification rejected", "kind", m.Kind, "error", err)
		return fmt.Errorf("prover: modification rejected: %w", err)
	}
	p.root = outcome.node
	return nil
}

// GenerateProof serializes the skeleton of every node visited since the
// last call, appends the direction bitstream recorded across those calls,
// resets all visited markers, and returns a fresh, owned byte string.
func (p *Prover) GenerateProof() []byte {
	p.walkSkeleton(p.root, p.enc)
	out := p.enc.Finish()
	p.clearVisited(p.root)
	p.enc = proof.NewEncoder()
	p.logger.Info("proof generated", "bytes", len(out))
	return out
}

func (p *Prover) walkSkeleton(n node, enc *proof.Encoder) {
	switch nd := n.(type) {
	case *leafNode:
		if nd.visited {
			enc.EmitLeaf(nd.key, nd.value, nd.next)
		} else {
			enc.EmitLabelOnly(nd.lbl)
		}
	case *internalNode:
		if nd.visited {
			p.walkSkeleton(nd.left, enc)
			p.walkSkeleton(nd.right, enc)
			enc.EmitInternal(nd.balance)
		} else {
			enc.EmitLabelOnly(nd.lbl)
		}
	}
}

func (p *Prover) clearVisited(n node) {
	switch nd := n.(type) {
	case *leafNode:
		nd.visited = false
	case *internalNode:
		if nd.visited {
			nd.visited = false
			p.clearVisited(nd.left)
			p.clearVisited(nd.right)
		}
	}
}

// Digest returns a fresh copy of the root label, digestSize+1 bytes with
// the root height as the trailing byte.
func (p *Prover) Digest() avltree.Label {
	return p.root.label().Clone()
}

// UnauthenticatedLookup reads a value without touching any proof state.
func (p *Prover) UnauthenticatedLookup(key avltree.Key) (avltree.Value, bool) {
	n := p.root
	for {
		switch nd := n.(type) {
		case *leafNode:
			if avltree.CompareKeys(key, nd.key) == 0 {
				return nd.value.Clone(), true
			}
			return nil, false
		case *internalNode:
			if avltree.CompareKeys(key, nd.key) < 0 {
				n = nd.left
			} else {
				n = nd.right
			}
		}
	}
}
