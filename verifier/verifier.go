package verifier

import (
	"errors"
	"fmt"

	"github.com/reyzin/scrypto/avltree"
	"github.com/reyzin/scrypto/internal/log"
	"github.com/reyzin/scrypto/proof"
)

// ErrEnvelopeMismatch is returned when the number of inserts/deletes
// actually replayed does not match the declared (maxInserts, maxDeletes)
// envelope. A skeleton too large for the envelope is reported as
// ErrProofMalformed instead.
var ErrEnvelopeMismatch = errors.New("verifier: envelope mismatch")

// ErrDigestMismatch is returned when the reconstructed root's label does
// not match the starting digest supplied at construction.
var ErrDigestMismatch = errors.New("verifier: digest mismatch")

// Verifier replays a batch of modifications against a partial tree
// reconstructed from a proof. Once any check fails, it is permanently
// failed: Digest and every subsequent PerformOneModification report ok ==
// false.
type Verifier struct {
	kl, vl               int
	maxInserts, maxDeletes int
	hasher                *avltree.Hasher
	logger                *log.Logger

	root   node
	dir    *proof.DirectionReader
	failed bool
	err    error

	insertCount, deleteCount int
}

// New constructs a verifier from a proof and a declared envelope. If the
// proof is malformed, the skeleton exceeds the envelope, or the
// reconstructed root's label does not equal startingDigest, the returned
// verifier starts out already failed.
func New(startingDigest avltree.Label, proofBytes []byte, kl, vl, maxInserts, maxDeletes int) *Verifier {
	return NewWithLogger(startingDigest, proofBytes, kl, vl, maxInserts, maxDeletes, log.Default())
}

// NewWithLogger is New with an explicit parent logger.
func NewWithLogger(startingDigest avltree.Label, proofBytes []byte, kl, vl, maxInserts, maxDeletes int, logger *log.Logger) *Verifier {
	v := &Verifier{
		kl:          kl,
		vl:          vl,
		maxInserts:  maxInserts,
		maxDeletes:  maxDeletes,
		hasher:      avltree.NewHasher(),
		logger:      logger.Module("verifier"),
	}

	root, dirStart, touchedLeaves, err := v.decodeSkeleton(proofBytes)
	if err != nil {
		v.fail(err)
		return v
	}
	if touchedLeaves > 2*(maxInserts+maxDeletes)+1 {
		v.fail(fmt.Errorf("verifier: skeleton touches %d leaves, envelope allows at most %d: %w",
			touchedLeaves, 2*(maxInserts+maxDeletes)+1, ErrProofMalformed))
		return v
	}
	if !root.label().Equal(startingDigest) {
		v.fail(fmt.Errorf("verifier: reconstructed root does not match starting digest: %w", ErrDigestMismatch))
		return v
	}

	v.root = root
	v.dir = proof.NewDirectionReader(proofBytes, dirStart)
	return v
}

func (v *Verifier) fail(err error) {
	v.failed = true
	v.err = err
	v.logger.Warn("verification failed", "error", err)
}

// Err returns the error that caused the sticky failure, or nil while the
// verifier is still succeeding.
func (v *Verifier) Err() error {
	return v.err
}

// PerformOneModification replays one modification against the
// reconstructed tree. ok is false if this call (or any earlier one) failed;
// once false, it stays false for the rest of the batch.
func (v *Verifier) PerformOneModification(m avltree.Modification) (avltree.Label, bool) {
	if v.failed {
		return nil, false
	}

	outcome, err := v.apply(v.root, m.Key, m.UpdateFn)
	if err != nil {
		v.fail(err)
		return nil, false
	}
	v.root = outcome.node

	// Counted by what the replay actually did to the leaf population, not
	// by m.Kind: KindUpdateLongBy and KindGeneric insert a new leaf (and
	// KindRemoveIfExists may or may not delete one) depending on whether
	// the key was already present, which the kind alone can't tell us.
	if outcome.inserted {
		v.insertCount++
	}
	if outcome.deleted {
		v.deleteCount++
	}
	if v.insertCount > v.maxInserts || v.deleteCount > v.maxDeletes {
		v.fail(fmt.Errorf("verifier: replayed more modifications than the declared envelope: %w", ErrEnvelopeMismatch))
		return nil, false
	}

	return v.root.label().Clone(), true
}

// Digest returns the current root label. Callers that declared an envelope
// should treat this as the end of the batch: if fewer inserts or deletes
// were actually replayed than declared, the envelope was not met and
// Digest reports failure.
func (v *Verifier) Digest() (avltree.Label, bool) {
	if v.failed {
		return nil, false
	}
	if v.insertCount != v.maxInserts || v.deleteCount != v.maxDeletes {
		v.fail(fmt.Errorf("verifier: replayed %d inserts/%d deletes, envelope declared %d/%d: %w",
			v.insertCount, v.deleteCount, v.maxInserts, v.maxDeletes, ErrEnvelopeMismatch))
		return nil, false
	}
	return v.root.label().Clone(), true
}
