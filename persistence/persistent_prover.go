package persistence

import (
	"fmt"

	"github.com/reyzin/scrypto/avltree"
	"github.com/reyzin/scrypto/internal/log"
	"github.com/reyzin/scrypto/prover"
)

// PersistentProver wraps a prover.Prover with a Store. Every GenerateProof
// flushes a full snapshot of the resulting tree to the store before
// returning, so Open can always pick back up from the last thing the
// caller proved.
type PersistentProver struct {
	*prover.Prover
	store  Store
	kl, vl int
	logger *log.Logger
}

// Open rebuilds a PersistentProver from the store's most recent version, or
// starts a fresh empty tree if the store has never been written to.
func Open(store Store, kl, vl int) (*PersistentProver, error) {
	return OpenWithLogger(store, kl, vl, log.Default())
}

// OpenWithLogger is Open with an explicit parent logger.
func OpenWithLogger(store Store, kl, vl int, logger *log.Logger) (*PersistentProver, error) {
	pp := &PersistentProver{
		store:  store,
		kl:     kl,
		vl:     vl,
		logger: logger.Module("persistence"),
	}
	head, ok := store.Head()
	if !ok {
		pp.Prover = prover.NewWithLogger(kl, vl, logger)
		return pp, nil
	}
	if err := pp.Rollback(head); err != nil {
		return nil, fmt.Errorf("persistence: opening store at its recorded head: %w", err)
	}
	return pp, nil
}

// GenerateProof defers to the wrapped prover, then flushes a full snapshot
// of the post-batch tree to the store under the resulting digest.
func (pp *PersistentProver) GenerateProof() []byte {
	out := pp.Prover.GenerateProof()
	version := pp.Prover.Digest()
	snapshot := pp.Prover.Snapshot()
	if err := pp.store.Put(version, snapshot); err != nil {
		pp.logger.Error("snapshot flush failed", "error", err)
	}
	return out
}

// Rollback discards the live tree and rebuilds it from the snapshot stored
// under version. The store's head is moved back to version too, so a fresh
// Open after a rollback resumes from there rather than from whatever was
// flushed after it.
func (pp *PersistentProver) Rollback(version avltree.Label) error {
	snapshot, err := pp.store.Get(version)
	if err != nil {
		return fmt.Errorf("persistence: rollback: %w", err)
	}
	restored, err := prover.Restore(snapshot, pp.kl, pp.vl, pp.logger)
	if err != nil {
		return fmt.Errorf("persistence: rollback: %w", err)
	}
	if err := pp.store.Put(version, snapshot); err != nil {
		return fmt.Errorf("persistence: rollback: moving store head: %w", err)
	}
	pp.Prover = restored
	pp.logger.Info("rolled back", "version", fmt.Sprintf("%x", []byte(version)))
	return nil
}
