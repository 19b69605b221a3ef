// Package persistence provides durable backing for a prover's tree across
// process restarts, plus the ability to roll back to any digest a prior
// flush produced.
package persistence

import (
	"errors"

	"github.com/reyzin/scrypto/avltree"
)

// ErrVersionNotFound is returned by Rollback when no flush ever produced the
// requested digest.
var ErrVersionNotFound = errors.New("persistence: version not found")

// Store persists prover snapshots keyed by the digest they were taken at.
// Implementations need not keep every version forever; Rollback reports
// ErrVersionNotFound for anything they no longer hold.
type Store interface {
	// Put records snapshot as the tree state at version. Calling Put with a
	// version already present overwrites it.
	Put(version avltree.Label, snapshot []byte) error

	// Get returns the snapshot recorded for version.
	Get(version avltree.Label) ([]byte, error)

	// Head returns the most recently Put version, or ok == false if the
	// store has never been written to.
	Head() (avltree.Label, bool)

	// NonEmpty reports whether the store holds at least one version.
	NonEmpty() bool
}
