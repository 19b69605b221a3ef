package persistence

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/reyzin/scrypto/avltree"
)

const (
	snapshotPrefix = "s:"
	headKey        = "head"
)

// PebbleStore is a Store backed by a Pebble key-value database: each
// version's snapshot is stored under "s:<digest bytes>", with a separate
// "head" key tracking the most recent version.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebbleStore opens (or creates) a Pebble database at dir.
func OpenPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("persistence: opening pebble store at %s: %w", dir, err)
	}
	return &PebbleStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func snapshotKey(version avltree.Label) []byte {
	return append([]byte(snapshotPrefix), version...)
}

func (s *PebbleStore) Put(version avltree.Label, snapshot []byte) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(snapshotKey(version), snapshot, nil); err != nil {
		return fmt.Errorf("persistence: staging snapshot write: %w", err)
	}
	if err := batch.Set([]byte(headKey), version, nil); err != nil {
		return fmt.Errorf("persistence: staging head write: %w", err)
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("persistence: committing pebble batch: %w", err)
	}
	return nil
}

func (s *PebbleStore) Get(version avltree.Label) ([]byte, error) {
	data, closer, err := s.db.Get(snapshotKey(version))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, fmt.Errorf("persistence: version %x: %w", []byte(version), ErrVersionNotFound)
		}
		return nil, fmt.Errorf("persistence: reading pebble store: %w", err)
	}
	defer closer.Close()
	return bytes.Clone(data), nil
}

func (s *PebbleStore) Head() (avltree.Label, bool) {
	data, closer, err := s.db.Get([]byte(headKey))
	if err != nil {
		return nil, false
	}
	defer closer.Close()
	return avltree.Label(bytes.Clone(data)), true
}

func (s *PebbleStore) NonEmpty() bool {
	_, ok := s.Head()
	return ok
}
