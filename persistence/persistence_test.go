package persistence

import (
	"testing"

	"github.com/reyzin/scrypto/avltree"
)

const (
	testKL = 32
	testVL = 8
)

func keyFromInt(i int) avltree.Key {
	k := make(avltree.Key, testKL)
	k[testKL-1] = byte(i)
	k[testKL-2] = byte(i >> 8)
	return k
}

func valueFromInt(i int) avltree.Value {
	v := make(avltree.Value, testVL)
	v[testVL-1] = byte(i)
	return v
}

func TestOpenOnEmptyStoreStartsFresh(t *testing.T) {
	store := NewMemoryStore()
	pp, err := Open(store, testKL, testVL)
	if err != nil {
		t.Fatal(err)
	}
	if store.NonEmpty() {
		t.Fatal("opening an empty store should not write to it")
	}
	empty := pp.Digest()
	if empty == nil {
		t.Fatal("fresh prover should have a digest")
	}
}

func TestGenerateProofFlushesSnapshot(t *testing.T) {
	store := NewMemoryStore()
	pp, err := Open(store, testKL, testVL)
	if err != nil {
		t.Fatal(err)
	}
	if err := pp.PerformOneModification(avltree.Insert(keyFromInt(1), valueFromInt(1))); err != nil {
		t.Fatal(err)
	}
	pp.GenerateProof()

	if !store.NonEmpty() {
		t.Fatal("GenerateProof should have flushed a snapshot")
	}
	head, ok := store.Head()
	if !ok {
		t.Fatal("expected a head version after flush")
	}
	if !head.Equal(pp.Digest()) {
		t.Fatal("store head does not match prover digest after flush")
	}
}

// TestRollbackIdempotence covers a snapshot taken mid-batch-sequence,
// another modification applied and proved, then rolling back to the first
// snapshot: the restored digest must equal the one recorded at that point,
// both from the live prover and from a brand new prover opened against the
// same store after the rollback.
func TestRollbackIdempotence(t *testing.T) {
	store := NewMemoryStore()
	pp, err := Open(store, testKL, testVL)
	if err != nil {
		t.Fatal(err)
	}

	if err := pp.PerformOneModification(avltree.Insert(keyFromInt(1), valueFromInt(1))); err != nil {
		t.Fatal(err)
	}
	pp.GenerateProof()
	snapshotDigest := pp.Digest()

	if err := pp.PerformOneModification(avltree.Insert(keyFromInt(2), valueFromInt(2))); err != nil {
		t.Fatal(err)
	}
	pp.GenerateProof()

	if err := pp.Rollback(snapshotDigest); err != nil {
		t.Fatal(err)
	}
	if !pp.Digest().Equal(snapshotDigest) {
		t.Fatal("rolled-back prover digest does not match the recorded snapshot")
	}
	if _, ok := pp.UnauthenticatedLookup(keyFromInt(2)); ok {
		t.Fatal("rollback should have undone the second insert")
	}
	if _, ok := pp.UnauthenticatedLookup(keyFromInt(1)); !ok {
		t.Fatal("rollback should have kept the first insert")
	}

	reopened, err := Open(store, testKL, testVL)
	if err != nil {
		t.Fatal(err)
	}
	if !reopened.Digest().Equal(snapshotDigest) {
		t.Fatal("reopening after rollback should resume from the rolled-back version, not the later one")
	}
}

func TestRollbackToUnknownVersionFails(t *testing.T) {
	store := NewMemoryStore()
	pp, err := Open(store, testKL, testVL)
	if err != nil {
		t.Fatal(err)
	}
	bogus := make(avltree.Label, avltree.Size+1)
	if err := pp.Rollback(bogus); err == nil {
		t.Fatal("expected rollback to an unknown version to fail")
	}
}
