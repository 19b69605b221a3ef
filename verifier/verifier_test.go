package verifier

import (
	"testing"

	"github.com/reyzin/scrypto/avltree"
	"github.com/reyzin/scrypto/prover"
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

func TestZeroModsRoundTrip(t *testing.T) {
	p := prover.New(testKL, testVL)
	startingDigest := p.Digest()
	proofBytes := p.GenerateProof()

	v := New(startingDigest, proofBytes, testKL, testVL, 0, 0)
	got, ok := v.Digest()
	if !ok {
		t.Fatalf("verifier failed: %v", v.Err())
	}
	if !got.Equal(p.Digest()) {
		t.Fatal("verifier digest does not match prover digest for zero-mod batch")
	}
}

func TestInsertThenVerify(t *testing.T) {
	p := prover.New(testKL, testVL)
	startingDigest := p.Digest()
	k, val := keyFromInt(1), valueFromInt(7)
	mod := avltree.Insert(k, val)
	if err := p.PerformOneModification(mod); err != nil {
		t.Fatal(err)
	}
	proofBytes := p.GenerateProof()
	wantDigest := p.Digest()

	v := New(startingDigest, proofBytes, testKL, testVL, 1, 0)
	if _, ok := v.PerformOneModification(avltree.Insert(k, val)); !ok {
		t.Fatalf("verifier rejected valid modification: %v", v.Err())
	}
	got, ok := v.Digest()
	if !ok {
		t.Fatalf("verifier failed at digest: %v", v.Err())
	}
	if !got.Equal(wantDigest) {
		t.Fatal("verifier digest does not match prover digest")
	}
}

func TestFlippedProofByteCausesFailure(t *testing.T) {
	p := prover.New(testKL, testVL)
	startingDigest := p.Digest()
	k, val := keyFromInt(1), valueFromInt(7)
	if err := p.PerformOneModification(avltree.Insert(k, val)); err != nil {
		t.Fatal(err)
	}
	proofBytes := p.GenerateProof()
	flipped := append([]byte{}, proofBytes...)
	flipped[len(flipped)-1] ^= 0x01

	v := New(startingDigest, flipped, testKL, testVL, 1, 0)
	_, stepOK := v.PerformOneModification(avltree.Insert(k, val))
	_, digestOK := v.Digest()
	if stepOK && digestOK {
		t.Fatal("expected verification failure after flipping a proof byte")
	}
}

func TestRejectOverEnvelope(t *testing.T) {
	p := prover.New(testKL, testVL)
	startingDigest := p.Digest()
	for i := 1; i <= 50; i++ {
		if err := p.PerformOneModification(avltree.Insert(keyFromInt(i), valueFromInt(i))); err != nil {
			t.Fatal(err)
		}
	}
	proofBytes := p.GenerateProof()

	v := New(startingDigest, proofBytes, testKL, testVL, 2, 0)
	if !v.failed {
		t.Fatal("expected construction-time envelope rejection for a 50-insert proof declared as (2,0)")
	}
}

func TestRejectWrongStartingDigest(t *testing.T) {
	p := prover.New(testKL, testVL)
	k, val := keyFromInt(1), valueFromInt(7)
	if err := p.PerformOneModification(avltree.Insert(k, val)); err != nil {
		t.Fatal(err)
	}
	proofBytes := p.GenerateProof()

	wrong := make(avltree.Label, avltree.Size)
	for i := range wrong {
		wrong[i] = 0x42
	}
	v := New(wrong, proofBytes, testKL, testVL, 1, 0)
	if !v.failed {
		t.Fatal("expected rejection for a random starting digest")
	}
}

// TestApplyLeafRejectsKeyBelowLowerBound guards the non-membership band a
// reconstructed leaf asserts: [leaf.key, leaf.next). A malicious prover
// could otherwise route a key below leaf.key to that leaf (it only fails
// leaf.next's check), forging a leaf position for a key the skeleton never
// actually bounds.
func TestApplyLeafRejectsKeyBelowLowerBound(t *testing.T) {
	v := &Verifier{hasher: avltree.NewHasher()}
	lo, hi := keyFromInt(5), keyFromInt(10)
	leaf := &leafNode{key: lo, next: hi, value: valueFromInt(5)}
	leaf.lbl = v.hasher.LeafLabel(leaf.key, leaf.value, leaf.next)

	mod := avltree.Insert(keyFromInt(2), valueFromInt(2))
	if _, err := v.applyLeaf(leaf, mod.Key, mod.UpdateFn); err == nil {
		t.Fatal("expected rejection for a key below the reconstructed leaf's lower bound")
	}
}

func TestUpdateLongByInsertCountsTowardEnvelope(t *testing.T) {
	p := prover.New(testKL, testVL)
	startingDigest := p.Digest()
	k := keyFromInt(1)
	mod := avltree.UpdateLongBy(k, 5)
	if err := p.PerformOneModification(mod); err != nil {
		t.Fatal(err)
	}
	proofBytes := p.GenerateProof()
	wantDigest := p.Digest()

	v := New(startingDigest, proofBytes, testKL, testVL, 1, 0)
	if _, ok := v.PerformOneModification(mod); !ok {
		t.Fatalf("verifier rejected a legitimate UpdateLongBy insert: %v", v.Err())
	}
	got, ok := v.Digest()
	if !ok {
		t.Fatalf("verifier failed at digest: %v", v.Err())
	}
	if !got.Equal(wantDigest) {
		t.Fatal("verifier digest does not match prover digest after UpdateLongBy insert")
	}
}

func TestDeleteRoundTrip(t *testing.T) {
	p := prover.New(testKL, testVL)
	k := keyFromInt(3)
	if err := p.PerformOneModification(avltree.Insert(k, valueFromInt(3))); err != nil {
		t.Fatal(err)
	}
	_ = p.GenerateProof()

	startingDigest := p.Digest()
	if err := p.PerformOneModification(avltree.Remove(k)); err != nil {
		t.Fatal(err)
	}
	proofBytes := p.GenerateProof()
	wantDigest := p.Digest()

	v := New(startingDigest, proofBytes, testKL, testVL, 0, 1)
	if _, ok := v.PerformOneModification(avltree.Remove(k)); !ok {
		t.Fatalf("verifier rejected valid delete: %v", v.Err())
	}
	got, ok := v.Digest()
	if !ok {
		t.Fatalf("verifier failed at digest: %v", v.Err())
	}
	if !got.Equal(wantDigest) {
		t.Fatal("verifier digest does not match prover digest after delete")
	}
}
