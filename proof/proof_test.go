package proof

import (
	"testing"

	"github.com/reyzin/scrypto/avltree"
)

func TestEncodeDecodeSingleLeaf(t *testing.T) {
	e := NewEncoder()
	key := avltree.Key(make(avltree.Key, 32))
	value := avltree.Value{1, 2, 3, 4, 5, 6, 7, 8}
	next := avltree.PositiveInfinity(32)
	e.EmitLeaf(key, value, next)
	out := e.Finish()

	r := NewTokenReader(out, 32, 8)
	tok, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != LeafWithKey {
		t.Fatalf("kind = %#x, want LeafWithKey", tok.Kind)
	}
	if avltree.CompareKeys(tok.Key, key) != 0 {
		t.Fatal("key mismatch")
	}
	if avltree.CompareKeys(tok.Next, next) != 0 {
		t.Fatal("next mismatch")
	}

	term, err := r.Next()
	if err != nil || term.Kind != EndOfTree {
		t.Fatalf("expected EndOfTree, got %#v, err=%v", term, err)
	}
}

func TestLeafKeyOmittedWhenChained(t *testing.T) {
	e := NewEncoder()
	k1 := avltree.NegativeInfinity(4)
	k2 := avltree.Key{0x10, 0, 0, 0}
	pos := avltree.PositiveInfinity(4)
	e.EmitLeaf(k1, avltree.Value{0, 0, 0, 0, 0, 0, 0, 1}, k2)
	e.EmitLeaf(k2, avltree.Value{0, 0, 0, 0, 0, 0, 0, 2}, pos)
	out := e.Finish()

	r := NewTokenReader(out, 4, 8)
	first, err := r.Next()
	if err != nil || first.Kind != LeafWithKey {
		t.Fatalf("first leaf should carry its key, got %#v err=%v", first, err)
	}
	second, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Kind != LeafOmitKey {
		t.Fatalf("second leaf should omit its key, got kind %#x", second.Kind)
	}
	if avltree.CompareKeys(second.Key, k2) != 0 {
		t.Fatal("inferred key mismatch")
	}
}

func TestInternalTokenRoundTrip(t *testing.T) {
	e := NewEncoder()
	leafKey := avltree.NegativeInfinity(4)
	pos := avltree.PositiveInfinity(4)
	e.EmitLeaf(leafKey, avltree.Value{0, 0, 0, 0, 0, 0, 0, 0}, pos)
	e.EmitLabelOnly(make(avltree.Label, avltree.Size))
	e.EmitInternal(avltree.RightHeavy)
	out := e.Finish()

	r := NewTokenReader(out, 4, 8)
	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	internal, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if internal.Kind != InternalPos || internal.Balance != avltree.RightHeavy {
		t.Fatalf("got kind=%#x balance=%d, want InternalPos/+1", internal.Kind, internal.Balance)
	}
}

func TestDirectionBitstreamLSBFirst(t *testing.T) {
	e := NewEncoder()
	pattern := []bool{true, false, true, true, false, false, false, false, true}
	for _, b := range pattern {
		e.EmitDirection(b)
	}
	e.skeleton = append(e.skeleton, byte(EndOfTree))
	out := append(append([]byte{}, e.skeleton...), e.bits.bytes()...)

	dr := NewDirectionReader(out, len(e.skeleton))
	for i, want := range pattern {
		got, ok := dr.Next()
		if !ok {
			t.Fatalf("bit %d: ran out of bits", i)
		}
		if got != want {
			t.Fatalf("bit %d = %v, want %v", i, got, want)
		}
	}
}

func TestMalformedUnrecognizedToken(t *testing.T) {
	r := NewTokenReader([]byte{0xAB}, 32, 8)
	if _, err := r.Next(); err == nil {
		t.Fatal("expected malformed-token error")
	}
}

func TestMalformedTruncatedPayload(t *testing.T) {
	r := NewTokenReader([]byte{byte(LabelOnly), 0x01, 0x02}, 32, 8)
	if _, err := r.Next(); err == nil {
		t.Fatal("expected truncated-payload error")
	}
}

func TestMalformedOmitKeyWithNoPriorLeaf(t *testing.T) {
	data := []byte{byte(LeafOmitKey)}
	data = append(data, make([]byte, 4+8)...)
	r := NewTokenReader(data, 4, 8)
	if _, err := r.Next(); err == nil {
		t.Fatal("expected error for omitted key with no preceding leaf")
	}
}
