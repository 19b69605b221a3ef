package avltree

import "testing"

func TestSingleRotateBalancesInsertionCase(t *testing.T) {
	newParent, newChild := SingleRotateBalances(LeftHeavy)
	if newParent != Balanced || newChild != Balanced {
		t.Fatalf("got (%d,%d), want (0,0)", newParent, newChild)
	}
}

func TestSingleRotateBalancesDeletionCase(t *testing.T) {
	newParent, newChild := SingleRotateBalances(Balanced)
	if newParent != -1 || newChild != 1 {
		t.Fatalf("got (%d,%d), want (-1,1)", newParent, newChild)
	}
}

func TestDoubleRotateBalancesAllThreeCases(t *testing.T) {
	cases := []struct {
		grandchild               Balance
		parent, child, grandNew Balance
	}{
		{Balanced, 0, 0, 0},
		{LeftHeavy, 1, 0, 0},
		{RightHeavy, 0, -1, 0},
	}
	for _, c := range cases {
		p, ch, g := DoubleRotateBalances(c.grandchild)
		if p != c.parent || ch != c.child || g != c.grandNew {
			t.Fatalf("grandchild=%d: got (%d,%d,%d), want (%d,%d,%d)",
				c.grandchild, p, ch, g, c.parent, c.child, c.grandNew)
		}
	}
}

func TestBalanceByteEncoding(t *testing.T) {
	if LeftHeavy.Byte() != 0xFF {
		t.Fatalf("LeftHeavy.Byte() = %#x, want 0xFF", LeftHeavy.Byte())
	}
	if Balanced.Byte() != 0x00 {
		t.Fatalf("Balanced.Byte() = %#x, want 0x00", Balanced.Byte())
	}
	if RightHeavy.Byte() != 0x01 {
		t.Fatalf("RightHeavy.Byte() = %#x, want 0x01", RightHeavy.Byte())
	}
}

func TestBalanceFromByteRejectsOutOfRange(t *testing.T) {
	if _, ok := BalanceFromByte(0x02); ok {
		t.Fatal("expected 0x02 to be rejected")
	}
	if _, ok := BalanceFromByte(0xFE); ok {
		t.Fatal("expected 0xFE to be rejected")
	}
	b, ok := BalanceFromByte(0xFF)
	if !ok || b != LeftHeavy {
		t.Fatalf("got (%d,%v), want (-1,true)", b, ok)
	}
}
