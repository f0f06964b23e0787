package vm

import "testing"

func TestReceiptListMerkleRootEmpty(t *testing.T) {
	rl := NewReceiptList()
	root := rl.MerkleRoot()
	if !root.IsZero() {
		t.Fatalf("expected zero root for empty receipt list, got %s", root.Hex())
	}
}

func TestReceiptListMerkleRootDeterministic(t *testing.T) {
	rl1 := NewReceiptList()
	rl1.Append(Receipt{Type: ReceiptLog, RA: 1, RB: 2})
	rl1.Append(Receipt{Type: ReceiptReturn, RA: 42})

	rl2 := NewReceiptList()
	rl2.Append(Receipt{Type: ReceiptLog, RA: 1, RB: 2})
	rl2.Append(Receipt{Type: ReceiptReturn, RA: 42})

	if rl1.MerkleRoot() != rl2.MerkleRoot() {
		t.Fatalf("identical receipt sequences produced different roots")
	}
}

func TestReceiptListMerkleRootOrderSensitive(t *testing.T) {
	rl1 := NewReceiptList()
	rl1.Append(Receipt{Type: ReceiptLog, RA: 1})
	rl1.Append(Receipt{Type: ReceiptLog, RA: 2})

	rl2 := NewReceiptList()
	rl2.Append(Receipt{Type: ReceiptLog, RA: 2})
	rl2.Append(Receipt{Type: ReceiptLog, RA: 1})

	if rl1.MerkleRoot() == rl2.MerkleRoot() {
		t.Fatalf("reordering receipts should change the root")
	}
}

func TestReceiptListLen(t *testing.T) {
	rl := NewReceiptList()
	if rl.Len() != 0 {
		t.Fatalf("expected empty list, got len %d", rl.Len())
	}
	rl.Append(Receipt{Type: ReceiptLog})
	if rl.Len() != 1 {
		t.Fatalf("expected len 1, got %d", rl.Len())
	}
}
