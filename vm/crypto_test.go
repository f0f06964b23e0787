package vm

import (
	"testing"

	"github.com/fuelvm-go/fuelvm/types"
)

func TestDeriveContractIDDeterministic(t *testing.T) {
	salt := types.Bytes32{1}
	codeRoot := types.Bytes32{2}
	stateRoot := types.Bytes32{3}

	id1 := DeriveContractID(salt, codeRoot, stateRoot)
	id2 := DeriveContractID(salt, codeRoot, stateRoot)
	if id1 != id2 {
		t.Fatalf("DeriveContractID not deterministic: %s vs %s", id1.Hex(), id2.Hex())
	}

	otherSalt := types.Bytes32{9}
	id3 := DeriveContractID(otherSalt, codeRoot, stateRoot)
	if id1 == id3 {
		t.Fatalf("different salts produced the same contract id")
	}
}

func TestDeriveAssetIDDistinctPerSubID(t *testing.T) {
	contract := types.Bytes32{7}
	sub1 := types.Bytes32{1}
	sub2 := types.Bytes32{2}

	a1 := DeriveAssetID(contract, sub1)
	a2 := DeriveAssetID(contract, sub2)
	if a1 == a2 {
		t.Fatalf("distinct sub-ids produced the same asset id")
	}
}

func TestHashCodeDeterministic(t *testing.T) {
	code := []byte("some bytecode")
	if HashCode(code) != HashCode(code) {
		t.Fatalf("HashCode not deterministic")
	}
	if HashCode(code) == HashCode([]byte("other bytecode")) {
		t.Fatalf("different code hashed to the same digest")
	}
}
