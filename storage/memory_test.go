package storage

import (
	"testing"

	"github.com/fuelvm-go/fuelvm/types"
	"github.com/fuelvm-go/fuelvm/vm"
)

func TestDeployAndReadContractCode(t *testing.T) {
	m := New()
	id := types.Bytes32{1}
	code := []byte{0x01, 0x02, 0x03, 0x04}

	if perr := m.DeployContract(id, code); perr != nil {
		t.Fatalf("DeployContract: %v", perr)
	}
	got, ok := m.ContractCode(id)
	if !ok {
		t.Fatalf("expected contract code to be found")
	}
	if string(got) != string(code) {
		t.Fatalf("got %v, want %v", got, code)
	}

	size, ok := m.ContractCodeSize(id)
	if !ok || size != uint64(len(code)) {
		t.Fatalf("ContractCodeSize = %d,%v want %d,true", size, ok, len(code))
	}
}

func TestDeployContractAlreadyDeployed(t *testing.T) {
	m := New()
	id := types.Bytes32{1}
	code := []byte{0x01, 0x02, 0x03, 0x04}

	if perr := m.DeployContract(id, code); perr != nil {
		t.Fatalf("first deploy: %v", perr)
	}
	perr := m.DeployContract(id, code)
	if perr == nil || perr.Reason != vm.PanicContractIdAlreadyDeployed {
		t.Fatalf("expected PanicContractIdAlreadyDeployed, got %v", perr)
	}
}

func TestContractStateRoundTrip(t *testing.T) {
	m := New()
	id := types.Bytes32{1}
	key := types.Bytes32{2}
	value := types.Bytes32{3}

	if _, ok := m.ContractState(id, key); ok {
		t.Fatalf("expected unset slot to read as not found")
	}
	m.SetContractState(id, key, value)
	got, ok := m.ContractState(id, key)
	if !ok || got != value {
		t.Fatalf("got %v,%v want %v,true", got, ok, value)
	}
}

func TestContractStateRange(t *testing.T) {
	m := New()
	id := types.Bytes32{1}
	base := types.Bytes32{0xaa}

	values := []types.Bytes32{{1}, {2}, {3}}
	m.SetContractStateRange(id, base, values)

	got, found := m.ContractStateRange(id, base, 3)
	for i := range values {
		if !found[i] || got[i] != values[i] {
			t.Fatalf("slot %d = %v,%v want %v,true", i, got[i], found[i], values[i])
		}
	}

	if existed := m.ClearContractStateRange(id, base, 3); !existed {
		t.Fatalf("expected ClearContractStateRange to report existing slots")
	}
	_, found = m.ContractStateRange(id, base, 3)
	for i, f := range found {
		if f {
			t.Fatalf("slot %d still found after clearing", i)
		}
	}
}

func TestBalanceCreditDebit(t *testing.T) {
	m := New()
	id := types.Bytes32{1}
	asset := types.Bytes32{2}

	m.CreditBalance(id, asset, 100)
	if got := m.ContractBalance(id, asset); got != 100 {
		t.Fatalf("balance = %d, want 100", got)
	}

	if perr := m.DebitBalance(id, asset, 40); perr != nil {
		t.Fatalf("DebitBalance: %v", perr)
	}
	if got := m.ContractBalance(id, asset); got != 60 {
		t.Fatalf("balance after debit = %d, want 60", got)
	}

	perr := m.DebitBalance(id, asset, 1000)
	if perr == nil || perr.Reason != vm.PanicNotEnoughBalance {
		t.Fatalf("expected PanicNotEnoughBalance, got %v", perr)
	}
}

func TestBlockContext(t *testing.T) {
	m := New()
	hash := types.Bytes32{9}
	coinbase := types.Bytes32{8}
	m.SetBlockContext(42, hash, coinbase, 1_700_000_000)

	if m.BlockHeight() != 42 {
		t.Fatalf("BlockHeight = %d, want 42", m.BlockHeight())
	}
	if m.BlockHash(42) != hash {
		t.Fatalf("BlockHash mismatch")
	}
	if m.Coinbase() != coinbase {
		t.Fatalf("Coinbase mismatch")
	}
	if m.Timestamp() != 1_700_000_000 {
		t.Fatalf("Timestamp mismatch")
	}
}
