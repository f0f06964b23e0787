package vm

import "testing"

func TestTransactCreateDeploysContract(t *testing.T) {
	backend := newFakeStorage()
	params := DefaultParams()
	code := []byte{byte(NOOP), 0, 0, 0}

	result, err := Transact(backend, params, Transaction{
		Type:         TxCreate,
		ContractCode: code,
	})
	if err != nil {
		t.Fatalf("Transact: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected successful deploy, got panic %v", result.Panic)
	}
	if got, ok := backend.ContractCode(result.ContractID); !ok || string(got) != string(code) {
		t.Fatalf("deployed code mismatch: got %v,%v", got, ok)
	}
}

func TestTransactCreateRejectsDuplicateID(t *testing.T) {
	backend := newFakeStorage()
	params := DefaultParams()
	code := []byte{byte(NOOP), 0, 0, 0}
	tx := Transaction{Type: TxCreate, ContractCode: code}

	if _, err := Transact(backend, params, tx); err != nil {
		t.Fatalf("first deploy: %v", err)
	}
	result, err := Transact(backend, params, tx)
	if err != nil {
		t.Fatalf("Transact: %v", err)
	}
	if result.Success {
		t.Fatalf("expected second identical deploy to fail")
	}
	if result.Panic == nil || result.Panic.Reason != PanicContractIdAlreadyDeployed {
		t.Fatalf("expected PanicContractIdAlreadyDeployed, got %v", result.Panic)
	}
}

func TestTransactScriptSuccess(t *testing.T) {
	backend := newFakeStorage()
	params := DefaultParams()

	code := make([]byte, 0, 8)
	ret := Instruction{Op: RET, Shape: ShapeR, Ra: uint8(RegOne)}
	w := Encode(ret)
	code = append(code, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))

	result, err := Transact(backend, params, Transaction{
		Type:     TxScript,
		Script:   code,
		GasLimit: 100_000,
	})
	if err != nil {
		t.Fatalf("Transact: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got panic %v", result.Panic)
	}
	last := result.Receipts[len(result.Receipts)-1]
	if last.Type != ReceiptScriptResult || last.Result != 0 {
		t.Fatalf("expected successful ScriptResult receipt, got %+v", last)
	}
}

func TestTransactScriptOutOfGas(t *testing.T) {
	backend := newFakeStorage()
	params := DefaultParams()
	code := []byte{byte(NOOP), 0, 0, 0}

	result, err := Transact(backend, params, Transaction{
		Type:     TxScript,
		Script:   code,
		GasLimit: 0,
	})
	if err != nil {
		t.Fatalf("Transact: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure on zero gas")
	}
	if result.Panic == nil || result.Panic.Reason != PanicOutOfGas {
		t.Fatalf("expected PanicOutOfGas, got %v", result.Panic)
	}
}
