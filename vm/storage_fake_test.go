package vm

import "github.com/fuelvm-go/fuelvm/types"

// fakeStorage is a minimal in-package Storage implementation for unit
// tests that exercise the interpreter without pulling in the storage
// package (which itself imports vm, so a real dependency here would be a
// cycle).
type fakeStorage struct {
	code     map[types.ContractID][]byte
	codeRoot map[types.ContractID]types.Bytes32
	state    map[types.ContractID]map[types.StorageKey]types.Bytes32
	balance  map[types.ContractID]map[types.AssetID]Word
	height   uint64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		code:     make(map[types.ContractID][]byte),
		codeRoot: make(map[types.ContractID]types.Bytes32),
		state:    make(map[types.ContractID]map[types.StorageKey]types.Bytes32),
		balance:  make(map[types.ContractID]map[types.AssetID]Word),
	}
}

func (f *fakeStorage) ContractCode(id types.ContractID) ([]byte, bool) {
	c, ok := f.code[id]
	return c, ok
}

func (f *fakeStorage) ContractCodeSize(id types.ContractID) (uint64, bool) {
	c, ok := f.code[id]
	return uint64(len(c)), ok
}

func (f *fakeStorage) ContractCodeRoot(id types.ContractID) (types.Bytes32, bool) {
	r, ok := f.codeRoot[id]
	return r, ok
}

func (f *fakeStorage) DeployContract(id types.ContractID, code []byte) *PanicError {
	if _, exists := f.code[id]; exists {
		return newPanic(PanicContractIdAlreadyDeployed)
	}
	f.code[id] = code
	f.codeRoot[id] = HashCode(code)
	return nil
}

func (f *fakeStorage) ContractState(id types.ContractID, key types.StorageKey) (types.Bytes32, bool) {
	slots, ok := f.state[id]
	if !ok {
		return types.Bytes32{}, false
	}
	v, ok := slots[key]
	return v, ok
}

func (f *fakeStorage) SetContractState(id types.ContractID, key types.StorageKey, value types.Bytes32) {
	slots, ok := f.state[id]
	if !ok {
		slots = make(map[types.StorageKey]types.Bytes32)
		f.state[id] = slots
	}
	slots[key] = value
}

func (f *fakeStorage) ContractStateRange(id types.ContractID, key types.StorageKey, count uint64) ([]types.Bytes32, []bool) {
	values := make([]types.Bytes32, count)
	found := make([]bool, count)
	return values, found
}

func (f *fakeStorage) SetContractStateRange(id types.ContractID, key types.StorageKey, values []types.Bytes32) {
}

func (f *fakeStorage) ClearContractStateRange(id types.ContractID, key types.StorageKey, count uint64) bool {
	return false
}

func (f *fakeStorage) ContractBalance(id types.ContractID, asset types.AssetID) Word {
	assets, ok := f.balance[id]
	if !ok {
		return 0
	}
	return assets[asset]
}

func (f *fakeStorage) CreditBalance(id types.ContractID, asset types.AssetID, amount Word) {
	assets, ok := f.balance[id]
	if !ok {
		assets = make(map[types.AssetID]Word)
		f.balance[id] = assets
	}
	assets[asset] += amount
}

func (f *fakeStorage) DebitBalance(id types.ContractID, asset types.AssetID, amount Word) *PanicError {
	assets := f.balance[id]
	if assets[asset] < amount {
		return newPanic(PanicNotEnoughBalance)
	}
	assets[asset] -= amount
	return nil
}

func (f *fakeStorage) BlockHash(height uint64) types.Bytes32 { return types.Bytes32{} }
func (f *fakeStorage) BlockHeight() uint64                   { return f.height }
func (f *fakeStorage) Coinbase() types.ContractID            { return types.ContractID{} }
func (f *fakeStorage) Timestamp() uint64                     { return 0 }
