// Package storage provides the in-memory Storage backend used by the
// script-runner CLI and by tests: contract code, per-contract key/value
// state, and per-asset balances held in plain maps, with a fastcache-backed
// front for deployed bytecode the same way the teacher's StateDB keeps an
// in-memory trie-node cache in front of its backing database.
package storage

import (
	"sync"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/fuelvm-go/fuelvm/types"
	"github.com/fuelvm-go/fuelvm/vm"
)

const codeCacheBytes = 32 * 1024 * 1024

// Memory is an in-process Storage implementation: no persistence, no
// snapshot/revert beyond what the call-frame gas refund already provides at
// the VM layer. Intended for the CLI and unit/integration tests, not for a
// production node (spec.md's storage interface is explicitly backend
// agnostic; a durable KV-backed implementation is out of scope here).
type Memory struct {
	mu sync.RWMutex

	code     map[types.ContractID][]byte
	codeRoot map[types.ContractID]types.Bytes32
	state    map[types.ContractID]map[types.StorageKey]types.Bytes32
	balance  map[types.ContractID]map[types.AssetID]vm.Word

	codeCache *fastcache.Cache

	blockHeight uint64
	blockHashes map[uint64]types.Bytes32
	coinbase    types.ContractID
	timestamp   uint64
}

// New returns an empty in-memory backend.
func New() *Memory {
	return &Memory{
		code:      make(map[types.ContractID][]byte),
		codeRoot:  make(map[types.ContractID]types.Bytes32),
		state:     make(map[types.ContractID]map[types.StorageKey]types.Bytes32),
		balance:   make(map[types.ContractID]map[types.AssetID]vm.Word),
		codeCache: fastcache.New(codeCacheBytes),
		blockHashes: make(map[uint64]types.Bytes32),
	}
}

// SetBlockContext configures the block-scoped fields a script can observe
// through the BlockHeight/BlockHash/Coinbase/Timestamp getters (spec.md §4.7).
func (m *Memory) SetBlockContext(height uint64, hash types.Bytes32, coinbase types.ContractID, timestamp uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockHeight = height
	m.blockHashes[height] = hash
	m.coinbase = coinbase
	m.timestamp = timestamp
}

func (m *Memory) ContractCode(id types.ContractID) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if cached, ok := m.codeCache.HasGet(nil, id.Bytes()); ok {
		return cached, true
	}
	code, ok := m.code[id]
	if !ok {
		return nil, false
	}
	m.codeCache.Set(id.Bytes(), code)
	return code, true
}

func (m *Memory) ContractCodeSize(id types.ContractID) (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.code[id]
	if !ok {
		return 0, false
	}
	return uint64(len(code)), true
}

func (m *Memory) ContractCodeRoot(id types.ContractID) (types.Bytes32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	root, ok := m.codeRoot[id]
	return root, ok
}

func (m *Memory) DeployContract(id types.ContractID, code []byte) *vm.PanicError {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.code[id]; exists {
		return vm.NewPanic(vm.PanicContractIdAlreadyDeployed)
	}
	stored := make([]byte, len(code))
	copy(stored, code)
	m.code[id] = stored
	m.codeRoot[id] = vm.HashCode(stored)
	m.codeCache.Set(id.Bytes(), stored)
	return nil
}

func (m *Memory) ContractState(id types.ContractID, key types.StorageKey) (types.Bytes32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slots, ok := m.state[id]
	if !ok {
		return types.Bytes32{}, false
	}
	v, ok := slots[key]
	return v, ok
}

func (m *Memory) SetContractState(id types.ContractID, key types.StorageKey, value types.Bytes32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, ok := m.state[id]
	if !ok {
		slots = make(map[types.StorageKey]types.Bytes32)
		m.state[id] = slots
	}
	slots[key] = value
}

func (m *Memory) ContractStateRange(id types.ContractID, key types.StorageKey, count uint64) ([]types.Bytes32, []bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values := make([]types.Bytes32, count)
	found := make([]bool, count)
	slots := m.state[id]
	k := keyToUint256(key)
	for i := uint64(0); i < count; i++ {
		slotKey := uint256ToKey(k, i)
		if slots != nil {
			if v, ok := slots[slotKey]; ok {
				values[i] = v
				found[i] = true
			}
		}
	}
	return values, found
}

func (m *Memory) SetContractStateRange(id types.ContractID, key types.StorageKey, values []types.Bytes32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, ok := m.state[id]
	if !ok {
		slots = make(map[types.StorageKey]types.Bytes32)
		m.state[id] = slots
	}
	k := keyToUint256(key)
	for i, v := range values {
		slots[uint256ToKey(k, uint64(i))] = v
	}
}

func (m *Memory) ClearContractStateRange(id types.ContractID, key types.StorageKey, count uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, ok := m.state[id]
	if !ok {
		return false
	}
	k := keyToUint256(key)
	any := false
	for i := uint64(0); i < count; i++ {
		slotKey := uint256ToKey(k, i)
		if _, ok := slots[slotKey]; ok {
			any = true
			delete(slots, slotKey)
		}
	}
	return any
}

func (m *Memory) ContractBalance(id types.ContractID, asset types.AssetID) vm.Word {
	m.mu.RLock()
	defer m.mu.RUnlock()
	assets, ok := m.balance[id]
	if !ok {
		return 0
	}
	return assets[asset]
}

func (m *Memory) CreditBalance(id types.ContractID, asset types.AssetID, amount vm.Word) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assets, ok := m.balance[id]
	if !ok {
		assets = make(map[types.AssetID]vm.Word)
		m.balance[id] = assets
	}
	assets[asset] += amount
}

func (m *Memory) DebitBalance(id types.ContractID, asset types.AssetID, amount vm.Word) *vm.PanicError {
	m.mu.Lock()
	defer m.mu.Unlock()
	assets := m.balance[id]
	if assets[asset] < amount {
		return vm.NewPanic(vm.PanicNotEnoughBalance)
	}
	assets[asset] -= amount
	return nil
}

func (m *Memory) BlockHash(height uint64) types.Bytes32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.blockHashes[height]
}

func (m *Memory) BlockHeight() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.blockHeight
}

func (m *Memory) Coinbase() types.ContractID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.coinbase
}

func (m *Memory) Timestamp() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timestamp
}

// keyToUint256 and uint256ToKey give ContractStateRange/SetContractStateRange
// a well-defined "consecutive slot" ordering: successive keys are the
// big-endian integer value of the base key plus an offset, matching how the
// teacher's trie-backed StateDB addresses consecutive storage slots for a
// fixed-size array field.
func keyToUint256(key types.StorageKey) [4]uint64 {
	var out [4]uint64
	b := key.Bytes()
	for i := 0; i < 4; i++ {
		out[i] = beUint64(b[i*8 : i*8+8])
	}
	return out
}

func uint256ToKey(base [4]uint64, offset uint64) types.StorageKey {
	limbs := base
	limbs[3] += offset
	if limbs[3] < base[3] { // carry out of the low limb
		for i := 2; i >= 0; i-- {
			limbs[i]++
			if limbs[i] != 0 {
				break
			}
		}
	}
	var out types.StorageKey
	for i := 0; i < 4; i++ {
		putBeUint64(out[i*8:i*8+8], limbs[i])
	}
	return out
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func putBeUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
