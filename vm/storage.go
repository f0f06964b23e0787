package vm

import "github.com/fuelvm-go/fuelvm/types"

// Storage is the host-provided persistence backend the interpreter reads and
// writes contract code, per-contract key/value state, and balances through
// (spec.md §4.7). It plays the role the teacher's vm.StateDB interface
// plays for the EVM interpreter: the VM core never touches a database
// directly, only this seam, so storage/memory.go and any future on-disk
// backend are interchangeable without touching vm/.
type Storage interface {
	// ContractCode returns the deployed bytecode for id, or ok=false if no
	// contract is deployed at that id.
	ContractCode(id types.ContractID) (code []byte, ok bool)

	// ContractCodeSize returns len(ContractCode(id)) without requiring the
	// caller to materialize the full byte slice (backs CSIZ).
	ContractCodeSize(id types.ContractID) (size uint64, ok bool)

	// ContractCodeRoot returns the code root recorded at deploy time (backs
	// CROO). The backends in this repository record HashCode(code), the plain
	// SHA-256 of the bytecode; no Merkle tree is built over the code.
	ContractCodeRoot(id types.ContractID) (root types.Bytes32, ok bool)

	// DeployContract stores code under id. Returns
	// PanicContractIdAlreadyDeployed if id is already occupied (spec.md §7).
	DeployContract(id types.ContractID, code []byte) *PanicError

	// ContractState reads one 32-byte storage slot. ok is false for a slot
	// that was never written (reads as all-zero per spec.md §4.7).
	ContractState(id types.ContractID, key types.StorageKey) (value types.Bytes32, ok bool)

	// SetContractState writes one 32-byte storage slot.
	SetContractState(id types.ContractID, key types.StorageKey, value types.Bytes32)

	// ContractStateRange reads `count` consecutive slots starting at key
	// (backs SRWQ); any missing slot is returned as all-zero with found=false
	// in the returned bitmap.
	ContractStateRange(id types.ContractID, key types.StorageKey, count uint64) (values []types.Bytes32, found []bool)

	// SetContractStateRange writes `count` consecutive slots starting at key
	// from values (backs SWWQ).
	SetContractStateRange(id types.ContractID, key types.StorageKey, values []types.Bytes32)

	// ClearContractStateRange deletes `count` consecutive slots starting at
	// key (backs SCWQ), reporting whether any of them existed.
	ClearContractStateRange(id types.ContractID, key types.StorageKey, count uint64) (anyExisted bool)

	// ContractBalance returns the balance of asset held by contract id.
	ContractBalance(id types.ContractID, asset types.AssetID) Word

	// CreditBalance increases contract id's balance of asset by amount,
	// used by MINT and by TR's receiving side.
	CreditBalance(id types.ContractID, asset types.AssetID, amount Word)

	// DebitBalance decreases contract id's balance of asset by amount.
	// Returns PanicNotEnoughBalance if amount exceeds the current balance.
	DebitBalance(id types.ContractID, asset types.AssetID, amount Word) *PanicError

	// BlockHash returns the hash of the block at height, or the zero hash if
	// height is beyond the current chain tip (spec.md §4.7 "block_hash").
	BlockHash(height uint64) types.Bytes32

	// BlockHeight returns the height of the block this transaction executes
	// in.
	BlockHeight() uint64

	// Coinbase returns the contract id credited with block rewards/fees for
	// the current block.
	Coinbase() types.ContractID

	// Timestamp returns the unix timestamp of the current block.
	Timestamp() uint64
}
