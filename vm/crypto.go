package vm

import (
	"encoding/binary"

	sha256simd "github.com/minio/sha256-simd"

	"github.com/fuelvm-go/fuelvm/types"
)

// contractIDSeed is prepended to every contract-id derivation, namespacing
// it away from any other hash domain that might otherwise collide with it
// (spec.md §6.2).
var contractIDSeed = []byte("FUEL")

// DeriveContractID computes the deterministic contract id from its
// deployment salt, its code root (the driver passes HashCode of the
// bytecode), and the root of its initial
// storage state: sha256("FUEL" || salt || codeRoot || stateRoot). Grounded
// on the teacher's crypto.CreateAddress (contract address = hash of deployer
// + nonce), generalized to FuelVM's salt/code-root/state-root triple.
func DeriveContractID(salt types.Bytes32, codeRoot, stateRoot types.Bytes32) types.ContractID {
	h := sha256simd.New()
	h.Write(contractIDSeed)
	h.Write(salt.Bytes())
	h.Write(codeRoot.Bytes())
	h.Write(stateRoot.Bytes())
	var out types.Bytes32
	h.Sum(out[:0])
	return types.ContractID(out)
}

// DeriveAssetID computes a contract's sub-asset id: sha256(contractID ||
// subID). The "base asset" is the zero sub-id, by convention (spec.md
// §6.3).
func DeriveAssetID(contract types.ContractID, subID types.Bytes32) types.AssetID {
	h := sha256simd.New()
	h.Write(contract.Bytes())
	h.Write(subID.Bytes())
	var out types.Bytes32
	h.Sum(out[:0])
	return types.AssetID(out)
}

// HashCode returns the plain sha256 digest of a contract's bytecode. Storage
// backends record it as the contract's code root (CROO); it is the digest
// itself, not a leaf of a Merkle tree.
func HashCode(code []byte) types.Bytes32 {
	return types.Bytes32(sha256simd.Sum256(code))
}

// wordToBytes encodes a Word as 8 big-endian bytes, the canonical
// serialization used when hashing register/word values into receipts or
// derived ids.
func wordToBytes(w Word) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], w)
	return b[:]
}
