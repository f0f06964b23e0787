// Package types defines the core FuelVM data primitives: 32-byte identifiers
// and the 64-bit Word that is the universal VM scalar.
package types

import (
	"encoding/hex"
	"fmt"
)

// ByteLength is the width of every identifier in the FuelVM data model:
// contract IDs, asset IDs, storage keys, and storage values are all 32 bytes.
const ByteLength = 32

// Word is the universal 64-bit scalar: register contents, memory offsets,
// gas amounts, and balances are all Words.
type Word = uint64

// Bytes32 is a fixed 32-byte value, the base type for ContractID, AssetID,
// and storage keys/values.
type Bytes32 [ByteLength]byte

// BytesToBytes32 converts b to a Bytes32, left-padding if shorter than 32
// bytes and truncating to the trailing 32 bytes if longer.
func BytesToBytes32(b []byte) Bytes32 {
	var out Bytes32
	out.SetBytes(b)
	return out
}

// SetBytes sets the value from a byte slice, left-padding with zeroes.
func (b *Bytes32) SetBytes(v []byte) {
	if len(v) > ByteLength {
		v = v[len(v)-ByteLength:]
	}
	copy(b[ByteLength-len(v):], v)
}

// Bytes returns the byte slice view of the value.
func (b Bytes32) Bytes() []byte { return b[:] }

// IsZero reports whether every byte is zero.
func (b Bytes32) IsZero() bool { return b == Bytes32{} }

// Hex returns the 0x-prefixed hex encoding.
func (b Bytes32) Hex() string { return "0x" + hex.EncodeToString(b[:]) }

// String implements fmt.Stringer.
func (b Bytes32) String() string { return b.Hex() }

// ContractID uniquely identifies a deployed contract.
type ContractID = Bytes32

// AssetID uniquely identifies a fungible asset, scoped to the contract that
// minted it via a sub-asset-id tag (see vm/crypto.go).
type AssetID = Bytes32

// StorageKey is a 32-byte key into a contract's state mapping.
type StorageKey = Bytes32

// HexToBytes32 parses a 0x-prefixed or bare hex string into a Bytes32.
func HexToBytes32(s string) (Bytes32, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Bytes32{}, fmt.Errorf("types: invalid hex: %w", err)
	}
	if len(raw) > ByteLength {
		return Bytes32{}, fmt.Errorf("types: value too long: %d bytes", len(raw))
	}
	return BytesToBytes32(raw), nil
}
