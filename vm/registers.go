package vm

import "github.com/fuelvm-go/fuelvm/types"

// NumRegisters is the size of the register file (spec.md §3.2).
const NumRegisters = 64

// ReservedRegisters is the count of system-reserved indices (0-15);
// writing them from user code (other than via the register layer's own
// bookkeeping) fails with PanicReservedRegisterNotWritable.
const ReservedRegisters = 16

// Register indices with semantic assignments, spec.md §3.2.
const (
	RegZero Word = iota
	RegOne
	RegOF
	RegPC
	RegSSP
	RegSP
	RegFP
	RegHP
	RegERR
	RegGGAS
	RegCGAS
	RegBAL
	RegIS
	RegRET
	RegRETL
	RegFLAG
)

// Word is an alias of the VM's 64-bit scalar type.
type Word = types.Word

// ALU mode flags stored in RegFLAG (spec.md §3.2, §4.5).
const (
	FlagWrapping   Word = 1 << 0
	FlagUnsafeMath Word = 1 << 1
)

// Registers is the VM's flat array of 64 64-bit words.
type Registers struct {
	data [NumRegisters]Word
}

// NewRegisters returns a zeroed register file with ONE correctly seeded.
func NewRegisters() *Registers {
	r := &Registers{}
	r.data[RegOne] = 1
	return r
}

// Get reads register idx. Indices beyond NumRegisters are a decode/shape
// bug, not a runtime condition the spec asks us to handle gracefully, so we
// panic (Go panic, not VM PanicError) to surface it during development.
func (r *Registers) Get(idx uint8) Word {
	return r.data[idx]
}

// Writable reports whether idx may be named as an opcode's destination
// register. Every reserved register, ZERO and ONE included, is rejected
// here: spec.md §3.2 discards ZERO/ONE writes silently at the register
// layer (see Set below) but calls writing them from an ALU-style
// destination-register op illegal, so the destination-write gate in
// interpreter.go must panic for idx 0-15 unconditionally rather than
// special-casing ZERO/ONE through.
func Writable(idx uint8) bool {
	return idx >= ReservedRegisters
}

// Set writes val into register idx, honoring the ZERO/ONE silent-discard
// rule. Callers that need the PanicReservedRegisterNotWritable semantics
// for a disallowed destination register must check Writable first; Set
// itself only implements the low-level storage rule, not the panic.
func (r *Registers) Set(idx uint8, val Word) {
	if idx == uint8(RegZero) || idx == uint8(RegOne) {
		return
	}
	r.data[idx] = val
}

// SetSystem writes a system register unconditionally, bypassing the
// user-write rules above. Used by the interpreter loop itself (PC, GGAS,
// CGAS, SSP/SP/HP bookkeeping, OF/ERR) which legitimately mutate reserved
// registers outside of user dispatch.
func (r *Registers) SetSystem(idx uint8, val Word) {
	r.data[idx] = val
}

// Snapshot returns a copy of all 64 registers, used when pushing a call
// frame (spec.md §3.4: "saved registers (all 64)").
func (r *Registers) Snapshot() [NumRegisters]Word {
	return r.data
}

// Restore overwrites all 64 registers from a saved snapshot.
func (r *Registers) Restore(snap [NumRegisters]Word) {
	r.data = snap
}
