package vm

import (
	"errors"
	"fmt"
)

// PanicReason enumerates the named panic kinds of spec.md §7. A PanicReason
// unwinds to the nearest call boundary (internal) or aborts the whole
// transaction (external/unrecoverable); it is distinct from the Go-level
// sentinel errors below, which signal host-side misuse rather than
// VM-observable execution outcomes.
type PanicReason int

const (
	PanicUnknownPanicReason PanicReason = iota
	PanicRevert
	PanicOutOfGas
	PanicTransactionValidity
	PanicMemoryOverflow
	PanicArithmeticOverflow
	PanicContractNotFound
	PanicMemoryOwnership
	PanicNotEnoughBalance
	PanicExpectedInternalContext
	PanicArithmeticError
	PanicContractNotInInputs
	PanicMessageDataTooLong
	PanicReservedRegisterNotWritable
	PanicInvalidFlags
	PanicMemoryOverlap
	PanicOutputNotFound
	PanicTransferZeroCoins
	PanicExpectedUnallocatedStack
	PanicBalanceOverflow
	PanicContractIdAlreadyDeployed
)

var panicReasonNames = map[PanicReason]string{
	PanicUnknownPanicReason:          "UnknownPanicReason",
	PanicRevert:                      "Revert",
	PanicOutOfGas:                    "OutOfGas",
	PanicTransactionValidity:         "TransactionValidity",
	PanicMemoryOverflow:              "MemoryOverflow",
	PanicArithmeticOverflow:          "ArithmeticOverflow",
	PanicContractNotFound:            "ContractNotFound",
	PanicMemoryOwnership:             "MemoryOwnership",
	PanicNotEnoughBalance:            "NotEnoughBalance",
	PanicExpectedInternalContext:     "ExpectedInternalContext",
	PanicArithmeticError:             "ArithmeticError",
	PanicContractNotInInputs:         "ContractNotInInputs",
	PanicMessageDataTooLong:          "MessageDataTooLong",
	PanicReservedRegisterNotWritable: "ReservedRegisterNotWritable",
	PanicInvalidFlags:                "InvalidFlags",
	PanicMemoryOverlap:               "MemoryOverlap",
	PanicOutputNotFound:              "OutputNotFound",
	PanicTransferZeroCoins:           "TransferZeroCoins",
	PanicExpectedUnallocatedStack:    "ExpectedUnallocatedStack",
	PanicBalanceOverflow:             "BalanceOverflow",
	PanicContractIdAlreadyDeployed:   "ContractIdAlreadyDeployed",
}

func (p PanicReason) String() string {
	if name, ok := panicReasonNames[p]; ok {
		return name
	}
	return "UnknownPanicReason"
}

// PanicError is the VM-level halting condition described in spec.md §7. It
// is returned by opcode handlers and caught by the interpreter loop, which
// turns it into a Panic receipt and either pops a frame (internal context)
// or fails the whole transaction (external context).
type PanicError struct {
	Reason PanicReason
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("vm panic: %s", e.Reason)
}

func newPanic(reason PanicReason) *PanicError {
	return &PanicError{Reason: reason}
}

// NewPanic constructs a *PanicError for the given reason. Exported for
// Storage implementations outside this package that need to raise
// PanicNotEnoughBalance, PanicContractIdAlreadyDeployed, etc. from their own
// DebitBalance/DeployContract methods.
func NewPanic(reason PanicReason) *PanicError {
	return newPanic(reason)
}

// AsPanic extracts a *PanicError from err, if any, the same way the teacher
// distinguishes ErrExecutionReverted from other interpreter errors via
// errors.Is/errors.As.
func AsPanic(err error) (*PanicError, bool) {
	var p *PanicError
	if errors.As(err, &p) {
		return p, true
	}
	return nil, false
}

// Host-side sentinel errors: these signal misuse of the Go API (nil
// storage, malformed Params) rather than a VM-observable panic, mirroring
// the teacher's split between ErrExecutionReverted (a VM outcome) and
// "no state database" (a host wiring bug) in interpreter.go.
var (
	ErrNilStorage        = errors.New("vm: storage backend is nil")
	ErrInvalidParams     = errors.New("vm: invalid params")
	ErrUnsupportedTxType = errors.New("vm: unsupported transaction type")
	ErrNoActiveFrame     = errors.New("vm: no active call frame")
)
