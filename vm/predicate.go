package vm

import "github.com/fuelvm-go/fuelvm/types"

// PredicateResult is the outcome of verifying one predicate (spec.md §4.8):
// a predicate is a script attached to an input that must evaluate to a
// nonzero word in $ret with no mutating opcode along the way for that
// input to be considered authorized.
type PredicateResult struct {
	Verified bool
	GasUsed  Word
	Panic    *PanicError
}

// RunPredicate verifies one predicate script under the restricted
// (non-mutating) execution mode, the counterpart of the teacher's
// STATICCALL read-only enforcement but applied to the whole run rather
// than one nested call.
func RunPredicate(storage Storage, params Params, code []byte, gasLimit Word) (PredicateResult, error) {
	if gasLimit > params.MaxGasPerPredicate {
		gasLimit = params.MaxGasPerPredicate
	}
	interp, err := NewInterpreter(storage, params)
	if err != nil {
		return PredicateResult{}, err
	}
	interp.SetPredicateMode(true)
	if err := interp.Load(PredicateVerification, code, types.ContractID{}, types.AssetID{}); err != nil {
		return PredicateResult{}, err
	}
	interp.SetGas(gasLimit, gasLimit)

	perr := interp.Run()
	used := gasLimit - interp.gas.GGAS()
	if perr != nil {
		return PredicateResult{Verified: false, GasUsed: used, Panic: perr}, nil
	}
	verified := interp.regs.Get(uint8(RegRET)) != 0
	return PredicateResult{Verified: verified, GasUsed: used}, nil
}
