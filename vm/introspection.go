package vm

// GM metadata selectors (spec.md §4.9's "GM queries"), the imm18 value of a
// GM instruction. Restricted to an explicit allow-list: any selector not in
// this table panics rather than silently returning zero, the same
// fail-closed posture the teacher's GetTransactionContext opcode dispatch
// takes for unrecognized BLOCKHASH-family subops.
const (
	GMIsCallerExternal Word = 0
	GMGetVerifyingPredicate Word = 1
	GMGetChainID Word = 2
	GMGetBaseAssetID Word = 3 // first 8 bytes only; full id needs memory, not a register
	GMGetCallFramePointer Word = 4
)

// GTF transaction-field selectors (spec.md §4.9's "GTF queries"), the
// imm12 value of a GTF instruction. Every selector below is a scalar field;
// none indexes into a list, and $rb is not read.
const (
	GTFType             uint16 = 0
	GTFScriptLength     uint16 = 1
	GTFScriptDataLength uint16 = 2
	GTFInputsCount      uint16 = 3
	GTFOutputsCount     uint16 = 4
	GTFWitnessesCount   uint16 = 5
	GTFGasPrice         uint16 = 6
	GTFGasLimit         uint16 = 7
	GTFMaturity         uint16 = 8
)

// execGM implements GM: ra = metadata(imm18).
func (vm *Interpreter) execGM(inst Instruction) *PanicError {
	switch Word(inst.Imm18) {
	case GMIsCallerExternal:
		if vm.frames.Depth() == 0 {
			vm.regs.Set(inst.Ra, 1)
		} else {
			vm.regs.Set(inst.Ra, 0)
		}
	case GMGetVerifyingPredicate:
		if vm.predicateMode {
			vm.regs.Set(inst.Ra, 1)
		} else {
			vm.regs.Set(inst.Ra, 0)
		}
	case GMGetChainID:
		vm.regs.Set(inst.Ra, vm.params.ChainID)
	case GMGetBaseAssetID:
		vm.regs.Set(inst.Ra, bytesToWord64(vm.params.BaseAssetID[:8]))
	case GMGetCallFramePointer:
		vm.regs.Set(inst.Ra, vm.regs.Get(uint8(RegFP)))
	default:
		return newPanic(PanicUnknownPanicReason)
	}
	return nil
}

// execGTF implements GTF: ra = txField(imm12). Values are sourced
// from the Interpreter's txFields table, populated by the transaction
// driver before Run (vm/driver.go).
func (vm *Interpreter) execGTF(inst Instruction) *PanicError {
	v, ok := vm.txFields[uint16(inst.Imm12)]
	if !ok {
		return newPanic(PanicUnknownPanicReason)
	}
	vm.regs.Set(inst.Ra, v)
	return nil
}
