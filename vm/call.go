package vm

import "github.com/fuelvm-go/fuelvm/types"

// execCall implements CALL (spec.md §4.6): $ra points at the 32-byte target
// contract id in memory, $rb is the coin amount to forward, $rc points at
// the 32-byte asset id of that amount, $rd is the gas to forward (capped by
// CGAS). On success the callee's code is loaded and execution continues
// there; the caller's full register file is snapshotted onto the frame
// stack so RET/RETD/a panic can restore it later.
func (vm *Interpreter) execCall(inst Instruction) *PanicError {
	if vm.ctx != Call && vm.ctx != Script {
		return newPanic(PanicExpectedInternalContext)
	}

	targetBytes, perr := vm.mem.Read(vm.regs.Get(inst.Ra), types.ByteLength)
	if perr != nil {
		return perr
	}
	target := types.BytesToBytes32(targetBytes)

	assetBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rc), types.ByteLength)
	if perr != nil {
		return perr
	}
	asset := types.BytesToBytes32(assetBytes)

	amount := vm.regs.Get(inst.Rb)
	forwardGasReq := vm.regs.Get(inst.Rd)

	code, ok := vm.storage.ContractCode(target)
	if !ok {
		return newPanic(PanicContractNotFound)
	}

	if amount > 0 {
		if perr := vm.storage.DebitBalance(vm.contractID, asset, amount); perr != nil {
			return perr
		}
	}

	sp := vm.regs.Get(uint8(RegSP))
	if perr := vm.mem.SystemWrite(sp, code); perr != nil {
		if amount > 0 {
			vm.storage.CreditBalance(vm.contractID, asset, amount) // undo debit, load failed
		}
		return perr
	}
	if amount > 0 {
		vm.storage.CreditBalance(target, asset, amount)
	}

	forwardedGas := vm.gas.ForwardToCallee(forwardGasReq)

	frame := Frame{
		ContractID:     vm.contractID,
		AssetID:        vm.assetID,
		CodeSize:       Word(len(code)),
		ParamA:         vm.regs.Get(inst.Ra),
		ParamB:         vm.regs.Get(inst.Rb),
		SavedRegisters: vm.regs.Snapshot(),
		StackBase:      sp,
		CallerHP:       vm.regs.Get(uint8(RegHP)),
		CallerContext:  vm.ctx,
	}
	vm.frames.Push(frame)

	vm.receipts.Append(Receipt{
		Type:       ReceiptCall,
		PC:         vm.regs.Get(uint8(RegPC)),
		IS:         vm.regs.Get(uint8(RegIS)),
		ContractID: frame.ContractID,
		To:         target,
		AssetID:    asset,
		Amount:     amount,
	})

	vm.contractID = target
	vm.assetID = asset
	vm.ctx = Call

	newBase := sp
	newSSP := newBase + Word(len(code))
	vm.regs.SetSystem(uint8(RegFP), newBase)
	vm.regs.SetSystem(uint8(RegIS), newBase)
	vm.regs.SetSystem(uint8(RegPC), newBase)
	vm.regs.SetSystem(uint8(RegSSP), newSSP)
	vm.regs.SetSystem(uint8(RegSP), newSSP)
	vm.regs.SetSystem(uint8(RegCGAS), forwardedGas)
	return nil
}

// execRet implements RET/RETD (spec.md §4.6). withData distinguishes RETD
// (ra=pointer, rb=length, variable-length payload) from RET (ra=single
// return word).
func (vm *Interpreter) execRet(inst Instruction, withData bool) *PanicError {
	var value, retVal, retLen Word
	var data []byte

	if withData {
		ptr, n := vm.regs.Get(inst.Ra), vm.regs.Get(inst.Rb)
		d, perr := vm.mem.Read(ptr, n)
		if perr != nil {
			return perr
		}
		data = d
		retVal, retLen = ptr, n
	} else {
		value = vm.regs.Get(inst.Ra)
		retVal = value
	}

	receiptType := ReceiptReturn
	if withData {
		receiptType = ReceiptReturnData
	}
	vm.receipts.Append(Receipt{
		Type:       receiptType,
		PC:         vm.regs.Get(uint8(RegPC)),
		IS:         vm.regs.Get(uint8(RegIS)),
		ContractID: vm.contractID,
		RA:         value,
		Data:       data,
		Digest:     HashCode(data),
	})

	if vm.frames.Depth() == 0 {
		vm.regs.SetSystem(uint8(RegRET), retVal)
		vm.regs.SetSystem(uint8(RegRETL), retLen)
		vm.halted = true
		return nil
	}

	frame := vm.frames.Pop()
	callerPC := frame.SavedRegisters[RegPC]
	unusedCGAS := vm.regs.Get(uint8(RegCGAS))
	ggas := vm.gas.GGAS()
	vm.regs.Restore(frame.SavedRegisters)
	vm.regs.SetSystem(uint8(RegGGAS), ggas)
	vm.gas.RefundCGAS(unusedCGAS)
	vm.regs.SetSystem(uint8(RegPC), callerPC+instructionSize)
	vm.regs.SetSystem(uint8(RegRET), retVal)
	vm.regs.SetSystem(uint8(RegRETL), retLen)
	vm.contractID = frame.ContractID
	vm.assetID = frame.AssetID
	vm.ctx = frame.CallerContext
	return nil
}

// execLDC implements LDC (spec.md §4.6): load rc bytes of contract rb's code
// at offset ra into memory right above the current stack pointer, without
// pushing a call frame. Used by scripts that want to inline a library
// contract's code (e.g. standard-library predicates) rather than CALL it.
func (vm *Interpreter) execLDC(inst Instruction) *PanicError {
	idBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rb), types.ByteLength)
	if perr != nil {
		return perr
	}
	id := types.BytesToBytes32(idBytes)

	code, ok := vm.storage.ContractCode(id)
	if !ok {
		return newPanic(PanicContractNotFound)
	}
	offset := vm.regs.Get(inst.Ra)
	n := vm.regs.Get(inst.Rc)
	if offset+n > Word(len(code)) {
		return newPanic(PanicMemoryOverflow)
	}

	sp := vm.regs.Get(uint8(RegSP))
	if perr := vm.mem.SystemWrite(sp, code[offset:offset+n]); perr != nil {
		return perr
	}
	vm.regs.SetSystem(uint8(RegSP), sp+n)
	vm.regs.SetSystem(uint8(RegSSP), sp+n)
	return nil
}
