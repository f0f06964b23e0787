package vm

import "github.com/fuelvm-go/fuelvm/types"

// execBlockchain dispatches the blockchain-interaction opcode family
// (spec.md §4.7): minting/burning the running contract's native asset,
// inter-contract and outgoing-message value transfers, logging, and
// contract code/state introspection. MINT, BURN, TRO, SMO, SWW, SWWQ and
// SCWQ require an internal (Call) context and panic with
// ExpectedInternalContext otherwise; TR, LOG, LOGD, BAL, CCP, CROO, CSIZ,
// SRW and SRWQ run in either context.
func (vm *Interpreter) execBlockchain(inst Instruction) *PanicError {
	switch inst.Op {
	case MINT:
		return vm.execMint(inst)
	case BURN:
		return vm.execBurn(inst)
	case TR:
		return vm.execTransfer(inst)
	case TRO:
		return vm.execTransferOut(inst)
	case SMO:
		return vm.execMessageOut(inst)
	case LOG:
		return vm.execLog(inst)
	case LOGD:
		return vm.execLogData(inst)
	case BAL:
		return vm.execBalance(inst)
	case CCP:
		return vm.execCodeCopy(inst)
	case CROO:
		return vm.execCodeRoot(inst)
	case CSIZ:
		return vm.execCodeSize(inst)
	case SRW:
		return vm.execStateRead(inst)
	case SWW:
		return vm.execStateWrite(inst)
	case SRWQ:
		return vm.execStateReadRange(inst)
	case SWWQ:
		return vm.execStateWriteRange(inst)
	case SCWQ:
		return vm.execStateClearRange(inst)
	}
	return nil
}

func (vm *Interpreter) requireInternal() *PanicError {
	if !vm.ctx.IsInternal() {
		return newPanic(PanicExpectedInternalContext)
	}
	return nil
}

// execMint implements MINT: $ra = sub-asset-id register value count to
// mint, $rb points at the 32-byte sub asset id; newly minted coins are
// credited to the running contract under DeriveAssetID(contractID, subID).
func (vm *Interpreter) execMint(inst Instruction) *PanicError {
	if perr := vm.requireInternal(); perr != nil {
		return perr
	}
	subIDBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rb), types.ByteLength)
	if perr != nil {
		return perr
	}
	subID := types.BytesToBytes32(subIDBytes)
	amount := vm.regs.Get(inst.Ra)
	asset := DeriveAssetID(vm.contractID, subID)
	vm.storage.CreditBalance(vm.contractID, asset, amount)
	vm.receipts.Append(Receipt{
		Type:       ReceiptMint,
		PC:         vm.regs.Get(uint8(RegPC)),
		IS:         vm.regs.Get(uint8(RegIS)),
		ContractID: vm.contractID,
		AssetID:    asset,
		Amount:     amount,
	})
	return nil
}

// execBurn implements BURN, the inverse of MINT. Panics NotEnoughBalance if
// the running contract does not hold enough of that sub-asset.
func (vm *Interpreter) execBurn(inst Instruction) *PanicError {
	if perr := vm.requireInternal(); perr != nil {
		return perr
	}
	subIDBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rb), types.ByteLength)
	if perr != nil {
		return perr
	}
	subID := types.BytesToBytes32(subIDBytes)
	amount := vm.regs.Get(inst.Ra)
	asset := DeriveAssetID(vm.contractID, subID)
	if perr := vm.storage.DebitBalance(vm.contractID, asset, amount); perr != nil {
		return perr
	}
	vm.receipts.Append(Receipt{
		Type:       ReceiptBurn,
		PC:         vm.regs.Get(uint8(RegPC)),
		IS:         vm.regs.Get(uint8(RegIS)),
		ContractID: vm.contractID,
		AssetID:    asset,
		Amount:     amount,
	})
	return nil
}

// execTransfer implements TR: move rb coins of asset at rc from the running
// contract's stored balance to the contract id pointed at by ra. Unlike
// MINT/BURN/SWW, TR is legal from either context. In an external context the
// running contract id is the zero id, so the coins are debited from the
// balance stored under the zero id; there is no separate transaction-level
// coin pool.
func (vm *Interpreter) execTransfer(inst Instruction) *PanicError {
	toBytes, perr := vm.mem.Read(vm.regs.Get(inst.Ra), types.ByteLength)
	if perr != nil {
		return perr
	}
	to := types.BytesToBytes32(toBytes)
	amount := vm.regs.Get(inst.Rb)
	if amount == 0 {
		return newPanic(PanicTransferZeroCoins)
	}
	assetBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rc), types.ByteLength)
	if perr != nil {
		return perr
	}
	asset := types.BytesToBytes32(assetBytes)
	if perr := vm.storage.DebitBalance(vm.contractID, asset, amount); perr != nil {
		return perr
	}
	vm.storage.CreditBalance(to, asset, amount)
	vm.receipts.Append(Receipt{
		Type:       ReceiptTransfer,
		PC:         vm.regs.Get(uint8(RegPC)),
		IS:         vm.regs.Get(uint8(RegIS)),
		ContractID: vm.contractID,
		To:         to,
		AssetID:    asset,
		Amount:     amount,
	})
	return nil
}

// execTransferOut implements TRO: like TR but the recipient is an output in
// the enclosing transaction rather than another contract (spec.md §4.7's
// "transfer to an output"). ra = pointer to recipient address, rb = output
// index, rc = amount, rd = pointer to asset id.
func (vm *Interpreter) execTransferOut(inst Instruction) *PanicError {
	if perr := vm.requireInternal(); perr != nil {
		return perr
	}
	toBytes, perr := vm.mem.Read(vm.regs.Get(inst.Ra), types.ByteLength)
	if perr != nil {
		return perr
	}
	to := types.BytesToBytes32(toBytes)
	amount := vm.regs.Get(inst.Rc)
	if amount == 0 {
		return newPanic(PanicTransferZeroCoins)
	}
	assetBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rd), types.ByteLength)
	if perr != nil {
		return perr
	}
	asset := types.BytesToBytes32(assetBytes)
	if perr := vm.storage.DebitBalance(vm.contractID, asset, amount); perr != nil {
		return perr
	}
	vm.receipts.Append(Receipt{
		Type:       ReceiptTransferOut,
		PC:         vm.regs.Get(uint8(RegPC)),
		IS:         vm.regs.Get(uint8(RegIS)),
		ContractID: vm.contractID,
		To:         to,
		AssetID:    asset,
		Amount:     amount,
		RB:         vm.regs.Get(inst.Rb), // output index
	})
	return nil
}

// execMessageOut implements SMO: send a message to an address outside the
// chain (an "output message"), carrying up to MaxMessageDataLength bytes of
// data. ra = recipient address pointer, rb = data pointer, rc = data
// length, rd = coin amount.
func (vm *Interpreter) execMessageOut(inst Instruction) *PanicError {
	if perr := vm.requireInternal(); perr != nil {
		return perr
	}
	recipientBytes, perr := vm.mem.Read(vm.regs.Get(inst.Ra), types.ByteLength)
	if perr != nil {
		return perr
	}
	recipient := types.BytesToBytes32(recipientBytes)

	length := vm.regs.Get(inst.Rc)
	if length > vm.params.MaxMessageDataLength {
		return newPanic(PanicMessageDataTooLong)
	}
	data, perr := vm.mem.Read(vm.regs.Get(inst.Rb), length)
	if perr != nil {
		return perr
	}

	amount := vm.regs.Get(inst.Rd)
	if amount > 0 {
		if perr := vm.storage.DebitBalance(vm.contractID, vm.params.BaseAssetID, amount); perr != nil {
			return perr
		}
	}

	vm.receipts.Append(Receipt{
		Type:       ReceiptMessageOut,
		PC:         vm.regs.Get(uint8(RegPC)),
		IS:         vm.regs.Get(uint8(RegIS)),
		ContractID: vm.contractID,
		To:         recipient,
		Amount:     amount,
		Data:       data,
		Digest:     HashCode(data),
	})
	return nil
}

// execLog implements LOG: emit a Log receipt carrying 4 raw register
// values, used for debugging/indexing rather than consensus-relevant state.
func (vm *Interpreter) execLog(inst Instruction) *PanicError {
	vm.receipts.Append(Receipt{
		Type:       ReceiptLog,
		PC:         vm.regs.Get(uint8(RegPC)),
		IS:         vm.regs.Get(uint8(RegIS)),
		ContractID: vm.contractID,
		RA:         vm.regs.Get(inst.Ra),
		RB:         vm.regs.Get(inst.Rb),
		RC:         vm.regs.Get(inst.Rc),
		RD:         vm.regs.Get(inst.Rd),
	})
	return nil
}

// execLogData implements LOGD: emit a LogData receipt carrying rd bytes of
// memory starting at rc, plus the ra/rb register values as tags.
func (vm *Interpreter) execLogData(inst Instruction) *PanicError {
	data, perr := vm.mem.Read(vm.regs.Get(inst.Rc), vm.regs.Get(inst.Rd))
	if perr != nil {
		return perr
	}
	vm.receipts.Append(Receipt{
		Type:       ReceiptLogData,
		PC:         vm.regs.Get(uint8(RegPC)),
		IS:         vm.regs.Get(uint8(RegIS)),
		ContractID: vm.contractID,
		RA:         vm.regs.Get(inst.Ra),
		RB:         vm.regs.Get(inst.Rb),
		Data:       data,
		Digest:     HashCode(data),
	})
	return nil
}

// execBalance implements BAL: ra = balance of asset (pointed at by rb) held
// by contract (pointed at by rc).
func (vm *Interpreter) execBalance(inst Instruction) *PanicError {
	assetBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rb), types.ByteLength)
	if perr != nil {
		return perr
	}
	idBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rc), types.ByteLength)
	if perr != nil {
		return perr
	}
	asset := types.BytesToBytes32(assetBytes)
	id := types.BytesToBytes32(idBytes)
	vm.regs.Set(inst.Ra, vm.storage.ContractBalance(id, asset))
	return nil
}

// execCodeCopy implements CCP: copy rd bytes of contract rb's code starting
// at offset rc into memory at ra.
func (vm *Interpreter) execCodeCopy(inst Instruction) *PanicError {
	idBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rb), types.ByteLength)
	if perr != nil {
		return perr
	}
	id := types.BytesToBytes32(idBytes)
	code, ok := vm.storage.ContractCode(id)
	if !ok {
		return newPanic(PanicContractNotFound)
	}
	offset := vm.regs.Get(inst.Rc)
	n := vm.regs.Get(inst.Rd)
	chunk := make([]byte, n)
	if offset < Word(len(code)) {
		end := offset + n
		if end > Word(len(code)) {
			end = Word(len(code))
		}
		copy(chunk, code[offset:end])
	}
	return vm.mem.Write(vm.ownership(), vm.regs.Get(inst.Ra), chunk)
}

// execCodeRoot implements CROO: write contract rb's stored code root (see
// Storage.ContractCodeRoot) into memory at ra.
func (vm *Interpreter) execCodeRoot(inst Instruction) *PanicError {
	idBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rb), types.ByteLength)
	if perr != nil {
		return perr
	}
	id := types.BytesToBytes32(idBytes)
	root, ok := vm.storage.ContractCodeRoot(id)
	if !ok {
		return newPanic(PanicContractNotFound)
	}
	return vm.mem.Write(vm.ownership(), vm.regs.Get(inst.Ra), root.Bytes())
}

// execCodeSize implements CSIZ: ra = code size of contract rb.
func (vm *Interpreter) execCodeSize(inst Instruction) *PanicError {
	idBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rb), types.ByteLength)
	if perr != nil {
		return perr
	}
	id := types.BytesToBytes32(idBytes)
	size, ok := vm.storage.ContractCodeSize(id)
	if !ok {
		return newPanic(PanicContractNotFound)
	}
	vm.regs.Set(inst.Ra, size)
	return nil
}

// execStateRead implements SRW: ra = state[current contract][key at rb].
func (vm *Interpreter) execStateRead(inst Instruction) *PanicError {
	keyBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rb), types.ByteLength)
	if perr != nil {
		return perr
	}
	key := types.BytesToBytes32(keyBytes)
	value, _ := vm.storage.ContractState(vm.contractID, key)
	var w [8]byte
	copy(w[:], value.Bytes()[24:])
	vm.regs.Set(inst.Ra, bytesToWord64(w[:]))
	return nil
}

// execStateWrite implements SWW: state[current contract][key at ra] =
// word rb, zero-extended to 32 bytes.
func (vm *Interpreter) execStateWrite(inst Instruction) *PanicError {
	if perr := vm.requireInternal(); perr != nil {
		return perr
	}
	keyBytes, perr := vm.mem.Read(vm.regs.Get(inst.Ra), types.ByteLength)
	if perr != nil {
		return perr
	}
	key := types.BytesToBytes32(keyBytes)
	value := types.BytesToBytes32(wordToBytes(vm.regs.Get(inst.Rb)))
	vm.storage.SetContractState(vm.contractID, key, value)
	return nil
}

// execStateReadRange implements SRWQ: read rc consecutive 32-byte slots
// starting at key rb into memory at rd; ra = count of slots actually found.
func (vm *Interpreter) execStateReadRange(inst Instruction) *PanicError {
	keyBytes, perr := vm.mem.Read(vm.regs.Get(inst.Rb), types.ByteLength)
	if perr != nil {
		return perr
	}
	key := types.BytesToBytes32(keyBytes)
	count := vm.regs.Get(inst.Rc)
	values, found := vm.storage.ContractStateRange(vm.contractID, key, count)
	dst := vm.regs.Get(inst.Rd)
	buf := make([]byte, 0, len(values)*types.ByteLength)
	hits := Word(0)
	for i, v := range values {
		buf = append(buf, v.Bytes()...)
		if found[i] {
			hits++
		}
	}
	if perr := vm.mem.Write(vm.ownership(), dst, buf); perr != nil {
		return perr
	}
	vm.regs.Set(inst.Ra, hits)
	return nil
}

// execStateWriteRange implements SWWQ: write rc consecutive 32-byte slots
// starting at key ra from memory at rb.
func (vm *Interpreter) execStateWriteRange(inst Instruction) *PanicError {
	if perr := vm.requireInternal(); perr != nil {
		return perr
	}
	keyBytes, perr := vm.mem.Read(vm.regs.Get(inst.Ra), types.ByteLength)
	if perr != nil {
		return perr
	}
	key := types.BytesToBytes32(keyBytes)
	count := vm.regs.Get(inst.Rc)
	raw, perr := vm.mem.Read(vm.regs.Get(inst.Rb), count*types.ByteLength)
	if perr != nil {
		return perr
	}
	values := make([]types.Bytes32, count)
	for i := range values {
		values[i] = types.BytesToBytes32(raw[i*types.ByteLength : (i+1)*types.ByteLength])
	}
	vm.storage.SetContractStateRange(vm.contractID, key, values)
	return nil
}

// execStateClearRange implements SCWQ: clear rb consecutive 32-byte slots
// starting at key ra; ra (on return) = 1 if any slot existed, else 0.
func (vm *Interpreter) execStateClearRange(inst Instruction) *PanicError {
	if perr := vm.requireInternal(); perr != nil {
		return perr
	}
	keyBytes, perr := vm.mem.Read(vm.regs.Get(inst.Ra), types.ByteLength)
	if perr != nil {
		return perr
	}
	key := types.BytesToBytes32(keyBytes)
	count := vm.regs.Get(inst.Rb)
	existed := vm.storage.ClearContractStateRange(vm.contractID, key, count)
	if existed {
		vm.regs.Set(inst.Ra, 1)
	} else {
		vm.regs.Set(inst.Ra, 0)
	}
	return nil
}

func bytesToWord64(b []byte) Word {
	var w Word
	for _, c := range b {
		w = w<<8 | Word(c)
	}
	return w
}
