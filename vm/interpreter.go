package vm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/fuelvm-go/fuelvm/types"
)

// instructionSize is the fixed width of one FuelVM instruction word, spec.md
// §4.1.
const instructionSize = 4

// Interpreter is the fetch-decode-dispatch engine (spec.md §4.3), playing
// the role the teacher's core/vm.EVMInterpreter plays for the EVM: one
// instance per Transact call, reused across nested CALLs by pushing/popping
// frames rather than recursing into a fresh interpreter per call depth.
type Interpreter struct {
	regs     *Registers
	mem      *Memory
	gas      *GasMeter
	storage  Storage
	receipts *ReceiptList
	params   Params
	ctx      Context
	frames   *FrameStack

	contractID types.ContractID
	assetID    types.AssetID

	// txFields backs GTF: transaction-level scalar fields the driver
	// populates before Run (vm/introspection.go, vm/driver.go).
	txFields map[uint16]Word

	// predicateMode disables every state-mutating opcode (spec.md §4.8);
	// set for predicate verification/estimation, never for Script/Call.
	predicateMode bool

	halted     bool
	revertedBy *PanicError

	log log.Logger
}

// NewInterpreter wires a fresh interpreter around the given storage backend
// and parameter set, the same constructor-then-Run shape as the teacher's
// NewEVM(BlockContext, TxContext, StateDB, ChainConfig, Config).
func NewInterpreter(storage Storage, params Params) (*Interpreter, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	regs := NewRegisters()
	return &Interpreter{
		regs:     regs,
		mem:      NewMemory(),
		gas:      NewGasMeter(regs),
		storage:  storage,
		receipts: NewReceiptList(),
		params:   params,
		frames:   NewFrameStack(),
		txFields: make(map[uint16]Word),
		log:      log.New("module", "vm"),
	}, nil
}

// ownership returns the memory ownership window for the instruction
// currently executing: the stack range plus whichever heap range the
// current context owns (spec.md §4.2). In an internal (Call) context the
// heap ceiling is the caller's saved HP; in an external context it's
// MaxRAM.
func (vm *Interpreter) ownership() Ownership {
	heapTop := Word(MaxRAM)
	if f, ok := vm.frames.Top(); ok {
		heapTop = f.CallerHP
	}
	return Ownership{
		SSP:           vm.regs.Get(uint8(RegSSP)),
		SP:            vm.regs.Get(uint8(RegSP)),
		HP:            vm.regs.Get(uint8(RegHP)),
		CalleeHeapTop: heapTop,
	}
}

// Load installs code at address 0 of the address space, lays out the
// initial stack immediately after it, and points IS/PC at its start
// (spec.md §3.3's "code, data and stack... loaded into the VM memory").
func (vm *Interpreter) Load(ctx Context, code []byte, contractID types.ContractID, assetID types.AssetID) error {
	if len(code)%instructionSize != 0 {
		return fmt.Errorf("vm: code length %d is not a multiple of %d", len(code), instructionSize)
	}
	if perr := vm.mem.SystemWrite(0, code); perr != nil {
		return fmt.Errorf("vm: loading code: %w", perr)
	}
	vm.ctx = ctx
	vm.contractID = contractID
	vm.assetID = assetID
	sp := Word(len(code))
	vm.regs.SetSystem(uint8(RegIS), 0)
	vm.regs.SetSystem(uint8(RegPC), 0)
	vm.regs.SetSystem(uint8(RegSSP), sp)
	vm.regs.SetSystem(uint8(RegSP), sp)
	vm.regs.SetSystem(uint8(RegFP), 0)
	vm.regs.SetSystem(uint8(RegHP), Word(MaxRAM))
	return nil
}

// SetGas seeds GGAS/CGAS at the start of execution (spec.md §4.4).
func (vm *Interpreter) SetGas(ggas, cgas Word) {
	vm.regs.SetSystem(uint8(RegGGAS), ggas)
	vm.regs.SetSystem(uint8(RegCGAS), cgas)
}

// Receipts returns the accumulated receipt log.
func (vm *Interpreter) Receipts() *ReceiptList { return vm.receipts }

// SetTxField populates one GTF-queryable transaction field.
func (vm *Interpreter) SetTxField(selector uint16, value Word) {
	vm.txFields[selector] = value
}

// SetPredicateMode toggles the mutating-opcode restriction used while
// verifying or estimating gas for a predicate (spec.md §4.8).
func (vm *Interpreter) SetPredicateMode(on bool) {
	vm.predicateMode = on
}

// Run drives the fetch-decode-dispatch loop until a terminal condition:
// RET/RETD at depth 0, RVRT at any depth, or a panic at depth 0 (including
// running out of gas); a panic inside a CALL pops that frame and resumes the
// caller.
// It returns the terminal panic, if any; a nil return means normal
// RET/RETD completion.
func (vm *Interpreter) Run() *PanicError {
	for !vm.halted {
		if perr := vm.step(); perr != nil {
			if !vm.unwind(perr) {
				vm.halted = true
				vm.revertedBy = perr
				return perr
			}
		}
	}
	return vm.revertedBy
}

// step fetches, decodes, charges gas for, and dispatches exactly one
// instruction.
func (vm *Interpreter) step() *PanicError {
	pc := vm.regs.Get(uint8(RegPC))
	word, perr := vm.mem.View(pc, instructionSize)
	if perr != nil {
		return perr
	}
	inst := Decode(bytesToWord32(word))

	recordStep()
	cost := vm.costOf(inst)
	if !vm.gas.Charge(cost) {
		return newPanic(PanicOutOfGas)
	}
	recordGasBurned(cost)

	if vm.predicateMode && isMutating(inst.Op) {
		return newPanic(PanicExpectedInternalContext)
	}

	if writesRaRegister(inst.Op) && !Writable(inst.Ra) {
		return newPanic(PanicReservedRegisterNotWritable)
	}

	advance := true
	var perrOp *PanicError

	switch {
	case inst.Op == NOOP:
	case inst.Op == JMP:
		vm.regs.SetSystem(uint8(RegPC), vm.regs.Get(inst.Ra)*instructionSize)
		advance = false
	case inst.Op == JNZ:
		if vm.regs.Get(inst.Rb) != 0 {
			vm.regs.SetSystem(uint8(RegPC), vm.regs.Get(inst.Ra)*instructionSize)
			advance = false
		}
	case inst.Op == MOVE:
		vm.regs.Set(inst.Ra, vm.regs.Get(inst.Rb))
	case inst.Op == MOVI:
		vm.regs.Set(inst.Ra, Word(inst.Imm18))

	case isALUOp(inst.Op):
		perrOp = vm.execALU(inst)
	case inst.Op == NIOP:
		perrOp = vm.execNIOP(inst)
	case isWideIntOp(inst.Op):
		perrOp = vm.execWideInt(inst)

	case isMemoryOp(inst.Op):
		perrOp = vm.execMemory(inst)

	case inst.Op == CALL:
		perrOp = vm.execCall(inst)
		if perrOp == nil {
			recordCall()
		}
		advance = false // execCall sets PC itself (entering callee or staying put on error)
	case inst.Op == RET:
		perrOp = vm.execRet(inst, false)
		advance = false
	case inst.Op == RETD:
		perrOp = vm.execRet(inst, true)
		advance = false
	case inst.Op == RVRT:
		return newPanic(PanicRevert)
	case inst.Op == LDC:
		perrOp = vm.execLDC(inst)

	case isBlockchainOp(inst.Op):
		perrOp = vm.execBlockchain(inst)

	case inst.Op == GM:
		perrOp = vm.execGM(inst)
	case inst.Op == GTF:
		perrOp = vm.execGTF(inst)

	default:
		perrOp = newPanic(PanicUnknownPanicReason)
	}

	if perrOp != nil {
		return perrOp
	}
	if advance {
		vm.regs.SetSystem(uint8(RegPC), pc+instructionSize)
	}
	return nil
}

// unwind handles a panic: in an internal (Call) context it pops the
// offending frame, restores the caller's registers, records a Panic
// receipt, and continues the caller (spec.md §7: "internal context ...
// execution resumes in the caller"). In an external context, and for RVRT
// at any depth, it reports the panic as terminal.
func (vm *Interpreter) unwind(perr *PanicError) bool {
	recordPanic()
	vm.receipts.Append(Receipt{
		Type:        ReceiptPanic,
		PC:          vm.regs.Get(uint8(RegPC)),
		IS:          vm.regs.Get(uint8(RegIS)),
		ContractID:  vm.contractID,
		PanicReason: perr.Reason,
	})
	if vm.frames.Depth() == 0 || perr.Reason == PanicRevert {
		return false
	}
	frame := vm.frames.Pop()
	unusedCGAS := vm.regs.Get(uint8(RegCGAS))
	ggas := vm.gas.GGAS()
	vm.regs.Restore(frame.SavedRegisters)
	vm.regs.SetSystem(uint8(RegGGAS), ggas)
	vm.gas.RefundCGAS(unusedCGAS)
	vm.regs.SetSystem(uint8(RegPC), vm.regs.Get(uint8(RegPC))+instructionSize)
	vm.contractID = frame.ContractID
	vm.assetID = frame.AssetID
	vm.ctx = frame.CallerContext
	return true
}

func (vm *Interpreter) costOf(inst Instruction) Word {
	if fixed, ok := vm.params.GasCosts.Fixed[inst.Op]; ok {
		return fixed
	}
	switch inst.Op {
	case CALL:
		var size Word
		if idBytes, perr := vm.mem.View(vm.regs.Get(inst.Ra), types.ByteLength); perr == nil {
			size, _ = vm.storage.ContractCodeSize(types.BytesToBytes32(idBytes))
		}
		return DependentCost(vm.params.GasCosts.CallBase, vm.params.GasCosts.CallDenom, size)
	case MCP:
		return DependentCost(vm.params.GasCosts.MCPBase, vm.params.GasCosts.MCPDenom, vm.regs.Get(inst.Rc))
	case LDC:
		return DependentCost(vm.params.GasCosts.LDCBase, vm.params.GasCosts.LDCDenom, vm.regs.Get(inst.Rc))
	case CCP:
		return DependentCost(vm.params.GasCosts.CCPBase, vm.params.GasCosts.CCPDenom, vm.regs.Get(inst.Rd))
	case LOGD:
		return DependentCost(vm.params.GasCosts.LogDataBase, vm.params.GasCosts.LogDataDenom, vm.regs.Get(inst.Rd))
	case SMO:
		return DependentCost(vm.params.GasCosts.SMOBase, vm.params.GasCosts.SMODenom, vm.regs.Get(inst.Rc))
	case SRWQ:
		return DependentCost(vm.params.GasCosts.SRWQBase, vm.params.GasCosts.SRWQDenom, vm.regs.Get(inst.Rc))
	case SWWQ:
		return DependentCost(vm.params.GasCosts.SWWQBase, vm.params.GasCosts.SWWQDenom, vm.regs.Get(inst.Rc))
	default:
		return 1
	}
}

func isALUOp(op Opcode) bool {
	switch op {
	case ADD, SUB, MUL, DIV, MOD, EXP, MLOG, MROO, SLL, SRL, AND, OR, XOR, NOT, EQ, LT, GT:
		return true
	}
	return false
}

func isWideIntOp(op Opcode) bool {
	switch op {
	case WDCM, WDOP, WDML, WDDV, WDMD, WDAM:
		return true
	}
	return false
}

func isMemoryOp(op Opcode) bool {
	switch op {
	case LW, SW, LB, SB, MCP, MEQ, ALOC, CFEI, CFSI:
		return true
	}
	return false
}

func isBlockchainOp(op Opcode) bool {
	switch op {
	case MINT, BURN, TR, TRO, SMO, LOG, LOGD, BAL, CCP, CROO, CSIZ, SRW, SWW, SRWQ, SWWQ, SCWQ:
		return true
	}
	return false
}

// isMutating reports whether op is disallowed in predicate mode (spec.md
// §4.8): anything that touches storage, balances, or emits an
// externally-visible effect.
func isMutating(op Opcode) bool {
	switch op {
	case MINT, BURN, TR, TRO, SMO, SWW, SWWQ, SCWQ, CALL, LDC:
		return true
	}
	return false
}

// writesRaRegister reports whether op's $ra operand is a plain register
// destination (as opposed to a memory address, as SW/SB/MCP/TR use it).
// Gates the PanicReservedRegisterNotWritable check of spec.md §3.2.
func writesRaRegister(op Opcode) bool {
	switch op {
	case MOVE, MOVI,
		ADD, SUB, MUL, DIV, MOD, EXP, MLOG, MROO, SLL, SRL, AND, OR, XOR, NOT, EQ, LT, GT, NIOP,
		WDCM,
		LW, LB, MEQ,
		BAL, CSIZ, SRW, SRWQ, SCWQ,
		GM, GTF:
		return true
	}
	return false
}

func bytesToWord32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
