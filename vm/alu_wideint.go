package vm

import "github.com/holiman/uint256"

// Wide-int operations treat their operand registers as pointers into memory
// rather than value registers (except WDCM's $ra, which receives the
// comparison result, and WDOP's $rd, which selects the sub-operation): each
// pointer points at a 32-byte big-endian word, the same
// indirection LW/SW use for ordinary memory access but sized for the
// 256-bit operands this family targets (spec.md §4.5's "wide" variants of
// the ALU, for contracts doing U256 arithmetic without spending 4
// instructions assembling one from 64-bit limbs).
const wideWordSize = 32

// wideSubOp is packed into the low nibble of $rd for WDOP; the high bits of
// $rd select nothing else since WDOP's fourth operand is purely a selector,
// not a fifth memory pointer.
type wideSubOp uint8

const (
	wideAdd wideSubOp = iota
	wideSub
	wideAnd
	wideOr
	wideXor
	wideShl
	wideShr
)

func (vm *Interpreter) readWide(addr Word) (*uint256.Int, *PanicError) {
	b, perr := vm.mem.Read(addr, wideWordSize)
	if perr != nil {
		return nil, perr
	}
	return new(uint256.Int).SetBytes(b), nil
}

func (vm *Interpreter) writeWide(addr Word, v *uint256.Int) *PanicError {
	b := v.Bytes32()
	return vm.mem.Write(vm.ownership(), addr, b[:])
}

// execWideInt dispatches WDCM/WDOP/WDML/WDDV/WDMD/WDAM.
func (vm *Interpreter) execWideInt(inst Instruction) *PanicError {
	switch inst.Op {
	case WDCM:
		return vm.execWDCM(inst)
	case WDOP:
		return vm.execWDOP(inst)
	case WDML:
		return vm.execWideMulDiv(inst, false)
	case WDDV:
		return vm.execWideMulDiv(inst, true)
	case WDMD:
		return vm.execWideModArith(inst, true)
	case WDAM:
		return vm.execWideModArith(inst, false)
	}
	return nil
}

// execWDCM implements WDCM: ra (ordinary register) = compare(*rb, *rc): 0
// if equal, 1 if *rb < *rc, 2 if *rb > *rc.
func (vm *Interpreter) execWDCM(inst Instruction) *PanicError {
	a, perr := vm.readWide(vm.regs.Get(inst.Rb))
	if perr != nil {
		return perr
	}
	b, perr := vm.readWide(vm.regs.Get(inst.Rc))
	if perr != nil {
		return perr
	}
	switch a.Cmp(b) {
	case 0:
		vm.regs.Set(inst.Ra, 0)
	case -1:
		vm.regs.Set(inst.Ra, 1)
	default:
		vm.regs.Set(inst.Ra, 2)
	}
	return nil
}

// execWDOP implements WDOP: *ra = *rb OP *rc, op selected by the low nibble
// of rd; shift ops use *rc's low 64 bits as the shift amount.
func (vm *Interpreter) execWDOP(inst Instruction) *PanicError {
	a, perr := vm.readWide(vm.regs.Get(inst.Rb))
	if perr != nil {
		return perr
	}
	b, perr := vm.readWide(vm.regs.Get(inst.Rc))
	if perr != nil {
		return perr
	}
	result := new(uint256.Int)
	switch wideSubOp(inst.Rd & 0xf) {
	case wideAdd:
		overflow := result.AddOverflow(a, b)
		if overflow && vm.regs.Get(uint8(RegFLAG))&FlagWrapping == 0 {
			return newPanic(PanicArithmeticOverflow)
		}
		vm.setOF(boolWord(overflow))
	case wideSub:
		overflow := result.SubOverflow(a, b)
		if overflow && vm.regs.Get(uint8(RegFLAG))&FlagWrapping == 0 {
			return newPanic(PanicArithmeticOverflow)
		}
		vm.setOF(boolWord(overflow))
	case wideAnd:
		result.And(a, b)
		vm.setOF(0)
	case wideOr:
		result.Or(a, b)
		vm.setOF(0)
	case wideXor:
		result.Xor(a, b)
		vm.setOF(0)
	case wideShl:
		result.Lsh(a, uint(b.Uint64()))
		vm.setOF(0)
	case wideShr:
		result.Rsh(a, uint(b.Uint64()))
		vm.setOF(0)
	default:
		return newPanic(PanicArithmeticError)
	}
	return vm.writeWide(vm.regs.Get(inst.Ra), result)
}

// execWideMulDiv implements WDML (*ra = *rb * *rc) and WDDV (*ra = *rb /
// *rc), sharing the divide-by-zero/UNSAFEMATH handling with the narrow ALU.
func (vm *Interpreter) execWideMulDiv(inst Instruction, isDiv bool) *PanicError {
	a, perr := vm.readWide(vm.regs.Get(inst.Rb))
	if perr != nil {
		return perr
	}
	b, perr := vm.readWide(vm.regs.Get(inst.Rc))
	if perr != nil {
		return perr
	}
	unsafeMath := vm.regs.Get(uint8(RegFLAG))&FlagUnsafeMath != 0
	result := new(uint256.Int)
	if isDiv {
		if b.IsZero() {
			if !unsafeMath {
				return newPanic(PanicArithmeticError)
			}
			vm.setErr(1)
			return vm.writeWide(vm.regs.Get(inst.Ra), result)
		}
		result.Div(a, b)
		vm.setErr(0)
		return vm.writeWide(vm.regs.Get(inst.Ra), result)
	}
	overflow := result.MulOverflow(a, b)
	wrapping := vm.regs.Get(uint8(RegFLAG))&FlagWrapping != 0
	if overflow && !wrapping {
		return newPanic(PanicArithmeticOverflow)
	}
	vm.setOF(boolWord(overflow))
	return vm.writeWide(vm.regs.Get(inst.Ra), result)
}

// execWideModArith implements WDMD (mulmod: *ra = (*rb * *rc) mod *rd) and
// WDAM (addmod: *ra = (*rb + *rc) mod *rd), using uint256's wide
// intermediate so the multiply can't itself overflow before the modulus is
// applied.
func (vm *Interpreter) execWideModArith(inst Instruction, isMul bool) *PanicError {
	a, perr := vm.readWide(vm.regs.Get(inst.Rb))
	if perr != nil {
		return perr
	}
	b, perr := vm.readWide(vm.regs.Get(inst.Rc))
	if perr != nil {
		return perr
	}
	m, perr := vm.readWide(vm.regs.Get(inst.Rd))
	if perr != nil {
		return perr
	}
	unsafeMath := vm.regs.Get(uint8(RegFLAG))&FlagUnsafeMath != 0
	if m.IsZero() {
		if !unsafeMath {
			return newPanic(PanicArithmeticError)
		}
		vm.setErr(1)
		return vm.writeWide(vm.regs.Get(inst.Ra), new(uint256.Int))
	}
	result := new(uint256.Int)
	if isMul {
		result.MulMod(a, b, m)
	} else {
		result.AddMod(a, b, m)
	}
	vm.setErr(0)
	return vm.writeWide(vm.regs.Get(inst.Ra), result)
}

func boolWord(b bool) Word {
	if b {
		return 1
	}
	return 0
}
