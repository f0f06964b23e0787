package vm

import "encoding/binary"

// execMemory dispatches the memory opcode family (spec.md §4.2): loads/
// stores of words and bytes, bulk copy/compare, heap allocation, and stack
// frame extension/shrink.
func (vm *Interpreter) execMemory(inst Instruction) *PanicError {
	switch inst.Op {
	case LW:
		addr := vm.regs.Get(inst.Rb) + Word(inst.Imm12)*8
		data, perr := vm.mem.Read(addr, 8)
		if perr != nil {
			return perr
		}
		vm.regs.Set(inst.Ra, binary.BigEndian.Uint64(data))
		return nil

	case SW:
		addr := vm.regs.Get(inst.Ra) + Word(inst.Imm12)*8
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], vm.regs.Get(inst.Rb))
		return vm.mem.Write(vm.ownership(), addr, buf[:])

	case LB:
		addr := vm.regs.Get(inst.Rb) + Word(inst.Imm12)
		data, perr := vm.mem.Read(addr, 1)
		if perr != nil {
			return perr
		}
		vm.regs.Set(inst.Ra, Word(data[0]))
		return nil

	case SB:
		addr := vm.regs.Get(inst.Ra) + Word(inst.Imm12)
		return vm.mem.Write(vm.ownership(), addr, []byte{byte(vm.regs.Get(inst.Rb))})

	case MCP:
		dst, src, n := vm.regs.Get(inst.Ra), vm.regs.Get(inst.Rb), vm.regs.Get(inst.Rc)
		return vm.mem.Copy(vm.ownership(), dst, src, n)

	case MEQ:
		a, b, n := vm.regs.Get(inst.Rb), vm.regs.Get(inst.Rc), vm.regs.Get(inst.Rd)
		eq, perr := vm.mem.Equal(a, b, n)
		if perr != nil {
			return perr
		}
		if eq {
			vm.regs.Set(inst.Ra, 1)
		} else {
			vm.regs.Set(inst.Ra, 0)
		}
		return nil

	case ALOC:
		n := vm.regs.Get(inst.Ra)
		hp := vm.regs.Get(uint8(RegHP))
		sp := vm.regs.Get(uint8(RegSP))
		if n > hp-sp {
			return newPanic(PanicMemoryOverflow)
		}
		vm.regs.SetSystem(uint8(RegHP), hp-n)
		return nil

	case CFEI:
		n := Word(inst.Imm24)
		sp := vm.regs.Get(uint8(RegSP))
		hp := vm.regs.Get(uint8(RegHP))
		if n > hp-sp {
			return newPanic(PanicMemoryOverflow)
		}
		if perr := vm.mem.Zero(Ownership{SSP: sp, SP: sp + n}, sp, n); perr != nil {
			return perr
		}
		vm.regs.SetSystem(uint8(RegSP), sp+n)
		return nil

	case CFSI:
		n := Word(inst.Imm24)
		sp := vm.regs.Get(uint8(RegSP))
		ssp := vm.regs.Get(uint8(RegSSP))
		if n > sp-ssp {
			return newPanic(PanicExpectedUnallocatedStack)
		}
		vm.regs.SetSystem(uint8(RegSP), sp-n)
		return nil
	}
	return nil
}
