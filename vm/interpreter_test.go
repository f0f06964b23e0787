package vm

import (
	"testing"

	"github.com/fuelvm-go/fuelvm/types"
)

func assembleAndRun(t *testing.T, instructions []Instruction) *Interpreter {
	t.Helper()
	code := make([]byte, 0, len(instructions)*instructionSize)
	for _, inst := range instructions {
		w := Encode(inst)
		code = append(code, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	backend := newFakeStorage()
	vmi, err := NewInterpreter(backend, DefaultParams())
	if err != nil {
		t.Fatalf("NewInterpreter: %v", err)
	}
	if err := vmi.Load(Script, code, types.ContractID{}, types.AssetID{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	vmi.SetGas(1_000_000, 1_000_000)
	if perr := vmi.Run(); perr != nil {
		t.Fatalf("Run: %v", perr)
	}
	return vmi
}

func TestInterpreterAddAndReturn(t *testing.T) {
	vmi := assembleAndRun(t, []Instruction{
		{Op: MOVI, Shape: ShapeRImm18, Ra: 16, Imm18: 5},
		{Op: MOVI, Shape: ShapeRImm18, Ra: 17, Imm18: 7},
		{Op: ADD, Shape: ShapeRRR, Ra: 18, Rb: 16, Rc: 17},
		{Op: RET, Shape: ShapeR, Ra: 18},
	})
	if got := vmi.regs.Get(uint8(RegRET)); got != 12 {
		t.Fatalf("RET register = %d, want 12", got)
	}
	receipts := vmi.Receipts().All()
	if len(receipts) != 1 || receipts[0].Type != ReceiptReturn {
		t.Fatalf("expected one Return receipt, got %+v", receipts)
	}
}

func TestInterpreterJumpLoop(t *testing.T) {
	// r16 = 0; r20 = word-index of the loop body (4); loop: r16 += 1;
	// if r16 != 3, jump to the register holding word-index 4; else fall
	// through to RET r16.
	vmi := assembleAndRun(t, []Instruction{
		{Op: MOVI, Shape: ShapeRImm18, Ra: 16, Imm18: 0},  // 0
		{Op: MOVI, Shape: ShapeRImm18, Ra: 17, Imm18: 1},  // 1
		{Op: MOVI, Shape: ShapeRImm18, Ra: 18, Imm18: 3},  // 2
		{Op: MOVI, Shape: ShapeRImm18, Ra: 20, Imm18: 4},  // 3: jump target (word index 4)
		{Op: ADD, Shape: ShapeRRR, Ra: 16, Rb: 16, Rc: 17}, // 4: loop body
		{Op: EQ, Shape: ShapeRRR, Ra: 19, Rb: 16, Rc: 18}, // 5
		{Op: XOR, Shape: ShapeRRR, Ra: 19, Rb: 19, Rc: 17}, // 6
		{Op: JNZ, Shape: ShapeRR, Ra: 20, Rb: 19},         // 7
		{Op: RET, Shape: ShapeR, Ra: 16},                  // 8
	})
	if got := vmi.regs.Get(uint8(RegRET)); got != 3 {
		t.Fatalf("RET register = %d, want 3", got)
	}
}

func TestInterpreterOutOfGasPanicsExternally(t *testing.T) {
	code := []byte{byte(NOOP), 0, 0, 0}
	backend := newFakeStorage()
	vmi, err := NewInterpreter(backend, DefaultParams())
	if err != nil {
		t.Fatalf("NewInterpreter: %v", err)
	}
	if err := vmi.Load(Script, code, types.ContractID{}, types.AssetID{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	vmi.SetGas(0, 0)
	perr := vmi.Run()
	if perr == nil || perr.Reason != PanicOutOfGas {
		t.Fatalf("expected PanicOutOfGas, got %v", perr)
	}
}

func TestInterpreterALUWriteToZeroPanics(t *testing.T) {
	code := []byte{}
	inst := Instruction{Op: ADD, Shape: ShapeRRR, Ra: uint8(RegZero), Rb: 16, Rc: 17}
	w := Encode(inst)
	code = append(code, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))

	backend := newFakeStorage()
	vmi, err := NewInterpreter(backend, DefaultParams())
	if err != nil {
		t.Fatalf("NewInterpreter: %v", err)
	}
	if err := vmi.Load(Script, code, types.ContractID{}, types.AssetID{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	vmi.SetGas(1_000_000, 1_000_000)
	perr := vmi.Run()
	if perr == nil || perr.Reason != PanicReservedRegisterNotWritable {
		t.Fatalf("expected PanicReservedRegisterNotWritable for ADD ZERO, got %v", perr)
	}
}

func TestInterpreterReservedRegisterNotWritable(t *testing.T) {
	code := []byte{}
	inst := Instruction{Op: MOVI, Shape: ShapeRImm18, Ra: uint8(RegPC), Imm18: 1}
	w := Encode(inst)
	code = append(code, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))

	backend := newFakeStorage()
	vmi, err := NewInterpreter(backend, DefaultParams())
	if err != nil {
		t.Fatalf("NewInterpreter: %v", err)
	}
	if err := vmi.Load(Script, code, types.ContractID{}, types.AssetID{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	vmi.SetGas(1_000_000, 1_000_000)
	perr := vmi.Run()
	if perr == nil || perr.Reason != PanicReservedRegisterNotWritable {
		t.Fatalf("expected PanicReservedRegisterNotWritable, got %v", perr)
	}
}
