package vm

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
	}{
		{"NOOP", Instruction{Op: NOOP, Shape: ShapeNone}},
		{"JMP", Instruction{Op: JMP, Shape: ShapeR, Ra: 7}},
		{"JNZ", Instruction{Op: JNZ, Shape: ShapeRR, Ra: 1, Rb: 2}},
		{"MOVI", Instruction{Op: MOVI, Shape: ShapeRImm18, Ra: 5, Imm18: 0x3abcd & 0x3ffff}},
		{"ADD", Instruction{Op: ADD, Shape: ShapeRRR, Ra: 10, Rb: 20, Rc: 30}},
		{"CALL", Instruction{Op: CALL, Shape: ShapeRRRR, Ra: 1, Rb: 2, Rc: 3, Rd: 4}},
		{"LW", Instruction{Op: LW, Shape: ShapeRRImm12, Ra: 9, Rb: 8, Imm12: 0xabc}},
		{"CFEI", Instruction{Op: CFEI, Shape: ShapeImm24, Imm24: 0xabcdef}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := Encode(tt.inst)
			got := Decode(word)
			if got != tt.inst {
				t.Fatalf("round trip mismatch: encoded %#08x, got %+v, want %+v", word, got, tt.inst)
			}
		})
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	inst := Decode(0xff000000)
	if inst.Op != Undefined {
		t.Fatalf("expected Undefined for unknown opcode byte, got %v", inst.Op)
	}
}

func TestEncodeUndefinedIsZeroWord(t *testing.T) {
	if w := Encode(Instruction{Op: Undefined}); w != 0 {
		t.Fatalf("expected zero word for Undefined, got %#08x", w)
	}
}

func TestOpcodeString(t *testing.T) {
	if ADD.String() != "ADD" {
		t.Fatalf("expected ADD, got %s", ADD.String())
	}
	if Undefined.String() != "UNDEFINED" {
		t.Fatalf("expected UNDEFINED, got %s", Undefined.String())
	}
}
