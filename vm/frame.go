package vm

import "github.com/fuelvm-go/fuelvm/types"

// Frame is the record of one call frame (spec.md §3.4). It is kept only as
// this Go struct on the FrameStack: CALL writes the callee's code at the
// caller's SP but no frame header, so no frame bytes are stored in VM memory
// at FP, and RET/RETD and panic-unwind restore the caller from
// SavedRegisters.
type Frame struct {
	ContractID types.ContractID
	AssetID    types.AssetID
	CodeSize   Word
	ParamA     Word
	ParamB     Word

	// CallerContext is the execution context (Script or Call) the caller was
	// running in before this CALL; RET/RETD and panic-unwind restore it so
	// that returning from a nested call doesn't leave the interpreter
	// mistakenly believing it is still inside the callee's Call context.
	CallerContext Context

	SavedRegisters [NumRegisters]Word

	// The caller's SP at CALL time, where the callee's code was loaded.
	// RET/RETD and panic-unwind restore SP through SavedRegisters instead.
	StackBase Word

	// HP as inherited from the caller, i.e. this frame's heap ceiling.
	CallerHP Word
}

// FrameStack is the call stack of active internal contexts (spec.md §3.4).
// Index 0, if present, is the outermost CALL made from the external context.
type FrameStack struct {
	frames []Frame
}

func NewFrameStack() *FrameStack {
	return &FrameStack{}
}

func (fs *FrameStack) Depth() int { return len(fs.frames) }

func (fs *FrameStack) Push(f Frame) {
	fs.frames = append(fs.frames, f)
}

// Pop removes and returns the innermost frame. Panics (Go panic) if empty;
// callers must check Depth()/IsInternal() first, mirroring the teacher's
// evm.callGasTemp stack discipline of never popping past depth 0.
func (fs *FrameStack) Pop() Frame {
	n := len(fs.frames)
	f := fs.frames[n-1]
	fs.frames = fs.frames[:n-1]
	return f
}

// Top returns the innermost frame without removing it, and whether one
// exists.
func (fs *FrameStack) Top() (Frame, bool) {
	if len(fs.frames) == 0 {
		return Frame{}, false
	}
	return fs.frames[len(fs.frames)-1], true
}
