package vm

// Memory is the VM's single linear address space (spec.md §3.3): a fixed
// MaxRAM-byte array split into a stack region [0, SP) with writable
// sub-region [SSP, SP), an unallocated gap [SP, HP], and a heap region
// (HP, MaxRAM) that grows downward. Unlike the teacher's EVM Memory (which
// only ever grows upward and is owned entirely by the running contract),
// every write here must satisfy the ownership predicate of spec.md §4.2.
type Memory struct {
	store []byte
}

// NewMemory allocates a zeroed MaxRAM-byte address space.
func NewMemory() *Memory {
	return &Memory{store: make([]byte, MaxRAM)}
}

// Len returns the fixed size of the address space (always MaxRAM).
func (m *Memory) Len() int { return len(m.store) }

// inBounds reports whether [addr, addr+n) lies within [0, MaxRAM) without
// overflowing address arithmetic.
func inBounds(addr, n, max uint64) bool {
	end := addr + n
	if end < addr {
		return false // overflow
	}
	return end <= max
}

// Read returns a copy of [addr, addr+n). Any out-of-bounds range panics
// MemoryOverflow (spec.md §4.2).
func (m *Memory) Read(addr, n Word) ([]byte, *PanicError) {
	if n == 0 {
		return nil, nil
	}
	if !inBounds(addr, n, uint64(len(m.store))) {
		return nil, newPanic(PanicMemoryOverflow)
	}
	out := make([]byte, n)
	copy(out, m.store[addr:addr+n])
	return out, nil
}

// View returns a direct slice into the backing array, for read-only
// internal use (e.g. hashing code just loaded). Same bounds rule as Read.
func (m *Memory) View(addr, n Word) ([]byte, *PanicError) {
	if n == 0 {
		return nil, nil
	}
	if !inBounds(addr, n, uint64(len(m.store))) {
		return nil, newPanic(PanicMemoryOverflow)
	}
	return m.store[addr : addr+n], nil
}

// Ownership is the snapshot of the registers the ownership predicate reads:
// SSP, SP, HP, and the heap top of the current frame (spec.md §4.2).
type Ownership struct {
	SSP          Word
	SP           Word
	HP           Word
	CalleeHeapTop Word // MAX_RAM in external context; caller's saved HP in internal context
}

// owned reports whether [a, a+n) is writable under the ownership predicate
// of spec.md §4.2:
//
//	owned ≡ (a >= SSP && a+n <= SP)                      -- stack range
//	      ∨ (a > HP && a+n <= calleeHeapTop)              -- current frame's heap
func (o Ownership) owned(a, n Word) bool {
	end := a + n
	if end < a {
		return false
	}
	if a >= o.SSP && end <= o.SP {
		return true
	}
	if a > o.HP && end <= o.CalleeHeapTop {
		return true
	}
	return false
}

// Write writes bytes at addr after checking bounds and ownership. Returns
// MemoryOverflow if the range escapes [0, MaxRAM), MemoryOwnership if the
// range is in-bounds but not owned by the current execution context.
func (m *Memory) Write(own Ownership, addr Word, data []byte) *PanicError {
	n := Word(len(data))
	if n == 0 {
		return nil
	}
	if !inBounds(addr, n, uint64(len(m.store))) {
		return newPanic(PanicMemoryOverflow)
	}
	if !own.owned(addr, n) {
		return newPanic(PanicMemoryOwnership)
	}
	copy(m.store[addr:addr+n], data)
	return nil
}

// Zero clears n bytes starting at addr, subject to the same ownership
// check as Write (spec.md §4.2 lists zero as a writing operation).
func (m *Memory) Zero(own Ownership, addr, n Word) *PanicError {
	if n == 0 {
		return nil
	}
	if !inBounds(addr, n, uint64(len(m.store))) {
		return newPanic(PanicMemoryOverflow)
	}
	if !own.owned(addr, n) {
		return newPanic(PanicMemoryOwnership)
	}
	clear(m.store[addr : addr+n])
	return nil
}

// Copy copies n bytes from src to dst, enforcing ownership on the
// destination and rejecting overlapping ranges (spec.md §4.2: "Overlapping
// copy ... yields MemoryOverlap").
func (m *Memory) Copy(own Ownership, dst, src, n Word) *PanicError {
	if n == 0 {
		return nil
	}
	if !inBounds(dst, n, uint64(len(m.store))) || !inBounds(src, n, uint64(len(m.store))) {
		return newPanic(PanicMemoryOverflow)
	}
	if rangesOverlap(dst, src, n) {
		return newPanic(PanicMemoryOverlap)
	}
	if !own.owned(dst, n) {
		return newPanic(PanicMemoryOwnership)
	}
	copy(m.store[dst:dst+n], m.store[src:src+n])
	return nil
}

func rangesOverlap(a, b, n Word) bool {
	if a == b {
		return n > 0
	}
	if a < b {
		return a+n > b
	}
	return b+n > a
}

// SystemWrite writes bytes at addr after only a bounds check, bypassing the
// ownership predicate. Used by the interpreter itself to load code (CALL,
// LDC, the initial Load), the same way SetSystem bypasses the user-write
// rule on registers: these are host-driven placements, not opcode-driven
// stores into a frame's declared stack/heap.
func (m *Memory) SystemWrite(addr Word, data []byte) *PanicError {
	n := Word(len(data))
	if n == 0 {
		return nil
	}
	if !inBounds(addr, n, uint64(len(m.store))) {
		return newPanic(PanicMemoryOverflow)
	}
	copy(m.store[addr:addr+n], data)
	return nil
}

// Equal reports whether the n-byte ranges at a and b are byte-identical.
// Pure read, so only the bounds check applies, not ownership.
func (m *Memory) Equal(a, b, n Word) (bool, *PanicError) {
	if n == 0 {
		return true, nil
	}
	if !inBounds(a, n, uint64(len(m.store))) || !inBounds(b, n, uint64(len(m.store))) {
		return false, newPanic(PanicMemoryOverflow)
	}
	av := m.store[a : a+n]
	bv := m.store[b : b+n]
	for i := range av {
		if av[i] != bv[i] {
			return false, nil
		}
	}
	return true, nil
}
