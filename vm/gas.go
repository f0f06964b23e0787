package vm

// GasMeter tracks the two-level gas budget of spec.md §4.4: CGAS bounds the
// current call frame, GGAS bounds the whole transaction. Charges are
// deducted from CGAS first, then GGAS; both must be able to cover the
// charge for it to succeed, mirroring the teacher's Contract.UseGas but
// split across two counters instead of one.
type GasMeter struct {
	regs *Registers
}

// NewGasMeter wraps the register file's GGAS/CGAS slots in a dedicated
// accounting type, the same separation of concerns the teacher keeps
// between Contract.Gas (storage) and UseGas (the charging operation).
func NewGasMeter(regs *Registers) *GasMeter {
	return &GasMeter{regs: regs}
}

// GGAS returns the current global gas remaining.
func (g *GasMeter) GGAS() Word { return g.regs.Get(uint8(RegGGAS)) }

// CGAS returns the current context gas remaining.
func (g *GasMeter) CGAS() Word { return g.regs.Get(uint8(RegCGAS)) }

// Charge attempts to deduct amount from both CGAS and GGAS. Returns false
// (no mutation) if either budget cannot cover it; per spec.md §4.4 both
// counters decrement together by the same amount on success.
func (g *GasMeter) Charge(amount Word) bool {
	cgas := g.CGAS()
	ggas := g.GGAS()
	if cgas < amount || ggas < amount {
		return false
	}
	g.regs.SetSystem(uint8(RegCGAS), cgas-amount)
	g.regs.SetSystem(uint8(RegGGAS), ggas-amount)
	return true
}

// RefundCGAS adds amount back to CGAS only, used on RET/RETD and on
// panic-unwind to return the callee's unused forwarded gas to the caller
// (spec.md §4.4: "On return, unused callee CGAS is added back to caller's
// CGAS"). GGAS is not touched: gas burned inside the callee stays burned.
func (g *GasMeter) RefundCGAS(amount Word) {
	g.regs.SetSystem(uint8(RegCGAS), g.CGAS()+amount)
}

// ForwardToCallee computes the CGAS a CALL forwards to its callee: the
// minimum of the requested amount and the caller's current CGAS (spec.md
// §4.6: "gas to forward (capped by CGAS)"). It also deducts the forwarded
// amount from the caller's CGAS; GGAS is untouched by forwarding itself
// (spec.md §4.4: "GGAS is untouched" by CALL).
func (g *GasMeter) ForwardToCallee(requested Word) Word {
	cgas := g.CGAS()
	forward := requested
	if forward > cgas {
		forward = cgas
	}
	g.regs.SetSystem(uint8(RegCGAS), cgas-forward)
	return forward
}
