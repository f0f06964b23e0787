package vm

import "testing"

func TestGasMeterCharge(t *testing.T) {
	regs := NewRegisters()
	regs.SetSystem(uint8(RegGGAS), 100)
	regs.SetSystem(uint8(RegCGAS), 50)
	g := NewGasMeter(regs)

	if !g.Charge(30) {
		t.Fatalf("expected charge of 30 to succeed")
	}
	if g.CGAS() != 20 || g.GGAS() != 70 {
		t.Fatalf("CGAS=%d GGAS=%d, want 20/70", g.CGAS(), g.GGAS())
	}

	if g.Charge(25) {
		t.Fatalf("expected charge exceeding CGAS to fail")
	}
	if g.CGAS() != 20 || g.GGAS() != 70 {
		t.Fatalf("failed charge must not mutate state: CGAS=%d GGAS=%d", g.CGAS(), g.GGAS())
	}
}

func TestGasMeterForwardToCallee(t *testing.T) {
	regs := NewRegisters()
	regs.SetSystem(uint8(RegGGAS), 1000)
	regs.SetSystem(uint8(RegCGAS), 100)
	g := NewGasMeter(regs)

	forwarded := g.ForwardToCallee(500)
	if forwarded != 100 {
		t.Fatalf("forwarded = %d, want 100 (capped by CGAS)", forwarded)
	}
	if g.CGAS() != 0 {
		t.Fatalf("CGAS after forwarding = %d, want 0", g.CGAS())
	}
	if g.GGAS() != 1000 {
		t.Fatalf("GGAS must be untouched by forwarding, got %d", g.GGAS())
	}
}

func TestGasMeterRefundCGAS(t *testing.T) {
	regs := NewRegisters()
	regs.SetSystem(uint8(RegCGAS), 10)
	g := NewGasMeter(regs)
	g.RefundCGAS(15)
	if g.CGAS() != 25 {
		t.Fatalf("CGAS after refund = %d, want 25", g.CGAS())
	}
}
