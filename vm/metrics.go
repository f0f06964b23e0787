package vm

import "github.com/ethereum/go-ethereum/metrics"

// Metrics counters, grounded on the teacher's metrics/ package idiom
// (metrics.NewRegisteredCounter against the default registry rather than a
// bespoke expvar/prometheus wiring). Interpreter.Run increments these as it
// executes; a host embedding the VM can read them straight off
// metrics.DefaultRegistry without the vm package knowing anything about
// whatever exporter the host uses.
var (
	stepsExecuted  = metrics.NewRegisteredCounter("vm/steps", nil)
	panicsRaised   = metrics.NewRegisteredCounter("vm/panics", nil)
	callsExecuted  = metrics.NewRegisteredCounter("vm/calls", nil)
	gasBurnedTotal = metrics.NewRegisteredCounter("vm/gas/burned", nil)
)

func recordStep() { stepsExecuted.Inc(1) }

func recordPanic() { panicsRaised.Inc(1) }

func recordCall() { callsExecuted.Inc(1) }

func recordGasBurned(n Word) { gasBurnedTotal.Inc(int64(n)) }
