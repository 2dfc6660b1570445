package noc

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates simulation-wide final statistics (spec §8: average
// packet latency, offered load, scaled energy). Grounded in shape on the
// teacher's sim.Metrics; the latency mean/variance are computed with
// gonum/stat rather than hand-rolled running sums, since per-packet
// latencies are available in full once the run completes.
type Summary struct {
	PacketsInjected int64
	PacketsArrived  int64
	AvgLatency      float64
	LatencyStdDev   float64
	OfferedLoad     float64 // injected packets per router per cycle
	ScaledEnergy    float64
	UnscaledEnergy  float64
	TerminatedEarly bool
}

// Summarize collects per-router counters and latency samples into one
// Summary, computing the latency mean/stddev with gonum/stat over every
// warmup-gated per-packet latency recorded during Run.
func (ctl *Controller) Summarize() Summary {
	s := Summary{TerminatedEarly: ctl.terminatedEarly}
	for _, r := range ctl.Routers {
		s.PacketsInjected += r.PacketsInjected
		s.PacketsArrived += r.PacketsArrived
		s.ScaledEnergy += r.Energy.ScaledGrandTotal()
		s.UnscaledEnergy += r.Energy.UnscaledGrandTotal()
	}
	if len(ctl.latencySamples) > 0 {
		s.AvgLatency, s.LatencyStdDev = stat.MeanStdDev(ctl.latencySamples, nil)
	}
	cycles := ctl.Cycles - ctl.Warmup
	if cycles > 0 && len(ctl.Routers) > 0 {
		s.OfferedLoad = float64(s.PacketsInjected) / (float64(cycles) * float64(len(ctl.Routers)))
	}
	return s
}

// Print writes a human-readable summary to stdout, in the teacher's
// Metrics.Print style (spec §8's reportable quantities).
func (s Summary) Print() {
	fmt.Println("=== NoC Simulation Summary ===")
	fmt.Printf("Packets Injected     : %d\n", s.PacketsInjected)
	fmt.Printf("Packets Arrived      : %d\n", s.PacketsArrived)
	fmt.Printf("Average Latency      : %.2f cycles (stddev %.2f)\n", s.AvgLatency, s.LatencyStdDev)
	fmt.Printf("Offered Load         : %.4f packets/router/cycle\n", s.OfferedLoad)
	fmt.Printf("Unscaled Energy      : %.4f\n", s.UnscaledEnergy)
	fmt.Printf("Scaled Energy        : %.4f\n", s.ScaledEnergy)
	if s.TerminatedEarly {
		fmt.Println("NOTE: run terminated early (latency threshold exceeded)")
	}
}
