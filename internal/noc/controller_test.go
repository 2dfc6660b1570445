package noc

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/novafab/noc-dvfs-sim/internal/noc/energymodel"
	"github.com/novafab/noc-dvfs-sim/internal/rng"
)

// constantTraffic injects one fixed-size packet from every router to a
// fixed destination on the very first cycle, then goes quiet — enough to
// drive one packet end to end through the mesh without depending on the
// traffic or trace packages (kept decoupled from internal/noc per the
// TrafficSource interface).
type constantTraffic struct {
	dest       Address
	packetSize int
	fired      map[Address]bool
}

func newConstantTraffic(dest Address, packetSize int) *constantTraffic {
	return &constantTraffic{dest: dest, packetSize: packetSize, fired: map[Address]bool{}}
}

func (c *constantTraffic) Next(_ *rng.PartitionedRNG, src Address, _ int64) (Address, int, bool) {
	if src.Equal(c.dest) || c.fired[src] {
		return Address{}, 0, false
	}
	c.fired[src] = true
	return c.dest, c.packetSize, true
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func testControllerConfig(k int) (ControllerConfig, RouterConfig) {
	rcfg := RouterConfig{
		K:                 k,
		NumVC:             2,
		InputBufDepth:     8,
		OutputBufDepth:    8,
		RoutingAlg:        RoutingXY,
		AllowVCSharing:    true,
		DVFSHistoryWindow: 50,
		HistoryWeight:     3,
	}
	ccfg := ControllerConfig{
		K:           k,
		FlitWidth:   4,
		CyclePeriod: 100,
		Cycles:      2000,
		Warmup:      0,
		DVFSMode:    Async,
	}
	return ccfg, rcfg
}

func newTestController(k int, traffic TrafficSource) *Controller {
	ccfg, rcfg := testControllerConfig(k)
	models := map[int]energymodel.UnscaledEnergyModel{}
	return NewController(ccfg, rcfg, models, traffic, rng.NewSimulationKey(1), quietLogger())
}

func TestController_DeliversOnePacketEndToEnd(t *testing.T) {
	k := 3
	dest := Address{X: 2, Y: 2}
	traffic := newConstantTraffic(dest, 4)
	ctl := newTestController(k, traffic)

	ctl.Run()

	destRouter := ctl.Routers[dest.RouterID(k)]
	if destRouter.PacketsArrived == 0 {
		t.Fatalf("expected at least one packet delivered to %v, got PacketsArrived=%d", dest, destRouter.PacketsArrived)
	}

	// Every non-destination router injected exactly once.
	var totalInjected int64
	for _, r := range ctl.Routers {
		totalInjected += r.PacketsInjected
	}
	if totalInjected == 0 {
		t.Fatal("expected at least one packet injected across the mesh")
	}
}

func TestController_LatencyNeverBelowManhattanBound(t *testing.T) {
	// spec §8 property 3: a packet's latency cannot be smaller than its
	// Manhattan hop count's worth of wire+pipeline delay at Base level,
	// since every stage in the pipeline takes at least one base cycle.
	k := 4
	dest := Address{X: 3, Y: 3}
	traffic := newConstantTraffic(dest, 2)
	ctl := newTestController(k, traffic)
	ctl.Run()

	destRouter := ctl.Routers[dest.RouterID(k)]
	if destRouter.LatencyCount == 0 {
		t.Fatal("expected at least one completed packet at destination")
	}
	minHops := int64(Manhattan(Address{0, 0}, dest))
	avgLatency := destRouter.LatencySum / destRouter.LatencyCount
	if avgLatency < minHops*ctl.CyclePeriod {
		t.Fatalf("average latency %d time units is below the Manhattan lower bound of %d time units", avgLatency, minHops*ctl.CyclePeriod)
	}
}

func TestController_ClockNeverGoesBackwards(t *testing.T) {
	// Run() itself calls ctl.Log.Fatalf on a monotonicity violation; this
	// test just exercises a full run at a small scale so that code path
	// would trip if a regression reintroduced a negative-delay schedule.
	k := 2
	traffic := newConstantTraffic(Address{X: 1, Y: 1}, 3)
	ctl := newTestController(k, traffic)
	ctl.Run()
	if ctl.Now <= 0 {
		t.Fatal("expected the simulated clock to have advanced")
	}
}

func TestController_WarmupCompletesDuringRun(t *testing.T) {
	k := 2
	ccfg, rcfg := testControllerConfig(k)
	ccfg.Warmup = 5
	ccfg.Cycles = 500
	traffic := newConstantTraffic(Address{X: 1, Y: 1}, 2)
	ctl := NewController(ccfg, rcfg, nil, traffic, rng.NewSimulationKey(2), quietLogger())
	ctl.Run()

	if !ctl.warmupDone {
		t.Fatal("expected warmup to complete over 500 cycles with warmup=5")
	}
}

func TestController_DoDVFSOffKeepsScaledEqualUnscaled(t *testing.T) {
	// spec §8 property 6: with do_dvfs=0, every router stays at Base, so
	// scaled energy must equal unscaled energy after a flush.
	k := 2
	ccfg, rcfg := testControllerConfig(k)
	ccfg.DoDVFS = false
	traffic := newConstantTraffic(Address{X: 1, Y: 1}, 2)
	ctl := NewController(ccfg, rcfg, nil, traffic, rng.NewSimulationKey(3), quietLogger())
	ctl.Run()

	for id, r := range ctl.Routers {
		scaled := r.Energy.ScaledGrandTotal()
		unscaled := r.Energy.UnscaledGrandTotal()
		if absFloat(scaled-unscaled) > 1e-6 {
			t.Fatalf("router %d: scaled=%v unscaled=%v, want equal with do_dvfs=0", id, scaled, unscaled)
		}
	}
}

func TestController_SnapshotReportsEveryRouter(t *testing.T) {
	k := 3
	traffic := newConstantTraffic(Address{X: 1, Y: 1}, 2)
	ctl := newTestController(k, traffic)
	ctl.Run()

	snap := ctl.Snapshot()
	if len(snap) != k*k {
		t.Fatalf("expected %d router snapshots, got %d", k*k, len(snap))
	}
}

func TestController_SummarizeProducesNonNegativeFigures(t *testing.T) {
	k := 3
	traffic := newConstantTraffic(Address{X: 2, Y: 0}, 4)
	ctl := newTestController(k, traffic)
	ctl.Run()

	s := ctl.Summarize()
	if s.PacketsArrived == 0 {
		t.Fatal("expected at least one arrival in the summary")
	}
	if s.AvgLatency < 0 || s.OfferedLoad < 0 {
		t.Fatalf("unexpected negative summary figures: %+v", s)
	}
}

func TestController_DeterministicAcrossRunsWithSameSeed(t *testing.T) {
	// spec §8 property 7: identical seed + config must reproduce identical
	// results.
	k := 3
	run := func() Summary {
		traffic := newConstantTraffic(Address{X: 2, Y: 2}, 4)
		ctl := newTestController(k, traffic)
		ctl.Run()
		return ctl.Summarize()
	}
	a, b := run(), run()
	if a.PacketsArrived != b.PacketsArrived || a.AvgLatency != b.AvgLatency {
		t.Fatalf("non-deterministic run: %+v vs %+v", a, b)
	}
}
