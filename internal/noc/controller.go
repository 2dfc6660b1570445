package noc

import (
	"github.com/sirupsen/logrus"

	"github.com/novafab/noc-dvfs-sim/internal/noc/energymodel"
	"github.com/novafab/noc-dvfs-sim/internal/rng"
	"github.com/novafab/noc-dvfs-sim/internal/telemetry"
)

// TrafficSource abstracts where an injector's next (dest, packetSize) pair
// comes from — a synthetic distribution or a replayed trace line (spec §6,
// SPEC_FULL traffic/trace packages). Kept narrow so Controller doesn't
// depend on internal/noc/traffic or internal/noc/trace directly.
type TrafficSource interface {
	// Next returns the destination address and packet size (flits) for
	// router src's next injection attempt at cycle now, or ok=false if the
	// source is exhausted (end of trace).
	Next(rng *rng.PartitionedRNG, src Address, now int64) (dest Address, packetSize int, ok bool)
}

// ControllerConfig collects the simulation-wide knobs spec §6 names that
// are not per-router (cycles, warmup, DVFS mode, flit width, link
// bandwidth feeding CyclePeriod).
type ControllerConfig struct {
	K               int
	FlitWidth       int
	CyclePeriod     int64 // base cycle period in abstract time units at Base level
	Cycles          int64
	Warmup          int64
	DoDVFS          bool
	DVFSMode        DVFSMode
	InjectionRate   float64
}

// Controller is the Network Controller of spec §5: it owns the event
// queue, the simulated clock, every router and injector in the mesh, and
// drives the cooperative, non-preemptive dispatch loop. Grounded on the
// teacher's ClusterSimulator (sim/cluster/simulator.go): a flat struct
// holding state plus a pop-dispatch-advance Run loop, rather than one
// goroutine per router.
type Controller struct {
	K           int
	FlitWidth   int
	CyclePeriod int64
	Cycles      int64
	Warmup      int64
	DoDVFS      bool
	DVFSMode    DVFSMode

	Routers   map[int]*Router
	injectors map[int]*Injector
	Traffic   TrafficSource

	EventQueue *EventQueue
	RNG        *rng.PartitionedRNG
	Now        int64
	sequence   uint64

	nextFlitID uint64

	warmupDone bool

	// latencyRunningSum and latencyRunningCount back the early-termination
	// check spec §8 property 5 names ("running average exceeds 6*N_routers
	// cycles").
	latencyRunningSum   int64
	latencyRunningCount int64

	// latencySamples collects every warmup-gated per-packet latency, in base
	// cycles, for
	// Summarize's gonum/stat mean/variance report (spec §8).
	latencySamples []float64

	terminatedEarly bool

	Log *logrus.Logger
}

// NewController builds a controller over a K x K mesh, wiring one Router
// and one Injector per address and sharing one flit-id counter across the
// whole mesh (spec §3, §4.6).
func NewController(cfg ControllerConfig, routerCfg RouterConfig, models map[int]energymodel.UnscaledEnergyModel, traffic TrafficSource, key rng.SimulationKey, log *logrus.Logger) *Controller {
	ctl := &Controller{
		K:           cfg.K,
		FlitWidth:   cfg.FlitWidth,
		CyclePeriod: cfg.CyclePeriod,
		Cycles:      cfg.Cycles,
		Warmup:      cfg.Warmup,
		DoDVFS:      cfg.DoDVFS,
		DVFSMode:    cfg.DVFSMode,
		Routers:     make(map[int]*Router),
		injectors:   make(map[int]*Injector),
		Traffic:     traffic,
		EventQueue:  NewEventQueue(),
		RNG:         rng.NewPartitionedRNG(key),
		Log:         log,
	}
	if ctl.Log == nil {
		ctl.Log = logrus.StandardLogger()
	}

	for x := 0; x < cfg.K; x++ {
		for y := 0; y < cfg.K; y++ {
			addr := Address{X: x, Y: y}
			id := addr.RouterID(cfg.K)
			model := models[id]
			if model == nil {
				model = energymodel.DefaultLinearComponentModel()
			}
			r := NewRouter(addr, routerCfg, model)
			ctl.Routers[id] = r
			ctl.injectors[id] = NewInjector(r, &ctl.nextFlitID)
		}
	}
	return ctl
}

func (ctl *Controller) injectorFor(r *Router) *Injector {
	return ctl.injectors[r.ID]
}

func (ctl *Controller) nextSequence() uint64 {
	ctl.sequence++
	return ctl.sequence
}

// Bootstrap schedules the initial PE and RouterSingle (and, for SYNC mode,
// SyncPredict) events that seed the event queue (spec §4.1 "Initialization").
func (ctl *Controller) Bootstrap() {
	for id := 0; id < len(ctl.Routers); id++ {
		ctl.EventQueue.Schedule(&RouterSingleEvent{
			baseEvent: baseEvent{timestamp: ctl.CyclePeriod, sequence: ctl.nextSequence(), kind: EventRouterSingle},
			RouterID:  id,
		})
	}
	ctl.EventQueue.Schedule(&PeEvent{
		baseEvent: baseEvent{timestamp: ctl.CyclePeriod, sequence: ctl.nextSequence(), kind: EventPe},
	})
	if ctl.DVFSMode == Sync {
		ctl.EventQueue.Schedule(&SyncPredictEvent{
			baseEvent: baseEvent{timestamp: ctl.CyclePeriod, sequence: ctl.nextSequence(), kind: EventSyncPredict},
		})
	}
}

// Run drains the event queue until it empties or Cycles base-periods have
// elapsed, enforcing clock monotonicity (spec §3, §5) and emitting
// progress reports every ReportInterval base cycles (spec §4.1).
func (ctl *Controller) Run() {
	ctl.Bootstrap()
	horizon := ctl.CyclePeriod * ctl.Cycles
	lastReport := int64(0)

	for ctl.EventQueue.Len() > 0 {
		ev := ctl.EventQueue.PeekMin()
		if ev.Timestamp() > horizon {
			break
		}
		ev = ctl.EventQueue.PopMin()

		if ev.Timestamp() < ctl.Now {
			ctl.Log.Fatalf("[controller] clock went backwards: %d < %d", ev.Timestamp(), ctl.Now)
		}
		ctl.Now = ev.Timestamp()

		if !ctl.warmupDone && ctl.Now >= ctl.Warmup*ctl.CyclePeriod {
			ctl.warmupDone = true
			ctl.resetWarmupStatistics()
		}

		ev.Execute(ctl)

		if ctl.Now-lastReport >= ReportInterval*ctl.CyclePeriod {
			lastReport = ctl.Now
			ctl.report()
		}

		if ctl.terminatedEarly {
			ctl.Log.Warnf("[controller] terminating early at cycle %d: running average latency exceeded 6*N_routers", ctl.Now/ctl.CyclePeriod)
			break
		}
	}
	ctl.report()
}

// resetWarmupStatistics zeroes out every router's warmup-gated counter once
// the warmup period elapses (SPEC_FULL [WARMUPIGNORE]; spec §8 property 4).
func (ctl *Controller) resetWarmupStatistics() {
	for _, r := range ctl.Routers {
		r.PacketsInjected = 0
		r.PacketsArrived = 0
		r.LatencySum = 0
		r.LatencyCount = 0
	}
	ctl.latencyRunningSum = 0
	ctl.latencyRunningCount = 0
	ctl.latencySamples = nil
}

// report flushes every router's energy accumulator unconditionally — even
// with do_dvfs=0 the scaling factor never changes, so this is a no-op
// delta of zero additional scaling error, and the flush must still happen
// so spec §8 property 6 (scaled == unscaled when DVFS is off) holds exactly
// — and logs aggregate progress at Info level (spec §4.1).
func (ctl *Controller) report() {
	var injected, arrived, latSum, latCount int64
	for _, r := range ctl.Routers {
		r.Energy.Flush()
		injected += r.PacketsInjected
		arrived += r.PacketsArrived
		latSum += r.LatencySum
		latCount += r.LatencyCount

		telemetry.SetDVFSLevel(r.Addr.String(), int(r.Level))
		telemetry.SetScaledEnergy(r.Addr.String(), r.Energy.ScaledGrandTotal())
	}
	avgLat := float64(0)
	if latCount > 0 {
		avgLat = float64(latSum) / float64(latCount)
	}
	ctl.Log.Infof("[controller] cycle=%d injected=%d arrived=%d avg_latency=%.2f", ctl.Now/ctl.CyclePeriod, injected, arrived, avgLat)
}

// recordArrival closes out one packet's latency sample at delivery,
// feeding both the per-router warmup-gated counters and the running
// average the early-termination check (spec §8 property 5) watches.
func (ctl *Controller) recordArrival(r *Router, f *Flit) {
	latency := f.FinishTime - f.StartTime
	if ctl.warmupDone {
		r.PacketsArrived++
		r.LatencySum += latency
		r.LatencyCount++

		ctl.latencySamples = append(ctl.latencySamples, float64(latency)/float64(ctl.CyclePeriod))
		telemetry.RecordArrival(latency / ctl.CyclePeriod)

		ctl.latencyRunningSum += latency
		ctl.latencyRunningCount++
		if ctl.latencyRunningCount >= int64(len(ctl.Routers)) {
			avg := float64(ctl.latencyRunningSum) / float64(ctl.latencyRunningCount)
			if avg > float64(6*len(ctl.Routers))*float64(ctl.CyclePeriod) {
				ctl.terminatedEarly = true
			}
		}
	}
}

// --- Event handlers ---

// handlePe drives one synthetic-injection or trace-read tick per router
// per base cycle (spec §4.2): each router's injector attempts one
// injection, subject to backpressure, and the PE event reschedules itself.
func (ctl *Controller) handlePe(e *PeEvent) {
	for id := 0; id < len(ctl.Routers); id++ {
		r := ctl.Routers[id]
		inj := ctl.injectors[id]
		if ctl.Traffic == nil {
			continue
		}
		dest, packetSize, ok := ctl.Traffic.Next(ctl.RNG, r.Addr, ctl.Now/ctl.CyclePeriod)
		if !ok {
			continue
		}
		if inj.Inject(dest, ctl.Now, packetSize, ctl.FlitWidth) && ctl.warmupDone {
			r.PacketsInjected++
			telemetry.RecordInjection()
		}
	}
	ctl.EventQueue.Schedule(&PeEvent{
		baseEvent: baseEvent{timestamp: ctl.Now + ctl.CyclePeriod, sequence: ctl.nextSequence(), kind: EventPe},
	})
}

// handleRouterSingle runs one router's five-stage pipeline for this cycle
// and reschedules itself. The reschedule uses the level recorded *before*
// this cycle's tick (LevelPrev), not whatever DVFS decision this cycle's
// tick makes — spec §4.2's "DVFS timing trick": a level change decided mid
// cycle first takes effect on the cycle after next, so in-flight timing
// commitments already made under the old level are not invalidated
// retroactively.
func (ctl *Controller) handleRouterSingle(e *RouterSingleEvent) {
	r, ok := ctl.Routers[e.RouterID]
	if !ok {
		return
	}
	period := int64(r.LevelPrev.PipeDelay() * float64(ctl.CyclePeriod))
	r.LevelPrev = r.Level

	ctl.tickRouter(r)

	if ctl.DoDVFS {
		r.Predictor.Accumulate(r)
		if ctl.DVFSMode == Async && r.Predictor.ReadyASYNC() {
			ctl.applyPredictorDecision(r)
		}
	}

	ctl.EventQueue.Schedule(&RouterSingleEvent{
		baseEvent: baseEvent{timestamp: ctl.Now + period, sequence: ctl.nextSequence(), kind: EventRouterSingle},
		RouterID:  e.RouterID,
	})
}

// applyPredictorDecision finalizes a router's predictor window, applies any
// resulting DVFS level change, and flushes its energy accumulator across
// the transition (spec §4.4 step 4, §4.5 step 5).
func (ctl *Controller) applyPredictorDecision(r *Router) {
	next := r.Predictor.Finalize(r.Level, allowBoostFor(r.Predictor))
	if next != r.Level {
		r.Level = next
		r.Energy.SetLevel(next)
	} else {
		r.Energy.Flush()
	}
}

func allowBoostFor(p *Predictor) bool {
	return p.policy == PolicyB
}

// handleSyncPredict fires the globally synchronized prediction-window close
// spec §4.4 "SYNC" names: every router finalizes its window on the same
// cycle, regardless of its own per-router cycle counter, and the event
// reschedules itself at the fixed history-window period.
func (ctl *Controller) handleSyncPredict(e *SyncPredictEvent) {
	if ctl.DoDVFS {
		for _, r := range ctl.Routers {
			ctl.applyPredictorDecision(r)
		}
	}
	h := ctl.syncPredictPeriod()
	ctl.EventQueue.Schedule(&SyncPredictEvent{
		baseEvent: baseEvent{timestamp: ctl.Now + h, sequence: ctl.nextSequence(), kind: EventSyncPredict},
	})
}

func (ctl *Controller) syncPredictPeriod() int64 {
	for _, r := range ctl.Routers {
		return r.Predictor.h * ctl.CyclePeriod
	}
	return ctl.CyclePeriod
}

// handleLink delivers a flit that has crossed a physical wire into the
// destination router's mirrored input VC (spec §4.2, §4.3 Stage 5).
func (ctl *Controller) handleLink(e *LinkEvent) {
	r, ok := ctl.Routers[e.ToRouter]
	if !ok {
		return
	}
	r.Input[e.Port].VCs[e.VC].Arrive(e.Flit)
}

// handleCredit returns one downstream credit to an upstream router's output
// side (spec §4.2, §4.3 Stage 4).
func (ctl *Controller) handleCredit(e *CreditEvent) {
	r, ok := ctl.Routers[e.ToRouter]
	if !ok {
		return
	}
	r.Output[e.Port].VCs[e.VC].Credit++
}
