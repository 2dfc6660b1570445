package noc

import "github.com/novafab/noc-dvfs-sim/internal/noc/energymodel"

// RouterConfig collects the per-router construction parameters drawn from
// spec §6's command-line options.
type RouterConfig struct {
	K                int
	NumVC            int
	InputBufDepth    int // B_in
	OutputBufDepth   int // B_out
	RoutingAlg       RoutingAlgorithm
	AllowVCSharing   bool
	DVFSHistoryWindow int64 // H
	HistoryWeight    float64 // w
	UseLinkPred      bool // Policy A/B vs C
	UseBoost         bool // Policy B ladder extends to Boost
}

// Router aggregates one mesh cell's input/output sides, DVFS state, and
// energy accounting (spec §3, §4.3-§4.5). The five-stage pipeline that
// operates on it lives in Controller methods (pipeline.go) and the
// predictor maintenance in Predictor methods (dvfs.go), matching spec §9's guidance that global/shared
// state belongs to the Network Controller rather than to per-router
// singletons with their own goroutines.
type Router struct {
	Addr   Address
	ID     int
	Config RouterConfig

	Input  [NumPorts]*InputPort
	Output [NumPorts]*OutputPort

	Level     DVFSLevel
	LevelPrev DVFSLevel // spec §9 "DVFS timing trick"

	EnergyModel energymodel.UnscaledEnergyModel
	Energy      *EnergyAccumulator

	Predictor *Predictor

	PEFull bool // injector sticky "PE full" flag (spec §4.6)

	// Accounting, used by the controller for warmup-gated statistics
	// (spec §8 property 4, SPEC_FULL [WARMUPIGNORE]).
	PacketsInjected int64
	PacketsArrived  int64
	LatencySum      int64
	LatencyCount    int64
}

// NewRouter constructs a router at addr with numVC VCs per port, wired to
// model for energy accounting and starting at DVFS level Base (spec §4.2:
// "sets all DVFS levels to Base").
func NewRouter(addr Address, cfg RouterConfig, model energymodel.UnscaledEnergyModel) *Router {
	r := &Router{
		Addr:        addr,
		ID:          addr.RouterID(cfg.K),
		Config:      cfg,
		Level:       Base,
		LevelPrev:   Base,
		EnergyModel: model,
		Energy:      NewEnergyAccumulator(model, Base),
	}
	for p := 0; p < NumPorts; p++ {
		r.Input[p] = NewInputPort(cfg.NumVC, cfg.InputBufDepth)
		r.Output[p] = NewOutputPort(cfg.NumVC, cfg.OutputBufDepth, cfg.InputBufDepth)
		for v := 0; v < cfg.NumVC; v++ {
			r.Input[p].VCs[v].State = Idle
		}
	}
	r.Predictor = NewPredictor(cfg)
	return r
}

// wraps reports whether this router's mesh uses wrap-around links, which
// is forced on whenever Torus-XY routing is selected (spec §4.3 Torus-XY
// needs the dateline links to exist).
func (cfg RouterConfig) wraps() bool {
	return cfg.RoutingAlg == RoutingTorusXY
}
