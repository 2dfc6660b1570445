package noc

// DVFSMode selects whether prediction windows close on each router's own
// cycle count (ASYNC) or on a globally synchronized timer (SYNC), spec
// §4.4 "Modes".
type DVFSMode int

const (
	Async DVFSMode = iota
	Sync
)

func ParseDVFSMode(s string) (DVFSMode, bool) {
	switch s {
	case "ASYNC":
		return Async, true
	case "SYNC":
		return Sync, true
	default:
		return Async, false
	}
}

// Policy identifies one of the three throttle/boost decision rules spec
// §4.4 names.
type Policy int

const (
	// PolicyA is link-utilization aware and throttle-only.
	PolicyA Policy = iota
	// PolicyB extends PolicyA's ladder to include Boost.
	PolicyB
	// PolicyC reacts to buffer-occupancy congestion signals only, with no
	// link-utilization prediction.
	PolicyC
)

// SelectPolicy resolves the (use_link_pred, use_boost) flag pair from
// spec §6 into one of the three named policies.
func SelectPolicy(useLinkPred, useBoost bool) Policy {
	if !useLinkPred {
		return PolicyC
	}
	if useBoost {
		return PolicyB
	}
	return PolicyA
}

// Predictor accumulates per-router buffer- and link-utilization samples
// over a history window H and, at window boundaries, updates its
// exponentially-weighted predictions and runs the configured throttle/
// boost policy (spec §4.4).
type Predictor struct {
	h      int64
	w      float64
	policy Policy

	buOutAccum [NumPorts]float64 // running sum of downstream BU per output port
	buAllAccum float64
	luSent     [NumPorts]int64 // flits transmitted per output port this window
	cycles     int64

	buPrev    [NumPorts]float64
	luPrev    [NumPorts]float64
	buAllPrev float64

	cycleCounter int64 // ASYNC-mode own-window counter
}

// NewPredictor builds a predictor from a router's configuration.
func NewPredictor(cfg RouterConfig) *Predictor {
	h := cfg.DVFSHistoryWindow
	if h <= 0 {
		h = 200
	}
	w := cfg.HistoryWeight
	if w <= 0 {
		w = 3
	}
	return &Predictor{
		h:      h,
		w:      w,
		policy: SelectPolicy(cfg.UseLinkPred, cfg.UseBoost),
	}
}

// RecordLinkSend increments the LU_sent counter for an output port; called
// from the Link Traversal pipeline stage (spec §4.3 Stage 5) whenever a
// flit actually departs.
func (p *Predictor) RecordLinkSend(port int) {
	p.luSent[port]++
}

// Accumulate folds one router-cycle's buffer occupancy into the running
// window sums (spec §4.4: BU_out[k], BU_all, cycles). Called once per
// router pipeline tick regardless of DVFS mode — "maintenance (accumulate)
// still happens each router cycle" even under SYNC.
func (p *Predictor) Accumulate(r *Router) {
	inCap := r.Config.InputBufDepth
	numVC := r.Config.NumVC

	for port := 1; port < NumPorts; port++ {
		downCredit := 0
		for vc := 0; vc < numVC; vc++ {
			downCredit += r.Output[port].VCs[vc].Credit
		}
		maxCredit := numVC * inCap
		if maxCredit > 0 {
			p.buOutAccum[port] += (float64(maxCredit) - float64(downCredit)) / float64(maxCredit)
		}
	}

	fill, capacity := 0, 0
	for port := 1; port < NumPorts; port++ {
		for vc := 0; vc < numVC; vc++ {
			fill += r.Input[port].VCs[vc].Len()
			capacity += r.Input[port].VCs[vc].Capacity()
		}
	}
	if capacity > 0 {
		p.buAllAccum += float64(fill) / float64(capacity)
	}
	p.cycles++
	p.cycleCounter++
}

// ReadyASYNC reports whether an ASYNC-mode router should finalize its
// window and run its policy this cycle (spec §4.4: "fires its policy
// exactly when its internal cycle_counter == H").
func (p *Predictor) ReadyASYNC() bool {
	return p.cycleCounter >= p.h
}

// Finalize closes the current window: updates the exponentially-weighted
// bu_pred/lu_pred/BU_all_pred predictions (spec §4.4 step 1-2), resets the
// window accumulators (step 3), and returns the decision made by the
// configured policy (step 4). The caller is responsible for applying the
// returned level change and for triggering the energy accumulator flush.
func (p *Predictor) Finalize(current DVFSLevel, allowBoost bool) DVFSLevel {
	cycles := p.cycles
	if cycles <= 0 {
		cycles = 1
	}

	var buPred, luPred [NumPorts]float64
	for port := 1; port < NumPorts; port++ {
		bu := p.buOutAccum[port] / float64(cycles)
		buPred[port] = (p.w*bu + p.buPrev[port]) / (p.w + 1)
		p.buPrev[port] = buPred[port]

		lu := float64(p.luSent[port]) / float64(cycles)
		luPred[port] = (p.w*lu + p.luPrev[port]) / (p.w + 1)
		p.luPrev[port] = luPred[port]
	}

	buAllAvg := p.buAllAccum / float64(cycles)
	buAllPred := (p.w*buAllAvg + p.buAllPrev) / (p.w + 1)
	p.buAllPrev = buAllPred

	// Reset window accumulators (step 3).
	p.buOutAccum = [NumPorts]float64{}
	p.buAllAccum = 0
	p.luSent = [NumPorts]int64{}
	p.cycles = 0
	p.cycleCounter = 0

	switch p.policy {
	case PolicyA:
		return policyLinkAware(current, buPred, luPred, false)
	case PolicyB:
		return policyLinkAware(current, buPred, luPred, true)
	default:
		return policyCongestion(current, buAllPred, buPred, allowBoost)
	}
}

// policyLinkAware implements Policy A/B (spec §4.4): per-port BU-dependent
// thresholds on predicted link utilization drive up to one throttle/boost
// step per window.
func policyLinkAware(current DVFSLevel, buPred, luPred [NumPorts]float64, allowBoost bool) DVFSLevel {
	shiftUp, shiftDown := false, false
	for port := 1; port < NumPorts; port++ {
		tLow, tHigh := 0.3, 0.4
		if buPred[port] >= 0.5 {
			tLow, tHigh = 0.6, 0.7
		}
		if luPred[port] > tHigh {
			shiftUp = true
		} else if luPred[port] < tLow {
			shiftDown = true
		}
	}
	switch {
	case shiftUp:
		return current.StepUp(allowBoost)
	case shiftDown:
		return current.StepDown()
	default:
		return current
	}
}

// policyCongestion implements Policy C (spec §4.4): no link prediction,
// only BU_all_pred bands and a per-port high-congestion vote count.
func policyCongestion(current DVFSLevel, buAllPred float64, buPred [NumPorts]float64, allowBoost bool) DVFSLevel {
	highSignal := false
	for port := 1; port < NumPorts; port++ {
		if buPred[port] > 0.65 {
			highSignal = true
			break
		}
	}

	// Thresholds reproduced literally from spec §4.4: note the band between
	// 0.10 and 0.15 is not named by either the first or second clause and
	// falls through to the final (Throttle2/Base) clause, exactly as the
	// spec's "0.05 ≤ BU_all_pred < 0.10" / "Else" phrasing implies.
	switch {
	case buAllPred >= 0.15:
		if allowBoost {
			return Boost
		}
		return Base
	case buAllPred >= 0.05 && buAllPred < 0.10:
		if highSignal {
			return Throttle1
		}
		return Base
	default:
		if highSignal {
			return Throttle2
		}
		return Base
	}
}
