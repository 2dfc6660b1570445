package noc

import "github.com/novafab/noc-dvfs-sim/internal/rng"

// tickRouter runs one router's five pipeline stages for a single cycle, in
// the reverse order spec §4.3 fixes (LT, SW-TR, SW-AB, VC-AB, RC) so that a
// flit advancing through a later stage this cycle does not see the effects
// of an earlier stage's work in the same cycle — the same register-stage
// illusion a synchronous hardware pipeline gets for free.
func (ctl *Controller) tickRouter(r *Router) {
	ctl.stageLinkTraversal(r)
	ctl.stageSwitchTraversal(r)
	ctl.stageSwitchAllocation(r)
	ctl.stageVCAllocation(r)
	ctl.stageRoutingComputation(r)
}

// stageRoutingComputation implements spec §4.3 Stage 1. A VC in state Home
// is draining a packet addressed to this router: its head flit is consumed
// directly, port>0 arrivals schedule a credit return upstream, and Tail returns
// the VC to Idle (or straight back to Routing if the next packet's Header
// has already queued up behind it). A VC in state Routing whose head is a
// Header either starts its own Home drain (dest == this router) or
// populates routing_candidates and advances to VcAb.
func (ctl *Controller) stageRoutingComputation(r *Router) {
	for port := 0; port < NumPorts; port++ {
		for vcIdx, vc := range r.Input[port].VCs {
			if vc.State == Home {
				ctl.drainHome(r, port, vcIdx, vc)
				continue
			}
			if vc.State != Routing {
				continue
			}
			head := vc.PeekHead()
			if head == nil || !head.IsHeader() {
				continue
			}
			if head.Dest.Equal(r.Addr) {
				vc.State = Home
				ctl.drainHome(r, port, vcIdx, vc)
				continue
			}
			cands := Candidates(r.Config.RoutingAlg, r.Addr, head.Dest, r.Config.K, r.Config.NumVC)
			vc.RoutingCandidates = cands
			if len(cands) > 0 {
				vc.State = VcAb
			}
		}
		r.EnergyModel.RecordArbitration(r.Level.Voltage())
	}
}

// drainHome consumes the flit currently at vc's head, which belongs to a
// packet addressed to this router (spec §4.3 Stage 1 "Home" intermediate
// state). Consumption is instantaneous: no switch allocation or traversal
// is needed since the destination is the router itself.
func (ctl *Controller) drainHome(r *Router, port, vcIdx int, vc *InputVC) {
	f := vc.PopHead()
	if f == nil {
		return
	}
	r.EnergyModel.RecordBufferAccess(r.Level.Voltage())
	ctl.deliverLocal(r, f)
	ctl.scheduleCreditReturn(r, port, vc)

	if f.IsTail() {
		if next := vc.PeekHead(); next != nil && next.IsHeader() {
			vc.State = Routing
		} else {
			vc.State = Idle
		}
	}
}

// stageVCAllocation implements spec §4.3 Stage 2: each VcAb input first
// picks a single candidate uniformly at random among its own free routing
// candidates — never one request per free candidate, or the same input
// could win several distinct downstream VCs in one cycle and leak the
// ones it never actually uses (invariant I2). Only then, among inputs
// requesting the same free downstream (port,vc), is exactly one granted
// per cycle, again chosen uniformly among requesters (spec §9:
// ties/contention break by uniform random draw from the router's own
// arbitration stream).
func (ctl *Controller) stageVCAllocation(r *Router) {
	type request struct {
		port, vc int
		in       *InputVC
	}
	grantedAny := map[RoutingCandidate]bool{}
	rnd := ctl.RNG.ForRouter(r.ID)

	requestsByCandidate := map[RoutingCandidate][]request{}
	for port := 0; port < NumPorts; port++ {
		for vcIdx, vc := range r.Input[port].VCs {
			if vc.State != VcAb {
				continue
			}
			free := make([]RoutingCandidate, 0, len(vc.RoutingCandidates))
			for _, cand := range vc.RoutingCandidates {
				if !r.Config.AllowVCSharing && r.Output[cand.Port].VCs[cand.VC].Credit != r.Config.InputBufDepth {
					continue
				}
				if r.Output[cand.Port].VCs[cand.VC].Usage != Free {
					continue
				}
				free = append(free, cand)
			}
			if len(free) == 0 {
				continue
			}
			choice := free[0]
			if len(free) > 1 {
				choice = free[rng.IntN(rnd, len(free))]
			}
			requestsByCandidate[choice] = append(requestsByCandidate[choice], request{port, vcIdx, vc})
		}
	}

	// Visit the requested downstream VCs in (port, vc) order, not map order,
	// so the arbitration stream is consumed in the same order on every run.
	ordered := make([]RoutingCandidate, 0, len(requestsByCandidate))
	for outPort := 0; outPort < NumPorts; outPort++ {
		for outVC := range r.Output[outPort].VCs {
			if cand := (RoutingCandidate{Port: outPort, VC: outVC}); len(requestsByCandidate[cand]) > 0 {
				ordered = append(ordered, cand)
			}
		}
	}
	for _, cand := range ordered {
		reqs := requestsByCandidate[cand]
		if len(reqs) == 0 || grantedAny[cand] {
			continue
		}
		winner := reqs[0]
		if len(reqs) > 1 {
			winner = reqs[rng.IntN(rnd, len(reqs))]
		}
		owner := RoutingCandidate{Port: winner.port, VC: winner.vc}
		r.Output[cand.Port].Assign(cand.VC, owner)
		winner.in.SelectedRouting = &RoutingCandidate{Port: cand.Port, VC: cand.VC}
		winner.in.State = SwAb
		grantedAny[cand] = true
	}
	r.EnergyModel.RecordArbitration(r.Level.Voltage())
}

// stageSwitchAllocation implements spec §4.3 Stage 3: among input VCs in
// state SwAb, separable per-input-then-per-output arbitration grants the
// crossbar to at most one input per output port per cycle.
func (ctl *Controller) stageSwitchAllocation(r *Router) {
	type candidate struct {
		port, vc int
		in       *InputVC
		dest     RoutingCandidate
	}
	byOutput := map[int][]candidate{}
	for port := 0; port < NumPorts; port++ {
		for vcIdx, vc := range r.Input[port].VCs {
			if vc.State != SwAb || vc.SelectedRouting == nil {
				continue
			}
			head := vc.PeekHead()
			if head == nil {
				continue
			}
			dest := *vc.SelectedRouting
			if !r.Output[dest.Port].HasCreditAndSlot(dest.VC) {
				continue
			}
			byOutput[dest.Port] = append(byOutput[dest.Port], candidate{port, vcIdx, vc, dest})
		}
	}

	rnd := ctl.RNG.ForRouter(r.ID)
	for outPort := 0; outPort < NumPorts; outPort++ {
		cands := byOutput[outPort]
		if len(cands) == 0 {
			continue
		}
		winner := cands[0]
		if len(cands) > 1 {
			winner = cands[rng.IntN(rnd, len(cands))]
		}
		winner.in.State = SwTr
	}
	r.EnergyModel.RecordArbitration(r.Level.Voltage())
}

// stageSwitchTraversal implements spec §4.3 Stage 4: VCs granted the
// crossbar this cycle move their head flit into the destination output
// port's shared buffer, consume a downstream credit, schedule the upstream
// credit return for that flit, and — on Tail — release VC ownership.
func (ctl *Controller) stageSwitchTraversal(r *Router) {
	for port := 0; port < NumPorts; port++ {
		for _, vc := range r.Input[port].VCs {
			if vc.State != SwTr || vc.SelectedRouting == nil {
				continue
			}
			dest := *vc.SelectedRouting
			f := vc.PopHead()
			if f == nil {
				continue
			}
			r.EnergyModel.RecordCrossbarTraversal(r.Level.Voltage())

			r.Output[dest.Port].VCs[dest.VC].Credit--
			r.Output[dest.Port].Enqueue(f, dest)

			ctl.scheduleCreditReturn(r, port, vc)

			if f.IsTail() {
				r.Output[dest.Port].Release(dest.VC)
				vc.State = Idle
				vc.RoutingCandidates = nil
			} else {
				vc.State = SwAb
			}
		}
	}
	ctl.injectorFor(r).ReleasePEFullIfDrained()
}

// scheduleCreditReturn schedules the upstream credit CreditEvent after
// credit_delay at the router's current level, skipped for the local PE
// port which has no upstream router to notify (spec §4.3 Stage 4).
func (ctl *Controller) scheduleCreditReturn(r *Router, inPort int, vc *InputVC) {
	if inPort == PortLocal {
		return
	}
	upstream, ok := ctl.neighborOf(r, inPort)
	if !ok {
		return
	}
	delay := int64(r.Level.CreditDelay() * float64(ctl.CyclePeriod))
	ctl.EventQueue.Schedule(&CreditEvent{
		baseEvent: baseEvent{timestamp: ctl.Now + delay, sequence: ctl.nextSequence(), kind: EventCredit},
		ToRouter:  upstream.RouterID(ctl.K),
		Port:      MirrorPort(inPort),
		VC:        ctl.vcIndexOf(r, inPort, vc),
	})
}

// vcIndexOf finds the index of vc within port's VC slice.
func (ctl *Controller) vcIndexOf(r *Router, port int, target *InputVC) int {
	for i, vc := range r.Input[port].VCs {
		if vc == target {
			return i
		}
	}
	return 0
}

// stageLinkTraversal implements spec §4.3 Stage 5: the head of each output
// port's shared buffer crosses the physical wire once can_send_after
// allows it, arriving at the downstream router's mirrored input port after
// wire_delay; the link-utilization predictor is fed here.
func (ctl *Controller) stageLinkTraversal(r *Router) {
	for port := 1; port < NumPorts; port++ {
		out := r.Output[port]
		f, dest, ok := out.PeekHead()
		if !ok {
			continue
		}
		if ctl.Now < out.CanSendAfter {
			continue
		}
		out.PopHead()
		r.EnergyModel.RecordLinkTraversal(r.Level.Voltage())
		r.Predictor.RecordLinkSend(port)

		wire := int64(r.Level.WireDelay() * float64(ctl.CyclePeriod))
		out.CanSendAfter = ctl.Now + wire

		neighbor, ok := ctl.neighborOf(r, port)
		if !ok {
			continue
		}
		ctl.EventQueue.Schedule(&LinkEvent{
			baseEvent: baseEvent{timestamp: ctl.Now + wire, sequence: ctl.nextSequence(), kind: EventLink},
			ToRouter:  neighbor.RouterID(ctl.K),
			Port:      MirrorPort(port),
			VC:        dest.VC,
			Flit:      f,
		})
	}
}

// neighborOf resolves the address reached by leaving r through port, honoring
// wrap-around when the configured routing algorithm uses it (spec §4.3).
func (ctl *Controller) neighborOf(r *Router, port int) (Address, bool) {
	return Neighbor(r.Addr, port, ctl.K, r.Config.wraps())
}

// deliverLocal implements packet consumption at destination, called from
// the RC stage's Home drain (drainHome): the Tail flit's arrival closes out
// the packet's latency sample.
func (ctl *Controller) deliverLocal(r *Router, f *Flit) {
	if f.IsTail() {
		f.FinishTime = ctl.Now
		ctl.recordArrival(r, f)
	}
}
