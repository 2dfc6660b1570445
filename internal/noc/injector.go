package noc

// Injector pushes synthetic or trace-driven packets into a router's port-0
// (PE) input buffers, subject to backpressure (spec §4.6).
type Injector struct {
	router        *Router
	nextFlitID    *uint64
	nextPacketID  uint64
	FailedCount   int64 // num_injections_failed: refusals because the PE is full; the refused packet is not kept for a later attempt
}

// NewInjector creates an injector bound to router, sharing a simulator-wide
// flit id counter so flit ids are unique across the whole mesh.
func NewInjector(router *Router, sharedFlitID *uint64) *Injector {
	return &Injector{router: router, nextFlitID: sharedFlitID}
}

// Inject synthesizes one packet of packetSize flits (Header, packetSize-2
// Body, Tail; minimum size 2) addressed to dest, selects the port-0 VC with
// the shortest queue, and appends the packet atomically to that VC's
// buffer (spec §4.6). Returns false, bumping FailedCount, if the PE is
// already marked full.
func (inj *Injector) Inject(dest Address, startTime int64, packetSize, flitWidth int) bool {
	r := inj.router
	if r.PEFull {
		inj.FailedCount++
		return false
	}

	vc := shortestQueueVC(r.Input[PortLocal])

	inj.nextPacketID++
	flits := BuildPacket(inj.nextPacketID, inj.nextFlitID, r.Addr, dest, startTime, packetSize, flitWidth)

	target := r.Input[PortLocal].VCs[vc]
	target.Arrive(flits[0])
	for _, f := range flits[1:] {
		target.Append(f)
	}

	if packetSize > SoftPECap {
		r.PEFull = true
	}
	return true
}

// shortestQueueVC picks the port-0 VC with the fewest buffered flits,
// breaking ties toward the lowest index (spec §4.6: "selects a PE-port VC
// by shortest queue length").
func shortestQueueVC(port *InputPort) int {
	best := 0
	bestLen := port.VCs[0].Len()
	for i := 1; i < len(port.VCs); i++ {
		if l := port.VCs[i].Len(); l < bestLen {
			best, bestLen = i, l
		}
	}
	return best
}

// ReleasePEFullIfDrained clears the sticky PE-full flag once every port-0
// VC has drained below the soft cap (spec §4.3 Stage 4: "the trace reader
// is re-enabled and may refill").
func (inj *Injector) ReleasePEFullIfDrained() {
	r := inj.router
	if !r.PEFull {
		return
	}
	for _, vc := range r.Input[PortLocal].VCs {
		if vc.Len() >= SoftPECap {
			return
		}
	}
	r.PEFull = false
}
