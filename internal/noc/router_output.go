package noc

// OutputVC holds the per-(port,VC) downstream-facing state: the credit
// count this port sees for that VC, and who currently owns it (spec §3
// "Output side ... per (i, VC j)").
type OutputVC struct {
	Credit     int
	Usage      VCUsage
	AssignedTo *RoutingCandidate // upstream (port,vc) owning this VC, or nil
}

// OutputPort holds the shared per-port output buffer plus its V VCs'
// credit/ownership state.
type OutputPort struct {
	Buffer       []*Flit            // out_buffer[i]
	BufferDest   []RoutingCandidate // out_addr[i], parallel to Buffer
	LocalCounter int                // remaining out_buffer slots
	capacity     int                // B_out
	VCs          []*OutputVC
	CanSendAfter int64 // can_send_after[i] (spec §3 I3)
}

// NewOutputPort allocates an output port with numVC VCs, each initialized
// with credit = inputCapacity (B_in) per spec §3.
func NewOutputPort(numVC, outCapacity, inputCapacity int) *OutputPort {
	p := &OutputPort{
		capacity:     outCapacity,
		LocalCounter: outCapacity,
		VCs:          make([]*OutputVC, numVC),
	}
	for i := range p.VCs {
		p.VCs[i] = &OutputVC{Credit: inputCapacity, Usage: Free}
	}
	return p
}

// Capacity returns B_out.
func (p *OutputPort) Capacity() int { return p.capacity }

// HasCreditAndSlot implements invariant I1: a flit may cross the crossbar
// only if the destination VC has a free downstream slot and the output
// port's shared buffer has a free slot.
func (p *OutputPort) HasCreditAndSlot(vc int) bool {
	return p.VCs[vc].Credit > 0 && p.LocalCounter > 0
}

// Enqueue pushes a flit (plus its (port,vc) destination tag) onto the
// shared output buffer, consuming one local slot.
func (p *OutputPort) Enqueue(f *Flit, dest RoutingCandidate) {
	p.Buffer = append(p.Buffer, f)
	p.BufferDest = append(p.BufferDest, dest)
	p.LocalCounter--
}

// PeekHead returns the head flit and its destination without removing it.
func (p *OutputPort) PeekHead() (*Flit, RoutingCandidate, bool) {
	if len(p.Buffer) == 0 {
		return nil, RoutingCandidate{}, false
	}
	return p.Buffer[0], p.BufferDest[0], true
}

// PopHead removes and returns the head flit, releasing one local slot back.
func (p *OutputPort) PopHead() (*Flit, RoutingCandidate) {
	f := p.Buffer[0]
	dest := p.BufferDest[0]
	p.Buffer = p.Buffer[1:]
	p.BufferDest = p.BufferDest[1:]
	p.LocalCounter++
	return f, dest
}

// Release marks a downstream VC Free again (spec §4.3 Stage 4, on Tail
// departure), clearing its ownership.
func (p *OutputPort) Release(vc int) {
	p.VCs[vc].Usage = Free
	p.VCs[vc].AssignedTo = nil
}

// Assign marks a downstream VC Used and records its upstream owner (spec
// §4.3 Stage 2, VC-AB grant).
func (p *OutputPort) Assign(vc int, owner RoutingCandidate) {
	p.VCs[vc].Usage = Used
	p.VCs[vc].AssignedTo = &owner
}
