package noc

// InputVC holds the per-(port,VC) state on the input side of a router
// (spec §3 "Input side per (port i, VC j)").
type InputVC struct {
	Buffer            []*Flit
	State             VCState
	RoutingCandidates []RoutingCandidate
	SelectedRouting   *RoutingCandidate
	capacity          int // B_in, nominal (soft cap applies only to port 0)
}

// NewInputVC creates an empty input VC with the given nominal capacity.
func NewInputVC(capacity int) *InputVC {
	return &InputVC{capacity: capacity}
}

// Capacity returns B_in for this VC.
func (v *InputVC) Capacity() int { return v.capacity }

// Len returns the number of flits currently buffered.
func (v *InputVC) Len() int { return len(v.Buffer) }

// PeekHead returns the head-of-line flit, or nil if empty.
func (v *InputVC) PeekHead() *Flit {
	if len(v.Buffer) == 0 {
		return nil
	}
	return v.Buffer[0]
}

// PopHead removes and returns the head-of-line flit.
func (v *InputVC) PopHead() *Flit {
	if len(v.Buffer) == 0 {
		return nil
	}
	f := v.Buffer[0]
	v.Buffer = v.Buffer[1:]
	return f
}

// Append pushes a flit to the tail of the buffer with no state-machine
// side effects. Used only when the caller manages VC state itself (e.g.
// injecting the remaining Body/Tail flits of a packet whose Header already
// drove the transition via Arrive).
func (v *InputVC) Append(f *Flit) {
	v.Buffer = append(v.Buffer, f)
}

// Arrive appends f and applies the receiving-VC state transition spec §4.2
// specifies for Link arrivals: a Header landing on a previously empty
// buffer starts routing; a Body/Tail landing while the VC is Idle jumps
// straight to SwAb using the last recorded SelectedRouting — the
// out-of-order arrival behavior spec §9 calls out as deliberate.
func (v *InputVC) Arrive(f *Flit) {
	wasEmpty := len(v.Buffer) == 0
	v.Buffer = append(v.Buffer, f)
	switch {
	case f.IsHeader() && wasEmpty:
		v.State = Routing
	case !f.IsHeader() && v.State == Idle:
		v.State = SwAb
	}
}

// InputPort groups the V VCs behind one physical input port.
type InputPort struct {
	VCs []*InputVC
}

// NewInputPort allocates numVC input VCs each with the given nominal
// capacity.
func NewInputPort(numVC, capacity int) *InputPort {
	p := &InputPort{VCs: make([]*InputVC, numVC)}
	for i := range p.VCs {
		p.VCs[i] = NewInputVC(capacity)
	}
	return p
}
