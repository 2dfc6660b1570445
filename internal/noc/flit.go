package noc

// FlitKind distinguishes the three positions a flit can hold in a packet.
type FlitKind int

const (
	Header FlitKind = iota
	Body
	Tail
)

func (k FlitKind) String() string {
	switch k {
	case Header:
		return "Header"
	case Body:
		return "Body"
	case Tail:
		return "Tail"
	default:
		return "Unknown"
	}
}

// Flit is the smallest flow-control unit carried through the pipeline and
// over Link events (spec §3).
type Flit struct {
	ID         uint64
	Kind       FlitKind
	PacketID   uint64
	Src        Address
	Dest       Address
	StartTime  int64 // injection time of the packet this flit belongs to
	FinishTime int64 // set when the flit is consumed at its destination
	Payload    []uint64
}

// IsHeader, IsBody, IsTail are small readability helpers used throughout
// the pipeline's state-machine dispatch (spec §9: dispatch functions, not
// class hierarchies).
func (f *Flit) IsHeader() bool { return f.Kind == Header }
func (f *Flit) IsBody() bool   { return f.Kind == Body }
func (f *Flit) IsTail() bool   { return f.Kind == Tail }

// BuildPacket synthesizes a packet of packetSize flits (minimum 2: one
// Header, one Tail) destined for dest, each flit carrying flitWidth words
// of payload. Used by the injector (spec §4.6).
func BuildPacket(packetID uint64, nextFlitID *uint64, src, dest Address, startTime int64, packetSize, flitWidth int) []*Flit {
	if packetSize < 2 {
		packetSize = 2
	}
	flits := make([]*Flit, packetSize)
	for i := 0; i < packetSize; i++ {
		kind := Body
		switch {
		case i == 0:
			kind = Header
		case i == packetSize-1:
			kind = Tail
		}
		flits[i] = &Flit{
			ID:        *nextFlitID,
			Kind:      kind,
			PacketID:  packetID,
			Src:       src,
			Dest:      dest,
			StartTime: startTime,
			Payload:   make([]uint64, flitWidth),
		}
		*nextFlitID++
	}
	return flits
}
