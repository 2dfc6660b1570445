package noc

// EventKind tags the five event variants spec §3 names.
type EventKind int

const (
	EventPe EventKind = iota
	EventRouterSingle
	EventSyncPredict
	EventLink
	EventCredit
)

// Event is the interface every queued event satisfies. Events are totally
// ordered by Timestamp, with ties broken by insertion Sequence (spec §3:
// "ties break by insertion order (FIFO within the same timestamp)").
type Event interface {
	Timestamp() int64
	Sequence() uint64
	Kind() EventKind
	Execute(ctl *Controller)
}

// baseEvent carries the fields common to every event variant.
type baseEvent struct {
	timestamp int64
	sequence  uint64
	kind      EventKind
}

func (e baseEvent) Timestamp() int64  { return e.timestamp }
func (e baseEvent) Sequence() uint64  { return e.sequence }
func (e baseEvent) Kind() EventKind   { return e.kind }

// PeEvent drives synthetic injection ticks or trace-line reads (spec §4.2).
type PeEvent struct {
	baseEvent
}

func (e *PeEvent) Execute(ctl *Controller) { ctl.handlePe(e) }

// RouterSingleEvent re-schedules one router's pipeline tick (spec §4.2-§4.3).
type RouterSingleEvent struct {
	baseEvent
	RouterID int
}

func (e *RouterSingleEvent) Execute(ctl *Controller) { ctl.handleRouterSingle(e) }

// SyncPredictEvent fires the global synchronous DVFS prediction tick
// (spec §4.2, §4.4).
type SyncPredictEvent struct {
	baseEvent
}

func (e *SyncPredictEvent) Execute(ctl *Controller) { ctl.handleSyncPredict(e) }

// LinkEvent delivers a flit to a downstream router's input buffer after
// wire_delay (spec §4.2, §4.3 Stage 5).
type LinkEvent struct {
	baseEvent
	ToRouter int
	Port     int // the port on the receiving router this flit arrives at
	VC       int
	Flit     *Flit
}

func (e *LinkEvent) Execute(ctl *Controller) { ctl.handleLink(e) }

// CreditEvent returns one downstream credit to an upstream router's output
// side after credit_delay (spec §4.2, §4.3 Stage 4).
type CreditEvent struct {
	baseEvent
	ToRouter int
	Port     int
	VC       int
}

func (e *CreditEvent) Execute(ctl *Controller) { ctl.handleCredit(e) }
