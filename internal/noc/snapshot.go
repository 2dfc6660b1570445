package noc

// RouterSnapshot is one router's read-only state at the moment Snapshot was
// taken: occupancy, DVFS level, and energy figures a GUI or PostScript
// exporter would need (spec §1 [GUIIFACE]/[PSEXPORT] — neither is built
// here, only the interface such a consumer would read from).
type RouterSnapshot struct {
	Addr Address
	ID   int

	Level       DVFSLevel
	Voltage     float64
	PowerBudget float64 // original's GUI color-ramp input, carried for a future GUI (SPEC_FULL [POWERBUDGET])

	InputOccupancy  [NumPorts]int // total buffered flits per input port, summed across VCs
	OutputOccupancy [NumPorts]int // shared output buffer occupancy per port

	PacketsInjected int64
	PacketsArrived  int64

	ScaledEnergy   float64
	UnscaledEnergy float64
}

// Snapshot returns a read-only view of every router in the mesh, ordered by
// router id. It takes no lock and mutates nothing: the controller is
// expected to be idle (between Run() iterations) when this is called, the
// same assumption the teacher's own non-concurrent simulator loop makes.
func (ctl *Controller) Snapshot() []RouterSnapshot {
	out := make([]RouterSnapshot, 0, len(ctl.Routers))
	for id := 0; id < len(ctl.Routers); id++ {
		r, ok := ctl.Routers[id]
		if !ok {
			continue
		}
		out = append(out, snapshotRouter(r))
	}
	return out
}

func snapshotRouter(r *Router) RouterSnapshot {
	s := RouterSnapshot{
		Addr:            r.Addr,
		ID:              r.ID,
		Level:           r.Level,
		Voltage:         r.Level.Voltage(),
		PowerBudget:     r.Level.Voltage() * r.Level.Voltage(),
		PacketsInjected: r.PacketsInjected,
		PacketsArrived:  r.PacketsArrived,
		ScaledEnergy:    r.Energy.ScaledGrandTotal(),
		UnscaledEnergy:  r.Energy.UnscaledGrandTotal(),
	}
	for port := 0; port < NumPorts; port++ {
		for _, vc := range r.Input[port].VCs {
			s.InputOccupancy[port] += vc.Len()
		}
		s.OutputOccupancy[port] = len(r.Output[port].Buffer)
	}
	return s
}
