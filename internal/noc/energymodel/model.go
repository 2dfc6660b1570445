// Package energymodel fixes the narrow interface the NoC core consumes
// from a per-component energy model (spec §1: the Orion-derived model is
// an external collaborator, out of core scope). It ships one concrete,
// deliberately simple implementation so the core is runnable standalone.
package energymodel

// Component names one of the energy-consuming structures a router pipeline
// stage touches (spec §4.5).
type Component int

const (
	Buffer Component = iota
	Crossbar
	Arbiter
	Link
	Clock
)

func (c Component) String() string {
	switch c {
	case Buffer:
		return "buffer"
	case Crossbar:
		return "crossbar"
	case Arbiter:
		return "arbiter"
	case Link:
		return "link"
	case Clock:
		return "clock"
	default:
		return "unknown"
	}
}

// AllComponents lists every component in a stable order, for callers that
// need to range over the full set (e.g. the energy accumulator's
// per-component report).
var AllComponents = []Component{Buffer, Crossbar, Arbiter, Link, Clock}

// UnscaledEnergyModel reports monotonically non-decreasing cumulative
// unscaled energy per component (spec §4.5). The EnergyAccumulator reads
// these cumulative totals and differences them across DVFS epochs; the
// model itself never scales for voltage/frequency.
type UnscaledEnergyModel interface {
	RecordBufferAccess(voltage float64)
	RecordCrossbarTraversal(voltage float64)
	RecordArbitration(voltage float64)
	RecordLinkTraversal(voltage float64)
	RecordClockTick(voltage float64)
	Cumulative() map[Component]float64
}

// LinearComponentModel charges a fixed per-access energy quantum scaled by
// V² for each component access, a minimal stand-in for a full Orion-style
// table lookup (out of scope per spec §1). Energies accumulate regardless
// of the router's current DVFS level; the EnergyAccumulator (not this
// model) applies current_scaling.
type LinearComponentModel struct {
	perAccess  map[Component]float64 // base energy quantum per component
	cumulative map[Component]float64
}

// NewLinearComponentModel creates a model with the given base per-access
// energy quanta, in the component order Buffer, Crossbar, Arbiter, Link,
// Clock.
func NewLinearComponentModel(buffer, crossbar, arbiter, link, clock float64) *LinearComponentModel {
	return &LinearComponentModel{
		perAccess: map[Component]float64{
			Buffer:   buffer,
			Crossbar: crossbar,
			Arbiter:  arbiter,
			Link:     link,
			Clock:    clock,
		},
		cumulative: map[Component]float64{},
	}
}

// DefaultLinearComponentModel returns a model with representative relative
// weights: a link traversal costs the most per access, then a crossbar
// traversal, then a buffer access; arbitration and clock ticks are cheap.
func DefaultLinearComponentModel() *LinearComponentModel {
	return NewLinearComponentModel(1.0, 1.5, 0.3, 2.0, 0.5)
}

func (m *LinearComponentModel) record(c Component, voltage float64) {
	m.cumulative[c] += m.perAccess[c] * voltage * voltage
}

func (m *LinearComponentModel) RecordBufferAccess(voltage float64)      { m.record(Buffer, voltage) }
func (m *LinearComponentModel) RecordCrossbarTraversal(voltage float64) { m.record(Crossbar, voltage) }
func (m *LinearComponentModel) RecordArbitration(voltage float64)       { m.record(Arbiter, voltage) }
func (m *LinearComponentModel) RecordLinkTraversal(voltage float64)     { m.record(Link, voltage) }
func (m *LinearComponentModel) RecordClockTick(voltage float64)         { m.record(Clock, voltage) }

func (m *LinearComponentModel) Cumulative() map[Component]float64 {
	out := make(map[Component]float64, len(m.cumulative))
	for c, v := range m.cumulative {
		out[c] = v
	}
	return out
}
