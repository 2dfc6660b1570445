package noc

import "github.com/novafab/noc-dvfs-sim/internal/noc/energymodel"

// EnergyAccumulator tracks one router's unscaled→scaled delta-energy
// accounting across DVFS level changes (spec §4.5). It guarantees that the
// scaled total equals the sum, over contiguous DVFS epochs, of
// epoch_unscaled_energy * epoch_scaling.
type EnergyAccumulator struct {
	model          energymodel.UnscaledEnergyModel
	scaling        float64
	prevCumulative map[energymodel.Component]float64
	scaledTotal    map[energymodel.Component]float64
}

// NewEnergyAccumulator creates an accumulator wrapping model, initially
// scaling at level.EnergyScale().
func NewEnergyAccumulator(model energymodel.UnscaledEnergyModel, level DVFSLevel) *EnergyAccumulator {
	return &EnergyAccumulator{
		model:          model,
		scaling:        level.EnergyScale(),
		prevCumulative: zeroComponents(),
		scaledTotal:    zeroComponents(),
	}
}

func zeroComponents() map[energymodel.Component]float64 {
	m := make(map[energymodel.Component]float64, len(energymodel.AllComponents))
	for _, c := range energymodel.AllComponents {
		m[c] = 0
	}
	return m
}

// Flush performs the five-step procedure of spec §4.5: read current
// cumulative unscaled energy, compute the delta since the last flush,
// scale it by the scaling factor that was active over that delta, add it
// to the scaled totals, and advance the baseline. Call on every DVFS level
// change and, optionally, on every predictor window boundary to bound
// error (spec §4.5).
func (e *EnergyAccumulator) Flush() {
	cur := e.model.Cumulative()
	for _, c := range energymodel.AllComponents {
		delta := cur[c] - e.prevCumulative[c]
		e.scaledTotal[c] += delta * e.scaling
		e.prevCumulative[c] = cur[c]
	}
}

// SetLevel flushes any energy accrued under the old scaling, then applies
// the new level's scaling to energy accrued from this point on (spec
// §4.5 step 5: "Applies the new scaling after the update").
func (e *EnergyAccumulator) SetLevel(level DVFSLevel) {
	e.Flush()
	e.scaling = level.EnergyScale()
}

// ScaledTotal returns the accumulated scaled energy per component.
func (e *EnergyAccumulator) ScaledTotal() map[energymodel.Component]float64 {
	out := make(map[energymodel.Component]float64, len(e.scaledTotal))
	for c, v := range e.scaledTotal {
		out[c] = v
	}
	return out
}

// ScaledGrandTotal sums ScaledTotal across all components.
func (e *EnergyAccumulator) ScaledGrandTotal() float64 {
	total := 0.0
	for _, v := range e.scaledTotal {
		total += v
	}
	return total
}

// UnscaledGrandTotal sums the model's current cumulative unscaled energy
// across all components, used by spec §8 property 6 (do_dvfs=0 => scaled
// == unscaled).
func (e *EnergyAccumulator) UnscaledGrandTotal() float64 {
	total := 0.0
	for _, v := range e.model.Cumulative() {
		total += v
	}
	return total
}
