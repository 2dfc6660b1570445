package traffic

import (
	"math"
	"math/rand"
)

// SelfSimilarShaper draws packet sizes from a Pareto/log-normal mixture
// (spec §6 traffic=SELFSIMILAR), the same heavy-tailed burst shape the
// teacher's ParetoLogNormalSampler uses for request token counts: with
// probability MixWeight draw Pareto(Alpha, Xm), otherwise LogNormal(Mu,
// Sigma). Reused here for flit counts instead of token counts — the same
// shape of burstiness applies to packet sizes in network traffic
// generators.
type SelfSimilarShaper struct {
	Alpha     float64 // Pareto shape
	Xm        float64 // Pareto scale (minimum)
	Mu        float64 // log-normal mean of ln(X)
	Sigma     float64 // log-normal std dev of ln(X)
	MixWeight float64 // probability of drawing from the Pareto arm

	Min, Max int // clamp range in flits, spec §6 packet_size bounds
}

// DefaultSelfSimilarShaper returns parameters producing a moderately
// bursty packet-size distribution centered near a typical packet_size of 8.
func DefaultSelfSimilarShaper(min, max int) *SelfSimilarShaper {
	return &SelfSimilarShaper{
		Alpha: 1.5, Xm: 2, Mu: 2.0, Sigma: 0.5, MixWeight: 0.2,
		Min: min, Max: max,
	}
}

// Sample draws one packet size in flits, clamped to [Min,Max].
func (s *SelfSimilarShaper) Sample(r *rand.Rand) int {
	var val float64
	if r.Float64() < s.MixWeight {
		u := r.Float64()
		if u == 0 {
			u = math.SmallestNonzeroFloat64
		}
		val = s.Xm / math.Pow(u, 1.0/s.Alpha)
	} else {
		z := r.NormFloat64()
		val = math.Exp(s.Mu + s.Sigma*z)
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		val = float64(s.Min)
	}
	result := int(math.Round(val))
	if result < s.Min {
		result = s.Min
	}
	if s.Max > 0 && result > s.Max {
		result = s.Max
	}
	return result
}
