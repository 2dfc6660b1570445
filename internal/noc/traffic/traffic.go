// Package traffic implements the synthetic destination selectors spec §6's
// "traffic" option names: Uniform, Hotspot, Transpose1, Transpose2, and a
// self-similar burst shaper. Each selector satisfies noc.TrafficSource,
// drawing from the simulation's partitioned RNG rather than its own
// unseeded source, so two runs with the same seed inject identical packets.
package traffic

import (
	"math/rand"

	"github.com/novafab/noc-dvfs-sim/internal/noc"
	"github.com/novafab/noc-dvfs-sim/internal/rng"
)

// Mode names one of spec §6's synthetic traffic patterns.
type Mode int

const (
	Uniform Mode = iota
	Hotspot
	Transpose1
	Transpose2
)

func ParseMode(s string) (Mode, bool) {
	switch s {
	case "UNIFORM":
		return Uniform, true
	case "HOTSPOT":
		return Hotspot, true
	case "TRANSPOSE1":
		return Transpose1, true
	case "TRANSPOSE2":
		return Transpose2, true
	default:
		return Uniform, false
	}
}

// Source generates synthetic (destination, packet size) pairs at a fixed
// Bernoulli injection rate per cycle, independently per router (spec §4.6
// "Injection"). It implements noc.TrafficSource.
type Source struct {
	K                 int
	Mode              Mode
	InjectionRate     float64
	PacketSize        int
	Hotspots          []noc.Address
	HotspotPercentage float64 // [0,100]; fraction of traffic steered to Hotspots

	shaper *SelfSimilarShaper // optional burstiness override on packet size
}

// NewSource builds a Source over a K-ary mesh.
func NewSource(k int, mode Mode, injectionRate float64, packetSize int, hotspots []noc.Address, hotspotPct float64) *Source {
	return &Source{
		K:                 k,
		Mode:              mode,
		InjectionRate:     injectionRate,
		PacketSize:        packetSize,
		Hotspots:          hotspots,
		HotspotPercentage: hotspotPct,
	}
}

// WithSelfSimilarSizes attaches a self-similar packet-size shaper so packet
// lengths burst instead of staying fixed (spec §6 traffic=SELFSIMILAR).
func (s *Source) WithSelfSimilarSizes(shaper *SelfSimilarShaper) *Source {
	s.shaper = shaper
	return s
}

// Next implements noc.TrafficSource: a Bernoulli trial against
// InjectionRate decides whether src injects this cycle; on a hit, the
// configured Mode picks the destination.
func (s *Source) Next(prng *rng.PartitionedRNG, src noc.Address, now int64) (noc.Address, int, bool) {
	r := prng.ForSubsystem(rng.SubsystemInjection)
	if r.Float64() >= s.InjectionRate {
		return noc.Address{}, 0, false
	}

	dest := s.pickDestination(r, src)
	size := s.PacketSize
	if s.shaper != nil {
		size = s.shaper.Sample(prng.ForSubsystem(rng.SubsystemTraffic))
	}
	return dest, size, true
}

func (s *Source) pickDestination(r *rand.Rand, src noc.Address) noc.Address {
	switch s.Mode {
	case Hotspot:
		if len(s.Hotspots) > 0 && r.Float64()*100 < s.HotspotPercentage {
			return s.Hotspots[rng.IntN(r, len(s.Hotspots))]
		}
		return s.uniform(r, src)
	case Transpose1:
		// dest = (K-1-x, K-1-y): point reflection through the mesh center.
		return noc.Address{X: s.K - 1 - src.X, Y: s.K - 1 - src.Y}
	case Transpose2:
		// dest = (y, x): transpose across the main diagonal.
		return noc.Address{X: src.Y, Y: src.X}
	default:
		return s.uniform(r, src)
	}
}

// uniform draws a destination uniformly over the mesh excluding src itself
// (spec §6: "UNIFORM" never targets the injecting router).
func (s *Source) uniform(r *rand.Rand, src noc.Address) noc.Address {
	for {
		x := rng.IntN(r, s.K)
		y := rng.IntN(r, s.K)
		if x != src.X || y != src.Y {
			return noc.Address{X: x, Y: y}
		}
	}
}
