package traffic

import (
	"testing"

	"github.com/novafab/noc-dvfs-sim/internal/noc"
	"github.com/novafab/noc-dvfs-sim/internal/rng"
)

func TestSource_InjectionRateGatesNext(t *testing.T) {
	prng := rng.NewPartitionedRNG(rng.NewSimulationKey(1))
	src := NewSource(4, Uniform, 1.0, 4, nil, 0)

	_, _, ok := src.Next(prng, noc.Address{X: 0, Y: 0}, 0)
	if !ok {
		t.Fatal("injection_rate=1.0 should always fire")
	}

	zero := NewSource(4, Uniform, 0.0, 4, nil, 0)
	_, _, ok = zero.Next(prng, noc.Address{X: 0, Y: 0}, 0)
	if ok {
		t.Fatal("injection_rate=0.0 should never fire")
	}
}

func TestSource_UniformNeverTargetsSelf(t *testing.T) {
	prng := rng.NewPartitionedRNG(rng.NewSimulationKey(2))
	src := NewSource(2, Uniform, 1.0, 4, nil, 0)
	self := noc.Address{X: 0, Y: 0}

	for i := 0; i < 100; i++ {
		dest, _, ok := src.Next(prng, self, int64(i))
		if !ok {
			t.Fatal("injection_rate=1.0 should always fire")
		}
		if dest.Equal(self) {
			t.Fatal("UNIFORM traffic must never target the injecting router itself")
		}
	}
}

func TestSource_Transpose1ReflectsThroughCenter(t *testing.T) {
	prng := rng.NewPartitionedRNG(rng.NewSimulationKey(3))
	src := NewSource(4, Transpose1, 1.0, 4, nil, 0)
	dest, _, ok := src.Next(prng, noc.Address{X: 0, Y: 1}, 0)
	if !ok {
		t.Fatal("expected injection")
	}
	if dest != (noc.Address{X: 3, Y: 2}) {
		t.Fatalf("TRANSPOSE1 of (0,1) on a 4-ary mesh should be (3,2), got %v", dest)
	}
}

func TestSource_Transpose2SwapsCoordinates(t *testing.T) {
	prng := rng.NewPartitionedRNG(rng.NewSimulationKey(4))
	src := NewSource(4, Transpose2, 1.0, 4, nil, 0)
	dest, _, ok := src.Next(prng, noc.Address{X: 1, Y: 3}, 0)
	if !ok {
		t.Fatal("expected injection")
	}
	if dest != (noc.Address{X: 3, Y: 1}) {
		t.Fatalf("TRANSPOSE2 of (1,3) should be (3,1), got %v", dest)
	}
}

func TestSource_HotspotStaysWithinConfiguredSet(t *testing.T) {
	prng := rng.NewPartitionedRNG(rng.NewSimulationKey(5))
	hotspots := []noc.Address{{X: 3, Y: 3}}
	src := NewSource(4, Hotspot, 1.0, 4, hotspots, 100) // always steer to hotspots

	for i := 0; i < 50; i++ {
		dest, _, ok := src.Next(prng, noc.Address{X: 0, Y: 0}, int64(i))
		if !ok {
			t.Fatal("expected injection")
		}
		if dest != hotspots[0] {
			t.Fatalf("hotspot_percentage=100 should always steer to the hotspot, got %v", dest)
		}
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"UNIFORM": Uniform, "HOTSPOT": Hotspot, "TRANSPOSE1": Transpose1, "TRANSPOSE2": Transpose2}
	for s, want := range cases {
		got, ok := ParseMode(s)
		if !ok || got != want {
			t.Fatalf("ParseMode(%q) = %v,%v want %v,true", s, got, ok, want)
		}
	}
	if _, ok := ParseMode("NOTAMODE"); ok {
		t.Fatal("expected ParseMode to reject an unrecognized mode")
	}
}

func TestSource_WithSelfSimilarSizesOverridesPacketSize(t *testing.T) {
	prng := rng.NewPartitionedRNG(rng.NewSimulationKey(6))
	src := NewSource(4, Uniform, 1.0, 4, nil, 0).WithSelfSimilarSizes(DefaultSelfSimilarShaper(2, 16))

	_, size, ok := src.Next(prng, noc.Address{X: 0, Y: 0}, 0)
	if !ok {
		t.Fatal("expected injection")
	}
	if size < 2 || size > 16 {
		t.Fatalf("self-similar packet size %d out of configured clamp [2,16]", size)
	}
}
