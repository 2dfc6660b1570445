package noc

import "testing"

func TestXYCandidates_PrefersYThenX(t *testing.T) {
	self := Address{X: 2, Y: 2}

	// dy > 0 -> North, regardless of dx
	cands := Candidates(RoutingXY, self, Address{X: 0, Y: 4}, 5, 2)
	if len(cands) != 2 || cands[0].Port != PortNorth {
		t.Fatalf("expected 2 candidates on North, got %+v", cands)
	}

	// dy < 0 -> South
	cands = Candidates(RoutingXY, self, Address{X: 4, Y: 0}, 5, 2)
	if cands[0].Port != PortSouth {
		t.Fatalf("expected South, got %+v", cands)
	}

	// dy == 0, dx > 0 -> East
	cands = Candidates(RoutingXY, self, Address{X: 4, Y: 2}, 5, 2)
	if cands[0].Port != PortEast {
		t.Fatalf("expected East, got %+v", cands)
	}

	// dy == 0, dx < 0 -> West
	cands = Candidates(RoutingXY, self, Address{X: 0, Y: 2}, 5, 2)
	if cands[0].Port != PortWest {
		t.Fatalf("expected West, got %+v", cands)
	}
}

func TestXYCandidates_AllVCsEligible(t *testing.T) {
	self := Address{X: 0, Y: 0}
	cands := Candidates(RoutingXY, self, Address{X: 2, Y: 0}, 4, 4)
	if len(cands) != 4 {
		t.Fatalf("expected 4 candidate VCs, got %d", len(cands))
	}
	for v, c := range cands {
		if c.VC != v || c.Port != PortEast {
			t.Fatalf("candidate %d malformed: %+v", v, c)
		}
	}
}

func TestTorusXY_DatelineSelectsWrapVC(t *testing.T) {
	k := 8
	// self at x=0, dest at x=5: direct delta=5, |5|*2=10 > 8 -> wraps, dateline VC 1, West port.
	self := Address{X: 0, Y: 0}
	dest := Address{X: 5, Y: 0}
	cands := Candidates(RoutingTorusXY, self, dest, k, 4)
	if len(cands) != 1 {
		t.Fatalf("torus routing must return exactly one candidate, got %d", len(cands))
	}
	if cands[0].VC != 1 {
		t.Fatalf("expected dateline VC class 1, got %d", cands[0].VC)
	}
	if cands[0].Port != PortWest {
		t.Fatalf("expected wrap-around West port, got port %d", cands[0].Port)
	}
}

func TestTorusXY_ShortNonWrapUsesVC0(t *testing.T) {
	k := 8
	self := Address{X: 0, Y: 0}
	dest := Address{X: 2, Y: 0}
	cands := Candidates(RoutingTorusXY, self, dest, k, 4)
	if cands[0].VC != 0 {
		t.Fatalf("expected non-dateline VC class 0, got %d", cands[0].VC)
	}
	if cands[0].Port != PortEast {
		t.Fatalf("expected direct East port, got port %d", cands[0].Port)
	}
}

func TestManhattanDistance(t *testing.T) {
	if d := Manhattan(Address{0, 0}, Address{3, 4}); d != 7 {
		t.Fatalf("Manhattan = %d, want 7", d)
	}
}

func TestNeighborMeshEdges(t *testing.T) {
	if _, ok := Neighbor(Address{X: 0, Y: 0}, PortWest, 4, false); ok {
		t.Fatal("non-wrapping mesh must have no West neighbor at x=0")
	}
	if addr, ok := Neighbor(Address{X: 0, Y: 0}, PortWest, 4, true); !ok || addr.X != 3 {
		t.Fatalf("wrapping mesh West neighbor at x=0 should be x=3, got %+v ok=%v", addr, ok)
	}
}
