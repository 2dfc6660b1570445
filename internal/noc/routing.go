package noc

// RoutingAlgorithm selects routing candidates for a head flit (spec §4.3,
// "Stage 1 — Routing Computation"). Dispatched by a small switch in
// Candidates rather than an interface hierarchy (spec §9).
type RoutingAlgorithm int

const (
	RoutingXY RoutingAlgorithm = iota
	RoutingTorusXY
)

func ParseRoutingAlgorithm(s string) (RoutingAlgorithm, bool) {
	switch s {
	case "XY":
		return RoutingXY, true
	case "TXY":
		return RoutingTorusXY, true
	default:
		return RoutingXY, false
	}
}

// Candidates returns the (out_port, out_vc) pairs permitted for a flit
// addressed to dest, computed from self, using algorithm alg over a K-ary
// mesh with numVC virtual channels per port.
func Candidates(alg RoutingAlgorithm, self, dest Address, k, numVC int) []RoutingCandidate {
	switch alg {
	case RoutingTorusXY:
		return torusXYCandidates(self, dest, k)
	default:
		return xyCandidates(self, dest, numVC)
	}
}

// xyCandidates implements dimension-order XY routing (spec §4.3 "XY
// routing"): first resolve Y, then X, offering every VC on the chosen port.
func xyCandidates(self, dest Address, numVC int) []RoutingCandidate {
	port, ok := xyOutPort(self, dest)
	if !ok {
		return nil
	}
	cands := make([]RoutingCandidate, numVC)
	for v := 0; v < numVC; v++ {
		cands[v] = RoutingCandidate{Port: port, VC: v}
	}
	return cands
}

func xyOutPort(self, dest Address) (int, bool) {
	dx := dest.X - self.X
	dy := dest.Y - self.Y
	switch {
	case dy < 0:
		return PortSouth, true
	case dy > 0:
		return PortNorth, true
	case dx < 0:
		return PortWest, true
	case dx > 0:
		return PortEast, true
	default:
		return 0, false // dest == self; handled upstream by RC consuming the flit
	}
}

// torusXYCandidates implements the dateline-discipline torus variant (spec
// §4.3 "Torus-XY"): the same port decision as XY, but the VC class (0 or 1)
// is forced by whether the hop crosses the mesh's dateline wrap-around
// link, so the wrap and non-wrap halves of the torus never share channel
// dependencies. Always returns exactly one candidate; spec §9 fixes 2 VCs
// regardless of vc_n for this algorithm.
func torusXYCandidates(self, dest Address, k int) []RoutingCandidate {
	dx := dest.X - self.X
	dy := dest.Y - self.Y
	if dy != 0 {
		port := torusPort(dy, k, PortSouth, PortNorth)
		vc := 0
		if wraps(dy, k) {
			vc = 1
		}
		return []RoutingCandidate{{Port: port, VC: vc}}
	}
	if dx != 0 {
		port := torusPort(dx, k, PortWest, PortEast)
		vc := 0
		if wraps(dx, k) {
			vc = 1
		}
		return []RoutingCandidate{{Port: port, VC: vc}}
	}
	return nil
}

// wraps reports whether the shortest path for a signed delta d on a ring
// of size k crosses the dateline (spec §4.3: "if |dx|*2 > K choose the
// wrap-around port").
func wraps(d, k int) bool {
	return absInt(d)*2 > k
}

// torusPort picks the physical port for a signed delta on one axis,
// flipping to the wrap-around direction when the dateline shortcut is
// shorter (spec §4.3: "dateline deadlock avoidance with two VC classes").
func torusPort(delta, k int, negPort, posPort int) int {
	if wraps(delta, k) {
		if delta < 0 {
			return posPort
		}
		return negPort
	}
	if delta < 0 {
		return negPort
	}
	return posPort
}
