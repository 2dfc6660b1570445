// Package noc implements the cycle-level, event-driven NoC simulator core:
// the event queue, the five-stage VC router pipeline, the DVFS predictor,
// and the energy accumulator (spec §1-§4).
package noc

import "fmt"

// Address identifies a router's position in the K-ary 2-cube mesh.
type Address struct {
	X, Y int
}

// RouterID returns the flattened router id x*K+y used to index the mesh.
func (a Address) RouterID(k int) int {
	return a.X*k + a.Y
}

// AddressFromID inverts RouterID for a given ary size k.
func AddressFromID(id, k int) Address {
	return Address{X: id / k, Y: id % k}
}

func (a Address) String() string {
	return fmt.Sprintf("(%d,%d)", a.X, a.Y)
}

// Equal reports whether two addresses name the same router.
func (a Address) Equal(b Address) bool {
	return a.X == b.X && a.Y == b.Y
}

// Physical port indices (spec §3: P = 5 ports per router).
const (
	PortLocal = 0 // PE (local processing element)
	PortWest  = 1 // -x
	PortEast  = 2 // +x
	PortSouth = 3 // -y
	PortNorth = 4 // +y
	NumPorts  = 5
)

// MirrorPort maps a port to the port a neighbor would see it on
// (W<->E, S<->N); spec §4.3 Stage 5.
func MirrorPort(port int) int {
	switch port {
	case PortWest:
		return PortEast
	case PortEast:
		return PortWest
	case PortSouth:
		return PortNorth
	case PortNorth:
		return PortSouth
	default:
		return port
	}
}

// Neighbor computes the address reached by leaving self through port,
// wrapping around the mesh edges when wrap is true (torus). It returns
// ok=false if the port has no neighbor on a non-wrapping mesh edge.
func Neighbor(self Address, port int, k int, wrap bool) (Address, bool) {
	switch port {
	case PortWest:
		if self.X > 0 {
			return Address{X: self.X - 1, Y: self.Y}, true
		}
		if wrap {
			return Address{X: k - 1, Y: self.Y}, true
		}
		return Address{}, false
	case PortEast:
		if self.X < k-1 {
			return Address{X: self.X + 1, Y: self.Y}, true
		}
		if wrap {
			return Address{X: 0, Y: self.Y}, true
		}
		return Address{}, false
	case PortSouth:
		if self.Y > 0 {
			return Address{X: self.X, Y: self.Y - 1}, true
		}
		if wrap {
			return Address{X: self.X, Y: k - 1}, true
		}
		return Address{}, false
	case PortNorth:
		if self.Y < k-1 {
			return Address{X: self.X, Y: self.Y + 1}, true
		}
		if wrap {
			return Address{X: self.X, Y: 0}, true
		}
		return Address{}, false
	default:
		return Address{}, false
	}
}

// Manhattan returns the grid distance between two addresses, used by
// spec §8 property 3 (minimum arrival-time bound).
func Manhattan(a, b Address) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
