package noc

// DVFSLevel is one of the four (voltage, frequency, energy-scale) points a
// router can operate at (spec §4.4, §6 constants table).
type DVFSLevel int

const (
	Throttle2 DVFSLevel = iota
	Throttle1
	Base
	Boost
)

func (l DVFSLevel) String() string {
	switch l {
	case Boost:
		return "Boost"
	case Base:
		return "Base"
	case Throttle1:
		return "Throttle1"
	case Throttle2:
		return "Throttle2"
	default:
		return "Unknown"
	}
}

// Timing and energy constants normalized to the 2.0 GHz, 1.2 V baseline
// operating point (spec §6 "Constants").
const (
	delayBase      = 1.0
	delayBoost     = 0.8
	delayThrottle1 = 1.111
	delayThrottle2 = 1.25

	voltageBoost     = 1.3
	voltageBase      = 1.2
	voltageThrottle1 = 1.1
	voltageThrottle2 = 1.0

	scaleBoost     = 1.1736
	scaleBase      = 1.0000
	scaleThrottle1 = 0.8403
	scaleThrottle2 = 0.6944

	// ReportInterval is the base-cycle period for progress accounting
	// (spec §4.1, §6).
	ReportInterval = 2000

	// SoftPECap is the soft injector buffer cap in flits (spec §3, §6).
	SoftPECap = 512
)

// PipeDelay returns the per-stage pipeline period at level l. Wire and
// credit delays scale identically (spec §6): all three timing knobs share
// one per-level multiplier.
func (l DVFSLevel) PipeDelay() float64 {
	switch l {
	case Boost:
		return delayBoost
	case Throttle1:
		return delayThrottle1
	case Throttle2:
		return delayThrottle2
	default:
		return delayBase
	}
}

// WireDelay returns the link traversal delay at level l.
func (l DVFSLevel) WireDelay() float64 { return l.PipeDelay() }

// CreditDelay returns the credit-return delay at level l.
func (l DVFSLevel) CreditDelay() float64 { return l.PipeDelay() }

// Voltage returns the nominal supply voltage at level l.
func (l DVFSLevel) Voltage() float64 {
	switch l {
	case Boost:
		return voltageBoost
	case Throttle1:
		return voltageThrottle1
	case Throttle2:
		return voltageThrottle2
	default:
		return voltageBase
	}
}

// EnergyScale returns the current_scaling factor applied to unscaled
// delta-energy while the router runs at level l (spec §4.5).
func (l DVFSLevel) EnergyScale() float64 {
	switch l {
	case Boost:
		return scaleBoost
	case Throttle1:
		return scaleThrottle1
	case Throttle2:
		return scaleThrottle2
	default:
		return scaleBase
	}
}

// StepUp and StepDown walk the DVFS ladder. allowBoost gates whether Boost
// is a reachable rung (Policy A vs B, spec §4.4); StepUp saturates at the
// top of whatever ladder is enabled, StepDown saturates at Throttle2.
func (l DVFSLevel) StepUp(allowBoost bool) DVFSLevel {
	switch l {
	case Throttle2:
		return Throttle1
	case Throttle1:
		return Base
	case Base:
		if allowBoost {
			return Boost
		}
		return Base
	default:
		return Boost
	}
}

func (l DVFSLevel) StepDown() DVFSLevel {
	switch l {
	case Boost:
		return Base
	case Base:
		return Throttle1
	case Throttle1:
		return Throttle2
	default:
		return Throttle2
	}
}
