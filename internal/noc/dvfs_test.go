package noc

import "testing"

func TestSelectPolicy(t *testing.T) {
	if SelectPolicy(false, false) != PolicyC {
		t.Error("use_link_pred=0 should select Policy C regardless of boost")
	}
	if SelectPolicy(true, false) != PolicyA {
		t.Error("use_link_pred=1, use_boost=0 should select Policy A")
	}
	if SelectPolicy(true, true) != PolicyB {
		t.Error("use_link_pred=1, use_boost=1 should select Policy B")
	}
}

func TestPolicyLinkAware_ShiftsUpOnHighLU(t *testing.T) {
	var bu, lu [NumPorts]float64
	lu[PortEast] = 0.8 // > 0.4 high threshold when bu < 0.5
	got := policyLinkAware(Base, bu, lu, false)
	if got != Boost && got != Throttle1 && got != Base {
		t.Fatalf("unexpected level %v", got)
	}
	if got := policyLinkAware(Throttle2, bu, lu, false); got != Throttle1 {
		t.Fatalf("expected step up from Throttle2 to Throttle1, got %v", got)
	}
}

func TestPolicyLinkAware_NoBoostLadderCapsAtBase(t *testing.T) {
	var bu, lu [NumPorts]float64
	lu[PortEast] = 0.9
	got := policyLinkAware(Base, bu, lu, false)
	if got != Base {
		t.Fatalf("Policy A must not boost past Base, got %v", got)
	}
}

func TestPolicyLinkAware_ShiftsDownOnLowLU(t *testing.T) {
	var bu, lu [NumPorts]float64
	lu[PortEast] = 0.1 // < 0.3 low threshold
	got := policyLinkAware(Base, bu, lu, false)
	if got != Throttle1 {
		t.Fatalf("expected step down to Throttle1, got %v", got)
	}
}

func TestPolicyCongestion_HighBUAllGoesBase(t *testing.T) {
	var bu [NumPorts]float64
	got := policyCongestion(Throttle2, 0.2, bu, false)
	if got != Base {
		t.Fatalf("BU_all_pred >= 0.15 should select Base, got %v", got)
	}
	if got := policyCongestion(Throttle2, 0.2, bu, true); got != Boost {
		t.Fatalf("with boost enabled, high BU_all_pred should select Boost, got %v", got)
	}
}

func TestPolicyCongestion_MidBandRespectsHighSignal(t *testing.T) {
	var bu [NumPorts]float64
	bu[PortEast] = 0.7 // > 0.65 high signal
	got := policyCongestion(Base, 0.07, bu, false)
	if got != Throttle1 {
		t.Fatalf("0.05<=BU_all_pred<0.10 with high signal should select Throttle1, got %v", got)
	}
}

func TestPolicyCongestion_LowBandDefaultsThrottle2(t *testing.T) {
	var bu [NumPorts]float64
	bu[PortEast] = 0.9
	got := policyCongestion(Base, 0.01, bu, false)
	if got != Throttle2 {
		t.Fatalf("low BU_all_pred with high signal should select Throttle2, got %v", got)
	}
	got = policyCongestion(Base, 0.01, [NumPorts]float64{}, false)
	if got != Base {
		t.Fatalf("low BU_all_pred with no high signal should stay Base, got %v", got)
	}
}

func TestPredictor_AccumulateIncrementsCycles(t *testing.T) {
	cfg := RouterConfig{K: 2, NumVC: 2, InputBufDepth: 8, OutputBufDepth: 8, DVFSHistoryWindow: 5, HistoryWeight: 3}
	r := NewRouter(Address{0, 0}, cfg, nil)
	p := r.Predictor

	for i := 0; i < 4; i++ {
		p.Accumulate(r)
	}
	if p.ReadyASYNC() {
		t.Fatal("should not be ready before H cycles accumulate")
	}
	p.Accumulate(r)
	if !p.ReadyASYNC() {
		t.Fatal("should be ready once cycle_counter reaches H")
	}
}

func TestPredictor_FinalizeResetsWindow(t *testing.T) {
	cfg := RouterConfig{K: 2, NumVC: 2, InputBufDepth: 8, OutputBufDepth: 8, DVFSHistoryWindow: 3, HistoryWeight: 3}
	r := NewRouter(Address{0, 0}, cfg, nil)
	p := r.Predictor

	p.Accumulate(r)
	p.Accumulate(r)
	p.Accumulate(r)
	p.Finalize(Base, false)

	if p.cycles != 0 || p.cycleCounter != 0 {
		t.Fatalf("Finalize should reset window accumulators, got cycles=%d counter=%d", p.cycles, p.cycleCounter)
	}
}
