package energymodel

import "testing"

func TestLinearComponentModel_MonotonicallyNonDecreasing(t *testing.T) {
	m := DefaultLinearComponentModel()
	prev := m.Cumulative()
	for i := 0; i < 10; i++ {
		m.RecordBufferAccess(1.2)
		m.RecordCrossbarTraversal(1.2)
		m.RecordArbitration(1.2)
		m.RecordLinkTraversal(1.2)
		m.RecordClockTick(1.2)

		cur := m.Cumulative()
		for _, c := range AllComponents {
			if cur[c] < prev[c] {
				t.Fatalf("component %v decreased: %v -> %v", c, prev[c], cur[c])
			}
		}
		prev = cur
	}
}

func TestLinearComponentModel_ZeroBeforeAnyRecord(t *testing.T) {
	m := DefaultLinearComponentModel()
	cur := m.Cumulative()
	for _, c := range AllComponents {
		if cur[c] != 0 {
			t.Fatalf("component %v should start at 0, got %v", c, cur[c])
		}
	}
}

func TestLinearComponentModel_HigherVoltageChargesMore(t *testing.T) {
	low := DefaultLinearComponentModel()
	high := DefaultLinearComponentModel()

	low.RecordBufferAccess(1.0)
	high.RecordBufferAccess(1.3)

	if high.Cumulative()[Buffer] <= low.Cumulative()[Buffer] {
		t.Fatal("higher voltage should charge more energy per access")
	}
}

func TestComponentString(t *testing.T) {
	for _, c := range AllComponents {
		if c.String() == "unknown" {
			t.Fatalf("component %d missing String() case", c)
		}
	}
}
