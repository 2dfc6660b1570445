package cmd

import (
	"testing"

	"github.com/novafab/noc-dvfs-sim/internal/config"
	"github.com/novafab/noc-dvfs-sim/internal/noc"
)

func TestBuildController_WiresRouterAndControllerConfigFromConfig(t *testing.T) {
	c := config.Default()
	c.ArySize = 4
	c.VCCount = 3
	c.Cycles = 1000

	ctl := buildController(c)

	if got := len(ctl.Routers); got != 16 {
		t.Fatalf("expected a 4x4 mesh (16 routers), got %d", got)
	}
	r := ctl.Routers[noc.Address{X: 0, Y: 0}.RouterID(4)]
	if len(r.Input[noc.PortLocal].VCs) != 3 {
		t.Fatalf("expected vc_n=3 to propagate to the router config, got %d VCs", len(r.Input[noc.PortLocal].VCs))
	}
}

func TestBuildTrafficSource_SelfSimilarBuildsSource(t *testing.T) {
	c := config.Default()
	c.Traffic = config.TrafficSelfSimilar
	c.ArySize = 4

	src := buildTrafficSource(c)
	if src == nil {
		t.Fatal("expected a non-nil traffic source for SELFSIMILAR mode")
	}
}
