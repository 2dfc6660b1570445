// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/novafab/noc-dvfs-sim/internal/config"
	"github.com/novafab/noc-dvfs-sim/internal/noc"
	"github.com/novafab/noc-dvfs-sim/internal/noc/trace"
	"github.com/novafab/noc-dvfs-sim/internal/noc/traffic"
	"github.com/novafab/noc-dvfs-sim/internal/rng"
	"github.com/novafab/noc-dvfs-sim/internal/telemetry"
)

var (
	cfgFile string
	cfg     = config.Default()
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "noc-dvfs-sim",
	Short: "Cycle-level, event-driven simulator for a DVFS-enabled mesh NoC",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the NoC simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		runCfg := cfg
		if cfgFile != "" {
			loaded, err := config.LoadYAML(cfgFile)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			runCfg = loaded
		}
		if err := runCfg.Validate(); err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		logrus.Infof("[noc-dvfs-sim] ary_size=%d traffic=%s routing=%s vc_n=%d cycles=%d warmup=%d do_dvfs=%v",
			runCfg.ArySize, runCfg.Traffic, runCfg.Routing, runCfg.VCCount, runCfg.Cycles, runCfg.Warmup, runCfg.DoDVFS)

		metricsServer := telemetry.Start(runCfg.MetricsAddr)
		defer metricsServer.Stop(cmd.Context())

		ctl := buildController(runCfg)
		ctl.Run()
		ctl.Summarize().Print()

		logrus.Info("simulation complete")
	},
}

// buildController wires a Controller from a validated config, grounded on
// spec §6's command-line surface.
func buildController(c config.Config) *noc.Controller {
	routingAlg, _ := noc.ParseRoutingAlgorithm(c.Routing)
	dvfsMode, _ := noc.ParseDVFSMode(c.DVFSMode)

	routerCfg := noc.RouterConfig{
		K:                 c.ArySize,
		NumVC:             c.VCCount,
		InputBufDepth:     c.InputBuf,
		OutputBufDepth:    c.OutputBuf,
		RoutingAlg:        routingAlg,
		AllowVCSharing:    c.AllowVCSharing,
		DVFSHistoryWindow: c.HistWindow,
		HistoryWeight:     3,
		UseLinkPred:       c.UseLinkPred,
		UseBoost:          c.UseBoost,
	}

	controllerCfg := noc.ControllerConfig{
		K:             c.ArySize,
		FlitWidth:     c.FlitSize,
		CyclePeriod:   int64(c.LinkBW), // abstract time units per base cycle
		Cycles:        c.Cycles,
		Warmup:        c.Warmup,
		DoDVFS:        c.DoDVFS,
		DVFSMode:      dvfsMode,
		InjectionRate: c.InjectionRate,
	}

	source := buildTrafficSource(c)

	return noc.NewController(controllerCfg, routerCfg, nil, source, rng.NewSimulationKey(c.Seed), logrus.StandardLogger())
}

func buildTrafficSource(c config.Config) noc.TrafficSource {
	if c.Traffic == config.TrafficTracefile {
		src, err := trace.NewSource(c.TraceFile, c.ArySize)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		return src
	}

	mode, _ := traffic.ParseMode(string(c.Traffic))
	hotspots := make([]noc.Address, 0, len(c.Hotspots)/2)
	for i := 0; i+1 < len(c.Hotspots); i += 2 {
		hotspots = append(hotspots, noc.Address{X: c.Hotspots[i], Y: c.Hotspots[i+1]})
	}
	src := traffic.NewSource(c.ArySize, mode, c.InjectionRate, c.PacketSize, hotspots, c.HotspotPercentage)
	if c.Traffic == config.TrafficSelfSimilar {
		src = src.WithSelfSimilarSizes(traffic.DefaultSelfSimilarShaper(2, c.PacketSize*4))
	}
	return src
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&cfgFile, "config", "", "path to a YAML scenario file (overrides individual flags)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")

	runCmd.Flags().StringVar((*string)(&cfg.Traffic), "traffic", string(cfg.Traffic), "traffic mode: UNIFORM, HOTSPOT, TRANSPOSE1, TRANSPOSE2, SELFSIMILAR, TRACEFILE")
	runCmd.Flags().StringVar(&cfg.TraceFile, "tracefile", "", "path to main trace + per-router local files (required for traffic=TRACEFILE)")
	runCmd.Flags().Float64Var(&cfg.HotspotPercentage, "hotspot-percentage", cfg.HotspotPercentage, "fraction of HOTSPOT traffic steered to --hotspots, in [5,95]")
	runCmd.Flags().IntSliceVar(&cfg.Hotspots, "hotspots", nil, "hotspot router coordinates as x1,y1,x2,y2,...")
	runCmd.Flags().Float64Var(&cfg.InjectionRate, "injection-rate", cfg.InjectionRate, "per-router per-cycle injection probability")

	runCmd.Flags().IntVar(&cfg.ArySize, "ary-size", cfg.ArySize, "mesh side length K (K x K routers)")
	runCmd.Flags().IntVar(&cfg.PacketSize, "packet-size", cfg.PacketSize, "synthetic packet size in flits")
	runCmd.Flags().IntVar(&cfg.FlitSize, "flit-size", cfg.FlitSize, "flit payload width in words")
	runCmd.Flags().IntVar(&cfg.InputBuf, "inp-buf", cfg.InputBuf, "input buffer depth per (port,VC)")
	runCmd.Flags().IntVar(&cfg.OutputBuf, "out-buf", cfg.OutputBuf, "output buffer depth per port")

	runCmd.Flags().StringVar(&cfg.Routing, "routing", cfg.Routing, "routing algorithm: XY or TXY")
	runCmd.Flags().IntVar(&cfg.VCCount, "vc-n", cfg.VCCount, "virtual channels per port")
	runCmd.Flags().IntVar(&cfg.LinkBW, "link-bw", cfg.LinkBW, "link bandwidth, sets the base cycle period")
	runCmd.Flags().BoolVar(&cfg.AllowVCSharing, "allow-vc-sharing", cfg.AllowVCSharing, "allow VC-AB to grant a downstream VC with in-flight credit outstanding; when false, a VC is only offered once fully drained (credit == inp_buf)")

	runCmd.Flags().Int64Var(&cfg.Cycles, "cycles", cfg.Cycles, "total simulated base cycles")
	runCmd.Flags().Int64Var(&cfg.Warmup, "warmup", cfg.Warmup, "warmup base cycles ignored in statistics")
	runCmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "master RNG seed")

	runCmd.Flags().BoolVar(&cfg.UseGUI, "use-gui", false, "reserved: interactive GUI is out of scope for this build")
	runCmd.Flags().BoolVar(&cfg.GUISbs, "gui-sbs", false, "reserved: step-by-step GUI mode is out of scope for this build")
	runCmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "reserved: accepted, but no per-cycle logging is produced in this build")

	runCmd.Flags().Int64Var(&cfg.HistWindow, "hist-window", cfg.HistWindow, "DVFS predictor history window H, in cycles")
	runCmd.Flags().BoolVar(&cfg.DoDVFS, "do-dvfs", false, "enable DVFS prediction and level switching")
	runCmd.Flags().StringVar(&cfg.DVFSMode, "dvfs-mode", cfg.DVFSMode, "DVFS prediction-window mode: SYNC or ASYNC")
	runCmd.Flags().BoolVar(&cfg.UseBoost, "use-boost", false, "allow the DVFS ladder to reach Boost (Policy B)")
	runCmd.Flags().BoolVar(&cfg.UseLinkPred, "use-link-pred", true, "use link-utilization-aware DVFS policy (A/B) instead of congestion-only (C)")

	runCmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", "", "address for an optional Prometheus /metrics endpoint, e.g. :9090")

	rootCmd.AddCommand(runCmd)
}
