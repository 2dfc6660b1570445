// Package config parses and validates the scenario configuration the
// simulator runs from — either the cobra flags in cmd/root.go or a YAML
// scenario file (spec §6's command-line option table). Grounded on the
// teacher's cmd/default_config.go: YAML-tagged structs decoded with
// gopkg.in/yaml.v3's KnownFields(true) strict parsing so a typo in a
// scenario file fails fast instead of silently defaulting.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Traffic selects the synthetic or trace-driven destination distribution
// (spec §6 "traffic").
type Traffic string

const (
	TrafficUniform     Traffic = "UNIFORM"
	TrafficHotspot     Traffic = "HOTSPOT"
	TrafficTranspose1  Traffic = "TRANSPOSE1"
	TrafficTranspose2  Traffic = "TRANSPOSE2"
	TrafficSelfSimilar Traffic = "SELFSIMILAR"
	TrafficTracefile   Traffic = "TRACEFILE"
)

// Config is the full scenario configuration, covering every option spec
// §6's command-line surface names. All fields are also settable as cobra
// flags in cmd/root.go; LoadYAML lets a scenario be checked into a file
// instead of spelled out as forty flags on one command line.
type Config struct {
	TraceFile string `yaml:"tracefile,omitempty"`

	Traffic            Traffic `yaml:"traffic"`
	Hotspots           []int   `yaml:"hotspots,omitempty"`
	HotspotPercentage  float64 `yaml:"hotspot_percentage,omitempty"`
	InjectionRate      float64 `yaml:"injection_rate"`

	ArySize    int `yaml:"ary_size"`
	PacketSize int `yaml:"packet_size"`
	FlitSize   int `yaml:"flit_size"`
	InputBuf   int `yaml:"inp_buf"`
	OutputBuf  int `yaml:"out_buf"`

	Routing        string `yaml:"routing"`
	VCCount        int    `yaml:"vc_n"`
	LinkBW         int    `yaml:"link_bw"`
	AllowVCSharing bool   `yaml:"allow_vc_sharing"`

	Cycles  int64 `yaml:"cycles"`
	Warmup  int64 `yaml:"warmup"`
	Seed    int64 `yaml:"seed"`

	UseGUI  bool `yaml:"use_gui,omitempty"`
	GUISbs  bool `yaml:"gui_sbs,omitempty"`
	Verbose bool `yaml:"verbose,omitempty"`

	HistWindow  int64   `yaml:"hist_window"`
	DoDVFS      bool    `yaml:"do_dvfs"`
	DVFSMode    string  `yaml:"dvfs_mode"`
	UseBoost    bool    `yaml:"use_boost"`
	UseLinkPred bool    `yaml:"use_link_pred"`

	// MetricsAddr, when non-empty, starts a Prometheus /metrics endpoint
	// for the duration of the run (SPEC_FULL [METRICSEXPORT]). Not part of
	// spec.md's original option table; an additive observability flag.
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Default returns a Config populated with spec §6's stated defaults/ranges
// made concrete at their most permissive common values.
func Default() Config {
	return Config{
		Traffic:      TrafficUniform,
		InjectionRate: 0.1,
		ArySize:      4,
		PacketSize:   4,
		FlitSize:     4,
		InputBuf:     8,
		OutputBuf:    8,
		Routing:        "XY",
		VCCount:        2,
		LinkBW:         128,
		AllowVCSharing: true,
		Cycles:       10000,
		Warmup:       1000,
		Seed:         1,
		HistWindow:   200,
		DVFSMode:     "ASYNC",
	}
}

// LoadYAML reads and strictly decodes a scenario file, rejecting unknown
// fields so a typo'd option fails fast rather than silently using a
// default (spec §7: configuration errors must fail before simulation
// starts, with a diagnostic).
func LoadYAML(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %q: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every range spec §6's option table fixes, returning the
// first violation found. Every error names the offending value and the
// option that produced it (spec §7).
func (c Config) Validate() error {
	if c.ArySize < 2 || c.ArySize > 128 {
		return fmt.Errorf("ary_size: %d out of range [2,128]", c.ArySize)
	}
	if c.PacketSize < 2 || c.PacketSize > 32 {
		return fmt.Errorf("packet_size: %d out of range [2,32]", c.PacketSize)
	}
	if c.FlitSize < 1 || c.FlitSize > 128 {
		return fmt.Errorf("flit_size: %d out of range [1,128]", c.FlitSize)
	}
	if c.VCCount < 1 || c.VCCount > 128 {
		return fmt.Errorf("vc_n: %d out of range [1,128]", c.VCCount)
	}
	if c.InjectionRate < 0.0001 || c.InjectionRate > 1.0 {
		if c.Traffic != TrafficTracefile && c.InjectionRate != 0 {
			return fmt.Errorf("injection_rate: %v out of range [0.0001,1.0]", c.InjectionRate)
		}
	}
	if c.HotspotPercentage != 0 && (c.HotspotPercentage < 5.0 || c.HotspotPercentage > 95.0) {
		return fmt.Errorf("hotspot_percentage: %v out of range [5.0,95.0]", c.HotspotPercentage)
	}
	switch c.Routing {
	case "XY", "TXY":
	default:
		return fmt.Errorf("routing: %q must be one of XY, TXY", c.Routing)
	}
	if c.Routing == "TXY" && c.VCCount < 2 {
		return fmt.Errorf("vc_n: %d invalid for routing=TXY, torus dateline routing requires vc_n >= 2", c.VCCount)
	}
	switch c.Traffic {
	case TrafficUniform, TrafficHotspot, TrafficTranspose1, TrafficTranspose2, TrafficSelfSimilar, TrafficTracefile:
	default:
		return fmt.Errorf("traffic: %q is not a recognized traffic mode", c.Traffic)
	}
	if c.Traffic == TrafficTracefile && c.TraceFile == "" {
		return fmt.Errorf("tracefile: required when traffic=TRACEFILE")
	}
	if c.DVFSMode != "SYNC" && c.DVFSMode != "ASYNC" {
		return fmt.Errorf("dvfs_mode: %q must be one of SYNC, ASYNC", c.DVFSMode)
	}
	return nil
}
