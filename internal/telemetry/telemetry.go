// Package telemetry exposes optional Prometheus metrics for a running
// simulation: offered load, latency, DVFS level occupancy, and scaled
// energy. Exporting metrics is purely additive — the simulation's own
// numbers (reports, final summary) never depend on whether telemetry is
// enabled. Grounded on the teacher's churn telemetry package
// (internal/ratelimiter/telemetry/churn/prom_counters.go): package-level
// prometheus collectors registered once in init, a tiny dedicated
// /metrics HTTP server, and a no-op Server when no address is given. The
// Record/Set functions always update the collectors, whether or not a
// server is running.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	packetsInjectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "noc_packets_injected_total",
		Help: "Total packets injected across all routers.",
	})
	packetsArrivedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "noc_packets_arrived_total",
		Help: "Total packets delivered to their destination router.",
	})
	latencyCycles = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "noc_packet_latency_cycles",
		Help:    "Per-packet latency in base cycles, from injection to delivery.",
		Buckets: prometheus.ExponentialBuckets(4, 2, 12),
	})
	dvfsLevelGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "noc_router_dvfs_level",
		Help: "Current DVFS level per router (0=Throttle2 .. 3=Boost).",
	}, []string{"router"})
	scaledEnergyGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "noc_router_scaled_energy_joules",
		Help: "Cumulative DVFS-scaled energy per router.",
	}, []string{"router"})
)

func init() {
	prometheus.MustRegister(packetsInjectedTotal, packetsArrivedTotal, latencyCycles, dvfsLevelGauge, scaledEnergyGauge)
}

// RecordInjection increments the simulation-wide injection counter.
func RecordInjection() { packetsInjectedTotal.Inc() }

// RecordArrival records one completed packet's latency in cycles.
func RecordArrival(cycles int64) {
	packetsArrivedTotal.Inc()
	latencyCycles.Observe(float64(cycles))
}

// SetDVFSLevel updates the reported current DVFS level for a router, keyed
// by its string address (e.g. "(2,3)").
func SetDVFSLevel(router string, level int) {
	dvfsLevelGauge.WithLabelValues(router).Set(float64(level))
}

// SetScaledEnergy updates the reported cumulative scaled energy for a
// router.
func SetScaledEnergy(router string, joules float64) {
	scaledEnergyGauge.WithLabelValues(router).Set(joules)
}

// Server wraps a dedicated /metrics HTTP endpoint, started and stopped
// around one simulation run (spec §6 --metrics-addr is additive, not part
// of spec.md's original option table).
type Server struct {
	httpServer *http.Server
}

// Start launches the metrics server in the background if addr is
// non-empty; a no-op Server is returned otherwise so callers can always
// defer Stop unconditionally.
func Start(addr string) *Server {
	if addr == "" {
		return &Server{}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return &Server{httpServer: srv}
}

// Stop gracefully shuts the metrics server down, if one was started.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
