// Package metrics exposes optional Prometheus counters for the fetch loop.
// The collector is nil-safe so the board can run with metrics disabled.
package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	fetchAttempts *prometheus.CounterVec // kind: stop|weather
	fetchFailures *prometheus.CounterVec
	fetchDuration prometheus.Histogram

	departures  prometheus.Gauge
	framesDrawn prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		reg: reg,
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "busboard_fetch_attempts_total",
			Help: "Upstream fetch attempts by kind.",
		}, []string{"kind"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "busboard_fetch_failures_total",
			Help: "Upstream fetches that degraded to an empty result.",
		}, []string{"kind"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "busboard_fetch_duration_seconds",
			Help:    "Duration of one full fetch cycle (all stops plus weather).",
			Buckets: prometheus.DefBuckets,
		}),
		departures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "busboard_departures_shown",
			Help: "Total departures currently cached across all stops.",
		}),
		framesDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "busboard_frames_total",
			Help: "Frames presented since start.",
		}),
	}
	reg.MustRegister(c.fetchAttempts, c.fetchFailures, c.fetchDuration, c.departures, c.framesDrawn)
	return c
}

// Serve starts a /metrics server on addr and returns it for shutdown.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}

// FetchAttempt records one upstream fetch; failed marks a degraded result.
func (c *Collector) FetchAttempt(kind string, failed bool) {
	if c == nil {
		return
	}
	c.fetchAttempts.WithLabelValues(kind).Inc()
	if failed {
		c.fetchFailures.WithLabelValues(kind).Inc()
	}
}

// FetchCycle records the duration of one full fetch pass.
func (c *Collector) FetchCycle(d time.Duration) {
	if c == nil {
		return
	}
	c.fetchDuration.Observe(d.Seconds())
}

// SetDepartures records the cached departure total.
func (c *Collector) SetDepartures(n int) {
	if c == nil {
		return
	}
	c.departures.Set(float64(n))
}

// FramePresented counts one presented frame.
func (c *Collector) FramePresented() {
	if c == nil {
		return
	}
	c.framesDrawn.Inc()
}
