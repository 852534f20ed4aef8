// Package metrics exposes governor activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	toggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecogov",
		Name:      "power_toggles_total",
		Help:      "Per-process power mode changes issued, by mode and result.",
	}, []string{"mode", "result"})

	sweeps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecogov",
		Name:      "sweeps_total",
		Help:      "Power-state sweeps performed, by action, target and result.",
	}, []string{"action", "target", "result"})

	sweepDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ecogov",
		Name:      "sweep_duration_seconds",
		Help:      "Wall time of power-state sweeps including the process snapshot.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"action", "target"})

	transitions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecogov",
		Name:      "foreground_transitions_total",
		Help:      "Foreground changes acted upon after deduplication.",
	})

	suppressed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecogov",
		Name:      "foreground_throttle_suppressed_total",
		Help:      "Throttles of the previous foreground tree skipped during fullscreen or do-not-disturb.",
	})

	admissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecogov",
		Name:      "admissions_total",
		Help:      "New-process admission decisions.",
	}, []string{"decision"})

	currentForeground = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ecogov",
		Name:      "current_foreground_pid",
		Help:      "Pid of the process tree currently boosted, 0 when none.",
	})
)

func init() {
	registry.MustRegister(toggles, sweeps, sweepDuration, transitions, suppressed, admissions, currentForeground)
}

// Registry returns the Prometheus registry containing all ecogov metrics.
func Registry() *prometheus.Registry {
	return registry
}

// RecordToggle counts one SetPowerMode call.
func RecordToggle(mode string, err error) {
	toggles.WithLabelValues(mode, result(err)).Inc()
}

// RecordSweep counts one sweep and observes its duration.
func RecordSweep(action, target string, started time.Time, err error) {
	sweeps.WithLabelValues(action, target, result(err)).Inc()
	sweepDuration.WithLabelValues(action, target).Observe(time.Since(started).Seconds())
}

// RecordTransition counts an accepted foreground transition.
func RecordTransition(pid uint32) {
	transitions.Inc()
	currentForeground.Set(float64(pid))
}

// RecordSuppressed counts a throttle skipped because of fullscreen state.
func RecordSuppressed() {
	suppressed.Inc()
}

// RecordAdmission counts one admission decision such as "throttled" or "bypassed".
func RecordAdmission(decision string) {
	admissions.WithLabelValues(decision).Inc()
}

// Serve exposes the registry on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
