// Package metrics records provisioning run metrics in a private Prometheus
// registry and writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qserv_cloud"

// Floating IP sources.
const (
	SourceReused    = "reused"
	SourceAllocated = "allocated"
)

// Recorder holds the metrics of a single run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	phaseDuration    *prometheus.HistogramVec
	instancesCreated *prometheus.CounterVec
	floatingIPs      *prometheus.CounterVec
	runSuccess       prometheus.Gauge
	runExitCode      prometheus.Gauge
	runTimestamp     prometheus.Gauge
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "phase",
				Name:      "duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~27min
			},
			[]string{"phase", "result"},
		),
		instancesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "instances",
				Name:      "created_total",
				Help:      "Number of instances created by role",
			},
			[]string{"role"},
		),
		floatingIPs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "floating_ip",
				Name:      "acquired_total",
				Help:      "Number of floating IPs acquired by source (reused or allocated)",
			},
			[]string{"source"},
		),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "success",
			Help:      "Whether the last provisioning run succeeded (1) or not (0)",
		}),
		runExitCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "exit_code",
			Help:      "Exit code of the last provisioning run",
		}),
		runTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "last_timestamp_seconds",
			Help:      "Unix time the last provisioning run finished",
		}),
	}

	r.registry.MustRegister(
		r.phaseDuration,
		r.instancesCreated,
		r.floatingIPs,
		r.runSuccess,
		r.runExitCode,
		r.runTimestamp,
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObservePhase records the duration of a phase.
func (r *Recorder) ObservePhase(phase string, d time.Duration, err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	r.phaseDuration.WithLabelValues(phase, result).Observe(d.Seconds())
}

// InstanceCreated counts a created instance.
func (r *Recorder) InstanceCreated(role string) {
	if r == nil {
		return
	}
	r.instancesCreated.WithLabelValues(role).Inc()
}

// FloatingIPAcquired counts a floating IP by source.
func (r *Recorder) FloatingIPAcquired(source string) {
	if r == nil {
		return
	}
	r.floatingIPs.WithLabelValues(source).Inc()
}

// RunFinished records the outcome of the run.
func (r *Recorder) RunFinished(exitCode int, at time.Time) {
	if r == nil {
		return
	}
	if exitCode == 0 {
		r.runSuccess.Set(1)
	} else {
		r.runSuccess.Set(0)
	}
	r.runExitCode.Set(float64(exitCode))
	r.runTimestamp.Set(float64(at.Unix()))
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
