// Package metrics exposes interpolation run statistics as Prometheus
// collectors, written to a node_exporter textfile for batch runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	vnmo "github.com/flywave/go-vnmo"
)

// RunCollector bundles the metrics recorded for each interpolation run.
type RunCollector struct {
	gatherer prometheus.Gatherer

	Runs        *prometheus.CounterVec
	FitDuration prometheus.Histogram

	Picks        prometheus.Gauge
	Cells        prometheus.Gauge
	Extrapolated prometheus.Gauge
	VelocityMin  prometheus.Gauge
	VelocityMax  prometheus.Gauge
	PickMisfit   prometheus.Gauge
}

// NewRunCollector registers run metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewRunCollector(reg prometheus.Registerer) (*RunCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vnmo_runs_total",
		Help: "Interpolation runs, labeled by outcome.",
	}, []string{"status"}), "vnmo_runs_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vnmo_fit_duration_seconds",
		Help:    "Time spent fitting and evaluating the interpolant.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}), "vnmo_fit_duration_seconds")
	if err != nil {
		return nil, err
	}

	c := &RunCollector{gatherer: gatherer, Runs: runs, FitDuration: duration}

	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&c.Picks, "vnmo_control_points", "Control points used in the last fit."},
		{&c.Cells, "vnmo_grid_cells", "Cells in the last output grid."},
		{&c.Extrapolated, "vnmo_extrapolated_cells", "Cells of the last grid outside the convex hull of the picks."},
		{&c.VelocityMin, "vnmo_velocity_min", "Minimum interpolated velocity of the last run."},
		{&c.VelocityMax, "vnmo_velocity_max", "Maximum interpolated velocity of the last run."},
		{&c.PickMisfit, "vnmo_pick_misfit_max", "Largest absolute difference between a pick and the field at its position."},
	}
	for _, g := range gauges {
		gauge, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: g.name,
			Help: g.help,
		}), g.name)
		if err != nil {
			return nil, err
		}
		*g.dst = gauge
	}

	return c, nil
}

// ObserveFit records a successful fit and the statistics of its field.
func (c *RunCollector) ObserveFit(picks int, stats vnmo.Stats, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.FitDuration.Observe(elapsed.Seconds())
	c.Picks.Set(float64(picks))
	c.Cells.Set(float64(stats.Cells))
	c.Extrapolated.Set(float64(stats.Extrapolated))
	c.VelocityMin.Set(stats.Min)
	c.VelocityMax.Set(stats.Max)
}

// ObserveMisfit records the worst pick misfit of the last field.
func (c *RunCollector) ObserveMisfit(worst float64) {
	if c == nil {
		return
	}
	c.PickMisfit.Set(worst)
}

// ObserveRun counts a finished run. A nil error counts as success.
func (c *RunCollector) ObserveRun(err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.Runs.WithLabelValues(status).Inc()
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format.
func (c *RunCollector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.gatherer)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
