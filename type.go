package vnmo

import (
	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
)

type KernelType string

const (
	Linear KernelType = "linear"
)

// ControlPoint is a single velocity pick.
type ControlPoint struct {
	Trace    float64 `json:"trace"`
	Time     float64 `json:"twt"`
	Velocity float64 `json:"vnmo"`
}

func (p ControlPoint) Position() vec2d.T {
	return vec2d.T{p.Trace, p.Time}
}

type ControlPoints []ControlPoint

func (t ControlPoints) Len() int {
	return len(t)
}

func (t ControlPoints) Less(i, j int) bool {
	if t[i].Time == t[j].Time {
		return t[i].Trace < t[j].Trace
	}
	return t[i].Time < t[j].Time
}

func (t ControlPoints) Swap(i, j int) {
	t[i], t[j] = t[j], t[i]
}

// Positions packs the picks as (trace, time, velocity) vectors.
func (t ControlPoints) Positions() []vec3d.T {
	ret := make([]vec3d.T, len(t))
	for i, p := range t {
		ret[i] = vec3d.T{p.Trace, p.Time, p.Velocity}
	}
	return ret
}

// Columns splits the picks back into the three parallel columns of the input
// table.
func (t ControlPoints) Columns() (traces, times, velocities []float64) {
	traces = make([]float64, len(t))
	times = make([]float64, len(t))
	velocities = make([]float64, len(t))
	for i, p := range t {
		traces[i], times[i], velocities[i] = p.Trace, p.Time, p.Velocity
	}
	return traces, times, velocities
}

type Stats struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Cells        int     `json:"cells"`
	Extrapolated int     `json:"extrapolated"`
}

func (s Stats) GetRange() float64 {
	return s.Max - s.Min
}
