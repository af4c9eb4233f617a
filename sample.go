package vnmo

import (
	"math"
	"sort"
)

func Lerp(value1, value2, amount float64) float64 { return value1 + (value2-value1)*amount }

// Sample returns the field at (trace, time) by bilinear interpolation
// between the four surrounding nodes of grid. ok is false outside the grid.
func (f *VelocityField) Sample(grid *Grid, trace, time float64) (v float64, ok bool) {
	if !isFinite(trace) || !isFinite(time) {
		return 0, false
	}
	rect := grid.GetRect()
	if trace < rect.Min[0] || trace > rect.Max[0] || time < rect.Min[1] || time > rect.Max[1] {
		return 0, false
	}

	c0, x := locate(grid.TraceAxis, trace)
	r0, y := locate(grid.TimeAxis, time)
	c1, r1 := min(c0+1, f.Width-1), min(r0+1, f.Height-1)

	top := Lerp(f.At(r0, c0), f.At(r0, c1), x)
	bottom := Lerp(f.At(r1, c0), f.At(r1, c1), x)
	return Lerp(top, bottom, y), true
}

// locate returns the node at or below v on a sorted axis and the fractional
// distance to the next node.
func locate(axis []float64, v float64) (int, float64) {
	i := sort.SearchFloat64s(axis, v)
	if i < len(axis) && axis[i] == v {
		return i, 0
	}
	i--
	return i, (v - axis[i]) / (axis[i+1] - axis[i])
}

// Misfit returns the largest absolute difference between a pick and the
// field sampled at its position, over picks inside the grid, and how many
// picks were compared.
func (f *VelocityField) Misfit(grid *Grid, points []ControlPoint) (worst float64, compared int) {
	for _, p := range points {
		v, ok := f.Sample(grid, p.Trace, p.Time)
		if !ok {
			continue
		}
		compared++
		if d := math.Abs(v - p.Velocity); d > worst {
			worst = d
		}
	}
	return worst, compared
}
