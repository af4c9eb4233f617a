package vnmo

import (
	"fmt"
	"sort"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// TimeStep is the two-way-time sample interval of the output grid, in ms.
const TimeStep = 4

// MaxCells is the largest number of nodes BuildGrid accepts.
const MaxCells = 1 << 26

// Coordinates are (trace, time) query points.
type Coordinates []vec2d.T

func (s Coordinates) Len() int {
	return len(s)
}

func (s Coordinates) Less(i, j int) bool {
	if s[i][1] == s[j][1] {
		return s[i][0] < s[j][0]
	} else {
		return s[i][1] < s[j][1]
	}
}

func (s Coordinates) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

type Grid struct {
	TraceAxis []float64
	TimeAxis  []float64

	coords Coordinates
}

// BuildGrid returns the output grid for a line of maxTrace traces recorded to
// maxTWT ms. The trace axis runs 1..maxTrace in unit steps and the time axis
// 0, 4, 8, ... without forcing maxTWT itself onto the axis.
func BuildGrid(maxTrace, maxTWT int) (*Grid, error) {
	if maxTrace < 1 {
		return nil, fmt.Errorf("%w: max trace must be at least 1, got %d", ErrInvalidBounds, maxTrace)
	}
	if maxTWT < 0 {
		return nil, fmt.Errorf("%w: max TWT must not be negative, got %d", ErrInvalidBounds, maxTWT)
	}

	samples := maxTWT/TimeStep + 1
	if samples > MaxCells/maxTrace {
		return nil, fmt.Errorf("%w: %d traces by %d samples exceeds %d cells", ErrInvalidBounds, maxTrace, samples, MaxCells)
	}

	times := make([]float64, samples)
	for j := range times {
		times[j] = float64(j * TimeStep)
	}

	return &Grid{
		TraceAxis: linspace(1, float64(maxTrace), maxTrace),
		TimeAxis:  times,
	}, nil
}

func linspace(start, stop float64, n int) []float64 {
	ret := make([]float64, n)
	if n == 1 {
		ret[0] = start
		return ret
	}
	step := (stop - start) / float64(n-1)
	for i := range ret {
		ret[i] = start + float64(i)*step
	}
	ret[n-1] = stop
	return ret
}

// Dims returns the number of columns (traces) and rows (time samples).
func (g *Grid) Dims() (width, height int) {
	return len(g.TraceAxis), len(g.TimeAxis)
}

func (g *Grid) Count() int {
	w, h := g.Dims()
	return w * h
}

// Coordinates returns every grid node, time-major and trace-minor. The slice
// is built on first use and shared afterwards; callers must not modify it.
func (g *Grid) Coordinates() Coordinates {
	if g.coords == nil {
		coords := make(Coordinates, 0, g.Count())
		for _, t := range g.TimeAxis {
			for _, x := range g.TraceAxis {
				coords = append(coords, vec2d.T{x, t})
			}
		}
		g.coords = coords
	}
	return g.coords
}

func (g *Grid) GetRect() vec2d.Rect {
	w, h := g.Dims()
	return vec2d.Rect{
		Min: vec2d.T{g.TraceAxis[0], g.TimeAxis[0]},
		Max: vec2d.T{g.TraceAxis[w-1], g.TimeAxis[h-1]},
	}
}

// Index returns the flat offset of the node at (row, column).
func (g *Grid) Index(row, column int) int {
	return row*len(g.TraceAxis) + column
}

func (g *Grid) IsSorted() bool {
	return sort.IsSorted(g.Coordinates())
}
