package vnmo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planeField(t *testing.T) (*Grid, *VelocityField) {
	grid, err := BuildGrid(3, 8)
	require.NoError(t, err)

	width, height := grid.Dims()
	field := &VelocityField{Width: width, Height: height, Values: make([]float64, width*height)}
	for j, tm := range grid.TimeAxis {
		for i, x := range grid.TraceAxis {
			field.Values[grid.Index(j, i)] = 100*x + tm
		}
	}
	return grid, field
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 15.0, Lerp(10, 20, 0.5))
	assert.Equal(t, 10.0, Lerp(10, 20, 0))
	assert.Equal(t, 20.0, Lerp(10, 20, 1))
}

func TestSample(t *testing.T) {
	grid, field := planeField(t)

	cases := []struct {
		trace, time float64
		want        float64
	}{
		{1, 0, 100},
		{3, 8, 308},
		{2.5, 6, 256},
		{1.25, 8, 133},
		{3, 2, 302},
	}
	for _, c := range cases {
		v, ok := field.Sample(grid, c.trace, c.time)
		require.True(t, ok, "%v,%v", c.trace, c.time)
		assert.InDelta(t, c.want, v, 1e-9, "%v,%v", c.trace, c.time)
	}

	nan := math.NaN()
	for _, p := range [][2]float64{{0, 0}, {3.5, 4}, {2, -1}, {2, 9}, {nan, 4}, {2, nan}, {nan, nan}, {math.Inf(1), 4}} {
		_, ok := field.Sample(grid, p[0], p[1])
		assert.False(t, ok, "%v", p)
	}
}

func TestMisfit(t *testing.T) {
	grid, field := planeField(t)

	worst, n := field.Misfit(grid, []ControlPoint{
		{Trace: 1, Time: 0, Velocity: 103},
		{Trace: 2, Time: 4, Velocity: 200},
		{Trace: 40, Time: 4, Velocity: 0},
	})
	assert.Equal(t, 2, n)
	assert.InDelta(t, 4.0, worst, 1e-9)
}
