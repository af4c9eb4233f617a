package vnmo

import (
	"math"
	"testing"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGridAxes(t *testing.T) {
	cases := []struct {
		maxTrace, maxTWT int
		timeLen          int
		lastTime         float64
	}{
		{1, 0, 1, 0},
		{1, 3, 1, 0},
		{50, 100, 26, 100},
		{10, 10, 3, 8},
		{7, 4, 2, 4},
		{1200, 4002, 1001, 4000},
	}
	for _, c := range cases {
		g, err := BuildGrid(c.maxTrace, c.maxTWT)
		require.NoError(t, err)

		assert.Len(t, g.TraceAxis, c.maxTrace)
		assert.Equal(t, 1.0, g.TraceAxis[0])
		assert.Equal(t, float64(c.maxTrace), g.TraceAxis[len(g.TraceAxis)-1])
		for i := range g.TraceAxis {
			assert.InDelta(t, float64(i+1), g.TraceAxis[i], 1e-9)
		}

		assert.Len(t, g.TimeAxis, c.timeLen)
		assert.Equal(t, 0.0, g.TimeAxis[0])
		assert.Equal(t, c.lastTime, g.TimeAxis[len(g.TimeAxis)-1])
		for i := 1; i < len(g.TimeAxis); i++ {
			assert.Equal(t, float64(TimeStep), g.TimeAxis[i]-g.TimeAxis[i-1])
		}

		w, h := g.Dims()
		assert.Equal(t, c.maxTrace, w)
		assert.Equal(t, c.timeLen, h)
		assert.Equal(t, w*h, g.Count())
	}
}

func TestBuildGridInvalidBounds(t *testing.T) {
	_, err := BuildGrid(0, 100)
	assert.ErrorIs(t, err, ErrInvalidBounds)

	_, err = BuildGrid(-3, 100)
	assert.ErrorIs(t, err, ErrInvalidBounds)

	_, err = BuildGrid(10, -1)
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

func TestBuildGridTooLarge(t *testing.T) {
	for _, c := range [][2]int{
		{1, math.MaxInt},
		{math.MaxInt, 0},
		{8192, 8192 * TimeStep},
	} {
		g, err := BuildGrid(c[0], c[1])
		assert.ErrorIs(t, err, ErrInvalidBounds, "%v", c)
		assert.Nil(t, g)
	}

	g, err := BuildGrid(4096, (MaxCells/4096-1)*TimeStep)
	require.NoError(t, err)
	w, h := g.Dims()
	assert.Equal(t, MaxCells, w*h)
}

func TestGridCoordinatesOrder(t *testing.T) {
	a := assert.New(t)

	g, err := BuildGrid(3, 8)
	require.NoError(t, err)

	coords := g.Coordinates()
	a.Equal(Coordinates{
		{1, 0}, {2, 0}, {3, 0},
		{1, 4}, {2, 4}, {3, 4},
		{1, 8}, {2, 8}, {3, 8},
	}, coords)
	a.True(g.IsSorted())
	a.Equal(vec2d.T{2, 4}, coords[g.Index(1, 1)])
	a.Equal(vec2d.Rect{Min: vec2d.T{1, 0}, Max: vec2d.T{3, 8}}, g.GetRect())

	// built once
	a.Same(&coords[0], &g.Coordinates()[0])
}
