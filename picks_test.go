package vnmo

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPicks(t *testing.T) {
	in := `Trace TWT VNMO
1 0 1500
1   100	1800

# edge of the line
50 0 1600.5 # picked twice
50 100 2000
`
	points, err := ReadPicks(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []ControlPoint{
		{Trace: 1, Time: 0, Velocity: 1500},
		{Trace: 1, Time: 100, Velocity: 1800},
		{Trace: 50, Time: 0, Velocity: 1600.5},
		{Trace: 50, Time: 100, Velocity: 2000},
	}, points)

	traces, times, velocities := ControlPoints(points).Columns()
	assert.Equal(t, []float64{1, 1, 50, 50}, traces)
	assert.Equal(t, []float64{0, 100, 0, 100}, times)
	assert.Equal(t, []float64{1500, 1800, 1600.5, 2000}, velocities)
}

func TestReadPicksHeaderOnly(t *testing.T) {
	points, err := ReadPicks(strings.NewReader("Trace TWT VNMO\n"))
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestReadPicksMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"text velocity":   "Trace TWT VNMO\n1 0 1500\n2 40 fast\n",
		"missing column":  "Trace TWT VNMO\n1 0\n",
		"extra column":    "Trace TWT VNMO\n1 0 1500 7\n",
		"nan":             "Trace TWT VNMO\n1 0 NaN\n",
		"zero velocity":   "Trace TWT VNMO\n1 0 0\n",
		"negative time":   "Trace TWT VNMO\n1 -4 1500\n",
		"trace below one": "Trace TWT VNMO\n0 0 1500\n",
		"nan trace":       "Trace TWT VNMO\nNaN 0 1500\n",
		"nan time":        "Trace TWT VNMO\n1 NaN 1500\n",
		"inf velocity":    "Trace TWT VNMO\n1 0 +Inf\n",
	}
	for name, in := range cases {
		_, err := ReadPicks(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrMalformedInput, name)
	}

	_, err := ReadPicks(strings.NewReader("Trace TWT VNMO\n1 0 1500\n2 40 fast\n"))
	assert.Contains(t, err.Error(), "line 3")
}

func TestFromColumnsLengthMismatch(t *testing.T) {
	_, err := FromColumns([]float64{1, 2}, []float64{0, 4}, []float64{1500})
	assert.ErrorIs(t, err, ErrMalformedInput)

	points, err := FromColumns([]float64{1, 2}, []float64{0, 4}, []float64{1500, 1510})
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestFromColumnsRejectsNonFinite(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		trace, time, velocity float64
	}{
		{nan, 0, 1500},
		{1, nan, 1500},
		{nan, nan, 1500},
		{math.Inf(1), 0, 1500},
		{1, math.Inf(1), 1500},
		{1, 0, math.Inf(1)},
	}
	for _, c := range cases {
		_, err := FromColumns([]float64{c.trace}, []float64{c.time}, []float64{c.velocity})
		assert.ErrorIs(t, err, ErrMalformedInput, "%v", c)
	}
}

func TestLoadPicks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "L101_vels.txt")
	require.NoError(t, os.WriteFile(path, []byte("Trace TWT VNMO\n1 0 1500\n"), 0o644))

	points, err := LoadPicks(path)
	require.NoError(t, err)
	assert.Equal(t, []ControlPoint{{Trace: 1, Time: 0, Velocity: 1500}}, points)

	_, err = LoadPicks(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
