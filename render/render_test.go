package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg/vgimg"

	vnmo "github.com/flywave/go-vnmo"
)

var cornerPicks = []vnmo.ControlPoint{
	{Trace: 1, Time: 0, Velocity: 1500},
	{Trace: 1, Time: 100, Velocity: 1800},
	{Trace: 50, Time: 0, Velocity: 1600},
	{Trace: 50, Time: 100, Velocity: 2000},
}

func cornerScene(t *testing.T) Scene {
	grid, err := vnmo.BuildGrid(50, 100)
	require.NoError(t, err)
	field, _, err := vnmo.Assemble(cornerPicks, grid, vnmo.Options{})
	require.NoError(t, err)
	return Scene{Line: "L101", Grid: grid, Field: field, Picks: cornerPicks}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, cornerScene(t)))

	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 14*vgimg.DefaultDPI, cfg.Width)
	assert.Equal(t, 8*vgimg.DefaultDPI, cfg.Height)
}

func TestSection(t *testing.T) {
	p, bar, err := Section(cornerScene(t))
	require.NoError(t, err)

	assert.Equal(t, "NMO velocity interpolation, line L101", p.Title.Text)
	assert.Equal(t, -50.0, p.X.Min)
	assert.Equal(t, 100.0, p.X.Max)
	assert.IsType(t, plot.InvertedScale{}, p.Y.Scale)
	assert.IsType(t, plot.InvertedScale{}, bar.Y.Scale)
	assert.Equal(t, "VNMO (m/s)", bar.Y.Label.Text)
}

func TestSectionFlatField(t *testing.T) {
	grid, err := vnmo.BuildGrid(3, 8)
	require.NoError(t, err)
	field := &vnmo.VelocityField{Width: 3, Height: 3, Values: []float64{1500, 1500, 1500, 1500, 1500, 1500, 1500, 1500, 1500}}

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, Scene{Line: "flat", Grid: grid, Field: field}))
	assert.NotZero(t, buf.Len())
}

func TestSectionErrors(t *testing.T) {
	_, _, err := Section(Scene{})
	assert.ErrorIs(t, err, ErrEmptyField)

	grid, err := vnmo.BuildGrid(3, 8)
	require.NoError(t, err)
	_, _, err = Section(Scene{Grid: grid, Field: &vnmo.VelocityField{Width: 2, Height: 3, Values: make([]float64, 6)}})
	assert.Error(t, err)
}

func TestTraceTicks(t *testing.T) {
	ticks := traceTicks(120)
	var values []float64
	for _, tk := range ticks {
		values = append(values, tk.Value)
	}
	assert.Equal(t, []float64{0, 50, 100, 120}, values)
	assert.Equal(t, "120", ticks[len(ticks)-1].Label)
}

func TestLevels(t *testing.T) {
	assert.Equal(t, []float64{1250, 1500, 1750}, levels(1000, 2000, 3))
	assert.Nil(t, levels(1500, 1500, 10))
}

func TestRainbow(t *testing.T) {
	r := newRainbow(paletteSteps, 1000, 2000)
	require.Len(t, r.colors, paletteSteps)

	lo, err := r.At(1000)
	require.NoError(t, err)
	assert.Equal(t, r.colors[0], lo)

	hi, err := r.At(2000)
	require.NoError(t, err)
	assert.Equal(t, r.colors[paletteSteps-1], hi)

	_, err = r.At(2001)
	assert.ErrorIs(t, err, palette.ErrOverflow)
	_, err = r.At(999)
	assert.ErrorIs(t, err, palette.ErrUnderflow)

	assert.Equal(t, hi, r.clamped(5000))
	assert.Equal(t, lo, r.clamped(0))
}
