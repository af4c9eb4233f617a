// Package render draws an interpolated velocity field as a PNG section view.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	vnmo "github.com/flywave/go-vnmo"
)

const (
	Width    = 14 * vg.Inch
	Height   = 8 * vg.Inch
	barWidth = 1.4 * vg.Inch

	paletteSteps  = 100
	contourLevels = 10
	tracePadding  = 50
	traceTickStep = 50
)

var ErrEmptyField = errors.New("render: empty velocity field")

// Scene is everything drawn on one section view.
type Scene struct {
	Line  string
	Grid  *vnmo.Grid
	Field *vnmo.VelocityField
	Picks []vnmo.ControlPoint
}

// fieldGrid adapts a velocity field to plotter.GridXYZ, columns along the
// trace axis and rows along the time axis.
type fieldGrid struct {
	grid     *vnmo.Grid
	field    *vnmo.VelocityField
	min, max float64
}

func (g fieldGrid) Dims() (c, r int)   { return g.field.Width, g.field.Height }
func (g fieldGrid) Z(c, r int) float64 { return g.field.At(r, c) }
func (g fieldGrid) X(c int) float64    { return g.grid.TraceAxis[c] }
func (g fieldGrid) Y(r int) float64    { return g.grid.TimeAxis[r] }
func (g fieldGrid) Min() float64       { return g.min }
func (g fieldGrid) Max() float64       { return g.max }

// barGrid is a single column of evenly spaced values spanning [min, max],
// drawn as the colour bar.
type barGrid struct {
	min, max float64
	steps    int
}

func (b barGrid) Dims() (c, r int)   { return 1, b.steps }
func (b barGrid) Z(_, r int) float64 { return b.Y(r) }
func (b barGrid) X(int) float64      { return 0.5 }
func (b barGrid) Y(r int) float64 {
	step := (b.max - b.min) / float64(b.steps)
	return b.min + step*(float64(r)+0.5)
}

func newFieldGrid(grid *vnmo.Grid, field *vnmo.VelocityField) (fieldGrid, error) {
	if grid == nil || field == nil || len(field.Values) == 0 {
		return fieldGrid{}, ErrEmptyField
	}
	w, h := grid.Dims()
	if field.Width != w || field.Height != h || len(field.Values) != w*h {
		return fieldGrid{}, fmt.Errorf("render: field %dx%d does not match grid %dx%d", field.Width, field.Height, w, h)
	}
	g := fieldGrid{grid: grid, field: field, min: field.Values[0], max: field.Values[0]}
	for _, v := range field.Values {
		if v < g.min {
			g.min = v
		}
		if v > g.max {
			g.max = v
		}
	}
	return g, nil
}

// colorRange widens a flat range so palettes and the colour bar have
// something to span.
func colorRange(min, max float64) (float64, float64) {
	if max > min {
		return min, max
	}
	return min - 1, max + 1
}

// levels returns n values evenly spaced strictly inside (min, max).
func levels(min, max float64, n int) []float64 {
	if !(max > min) || n < 1 {
		return nil
	}
	step := (max - min) / float64(n+1)
	out := make([]float64, n)
	for i := range out {
		out[i] = min + step*float64(i+1)
	}
	return out
}

// traceTicks marks every traceTickStep traces from zero plus the last trace.
func traceTicks(maxTrace float64) plot.ConstantTicks {
	var ticks plot.ConstantTicks
	for x := 0.0; x < maxTrace; x += traceTickStep {
		ticks = append(ticks, plot.Tick{Value: x, Label: fmt.Sprintf("%.0f", x)})
	}
	return append(ticks, plot.Tick{Value: maxTrace, Label: fmt.Sprintf("%.0f", maxTrace)})
}

// Section builds the field plot and its colour bar.
func Section(scene Scene) (*plot.Plot, *plot.Plot, error) {
	g, err := newFieldGrid(scene.Grid, scene.Field)
	if err != nil {
		return nil, nil, err
	}
	lo, hi := colorRange(g.min, g.max)
	cmap := newRainbow(paletteSteps, lo, hi)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("NMO velocity interpolation, line %s", scene.Line)
	p.X.Label.Text = "Trace"
	p.Y.Label.Text = "TWT (ms)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	heat := plotter.NewHeatMap(g, cmap.Palette(paletteSteps))
	heat.Min, heat.Max = lo, hi
	p.Add(heat)

	if lv := levels(g.min, g.max, contourLevels); len(lv) > 0 && g.field.Width > 1 && g.field.Height > 1 {
		c := plotter.NewContour(g, lv, nil)
		c.LineStyles = []draw.LineStyle{{
			Color: color.Gray{Y: 40},
			Width: vg.Points(0.5),
		}}
		p.Add(c)
	}

	if len(scene.Picks) > 0 {
		xys := make(plotter.XYs, len(scene.Picks))
		labels := make([]string, len(scene.Picks))
		for i, pk := range scene.Picks {
			xys[i] = plotter.XY{X: pk.Trace, Y: pk.Time}
			labels[i] = fmt.Sprintf("%.0f", pk.Velocity)
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, nil, err
		}
		sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  cmap.clamped(scene.Picks[i].Velocity),
				Radius: vg.Points(1.5),
				Shape:  draw.CircleGlyph{},
			}
		}

		lb, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, nil, err
		}
		for i := range lb.TextStyle {
			lb.TextStyle[i].XAlign = draw.XCenter
			lb.TextStyle[i].YAlign = draw.YCenter
			lb.TextStyle[i].Font.Size = vg.Points(8)
		}
		p.Add(sc, lb)
	}

	maxTrace := g.grid.TraceAxis[len(g.grid.TraceAxis)-1]
	p.X.Min = -tracePadding
	p.X.Max = maxTrace + tracePadding
	p.X.Tick.Marker = traceTicks(maxTrace)

	bar := plot.New()
	bar.HideX()
	bar.Y.Label.Text = "VNMO (m/s)"
	bar.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	scale := plotter.NewHeatMap(barGrid{min: lo, max: hi, steps: paletteSteps}, cmap.Palette(paletteSteps))
	scale.Min, scale.Max = lo, hi
	bar.Add(scale)

	return p, bar, nil
}

// Render draws the scene onto an image canvas with the colour bar on the
// right.
func Render(scene Scene) (*vgimg.Canvas, error) {
	p, bar, err := Section(scene)
	if err != nil {
		return nil, err
	}

	img := vgimg.New(Width, Height)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, -barWidth, 0, 0))
	bar.Draw(draw.Crop(dc, Width-barWidth, 0, 0, 0))
	return img, nil
}

// WritePNG renders the scene and encodes it as PNG.
func WritePNG(w io.Writer, scene Scene) error {
	img, err := Render(scene)
	if err != nil {
		return err
	}
	_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}
