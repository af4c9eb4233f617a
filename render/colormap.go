package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

// rainbow is a stepped blue-to-red colour map over [min, max] shared by the
// filled field, the pick markers and the colour bar.
type rainbow struct {
	min, max float64
	colors   []color.Color
}

func newRainbow(steps int, min, max float64) *rainbow {
	r := &rainbow{min: min, max: max}
	r.colors = r.Palette(steps).Colors()
	return r
}

func (r *rainbow) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v > r.max:
		return nil, palette.ErrOverflow
	case v < r.min:
		return nil, palette.ErrUnderflow
	}
	if r.max == r.min {
		return r.colors[0], nil
	}
	i := int((v - r.min) / (r.max - r.min) * float64(len(r.colors)))
	if i >= len(r.colors) {
		i = len(r.colors) - 1
	}
	return r.colors[i], nil
}

// clamped returns the colour of v after pulling it into [min, max].
func (r *rainbow) clamped(v float64) color.Color {
	c, err := r.At(math.Max(r.min, math.Min(r.max, v)))
	if err != nil {
		return color.Black
	}
	return c
}

func (r *rainbow) Palette(colors int) palette.Palette {
	return palette.Rainbow(colors, palette.Blue, palette.Red, 1, 1, 1)
}
