package vnmo

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// VelocityField is a dense velocity grid stored row-major: row j is time
// sample TimeAxis[j], column i is trace TraceAxis[i].
type VelocityField struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
}

func (f *VelocityField) Dims() (rows, cols int) {
	return f.Height, f.Width
}

func (f *VelocityField) At(row, column int) float64 {
	return f.Values[row*f.Width+column]
}

// Row returns a view of one time sample across all traces.
func (f *VelocityField) Row(row int) []float64 {
	return f.Values[row*f.Width : (row+1)*f.Width]
}

// Assemble fits the picks once and evaluates the fit over every node of grid
// in a single batch. It fails with ErrDegenerateFit rather than return a
// field holding NaN or Inf.
func Assemble(points []ControlPoint, grid *Grid, opts Options) (*VelocityField, Stats, error) {
	if grid == nil {
		return nil, Stats{}, fmt.Errorf("%w: no grid", ErrInvalidBounds)
	}
	width, height := grid.Dims()
	if width < 1 || height < 1 {
		return nil, Stats{}, fmt.Errorf("%w: empty grid %dx%d", ErrInvalidBounds, width, height)
	}

	model, err := New(points).Train(opts)
	if err != nil {
		return nil, Stats{}, err
	}

	coords := grid.Coordinates()
	values := model.Evaluate(coords, make([]float64, len(coords)))

	if bad := countNonFinite(values); bad > 0 {
		return nil, Stats{}, fmt.Errorf("%w: %d of %d cells", ErrDegenerateFit, bad, len(values))
	}

	field := &VelocityField{Width: width, Height: height, Values: values}

	hull := NewConvex(points)
	stats := Stats{
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Cells: len(values),
	}
	for i := range coords {
		if !hull.InHull(coords[i]) {
			stats.Extrapolated++
		}
	}

	return field, stats, nil
}
