// Package export serializes velocity fields as the delimited text table and
// the raw float32 volume consumed by downstream processing.
package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	vnmo "github.com/flywave/go-vnmo"
)

const (
	TextHeader = "Trace TWT VNMO"
	suffix     = "_interp_2D"
)

var ErrShape = errors.New("export: field shape does not match grid")

// Paths names the artifacts written for one input file.
type Paths struct {
	Text   string
	Binary string
	Plot   string
}

// OutputPaths derives artifact names from the input base name, placed in dir
// (the working directory when dir is empty).
func OutputPaths(input, dir string) Paths {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + suffix
	return Paths{
		Text:   filepath.Join(dir, base+".dat"),
		Binary: filepath.Join(dir, base+".bin"),
		Plot:   filepath.Join(dir, base+".png"),
	}
}

// LineName is the seismic line identifier, the part of the file name before
// the first underscore.
func LineName(input string) string {
	base := filepath.Base(input)
	return strings.SplitN(base, "_", 2)[0]
}

func checkShape(grid *vnmo.Grid, field *vnmo.VelocityField) error {
	w, h := grid.Dims()
	if field.Width != w || field.Height != h || len(field.Values) != w*h {
		return fmt.Errorf("%w: grid %dx%d, field %dx%d with %d values", ErrShape, w, h, field.Width, field.Height, len(field.Values))
	}
	return nil
}

// WriteText writes one "trace time velocity" row per cell in the field's
// row-major order, below the TextHeader line.
func WriteText(w io.Writer, grid *vnmo.Grid, field *vnmo.VelocityField) error {
	if err := checkShape(grid, field); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, TextHeader); err != nil {
		return err
	}
	for j, t := range grid.TimeAxis {
		row := field.Row(j)
		for i, x := range grid.TraceAxis {
			if _, err := fmt.Fprintf(bw, "%d %d %.2f\n", int(x), int(t), row[i]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteBinary writes the field values as headerless little-endian float32.
func WriteBinary(w io.Writer, field *vnmo.VelocityField) error {
	buf := make([]float32, len(field.Values))
	for i, v := range field.Values {
		buf[i] = float32(v)
	}
	return binary.Write(w, binary.LittleEndian, buf)
}

// ReadBinary reads a field written by WriteBinary. The shape is not stored in
// the file and must be supplied.
func ReadBinary(r io.Reader, width, height int) (*vnmo.VelocityField, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", vnmo.ErrInvalidBounds, width, height)
	}
	buf := make([]float32, width*height)
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		return nil, err
	}
	values := make([]float64, len(buf))
	for i, v := range buf {
		values[i] = float64(v)
	}
	return &vnmo.VelocityField{Width: width, Height: height, Values: values}, nil
}

// WriteFileAtomic writes through a temporary file in the destination
// directory and renames it into place, so readers never see a partial file.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = write(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
