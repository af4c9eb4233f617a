package vnmo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const commentChar = "#"

// ReadPicks parses a velocity analysis table: one header line, then rows of
// "trace time velocity" separated by whitespace. Blank lines and text after
// '#' are ignored.
func ReadPicks(r io.Reader) ([]ControlPoint, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing header line", ErrMalformedInput)
	}

	var traces, times, velocities []float64
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.Index(text, commentChar); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected 3 columns, got %d", ErrMalformedInput, line, len(fields))
		}

		var row [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil || !isFinite(v) {
				return nil, fmt.Errorf("%w: line %d: column %d: %q is not a number", ErrMalformedInput, line, i+1, f)
			}
			row[i] = v
		}
		traces = append(traces, row[0])
		times = append(times, row[1])
		velocities = append(velocities, row[2])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return FromColumns(traces, times, velocities)
}

func LoadPicks(path string) ([]ControlPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	points, err := ReadPicks(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// FromColumns zips three parallel columns into picks. Index i of each column
// must describe the same pick.
func FromColumns(traces, times, velocities []float64) ([]ControlPoint, error) {
	if len(traces) != len(times) || len(times) != len(velocities) {
		return nil, fmt.Errorf("%w: column lengths differ (trace %d, time %d, velocity %d)",
			ErrMalformedInput, len(traces), len(times), len(velocities))
	}

	points := make([]ControlPoint, len(traces))
	for i := range traces {
		points[i] = ControlPoint{Trace: traces[i], Time: times[i], Velocity: velocities[i]}
		if err := points[i].Validate(); err != nil {
			return nil, fmt.Errorf("pick %d: %w", i, err)
		}
	}
	return points, nil
}

func (p ControlPoint) Validate() error {
	switch {
	case !isFinite(p.Trace) || p.Trace < 1:
		return fmt.Errorf("%w: trace %g is not a trace number", ErrMalformedInput, p.Trace)
	case !isFinite(p.Time) || p.Time < 0:
		return fmt.Errorf("%w: time %g is not a valid TWT", ErrMalformedInput, p.Time)
	case !isFinite(p.Velocity) || p.Velocity <= 0:
		return fmt.Errorf("%w: velocity %g is not positive", ErrMalformedInput, p.Velocity)
	}
	return nil
}
