// Package config reads run parameters from a gcfg (ini style) file:
//
//	[input]
//	file = L101_vels.txt
//	maxtrace = 900
//	maxtwt = 4000
//
//	[interpolation]
//	kernel = linear
//	smoothing = 10
//	degree = 1
//	mergeduplicates = true
//	mergetrace = 1
//	mergetwt = 4
//
//	[output]
//	dir = out
//	binary = true
//	plot = true
//	metricsfile = /var/lib/node_exporter/vnmo.prom
package config

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/gcfg.v1"

	vnmo "github.com/flywave/go-vnmo"
)

type InputConfig struct {
	File     string
	MaxTrace int
	MaxTWT   int
}

func (con *InputConfig) CheckInit() error {
	if strings.TrimSpace(con.File) == "" {
		return fmt.Errorf("need to specify an input file in [input]")
	}
	if con.MaxTrace < 1 {
		return fmt.Errorf("%w: MaxTrace in [input] must be at least 1, but is %d", vnmo.ErrInvalidBounds, con.MaxTrace)
	}
	if con.MaxTWT < 0 {
		return fmt.Errorf("%w: MaxTWT in [input] must be non-negative, but is %d", vnmo.ErrInvalidBounds, con.MaxTWT)
	}
	return nil
}

type InterpolationConfig struct {
	Kernel    string
	Smoothing float64
	Degree    int

	MergeDuplicates bool
	MergeTrace      float64
	MergeTWT        float64
}

func (con *InterpolationConfig) CheckInit() error {
	con.Kernel = strings.ToLower(strings.TrimSpace(con.Kernel))
	if _, err := vnmo.ParseKernel(con.Kernel); err != nil {
		return fmt.Errorf("kernel in [interpolation]: %w", err)
	}
	if con.Smoothing < 0 || math.IsNaN(con.Smoothing) || math.IsInf(con.Smoothing, 0) {
		return fmt.Errorf("smoothing in [interpolation] must be a non-negative number, but is %g", con.Smoothing)
	}
	if con.Degree != 0 && con.Degree != 1 {
		return fmt.Errorf("degree in [interpolation] must be 0 or 1, but is %d", con.Degree)
	}
	if con.MergeTrace < 0 || con.MergeTWT < 0 {
		return fmt.Errorf("merge cell in [interpolation] must be non-negative, but is %g x %g", con.MergeTrace, con.MergeTWT)
	}
	return nil
}

type OutputConfig struct {
	Dir         string
	Binary      bool
	Plot        bool
	MetricsFile string
}

// Run is the full parameter set for one interpolation run.
type Run struct {
	Input         InputConfig
	Interpolation InterpolationConfig
	Output        OutputConfig
}

// Default returns the parameters used when neither a file nor flags set
// them.
func Default() *Run {
	return &Run{
		Interpolation: InterpolationConfig{
			Kernel:     string(vnmo.DefaultKernel),
			Smoothing:  vnmo.DefaultSmoothing,
			Degree:     vnmo.DefaultDegree,
			MergeTrace: 1,
			MergeTWT:   vnmo.TimeStep,
		},
		Output: OutputConfig{
			Binary: true,
			Plot:   true,
		},
	}
}

// Load reads fname over the defaults. Keys absent from the file keep their
// default values. The result is not validated; call CheckInit once flags
// have been applied.
func Load(fname string) (*Run, error) {
	run := Default()
	if err := gcfg.ReadFileInto(run, fname); err != nil {
		return nil, err
	}
	return run, nil
}

// Parse is Load for configuration held in memory.
func Parse(str string) (*Run, error) {
	run := Default()
	if err := gcfg.ReadStringInto(run, str); err != nil {
		return nil, err
	}
	return run, nil
}

// CheckInit validates every section.
func (run *Run) CheckInit() error {
	if err := run.Input.CheckInit(); err != nil {
		return err
	}
	return run.Interpolation.CheckInit()
}

// Options converts the interpolation section into fit options.
func (run *Run) Options() vnmo.Options {
	kernel := vnmo.KernelType(run.Interpolation.Kernel)
	smoothing := run.Interpolation.Smoothing
	degree := run.Interpolation.Degree
	return vnmo.Options{
		Kernel:    &kernel,
		Smoothing: &smoothing,
		Degree:    &degree,
	}
}

// MergeCell is the trace/time cell used to merge duplicate picks, or false
// when merging is off.
func (run *Run) MergeCell() (trace, twt float64, ok bool) {
	if !run.Interpolation.MergeDuplicates {
		return 0, 0, false
	}
	return run.Interpolation.MergeTrace, run.Interpolation.MergeTWT, true
}
