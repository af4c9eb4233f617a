// Package pipeline runs one interpolation from a pick file to the written
// artifacts.
package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	vec2d "github.com/flywave/go3d/float64/vec2"

	vnmo "github.com/flywave/go-vnmo"
	"github.com/flywave/go-vnmo/config"
	"github.com/flywave/go-vnmo/export"
	"github.com/flywave/go-vnmo/internal/logging"
	"github.com/flywave/go-vnmo/internal/metrics"
	"github.com/flywave/go-vnmo/render"
)

// Result describes a finished run.
type Result struct {
	Paths  export.Paths
	Line   string
	Picks  int
	Grid   *vnmo.Grid
	Field  *vnmo.VelocityField
	Stats  vnmo.Stats
	Misfit float64
	Fitted time.Duration
}

// Run fits the picks in run.Input.File and writes the text table, plus the
// binary volume and the plot when enabled. Every artifact is computed before
// the first file is written, and files already written are removed when a
// later one fails, so a failed run leaves no output.
func Run(ctx context.Context, run *config.Run, log logging.Logger, m *metrics.RunCollector) (res *Result, err error) {
	ctx, log = logging.WithRunLogger(ctx, log)
	log = log.With(logging.String("input", run.Input.File))

	defer func() {
		m.ObserveRun(err)
		if path := run.Output.MetricsFile; path != "" {
			if werr := m.WriteTextfile(path); werr != nil {
				log.Warn(ctx, "metrics textfile not written", logging.String("path", path), logging.Err(werr))
			}
		}
	}()

	if err = run.CheckInit(); err != nil {
		return nil, err
	}

	grid, err := vnmo.BuildGrid(run.Input.MaxTrace, run.Input.MaxTWT)
	if err != nil {
		return nil, err
	}
	width, height := grid.Dims()
	log.Debug(ctx, "grid built", logging.Int("traces", width), logging.Int("samples", height))

	picks, err := vnmo.LoadPicks(run.Input.File)
	if err != nil {
		return nil, err
	}
	if trace, twt, ok := run.MergeCell(); ok {
		before := len(picks)
		picks = vnmo.MergeDuplicates(picks, vec2d.T{trace, twt})
		log.Info(ctx, "duplicate picks merged", logging.Int("before", before), logging.Int("after", len(picks)))
	}
	log.Info(ctx, "picks loaded", logging.Int("picks", len(picks)))

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	field, stats, err := vnmo.Assemble(picks, grid, run.Options())
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	m.ObserveFit(len(picks), stats, elapsed)

	log.Info(ctx, "field assembled",
		logging.Float("vnmo_max", stats.Max),
		logging.Float("vnmo_min", stats.Min),
		logging.Int("cells", stats.Cells),
		logging.Seconds("elapsed", elapsed))
	misfit, compared := field.Misfit(grid, picks)
	m.ObserveMisfit(misfit)
	log.Debug(ctx, "pick misfit", logging.Float("max_abs", misfit), logging.Int("picks", compared))
	if stats.Extrapolated > 0 {
		log.Warn(ctx, "cells outside the pick hull are extrapolated", logging.Int("cells", stats.Extrapolated))
	}

	res = &Result{
		Paths:  export.OutputPaths(run.Input.File, run.Output.Dir),
		Line:   export.LineName(run.Input.File),
		Picks:  len(picks),
		Grid:   grid,
		Field:  field,
		Stats:  stats,
		Misfit: misfit,
		Fitted: elapsed,
	}

	artifacts, err := encode(run, res, picks)
	if err != nil {
		return nil, err
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if run.Output.Dir != "" {
		if err = os.MkdirAll(run.Output.Dir, 0o755); err != nil {
			return nil, err
		}
	}
	written := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if err = export.WriteFileAtomic(a.path, a.write); err != nil {
			for _, path := range written {
				if rerr := os.Remove(path); rerr != nil {
					log.Warn(ctx, "partial artifact not removed", logging.String("path", path), logging.Err(rerr))
				}
			}
			return nil, err
		}
		written = append(written, a.path)
		log.Info(ctx, "artifact written", logging.String("path", a.path))
	}

	return res, nil
}

type artifact struct {
	path  string
	write func(io.Writer) error
}

func encode(run *config.Run, res *Result, picks []vnmo.ControlPoint) ([]artifact, error) {
	var text bytes.Buffer
	if err := export.WriteText(&text, res.Grid, res.Field); err != nil {
		return nil, err
	}
	artifacts := []artifact{{res.Paths.Text, bufferWriter(&text)}}

	if run.Output.Binary {
		var bin bytes.Buffer
		if err := export.WriteBinary(&bin, res.Field); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact{res.Paths.Binary, bufferWriter(&bin)})
	}

	if run.Output.Plot {
		var png bytes.Buffer
		scene := render.Scene{Line: res.Line, Grid: res.Grid, Field: res.Field, Picks: picks}
		if err := render.WritePNG(&png, scene); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact{res.Paths.Plot, bufferWriter(&png)})
	}

	return artifacts, nil
}

func bufferWriter(buf *bytes.Buffer) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}
}
