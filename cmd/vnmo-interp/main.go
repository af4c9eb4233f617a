package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	vnmo "github.com/flywave/go-vnmo"
	"github.com/flywave/go-vnmo/config"
	"github.com/flywave/go-vnmo/internal/logging"
	"github.com/flywave/go-vnmo/internal/metrics"
	"github.com/flywave/go-vnmo/internal/pipeline"
)

const usage = `usage: vnmo-interp [flags] [file [maxTrace [maxTWT]]]

Interpolates NMO velocity picks onto a regular (trace, TWT) grid and writes
<base>_interp_2D.dat, .bin and .png. Parameters missing from the flags, the
positional arguments and the -config file are prompted for on stdin.

`

func main() {
	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, log)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, log logging.Logger) int {
	cfg, err := parseArgs(args, stdin, stdout)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		log.Error(ctx, "invalid arguments", logging.Err(err))
		return 1
	}

	collector, err := metrics.NewRunCollector(prometheus.NewRegistry())
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		return 1
	}

	res, err := pipeline.Run(ctx, cfg, log, collector)
	if err != nil {
		log.Error(ctx, "interpolation failed", logging.String("input", cfg.Input.File), logging.Err(err))
		return 1
	}

	fmt.Fprintf(stdout, "VNMO max: %.2f m/s\n", res.Stats.Max)
	fmt.Fprintf(stdout, "VNMO min: %.2f m/s\n", res.Stats.Min)
	return 0
}

func parseArgs(args []string, stdin io.Reader, stdout io.Writer) (*config.Run, error) {
	fs := flag.NewFlagSet("vnmo-interp", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "gcfg run configuration file")
	file := fs.String("file", "", "velocity pick table")
	maxTrace := fs.Int("max-trace", 0, "last trace of the output grid")
	maxTWT := fs.Int("max-twt", 0, "last two-way time of the output grid, ms")
	out := fs.String("out", "", "output directory (default: working directory)")
	kernel := fs.String("kernel", string(vnmo.DefaultKernel), "radial basis kernel")
	smoothing := fs.Float64("smoothing", vnmo.DefaultSmoothing, "smoothing added to the kernel diagonal")
	degree := fs.Int("degree", vnmo.DefaultDegree, "degree of the polynomial trend, 0 or 1")
	merge := fs.Bool("merge", false, "average picks sharing a trace and time sample")
	binary := fs.Bool("binary", true, "write the float32 volume")
	plot := fs.Bool("plot", true, "write the PNG section view")
	metricsFile := fs.String("metrics-file", "", "write run metrics to this Prometheus textfile")
	noPrompt := fs.Bool("no-prompt", false, "fail instead of prompting for missing parameters")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	haveTWT := *configPath != ""

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.Input.File = *file
		case "max-trace":
			cfg.Input.MaxTrace = *maxTrace
		case "max-twt":
			cfg.Input.MaxTWT = *maxTWT
			haveTWT = true
		case "out":
			cfg.Output.Dir = *out
		case "kernel":
			cfg.Interpolation.Kernel = *kernel
		case "smoothing":
			cfg.Interpolation.Smoothing = *smoothing
		case "degree":
			cfg.Interpolation.Degree = *degree
		case "merge":
			cfg.Interpolation.MergeDuplicates = *merge
		case "binary":
			cfg.Output.Binary = *binary
		case "plot":
			cfg.Output.Plot = *plot
		case "metrics-file":
			cfg.Output.MetricsFile = *metricsFile
		}
	})

	pos := fs.Args()
	if len(pos) > 3 {
		return nil, fmt.Errorf("expected at most 3 positional arguments, got %d", len(pos))
	}
	if len(pos) > 0 {
		cfg.Input.File = pos[0]
	}
	if len(pos) > 1 {
		n, err := strconv.Atoi(pos[1])
		if err != nil {
			return nil, fmt.Errorf("maxTrace: %w", err)
		}
		cfg.Input.MaxTrace = n
	}
	if len(pos) > 2 {
		n, err := strconv.Atoi(pos[2])
		if err != nil {
			return nil, fmt.Errorf("maxTWT: %w", err)
		}
		cfg.Input.MaxTWT = n
		haveTWT = true
	}

	if *noPrompt {
		return cfg, nil
	}

	p := prompter{in: bufio.NewReader(stdin), out: stdout}
	if cfg.Input.File == "" {
		s, err := p.ask("File name: ")
		if err != nil {
			return nil, err
		}
		cfg.Input.File = s
	}
	if cfg.Input.MaxTrace == 0 {
		n, err := p.askInt("Maximum trace: ")
		if err != nil {
			return nil, err
		}
		cfg.Input.MaxTrace = n
	}
	if !haveTWT {
		n, err := p.askInt("Maximum TWT: ")
		if err != nil {
			return nil, err
		}
		cfg.Input.MaxTWT = n
	}
	return cfg, nil
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", fmt.Errorf("no answer to %q", strings.TrimSuffix(question, ": "))
		}
		return "", err
	}
	return line, nil
}

func (p prompter) askInt(question string) (int, error) {
	s, err := p.ask(question)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", strings.TrimSuffix(question, ": "), err)
	}
	return n, nil
}
