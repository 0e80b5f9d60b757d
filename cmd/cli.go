package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/patrikhermansson/ivfkit/core"
	"github.com/patrikhermansson/ivfkit/ivf"
	"github.com/patrikhermansson/ivfkit/vecio"
	"github.com/rs/zerolog/log"
)

// Execute runs the CLI with the process arguments (args[0] is the program
// name) and returns the exit status.
func Execute(ctx context.Context, args []string) int {
	return run(ctx, args, os.Stderr, newTrainer())
}

// run dispatches args to the sample subcommand or to a clustering job trained
// by tr. Usage goes to stderr.
func run(ctx context.Context, args []string, stderr io.Writer, tr ivf.Trainer) int {
	prog := "ivfkit"
	if len(args) > 0 {
		prog = args[0]
		args = args[1:]
	}
	log.Debug().Msgf("CPU features: %s", core.CPUFeatures())

	if len(args) > 0 && args[0] == "sample" {
		if len(args) < 4 {
			sampleUsage(stderr, prog)
			return 1
		}
		if err := runSample(args[1:]); err != nil {
			log.Error().Err(err).Msg("Sampling failed")
			return 1
		}
		return 0
	}

	if len(args) < 4 {
		usage(stderr, prog)
		return 1
	}
	job, err := parseJob(args)
	if err != nil {
		log.Error().Err(err).Msg("Invalid arguments")
		return 1
	}
	if _, err := ivf.Run(ctx, tr, job); err != nil {
		log.Error().Err(err).Msg("Clustering failed")
		return 1
	}
	return 0
}

// usage prints the clustering command line.
func usage(w io.Writer, prog string) {
	fmt.Fprintf(w, "Usage: %s <arg1> <arg2> <arg3> <arg4> [arg5]\n", prog)
	fmt.Fprintln(w, "arg1: path for data file, format .fvecs or .fbin")
	fmt.Fprintln(w, "arg2: number of clusters")
	fmt.Fprintln(w, "arg3: path for centroid vectors")
	fmt.Fprintln(w, "arg4: path for cluster ids")
	fmt.Fprintln(w, "arg5: distance metric, l2 (default) or ip")
	fmt.Fprintf(w, "\n       %s sample <data> <num_sampled> <out> [seed]\n", prog)
}

// sampleUsage prints the sample subcommand line.
func sampleUsage(w io.Writer, prog string) {
	fmt.Fprintf(w, "Usage: %s sample <arg1> <arg2> <arg3> [arg4]\n", prog)
	fmt.Fprintln(w, "arg1: path for data file, format .fvecs or .fbin")
	fmt.Fprintln(w, "arg2: number of vectors to sample")
	fmt.Fprintln(w, "arg3: path for sampled vectors")
	fmt.Fprintf(w, "arg4: random seed (default %d)\n", vecio.DefaultSampleSeed)
}

// parseJob maps the positional arguments to a clustering job.
func parseJob(args []string) (ivf.Job, error) {
	k, err := strconv.Atoi(args[1])
	if err != nil || k <= 0 {
		return ivf.Job{}, fmt.Errorf("%w: number of clusters must be a positive integer, got %q", core.ErrConfig, args[1])
	}

	metric := core.MetricL2
	if len(args) >= 5 {
		if metric, err = core.ParseMetric(args[4]); err != nil {
			return ivf.Job{}, err
		}
		log.Info().Msgf("Using %s metric", metric)
	} else {
		log.Info().Msgf("Using %s metric by default", metric)
	}

	return ivf.Job{
		DataPath:        args[0],
		K:               k,
		Metric:          metric,
		CentroidsPath:   args[2],
		AssignmentsPath: args[3],
	}, nil
}

// runSample writes a seeded sample of a dataset: data, count, output, optional seed.
func runSample(args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: invalid sample size %q", core.ErrConfig, args[1])
	}
	seed := vecio.DefaultSampleSeed
	if len(args) >= 4 {
		if seed, err = strconv.ParseInt(strings.TrimSpace(args[3]), 10, 64); err != nil {
			return fmt.Errorf("%w: invalid seed %q", core.ErrConfig, args[3])
		}
	}

	data, err := vecio.LoadFloat(args[0])
	if err != nil {
		return err
	}
	return vecio.WriteSampledFloat(args[2], data, n, vecio.NewSampleRand(seed))
}
