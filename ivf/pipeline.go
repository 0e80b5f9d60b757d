package ivf

import (
	"context"
	"time"

	"github.com/patrikhermansson/ivfkit/core"
	"github.com/patrikhermansson/ivfkit/vecio"
	"github.com/rs/zerolog/log"
)

// Job describes one train-and-persist run.
type Job struct {
	DataPath        string // .fvecs or .fbin input
	K               int
	Metric          core.Metric
	CentroidsPath   string // written as float records
	AssignmentsPath string // written as integer records
}

// Run reads the job's dataset, trains it with tr, and writes the centroids and
// cluster ids. Output files are not removed if a later step fails.
func Run(ctx context.Context, tr Trainer, job Job) (*Result, error) {
	data, err := vecio.LoadFloat(job.DataPath)
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("Loaded %d vectors of dimension %d", data.Rows, data.Dim)

	start := time.Now()
	res, err := tr.Train(ctx, data, job.K, job.Metric)
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("Time for training ivf %.3f secs", time.Since(start).Seconds())
	log.Info().Msgf("Imbalance factor: %.3f", Imbalance(res.Assignments.Data, job.K))

	if err := vecio.WriteRecords(job.AssignmentsPath, res.Assignments); err != nil {
		return nil, err
	}
	if err := vecio.WriteRecordsAsFloat(job.CentroidsPath, res.Centroids); err != nil {
		return nil, err
	}
	return res, nil
}
