package ivf

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"runtime"

	"github.com/patrikhermansson/ivfkit/core"
	"github.com/patrikhermansson/ivfkit/vecio"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Training defaults. They match the usual IVF coarse quantizer settings.
const (
	DefaultIterations           = 10
	DefaultSeed           int64 = 1234
	DefaultPointsPerCentroid    = 256
)

// Init selects how the first centroids are chosen.
type Init int

const (
	// InitRandom picks k distinct training points at random.
	InitRandom Init = iota
	// InitKMeansPlusPlus picks each next centroid with probability
	// proportional to its squared distance from the ones already chosen.
	InitKMeansPlusPlus
)

// KMeans trains centroids with Lloyd's algorithm.
type KMeans struct {
	Iterations int   // number of Lloyd iterations
	Seed       int64 // seed for sampling, initialisation and empty-cluster reseeding
	Init       Init

	// MaxPointsPerCentroid caps the training set at k*MaxPointsPerCentroid
	// rows, drawn at random. Zero or negative trains on every row.
	MaxPointsPerCentroid int

	Workers  int       // goroutines used by the assignment step
	Verbose  bool      // draw a progress bar over the iterations
	Progress io.Writer // progress bar output, os.Stderr when nil
}

// NewKMeans returns a trainer with default settings. IVFKIT_SEED and
// IVFKIT_NITER override the seed and iteration count.
func NewKMeans() *KMeans {
	return &KMeans{
		Iterations:           core.GetIterations(DefaultIterations),
		Seed:                 core.GetSeed(DefaultSeed),
		MaxPointsPerCentroid: DefaultPointsPerCentroid,
		Workers:              runtime.GOMAXPROCS(0),
	}
}

// Train clusters data into k centroids and assigns every row to its nearest one.
func (km *KMeans) Train(ctx context.Context, data vecio.Dataset[float32], k int, metric core.Metric) (*Result, error) {
	if err := checkInput(data, k, metric); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(km.Seed))
	train := km.subsample(data, k, rng)
	log.Info().Msgf("Clustering %d points in %dD to %d clusters (%s, %d iterations)",
		train.Rows, train.Dim, k, metric, km.iterations())

	centroids := km.initCentroids(train, k, rng)
	if metric == core.MetricInnerProduct {
		normalizeRows(centroids)
	}

	bar := km.progressBar()
	assign := make([]int32, train.Rows)
	for i := range assign {
		assign[i] = -1
	}
	counts := make([]int, k)
	for iter := 0; iter < km.iterations(); iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		changed, objective, err := km.assign(ctx, train, centroids, metric, assign)
		if err != nil {
			return nil, err
		}
		log.Debug().Msgf("Iteration %d: objective=%g, %d reassigned", iter, objective, changed)
		if err := bar.Add(1); err != nil {
			return nil, err
		}
		if changed == 0 {
			break
		}

		clear(centroids.Data)
		clear(counts)
		for i, c := range assign {
			core.AddScaled(centroids.Row(int(c)), 1, train.Row(i))
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// An empty cluster takes a random training point.
				copy(centroids.Row(c), train.Row(rng.Intn(train.Rows)))
				log.Debug().Msgf("Reseeded empty cluster %d", c)
				continue
			}
			core.Scale(centroids.Row(c), 1/float32(counts[c]))
		}
		if metric == core.MetricInnerProduct {
			normalizeRows(centroids)
		}
	}
	if err := bar.Finish(); err != nil {
		return nil, err
	}

	out := make([]int32, data.Rows)
	for i := range out {
		out[i] = -1
	}
	if _, _, err := km.assign(ctx, data, centroids, metric, out); err != nil {
		return nil, err
	}
	return &Result{
		Centroids:   centroids,
		Assignments: vecio.Dataset[int32]{Rows: data.Rows, Dim: 1, Data: out},
	}, nil
}

// initCentroids picks the k starting centroids from train according to km.Init.
func (km *KMeans) initCentroids(train vecio.Dataset[float32], k int, rng *rand.Rand) vecio.Dataset[float32] {
	centroids := vecio.NewDataset[float32](k, train.Dim)
	if km.Init != InitKMeansPlusPlus {
		perm := rng.Perm(train.Rows)
		for c := 0; c < k; c++ {
			copy(centroids.Row(c), train.Row(perm[c]))
		}
		return centroids
	}

	copy(centroids.Row(0), train.Row(rng.Intn(train.Rows)))
	minDist := make([]float64, train.Rows)
	for i := range minDist {
		minDist[i] = float64(core.SquaredEuclidean(train.Row(i), centroids.Row(0)))
	}
	for c := 1; c < k; c++ {
		var total float64
		for _, d := range minDist {
			total += d
		}
		target := rng.Float64() * total
		selected := train.Rows - 1
		var cum float64
		for i, d := range minDist {
			cum += d
			if cum >= target {
				selected = i
				break
			}
		}
		copy(centroids.Row(c), train.Row(selected))
		for i := range minDist {
			if d := float64(core.SquaredEuclidean(train.Row(i), centroids.Row(c))); d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return centroids
}

// iterations falls back to DefaultIterations when unset.
func (km *KMeans) iterations() int {
	if km.Iterations <= 0 {
		return DefaultIterations
	}
	return km.Iterations
}

// workers is at least one.
func (km *KMeans) workers() int {
	if km.Workers <= 0 {
		return 1
	}
	return km.Workers
}

// progressBar returns a bar over the iterations. It draws nothing unless Verbose is set.
func (km *KMeans) progressBar() *progressbar.ProgressBar {
	w := km.Progress
	if w == nil {
		w = os.Stderr
	}
	if !km.Verbose {
		w = io.Discard
	}
	return progressbar.NewOptions(km.iterations(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("k-means"),
		progressbar.OptionOnCompletion(func() { fmt.Fprint(w, "\n") }),
	)
}

// subsample draws at most k*MaxPointsPerCentroid rows of data.
func (km *KMeans) subsample(data vecio.Dataset[float32], k int, rng *rand.Rand) vecio.Dataset[float32] {
	if km.MaxPointsPerCentroid <= 0 {
		return data
	}
	limit := k * km.MaxPointsPerCentroid
	if data.Rows <= limit {
		return data
	}
	log.Warn().Msgf("Sampling a subset of %d / %d for training", limit, data.Rows)
	idx := rng.Perm(data.Rows)[:limit]
	train := vecio.NewDataset[float32](limit, data.Dim)
	for i, j := range idx {
		copy(train.Row(i), data.Row(j))
	}
	return train
}

// assign writes the nearest centroid of every row of data into out and returns
// how many entries changed and the summed distance (L2) or similarity (IP).
// Rows are split into chunks handled by a bounded group of goroutines; each
// chunk owns a disjoint part of out.
func (km *KMeans) assign(ctx context.Context, data, centroids vecio.Dataset[float32], metric core.Metric, out []int32) (int, float64, error) {
	norms := make([]float32, centroids.Rows)
	for c := range norms {
		norms[c] = core.SquaredNorm(centroids.Row(c))
	}

	workers := km.workers()
	chunk := (data.Rows + workers - 1) / workers
	if chunk == 0 {
		return 0, 0, nil
	}
	numChunks := (data.Rows + chunk - 1) / chunk
	changed := make([]int, numChunks)
	objective := make([]float64, numChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for ci := 0; ci < numChunks; ci++ {
		ci := ci
		start := ci * chunk
		end := min(start+chunk, data.Rows)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				x := data.Row(i)
				best, score := nearest(x, centroids, norms, metric)
				if metric == core.MetricL2 {
					objective[ci] += float64(core.SquaredNorm(x) + score)
				} else {
					objective[ci] += float64(score)
				}
				if out[i] != int32(best) {
					out[i] = int32(best)
					changed[ci]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	var totalChanged int
	var totalObjective float64
	for ci := range changed {
		totalChanged += changed[ci]
		totalObjective += objective[ci]
	}
	return totalChanged, totalObjective, nil
}

// nearest returns the closest centroid to x and its score. For L2 the score is
// ||c||^2 - 2<x,c>, which ranks like the squared distance; for IP it is <x,c>.
func nearest(x []float32, centroids vecio.Dataset[float32], norms []float32, metric core.Metric) (int, float32) {
	best := -1
	var bestScore float32
	if metric == core.MetricL2 {
		bestScore = float32(math.Inf(1))
	} else {
		bestScore = float32(math.Inf(-1))
	}
	for c := 0; c < centroids.Rows; c++ {
		dot := core.Dot(x, centroids.Row(c))
		if metric == core.MetricL2 {
			if s := norms[c] - 2*dot; s < bestScore || best < 0 {
				best, bestScore = c, s
			}
		} else if dot > bestScore || best < 0 {
			best, bestScore = c, dot
		}
	}
	return best, bestScore
}

// normalizeRows scales every row of ds to unit length. Zero rows are left as is.
func normalizeRows(ds vecio.Dataset[float32]) {
	for c := 0; c < ds.Rows; c++ {
		core.NormalizeVector(ds.Row(c))
	}
}
