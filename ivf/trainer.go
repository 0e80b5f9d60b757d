// Package ivf trains the coarse quantizer of an inverted-file index and
// persists its centroids and per-vector cluster assignments.
package ivf

import (
	"context"
	"fmt"

	"github.com/patrikhermansson/ivfkit/core"
	"github.com/patrikhermansson/ivfkit/vecio"
)

// Trainer clusters a dataset into k cells.
//
// The returned centroids have shape (k, dim) and the assignments (n, 1), where
// assignment i is the index of the centroid nearest to row i under metric.
type Trainer interface {
	Train(ctx context.Context, data vecio.Dataset[float32], k int, metric core.Metric) (*Result, error)
}

// Result holds the output of a training run.
type Result struct {
	Centroids   vecio.Dataset[float32]
	Assignments vecio.Dataset[int32]
}

// checkInput validates the arguments shared by every Trainer.
func checkInput(data vecio.Dataset[float32], k int, metric core.Metric) error {
	if metric != core.MetricL2 && metric != core.MetricInnerProduct {
		return fmt.Errorf("%w: unsupported metric %v", core.ErrConfig, metric)
	}
	if len(data.Data) != data.Rows*data.Dim {
		return fmt.Errorf("%w: data has %d elements, shape (%d, %d)", core.ErrFormat, len(data.Data), data.Rows, data.Dim)
	}
	if data.Dim == 0 {
		return fmt.Errorf("%w: cannot cluster vectors of dimension 0", core.ErrFormat)
	}
	if k <= 0 || k > data.Rows {
		return fmt.Errorf("%w: cannot train %d centroids from %d vectors", core.ErrRange, k, data.Rows)
	}
	return nil
}

// Imbalance returns the imbalance factor of a partition: k*sum(size^2)/n^2.
// A perfectly balanced partition scores 1.
func Imbalance(assignments []int32, k int) float64 {
	if len(assignments) == 0 || k <= 0 {
		return 0
	}
	hist := make([]int, k)
	for _, c := range assignments {
		if c >= 0 && int(c) < k {
			hist[c]++
		}
	}
	var uf, tot float64
	for _, h := range hist {
		uf += float64(h) * float64(h)
		tot += float64(h)
	}
	if tot == 0 {
		return 0
	}
	return uf * float64(k) / (tot * tot)
}
