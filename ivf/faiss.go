//go:build faiss

package ivf

import (
	"context"
	"fmt"

	"github.com/blevesearch/go-faiss"
	"github.com/patrikhermansson/ivfkit/core"
	"github.com/patrikhermansson/ivfkit/vecio"
	"github.com/rs/zerolog/log"
)

// Faiss trains centroids with the faiss k-means implementation and assigns
// rows with a flat faiss index. Building it needs cgo and libfaiss_c.
type Faiss struct {
	Iterations           int
	Seed                 int64
	MaxPointsPerCentroid int // zero keeps the faiss default
	Verbose              bool
}

// NewFaiss copies the iteration count, seed, sampling cap and verbosity of km.
func NewFaiss(km *KMeans) *Faiss {
	return &Faiss{
		Iterations:           km.iterations(),
		Seed:                 km.Seed,
		MaxPointsPerCentroid: km.MaxPointsPerCentroid,
		Verbose:              km.Verbose,
	}
}

// Train clusters data into k centroids and assigns every row to its nearest one.
// Inner-product training produces unit-norm centroids.
func (f *Faiss) Train(ctx context.Context, data vecio.Dataset[float32], k int, metric core.Metric) (*Result, error) {
	if err := checkInput(data, k, metric); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := faiss.NewClusteringParameters()
	if f.Iterations > 0 {
		params.Niter = f.Iterations
	}
	params.Seed = int(f.Seed)
	if f.MaxPointsPerCentroid > 0 {
		params.MaxPointsPerCentroid = f.MaxPointsPerCentroid
	}
	params.Spherical = metric == core.MetricInnerProduct
	params.Verbose = f.Verbose
	log.Info().Msgf("Clustering %d points in %dD to %d clusters with faiss (%s, %d iterations)",
		data.Rows, data.Dim, k, metric, params.Niter)

	clus, err := faiss.NewClusteringWithParams(data.Dim, k, params)
	if err != nil {
		return nil, fmt.Errorf("faiss clustering: %w", err)
	}
	defer clus.Close()

	quantizer, err := newFlatIndex(data.Dim, metric)
	if err != nil {
		return nil, err
	}
	defer quantizer.Delete()
	if err := clus.Train(data.Data, quantizer); err != nil {
		return nil, fmt.Errorf("faiss train: %w", err)
	}

	// Centroids points into faiss memory, which Close releases.
	centroids := vecio.NewDataset[float32](k, data.Dim)
	copy(centroids.Data, clus.Centroids())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	assignments, err := assignFlat(data, centroids, metric)
	if err != nil {
		return nil, err
	}
	return &Result{Centroids: centroids, Assignments: assignments}, nil
}

// newFlatIndex creates an exhaustive faiss index under metric.
func newFlatIndex(dim int, metric core.Metric) (*faiss.IndexImpl, error) {
	var idx *faiss.IndexImpl
	var err error
	if metric == core.MetricInnerProduct {
		idx, err = faiss.IndexFactory(dim, "Flat", faiss.MetricInnerProduct)
	} else {
		idx, err = faiss.IndexFactory(dim, "Flat", faiss.MetricL2)
	}
	if err != nil {
		return nil, fmt.Errorf("faiss index: %w", err)
	}
	return idx, nil
}

// assignFlat searches every row of data for its single nearest centroid.
func assignFlat(data, centroids vecio.Dataset[float32], metric core.Metric) (vecio.Dataset[int32], error) {
	idx, err := newFlatIndex(data.Dim, metric)
	if err != nil {
		return vecio.Dataset[int32]{}, err
	}
	defer idx.Delete()
	if err := idx.Add(centroids.Data); err != nil {
		return vecio.Dataset[int32]{}, fmt.Errorf("faiss add: %w", err)
	}
	_, labels, err := idx.Search(data.Data, 1)
	if err != nil {
		return vecio.Dataset[int32]{}, fmt.Errorf("faiss search: %w", err)
	}
	out := vecio.NewDataset[int32](data.Rows, 1)
	for i, l := range labels {
		out.Data[i] = int32(l)
	}
	return out, nil
}
