//go:build faiss

package cmd

import "github.com/patrikhermansson/ivfkit/ivf"

// newTrainer returns the faiss trainer, configured like the default k-means.
func newTrainer() ivf.Trainer {
	km := ivf.NewKMeans()
	km.Verbose = true
	return ivf.NewFaiss(km)
}
