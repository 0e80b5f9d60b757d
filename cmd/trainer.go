//go:build !faiss

package cmd

import "github.com/patrikhermansson/ivfkit/ivf"

// newTrainer returns the pure-Go k-means trainer with its progress bar enabled.
func newTrainer() ivf.Trainer {
	km := ivf.NewKMeans()
	km.Verbose = true
	return km
}
