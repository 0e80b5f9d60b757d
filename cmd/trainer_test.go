//go:build !faiss

package cmd

import (
	"testing"

	"github.com/patrikhermansson/ivfkit/ivf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrainer_VerboseKMeans(t *testing.T) {
	t.Setenv("IVFKIT_NITER", "4")

	km, ok := newTrainer().(*ivf.KMeans)
	require.True(t, ok)
	assert.True(t, km.Verbose)
	assert.Equal(t, 4, km.Iterations)
}
