//go:build faiss

package cmd

import (
	"testing"

	"github.com/patrikhermansson/ivfkit/ivf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrainer_VerboseFaiss(t *testing.T) {
	t.Setenv("IVFKIT_NITER", "4")

	f, ok := newTrainer().(*ivf.Faiss)
	require.True(t, ok)
	assert.True(t, f.Verbose)
	assert.Equal(t, 4, f.Iterations)
}
