package vecio_test

import (
	"path/filepath"
	"testing"

	"github.com/patrikhermansson/ivfkit/vecio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFloat_ByExtension(t *testing.T) {
	ds, err := vecio.FromRows([][]float32{{1, 2}, {3, 4}})
	require.NoError(t, err)
	dir := t.TempDir()

	fvecs := filepath.Join(dir, "base.fvecs")
	require.NoError(t, vecio.WriteRecordsAsFloat(fvecs, ds))
	fbin := filepath.Join(dir, "base.FBIN")
	require.NoError(t, vecio.WriteBinaryAsFloat(fbin, ds))

	for _, path := range []string{fvecs, fbin} {
		got, err := vecio.LoadFloat(path)
		require.NoError(t, err, path)
		assert.Equal(t, ds, got, path)
	}
}
