package vecio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/patrikhermansson/ivfkit/core"
	"github.com/patrikhermansson/ivfkit/vecio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequential returns a rows x dim dataset whose row i is filled with i.
func sequential(rows, dim int) vecio.Dataset[int32] {
	ds := vecio.NewDataset[int32](rows, dim)
	for i := 0; i < rows; i++ {
		for j := range ds.Row(i) {
			ds.Row(i)[j] = int32(i)
		}
	}
	return ds
}

func TestWriteSampled_Deterministic(t *testing.T) {
	ds := sequential(100, 4)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ivecs")
	b := filepath.Join(dir, "b.ivecs")

	require.NoError(t, vecio.WriteSampled(a, ds, 10, vecio.NewSampleRand(42)))
	require.NoError(t, vecio.WriteSampled(b, ds, 10, vecio.NewSampleRand(42)))

	ab, err := os.ReadFile(a)
	require.NoError(t, err)
	bb, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, ab, bb)
	assert.Len(t, ab, 10*(4+1)*4)
}

func TestWriteSampled_SelectsPermutedRows(t *testing.T) {
	ds := sequential(50, 3)
	path := filepath.Join(t.TempDir(), "sample.ivecs")
	require.NoError(t, vecio.WriteSampled(path, ds, 20, vecio.NewSampleRand(7)))

	want, err := vecio.SampleIndices(50, 20, vecio.NewSampleRand(7))
	require.NoError(t, err)

	got, err := vecio.ReadRecords(path)
	require.NoError(t, err)
	require.Equal(t, 20, got.Rows)
	require.Equal(t, 3, got.Dim)

	seen := make(map[int32]bool)
	for i := 0; i < got.Rows; i++ {
		row := got.Row(i)
		assert.Equal(t, int32(want[i]), row[0])
		assert.False(t, seen[row[0]], "row %d selected twice", row[0])
		seen[row[0]] = true
		assert.GreaterOrEqual(t, row[0], int32(0))
		assert.Less(t, row[0], int32(50))
	}
}

func TestSampleIndices_SeedChangesSelection(t *testing.T) {
	a, err := vecio.SampleIndices(1000, 10, vecio.NewSampleRand(1))
	require.NoError(t, err)
	b, err := vecio.SampleIndices(1000, 10, vecio.NewSampleRand(2))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestWriteSampled_AllRows(t *testing.T) {
	ds := sequential(8, 2)
	path := filepath.Join(t.TempDir(), "all.ivecs")
	require.NoError(t, vecio.WriteSampled(path, ds, 8, vecio.NewSampleRand(vecio.DefaultSampleSeed)))

	got, err := vecio.ReadRecords(path)
	require.NoError(t, err)
	require.Equal(t, 8, got.Rows)

	ids := make([]int, 0, got.Rows)
	for i := 0; i < got.Rows; i++ {
		ids = append(ids, int(got.Row(i)[0]))
	}
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, ids)
}

func TestWriteSampled_TooMany(t *testing.T) {
	ds := sequential(5, 2)
	path := filepath.Join(t.TempDir(), "sample.ivecs")

	err := vecio.WriteSampled(path, ds, 6, vecio.NewSampleRand(42))
	assert.ErrorIs(t, err, core.ErrRange)

	_, err = vecio.SampleIndices(5, -1, vecio.NewSampleRand(42))
	assert.ErrorIs(t, err, core.ErrRange)
}

func TestWriteSampledFloat(t *testing.T) {
	ds, err := vecio.FromRows([][]float32{{0.5, 1.5}, {2.5, 3.5}, {4.5, 5.5}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sample.fvecs")
	require.NoError(t, vecio.WriteSampledFloat(path, ds, 2, vecio.NewSampleRand(3)))

	idx, err := vecio.SampleIndices(3, 2, vecio.NewSampleRand(3))
	require.NoError(t, err)

	got, err := vecio.ReadRecordsAsFloat(path)
	require.NoError(t, err)
	for i, j := range idx {
		assert.Equal(t, ds.Row(j), got.Row(i))
	}
}
