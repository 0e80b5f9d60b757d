package vecio_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/patrikhermansson/ivfkit/core"
	"github.com/patrikhermansson/ivfkit/vecio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le(vals ...int32) []byte {
	var b []byte
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	return b
}

func TestWriteRecords_Bytes(t *testing.T) {
	ds, err := vecio.FromRows([][]int32{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data.ivecs")
	require.NoError(t, vecio.WriteRecords(path, ds))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want := []byte{
		0x02, 0, 0, 0, 0x01, 0, 0, 0, 0x02, 0, 0, 0,
		0x02, 0, 0, 0, 0x03, 0, 0, 0, 0x04, 0, 0, 0,
		0x02, 0, 0, 0, 0x05, 0, 0, 0, 0x06, 0, 0, 0,
	}
	assert.Equal(t, want, got)

	back, err := vecio.ReadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, ds, back)
}

func TestRecords_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int32
	}{
		{"single", [][]int32{{7}}},
		{"negative", [][]int32{{-1, math.MinInt32, math.MaxInt32}, {0, 0, 0}}},
		{"wide", [][]int32{make([]int32, 128), make([]int32, 128)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := vecio.FromRows(tt.rows)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, vecio.EncodeRecords(&buf, ds))
			assert.Equal(t, ds.Rows*(ds.Dim+1)*4, buf.Len())

			back, err := vecio.DecodeRecords(&buf)
			require.NoError(t, err)
			assert.Equal(t, ds, back)
		})
	}
}

func TestRecordsAsFloat_BitExact(t *testing.T) {
	nan := math.Float32frombits(0x7fc00001)
	ds, err := vecio.FromRows([][]float32{
		{0.1, float32(math.Copysign(0, -1)), float32(math.Inf(1))},
		{nan, math.SmallestNonzeroFloat32, math.MaxFloat32},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data.fvecs")
	require.NoError(t, vecio.WriteRecordsAsFloat(path, ds))

	back, err := vecio.ReadRecordsAsFloat(path)
	require.NoError(t, err)
	require.Equal(t, ds.Rows, back.Rows)
	require.Equal(t, ds.Dim, back.Dim)
	for i := range ds.Data {
		assert.Equal(t, math.Float32bits(ds.Data[i]), math.Float32bits(back.Data[i]), "element %d", i)
	}
	assert.Equal(t, uint32(0x80000000), math.Float32bits(back.Data[1]), "negative zero keeps its sign bit")
}

func TestDecodeRecords_EmptyInput(t *testing.T) {
	ds, err := vecio.DecodeRecords(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Rows)
	assert.Equal(t, 0, ds.Dim)
	assert.Empty(t, ds.Data)
}

func TestDecodeRecords_ZeroDimension(t *testing.T) {
	ds, err := vecio.DecodeRecords(bytes.NewReader(le(0, 0, 0)))
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows)
	assert.Equal(t, 0, ds.Dim)
	assert.Empty(t, ds.Row(2))

	var buf bytes.Buffer
	require.NoError(t, vecio.EncodeRecords(&buf, ds))
	assert.Equal(t, le(0, 0, 0), buf.Bytes())
}

func TestDecodeRecords_FormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"partial element", []byte{2, 0, 0}},
		{"truncated trailing record", le(2, 1, 2, 2, 3)},
		{"truncated first record", le(4, 1, 2)},
		{"negative dimension", le(-1, 0)},
		{"inconsistent dimension", append(le(2, 1, 2), le(1, 9, 9)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vecio.DecodeRecords(bytes.NewReader(tt.input))
			assert.ErrorIs(t, err, core.ErrFormat)
		})
	}
}

func TestReadRecords_MissingFile(t *testing.T) {
	_, err := vecio.ReadRecords(filepath.Join(t.TempDir(), "missing.ivecs"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteRecords_InvalidShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ivecs")
	err := vecio.WriteRecords(path, vecio.Dataset[int32]{Rows: 2, Dim: 2, Data: []int32{1, 2, 3}})
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := vecio.FromRows([][]int32{{1, 2}, {3}})
	assert.Error(t, err)
}
