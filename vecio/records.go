package vecio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/patrikhermansson/ivfkit/core"
	"github.com/rs/zerolog/log"
)

// ReadRecords reads an .ivecs file: a sequence of records, each an int32
// dimension followed by that many int32 values.
// An empty file yields an empty dataset with Rows and Dim both zero.
func ReadRecords(path string) (Dataset[int32], error) {
	log.Info().Msgf("Reading file: %s", path)
	f, err := os.Open(path)
	if err != nil {
		return Dataset[int32]{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := DecodeRecords(f)
	if err != nil {
		return Dataset[int32]{}, fmt.Errorf("read %s: %w", path, err)
	}
	log.Debug().Msgf("Read %d records of dimension %d from %s", ds.Rows, ds.Dim, path)
	return ds, nil
}

// ReadRecordsAsFloat reads an .fvecs file. Values are bit-cast to float32.
func ReadRecordsAsFloat(path string) (Dataset[float32], error) {
	ds, err := ReadRecords(path)
	if err != nil {
		return Dataset[float32]{}, err
	}
	return FromFloat32Bits(ds), nil
}

// DecodeRecords decodes the record layout from r until EOF.
func DecodeRecords(r io.Reader) (Dataset[int32], error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Dataset[int32]{}, err
	}
	return decodeRecords(buf)
}

// decodeRecords splits buf into records, checking every dimension against the first.
func decodeRecords(buf []byte) (Dataset[int32], error) {
	size := int64(len(buf))
	if size == 0 {
		return Dataset[int32]{}, nil
	}
	if size%elemSize != 0 {
		return Dataset[int32]{}, fmt.Errorf("%w: size %d is not a multiple of %d bytes", core.ErrFormat, size, elemSize)
	}

	dim := int32(binary.LittleEndian.Uint32(buf))
	if dim < 0 {
		return Dataset[int32]{}, fmt.Errorf("%w: negative dimension %d", core.ErrFormat, dim)
	}
	block := (int64(dim) + 1) * elemSize
	if size%block != 0 {
		return Dataset[int32]{}, fmt.Errorf("%w: size %d is not a whole number of %d-byte records (dim %d)",
			core.ErrFormat, size, block, dim)
	}

	rows := int(size / block)
	ds := NewDataset[int32](rows, int(dim))
	for i := 0; i < rows; i++ {
		rec := buf[int64(i)*block : int64(i+1)*block]
		if d := int32(binary.LittleEndian.Uint32(rec)); d != dim {
			return Dataset[int32]{}, fmt.Errorf("%w: record %d declares dimension %d, expected %d",
				core.ErrFormat, i, d, dim)
		}
		row := ds.Row(i)
		for j := range row {
			off := (j + 1) * elemSize
			row[j] = int32(binary.LittleEndian.Uint32(rec[off : off+elemSize]))
		}
	}
	return ds, nil
}

// WriteRecords writes ds to path in the record layout, creating or truncating the file.
func WriteRecords(path string, ds Dataset[int32]) (err error) {
	if err := ds.validate(); err != nil {
		return err
	}
	log.Info().Msgf("Writing file: %s", path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := EncodeRecords(f, ds); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Debug().Msgf("Wrote %d records of dimension %d to %s", ds.Rows, ds.Dim, path)
	return nil
}

// WriteRecordsAsFloat bit-casts ds to int32 and writes it with WriteRecords.
func WriteRecordsAsFloat(path string, ds Dataset[float32]) error {
	return WriteRecords(path, Float32Bits(ds))
}

// EncodeRecords writes every row of ds to w, each prefixed by its dimension.
func EncodeRecords(w io.Writer, ds Dataset[int32]) error {
	if err := ds.validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	rec := make([]byte, 0, (ds.Dim+1)*elemSize)
	for i := 0; i < ds.Rows; i++ {
		rec = appendRecord(rec[:0], ds.Row(i))
		if _, err := bw.Write(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// appendRecord appends the dimension of row and its values, little-endian.
func appendRecord(dst []byte, row []int32) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(row)))
	for _, v := range row {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(v))
	}
	return dst
}
