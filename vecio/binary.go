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

// headerSize is the global header of the bin layout: int32 rows, int32 dim.
const headerSize = 2 * elemSize

// ReadBinary reads an .ibin file: a rows/dim header followed by rows*dim int32 values.
func ReadBinary(path string) (Dataset[int32], error) {
	log.Info().Msgf("Reading file: %s", path)
	f, err := os.Open(path)
	if err != nil {
		return Dataset[int32]{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := DecodeBinary(f)
	if err != nil {
		return Dataset[int32]{}, fmt.Errorf("read %s: %w", path, err)
	}
	log.Debug().Msgf("Read %d vectors of dimension %d from %s", ds.Rows, ds.Dim, path)
	return ds, nil
}

// ReadBinaryAsFloat reads an .fbin file. Values are bit-cast to float32.
func ReadBinaryAsFloat(path string) (Dataset[float32], error) {
	ds, err := ReadBinary(path)
	if err != nil {
		return Dataset[float32]{}, err
	}
	return FromFloat32Bits(ds), nil
}

// DecodeBinary decodes the bin layout from r. The input must end exactly
// after the last element.
func DecodeBinary(r io.Reader) (Dataset[int32], error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Dataset[int32]{}, err
	}
	return decodeBinary(buf)
}

// decodeBinary parses the header of buf and checks that the data fills it exactly.
func decodeBinary(buf []byte) (Dataset[int32], error) {
	size := int64(len(buf))
	if size < headerSize {
		return Dataset[int32]{}, fmt.Errorf("%w: %d bytes is shorter than the %d-byte header",
			core.ErrFormat, size, headerSize)
	}
	rows := int32(binary.LittleEndian.Uint32(buf[0:4]))
	dim := int32(binary.LittleEndian.Uint32(buf[4:8]))
	if rows < 0 || dim < 0 {
		return Dataset[int32]{}, fmt.Errorf("%w: negative header (%d, %d)", core.ErrFormat, rows, dim)
	}
	want := headerSize + int64(rows)*int64(dim)*elemSize
	if size != want {
		return Dataset[int32]{}, fmt.Errorf("%w: size %d does not match header (%d, %d), expected %d bytes",
			core.ErrFormat, size, rows, dim, want)
	}

	ds := NewDataset[int32](int(rows), int(dim))
	payload := buf[headerSize:]
	for i := range ds.Data {
		off := i * elemSize
		ds.Data[i] = int32(binary.LittleEndian.Uint32(payload[off : off+elemSize]))
	}
	return ds, nil
}

// WriteBinary writes ds to path in the bin layout, creating or truncating the file.
func WriteBinary(path string, ds Dataset[int32]) (err error) {
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

	if err := EncodeBinary(f, ds); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteBinaryAsFloat bit-casts ds to int32 and writes it with WriteBinary.
func WriteBinaryAsFloat(path string, ds Dataset[float32]) error {
	return WriteBinary(path, Float32Bits(ds))
}

// EncodeBinary writes the rows/dim header followed by the flat row-major data.
func EncodeBinary(w io.Writer, ds Dataset[int32]) error {
	if err := ds.validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	hdr := make([]byte, 0, headerSize)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(ds.Rows))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(ds.Dim))
	if _, err := bw.Write(hdr); err != nil {
		return err
	}
	var elem [elemSize]byte
	for _, v := range ds.Data {
		binary.LittleEndian.PutUint32(elem[:], uint32(v))
		if _, err := bw.Write(elem[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
