// Package vecio reads and writes vector datasets in the .fvecs/.ivecs record
// layout and the .fbin/.ibin header layout, and writes seeded random samples.
//
// Every element is exactly 4 bytes, little-endian. Float datasets share the
// bit layout of integer datasets: floats are bit-cast, never converted.
package vecio

import (
	"fmt"
	"math"
)

// Element is a 4-byte element type a dataset can hold.
type Element interface {
	int32 | float32
}

// elemSize is the on-disk width of every element and header field.
const elemSize = 4

// Dataset is a dense row-major matrix of Rows x Dim elements.
type Dataset[T Element] struct {
	Rows int
	Dim  int
	Data []T
}

// NewDataset allocates a zeroed dataset of the given shape.
func NewDataset[T Element](rows, dim int) Dataset[T] {
	return Dataset[T]{Rows: rows, Dim: dim, Data: make([]T, rows*dim)}
}

// FromRows builds a dataset from equally sized rows.
func FromRows[T Element](rows [][]T) (Dataset[T], error) {
	if len(rows) == 0 {
		return Dataset[T]{}, nil
	}
	dim := len(rows[0])
	ds := NewDataset[T](len(rows), dim)
	for i, r := range rows {
		if len(r) != dim {
			return Dataset[T]{}, fmt.Errorf("row %d has %d elements, expected %d", i, len(r), dim)
		}
		copy(ds.Row(i), r)
	}
	return ds, nil
}

// Row returns row i as a sub-slice of Data.
func (d Dataset[T]) Row(i int) []T {
	if i < 0 || i >= d.Rows {
		panic(fmt.Sprintf("row %d out of range [0, %d)", i, d.Rows))
	}
	return d.Data[i*d.Dim : (i+1)*d.Dim]
}

// validate checks that Data matches the declared shape.
func (d Dataset[T]) validate() error {
	if d.Rows < 0 || d.Dim < 0 {
		return fmt.Errorf("invalid shape (%d, %d)", d.Rows, d.Dim)
	}
	if d.Dim > math.MaxInt32 || d.Rows > math.MaxInt32 {
		return fmt.Errorf("shape (%d, %d) does not fit int32 headers", d.Rows, d.Dim)
	}
	if len(d.Data) != d.Rows*d.Dim {
		return fmt.Errorf("data has %d elements, shape (%d, %d) needs %d",
			len(d.Data), d.Rows, d.Dim, d.Rows*d.Dim)
	}
	return nil
}

// Float32Bits reinterprets each float as its IEEE-754 bit pattern.
func Float32Bits(d Dataset[float32]) Dataset[int32] {
	out := Dataset[int32]{Rows: d.Rows, Dim: d.Dim, Data: make([]int32, len(d.Data))}
	for i, v := range d.Data {
		out.Data[i] = int32(math.Float32bits(v))
	}
	return out
}

// FromFloat32Bits reinterprets each integer as an IEEE-754 float bit pattern.
func FromFloat32Bits(d Dataset[int32]) Dataset[float32] {
	out := Dataset[float32]{Rows: d.Rows, Dim: d.Dim, Data: make([]float32, len(d.Data))}
	for i, v := range d.Data {
		out.Data[i] = math.Float32frombits(uint32(v))
	}
	return out
}
