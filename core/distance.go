package core

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/blas/blas32"
)

// Metric is the distance metric used to train and assign clusters.
type Metric int

const (
	// MetricL2 ranks by squared Euclidean distance, smaller is closer.
	MetricL2 Metric = iota
	// MetricInnerProduct ranks by inner product, larger is closer.
	MetricInnerProduct
)

// Metrics maps the accepted metric names to their values.
var Metrics = map[string]Metric{
	"l2":           MetricL2,
	"ip":           MetricInnerProduct,
	"innerproduct": MetricInnerProduct,
}

// ParseMetric resolves a metric name case-insensitively.
func ParseMetric(name string) (Metric, error) {
	m, ok := Metrics[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported distance metric %q, use 'l2' or 'ip'", ErrConfig, name)
	}
	return m, nil
}

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricInnerProduct:
		return "InnerProduct"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// vec wraps a as a unit-stride blas32 vector.
func vec(a []float32) blas32.Vector {
	return blas32.Vector{N: len(a), Data: a, Inc: 1}
}

// Dot computes the inner product of two vectors of equal length.
func Dot(a, b []float32) float32 {
	if len(a) != len(b) {
		panic("vectors must have the same length")
	}
	return blas32.Dot(vec(a), vec(b))
}

// SquaredNorm returns the squared L2 norm of a.
func SquaredNorm(a []float32) float32 {
	return blas32.Dot(vec(a), vec(a))
}

// SquaredEuclidean computes the squared Euclidean distance between two vectors.
func SquaredEuclidean(a, b []float32) float32 {
	if len(a) != len(b) {
		panic("vectors must have the same length")
	}
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// AddScaled computes dst += alpha*src.
func AddScaled(dst []float32, alpha float32, src []float32) {
	if len(dst) != len(src) {
		panic("vectors must have the same length")
	}
	blas32.Axpy(alpha, vec(src), vec(dst))
}

// Scale multiplies a in place by alpha.
func Scale(a []float32, alpha float32) {
	blas32.Scal(alpha, vec(a))
}
