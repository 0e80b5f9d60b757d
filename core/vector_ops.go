package core

import "gonum.org/v1/gonum/blas/blas32"

// NormalizeVector scales vec to unit L2 norm in place.
// It returns false and leaves vec untouched if the norm is zero.
func NormalizeVector(vec []float32) bool {
	if len(vec) == 0 {
		return false
	}
	v := blas32.Vector{N: len(vec), Data: vec, Inc: 1}
	norm := blas32.Nrm2(v)
	if norm == 0 {
		return false
	}
	blas32.Scal(1/norm, v)
	return true
}
