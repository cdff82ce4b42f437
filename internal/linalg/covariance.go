package linalg

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var errNotPositiveDefinite = errors.New("linalg: matrix is not positive definite")

// Covariance turns the Hessian of the negative log-likelihood at the optimum
// into a parameter covariance matrix. Direct inversion is attempted first;
// on failure the Hessian is repaired via nearest-PSD projection and inverted
// again. The function is total: it always returns a symmetric matrix of the
// Hessian's dimension.
//
// A nil Hessian (computation skipped by configuration) yields a matrix of
// NaN placeholders of dimension k, reported as unknown rather than zero.
func Covariance(hessian *mat.SymDense, k int) *mat.SymDense {
	if hessian == nil {
		return unknownMatrix(k)
	}

	if inv, err := Invert(hessian); err == nil {
		return inv
	}

	repaired := RepairPSD(hessian)
	if inv, err := Invert(repaired); err == nil {
		return inv
	}
	return eigenInverse(repaired)
}

// unknownMatrix is the k x k covariance placeholder used when the Hessian
// was skipped: every entry NaN, so downstream standard errors and p-values
// degrade to unknown instead of crashing.
func unknownMatrix(k int) *mat.SymDense {
	out := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			out.SetSym(i, j, math.NaN())
		}
	}
	return out
}
