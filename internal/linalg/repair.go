// Package linalg derives parameter covariance from the likelihood Hessian,
// repairing singular or ill-conditioned matrices by projection onto the
// nearest positive-definite matrix.
package linalg

import (
	"gonum.org/v1/gonum/mat"
)

// eigFloor is the smallest eigenvalue permitted in a repaired matrix.
// Clipping to a strictly positive floor guarantees invertibility.
const eigFloor = 1e-8

// RepairPSD projects a symmetric matrix onto the nearest valid
// covariance-candidate matrix: eigen-decompose, clip eigenvalues below
// eigFloor, reconstruct. Idempotent (up to floating tolerance) on matrices
// that are already positive definite with eigenvalues above the floor.
func RepairPSD(a *mat.SymDense) *mat.SymDense {
	k := a.SymmetricDim()

	var eig mat.EigenSym
	if !eig.Factorize(a, true) {
		// Symmetric eigendecomposition essentially cannot fail; if it does,
		// the floor-scaled identity is still a valid covariance candidate.
		out := mat.NewSymDense(k, nil)
		for i := 0; i < k; i++ {
			out.SetSym(i, i, eigFloor)
		}
		return out
	}

	vals := eig.Values(nil)
	for i, v := range vals {
		if v < eigFloor {
			vals[i] = eigFloor
		}
	}

	var q mat.Dense
	eig.VectorsTo(&q)

	return reconstruct(&q, vals)
}

// Invert computes the inverse of a symmetric positive-definite matrix via
// Cholesky factorization. It reports an error when the matrix is not PD.
func Invert(a *mat.SymDense) (*mat.SymDense, error) {
	var chol mat.Cholesky
	if !chol.Factorize(a) {
		return nil, errNotPositiveDefinite
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// eigenInverse inverts via the eigendecomposition of the repaired matrix.
// With all eigenvalues clipped above eigFloor this cannot fail.
func eigenInverse(a *mat.SymDense) *mat.SymDense {
	k := a.SymmetricDim()

	var eig mat.EigenSym
	if !eig.Factorize(a, true) {
		out := mat.NewSymDense(k, nil)
		for i := 0; i < k; i++ {
			out.SetSym(i, i, 1/eigFloor)
		}
		return out
	}

	vals := eig.Values(nil)
	for i, v := range vals {
		if v < eigFloor {
			v = eigFloor
		}
		vals[i] = 1 / v
	}

	var q mat.Dense
	eig.VectorsTo(&q)

	return reconstruct(&q, vals)
}

// reconstruct forms Q * diag(vals) * Q^T as a symmetric matrix.
func reconstruct(q *mat.Dense, vals []float64) *mat.SymDense {
	k := len(vals)

	var qd mat.Dense
	qd.Mul(q, mat.NewDiagDense(k, vals))

	var b mat.Dense
	b.Mul(&qd, q.T())

	// Symmetrize away floating-point asymmetry from the two products.
	out := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			out.SetSym(i, j, 0.5*(b.At(i, j)+b.At(j, i)))
		}
	}
	return out
}
