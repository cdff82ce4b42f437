// Package infer contains the pure derived-value functions over a fitted
// model: standard errors, Wald statistics, confidence intervals and
// information criteria.
package infer

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"vipfit/domain/model"
)

// StdErr returns the standard errors: square roots of the covariance
// diagonal. NaN entries propagate when the covariance is unknown.
func StdErr(m *model.FittedModel) []float64 {
	cov := m.Cov()
	k := m.NumParams()
	se := make([]float64, k)
	for i := 0; i < k; i++ {
		se[i] = math.Sqrt(cov.At(i, i))
	}
	return se
}

// ZScores returns the Wald z-statistics, estimate / standard error.
func ZScores(m *model.FittedModel) []float64 {
	params := m.Params()
	se := StdErr(m)
	z := make([]float64, len(params))
	for i := range params {
		z[i] = params[i] / se[i]
	}
	return z
}

// PValues returns two-sided p-values from the standard normal distribution.
func PValues(m *model.FittedModel) []float64 {
	z := ZScores(m)
	p := make([]float64, len(z))
	for i, zi := range z {
		p[i] = 2 * (1 - distuv.UnitNormal.CDF(math.Abs(zi)))
	}
	return p
}

// ConfInt returns the lower and upper Wald confidence bounds at the given
// level (e.g. 0.95). Levels outside (0,1) fall back to 0.95.
func ConfInt(m *model.FittedModel, level float64) (lower, upper []float64) {
	if level <= 0 || level >= 1 {
		level = 0.95
	}
	q := distuv.UnitNormal.Quantile(1 - (1-level)/2)

	params := m.Params()
	se := StdErr(m)
	lower = make([]float64, len(params))
	upper = make([]float64, len(params))
	for i := range params {
		lower[i] = params[i] - q*se[i]
		upper[i] = params[i] + q*se[i]
	}
	return lower, upper
}

// AIC is -2*loglik + 2k.
func AIC(m *model.FittedModel) float64 {
	return -2*m.LogLik() + 2*float64(m.NumParams())
}

// BIC is -2*loglik + k*log(n).
func BIC(m *model.FittedModel) float64 {
	return -2*m.LogLik() + float64(m.NumParams())*math.Log(float64(m.NumObs()))
}
