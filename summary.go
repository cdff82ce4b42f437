package vipfit

import (
	"vipfit/domain/model"
	"vipfit/internal/gof"
	"vipfit/internal/infer"
)

// Coefficient is one row of the fitted coefficient table.
type Coefficient struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	Z        float64 `json:"z"`
	P        float64 `json:"p"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// Coefficients derives the full coefficient table from a fitted model at the
// given confidence level. Unknown covariance yields NaN uncertainty columns.
func Coefficients(m *model.FittedModel, level float64) []Coefficient {
	names := m.Names()
	params := m.Params()
	se := infer.StdErr(m)
	z := infer.ZScores(m)
	p := infer.PValues(m)
	lo, hi := infer.ConfInt(m, level)

	out := make([]Coefficient, len(params))
	for i := range params {
		out[i] = Coefficient{
			Name:     names[i],
			Estimate: params[i],
			StdErr:   se[i],
			Z:        z[i],
			P:        p[i],
			Lower:    lo[i],
			Upper:    hi[i],
		}
	}
	return out
}

// AIC returns the Akaike information criterion of the fitted model.
func AIC(m *model.FittedModel) float64 { return infer.AIC(m) }

// BIC returns the Bayesian information criterion of the fitted model.
func BIC(m *model.FittedModel) float64 { return infer.BIC(m) }

// GoodnessOfFit compares observed and model-implied probability mass over
// the count range. maxCount <= 0 selects the maximum observed count.
func GoodnessOfFit(m *model.FittedModel, maxCount int) *gof.Table {
	return gof.Evaluate(m, maxCount)
}
