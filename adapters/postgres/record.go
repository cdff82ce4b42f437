package postgres

import (
	"database/sql"
	"math"

	"vipfit"
	"vipfit/domain/model"
)

// NewFitRecord flattens a fitted model into its persisted form. Unknown
// uncertainty values (NaN, from a skipped Hessian) become SQL NULLs.
func NewFitRecord(m *model.FittedModel, level float64) *FitRecord {
	coefs := vipfit.Coefficients(m, level)
	rows := make([]CoefRecord, len(coefs))
	for i, c := range coefs {
		rows[i] = CoefRecord{
			FitID:    m.ID().String(),
			Position: i,
			Name:     c.Name,
			Estimate: c.Estimate,
			StdErr:   nullable(c.StdErr),
			Z:        nullable(c.Z),
			P:        nullable(c.P),
		}
	}

	return &FitRecord{
		ID:           m.ID().String(),
		CreatedAt:    m.CreatedAt().Time(),
		Method:       m.Method(),
		V:            m.Context().V(),
		Truncated:    m.Context().Truncated(),
		Link:         string(m.Context().LinkZ().Name),
		NumObs:       m.NumObs(),
		LogLik:       m.LogLik(),
		AIC:          vipfit.AIC(m),
		BIC:          vipfit.BIC(m),
		Coefficients: rows,
	}
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
