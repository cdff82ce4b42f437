package model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"vipfit/domain/core"
)

var nanValue = math.NaN()

// FittedModel is the immutable result of a fit call. It is created once by
// the fit operation and only ever read afterwards, by the accessor functions
// and the goodness-of-fit evaluator.
type FittedModel struct {
	id        core.FitID
	params    []float64
	names     []string
	loglik    float64
	cov       *mat.SymDense // nil when Hessian computation was skipped
	ctx       *FitContext
	method    string
	start     []float64
	createdAt core.Timestamp
}

// NewFittedModel assembles a fitted-model value. The caller hands over
// ownership of params, start and cov; they must not be mutated afterwards.
func NewFittedModel(ctx *FitContext, params []float64, loglik float64, cov *mat.SymDense, method string, start []float64) *FittedModel {
	return &FittedModel{
		id:        core.NewFitID(),
		params:    params,
		names:     ctx.ParamNames(),
		loglik:    loglik,
		cov:       cov,
		ctx:       ctx,
		method:    method,
		start:     start,
		createdAt: core.Now(),
	}
}

// ID returns the fit identifier.
func (m *FittedModel) ID() core.FitID { return m.id }

// Params returns a copy of the estimated parameter vector (beta then alpha).
func (m *FittedModel) Params() []float64 { return append([]float64(nil), m.params...) }

// Names returns the semantic parameter names aligned with Params.
func (m *FittedModel) Names() []string { return append([]string(nil), m.names...) }

// LogLik returns the achieved log-likelihood.
func (m *FittedModel) LogLik() float64 { return m.loglik }

// Cov returns the parameter covariance matrix. Entries are NaN when the
// Hessian was skipped; HasCov distinguishes the two cases.
func (m *FittedModel) Cov() *mat.SymDense {
	k := len(m.params)
	out := mat.NewSymDense(k, nil)
	if m.cov == nil {
		nan := mat.NewSymDense(k, nil)
		for i := 0; i < k; i++ {
			for j := i; j < k; j++ {
				nan.SetSym(i, j, nanValue)
			}
		}
		return nan
	}
	out.CopySym(m.cov)
	return out
}

// HasCov reports whether a Hessian-derived covariance is available.
func (m *FittedModel) HasCov() bool { return m.cov != nil }

// NumObs returns the sample size n.
func (m *FittedModel) NumObs() int { return m.ctx.N() }

// NumParams returns the parameter count kx + kz.
func (m *FittedModel) NumParams() int { return len(m.params) }

// Context returns the fit context the model was estimated on.
func (m *FittedModel) Context() *FitContext { return m.ctx }

// Method returns the optimizer method used.
func (m *FittedModel) Method() string { return m.method }

// Start returns a copy of the initial parameter vector used.
func (m *FittedModel) Start() []float64 { return append([]float64(nil), m.start...) }

// CreatedAt returns when the fit completed.
func (m *FittedModel) CreatedAt() core.Timestamp { return m.createdAt }

// MeanInflation evaluates the fitted per-observation mu_i and phi_i.
func (m *FittedModel) MeanInflation() (mu, phi []float64) {
	return m.ctx.MeanInflation(m.params)
}
