// Package vipfit fits count-data regression models in which one specific
// count value V carries excess probability mass beyond the Poisson model,
// optionally combined with zero truncation.
package vipfit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"vipfit/domain/core"
	"vipfit/domain/model"
	"vipfit/internal/likelihood"
	"vipfit/internal/linalg"
	"vipfit/internal/optimizer"
)

// Config collects the optional arguments of a fit call. The zero value
// selects intercept-only designs, V=0, unit weights, the logit link,
// Nelder-Mead minimization and Hessian-derived covariance.
type Config struct {
	// X is the n x kx design matrix for the mean model; nil means a single
	// intercept column.
	X *mat.Dense

	// Z is the n x kz design matrix for the inflation-probability model;
	// nil means a single intercept column.
	Z *mat.Dense

	// XNames and ZNames label the design columns in parameter names.
	XNames []string
	ZNames []string

	// OffsetX and OffsetZ are added to the respective linear predictors.
	// Each may be empty (zero), a single scalar, or length n.
	OffsetX []float64
	OffsetZ []float64

	// Weights are non-negative case weights; nil means all ones.
	Weights []float64

	// V is the inflated count value. Fixed, not estimated.
	V int

	// Truncate selects the zero-truncated model; requires all counts and V
	// to be at least 1.
	Truncate bool

	// Link selects the inflation-model link; empty means logit.
	Link model.LinkName

	// Method names the optimizer strategy: neldermead (default), bfgs,
	// lbfgs, cg, sann or de.
	Method string

	// Start is the initial parameter vector; nil means all zeros.
	Start []float64

	// NoHessian skips Hessian computation; covariance is then reported as
	// unknown rather than estimated.
	NoHessian bool

	// Seed makes the stochastic strategies (sann, de) reproducible.
	Seed uint64

	// Opt forwards method-specific optimizer options.
	Opt OptimizerOptions
}

// OptimizerOptions are forwarded opaquely to the selected strategy.
type OptimizerOptions struct {
	// Bound is the DE search-box half-width (default 10).
	Bound float64
	// Generations caps DE iterations (default 200 per parameter).
	Generations int
	// Population is the DE population size (default max(20, 15*dim)).
	Population int
	// AnnealIter is the simulated-annealing budget (default 10000).
	AnnealIter int
}

// Fit estimates the V-inflated Poisson model on the observed counts y and
// returns the immutable fitted-model value. Invalid preconditions fail here
// before any optimization; optimizer non-convergence propagates as a fatal
// error with no silent strategy fallback.
func Fit(y []int, cfg Config) (*model.FittedModel, error) {
	ctx, err := model.NewFitContext(y, model.ContextConfig{
		X:        cfg.X,
		Z:        cfg.Z,
		XNames:   cfg.XNames,
		ZNames:   cfg.ZNames,
		OffsetX:  cfg.OffsetX,
		OffsetZ:  cfg.OffsetZ,
		Weights:  cfg.Weights,
		V:        cfg.V,
		Truncate: cfg.Truncate,
		Link:     cfg.Link,
	})
	if err != nil {
		return nil, err
	}

	start := cfg.Start
	if start == nil {
		start = make([]float64, ctx.NumParams())
	} else if len(start) != ctx.NumParams() {
		return nil, core.NewValidationError(core.ErrDimensionMismatch,
			fmt.Sprintf("start has length %d, want %d", len(start), ctx.NumParams()))
	}

	obj := func(p []float64) float64 {
		return likelihood.NegLogLik(p, ctx)
	}

	res, err := optimizer.Minimize(obj, optimizer.Options{
		Method:      cfg.Method,
		Start:       start,
		Hessian:     !cfg.NoHessian,
		Seed:        cfg.Seed,
		Bound:       cfg.Opt.Bound,
		Generations: cfg.Opt.Generations,
		Population:  cfg.Opt.Population,
		AnnealIter:  cfg.Opt.AnnealIter,
	})
	if err != nil {
		return nil, err
	}

	var cov *mat.SymDense
	if res.Hessian != nil {
		cov = linalg.Covariance(res.Hessian, ctx.NumParams())
	}

	startCopy := append([]float64(nil), start...)
	return model.NewFittedModel(ctx, res.X, -res.Value, cov, res.Method, startCopy), nil
}
