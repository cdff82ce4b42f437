// Package optimizer dispatches likelihood minimization across local
// (gonum/optimize) and global stochastic (differential evolution, simulated
// annealing) strategies, and computes the numerical Hessian at the optimum.
package optimizer

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"vipfit/domain/core"
)

// Objective is the function being minimized: the negative log-likelihood
// evaluated at a candidate parameter vector. It must be pure; the global
// strategies evaluate it concurrently.
type Objective func(p []float64) float64

// Method names accepted by Minimize.
const (
	MethodNelderMead = "neldermead"
	MethodBFGS       = "bfgs"
	MethodLBFGS      = "lbfgs"
	MethodCG         = "cg"
	MethodSANN       = "sann"
	MethodDE         = "de"
)

// Options configures a minimization run.
type Options struct {
	// Method selects the strategy; empty means Nelder-Mead.
	Method string

	// Start is the initial point. Required; the fit layer defaults it to zeros.
	Start []float64

	// Hessian requests the numerical Hessian of the objective at the optimum.
	Hessian bool

	// Seed drives the stochastic strategies. Runs with the same seed, start
	// and objective reproduce the same optimum.
	Seed uint64

	// Bound is the half-width of the symmetric search box for differential
	// evolution; 0 means the default of 10 per parameter.
	Bound float64

	// Generations caps the DE iteration budget; 0 means 200 per dimension.
	Generations int

	// Population is the DE population size; 0 means max(20, 15*dim).
	Population int

	// AnnealIter is the simulated-annealing iteration budget; 0 means 10000.
	AnnealIter int
}

// Result is the outcome of a minimization.
type Result struct {
	// X is the best parameter vector found. Freshly allocated per run.
	X []float64

	// Value is the objective value at X.
	Value float64

	// Hessian is the finite-difference Hessian at X, or nil if not requested.
	Hessian *mat.SymDense

	// Method is the strategy that produced the result.
	Method string
}

// Minimize runs the selected strategy. Inner minimizer failures propagate as
// ErrOptimizerFailed; there is no silent fallback between strategies.
func Minimize(obj Objective, opts Options) (*Result, error) {
	method := opts.Method
	if method == "" {
		method = MethodNelderMead
	}

	var (
		x   []float64
		val float64
		err error
	)
	switch method {
	case MethodNelderMead, MethodBFGS, MethodLBFGS, MethodCG:
		x, val, err = minimizeLocal(obj, opts.Start, method)
	case MethodSANN:
		x, val, err = minimizeAnneal(obj, opts.Start, opts.Seed, opts.AnnealIter)
	case MethodDE:
		x, val, err = minimizeDE(obj, opts.Start, opts)
	default:
		return nil, core.NewValidationError(core.ErrUnknownMethod, method)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{X: x, Value: val, Method: method}
	if opts.Hessian {
		res.Hessian = NumericalHessian(obj, x)
	}
	return res, nil
}

// minimizeLocal delegates to gonum/optimize. Gradients for the
// gradient-based methods are estimated by finite differences inside gonum.
func minimizeLocal(obj Objective, start []float64, method string) ([]float64, float64, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 { return obj(x) },
	}

	var m optimize.Method
	switch method {
	case MethodBFGS:
		m = &optimize.BFGS{}
	case MethodLBFGS:
		m = &optimize.LBFGS{}
	case MethodCG:
		m = &optimize.CG{}
	default:
		m = &optimize.NelderMead{}
	}

	result, err := optimize.Minimize(problem, start, nil, m)
	if err != nil {
		return nil, 0, core.NewOptimizerError(method, err)
	}
	if err := result.Status.Err(); err != nil {
		return nil, 0, core.NewOptimizerError(method, err)
	}

	x := append([]float64(nil), result.X...)
	return x, result.F, nil
}

// NumericalHessian computes the finite-difference Hessian of obj at x.
func NumericalHessian(obj Objective, x []float64) *mat.SymDense {
	h := mat.NewSymDense(len(x), nil)
	fd.Hessian(h, func(p []float64) float64 { return obj(p) }, x, nil)
	return h
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
