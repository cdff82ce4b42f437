package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"vipfit/domain/core"
)

// FitContext is the immutable bundle of observations and model configuration
// shared by every objective evaluation of a single fit call. It carries no
// mutable state, so concurrent evaluations at different candidate parameter
// vectors are safe.
type FitContext struct {
	y       []int
	x       *mat.Dense // n x kx mean-model design
	z       *mat.Dense // n x kz inflation-model design
	xNames  []string
	zNames  []string
	offsetX []float64
	offsetZ []float64
	weights []float64
	v       int
	trunc   bool
	linkZ   Link
}

// ContextConfig collects the optional pieces of a FitContext. Zero values
// select the defaults: intercept-only designs, zero offsets, unit weights,
// logit link.
type ContextConfig struct {
	X        *mat.Dense
	Z        *mat.Dense
	XNames   []string
	ZNames   []string
	OffsetX  []float64
	OffsetZ  []float64
	Weights  []float64
	V        int
	Truncate bool
	Link     LinkName
}

// NewFitContext validates the inputs and builds an immutable FitContext.
// All precondition failures surface here, before any optimization runs.
func NewFitContext(y []int, cfg ContextConfig) (*FitContext, error) {
	n := len(y)
	if n == 0 {
		return nil, core.ErrNoCounts
	}
	for i, yi := range y {
		if yi < 0 {
			return nil, core.NewValidationError(core.ErrNegativeCount, fmt.Sprintf("y[%d] = %d", i, yi))
		}
	}
	if cfg.Truncate {
		if cfg.V < 1 {
			return nil, core.NewValidationError(core.ErrTruncateValue, fmt.Sprintf("v = %d", cfg.V))
		}
		for i, yi := range y {
			if yi < 1 {
				return nil, core.NewValidationError(core.ErrTruncatePositive, fmt.Sprintf("y[%d] = %d", i, yi))
			}
		}
	}

	x := cfg.X
	if x == nil {
		x = interceptColumn(n)
	}
	z := cfg.Z
	if z == nil {
		z = interceptColumn(n)
	}
	if r, _ := x.Dims(); r != n {
		return nil, core.NewValidationError(core.ErrDimensionMismatch, fmt.Sprintf("X has %d rows, want %d", r, n))
	}
	if r, _ := z.Dims(); r != n {
		return nil, core.NewValidationError(core.ErrDimensionMismatch, fmt.Sprintf("Z has %d rows, want %d", r, n))
	}

	weights := cfg.Weights
	if weights == nil {
		weights = constants(n, 1)
	} else if len(weights) != n {
		return nil, core.NewValidationError(core.ErrDimensionMismatch, fmt.Sprintf("weights has length %d, want %d", len(weights), n))
	}
	for i, w := range weights {
		if w < 0 {
			return nil, core.NewValidationError(core.ErrNegativeWeight, fmt.Sprintf("weights[%d] = %g", i, w))
		}
	}

	offsetX, err := expandOffset(cfg.OffsetX, n, "offsetX")
	if err != nil {
		return nil, err
	}
	offsetZ, err := expandOffset(cfg.OffsetZ, n, "offsetZ")
	if err != nil {
		return nil, err
	}

	link, err := NewLink(cfg.Link)
	if err != nil {
		return nil, err
	}

	_, kx := x.Dims()
	_, kz := z.Dims()

	return &FitContext{
		y:       append([]int(nil), y...),
		x:       mat.DenseCopyOf(x),
		z:       mat.DenseCopyOf(z),
		xNames:  designNames(cfg.XNames, kx),
		zNames:  designNames(cfg.ZNames, kz),
		offsetX: offsetX,
		offsetZ: offsetZ,
		weights: append([]float64(nil), weights...),
		v:       cfg.V,
		trunc:   cfg.Truncate,
		linkZ:   link,
	}, nil
}

// N returns the number of observations.
func (c *FitContext) N() int { return len(c.y) }

// NumParams returns kx + kz, the length of the parameter vector.
func (c *FitContext) NumParams() int {
	_, kx := c.x.Dims()
	_, kz := c.z.Dims()
	return kx + kz
}

// KX returns the width of the mean-model design matrix.
func (c *FitContext) KX() int { _, kx := c.x.Dims(); return kx }

// KZ returns the width of the inflation-model design matrix.
func (c *FitContext) KZ() int { _, kz := c.z.Dims(); return kz }

// Y returns observation i.
func (c *FitContext) Y(i int) int { return c.y[i] }

// Counts returns a copy of the observed counts.
func (c *FitContext) Counts() []int { return append([]int(nil), c.y...) }

// Weight returns the case weight of observation i.
func (c *FitContext) Weight(i int) float64 { return c.weights[i] }

// V returns the inflated count value.
func (c *FitContext) V() int { return c.v }

// Truncated reports whether the zero-truncated model is in effect.
func (c *FitContext) Truncated() bool { return c.trunc }

// LinkZ returns the inflation-model link.
func (c *FitContext) LinkZ() Link { return c.linkZ }

// MaxCount returns the largest observed count.
func (c *FitContext) MaxCount() int {
	m := c.y[0]
	for _, yi := range c.y[1:] {
		if yi > m {
			m = yi
		}
	}
	return m
}

// ParamNames returns the semantic parameter names: P_<col> for the mean
// model followed by V_<col> for the inflation model.
func (c *FitContext) ParamNames() []string {
	names := make([]string, 0, c.NumParams())
	for _, nm := range c.xNames {
		names = append(names, "P_"+nm)
	}
	for _, nm := range c.zNames {
		names = append(names, "V_"+nm)
	}
	return names
}

// MeanInflation computes the per-observation Poisson mean mu_i and inflation
// probability phi_i implied by the parameter vector p = (beta, alpha).
// mu_i = exp(X_i . beta + offsetX_i); phi_i = linkinv(Z_i . alpha + offsetZ_i).
func (c *FitContext) MeanInflation(p []float64) (mu, phi []float64) {
	n := c.N()
	_, kx := c.x.Dims()
	_, kz := c.z.Dims()
	beta := p[:kx]
	alpha := p[kx : kx+kz]

	mu = make([]float64, n)
	phi = make([]float64, n)
	for i := 0; i < n; i++ {
		etaX := c.offsetX[i]
		for j := 0; j < kx; j++ {
			etaX += c.x.At(i, j) * beta[j]
		}
		mu[i] = math.Exp(etaX)

		etaZ := c.offsetZ[i]
		for j := 0; j < kz; j++ {
			etaZ += c.z.At(i, j) * alpha[j]
		}
		phi[i] = c.linkZ.Inv(etaZ)
	}
	return mu, phi
}

func interceptColumn(n int) *mat.Dense {
	return mat.NewDense(n, 1, constants(n, 1))
}

func constants(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// expandOffset accepts nil (zeros), a scalar (broadcast), or a length-n slice.
func expandOffset(off []float64, n int, name string) ([]float64, error) {
	switch len(off) {
	case 0:
		return make([]float64, n), nil
	case 1:
		return constants(n, off[0]), nil
	case n:
		return append([]float64(nil), off...), nil
	default:
		return nil, core.NewValidationError(core.ErrDimensionMismatch,
			fmt.Sprintf("%s has length %d, want 1 or %d", name, len(off), n))
	}
}

func designNames(names []string, k int) []string {
	out := make([]string, k)
	for j := 0; j < k; j++ {
		if j < len(names) && names[j] != "" {
			out[j] = names[j]
			continue
		}
		if j == 0 {
			out[j] = "(Intercept)"
		} else {
			out[j] = fmt.Sprintf("x%d", j)
		}
	}
	return out
}
