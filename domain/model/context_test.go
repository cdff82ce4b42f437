package model

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"vipfit/domain/core"
)

func TestNewFitContext_Defaults(t *testing.T) {
	ctx, err := NewFitContext([]int{0, 1, 2, 3}, ContextConfig{V: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.N() != 4 {
		t.Errorf("N = %d, want 4", ctx.N())
	}
	if ctx.KX() != 1 || ctx.KZ() != 1 {
		t.Errorf("default designs should be intercept-only, got kx=%d kz=%d", ctx.KX(), ctx.KZ())
	}
	if ctx.NumParams() != 2 {
		t.Errorf("NumParams = %d, want 2", ctx.NumParams())
	}
	for i := 0; i < ctx.N(); i++ {
		if ctx.Weight(i) != 1 {
			t.Errorf("default weight[%d] = %g, want 1", i, ctx.Weight(i))
		}
	}

	names := ctx.ParamNames()
	want := []string{"P_(Intercept)", "V_(Intercept)"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestNewFitContext_Validation(t *testing.T) {
	tests := []struct {
		name string
		y    []int
		cfg  ContextConfig
		want error
	}{
		{"empty counts", nil, ContextConfig{}, core.ErrNoCounts},
		{"negative count", []int{1, -1}, ContextConfig{}, core.ErrNegativeCount},
		{"truncate with zero count", []int{0, 1, 2}, ContextConfig{Truncate: true, V: 2}, core.ErrTruncatePositive},
		{"truncate with v below one", []int{1, 2}, ContextConfig{Truncate: true, V: 0}, core.ErrTruncateValue},
		{"x row mismatch", []int{1, 2, 3}, ContextConfig{X: mat.NewDense(2, 1, []float64{1, 1})}, core.ErrDimensionMismatch},
		{"z row mismatch", []int{1, 2, 3}, ContextConfig{Z: mat.NewDense(4, 1, nil)}, core.ErrDimensionMismatch},
		{"weights length", []int{1, 2, 3}, ContextConfig{Weights: []float64{1, 1}}, core.ErrDimensionMismatch},
		{"negative weight", []int{1, 2, 3}, ContextConfig{Weights: []float64{1, -1, 1}}, core.ErrNegativeWeight},
		{"bad offset length", []int{1, 2, 3}, ContextConfig{OffsetX: []float64{0, 0}}, core.ErrDimensionMismatch},
		{"unknown link", []int{1, 2, 3}, ContextConfig{Link: "cauchit"}, core.ErrUnknownLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFitContext(tt.y, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !core.IsInvalidInput(err) {
				t.Errorf("error %v should classify as invalid input", err)
			}
		})
	}
}

func TestMeanInflation(t *testing.T) {
	// Two observations, one covariate each side, known parameters.
	x := mat.NewDense(2, 2, []float64{
		1, 0,
		1, 1,
	})
	z := mat.NewDense(2, 2, []float64{
		1, 0,
		1, 2,
	})
	ctx, err := NewFitContext([]int{1, 2}, ContextConfig{X: x, Z: z, OffsetX: []float64{0.5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := []float64{0.2, 0.3, -0.1, 0.4} // beta=(0.2,0.3), alpha=(-0.1,0.4)
	mu, phi := ctx.MeanInflation(p)

	wantMu0 := math.Exp(0.2 + 0.5)
	wantMu1 := math.Exp(0.2 + 0.3 + 0.5)
	if math.Abs(mu[0]-wantMu0) > 1e-12 || math.Abs(mu[1]-wantMu1) > 1e-12 {
		t.Errorf("mu = %v, want [%g %g]", mu, wantMu0, wantMu1)
	}

	logistic := func(e float64) float64 { return 1 / (1 + math.Exp(-e)) }
	if math.Abs(phi[0]-logistic(-0.1)) > 1e-12 {
		t.Errorf("phi[0] = %g, want %g", phi[0], logistic(-0.1))
	}
	if math.Abs(phi[1]-logistic(-0.1+0.8)) > 1e-12 {
		t.Errorf("phi[1] = %g, want %g", phi[1], logistic(0.7))
	}
}

func TestLinkInverses(t *testing.T) {
	logit, _ := NewLink(LinkLogit)
	probit, _ := NewLink(LinkProbit)
	cloglog, _ := NewLink(LinkCloglog)

	if got := logit.Inv(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("logit inv(0) = %g, want 0.5", got)
	}
	if got := probit.Inv(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("probit inv(0) = %g, want 0.5", got)
	}
	want := 1 - math.Exp(-1)
	if got := cloglog.Inv(0); math.Abs(got-want) > 1e-12 {
		t.Errorf("cloglog inv(0) = %g, want %g", got, want)
	}

	// Fn and Inv are inverses of each other.
	for _, link := range []Link{logit, probit, cloglog} {
		for _, p := range []float64{0.1, 0.4, 0.9} {
			if got := link.Inv(link.Fn(p)); math.Abs(got-p) > 1e-9 {
				t.Errorf("%s: inv(fn(%g)) = %g", link.Name, p, got)
			}
		}
	}
}

func TestScalarOffsetBroadcast(t *testing.T) {
	ctx, err := NewFitContext([]int{1, 2, 3}, ContextConfig{OffsetX: []float64{1.5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mu, _ := ctx.MeanInflation([]float64{0, 0})
	want := math.Exp(1.5)
	for i, m := range mu {
		if math.Abs(m-want) > 1e-12 {
			t.Errorf("mu[%d] = %g, want %g", i, m, want)
		}
	}
}
