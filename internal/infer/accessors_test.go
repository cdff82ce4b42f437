package infer

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"vipfit/domain/model"
)

func fittedWithCov(t *testing.T, params []float64, loglik float64, cov *mat.SymDense) *model.FittedModel {
	t.Helper()
	ctx, err := model.NewFitContext([]int{0, 1, 2, 3, 4}, model.ContextConfig{V: 0})
	if err != nil {
		t.Fatalf("NewFitContext: %v", err)
	}
	return model.NewFittedModel(ctx, params, loglik, cov, "neldermead", make([]float64, len(params)))
}

func TestWaldColumns(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{
		0.04, 0,
		0, 0.25,
	})
	m := fittedWithCov(t, []float64{1.0, -0.5}, -12.5, cov)

	se := StdErr(m)
	if math.Abs(se[0]-0.2) > 1e-12 || math.Abs(se[1]-0.5) > 1e-12 {
		t.Errorf("se = %v, want [0.2 0.5]", se)
	}

	z := ZScores(m)
	if math.Abs(z[0]-5) > 1e-12 || math.Abs(z[1]+1) > 1e-12 {
		t.Errorf("z = %v, want [5 -1]", z)
	}

	p := PValues(m)
	if p[0] > 1e-5 {
		t.Errorf("p[0] = %g, want near 0 for z=5", p[0])
	}
	// Two-sided p for |z|=1 is about 0.3173.
	if math.Abs(p[1]-0.3173) > 1e-3 {
		t.Errorf("p[1] = %g, want ~0.3173", p[1])
	}
}

func TestConfInt(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{
		1, 0,
		0, 1,
	})
	m := fittedWithCov(t, []float64{2.0, 0.0}, -10, cov)

	lower, upper := ConfInt(m, 0.95)
	// 95% normal quantile is about 1.95996.
	if math.Abs(lower[0]-(2-1.95996)) > 1e-4 || math.Abs(upper[0]-(2+1.95996)) > 1e-4 {
		t.Errorf("CI[0] = (%g, %g), want 2 +/- 1.95996", lower[0], upper[0])
	}

	// Intervals are symmetric around the estimate.
	if math.Abs((lower[1]+upper[1])/2) > 1e-12 {
		t.Errorf("CI[1] midpoint = %g, want 0", (lower[1]+upper[1])/2)
	}

	// Higher confidence widens the interval.
	l99, u99 := ConfInt(m, 0.99)
	if u99[0]-l99[0] <= upper[0]-lower[0] {
		t.Error("99% interval is not wider than the 95% interval")
	}

	// Nonsense levels fall back to 0.95.
	lBad, uBad := ConfInt(m, 1.7)
	if lBad[0] != lower[0] || uBad[0] != upper[0] {
		t.Error("out-of-range level did not fall back to 0.95")
	}
}

func TestInformationCriteria(t *testing.T) {
	m := fittedWithCov(t, []float64{0.1, 0.2}, -40, nil)

	// k=2, n=5.
	if got, want := AIC(m), 84.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("AIC = %g, want %g", got, want)
	}
	if got, want := BIC(m), 80+2*math.Log(5); math.Abs(got-want) > 1e-12 {
		t.Errorf("BIC = %g, want %g", got, want)
	}
}

func TestUnknownCovariancePropagatesNaN(t *testing.T) {
	m := fittedWithCov(t, []float64{0.5, -0.5}, -20, nil)
	if m.HasCov() {
		t.Fatal("model without Hessian reports a covariance")
	}

	for i, se := range StdErr(m) {
		if !math.IsNaN(se) {
			t.Errorf("se[%d] = %g, want NaN", i, se)
		}
	}
	for i, p := range PValues(m) {
		if !math.IsNaN(p) {
			t.Errorf("p[%d] = %g, want NaN", i, p)
		}
	}
	lower, upper := ConfInt(m, 0.95)
	if !math.IsNaN(lower[0]) || !math.IsNaN(upper[0]) {
		t.Error("confidence bounds should be NaN without a covariance")
	}

	// Information criteria depend only on loglik, k and n.
	if math.IsNaN(AIC(m)) || math.IsNaN(BIC(m)) {
		t.Error("AIC/BIC must stay defined without a covariance")
	}
}
