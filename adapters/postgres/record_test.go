package postgres

import (
	"math"
	"testing"

	"vipfit"
	"vipfit/internal/testkit"
)

func TestNewFitRecord(t *testing.T) {
	y := testkit.SimulateIntercept(400, 2.0, 0.4, 2, 8)
	m, err := vipfit.Fit(y, vipfit.Config{V: 2})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	rec := NewFitRecord(m, 0.95)
	if rec.ID != m.ID().String() {
		t.Errorf("ID = %q, want %q", rec.ID, m.ID().String())
	}
	if rec.V != 2 || rec.Truncated {
		t.Errorf("V=%d truncated=%v, want V=2 untruncated", rec.V, rec.Truncated)
	}
	if rec.Link != "logit" {
		t.Errorf("link = %q, want logit", rec.Link)
	}
	if rec.NumObs != 400 {
		t.Errorf("NumObs = %d, want 400", rec.NumObs)
	}
	if len(rec.Coefficients) != 2 {
		t.Fatalf("len(coefficients) = %d, want 2", len(rec.Coefficients))
	}
	for i, c := range rec.Coefficients {
		if c.Position != i || c.FitID != rec.ID {
			t.Errorf("coef[%d] position/fit_id wrong: %+v", i, c)
		}
		if !c.StdErr.Valid || c.StdErr.Float64 <= 0 {
			t.Errorf("coef[%d] std err = %+v, want valid positive", i, c.StdErr)
		}
	}
}

func TestNewFitRecord_UnknownUncertaintyBecomesNull(t *testing.T) {
	y := testkit.SimulateIntercept(200, 1.5, 0.3, 1, 4)
	m, err := vipfit.Fit(y, vipfit.Config{V: 1, NoHessian: true})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	rec := NewFitRecord(m, 0.95)
	for i, c := range rec.Coefficients {
		if c.StdErr.Valid || c.Z.Valid || c.P.Valid {
			t.Errorf("coef[%d]: unknown uncertainty must persist as NULL", i)
		}
		if math.IsNaN(c.Estimate) {
			t.Errorf("coef[%d]: estimate must stay defined", i)
		}
	}
}

func TestNullable(t *testing.T) {
	if v := nullable(1.25); !v.Valid || v.Float64 != 1.25 {
		t.Errorf("nullable(1.25) = %+v", v)
	}
	if v := nullable(math.NaN()); v.Valid {
		t.Error("nullable(NaN) should be invalid")
	}
	if v := nullable(math.Inf(1)); v.Valid {
		t.Error("nullable(+Inf) should be invalid")
	}
}
