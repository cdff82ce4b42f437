package gof

import (
	"math"
	"testing"

	"vipfit/domain/model"
)

func fitted(t *testing.T, y []int, cfg model.ContextConfig, params []float64) *model.FittedModel {
	t.Helper()
	ctx, err := model.NewFitContext(y, cfg)
	if err != nil {
		t.Fatalf("NewFitContext: %v", err)
	}
	return model.NewFittedModel(ctx, params, -1, nil, "neldermead", make([]float64, len(params)))
}

func TestEvaluate_ObservedFractions(t *testing.T) {
	y := []int{0, 0, 1, 2, 2, 2, 3, 5}
	m := fitted(t, y, model.ContextConfig{V: 2}, []float64{0.5, 0.0})

	table := Evaluate(m, 0)
	if table.Counts[0] != 0 || table.Counts[len(table.Counts)-1] != 5 {
		t.Fatalf("range = [%d..%d], want [0..5]", table.Counts[0], table.Counts[len(table.Counts)-1])
	}

	want := []float64{2.0 / 8, 1.0 / 8, 3.0 / 8, 1.0 / 8, 0, 1.0 / 8}
	for i := range want {
		if math.Abs(table.Observed[i]-want[i]) > 1e-12 {
			t.Errorf("observed[%d] = %g, want %g", i, table.Observed[i], want[i])
		}
	}

	var total float64
	for _, o := range table.Observed {
		total += o
	}
	if math.Abs(total-1) > 1e-12 {
		t.Errorf("observed mass = %g, want 1", total)
	}
}

func TestEvaluate_ExpectedMassApproachesOne(t *testing.T) {
	y := []int{0, 1, 2, 3}
	m := fitted(t, y, model.ContextConfig{V: 2}, []float64{0.3, -0.5})

	// With a generous upper bound the expected column captures essentially
	// the whole mixture mass.
	table := Evaluate(m, 40)
	var total float64
	for _, e := range table.Expected {
		total += e
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("expected mass over 0..40 = %.12f, want 1", total)
	}
}

func TestEvaluate_TruncatedRangeStartsAtOne(t *testing.T) {
	y := []int{1, 1, 2, 3}
	m := fitted(t, y, model.ContextConfig{V: 2, Truncate: true}, []float64{0.4, 0.0})

	table := Evaluate(m, 30)
	if table.Counts[0] != 1 {
		t.Fatalf("truncated table starts at %d, want 1", table.Counts[0])
	}

	var obs, exp float64
	for i := range table.Counts {
		obs += table.Observed[i]
		exp += table.Expected[i]
	}
	if math.Abs(obs-1) > 1e-12 {
		t.Errorf("observed mass = %g, want 1", obs)
	}
	if math.Abs(exp-1) > 1e-9 {
		t.Errorf("truncated expected mass = %.12f, want 1", exp)
	}
}

func TestTotalAbsDeviation(t *testing.T) {
	table := &Table{
		Counts:   []int{0, 1, 2},
		Observed: []float64{0.5, 0.3, 0.2},
		Expected: []float64{0.4, 0.4, 0.2},
	}
	if got := table.TotalAbsDeviation(); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("TotalAbsDeviation = %g, want 0.2", got)
	}
}
