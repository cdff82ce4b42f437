// Package gof compares the empirical count distribution against the
// model-implied one over the evaluated count range.
package gof

import (
	"math"

	"github.com/montanaflynn/stats"

	"vipfit/domain/model"
	"vipfit/internal/likelihood"
)

// Table pairs observed and model-implied probability mass per count value.
// The evaluated range is 0..max for untruncated fits and 1..max for
// zero-truncated fits.
type Table struct {
	Counts   []int
	Observed []float64
	Expected []float64
}

// Evaluate builds the observed/expected probability table for a fitted
// model. maxCount <= 0 selects the maximum observed count.
//
// Observed mass at c is the fraction of observations equal to c. Expected
// mass at c averages, across observations, the mixture probability of c
// given each observation's covariate-implied mu_i and phi_i, applying the
// same mixture-at-V and truncation logic as the likelihood.
func Evaluate(m *model.FittedModel, maxCount int) *Table {
	ctx := m.Context()
	if maxCount <= 0 {
		maxCount = ctx.MaxCount()
	}
	lo := 0
	if ctx.Truncated() {
		lo = 1
	}

	mu, phi := m.MeanInflation()
	n := ctx.N()
	v := ctx.V()
	trunc := ctx.Truncated()

	counts := make([]int, 0, maxCount-lo+1)
	observed := make([]float64, 0, maxCount-lo+1)
	expected := make([]float64, 0, maxCount-lo+1)

	for c := lo; c <= maxCount; c++ {
		var hits int
		var mass float64
		for i := 0; i < n; i++ {
			if ctx.Y(i) == c {
				hits++
			}
			mass += likelihood.MixturePMF(c, mu[i], phi[i], v, trunc)
		}
		counts = append(counts, c)
		observed = append(observed, float64(hits)/float64(n))
		expected = append(expected, mass/float64(n))
	}

	return &Table{Counts: counts, Observed: observed, Expected: expected}
}

// TotalAbsDeviation sums |observed - expected| over the table, a simple
// scalar the caller can use to compare candidate models.
func (t *Table) TotalAbsDeviation() float64 {
	dev := make([]float64, len(t.Counts))
	for i := range dev {
		dev[i] = math.Abs(t.Observed[i] - t.Expected[i])
	}
	total, err := stats.Sum(dev)
	if err != nil {
		return 0
	}
	return total
}
