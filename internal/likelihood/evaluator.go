// Package likelihood implements the negative log-likelihood of the
// V-inflated Poisson regression model, with optional zero truncation.
//
// The model places excess probability mass phi_i on the count V:
//
//	P(Y_i = V)     = phi_i + (1-phi_i) * Pois(V; mu_i)
//	P(Y_i = y!=V)  = (1-phi_i) * Pois(y; mu_i)
//
// Under zero truncation the Poisson mass is renormalized by the survival
// factor 1 - exp(-mu_i), reflecting that zero counts are unobservable.
package likelihood

import (
	"math"

	"vipfit/domain/model"
)

// NegLogLik returns the negative weighted log-likelihood of the parameter
// vector p = (beta, alpha) under ctx. It is a pure function of (p, ctx) and
// safe to call concurrently.
//
// Non-finite likelihood values (degenerate parameter regions, zero total
// weight) are substituted by the largest representable finite objective so
// the optimizer never sees NaN or Inf.
func NegLogLik(p []float64, ctx *model.FitContext) float64 {
	mu, phi := ctx.MeanInflation(p)

	v := ctx.V()
	trunc := ctx.Truncated()

	var loglik, wsum float64
	for i := 0; i < ctx.N(); i++ {
		w := ctx.Weight(i)
		wsum += w

		lp := poissonLogPMF(ctx.Y(i), mu[i])
		if trunc {
			lp -= logSurvival(mu[i])
		}

		var contrib float64
		if ctx.Y(i) == v {
			contrib = math.Log(phi[i] + (1-phi[i])*math.Exp(lp))
		} else {
			contrib = math.Log(1-phi[i]) + lp
		}
		loglik += w * contrib
	}

	if wsum == 0 || math.IsNaN(loglik) || math.IsInf(loglik, 0) {
		loglik = -math.MaxFloat64
	}
	return -loglik
}

// MixturePMF evaluates the model-implied probability of observing count y
// given mu and phi, in probability space. The goodness-of-fit evaluator uses
// this with the same mixture-at-V and truncation adjustments as NegLogLik.
func MixturePMF(y int, mu, phi float64, v int, truncate bool) float64 {
	pmf := math.Exp(poissonLogPMF(y, mu))
	if truncate {
		pmf /= -math.Expm1(-mu)
	}
	if y == v {
		return phi + (1-phi)*pmf
	}
	return (1 - phi) * pmf
}

// poissonLogPMF is log Pois(y; mu). The y=0 branch avoids 0*log(0) = NaN
// when mu underflows to zero.
func poissonLogPMF(y int, mu float64) float64 {
	if y == 0 {
		return -mu
	}
	lg, _ := math.Lgamma(float64(y) + 1)
	return float64(y)*math.Log(mu) - mu - lg
}

// logSurvival is log(1 - exp(-mu)), the zero-truncation normalizer.
func logSurvival(mu float64) float64 {
	return math.Log(-math.Expm1(-mu))
}
