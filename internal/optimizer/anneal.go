package optimizer

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"vipfit/domain/core"
)

// Annealing schedule constants: initial temperature, geometric cooling rate
// and Gaussian proposal scale.
const (
	annealTemp0    = 1.0
	annealCooling  = 0.999
	annealStepSize = 0.5
)

// minimizeAnneal runs seeded simulated annealing from the start point.
// Proposals are Gaussian perturbations of the current point; worse moves are
// accepted with the Metropolis probability under a geometric temperature
// schedule.
func minimizeAnneal(obj Objective, start []float64, seed uint64, iters int) ([]float64, float64, error) {
	dim := len(start)
	if dim == 0 {
		return nil, 0, core.NewOptimizerError(MethodSANN, fmt.Errorf("empty start vector"))
	}
	if iters <= 0 {
		iters = 10000
	}

	rng := rand.New(rand.NewSource(seed))

	cur := append([]float64(nil), start...)
	curVal := obj(cur)
	best := append([]float64(nil), cur...)
	bestVal := curVal

	prop := make([]float64, dim)
	temp := annealTemp0
	for it := 0; it < iters; it++ {
		for j := range prop {
			prop[j] = cur[j] + annealStepSize*rng.NormFloat64()
		}
		propVal := obj(prop)

		if propVal <= curVal || rng.Float64() < math.Exp((curVal-propVal)/temp) {
			copy(cur, prop)
			curVal = propVal
			if curVal < bestVal {
				bestVal = curVal
				copy(best, cur)
			}
		}
		temp *= annealCooling
	}

	return best, bestVal, nil
}
