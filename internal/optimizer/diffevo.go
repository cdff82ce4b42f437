package optimizer

import (
	"fmt"
	"runtime"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"vipfit/domain/core"
)

// DE control parameters. F is the differential weight, CR the crossover
// probability; both follow the classic rand/1/bin scheme.
const (
	deWeight    = 0.8
	deCrossover = 0.9
)

// minimizeDE runs differential evolution inside a fixed symmetric box.
// Candidate generation is sequential and seeded, so runs are reproducible;
// objective evaluation of each generation's trial vectors is parallel, which
// is safe because the objective is a pure function of the candidate.
func minimizeDE(obj Objective, start []float64, opts Options) ([]float64, float64, error) {
	dim := len(start)
	if dim == 0 {
		return nil, 0, core.NewOptimizerError(MethodDE, fmt.Errorf("empty start vector"))
	}

	bound := opts.Bound
	if bound <= 0 {
		bound = 10
	}
	gens := opts.Generations
	if gens <= 0 {
		gens = 200 * dim
	}
	np := opts.Population
	if np <= 0 {
		np = 15 * dim
		if np < 20 {
			np = 20
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	// Initial population: the start point plus uniform draws in the box.
	pop := make([][]float64, np)
	fit := make([]float64, np)
	pop[0] = make([]float64, dim)
	for j, v := range start {
		pop[0][j] = clamp(v, -bound, bound)
	}
	for i := 1; i < np; i++ {
		pop[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			pop[i][j] = -bound + 2*bound*rng.Float64()
		}
	}
	evalAll(obj, pop, fit)

	bestIdx := argmin(fit)
	best := append([]float64(nil), pop[bestIdx]...)
	bestVal := fit[bestIdx]

	trial := make([][]float64, np)
	trialFit := make([]float64, np)
	for i := range trial {
		trial[i] = make([]float64, dim)
	}

	for g := 0; g < gens; g++ {
		// Build all trial vectors first; the RNG is only touched here.
		for i := 0; i < np; i++ {
			r1, r2, r3 := distinctIndices(rng, np, i)
			jrand := rng.Intn(dim)
			for j := 0; j < dim; j++ {
				if j == jrand || rng.Float64() < deCrossover {
					v := pop[r1][j] + deWeight*(pop[r2][j]-pop[r3][j])
					trial[i][j] = clamp(v, -bound, bound)
				} else {
					trial[i][j] = pop[i][j]
				}
			}
		}

		evalAll(obj, trial, trialFit)

		for i := 0; i < np; i++ {
			if trialFit[i] <= fit[i] {
				copy(pop[i], trial[i])
				fit[i] = trialFit[i]
				if fit[i] < bestVal {
					bestVal = fit[i]
					copy(best, pop[i])
				}
			}
		}
	}

	return best, bestVal, nil
}

// evalAll evaluates the objective at every candidate, fanned out across
// GOMAXPROCS workers.
func evalAll(obj Objective, candidates [][]float64, out []float64) {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range candidates {
		i := i
		g.Go(func() error {
			out[i] = obj(candidates[i])
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()
}

// distinctIndices draws three population indices distinct from each other
// and from i.
func distinctIndices(rng *rand.Rand, np, i int) (int, int, int) {
	draw := func(exclude ...int) int {
	outer:
		for {
			r := rng.Intn(np)
			for _, e := range exclude {
				if r == e {
					continue outer
				}
			}
			return r
		}
	}
	r1 := draw(i)
	r2 := draw(i, r1)
	r3 := draw(i, r1, r2)
	return r1, r2, r3
}

func argmin(vals []float64) int {
	best := 0
	for i, v := range vals {
		if v < vals[best] {
			best = i
		}
	}
	return best
}
