package optimizer

import (
	"math"
	"testing"

	"vipfit/domain/core"
)

// A smooth convex bowl with its minimum at (1, -2).
func bowl(p []float64) float64 {
	dx := p[0] - 1
	dy := p[1] + 2
	return 3*dx*dx + dy*dy + 5
}

func TestMinimize_LocalMethods(t *testing.T) {
	for _, method := range []string{MethodNelderMead, MethodBFGS, MethodLBFGS, MethodCG} {
		t.Run(method, func(t *testing.T) {
			res, err := Minimize(bowl, Options{Method: method, Start: []float64{0, 0}})
			if err != nil {
				t.Fatalf("Minimize: %v", err)
			}
			if math.Abs(res.X[0]-1) > 1e-3 || math.Abs(res.X[1]+2) > 1e-3 {
				t.Errorf("optimum = %v, want (1, -2)", res.X)
			}
			if math.Abs(res.Value-5) > 1e-5 {
				t.Errorf("value = %g, want 5", res.Value)
			}
			if res.Hessian != nil {
				t.Error("Hessian computed without being requested")
			}
		})
	}
}

func TestMinimize_DefaultMethodIsNelderMead(t *testing.T) {
	res, err := Minimize(bowl, Options{Start: []float64{0, 0}})
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if res.Method != MethodNelderMead {
		t.Errorf("method = %q, want %q", res.Method, MethodNelderMead)
	}
}

func TestMinimize_UnknownMethod(t *testing.T) {
	_, err := Minimize(bowl, Options{Method: "gradient-descent", Start: []float64{0, 0}})
	if !core.IsInvalidInput(err) {
		t.Errorf("unknown method error = %v, want invalid-input", err)
	}
}

func TestMinimize_HessianAtOptimum(t *testing.T) {
	res, err := Minimize(bowl, Options{Method: MethodNelderMead, Start: []float64{0, 0}, Hessian: true})
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if res.Hessian == nil {
		t.Fatal("requested Hessian is nil")
	}

	// d2f/dx2 = 6, d2f/dy2 = 2, cross terms 0.
	if got := res.Hessian.At(0, 0); math.Abs(got-6) > 1e-3 {
		t.Errorf("H[0,0] = %g, want 6", got)
	}
	if got := res.Hessian.At(1, 1); math.Abs(got-2) > 1e-3 {
		t.Errorf("H[1,1] = %g, want 2", got)
	}
	if got := res.Hessian.At(0, 1); math.Abs(got) > 1e-3 {
		t.Errorf("H[0,1] = %g, want 0", got)
	}
}

func TestMinimize_DifferentialEvolution(t *testing.T) {
	opts := Options{
		Method:      MethodDE,
		Start:       []float64{0, 0},
		Seed:        7,
		Generations: 150,
	}
	res, err := Minimize(bowl, opts)
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if math.Abs(res.X[0]-1) > 1e-2 || math.Abs(res.X[1]+2) > 1e-2 {
		t.Errorf("DE optimum = %v, want (1, -2)", res.X)
	}

	// Same seed and inputs reproduce the same optimum exactly.
	again, err := Minimize(bowl, opts)
	if err != nil {
		t.Fatalf("Minimize (repeat): %v", err)
	}
	if again.X[0] != res.X[0] || again.X[1] != res.X[1] || again.Value != res.Value {
		t.Errorf("seeded DE not reproducible: %v vs %v", res.X, again.X)
	}
}

func TestMinimize_DEStaysInBounds(t *testing.T) {
	// The unconstrained minimum sits outside the box; DE must return a
	// point inside it.
	shifted := func(p []float64) float64 {
		d := p[0] - 50
		return d * d
	}
	res, err := Minimize(shifted, Options{
		Method:      MethodDE,
		Start:       []float64{0},
		Seed:        3,
		Bound:       10,
		Generations: 50,
	})
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if res.X[0] < -10 || res.X[0] > 10 {
		t.Errorf("DE left the search box: %g", res.X[0])
	}
	if math.Abs(res.X[0]-10) > 1e-6 {
		t.Errorf("DE optimum = %g, want the boundary 10", res.X[0])
	}
}

func TestMinimize_SimulatedAnnealing(t *testing.T) {
	opts := Options{
		Method:     MethodSANN,
		Start:      []float64{4, 4},
		Seed:       11,
		AnnealIter: 20000,
	}
	res, err := Minimize(bowl, opts)
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	// SANN is a rough explorer; accept the neighborhood of the optimum.
	if math.Abs(res.X[0]-1) > 0.5 || math.Abs(res.X[1]+2) > 0.5 {
		t.Errorf("SANN optimum = %v, want near (1, -2)", res.X)
	}

	again, _ := Minimize(bowl, opts)
	if again.Value != res.Value {
		t.Errorf("seeded SANN not reproducible: %g vs %g", res.Value, again.Value)
	}
}

func TestMinimize_SentinelObjectiveSurvives(t *testing.T) {
	// Objectives that return the finite sentinel in bad regions must not
	// break the stochastic strategies.
	spiky := func(p []float64) float64 {
		if p[0] < 0 {
			return math.MaxFloat64
		}
		d := p[0] - 2
		return d * d
	}
	res, err := Minimize(spiky, Options{Method: MethodDE, Start: []float64{5}, Seed: 1, Generations: 80})
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if math.Abs(res.X[0]-2) > 1e-2 {
		t.Errorf("optimum = %g, want 2", res.X[0])
	}
}
