package main

import (
	"sync"

	"github.com/evocore/biosim/sim"
)

// FitnessEvaluator runs headless simulations across several seeds and
// scores a parameter vector by mean survival rate over the run's second
// half, giving the search room to find settings that take a few
// generations to pay off.
type FitnessEvaluator struct {
	params         *ParamVector
	baseParams     sim.Params
	maxGenerations int
	seeds          []uint32
}

// NewFitnessEvaluator creates a new evaluator. baseParams supplies every
// non-optimized field (population size, grid shape, survival criteria,
// and so on); seeds overrides baseParams.RngSeed per run.
func NewFitnessEvaluator(params *ParamVector, baseParams sim.Params, maxGenerations int, seeds []uint32) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:         params,
		baseParams:     baseParams,
		maxGenerations: maxGenerations,
		seeds:          seeds,
	}
}

// Evaluate computes fitness for a normalized parameter vector (lower is
// better, since optimize.Minimize always minimizes).
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	results := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint32) {
			defer wg.Done()
			results[idx] = fe.runSimulation(raw, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		total += r
	}
	meanSurvivalRate := total / float64(len(results))
	return -meanSurvivalRate
}

// runSimulation runs one seed to maxGenerations, applying raw's values to
// the evolutionary knobs, and returns the mean survival rate over the
// run's second half.
func (fe *FitnessEvaluator) runSimulation(raw []float64, seed uint32) float64 {
	p := fe.baseParams
	fe.params.ApplyToParams(&p, raw)
	p.RngSeed = seed

	core, err := sim.New(p)
	if err != nil {
		return 0
	}
	core.Init()

	rates := make([]float64, 0, fe.maxGenerations)
	for g := 0; g < fe.maxGenerations; g++ {
		stats := core.RunGeneration()
		rates = append(rates, stats.SurvivalRate)
	}

	half := len(rates) / 2
	tail := rates[half:]
	if len(tail) == 0 {
		return 0
	}
	var sum float64
	for _, r := range tail {
		sum += r
	}
	return sum / float64(len(tail))
}
