package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/fluidsense/analysis"
	"github.com/pthm-cable/fluidsense/config"
	"github.com/pthm-cable/fluidsense/sim"
	"github.com/pthm-cable/fluidsense/systems"
	"github.com/pthm-cable/fluidsense/telemetry"
)

// worstFitness is assigned to runs that fail or correlate undefinedly.
const worstFitness = 1.0

// FitnessEvaluator runs headless simulations and scores them against the
// experiment readings.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	experiment [][]float64
	maxTicks   int

	mu          sync.Mutex
	bestFitness float64
	last        EvalResult
}

// EvalResult holds the outcome of one evaluation.
type EvalResult struct {
	Fitness        float64
	GlobalPearson  float64
	GlobalSpearman float64
	MeanPearson    float64
	Rows           int
	Err            error
}

// NewFitnessEvaluator creates a new evaluator. The base config's row budget
// is capped at the experiment's length.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, experiment [][]float64, maxTicks int) *FitnessEvaluator {
	cfg := baseCfg.Clone()
	cfg.Sampling.Rows = min(cfg.Sampling.Rows, len(experiment))
	return &FitnessEvaluator{
		params:      params,
		baseConfig:  cfg,
		experiment:  experiment,
		maxTicks:    maxTicks,
		bestFitness: math.Inf(1),
	}
}

// Last returns the result of the most recent evaluation.
func (fe *FitnessEvaluator) Last() EvalResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// BestFitness returns the lowest fitness seen.
func (fe *FitnessEvaluator) BestFitness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness
}

// Config returns a copy of the base config with raw applied.
func (fe *FitnessEvaluator) Config(raw []float64) (*config.Config, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, raw)
	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Fitness is the negated global Pearson correlation between simulated and
// experiment readings.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	res := fe.evaluate(raw)

	fe.mu.Lock()
	fe.last = res
	if res.Fitness < fe.bestFitness {
		fe.bestFitness = res.Fitness
	}
	fe.mu.Unlock()

	return res.Fitness
}

func (fe *FitnessEvaluator) evaluate(raw []float64) EvalResult {
	cfg, err := fe.Config(raw)
	if err != nil {
		return EvalResult{Fitness: worstFitness, Err: err}
	}

	s, err := sim.New(cfg, sim.Options{})
	if err != nil {
		return EvalResult{Fitness: worstFitness, Err: err}
	}
	defer s.Close()

	if err := s.Run(fe.maxTicks); err != nil {
		var inst *systems.InstabilityError
		if errors.As(err, &inst) {
			slog.Warn("unstable run", "step", inst.Step, "quantity", inst.Quantity, "particle", inst.ParticleID)
		}
		return EvalResult{Fitness: worstFitness, Err: err}
	}

	table := s.Readings()
	cmp, err := analysis.Compare(table.Labels(), table.Matrix(), fe.experiment)
	if err != nil {
		return EvalResult{Fitness: worstFitness, Err: err}
	}
	return scoreComparison(cmp)
}

// scoreComparison turns a comparison into an EvalResult.
func scoreComparison(cmp *analysis.Comparison) EvalResult {
	res := EvalResult{
		Fitness:        -cmp.GlobalPearson,
		GlobalPearson:  cmp.GlobalPearson,
		GlobalSpearman: cmp.GlobalSpearman,
		MeanPearson:    cmp.MeanPearson(),
		Rows:           cmp.Rows,
	}
	if math.IsNaN(res.Fitness) {
		res.Fitness = worstFitness
	}
	return res
}

// loadExperiment reads an experiment readings file. A Count 0 row holds
// the baseline readings and is skipped.
func loadExperiment(path string) ([][]float64, error) {
	rows, err := telemetry.LoadSampleRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: %d sample rows, need at least 2", path, len(rows))
	}
	return rows, nil
}
