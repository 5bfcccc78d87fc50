// Command calibrate searches simulation parameters with CMA-ES so that a
// headless run's sensor readings best correlate with an experiment file.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/fluidsense/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	experimentPath := flag.String("experiment", "", "Experiment readings CSV (Count,A1..A15)")
	maxTicks := flag.Int("max-ticks", 0, "Abort a run after N host ticks (0 = run to completion)")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = 4 + 1.5*dim)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" || *experimentPath == "" {
		log.Fatal("--output and --experiment are required")
	}

	// Per-run info logs would drown the progress lines
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	experiment, err := loadExperiment(*experimentPath)
	if err != nil {
		log.Fatalf("failed to load experiment: %v", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, baseCfg, experiment, *maxTicks)

	evals, err := newEvalLog(filepath.Join(*outputDir, "calibrate_log.csv"), params.Names(), *maxEvals)
	if err != nil {
		log.Fatal(err)
	}
	defer evals.Close()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			fitness := evaluator.Evaluate(params.Denormalize(x))
			res := evaluator.Last()
			if err := evals.record(res, params.Clamp(params.Denormalize(x))); err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}
			fmt.Println(evals.progress(res))
			return fitness
		},
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}

	fmt.Printf("Calibrating %d parameters against %d experiment rows (population=%d, max_evals=%d)\n",
		params.Dim(), len(experiment), popSize, *maxEvals)

	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := evals.bestParams
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evals.count, formatDuration(time.Since(evals.start)))
	fmt.Printf("Best global Pearson: %.4f\n", -evals.best)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, best[i])
	}

	bestCfg, err := evaluator.Config(best)
	if err != nil {
		log.Fatalf("best parameters produce an invalid config: %v", err)
	}
	out := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		log.Printf("failed to write best config: %v", err)
		return
	}
	fmt.Printf("\nBest config saved to: %s\n", out)
}
