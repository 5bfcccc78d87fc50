package main

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pthm-cable/fluidsense/analysis"
	"github.com/pthm-cable/fluidsense/config"
	"github.com/pthm-cable/fluidsense/telemetry"
)

func TestScoreComparison(t *testing.T) {
	tests := []struct {
		name    string
		pearson float64
		want    float64
	}{
		{"perfect", 1, -1},
		{"anti", -1, 1},
		{"undefined", math.NaN(), worstFitness},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := scoreComparison(&analysis.Comparison{GlobalPearson: tc.pearson})
			if res.Fitness != tc.want {
				t.Errorf("fitness = %v, want %v", res.Fitness, tc.want)
			}
		})
	}
}

func writeExperiment(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.csv")
	body := "Count," + strings.Join(telemetry.SensorColumns, ",") + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sensorRow(count int, v float64) string {
	parts := []string{strconv.Itoa(count)}
	for i := range telemetry.SensorColumns {
		parts = append(parts, strconv.FormatFloat(v+float64(i)*0.1, 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}

func TestLoadExperiment_SkipsBaseline(t *testing.T) {
	path := writeExperiment(t, sensorRow(0, 22), sensorRow(1, 23), sensorRow(2, 24))

	m, err := loadExperiment(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 2 {
		t.Fatalf("rows = %d, want 2 (baseline skipped)", len(m))
	}
	if m[0][0] != 23 {
		t.Errorf("first row A1 = %v, want 23", m[0][0])
	}
}

func TestLoadExperiment_TooShort(t *testing.T) {
	path := writeExperiment(t, sensorRow(0, 22), sensorRow(1, 23))
	if _, err := loadExperiment(path); err == nil {
		t.Error("expected error for a single sample row")
	}
}

func TestEvaluate_ShortRun(t *testing.T) {
	base := config.Default().Clone()
	base.Simulation.MaxParticles = 40
	if err := base.Prepare(); err != nil {
		t.Fatal(err)
	}

	experiment := make([][]float64, 3)
	for i := range experiment {
		experiment[i] = make([]float64, len(telemetry.SensorColumns))
		for j := range experiment[i] {
			experiment[i][j] = 22 + float64(i) + float64(j)*0.01
		}
	}

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, base, experiment, 0)
	fitness := fe.Evaluate(pv.ExtractFromConfig(base))

	last := fe.Last()
	if last.Err != nil {
		t.Fatalf("evaluation failed: %v", last.Err)
	}
	if last.Rows != 3 {
		t.Errorf("compared rows = %d, want 3", last.Rows)
	}
	if fitness < -1 || fitness > worstFitness {
		t.Errorf("fitness %v outside [-1, %v]", fitness, worstFitness)
	}
	if fe.BestFitness() != fitness {
		t.Errorf("best fitness %v, want %v", fe.BestFitness(), fitness)
	}
}
