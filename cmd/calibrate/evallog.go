package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// evalLog appends one row per evaluation to calibrate_log.csv and tracks
// the best parameters seen. The header depends on the parameter list, so
// rows are written with encoding/csv rather than struct tags.
type evalLog struct {
	f *os.File
	w *csv.Writer

	maxEvals int
	count    int
	start    time.Time

	best       float64
	bestParams []float64
}

func newEvalLog(path string, paramNames []string, maxEvals int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	l := &evalLog{
		f:        f,
		w:        csv.NewWriter(f),
		maxEvals: maxEvals,
		start:    time.Now(),
		best:     worstFitness,
	}
	header := append([]string{"eval", "fitness", "pearson", "spearman", "mean_sensor_pearson"}, paramNames...)
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing eval log header: %w", err)
	}
	return l, nil
}

// record logs one evaluation of the (clamped) params that were simulated.
func (l *evalLog) record(res EvalResult, params []float64) error {
	l.count++
	if l.bestParams == nil || res.Fitness < l.best {
		l.best = res.Fitness
		l.bestParams = append([]float64(nil), params...)
	}

	row := []string{
		strconv.Itoa(l.count),
		formatFloat(res.Fitness),
		formatFloat(res.GlobalPearson),
		formatFloat(res.GlobalSpearman),
		formatFloat(res.MeanPearson),
	}
	for _, v := range params {
		row = append(row, formatFloat(v))
	}
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

// progress is a one-line console status for the latest evaluation.
func (l *evalLog) progress(res EvalResult) string {
	elapsed := time.Since(l.start)
	var remaining time.Duration
	if l.count > 0 {
		remaining = time.Duration(max(l.maxEvals-l.count, 0)) * (elapsed / time.Duration(l.count))
	}

	status := fmt.Sprintf("pearson=%.4f spearman=%.4f", res.GlobalPearson, res.GlobalSpearman)
	if res.Err != nil {
		status = "failed: " + res.Err.Error()
	}
	return fmt.Sprintf("Eval %d/%d: %s (best=%.4f) | elapsed: %s, ETA: %s",
		l.count, l.maxEvals, status, -l.best,
		formatDuration(elapsed), formatDuration(remaining))
}

func (l *evalLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// formatDuration formats a duration as 1h02m03s, or 2m03s when under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
