// Package analysis compares sensor readings between runs: correlation per
// sensor and globally, principal components of the combined readings, and
// PNG charts of both.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLengthMismatch is returned when paired series differ in length.
	ErrLengthMismatch = errors.New("series length mismatch")
	// ErrTooShort is returned when a series has fewer than two values.
	ErrTooShort = errors.New("series needs at least two values")
)

// Pearson returns the Pearson correlation of x and y. A constant series
// yields NaN.
func Pearson(x, y []float64) (float64, error) {
	if err := checkPair(x, y); err != nil {
		return 0, err
	}
	return stat.Correlation(x, y, nil), nil
}

// Spearman returns the Spearman rank correlation of x and y. Ties receive
// their average rank.
func Spearman(x, y []float64) (float64, error) {
	if err := checkPair(x, y); err != nil {
		return 0, err
	}
	return stat.Correlation(Ranks(x), Ranks(y), nil), nil
}

func checkPair(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return ErrTooShort
	}
	return nil
}

// Ranks returns the 1-based ranks of x, averaging ties.
func Ranks(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	r := make([]float64, len(x))
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && x[idx[j]] == x[idx[i]] {
			j++
		}
		// Positions i..j-1 share ranks i+1..j.
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			r[idx[k]] = avg
		}
		i = j
	}
	return r
}

// Column returns column c of rows.
func Column(rows [][]float64, c int) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = row[c]
	}
	return out
}

// Flatten concatenates the columns of rows: all of column 0, then column 1,
// and so on.
func Flatten(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	out := make([]float64, 0, len(rows)*cols)
	for c := 0; c < cols; c++ {
		for _, row := range rows {
			out = append(out, row[c])
		}
	}
	return out
}

// SensorCorrelation holds the correlations of one sensor column.
type SensorCorrelation struct {
	Label    string  `csv:"sensor"`
	Pearson  float64 `csv:"pearson"`
	Spearman float64 `csv:"spearman"`
}

// Comparison is the correlation report of two runs.
type Comparison struct {
	Rows           int
	Sensors        []SensorCorrelation
	GlobalPearson  float64
	GlobalSpearman float64
}

// Compare correlates two runs column by column and over all readings
// concatenated. Runs of unequal length are compared over the shorter one.
func Compare(labels []string, a, b [][]float64) (*Comparison, error) {
	n := min(len(a), len(b))
	if n < 2 {
		return nil, fmt.Errorf("comparing %d rows: %w", n, ErrTooShort)
	}
	a, b = a[:n], b[:n]
	for i := 0; i < n; i++ {
		if len(a[i]) != len(labels) || len(b[i]) != len(labels) {
			return nil, fmt.Errorf("row %d: %w: want %d columns", i, ErrLengthMismatch, len(labels))
		}
	}

	cmp := &Comparison{Rows: n, Sensors: make([]SensorCorrelation, len(labels))}
	for c, label := range labels {
		xa, xb := Column(a, c), Column(b, c)
		p, _ := Pearson(xa, xb)
		s, _ := Spearman(xa, xb)
		cmp.Sensors[c] = SensorCorrelation{Label: label, Pearson: p, Spearman: s}
	}

	fa, fb := Flatten(a), Flatten(b)
	cmp.GlobalPearson, _ = Pearson(fa, fb)
	cmp.GlobalSpearman, _ = Spearman(fa, fb)
	return cmp, nil
}

// MeanPearson averages the per-sensor Pearson correlations, counting
// undefined (constant column) correlations as zero.
func (c *Comparison) MeanPearson() float64 {
	if len(c.Sensors) == 0 {
		return 0
	}
	var sum float64
	for _, s := range c.Sensors {
		if !math.IsNaN(s.Pearson) {
			sum += s.Pearson
		}
	}
	return sum / float64(len(c.Sensors))
}
