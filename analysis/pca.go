package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrPCAFailed is returned when the decomposition does not converge.
var ErrPCAFailed = errors.New("principal component decomposition failed")

// PCAResult holds the projection of several runs onto their shared
// principal components.
type PCAResult struct {
	Components int
	// Scores has one row per input row, all runs stacked in order.
	Scores *mat.Dense
	// Run maps each score row to its run index.
	Run []int
	// VarianceRatio is the share of total variance each component explains.
	VarianceRatio []float64
}

// RunScores returns the score rows belonging to run r.
func (p *PCAResult) RunScores(r int) [][]float64 {
	var out [][]float64
	for i, run := range p.Run {
		if run == r {
			out = append(out, mat.Row(nil, i, p.Scores))
		}
	}
	return out
}

// Standardize scales each column of x in place to zero mean and unit
// population variance. Constant columns become zero.
func Standardize(x *mat.Dense) {
	rows, cols := x.Dims()
	col := make([]float64, rows)
	for c := 0; c < cols; c++ {
		mat.Col(col, c, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		floats.AddConst(-mean, col)
		floats.Scale(1/std, col)
		x.SetCol(c, col)
	}
}

// PCA stacks the rows of every run, standardizes the columns and projects
// onto the first k principal components. Component signs are chosen so the
// largest loading of each is positive.
func PCA(runs [][][]float64, k int) (*PCAResult, error) {
	var rows, cols int
	for _, run := range runs {
		rows += len(run)
		if len(run) > 0 {
			cols = len(run[0])
		}
	}
	if rows < 2 || cols == 0 {
		return nil, fmt.Errorf("pca over %d rows: %w", rows, ErrTooShort)
	}
	if k < 1 || k > min(rows, cols) {
		return nil, fmt.Errorf("pca: %d components for %dx%d data", k, rows, cols)
	}

	x := mat.NewDense(rows, cols, nil)
	runOf := make([]int, 0, rows)
	i := 0
	for r, run := range runs {
		for _, row := range run {
			if len(row) != cols {
				return nil, fmt.Errorf("run %d: %w: want %d columns", r, ErrLengthMismatch, cols)
			}
			x.SetRow(i, row)
			runOf = append(runOf, r)
			i++
		}
	}
	Standardize(x)

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, ErrPCAFailed
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	basis := mat.DenseCopyOf(vecs.Slice(0, cols, 0, k))
	orientComponents(basis)

	var scores mat.Dense
	scores.Mul(x, basis)

	total := floats.Sum(vars)
	ratio := make([]float64, k)
	for c := 0; c < k; c++ {
		if total > 0 {
			ratio[c] = vars[c] / total
		}
	}

	return &PCAResult{
		Components:    k,
		Scores:        &scores,
		Run:           runOf,
		VarianceRatio: ratio,
	}, nil
}

// orientComponents flips each column so its largest-magnitude entry is
// positive.
func orientComponents(basis *mat.Dense) {
	rows, cols := basis.Dims()
	col := make([]float64, rows)
	for c := 0; c < cols; c++ {
		mat.Col(col, c, basis)
		big := col[0]
		for _, v := range col[1:] {
			if math.Abs(v) > math.Abs(big) {
				big = v
			}
		}
		if big < 0 {
			floats.Scale(-1, col)
			basis.SetCol(c, col)
		}
	}
}
