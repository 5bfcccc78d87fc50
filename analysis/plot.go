package analysis

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// chartDPI is the raster resolution of saved charts.
const chartDPI = 150

// limitedTicker produces at most maxLabels evenly spaced tick labels.
func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot, xFmt, yFmt string) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.X.Label.TextStyle.Font.Size = vg.Points(13)
	p.Y.Label.TextStyle.Font.Size = vg.Points(13)
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)
	p.X.Tick.Marker = limitedTicker(8, xFmt)
	p.Y.Tick.Marker = limitedTicker(8, yFmt)
	p.Add(plotter.NewGrid())
}

// savePNG renders p to a PNG of widthIn x heightIn inches.
func savePNG(p *plot.Plot, widthIn, heightIn float64, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating chart dir: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(chartDPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return bw.Flush()
}

// ScatterChart plots every reading of run a against run b with the
// identity line, titled with the global correlations.
func ScatterChart(cmp *Comparison, a, b [][]float64, nameA, nameB, path string) error {
	n := cmp.Rows
	fa, fb := Flatten(a[:n]), Flatten(b[:n])
	if len(fa) == 0 {
		return ErrTooShort
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s\nPearson=%.2f, Spearman=%.2f",
		nameA, nameB, cmp.GlobalPearson, cmp.GlobalSpearman)
	p.X.Label.Text = nameA + " (°C)"
	p.Y.Label.Text = nameB + " (°C)"
	stylePlot(p, "%.1f", "%.1f")

	pts := make(plotter.XYs, len(fa))
	for i := range fa {
		pts[i].X, pts[i].Y = fa[i], fb[i]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyle.Radius = vg.Points(1.5)
	sc.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 140}
	p.Add(sc)

	lo, hi := floats.Min(fa), floats.Max(fa)
	ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return fmt.Errorf("identity line: %w", err)
	}
	ident.LineStyle.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	ident.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(ident)

	return savePNG(p, 8, 6, path)
}

// PCAChart plots the first two principal component scores, one series per
// run.
func PCAChart(res *PCAResult, names []string, path string) error {
	if res.Components < 2 {
		return fmt.Errorf("pca chart needs 2 components, have %d", res.Components)
	}

	p := plot.New()
	p.Title.Text = "PCA of sensor readings"
	p.X.Label.Text = fmt.Sprintf("PC1 (%.0f%%)", res.VarianceRatio[0]*100)
	p.Y.Label.Text = fmt.Sprintf("PC2 (%.0f%%)", res.VarianceRatio[1]*100)
	stylePlot(p, "%.1f", "%.1f")
	p.Legend.Top = true

	for r, name := range names {
		rows := res.RunScores(r)
		pts := make(plotter.XYs, len(rows))
		for i, row := range rows {
			pts[i].X, pts[i].Y = row[0], row[1]
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("scatter %s: %w", name, err)
		}
		sc.GlyphStyle.Color = plotutil.Color(r)
		sc.GlyphStyle.Shape = plotutil.Shape(r)
		sc.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(sc)
		p.Legend.Add(name, sc)
	}

	return savePNG(p, 8, 6, path)
}

// SeriesChart plots one sensor column of each run against the sampling
// tick.
func SeriesChart(label string, column int, runs [][][]float64, names []string, path string) error {
	p := plot.New()
	p.Title.Text = "Sensor " + label
	p.X.Label.Text = "tick"
	p.Y.Label.Text = "temperature (°C)"
	stylePlot(p, "%.0f", "%.2f")
	p.Legend.Top = true

	for r, run := range runs {
		pts := make(plotter.XYs, len(run))
		for i, row := range run {
			pts[i].X = float64(i + 1)
			pts[i].Y = row[column]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("line %s: %w", names[r], err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(r)
		p.Add(line)
		p.Legend.Add(names[r], line)
	}

	return savePNG(p, 8, 4, path)
}
