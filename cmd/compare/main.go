// Package main compares two readings files: per-sensor and global
// Pearson/Spearman correlation, a two-component PCA of both runs, and
// PNG charts of each.
//
// Usage: go run ./cmd/compare -a run1.csv -b run2.csv -output charts/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/fluidsense/analysis"
	"github.com/pthm-cable/fluidsense/telemetry"
)

func main() {
	pathA := flag.String("a", "", "First readings CSV")
	pathB := flag.String("b", "", "Second readings CSV")
	nameA := flag.String("name-a", "", "Label for the first run (default: file name)")
	nameB := flag.String("name-b", "", "Label for the second run (default: file name)")
	outputDir := flag.String("output", "", "Directory for charts and the correlation table (empty = print only)")
	series := flag.Bool("series", false, "Also chart every sensor over time")
	flag.Parse()

	if *pathA == "" || *pathB == "" {
		log.Fatal("-a and -b are required")
	}
	if *nameA == "" {
		*nameA = runName(*pathA)
	}
	if *nameB == "" {
		*nameB = runName(*pathB)
	}

	a, err := telemetry.LoadSampleRows(*pathA)
	if err != nil {
		log.Fatal(err)
	}
	b, err := telemetry.LoadSampleRows(*pathB)
	if err != nil {
		log.Fatal(err)
	}

	labels := telemetry.SensorColumns
	cmp, err := analysis.Compare(labels, a, b)
	if err != nil {
		log.Fatalf("comparing runs: %v", err)
	}
	printComparison(cmp)

	res, err := analysis.PCA([][][]float64{a[:cmp.Rows], b[:cmp.Rows]}, 2)
	if err != nil {
		log.Fatalf("pca: %v", err)
	}
	fmt.Printf("\nPCA explained variance: PC1 %.1f%%, PC2 %.1f%%\n",
		res.VarianceRatio[0]*100, res.VarianceRatio[1]*100)

	if *outputDir == "" {
		return
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	names := []string{*nameA, *nameB}
	charts := map[string]func(string) error{
		"scatter.png": func(p string) error { return analysis.ScatterChart(cmp, a, b, *nameA, *nameB, p) },
		"pca.png":     func(p string) error { return analysis.PCAChart(res, names, p) },
	}
	if *series {
		for c, label := range labels {
			charts["series_"+label+".png"] = func(p string) error {
				return analysis.SeriesChart(label, c, [][][]float64{a[:cmp.Rows], b[:cmp.Rows]}, names, p)
			}
		}
	}
	for name, draw := range charts {
		path := filepath.Join(*outputDir, name)
		if err := draw(path); err != nil {
			log.Printf("failed to write %s: %v", name, err)
			continue
		}
		fmt.Printf("Chart saved to: %s\n", path)
	}

	tablePath := filepath.Join(*outputDir, "correlation.csv")
	if err := writeCorrelations(tablePath, cmp); err != nil {
		log.Printf("failed to write correlation table: %v", err)
	} else {
		fmt.Printf("Correlation table saved to: %s\n", tablePath)
	}
}

func runName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func printComparison(cmp *analysis.Comparison) {
	fmt.Printf("Rows compared: %d\n\n", cmp.Rows)
	fmt.Println("Pearson per sensor:")
	for _, s := range cmp.Sensors {
		fmt.Printf("%s: %.2f\n", s.Label, s.Pearson)
	}
	fmt.Println("\nSpearman per sensor:")
	for _, s := range cmp.Sensors {
		fmt.Printf("%s: %.2f\n", s.Label, s.Spearman)
	}
	fmt.Printf("\nPearson global: %.2f\n", cmp.GlobalPearson)
	fmt.Printf("Spearman global: %.2f\n", cmp.GlobalSpearman)
}

// writeCorrelations writes the per-sensor table plus a "global" row.
func writeCorrelations(path string, cmp *analysis.Comparison) error {
	rows := append([]analysis.SensorCorrelation(nil), cmp.Sensors...)
	rows = append(rows, analysis.SensorCorrelation{
		Label:    "global",
		Pearson:  cmp.GlobalPearson,
		Spearman: cmp.GlobalSpearman,
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
