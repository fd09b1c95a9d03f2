// Command threshtest runs the board pipeline once and reports what
// each threshold policy would classify, side by side.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"chessboard-scan/internal/analyze"
	"chessboard-scan/internal/config"
	"chessboard-scan/internal/grid"
	boardimage "chessboard-scan/internal/image"

	"github.com/edaniels/golog"
)

func main() {
	imagePath := flag.String("image", "", "Path to the board photo")
	points := flag.String("points", "", "Corner points as 'x1,y1;x2,y2;x3,y3;x4,y4', any order")
	cornerFile := flag.String("corners", "", "Path to a saved corner selection (JSON)")
	size := flag.Int("size", 400, "Rectified canvas size in pixels")
	fixedValue := flag.Float64("fixed-value", grid.DefaultFixedThreshold, "Cutoff for the fixed policy (0-255)")
	clahe := flag.Bool("clahe", false, "Apply CLAHE contrast equalization before measuring")
	binarize := flag.Bool("binarize", false, "Apply Otsu binarization before measuring")
	flag.Parse()

	if *imagePath == "" || (*points == "" && *cornerFile == "") {
		fmt.Println("Usage: threshtest -image <photo> (-points 'x1,y1;...;x4,y4' | -corners <file>) [-size 400]")
		os.Exit(1)
	}

	// Measurement only: no annotated output.
	cfg := config.Default()
	cfg.CanvasSize = *size
	cfg.FixedThreshold = *fixedValue
	cfg.Enhance.CLAHE = *clahe
	cfg.Enhance.Binarize = *binarize
	cfg.OutputPath = ""
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameters: %v\n", err)
		os.Exit(1)
	}

	var src analyze.CornerSource
	if *points != "" {
		parsed, err := analyze.ParsePoints(*points)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to parse -points: %v\n", err)
			os.Exit(1)
		}
		src = analyze.FixedCorners(parsed)
	} else {
		src = analyze.FileCorners(*cornerFile)
	}

	img, err := boardimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())
	fmt.Printf("Canvas: %dx%d, enhancement: clahe=%v binarize=%v\n", *size, *size, *clahe, *binarize)

	res, err := analyze.New(cfg, golog.NewLogger("threshtest")).Run(context.Background(), img, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nCell mean intensities: mean=%.1f stddev=%.1f min=%.1f max=%.1f\n",
		res.Stats.Mean, res.Stats.StdDev, res.Stats.Min, res.Stats.Max)

	fmt.Printf("\n%-8s %10s %6s %6s\n", "Policy", "Threshold", "Dark", "Light")
	fmt.Println(strings.Repeat("-", 33))
	for _, policy := range grid.Policies() {
		threshold, err := grid.Threshold(policy, res.Histogram, cfg.FixedThreshold)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Policy %s failed: %v\n", policy, err)
			os.Exit(1)
		}
		counts := grid.Classify(res.Cells, threshold)
		fmt.Printf("%-8s %10.1f %6d %6d\n", policy, threshold, counts.Dark, counts.Light)
	}
}
