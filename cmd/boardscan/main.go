// Command boardscan classifies a photographed chessboard without the
// GUI. Corners come from a -points flag or a saved corner file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"chessboard-scan/internal/analyze"
	"chessboard-scan/internal/config"
	"chessboard-scan/internal/grid"
	boardimage "chessboard-scan/internal/image"
	"chessboard-scan/internal/version"

	"github.com/edaniels/golog"
)

func main() {
	imagePath := flag.String("image", "", "Path to the board photo (PNG, JPEG, GIF, BMP, or TIFF)")
	points := flag.String("points", "", "Corner points as 'x1,y1;x2,y2;x3,y3;x4,y4', any order")
	cornerFile := flag.String("corners", "", "Path to a saved corner selection (JSON)")
	configPath := flag.String("config", "", "Path to a YAML config file")
	out := flag.String("out", "", "Annotated image output path")
	size := flag.Int("size", 0, "Rectified canvas size in pixels")
	mode := flag.String("threshold", "", "Threshold policy: fixed, mean, or otsu")
	fixedValue := flag.Float64("fixed-value", 0, "Cutoff for the fixed policy (0-255)")
	clahe := flag.Bool("clahe", false, "Apply CLAHE contrast equalization before classifying")
	binarize := flag.Bool("binarize", false, "Apply Otsu binarization before classifying")
	labels := flag.Bool("labels", false, "Draw algebraic square names on the annotated board")
	heatmap := flag.String("heatmap", "", "Also write a cell-intensity heatmap to this path")
	saveCorners := flag.String("save-corners", "", "Save the ordered corners to this path (JSON)")
	verbose := flag.Bool("verbose", false, "Print the per-square measurement table")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("boardscan " + version.String())
		return
	}
	if *imagePath == "" || (*points == "" && *cornerFile == "") {
		fmt.Println("Usage: boardscan -image <photo> (-points 'x1,y1;...;x4,y4' | -corners <file>) [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := golog.NewLogger("boardscan")
	if *verbose {
		logger = golog.NewDebugLogger("boardscan")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Explicit flags override the config file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["out"] {
		cfg.OutputPath = *out
	}
	if set["size"] {
		cfg.CanvasSize = *size
	}
	if set["threshold"] {
		cfg.ThresholdMode = grid.Policy(*mode)
	}
	if set["fixed-value"] {
		cfg.FixedThreshold = *fixedValue
	}
	if set["clahe"] {
		cfg.Enhance.CLAHE = *clahe
	}
	if set["binarize"] {
		cfg.Enhance.Binarize = *binarize
	}
	if set["labels"] {
		cfg.Labels = *labels
	}
	if set["heatmap"] {
		cfg.HeatmapPath = *heatmap
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
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

	res, runErr := analyze.New(cfg, logger).Run(context.Background(), img, src)
	if res == nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", runErr)
		os.Exit(1)
	}

	quad := res.Corners
	fmt.Printf("Corners: TL(%.0f,%.0f) TR(%.0f,%.0f) BL(%.0f,%.0f) BR(%.0f,%.0f)\n",
		quad.TL.X, quad.TL.Y, quad.TR.X, quad.TR.Y, quad.BL.X, quad.BL.Y, quad.BR.X, quad.BR.Y)

	exitCode := 0
	if *saveCorners != "" {
		if err := analyze.SaveCorners(*saveCorners, quad); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save corners: %v\n", err)
			exitCode = 1
		} else {
			fmt.Printf("Corners saved to: %s\n", *saveCorners)
		}
	}

	if *verbose {
		fmt.Printf("\n%s", analyze.Detail(res))
	}
	fmt.Println()
	fmt.Print(analyze.Summary(res))

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Scan finished with an error: %v\n", runErr)
		exitCode = 1
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
