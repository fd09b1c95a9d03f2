// Package analyze wires the full board pipeline together: corner
// selection, perspective rectification, optional enhancement, grid
// classification, and annotated output.
package analyze

import (
	"context"
	"fmt"
	"image"
	"time"

	"chessboard-scan/internal/annotate"
	"chessboard-scan/internal/config"
	"chessboard-scan/internal/enhance"
	"chessboard-scan/internal/grid"
	boardimage "chessboard-scan/internal/image"
	"chessboard-scan/internal/rectify"
	"chessboard-scan/pkg/geometry"

	"github.com/edaniels/golog"
)

// Cell means clustered tighter than this suggest glare, blur, or an
// off-board corner selection.
const lowContrastStdDev = 20.0

// Result carries everything a run produced. When an output write fails
// the Result is still returned alongside the error, so callers keep the
// classification.
type Result struct {
	Corners   geometry.Quad
	Policy    grid.Policy
	Threshold float64
	Histogram grid.Histogram
	Cells     []grid.Cell
	Counts    grid.Counts
	Stats     grid.CellStats
	Rectified *image.RGBA
	Gray      *image.Gray
	Annotated *image.RGBA

	// OutputPath is set once the annotated image is on disk.
	OutputPath string
}

// Analyzer runs the pipeline under a fixed configuration.
type Analyzer struct {
	cfg    config.Config
	logger golog.Logger
}

// New returns an Analyzer for cfg. The config is assumed validated.
func New(cfg config.Config, logger golog.Logger) *Analyzer {
	return &Analyzer{cfg: cfg, logger: logger}
}

// Run takes a board photo through the whole pipeline. The corner source
// may block (the interactive picker does) and is the only stage that
// watches ctx.
func (a *Analyzer) Run(ctx context.Context, img image.Image, src CornerSource) (*Result, error) {
	start := time.Now()

	quad, err := src.Corners(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debugw("corners selected",
		"tl", quad.TL, "tr", quad.TR, "bl", quad.BL, "br", quad.BR)

	size := a.cfg.CanvasSize
	hom, err := rectify.Compute(quad, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to compute homography: %w", err)
	}

	rectified, err := rectify.Rectify(img, hom, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to rectify board: %w", err)
	}
	a.logger.Debugw("board rectified", "size", size, "took", time.Since(start))

	gray, err := enhance.Prepare(rectified, a.cfg.Enhance)
	if err != nil {
		return nil, fmt.Errorf("failed to enhance board: %w", err)
	}

	res := &Result{
		Corners:   quad,
		Policy:    a.cfg.ThresholdMode,
		Histogram: grid.BuildHistogram(gray),
		Rectified: rectified,
		Gray:      gray,
	}

	res.Threshold, err = grid.Threshold(a.cfg.ThresholdMode, res.Histogram, a.cfg.FixedThreshold)
	if err != nil {
		return nil, err
	}

	res.Cells = grid.Partition(size, size)
	grid.Measure(gray, res.Cells)
	res.Counts = grid.Classify(res.Cells, res.Threshold)

	res.Stats, err = grid.Stats(res.Cells)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cell statistics: %w", err)
	}
	if res.Stats.StdDev < lowContrastStdDev && !a.cfg.Enhance.Enabled() {
		a.logger.Warnw("low contrast between cells, consider enabling enhancement",
			"std_dev", res.Stats.StdDev)
	}

	a.logger.Infow("board classified",
		"policy", a.cfg.ThresholdMode,
		"threshold", res.Threshold,
		"light", res.Counts.Light,
		"dark", res.Counts.Dark,
		"took", time.Since(start))

	opts := annotate.DefaultOptions()
	opts.Labels = a.cfg.Labels
	res.Annotated = annotate.Draw(rectified, res.Cells, opts)

	if a.cfg.OutputPath != "" {
		if err := boardimage.Save(a.cfg.OutputPath, res.Annotated); err != nil {
			return res, fmt.Errorf("failed to save annotated board: %w", err)
		}
		res.OutputPath = a.cfg.OutputPath
	}

	if a.cfg.HeatmapPath != "" {
		heat := annotate.IntensityMap(res.Cells, size, size)
		if err := boardimage.Save(a.cfg.HeatmapPath, heat); err != nil {
			return res, fmt.Errorf("failed to save heatmap: %w", err)
		}
		a.logger.Debugw("heatmap saved", "path", a.cfg.HeatmapPath)
	}

	return res, nil
}
