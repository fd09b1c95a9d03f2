// Package enhance provides the optional contrast stage between
// rectification and classification: CLAHE equalization and Otsu
// binarization of the rectified board, via OpenCV.
package enhance

import (
	"fmt"
	"image"

	boardimage "chessboard-scan/internal/image"

	"gocv.io/x/gocv"
)

// Options configures the enhancement stage. The zero value disables it
// entirely, in which case Prepare reduces to a plain grayscale
// conversion.
type Options struct {
	CLAHE     bool    `yaml:"clahe" json:"clahe"`
	ClipLimit float64 `yaml:"clip_limit" json:"clip_limit"`
	TileSize  int     `yaml:"tile_size" json:"tile_size"`
	Binarize  bool    `yaml:"binarize" json:"binarize"`
}

// DefaultOptions carries the usual CLAHE parameters for board photos:
// clip limit 2.0 over an 8x8 tile grid, followed by Otsu binarization.
func DefaultOptions() Options {
	return Options{CLAHE: true, ClipLimit: 2.0, TileSize: 8, Binarize: true}
}

// Enabled reports whether any enhancement step is active.
func (o Options) Enabled() bool {
	return o.CLAHE || o.Binarize
}

// Prepare converts the rectified image to the grayscale rendition the
// classifier measures, applying the configured enhancement steps.
// With binarization on, a cell's mean intensity sits below mid-gray
// exactly when more than half of its pixels are dark, so classification
// against a fixed 128 threshold reproduces dark-pixel-ratio counting.
func Prepare(img image.Image, opts Options) (*image.Gray, error) {
	if !opts.Enabled() {
		return boardimage.ToGray(img), nil
	}
	if opts.CLAHE && (opts.ClipLimit <= 0 || opts.TileSize < 1) {
		return nil, fmt.Errorf("invalid CLAHE parameters: clip %.2f, tiles %d", opts.ClipLimit, opts.TileSize)
	}

	mat, err := imageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}

	gray := gocv.NewMat()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	mat.Close()

	if opts.CLAHE {
		clahe := gocv.NewCLAHEWithParams(opts.ClipLimit, image.Point{X: opts.TileSize, Y: opts.TileSize})
		enhanced := gocv.NewMat()
		clahe.Apply(gray, &enhanced)
		clahe.Close()
		gray.Close()
		gray = enhanced
	}

	if opts.Binarize {
		binary := gocv.NewMat()
		gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
		gray.Close()
		gray = binary
	}

	out := grayMatToImage(gray)
	gray.Close()
	return out, nil
}
