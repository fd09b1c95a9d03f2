package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"chessboard-scan/internal/grid"
	"chessboard-scan/pkg/colorutil"

	"github.com/lucasb-eyer/go-colorful"
)

// IntensityMap renders a diagnostic view of the cell means: each cell
// filled with a hue ramp from blue (dark) to red (bright) and labeled
// with its rounded mean. Useful for judging contrast before choosing a
// threshold policy.
func IntensityMap(cells []grid.Cell, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for _, cell := range cells {
		hue := 240.0 * (1.0 - cell.Mean/255.0)
		r, g, b := colorful.Hsv(hue, 1, 1).RGB255()
		fill := color.RGBA{R: r, G: g, B: b, A: 255}
		draw.Draw(out, cell.Bounds, &image.Uniform{C: fill}, image.Point{}, draw.Src)
	}

	for _, cell := range cells {
		at := image.Point{X: cell.Bounds.Min.X + 4, Y: cell.Bounds.Min.Y + 14}
		drawString(out, fmt.Sprintf("%.0f", cell.Mean), at, colorutil.White)
	}
	return out
}
