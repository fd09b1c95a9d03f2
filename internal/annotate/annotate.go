// Package annotate renders classification results onto the rectified
// board image.
package annotate

import (
	"image"
	"image/color"

	"chessboard-scan/internal/grid"
	boardimage "chessboard-scan/internal/image"
	"chessboard-scan/pkg/colorutil"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Options controls the annotation rendering.
type Options struct {
	LineWidth  float64
	Labels     bool
	LightColor color.RGBA
	DarkColor  color.RGBA
}

// DefaultOptions is the classic rendering: green outlines on light
// squares, red on dark, two-pixel strokes, no labels.
func DefaultOptions() Options {
	return Options{
		LineWidth:  2,
		LightColor: colorutil.Green,
		DarkColor:  colorutil.Red,
	}
}

// Draw renders per-cell outlines, and square-name labels when enabled,
// onto a copy of the rectified image. The input is not modified.
func Draw(rectified image.Image, cells []grid.Cell, opts Options) *image.RGBA {
	out := boardimage.ToRGBA(rectified)
	dc := gg.NewContextForRGBA(out)
	dc.SetLineWidth(opts.LineWidth)

	for _, cell := range cells {
		c := opts.LightColor
		if cell.Class == grid.Dark {
			c = opts.DarkColor
		}
		dc.SetColor(c)
		b := cell.Bounds
		dc.DrawRectangle(float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()))
		dc.Stroke()
	}

	if opts.Labels {
		for _, cell := range cells {
			textColor := color.Color(colorutil.Black)
			if cell.Class == grid.Dark {
				textColor = colorutil.White
			}
			at := image.Point{X: cell.Bounds.Min.X + 4, Y: cell.Bounds.Min.Y + 14}
			drawString(out, cell.Square(), at, textColor)
		}
	}
	return out
}

// drawString renders small fixed-font text directly into the image.
func drawString(img *image.RGBA, s string, at image.Point, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(at.X, at.Y),
	}
	d.DrawString(s)
}
