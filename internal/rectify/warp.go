package rectify

import (
	"fmt"
	"image"
	"math"

	boardimage "chessboard-scan/internal/image"
	"chessboard-scan/pkg/geometry"
)

// Rectify resamples src through the inverse of hom into a w x h canvas
// using bilinear interpolation. Destination pixels that map outside the
// source bounds come out black (constant border). The source image is
// not modified.
func Rectify(src image.Image, hom geometry.Homography, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}

	inv, err := invert(hom)
	if err != nil {
		return nil, err
	}

	rgba := boardimage.ToRGBA(src)
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sp := inv.Apply(geometry.Point2D{X: float64(x), Y: float64(y)})
			r, g, b, a := bilinear(rgba, sp.X, sp.Y)

			off := y*out.Stride + x*4
			out.Pix[off+0] = r
			out.Pix[off+1] = g
			out.Pix[off+2] = b
			out.Pix[off+3] = a
		}
	}
	return out, nil
}

// bilinear samples img at a fractional position, blending the four
// surrounding pixels by area. img must have its origin at (0,0).
// Positions outside [0,w-1]x[0,h-1], including the NaN/Inf coordinates
// a degenerate transform can produce, sample as transparent black.
func bilinear(img *image.RGBA, x, y float64) (r, g, b, a uint8) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()

	if math.IsNaN(x) || math.IsNaN(y) ||
		x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
		return 0, 0, 0, 0
	}

	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}

	dx := x - float64(x0)
	dy := y - float64(y0)

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	p00 := y0*img.Stride + x0*4
	p10 := y0*img.Stride + x1*4
	p01 := y1*img.Stride + x0*4
	p11 := y1*img.Stride + x1*4

	var out [4]uint8
	for c := 0; c < 4; c++ {
		v := w00*float64(img.Pix[p00+c]) +
			w10*float64(img.Pix[p10+c]) +
			w01*float64(img.Pix[p01+c]) +
			w11*float64(img.Pix[p11+c])
		out[c] = uint8(v + 0.5)
	}
	return out[0], out[1], out[2], out[3]
}
