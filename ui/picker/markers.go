package picker

import (
	"image"
	"image/color"

	"chessboard-scan/pkg/colorutil"
)

// Marker geometry in display pixels. The raster ratio k scales these
// up on high-DPI screens.
const (
	markerRadius = 9.0
	crossReach   = 14.0
)

// digitPatterns holds 3x5 bitmaps for the marker click indices.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111},
	{0b010, 0b110, 0b010, 0b010, 0b111},
	{0b111, 0b001, 0b111, 0b100, 0b111},
	{0b111, 0b001, 0b111, 0b001, 0b111},
	{0b101, 0b101, 0b111, 0b001, 0b001},
	{0b111, 0b100, 0b111, 0b001, 0b111},
	{0b111, 0b100, 0b111, 0b101, 0b111},
	{0b111, 0b001, 0b001, 0b001, 0b001},
	{0b111, 0b101, 0b111, 0b101, 0b111},
	{0b111, 0b101, 0b111, 0b001, 0b111},
}

// drawMarker paints one numbered click marker: a ring around the point,
// a crosshair through it, and the click index at the upper right.
func drawMarker(out *image.RGBA, cx, cy float64, index int, k float64) {
	col := colorutil.Yellow
	r := markerRadius * k
	reach := crossReach * k
	thickness := int(k + 0.5)
	if thickness < 1 {
		thickness = 1
	}

	drawRing(out, cx, cy, r, col)
	drawLine(out, int(cx-reach), int(cy), int(cx+reach), int(cy), col, thickness)
	drawLine(out, int(cx), int(cy-reach), int(cx), int(cy+reach), col, thickness)
	drawDigit(out, index, int(cx+r)+3*thickness, int(cy-r)-7*thickness, col, 2*thickness)
}

// drawRing draws a circle outline two pixels thick.
func drawRing(out *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := out.Bounds()
	minX, maxX := int(cx-r-1), int(cx+r+1)
	minY, maxY := int(cy-r-1), int(cy+r+1)

	outer := r * r
	inner := (r - 2) * (r - 2)
	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			d2 := dx*dx + dy*dy
			if d2 <= outer && d2 >= inner {
				out.Set(x, y, col)
			}
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(out *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := out.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					out.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDigit stamps a single digit from the 3x5 bitmap font.
func drawDigit(out *image.RGBA, n, x, y int, col color.RGBA, scale int) {
	if n < 0 || n > 9 {
		return
	}
	bounds := out.Bounds()

	pattern := digitPatterns[n]
	for row := 0; row < 5; row++ {
		for bit := 0; bit < 3; bit++ {
			if pattern[row]&(1<<uint(2-bit)) == 0 {
				continue
			}
			for py := y + row*scale; py < y+(row+1)*scale; py++ {
				for px := x + bit*scale; px < x+(bit+1)*scale; px++ {
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						out.Set(px, py, col)
					}
				}
			}
		}
	}
}
