// Package grid partitions a rectified board image into the 8x8 cell
// grid and classifies each cell as light or dark.
package grid

import (
	"image"
	"strconv"
)

// A chessboard is always 8x8.
const (
	Rows = 8
	Cols = 8

	// CellCount is the number of grid cells in one board.
	CellCount = Rows * Cols
)

// Class labels a cell by its mean intensity.
type Class int

const (
	Light Class = iota
	Dark
)

func (c Class) String() string {
	switch c {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return "unknown"
	}
}

// Cell is one of the 64 partitions of the rectified image.
type Cell struct {
	Row    int             `json:"row"`
	Col    int             `json:"col"`
	Bounds image.Rectangle `json:"-"`
	Mean   float64         `json:"mean"`
	Class  Class           `json:"class"`
}

// Square returns the algebraic name of the cell, with row 0 at the top
// of the board: "a8" for the top-left cell through "h1" at the
// bottom-right.
func (c Cell) Square() string {
	return string(rune('a'+c.Col)) + strconv.Itoa(Rows-c.Row)
}

// Partition divides a w x h canvas into the 64 cell bounds, row-major.
// Boundaries sit at i*w/8 and i*h/8, so the cells are non-overlapping
// and tile the canvas exactly even when the size is not divisible by 8.
func Partition(w, h int) []Cell {
	cells := make([]Cell, 0, CellCount)
	for row := 0; row < Rows; row++ {
		y0 := row * h / Rows
		y1 := (row + 1) * h / Rows
		for col := 0; col < Cols; col++ {
			x0 := col * w / Cols
			x1 := (col + 1) * w / Cols
			cells = append(cells, Cell{
				Row:    row,
				Col:    col,
				Bounds: image.Rect(x0, y0, x1, y1),
			})
		}
	}
	return cells
}

// Measure fills in each cell's mean intensity from the grayscale
// image. The cells must have been partitioned from the same dimensions
// as gray.
func Measure(gray *image.Gray, cells []Cell) {
	for i := range cells {
		cells[i].Mean = meanIntensity(gray, cells[i].Bounds)
	}
}

func meanIntensity(gray *image.Gray, bounds image.Rectangle) float64 {
	var sum int64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := y * gray.Stride
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += int64(gray.Pix[row+x])
		}
	}
	area := bounds.Dx() * bounds.Dy()
	if area == 0 {
		return 0
	}
	return float64(sum) / float64(area)
}
