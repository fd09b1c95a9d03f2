package geometry

import "fmt"

// Quad holds the four corners of a board region in the fixed order the
// rectification pipeline relies on: top-left, top-right, bottom-left,
// bottom-right. Once built, a Quad is never reordered.
type Quad struct {
	TL Point2D `json:"tl"`
	TR Point2D `json:"tr"`
	BL Point2D `json:"bl"`
	BR Point2D `json:"br"`
}

// Points returns the corners as a slice in TL, TR, BL, BR order.
func (q Quad) Points() []Point2D {
	return []Point2D{q.TL, q.TR, q.BL, q.BR}
}

// Centroid returns the average position of the four corners.
func (q Quad) Centroid() Point2D {
	return Centroid(q.Points())
}

// OrderCorners sorts four arbitrarily-ordered points into a Quad.
// Top-left has the smallest x+y sum, bottom-right the largest;
// top-right has the largest x-y difference, bottom-left the smallest.
// Degenerate point sets (duplicates, collinear) still produce a Quad.
func OrderCorners(points []Point2D) (Quad, error) {
	if len(points) != 4 {
		return Quad{}, fmt.Errorf("need 4 corner points, got %d", len(points))
	}

	var q Quad
	minSum := points[0].X + points[0].Y
	maxSum := minSum
	minDiff := points[0].X - points[0].Y
	maxDiff := minDiff
	q.TL, q.BR, q.TR, q.BL = points[0], points[0], points[0], points[0]

	for _, p := range points[1:] {
		sum := p.X + p.Y
		diff := p.X - p.Y
		if sum < minSum {
			minSum = sum
			q.TL = p
		}
		if sum > maxSum {
			maxSum = sum
			q.BR = p
		}
		if diff > maxDiff {
			maxDiff = diff
			q.TR = p
		}
		if diff < minDiff {
			minDiff = diff
			q.BL = p
		}
	}
	return q, nil
}

// CanonicalCorners returns the destination Quad for a w x h canvas:
// (0,0), (w-1,0), (0,h-1), (w-1,h-1). These are the corner pixel
// centers, matching the convention of the 4-point perspective solve.
func CanonicalCorners(w, h int) Quad {
	fw := float64(w - 1)
	fh := float64(h - 1)
	return Quad{
		TL: Point2D{X: 0, Y: 0},
		TR: Point2D{X: fw, Y: 0},
		BL: Point2D{X: 0, Y: fh},
		BR: Point2D{X: fw, Y: fh},
	}
}
