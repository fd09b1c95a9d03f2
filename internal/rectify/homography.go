// Package rectify computes 4-point perspective transforms and
// resamples source images through them.
package rectify

import (
	"errors"
	"fmt"
	"math"

	"chessboard-scan/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// Compute solves the exact perspective transform taking the four source
// corners onto the canonical corners of a w x h canvas.
func Compute(src geometry.Quad, w, h int) (geometry.Homography, error) {
	if w <= 0 || h <= 0 {
		return geometry.Homography{}, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}
	return ComputeCorrespondence(src, geometry.CanonicalCorners(w, h))
}

// ComputeCorrespondence solves the src -> dst quad correspondence.
// Four point pairs give eight equations for the eight unknowns of a
// projective transform with the bottom-right element fixed at 1.
// A nearly-collinear source quad yields an ill-conditioned system; the
// degraded transform it implies is returned rather than rejected. Only
// an exactly singular correspondence (for which no transform exists at
// all) is an error.
func ComputeCorrespondence(src, dst geometry.Quad) (geometry.Homography, error) {
	s := src.Points()
	d := dst.Points()

	// Each pair (X,Y)->(x,y) contributes two rows:
	//   [X Y 1 0 0 0 -X*x -Y*x] . h = x
	//   [0 0 0 X Y 1 -X*y -Y*y] . h = y
	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		X, Y := s[i].X, s[i].Y
		x, y := d[i].X, d[i].Y

		A.Set(i*2, 0, X)
		A.Set(i*2, 1, Y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -X*x)
		A.Set(i*2, 7, -Y*x)
		B.SetVec(i*2, x)

		A.Set(i*2+1, 3, X)
		A.Set(i*2+1, 4, Y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -X*y)
		A.Set(i*2+1, 7, -Y*y)
		B.SetVec(i*2+1, y)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return geometry.Homography{}, fmt.Errorf("corner correspondence is singular: %w", err)
		}
		// Finite condition number: a usable, if degraded, solution.
	}

	return geometry.Homography{
		{params.AtVec(0), params.AtVec(1), params.AtVec(2)},
		{params.AtVec(3), params.AtVec(4), params.AtVec(5)},
		{params.AtVec(6), params.AtVec(7), 1},
	}, nil
}

// invert returns the inverse transform used for destination-to-source
// mapping during resampling.
func invert(h geometry.Homography) (geometry.Homography, error) {
	m := mat.NewDense(3, 3, []float64{
		h[0][0], h[0][1], h[0][2],
		h[1][0], h[1][1], h[1][2],
		h[2][0], h[2][1], h[2][2],
	})

	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return geometry.Homography{}, fmt.Errorf("transform is not invertible: %w", err)
		}
	}

	var out geometry.Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}
