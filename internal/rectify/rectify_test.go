package rectify

import (
	"image"
	"image/color"
	"testing"

	"chessboard-scan/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 255 / (w + h)),
				A: 255,
			})
		}
	}
	return img
}

func TestComputeCorrespondenceKnownCoefficients(t *testing.T) {
	// Inner square (1,1)-(4,4) stretched onto a 5x5 frame: the x and y
	// scale factors are (5-0)/(4-1) = 5/3 and the translation is -5/3.
	src := geometry.Quad{
		TL: geometry.Point2D{X: 1, Y: 1},
		TR: geometry.Point2D{X: 4, Y: 1},
		BL: geometry.Point2D{X: 1, Y: 4},
		BR: geometry.Point2D{X: 4, Y: 4},
	}
	dst := geometry.Quad{
		TL: geometry.Point2D{X: 0, Y: 0},
		TR: geometry.Point2D{X: 5, Y: 0},
		BL: geometry.Point2D{X: 0, Y: 5},
		BR: geometry.Point2D{X: 5, Y: 5},
	}

	h, err := ComputeCorrespondence(src, dst)
	require.NoError(t, err)

	assert.InEpsilon(t, 1.666666666666666, h[0][0], 0.01)
	assert.InEpsilon(t, 1.666666666666666, h[1][1], 0.01)
	assert.InDelta(t, -5.0/3.0, h[0][2], 1e-9)
	assert.InDelta(t, -5.0/3.0, h[1][2], 1e-9)
	assert.InDelta(t, 0.0, h[2][0], 1e-9)
	assert.InDelta(t, 0.0, h[2][1], 1e-9)
}

func TestComputeProjectsCornersOntoCanvas(t *testing.T) {
	// A skewed board photo: not a parallelogram, so the perspective
	// terms are exercised too.
	src := geometry.Quad{
		TL: geometry.Point2D{X: 102, Y: 88},
		TR: geometry.Point2D{X: 511, Y: 120},
		BL: geometry.Point2D{X: 70, Y: 470},
		BR: geometry.Point2D{X: 540, Y: 502},
	}

	h, err := Compute(src, 400, 400)
	require.NoError(t, err)

	dst := geometry.CanonicalCorners(400, 400)
	srcPts := src.Points()
	dstPts := dst.Points()
	for i := range srcPts {
		got := h.Apply(srcPts[i])
		assert.InDelta(t, dstPts[i].X, got.X, 1e-6)
		assert.InDelta(t, dstPts[i].Y, got.Y, 1e-6)
	}
}

func TestComputeIdentity(t *testing.T) {
	h, err := Compute(geometry.CanonicalCorners(400, 400), 400, 400)
	require.NoError(t, err)

	want := geometry.IdentityHomography()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want[i][j], h[i][j], 1e-9)
		}
	}
}

func TestComputeSingularCorrespondence(t *testing.T) {
	p := geometry.Point2D{X: 50, Y: 50}
	degenerate := geometry.Quad{TL: p, TR: p, BL: p, BR: p}

	_, err := Compute(degenerate, 400, 400)
	assert.Error(t, err)
}

func TestComputeInvalidCanvas(t *testing.T) {
	q := geometry.CanonicalCorners(100, 100)
	_, err := Compute(q, 0, 400)
	assert.Error(t, err)
	_, err = Compute(q, 400, -1)
	assert.Error(t, err)
}

func TestRectifyIdentityReproducesSource(t *testing.T) {
	src := gradientImage(40, 40)

	h, err := Compute(geometry.CanonicalCorners(40, 40), 40, 40)
	require.NoError(t, err)

	out, err := Rectify(src, h, 40, 40)
	require.NoError(t, err)

	assert.Equal(t, src.Pix, out.Pix)
}

func TestRectifyTranslatedCrop(t *testing.T) {
	// The quad (10,10)-(59,59) spans 49 pixels, exactly the span of a
	// 50-pixel canvas, so the warp reduces to a pure translation.
	src := gradientImage(100, 100)
	quad := geometry.Quad{
		TL: geometry.Point2D{X: 10, Y: 10},
		TR: geometry.Point2D{X: 59, Y: 10},
		BL: geometry.Point2D{X: 10, Y: 59},
		BR: geometry.Point2D{X: 59, Y: 59},
	}

	h, err := Compute(quad, 50, 50)
	require.NoError(t, err)

	out, err := Rectify(src, h, 50, 50)
	require.NoError(t, err)

	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			require.Equal(t, src.RGBAAt(x+10, y+10), out.RGBAAt(x, y),
				"pixel (%d,%d)", x, y)
		}
	}
}

func TestRectifyOutsideSourceIsBlack(t *testing.T) {
	src := gradientImage(100, 100)
	quad := geometry.Quad{
		TL: geometry.Point2D{X: 50, Y: 50},
		TR: geometry.Point2D{X: 149, Y: 50},
		BL: geometry.Point2D{X: 50, Y: 149},
		BR: geometry.Point2D{X: 149, Y: 149},
	}

	h, err := Compute(quad, 100, 100)
	require.NoError(t, err)

	out, err := Rectify(src, h, 100, 100)
	require.NoError(t, err)

	// In-range region is translated source, out-of-range is black.
	assert.Equal(t, src.RGBAAt(60, 60), out.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(60, 60))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(99, 20))
}

func TestRectifyDeterministic(t *testing.T) {
	src := gradientImage(80, 80)
	quad := geometry.Quad{
		TL: geometry.Point2D{X: 5, Y: 8},
		TR: geometry.Point2D{X: 71, Y: 6},
		BL: geometry.Point2D{X: 7, Y: 74},
		BR: geometry.Point2D{X: 69, Y: 77},
	}

	h1, err := Compute(quad, 64, 64)
	require.NoError(t, err)
	out1, err := Rectify(src, h1, 64, 64)
	require.NoError(t, err)

	h2, err := Compute(quad, 64, 64)
	require.NoError(t, err)
	out2, err := Rectify(src, h2, 64, 64)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, out1.Pix, out2.Pix)
}
