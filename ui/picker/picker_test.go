package picker

import (
	"image"
	"image/color"
	"testing"

	"chessboard-scan/pkg/colorutil"
	"chessboard-scan/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayPhoto(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	return img
}

func TestNewCanvasKeepsSmallImages(t *testing.T) {
	c := NewCanvas(grayPhoto(640, 480), maxDisplayWidth, maxDisplayHeight)
	assert.Equal(t, 1.0, c.scale)
	assert.Equal(t, 640, c.display.Bounds().Dx())
}

func TestImagePointUndoesDisplayScale(t *testing.T) {
	c := NewCanvas(grayPhoto(2000, 1000), 1000, 800)
	require.InDelta(t, 0.5, c.scale, 1e-9)

	p := c.imagePoint(100, 50)
	assert.InDelta(t, 200, p.X, 1e-9)
	assert.InDelta(t, 100, p.Y, 1e-9)
}

func TestAddPointCapsAtFour(t *testing.T) {
	c := NewCanvas(grayPhoto(640, 480), maxDisplayWidth, maxDisplayHeight)

	var counts []int
	c.OnChange(func(n int) { counts = append(counts, n) })

	for i := 0; i < 6; i++ {
		c.addPoint(float64(10*i), float64(20*i))
	}
	assert.Len(t, c.Points(), MaxCorners)
	assert.Equal(t, []int{1, 2, 3, 4}, counts)

	c.Undo()
	assert.Len(t, c.Points(), 3)

	c.Reset()
	assert.Empty(t, c.Points())
	assert.Equal(t, []int{1, 2, 3, 4, 3, 0}, counts)
}

func TestUndoAndResetOnEmptyAreQuiet(t *testing.T) {
	c := NewCanvas(grayPhoto(640, 480), maxDisplayWidth, maxDisplayHeight)

	fired := false
	c.OnChange(func(int) { fired = true })

	c.Undo()
	c.Reset()
	assert.False(t, fired)
}

func TestPointsReturnsCopy(t *testing.T) {
	c := NewCanvas(grayPhoto(640, 480), maxDisplayWidth, maxDisplayHeight)
	c.addPoint(10, 20)

	pts := c.Points()
	pts[0] = geometry.Point2D{X: 999, Y: 999}
	assert.Equal(t, geometry.Point2D{X: 10, Y: 20}, c.Points()[0])
}

func TestDrawReproducesDisplay(t *testing.T) {
	c := NewCanvas(grayPhoto(64, 48), maxDisplayWidth, maxDisplayHeight)

	out := c.draw(64, 48)
	rgba, ok := out.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, c.display.Pix, rgba.Pix)
}

func TestDrawMarkerPaintsRingAndCross(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 100, 100))
	drawMarker(out, 50, 50, 1, 1.0)

	// On the ring at radius 9, and on the crosshair at the center.
	assert.Equal(t, colorutil.Yellow, out.RGBAAt(59, 50))
	assert.Equal(t, colorutil.Yellow, out.RGBAAt(50, 50))

	// Well outside the marker nothing is painted.
	assert.Equal(t, color.RGBA{}, out.RGBAAt(5, 95))
}

func TestDrawMarkerClipsAtEdges(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 40, 40))
	drawMarker(out, 0, 0, 4, 1.0)
	drawMarker(out, 39, 39, 2, 1.0)
	assert.Equal(t, colorutil.Yellow, out.RGBAAt(0, 9))
}
