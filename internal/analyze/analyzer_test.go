package analyze

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"chessboard-scan/internal/config"
	"chessboard-scan/internal/grid"

	"github.com/edaniels/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boardPhoto paints an 8x8 checkerboard of cell-sized squares at the
// given offset, light square first, on a mid-gray background.
func boardPhoto(w, h, offset, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 90, G: 90, B: 90, A: 255})
		}
	}
	for y := 0; y < 8*cell; y++ {
		for x := 0; x < 8*cell; x++ {
			c := color.RGBA{R: 230, G: 230, B: 230, A: 255}
			if (x/cell+y/cell)%2 == 1 {
				c = color.RGBA{R: 25, G: 25, B: 25, A: 255}
			}
			img.SetRGBA(offset+x, offset+y, c)
		}
	}
	return img
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Enhance.CLAHE = false
	cfg.Enhance.Binarize = false
	cfg.OutputPath = filepath.Join(t.TempDir(), "annotated.png")
	return cfg
}

func fullCanvasCorners(size int) FixedCorners {
	f := float64(size - 1)
	return FixedCorners{{X: 0, Y: 0}, {X: f, Y: 0}, {X: 0, Y: f}, {X: f, Y: f}}
}

func TestRunClassifiesCheckerboard(t *testing.T) {
	cfg := testConfig(t)
	img := boardPhoto(400, 400, 0, 50)

	res, err := New(cfg, golog.NewTestLogger(t)).Run(context.Background(), img, fullCanvasCorners(400))
	require.NoError(t, err)

	assert.Equal(t, grid.Counts{Light: 32, Dark: 32}, res.Counts)
	assert.Equal(t, grid.CellCount, res.Counts.Light+res.Counts.Dark)
	assert.Greater(t, res.Threshold, 25.0)
	assert.LessOrEqual(t, res.Threshold, 230.0)

	for _, c := range res.Cells {
		want := grid.Light
		if (c.Row+c.Col)%2 == 1 {
			want = grid.Dark
		}
		assert.Equal(t, want, c.Class, "square %s", c.Square())
	}

	assert.Equal(t, cfg.OutputPath, res.OutputPath)
	_, err = os.Stat(cfg.OutputPath)
	assert.NoError(t, err)
}

func TestRunRectifiesOffsetBoard(t *testing.T) {
	// The board occupies (40,40)-(360,360); the corner selection must
	// crop it out before the grid is measured.
	cfg := testConfig(t)
	cfg.CanvasSize = 320
	img := boardPhoto(440, 440, 40, 40)

	src := FixedCorners{{X: 40, Y: 40}, {X: 359, Y: 40}, {X: 40, Y: 359}, {X: 359, Y: 359}}
	res, err := New(cfg, golog.NewTestLogger(t)).Run(context.Background(), img, src)
	require.NoError(t, err)

	assert.Equal(t, grid.Counts{Light: 32, Dark: 32}, res.Counts)
	for _, c := range res.Cells {
		want := grid.Light
		if (c.Row+c.Col)%2 == 1 {
			want = grid.Dark
		}
		assert.Equal(t, want, c.Class, "square %s", c.Square())
	}
}

func TestRunCornerCount(t *testing.T) {
	cfg := testConfig(t)
	img := boardPhoto(400, 400, 0, 50)

	res, err := New(cfg, golog.NewTestLogger(t)).Run(context.Background(), img,
		FixedCorners{{X: 0, Y: 0}, {X: 399, Y: 0}, {X: 0, Y: 399}})
	assert.ErrorIs(t, err, ErrCornerCount)
	assert.Nil(t, res)
}

func TestRunDeterministic(t *testing.T) {
	cfg := testConfig(t)
	img := boardPhoto(400, 400, 0, 50)
	logger := golog.NewTestLogger(t)

	first, err := New(cfg, logger).Run(context.Background(), img, fullCanvasCorners(400))
	require.NoError(t, err)
	second, err := New(cfg, logger).Run(context.Background(), img, fullCanvasCorners(400))
	require.NoError(t, err)

	assert.Equal(t, first.Counts, second.Counts)
	assert.Equal(t, first.Threshold, second.Threshold)
	assert.True(t, bytes.Equal(first.Annotated.Pix, second.Annotated.Pix))
}

func TestRunKeepsResultOnWriteFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputPath = filepath.Join(t.TempDir(), "no", "such", "dir", "annotated.png")
	img := boardPhoto(400, 400, 0, 50)

	res, err := New(cfg, golog.NewTestLogger(t)).Run(context.Background(), img, fullCanvasCorners(400))
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, grid.Counts{Light: 32, Dark: 32}, res.Counts)
	assert.Empty(t, res.OutputPath)
}

func TestRunSkipsSaveWithoutOutputPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputPath = ""
	img := boardPhoto(400, 400, 0, 50)

	res, err := New(cfg, golog.NewTestLogger(t)).Run(context.Background(), img, fullCanvasCorners(400))
	require.NoError(t, err)
	assert.Empty(t, res.OutputPath)
	assert.Equal(t, grid.Counts{Light: 32, Dark: 32}, res.Counts)
}

func TestRunWritesHeatmap(t *testing.T) {
	cfg := testConfig(t)
	cfg.HeatmapPath = filepath.Join(t.TempDir(), "heat.png")
	img := boardPhoto(400, 400, 0, 50)

	_, err := New(cfg, golog.NewTestLogger(t)).Run(context.Background(), img, fullCanvasCorners(400))
	require.NoError(t, err)

	_, err = os.Stat(cfg.HeatmapPath)
	assert.NoError(t, err)
}

func TestSummaryWording(t *testing.T) {
	res := &Result{
		Counts:     grid.Counts{Light: 32, Dark: 32},
		OutputPath: "out.png",
	}
	s := Summary(res)
	assert.Contains(t, s, "Black squares detected: 32")
	assert.Contains(t, s, "White squares detected: 32")
	assert.Contains(t, s, "Annotated image saved to: out.png")
}

func TestSummaryOmitsUnsavedOutput(t *testing.T) {
	s := Summary(&Result{Counts: grid.Counts{Light: 64}})
	assert.Contains(t, s, "Black squares detected: 0")
	assert.NotContains(t, s, "saved to")
}

func TestDetailListsEverySquare(t *testing.T) {
	cells := grid.Partition(400, 400)
	res := &Result{Policy: grid.PolicyOtsu, Threshold: 127, Cells: cells}

	d := Detail(res)
	assert.Contains(t, d, "a8")
	assert.Contains(t, d, "h1")
	assert.Contains(t, d, "otsu")
}
