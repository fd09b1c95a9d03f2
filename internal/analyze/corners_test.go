package analyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"chessboard-scan/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedCornersOrders(t *testing.T) {
	src := FixedCorners{
		{X: 390, Y: 10},
		{X: 5, Y: 400},
		{X: 12, Y: 8},
		{X: 405, Y: 395},
	}

	quad, err := src.Corners(context.Background())
	require.NoError(t, err)
	assert.Equal(t, geometry.Point2D{X: 12, Y: 8}, quad.TL)
	assert.Equal(t, geometry.Point2D{X: 390, Y: 10}, quad.TR)
	assert.Equal(t, geometry.Point2D{X: 5, Y: 400}, quad.BL)
	assert.Equal(t, geometry.Point2D{X: 405, Y: 395}, quad.BR)
}

func TestFixedCornersCount(t *testing.T) {
	for _, n := range []int{0, 3, 5} {
		src := make(FixedCorners, n)
		_, err := src.Corners(context.Background())
		assert.ErrorIs(t, err, ErrCornerCount, "with %d points", n)
	}
}

func TestCornerFileRoundTrip(t *testing.T) {
	quad := geometry.Quad{
		TL: geometry.Point2D{X: 1, Y: 2},
		TR: geometry.Point2D{X: 300, Y: 4},
		BL: geometry.Point2D{X: 3, Y: 310},
		BR: geometry.Point2D{X: 305, Y: 320},
	}

	path := filepath.Join(t.TempDir(), "corners.json")
	require.NoError(t, SaveCorners(path, quad))

	got, err := FileCorners(path).Corners(context.Background())
	require.NoError(t, err)
	assert.Equal(t, quad, got)
}

func TestFileCornersMissing(t *testing.T) {
	_, err := FileCorners(filepath.Join(t.TempDir(), "absent.json")).Corners(context.Background())
	assert.Error(t, err)
}

func TestFileCornersWrongCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corners.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"points":[{"x":1,"y":2}]}`), 0o644))

	_, err := FileCorners(path).Corners(context.Background())
	assert.ErrorIs(t, err, ErrCornerCount)
}

func TestParsePoints(t *testing.T) {
	pts, err := ParsePoints("12,34; 560.5,28 ;18,590;572,601.25")
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point2D{
		{X: 12, Y: 34},
		{X: 560.5, Y: 28},
		{X: 18, Y: 590},
		{X: 572, Y: 601.25},
	}, pts)
}

func TestParsePointsRejectsMalformed(t *testing.T) {
	for _, s := range []string{"12", "12,34;56", "a,b", "1,2,3"} {
		_, err := ParsePoints(s)
		assert.Error(t, err, "input %q", s)
	}
}
