package app

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	boardimage "chessboard-scan/internal/image"
	"chessboard-scan/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedPhoto(t *testing.T) string {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 140, G: 140, B: 140, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "board.png")
	require.NoError(t, boardimage.Save(path, img))
	return path
}

func TestLoadImageResetsSession(t *testing.T) {
	s := NewState()
	s.SetCorners(geometry.Quad{BR: geometry.Point2D{X: 7, Y: 7}})

	var events []EventType
	s.On(EventImageLoaded, func(interface{}) { events = append(events, EventImageLoaded) })

	path := savedPhoto(t)
	require.NoError(t, s.LoadImage(path))

	gotPath, gotImg := s.CurrentImage()
	assert.Equal(t, path, gotPath)
	assert.NotNil(t, gotImg)
	assert.Nil(t, s.Corners())
	assert.Nil(t, s.Result())
	assert.Equal(t, []EventType{EventImageLoaded}, events)
}

func TestLoadImageMissing(t *testing.T) {
	s := NewState()
	assert.Error(t, s.LoadImage(filepath.Join(t.TempDir(), "missing.png")))
}

func TestCornersReturnsCopy(t *testing.T) {
	s := NewState()
	quad := geometry.Quad{
		TL: geometry.Point2D{X: 1, Y: 1},
		TR: geometry.Point2D{X: 9, Y: 1},
		BL: geometry.Point2D{X: 1, Y: 9},
		BR: geometry.Point2D{X: 9, Y: 9},
	}
	s.SetCorners(quad)

	got := s.Corners()
	require.NotNil(t, got)
	got.TL.X = 123
	assert.Equal(t, quad, *s.Corners())
}

func TestEventsFireInOrder(t *testing.T) {
	s := NewState()

	var events []EventType
	for _, ev := range []EventType{EventImageLoaded, EventCornersSelected, EventScanComplete} {
		ev := ev
		s.On(ev, func(interface{}) { events = append(events, ev) })
	}

	require.NoError(t, s.LoadImage(savedPhoto(t)))
	s.SetCorners(geometry.Quad{})
	s.SetResult(nil)

	assert.Equal(t, []EventType{EventImageLoaded, EventCornersSelected, EventScanComplete}, events)
}
