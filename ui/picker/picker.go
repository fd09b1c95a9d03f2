// Package picker provides the interactive corner selection canvas.
package picker

import (
	"context"
	"fmt"
	"image"

	"chessboard-scan/internal/analyze"
	boardimage "chessboard-scan/internal/image"
	"chessboard-scan/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
)

// MaxCorners is the number of corners a board selection needs.
const MaxCorners = 4

const (
	maxDisplayWidth  = 1280
	maxDisplayHeight = 800
)

// Canvas shows a board photo scaled down to fit the screen and records
// the corners the user clicks, up to four, in original image
// coordinates.
type Canvas struct {
	widget.BaseWidget

	display *image.RGBA
	scale   float64

	points []geometry.Point2D

	raster   *fynecanvas.Raster
	content  *clickableContent
	onChange func(count int)
}

// NewCanvas builds a picker canvas for img, scaled down (never up) to
// fit within maxW x maxH.
func NewCanvas(img image.Image, maxW, maxH int) *Canvas {
	bounds := img.Bounds()
	display := img
	scale := 1.0
	if bounds.Dx() > maxW || bounds.Dy() > maxH {
		fitted := imaging.Fit(img, maxW, maxH, imaging.Lanczos)
		scale = float64(fitted.Bounds().Dx()) / float64(bounds.Dx())
		display = fitted
	}

	c := &Canvas{
		display: boardimage.ToRGBA(display),
		scale:   scale,
	}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.raster.SetMinSize(fyne.NewSize(
		float32(c.display.Bounds().Dx()), float32(c.display.Bounds().Dy())))
	c.content = newClickableContent(c, c.raster)
	c.ExtendBaseWidget(c)
	return c
}

// Points returns the clicked corners in click order, in original image
// coordinates.
func (c *Canvas) Points() []geometry.Point2D {
	out := make([]geometry.Point2D, len(c.points))
	copy(out, c.points)
	return out
}

// Undo removes the most recent corner.
func (c *Canvas) Undo() {
	if len(c.points) == 0 {
		return
	}
	c.points = c.points[:len(c.points)-1]
	c.changed()
}

// Reset clears the whole selection.
func (c *Canvas) Reset() {
	if len(c.points) == 0 {
		return
	}
	c.points = nil
	c.changed()
}

// OnChange registers a callback fired whenever the corner count
// changes.
func (c *Canvas) OnChange(fn func(count int)) {
	c.onChange = fn
}

// imagePoint converts a display-space click into original image
// coordinates.
func (c *Canvas) imagePoint(displayX, displayY float64) geometry.Point2D {
	return geometry.Point2D{X: displayX / c.scale, Y: displayY / c.scale}
}

func (c *Canvas) addPoint(displayX, displayY float64) {
	if len(c.points) >= MaxCorners {
		return
	}
	c.points = append(c.points, c.imagePoint(displayX, displayY))
	c.changed()
}

func (c *Canvas) changed() {
	c.raster.Refresh()
	if c.onChange != nil {
		c.onChange(len(c.points))
	}
}

// draw renders the scaled photo plus one marker per clicked corner.
// The raster can be larger than the display image on high-DPI screens,
// so everything maps through the raster/display ratio.
func (c *Canvas) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	dw := c.display.Bounds().Dx()
	dh := c.display.Bounds().Dy()
	if w == 0 || h == 0 || dw == 0 || dh == 0 {
		return out
	}

	for y := 0; y < h; y++ {
		sy := y * dh / h
		srcRow := sy * c.display.Stride
		dstRow := y * out.Stride
		for x := 0; x < w; x++ {
			sx := x * dw / w
			copy(out.Pix[dstRow+x*4:dstRow+x*4+4], c.display.Pix[srcRow+sx*4:srcRow+sx*4+4])
		}
	}

	k := float64(w) / float64(dw)
	for i, p := range c.points {
		drawMarker(out, p.X*c.scale*k, p.Y*c.scale*k, i+1, k)
	}
	return out
}

// CreateRenderer implements fyne.Widget.
func (c *Canvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.content)
}

// clickableContent wraps the raster to receive tap events.
type clickableContent struct {
	widget.BaseWidget
	canvas *Canvas
	raster *fynecanvas.Raster
}

func newClickableContent(c *Canvas, raster *fynecanvas.Raster) *clickableContent {
	cc := &clickableContent{canvas: c, raster: raster}
	cc.ExtendBaseWidget(cc)
	return cc
}

func (cc *clickableContent) CreateRenderer() fyne.WidgetRenderer {
	return &clickableContentRenderer{content: cc}
}

func (cc *clickableContent) MinSize() fyne.Size {
	return cc.raster.MinSize()
}

// Tapped records a corner at the click position.
func (cc *clickableContent) Tapped(ev *fyne.PointEvent) {
	// Reject clicks reported outside the widget bounds.
	size := cc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	cc.canvas.addPoint(float64(ev.Position.X), float64(ev.Position.Y))
}

// TappedSecondary undoes the most recent corner.
func (cc *clickableContent) TappedSecondary(*fyne.PointEvent) {
	cc.canvas.Undo()
}

type clickableContentRenderer struct {
	content *clickableContent
}

func (r *clickableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *clickableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *clickableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *clickableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *clickableContentRenderer) Destroy() {}

// Source adapts the picker into a corner source for the analyzer.
type Source struct {
	Window fyne.Window
	Image  image.Image
}

var _ analyze.CornerSource = Source{}

// Corners runs the interactive selection in the source's window.
func (s Source) Corners(ctx context.Context) (geometry.Quad, error) {
	return SelectCorners(ctx, s.Window, s.Image)
}

type selection struct {
	quad geometry.Quad
	err  error
}

// SelectCorners shows the picker in win and blocks until the user
// confirms four corners, cancels, or ctx ends. It must be called off
// the UI goroutine.
func SelectCorners(ctx context.Context, win fyne.Window, img image.Image) (geometry.Quad, error) {
	done := make(chan selection, 1)
	finish := func(sel selection) {
		select {
		case done <- sel:
		default:
		}
	}

	pick := NewCanvas(img, maxDisplayWidth, maxDisplayHeight)
	status := widget.NewLabel(statusText(0))

	confirm := widget.NewButton("Confirm", func() {
		quad, err := geometry.OrderCorners(pick.Points())
		finish(selection{quad: quad, err: err})
	})
	confirm.Disable()

	pick.OnChange(func(count int) {
		status.SetText(statusText(count))
		if count == MaxCorners {
			confirm.Enable()
		} else {
			confirm.Disable()
		}
	})

	undo := widget.NewButton("Undo", pick.Undo)
	reset := widget.NewButton("Reset", pick.Reset)
	cancel := widget.NewButton("Cancel", func() {
		finish(selection{err: analyze.ErrCanceled})
	})

	bar := container.NewHBox(status, layout.NewSpacer(), undo, reset, cancel, confirm)
	win.SetContent(container.NewBorder(nil, bar, nil, nil, container.NewCenter(pick)))

	select {
	case <-ctx.Done():
		return geometry.Quad{}, ctx.Err()
	case sel := <-done:
		return sel.quad, sel.err
	}
}

func statusText(count int) string {
	return fmt.Sprintf("Click the four board corners (%d/%d)", count, MaxCorners)
}
