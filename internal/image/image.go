// Package image provides image loading, saving, and the grayscale
// conversion the classification pipeline works on.
package image

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Load reads and decodes an image from the specified path.
// PNG, JPEG, GIF, BMP and TIFF are supported.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Save writes an image to the specified path, choosing the encoder by
// file extension. PNG is used for .png and any unrecognized extension;
// .jpg/.jpeg produce JPEG at quality 95.
func Save(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output image: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output image: %w", err)
	}
	return nil
}

// ToRGBA returns a fresh RGBA copy of the image with its origin moved
// to (0,0). The input is never modified.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// ToGray converts an image to 8-bit grayscale using the standard
// luminance weights of the Go gray color model (JPEG luma).
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		row := y * gray.Stride
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Same integer arithmetic as color.GrayModel.
			luma := (19595*r + 38470*g + 7471*b + 1<<15) >> 24
			gray.Pix[row+x] = uint8(luma)
		}
	}
	return gray
}
