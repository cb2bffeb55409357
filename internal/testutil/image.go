// Package testutil generates synthetic QR images for tests.
package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// QRConfig holds configuration for generating synthetic QR fixtures.
type QRConfig struct {
	Text     string
	Size     int     // rendered edge length in pixels, including quiet zone
	Rotation float64 // degrees counter-clockwise, rendered on white fill
	Scale    float64 // optional resample factor applied after rotation; 0 means 1.0
}

// DefaultQRConfig returns a default fixture configuration.
func DefaultQRConfig() QRConfig {
	return QRConfig{
		Text: "qrscan test payload",
		Size: 300,
	}
}

// GenerateQR renders a QR symbol with the given configuration.
func GenerateQR(cfg QRConfig) (image.Image, error) {
	if cfg.Text == "" {
		return nil, fmt.Errorf("fixture text is empty")
	}
	size := cfg.Size
	if size <= 0 {
		size = DefaultQRConfig().Size
	}

	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(cfg.Text, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}

	var img image.Image = matrixToImage(matrix)
	if cfg.Rotation != 0 {
		img = imaging.Rotate(img, cfg.Rotation, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	}
	if cfg.Scale > 0 && cfg.Scale != 1.0 {
		b := img.Bounds()
		w := int(float64(b.Dx()) * cfg.Scale)
		h := int(float64(b.Dy()) * cfg.Scale)
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	return img, nil
}

func matrixToImage(m *gozxing.BitMatrix) *image.RGBA {
	w, h := m.GetWidth(), m.GetHeight()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Get(x, y) {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

// SolidImage returns a uniformly filled image, e.g. an all-black frame for
// graceful-failure tests.
func SolidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}
