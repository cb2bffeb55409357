// Package transform provides geometric operations over pixel buffers:
// arbitrary-angle rotation, uniform resampling and clamped sub-region
// extraction. All operations return new buffers.
package transform

import (
	"image/color"
	"math"

	"github.com/MeKo-Tech/qrscan/internal/buffer"
	"github.com/disintegration/imaging"
)

// Rotate rotates the buffer counter-clockwise by the given angle in degrees
// about the image center. The output bounds expand to cover the rotated
// content and uncovered area is filled blank (white), which binarizers
// treat as quiet zone.
func Rotate(src *buffer.PixelBuffer, angleDegrees float64) *buffer.PixelBuffer {
	if math.Mod(angleDegrees, 360) == 0 {
		return src.Clone()
	}
	rotated := imaging.Rotate(src.ToImage(), angleDegrees, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return &buffer.PixelBuffer{
		Width:  rotated.Rect.Dx(),
		Height: rotated.Rect.Dy(),
		Pix:    rotated.Pix,
	}
}

// RotatedBounds returns the bounding box of a width x height rectangle
// rotated by the given angle. Rotate's actual canvas can differ by a pixel
// at non-right angles, so point remapping uses the rotated buffer's real
// dimensions instead.
func RotatedBounds(width, height int, angleDegrees float64) (int, int) {
	rad := angleDegrees * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	// The epsilon absorbs float noise so right angles stay exact.
	w := int(math.Ceil(float64(width)*cos + float64(height)*sin - 1e-9))
	h := int(math.Ceil(float64(width)*sin + float64(height)*cos - 1e-9))
	return w, h
}

// UnrotatePoint maps a point in a rotated buffer's coordinate space back to
// the original image's coordinates, inverting a Rotate by the same angle.
// rotW and rotH are the rotated buffer's dimensions.
func UnrotatePoint(x, y float64, rotW, rotH, origW, origH int, angleDegrees float64) (float64, float64) {
	// Rotation happens about the image center with y pointing down, so a
	// counter-clockwise image rotation is clockwise in math coordinates.
	rad := angleDegrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx := x - float64(rotW)/2
	dy := y - float64(rotH)/2
	ox := cos*dx - sin*dy + float64(origW)/2
	oy := sin*dx + cos*dy + float64(origH)/2
	return ox, oy
}

// Scale resamples the buffer uniformly to round(w*factor) x round(h*factor)
// using Lanczos filtering. Factors below 1 downscale, above 1 upscale.
// Non-positive factors and identity scaling return a copy of the input.
func Scale(src *buffer.PixelBuffer, factor float64) *buffer.PixelBuffer {
	if factor <= 0 || factor == 1.0 {
		return src.Clone()
	}
	newW := int(math.Round(float64(src.Width) * factor))
	newH := int(math.Round(float64(src.Height) * factor))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	resized := imaging.Resize(src.ToImage(), newW, newH, imaging.Lanczos)
	return &buffer.PixelBuffer{
		Width:  resized.Rect.Dx(),
		Height: resized.Rect.Dy(),
		Pix:    resized.Pix,
	}
}

// Region describes the rectangle ExtractRegion actually applied after
// clamping, so detected coordinates can be remapped by (X, Y).
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ExtractRegion copies the requested rectangle into a new buffer. The
// rectangle is rounded and clamped to the buffer bounds, always yielding at
// least 1x1. The returned Region holds the applied offset and size.
func ExtractRegion(src *buffer.PixelBuffer, x, y, w, h float64) (*buffer.PixelBuffer, Region) {
	ax := clampInt(int(math.Round(x)), 0, src.Width-1)
	ay := clampInt(int(math.Round(y)), 0, src.Height-1)
	aw := clampInt(int(math.Round(w)), 1, src.Width-ax)
	ah := clampInt(int(math.Round(h)), 1, src.Height-ay)

	out := &buffer.PixelBuffer{Width: aw, Height: ah, Pix: make([]byte, aw*ah*4)}
	srcStride := src.Width * 4
	dstStride := aw * 4
	for row := 0; row < ah; row++ {
		srcOff := (ay+row)*srcStride + ax*4
		copy(out.Pix[row*dstStride:(row+1)*dstStride], src.Pix[srcOff:srcOff+dstStride])
	}
	return out, Region{X: ax, Y: ay, Width: aw, Height: ah}
}
