package detect

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/MeKo-Tech/qrscan/internal/decode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var overlayColor = color.RGBA{R: 0, G: 200, B: 60, A: 255}

// Overlay renders the detection onto a copy of img for debugging: the quad
// outline (when geometry is available) and the payload as a label. The
// input image is not modified.
func Overlay(img image.Image, res *Result) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	if res == nil {
		return dst
	}

	if res.Location != nil {
		drawQuad(dst, *res.Location, overlayColor, 2)
	}

	label := res.Data
	if len(label) > 40 {
		label = label[:40] + "..."
	}
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{overlayColor},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, dst.Bounds().Dy()-4),
	}
	drawer.DrawString(label)
	return dst
}

func drawQuad(dst *image.RGBA, q decode.Quad, col color.Color, thickness int) {
	corners := [4]decode.Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		drawLine(dst,
			image.Pt(int(math.Round(a.X)), int(math.Round(a.Y))),
			image.Pt(int(math.Round(b.X)), int(math.Round(b.Y))),
			col, thickness)
	}
}

// drawLine draws a thick line segment using a Bresenham variant.
func drawLine(dst *image.RGBA, a, b image.Point, col color.Color, thickness int) {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		drawThickPoint(dst, x0, y0, col, thickness)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawThickPoint(dst *image.RGBA, x, y int, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	r := (thickness - 1) / 2
	for yy := y - r; yy <= y+r; yy++ {
		for xx := x - r; xx <= x+r; xx++ {
			if image.Pt(xx, yy).In(dst.Bounds()) {
				dst.Set(xx, yy, col)
			}
		}
	}
}
