// Package decode wraps the raw symbol-decoding primitive behind a small
// Backend interface. The primitive is a black box: it either returns a
// payload with corner points or reports that no symbol was found. Callers
// must treat an error and a missing symbol identically.
package decode

import (
	"context"

	"github.com/MeKo-Tech/qrscan/internal/buffer"
)

// Point is a coordinate in the decoded buffer's pixel space.
type Point struct {
	X float64
	Y float64
}

// Quad is the four-corner quadrilateral locating a detected symbol.
type Quad struct {
	TopLeft     Point
	TopRight    Point
	BottomLeft  Point
	BottomRight Point
}

// Offset returns a copy of the quad translated by (dx, dy).
func (q Quad) Offset(dx, dy float64) Quad {
	off := func(p Point) Point { return Point{X: p.X + dx, Y: p.Y + dy} }
	return Quad{
		TopLeft:     off(q.TopLeft),
		TopRight:    off(q.TopRight),
		BottomLeft:  off(q.BottomLeft),
		BottomRight: off(q.BottomRight),
	}
}

// Scale returns a copy of the quad with all coordinates multiplied by f.
func (q Quad) Scale(f float64) Quad {
	s := func(p Point) Point { return Point{X: p.X * f, Y: p.Y * f} }
	return Quad{
		TopLeft:     s(q.TopLeft),
		TopRight:    s(q.TopRight),
		BottomLeft:  s(q.BottomLeft),
		BottomRight: s(q.BottomRight),
	}
}

// Map returns a copy of the quad with fn applied to each corner.
func (q Quad) Map(fn func(Point) Point) Quad {
	return Quad{
		TopLeft:     fn(q.TopLeft),
		TopRight:    fn(q.TopRight),
		BottomLeft:  fn(q.BottomLeft),
		BottomRight: fn(q.BottomRight),
	}
}

// Result is a successful raw decode: the payload plus the key points the
// primitive reported, in the decoded buffer's coordinate space.
type Result struct {
	Data   string
	Points []Point
}

// Quad derives the symbol's bounding quadrilateral from the raw result
// points. ZXing-family decoders report QR points as
// [bottom-left, top-left, top-right, (alignment)]; the bottom-right corner
// is completed as the parallelogram point since the alignment pattern sits
// inset from the true corner. Returns nil when too few points are available.
func (r *Result) Quad() *Quad {
	if r == nil || len(r.Points) < 3 {
		return nil
	}
	bl, tl, tr := r.Points[0], r.Points[1], r.Points[2]
	br := Point{X: bl.X + tr.X - tl.X, Y: bl.Y + tr.Y - tl.Y}
	return &Quad{TopLeft: tl, TopRight: tr, BottomLeft: bl, BottomRight: br}
}

// Backend is the pluggable raw decode primitive.
// Implementations return (nil, err) or (nil, nil) when no symbol is found.
type Backend interface {
	Decode(ctx context.Context, buf *buffer.PixelBuffer) (*Result, error)
}
