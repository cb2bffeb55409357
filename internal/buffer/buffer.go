package buffer

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// ErrUnsupportedSource indicates a source type or geometry the adapter
// cannot rasterize.
var ErrUnsupportedSource = errors.New("unsupported image source")

// SourceError wraps adapter failures with the source kind that caused them.
type SourceError struct {
	Kind string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source adapter error for %s: %v", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// PixelBuffer is the canonical pixel representation all strategies operate on:
// RGBA bytes in row-major order, alpha preserved but never processed.
// Buffers are treated as immutable once produced; transforms allocate new ones.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte // len == Width*Height*4
}

// New allocates a zeroed buffer with the given dimensions.
func New(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, &SourceError{
			Kind: "buffer",
			Err:  fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnsupportedSource, width, height),
		}
	}
	return &PixelBuffer{Width: width, Height: height, Pix: make([]byte, width*height*4)}, nil
}

// Validate checks the buffer invariant len(Pix) == Width*Height*4.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return &SourceError{Kind: "buffer", Err: errors.New("buffer is nil")}
	}
	if b.Width <= 0 || b.Height <= 0 {
		return &SourceError{
			Kind: "buffer",
			Err:  fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnsupportedSource, b.Width, b.Height),
		}
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return &SourceError{
			Kind: "buffer",
			Err:  fmt.Errorf("pixel data length %d does not match %dx%d", len(b.Pix), b.Width, b.Height),
		}
	}
	return nil
}

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// ToImage wraps the buffer in an *image.RGBA sharing the pixel data.
func (b *PixelBuffer) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Frame is a raw decoded camera frame: tightly or loosely packed RGBA bytes
// with an explicit row stride, as delivered by capture hardware.
type Frame struct {
	Width  int
	Height int
	Stride int // bytes per row; 0 means tightly packed (Width*4)
	Pix    []byte
}

// FromImage rasterizes any image at its intrinsic bounds into a PixelBuffer.
func FromImage(img image.Image) (*PixelBuffer, error) {
	if img == nil {
		return nil, &SourceError{Kind: "image", Err: errors.New("image is nil")}
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, &SourceError{
			Kind: "image",
			Err:  fmt.Errorf("%w: zero-sized image %dx%d", ErrUnsupportedSource, w, h),
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return &PixelBuffer{Width: w, Height: h, Pix: dst.Pix}, nil
}

// FromFrame copies a raw camera frame into a PixelBuffer, collapsing any
// row padding implied by the stride.
func FromFrame(f Frame) (*PixelBuffer, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, &SourceError{
			Kind: "frame",
			Err:  fmt.Errorf("%w: zero-sized frame %dx%d", ErrUnsupportedSource, f.Width, f.Height),
		}
	}
	stride := f.Stride
	if stride == 0 {
		stride = f.Width * 4
	}
	if stride < f.Width*4 {
		return nil, &SourceError{
			Kind: "frame",
			Err:  fmt.Errorf("stride %d too small for width %d", stride, f.Width),
		}
	}
	if len(f.Pix) < stride*(f.Height-1)+f.Width*4 {
		return nil, &SourceError{
			Kind: "frame",
			Err:  fmt.Errorf("frame data length %d too small for %dx%d stride %d", len(f.Pix), f.Width, f.Height, stride),
		}
	}
	buf, err := New(f.Width, f.Height)
	if err != nil {
		return nil, err
	}
	rowLen := f.Width * 4
	for y := 0; y < f.Height; y++ {
		copy(buf.Pix[y*rowLen:(y+1)*rowLen], f.Pix[y*stride:y*stride+rowLen])
	}
	return buf, nil
}

// FromSource normalizes any supported source into a PixelBuffer.
// Supported sources: *PixelBuffer (validated pass-through), Frame/*Frame
// (raw camera frame), and any image.Image (still image or rendered canvas,
// rasterized at intrinsic dimensions).
func FromSource(src any) (*PixelBuffer, error) {
	switch s := src.(type) {
	case *PixelBuffer:
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return s, nil
	case PixelBuffer:
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return &s, nil
	case Frame:
		return FromFrame(s)
	case *Frame:
		if s == nil {
			return nil, &SourceError{Kind: "frame", Err: errors.New("frame is nil")}
		}
		return FromFrame(*s)
	case image.Image:
		return FromImage(s)
	default:
		return nil, &SourceError{
			Kind: fmt.Sprintf("%T", src),
			Err:  ErrUnsupportedSource,
		}
	}
}
