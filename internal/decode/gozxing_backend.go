package decode

import (
	"context"
	"fmt"

	"github.com/MeKo-Tech/qrscan/internal/buffer"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// gozxingBackend decodes QR symbols with the gozxing port of ZXing,
// using a hybrid binarizer and the TRY_HARDER hint.
type gozxingBackend struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewBackend returns the default gozxing-backed decode primitive.
func NewBackend() Backend {
	return &gozxingBackend{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

func (b *gozxingBackend) Decode(ctx context.Context, buf *buffer.PixelBuffer) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	source := gozxing.NewLuminanceSourceFromImage(buf.ToImage())
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}

	reader := qrcode.NewQRCodeReader()
	raw, err := reader.Decode(bitmap, b.hints)
	if err != nil {
		// NotFoundException and friends all mean the same thing here.
		return nil, err
	}
	if raw == nil || raw.GetText() == "" {
		return nil, nil
	}

	pts := raw.GetResultPoints()
	points := make([]Point, 0, len(pts))
	for _, p := range pts {
		if p == nil {
			continue
		}
		points = append(points, Point{X: float64(p.GetX()), Y: float64(p.GetY())})
	}
	return &Result{Data: raw.GetText(), Points: points}, nil
}
