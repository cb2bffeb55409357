package decode_test

import (
	"context"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/qrscan/internal/buffer"
	"github.com/MeKo-Tech/qrscan/internal/decode"
	"github.com/MeKo-Tech/qrscan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadOffset(t *testing.T) {
	q := decode.Quad{
		TopLeft:     decode.Point{X: 1, Y: 2},
		TopRight:    decode.Point{X: 11, Y: 2},
		BottomLeft:  decode.Point{X: 1, Y: 12},
		BottomRight: decode.Point{X: 11, Y: 12},
	}
	got := q.Offset(5, -2)
	assert.Equal(t, decode.Point{X: 6, Y: 0}, got.TopLeft)
	assert.Equal(t, decode.Point{X: 16, Y: 10}, got.BottomRight)
	// The receiver is unchanged.
	assert.Equal(t, decode.Point{X: 1, Y: 2}, q.TopLeft)
}

func TestQuadScale(t *testing.T) {
	q := decode.Quad{
		TopLeft:     decode.Point{X: 2, Y: 4},
		TopRight:    decode.Point{X: 10, Y: 4},
		BottomLeft:  decode.Point{X: 2, Y: 8},
		BottomRight: decode.Point{X: 10, Y: 8},
	}
	got := q.Scale(0.5)
	assert.Equal(t, decode.Point{X: 1, Y: 2}, got.TopLeft)
	assert.Equal(t, decode.Point{X: 5, Y: 4}, got.BottomRight)
}

func TestQuadMap(t *testing.T) {
	q := decode.Quad{TopRight: decode.Point{X: 3, Y: 4}}
	got := q.Map(func(p decode.Point) decode.Point {
		return decode.Point{X: p.Y, Y: p.X}
	})
	assert.Equal(t, decode.Point{X: 4, Y: 3}, got.TopRight)
}

func TestResultQuadParallelogram(t *testing.T) {
	// Points arrive as [bottom-left, top-left, top-right, alignment].
	r := &decode.Result{
		Data: "x",
		Points: []decode.Point{
			{X: 10, Y: 90},
			{X: 10, Y: 10},
			{X: 90, Y: 10},
			{X: 75, Y: 75},
		},
	}
	q := r.Quad()
	require.NotNil(t, q)
	assert.Equal(t, decode.Point{X: 10, Y: 10}, q.TopLeft)
	assert.Equal(t, decode.Point{X: 90, Y: 10}, q.TopRight)
	assert.Equal(t, decode.Point{X: 10, Y: 90}, q.BottomLeft)
	// The fourth corner is completed, not taken from the alignment point.
	assert.Equal(t, decode.Point{X: 90, Y: 90}, q.BottomRight)
}

func TestResultQuadSkewed(t *testing.T) {
	r := &decode.Result{
		Data: "x",
		Points: []decode.Point{
			{X: 20, Y: 100},
			{X: 10, Y: 20},
			{X: 90, Y: 10},
		},
	}
	q := r.Quad()
	require.NotNil(t, q)
	assert.Equal(t, decode.Point{X: 100, Y: 90}, q.BottomRight)
}

func TestResultQuadTooFewPoints(t *testing.T) {
	var nilResult *decode.Result
	assert.Nil(t, nilResult.Quad())
	assert.Nil(t, (&decode.Result{Data: "x"}).Quad())
	assert.Nil(t, (&decode.Result{Data: "x", Points: []decode.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}).Quad())
}

func TestBackendRoundTrip(t *testing.T) {
	img, err := testutil.GenerateQR(testutil.QRConfig{Text: "https://example.com/item/42", Size: 300})
	require.NoError(t, err)
	buf, err := buffer.FromImage(img)
	require.NoError(t, err)

	b := decode.NewBackend()
	res, err := b.Decode(context.Background(), buf)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "https://example.com/item/42", res.Data)
	require.GreaterOrEqual(t, len(res.Points), 3)

	q := res.Quad()
	require.NotNil(t, q)
	// Corner points must be inside the image and span a sizable area.
	for _, p := range []decode.Point{q.TopLeft, q.TopRight, q.BottomLeft, q.BottomRight} {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.X, 300.0)
		assert.LessOrEqual(t, p.Y, 300.0)
	}
	assert.Greater(t, q.TopRight.X-q.TopLeft.X, 50.0)
}

func TestBackendNoSymbol(t *testing.T) {
	buf, err := buffer.FromImage(testutil.SolidImage(200, 200, color.Black))
	require.NoError(t, err)

	// No symbol surfaces as either a not-found error or a nil result;
	// callers treat both the same.
	res, _ := decode.NewBackend().Decode(context.Background(), buf)
	assert.Nil(t, res)
}

func TestBackendCancelledContext(t *testing.T) {
	buf, err := buffer.New(10, 10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := decode.NewBackend().Decode(ctx, buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestBackendInvalidBuffer(t *testing.T) {
	buf := &buffer.PixelBuffer{Width: 4, Height: 4, Pix: make([]byte, 3)}
	res, err := decode.NewBackend().Decode(context.Background(), buf)
	require.Error(t, err)
	assert.Nil(t, res)
}
