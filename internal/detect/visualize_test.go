package detect_test

import (
	"image/color"
	"testing"

	"github.com/MeKo-Tech/qrscan/internal/decode"
	"github.com/MeKo-Tech/qrscan/internal/detect"
	"github.com/MeKo-Tech/qrscan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayDrawsQuad(t *testing.T) {
	src := testutil.SolidImage(100, 100, color.White)
	res := &detect.Result{
		Data: "overlay",
		Location: &decode.Quad{
			TopLeft:     decode.Point{X: 20, Y: 20},
			TopRight:    decode.Point{X: 80, Y: 20},
			BottomLeft:  decode.Point{X: 20, Y: 80},
			BottomRight: decode.Point{X: 80, Y: 80},
		},
	}

	out := detect.Overlay(src, res)
	require.NotNil(t, out)
	assert.Equal(t, src.Bounds().Dx(), out.Bounds().Dx())

	// The top edge of the quad must be painted, the interior untouched.
	_, g, _, _ := out.At(50, 20).RGBA()
	assert.NotZero(t, g)
	r, g2, b, _ := out.At(50, 50).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g2)
	assert.Equal(t, uint32(0xffff), b)

	// The source is left untouched.
	sr, sg, sb, _ := src.At(50, 20).RGBA()
	assert.Equal(t, uint32(0xffff), sr)
	assert.Equal(t, uint32(0xffff), sg)
	assert.Equal(t, uint32(0xffff), sb)
}

func TestOverlayNilResult(t *testing.T) {
	src := testutil.SolidImage(50, 50, color.Black)
	out := detect.Overlay(src, nil)
	require.NotNil(t, out)

	r, _, _, _ := out.At(25, 25).RGBA()
	assert.Zero(t, r)
}

func TestOverlayNoGeometry(t *testing.T) {
	src := testutil.SolidImage(60, 60, color.White)
	out := detect.Overlay(src, &detect.Result{Data: "just a label"})
	require.NotNil(t, out)

	// Only the label corner changes; the image center stays white.
	r, _, _, _ := out.At(30, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestOverlayTruncatesLongLabel(t *testing.T) {
	long := make([]byte, 120)
	for i := range long {
		long[i] = 'a'
	}
	src := testutil.SolidImage(80, 40, color.White)
	assert.NotPanics(t, func() {
		detect.Overlay(src, &detect.Result{Data: string(long)})
	})
}
