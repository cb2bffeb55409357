package buffer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	buf, err := New(4, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, buf.Width)
	assert.Equal(t, 3, buf.Height)
	assert.Len(t, buf.Pix, 4*3*4)
	require.NoError(t, buf.Validate())
}

func TestNewInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedSource)
		})
	}
}

func TestValidateLengthMismatch(t *testing.T) {
	buf := &PixelBuffer{Width: 2, Height: 2, Pix: make([]byte, 7)}
	require.Error(t, buf.Validate())
}

func TestCloneIsDeep(t *testing.T) {
	buf, err := New(2, 2)
	require.NoError(t, err)
	buf.Pix[0] = 42

	clone := buf.Clone()
	clone.Pix[0] = 7
	assert.Equal(t, byte(42), buf.Pix[0])
	assert.Equal(t, byte(7), clone.Pix[0])
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	buf, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Width)
	assert.Equal(t, 2, buf.Height)

	i := (1*3 + 1) * 4
	assert.Equal(t, byte(10), buf.Pix[i])
	assert.Equal(t, byte(20), buf.Pix[i+1])
	assert.Equal(t, byte(30), buf.Pix[i+2])
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	base.SetRGBA(5, 5, color.RGBA{R: 200, A: 255})
	sub, ok := base.SubImage(image.Rect(4, 4, 8, 8)).(*image.RGBA)
	require.True(t, ok)

	buf, err := FromImage(sub)
	require.NoError(t, err)
	assert.Equal(t, 4, buf.Width)
	assert.Equal(t, 4, buf.Height)
	// (5,5) in the parent is (1,1) in the sub-image.
	assert.Equal(t, byte(200), buf.Pix[(1*4+1)*4])
}

func TestFromFrameStride(t *testing.T) {
	// 2x2 frame with 4 bytes of row padding.
	stride := 2*4 + 4
	pix := make([]byte, stride*2)
	pix[0] = 1        // (0,0) R
	pix[stride+4] = 9 // (1,1) R

	buf, err := FromFrame(Frame{Width: 2, Height: 2, Stride: stride, Pix: pix})
	require.NoError(t, err)
	assert.Equal(t, byte(1), buf.Pix[0])
	assert.Equal(t, byte(9), buf.Pix[(1*2+1)*4])
}

func TestFromFrameTightlyPacked(t *testing.T) {
	buf, err := FromFrame(Frame{Width: 2, Height: 2, Pix: make([]byte, 16)})
	require.NoError(t, err)
	require.NoError(t, buf.Validate())
}

func TestFromFrameErrors(t *testing.T) {
	_, err := FromFrame(Frame{Width: 0, Height: 2, Pix: make([]byte, 16)})
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = FromFrame(Frame{Width: 2, Height: 2, Stride: 4, Pix: make([]byte, 16)})
	require.Error(t, err)

	_, err = FromFrame(Frame{Width: 2, Height: 2, Pix: make([]byte, 3)})
	require.Error(t, err)
}

func TestFromSource(t *testing.T) {
	buf, err := New(2, 2)
	require.NoError(t, err)

	t.Run("buffer pass-through", func(t *testing.T) {
		got, err := FromSource(buf)
		require.NoError(t, err)
		assert.Same(t, buf, got)
	})

	t.Run("image", func(t *testing.T) {
		got, err := FromSource(image.NewRGBA(image.Rect(0, 0, 5, 5)))
		require.NoError(t, err)
		assert.Equal(t, 5, got.Width)
	})

	t.Run("frame", func(t *testing.T) {
		got, err := FromSource(Frame{Width: 2, Height: 2, Pix: make([]byte, 16)})
		require.NoError(t, err)
		assert.Equal(t, 2, got.Width)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := FromSource("not an image")
		assert.ErrorIs(t, err, ErrUnsupportedSource)
	})

	t.Run("nil frame", func(t *testing.T) {
		var f *Frame
		_, err := FromSource(f)
		require.Error(t, err)
	})
}

func TestToImageRoundTrip(t *testing.T) {
	buf, err := New(3, 3)
	require.NoError(t, err)
	buf.Pix[0] = 77

	img := buf.ToImage()
	assert.Equal(t, 3, img.Rect.Dx())
	// ToImage shares pixel storage with the buffer.
	assert.Equal(t, byte(77), img.Pix[0])
}
