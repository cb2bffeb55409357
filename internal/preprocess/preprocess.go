// Package preprocess provides pure pixel-buffer transforms used to salvage
// low-quality captures before symbol decoding: contrast stretching,
// sharpening, grayscale reduction and local adaptive thresholding.
package preprocess

import (
	"math"

	"github.com/MeKo-Tech/qrscan/internal/buffer"
)

// ThresholdConfig holds parameters for local adaptive thresholding.
type ThresholdConfig struct {
	BlockSize int     // half window size; the window is (2*BlockSize+1)^2
	C         float64 // constant subtracted from the local mean
}

// DefaultThresholdConfig returns the thresholding defaults tuned for
// downscaled symbol regions.
func DefaultThresholdConfig() ThresholdConfig {
	return ThresholdConfig{BlockSize: 15, C: 10}
}

// DefaultContrastFactor is the default linear contrast stretch factor.
const DefaultContrastFactor = 1.5

// Options selects which transforms Apply composes.
type Options struct {
	Contrast       bool
	ContrastFactor float64
	Sharpen        bool
	Threshold      ThresholdConfig
}

// DefaultOptions returns the composition used by the preprocessed strategy.
func DefaultOptions() Options {
	return Options{
		Contrast:       true,
		ContrastFactor: DefaultContrastFactor,
		Sharpen:        false,
		Threshold:      DefaultThresholdConfig(),
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// EnhanceContrast applies a per-channel linear contrast stretch about the
// midpoint 128 to R, G and B. Alpha is untouched.
func EnhanceContrast(src *buffer.PixelBuffer, factor float64) *buffer.PixelBuffer {
	dst := src.Clone()
	for i := 0; i < len(dst.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(dst.Pix[i+c])
			dst.Pix[i+c] = clampByte((v-128)*factor + 128)
		}
	}
	return dst
}

// ReduceBlur applies a 3x3 sharpening convolution
// [[0,-1,0],[-1,5,-1],[0,-1,0]] per RGB channel to interior pixels.
// The 1-pixel border is copied through unprocessed.
func ReduceBlur(src *buffer.PixelBuffer) *buffer.PixelBuffer {
	dst := src.Clone()
	w, h := src.Width, src.Height
	if w < 3 || h < 3 {
		return dst
	}
	stride := w * 4
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*stride + x*4
			for c := 0; c < 3; c++ {
				center := float64(src.Pix[i+c])
				up := float64(src.Pix[i-stride+c])
				down := float64(src.Pix[i+stride+c])
				left := float64(src.Pix[i-4+c])
				right := float64(src.Pix[i+4+c])
				dst.Pix[i+c] = clampByte(5*center - up - down - left - right)
			}
		}
	}
	return dst
}

// ToGrayscale reduces each pixel to its luma (0.299R + 0.587G + 0.114B),
// written identically to all three RGB channels. Alpha is untouched.
func ToGrayscale(src *buffer.PixelBuffer) *buffer.PixelBuffer {
	dst := src.Clone()
	for i := 0; i < len(dst.Pix); i += 4 {
		r := float64(dst.Pix[i])
		g := float64(dst.Pix[i+1])
		b := float64(dst.Pix[i+2])
		luma := byte(math.Round(0.299*r + 0.587*g + 0.114*b))
		dst.Pix[i] = luma
		dst.Pix[i+1] = luma
		dst.Pix[i+2] = luma
	}
	return dst
}

// AdaptiveThreshold binarizes each pixel against the mean intensity of its
// surrounding (2*BlockSize+1)^2 neighborhood, clipped at the image edges:
// pixels brighter than mean-C become 255, everything else 0. Intensity is
// read from the red channel, so callers normally run ToGrayscale first.
//
// The local mean is computed with a summed-area table; output is identical
// to the direct per-pixel windowed mean.
func AdaptiveThreshold(src *buffer.PixelBuffer, cfg ThresholdConfig) *buffer.PixelBuffer {
	dst := src.Clone()
	w, h := src.Width, src.Height
	block := cfg.BlockSize
	if block < 1 {
		block = 1
	}

	// Summed-area table with a zero row/column of padding.
	sat := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(src.Pix[(y*w+x)*4])
			sat[(y+1)*(w+1)+(x+1)] = sat[y*(w+1)+(x+1)] + rowSum
		}
	}

	for y := 0; y < h; y++ {
		y0 := max(y-block, 0)
		y1 := min(y+block, h-1)
		for x := 0; x < w; x++ {
			x0 := max(x-block, 0)
			x1 := min(x+block, w-1)

			sum := sat[(y1+1)*(w+1)+(x1+1)] -
				sat[y0*(w+1)+(x1+1)] -
				sat[(y1+1)*(w+1)+x0] +
				sat[y0*(w+1)+x0]
			area := int64(x1-x0+1) * int64(y1-y0+1)
			mean := float64(sum) / float64(area)

			i := (y*w + x) * 4
			var bit byte
			if float64(src.Pix[i]) > mean-cfg.C {
				bit = 255
			}
			dst.Pix[i] = bit
			dst.Pix[i+1] = bit
			dst.Pix[i+2] = bit
		}
	}
	return dst
}

// Apply composes the transforms in the fixed order
// contrast -> sharpen -> grayscale -> threshold, gated by opts.
func Apply(src *buffer.PixelBuffer, opts Options) *buffer.PixelBuffer {
	out := src
	if opts.Contrast {
		factor := opts.ContrastFactor
		if factor <= 0 {
			factor = DefaultContrastFactor
		}
		out = EnhanceContrast(out, factor)
	}
	if opts.Sharpen {
		out = ReduceBlur(out)
	}
	out = ToGrayscale(out)
	out = AdaptiveThreshold(out, opts.Threshold)
	return out
}
