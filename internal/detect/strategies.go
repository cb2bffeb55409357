package detect

import (
	"context"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/qrscan/internal/buffer"
	"github.com/MeKo-Tech/qrscan/internal/decode"
	"github.com/MeKo-Tech/qrscan/internal/preprocess"
	"github.com/MeKo-Tech/qrscan/internal/transform"
)

// rotationAngles is the fixed angle schedule: right angles first, then
// diagonals, since skewed captures are rarer than sideways ones.
var rotationAngles = [...]float64{0, 90, 180, 270, 45, 135, 225, 315}

// scaleFactors is the fixed resampling schedule: identity first, then
// upscales for undersized symbols, then downscales for oversized ones.
var scaleFactors = [...]float64{1.0, 1.5, 2.0, 0.75, 0.5}

// runStrategy dispatches one strategy attempt. A nil return means the
// strategy found nothing within its time slice (or is disabled by options).
func (d *Detector) runStrategy(ctx context.Context, s Strategy, buf *buffer.PixelBuffer, opts Options, deadline time.Time) *candidate {
	switch s {
	case StrategyDirect:
		return d.direct(ctx, buf)
	case StrategyPreprocessed:
		return d.preprocessed(ctx, buf, opts)
	case StrategyRotationCorrected:
		return d.rotationCorrected(ctx, buf, opts, deadline)
	case StrategyMultiScale:
		return d.multiScale(ctx, buf, deadline)
	case StrategyRegionBased:
		return d.regionBased(ctx, buf, deadline)
	default:
		return nil
	}
}

// direct decodes the unmodified buffer.
func (d *Detector) direct(ctx context.Context, buf *buffer.PixelBuffer) *candidate {
	r := d.tryDecode(ctx, buf)
	if r == nil {
		return nil
	}
	return &candidate{data: r.Data, quad: r.Quad()}
}

// preprocessed runs the full preprocessing chain before decoding.
// Preprocessing is purely photometric, so the quad needs no remapping.
func (d *Detector) preprocessed(ctx context.Context, buf *buffer.PixelBuffer, opts Options) *candidate {
	if !opts.EnablePreprocessing {
		return nil
	}
	popts := preprocess.Options{
		Contrast:       opts.EnableContrastEnhancement,
		ContrastFactor: preprocess.DefaultContrastFactor,
		Sharpen:        opts.EnableBlurReduction,
		Threshold:      preprocess.DefaultThresholdConfig(),
	}
	r := d.tryDecode(ctx, preprocess.Apply(buf, popts))
	if r == nil {
		return nil
	}
	return &candidate{data: r.Data, quad: r.Quad()}
}

// rotationCorrected tries the fixed angle schedule, returning on the first
// hit with the quad mapped back into original-image coordinates.
func (d *Detector) rotationCorrected(ctx context.Context, buf *buffer.PixelBuffer, opts Options, deadline time.Time) *candidate {
	if !opts.EnableRotationCorrection {
		return nil
	}
	for _, angle := range rotationAngles {
		if expired(deadline) {
			slog.Debug("rotation strategy out of time", "angle", angle)
			return nil
		}
		rotated := buf
		if angle != 0 {
			rotated = transform.Rotate(buf, angle)
		}
		work := rotated
		if opts.EnablePreprocessing {
			if opts.EnableContrastEnhancement {
				work = preprocess.EnhanceContrast(work, preprocess.DefaultContrastFactor)
			}
			work = preprocess.ToGrayscale(work)
		}
		r := d.tryDecode(ctx, work)
		if r == nil {
			continue
		}
		quad := r.Quad()
		if quad != nil && angle != 0 {
			mapped := quad.Map(func(p decode.Point) decode.Point {
				x, y := transform.UnrotatePoint(p.X, p.Y, rotated.Width, rotated.Height, buf.Width, buf.Height, angle)
				return decode.Point{X: x, Y: y}
			})
			quad = &mapped
		}
		return &candidate{data: r.Data, quad: quad}
	}
	return nil
}

// multiScale tries the fixed resampling schedule, returning on the first
// hit with the quad scaled back into original-image coordinates.
func (d *Detector) multiScale(ctx context.Context, buf *buffer.PixelBuffer, deadline time.Time) *candidate {
	for _, factor := range scaleFactors {
		if expired(deadline) {
			slog.Debug("multi-scale strategy out of time", "factor", factor)
			return nil
		}
		work := buf
		if factor != 1.0 {
			work = transform.Scale(buf, factor)
		}
		work = preprocess.ToGrayscale(preprocess.EnhanceContrast(work, preprocess.DefaultContrastFactor))
		r := d.tryDecode(ctx, work)
		if r == nil {
			continue
		}
		quad := r.Quad()
		if quad != nil && factor != 1.0 {
			scaled := quad.Scale(1 / factor)
			quad = &scaled
		}
		return &candidate{data: r.Data, quad: quad}
	}
	return nil
}

// searchRegions returns the fixed sub-region schedule: the center half,
// four overlapping 40% windows, then the full image as a final fallback.
func searchRegions(w, h float64) []struct{ x, y, rw, rh float64 } {
	return []struct{ x, y, rw, rh float64 }{
		{w * 0.25, h * 0.25, w * 0.5, h * 0.5},
		{w * 0.1, h * 0.1, w * 0.4, h * 0.4},
		{w * 0.5, h * 0.1, w * 0.4, h * 0.4},
		{w * 0.1, h * 0.5, w * 0.4, h * 0.4},
		{w * 0.5, h * 0.5, w * 0.4, h * 0.4},
		{0, 0, w, h},
	}
}

// regionBased extracts each scheduled sub-region, decodes it, and remaps
// the quad by the region's applied offset.
func (d *Detector) regionBased(ctx context.Context, buf *buffer.PixelBuffer, deadline time.Time) *candidate {
	for _, reg := range searchRegions(float64(buf.Width), float64(buf.Height)) {
		if expired(deadline) {
			slog.Debug("region strategy out of time")
			return nil
		}
		cropped, applied := transform.ExtractRegion(buf, reg.x, reg.y, reg.rw, reg.rh)
		work := preprocess.ToGrayscale(preprocess.EnhanceContrast(cropped, preprocess.DefaultContrastFactor))
		r := d.tryDecode(ctx, work)
		if r == nil {
			continue
		}
		quad := r.Quad()
		if quad != nil {
			off := quad.Offset(float64(applied.X), float64(applied.Y))
			quad = &off
		}
		return &candidate{data: r.Data, quad: quad}
	}
	return nil
}
