// Package detect implements the multi-strategy symbol recovery search:
// an ordered, retryable, time-bounded sequence of decode attempts over
// progressively more aggressive image transformations. No error escapes
// Detect; every failure degrades to trying the next strategy, and total
// exhaustion yields a nil result.
package detect

import (
	"context"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/qrscan/internal/buffer"
	"github.com/MeKo-Tech/qrscan/internal/common"
	"github.com/MeKo-Tech/qrscan/internal/decode"
	"github.com/MeKo-Tech/qrscan/internal/score"
)

// minPayloadLen guards against single-character noise matches.
const minPayloadLen = 3

// Detector runs the recovery search. It holds no mutable scratch state, so
// a single Detector is safe for concurrent Detect calls.
type Detector struct {
	backend decode.Backend
}

// New creates a detector backed by the default decode primitive.
func New() *Detector {
	return &Detector{backend: decode.NewBackend()}
}

// NewWithBackend creates a detector with a custom decode primitive.
func NewWithBackend(b decode.Backend) *Detector {
	return &Detector{backend: b}
}

// candidate is a raw strategy hit before confidence filtering, with its
// quad already remapped into original-image coordinates.
type candidate struct {
	data string
	quad *decode.Quad
}

// Detect attempts to recover a symbol payload from any supported source.
// It returns nil when no qualifying symbol is found; it never returns an
// error and never panics. Cancellation via ctx is honored between strategy
// attempts.
func (d *Detector) Detect(ctx context.Context, src any, opts Options) (res *Result) {
	timer := common.NewNamedTimer("detect")
	defer func() {
		if r := recover(); r != nil {
			slog.Error("detection aborted by panic, returning no result", "panic", r)
			res = nil
		}
	}()

	opts = opts.normalized()

	buf, err := buffer.FromSource(src)
	if err != nil {
		slog.Warn("source adapter failed", "error", err)
		return nil
	}

	// Total budget divided evenly across the five strategies.
	slice := opts.Timeout / time.Duration(NumStrategies)

	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		for _, strat := range strategyOrder {
			if ctx.Err() != nil {
				slog.Debug("detection cancelled", "attempt", attempt, "strategy", strat.String())
				return nil
			}

			deadline := time.Now().Add(slice)
			cand := d.runStrategy(ctx, strat, buf, opts, deadline)
			if cand == nil {
				continue
			}

			conf := score.Confidence(cand.quad, len(cand.data))
			if conf < opts.MinQuality || len(cand.data) < minPayloadLen {
				slog.Debug("decode rejected by quality gate",
					"strategy", strat.String(),
					"confidence", conf,
					"payload_len", len(cand.data),
					"min_quality", opts.MinQuality)
				continue
			}

			elapsed := timer.Stop()
			slog.Debug("symbol recovered",
				"strategy", strat.String(),
				"attempt", attempt,
				"confidence", conf,
				"elapsed", elapsed)
			return &Result{
				Data:           cand.data,
				Location:       cand.quad,
				Confidence:     conf,
				ProcessingTime: elapsed,
				Strategy:       strat,
			}
		}
	}

	slog.Debug("all strategies exhausted",
		"attempts", opts.MaxRetries,
		"elapsed", timer.Stop())
	return nil
}

// tryDecode invokes the decode primitive, containing both errors and panics
// locally: all failure modes collapse to "no symbol for this attempt".
func (d *Detector) tryDecode(ctx context.Context, buf *buffer.PixelBuffer) (out *decode.Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("decode primitive panicked", "panic", r)
			out = nil
		}
	}()
	res, err := d.backend.Decode(ctx, buf)
	if err != nil {
		return nil
	}
	return res
}

// expired reports whether the strategy's time slice has been used up.
// Deadlines are checked cooperatively between sub-steps, never mid-pixel-loop.
func expired(deadline time.Time) bool {
	return time.Now().After(deadline)
}
