// Package score computes a geometric confidence heuristic for raw decode
// results. True QR symbols are square, larger detections carry more signal,
// and longer payloads are less likely to be noise; the three terms are
// combined into a single [0,1] score.
package score

import (
	"math"

	"github.com/MeKo-Tech/qrscan/internal/decode"
)

const (
	// DefaultConfidence is returned when no geometry is available.
	DefaultConfidence = 0.5

	aspectWeight = 0.4
	sizeWeight   = 0.4
	dataWeight   = 0.2

	// sizeReference is the detected side length (px) treated as fully trustworthy.
	sizeReference = 200.0
	// dataReference is the payload length treated as fully trustworthy.
	dataReference = 100.0
)

func dist(a, b decode.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Confidence scores a decode result from its quad geometry and payload
// length. A nil quad yields DefaultConfidence. The result is always in [0,1].
func Confidence(q *decode.Quad, payloadLen int) float64 {
	if q == nil {
		return DefaultConfidence
	}

	width1 := dist(q.TopLeft, q.TopRight)
	width2 := dist(q.BottomLeft, q.BottomRight)
	height1 := dist(q.TopLeft, q.BottomLeft)
	height2 := dist(q.TopRight, q.BottomRight)
	avgWidth := (width1 + width2) / 2
	avgHeight := (height1 + height2) / 2

	var aspectScore float64
	if avgHeight > 0 {
		aspect := avgWidth / avgHeight
		aspectScore = math.Max(0, 1-math.Abs(aspect-1))
	}
	sizeScore := math.Min(1, math.Sqrt(avgWidth*avgHeight)/sizeReference)
	dataScore := math.Min(1, float64(payloadLen)/dataReference)

	s := aspectWeight*aspectScore + sizeWeight*sizeScore + dataWeight*dataScore
	return math.Max(0, math.Min(1, s))
}
