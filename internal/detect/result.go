package detect

import (
	"time"

	"github.com/MeKo-Tech/qrscan/internal/decode"
)

// Strategy identifies one of the fixed recovery pipelines, tried in the
// declaration order below.
type Strategy int

const (
	StrategyDirect Strategy = iota
	StrategyPreprocessed
	StrategyRotationCorrected
	StrategyMultiScale
	StrategyRegionBased
)

// strategyOrder is the fixed search order.
var strategyOrder = [...]Strategy{
	StrategyDirect,
	StrategyPreprocessed,
	StrategyRotationCorrected,
	StrategyMultiScale,
	StrategyRegionBased,
}

// NumStrategies is the number of strategies in the fixed search order.
const NumStrategies = len(strategyOrder)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyPreprocessed:
		return "preprocessed"
	case StrategyRotationCorrected:
		return "rotation-corrected"
	case StrategyMultiScale:
		return "multi-scale"
	case StrategyRegionBased:
		return "region-based"
	default:
		return "unknown"
	}
}

// Result is a successful detection. Location corners are always expressed
// in the original, untransformed image's coordinate space; it is nil when
// the primitive reported no usable geometry. Results are never mutated
// after creation.
type Result struct {
	Data           string
	Location       *decode.Quad
	Confidence     float64
	ProcessingTime time.Duration
	Strategy       Strategy
}
