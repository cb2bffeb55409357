package detect

import "time"

// Options configures a single Detect call. Zero values are normalized to
// safe defaults before use; Options are never persisted.
type Options struct {
	// EnablePreprocessing gates the preprocessed strategy and the cheap
	// contrast/grayscale pass inside the rotation strategy.
	EnablePreprocessing bool

	// EnableRotationCorrection gates the rotation-corrected strategy.
	EnableRotationCorrection bool

	// EnableContrastEnhancement gates linear contrast stretching wherever
	// preprocessing runs.
	EnableContrastEnhancement bool

	// EnableBlurReduction gates the 3x3 sharpening pass in the
	// preprocessed strategy.
	EnableBlurReduction bool

	// MaxRetries is the number of full passes over the strategy list (>= 1).
	MaxRetries int

	// Timeout is the total wall-clock budget for one Detect call, divided
	// evenly across the five strategies.
	Timeout time.Duration

	// MinQuality is the minimum confidence [0,1] for accepting a decode.
	MinQuality float64
}

// DefaultOptions returns the options used for interactive scanning.
func DefaultOptions() Options {
	return Options{
		EnablePreprocessing:       true,
		EnableRotationCorrection:  true,
		EnableContrastEnhancement: true,
		EnableBlurReduction:       false,
		MaxRetries:                2,
		Timeout:                   10 * time.Second,
		MinQuality:                0.3,
	}
}

// normalized clamps option values into their valid ranges.
func (o Options) normalized() Options {
	if o.MaxRetries < 1 {
		o.MaxRetries = 1
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultOptions().Timeout
	}
	if o.MinQuality < 0 {
		o.MinQuality = 0
	}
	if o.MinQuality > 1 {
		o.MinQuality = 1
	}
	return o
}
