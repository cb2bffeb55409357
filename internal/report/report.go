// Package report runs a scan through escalating option profiles and emits
// a human-readable troubleshooting report. This is the only place error
// and rejection detail is surfaced; the main detection path deliberately
// hides it.
package report

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/MeKo-Tech/qrscan/internal/buffer"
	"github.com/MeKo-Tech/qrscan/internal/common"
	"github.com/MeKo-Tech/qrscan/internal/detect"
)

// Profile pairs a name with the detection options it exercises.
type Profile struct {
	Name    string
	Options detect.Options
}

// DefaultProfiles returns the three escalating profiles run in order:
// a fast pass without preprocessing, a thorough pass with the full
// pipeline, and an exhaustive lenient pass.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name: "fast",
			Options: detect.Options{
				MaxRetries: 1,
				Timeout:    2 * time.Second,
				MinQuality: 0.3,
			},
		},
		{
			Name: "thorough",
			Options: detect.Options{
				EnablePreprocessing:       true,
				EnableRotationCorrection:  true,
				EnableContrastEnhancement: true,
				EnableBlurReduction:       true,
				MaxRetries:                2,
				Timeout:                   6 * time.Second,
				MinQuality:                0.3,
			},
		},
		{
			Name: "exhaustive",
			Options: detect.Options{
				EnablePreprocessing:       true,
				EnableRotationCorrection:  true,
				EnableContrastEnhancement: true,
				EnableBlurReduction:       true,
				MaxRetries:                3,
				Timeout:                   15 * time.Second,
				MinQuality:                0.1,
			},
		},
	}
}

// Attempt records the outcome of one profile run.
type Attempt struct {
	Profile    string
	Succeeded  bool
	Strategy   string
	Data       string
	Confidence float64
	Duration   time.Duration
	Error      string
}

// ImageInfo captures metadata about the analyzed capture.
type ImageInfo struct {
	Width       int
	Height      int
	AspectRatio float64
	SizeBytes   int64
	IsGrayscale bool
	HasAlpha    bool
}

// Report is the result of running all profiles against one capture.
type Report struct {
	Image       ImageInfo
	Attempts    []Attempt
	Suggestions []string
}

// Succeeded reports whether any profile recovered a symbol.
func (r *Report) Succeeded() bool {
	for _, a := range r.Attempts {
		if a.Succeeded {
			return true
		}
	}
	return false
}

// Run analyzes the capture and executes every profile in order.
// sizeBytes may be zero when the source byte size is unknown.
func Run(ctx context.Context, d *detect.Detector, img image.Image, sizeBytes int64) *Report {
	rep := &Report{Image: analyzeImage(img, sizeBytes)}

	buf, err := buffer.FromSource(img)
	if err != nil {
		// Source-level failures apply to every profile; record them verbatim.
		for _, p := range DefaultProfiles() {
			rep.Attempts = append(rep.Attempts, Attempt{Profile: p.Name, Error: err.Error()})
		}
		rep.Suggestions = suggest(rep)
		return rep
	}

	for _, p := range DefaultProfiles() {
		timer := common.NewNamedTimer(p.Name)
		res := d.Detect(ctx, buf, p.Options)
		att := Attempt{Profile: p.Name, Duration: timer.Stop()}
		if res != nil {
			att.Succeeded = true
			att.Strategy = res.Strategy.String()
			att.Data = res.Data
			att.Confidence = res.Confidence
		} else {
			att.Error = "no qualifying symbol found"
		}
		rep.Attempts = append(rep.Attempts, att)
	}

	rep.Suggestions = suggest(rep)
	return rep
}

// analyzeImage collects dimensions, aspect ratio and pixel properties.
func analyzeImage(img image.Image, sizeBytes int64) ImageInfo {
	if img == nil {
		return ImageInfo{SizeBytes: sizeBytes}
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	info := ImageInfo{Width: w, Height: h, SizeBytes: sizeBytes}
	if h > 0 {
		info.AspectRatio = float64(w) / float64(h)
	}
	info.IsGrayscale, info.HasAlpha = analyzePixelProperties(img, bounds)
	return info
}

// analyzePixelProperties checks if image is grayscale and has alpha channel.
func analyzePixelProperties(img image.Image, bounds image.Rectangle) (bool, bool) {
	isGrayscale := true
	hasAlpha := false

	for y := bounds.Min.Y; y < bounds.Max.Y && (isGrayscale || !hasAlpha); y++ {
		for x := bounds.Min.X; x < bounds.Max.X && (isGrayscale || !hasAlpha); x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 65535 {
				hasAlpha = true
			}
			if r != g || g != b {
				isGrayscale = false
			}
		}
	}

	return isGrayscale, hasAlpha
}

const (
	minUsefulSide  = 100
	maxUsefulSide  = 4000
	maxUsefulBytes = 8 << 20
	extremeAspect  = 3.0
)

// suggest derives heuristic advice when every profile failed.
func suggest(r *Report) []string {
	if r.Succeeded() {
		return nil
	}
	var out []string
	info := r.Image
	minSide := min(info.Width, info.Height)
	maxSide := max(info.Width, info.Height)
	switch {
	case minSide == 0:
		out = append(out, "image has zero dimensions; the source could not be rasterized")
	case minSide < minUsefulSide:
		out = append(out, fmt.Sprintf("image is very small (%dx%d); capture closer or at higher resolution", info.Width, info.Height))
	case maxSide > maxUsefulSide:
		out = append(out, fmt.Sprintf("image is very large (%dx%d); downscale before scanning", info.Width, info.Height))
	}
	if info.SizeBytes > maxUsefulBytes {
		out = append(out, fmt.Sprintf("file is large (%d bytes); recompress or downscale", info.SizeBytes))
	}
	if info.AspectRatio > extremeAspect || (info.AspectRatio > 0 && info.AspectRatio < 1/extremeAspect) {
		out = append(out, fmt.Sprintf("extreme aspect ratio (%.2f); crop to the symbol area", info.AspectRatio))
	}
	if len(out) == 0 {
		out = append(out, "no symbol found; check focus, lighting and that the full symbol is in frame")
	}
	return out
}

// Text renders the report as human-readable text.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString("scan report\n")
	b.WriteString("===========\n")
	fmt.Fprintf(&b, "image: %dx%d  aspect %.2f", r.Image.Width, r.Image.Height, r.Image.AspectRatio)
	if r.Image.SizeBytes > 0 {
		fmt.Fprintf(&b, "  %d bytes", r.Image.SizeBytes)
	}
	if r.Image.IsGrayscale {
		b.WriteString("  grayscale")
	}
	if r.Image.HasAlpha {
		b.WriteString("  alpha")
	}
	b.WriteString("\n\n")

	for _, a := range r.Attempts {
		fmt.Fprintf(&b, "profile %-10s ", a.Profile)
		if a.Succeeded {
			fmt.Fprintf(&b, "ok    strategy=%s confidence=%.2f payload=%q (%v)\n",
				a.Strategy, a.Confidence, a.Data, a.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(&b, "fail  %s (%v)\n", a.Error, a.Duration.Round(time.Millisecond))
		}
	}

	if len(r.Suggestions) > 0 {
		b.WriteString("\nsuggestions:\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	return b.String()
}
