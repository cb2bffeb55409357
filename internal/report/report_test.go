package report_test

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/MeKo-Tech/qrscan/internal/buffer"
	"github.com/MeKo-Tech/qrscan/internal/decode"
	"github.com/MeKo-Tech/qrscan/internal/detect"
	"github.com/MeKo-Tech/qrscan/internal/report"
	"github.com/MeKo-Tech/qrscan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedBackend always reports the same symbol.
type fixedBackend struct {
	data string
}

func (f *fixedBackend) Decode(_ context.Context, _ *buffer.PixelBuffer) (*decode.Result, error) {
	return &decode.Result{
		Data: f.data,
		Points: []decode.Point{
			{X: 20, Y: 220}, {X: 20, Y: 20}, {X: 220, Y: 20},
		},
	}, nil
}

// blindBackend never finds anything.
type blindBackend struct{}

func (blindBackend) Decode(_ context.Context, _ *buffer.PixelBuffer) (*decode.Result, error) {
	return nil, nil
}

func TestDefaultProfiles(t *testing.T) {
	profiles := report.DefaultProfiles()
	require.Len(t, profiles, 3)
	assert.Equal(t, "fast", profiles[0].Name)
	assert.Equal(t, "thorough", profiles[1].Name)
	assert.Equal(t, "exhaustive", profiles[2].Name)

	// Profiles escalate: budgets grow, the last one lowers the quality bar.
	assert.False(t, profiles[0].Options.EnablePreprocessing)
	assert.True(t, profiles[1].Options.EnablePreprocessing)
	assert.Less(t, profiles[0].Options.Timeout, profiles[1].Options.Timeout)
	assert.Less(t, profiles[1].Options.Timeout, profiles[2].Options.Timeout)
	assert.Less(t, profiles[2].Options.MinQuality, profiles[1].Options.MinQuality)
}

func TestRunSuccess(t *testing.T) {
	d := detect.NewWithBackend(&fixedBackend{data: "report payload"})
	img := testutil.SolidImage(300, 300, color.White)

	rep := report.Run(context.Background(), d, img, 1234)
	require.NotNil(t, rep)
	assert.True(t, rep.Succeeded())
	assert.Empty(t, rep.Suggestions)

	require.Len(t, rep.Attempts, 3)
	for _, a := range rep.Attempts {
		assert.True(t, a.Succeeded, "profile %s", a.Profile)
		assert.Equal(t, "report payload", a.Data, "profile %s", a.Profile)
		assert.Equal(t, "direct", a.Strategy, "profile %s", a.Profile)
		assert.Greater(t, a.Confidence, 0.0, "profile %s", a.Profile)
		assert.Empty(t, a.Error, "profile %s", a.Profile)
	}

	assert.Equal(t, 300, rep.Image.Width)
	assert.Equal(t, 300, rep.Image.Height)
	assert.InEpsilon(t, 1.0, rep.Image.AspectRatio, 1e-9)
	assert.Equal(t, int64(1234), rep.Image.SizeBytes)
	assert.True(t, rep.Image.IsGrayscale)
	assert.False(t, rep.Image.HasAlpha)
}

func TestRunAllProfilesFail(t *testing.T) {
	d := detect.NewWithBackend(blindBackend{})
	img := testutil.SolidImage(200, 200, color.Black)

	rep := report.Run(context.Background(), d, img, 0)
	assert.False(t, rep.Succeeded())
	require.Len(t, rep.Attempts, 3)
	for _, a := range rep.Attempts {
		assert.False(t, a.Succeeded)
		assert.NotEmpty(t, a.Error)
	}
	require.NotEmpty(t, rep.Suggestions)
	assert.Contains(t, rep.Suggestions[0], "no symbol found")
}

func TestRunSmallImageSuggestion(t *testing.T) {
	d := detect.NewWithBackend(blindBackend{})
	img := testutil.SolidImage(60, 60, color.White)

	rep := report.Run(context.Background(), d, img, 0)
	require.NotEmpty(t, rep.Suggestions)
	assert.Contains(t, rep.Suggestions[0], "very small")
}

func TestRunExtremeAspectSuggestion(t *testing.T) {
	d := detect.NewWithBackend(blindBackend{})
	img := testutil.SolidImage(1200, 150, color.White)

	rep := report.Run(context.Background(), d, img, 0)
	assert.True(t, hasSuggestion(rep, "aspect ratio"), "suggestions: %v", rep.Suggestions)
}

func TestRunLargeFileSuggestion(t *testing.T) {
	d := detect.NewWithBackend(blindBackend{})
	img := testutil.SolidImage(500, 500, color.White)

	rep := report.Run(context.Background(), d, img, 20<<20)
	assert.True(t, hasSuggestion(rep, "file is large"), "suggestions: %v", rep.Suggestions)
}

func hasSuggestion(rep *report.Report, sub string) bool {
	for _, s := range rep.Suggestions {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestAnalyzeColorAndAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	img.Set(0, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 0})

	d := detect.NewWithBackend(blindBackend{})
	rep := report.Run(context.Background(), d, img, 0)
	assert.False(t, rep.Image.IsGrayscale)
	assert.True(t, rep.Image.HasAlpha)
}

func TestReportText(t *testing.T) {
	d := detect.NewWithBackend(&fixedBackend{data: "text payload"})
	rep := report.Run(context.Background(), d, testutil.SolidImage(300, 300, color.White), 0)

	out := rep.Text()
	assert.Contains(t, out, "scan report")
	assert.Contains(t, out, "image: 300x300")
	assert.Contains(t, out, "profile fast")
	assert.Contains(t, out, "profile thorough")
	assert.Contains(t, out, "profile exhaustive")
	assert.Contains(t, out, `payload="text payload"`)
	assert.NotContains(t, out, "suggestions:")
}

func TestReportTextWithFailures(t *testing.T) {
	d := detect.NewWithBackend(blindBackend{})
	rep := report.Run(context.Background(), d, testutil.SolidImage(60, 60, color.White), 0)

	out := rep.Text()
	assert.Contains(t, out, "fail")
	assert.Contains(t, out, "suggestions:")
	assert.Contains(t, out, "very small")
}
