package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/qrscan/internal/detect"
	"github.com/MeKo-Tech/qrscan/internal/imageio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// decodeResult is the JSON output shape for one input file.
type decodeResult struct {
	File         string       `json:"file"`
	Found        bool         `json:"found"`
	Data         string       `json:"data,omitempty"`
	Strategy     string       `json:"strategy,omitempty"`
	Confidence   float64      `json:"confidence,omitempty"`
	ProcessingMs float64      `json:"processing_ms"`
	Location     [][2]float64 `json:"location,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// decodeCmd represents the decode command.
var decodeCmd = &cobra.Command{
	Use:   "decode [files...]",
	Short: "Recover QR payloads from image files",
	Long: `Decode one or more image files, trying every recovery strategy
within the configured time budget.

Supported formats: JPEG, PNG, BMP

Examples:
  qrscan decode photo.jpg
  qrscan decode *.png --format json
  qrscan decode dark.jpg --min-quality 0.1 --timeout-ms 20000
  qrscan decode skewed.png --overlay out.png`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()
		opts := cfg.Detection.ToOptions()
		format := cfg.Output.Format
		overlayPath := cfg.Output.OverlayPath

		detector := detect.New()
		results := make([]decodeResult, 0, len(args))
		for _, path := range args {
			results = append(results, decodeOne(cmd, detector, path, opts, overlayPath))
		}

		switch format {
		case outputFormatJSON:
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		case outputFormatText:
			for _, r := range results {
				printTextResult(cmd, r)
			}
			return nil
		default:
			return fmt.Errorf("unknown output format: %s", format)
		}
	},
}

func decodeOne(cmd *cobra.Command, detector *detect.Detector, path string, opts detect.Options, overlayPath string) decodeResult {
	out := decodeResult{File: path}

	img, _, err := imageio.Load(path)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	res := detector.Detect(cmd.Context(), img, opts)
	if res == nil {
		out.ProcessingMs = 0
		return out
	}

	out.Found = true
	out.Data = res.Data
	out.Strategy = res.Strategy.String()
	out.Confidence = res.Confidence
	out.ProcessingMs = float64(res.ProcessingTime) / float64(time.Millisecond)
	if res.Location != nil {
		q := res.Location
		out.Location = [][2]float64{
			{q.TopLeft.X, q.TopLeft.Y},
			{q.TopRight.X, q.TopRight.Y},
			{q.BottomRight.X, q.BottomRight.Y},
			{q.BottomLeft.X, q.BottomLeft.Y},
		}
	}

	if overlayPath != "" {
		dst := overlayPath
		if len(cmd.Flags().Args()) > 1 {
			// Multiple inputs share one overlay flag; derive per-file names.
			ext := filepath.Ext(overlayPath)
			dst = strings.TrimSuffix(overlayPath, ext) + "-" + filepath.Base(path) + ext
		}
		if err := imageio.SavePNG(dst, detect.Overlay(img, res)); err != nil {
			out.Error = fmt.Sprintf("overlay: %v", err)
		}
	}

	return out
}

func printTextResult(cmd *cobra.Command, r decodeResult) {
	w := cmd.OutOrStdout()
	if r.Error != "" {
		fmt.Fprintf(w, "%s: error: %s\n", r.File, r.Error)
		return
	}
	if !r.Found {
		fmt.Fprintf(w, "%s: no symbol found\n", r.File)
		return
	}
	fmt.Fprintf(w, "%s: %s (strategy=%s confidence=%.2f %.0fms)\n",
		r.File, r.Data, r.Strategy, r.Confidence, r.ProcessingMs)
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().String("format", "text", "output format: text or json")
	decodeCmd.Flags().String("overlay", "", "write a PNG with the detected quad drawn onto the input")
	decodeCmd.Flags().Bool("no-preprocess", false, "disable the preprocessing strategy")
	decodeCmd.Flags().Bool("no-rotation", false, "disable the rotation-correction strategy")
	decodeCmd.Flags().Int("max-retries", 0, "number of passes over the strategy list")
	decodeCmd.Flags().Int("timeout-ms", 0, "total time budget in milliseconds")
	decodeCmd.Flags().Float64("min-quality", -1, "minimum confidence [0,1] for accepting a decode")

	_ = viper.BindPFlag("output.format", decodeCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.overlay_path", decodeCmd.Flags().Lookup("overlay"))

	// Inverted and sentinel-defaulted flags map onto detection config only
	// when explicitly set.
	decodeCmd.PreRun = func(cmd *cobra.Command, args []string) {
		v := viper.GetViper()
		if cmd.Flags().Changed("no-preprocess") {
			v.Set("detection.enable_preprocessing", false)
		}
		if cmd.Flags().Changed("no-rotation") {
			v.Set("detection.enable_rotation_correction", false)
		}
		if cmd.Flags().Changed("max-retries") {
			n, _ := cmd.Flags().GetInt("max-retries")
			v.Set("detection.max_retries", n)
		}
		if cmd.Flags().Changed("timeout-ms") {
			n, _ := cmd.Flags().GetInt("timeout-ms")
			v.Set("detection.timeout_ms", n)
		}
		if cmd.Flags().Changed("min-quality") {
			q, _ := cmd.Flags().GetFloat64("min-quality")
			v.Set("detection.min_quality", q)
		}
	}
}
