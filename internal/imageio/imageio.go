// Package imageio loads and saves image files for the CLI surface.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

// SupportedExtensions lists supported file extensions for loading.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupported reports whether the path has a supported image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Metadata captures lightweight file and pixel information.
type Metadata struct {
	Path        string
	Format      string
	SizeBytes   int64
	Width       int
	Height      int
	AspectRatio float64
}

// Load opens and decodes an image file, returning the image and metadata.
func Load(path string) (image.Image, Metadata, error) {
	if path == "" {
		return nil, Metadata{}, errors.New("empty path")
	}
	if !IsSupported(path) {
		return nil, Metadata{}, fmt.Errorf("unsupported format: %s", filepath.Ext(path))
	}

	f, err := os.Open(path) //nolint:gosec // G304: Reading user-provided image file path is expected
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("open image: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing image file: %v\n", err)
		}
	}()

	fi, statErr := f.Stat()
	if statErr != nil {
		return nil, Metadata{}, fmt.Errorf("stat image: %w", statErr)
	}

	img, format, decErr := image.Decode(f)
	if decErr != nil {
		return nil, Metadata{}, fmt.Errorf("decode image: %w", decErr)
	}

	b := img.Bounds()
	meta := Metadata{
		Path:        path,
		Format:      format,
		SizeBytes:   fi.Size(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		AspectRatio: float64(b.Dx()) / float64(b.Dy()),
	}

	return img, meta, nil
}

// SavePNG writes an image as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // G304: Writing user-provided output path is expected
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing output file: %v\n", err)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
