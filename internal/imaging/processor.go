// Package imaging validates and bounds uploaded images before they are sent
// to the external image host, keeping payloads small and rejecting files that
// are not images at all.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Bounds applied to project images before upload. The host applies the same
// limit as a transformation; bounding locally keeps upload payloads small.
const (
	MaxWidth  = 1600
	MaxHeight = 1200
)

const jpegQuality = 90

// Validate reports an error if the buffer does not decode as a supported
// image format.
func Validate(data []byte) error {
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("unsupported image format: %w", err)
	}
	return nil
}

// Bound downscales an image to fit within MaxWidth x MaxHeight, preserving
// aspect ratio. Images already within bounds are returned unchanged, byte for
// byte. WebP input is re-encoded (the pure Go decoder has no encoder).
func Bound(data []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image format: %w", err)
	}

	if cfg.Width <= MaxWidth && cfg.Height <= MaxHeight && format != "webp" {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	if cfg.Width > MaxWidth || cfg.Height > MaxHeight {
		img = imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	return buf.Bytes(), nil
}
