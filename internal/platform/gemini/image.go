package gemini

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"github.com/nfnt/resize"
)

const (
	maxImageWidth  = 1024
	maxImageHeight = 1024
	jpegQuality    = 80
)

// PrepareImage scales the photo to fit within 1024x1024 preserving aspect
// ratio (never upscaling) and returns it as base64-encoded JPEG at 80%
// quality.
func PrepareImage(imageData []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	widthRatio := float64(maxImageWidth) / float64(width)
	heightRatio := float64(maxImageHeight) / float64(height)
	scale := math.Min(math.Min(widthRatio, heightRatio), 1.0)
	if scale < 1.0 {
		img = resize.Resize(uint(math.Round(float64(width)*scale)), 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
