package gemini

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodePrepared(t *testing.T, encoded string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestPrepareImage_DownscalesToFit(t *testing.T) {
	encoded, err := PrepareImage(encodePNG(t, 2048, 1024))
	require.NoError(t, err)

	img := decodePrepared(t, encoded)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}

func TestPrepareImage_NeverUpscales(t *testing.T) {
	encoded, err := PrepareImage(encodePNG(t, 500, 400))
	require.NoError(t, err)

	img := decodePrepared(t, encoded)
	assert.Equal(t, 500, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestPrepareImage_TallImage(t *testing.T) {
	encoded, err := PrepareImage(encodePNG(t, 512, 2048))
	require.NoError(t, err)

	img := decodePrepared(t, encoded)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 1024, img.Bounds().Dy())
}

func TestPrepareImage_RejectsGarbage(t *testing.T) {
	_, err := PrepareImage([]byte("not an image"))
	assert.Error(t, err)
}
