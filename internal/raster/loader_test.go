package raster

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 40), G: uint8(y * 40), B: 128, A: 255,
			})
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	data := encodePNG(t, testImage(5, 3))
	buf, err := Decode(bytes.NewReader(data), "test")
	require.NoError(t, err)

	assert.Equal(t, 5, buf.Width)
	assert.Equal(t, 3, buf.Height)
	assert.Len(t, buf.Pix, 5*3*4)

	r, g, b, a := buf.RGBA(2, 1)
	assert.Equal(t, uint8(80), r)
	assert.Equal(t, uint8(40), g)
	assert.Equal(t, uint8(128), b)
	assert.Equal(t, uint8(255), a)
	assert.Equal(t, uint8(80), buf.Depth(2, 1), "depth reads the R channel")
}

func TestDecodeGrayGetsOpaqueAlpha(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 16)
	}
	buf, err := Decode(bytes.NewReader(encodePNG(t, img)), "gray")
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, uint8(255), buf.Alpha(x, y))
		}
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("not an image"), "bogus")
	require.Error(t, err)
	var le *LoadError
	assert.ErrorAs(t, err, &le)
	assert.Equal(t, "bogus", le.Source)
}

func TestDecodeDataURL(t *testing.T) {
	data := encodePNG(t, testImage(4, 4))
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	buf, err := DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, 4, buf.Width)
	assert.Equal(t, 4, buf.Height)
}

func TestDecodeDataURLMalformed(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"no prefix", "image/png;base64,AAAA"},
		{"no comma", "data:image/png;base64"},
		{"not base64 encoded", "data:image/png,rawbytes"},
		{"bad payload", "data:image/png;base64,!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDataURL(tt.url)
			var le *LoadError
			assert.ErrorAs(t, err, &le)
		})
	}
}

func TestOpenRoutesBySource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, testImage(2, 2)), 0644))

	fromFile, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, fromFile.Width)

	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, testImage(2, 2)))
	fromURL, err := Open(url)
	require.NoError(t, err)
	assert.Equal(t, fromFile.Pix, fromURL.Pix)
}

func TestLoadViewIncomplete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, testImage(2, 2)), 0644))

	// Depth source missing: the pair fails as a whole.
	_, err := LoadView(path, filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	var le *LoadError
	assert.ErrorAs(t, err, &le)
}
