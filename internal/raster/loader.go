package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/webp"
)

// LoadError reports a source raster that could not be decoded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("raster: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Decode reads one image from r and converts it to a Buffer.
// PNG, JPEG, TGA and WebP are registered. name is used in errors only.
func Decode(r io.Reader, name string) (*Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}
	return FromImage(img), nil
}

// DecodeFile decodes the image file at path.
func DecodeFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return Decode(f, path)
}

// DecodeDataURL decodes a base64 data URL ("data:image/png;base64,...").
func DecodeDataURL(url string) (*Buffer, error) {
	const name = "data URL"
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return nil, &LoadError{Source: name, Err: fmt.Errorf("missing data: prefix")}
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, &LoadError{Source: name, Err: fmt.Errorf("missing comma separator")}
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, &LoadError{Source: name, Err: fmt.Errorf("only base64 payloads are supported")}
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}
	return Decode(bytes.NewReader(raw), name)
}

// Open decodes src, which is either a data URL or a file path.
func Open(src string) (*Buffer, error) {
	if strings.HasPrefix(src, "data:") {
		return DecodeDataURL(src)
	}
	return DecodeFile(src)
}

// View is one side of the subject: a color raster and its depth map.
type View struct {
	Color *Buffer
	Depth *Buffer
}

// LoadView decodes a color/depth source pair.
func LoadView(colorSrc, depthSrc string) (View, error) {
	c, err := Open(colorSrc)
	if err != nil {
		return View{}, err
	}
	d, err := Open(depthSrc)
	if err != nil {
		return View{}, err
	}
	return View{Color: c, Depth: d}, nil
}
