package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// Buffer is a decoded image held as a dense row-major RGBA byte array.
// Immutable once decoded. Depth maps are grayscale: only the R channel
// is meaningful and is read through Depth.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA interleaved, len = Width*Height*4
}

// RGBA returns the four channels of the pixel at (x, y).
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Alpha returns the alpha channel of the pixel at (x, y).
func (b *Buffer) Alpha(x, y int) uint8 {
	return b.Pix[(y*b.Width+x)*4+3]
}

// Depth returns the R channel of the pixel at (x, y), interpreting the
// buffer as a grayscale depth map.
func (b *Buffer) Depth(x, y int) uint8 {
	return b.Pix[(y*b.Width+x)*4]
}

// FromImage converts any decoded image into a Buffer.
func FromImage(src image.Image) *Buffer {
	n := toNRGBA(src)
	w, h := n.Rect.Dx(), n.Rect.Dy()
	buf := &Buffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
	for y := 0; y < h; y++ {
		off := n.PixOffset(n.Rect.Min.X, n.Rect.Min.Y+y)
		copy(buf.Pix[y*w*4:(y+1)*w*4], n.Pix[off:off+w*4])
	}
	return buf
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha — draw and set alpha to 255
		draw.Draw(dst, b, src, b.Min, draw.Src)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				i := dst.PixOffset(x, y)
				dst.Pix[i+3] = 255
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}
