package preview

import "depthmesh/internal/raster"

// sampleBuffer bilinearly samples a source raster at (u, v). UVs are
// clamped, not wrapped: mesh UVs are a passthrough of source-image
// coordinates and never leave [0,1] by more than rounding.
func sampleBuffer(buf *raster.Buffer, u, v float32) (r, g, b, a uint8) {
	w, h := buf.Width, buf.Height

	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	// Image rows run top to bottom; v runs bottom to top.
	v = 1 - v
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}

	fx := u * float32(w-1)
	fy := v * float32(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	if x1 >= w {
		x1 = w - 1
	}
	y1 := y0 + 1
	if y1 >= h {
		y1 = h - 1
	}
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	pix := buf.Pix
	i00 := (y0*w + x0) * 4
	i10 := (y0*w + x1) * 4
	i01 := (y1*w + x0) * 4
	i11 := (y1*w + x1) * 4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	fr := float32(pix[i00])*w00 + float32(pix[i10])*w10 + float32(pix[i01])*w01 + float32(pix[i11])*w11
	fg := float32(pix[i00+1])*w00 + float32(pix[i10+1])*w10 + float32(pix[i01+1])*w01 + float32(pix[i11+1])*w11
	fb := float32(pix[i00+2])*w00 + float32(pix[i10+2])*w10 + float32(pix[i01+2])*w01 + float32(pix[i11+2])*w11
	fa := float32(pix[i00+3])*w00 + float32(pix[i10+3])*w10 + float32(pix[i01+3])*w01 + float32(pix[i11+3])*w11

	return uint8(fr + 0.5), uint8(fg + 0.5), uint8(fb + 0.5), uint8(fa + 0.5)
}
