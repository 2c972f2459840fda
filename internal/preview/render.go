// Package preview rasterizes a reconstructed geometry buffer to an image:
// z-buffered flat shading with an orthographic turntable camera. It is the
// in-repo stand-in for the external renderer that normally consumes the
// pipeline's output.
package preview

import (
	"image"

	"github.com/chewxy/math32"

	"depthmesh/internal/mathutil"
	"depthmesh/internal/mesh"
	"depthmesh/internal/raster"
)

// Options control the preview render.
type Options struct {
	Size        int     // output edge length in pixels
	Supersample int     // render at Size*Supersample, caller downsamples
	YawDeg      float32 // turntable angle
	PitchDeg    float32
	MeshColor   [3]uint8 // tint when the geometry carries no usable color
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 512
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.MeshColor == ([3]uint8{}) {
		o.MeshColor = [3]uint8{170, 170, 180}
	}
	return o
}

// Render draws the geometry into an NRGBA image of Size*Supersample pixels.
// When tex is non-nil, faces are textured from it via the mesh UVs;
// otherwise vertex colors are interpolated. A geometry without indices is
// drawn as a point cloud. An empty geometry yields a transparent image.
func Render(geo *mesh.Geometry, tex *raster.Buffer, opts Options) *image.NRGBA {
	opts = opts.withDefaults()
	renderSize := opts.Size * opts.Supersample
	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	if geo == nil || geo.Empty() {
		return img
	}

	margin := 16 * opts.Supersample
	px, py, pz := projectPositions(geo.Positions, opts.YawDeg, opts.PitchDeg, renderSize, margin)

	fb := newFrameBuffer(renderSize, renderSize)
	lc := defaultLightConfig()

	if len(geo.Indices) == 0 {
		splatPoints(fb, geo, px, py, pz, opts.Supersample, opts.MeshColor)
	} else {
		for t := 0; t+2 < len(geo.Indices); t += 3 {
			tri := [3]uint32{geo.Indices[t], geo.Indices[t+1], geo.Indices[t+2]}
			rasterizeTriangle(fb, geo, px, py, pz, tri, tex, &lc, opts.MeshColor)
		}
	}

	copy(img.Pix, fb.Color)
	return img
}

// splatPoints draws each vertex as a small square in its vertex color.
func splatPoints(fb *frameBuffer, geo *mesh.Geometry, px, py, pz []float32, supersample int, fallback [3]uint8) {
	r := supersample
	if r < 1 {
		r = 1
	}
	hasColors := len(geo.Colors) >= len(px)*3
	for i := 0; i < len(px); i++ {
		cx := int(px[i])
		cy := int(py[i])
		cr, cg, cb := fallback[0], fallback[1], fallback[2]
		if hasColors {
			cr = clamp255(geo.Colors[i*3] * 255)
			cg = clamp255(geo.Colors[i*3+1] * 255)
			cb = clamp255(geo.Colors[i*3+2] * 255)
		}
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				x, y := cx+dx, cy+dy
				if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
					continue
				}
				zi := y*fb.Width + x
				if pz[i] <= fb.ZBuf[zi] {
					continue
				}
				fb.ZBuf[zi] = pz[i]
				pi := zi * 4
				fb.Color[pi] = cr
				fb.Color[pi+1] = cg
				fb.Color[pi+2] = cb
				fb.Color[pi+3] = 255
			}
		}
	}
}

// rasterizeTriangle fills one triangle with z-buffering and per-face flat
// shading. Hot path: no allocation in the pixel loop.
func rasterizeTriangle(
	fb *frameBuffer,
	geo *mesh.Geometry,
	px, py, pz []float32,
	tri [3]uint32,
	tex *raster.Buffer,
	lc *lightConfig,
	fallback [3]uint8,
) {
	i0, i1, i2 := tri[0], tri[1], tri[2]
	x0, y0, z0 := px[i0], py[i0], pz[i0]
	x1, y1, z1 := px[i1], py[i1], pz[i1]
	x2, y2, z2 := px[i2], py[i2], pz[i2]

	// Face normal in screen space for flat shading
	e1 := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}
	e2 := mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0}
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return
	}
	shade := lc.computeShade(n.Normalize())

	// Bounding box
	minX := int(math32.Min(math32.Min(x0, x1), x2))
	maxX := int(math32.Max(math32.Max(x0, x1), x2)) + 1
	minY := int(math32.Min(math32.Min(y0, y1), y2))
	maxY := int(math32.Max(math32.Max(y0, y1), y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	u0, v0 := geo.UVs[i0*2], geo.UVs[i0*2+1]
	u1, v1 := geo.UVs[i1*2], geo.UVs[i1*2+1]
	u2, v2 := geo.UVs[i2*2], geo.UVs[i2*2+1]

	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zi := rowOff + sx
			if z <= fb.ZBuf[zi] {
				continue
			}

			var cr, cg, cb, ca uint8
			switch {
			case tex != nil:
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0 + w1*v1 + w2*v2
				cr, cg, cb, ca = sampleBuffer(tex, u, v)
			case len(geo.Colors) >= geo.VertexCount()*3:
				cr = clamp255((w0*geo.Colors[i0*3] + w1*geo.Colors[i1*3] + w2*geo.Colors[i2*3]) * 255)
				cg = clamp255((w0*geo.Colors[i0*3+1] + w1*geo.Colors[i1*3+1] + w2*geo.Colors[i2*3+1]) * 255)
				cb = clamp255((w0*geo.Colors[i0*3+2] + w1*geo.Colors[i1*3+2] + w2*geo.Colors[i2*3+2]) * 255)
				ca = 255
			default:
				cr, cg, cb, ca = fallback[0], fallback[1], fallback[2], 255
			}
			if ca < 8 {
				continue // transparent texel
			}
			fb.ZBuf[zi] = z

			// sRGB decode → shade → ACES → sRGB encode
			lr := srgbToLinear[cr] * shade * lc.Exposure
			lg := srgbToLinear[cg] * shade * lc.Exposure
			lb := srgbToLinear[cb] * shade * lc.Exposure

			pi := zi * 4
			fb.Color[pi] = clamp255(math32.Pow(acesTonemap(lr), lc.InvGamma) * 255)
			fb.Color[pi+1] = clamp255(math32.Pow(acesTonemap(lg), lc.InvGamma) * 255)
			fb.Color[pi+2] = clamp255(math32.Pow(acesTonemap(lb), lc.InvGamma) * 255)
			fb.Color[pi+3] = ca
		}
	}
}
