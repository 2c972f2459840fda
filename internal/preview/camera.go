package preview

import (
	"github.com/chewxy/math32"

	"depthmesh/internal/mathutil"
)

// projectPositions transforms geometry positions to screen coordinates:
// turntable rotation, then an orthographic fit of the rotated bounding box
// into the frame with a margin. Returns screen X, screen Y and depth.
func projectPositions(positions []float32, yawDeg, pitchDeg float32, renderSize, margin int) (px, py, pz []float32) {
	n := len(positions) / 3
	px = make([]float32, n)
	py = make([]float32, n)
	pz = make([]float32, n)
	if n == 0 {
		return
	}

	R := mathutil.Mat3Mul(mathutil.RotX(mathutil.Deg2Rad(pitchDeg)), mathutil.RotY(mathutil.Deg2Rad(yawDeg)))

	// Bounding box of all rotated vertices
	min := mathutil.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	max := mathutil.Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	rotated := make([]mathutil.Vec3, n)
	for i := 0; i < n; i++ {
		t := R.MulVec3(mathutil.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]})
		rotated[i] = t
		for k := 0; k < 3; k++ {
			if t[k] < min[k] {
				min[k] = t[k]
			}
			if t[k] > max[k] {
				max[k] = t[k]
			}
		}
	}

	center := min.Add(max).Scale(0.5)
	span := max[0] - min[0]
	if s := max[1] - min[1]; s > span {
		span = s
	}
	if span < 0.001 {
		span = 0.001
	}
	scale := float32(renderSize-2*margin) / span
	half := float32(renderSize) / 2

	for i, t := range rotated {
		px[i] = (t[0]-center[0])*scale + half
		py[i] = -(t[1]-center[1])*scale + half
		pz[i] = t[2]
	}
	return
}
