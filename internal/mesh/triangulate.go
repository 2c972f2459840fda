package mesh

// Stats counts triangulation outcomes for one side. A high rejected
// fraction signals a noisy or incoherent depth map.
type Stats struct {
	Candidates int // triangles considered (2 per fully-populated quad)
	Emitted    int
	Rejected   int // dropped by the edge-length filter
}

// Add merges per-side counts.
func (s *Stats) Add(o Stats) {
	s.Candidates += o.Candidates
	s.Emitted += o.Emitted
	s.Rejected += o.Rejected
}

// Triangulate walks every 2×2 block of the surface's index grid and emits
// two triangles per block in which all four cells hold a vertex. Quads
// touching a carved cell are skipped, which is what keeps faces from
// spanning silhouette gaps.
//
// maxEdge rejects triangles whose vertices are implausibly far apart:
// they would bridge a depth discontinuity the alpha test did not catch.
// Pass maxEdge <= 0 to disable the filter.
//
// Winding is chosen per side so outward normals face away from the volume
// interior; the back shell's outward direction is reversed in the shared
// frame, so its triangles wind opposite to the front's.
func Triangulate(s *Surface, side Side, maxEdge float32) ([]uint32, Stats) {
	ig := s.Index
	var out []uint32
	var st Stats

	maxSq := maxEdge * maxEdge
	emit := func(a, b, c int32) {
		st.Candidates++
		if maxEdge > 0 && (edgeSq(s, a, b) > maxSq || edgeSq(s, b, c) > maxSq || edgeSq(s, c, a) > maxSq) {
			st.Rejected++
			return
		}
		out = append(out, uint32(a), uint32(b), uint32(c))
		st.Emitted++
	}

	for y := 0; y < ig.H-1; y++ {
		for x := 0; x < ig.W-1; x++ {
			i00 := ig.At(x, y)
			i10 := ig.At(x+1, y)
			i01 := ig.At(x, y+1)
			i11 := ig.At(x+1, y+1)
			if i00 == NoVertex || i10 == NoVertex || i01 == NoVertex || i11 == NoVertex {
				continue
			}
			if side == SideFront {
				emit(i00, i01, i10)
				emit(i10, i01, i11)
			} else {
				emit(i00, i10, i01)
				emit(i10, i11, i01)
			}
		}
	}
	return out, st
}

func edgeSq(s *Surface, a, b int32) float32 {
	pa := s.Positions[a*3 : a*3+3]
	pb := s.Positions[b*3 : b*3+3]
	dx := pa[0] - pb[0]
	dy := pa[1] - pb[1]
	dz := pa[2] - pb[2]
	return dx*dx + dy*dy + dz*dz
}

// MaxEdge returns the degeneracy cutoff for a grid/parameter pair.
func MaxEdge(spacing float32) float32 {
	return spacing * degenerateEdgeFactor
}
