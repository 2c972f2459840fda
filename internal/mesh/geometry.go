package mesh

import "depthmesh/internal/mathutil"

// Geometry is the assembled output buffer: flat vertex attribute arrays
// plus triangle index triples. It is created whole by Assemble and never
// mutated afterward; a new reconstruction replaces it wholesale.
//
// Indices is nil in point-cloud mode, as are Normals (normals are derived
// from the triangle set and a point cloud has none).
type Geometry struct {
	Positions []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex, unit length
	UVs       []float32 // uv per vertex
	Colors    []float32 // rgb per vertex, [0,1]
	Indices   []uint32  // triangle index triples
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.Positions) / 3 }

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int { return len(g.Indices) / 3 }

// Empty reports whether no vertices were synthesized at all.
func (g *Geometry) Empty() bool { return len(g.Positions) == 0 }

// SideMesh is one side's synthesis + triangulation output, ready for
// assembly.
type SideMesh struct {
	Surface *Surface
	Indices []uint32
	Stats   Stats
}

// Assemble merges the front and optional back side into one geometry
// buffer. Back-side indices are offset by the front vertex count, so the
// result never references an out-of-range vertex. A fully carved input
// yields an explicitly empty buffer, not an error.
func Assemble(front, back *SideMesh, pointCloud bool) *Geometry {
	geo := &Geometry{}
	appendSide := func(sm *SideMesh) {
		if sm == nil {
			return
		}
		offset := uint32(geo.VertexCount())
		geo.Positions = append(geo.Positions, sm.Surface.Positions...)
		geo.UVs = append(geo.UVs, sm.Surface.UVs...)
		geo.Colors = append(geo.Colors, sm.Surface.Colors...)
		if !pointCloud {
			for _, i := range sm.Indices {
				geo.Indices = append(geo.Indices, i+offset)
			}
		}
	}
	appendSide(front)
	appendSide(back)

	if !pointCloud {
		geo.Normals = computeNormals(geo.Positions, geo.Indices)
	}
	return geo
}

// computeNormals accumulates unnormalized face normals (cross product,
// proportional to face area) onto each vertex, then normalizes. Vertices
// not referenced by any triangle get a forward-facing default.
func computeNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))
	at := func(i uint32) mathutil.Vec3 {
		return mathutil.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		fn := at(b).Sub(at(a)).Cross(at(c).Sub(at(a)))
		for _, i := range [3]uint32{a, b, c} {
			normals[i*3] += fn[0]
			normals[i*3+1] += fn[1]
			normals[i*3+2] += fn[2]
		}
	}
	for i := 0; i*3 < len(normals); i++ {
		n := mathutil.Vec3{normals[i*3], normals[i*3+1], normals[i*3+2]}
		if l := n.Len(); l < 1e-12 {
			n = mathutil.Vec3{0, 0, 1}
		} else {
			n = n.Scale(1 / l)
		}
		normals[i*3] = n[0]
		normals[i*3+1] = n[1]
		normals[i*3+2] = n[2]
	}
	return normals
}
