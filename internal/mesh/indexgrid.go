package mesh

// NoVertex marks a grid cell that failed the visibility test.
const NoVertex int32 = -1

// IndexGrid maps each grid cell to its dense vertex index, or NoVertex.
// A flat fixed-size array keeps triangulation adjacency lookups O(1) and
// cache-friendly; cells are never allocated individually.
type IndexGrid struct {
	W, H int
	idx  []int32
}

// NewIndexGrid returns a grid with every cell set to NoVertex.
func NewIndexGrid(w, h int) *IndexGrid {
	idx := make([]int32, w*h)
	for i := range idx {
		idx[i] = NoVertex
	}
	return &IndexGrid{W: w, H: h, idx: idx}
}

// At returns the vertex index stored for cell (x, y).
func (g *IndexGrid) At(x, y int) int32 {
	return g.idx[y*g.W+x]
}

// Set stores vertex index i for cell (x, y).
func (g *IndexGrid) Set(x, y int, i int32) {
	g.idx[y*g.W+x] = i
}
