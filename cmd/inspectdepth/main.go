package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"depthmesh/internal/grid"
	"depthmesh/internal/mesh"
	"depthmesh/internal/pipeline"
	"depthmesh/internal/raster"
)

func main() {
	colorSrc := flag.String("color", "", "Color image (file path or data URL)")
	depthSrc := flag.String("depth", "", "Depth map (file path or data URL)")
	gridWidth := flag.Int("grid", pipeline.DefaultGridWidth, "Sampling grid width")
	modeName := flag.String("mode", "planar", "Mapping mode: planar or cylindrical")
	flag.Parse()

	if *colorSrc == "" || *depthSrc == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspectdepth -color img.png -depth depth.png [-grid N] [-mode M]")
		os.Exit(1)
	}

	view, err := raster.LoadView(*colorSrc, *depthSrc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	mode, err := mesh.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Color: %dx%d, Depth: %dx%d\n",
		view.Color.Width, view.Color.Height, view.Depth.Width, view.Depth.Height)

	// Depth histogram, 16 buckets over the R channel
	var hist [16]int
	total := view.Depth.Width * view.Depth.Height
	for y := 0; y < view.Depth.Height; y++ {
		for x := 0; x < view.Depth.Width; x++ {
			hist[view.Depth.Depth(x, y)/16]++
		}
	}
	fmt.Println("Depth histogram:")
	for i, n := range hist {
		fmt.Printf("  [%3d-%3d] %6.2f%%\n", i*16, i*16+15, 100*float64(n)/float64(total))
	}

	// Alpha coverage of the color raster
	opaque := 0
	for y := 0; y < view.Color.Height; y++ {
		for x := 0; x < view.Color.Width; x++ {
			if view.Color.Alpha(x, y) >= 128 {
				opaque++
			}
		}
	}
	cTotal := view.Color.Width * view.Color.Height
	fmt.Printf("Alpha coverage: %.2f%%\n", 100*float64(opaque)/float64(cTotal))

	g := grid.Build(view.Color, view.Depth, *gridWidth)
	fmt.Printf("Grid: %dx%d (%d cells)\n", g.W, g.H, g.W*g.H)

	res, err := pipeline.Reconstruct(context.Background(), pipeline.Request{
		FrontColor: view.Color,
		FrontDepth: view.Depth,
	}, pipeline.Options{GridWidth: *gridWidth, Mode: mode})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st := res.Stats
	fmt.Printf("Vertices: %d (%.2f%% of cells)\n", st.Vertices, 100*float64(st.Vertices)/float64(g.W*g.H))
	fmt.Printf("Triangles: %d (candidates %d, rejected %d)\n", st.Triangles, st.CandidateFaces, st.RejectedFaces)
	if st.Degenerate {
		fmt.Println("Warning: degenerate geometry — depth map looks noisy or incoherent")
	}
	if st.Empty {
		fmt.Println("Warning: empty result — no cell passed the visibility test")
	}

	// Bounding box of the reconstructed surface
	geo := res.Geometry
	if !geo.Empty() {
		min := [3]float32{geo.Positions[0], geo.Positions[1], geo.Positions[2]}
		max := min
		for i := 0; i < geo.VertexCount(); i++ {
			for k := 0; k < 3; k++ {
				v := geo.Positions[i*3+k]
				if v < min[k] {
					min[k] = v
				}
				if v > max[k] {
					max[k] = v
				}
			}
		}
		fmt.Printf("BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n",
			min[0], max[0], min[1], max[1], min[2], max[2])
	}
}
