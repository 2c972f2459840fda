package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Mode selects the depth-to-position mapping strategy.
type Mode int

const (
	// ModePlanar reads depth as height along a single forward axis,
	// producing a front-facing relief plane.
	ModePlanar Mode = iota
	// ModeCylindrical wraps the depth-extruded surface around a vertical
	// core cylinder, so front+back pairs close into one volumetric shape.
	ModeCylindrical
)

func (m Mode) String() string {
	switch m {
	case ModePlanar:
		return "planar"
	case ModeCylindrical:
		return "cylindrical"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a config/manifest string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "planar":
		return ModePlanar, nil
	case "cylindrical":
		return ModeCylindrical, nil
	}
	return 0, fmt.Errorf("mesh: unknown mode %q", s)
}

// Side identifies which view a surface was synthesized from.
type Side int

const (
	SideFront Side = iota
	SideBack
)

// Params are the caller-facing reconstruction knobs.
type Params struct {
	Mode              Mode
	DisplacementScale float32
	PointCloud        bool // skip triangulation, expose bare vertices
}

// Geometry constants shared by the two mapping strategies.
const (
	// Planar relief: world-space width of the base plane. Height follows
	// the grid aspect ratio.
	planeWidth = 2.0

	// Cylindrical wrap: each side covers arcAngle radians of the cylinder,
	// the back side rotated by π so the two half-shells face apart.
	arcAngle    = 0.9 * math32.Pi
	baseRadius  = 0.55
	radiusGain  = 0.45
	heightScale = 2.0

	// Edge taper: displacement fades to zero within taperBand of the UV
	// boundary so the shell meets the base cylinder at the silhouette.
	taperBand = 0.08

	// Visibility thresholds on the 0–255 alpha scale. The volumetric mode
	// carves more aggressively; the relief mode keeps soft fringes.
	planarAlphaThreshold      = 16
	cylindricalAlphaThreshold = 50

	// Triangles with any edge longer than this multiple of the nominal
	// cell spacing bridge a depth discontinuity and are dropped.
	degenerateEdgeFactor = 6.0
)

// AlphaThreshold returns the visibility cutoff for the mode.
func (p Params) AlphaThreshold() uint8 {
	if p.Mode == ModeCylindrical {
		return cylindricalAlphaThreshold
	}
	return planarAlphaThreshold
}

// edgeTaper reports whether the mode attenuates displacement near the UV
// boundary. The relief mode stays a plain heightfield; the cylindrical mode
// needs the taper to close the shell without an explicit back cap.
func (p Params) edgeTaper() bool {
	return p.Mode == ModeCylindrical
}
