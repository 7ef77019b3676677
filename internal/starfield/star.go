// Package starfield turns the binary star catalog into a single combined
// billboard mesh and submits it for drawing.
package starfield

import (
	"github.com/litescript/ls-starfield/internal/catalog"
	"github.com/litescript/ls-starfield/internal/geom"
)

// BrightnessCap is the color magnitude above which a star's color is
// renormalized.
const BrightnessCap = 5.7

// catalogAxes mirrors X and Z to move catalog space into world space.
var catalogAxes = geom.Vec3{X: -1, Y: 1, Z: -1}

// Star is a catalog record moved into world orientation with its
// brightness folded into the color alpha.
type Star struct {
	Position  geom.Vec3
	Color     geom.Vec4
	Magnitude float32
}

// NewStar derives a Star from a catalog record.
func NewStar(r catalog.Record) Star {
	s := Star{
		Position:  r.Position.Mul(catalogAxes),
		Magnitude: r.Color.Norm(),
	}
	s.Color = geom.Vec4{X: r.Color.X, Y: r.Color.Y, Z: r.Color.Z, W: s.Magnitude}

	if s.Magnitude > BrightnessCap {
		s.Color = s.Color.Normalized().Scale(0.5)
	}
	return s
}

// BillboardSize returns the edge length of every star quad.
func BillboardSize(starsDistance, starsScale float32) float32 {
	return starsDistance / 100 * starsScale
}
