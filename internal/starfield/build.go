package starfield

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-starfield/internal/catalog"
	"github.com/litescript/ls-starfield/internal/geom"
	"github.com/litescript/ls-starfield/internal/logging"
)

// ErrCatalogRead is returned when the catalog buffer is missing or too
// short. No mesh is produced.
var ErrCatalogRead = errors.New("starfield: catalog read error")

// BuildCount is the number of records turned into billboards. It is one
// less than catalog.StarCount: the last record has never been drawn and
// changing that would change the visible sky.
const BuildCount = catalog.StarCount - 1

// Builder builds starfield meshes from a catalog buffer.
type Builder struct {
	// Viewpoint is the point every billboard faces.
	Viewpoint geom.Vec3

	// Quad makes the billboard geometry for a given size.
	Quad func(size float32) geom.Quad

	// Billboard places a billboard at a world position facing viewpoint.
	Billboard func(pos, viewpoint geom.Vec3) geom.Mat4

	log *logging.Logger
}

// NewBuilder returns a Builder using the standard quad and billboard
// helpers, facing the origin.
func NewBuilder(log *logging.Logger) *Builder {
	if log == nil {
		log = logging.Discard()
	}
	return &Builder{
		Quad:      geom.MakeBillboardQuad,
		Billboard: geom.BillboardMatrix,
		log:       log,
	}
}

// Build decodes the catalog in buf and returns one combined mesh with a
// billboard per star. starsDistance scales catalog positions into world
// space and starsScale scales the billboards. A nil or short buffer fails
// with ErrCatalogRead before any geometry is made.
func (b *Builder) Build(buf []byte, starsDistance, starsScale float32) (*Mesh, error) {
	start := time.Now()

	if buf == nil {
		b.log.Error("Starfield: binary data file reading error: no catalog data")
		return nil, fmt.Errorf("%w: no catalog data", ErrCatalogRead)
	}
	if len(buf) < catalog.Size {
		b.log.Error("Starfield: binary data file reading error: %d bytes, want %d", len(buf), catalog.Size)
		return nil, fmt.Errorf("%w: catalog is %d bytes, want %d", ErrCatalogRead, len(buf), catalog.Size)
	}

	size := BillboardSize(starsDistance, starsScale)
	quad := b.Quad(size)
	combiner := NewCombiner(BuildCount)
	r := catalog.NewReader(buf)

	for i := 0; i < BuildCount; i++ {
		rec, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCatalogRead, i, err)
		}
		star := NewStar(rec)
		transform := b.Billboard(star.Position.Scale(starsDistance), b.Viewpoint)
		combiner.Add(quad, transform, star.Color)
	}

	id := uuid.New()
	mesh := combiner.Mesh()
	mesh.ID = id
	mesh.Name = fmt.Sprintf("StarfieldMesh_(%s)", id)
	mesh.Bounds = unculledBounds
	mesh.Ephemeral = true

	b.log.Debug("Starfield: built %d stars (%d vertices) in %v",
		mesh.QuadCount(), mesh.VertexCount(), time.Since(start))

	return mesh, nil
}

// Build builds a starfield mesh with a default Builder.
func Build(buf []byte, starsDistance, starsScale float32) (*Mesh, error) {
	return NewBuilder(nil).Build(buf, starsDistance, starsScale)
}
