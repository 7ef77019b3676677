package starfield

import (
	"github.com/google/uuid"

	"github.com/litescript/ls-starfield/internal/geom"
)

// unculledBounds is large enough that the starfield is never frustum culled.
var unculledBounds = geom.Bounds{Size: geom.Vec3{X: 1e8, Y: 1e8, Z: 1e8}}

// Mesh is the combined starfield geometry. Every four vertices form one
// billboard and share a color.
type Mesh struct {
	Name string
	ID   uuid.UUID

	Vertices []geom.Vec3
	UVs      []geom.Vec2
	Colors   []geom.Vec4
	Indices  []uint32

	Bounds geom.Bounds

	// Ephemeral marks the mesh as regenerable; it must not be saved.
	Ephemeral bool
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// QuadCount returns the number of billboards.
func (m *Mesh) QuadCount() int {
	return len(m.Vertices) / 4
}

// IsEmpty returns true if the mesh is nil or has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Vertices) == 0
}

// QuadCenter returns the world position of billboard i.
func (m *Mesh) QuadCenter(i int) geom.Vec3 {
	v := m.Vertices[i*4 : i*4+4]
	return v[0].Add(v[1]).Add(v[2]).Add(v[3]).Scale(0.25)
}

// QuadColor returns the color of billboard i.
func (m *Mesh) QuadColor(i int) geom.Vec4 {
	return m.Colors[i*4]
}
