package starfield

import (
	"github.com/litescript/ls-starfield/internal/geom"
)

// Combiner merges transformed quads into flat vertex and index buffers.
// Buffers are sized up front from the expected quad count so adding quads
// does not reallocate.
type Combiner struct {
	vertices []geom.Vec3
	uvs      []geom.Vec2
	colors   []geom.Vec4
	indices  []uint32
}

// NewCombiner returns a Combiner with room for quads quads.
func NewCombiner(quads int) *Combiner {
	c := &Combiner{}
	c.reserve(quads)
	return c
}

// reserve ensures room for quads more quads.
func (c *Combiner) reserve(quads int) {
	if quads <= 0 {
		return
	}
	c.vertices = grow(c.vertices, quads*4)
	c.uvs = grow(c.uvs, quads*4)
	c.colors = grow(c.colors, quads*4)
	c.indices = grow(c.indices, quads*6)
}

func grow[T any](s []T, n int) []T {
	if cap(s)-len(s) >= n {
		return s
	}
	out := make([]T, len(s), len(s)+n)
	copy(out, s)
	return out
}

// Add bakes transform into the quad's vertices and appends it with one
// color for all four corners.
func (c *Combiner) Add(q geom.Quad, transform geom.Mat4, color geom.Vec4) {
	base := uint32(len(c.vertices))
	for i, v := range q.Vertices {
		c.vertices = append(c.vertices, transform.MulPoint(v))
		c.uvs = append(c.uvs, q.UVs[i])
		c.colors = append(c.colors, color)
	}
	for _, idx := range q.Indices {
		c.indices = append(c.indices, base+idx)
	}
}

// Len returns the number of quads added.
func (c *Combiner) Len() int {
	return len(c.vertices) / 4
}

// Mesh hands the accumulated buffers to a new Mesh and leaves the
// Combiner empty, so the result never aliases later additions.
func (c *Combiner) Mesh() *Mesh {
	m := &Mesh{
		Vertices: c.vertices,
		UVs:      c.uvs,
		Colors:   c.colors,
		Indices:  c.indices,
	}
	*c = Combiner{}
	return m
}
