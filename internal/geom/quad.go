package geom

// Quad is a two-triangle mesh with a fixed vertex order.
type Quad struct {
	Vertices [4]Vec3
	UVs      [4]Vec2
	Indices  [6]uint32
}

// QuadUVs is the texture layout shared by every billboard quad.
var QuadUVs = [4]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// QuadIndices is the triangle list shared by every billboard quad.
var QuadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// MakeBillboardQuad returns a quad of edge length size centered on the
// origin in the XY plane, wound top-left, top-right, bottom-right,
// bottom-left.
func MakeBillboardQuad(size float32) Quad {
	h := size / 2
	return Quad{
		Vertices: [4]Vec3{
			{-h, h, 0},
			{h, h, 0},
			{h, -h, 0},
			{-h, -h, 0},
		},
		UVs:     QuadUVs,
		Indices: QuadIndices,
	}
}
