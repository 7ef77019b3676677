// Package export writes starfield meshes and noise samples to files.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/litescript/ls-starfield/internal/geom"
	"github.com/litescript/ls-starfield/internal/starfield"
)

// WriteOBJ writes mesh as Wavefront OBJ. Vertex colors follow each
// position as the common "v x y z r g b" extension; alpha is dropped.
func WriteOBJ(w io.Writer, mesh *starfield.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", mesh.Name)
	fmt.Fprintf(bw, "o %s\n", mesh.Name)

	for i, v := range mesh.Vertices {
		c := mesh.Colors[i]
		fmt.Fprintf(bw, "v %g %g %g %g %g %g\n", v.X, v.Y, v.Z, c.X, c.Y, c.Z)
	}
	for _, uv := range mesh.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv.X, uv.Y)
	}
	// OBJ indices are 1-based.
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i]+1, mesh.Indices[i+1]+1, mesh.Indices[i+2]+1
		fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}

// Summary is the JSON-serializable description of a built mesh.
type Summary struct {
	Name          string       `json:"name"`
	ID            string       `json:"id"`
	Stars         int          `json:"stars"`
	VertexCount   int          `json:"vertex_count"`
	TriangleCount int          `json:"triangle_count"`
	Ephemeral     bool         `json:"ephemeral"`
	Bounds        BoundsExport `json:"bounds"`
	Color         ColorStats   `json:"color"`
	Extent        float32      `json:"extent"`
}

// BoundsExport is a JSON-friendly bounding box.
type BoundsExport struct {
	Center [3]float32 `json:"center"`
	Size   [3]float32 `json:"size"`
}

// ColorStats summarizes the per-star colors.
type ColorStats struct {
	MinAlpha  float32 `json:"min_alpha"`
	MaxAlpha  float32 `json:"max_alpha"`
	MeanAlpha float32 `json:"mean_alpha"`
}

// Summarize describes mesh.
func Summarize(mesh *starfield.Mesh) Summary {
	s := Summary{
		Name:          mesh.Name,
		ID:            mesh.ID.String(),
		Stars:         mesh.QuadCount(),
		VertexCount:   mesh.VertexCount(),
		TriangleCount: mesh.TriangleCount(),
		Ephemeral:     mesh.Ephemeral,
		Bounds: BoundsExport{
			Center: vec3Array(mesh.Bounds.Center),
			Size:   vec3Array(mesh.Bounds.Size),
		},
	}

	n := mesh.QuadCount()
	if n == 0 {
		return s
	}

	var sum float64
	s.Color.MinAlpha = mesh.QuadColor(0).W
	s.Color.MaxAlpha = s.Color.MinAlpha
	for i := 0; i < n; i++ {
		c := mesh.QuadColor(i)
		s.Color.MinAlpha = min(s.Color.MinAlpha, c.W)
		s.Color.MaxAlpha = max(s.Color.MaxAlpha, c.W)
		sum += float64(c.W)

		s.Extent = max(s.Extent, mesh.QuadCenter(i).Norm())
	}
	s.Color.MeanAlpha = float32(sum / float64(n))

	return s
}

func vec3Array(v geom.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// WriteJSON writes the summary as indented JSON.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteText writes a short human-readable summary.
func (s Summary) WriteText(w io.Writer) {
	fmt.Fprintf(w, "%s\n", s.Name)
	fmt.Fprintf(w, "  stars:     %d\n", s.Stars)
	fmt.Fprintf(w, "  vertices:  %d\n", s.VertexCount)
	fmt.Fprintf(w, "  triangles: %d\n", s.TriangleCount)
	fmt.Fprintf(w, "  extent:    %.1f\n", s.Extent)
	fmt.Fprintf(w, "  alpha:     min %.3f  mean %.3f  max %.3f\n",
		s.Color.MinAlpha, s.Color.MeanAlpha, s.Color.MaxAlpha)
}
