package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/geom"
	"github.com/litescript/ls-starfield/internal/starfield"
)

const (
	// Star glyphs by brightness (alpha × intensity)
	glyphStarBright  = '✶'
	glyphStarMedium  = '✸'
	glyphStarDim     = '•'
	glyphStarVeryDim = '·'

	// Stars dimmer than this are not drawn.
	minBrightness = 0.2

	colorBackground = "236"
	colorHorizon    = "60"
	colorCardinal   = "252"
)

// termMaterial collects the uniforms a Field pushes before drawing.
type termMaterial struct {
	intensity float32
	rotation  geom.Mat4
	tab       []geom.Vec4
	queue     int
}

func newTermMaterial() *termMaterial {
	return &termMaterial{intensity: 1, rotation: geom.Identity()}
}

func (m *termMaterial) SetFloat(name string, v float32) {
	if name == starfield.UniformIntensity {
		m.intensity = v
	}
}

func (m *termMaterial) SetMatrix(name string, mat geom.Mat4) {
	if name == starfield.UniformRotation {
		m.rotation = mat
	}
}

func (m *termMaterial) SetVectorArray(name string, v []geom.Vec4) {
	if name == starfield.UniformTab {
		m.tab = v
	}
}

func (m *termMaterial) SetRenderQueue(queue int) {
	m.queue = queue
}

// projector maps az/el in degrees to a canvas cell.
type projector func(az, el float64) (x, y int, visible bool)

// skyCanvas is a starfield.Drawer that rasterizes billboard centers into
// terminal cells. The brightest star wins when several share a cell.
type skyCanvas struct {
	width, height int
	horizonY      int
	project       projector

	glyphs [][]rune
	colors [][]lipgloss.Color
	bright [][]float32

	drawn int
	layer int
}

func newSkyCanvas(width, height int, project projector) *skyCanvas {
	c := &skyCanvas{
		width:    width,
		height:   height,
		horizonY: height - 2,
		project:  project,
		glyphs:   make([][]rune, height),
		colors:   make([][]lipgloss.Color, height),
		bright:   make([][]float32, height),
	}
	for y := 0; y < height; y++ {
		c.glyphs[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		c.bright[y] = make([]float32, width)
		for x := 0; x < width; x++ {
			c.glyphs[y][x] = ' '
			c.colors[y][x] = colorBackground
		}
	}
	return c
}

// DrawMesh implements starfield.Drawer.
func (c *skyCanvas) DrawMesh(mesh *starfield.Mesh, transform geom.Mat4, mat starfield.Material, layer int) {
	c.layer = layer

	intensity := float32(1)
	xf := transform
	if tm, ok := mat.(*termMaterial); ok {
		intensity = tm.intensity
		xf = transform.Mul(tm.rotation)
	}

	for i := 0; i < mesh.QuadCount(); i++ {
		az, el, ok := horizontal(xf.MulPoint(mesh.QuadCenter(i)))
		if !ok {
			continue
		}
		x, y, visible := c.project(az, el)
		if !visible || x < 0 || x >= c.width || y < 0 || y >= c.horizonY {
			continue
		}

		color := mesh.QuadColor(i)
		b := color.W * intensity
		if b < minBrightness || b <= c.bright[y][x] {
			continue
		}
		c.bright[y][x] = b
		c.glyphs[y][x], c.colors[y][x] = starGlyph(color, b)
		c.drawn++
	}
}

// horizontal converts a world position around the viewer to azimuth and
// elevation in degrees. Azimuth is measured from +Z toward +X.
func horizontal(p geom.Vec3) (az, el float64, ok bool) {
	n := float64(p.Norm())
	if n == 0 {
		return 0, 0, false
	}
	az = math.Atan2(float64(p.X), float64(p.Z)) * 180 / math.Pi
	if az < 0 {
		az += 360
	}
	el = math.Asin(math.Max(-1, math.Min(1, float64(p.Y)/n))) * 180 / math.Pi
	return az, el, true
}

// starGlyph picks a glyph by brightness and tints it with the star color.
func starGlyph(c geom.Vec4, b float32) (rune, lipgloss.Color) {
	var glyph rune
	var level float32
	switch {
	case b >= 3:
		glyph, level = glyphStarBright, 255
	case b >= 1.5:
		glyph, level = glyphStarMedium, 220
	case b >= 0.6:
		glyph, level = glyphStarDim, 180
	default:
		glyph, level = glyphStarVeryDim, 130
	}
	return glyph, tint(c.XYZ(), level)
}

// tint scales rgb so its largest component equals level.
func tint(rgb geom.Vec3, level float32) lipgloss.Color {
	peak := max(rgb.X, rgb.Y, rgb.Z)
	if peak <= 0 {
		v := int(level)
		return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", v, v, v))
	}
	s := level / peak
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X",
		clampByte(rgb.X*s), clampByte(rgb.Y*s), clampByte(rgb.Z*s)))
}

func clampByte(v float32) int {
	return int(min(max(v, 0), 255))
}

// drawHorizon draws the horizon line with cardinal points.
func (c *skyCanvas) drawHorizon() {
	if c.horizonY < 0 || c.horizonY >= c.height {
		return
	}
	for x := 0; x < c.width; x++ {
		c.glyphs[c.horizonY][x] = '─'
		c.colors[c.horizonY][x] = colorHorizon
	}
	for _, card := range []struct {
		label rune
		az    float64
	}{{'N', 0}, {'E', 90}, {'S', 180}, {'W', 270}} {
		x, _, visible := c.project(card.az, 0)
		if visible && x >= 0 && x < c.width {
			c.glyphs[c.horizonY][x] = card.label
			c.colors[c.horizonY][x] = colorCardinal
		}
	}
}

// mark places a single glyph, used for the focus reticle.
func (c *skyCanvas) mark(x, y int, r rune, color lipgloss.Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.horizonY {
		return
	}
	c.glyphs[y][x] = r
	c.colors[y][x] = color
}

// Render returns the canvas with colors.
func (c *skyCanvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			style := lipgloss.NewStyle().Foreground(c.colors[y][x])
			b.WriteString(style.Render(string(c.glyphs[y][x])))
		}
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Plain returns the canvas without styling.
func (c *skyCanvas) Plain() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		b.WriteString(strings.TrimRight(string(c.glyphs[y]), " "))
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
