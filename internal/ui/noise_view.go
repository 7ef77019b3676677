package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/noise"
)

// shadeRamp runs from the lowest to the highest noise value.
var shadeRamp = []rune(" .:-=+*#%@")

const (
	defaultNoiseZoom = 8.0 // cells per lattice unit
	minNoiseZoom     = 1.0
	maxNoiseZoom     = 64.0
	noiseZStep       = 0.1
)

// NoiseSlice describes a window on the noise field.
type NoiseSlice struct {
	// OffsetX and OffsetY are the noise coordinates of the top-left cell.
	OffsetX, OffsetY float32

	// Zoom is the number of columns per lattice unit. Rows cover twice
	// as much to keep cells roughly square.
	Zoom float32

	// Use3D samples Noise3D at Z instead of Noise2D.
	Use3D bool
	Z     float32
}

// Sample returns the noise value for cell (col, row).
func (s NoiseSlice) Sample(gen *noise.Generator, col, row int) float32 {
	x := s.OffsetX + float32(col)/s.Zoom
	y := s.OffsetY + float32(row)*2/s.Zoom
	if s.Use3D {
		return gen.Noise3D(x, y, s.Z)
	}
	return gen.Noise2D(x, y)
}

// shade maps a value in [-1, 1] onto the ramp. Values outside are clamped.
func shade(v float32) rune {
	t := (min(max(v, -1), 1) + 1) / 2
	i := int(t * float32(len(shadeRamp)-1))
	return shadeRamp[i]
}

// shadeColor runs from deep blue through violet to pale pink.
func shadeColor(v float32) lipgloss.Color {
	t := float64((min(max(v, -1), 1) + 1) / 2)
	r := 40 + t*(236-40)
	g := 50 + t*(160-50)
	b := 120 + t*(220-120)
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b)))
}

// RenderNoise renders a width×height slice as plain shaded glyphs.
func RenderNoise(gen *noise.Generator, s NoiseSlice, width, height int) string {
	var b strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			b.WriteRune(shade(s.Sample(gen, col, row)))
		}
		if row < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// NoiseViewModel shows a pannable slice of the gradient noise field.
type NoiseViewModel struct {
	width  int
	height int

	seed  int32
	gen   *noise.Generator
	slice NoiseSlice
}

// NewNoiseViewModel creates a noise view for seed.
func NewNoiseViewModel(seed int32) NoiseViewModel {
	return NoiseViewModel{
		seed:  seed,
		gen:   noise.New(seed),
		slice: NoiseSlice{Zoom: defaultNoiseZoom},
	}
}

// SetSize updates the viewport size.
func (m NoiseViewModel) SetSize(width, height int) NoiseViewModel {
	m.width = width
	m.height = height
	return m
}

// Update handles messages.
func (m NoiseViewModel) Update(msg tea.Msg) (NoiseViewModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// Pan by a quarter of a lattice unit at the default zoom.
	step := 2 / m.slice.Zoom
	switch key.String() {
	case "left", "h":
		m.slice.OffsetX -= step * 4
	case "right", "l":
		m.slice.OffsetX += step * 4
	case "up", "k":
		m.slice.OffsetY -= step * 2
	case "down", "j":
		m.slice.OffsetY += step * 2
	case "+", "=":
		m.slice.Zoom = min(m.slice.Zoom*2, maxNoiseZoom)
	case "-", "_":
		m.slice.Zoom = max(m.slice.Zoom/2, minNoiseZoom)
	case "z":
		m.slice.Use3D = !m.slice.Use3D
	case "]":
		m.slice.Z += noiseZStep
	case "[":
		m.slice.Z -= noiseZStep
	case "n":
		m.seed++
		m.gen = noise.New(m.seed)
	case "N":
		m.seed--
		m.gen = noise.New(m.seed)
	case "0":
		m.slice = NoiseSlice{Zoom: defaultNoiseZoom, Use3D: m.slice.Use3D}
	}
	return m, nil
}

// View renders the noise view.
func (m NoiseViewModel) View() string {
	if m.width < 20 || m.height < 6 {
		return "Noise view requires larger terminal"
	}

	width, height := m.width, m.height-2

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			v := m.slice.Sample(m.gen, col, row)
			style := lipgloss.NewStyle().Foreground(shadeColor(v))
			b.WriteString(style.Render(string(shade(v))))
		}
		if row < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m NoiseViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	mode := "Noise2D"
	if m.slice.Use3D {
		mode = fmt.Sprintf("Noise3D z=%.2f", m.slice.Z)
	}
	return fmt.Sprintf("%s | %s | %s",
		titleStyle.Render("Noise"),
		dimStyle.Render(fmt.Sprintf("seed %d", m.seed)),
		dimStyle.Render(fmt.Sprintf("%s · x %.2f y %.2f · zoom %.0f",
			mode, m.slice.OffsetX, m.slice.OffsetY, m.slice.Zoom)))
}
