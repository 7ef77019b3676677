package ui

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/geom"
	"github.com/litescript/ls-starfield/internal/logging"
	"github.com/litescript/ls-starfield/internal/starfield"
	"github.com/litescript/ls-starfield/internal/state"
)

const (
	// Field of view in degrees
	fovAz = 120.0 // horizontal FOV
	fovEl = 60.0  // vertical FOV

	// Animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Camera steps
	panStepAz = 15.0
	panStepEl = 10.0

	// Brightest stars offered as focus targets
	maxLandmarks = 12

	glyphFocus = '◆'
	colorFocus = "229" // bright gold

	intensityStep = 0.25
	maxIntensity  = 16
)

// landmark is a bright star the camera can focus.
type landmark struct {
	index  int
	az, el float64
	alpha  float32
}

// SkyViewModel renders the starfield mesh as seen from its viewpoint.
type SkyViewModel struct {
	width  int
	height int

	// Camera position (center of view)
	camAz float64
	camEl float64

	// Animation state
	animating   bool
	animStartAz float64
	animStartEl float64
	animTargAz  float64
	animTargEl  float64
	animStart   time.Time

	field    *starfield.Field
	material *termMaterial

	focusIdx  int
	landmarks []landmark

	showFocus bool
}

// NewSkyViewModel creates a new sky view model rendering through a field
// with cfg.
func NewSkyViewModel(cfg starfield.Config, log *logging.Logger) SkyViewModel {
	mat := newTermMaterial()
	field := starfield.NewField(cfg, log)
	field.SetMaterial(mat)
	return SkyViewModel{
		camAz:     180,
		camEl:     20,
		field:     field,
		material:  mat,
		showFocus: true,
	}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData takes the mesh from snapshot. The camera snaps to the
// brightest star the first time a mesh arrives.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	if snapshot.Mesh == nil || snapshot.Mesh == m.field.Mesh() {
		return m
	}
	first := m.field.Mesh() == nil

	m.field.SetMesh(snapshot.Mesh)
	m.landmarks = findLandmarks(snapshot.Mesh, maxLandmarks)

	if m.focusIdx >= len(m.landmarks) {
		m.focusIdx = 0
	}
	if first && !m.animating && len(m.landmarks) > 0 {
		m.camAz = m.landmarks[m.focusIdx].az
		m.camEl = m.landmarks[m.focusIdx].el
	}
	return m
}

// findLandmarks returns the n stars with the highest alpha, brightest first.
func findLandmarks(mesh *starfield.Mesh, n int) []landmark {
	all := make([]landmark, 0, mesh.QuadCount())
	for i := 0; i < mesh.QuadCount(); i++ {
		az, el, ok := horizontal(mesh.QuadCenter(i))
		if !ok {
			continue
		}
		all = append(all, landmark{index: i, az: az, el: el, alpha: mesh.QuadColor(i).W})
	}
	slices.SortStableFunc(all, func(a, b landmark) int {
		return cmp.Compare(b.alpha, a.alpha)
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// animTickMsg is sent during animation
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "n":
			return m.focusNext()
		case "k", "p":
			return m.focusPrev()
		case "left", "h":
			return m.panTo(m.camAz-panStepAz, m.camEl)
		case "right", "l":
			return m.panTo(m.camAz+panStepAz, m.camEl)
		case "up":
			return m.panTo(m.camAz, m.camEl+panStepEl)
		case "down":
			return m.panTo(m.camAz, m.camEl-panStepEl)
		case "+", "=":
			m.field.SetStarIntensity(min(m.field.Config().StarIntensity+intensityStep, maxIntensity))
		case "-", "_":
			m.field.SetStarIntensity(m.field.Config().StarIntensity - intensityStep)
		case "f":
			m.showFocus = !m.showFocus
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m SkyViewModel) focusNext() (SkyViewModel, tea.Cmd) {
	if len(m.landmarks) == 0 {
		return m, nil
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.landmarks)
	return m.focusLandmark()
}

func (m SkyViewModel) focusPrev() (SkyViewModel, tea.Cmd) {
	if len(m.landmarks) == 0 {
		return m, nil
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.landmarks) - 1
	}
	return m.focusLandmark()
}

func (m SkyViewModel) focusLandmark() (SkyViewModel, tea.Cmd) {
	lm := m.landmarks[m.focusIdx]
	return m.panTo(lm.az, lm.el)
}

// panTo animates the camera toward az/el. Elevation is clamped to the
// visible hemisphere.
func (m SkyViewModel) panTo(az, el float64) (SkyViewModel, tea.Cmd) {
	m.animating = true
	m.animStartAz = m.camAz
	m.animStartEl = m.camEl
	m.animTargAz = math.Mod(az+360, 360)
	m.animTargEl = math.Max(-90, math.Min(90, el))
	m.animStart = time.Now()

	return m, animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	elapsed := time.Since(m.animStart)
	t := float64(elapsed) / float64(animDuration)

	if t >= 1.0 {
		m.animating = false
		m.camAz = m.animTargAz
		m.camEl = m.animTargEl
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)

	m.camAz = lerpAngle(m.animStartAz, m.animTargAz, t)
	m.camEl = lerp(m.animStartEl, m.animTargEl, t)

	return m, animTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}

	// Reserve lines for header and status
	canvas, err := m.renderCanvas(m.width, m.height-4)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	switch {
	case errors.Is(err, starfield.ErrMissingMesh):
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Render("Building starfield..."))
	case err != nil:
		b.WriteString(err.Error())
	default:
		b.WriteString(canvas.Render())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

// renderCanvas draws the field through a terminal drawer.
func (m SkyViewModel) renderCanvas(width, height int) (*skyCanvas, error) {
	canvas := newSkyCanvas(width, height, func(az, el float64) (int, int, bool) {
		return m.projectToScreen(az, el, width, height)
	})
	if err := m.field.Render(canvas, geom.Identity()); err != nil {
		return nil, err
	}
	canvas.drawHorizon()

	if m.showFocus && m.focusIdx < len(m.landmarks) {
		lm := m.landmarks[m.focusIdx]
		if x, y, ok := m.projectToScreen(lm.az, lm.el, width, height); ok {
			canvas.mark(x, y, glyphFocus, colorFocus)
		}
	}
	return canvas, nil
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")) // violet
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))               // muted purple

	title := titleStyle.Render("Sky View")
	intensity := dimStyle.Render(fmt.Sprintf("Intensity: %.2f", m.field.Config().StarIntensity))
	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° El:%.0f°", m.camAz, m.camEl))

	return fmt.Sprintf("%s | %s | %s", title, intensity, compass)
}

func (m SkyViewModel) renderStatus() string {
	mesh := m.field.Mesh()
	if mesh.IsEmpty() {
		return "No starfield"
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	status := dimStyle.Render(fmt.Sprintf("%s · %d stars · layer %d · queue %d",
		mesh.Name, mesh.QuadCount(), m.field.Config().DrawLayer, m.material.queue))

	if m.focusIdx < len(m.landmarks) {
		lm := m.landmarks[m.focusIdx]
		accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFocus))
		status = accentStyle.Render(fmt.Sprintf(">>> star #%d  Az:%.1f° El:%.1f°  alpha %.3f  [%d/%d]",
			lm.index, lm.az, lm.el, lm.alpha, m.focusIdx+1, len(m.landmarks))) + "\n" + status
	}
	return status
}

// projectToScreen converts az/el to screen coordinates relative to camera
func (m SkyViewModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	dEl := el - m.camEl

	if dAz < -fovAz/2 || dAz > fovAz/2 {
		return 0, 0, false
	}
	if dEl < -fovEl/2 || dEl > fovEl/2 {
		return 0, 0, false
	}

	// X: -fovAz/2..+fovAz/2 -> 0..width
	// Y: +fovEl/2..-fovEl/2 -> 0..horizon (higher el = higher on screen)
	horizonY := height - 2

	x := int((dAz + fovAz/2) / fovAz * float64(width))
	y := int((fovEl/2 - dEl) / fovEl * float64(horizonY))

	return x, y, true
}

// MiniSky renders mesh as plain text from a camera at az/el, for
// headless output.
func MiniSky(mesh *starfield.Mesh, cfg starfield.Config, az, el float64, width, height int) (string, error) {
	m := NewSkyViewModel(cfg, nil)
	m.field.SetMesh(mesh)
	m.camAz, m.camEl = az, el
	m.showFocus = false

	canvas, err := m.renderCanvas(width, height)
	if err != nil {
		return "", err
	}
	return canvas.Plain(), nil
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}

// lerp linear interpolation
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Init returns nil cmd
func (m SkyViewModel) Init() tea.Cmd {
	return nil
}
