// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/starfield"
	"github.com/litescript/ls-starfield/internal/state"
	"github.com/litescript/ls-starfield/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewSky ViewMode = iota
	ViewNoise
)

const viewCount = 2

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// MeshUpdateMsg signals a new starfield mesh is available.
	MeshUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a build error.
	ErrorMsg struct {
		Error error
	}
)

// BuildFunc builds a fresh starfield mesh.
type BuildFunc func() (*starfield.Mesh, error)

// Options configures the root model.
type Options struct {
	Starfield starfield.Config
	NoiseSeed int32

	// Rebuild is called when the user asks for a new mesh. Nil disables
	// rebuilding.
	Rebuild BuildFunc
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state   *state.Manager
	rebuild BuildFunc

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	building  bool
	statusMsg string
	animTick  int

	// Sub-models
	skyView   SkyViewModel
	noiseView NoiseViewModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, opts Options) Model {
	return Model{
		state:     stateMgr,
		rebuild:   opts.Rebuild,
		viewMode:  ViewSky,
		building:  !stateMgr.HasData(),
		skyView:   NewSkyViewModel(opts.Starfield, nil),
		noiseView: NewNoiseViewModel(opts.NoiseSeed),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "s":
			m.viewMode = ViewSky
		case "2", "o":
			m.viewMode = ViewNoise

		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		case "r":
			if m.rebuild != nil && !m.building {
				m.building = true
				m.statusMsg = "Rebuilding starfield..."
				cmds = append(cmds, rebuildCmd(m.state, m.rebuild))
			}

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Banner takes 4 lines, footer 2
		contentHeight := msg.Height - 6
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)
		m.noiseView = m.noiseView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.snapshot = m.state.Snapshot()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case MeshUpdateMsg:
		m.building = false
		m.snapshot = msg.Snapshot
		m.skyView = m.skyView.UpdateData(m.snapshot)
		if n := len(m.snapshot.Events); n > 0 {
			e := m.snapshot.Events[n-1]
			m.statusMsg = fmt.Sprintf("%s %s", e.Type, e.MeshName)
		}

	case ErrorMsg:
		m.building = false
		m.snapshot = m.state.Snapshot()
		if msg.Error != nil {
			m.statusMsg = "Build failed: " + msg.Error.Error()
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	case ViewNoise:
		m.noiseView, cmd = m.noiseView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewSky:
		content = m.skyView.View()
	case ViewNoise:
		content = m.noiseView.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderBanner() + m.renderTabs() + "\n"
}

func (m Model) renderBanner() string {
	const title = "  ✦ L S · S T A R F I E L D ✦"

	var b strings.Builder
	runes := []rune(title)
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, 0, len(runes), 1)))
		b.WriteString(style.Render(string(r)))
	}
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Procedural sky · gradient noise | v%s", version.Version)))
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the banner gradient:
// blue -> purple -> magenta -> pink, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	switch {
	case xRatio < 0.33:
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	case xRatio < 0.66:
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	default:
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	f := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X", clampChannel(r*f), clampChannel(g*f), clampChannel(b*f))
}

func clampChannel(v float64) int {
	return int(min(max(v, 0), 255))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Sky", "[2] Noise"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.building:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Building starfield...")
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastBuild.IsZero():
		status = dimStyle.Render(fmt.Sprintf("%d stars · built in %s",
			m.snapshot.Summary.Stars, m.snapshot.BuildDuration.Round(time.Millisecond)))
	default:
		status = dimStyle.Render("No starfield")
	}

	var help string
	switch m.viewMode {
	case ViewSky:
		help = dimStyle.Render("j/k: bright stars | ←→↑↓: pan | +/-: intensity | f: focus | r: rebuild")
	case ViewNoise:
		help = dimStyle.Render("arrows: pan | +/-: zoom | z: 2D/3D | [/]: z | n/N: seed | 0: reset")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// rebuildCmd runs build off the UI goroutine and records the result.
func rebuildCmd(mgr *state.Manager, build BuildFunc) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		mesh, err := build()
		return BuildResult(mgr, mesh, time.Since(start), err)
	}
}

// BuildResult records a finished build in mgr and returns the message
// that delivers it to the model.
func BuildResult(mgr *state.Manager, mesh *starfield.Mesh, dur time.Duration, err error) tea.Msg {
	mgr.Update(mesh, dur, err)
	if err != nil {
		return ErrorMsg{Error: err}
	}
	return MeshUpdateMsg{Snapshot: mgr.Snapshot()}
}
