package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 600
	maxStepsPerTick = 512
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel steps a system on every tick and draws monomer centers
// joined along their chains.
type LiveModel struct {
	sys      *sim.System
	name     string
	dt       float64
	perTick  int
	step     int
	running  bool
	err      error
	canvas   *Canvas
	camera   *Camera
	scene    *Scene
	sample   sim.Sample
	fraction []float64
	chains   []float64
	theme    Theme
	keys     liveKeys
	help     help.Model
	bar      progress.Model
}

// NewLiveModel wraps sys; extent is the world half-width to frame,
// usually half the box side.
func NewLiveModel(name string, sys *sim.System, dt, extent float64) LiveModel {
	m := LiveModel{
		sys:      sys,
		name:     name,
		dt:       dt,
		perTick:  10,
		running:  true,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		camera:   NewCamera(extent),
		scene:    &Scene{},
		fraction: make([]float64, 0, historyCapacity),
		chains:   make([]float64, 0, historyCapacity),
		theme:    Themes[0],
		keys:     defaultLiveKeys,
		help:     help.New(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(24)),
	}
	m.observe()
	return m
}

func (m LiveModel) Init() tea.Cmd { return tick() }

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		reverse := msg.String() != strings.ToLower(msg.String())
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.running = !m.running
		case key.Matches(msg, m.keys.Step):
			if !m.running {
				m.advance(1)
			}
		case key.Matches(msg, m.keys.Slower):
			m.perTick = max(1, m.perTick/2)
		case key.Matches(msg, m.keys.Faster):
			m.perTick = min(maxStepsPerTick, m.perTick*2)
		case key.Matches(msg, m.keys.RotX):
			m.camera.RotateX(turn(reverse))
		case key.Matches(msg, m.keys.RotY):
			m.camera.RotateY(turn(reverse))
		case key.Matches(msg, m.keys.RotZ):
			m.camera.RotateZ(turn(reverse))
		case key.Matches(msg, m.keys.ZoomIn):
			m.camera.ZoomIn()
		case key.Matches(msg, m.keys.ZoomOut):
			m.camera.ZoomOut()
		case key.Matches(msg, m.keys.Theme):
			m.theme = m.theme.next()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case TickMsg:
		if m.running {
			m.advance(m.perTick)
		}
		return m, tick()
	}
	return m, nil
}

func turn(reverse bool) float64 {
	if reverse {
		return -0.1
	}
	return 0.1
}

// advance steps n times and stops at the first invalid state.
func (m *LiveModel) advance(n int) {
	if m.err != nil {
		return
	}
	for i := 0; i < n; i++ {
		m.sys.Step(m.dt)
		m.step++
		if !m.sys.Valid() {
			m.err = &dynamo.SimulationError{Step: m.step, Time: m.elapsed(), Wrapped: dynamo.ErrInvalidState}
			m.running = false
			break
		}
	}
	m.observe()
}

func (m *LiveModel) elapsed() float64 { return float64(m.step) * m.dt }

func (m *LiveModel) observe() {
	m.sample = m.sys.Sample(m.step, m.elapsed())
	m.fraction = appendCapped(m.fraction, m.sample.PolymerFraction())
	m.chains = appendCapped(m.chains, m.sample.MeanChain)
}

func appendCapped(xs []float64, v float64) []float64 {
	if len(xs) == historyCapacity {
		copy(xs, xs[1:])
		xs = xs[:len(xs)-1]
	}
	return append(xs, v)
}

// Step is the number of steps taken so far.
func (m LiveModel) Step() int { return m.step }

func (m LiveModel) Running() bool { return m.running }

func (m LiveModel) Err() error { return m.err }

// draw fills the scene: a point per free monomer and a segment per link.
func (m *LiveModel) draw() {
	m.scene.Reset()
	for _, b := range m.sys.Arena().Bonds() {
		c := b.Monomer().Center()
		if h := b.HeadAdjacent(); h != nil {
			m.scene.Line(c, h.Monomer().Center())
		}
		if !b.Polymerized() {
			m.scene.Point(c)
		}
	}
	m.canvas.Clear()
	m.scene.Render(m.canvas, m.camera)
}

func (m LiveModel) View() string {
	m.draw()
	canvasView := canvasStyle.Render(lipgloss.NewStyle().Foreground(m.theme.Accent).Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(m.theme.title().Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	switch {
	case m.err != nil:
		status = "HALTED: " + m.err.Error()
	case !m.running:
		status = "PAUSED"
	}
	s.WriteString(m.theme.status(m.running).Render(status) + "\n\n")

	if len(m.fraction) > 1 {
		chart := asciigraph.Plot(m.fraction, asciigraph.Height(4), asciigraph.Width(24), asciigraph.Caption("polymerized"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	f := m.sample
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d (x%d)", m.step, m.perTick))
	row("Time", fmt.Sprintf("%.4f", f.Time))
	row("Free", fmt.Sprintf("%d / %d", f.Free, f.Monomers))
	row("Polymerized", m.bar.ViewAs(f.PolymerFraction()))
	row("Chains", fmt.Sprintf("%d max %d", f.Chains, f.MaxChain))
	row("Mean length", fmt.Sprintf("%.2f", f.MeanChain))
	row("Trend", Sparkline(m.chains, 24))
	row("Bond energy", fmt.Sprintf("%.3f", f.BondEnergy))
	row("Links", fmt.Sprintf("+%d -%d", f.Totals.Bound, f.Totals.Unbound))
	if f.ATP+f.ADPPi+f.ADP > 0 {
		row("Nucleotides", CompositionBar(m.theme, f.ATP, f.ADPPi, f.ADP, 24))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	return body + "\n" + helpStyle.Render("  "+m.help.View(m.keys))
}

// RunLive runs m full screen until the user quits.
func RunLive(m LiveModel) (LiveModel, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return m, err
	}
	if lm, ok := final.(LiveModel); ok {
		return lm, nil
	}
	return m, nil
}
