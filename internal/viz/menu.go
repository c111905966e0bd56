package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/dynpoly/internal/config"
	"github.com/san-kum/dynpoly/internal/experiment"
	"go.uber.org/zap"
)

var (
	menuTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuCursor  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

type menuEntry struct {
	family, name string
	cfg          *config.Config
}

func (e menuEntry) key() string { return e.family + "/" + e.name }

// describe lists the populations, e.g. "factin x40 (seed 4)".
func (e menuEntry) describe() string {
	parts := make([]string, 0, len(e.cfg.Populations))
	for _, p := range e.cfg.Populations {
		s := fmt.Sprintf("%s x%d", p.Species, p.Count)
		if p.Seed > 0 {
			s += fmt.Sprintf(" (seed %d)", p.Seed)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

// Menu lists every preset and launches a LiveModel for the chosen one.
// Esc in the live view returns to the list.
type Menu struct {
	entries []menuEntry
	cursor  int
	seed    int64
	logger  *zap.Logger
	live    *LiveModel
	err     error
	keys    menuKeys
	help    help.Model
}

func NewMenu(seed int64, logger *zap.Logger) Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Menu{seed: seed, logger: logger, keys: defaultMenuKeys, help: help.New()}
	for _, fam := range config.ListFamilies() {
		for _, name := range config.ListPresets(fam) {
			m.entries = append(m.entries, menuEntry{family: fam, name: name, cfg: config.GetPreset(fam, name)})
		}
	}
	return m
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Back) {
			m.live = nil
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		lm := next.(LiveModel)
		m.live = &lm
		return m, cmd
	}
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(k, m.keys.Run):
		return m.launch()
	}
	return m, nil
}

func (m Menu) launch() (tea.Model, tea.Cmd) {
	if len(m.entries) == 0 {
		return m, nil
	}
	e := m.entries[m.cursor]
	sys, err := experiment.Build(e.cfg, nil, m.seed, m.logger)
	if err != nil {
		m.err = fmt.Errorf("%s: %w", e.key(), err)
		return m, nil
	}
	m.err = nil
	lm := NewLiveModel(e.key(), sys, e.cfg.Dt, e.cfg.Box/2)
	m.live = &lm
	return m, lm.Init()
}

// Selected is the preset under the cursor as "family/name".
func (m Menu) Selected() string {
	if len(m.entries) == 0 {
		return ""
	}
	return m.entries[m.cursor].key()
}

// Live reports whether a preset is currently running.
func (m Menu) Live() bool { return m.live != nil }

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("DYNPOLY") + "\n    " + menuIdle.Render("active polymer assembly") + "\n    " + menuIdle.Render("─────────────────────────") + "\n\n")
	for i, e := range m.entries {
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-18s", e.key())), menuDesc.Render(e.describe()))
		} else {
			fmt.Fprintf(&b, "      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-18s", e.key())), menuIdle.Render(e.describe()))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + menuWarning.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + m.help.View(m.keys) + "\n")
	return b.String()
}

// RunMenu runs the preset picker full screen.
func RunMenu(seed int64, logger *zap.Logger) error {
	_, err := tea.NewProgram(NewMenu(seed, logger), tea.WithAltScreen()).Run()
	return err
}
