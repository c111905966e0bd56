package viz

import "github.com/charmbracelet/bubbles/key"

type liveKeys struct {
	Pause, Step    key.Binding
	Slower, Faster key.Binding
	RotX, RotY     key.Binding
	RotZ           key.Binding
	ZoomIn         key.Binding
	ZoomOut        key.Binding
	Theme, Help    key.Binding
	Quit           key.Binding
}

func (k liveKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Slower, k.Faster, k.Help, k.Quit}
}

func (k liveKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Slower, k.Faster},
		{k.RotX, k.RotY, k.RotZ, k.ZoomIn, k.ZoomOut},
		{k.Theme, k.Help, k.Quit},
	}
}

var defaultLiveKeys = liveKeys{
	Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
	Step:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "single step")),
	Slower:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "slower")),
	Faster:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "faster")),
	RotX:    key.NewBinding(key.WithKeys("x", "X"), key.WithHelp("x/X", "rotate x")),
	RotY:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y/Y", "rotate y")),
	RotZ:    key.NewBinding(key.WithKeys("z", "Z"), key.WithHelp("z/Z", "rotate z")),
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

type menuKeys struct {
	Up, Down, Run key.Binding
	Back, Quit    key.Binding
}

func (k menuKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Run, k.Quit}
}

func (k menuKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Run}, {k.Back, k.Quit}}
}

var defaultMenuKeys = menuKeys{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
	Run:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to menu")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
