package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ekkus93/ubo-doom/internal/input"
)

// KeyMap binds terminal keys to the engine's logical controls plus the
// host-level actions (quit, retry after a fault). Centralizing the
// bindings here keeps them testable.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Fire  key.Binding
	Use   key.Binding
	Menu  key.Binding
	Retry key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default terminal bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "forward"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "back"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "turn left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "turn right"),
		),
		Fire: key.NewBinding(
			key.WithKeys("f", "ctrl+f"),
			key.WithHelp("f", "fire"),
		),
		Use: key.NewBinding(
			key.WithKeys(" ", "e"),
			key.WithHelp("space/e", "use"),
		),
		Menu: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "menu"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset + retry"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Logical maps a key message to the logical key posted to the engine.
// Host-level actions (quit, retry) are not logical keys and return
// ok=false here.
func (k KeyMap) Logical(msg tea.KeyMsg) (input.LogicalKey, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return input.KeyUp, true
	case key.Matches(msg, k.Down):
		return input.KeyDown, true
	case key.Matches(msg, k.Left):
		return input.KeyLeft, true
	case key.Matches(msg, k.Right):
		return input.KeyRight, true
	case key.Matches(msg, k.Fire):
		return input.KeyFire, true
	case key.Matches(msg, k.Use):
		return input.KeyUse, true
	case key.Matches(msg, k.Menu):
		return input.KeyEscape, true
	}
	return 0, false
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Fire, k.Use, k.Menu, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Fire, k.Use, k.Menu},
		{k.Retry, k.Quit},
	}
}
