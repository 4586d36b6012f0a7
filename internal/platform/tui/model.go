package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ekkus93/ubo-doom/internal/config"
	"github.com/ekkus93/ubo-doom/internal/frame"
	"github.com/ekkus93/ubo-doom/internal/input"
	"github.com/ekkus93/ubo-doom/internal/session"
)

var faultPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(lipgloss.Color("9")).
	Padding(1, 3)

// Model is the Bubble Tea model driving one engine session. Every tick
// it releases expired key holds, advances the session by one step, and
// redraws the converted frame buffer. When the session faults it shows
// a fault panel and offers reset+retry.
type Model struct {
	ctl       *session.Controller
	cfg       config.Config
	assetPath string

	keymap KeyMap
	help   help.Model

	// held tracks logical keys the host considers pressed, with the
	// ticks remaining until the synthetic release. Terminals deliver
	// no key-up events, so releases have to be invented.
	held map[input.LogicalKey]int

	width    int
	height   int
	quitting bool
}

// NewModel creates a model for an already-constructed controller. The
// session is initialized from Init, not here, so a start-up fault is
// displayed instead of aborting the program.
func NewModel(ctl *session.Controller, cfg config.Config) Model {
	return Model{
		ctl:       ctl,
		cfg:       cfg,
		assetPath: config.ExpandHome(cfg.AssetPath),
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		held:      make(map[input.LogicalKey]int),
		width:     80,
		height:    24,
	}
}

// Init starts the engine and the tick loop.
func (m Model) Init() tea.Cmd {
	m.ctl.Initialize(m.assetPath)
	return tickCmd(m.cfg.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.ctl.Shutdown()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Retry):
		if !m.ctl.IsAlive() {
			m.ctl.Reset()
			m.ctl.Initialize(m.assetPath)
			clear(m.held)
		}
		return m, nil
	}

	if lk, ok := m.keymap.Logical(msg); ok {
		if _, alreadyHeld := m.held[lk]; !alreadyHeld {
			m.ctl.KeyDown(lk)
		}
		m.held[lk] = m.cfg.HoldTicks
	}

	return m, nil
}

// handleTick processes one host tick: expire key holds, advance the
// session exactly one step, keep ticking.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	for lk, ticks := range m.held {
		ticks--
		if ticks <= 0 {
			m.ctl.KeyUp(lk)
			delete(m.held, lk)
			continue
		}
		m.held[lk] = ticks
	}

	m.ctl.Step()

	return m, tickCmd(m.cfg.TickRate)
}

// View renders the current frame, or the fault panel if the session is
// dead.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ctl.IsAlive() {
		return m.faultView()
	}

	helpLine := m.help.View(m.keymap)
	frameRows := m.height - 1
	display := RenderFrame(m.ctl.Frame(), frame.Width, frame.Height, m.width, frameRows)
	return display + "\n" + helpLine
}

func (m Model) faultView() string {
	panel := faultPanelStyle.Render(
		"ENGINE FAULT\n\n" +
			"The engine session died and was contained.\n" +
			"The host process is fine.\n\n" +
			"r: reset and retry    q: quit",
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// Run starts a Bubble Tea program driving the given controller and
// blocks until the user quits.
func Run(ctl *session.Controller, cfg config.Config) error {
	p := tea.NewProgram(
		NewModel(ctl, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
