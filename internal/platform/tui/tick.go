// Package tui provides the Bubble Tea front-end that drives an embedded
// engine session: a timer-driven step loop, terminal key mapping into
// the input bridge, and frame-buffer rendering.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one engine step.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the
// specified rate. The host timer is the only pacing authority; the
// engine itself never waits.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
