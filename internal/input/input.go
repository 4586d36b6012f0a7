// Package input translates host-level logical keys into the engine's
// internal keycode space and posts discrete press/release events to the
// engine's event queue. It is pure translation: the bridge never reads
// the queue, never tracks held keys, and never stores a logical key.
package input

import "github.com/ekkus93/ubo-doom/internal/engine"

// LogicalKey is the small closed set of controls a host can drive,
// independent of the engine's keycode space.
type LogicalKey int

const (
	KeyUp LogicalKey = iota + 1
	KeyDown
	KeyLeft
	KeyRight
	KeyFire
	KeyUse
	KeyEscape
)

// String returns a human-readable name for the key.
func (k LogicalKey) String() string {
	switch k {
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyFire:
		return "Fire"
	case KeyUse:
		return "Use"
	case KeyEscape:
		return "Escape"
	default:
		return "Unknown"
	}
}

// Keycode maps a logical key to the engine's internal keycode. The
// mapping is total: anything outside the closed set maps to zero, which
// the engine treats as an inert keycode. Fire maps to right Ctrl rather
// than Enter because the engine's message HUD steals Enter.
func Keycode(k LogicalKey) int {
	switch k {
	case KeyUp:
		return engine.KeyUpArrow
	case KeyDown:
		return engine.KeyDownArrow
	case KeyLeft:
		return engine.KeyLeftArrow
	case KeyRight:
		return engine.KeyRightArrow
	case KeyFire:
		return engine.KeyRCtrl
	case KeyUse:
		return engine.KeySpace
	case KeyEscape:
		return engine.KeyEscape
	default:
		return 0
	}
}

// Bridge posts translated key events into one engine's event queue.
type Bridge struct {
	eng engine.Engine
}

// NewBridge creates a bridge bound to the given engine.
func NewBridge(eng engine.Engine) *Bridge {
	return &Bridge{eng: eng}
}

// KeyDown posts a press event for the given logical key.
func (b *Bridge) KeyDown(k LogicalKey) {
	b.eng.PostEvent(engine.Event{Type: engine.EvKeyDown, Data1: Keycode(k)})
}

// KeyUp posts a release event for the given logical key.
func (b *Bridge) KeyUp(k LogicalKey) {
	b.eng.PostEvent(engine.Event{Type: engine.EvKeyUp, Data1: Keycode(k)})
}
