// Package session owns the lifecycle of the embedded engine: start-up,
// single-step advancement, shutdown, and fault recovery. It is the only
// package that calls engine entry points, and it wraps every call in the
// fault traps that turn the engine's process-terminating failure modes
// into recoverable status values.
//
// The package assumes a single caller. The engine keeps its state in
// process-wide globals and the trap guards are not synchronized, so the
// host must serialize all calls into a Controller.
package session

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/ekkus93/ubo-doom/internal/engine"
	"github.com/ekkus93/ubo-doom/internal/frame"
	"github.com/ekkus93/ubo-doom/internal/input"
)

// State is the engine session state as seen through the shim.
type State int

const (
	// StateUninitialized: the engine has not been started, or was shut
	// down or reset. Only Initialize does anything.
	StateUninitialized State = iota

	// StateReady: the engine's globals are valid and steppable.
	StateReady

	// StateFaulted: a trap fired during start-up or a step. The
	// engine's globals are in an indeterminate state; only Reset is
	// legal until the session is reinitialized.
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// StepResult reports the outcome of a single Step call.
type StepResult int

const (
	// StepNoop: the session was not ready; nothing was done.
	StepNoop StepResult = iota

	// StepOK: exactly one tic was advanced and presented.
	StepOK

	// StepFault: a trap fired mid-step. The session is now Faulted and
	// the frame buffer contents must be treated as stale.
	StepFault
)

// Journal is the operator side channel for fault records. Recording is
// best-effort; a failed write never influences session control flow.
type Journal interface {
	RecordFault(phase, kind, detail, stack string) (int64, error)
}

// Options configures a Controller. The zero value is usable: logging is
// discarded and no journal is kept.
type Options struct {
	// Logger receives lifecycle transitions and trap diagnostics.
	Logger *log.Logger

	// Journal, if non-nil, receives a record of every trap that fires.
	Journal Journal
}

// Controller drives the embedded engine through its legal lifecycle.
// It owns the argument vector handed to the engine (retained for the
// process lifetime, since engine internals keep pointers into it), the
// frame sink, and the input bridge.
type Controller struct {
	eng    engine.Engine
	sink   *frame.Sink
	bridge *input.Bridge

	state    State
	args     []string
	bindings engine.KeyBindings

	hwArmed bool
	swArmed bool

	logger  *log.Logger
	journal Journal
}

// New creates a controller for the given engine. The engine must not be
// driven by anything else for the lifetime of the controller.
func New(eng engine.Engine, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Controller{
		eng:      eng,
		sink:     frame.NewSink(),
		bridge:   input.NewBridge(eng),
		bindings: engine.DefaultKeyBindings(),
		logger:   logger,
		journal:  opts.Journal,
	}
}

// Initialize starts the engine against the given asset bundle and
// returns 0 on success, -1 on failure.
//
// Idempotent while Ready. Fails fast while Faulted: a partially-failed
// engine must be Reset before retrying, so repeated failures never
// re-enter known-bad engine state. On a start-up trap the session
// becomes Faulted and the engine's globals must be treated as
// unreliable.
func (c *Controller) Initialize(assetPath string) int {
	if c.state == StateReady {
		return 0
	}
	if c.state == StateFaulted {
		c.logger.Warn("initialize refused: session is faulted, reset first")
		return -1
	}
	if assetPath == "" {
		c.logger.Error("initialize refused: empty asset bundle path")
		return -1
	}

	// The engine retains pointers into the argument vector, so it is
	// kept alive on the controller for the rest of the process.
	c.args = []string{"ubodoom", "-iwad", assetPath}

	c.eng.SetVideo(c.sink)

	tr := c.protect(func() {
		c.eng.Start(c.args)
		c.eng.StartGraphics()
	})
	if tr != nil {
		c.state = StateFaulted
		c.report("initialize", tr)
		return -1
	}

	// The engine's default-settings load may have zeroed the movement
	// and fire bindings, which would silently break control input.
	c.eng.ApplyKeyBindings(c.bindings)
	c.eng.SetStepMode(true)

	c.state = StateReady
	c.logger.Debug("session ready", "asset", assetPath)
	return 0
}

// Step advances the engine by exactly one tic. It never blocks or waits
// for wall-clock time; the host's own loop is the sole pacing authority.
//
// On a trap the session becomes Faulted immediately. No partial-sequence
// rollback is attempted and the frame buffer keeps whatever was last
// written; the caller must Reset and Initialize before stepping again.
func (c *Controller) Step() StepResult {
	if c.state != StateReady {
		return StepNoop
	}

	tr := c.protect(func() {
		c.eng.StartFrame()
		c.eng.StartTic()
		c.eng.ProcessEvents()
		c.eng.BuildTicCommand()
		c.eng.RunTic()
		c.eng.AdvanceTics()

		if pos, ok := c.eng.PlayerPosition(); ok {
			c.eng.UpdateSounds(&pos)
		} else {
			c.eng.UpdateSounds(nil)
		}

		c.eng.Display()

		c.eng.UpdateAudio()
		c.eng.SubmitAudio()
	})
	if tr != nil {
		c.state = StateFaulted
		c.report("step", tr)
		return StepFault
	}

	return StepOK
}

// Shutdown tears down the audio subsystem and marks the session
// uninitialized. It never invokes the engine's own process-exit path.
// No-op unless Ready.
func (c *Controller) Shutdown() {
	if c.state != StateReady {
		return
	}

	c.eng.ShutdownAudio()
	c.state = StateUninitialized
	c.logger.Debug("session shut down")
}

// Reset discards the session so Initialize can be attempted again.
// Legal from any state.
//
// The loaded-asset-file list is cleared (otherwise the next Initialize
// registers the bundle twice) and the tic counters are zeroed (otherwise
// the engine's step-mode consistency check trips almost immediately,
// because stale counters no longer match freshly-zeroed command
// buffers). The engine's bulk memory arena is deliberately left alone:
// a one-time leak is acceptable in exchange for not touching arena
// internals that may be inconsistent after a fault.
func (c *Controller) Reset() {
	c.hwArmed = false
	c.swArmed = false

	c.eng.ClearAssetFiles()
	c.eng.ResetTics()

	c.state = StateUninitialized
	c.logger.Debug("session reset")
}

// IsAlive reports whether the session is Ready. This is the host's only
// status probe; Step itself reports nothing across the boundary.
func (c *Controller) IsAlive() bool {
	return c.state == StateReady
}

// State returns the current session state.
func (c *Controller) State() State {
	return c.state
}

// KeyDown forwards a logical key press to the engine's event queue.
// No-op unless Ready.
func (c *Controller) KeyDown(k input.LogicalKey) {
	if c.state != StateReady {
		return
	}
	c.bridge.KeyDown(k)
}

// KeyUp forwards a logical key release to the engine's event queue.
// No-op unless Ready.
func (c *Controller) KeyUp(k input.LogicalKey) {
	if c.state != StateReady {
		return
	}
	c.bridge.KeyUp(k)
}

// Frame exposes the converted RGBA frame buffer, read-only, no copy.
// Valid to read only between steps.
func (c *Controller) Frame() []byte {
	return c.sink.Frame()
}

// FrameWidth returns the frame width in pixels.
func (c *Controller) FrameWidth() int {
	return c.sink.Width()
}

// FrameHeight returns the frame height in pixels.
func (c *Controller) FrameHeight() int {
	return c.sink.Height()
}
