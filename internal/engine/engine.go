// Package engine defines the boundary to the wrapped simulation engine.
// The engine is a legacy, process-global collaborator: it was written to
// own the main loop and to terminate the process on any unrecoverable
// condition. This package pins down the entry points the embedding layer
// is allowed to call, the event and keycode vocabulary shared with it,
// and the fatal-error channel it raises failures through. The lifecycle
// rules for calling into an Engine live in the session package.
package engine

// Screen dimensions are fixed by the engine's renderer. Every frame
// handed to a VideoSink is exactly ScreenWidth*ScreenHeight bytes.
const (
	ScreenWidth  = 320
	ScreenHeight = 200
)

// Keycodes in the engine's internal key space. The arrow keys use the
// extended scancode range; the rest are plain ASCII.
const (
	KeyRightArrow = 0xae
	KeyLeftArrow  = 0xac
	KeyUpArrow    = 0xad
	KeyDownArrow  = 0xaf
	KeyEscape     = 27
	KeyEnter      = 13
	KeySpace      = 32
	KeyRCtrl      = 0x80 + 0x1d
)

// EventType discriminates events posted to the engine's event queue.
type EventType int

const (
	EvKeyDown EventType = iota
	EvKeyUp
)

// Event is a single entry in the engine's event queue. Data1 carries the
// keycode for key events; Data2 and Data3 are unused by key events but
// kept so the queue entry matches the engine's native layout.
type Event struct {
	Type  EventType
	Data1 int
	Data2 int
	Data3 int
}

// KeyBindings names the five bindable control slots in the engine's
// settings. A zero keycode leaves the slot unbound, which the engine
// treats as "control disabled" rather than an error.
type KeyBindings struct {
	Up    int
	Down  int
	Left  int
	Right int
	Fire  int
}

// DefaultKeyBindings returns the canonical control bindings: arrow keys
// for movement and right Ctrl for fire.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Up:    KeyUpArrow,
		Down:  KeyDownArrow,
		Left:  KeyLeftArrow,
		Right: KeyRightArrow,
		Fire:  KeyRCtrl,
	}
}

// Position is a world-space location, used for position-dependent audio.
type Position struct {
	X, Y, Z float64
}

// VideoSink receives the engine's native video output. The engine calls
// SetPalette whenever its active palette changes (start-up, damage
// flashes, item pickups) and Present once per displayed frame. The
// palette slice stays owned by the engine; the sink must hold it by
// reference and tolerate it being replaced at any later call.
type VideoSink interface {
	// SetPalette installs the current 256-entry palette, 3 bytes per
	// entry (R, G, B).
	SetPalette(palette []byte)

	// Present hands over the current indexed-color frame, one palette
	// index per pixel, ScreenWidth*ScreenHeight bytes, row-major.
	Present(frame []byte)
}

// Engine is the full entry-point surface the embedding layer drives.
//
// None of these methods return errors: the wrapped engine predates error
// returns and raises every unrecoverable condition through Fatalf (or,
// for genuine memory corruption, a runtime fault). Callers must only
// invoke Start and the per-tick primitives inside a protected region
// that converts those into recoverable failures.
//
// Implementations are not required to be safe for concurrent use. The
// legacy engine keeps all state in process-wide globals; treat every
// Engine as a singleton resource driven by exactly one caller.
type Engine interface {
	// Start runs the engine's start-up entry point: argument parsing,
	// asset registration, subsystem init, settings load. The engine
	// retains args for the life of the process. With step mode armed
	// later, Start returns instead of entering the engine's own loop.
	Start(args []string)

	// StartGraphics runs the graphics start-up hook. In the original
	// program this is called at the top of the main loop; it is kept as
	// a separate call to preserve the expected init sequencing.
	StartGraphics()

	// SetVideo installs the sink that receives palette and frame data.
	// Must be called before Start so start-up screens have somewhere
	// to go.
	SetVideo(sink VideoSink)

	// SetStepMode switches the engine to cooperative single-tick
	// stepping: each RunTic processes exactly one tic and never waits
	// for wall-clock time.
	SetStepMode(enabled bool)

	// ApplyKeyBindings overwrites the engine's control bindings. The
	// engine's own settings load may have zeroed them.
	ApplyKeyBindings(b KeyBindings)

	// PostEvent appends a discrete event to the engine's event queue.
	// The queue is drained once per tic by ProcessEvents.
	PostEvent(ev Event)

	// Per-tick step primitives, to be called once each and in this
	// order for every simulation step.
	StartFrame()
	StartTic()
	ProcessEvents()
	BuildTicCommand()
	RunTic()
	AdvanceTics()

	// Display renders the current frame and presents it through the
	// installed VideoSink.
	Display()

	// PlayerPosition reports the active player's world position, or
	// ok=false when no player object exists (demo screens, menus).
	PlayerPosition() (pos Position, ok bool)

	// UpdateSounds performs the position-dependent audio update. A nil
	// position requests the neutral, no-listener update.
	UpdateSounds(pos *Position)

	// UpdateAudio mixes pending sound output; SubmitAudio flushes it to
	// the output device; ShutdownAudio tears the audio subsystem down
	// without touching anything else.
	UpdateAudio()
	SubmitAudio()
	ShutdownAudio()

	// ClearAssetFiles empties the engine's loaded-asset-file list so a
	// later Start does not register the same bundle twice.
	ClearAssetFiles()

	// ResetTics zeroes the simulation and command tic counters so a
	// later Start begins from a consistent tic 0.
	ResetTics()
}
