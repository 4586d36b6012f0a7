package session

import (
	"strings"
	"testing"

	"github.com/ekkus93/ubo-doom/internal/engine"
	"github.com/ekkus93/ubo-doom/internal/input"
)

// fakeEngine is a scriptable engine double. It records every entry-point
// call in order and can be told to raise the engine's fatal-error signal
// or a memory fault inside any step primitive.
type fakeEngine struct {
	calls []string

	// fatalIn names a method that raises engine.Fatalf when reached.
	fatalIn string

	// faultIn names a method that dereferences a nil pointer when
	// reached, producing a runtime error as a memory fault would.
	faultIn string

	// zeroBindingsOnStart mimics the legacy default-settings load,
	// which leaves the movement and fire bindings unbound.
	zeroBindingsOnStart bool

	args     []string
	sink     engine.VideoSink
	bindings engine.KeyBindings
	stepMode bool
	events   []engine.Event

	assetClears int
	ticResets   int
	audioStops  int

	hasPlayer bool
	soundPos  []*engine.Position

	// displayFrame, if non-nil, is presented through the sink.
	displayFrame   []byte
	displayPalette []byte
}

func (f *fakeEngine) at(name string) {
	f.calls = append(f.calls, name)
	if f.fatalIn == name {
		engine.Fatalf("scripted failure in %s", name)
	}
	if f.faultIn == name {
		// Synthesize a memory fault the way engine code would hit one.
		var p *int
		_ = *p
	}
}

func (f *fakeEngine) Start(args []string) {
	f.at("Start")
	f.args = args
	if f.zeroBindingsOnStart {
		f.bindings = engine.KeyBindings{}
	}
}

func (f *fakeEngine) StartGraphics() { f.at("StartGraphics") }

func (f *fakeEngine) SetVideo(sink engine.VideoSink) {
	f.at("SetVideo")
	f.sink = sink
}

func (f *fakeEngine) SetStepMode(enabled bool) {
	f.at("SetStepMode")
	f.stepMode = enabled
}

func (f *fakeEngine) ApplyKeyBindings(b engine.KeyBindings) {
	f.at("ApplyKeyBindings")
	f.bindings = b
}

func (f *fakeEngine) PostEvent(ev engine.Event) {
	f.at("PostEvent")
	f.events = append(f.events, ev)
}

func (f *fakeEngine) StartFrame()      { f.at("StartFrame") }
func (f *fakeEngine) StartTic()        { f.at("StartTic") }
func (f *fakeEngine) ProcessEvents()   { f.at("ProcessEvents") }
func (f *fakeEngine) BuildTicCommand() { f.at("BuildTicCommand") }
func (f *fakeEngine) RunTic()          { f.at("RunTic") }
func (f *fakeEngine) AdvanceTics()     { f.at("AdvanceTics") }

func (f *fakeEngine) Display() {
	f.at("Display")
	if f.displayFrame != nil && f.sink != nil {
		if f.displayPalette != nil {
			f.sink.SetPalette(f.displayPalette)
		}
		f.sink.Present(f.displayFrame)
	}
}

func (f *fakeEngine) PlayerPosition() (engine.Position, bool) {
	f.at("PlayerPosition")
	if !f.hasPlayer {
		return engine.Position{}, false
	}
	return engine.Position{X: 1, Y: 2, Z: 3}, true
}

func (f *fakeEngine) UpdateSounds(pos *engine.Position) {
	f.at("UpdateSounds")
	f.soundPos = append(f.soundPos, pos)
}

func (f *fakeEngine) UpdateAudio() { f.at("UpdateAudio") }
func (f *fakeEngine) SubmitAudio() { f.at("SubmitAudio") }

func (f *fakeEngine) ShutdownAudio() {
	f.at("ShutdownAudio")
	f.audioStops++
}

func (f *fakeEngine) ClearAssetFiles() {
	f.at("ClearAssetFiles")
	f.assetClears++
}

func (f *fakeEngine) ResetTics() {
	f.at("ResetTics")
	f.ticResets++
}

func (f *fakeEngine) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

// journalRecorder captures fault records for assertions.
type journalRecorder struct {
	phases  []string
	kinds   []string
	details []string
}

func (j *journalRecorder) RecordFault(phase, kind, detail, stack string) (int64, error) {
	j.phases = append(j.phases, phase)
	j.kinds = append(j.kinds, kind)
	j.details = append(j.details, detail)
	return int64(len(j.phases)), nil
}

func newReady(t *testing.T) (*Controller, *fakeEngine) {
	t.Helper()
	eng := &fakeEngine{}
	c := New(eng, Options{})
	if rc := c.Initialize("/assets/bundle.wad"); rc != 0 {
		t.Fatalf("Initialize = %d, want 0", rc)
	}
	return c, eng
}

func TestCallsBeforeInitializeAreNoops(t *testing.T) {
	eng := &fakeEngine{}
	c := New(eng, Options{})

	if c.IsAlive() {
		t.Error("IsAlive = true before Initialize")
	}
	if res := c.Step(); res != StepNoop {
		t.Errorf("Step = %v, want StepNoop", res)
	}
	c.KeyDown(input.KeyFire)
	c.KeyUp(input.KeyFire)
	c.Shutdown()

	if len(eng.calls) != 0 {
		t.Errorf("engine was called before Initialize: %v", eng.calls)
	}
}

func TestInitializeEmptyPathFails(t *testing.T) {
	eng := &fakeEngine{}
	c := New(eng, Options{})

	if rc := c.Initialize(""); rc != -1 {
		t.Errorf("Initialize(\"\") = %d, want -1", rc)
	}
	if c.State() != StateUninitialized {
		t.Errorf("state = %v, want uninitialized", c.State())
	}
	if eng.count("Start") != 0 {
		t.Error("Start was invoked for an empty asset path")
	}
}

func TestInitializeSuccess(t *testing.T) {
	c, eng := newReady(t)

	if !c.IsAlive() {
		t.Error("IsAlive = false after successful Initialize")
	}
	if len(eng.args) != 3 || eng.args[0] != "ubodoom" || eng.args[1] != "-iwad" || eng.args[2] != "/assets/bundle.wad" {
		t.Errorf("argument vector = %v", eng.args)
	}
	if !eng.stepMode {
		t.Error("step mode was not enabled")
	}
}

func TestInitializeIdempotentWhileReady(t *testing.T) {
	c, eng := newReady(t)

	if rc := c.Initialize("/assets/bundle.wad"); rc != 0 {
		t.Errorf("second Initialize = %d, want 0", rc)
	}
	if eng.count("Start") != 1 {
		t.Errorf("Start invoked %d times, want 1", eng.count("Start"))
	}
}

func TestInitializeReappliesBindingsAfterSettingsLoad(t *testing.T) {
	eng := &fakeEngine{zeroBindingsOnStart: true}
	c := New(eng, Options{})

	if rc := c.Initialize("/assets/bundle.wad"); rc != 0 {
		t.Fatalf("Initialize = %d, want 0", rc)
	}

	want := engine.DefaultKeyBindings()
	if eng.bindings != want {
		t.Errorf("bindings after init = %+v, want %+v", eng.bindings, want)
	}

	// The override must happen after start-up completes, not before.
	seq := strings.Join(eng.calls, ",")
	start := strings.Index(seq, "StartGraphics")
	apply := strings.Index(seq, "ApplyKeyBindings")
	if apply < start {
		t.Errorf("ApplyKeyBindings ran before StartGraphics: %v", eng.calls)
	}
}

func TestStepRunsPrimitivesInStrictOrder(t *testing.T) {
	c, eng := newReady(t)
	eng.calls = nil
	eng.hasPlayer = true

	if res := c.Step(); res != StepOK {
		t.Fatalf("Step = %v, want StepOK", res)
	}

	want := []string{
		"StartFrame", "StartTic", "ProcessEvents", "BuildTicCommand",
		"RunTic", "AdvanceTics", "PlayerPosition", "UpdateSounds",
		"Display", "UpdateAudio", "SubmitAudio",
	}
	if len(eng.calls) != len(want) {
		t.Fatalf("step calls = %v, want %v", eng.calls, want)
	}
	for i := range want {
		if eng.calls[i] != want[i] {
			t.Fatalf("call %d = %s, want %s (full: %v)", i, eng.calls[i], want[i], eng.calls)
		}
	}

	if len(eng.soundPos) != 1 || eng.soundPos[0] == nil {
		t.Error("position-dependent audio update did not receive the player position")
	}
}

func TestStepWithoutPlayerUsesNeutralAudioUpdate(t *testing.T) {
	c, eng := newReady(t)
	eng.hasPlayer = false

	c.Step()

	if len(eng.soundPos) != 1 || eng.soundPos[0] != nil {
		t.Errorf("sound positions = %v, want one nil update", eng.soundPos)
	}
}

func TestStepRemainsAliveAcrossManySteps(t *testing.T) {
	c, _ := newReady(t)

	for i := 0; i < 100; i++ {
		if res := c.Step(); res != StepOK {
			t.Fatalf("step %d = %v, want StepOK", i, res)
		}
	}
	if !c.IsAlive() {
		t.Error("IsAlive = false after successful steps")
	}
}

func TestStepSoftwareFault(t *testing.T) {
	c, eng := newReady(t)
	j := &journalRecorder{}
	c.journal = j
	eng.fatalIn = "RunTic"

	if res := c.Step(); res != StepFault {
		t.Errorf("Step = %v, want StepFault", res)
	}
	if c.IsAlive() {
		t.Error("IsAlive = true after a step fault")
	}
	if c.State() != StateFaulted {
		t.Errorf("state = %v, want faulted", c.State())
	}

	// The fault reached the operator side channel, not the host.
	if len(j.kinds) != 1 || j.kinds[0] != "software" {
		t.Errorf("journal kinds = %v, want [software]", j.kinds)
	}
	if j.phases[0] != "step" {
		t.Errorf("journal phase = %q, want step", j.phases[0])
	}

	// Subsequent steps are no-ops until reset+initialize.
	eng.calls = nil
	if res := c.Step(); res != StepNoop {
		t.Errorf("Step after fault = %v, want StepNoop", res)
	}
	if len(eng.calls) != 0 {
		t.Errorf("engine called after fault: %v", eng.calls)
	}
}

func TestStepHardwareFault(t *testing.T) {
	c, eng := newReady(t)
	j := &journalRecorder{}
	c.journal = j
	eng.faultIn = "BuildTicCommand"

	if res := c.Step(); res != StepFault {
		t.Errorf("Step = %v, want StepFault", res)
	}
	if c.IsAlive() {
		t.Error("IsAlive = true after a hardware trap")
	}
	if len(j.kinds) != 1 || j.kinds[0] != "hardware" {
		t.Errorf("journal kinds = %v, want [hardware]", j.kinds)
	}
}

func TestStepFaultStopsSequenceImmediately(t *testing.T) {
	c, eng := newReady(t)
	eng.calls = nil
	eng.fatalIn = "StartTic"

	c.Step()

	for _, call := range eng.calls {
		if call == "RunTic" || call == "Display" {
			t.Errorf("call %s ran after the trap fired: %v", call, eng.calls)
		}
	}
}

func TestStepFaultLeavesFrameUntouched(t *testing.T) {
	c, eng := newReady(t)

	// One good step fills the frame buffer.
	pal := make([]byte, 256*3)
	for i := range pal {
		pal[i] = 90
	}
	eng.displayPalette = pal
	eng.displayFrame = make([]byte, c.FrameWidth()*c.FrameHeight())
	if res := c.Step(); res != StepOK {
		t.Fatalf("priming step = %v, want StepOK", res)
	}

	before := make([]byte, len(c.Frame()))
	copy(before, c.Frame())

	// The next step faults before Display; the buffer keeps the last
	// good contents. No salvage, no rollback.
	eng.fatalIn = "RunTic"
	c.Step()

	after := c.Frame()
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("frame byte %d changed across a faulted step", i)
		}
	}
}

func TestInitializeFaultMarksSessionFaulted(t *testing.T) {
	eng := &fakeEngine{fatalIn: "Start"}
	j := &journalRecorder{}
	c := New(eng, Options{Journal: j})

	if rc := c.Initialize("/assets/bundle.wad"); rc != -1 {
		t.Errorf("Initialize = %d, want -1", rc)
	}
	if c.State() != StateFaulted {
		t.Errorf("state = %v, want faulted", c.State())
	}
	if len(j.phases) != 1 || j.phases[0] != "initialize" {
		t.Errorf("journal phases = %v, want [initialize]", j.phases)
	}
}

func TestInitializeLockoutAfterFault(t *testing.T) {
	eng := &fakeEngine{fatalIn: "Start"}
	c := New(eng, Options{})

	c.Initialize("/assets/bundle.wad")
	starts := eng.count("Start")

	// While faulted, initialize fails fast without touching the engine.
	if rc := c.Initialize("/assets/bundle.wad"); rc != -1 {
		t.Errorf("Initialize while faulted = %d, want -1", rc)
	}
	if eng.count("Start") != starts {
		t.Error("Start was retried while the session was faulted")
	}

	// After reset, start-up is attempted again.
	eng.fatalIn = ""
	c.Reset()
	if rc := c.Initialize("/assets/bundle.wad"); rc != 0 {
		t.Errorf("Initialize after reset = %d, want 0", rc)
	}
	if eng.count("Start") != starts+1 {
		t.Errorf("Start invoked %d times, want %d", eng.count("Start"), starts+1)
	}
}

func TestShutdownStopsAudioOnly(t *testing.T) {
	c, eng := newReady(t)

	c.Shutdown()

	if eng.audioStops != 1 {
		t.Errorf("audio stopped %d times, want 1", eng.audioStops)
	}
	if c.State() != StateUninitialized {
		t.Errorf("state = %v, want uninitialized", c.State())
	}
	if c.IsAlive() {
		t.Error("IsAlive = true after Shutdown")
	}

	// Shutdown is a no-op when not ready.
	c.Shutdown()
	if eng.audioStops != 1 {
		t.Error("Shutdown ran twice")
	}
}

func TestResetClearsEngineBookkeeping(t *testing.T) {
	eng := &fakeEngine{fatalIn: "Start"}
	c := New(eng, Options{})
	c.Initialize("/assets/bundle.wad")

	c.Reset()

	if eng.assetClears != 1 {
		t.Errorf("asset list cleared %d times, want 1", eng.assetClears)
	}
	if eng.ticResets != 1 {
		t.Errorf("tic counters reset %d times, want 1", eng.ticResets)
	}
	if c.State() != StateUninitialized {
		t.Errorf("state = %v, want uninitialized", c.State())
	}
}

func TestResetThenInitializeMatchesFreshSession(t *testing.T) {
	c, eng := newReady(t)
	eng.fatalIn = "RunTic"
	c.Step()
	eng.fatalIn = ""

	c.Reset()
	if rc := c.Initialize("/assets/bundle.wad"); rc != 0 {
		t.Fatalf("Initialize after reset = %d, want 0", rc)
	}

	// Observable surface is indistinguishable from a first-time init.
	if !c.IsAlive() {
		t.Error("IsAlive = false after reset+initialize")
	}
	if res := c.Step(); res != StepOK {
		t.Errorf("Step after reset+initialize = %v, want StepOK", res)
	}
	if eng.bindings != engine.DefaultKeyBindings() {
		t.Errorf("bindings = %+v, want defaults", eng.bindings)
	}
	if !eng.stepMode {
		t.Error("step mode not re-enabled")
	}
}

func TestKeyEventsReachEngineQueue(t *testing.T) {
	c, eng := newReady(t)

	c.KeyDown(input.KeyEscape)
	c.Step()

	presses := 0
	for _, ev := range eng.events {
		if ev.Type == engine.EvKeyDown && ev.Data1 == engine.KeyEscape {
			presses++
		}
	}
	if presses != 1 {
		t.Errorf("escape press events = %d, want 1", presses)
	}
}
