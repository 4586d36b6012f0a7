// Package demo provides a small deterministic engine implementing the
// engine boundary. It renders a palette-cycling plasma field with a
// marker steered by the bound movement keys.
//
// The demo deliberately reproduces the legacy behaviors the session
// layer exists to contain: its settings load leaves the control bindings
// unbound, it raises the fatal-error signal on a missing or duplicate
// asset bundle, and its step-mode path refuses to run a tic whose
// counter does not match the command buffer.
package demo

import (
	"math"
	"os"

	"github.com/ekkus93/ubo-doom/internal/engine"
)

func init() {
	engine.Register("demo", "Deterministic demo engine", func() engine.Engine {
		return New()
	})
}

// backupTics sizes the command ring buffer, matching the legacy engine's
// network command backlog.
const backupTics = 12

// ticCommand is one tic's worth of input, stamped with the tic it was
// built for. A zero stamp marks an empty slot.
type ticCommand struct {
	stamp   int
	forward int
	side    int
	fire    bool
}

// Demo implements engine.Engine. Not safe for concurrent use; like the
// engine it stands in for, it expects a single caller.
type Demo struct {
	sink engine.VideoSink

	frame   [engine.ScreenWidth * engine.ScreenHeight]byte
	palette [256 * 3]byte

	events   []engine.Event
	pressed  map[int]bool
	bindings engine.KeyBindings

	cmds    [backupTics]ticCommand
	gametic int
	maketic int

	assetFiles []string
	stepMode   bool
	started    bool
	menu       bool
	audioOn    bool

	px, py float64
	phase  float64
	flash  int

	listener     *engine.Position
	audioUpdates int
	audioSubmits int
}

// New creates an unstarted demo engine.
func New() *Demo {
	return &Demo{pressed: make(map[int]bool)}
}

func (d *Demo) Start(args []string) {
	path := ""
	for i, a := range args {
		if a == "-iwad" && i+1 < len(args) {
			path = args[i+1]
		}
	}
	if path == "" {
		engine.Fatalf("no asset bundle specified")
	}

	for _, f := range d.assetFiles {
		if f == path {
			engine.Fatalf("asset bundle %s already registered", path)
		}
	}
	d.assetFiles = append(d.assetFiles, path)

	info, err := os.Stat(path)
	if err != nil {
		engine.Fatalf("cannot open asset bundle %s: %v", path, err)
	}
	if info.Size() == 0 {
		engine.Fatalf("asset bundle %s is empty", path)
	}

	d.buildPalette()
	d.loadDefaults()

	// Start-up rebuilds the command buffer and its counter from zero,
	// but the simulation tic is NOT touched here. The embedding layer
	// zeroes it through ResetTics between runs; a stale gametic against
	// a fresh buffer trips the check in RunTic.
	d.cmds = [backupTics]ticCommand{}
	d.maketic = 0

	d.px = engine.ScreenWidth / 2
	d.py = engine.ScreenHeight / 2
	d.audioOn = true
	d.started = true
}

// loadDefaults stands in for the engine's settings load. Headless builds
// of the original left the movement and fire slots unbound, so the demo
// does the same; the session layer is expected to re-apply bindings.
func (d *Demo) loadDefaults() {
	d.bindings = engine.KeyBindings{}
}

func (d *Demo) StartGraphics() {
	if d.sink != nil {
		d.sink.SetPalette(d.palette[:])
	}
}

func (d *Demo) SetVideo(sink engine.VideoSink) {
	d.sink = sink
}

func (d *Demo) SetStepMode(enabled bool) {
	d.stepMode = enabled
}

func (d *Demo) ApplyKeyBindings(b engine.KeyBindings) {
	d.bindings = b
}

func (d *Demo) PostEvent(ev engine.Event) {
	d.events = append(d.events, ev)
}

func (d *Demo) StartFrame() {}

func (d *Demo) StartTic() {}

func (d *Demo) ProcessEvents() {
	for _, ev := range d.events {
		if ev.Data1 == 0 {
			continue // inert keycode
		}
		switch ev.Type {
		case engine.EvKeyDown:
			if ev.Data1 == engine.KeyEscape {
				d.menu = !d.menu
				continue
			}
			d.pressed[ev.Data1] = true
		case engine.EvKeyUp:
			delete(d.pressed, ev.Data1)
		}
	}
	d.events = d.events[:0]
}

func (d *Demo) BuildTicCommand() {
	c := ticCommand{stamp: d.maketic + 1}
	if b := d.bindings; !d.menu {
		if b.Up != 0 && d.pressed[b.Up] {
			c.forward++
		}
		if b.Down != 0 && d.pressed[b.Down] {
			c.forward--
		}
		if b.Left != 0 && d.pressed[b.Left] {
			c.side--
		}
		if b.Right != 0 && d.pressed[b.Right] {
			c.side++
		}
		if b.Fire != 0 && d.pressed[b.Fire] {
			c.fire = true
		}
	}
	d.cmds[d.maketic%backupTics] = c
	d.maketic++
}

func (d *Demo) RunTic() {
	c := d.cmds[d.gametic%backupTics]
	if d.stepMode && c.stamp != d.gametic+1 {
		// Stale tic counters no longer match the command buffer. The
		// legacy engine treats this as corruption and stops.
		engine.Fatalf("tic %d does not match command buffer (stamp %d)", d.gametic, c.stamp)
	}

	if d.menu {
		return // menu tick: simulation holds still
	}

	const speed = 2.0
	d.px += float64(c.side) * speed
	d.py -= float64(c.forward) * speed
	d.px = clamp(d.px, 2, engine.ScreenWidth-3)
	d.py = clamp(d.py, 2, engine.ScreenHeight-3)

	if c.fire {
		d.flash = 4
	}
	d.phase += 0.08
}

func (d *Demo) AdvanceTics() {
	d.gametic++
}

func (d *Demo) Display() {
	d.renderPlasma()
	d.renderMarker()
	if d.flash > 0 {
		d.renderFlash()
		d.flash--
	}

	if d.sink == nil {
		return
	}
	// Cycle part of the palette periodically so sinks see reassignment
	// after start-up, the way damage flashes reassign it in the
	// original.
	if d.gametic > 0 && d.gametic%16 == 0 {
		d.cyclePalette()
		d.sink.SetPalette(d.palette[:])
	}
	d.sink.Present(d.frame[:])
}

func (d *Demo) PlayerPosition() (engine.Position, bool) {
	if !d.started || d.menu {
		return engine.Position{}, false
	}
	return engine.Position{X: d.px, Y: d.py}, true
}

func (d *Demo) UpdateSounds(pos *engine.Position) {
	d.listener = pos
}

func (d *Demo) UpdateAudio() {
	if d.audioOn {
		d.audioUpdates++
	}
}

func (d *Demo) SubmitAudio() {
	if d.audioOn {
		d.audioSubmits++
	}
}

func (d *Demo) ShutdownAudio() {
	d.audioOn = false
}

func (d *Demo) ClearAssetFiles() {
	d.assetFiles = nil
}

func (d *Demo) ResetTics() {
	d.gametic = 0
	d.maketic = 0
	d.cmds = [backupTics]ticCommand{}
}

// buildPalette fills entries 1..254 with a hue sweep; 0 stays black and
// 255 is white for the marker.
func (d *Demo) buildPalette() {
	for k := 1; k < 255; k++ {
		t := float64(k) / 254 * 2 * math.Pi
		d.palette[k*3+0] = byte(128 + 127*math.Sin(t))
		d.palette[k*3+1] = byte(128 + 127*math.Sin(t+2*math.Pi/3))
		d.palette[k*3+2] = byte(128 + 127*math.Sin(t+4*math.Pi/3))
	}
	d.palette[255*3+0] = 255
	d.palette[255*3+1] = 255
	d.palette[255*3+2] = 255
}

func (d *Demo) cyclePalette() {
	// Rotate entries 1..254 by one slot.
	var first [3]byte
	copy(first[:], d.palette[1*3:2*3])
	copy(d.palette[1*3:254*3], d.palette[2*3:255*3])
	copy(d.palette[254*3:255*3], first[:])
}

func (d *Demo) renderPlasma() {
	for y := 0; y < engine.ScreenHeight; y++ {
		for x := 0; x < engine.ScreenWidth; x++ {
			v := math.Sin(float64(x)/23+d.phase) +
				math.Sin(float64(y)/17-d.phase/2) +
				math.Sin(float64(x+y)/31)
			idx := 1 + int((v+3)/6*253)
			d.frame[y*engine.ScreenWidth+x] = byte(idx)
		}
	}
}

func (d *Demo) renderMarker() {
	cx, cy := int(d.px), int(d.py)
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			x, y := cx+dx, cy+dy
			if x >= 0 && x < engine.ScreenWidth && y >= 0 && y < engine.ScreenHeight {
				d.frame[y*engine.ScreenWidth+x] = 255
			}
		}
	}
}

func (d *Demo) renderFlash() {
	for x := 0; x < engine.ScreenWidth; x++ {
		d.frame[x] = 255
		d.frame[(engine.ScreenHeight-1)*engine.ScreenWidth+x] = 255
	}
	for y := 0; y < engine.ScreenHeight; y++ {
		d.frame[y*engine.ScreenWidth] = 255
		d.frame[y*engine.ScreenWidth+engine.ScreenWidth-1] = 255
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
