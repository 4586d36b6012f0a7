package input

import (
	"testing"

	"github.com/ekkus93/ubo-doom/internal/engine"
)

// queueRecorder implements engine.Engine, recording posted events.
// Everything else is a no-op; the bridge only ever calls PostEvent.
type queueRecorder struct {
	engine.Engine // nil; panics if the bridge strays beyond PostEvent

	events []engine.Event
}

func (q *queueRecorder) PostEvent(ev engine.Event) {
	q.events = append(q.events, ev)
}

func TestKeycodeMapping(t *testing.T) {
	cases := []struct {
		key  LogicalKey
		want int
	}{
		{KeyUp, engine.KeyUpArrow},
		{KeyDown, engine.KeyDownArrow},
		{KeyLeft, engine.KeyLeftArrow},
		{KeyRight, engine.KeyRightArrow},
		{KeyFire, engine.KeyRCtrl},
		{KeyUse, engine.KeySpace},
		{KeyEscape, engine.KeyEscape},
	}

	for _, tc := range cases {
		if got := Keycode(tc.key); got != tc.want {
			t.Errorf("Keycode(%s) = %#x, want %#x", tc.key, got, tc.want)
		}
	}
}

func TestKeycodeUnknownIsInert(t *testing.T) {
	for _, k := range []LogicalKey{0, -1, 99} {
		if got := Keycode(k); got != 0 {
			t.Errorf("Keycode(%d) = %#x, want 0", k, got)
		}
	}
}

func TestKeyDownPostsSinglePressEvent(t *testing.T) {
	q := &queueRecorder{}
	b := NewBridge(q)

	b.KeyDown(KeyEscape)

	if len(q.events) != 1 {
		t.Fatalf("posted %d events, want 1", len(q.events))
	}
	ev := q.events[0]
	if ev.Type != engine.EvKeyDown {
		t.Errorf("event type = %v, want EvKeyDown", ev.Type)
	}
	if ev.Data1 != engine.KeyEscape {
		t.Errorf("event keycode = %#x, want %#x", ev.Data1, engine.KeyEscape)
	}
}

func TestKeyUpPostsReleaseEvent(t *testing.T) {
	q := &queueRecorder{}
	b := NewBridge(q)

	b.KeyDown(KeyFire)
	b.KeyUp(KeyFire)

	if len(q.events) != 2 {
		t.Fatalf("posted %d events, want 2", len(q.events))
	}
	if q.events[1].Type != engine.EvKeyUp {
		t.Errorf("second event type = %v, want EvKeyUp", q.events[1].Type)
	}
	if q.events[1].Data1 != engine.KeyRCtrl {
		t.Errorf("release keycode = %#x, want %#x", q.events[1].Data1, engine.KeyRCtrl)
	}
}

func TestUnmappedKeyPostsNeutralCode(t *testing.T) {
	q := &queueRecorder{}
	b := NewBridge(q)

	b.KeyDown(LogicalKey(42))

	if len(q.events) != 1 || q.events[0].Data1 != 0 {
		t.Errorf("unmapped key posted %+v, want one event with keycode 0", q.events)
	}
}
