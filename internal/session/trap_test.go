package session

import (
	"errors"
	"runtime/debug"
	"testing"

	"github.com/ekkus93/ubo-doom/internal/engine"
)

func TestProtectReturnsNilOnSuccess(t *testing.T) {
	c := New(&fakeEngine{}, Options{})

	ran := false
	if tr := c.protect(func() { ran = true }); tr != nil {
		t.Errorf("protect = %+v, want nil", tr)
	}
	if !ran {
		t.Error("protected function did not run")
	}
}

func TestProtectTrapsFatalError(t *testing.T) {
	c := New(&fakeEngine{}, Options{})

	tr := c.protect(func() {
		engine.Fatalf("zone heap exhausted: %d bytes", 1234)
	})
	if tr == nil {
		t.Fatal("protect = nil, want a software trap")
	}
	if tr.kind != trapSoftware {
		t.Errorf("kind = %v, want software", tr.kind)
	}
	if tr.detail != "zone heap exhausted: 1234 bytes" {
		t.Errorf("detail = %q", tr.detail)
	}
	if len(tr.stack) == 0 {
		t.Error("trap carried no backtrace")
	}
}

func TestProtectTrapsRuntimeError(t *testing.T) {
	c := New(&fakeEngine{}, Options{})

	tr := c.protect(func() {
		var buf []byte
		_ = buf[9]
	})
	if tr == nil {
		t.Fatal("protect = nil, want a hardware trap")
	}
	if tr.kind != trapHardware {
		t.Errorf("kind = %v, want hardware", tr.kind)
	}
}

func TestProtectClassifiesForeignPanicAsHardware(t *testing.T) {
	c := New(&fakeEngine{}, Options{})

	tr := c.protect(func() {
		panic(errors.New("something the engine has no business throwing"))
	})
	if tr == nil || tr.kind != trapHardware {
		t.Errorf("trap = %+v, want hardware", tr)
	}
}

func TestGuardsDisarmedOnEveryExitPath(t *testing.T) {
	c := New(&fakeEngine{}, Options{})

	check := func(label string) {
		t.Helper()
		if c.hwArmed || c.swArmed {
			t.Errorf("%s: guards still armed (hw=%v sw=%v)", label, c.hwArmed, c.swArmed)
		}
		// Panic-on-fault must be back to the default outside protected
		// regions, so unrelated faults keep terminating the process.
		if prev := debug.SetPanicOnFault(false); prev {
			t.Errorf("%s: panic-on-fault left enabled", label)
		}
	}

	c.protect(func() {})
	check("success path")

	c.protect(func() { engine.Fatalf("boom") })
	check("software trap path")

	c.protect(func() {
		var p *int
		_ = *p
	})
	check("hardware trap path")
}

func TestGuardsArmedInsideProtectedRegion(t *testing.T) {
	c := New(&fakeEngine{}, Options{})

	var hw, sw bool
	c.protect(func() {
		hw = c.hwArmed
		sw = c.swArmed
	})
	if !hw || !sw {
		t.Errorf("guards inside protected region: hw=%v sw=%v, want both armed", hw, sw)
	}
}

func TestFatalfOutsideProtectedRegionPropagates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Fatalf outside a protected region was swallowed")
		}
	}()
	engine.Fatalf("unprotected")
}
