package session

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ekkus93/ubo-doom/internal/engine"
)

// Fault containment. The wrapped engine has two unrecoverable-error
// channels: memory faults (it was written against hand-managed buffers
// and a private allocator) and its internal fatal-error routine (which
// in the original program exits the process). Both are converted here
// into an ordinary return value at the shim boundary.
//
// The hardware guard arms the runtime's panic-on-fault mode so that a
// fault on addressable memory surfaces as a recoverable panic instead of
// killing the host, and restores the previous mode on every exit path so
// faults outside protected regions keep their default behavior. The
// software guard is the recovery of engine.FatalError panic values; it
// only exists inside the protected region, which is the only place that
// error can be raised from.

// trapKind distinguishes the two guarded failure channels.
type trapKind int

const (
	trapHardware trapKind = iota
	trapSoftware
)

func (k trapKind) String() string {
	switch k {
	case trapHardware:
		return "hardware"
	case trapSoftware:
		return "software"
	default:
		return "unknown"
	}
}

// trap describes a fault intercepted inside a protected region.
type trap struct {
	kind   trapKind
	detail string
	stack  []byte
}

// protect invokes fn with both fault traps armed and disarms them on
// every exit path, including success. A non-nil return means a trap
// fired and the engine's globals must be treated as unreliable.
func (c *Controller) protect(fn func()) (tr *trap) {
	prevFault := debug.SetPanicOnFault(true)
	c.hwArmed = true
	c.swArmed = true

	defer func() {
		c.hwArmed = false
		c.swArmed = false
		debug.SetPanicOnFault(prevFault)

		if r := recover(); r != nil {
			tr = classify(r)
			tr.stack = debug.Stack()
		}
	}()

	fn()
	return nil
}

// classify maps a recovered panic value to a trap. Fatal errors raised
// through engine.Fatalf are the software channel; runtime errors (memory
// faults, nil dereferences, out-of-range indexing inside engine code)
// are the hardware channel. Anything else coming out of an engine entry
// point is treated as hardware: the engine has no other legitimate way
// to panic.
func classify(r any) *trap {
	switch e := r.(type) {
	case *engine.FatalError:
		return &trap{kind: trapSoftware, detail: e.Message}
	case runtime.Error:
		return &trap{kind: trapHardware, detail: e.Error()}
	default:
		return &trap{kind: trapHardware, detail: fmt.Sprint(r)}
	}
}

// report sends trap diagnostics to the operator side channels: the
// logger always, the journal when configured. Nothing here reaches the
// host's control flow.
func (c *Controller) report(phase string, tr *trap) {
	c.logger.Error("engine trap fired",
		"phase", phase,
		"kind", tr.kind.String(),
		"detail", tr.detail,
	)
	c.logger.Debug("trap backtrace", "stack", stackExcerpt(tr.stack, 16))

	if c.journal != nil {
		if _, err := c.journal.RecordFault(phase, tr.kind.String(), tr.detail, string(tr.stack)); err != nil {
			c.logger.Warn("could not record fault", "error", err)
		}
	}
}

// stackExcerpt trims a debug.Stack dump to its first n lines.
func stackExcerpt(stack []byte, n int) string {
	lines := strings.SplitN(string(stack), "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
