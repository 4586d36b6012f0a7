// Package frame converts the engine's native indexed-color video output
// into a fixed-format RGBA buffer a host can consume. It is the passive
// end of the video pipeline: the engine pushes palette and frame data
// into a Sink during its display call, and the host reads the converted
// buffer back out between steps.
package frame

import "github.com/ekkus93/ubo-doom/internal/engine"

// Output buffer geometry. Matches the engine's fixed screen dimensions;
// four bytes per pixel (R, G, B, opaque alpha).
const (
	Width         = engine.ScreenWidth
	Height        = engine.ScreenHeight
	bytesPerPixel = 4
)

// Sink receives indexed frames plus a palette and maintains the RGBA
// conversion of the most recent frame. The buffer is overwritten in
// place on every Present; there is no double buffering. Conversion and
// reads happen on the same single thread of control between steps, so
// no synchronization is needed or provided.
type Sink struct {
	buf     [Width * Height * bytesPerPixel]byte
	palette []byte
}

var _ engine.VideoSink = (*Sink)(nil)

// NewSink returns a Sink with a zeroed output buffer and no palette.
func NewSink() *Sink {
	return &Sink{}
}

// SetPalette installs the engine's current palette: 256 entries, 3 bytes
// each (R, G, B). The slice remains owned by the engine and may be
// replaced at any later call; the Sink only holds the reference.
func (s *Sink) SetPalette(palette []byte) {
	s.palette = palette
}

// Present converts one indexed frame into the RGBA buffer. Each source
// byte selects a palette entry; alpha is always opaque. If no palette
// has been installed yet the frame is dropped and the buffer keeps its
// previous contents, so start-up frames before the palette load never
// dereference an absent palette.
func (s *Sink) Present(frame []byte) {
	if s.palette == nil {
		return
	}

	pal := s.palette
	for i, idx := range frame[:Width*Height] {
		c := int(idx) * 3
		s.buf[i*4+0] = pal[c+0]
		s.buf[i*4+1] = pal[c+1]
		s.buf[i*4+2] = pal[c+2]
		s.buf[i*4+3] = 255
	}
}

// Frame exposes the RGBA buffer without copying. Callers must treat it
// as read-only and must not retain it across a Reset of the session.
func (s *Sink) Frame() []byte {
	return s.buf[:]
}

// Width returns the frame width in pixels.
func (s *Sink) Width() int {
	return Width
}

// Height returns the frame height in pixels.
func (s *Sink) Height() int {
	return Height
}
