package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Frame rendering: the 320x200 RGBA buffer is drawn with upper-half-
// block glyphs, so each terminal cell carries two vertically stacked
// samples (foreground = top, background = bottom). The frame is
// downsampled with nearest-neighbor to whatever raster fits the
// terminal while keeping the engine's aspect ratio.

// fitRaster picks the cell raster for a source of srcW x srcH pixels in
// a terminal of cols x rows cells, each cell covering 1x2 pixels.
func fitRaster(srcW, srcH, cols, rows int) (outW, outH int) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}

	outW = cols
	if outW > srcW {
		outW = srcW
	}
	// Cell height covers two pixels.
	outH = outW * srcH / (srcW * 2)
	if outH > rows {
		outH = rows
		outW = outH * 2 * srcW / srcH
		if outW > cols {
			outW = cols
		}
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}

// RenderFrame converts an RGBA frame to a styled half-block string.
// Runs of cells with identical color pairs share one style render to
// keep the ANSI overhead down.
func RenderFrame(rgba []byte, srcW, srcH, cols, rows int) string {
	outW, outH := fitRaster(srcW, srcH, cols, rows)
	if outW == 0 || outH == 0 {
		return ""
	}

	hexAt := func(cellX, cellY int) string {
		sx := cellX * srcW / outW
		sy := cellY * srcH / (outH * 2)
		if sy >= srcH {
			sy = srcH - 1
		}
		off := (sy*srcW + sx) * 4
		return fmt.Sprintf("#%02x%02x%02x", rgba[off], rgba[off+1], rgba[off+2])
	}

	var sb strings.Builder
	sb.Grow(outW * outH * 24)

	for y := 0; y < outH; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < outW {
			top := hexAt(x, y*2)
			bottom := hexAt(x, y*2+1)

			run := 0
			for x+run < outW && hexAt(x+run, y*2) == top && hexAt(x+run, y*2+1) == bottom {
				run++
			}

			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			sb.WriteString(style.Render(strings.Repeat("▀", run)))
			x += run
		}
	}

	return sb.String()
}
