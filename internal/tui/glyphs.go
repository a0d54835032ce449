package tui

import (
	"strings"
	"sync"

	"github.com/common-nighthawk/go-figure"
	"github.com/mattn/go-runewidth"
)

// figFont is the FIGlet font big blocks are drawn in. It covers printable
// ASCII.
const figFont = "standard"

//nolint:gochecknoglobals // Parsed glyphs are reused across frames.
var (
	glyphMu    sync.Mutex
	glyphCache = map[rune][]string{}
)

// hasGlyphs reports whether every rune of s can be drawn in the FIGlet font.
func hasGlyphs(s string) bool {
	for _, r := range s {
		if r < ' ' || r > '~' {
			return false
		}
	}
	return true
}

// glyph returns the rows of r in the FIGlet font, glyphHeight rows padded to
// one width. Rows the font leaves out below the baseline are blank.
func glyph(r rune) []string {
	glyphMu.Lock()
	defer glyphMu.Unlock()
	if rows, ok := glyphCache[r]; ok {
		return rows
	}

	rows := make([]string, glyphHeight)
	copy(rows, figure.NewFigure(string(r), figFont, false).Slicify())
	w := 0
	for _, row := range rows {
		w = max(w, runewidth.StringWidth(row))
	}
	if w == 0 {
		w = blankGlyphWidth
	}
	for i, row := range rows {
		rows[i] = row + strings.Repeat(" ", w-runewidth.StringWidth(row))
	}
	glyphCache[r] = rows
	return rows
}

// renderGlyphs draws s in the FIGlet font. It returns false when s contains a
// rune outside the font. The empty string draws as glyphHeight empty rows.
func renderGlyphs(s string) (string, bool) {
	if !hasGlyphs(s) {
		return "", false
	}
	var rows [glyphHeight]strings.Builder
	for _, r := range s {
		g := glyph(r)
		for i := range rows {
			rows[i].WriteString(g[i])
		}
	}
	lines := make([]string, glyphHeight)
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n"), true
}

// glyphWidth returns the display width of s drawn in the FIGlet font.
func glyphWidth(s string) int {
	w := 0
	for _, r := range s {
		if hasGlyphs(string(r)) {
			w += runewidth.StringWidth(glyph(r)[0])
		}
	}
	return w
}
