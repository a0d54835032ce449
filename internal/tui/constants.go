package tui

// Package-level constants to avoid magic numbers and improve readability.
const (
	channelBufferSize = 256

	// glyphHeight is the number of rows of every big glyph: the height of
	// the standard FIGlet font, descender row included.
	glyphHeight = 6
	// blankGlyphWidth is the width of a glyph the font draws as nothing.
	blankGlyphWidth = 3

	// footerLines is the help line plus the blank line above it.
	footerLines = 2

	// wipeDirections is the number of wipe directions a block cycles through.
	wipeDirections = 4
)
