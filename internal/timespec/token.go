package timespec

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// Token is a fragment of the format specification and the blocks its
// rendering is split into.
type Token struct {
	Fragment string
	Blocks   []Block

	// collapsed tokens render to a varying number of characters and are
	// animated as one left-aligned block of the widest rendering.
	collapsed bool
	// digit, when set, is the 1-based position of the single rune of the
	// rendering this token shows.
	digit int
}

// Collapsed reports whether the token is animated as a single block.
func (t *Token) Collapsed() bool { return t.collapsed }

// Width returns the summed display width of the token's blocks.
func (t *Token) Width() int {
	w := 0
	for i := range t.Blocks {
		w += t.Blocks[i].Size
	}
	return w
}

// classify renders fragment at both representative instants and derives the
// block partition from the difference.
func classify(fragment string, lo, hi time.Time) Token {
	a, b := Render(fragment, lo), Render(fragment, hi)
	ra, rb := []rune(a), []rune(b)

	if len(ra) != len(rb) {
		return Token{
			Fragment:  fragment,
			Blocks:    []Block{{Size: max(runewidth.StringWidth(a), runewidth.StringWidth(b))}},
			collapsed: true,
		}
	}

	blocks := make([]Block, len(ra))
	for i := range ra {
		blocks[i] = Block{
			Constant: ra[i] == rb[i],
			Size:     max(runewidth.RuneWidth(ra[i]), runewidth.RuneWidth(rb[i])),
		}
	}
	return Token{Fragment: fragment, Blocks: blocks}
}

// split cuts a rendering of the token's fragment along the block boundaries
// fixed at tokenize time. When the rendering has more characters than the
// token has blocks, the excess is appended to the last block; missing
// positions are left empty.
func (t *Token) split(rendering string) []string {
	parts := make([]string, len(t.Blocks))
	if len(parts) == 0 {
		return parts
	}
	if t.collapsed {
		parts[0] = rendering
		return parts
	}
	runes := []rune(rendering)
	if t.digit > 0 {
		if t.digit <= len(runes) {
			parts[0] = string(runes[t.digit-1])
		}
		return parts
	}
	for i := range parts {
		if i < len(runes) {
			parts[i] = string(runes[i])
		}
	}
	if len(runes) > len(parts) {
		parts[len(parts)-1] += string(runes[len(parts):])
	}
	return parts
}
