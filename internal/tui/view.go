package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ensigniasec/clocktui/internal/config"
	"github.com/ensigniasec/clocktui/internal/timespec"
)

// wipe is the direction in which a new value sweeps over the old one.
type wipe int

const (
	wipeDown wipe = iota
	wipeUp
	wipeRight
	wipeLeft
)

type styles struct {
	box      lipgloss.Style
	incoming lipgloss.Style
	constant lipgloss.Style
	footer   lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	color := lipgloss.Color(theme.Color)
	box := lipgloss.NewStyle().
		Border(borderFor(theme.Border)).
		BorderForeground(color).
		Align(lipgloss.Center)
	return styles{
		box:      box,
		incoming: box.Foreground(color).Bold(true),
		constant: lipgloss.NewStyle().Foreground(color).Align(lipgloss.Center),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func borderFor(name string) lipgloss.Border {
	switch name {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	clock := m.renderClock(m.glyphs)
	if m.glyphs && !m.fits(clock) {
		clock = m.renderClock(false)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		clock,
		"",
		m.styles.footer.Render(m.help.View(m.keys)),
	)
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// fits reports whether clock leaves room for the footer in the window. An
// unknown window size fits anything.
func (m Model) fits(clock string) bool {
	if m.width <= 0 || m.height <= 0 {
		return true
	}
	return lipgloss.Width(clock) <= m.width && lipgloss.Height(clock)+footerLines <= m.height
}

// renderClock lays every block out left to right. big selects the glyph font.
func (m Model) renderClock(big bool) string {
	cells := make([]string, 0, len(m.direction))
	for ti := range m.spec.Tokens {
		tok := &m.spec.Tokens[ti]
		for bi := range tok.Blocks {
			cells = append(cells, m.renderBlock(&tok.Blocks[bi], m.direction[m.offsets[ti]+bi], big))
		}
	}
	if len(cells) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cells...)
}

// renderBlock draws one block. Variable blocks are boxed; while a block is
// transitioning its target value wipes over the current one in proportion to
// the transition's progress.
func (m Model) renderBlock(b *timespec.Block, dir wipe, big bool) string {
	big = big && hasGlyphs(b.Current) && hasGlyphs(b.Target)
	width, height := b.Size, 1
	if big {
		width = max(glyphWidth(b.Current), glyphWidth(b.Target))
		height = glyphHeight
	} else {
		width = max(width, lipgloss.Width(b.Current), lipgloss.Width(b.Target))
	}

	draw := func(v string) string {
		if big {
			g, _ := renderGlyphs(v)
			return g
		}
		return v
	}

	if b.Constant {
		return m.styles.constant.Width(width).Render(draw(b.Current))
	}

	current := m.styles.box.Width(width).Height(height).Render(draw(b.Current))
	ratio := b.Ratio()
	if !b.Transitioning() || ratio <= 0 {
		return current
	}
	incoming := m.styles.incoming.Width(width).Height(height).Render(draw(b.Target))
	return sweep(current, incoming, ratio, dir)
}

// sweep composes two equally sized renderings, revealing ratio of to over
// from in direction dir.
func sweep(from, to string, ratio float64, dir wipe) string {
	if ratio >= 1 {
		return to
	}
	a, b := strings.Split(from, "\n"), strings.Split(to, "\n")
	if len(a) != len(b) {
		return to
	}
	rows := len(a)
	out := make([]string, rows)
	switch dir {
	case wipeDown, wipeUp:
		n := int(ratio * float64(rows))
		for i := range a {
			revealed := i < n
			if dir == wipeUp {
				revealed = i >= rows-n
			}
			if revealed {
				out[i] = b[i]
			} else {
				out[i] = a[i]
			}
		}
	case wipeRight, wipeLeft:
		for i := range a {
			w := ansi.StringWidth(a[i])
			k := int(ratio * float64(w))
			if dir == wipeRight {
				out[i] = ansi.Truncate(b[i], k, "") + ansi.TruncateLeft(a[i], k, "")
			} else {
				out[i] = ansi.Truncate(a[i], w-k, "") + ansi.TruncateLeft(b[i], w-k, "")
			}
		}
	}
	return strings.Join(out, "\n")
}
