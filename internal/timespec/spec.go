// Package timespec turns a strftime-like format into an animated time
// display: the format is partitioned once into constant and variable blocks,
// every logic tick re-samples the wall clock into block targets, and every
// render tick advances the per-block transitions toward those targets.
package timespec

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/clocktui/internal/clock"
)

// DefaultFormat is the locale-default time of day.
const DefaultFormat = "%X"

// Spec is an animated time display built from a format specification.
// It is not safe for concurrent use; the main loop owns it.
type Spec struct {
	Tokens []Token
	Timing time.Duration

	format string
	clock  clock.Clock
	logger *logrus.Entry
}

// Option configures Tokenize.
type Option func(*Spec)

// WithClock sets the time source used for sampling.
func WithClock(c clock.Clock) Option {
	return func(s *Spec) { s.clock = c }
}

// WithLogger sets the logger used for tokenization diagnostics.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Spec) { s.logger = l }
}

// Tokenize partitions format into tokens and blocks, assigns timing to every
// block and initialises each block's displayed value from the current time,
// so no transition plays on the first render. An empty or unrenderable
// format yields an empty display.
func Tokenize(format string, timing time.Duration, opts ...Option) *Spec {
	s := newSpec(format, timing, opts)

	lo, hi := representativeInstants(s.clock.Now().Location())
	for _, frag := range Fragments(format) {
		if IsDirective(frag) && Render(frag, lo) == frag && Render(frag, hi) == frag {
			s.logger.WithField("directive", frag).Warn("unsupported format directive; rendering it literally")
		}
		s.add(classify(frag, lo, hi))
	}
	return s.settle()
}

// Digits returns the fixed HH:MM:SS six-digit display without separators:
// six single-block tokens, each showing one digit of its field.
func Digits(timing time.Duration, opts ...Option) *Spec {
	s := newSpec("%H%M%S", timing, opts)
	for _, field := range []string{"%H", "%M", "%S"} {
		for digit := 0; digit < 2; digit++ {
			s.add(Token{Fragment: field, Blocks: []Block{{Size: 1}}, digit: digit + 1})
		}
	}
	return s.settle()
}

func newSpec(format string, timing time.Duration, opts []Option) *Spec {
	s := &Spec{
		Timing: timing,
		format: format,
		clock:  clock.Real{},
		logger: logrus.WithField("component", "timespec"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Spec) add(tok Token) {
	for i := range tok.Blocks {
		tok.Blocks[i].Threshold = s.Timing
	}
	s.Tokens = append(s.Tokens, tok)
}

// settle samples the clock once and shows the targets without a transition.
func (s *Spec) settle() *Spec {
	s.Sample()
	for i := range s.Tokens {
		for j := range s.Tokens[i].Blocks {
			b := &s.Tokens[i].Blocks[j]
			b.Current = b.Target
		}
	}

	s.logger.WithFields(logrus.Fields{
		"format": s.format,
		"tokens": len(s.Tokens),
		"blocks": s.NumBlocks(),
		"width":  s.Width(),
	}).Debug("tokenized time format")
	return s
}

// Format returns the format specification the spec was built from.
func (s *Spec) Format() string { return s.format }

// Sample renders the current time through every token and stores the
// results as block targets. Calling it twice at the same instant is a no-op
// the second time.
func (s *Spec) Sample() {
	now := s.clock.Now()
	for i := range s.Tokens {
		tok := &s.Tokens[i]
		parts := tok.split(Render(tok.Fragment, now))
		for j := range tok.Blocks {
			tok.Blocks[j].retarget(parts[j])
		}
	}
}

// Advance moves every variable block's transition forward by elapsed and
// reports whether any block is still transitioning.
func (s *Spec) Advance(elapsed time.Duration) bool {
	return s.AdvanceFunc(elapsed, nil)
}

// AdvanceFunc is like Advance but calls onCommit with the token and block
// index of every block that commits during this evaluation.
func (s *Spec) AdvanceFunc(elapsed time.Duration, onCommit func(token, block int)) bool {
	transitioning := false
	for i := range s.Tokens {
		for j := range s.Tokens[i].Blocks {
			moving, committed := s.Tokens[i].Blocks[j].advance(elapsed)
			if moving {
				transitioning = true
			}
			if committed && onCommit != nil {
				onCommit(i, j)
			}
		}
	}
	return transitioning
}

// Pending reports whether any block's target differs from what it displays.
func (s *Spec) Pending() bool {
	for i := range s.Tokens {
		for j := range s.Tokens[i].Blocks {
			if s.Tokens[i].Blocks[j].Transitioning() {
				return true
			}
		}
	}
	return false
}

// NumBlocks returns the total number of blocks across all tokens.
func (s *Spec) NumBlocks() int {
	n := 0
	for i := range s.Tokens {
		n += len(s.Tokens[i].Blocks)
	}
	return n
}

// Width returns the display width of the whole time string.
func (s *Spec) Width() int {
	w := 0
	for i := range s.Tokens {
		w += s.Tokens[i].Width()
	}
	return w
}

// String returns the displayed values concatenated in order.
func (s *Spec) String() string {
	return s.join(func(b *Block) string { return b.Current })
}

// Target returns the latest sampled values concatenated in order.
func (s *Spec) Target() string {
	return s.join(func(b *Block) string { return b.Target })
}

func (s *Spec) join(value func(*Block) string) string {
	var sb strings.Builder
	for i := range s.Tokens {
		for j := range s.Tokens[i].Blocks {
			sb.WriteString(value(&s.Tokens[i].Blocks[j]))
		}
	}
	return sb.String()
}
