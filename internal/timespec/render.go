package timespec

import (
	"time"
	"unicode/utf8"

	strftime "github.com/ncruces/go-strftime"
)

const escape = '%'

// Render formats t according to the strftime specification format.
// Unknown directives are copied through verbatim.
func Render(format string, t time.Time) string {
	return strftime.Format(format, t)
}

// Fragments splits format into its syntactic units: every directive is its
// own fragment and every maximal run of literal text is one fragment.
//
// A directive is the escape marker, an optional '-' or ':' flag, an optional
// 'E' or 'O' modifier and a single specifier character. An incomplete
// directive at the end of format is literal text.
func Fragments(format string) []string {
	var out []string
	lit := 0
	for i := 0; i < len(format); {
		if format[i] != escape {
			i++
			continue
		}
		end := directiveEnd(format, i)
		if end < 0 {
			break
		}
		if lit < i {
			out = append(out, format[lit:i])
		}
		out = append(out, format[i:end])
		i, lit = end, end
	}
	if lit < len(format) {
		out = append(out, format[lit:])
	}
	return out
}

// Complete reports whether every escape marker in format begins a complete
// directive, that is, format has no dangling '%'.
func Complete(format string) bool {
	for i := 0; i < len(format); {
		if format[i] != escape {
			i++
			continue
		}
		end := directiveEnd(format, i)
		if end < 0 {
			return false
		}
		i = end
	}
	return true
}

// IsDirective reports whether fragment is a single complete directive.
func IsDirective(fragment string) bool {
	return len(fragment) > 0 && fragment[0] == escape && directiveEnd(fragment, 0) == len(fragment)
}

func directiveEnd(format string, start int) int {
	j := start + 1
	if j < len(format) && (format[j] == '-' || format[j] == ':') {
		j++
	}
	if j < len(format) && (format[j] == 'E' || format[j] == 'O') {
		j++
	}
	if j >= len(format) {
		return -1
	}
	_, size := utf8.DecodeRuneInString(format[j:])
	return j + size
}

// representativeInstants returns the two extreme instants used to classify
// constant and variable characters. The lower bound sits at 09:00 so that
// both digits of %I and %l differ from the upper bound, and the upper bound
// is a Wednesday so that full weekday names vary in length.
func representativeInstants(loc *time.Location) (time.Time, time.Time) {
	lo := time.Date(1, time.January, 1, 9, 0, 0, 0, loc)
	hi := time.Date(9999, time.December, 29, 23, 59, 59, 999999999, loc)
	return lo, hi
}
