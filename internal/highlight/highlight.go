// Package highlight colours JSON text and parse error context for terminal
// output.
//
// Colours come from fatih/color. Whether they are emitted is decided per
// Highlighter, so piped output can stay plain while stderr is coloured.
package highlight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
)

// Highlighter applies a fixed palette to JSON tokens.
type Highlighter struct {
	key     *color.Color
	str     *color.Color
	number  *color.Color
	boolean *color.Color
	null    *color.Color
	gutter  *color.Color
	errLine *color.Color
	caret   *color.Color

	diffHeader  *color.Color
	diffRemoved *color.Color
	diffAdded   *color.Color
	diffHunk    *color.Color
}

// New creates a Highlighter. With enabled false every method returns its
// input text unchanged.
func New(enabled bool) *Highlighter {
	h := &Highlighter{
		key:     color.New(color.FgBlue, color.Bold),
		str:     color.New(color.FgGreen),
		number:  color.New(color.FgYellow),
		boolean: color.New(color.FgMagenta),
		null:    color.New(color.FgHiBlack),
		gutter:  color.New(color.FgHiBlack),
		errLine: color.New(color.FgRed),
		caret:   color.New(color.FgRed, color.Bold),

		diffHeader:  color.New(color.Bold),
		diffRemoved: color.New(color.FgRed),
		diffAdded:   color.New(color.FgGreen),
		diffHunk:    color.New(color.FgCyan),
	}
	for _, c := range h.palette() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return h
}

func (h *Highlighter) palette() []*color.Color {
	return []*color.Color{
		h.key, h.str, h.number, h.boolean, h.null,
		h.gutter, h.errLine, h.caret,
		h.diffHeader, h.diffRemoved, h.diffAdded, h.diffHunk,
	}
}

// JSON colours keys, strings, numbers, booleans and null in text. Text is
// expected to be valid JSON; anything unrecognised is copied through.
func (h *Highlighter) JSON(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '"':
			end := stringEnd(text, i)
			lit := text[i:end]
			if isKey(text, end) {
				sb.WriteString(h.key.Sprint(lit))
			} else {
				sb.WriteString(h.str.Sprint(lit))
			}
			i = end
		case c == '-' || (c >= '0' && c <= '9'):
			end := i + 1
			for end < len(text) && strings.IndexByte("0123456789+-.eE", text[end]) >= 0 {
				end++
			}
			sb.WriteString(h.number.Sprint(text[i:end]))
			i = end
		case strings.HasPrefix(text[i:], "true"):
			sb.WriteString(h.boolean.Sprint("true"))
			i += len("true")
		case strings.HasPrefix(text[i:], "false"):
			sb.WriteString(h.boolean.Sprint("false"))
			i += len("false")
		case strings.HasPrefix(text[i:], "null"):
			sb.WriteString(h.null.Sprint("null"))
			i += len("null")
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// stringEnd returns the index just past the string literal starting at i
func stringEnd(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(text)
}

// isKey reports whether the next non-space byte after end is a colon
func isKey(text string, end int) bool {
	rest := strings.TrimLeft(text[end:], " \t\r\n")
	return strings.HasPrefix(rest, ":")
}

// ErrorContext renders the lines around a 1-based line number with a gutter,
// marks the offending line, and points a caret at the column. Lines outside
// the text are clamped. contextLines is the number of lines shown on either
// side.
func (h *Highlighter) ErrorContext(text string, line, column, contextLines int) string {
	lines := strings.Split(text, "\n")
	line = lo.Clamp(line, 1, len(lines))
	if column < 1 {
		column = 1
	}
	first := lo.Max([]int{1, line - contextLines})
	last := lo.Min([]int{len(lines), line + contextLines})
	width := len(strconv.Itoa(last))

	var sb strings.Builder
	for n := first; n <= last; n++ {
		content := strings.TrimRight(lines[n-1], "\r")
		num := fmt.Sprintf("%*d | ", width, n)
		if n != line {
			sb.WriteString(h.gutter.Sprint(num))
			sb.WriteString(content)
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(h.errLine.Sprint(num))
		sb.WriteString(h.errLine.Sprint(content))
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", width+3))
		sb.WriteString(caretPad(content, column))
		sb.WriteString(h.caret.Sprint("^"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// caretPad returns the run of blanks that puts a caret under the given
// 1-based rune column. Tabs are kept as tabs so the caret lines up.
func caretPad(content string, column int) string {
	runes := []rune(content)
	n := min(column-1, len(runes))
	var sb strings.Builder
	for _, r := range runes[:n] {
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
