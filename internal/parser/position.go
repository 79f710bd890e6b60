package parser

import (
	"regexp"
	"strconv"

	"github.com/mcncl/jsonfmt/internal/errors"
)

var (
	positionRegex = regexp.MustCompile(`(?i)position\s*(\d+)`)
	atRegex       = regexp.MustCompile(`at\s+(\d+)`)
)

// ExtractPosition pulls a character offset out of a parse failure message.
// It understands "position N" (any case) and falls back to "at N". The
// second return value is false when the message carries no offset.
func ExtractPosition(msg string) (int, bool) {
	for _, re := range []*regexp.Regexp{positionRegex, atRegex} {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Digits that overflow int are not a usable offset
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// ErrorPosition returns the character index of a parse failure. A
// *errors.ParseError anywhere in the chain is used directly; otherwise the
// message is scanned.
func ErrorPosition(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	if pe, ok := errors.AsParseError(err); ok {
		return pe.Position, true
	}
	return ExtractPosition(err.Error())
}
