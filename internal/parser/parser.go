package parser

import (
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/jsonfmt/internal/errors" // Custom errors package
	"github.com/mcncl/jsonfmt/internal/models"
)

// DefaultMaxDepth bounds how deeply arrays and objects may nest.
const DefaultMaxDepth = models.DefaultMaxDepth

const unexpectedEnd = "unexpected end of JSON input"

// Parse parses text as a single JSON value using DefaultMaxDepth
func Parse(text string) models.Result[models.Value] {
	return ParseWithDepth(text, DefaultMaxDepth)
}

// ParseWithDepth parses text as a single JSON value. Containers nested more
// than maxDepth levels deep are rejected; maxDepth <= 0 means DefaultMaxDepth.
// All failures are returned as a *errors.ParseError inside the Result.
func ParseWithDepth(text string, maxDepth int) models.Result[models.Value] {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	// The syntax pass runs one scanner over the whole input, which gives
	// reliable offsets. Token-level decoding does not.
	if err := checkSyntax(text); err != nil {
		return models.Failure[models.Value](err)
	}
	// The decoder would replace bad bytes inside strings with U+FFFD
	if i := invalidUTF8(text); i >= 0 {
		return models.Failure[models.Value](newParseError(text, "invalid UTF-8 in string literal", i, errors.ErrInvalidUTF8))
	}

	b := &builder{
		dec:      json.NewDecoder(strings.NewReader(text)),
		text:     text,
		maxDepth: maxDepth,
	}
	b.dec.UseNumber() // Keep number literals as written

	tok, err := b.dec.Token()
	if err != nil {
		return models.Failure[models.Value](b.wrap(err))
	}
	v, err := b.value(tok, 0)
	if err != nil {
		return models.Failure[models.Value](err)
	}
	return models.Success(v)
}

// checkSyntax validates text and maps the decoder's syntax error onto the
// index of the offending character.
func checkSyntax(text string) error {
	var raw json.RawMessage
	err := json.Unmarshal([]byte(text), &raw)
	if err == nil {
		return nil
	}

	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		offset := int(syntaxError.Offset)
		// Offset counts the bad byte itself, except at end of input
		if syntaxError.Error() != unexpectedEnd && offset > 0 {
			offset--
		}
		return newParseError(text, syntaxError.Error(), offset, err)
	}
	return newParseError(text, err.Error(), 0, err)
}

type builder struct {
	dec      *json.Decoder
	text     string
	maxDepth int
}

func (b *builder) value(tok json.Token, depth int) (models.Value, error) {
	switch t := tok.(type) {
	case nil:
		return models.Null(), nil
	case bool:
		return models.Bool(t), nil
	case json.Number:
		return models.Number(t), nil
	case string:
		return models.String(t), nil
	case json.Delim:
		if depth+1 > b.maxDepth {
			// The opening delimiter has just been consumed
			offset := int(b.dec.InputOffset()) - 1
			return models.Value{}, newParseError(b.text,
				fmt.Sprintf("exceeded max depth of %d", b.maxDepth), offset, errors.ErrTooDeep)
		}
		switch t {
		case '[':
			return b.array(depth + 1)
		case '{':
			return b.object(depth + 1)
		}
	}
	return models.Value{}, newParseError(b.text,
		fmt.Sprintf("unexpected token %v", tok), int(b.dec.InputOffset()), nil)
}

func (b *builder) array(depth int) (models.Value, error) {
	items := []models.Value{}
	for b.dec.More() {
		tok, err := b.dec.Token()
		if err != nil {
			return models.Value{}, b.wrap(err)
		}
		item, err := b.value(tok, depth)
		if err != nil {
			return models.Value{}, err
		}
		items = append(items, item)
	}
	if _, err := b.dec.Token(); err != nil { // closing ]
		return models.Value{}, b.wrap(err)
	}
	return models.Array(items...), nil
}

// object reads members up to the closing brace. A repeated key keeps the
// position of its first occurrence and takes the last value.
func (b *builder) object(depth int) (models.Value, error) {
	members := []models.Member{}
	index := map[string]int{}
	for b.dec.More() {
		keyTok, err := b.dec.Token()
		if err != nil {
			return models.Value{}, b.wrap(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return models.Value{}, newParseError(b.text,
				fmt.Sprintf("unexpected object key %v", keyTok), int(b.dec.InputOffset()), nil)
		}
		tok, err := b.dec.Token()
		if err != nil {
			return models.Value{}, b.wrap(err)
		}
		val, err := b.value(tok, depth)
		if err != nil {
			return models.Value{}, err
		}
		if i, seen := index[key]; seen {
			members[i].Value = val
			continue
		}
		index[key] = len(members)
		members = append(members, models.Member{Key: key, Value: val})
	}
	if _, err := b.dec.Token(); err != nil { // closing }
		return models.Value{}, b.wrap(err)
	}
	return models.Object(members...), nil
}

// wrap converts a token-level decoder error into a ParseError
func (b *builder) wrap(err error) error {
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return newParseError(b.text, unexpectedEnd, len(b.text), err)
	}
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return newParseError(b.text, syntaxError.Error(), int(syntaxError.Offset), err)
	}
	return newParseError(b.text, err.Error(), int(b.dec.InputOffset()), err)
}

// invalidUTF8 returns the byte offset of the first invalid UTF-8 sequence in
// text, or -1
func invalidUTF8(text string) int {
	if utf8.ValidString(text) {
		return -1
	}
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size == 1 {
				return i
			}
		}
	}
	return -1
}

func newParseError(text, msg string, offset int, cause error) *errors.ParseError {
	offset = clamp(offset, len(text))
	line, column := Location(text, offset)
	return &errors.ParseError{
		Msg:      msg,
		Position: utf8.RuneCountInString(text[:offset]),
		Offset:   offset,
		Line:     line,
		Column:   column,
		Err:      cause,
	}
}

// Location returns the 1-based line and column of a byte offset in text.
// Columns count runes, not bytes.
func Location(text string, offset int) (line, column int) {
	offset = clamp(offset, len(text))
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	column = utf8.RuneCountInString(before[lineStart:]) + 1
	return line, column
}

// LineFromOffset maps a character index into text, as reported by
// ExtractPosition, to a 1-based line number by counting the newlines before
// it. Indexes outside text are clamped.
func LineFromOffset(text string, offset int) int {
	line, _ := Location(text, ByteOffset(text, offset))
	return line
}

// ByteOffset converts a character (rune) index into text to a byte offset.
// Indexes outside text are clamped.
func ByteOffset(text string, position int) int {
	if position <= 0 {
		return 0
	}
	n := 0
	for i := range text {
		if n == position {
			return i
		}
		n++
	}
	return len(text)
}

func clamp(offset, limit int) int {
	if offset < 0 {
		return 0
	}
	if offset > limit {
		return limit
	}
	return offset
}
