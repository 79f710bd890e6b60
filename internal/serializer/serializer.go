package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/jsonfmt/internal/errors"
	"github.com/mcncl/jsonfmt/internal/models"
)

// Serializer writes JSON values back out as text
type Serializer struct {
	maxDepth int
}

// NewSerializer creates a new Serializer instance with the default depth limit
func NewSerializer() *Serializer {
	return &Serializer{maxDepth: models.DefaultMaxDepth}
}

// NewSerializerWithDepth creates a Serializer that refuses values nested more
// than maxDepth levels deep. maxDepth <= 0 means the default.
func NewSerializerWithDepth(maxDepth int) *Serializer {
	if maxDepth <= 0 {
		maxDepth = models.DefaultMaxDepth
	}
	return &Serializer{maxDepth: maxDepth}
}

// Pretty renders v with one member or element per line, indenting each
// nesting level by indent. Empty arrays and objects render as [] and {}.
func (s *Serializer) Pretty(v models.Value, indent models.Indent) (string, error) {
	return s.serialize(v, indent.Unit())
}

// Compact renders v with no insignificant whitespace
func (s *Serializer) Compact(v models.Value) (string, error) {
	return s.serialize(v, "")
}

func (s *Serializer) serialize(v models.Value, indent string) (string, error) {
	w := &writer{indent: indent, maxDepth: s.maxDepth}
	if err := w.value(v, 0); err != nil {
		err.Path = "$" + err.Path
		return "", err
	}
	return w.buf.String(), nil
}

// Pretty renders v with the default Serializer
func Pretty(v models.Value, indent models.Indent) (string, error) {
	return NewSerializer().Pretty(v, indent)
}

// Compact renders v with the default Serializer
func Compact(v models.Value) (string, error) {
	return NewSerializer().Compact(v)
}

type writer struct {
	buf      bytes.Buffer
	indent   string
	maxDepth int
}

// value writes v. Errors carry the path below v; callers prepend their own
// segment as the error unwinds.
func (w *writer) value(v models.Value, depth int) *errors.SerializeError {
	switch v.Kind {
	case models.KindNull:
		w.buf.WriteString("null")
	case models.KindBool:
		w.buf.WriteString(strconv.FormatBool(v.Bool))
	case models.KindNumber:
		if !validNumber(v.Number) {
			return &errors.SerializeError{Msg: fmt.Sprintf("unsupported value: %q is not a JSON number", string(v.Number))}
		}
		w.buf.WriteString(string(v.Number))
	case models.KindString:
		w.buf.WriteString(quote(v.Str))
	case models.KindArray:
		if depth+1 > w.maxDepth {
			return &errors.SerializeError{Msg: fmt.Sprintf("exceeded max depth of %d", w.maxDepth)}
		}
		return w.array(v.Items, depth+1)
	case models.KindObject:
		if depth+1 > w.maxDepth {
			return &errors.SerializeError{Msg: fmt.Sprintf("exceeded max depth of %d", w.maxDepth)}
		}
		return w.object(v.Members, depth+1)
	default:
		return &errors.SerializeError{Msg: fmt.Sprintf("unsupported value kind %d", int(v.Kind))}
	}
	return nil
}

func (w *writer) array(items []models.Value, depth int) *errors.SerializeError {
	if len(items) == 0 {
		w.buf.WriteString("[]")
		return nil
	}
	w.buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline(depth)
		if err := w.value(item, depth); err != nil {
			err.Path = "[" + strconv.Itoa(i) + "]" + err.Path
			return err
		}
	}
	w.newline(depth - 1)
	w.buf.WriteByte(']')
	return nil
}

func (w *writer) object(members []models.Member, depth int) *errors.SerializeError {
	if len(members) == 0 {
		w.buf.WriteString("{}")
		return nil
	}
	w.buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline(depth)
		w.buf.WriteString(quote(m.Key))
		w.buf.WriteByte(':')
		if w.indent != "" {
			w.buf.WriteByte(' ')
		}
		if err := w.value(m.Value, depth); err != nil {
			err.Path = keySegment(m.Key) + err.Path
			return err
		}
	}
	w.newline(depth - 1)
	w.buf.WriteByte('}')
	return nil
}

// newline starts a new line at the given depth. No-op in compact mode.
func (w *writer) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.buf.WriteString(w.indent)
	}
}

// quote encodes s as a JSON string without HTML escaping. U+2028 and U+2029
// are written as themselves rather than as \u escapes.
func quote(s string) string {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail
	_ = enc.Encode(s)
	out := strings.TrimSuffix(sb.String(), "\n")
	if !strings.ContainsAny(s, "\u2028\u2029") {
		return out
	}
	return unescapeSeparators(out)
}

// unescapeSeparators turns the encoder's \u2028 and \u2029 escapes back
// into the raw characters. An escaped backslash followed by "u2028" is
// left alone.
func unescapeSeparators(quoted string) string {
	var sb strings.Builder
	sb.Grow(len(quoted))
	for i := 0; i < len(quoted); i++ {
		if quoted[i] != '\\' || i+1 >= len(quoted) {
			sb.WriteByte(quoted[i])
			continue
		}
		switch rest := quoted[i+1:]; {
		case strings.HasPrefix(rest, "u2028"):
			sb.WriteRune('\u2028')
			i += len("u2028")
		case strings.HasPrefix(rest, "u2029"):
			sb.WriteRune('\u2029')
			i += len("u2029")
		default:
			sb.WriteString(quoted[i : i+2])
			i++
		}
	}
	return sb.String()
}

// validNumber reports whether n is a complete JSON number literal. NaN,
// Infinity and the empty string are not.
func validNumber(n json.Number) bool {
	if n == "" {
		return false
	}
	first, last := n[0], n[len(n)-1]
	if first != '-' && (first < '0' || first > '9') {
		return false
	}
	if last < '0' || last > '9' {
		return false
	}
	return json.Valid([]byte(n))
}

func keySegment(key string) string {
	if isIdentifier(key) {
		return "." + key
	}
	return "[" + quote(key) + "]"
}

func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
