// Package formatter is the JSON text engine: it validates JSON text,
// pretty-prints or minifies it, and optionally sorts object keys.
//
// Every operation is a pure function of its inputs. Failures come back as a
// failed Result carrying either an *errors.ParseError (the text is not JSON)
// or an *errors.SerializeError (the value could not be written back out).
package formatter

import (
	"github.com/mcncl/jsonfmt/internal/models"
	"github.com/mcncl/jsonfmt/internal/parser"
	"github.com/mcncl/jsonfmt/internal/serializer"
	"github.com/mcncl/jsonfmt/internal/sorter"
)

// Formatter runs parse, sort and serialize with a shared depth limit. The
// zero value is not usable; create one with NewFormatter.
type Formatter struct {
	maxDepth   int
	serializer *serializer.Serializer
}

// NewFormatter creates a new Formatter instance with the default depth limit
func NewFormatter() *Formatter {
	return NewFormatterWithDepth(models.DefaultMaxDepth)
}

// NewFormatterWithDepth creates a Formatter that rejects input nested more
// than maxDepth levels deep. maxDepth <= 0 means the default.
func NewFormatterWithDepth(maxDepth int) *Formatter {
	if maxDepth <= 0 {
		maxDepth = models.DefaultMaxDepth
	}
	return &Formatter{
		maxDepth:   maxDepth,
		serializer: serializer.NewSerializerWithDepth(maxDepth),
	}
}

// MaxDepth returns the nesting limit applied to input
func (f *Formatter) MaxDepth() int {
	return f.maxDepth
}

// Parse parses text as a single JSON value
func (f *Formatter) Parse(text string) models.Result[models.Value] {
	return parser.ParseWithDepth(text, f.maxDepth)
}

// Format parses text and pretty-prints it with the given indent. A parse
// failure is returned as-is; sorting and serialization are not attempted.
func (f *Formatter) Format(text string, indent models.Indent, opts models.Options) models.Result[string] {
	return f.render(text, opts, func(v models.Value) (string, error) {
		return f.serializer.Pretty(v, indent)
	})
}

// Minify parses text and writes it back with no insignificant whitespace
func (f *Formatter) Minify(text string, opts models.Options) models.Result[string] {
	return f.render(text, opts, f.serializer.Compact)
}

// Check formats text and reports whether it was already in that form. The
// formatted text is returned either way; a minify check compares against
// the compact form.
func (f *Formatter) Check(text string, indent models.Indent, opts models.Options, minify bool) (models.Result[string], bool) {
	var res models.Result[string]
	if minify {
		res = f.Minify(text, opts)
	} else {
		res = f.Format(text, indent, opts)
	}
	if !res.OK() {
		return res, false
	}
	return res, res.Value() == trimTrailingNewline(text)
}

func (f *Formatter) render(text string, opts models.Options, write func(models.Value) (string, error)) models.Result[string] {
	parsed := f.Parse(text)
	if !parsed.OK() {
		return models.Failure[string](parsed.Err())
	}

	value := parsed.Value()
	if opts.SortKeys {
		value = sorter.DeepSort(value)
	}

	out, err := write(value)
	if err != nil {
		return models.Failure[string](err)
	}
	return models.Success(out)
}

// trimTrailingNewline drops one final line ending, which editors add and
// formatted output does not carry.
func trimTrailingNewline(text string) string {
	if n := len(text); n > 0 && text[n-1] == '\n' {
		text = text[:n-1]
		if n := len(text); n > 0 && text[n-1] == '\r' {
			text = text[:n-1]
		}
	}
	return text
}

var defaultFormatter = NewFormatter()

// Parse parses text with the default Formatter
func Parse(text string) models.Result[models.Value] {
	return defaultFormatter.Parse(text)
}

// Format pretty-prints text with the default Formatter
func Format(text string, indent models.Indent, opts models.Options) models.Result[string] {
	return defaultFormatter.Format(text, indent, opts)
}

// Minify compacts text with the default Formatter
func Minify(text string, opts models.Options) models.Result[string] {
	return defaultFormatter.Minify(text, opts)
}
