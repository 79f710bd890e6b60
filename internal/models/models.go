package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds how deeply arrays and objects may nest when parsing
// or serializing.
const DefaultMaxDepth = 1000

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON type name for the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value. Only the payload field matching Kind is meaningful.
// Object members keep the order they were written in.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  json.Number
	Str     string
	Items   []Value
	Members []Member
}

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value Value
}

// Null returns the JSON null value
func Null() Value { return Value{Kind: KindNull} }

// Bool wraps a boolean
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number wraps a number literal. The literal is not validated here.
func Number(n json.Number) Value { return Value{Kind: KindNumber, Number: n} }

// String wraps a string
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Array builds an array from its elements
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindArray, Items: items}
}

// Object builds an object from its members, in the given order
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{Kind: KindObject, Members: members}
}

// Keys returns the object's keys in member order. Nil for non-objects.
func (v Value) Keys() []string {
	if v.Kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.Members))
	for i, m := range v.Members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the last member value with the given key
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for i := len(v.Members) - 1; i >= 0; i-- {
		if v.Members[i].Key == key {
			return v.Members[i].Value, true
		}
	}
	return Value{}, false
}

// Equal reports structural equality. Object members must match in order.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindNumber:
		return v.Number == other.Number
	case KindString:
		return v.Str == other.Str
	case KindArray:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Members) != len(other.Members) {
			return false
		}
		for i := range v.Members {
			if v.Members[i].Key != other.Members[i].Key || !v.Members[i].Value.Equal(other.Members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// EquivalentUnordered reports structural equality ignoring object key order.
// Objects are compared as multisets of members.
func (v Value) EquivalentUnordered(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindArray:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].EquivalentUnordered(other.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Members) != len(other.Members) {
			return false
		}
		used := make([]bool, len(other.Members))
	outer:
		for _, m := range v.Members {
			for j, o := range other.Members {
				if used[j] || o.Key != m.Key {
					continue
				}
				if m.Value.EquivalentUnordered(o.Value) {
					used[j] = true
					continue outer
				}
			}
			return false
		}
		return true
	default:
		return v.Equal(other)
	}
}

// Indent is the indentation unit used for pretty printing: a number of
// spaces or a single tab.
type Indent struct {
	spaces int
	tab    bool
}

const (
	// DefaultIndentSpaces is used when no indent is given
	DefaultIndentSpaces = 4
	// MaxIndentSpaces caps the space count
	MaxIndentSpaces = 10
)

// Spaces returns an indent of n spaces. Values below 1 fall back to the
// default, values above MaxIndentSpaces are capped.
func Spaces(n int) Indent {
	if n < 1 {
		n = DefaultIndentSpaces
	}
	if n > MaxIndentSpaces {
		n = MaxIndentSpaces
	}
	return Indent{spaces: n}
}

// Tab returns a single tab indent
func Tab() Indent { return Indent{tab: true} }

// DefaultIndent is four spaces
func DefaultIndent() Indent { return Spaces(DefaultIndentSpaces) }

// IsTab reports whether the indent is a tab
func (i Indent) IsTab() bool { return i.tab }

// Unit returns the literal text inserted per nesting level
func (i Indent) Unit() string {
	if i.tab {
		return "\t"
	}
	if i.spaces == 0 {
		return strings.Repeat(" ", DefaultIndentSpaces)
	}
	return strings.Repeat(" ", i.spaces)
}

// String renders the indent the way it is written in config and flags
func (i Indent) String() string {
	if i.tab {
		return "tab"
	}
	return strconv.Itoa(len(i.Unit()))
}

// Options are the per-call formatting switches.
type Options struct {
	SortKeys bool
}

// ErrUnknownFailure stands in for a nil error handed to Failure
var ErrUnknownFailure = errors.New("unknown failure")

// Result is the outcome of an engine operation: either a payload or an error,
// never both.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps a payload
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure wraps an error. A nil error is replaced with ErrUnknownFailure so
// the result still reports as failed.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = ErrUnknownFailure
	}
	return Result[T]{err: err}
}

// OK reports whether the result is a success
func (r Result[T]) OK() bool { return r.err == nil }

// Value returns the payload, or the zero value on failure
func (r Result[T]) Value() T { return r.value }

// Err returns the failure error, or nil on success
func (r Result[T]) Err() error { return r.err }

// Message returns the failure message, or "" on success
func (r Result[T]) Message() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}

// Unpack returns the payload and error in the usual Go shape
func (r Result[T]) Unpack() (T, error) { return r.value, r.err }
