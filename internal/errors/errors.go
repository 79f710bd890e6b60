package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrTooDeep         = errors.New("maximum nesting depth exceeded")
	ErrFileNotFound    = errors.New("file not found")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i, an --example, or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrNotFormatted    = errors.New("input is not formatted")
	ErrUnknownExample  = errors.New("unknown example")
	ErrInvalidIndent   = errors.New("indent must be a positive number of spaces or \"tab\"")
	ErrInvalidUTF8     = errors.New("invalid UTF-8")
)

// ParseError reports input text that is not valid JSON. Position is the
// character (rune) index of the failure and is what Error reports. Offset
// is the same place as a byte index into the input. Line and Column are
// 1-based, with Column counted in characters.
type ParseError struct {
	Msg      string
	Position int
	Offset   int
	Line     int
	Column   int
	Err      error
}

// Error renders the decoder diagnostic followed by its location
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d (line %d column %d)", e.Msg, e.Position, e.Line, e.Column)
}

// Unwrap returns the underlying decoder error, if any
func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidJSON
}

// SerializeError reports a value that could not be written back out as JSON.
// Path locates the offending value, e.g. "$.items[3].price".
type SerializeError struct {
	Msg  string
	Path string
}

// Error implements error interface
func (e *SerializeError) Error() string {
	if e.Path == "" {
		return "json: " + e.Msg
	}
	return fmt.Sprintf("json: %s at %s", e.Msg, e.Path)
}

// AsParseError extracts a *ParseError from err's chain
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsSerializeError extracts a *SerializeError from err's chain
func AsSerializeError(err error) (*SerializeError, bool) {
	var se *SerializeError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeSerialize ErrorType = "serialize"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeCheck     ErrorType = "check"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewSerializeError creates a new error related to writing JSON back out
func NewSerializeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSerialize,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewCheckError creates a new error for input that is not already formatted
func NewCheckError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCheck,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			if pe, ok := AsParseError(appErr.Err); ok {
				return fmt.Sprintf("JSON parsing error: %s", pe.Error())
			}
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeSerialize:
			if se, ok := AsSerializeError(appErr.Err); ok {
				return fmt.Sprintf("JSON output error: %s", se.Error())
			}
			return fmt.Sprintf("JSON output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeCheck:
			return fmt.Sprintf("Check failed: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	if pe, ok := AsParseError(err); ok {
		return fmt.Sprintf("JSON parsing error: %s", pe.Error())
	}

	// Handle standard errors
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i, an --example, or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
