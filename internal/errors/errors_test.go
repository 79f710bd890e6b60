package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "invalid JSON syntax",
				Err:     nil,
			},
			expected: "parsing: invalid JSON syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeInput,
		Message: "test message",
		Err:     wrappedErr,
	}

	result := appErr.Unwrap()
	assert.Equal(t, wrappedErr, result)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name: "same type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeInput,
				Message: "different message",
				Err:     errors.New("some error"),
			},
			expected: true,
		},
		{
			name: "different type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeParsing,
				Message: "test message",
				Err:     nil,
			},
			expected: false,
		},
		{
			name: "not an AppError",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Is(tt.target)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("invalid JSON syntax", nil),
			expected: "JSON parsing error: invalid JSON syntax",
		},
		{
			name:     "parsing error with location",
			err:      NewParsingError("input is not valid JSON", &ParseError{Msg: "unexpected end of JSON input", Position: 7, Offset: 7, Line: 1, Column: 8}),
			expected: "JSON parsing error: unexpected end of JSON input at position 7 (line 1 column 8)",
		},
		{
			name:     "serialize error",
			err:      NewSerializeError("failed to write JSON", nil),
			expected: "JSON output error: failed to write JSON",
		},
		{
			name:     "serialize error with path",
			err:      NewSerializeError("failed to write JSON", &SerializeError{Msg: "unsupported value: NaN", Path: "$.price"}),
			expected: "JSON output error: json: unsupported value: NaN at $.price",
		},
		{
			name:     "config error",
			err:      NewConfigError("failed to load config", nil),
			expected: "Configuration error: failed to load config",
		},
		{
			name:     "check error",
			err:      NewCheckError("stdin is not formatted", ErrNotFormatted),
			expected: "Check failed: stdin is not formatted",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "empty input reported by the parser",
			err:      NewParsingError("input is not valid JSON", &ParseError{Msg: "unexpected end of JSON input", Line: 1, Column: 1}),
			expected: "JSON parsing error: unexpected end of JSON input at position 0 (line 1 column 1)",
		},
		{
			name:     "standard error - invalid JSON",
			err:      ErrInvalidJSON,
			expected: "Error: The input contains invalid JSON. Please check your JSON syntax.",
		},
		{
			name:     "bare parse error",
			err:      &ParseError{Msg: "invalid character '}' looking for beginning of object key string", Position: 7, Offset: 7, Line: 1, Column: 8},
			expected: "JSON parsing error: invalid character '}' looking for beginning of object key string at position 7 (line 1 column 8)",
		},
		{
			name:     "standard error - no input",
			err:      ErrNoInput,
			expected: "Error: No input provided. Please specify a file with -i, an --example, or pipe JSON data to stdin.",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("decoder failure")
	pe := &ParseError{Msg: "unexpected end of JSON input", Position: 12, Offset: 12, Line: 2, Column: 4, Err: cause}

	assert.Equal(t, "unexpected end of JSON input at position 12 (line 2 column 4)", pe.Error())

	// The message reports the character index, not the byte offset
	wide := &ParseError{Msg: "bad", Position: 10, Offset: 13, Line: 1, Column: 11}
	assert.Equal(t, "bad at position 10 (line 1 column 11)", wide.Error())
	assert.ErrorIs(t, pe, cause)

	bare := &ParseError{Msg: "bad", Offset: 0, Line: 1, Column: 1}
	assert.ErrorIs(t, bare, ErrInvalidJSON)

	wrapped := NewParsingError("input is not valid JSON", pe)
	got, ok := AsParseError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 12, got.Offset)

	_, ok = AsParseError(errors.New("plain"))
	assert.False(t, ok)
}

func TestSerializeError(t *testing.T) {
	tests := []struct {
		name     string
		err      *SerializeError
		expected string
	}{
		{
			name:     "with path",
			err:      &SerializeError{Msg: "unsupported value: +Inf", Path: "$[2]"},
			expected: "json: unsupported value: +Inf at $[2]",
		},
		{
			name:     "without path",
			err:      &SerializeError{Msg: "unsupported value: NaN"},
			expected: "json: unsupported value: NaN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			got, ok := AsSerializeError(NewSerializeError("failed", tt.err))
			assert.True(t, ok)
			assert.Same(t, tt.err, got)
		})
	}
}
