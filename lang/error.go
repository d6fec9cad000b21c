package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse           = NewError("parse error")
	ErrBuild           = NewError("build error")
	ErrReadInput       = NewError("failed to read input")
	ErrUnrepresentable = NewError("value cannot be written as script")
	ErrSchema          = NewError("document does not match schema")
	ErrEncoding        = NewError("unknown output encoding")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same base message, so that
// values derived from a sentinel with [Error.Wrap] or [Error.With] still
// match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError reports malformed or unexpected input at a source position.
type ParseError struct {
	Pos        Position
	Reason     string   // What went wrong, e.g. "unterminated string literal"
	Expected   []string // Constructs that would have been accepted
	Found      string   // Description of what was found instead
	Source     string   // The original source input
	Suggestion string   // Closest known tag, if the input looked like a typo
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Pos.Column))
	buf.WriteString(": ")
	buf.WriteString(e.Reason)

	if e.Found != "" {
		buf.WriteString(" (found ")
		buf.WriteString(e.Found)
		buf.WriteString(")")
	}

	buf.WriteRune('\n')
	buf.WriteString(e.Snippet())

	if exp := e.expected(); len(exp) > 0 {
		buf.WriteString("\texpected: ")
		buf.WriteString(strings.Join(exp, ", "))
		buf.WriteRune('\n')
	}

	if e.Suggestion != "" {
		buf.WriteString("\tdid you mean ")
		buf.WriteString(strconv.Quote(e.Suggestion))
		buf.WriteString("?\n")
	}

	return strings.TrimRight(buf.String(), "\n")
}

// Unwrap makes every ParseError match [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Reason),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	}

	if len(e.Expected) > 0 {
		attrs = append(attrs, slog.Any("expected", e.expected()))
	}

	if e.Found != "" {
		attrs = append(attrs, slog.String("found", e.Found))
	}

	if e.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", e.Suggestion))
	}

	return slog.GroupValue(attrs...)
}

// Snippet returns the offending source line with a caret under the error
// column, or "" if the source is unavailable.
func (e *ParseError) Snippet() string {
	if e.Source == "" {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line <= 0 || e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	line := strings.TrimRight(lines[e.Pos.Line-1], "\r")
	num := strconv.Itoa(e.Pos.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5)
	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

func (e *ParseError) expected() []string {
	exp := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		exp = append(exp, strconv.Quote(s))
	}

	slices.Sort(exp)

	return slices.Compact(exp)
}

// BuildError reports a parsed embed that violates a semantic rule.
// Its message is a complete English sentence suitable for end users.
type BuildError struct {
	Field  string // Dotted name of the offending field, e.g. "author.name"
	Reason string
	Pos    Position
}

// Error implements the error interface.
func (e *BuildError) Error() string { return e.Reason }

// Unwrap makes every BuildError match [ErrBuild].
func (e *BuildError) Unwrap() error { return ErrBuild }

// LogValue implements slog.LogValuer.
func (e *BuildError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Reason),
		slog.String("field", e.Field),
		slog.String("at", e.Pos.String()),
	)
}

// Diagnostic is a recoverable problem noted during parsing.
type Diagnostic struct {
	Pos     Position
	Message string
}

// String returns the diagnostic prefixed with its position.
func (d Diagnostic) String() string {
	return d.Pos.String() + ": " + d.Message
}
