package lang

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", NewError("bad"), "bad"},
		{"wrapped", NewError("bad").Wrap(cause), "bad: disk on fire"},
		{"cause only", WrapError(cause), "disk on fire"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("cause")
	derived := ErrReadInput.Wrap(cause).With(slog.String("source", "stdin"))

	assert.ErrorIs(t, derived, ErrReadInput)
	assert.ErrorIs(t, derived, cause)
	assert.NotErrorIs(t, derived, ErrParse)
	assert.NotErrorIs(t, &Error{}, &Error{})

	// With never mutates the receiver.
	_ = ErrSchema.With(slog.Int("n", 1))
	assert.Empty(t, ErrSchema.attrs)

	// WrapError keeps an existing *Error.
	assert.Same(t, derived, WrapError(derived))
}

func TestError_LogValue(t *testing.T) {
	v := ErrEncoding.Wrap(errors.New("x")).With(slog.String("encoding", "xml")).LogValue()

	attrs := v.Group()
	keys := make([]string, len(attrs))

	for i, a := range attrs {
		keys[i] = a.Key
	}

	assert.Equal(t, []string{"error", "cause", "encoding"}, keys)
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{
		Pos:        Position{Offset: 9, Line: 2, Column: 3},
		Reason:     "unknown tag #titel in #embed block",
		Found:      `"#titel"`,
		Expected:   []string{"#url", "#title", "#url"},
		Source:     "#embed {\n  #titel: \"x\",\n}",
		Suggestion: "#title",
	}

	want := "parse error at line 2, column 3: unknown tag #titel in #embed block (found \"#titel\")\n" +
		"  2 |   #titel: \"x\",\n" +
		"        ^\n" +
		"\texpected: \"#title\", \"#url\"\n" +
		"\tdid you mean \"#title\"?"

	assert.Equal(t, want, err.Error())
	assert.ErrorIs(t, err, ErrParse)
	assert.NotErrorIs(t, err, ErrBuild)
}

func TestParseError_Snippet(t *testing.T) {
	tests := []struct {
		name string
		err  ParseError
		want string
	}{
		{"no source", ParseError{Pos: Position{Line: 1, Column: 1}}, ""},
		{"line out of range", ParseError{Pos: Position{Line: 3, Column: 1}, Source: "a"}, ""},
		{
			"crlf",
			ParseError{Pos: Position{Line: 1, Column: 2}, Source: "ab\r\ncd"},
			"  1 | ab\n       ^\n",
		},
		{
			"two digit line",
			ParseError{Pos: Position{Line: 10, Column: 1}, Source: "\n\n\n\n\n\n\n\n\nz"},
			"  10 | z\n       ^\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Snippet())
		})
	}
}

func TestBuildError(t *testing.T) {
	err := &BuildError{
		Field:  "author.name",
		Reason: "Your author name is too long.",
		Pos:    Position{Line: 1, Column: 5},
	}

	assert.Equal(t, "Your author name is too long.", err.Error())
	assert.ErrorIs(t, err, ErrBuild)
	assert.NotErrorIs(t, err, ErrParse)

	attrs := err.LogValue().Group()
	assert.Len(t, attrs, 3)
	assert.Equal(t, "author.name", attrs[1].Value.String())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Pos: Position{Line: 4, Column: 2}, Message: "invalid unicode character"}
	assert.Equal(t, d.Pos.String()+": invalid unicode character", d.String())
}
