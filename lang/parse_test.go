package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ignorePos compares AST values without their source positions.
var ignorePos = cmpopts.IgnoreTypes(Position{})

func mustParse(t *testing.T, src string, opts ...Option) *Script {
	t.Helper()

	s, err := Parse(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}

	return s
}

func TestParse_TopLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Node
	}{
		{
			name:  "empty input",
			input: "",
			want:  []Node{},
		},
		{
			name:  "whitespace only",
			input: " \t\r\n ",
			want:  []Node{},
		},
		{
			name:  "text and math",
			input: "#text {Result: }#math {2+3*4}",
			want: []Node{
				&TextBlock{Text: "Result: "},
				&MathBlock{Expr: &Binary{
					Op:   OpAdd,
					Left: &Num{Value: 2},
					Right: &Binary{
						Op:    OpMul,
						Left:  &Num{Value: 3},
						Right: &Num{Value: 4},
					},
				}},
			},
		},
		{
			name:  "random",
			input: `#random { "a", "b" ,"c" }`,
			want:  []Node{&RandomBlock{Options: []string{"a", "b", "c"}}},
		},
		{
			name:  "empty random",
			input: `#random {}`,
			want:  []Node{&RandomBlock{Options: []string{}}},
		},
		{
			name:  "lenient spacing",
			input: "#text\n{x}  #math{ 1 }\n#random\t{\"a\"}",
			want: []Node{
				&TextBlock{Text: "x"},
				&MathBlock{Expr: &Num{Value: 1}},
				&RandomBlock{Options: []string{"a"}},
			},
		},
		{
			name:  "text body is verbatim",
			input: "#text {  two\n  lines  }",
			want:  []Node{&TextBlock{Text: "  two\n  lines  "}},
		},
		{
			name:  "string literal keeps spaces and hash",
			input: `#random {" #not a tag "}`,
			want:  []Node{&RandomBlock{Options: []string{" #not a tag "}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustParse(t, tt.input)

			if diff := cmp.Diff(tt.want, s.Nodes, ignorePos); diff != "" {
				t.Errorf("nodes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_TextEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		diags int
	}{
		{"backslash", `\\`, `\`, 0},
		{"slash", `\/`, `/`, 0},
		{"quote", `\"`, `"`, 0},
		{"controls", `\b\f\n\r\t`, "\b\f\n\r\t", 0},
		{"unicode", `\u00e9t\u00E9`, "été", 0},
		{"closing brace", `a\u007db`, "a}b", 0},
		{"surrogate", `x\uD800y`, "x\uFFFDy", 1},
		{"quote is literal", `say "hi"`, `say "hi"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustParse(t, "#text {"+tt.input+"}")

			require.Len(t, s.Nodes, 1)

			text, ok := s.Nodes[0].(*TextBlock)
			require.True(t, ok, "node is %T", s.Nodes[0])

			assert.Equal(t, tt.want, text.Text)
			assert.Len(t, s.Diagnostics, tt.diags)
		})
	}
}

func TestParse_Diagnostic(t *testing.T) {
	s := mustParse(t, "#text {ok}\n#text {bad \\uDFFF}")

	require.Len(t, s.Diagnostics, 1)

	d := s.Diagnostics[0]
	assert.Equal(t, Position{Offset: 22, Line: 2, Column: 12}, d.Pos)
	assert.Contains(t, d.String(), "2:12: invalid unicode character")
}

func TestParse_Embed(t *testing.T) {
	src := `
#embed {
	#author { #name: "Vea", #url: "https://example.com", #icon_url: "https://example.com/i.png", }
	#title: "Hi",
	#description: "desc",
	#colour: #FF0000,
	#url: "https://example.com/x",
	#image: "https://example.com/a.png",
	#thumbnail: "https://example.com/t.png",
	#timestamp: 1700000000,
	#fields {
		#field { #name: "a", #value: "1", #inline: true, }
		#field { #value: "2", #name: "b", }
	}
	#footer { #text: "foot", #icon_url: "https://example.com/f.png", }
}`

	want := []Node{&EmbedBlock{Components: []EmbedComponent{
		&AuthorBlock{Components: []AuthorComponent{
			&AuthorName{Value: "Vea"},
			&AuthorURL{Value: "https://example.com"},
			&AuthorIconURL{Value: "https://example.com/i.png"},
		}},
		&Title{Value: "Hi"},
		&Description{Value: "desc"},
		&Colour{Value: 0xFF0000},
		&URL{Value: "https://example.com/x"},
		&Image{Value: "https://example.com/a.png"},
		&Thumbnail{Value: "https://example.com/t.png"},
		&Timestamp{Value: 1700000000},
		&FieldsBlock{Fields: []*FieldBlock{
			{Components: []FieldComponent{
				&FieldName{Value: "a"},
				&FieldValue{Value: "1"},
				&FieldInline{Value: true},
			}},
			{Components: []FieldComponent{
				&FieldValue{Value: "2"},
				&FieldName{Value: "b"},
			}},
		}},
		&FooterBlock{Components: []FooterComponent{
			&FooterText{Value: "foot"},
			&FooterIconURL{Value: "https://example.com/f.png"},
		}},
	}}}

	s := mustParse(t, src)

	if diff := cmp.Diff(want, s.Nodes, ignorePos); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Colour(t *testing.T) {
	tests := []struct {
		input string
		want  int32
	}{
		{"#FF0000", 0xFF0000},
		{"#ff0000", 0xFF0000},
		{"0xFFFFFF", 0xFFFFFF},
		{"#0", 0},
		{"0x1000000", 0x1000000},
		{"#7FFFFFFF", 0x7FFFFFFF},
		{"16711680", 16711680},
		{"0", 0},
		{"007", 7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := mustParse(t, "#embed { #colour: "+tt.input+", }")

			e := s.Nodes[0].(*EmbedBlock)
			c := e.Components[0].(*Colour)

			assert.Equal(t, tt.want, c.Value)
		})
	}
}

func TestParse_Positions(t *testing.T) {
	s := mustParse(t, "#text {a}\n  #embed {\n    #title: \"x\",\n  }")

	require.Len(t, s.Nodes, 2)
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, s.Nodes[0].Position())
	assert.Equal(t, Position{Offset: 12, Line: 2, Column: 3}, s.Nodes[1].Position())

	title := s.Nodes[1].(*EmbedBlock).Components[0]
	assert.Equal(t, Position{Offset: 25, Line: 3, Column: 5}, title.Position())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
		line   int
		column int
	}{
		{"missing tag", "hello", "expected tag", 1, 1},
		{"unknown top-level tag", "#textt {a}", "unknown tag #textt", 1, 1},
		{"leaf at top level", `#title: "x",`, "unknown tag #title", 1, 1},
		{"missing brace", "#text a}", "expected '{' after #text", 1, 7},
		{"unterminated text", "#text {abc", "unterminated #text block", 1, 1},
		{"invalid escape", `#text {\q}`, "invalid escape sequence", 1, 9},
		{"short unicode escape", `#text {\u12}`, `expected four hexadecimal digits after \u`, 1, 10},
		{"unterminated string", `#random {"abc`, "unterminated string literal", 1, 10},
		{"backslash in string", `#random {"a\b"}`, "backslash is not allowed in string literals", 1, 12},
		{"random trailing comma", `#random {"a",}`, "expected string literal", 1, 14},
		{"random missing comma", `#random {"a" "b"}`, "expected ',' or '}' in #random block", 1, 14},
		{"random bare word", `#random {a}`, "expected string literal", 1, 10},
		{"math missing operand", "#math {2 +}", "expected number or parenthesized expression", 1, 11},
		{"math unmatched paren", "#math {(1 + 2}", "unmatched parenthesis", 1, 14},
		{"math trailing input", "#math {1 2}", "unexpected input in #math block", 1, 10},
		{"math empty", "#math {}", "expected number or parenthesized expression", 1, 8},
		{"math decimal point", "#math {1.5}", "unexpected input in #math block", 1, 9},
		{"missing comma", `#embed { #title: "a" }`, "expected ',' after #title value", 1, 22},
		{"missing colon", `#embed { #title "a", }`, "expected ':' after #title", 1, 17},
		{"unterminated embed", `#embed { #title: "a",`, "unterminated #embed block", 1, 22},
		{"unknown embed tag", `#embed { #titel: "a", }`, "unknown tag #titel in #embed block", 1, 10},
		{"block used as leaf", `#embed { #author: "a", }`, "expected '{' after #author", 1, 17},
		{"leaf used as block", `#embed { #title { } }`, "expected ':' after #title", 1, 17},
		{"field outside fields", `#embed { #field { } }`, "unknown tag #field in #embed block", 1, 10},
		{"bad boolean", `#embed { #fields { #field { #inline: yes, } } }`, "expected boolean", 1, 38},
		{"bad hex", `#embed { #colour: 0xZZ, }`, "expected hexadecimal digits", 1, 21},
		{"hex too wide", `#embed { #colour: #123456789, }`, "integer out of range", 1, 19},
		{"hex above int32", `#embed { #colour: 0x80000000, }`, "integer out of range", 1, 19},
		{"decimal above int32", `#embed { #colour: 4294967296, }`, "integer out of range", 1, 19},
		{"timestamp above int64", `#embed { #timestamp: 99999999999999999999, }`, "integer out of range", 1, 22},
		{"negative timestamp", `#embed { #timestamp: -1, }`, "expected integer", 1, 22},
		{"second line", "#text {a}\n#math {1 +}", "expected number or parenthesized expression", 2, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), tt.input)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrParse)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)

			assert.Equal(t, tt.reason, pe.Reason)
			assert.Equal(t, tt.line, pe.Pos.Line, "line")
			assert.Equal(t, tt.column, pe.Pos.Column, "column")
		})
	}
}

func TestParse_Suggestion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`#embed { #titel: "a", }`, "#title"},
		{`#embed { #desc: "a", }`, "#description"},
		{`#embed { #colour: 1, #footer { #txt: "a", } }`, "#text"},
		{"#mathh {1}", "#math"},
		{`#embed { #zzzzzzzz: "a", }`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(context.Background(), tt.input)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.want, pe.Suggestion)

			if tt.want != "" {
				assert.Contains(t, pe.Error(), `did you mean "`+tt.want+`"?`)
			}
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	nested := `#embed { #fields { #field { #name: "a", #value: "b", } } }`

	t.Run("blocks within limit", func(t *testing.T) {
		mustParse(t, nested, WithMaxDepth(3))
	})

	t.Run("blocks beyond limit", func(t *testing.T) {
		_, err := Parse(context.Background(), nested, WithMaxDepth(2))

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "maximum nesting depth exceeded", pe.Reason)
	})

	t.Run("parentheses", func(t *testing.T) {
		src := "#math {" + strings.Repeat("(", 150) + "1" + strings.Repeat(")", 150) + "}"

		_, err := Parse(context.Background(), src)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "maximum nesting depth exceeded", pe.Reason)

		mustParse(t, src, WithMaxDepth(150))
	})

	t.Run("negations", func(t *testing.T) {
		src := "#math {" + strings.Repeat("-", 150) + "1}"

		_, err := Parse(context.Background(), src)
		require.ErrorIs(t, err, ErrParse)

		s := mustParse(t, src, WithMaxDepth(150))
		assert.InDelta(t, 1.0, s.Nodes[0].(*MathBlock).Expr.Eval(), 0)
	})
}

func TestParse_Idempotent(t *testing.T) {
	src := `#text {Hello, }#random {"world", "there"}
#embed { #title: "t", #fields { #field { #name: "n", #value: "v", } } }
#math {-(1 + 2) * 3}`

	a := mustParse(t, src)
	b := mustParse(t, src)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("parsing twice differs (-first +second):\n%s", diff)
	}
}

func TestTags(t *testing.T) {
	tags := Tags()

	for _, want := range []string{
		"#text", "#math", "#random", "#embed", "#title", "#colour",
		"#icon_url", "#fields", "#field", "#inline",
	} {
		assert.Contains(t, tags, want)
	}

	for i := 1; i < len(tags); i++ {
		if tags[i-1] >= tags[i] {
			t.Errorf("tags not sorted and unique at %d: %q >= %q", i, tags[i-1], tags[i])
		}
	}
}

func TestKind(t *testing.T) {
	s := mustParse(t, `#text {a}#math {1}#random {"x"}#embed {}`)

	var kinds []string
	for _, n := range s.Nodes {
		kinds = append(kinds, Kind(n))
	}

	assert.Equal(t, []string{"text", "math", "random", "embed"}, kinds)
}

func FuzzParse(f *testing.F) {
	f.Add("#text {Result: }#math {2+3*4}")
	f.Add(`#random {"a", "b"}`)
	f.Add(`#embed { #title: "Hi", #colour: #FF0000, }`)
	f.Add(`#embed { #fields { #field { #name: "a", #value: "b", #inline: false, } } }`)
	f.Add(`#text {\u00e9\n\\}`)
	f.Add("#math {-(1/0) - --2}")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		s, err := Parse(context.Background(), input)
		if err != nil {
			if !errors.Is(err, ErrParse) {
				t.Fatalf("parse error does not match ErrParse: %v", err)
			}

			return
		}

		var buf strings.Builder
		if err := s.Format(&buf); err != nil {
			if !errors.Is(err, ErrUnrepresentable) {
				t.Fatalf("format failed: %v", err)
			}

			return
		}

		again, err := Parse(context.Background(), buf.String())
		if err != nil {
			t.Fatalf("formatted output does not parse: %v\n%s", err, buf.String())
		}

		if diff := cmp.Diff(s.Nodes, again.Nodes, ignorePos); diff != "" {
			t.Errorf("format round trip differs (-want +got):\n%s", diff)
		}
	})
}
