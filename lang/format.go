package lang

import (
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Format writes s to w as canonical script source: one top-level block per
// line, embed components one per line indented with tabs. Parsing the
// output yields a script equal to s apart from positions.
//
// Values the grammar cannot express, such as a string literal containing a
// quote or backslash, yield [ErrUnrepresentable] and nothing is written.
func (s *Script) Format(w io.Writer) error {
	f := &formatter{}

	for _, n := range s.Nodes {
		f.node(n)

		if f.err != nil {
			return f.err
		}
	}

	_, err := io.WriteString(w, f.buf.String())

	return err
}

// FormatEmbed writes e to w as an #embed block.
func FormatEmbed(w io.Writer, e *Embed) error {
	return (&Script{Nodes: []Node{e.Block()}}).Format(w)
}

type formatter struct {
	buf   strings.Builder
	depth int
	err   error
}

func (f *formatter) fail(what, value string) {
	if f.err == nil {
		f.err = ErrUnrepresentable.With(
			slog.String("component", what),
			slog.String("value", value),
		)
	}
}

func (f *formatter) line(parts ...string) {
	f.buf.WriteString(strings.Repeat("\t", f.depth))

	for _, p := range parts {
		f.buf.WriteString(p)
	}

	f.buf.WriteByte('\n')
}

// quote renders s as a string literal, which has no escape sequences.
func (f *formatter) quote(what, s string) string {
	if strings.ContainsAny(s, `"\`) {
		f.fail(what, s)
	}

	return `"` + s + `"`
}

func (f *formatter) open(tag string) {
	f.line("#", tag, " {")
	f.depth++
}

func (f *formatter) close() {
	f.depth--
	f.line("}")
}

func (f *formatter) leaf(tag, value string) {
	f.line("#", tag, ": ", value, ",")
}

func (f *formatter) str(tag, value string) {
	f.leaf(tag, f.quote(tag, value))
}

func (f *formatter) node(n Node) {
	switch n := n.(type) {
	case *TextBlock:
		f.line("#", tagText, " {", escapeText(n.Text), "}")

	case *MathBlock:
		if !finite(n.Expr) {
			f.fail(tagMath, n.Expr.String())
		}

		f.line("#", tagMath, " {", n.Expr.String(), "}")

	case *RandomBlock:
		opts := make([]string, len(n.Options))
		for i, o := range n.Options {
			opts[i] = f.quote(tagRandom, o)
		}

		f.line("#", tagRandom, " {", strings.Join(opts, ", "), "}")

	case *EmbedBlock:
		f.open(tagEmbed)

		for _, c := range n.Components {
			f.embedComponent(c)
		}

		f.close()
	}
}

func (f *formatter) embedComponent(c EmbedComponent) {
	switch c := c.(type) {
	case *Title:
		f.str(tagTitle, c.Value)
	case *Description:
		f.str(tagDescription, c.Value)
	case *URL:
		f.str(tagURL, c.Value)
	case *Image:
		f.str(tagImage, c.Value)
	case *Thumbnail:
		f.str(tagThumbnail, c.Value)

	case *Colour:
		if c.Value < 0 {
			f.fail(tagColour, strconv.Itoa(int(c.Value)))
		}

		f.leaf(tagColour, "#"+hex6(c.Value))

	case *Timestamp:
		if c.Value < 0 {
			f.fail(tagTimestamp, strconv.FormatInt(c.Value, 10))
		}

		f.leaf(tagTimestamp, strconv.FormatInt(c.Value, 10))

	case *AuthorBlock:
		f.open(tagAuthor)

		for _, a := range c.Components {
			switch a := a.(type) {
			case *AuthorName:
				f.str(tagName, a.Value)
			case *AuthorURL:
				f.str(tagURL, a.Value)
			case *AuthorIconURL:
				f.str(tagIconURL, a.Value)
			}
		}

		f.close()

	case *FooterBlock:
		f.open(tagFooter)

		for _, a := range c.Components {
			switch a := a.(type) {
			case *FooterText:
				f.str(tagText, a.Value)
			case *FooterIconURL:
				f.str(tagIconURL, a.Value)
			}
		}

		f.close()

	case *FieldsBlock:
		f.open(tagFields)

		for _, fb := range c.Fields {
			f.open(tagField)

			for _, a := range fb.Components {
				switch a := a.(type) {
				case *FieldName:
					f.str(tagName, a.Value)
				case *FieldValue:
					f.str(tagValue, a.Value)
				case *FieldInline:
					f.leaf(tagInline, strconv.FormatBool(a.Value))
				}
			}

			f.close()
		}

		f.close()
	}
}

// escapeText escapes the characters a #text body cannot hold verbatim.
func escapeText(s string) string {
	return strings.NewReplacer(`\`, `\\`, `}`, `\u007d`).Replace(s)
}

// finite reports whether every literal in e is a non-negative integer
// that fits a float64. Literals too large parse as infinity and cannot be
// written back.
func finite(e MathExpr) bool {
	switch e := e.(type) {
	case *Num:
		return !math.IsInf(e.Value, 0) && e.Value >= 0 && e.Value == math.Trunc(e.Value)
	case *Neg:
		return finite(e.X)
	case *Binary:
		return finite(e.Left) && finite(e.Right)
	default:
		return false
	}
}

// hex6 formats v in lowercase hex, zero-padded to at least six digits.
func hex6(v int32) string {
	s := strconv.FormatInt(int64(v), 16)
	if n := len(s); n < 6 {
		s = strings.Repeat("0", 6-n) + s
	}

	return s
}
