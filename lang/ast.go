package lang

import "strconv"

// Position identifies a location in script source.
// Line and Column are 1-based; Column counts runes, not bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Script is the parsed form of a VeaScript document.
type Script struct {
	// Nodes are the top-level blocks in source order.
	Nodes []Node
	// Diagnostics are recoverable problems found while parsing, such as a
	// \u escape that does not name a Unicode scalar value.
	Diagnostics []Diagnostic
}

// Node is a top-level block: one of [*TextBlock], [*MathBlock],
// [*RandomBlock], or [*EmbedBlock].
type Node interface {
	Position() Position
	node()
}

// TextBlock is literal text with escape sequences already decoded.
type TextBlock struct {
	Text string
	Pos  Position
}

// MathBlock is an arithmetic expression evaluated to a number.
type MathBlock struct {
	Expr MathExpr
	Pos  Position
}

// RandomBlock is a list of options from which one is chosen at evaluation.
type RandomBlock struct {
	Options []string
	Pos     Position
}

// EmbedBlock is the ordered component list of one embed.
type EmbedBlock struct {
	Components []EmbedComponent
	Pos        Position
}

func (n *TextBlock) Position() Position   { return n.Pos }
func (n *MathBlock) Position() Position   { return n.Pos }
func (n *RandomBlock) Position() Position { return n.Pos }
func (n *EmbedBlock) Position() Position  { return n.Pos }

func (*TextBlock) node()   {}
func (*MathBlock) node()   {}
func (*RandomBlock) node() {}
func (*EmbedBlock) node()  {}

// EmbedComponent is one entry of an [EmbedBlock].
type EmbedComponent interface {
	Position() Position
	embedComponent()
}

type (
	// AuthorBlock is a nested #author block.
	AuthorBlock struct {
		Components []AuthorComponent
		Pos        Position
	}

	// Title is a #title leaf.
	Title struct {
		Value string
		Pos   Position
	}

	// Description is a #description leaf.
	Description struct {
		Value string
		Pos   Position
	}

	// Colour is a #colour leaf, given in hex or decimal.
	Colour struct {
		Value int32
		Pos   Position
	}

	// FieldsBlock is a nested #fields block holding one or more #field
	// blocks.
	FieldsBlock struct {
		Fields []*FieldBlock
		Pos    Position
	}

	// Image is an #image leaf.
	Image struct {
		Value string
		Pos   Position
	}

	// Thumbnail is a #thumbnail leaf.
	Thumbnail struct {
		Value string
		Pos   Position
	}

	// URL is a #url leaf.
	URL struct {
		Value string
		Pos   Position
	}

	// FooterBlock is a nested #footer block.
	FooterBlock struct {
		Components []FooterComponent
		Pos        Position
	}

	// Timestamp is a #timestamp leaf in Unix seconds.
	Timestamp struct {
		Value int64
		Pos   Position
	}
)

func (c *AuthorBlock) Position() Position { return c.Pos }
func (c *Title) Position() Position       { return c.Pos }
func (c *Description) Position() Position { return c.Pos }
func (c *Colour) Position() Position      { return c.Pos }
func (c *FieldsBlock) Position() Position { return c.Pos }
func (c *Image) Position() Position       { return c.Pos }
func (c *Thumbnail) Position() Position   { return c.Pos }
func (c *URL) Position() Position         { return c.Pos }
func (c *FooterBlock) Position() Position { return c.Pos }
func (c *Timestamp) Position() Position   { return c.Pos }

func (*AuthorBlock) embedComponent() {}
func (*Title) embedComponent()       {}
func (*Description) embedComponent() {}
func (*Colour) embedComponent()      {}
func (*FieldsBlock) embedComponent() {}
func (*Image) embedComponent()       {}
func (*Thumbnail) embedComponent()   {}
func (*URL) embedComponent()         {}
func (*FooterBlock) embedComponent() {}
func (*Timestamp) embedComponent()   {}

// AuthorComponent is one entry of an [AuthorBlock].
type AuthorComponent interface {
	Position() Position
	authorComponent()
}

type (
	AuthorName struct {
		Value string
		Pos   Position
	}

	AuthorURL struct {
		Value string
		Pos   Position
	}

	AuthorIconURL struct {
		Value string
		Pos   Position
	}
)

func (c *AuthorName) Position() Position    { return c.Pos }
func (c *AuthorURL) Position() Position     { return c.Pos }
func (c *AuthorIconURL) Position() Position { return c.Pos }

func (*AuthorName) authorComponent()    {}
func (*AuthorURL) authorComponent()     {}
func (*AuthorIconURL) authorComponent() {}

// FooterComponent is one entry of a [FooterBlock].
type FooterComponent interface {
	Position() Position
	footerComponent()
}

type (
	FooterText struct {
		Value string
		Pos   Position
	}

	FooterIconURL struct {
		Value string
		Pos   Position
	}
)

func (c *FooterText) Position() Position    { return c.Pos }
func (c *FooterIconURL) Position() Position { return c.Pos }

func (*FooterText) footerComponent()    {}
func (*FooterIconURL) footerComponent() {}

// FieldBlock is one #field block inside #fields.
type FieldBlock struct {
	Components []FieldComponent
	Pos        Position
}

// FieldComponent is one entry of a [FieldBlock].
type FieldComponent interface {
	Position() Position
	fieldComponent()
}

type (
	FieldName struct {
		Value string
		Pos   Position
	}

	FieldValue struct {
		Value string
		Pos   Position
	}

	FieldInline struct {
		Value bool
		Pos   Position
	}
)

func (c *FieldName) Position() Position   { return c.Pos }
func (c *FieldValue) Position() Position  { return c.Pos }
func (c *FieldInline) Position() Position { return c.Pos }

func (*FieldName) fieldComponent()   {}
func (*FieldValue) fieldComponent()  {}
func (*FieldInline) fieldComponent() {}

// Kind returns the tag name of a top-level node without its leading '#'.
func Kind(n Node) string {
	switch n.(type) {
	case *TextBlock:
		return tagText
	case *MathBlock:
		return tagMath
	case *RandomBlock:
		return tagRandom
	case *EmbedBlock:
		return tagEmbed
	default:
		return "unknown"
	}
}
