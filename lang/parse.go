package lang

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse parses VeaScript source into a [Script].
//
// Parsing stops at the first syntax error, which is returned as a
// *[ParseError]. Recoverable problems are collected in
// [Script.Diagnostics].
func Parse(ctx context.Context, src string, opts ...Option) (*Script, error) {
	return parse(ctx, src, makeOptions(opts...))
}

func parse(ctx context.Context, src string, o options) (*Script, error) {
	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_bytes", len(src)),
		slog.Int("max_depth", o.maxDepth),
	)

	p := newParser(src, o.maxDepth)

	script, err := p.parseScript()
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("node_count", len(script.Nodes)),
		slog.Int("diagnostic_count", len(script.Diagnostics)),
	)

	return script, nil
}

// Tag names, without the leading '#'.
const (
	tagText   = "text"
	tagMath   = "math"
	tagRandom = "random"
	tagEmbed  = "embed"

	tagTitle       = "title"
	tagDescription = "description"
	tagColour      = "colour"
	tagURL         = "url"
	tagImage       = "image"
	tagThumbnail   = "thumbnail"
	tagTimestamp   = "timestamp"
	tagAuthor      = "author"
	tagFooter      = "footer"
	tagFields      = "fields"
	tagField       = "field"

	tagName    = "name"
	tagValue   = "value"
	tagInline  = "inline"
	tagIconURL = "icon_url"
)

// scope is the set of tags accepted at one nesting level. Leaves are
// written "#tag: value," and blocks "#tag { ... }".
type scope struct {
	name   string
	leaves []string
	blocks []string
}

var (
	scriptScope = &scope{
		name:   "script",
		blocks: []string{tagText, tagMath, tagRandom, tagEmbed},
	}
	embedScope = &scope{
		name: tagEmbed,
		leaves: []string{
			tagTitle, tagDescription, tagColour, tagURL,
			tagImage, tagThumbnail, tagTimestamp,
		},
		blocks: []string{tagAuthor, tagFooter, tagFields},
	}
	authorScope = &scope{
		name:   tagAuthor,
		leaves: []string{tagName, tagURL, tagIconURL},
	}
	footerScope = &scope{
		name:   tagFooter,
		leaves: []string{tagText, tagIconURL},
	}
	fieldsScope = &scope{
		name:   tagFields,
		blocks: []string{tagField},
	}
	fieldScope = &scope{
		name:   tagField,
		leaves: []string{tagName, tagValue, tagInline},
	}
)

func (s *scope) isLeaf(tag string) bool { return slices.Contains(s.leaves, tag) }

func (s *scope) has(tag string) bool {
	return s.isLeaf(tag) || slices.Contains(s.blocks, tag)
}

func (s *scope) names() []string { return slices.Concat(s.leaves, s.blocks) }

// expected lists the accepted tags as they are written in source.
func (s *scope) expected() []string {
	exp := make([]string, 0, len(s.leaves)+len(s.blocks))
	for _, t := range s.leaves {
		exp = append(exp, "#"+t+":")
	}

	for _, t := range s.blocks {
		exp = append(exp, "#"+t+" {")
	}

	return exp
}

// Tags returns every tag name accepted anywhere in a script, prefixed with
// '#', sorted and without duplicates.
func Tags() []string {
	var all []string
	for _, s := range []*scope{
		scriptScope, embedScope, authorScope,
		footerScope, fieldsScope, fieldScope,
	} {
		for _, t := range s.names() {
			all = append(all, "#"+t)
		}
	}

	slices.Sort(all)

	return slices.Compact(all)
}

// parseScript parses the entire input as a sequence of top-level blocks.
func (p *parser) parseScript() (*Script, error) {
	script := &Script{Nodes: make([]Node, 0)}

	for {
		p.skipWhitespace()

		if p.eof() {
			break
		}

		pos := p.position()

		tag, err := p.parseTag(scriptScope)
		if err != nil {
			return nil, err
		}

		var node Node

		switch tag {
		case tagText:
			node, err = p.parseText(pos)
		case tagMath:
			node, err = p.parseMath(pos)
		case tagRandom:
			node, err = p.parseRandom(pos)
		case tagEmbed:
			node, err = p.parseEmbed(pos)
		}

		if err != nil {
			return nil, err
		}

		script.Nodes = append(script.Nodes, node)
	}

	script.Diagnostics = p.diags

	return script, nil
}

// parseTag parses "#name" and checks that name is accepted in sc.
func (p *parser) parseTag(sc *scope) (string, error) {
	pos := p.position()

	if !p.expect('#') {
		return "", p.errorf(pos, "expected tag", sc.expected()...)
	}

	name := p.digits(isTagChar)
	if !sc.has(name) {
		reason := "unknown tag #" + name
		if sc != scriptScope {
			reason += " in #" + sc.name + " block"
		}

		err := p.errorf(pos, reason, sc.expected()...)
		err.Found = strconv.Quote("#" + name)
		err.Suggestion = suggestTag(name, sc.names())

		return "", err
	}

	return name, nil
}

// open consumes the '{' that begins the body of block tag.
func (p *parser) open(tag string) error {
	p.skipWhitespace()

	if !p.expect('{') {
		return p.errorf(p.position(), "expected '{' after #"+tag, "{")
	}

	return nil
}

// parseBlock parses a brace-delimited list of components at scope sc.
// The block's own tag has already been consumed. For every component tag
// found, each is called to parse the rest of the component; leaf
// components have their ':' and terminating ',' handled here.
func (p *parser) parseBlock(
	sc *scope,
	each func(tag string, pos Position) error,
) error {
	if err := p.open(sc.name); err != nil {
		return err
	}

	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	for {
		p.skipWhitespace()

		if p.expect('}') {
			return nil
		}

		if p.eof() {
			return p.errorf(p.position(), "unterminated #"+sc.name+" block",
				append(sc.expected(), "}")...)
		}

		pos := p.position()

		tag, err := p.parseTag(sc)
		if err != nil {
			return err
		}

		leaf := sc.isLeaf(tag)
		if leaf {
			p.skipWhitespace()

			if !p.expect(':') {
				return p.errorf(p.position(), "expected ':' after #"+tag, ":")
			}
		}

		if err := each(tag, pos); err != nil {
			return err
		}

		if leaf {
			p.skipWhitespace()

			if !p.expect(',') {
				return p.errorf(p.position(),
					"expected ',' after #"+tag+" value", ",")
			}
		}
	}
}

// parseText parses the body of a #text block up to the closing brace,
// decoding escape sequences.
func (p *parser) parseText(pos Position) (*TextBlock, error) {
	if err := p.open(tagText); err != nil {
		return nil, err
	}

	var b strings.Builder

	for {
		if p.eof() {
			return nil, p.errorf(pos, "unterminated #text block", "}")
		}

		switch r := p.peek(); r {
		case '}':
			p.advance()

			return &TextBlock{Text: b.String(), Pos: pos}, nil

		case '\\':
			if err := p.parseEscape(&b); err != nil {
				return nil, err
			}

		default:
			b.WriteRune(r)
			p.advance()
		}
	}
}

// parseEscape decodes one escape sequence starting at a backslash.
func (p *parser) parseEscape(b *strings.Builder) error {
	escPos := p.position()

	p.advance() // skip '\'

	switch r := p.peek(); r {
	case '\\', '/', '"':
		b.WriteRune(r)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')

	case 'u':
		p.advance()

		hex := p.peekN(4)
		if len(hex) < 4 || strings.IndexFunc(hex, func(r rune) bool {
			return !isHexDigit(r)
		}) >= 0 {
			return p.errorf(p.position(),
				"expected four hexadecimal digits after \\u", "hex digit")
		}

		p.advanceN(4)

		v, _ := strconv.ParseUint(hex, 16, 32)
		if r := rune(v); utf8.ValidRune(r) {
			b.WriteRune(r)
		} else {
			p.warn(escPos, "invalid unicode character \\u"+hex)
			b.WriteRune(utf8.RuneError)
		}

		return nil

	default:
		return p.errorf(p.position(), "invalid escape sequence",
			`\\`, `\/`, `\"`, `\b`, `\f`, `\n`, `\r`, `\t`, `\u`)
	}

	p.advance()

	return nil
}

// parseRandom parses a comma-separated list of string literals.
func (p *parser) parseRandom(pos Position) (*RandomBlock, error) {
	if err := p.open(tagRandom); err != nil {
		return nil, err
	}

	block := &RandomBlock{Options: make([]string, 0), Pos: pos}

	p.skipWhitespace()

	if p.expect('}') {
		return block, nil
	}

	for {
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}

		block.Options = append(block.Options, s)

		switch {
		case p.expect(','):
			continue
		case p.expect('}'):
			return block, nil
		default:
			return nil, p.errorf(p.position(),
				"expected ',' or '}' in #random block", ",", "}")
		}
	}
}

// parseMath parses an arithmetic expression followed by the closing brace.
func (p *parser) parseMath(pos Position) (*MathBlock, error) {
	if err := p.open(tagMath); err != nil {
		return nil, err
	}

	expr, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.expect('}') {
		return nil, p.errorf(p.position(), "unexpected input in #math block",
			"+", "-", "*", "/", "}")
	}

	return &MathBlock{Expr: expr, Pos: pos}, nil
}

// parseSum parses: product (('+' | '-') product)*.
func (p *parser) parseSum() (MathExpr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespace()

		var op Operator

		switch p.peek() {
		case '+':
			op = OpAdd
		case '-':
			op = OpSub
		default:
			return left, nil
		}

		p.advance()

		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
}

// parseProduct parses: unary (('*' | '/') unary)*.
func (p *parser) parseProduct() (MathExpr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespace()

		var op Operator

		switch p.peek() {
		case '*':
			op = OpMul
		case '/':
			op = OpDiv
		default:
			return left, nil
		}

		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
}

// parseUnary parses: '-'* atom. Each '-' wraps everything to its right.
func (p *parser) parseUnary() (MathExpr, error) {
	p.skipWhitespace()

	var negs []Position

	for p.peek() == '-' {
		negs = append(negs, p.position())
		p.advance()
		p.skipWhitespace()
	}

	if n := len(negs); n > 0 {
		if p.depth+n > p.maxDepth {
			return nil, p.errorf(negs[0], "maximum nesting depth exceeded")
		}

		p.depth += n
		defer func() { p.depth -= n }()
	}

	x, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for i := len(negs) - 1; i >= 0; i-- {
		x = &Neg{X: x, Pos: negs[i]}
	}

	return x, nil
}

// parseAtom parses: integer | '(' sum ')'.
func (p *parser) parseAtom() (MathExpr, error) {
	p.skipWhitespace()

	pos := p.position()

	switch r := p.peek(); {
	case isDigit(r):
		// A digit run always parses; values beyond float64 range round to
		// +Inf, matching native conversion.
		v, _ := strconv.ParseFloat(p.digits(isDigit), 64)

		return &Num{Value: v, Pos: pos}, nil

	case r == '(':
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.advance()

		x, err := p.parseSum()
		if err != nil {
			return nil, err
		}

		p.skipWhitespace()

		if !p.expect(')') {
			return nil, p.errorf(p.position(), "unmatched parenthesis",
				")", "+", "-", "*", "/")
		}

		return x, nil

	default:
		return nil, p.errorf(pos, "expected number or parenthesized expression",
			"number", "(", "-")
	}
}
