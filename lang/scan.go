package lang

import (
	"strconv"
	"unicode/utf8"
)

// parser holds the parser state.
type parser struct {
	input    []byte
	source   string
	pos      int
	line     int
	col      int
	depth    int
	maxDepth int
	diags    []Diagnostic
}

func newParser(s string, maxDepth int) *parser {
	return &parser{
		input:    []byte(s),
		source:   s,
		pos:      0,
		line:     1,
		col:      1,
		maxDepth: maxDepth,
	}
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

// advanceN advances over n runes.
func (p *parser) advanceN(n int) {
	for range n {
		p.advance()
	}
}

func (p *parser) expect(ch rune) bool {
	if p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

// consume advances past s if the remaining input starts with it.
// s must be ASCII.
func (p *parser) consume(s string) bool {
	if p.peekN(len(s)) != s {
		return false
	}

	p.advanceN(len(s))

	return true
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) skipWhitespace() {
	for !p.eof() && isSpace(p.peek()) {
		p.advance()
	}
}

// enter records one more level of nesting and fails once the configured
// maximum is exceeded. Every successful enter must be paired with leave.
func (p *parser) enter() error {
	if p.depth >= p.maxDepth {
		return p.errorf(p.position(), "maximum nesting depth exceeded")
	}

	p.depth++

	return nil
}

func (p *parser) leave() { p.depth-- }

// errorf builds a [ParseError] at pos describing what was found at the
// current position.
func (p *parser) errorf(pos Position, reason string, expected ...string) *ParseError {
	return &ParseError{
		Pos:      pos,
		Reason:   reason,
		Expected: expected,
		Found:    p.found(),
		Source:   p.source,
	}
}

// found describes the input at the current position for error messages.
func (p *parser) found() string {
	if p.eof() {
		return "end of input"
	}

	return strconv.QuoteRune(p.peek())
}

func (p *parser) warn(pos Position, msg string) {
	p.diags = append(p.diags, Diagnostic{Pos: pos, Message: msg})
}

// Primitive parsers. Each skips surrounding whitespace.

// parseString parses a double-quoted literal. The body is collected
// verbatim; backslashes and quotes cannot appear inside it.
func (p *parser) parseString() (string, error) {
	p.skipWhitespace()

	start := p.position()
	if !p.expect('"') {
		return "", p.errorf(start, "expected string literal", `"`)
	}

	begin := p.pos

	for {
		switch p.peek() {
		case '"':
			s := string(p.input[begin:p.pos])
			p.advance()
			p.skipWhitespace()

			return s, nil

		case '\\':
			return "", p.errorf(p.position(),
				"backslash is not allowed in string literals", `"`)

		default:
			if p.eof() {
				return "", p.errorf(start, "unterminated string literal", `"`)
			}

			p.advance()
		}
	}
}

// parseBool parses the literal true or false.
func (p *parser) parseBool() (bool, error) {
	p.skipWhitespace()

	pos := p.position()

	var v bool

	switch {
	case p.consume("true"):
		v = true
	case p.consume("false"):
		v = false
	default:
		return false, p.errorf(pos, "expected boolean", "true", "false")
	}

	p.skipWhitespace()

	return v, nil
}

// digits consumes a run of characters accepted by ok and returns it.
func (p *parser) digits(ok func(rune) bool) string {
	begin := p.pos
	for !p.eof() && ok(p.peek()) {
		p.advance()
	}

	return string(p.input[begin:p.pos])
}

// parseInt parses a decimal integer that must fit in bits.
func (p *parser) parseInt(bits int) (int64, error) {
	p.skipWhitespace()

	pos := p.position()

	s := p.digits(isDigit)
	if s == "" {
		return 0, p.errorf(pos, "expected integer", "integer")
	}

	v, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, p.errorf(pos, "integer out of range")
	}

	p.skipWhitespace()

	return v, nil
}

// maxHexDigits is the widest hex literal that can hold a 32-bit value.
const maxHexDigits = 8

// parseHex parses a 0x- or #-prefixed hexadecimal literal as a 32-bit
// signed integer.
func (p *parser) parseHex() (int32, error) {
	p.skipWhitespace()

	pos := p.position()
	if !p.consume("0x") && !p.expect('#') {
		return 0, p.errorf(pos, "expected hexadecimal literal", "0x", "#")
	}

	s := p.digits(isHexDigit)
	if s == "" {
		return 0, p.errorf(p.position(), "expected hexadecimal digits")
	}

	if len(s) > maxHexDigits {
		return 0, p.errorf(pos, "integer out of range")
	}

	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, p.errorf(pos, "integer out of range")
	}

	p.skipWhitespace()

	return int32(v), nil
}

// parseColour parses a colour given either in hex or decimal.
func (p *parser) parseColour() (int32, error) {
	p.skipWhitespace()

	if p.peek() == '#' || p.peekN(2) == "0x" {
		return p.parseHex()
	}

	v, err := p.parseInt(32)

	return int32(v), err
}

// Character classification

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isTagChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || isDigit(r) || r == '_'
}
