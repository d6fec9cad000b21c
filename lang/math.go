package lang

import (
	"math"
	"strconv"
)

// Operator is a binary arithmetic operator.
type Operator int

const (
	OpAdd Operator = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
)

// String returns the operator symbol.
func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}
}

// precedence reports the binding strength of o; higher binds tighter.
func (o Operator) precedence() int {
	switch o {
	case OpMul, OpDiv:
		return precProduct
	default:
		return precSum
	}
}

const (
	precSum = iota + 1
	precProduct
	precUnary
	precAtom
)

// MathExpr is a node of a parsed arithmetic expression: one of [*Num],
// [*Neg], or [*Binary].
type MathExpr interface {
	// Eval folds the expression to a single value using IEEE-754
	// semantics. Division by zero yields an infinity or NaN.
	Eval() float64
	// String renders the expression in script syntax with the minimum
	// parentheses needed to preserve its structure.
	String() string
	Position() Position
	precedence() int
}

// Num is a numeric literal.
type Num struct {
	Value float64
	Pos   Position
}

// Neg negates its operand.
type Neg struct {
	X   MathExpr
	Pos Position
}

// Binary applies Op to Left and Right.
type Binary struct {
	Op    Operator
	Left  MathExpr
	Right MathExpr
	Pos   Position
}

func (e *Num) Position() Position    { return e.Pos }
func (e *Neg) Position() Position    { return e.Pos }
func (e *Binary) Position() Position { return e.Pos }

func (*Num) precedence() int      { return precAtom }
func (*Neg) precedence() int      { return precUnary }
func (e *Binary) precedence() int { return e.Op.precedence() }

func (e *Num) Eval() float64 { return e.Value }

func (e *Neg) Eval() float64 { return -e.X.Eval() }

func (e *Binary) Eval() float64 {
	l, r := e.Left.Eval(), e.Right.Eval()

	switch e.Op {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul:
		return l * r
	case OpDiv:
		return l / r
	default:
		return math.NaN()
	}
}

func (e *Num) String() string { return strconv.FormatFloat(e.Value, 'f', -1, 64) }

func (e *Neg) String() string {
	return "-" + wrapPrec(e.X, e.X.precedence() < precUnary)
}

func (e *Binary) String() string {
	p := e.Op.precedence()
	// Binary operators are left-associative, so an equal-precedence right
	// operand must keep its parentheses.
	return wrapPrec(e.Left, e.Left.precedence() < p) +
		" " + e.Op.String() + " " +
		wrapPrec(e.Right, e.Right.precedence() <= p)
}

func wrapPrec(e MathExpr, paren bool) string {
	if paren {
		return "(" + e.String() + ")"
	}

	return e.String()
}

// FormatNumber renders an evaluated math result the way it is appended to
// document content: the shortest decimal form that round-trips, with
// "inf", "-inf", and "NaN" for non-finite values.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
