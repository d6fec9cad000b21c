package lang

import (
	"math"
	"testing"

	"github.com/expr-lang/expr"
	"github.com/google/go-cmp/cmp"
)

func parseExpr(t *testing.T, src string) MathExpr {
	t.Helper()

	s := mustParse(t, "#math {"+src+"}")

	m, ok := s.Nodes[0].(*MathBlock)
	if !ok {
		t.Fatalf("expected *MathBlock, got %T", s.Nodes[0])
	}

	return m.Expr
}

// oracle evaluates src with expr-lang, which shares the usual precedence
// and associativity rules.
func oracle(t *testing.T, src string) float64 {
	t.Helper()

	out, err := expr.Eval(src, nil)
	if err != nil {
		t.Fatalf("expr.Eval(%q) failed: %v", src, err)
	}

	switch v := out.(type) {
	case int:
		return float64(v)
	case float64:
		return v
	default:
		t.Fatalf("expr.Eval(%q) returned %T", src, out)

		return 0
	}
}

func TestMathExpr_Eval(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2+3*4", 14},
		{"-(2+3)", -5},
		{"10/4", 2.5},
		{"1 - 2 - 3", -4},
		{"8 / 4 / 2", 1},
		{"2 * (3 + 4)", 14},
		{"-(-3)", 3},
		{"-2 * -3", 6},
		{"1 + -2", -1},
		{"((7))", 7},
		{"100 - 3 * 4 / 2 + 1", 95},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseExpr(t, tt.input).Eval()

			if got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}

			if o := oracle(t, tt.input); got != o {
				t.Errorf("Eval() = %v, oracle = %v", got, o)
			}
		})
	}
}

func TestMathExpr_DivideByZero(t *testing.T) {
	tests := []struct {
		input string
		check func(float64) bool
		want  string
	}{
		{"1/0", func(f float64) bool { return math.IsInf(f, 1) }, "inf"},
		{"-1/0", func(f float64) bool { return math.IsInf(f, -1) }, "-inf"},
		{"0/0", math.IsNaN, "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseExpr(t, tt.input).Eval()

			if !tt.check(got) {
				t.Errorf("Eval() = %v", got)
			}

			if s := FormatNumber(got); s != tt.want {
				t.Errorf("FormatNumber() = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestMathExpr_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2*3", "1 + 2 * 3"},
		{"(1+2)*3", "(1 + 2) * 3"},
		{"1-(2-3)", "1 - (2 - 3)"},
		{"(1-2)-3", "1 - 2 - 3"},
		{"8/(4/2)", "8 / (4 / 2)"},
		{"-(2+3)", "-(2 + 3)"},
		{"-2*3", "-2 * 3"},
		{"2*-3", "2 * -3"},
		{"- - 4", "--4"},
		{"((5))", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := parseExpr(t, tt.input)

			if got := e.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}

			again := parseExpr(t, e.String())
			if diff := cmp.Diff(e, again, ignorePos); diff != "" {
				t.Errorf("reparsed expression differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{14, "14"},
		{2.5, "2.5"},
		{-5, "-5"},
		{0, "0"},
		{1e21, "1000000000000000000000"},
		{0.1 + 0.2, "0.30000000000000004"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOperator_String(t *testing.T) {
	for op, want := range map[Operator]string{
		OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", Operator(9): "Operator(9)",
	} {
		if got := op.String(); got != want {
			t.Errorf("Operator(%d).String() = %q, want %q", int(op), got, want)
		}
	}
}
