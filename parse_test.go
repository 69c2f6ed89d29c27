package calcengine

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum, nodeConst:
		if n.name != m.name {
			return n, m
		}
	case nodeCall:
		if n.name != m.name {
			return n, m
		}
		return n.left.diff(m.left)
	case nodeNeg, nodeNop:
		return n.left.diff(m.left)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		return n.right.diff(m.right)
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		text := canonop[r]
		assert.NotEqual(t, nodeNone, binop(text).op, "no binary operator for %c", r)
	}
}

func TestSignsBindTighterThanPow(t *testing.T) {
	pow := binop("^")
	for _, s := range []string{"+", "-"} {
		u := unop(s)
		assert.True(t, u.moreBinding(pow), "%s does not bind tighter than ^", s)
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(1)", "1"},
		{"multi", "((((1))))", "1"},
		{"pi", "pi", "π"},

		{"add4", "1+2+3+4", "((1+2)+3)+4"},
		{"sub4", "1-2-3-4", "((1-2)-3)-4"},
		{"mul4", "1*2*3*4", "((1*2)*3)*4"},
		{"div4", "1/2/3/4", "((1/2)/3)/4"},
		{"mod4", "1#2#3#4", "((1#2)#3)#4"},
		{"pow4", "1^2^3^4", "1^(2^(3^4))"},

		{"desc", "1^2*3+4", "((1^2)*3)+4"},
		{"asc", "1+2*3^4", "1+(2*(3^4))"},
		{"modmul", "9#2*3", "(9#2)*3"},
		{"mulmod", "9*2#3", "(9*2)#3"},
		{"modpow", "9^30#31", "(9^30)#31"},
		{"addmod", "1+9#2", "1+(9#2)"},

		{"negpow", "-2^2", "(-2)^2"},
		{"negmul", "-2*3", "(-2)*3"},
		{"negneg", "--1", "-(-1)"},
		{"subneg", "1--2", "1-(-2)"},
		{"powneg", "2^-3", "2^(-3)"},
		{"pownegpow", "2^-3^2", "2^((-3)^2)"},
		{"plus", "+1", "+(1)"},

		{"callpow", "sin(1)^2", "(sin(1))^2"},
		{"callneg", "-sqrt(4)", "-(sqrt(4))"},
		{"callnested", "sqrt(factorial(3)+1)", "sqrt((factorial(3))+(1))"},
		{"callconst", "ln(e)*π", "(ln(e))*(π)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.a)
			require.NoError(t, err, "failed to parse %q", c.a)
			b, err := Parse(c.b)
			require.NoError(t, err, "failed to parse %q", c.b)
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"1", "(1)"},
		{"-2", "(-[2])"},
		{"1+2*3", "([1] + [(2) × (3)])"},
		{"1/2#3", "([(1) ÷ (2)] # [3])"},
		{"sqrt(4)", "(sqrt[4])"},
		{"2^-pi", "([2] ^ [-(π)])"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			a, err := Parse(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, a.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		col  int
		res  []string
	}{
		{"empty", "", new(EmptyExpressionError), 1, []string{`(?i)\bno expression\b`}},
		{"blank", "   ", new(EmptyExpressionError), 4, []string{`(?i)\bno expression\b`}},
		{"emptyparen", "()", new(EmptyExpressionError), 2, []string{`(?i)\bno expression\b`, `\)`}},
		{"emptycall", "sin()", new(EmptyExpressionError), 5, []string{`\)`}},
		{"operand", "2*", new(OperandError), 2, []string{`(?i)\bmissing operand\b`, `\*`}},
		{"operandparen", "(2*)", new(OperandError), 3, []string{`\*`}},
		{"operandclose", "2+)", new(OperandError), 2, []string{`\+`}},
		{"operandsign", "-", new(OperandError), 1, []string{`-`}},
		{"nonunary", "*3", new(OperatorError), 1, []string{`(?i)\boperand was expected\b`, `\*`}},
		{"doubleop", "1*/2", new(OperatorError), 3, []string{`/`}},
		{"left", "(1", new(BracketError), 1, []string{`(?i)\bbracket\b`, `\(`}},
		{"leftcall", "sqrt(4", new(BracketError), 5, []string{`\(`}},
		{"right", "1)", new(BracketError), 2, []string{`(?i)\bbracket\b`, `\)`}},
		{"call", "sin 30", new(CallError), 5, []string{`\bsin\b`}},
		{"calleof", "ln", new(CallError), 3, []string{`\bln\b`}},
		{"juxtnum", "2 3", new(JuxtaposeError), 3, []string{`"3"`}},
		{"juxtparen", "2(3)", new(JuxtaposeError), 2, []string{`"\("`}},
		{"juxtconst", "2π", new(JuxtaposeError), 2, []string{`"π"`}},
		{"juxtcall", "(1)sin(2)", new(JuxtaposeError), 4, []string{`"sin"`}},
		{"lexer", "2^exp(-$)", new(LexError), 8, []string{`\$`}},
		{"depth", strings.Repeat("(", DefaultMaxDepth+1) + "1" + strings.Repeat(")", DefaultMaxDepth+1), new(DepthError), DefaultMaxDepth + 1, []string{`\b256\b`}},
		{"depthsign", strings.Repeat("-", DefaultMaxDepth+1) + "1", new(DepthError), DefaultMaxDepth + 1, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src)
			assert.Nil(t, a)
			require.Error(t, err)
			require.Equal(t, reflect.TypeOf(c.err), reflect.TypeOf(err), "wrong error type from %q: %v", c.src, err)
			var ierr InputError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, c.col, ierr.Pos(), "error %v", err)
			msg := err.Error()
			for _, re := range c.res {
				assert.Regexp(t, regexp.MustCompile(re), msg)
			}
		})
	}
}

func TestParseDepthOption(t *testing.T) {
	deep := strings.Repeat("(", 12) + "1" + strings.Repeat(")", 12)
	_, err := Parse(deep, MaxDepth(10))
	var derr *DepthError
	require.True(t, errors.As(err, &derr), "got %v", err)
	assert.Equal(t, 10, derr.Max)

	_, err = Parse(deep, MaxDepth(20))
	assert.NoError(t, err)

	deeper := strings.Repeat("(", 1000) + "1" + strings.Repeat(")", 1000)
	_, err = Parse(deeper, MaxDepth(0))
	assert.NoError(t, err)
}

func TestParseLongChains(t *testing.T) {
	// Left-associative chains do not nest, so they are not limited by depth.
	src := "1" + strings.Repeat("+1", 5000)
	_, err := Parse(src)
	assert.NoError(t, err)

	// Right-associative chains do.
	src = "1" + strings.Repeat("^1", 1000)
	_, err = Parse(src)
	var derr *DepthError
	assert.True(t, errors.As(err, &derr), "got %v", err)
}

func TestBalancedNeverBracketError(t *testing.T) {
	srcs := []string{
		"(1+2)*3",
		"((2))",
		"sin((1))",
		"(1+)",
		"(*)",
		"(()())",
		"(1)(2)",
		"((1+2)*(3-4))^(5#6)",
		"(sqrt(4)",
	}
	for _, src := range srcs {
		if strings.Count(src, "(") != strings.Count(src, ")") {
			src = Normalize(src, ".", ",")
		}
		_, err := Parse(src)
		var berr *BracketError
		assert.False(t, errors.As(err, &berr), "%q: %v", src, err)
	}
}
