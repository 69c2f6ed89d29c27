package calcengine

import (
	"strings"
)

// Expr = num | const | Call | Neg | Plus | Add | Sub | Mul | Div | Mod | Pow | '(' Expr ')'
// Call = funcname '(' Expr ')'
// Neg = '-' Primary
// Plus = '+' Primary
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Mod = Expr '#' Expr
// Pow = Expr '^' Expr
//
// A sign applies to the primary immediately following it, so -2^2 is
// (-2)^2. Implicit multiplication is not part of the grammar; Normalize
// inserts it before parsing.

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// parser holds the state of a single parse.
type parser struct {
	toks []lexToken
	// i is the index of the next token.
	i int
	// depth is the current nesting depth and max is its limit.
	depth, max int
}

// Parse parses an expression so it can be evaluated with a context. Options
// other than MaxDepth have no effect on parsing.
func Parse(src string, opts ...ContextOption) (*Expr, error) {
	return NewContext(opts...).Parse(src)
}

// Parse parses an expression with the nesting limit of ctx.
func (ctx *Context) Parse(src string) (*Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := parser{toks: toks, max: ctx.depth}
	n, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := p.peek(); tok.kind {
	case tokenEOF:
		if n == nil {
			return nil, &EmptyExpressionError{Col: tok.pos}
		}
	case tokenClose:
		return nil, &BracketError{Col: tok.pos, Right: tok.text}
	default:
		panic("calcengine: expression ended on " + tok.String())
	}
	return &Expr{n: n}, nil
}

// peek returns the next token without consuming it.
func (p *parser) peek() lexToken {
	return p.toks[p.i]
}

// advance consumes the next token. The EOF token is never consumed.
func (p *parser) advance() {
	if p.toks[p.i].kind != tokenEOF {
		p.i++
	}
}

// descend enters one level of nesting.
func (p *parser) descend() error {
	p.depth++
	if p.max > 0 && p.depth > p.max {
		return &DepthError{Col: p.peek().pos, Max: p.max}
	}
	return nil
}

func (p *parser) ascend() {
	p.depth--
}

// parseterm parses a single term. It stops without consuming a close paren,
// the end of input, or a binary operator that binds less tightly than until.
// If the input is an empty subexpression, the result is nil with no error;
// callers must create an error in contexts where empty subexpressions are
// illegal.
func (p *parser) parseterm(until operator) (*node, error) {
	if err := p.descend(); err != nil {
		return nil, err
	}
	defer p.ascend()
	n, err := p.parselhs()
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok := p.peek()
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				return n, nil
			}
			p.advance()
			rhs, err := p.parseterm(prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, &OperandError{Col: tok.pos, Operator: tok.text}
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenNum, tokenFunc, tokenConst, tokenOpen:
			// (parsed) x has no meaning without an operator.
			return nil, &JuxtaposeError{Col: tok.pos, Text: tok.text}
		case tokenClose, tokenEOF:
			return n, nil
		default:
			panic("calcengine: unknown token: " + tok.String())
		}
	}
}

// parselhs parses a primary, including any signs preceding it. At a close
// paren or the end of input, the result is nil with no error.
func (p *parser) parselhs() (*node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenNum:
		p.advance()
		return &node{kind: nodeNum, name: tok.text}, nil
	case tokenConst:
		p.advance()
		return &node{kind: nodeConst, name: constname(tok.text)}, nil
	case tokenFunc:
		p.advance()
		fn := globalfuncs[tok.text]
		if fn == nil {
			panic("calcengine: no function for " + tok.String())
		}
		if open := p.peek(); open.kind != tokenOpen {
			return nil, &CallError{Col: open.pos, Func: tok.text}
		}
		arg, err := p.parsegroup()
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, name: tok.text, fn: fn, left: arg}, nil
	case tokenOpen:
		return p.parsegroup()
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		p.advance()
		if err := p.descend(); err != nil {
			return nil, err
		}
		rhs, err := p.parselhs()
		p.ascend()
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, &OperandError{Col: tok.pos, Operator: tok.text}
		}
		return &node{kind: prec.op, left: rhs}, nil
	case tokenClose, tokenEOF:
		return nil, nil
	default:
		panic("calcengine: unknown token: " + tok.String())
	}
}

// parsegroup parses a parenthesized subexpression. The next token must be an
// open paren.
func (p *parser) parsegroup() (*node, error) {
	open := p.peek()
	if open.kind != tokenOpen {
		panic("calcengine: group starts with " + open.String())
	}
	p.advance()
	n, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	end := p.peek()
	if end.kind != tokenClose {
		return nil, &BracketError{Col: open.pos, Left: open.text}
	}
	p.advance()
	if n == nil {
		return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
	}
	return n, nil
}

// constname gives the canonical name of a constant token.
func constname(text string) string {
	if text == "pi" {
		return "π"
	}
	return text
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false, true)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "#":
		return operator{5, false, nodeMod}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone. Signs bind tighter than
// any binary operator.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{20, true, nodeNop}
	case "-":
		return operator{20, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
