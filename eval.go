package calcengine

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Context is a context for evaluating expressions. A Context is immutable
// once created, so it is safe to use concurrently.
type Context struct {
	// mode is the angle unit for trigonometric functions.
	mode AngleMode
	// digits is the number of significant decimal digits requested.
	digits uint
	// prec is the binary precision of intermediate values, derived from
	// digits plus guard bits.
	prec uint
	// depth is the maximum nesting depth for parsing.
	depth int
	// max is the largest magnitude a result may have, or nil for no limit.
	max *big.Float
	// lnmax is ln(max), or +Inf for no limit. Kernels compare logarithmic
	// estimates against it before doing expensive work.
	lnmax float64
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	angleopt AngleMode
	precopt  uint
	depthopt int
	maxopt   struct{ v *big.Float }
)

func (angleopt) ctxOption() {}
func (precopt) ctxOption()  {}
func (depthopt) ctxOption() {}
func (maxopt) ctxOption()   {}

const (
	// DefaultPrec is the number of significant decimal digits used when no
	// Prec option is given.
	DefaultPrec = 100
	// DefaultMaxDepth is the parser nesting limit used when no MaxDepth
	// option is given.
	DefaultMaxDepth = 256
	// guardBits is the number of bits carried beyond the requested decimal
	// digits.
	guardBits = 64
)

// Angle sets the unit of angles for trigonometric functions.
func Angle(m AngleMode) ContextOption {
	return angleopt(m)
}

// Prec sets the precision of calculations as a number of significant decimal
// digits. Results of sin, cos, tan, arcsin, arccos, arctan and log are
// additionally rounded to digits decimal places, not significant digits, so
// that e.g. sin(π) is exactly 0; a consequence is that such results with
// magnitude below 10^-digits are 0. Prec panics if digits is zero.
func Prec(digits uint) ContextOption {
	if digits == 0 {
		panic("calcengine: precision must be positive")
	}
	return precopt(digits)
}

// MaxDepth sets the maximum nesting depth of parenthesized groups, signs and
// operators. Zero or negative means no limit.
func MaxDepth(n int) ContextOption {
	return depthopt(n)
}

// MaxMagnitude sets the largest magnitude any intermediate result may have.
// Results beyond it evaluate to Infinity. A nil or infinite x removes the
// limit. The default is the largest finite float64.
func MaxMagnitude(x *big.Float) ContextOption {
	return maxopt{x}
}

// NewContext creates a new evaluation context. Without options, angles are in
// radians, precision is DefaultPrec digits, the nesting limit is
// DefaultMaxDepth, and the magnitude limit is math.MaxFloat64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		mode:   Radians,
		digits: DefaultPrec,
		depth:  DefaultMaxDepth,
		max:    big.NewFloat(math.MaxFloat64),
	}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := *ctx
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil:
		case angleopt:
			n.mode = AngleMode(opt)
		case precopt:
			n.digits = uint(opt)
		case depthopt:
			n.depth = int(opt)
		case maxopt:
			if opt.v == nil || opt.v.IsInf() {
				n.max = nil
			} else {
				n.max = new(big.Float).Abs(opt.v)
			}
		default:
			panic("calcengine: unknown option type")
		}
	}
	n.prec = bitsFor(n.digits)
	n.lnmax = math.Inf(1)
	if n.max != nil {
		n.lnmax = lnabs(n.max)
	}
	return &n
}

// bitsFor converts a number of decimal digits to a binary precision including
// guard bits.
func bitsFor(digits uint) uint {
	return uint(math.Ceil(float64(digits)*math.Log2(10))) + guardBits
}

// Prec returns the number of significant decimal digits to which values are
// computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.digits
}

// Bits returns the binary precision of values computed in the context.
func (ctx *Context) Bits() uint {
	return ctx.prec
}

// AngleMode returns the angle unit of the context.
func (ctx *Context) AngleMode() AngleMode {
	return ctx.mode
}

// Eval evaluates an expression and returns the result. If evaluation produces
// a mathematically undefined result, the error is or wraps a Signal.
func (ctx *Context) Eval(e *Expr) (*big.Float, error) {
	return e.n.eval(ctx)
}

// Evaluate parses and evaluates a canonical expression.
func (ctx *Context) Evaluate(src string) (*big.Float, error) {
	e, err := ctx.Parse(src)
	if err != nil {
		return nil, err
	}
	return ctx.Eval(e)
}

// Calculate normalizes raw keypad input using the given separators, then
// evaluates it.
func (ctx *Context) Calculate(raw, decimalSeparator, groupingSeparator string) (*big.Float, error) {
	return ctx.Evaluate(Normalize(raw, decimalSeparator, groupingSeparator))
}

// Evaluate parses and evaluates a canonical expression in a new context
// created with the given options.
func Evaluate(src string, opts ...ContextOption) (*big.Float, error) {
	return NewContext(opts...).Evaluate(src)
}

// Calculate normalizes raw keypad input using the given separators, then
// evaluates it in a new context created with the given options.
func Calculate(raw, decimalSeparator, groupingSeparator string, opts ...ContextOption) (*big.Float, error) {
	return NewContext(opts...).Calculate(raw, decimalSeparator, groupingSeparator)
}

// float creates a zero value with the context's precision.
func (ctx *Context) float() *big.Float {
	return new(big.Float).SetPrec(ctx.prec)
}

// bound checks x against the magnitude limit.
func (ctx *Context) bound(x *big.Float) (*big.Float, error) {
	if x.IsInf() {
		return nil, Infinity
	}
	if ctx.max != nil && new(big.Float).Abs(x).Cmp(ctx.max) > 0 {
		return nil, Infinity
	}
	return x, nil
}

// num parses a decimal literal.
func (ctx *Context) num(text string) (*big.Float, error) {
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}
	text = strings.TrimSuffix(text, ".")
	x, _, err := ctx.float().Parse(text, 10)
	if err != nil {
		panic("calcengine: invalid number " + strconv.Quote(text) + ": " + err.Error())
	}
	return ctx.bound(x)
}

// constant computes a named constant.
func (ctx *Context) constant(name string) *big.Float {
	switch name {
	case "π":
		return pi(ctx.prec)
	case "e":
		return euler(ctx.prec)
	default:
		panic("calcengine: unknown constant " + strconv.Quote(name))
	}
}

func (n *node) eval(ctx *Context) (*big.Float, error) {
	switch n.kind {
	case nodeNum:
		return ctx.num(n.name)
	case nodeConst:
		return ctx.constant(n.name), nil
	case nodeCall:
		x, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		r, err := n.fn(ctx, x)
		if err != nil {
			return nil, err
		}
		return ctx.bound(r)
	case nodeNeg:
		x, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		return x.Neg(x), nil
	case nodeNop:
		return n.left.eval(ctx)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		l, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return nil, err
		}
		var v *big.Float
		switch n.kind {
		case nodeAdd:
			v = ctx.float().Add(l, r)
		case nodeSub:
			v = ctx.float().Sub(l, r)
		case nodeMul:
			v = ctx.float().Mul(l, r)
		case nodeDiv:
			if r.Sign() == 0 {
				return nil, DivisionByZero
			}
			v = ctx.float().Quo(l, r)
		case nodeMod:
			v, err = ctx.rem(l, r)
		case nodePow:
			v, err = ctx.pow(l, r)
		}
		if err != nil {
			return nil, err
		}
		return ctx.bound(v)
	default:
		panic("calcengine: invalid node kind " + n.kind.String())
	}
}

// Signal is an error indicating a mathematically undefined result. Use
// errors.Is to test for a particular signal.
type Signal int8

const (
	_ Signal = iota
	// DivisionByZero results from dividing by zero, taking a remainder
	// modulo zero, or raising zero to a negative power.
	DivisionByZero
	// Infinity results when a value exceeds the context's magnitude limit
	// or is mathematically infinite, e.g. ln(0).
	Infinity
	// NotANumber results from applying a function outside its domain.
	NotANumber
)

func (s Signal) Error() string {
	switch s {
	case DivisionByZero:
		return "division by zero"
	case Infinity:
		return "result is infinite"
	case NotANumber:
		return "result is not a number"
	default:
		return "Signal(" + strconv.Itoa(int(s)) + ")"
	}
}

// DomainError is an error returned when a function's argument is outside its
// domain. It unwraps to NotANumber.
type DomainError struct {
	// X is the argument.
	X *big.Float
	// Func is the name of the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	return "argument " + err.X.Text('g', 10) + " is outside the domain of " + err.Func
}

func (err *DomainError) Unwrap() error {
	return NotANumber
}

// AngleMode is the unit of angles used by trigonometric functions and
// produced by their inverses.
type AngleMode uint8

const (
	Radians AngleMode = iota
	Degrees
)

func (m AngleMode) String() string {
	switch m {
	case Radians:
		return "radians"
	case Degrees:
		return "degrees"
	default:
		return "AngleMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m AngleMode) MarshalText() ([]byte, error) {
	switch m {
	case Radians, Degrees:
		return []byte(m.String()), nil
	default:
		return nil, &AngleModeError{Text: m.String()}
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts "radians",
// "rad", "degrees" and "deg" in any case.
func (m *AngleMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "radians", "rad":
		*m = Radians
	case "degrees", "deg":
		*m = Degrees
	default:
		return &AngleModeError{Text: string(text)}
	}
	return nil
}

// AngleModeError is an error indicating an unknown angle unit name.
type AngleModeError struct {
	Text string
}

func (err *AngleModeError) Error() string {
	return "unknown angle mode " + strconv.Quote(err.Text)
}
