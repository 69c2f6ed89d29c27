package calcengine

import (
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// function is a function from reals to reals, evaluated in a context. The
// result must not alias x.
type function func(ctx *Context, x *big.Float) (*big.Float, error)

// globalfuncs maps every function name the lexer recognizes to its
// implementation. It is never modified.
var globalfuncs = map[string]function{
	"sin":       sine,
	"cos":       cosine,
	"tan":       tangent,
	"arcsin":    arcsine,
	"arccos":    arccosine,
	"arctan":    arctangent,
	"ln":        naturalLog,
	"log":       decimalLog,
	"logten":    decimalLog,
	"exp":       exponential,
	"sqrt":      squareRoot,
	"factorial": (*Context).factorial,
}

// sine computes sin x. Like the other trigonometric functions and their
// inverses, the result is rounded to ctx.digits decimal places.
func sine(ctx *Context, x *big.Float) (*big.Float, error) {
	s, _ := sincos(ctx.radians(x), ctx.prec)
	return ctx.round(s), nil
}

func cosine(ctx *Context, x *big.Float) (*big.Float, error) {
	_, c := sincos(ctx.radians(x), ctx.prec)
	return ctx.round(c), nil
}

// tangent computes sin x / cos x. Where the rounded cosine vanishes, the
// result is 0 rather than a signal.
func tangent(ctx *Context, x *big.Float) (*big.Float, error) {
	s, c := sincos(ctx.radians(x), ctx.prec+guardBits)
	if ctx.round(c).Sign() == 0 {
		return ctx.float(), nil
	}
	return ctx.round(s.Quo(s, c)), nil
}

func arcsine(ctx *Context, x *big.Float) (*big.Float, error) {
	r, err := asin(x, ctx.prec+guardBits, "arcsin")
	if err != nil {
		return nil, err
	}
	return ctx.round(ctx.degrees(r)), nil
}

func arccosine(ctx *Context, x *big.Float) (*big.Float, error) {
	r, err := acos(x, ctx.prec+guardBits)
	if err != nil {
		return nil, err
	}
	return ctx.round(ctx.degrees(r)), nil
}

func arctangent(ctx *Context, x *big.Float) (*big.Float, error) {
	r := atan(x, ctx.prec+guardBits)
	return ctx.round(ctx.degrees(r)), nil
}

func naturalLog(ctx *Context, x *big.Float) (*big.Float, error) {
	switch x.Sign() {
	case -1:
		return nil, &DomainError{X: x, Func: "ln"}
	case 0:
		return nil, Infinity
	}
	return bigfloat.Log(ctx.float(), ctx.float().Set(x)), nil
}

// decimalLog computes log₁₀ x, rounded so that powers of ten give integers.
func decimalLog(ctx *Context, x *big.Float) (*big.Float, error) {
	switch x.Sign() {
	case -1:
		return nil, &DomainError{X: x, Func: "log"}
	case 0:
		return nil, Infinity
	}
	w := ctx.prec + guardBits
	r := bigfloat.Log(new(big.Float).SetPrec(w), new(big.Float).SetPrec(w).Set(x))
	ten := new(big.Float).SetPrec(w).SetInt64(10)
	r.Quo(r, bigfloat.Log(new(big.Float).SetPrec(w), ten))
	return ctx.round(r), nil
}

func exponential(ctx *Context, x *big.Float) (*big.Float, error) {
	xf, _ := x.Float64()
	if xf > ctx.lnmax || xf > maxLn {
		return nil, Infinity
	}
	if xf < -maxLn {
		return ctx.float(), nil
	}
	r := bigfloat.Exp(ctx.float(), ctx.float().Set(x))
	return ctx.float().Set(r), nil
}

func squareRoot(ctx *Context, x *big.Float) (*big.Float, error) {
	if x.Sign() < 0 {
		return nil, &DomainError{X: x, Func: "sqrt"}
	}
	return ctx.float().Sqrt(x), nil
}

// radians converts an angle in the context's unit to radians. In degrees,
// the angle is first reduced modulo a full turn, exactly for integers, so
// that multiples of 90° land on the axes.
func (ctx *Context) radians(x *big.Float) *big.Float {
	if ctx.mode != Degrees {
		return x
	}
	w := ctx.prec + guardBits
	full := big.NewFloat(360)
	var d *big.Float
	if x.IsInt() {
		xi, _ := x.Int(nil)
		d = new(big.Float).SetPrec(w).SetInt(xi.Rem(xi, big.NewInt(360)))
	} else {
		q := new(big.Float).SetPrec(w).Quo(x, full)
		qi, _ := q.Int(nil)
		t := new(big.Float).SetPrec(w + 16).SetInt(qi)
		t.Mul(t, full)
		d = new(big.Float).SetPrec(w).Sub(x, t)
	}
	d.Mul(d, pi(w))
	return d.Quo(d, big.NewFloat(180))
}

// degrees converts an angle in radians to the context's unit.
func (ctx *Context) degrees(x *big.Float) *big.Float {
	if ctx.mode != Degrees {
		return x
	}
	w := ctx.prec + guardBits
	d := new(big.Float).SetPrec(w).Mul(x, big.NewFloat(180))
	return d.Quo(d, pi(w))
}

// round rounds x to ctx.digits decimal places, with halves away from zero.
// This snaps results such as sin π to exact values. The count is of decimal
// places, not significant digits, so |x| < 10^-digits rounds to 0.
func (ctx *Context) round(x *big.Float) *big.Float {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(ctx.digits)), nil)
	s := new(big.Float).SetPrec(ctx.prec + guardBits).SetInt(scale)
	y := new(big.Float).SetPrec(ctx.prec + guardBits).Mul(x, s)
	r := ctx.float().SetInt(roundInt(y))
	return r.Quo(r, s)
}
