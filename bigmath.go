package calcengine

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// maxLn bounds logarithmic magnitude estimates regardless of the context's
// limit. Values beyond e^maxLn approach the exponent range of big.Float.
const maxLn = 1e9

var (
	one  = big.NewFloat(1)
	half = big.NewFloat(0.5)
)

// pi computes π to prec bits.
func pi(prec uint) *big.Float {
	return bigfloat.Pi(new(big.Float).SetPrec(prec))
}

// halfpi computes π/2 to prec bits.
func halfpi(prec uint) *big.Float {
	p := pi(prec)
	return p.SetMantExp(p, -1)
}

// euler computes e to prec bits. bigfloat works at the precision of its
// argument, so the argument must carry prec bits as well.
func euler(prec uint) *big.Float {
	return bigfloat.Exp(new(big.Float).SetPrec(prec), new(big.Float).SetPrec(prec).SetInt64(1))
}

// lnabs estimates ln|x| as a float64 without overflowing for large x.
func lnabs(x *big.Float) float64 {
	if x.Sign() == 0 {
		return math.Inf(-1)
	}
	var m big.Float
	e := x.MantExp(&m)
	f, _ := m.Float64()
	return math.Log(math.Abs(f)) + float64(e)*math.Ln2
}

// roundInt rounds x to the nearest integer, with halves away from zero.
func roundInt(x *big.Float) *big.Int {
	t := new(big.Float).SetPrec(x.Prec() + 1)
	if x.Signbit() {
		t.Sub(x, half)
	} else {
		t.Add(x, half)
	}
	i, _ := t.Int(nil)
	return i
}

// negligible reports whether adding term to sum cannot change sum at prec
// bits.
func negligible(term, sum *big.Float, prec uint) bool {
	if term.Sign() == 0 {
		return true
	}
	if sum.Sign() == 0 {
		return false
	}
	return term.MantExp(nil) < sum.MantExp(nil)-int(prec)-1
}

// sincos computes sin x and cos x to prec bits, with x in radians.
func sincos(x *big.Float, prec uint) (sin, cos *big.Float) {
	w := prec + guardBits
	if e := x.MantExp(nil); e > 0 {
		w += uint(e)
	}
	hp := halfpi(w)
	q := new(big.Float).SetPrec(w).Quo(x, hp)
	k := roundInt(q)
	r := new(big.Float).SetPrec(w).SetInt(k)
	r.Mul(r, hp)
	r.Sub(x, r)
	s, c := sinSeries(r, w), cosSeries(r, w)
	switch new(big.Int).And(k, big.NewInt(3)).Int64() {
	case 0:
		sin, cos = s, c
	case 1:
		sin, cos = c, s.Neg(s)
	case 2:
		sin, cos = s.Neg(s), c.Neg(c)
	case 3:
		sin, cos = c.Neg(c), s
	}
	return sin.SetPrec(prec), cos.SetPrec(prec)
}

// sinSeries sums the Taylor series of sin x. It converges quickly for
// |x| <= π/4.
func sinSeries(x *big.Float, prec uint) *big.Float {
	sum := new(big.Float).SetPrec(prec).Set(x)
	x2 := new(big.Float).SetPrec(prec).Mul(x, x)
	term := new(big.Float).SetPrec(prec).Set(x)
	for k := int64(1); ; k++ {
		term.Mul(term, x2)
		term.Quo(term, new(big.Float).SetInt64(2*k*(2*k+1)))
		term.Neg(term)
		if negligible(term, sum, prec) {
			return sum
		}
		sum.Add(sum, term)
	}
}

// cosSeries sums the Taylor series of cos x.
func cosSeries(x *big.Float, prec uint) *big.Float {
	sum := new(big.Float).SetPrec(prec).SetInt64(1)
	x2 := new(big.Float).SetPrec(prec).Mul(x, x)
	term := new(big.Float).SetPrec(prec).SetInt64(1)
	for k := int64(1); ; k++ {
		term.Mul(term, x2)
		term.Quo(term, new(big.Float).SetInt64((2*k-1)*(2*k)))
		term.Neg(term)
		if negligible(term, sum, prec) {
			return sum
		}
		sum.Add(sum, term)
	}
}

// atanHalvings is the number of argument halvings applied before summing the
// arctangent series.
const atanHalvings = 8

// atan computes arctan x to prec bits.
func atan(x *big.Float, prec uint) *big.Float {
	w := prec + guardBits
	z := new(big.Float).SetPrec(w).Abs(x)
	if z.Sign() == 0 {
		return new(big.Float).SetPrec(prec)
	}
	inv := z.Cmp(one) > 0
	if inv {
		z.Quo(one, z)
	}
	// atan z = 2 atan(z / (1 + sqrt(1 + z²)))
	t := new(big.Float).SetPrec(w)
	for i := 0; i < atanHalvings; i++ {
		t.Mul(z, z)
		t.Add(t, one)
		t.Sqrt(t)
		t.Add(t, one)
		z.Quo(z, t)
	}
	sum := new(big.Float).SetPrec(w).Set(z)
	z2 := new(big.Float).SetPrec(w).Mul(z, z)
	pow := new(big.Float).SetPrec(w).Set(z)
	for k := int64(3); ; k += 2 {
		pow.Mul(pow, z2)
		pow.Neg(pow)
		t.Quo(pow, new(big.Float).SetInt64(k))
		if negligible(t, sum, w) {
			break
		}
		sum.Add(sum, t)
	}
	sum.SetMantExp(sum, atanHalvings)
	if inv {
		sum.Sub(halfpi(w), sum)
	}
	if x.Signbit() {
		sum.Neg(sum)
	}
	return sum.SetPrec(prec)
}

// asin computes arcsin x to prec bits. name is the function reported in a
// DomainError when |x| > 1.
func asin(x *big.Float, prec uint, name string) (*big.Float, error) {
	switch new(big.Float).Abs(x).Cmp(one) {
	case 1:
		return nil, &DomainError{X: x, Func: name}
	case 0:
		r := halfpi(prec)
		if x.Signbit() {
			r.Neg(r)
		}
		return r, nil
	}
	w := prec + guardBits
	// asin x = atan(x / sqrt(1 - x²))
	t := new(big.Float).SetPrec(w).Mul(x, x)
	t.Sub(one, t)
	t.Sqrt(t)
	t.Quo(x, t)
	return atan(t, prec), nil
}

// acos computes arccos x to prec bits.
func acos(x *big.Float, prec uint) (*big.Float, error) {
	w := prec + guardBits
	s, err := asin(x, w, "arccos")
	if err != nil {
		return nil, err
	}
	s.Sub(halfpi(w), s)
	return s.SetPrec(prec), nil
}

// gamma computes Γ(x) to prec bits. x must not be a nonpositive integer.
func gamma(x *big.Float, prec uint) *big.Float {
	w := prec + guardBits
	z := new(big.Float).SetPrec(w).Set(x)
	if z.Cmp(half) < 0 {
		// Γ(z) = π / (sin(πz) Γ(1-z))
		s := pi(w)
		s.Mul(s, z)
		s, _ = sincos(s, w)
		g := gamma(new(big.Float).SetPrec(w).Sub(one, z), w)
		g.Mul(g, s)
		r := pi(w)
		r.Quo(r, g)
		return r.SetPrec(prec)
	}
	// Shift the argument up until the Stirling series converges to the
	// working precision, then divide the shift back out.
	n := new(big.Float).SetInt64(int64(prec/3 + 10))
	prod := new(big.Float).SetPrec(w).SetInt64(1)
	for z.Cmp(n) < 0 {
		prod.Mul(prod, z)
		z.Add(z, one)
	}
	lg := lnGammaStirling(z, w, int(prec/6+5))
	g := bigfloat.Exp(new(big.Float).SetPrec(w), lg)
	g.Quo(g, prod)
	return g.SetPrec(prec)
}

// lnGammaStirling computes ln Γ(z) with terms terms of the Stirling series:
//
//	(z - 1/2) ln z - z + ln(2π)/2 + Σ B(2k) / (2k (2k-1) z^(2k-1))
func lnGammaStirling(z *big.Float, prec uint, terms int) *big.Float {
	r := new(big.Float).SetPrec(prec).Sub(z, half)
	r.Mul(r, bigfloat.Log(new(big.Float).SetPrec(prec), z))
	r.Sub(r, z)
	tau := pi(prec)
	tau.SetMantExp(tau, 1)
	lt := bigfloat.Log(new(big.Float).SetPrec(prec), tau)
	r.Add(r, lt.SetMantExp(lt, -1))

	b := bernoulli(2 * terms)
	zinv := new(big.Float).SetPrec(prec).Quo(one, z)
	zinv2 := new(big.Float).SetPrec(prec).Mul(zinv, zinv)
	p := new(big.Float).SetPrec(prec).Set(zinv)
	t := new(big.Float).SetPrec(prec)
	for k := 1; k <= terms; k++ {
		t.SetRat(b[2*k])
		t.Quo(t, new(big.Float).SetInt64(int64(2*k*(2*k-1))))
		t.Mul(t, p)
		r.Add(r, t)
		p.Mul(p, zinv2)
	}
	return r
}

// bernoulli computes the Bernoulli numbers B(0) through B(n) with the
// Akiyama-Tanigawa algorithm. B(1) is +1/2 in this convention; only the even
// numbers are used.
func bernoulli(n int) []*big.Rat {
	a := make([]*big.Rat, n+1)
	b := make([]*big.Rat, n+1)
	for m := 0; m <= n; m++ {
		a[m] = big.NewRat(1, int64(m+1))
		for j := m; j >= 1; j-- {
			t := new(big.Rat).Sub(a[j-1], a[j])
			a[j-1] = t.Mul(t, big.NewRat(int64(j), 1))
		}
		b[m] = new(big.Rat).Set(a[0])
	}
	return b
}

// factorial computes x!. Integers use exact integer multiplication; other
// values use Γ(x+1).
func (ctx *Context) factorial(x *big.Float) (*big.Float, error) {
	if x.IsInt() {
		if x.Sign() < 0 {
			return nil, &DomainError{X: x, Func: "factorial"}
		}
		xf, _ := x.Float64()
		est, _ := math.Lgamma(xf + 1)
		if est > ctx.lnmax || est > maxLn {
			return nil, Infinity
		}
		n, _ := x.Int64()
		if n < 2 {
			return ctx.float().SetInt64(1), nil
		}
		return ctx.float().SetInt(new(big.Int).MulRange(2, n)), nil
	}
	xf, _ := x.Float64()
	if xf < -1e6 {
		// |Γ(x+1)| is far below anything a calculator displays.
		return ctx.float(), nil
	}
	est, _ := math.Lgamma(xf + 1)
	if est > ctx.lnmax || est > maxLn {
		return nil, Infinity
	}
	z := new(big.Float).SetPrec(ctx.prec+guardBits).Add(x, one)
	return gamma(z, ctx.prec), nil
}

// pow computes x^y.
func (ctx *Context) pow(x, y *big.Float) (*big.Float, error) {
	switch {
	case y.Sign() == 0:
		return ctx.float().SetInt64(1), nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return nil, DivisionByZero
		}
		return ctx.float(), nil
	case y.IsInt():
		return ctx.powInt(x, y)
	case x.Sign() < 0:
		return nil, &DomainError{X: x, Func: "^"}
	}
	return ctx.powReal(x, y)
}

// powReal computes x^y for positive x through bigfloat. Only the value
// bigfloat.Pow returns holds the result.
func (ctx *Context) powReal(x, y *big.Float) (*big.Float, error) {
	yf, _ := y.Float64()
	est := lnabs(x) * yf
	if est > ctx.lnmax || est > maxLn {
		return nil, Infinity
	}
	if est < -maxLn {
		return ctx.float(), nil
	}
	w := ctx.prec + guardBits
	xw := new(big.Float).SetPrec(w).Set(x)
	yw := new(big.Float).SetPrec(w).Set(y)
	r := bigfloat.Pow(new(big.Float).SetPrec(w), xw, yw)
	return ctx.float().Set(r), nil
}

// powInt computes x^y for integer y by repeated squaring, which is exact
// whenever the result fits in the working precision.
func (ctx *Context) powInt(x, y *big.Float) (*big.Float, error) {
	yi, _ := y.Int(nil)
	neg := x.Signbit() && yi.Bit(0) == 1
	ax := new(big.Float).Abs(x)
	if ax.Cmp(one) == 0 {
		r := ctx.float().SetInt64(1)
		if neg {
			r.Neg(r)
		}
		return r, nil
	}
	yf, _ := y.Float64()
	est := lnabs(x) * yf
	if est > ctx.lnmax || est > maxLn {
		return nil, Infinity
	}
	var z *big.Float
	switch {
	case est < -maxLn:
		z = ctx.float()
	case !new(big.Int).Abs(yi).IsUint64():
		// Only reachable for |x| extremely close to 1.
		var err error
		z, err = ctx.powReal(ax, y)
		if err != nil {
			return nil, err
		}
	default:
		w := ctx.prec + guardBits
		z = new(big.Float).SetPrec(w).SetInt64(1)
		b := new(big.Float).SetPrec(w).Set(ax)
		for e := new(big.Int).Abs(yi).Uint64(); e > 0; e >>= 1 {
			if e&1 == 1 {
				z.Mul(z, b)
			}
			if e > 1 {
				b.Mul(b, b)
			}
		}
		if yi.Sign() < 0 {
			z.Quo(one, z)
		}
		z.SetPrec(ctx.prec)
	}
	if neg {
		z.Neg(z)
	}
	return z, nil
}

// rem computes the remainder of x/y truncated toward zero, which has the sign
// of x.
func (ctx *Context) rem(x, y *big.Float) (*big.Float, error) {
	if y.Sign() == 0 {
		return nil, DivisionByZero
	}
	if x.IsInt() && y.IsInt() {
		a, _ := x.Int(nil)
		b, _ := y.Int(nil)
		return ctx.float().SetInt(a.Rem(a, b)), nil
	}
	w := ctx.prec + guardBits
	if d := x.MantExp(nil) - y.MantExp(nil); d > 0 {
		w += uint(d)
	}
	q := new(big.Float).SetPrec(w).Quo(x, y)
	qi, _ := q.Int(nil)
	t := new(big.Float).SetPrec(w).SetInt(qi)
	t.Mul(t, y)
	return ctx.float().Sub(x, t), nil
}
