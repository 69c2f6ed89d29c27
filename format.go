package calcengine

import (
	"math/big"
	"strconv"
	"strings"
)

// minPlainExp is the smallest decimal exponent Format writes without
// scientific notation.
const minPlainExp = -10

// Format renders x with at most digits significant digits and no trailing
// zeros. Values with more integer digits than digits, or with a decimal
// exponent below -10, use scientific notation like 1.5E-12. Infinities are
// written ∞ and -∞.
func Format(x *big.Float, digits int) string {
	if digits < 1 {
		digits = 1
	}
	if x.IsInf() {
		if x.Signbit() {
			return "-∞"
		}
		return "∞"
	}
	if x.Sign() == 0 {
		return "0"
	}
	s := x.Text('e', digits-1)
	var b strings.Builder
	if s[0] == '-' {
		b.WriteByte('-')
		s = s[1:]
	}
	k := strings.IndexByte(s, 'e')
	exp, err := strconv.Atoi(s[k+1:])
	if err != nil {
		panic("calcengine: bad exponent in " + strconv.Quote(s))
	}
	d := strings.TrimRight(strings.Replace(s[:k], ".", "", 1), "0")
	switch {
	case exp >= digits || exp < minPlainExp:
		b.WriteString(d[:1])
		if len(d) > 1 {
			b.WriteByte('.')
			b.WriteString(d[1:])
		}
		b.WriteByte('E')
		b.WriteString(strconv.Itoa(exp))
	case exp >= len(d)-1:
		b.WriteString(d)
		b.WriteString(strings.Repeat("0", exp-len(d)+1))
	case exp >= 0:
		b.WriteString(d[:exp+1])
		b.WriteByte('.')
		b.WriteString(d[exp+1:])
	default:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -exp-1))
		b.WriteString(d)
	}
	return b.String()
}
