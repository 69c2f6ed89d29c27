package calcengine_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zephyrtronium/calcengine"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name   string
		x      *big.Float
		digits int
		want   string
	}{
		{"zero", new(big.Float), 10, "0"},
		{"inf", new(big.Float).SetInf(false), 10, "∞"},
		{"neginf", new(big.Float).SetInf(true), 10, "-∞"},
		{"int", big.NewFloat(120), 10, "120"},
		{"dec", big.NewFloat(1234.5), 10, "1234.5"},
		{"neg", big.NewFloat(-2.5), 10, "-2.5"},
		{"small", big.NewFloat(0.00012), 10, "0.00012"},
		{"tiny", big.NewFloat(1e-10), 10, "0.0000000001"},
		{"tinier", big.NewFloat(1.5e-12), 10, "1.5E-12"},
		{"big", big.NewFloat(1e20), 10, "1E20"},
		{"bigdigits", big.NewFloat(123456), 3, "1.23E5"},
		{"carry", big.NewFloat(999.96), 4, "1000"},
		{"round", big.NewFloat(2.0 / 3), 5, "0.66667"},
		{"mindigits", big.NewFloat(7.6), 0, "8"},
		{"float64", big.NewFloat(math.MaxFloat64), 17, "1.7976931348623157E308"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, calcengine.Format(c.x, c.digits))
		})
	}
}
