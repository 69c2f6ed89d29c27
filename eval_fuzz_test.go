//go:build go1.18
// +build go1.18

package calcengine_test

import (
	"math/big"
	"testing"

	"github.com/zephyrtronium/calcengine"
)

func FuzzEvaluate(f *testing.F) {
	f.Add("1/0")
	f.Add("factorial(5.003)")
	f.Add("9^30#31")
	f.Add("(-8)^(1/3)")
	f.Add("sin(1e3)")
	f.Fuzz(func(t *testing.T, s string) {
		// Keep inputs cheap: a small magnitude bound and precision make any
		// expression fast to evaluate.
		r, err := calcengine.Evaluate(s, calcengine.Prec(20), calcengine.MaxMagnitude(big.NewFloat(1e30)))
		if err == nil && (r == nil || r.IsInf()) {
			t.Fatalf("Evaluate(%q) = %v with no error", s, r)
		}
	})
}
