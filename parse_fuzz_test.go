//go:build go1.18
// +build go1.18

package calcengine_test

import (
	"testing"

	"github.com/zephyrtronium/calcengine"
)

func FuzzParse(f *testing.F) {
	f.Add("1+2*3")
	f.Add("sin(pi/2)^2")
	f.Add("((1)")
	f.Add("2 3")
	f.Add("1×2")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := calcengine.Parse(s)
		if err == nil && e == nil {
			t.Fatalf("Parse(%q) returned neither expression nor error", s)
		}
	})
}

func FuzzNormalize(f *testing.F) {
	f.Add("√9+5!", ".", ",")
	f.Add("50+10%", ".", ",")
	f.Add("1.234,5×2", ",", ".")
	f.Add("(3!)!", ".", ",")
	f.Fuzz(func(t *testing.T, raw, dec, group string) {
		s := calcengine.Normalize(raw, dec, group)
		// Parsing must not panic on anything normalization produces.
		calcengine.Parse(s)
	})
}
