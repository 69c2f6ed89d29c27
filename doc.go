// Package calcengine implements the arithmetic core of a keypad calculator.
//
// Input arrives the way people type it on a calculator: "2π", "√9+5!",
// "100+10%", "1,234.5×2". Normalize rewrites such text into a canonical
// expression with explicit multiplication, function calls in place of the
// √, ! and % glyphs, and balanced parentheses. Evaluate tokenizes, parses
// and evaluates a canonical expression with arbitrary-precision
// floating-point arithmetic.
//
// Mathematically undefined results are not panics and not flags. They are
// errors returned from Evaluate: DivisionByZero, Infinity and NotANumber
// are Signal values, so
//
//	v, err := calcengine.Evaluate("1/(2-2)")
//	if errors.Is(err, calcengine.DivisionByZero) {
//		// render nothing
//	}
//
// Malformed input is reported with typed errors that implement InputError
// and know the column where the problem starts.
//
// Contexts are immutable, so one Context can be shared by any number of
// goroutines.
package calcengine
