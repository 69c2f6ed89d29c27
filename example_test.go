package calcengine_test

import (
	"errors"
	"fmt"

	"github.com/zephyrtronium/calcengine"
)

func Example() {
	ctx := calcengine.NewContext(calcengine.Angle(calcengine.Degrees))
	for _, raw := range []string{"2π", "√9+5!", "50+10%", "sin(30)", "1÷0", "(3!)!"} {
		r, err := ctx.Calculate(raw, ".", ",")
		if err != nil {
			fmt.Printf("%-8s = %v\n", raw, err)
			continue
		}
		fmt.Printf("%-8s = %s\n", raw, calcengine.Format(r, 12))
	}

	// Output:
	// 2π       = 6.28318530718
	// √9+5!    = 123
	// 50+10%   = 55
	// sin(30)  = 0.5
	// 1÷0      = division by zero
	// (3!)!    = 720
}

func ExampleNormalize() {
	fmt.Println(calcengine.Normalize("1.234,5×2√9", ",", "."))
	fmt.Println(calcengine.Normalize("(3!)!+20%", ".", ","))
	// Output:
	// 1234.5*2*sqrt(9)
	// (factorial(factorial(3)))*(1+((20)/100))
}

func ExampleParse() {
	e, err := calcengine.Parse("1+2*3^-4")
	if err != nil {
		panic(err)
	}
	fmt.Println(e)
	// Output:
	// ([1] + [(2) × ([3] ^ [-(4)])])
}

func ExampleSignal() {
	_, err := calcengine.Evaluate("sqrt(-1)")
	fmt.Println(errors.Is(err, calcengine.NotANumber))
	fmt.Println(err)
	// Output:
	// true
	// argument -1 is outside the domain of sqrt
}
