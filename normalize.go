package calcengine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize rewrites keypad input into a canonical expression: operator
// glyphs become ASCII, separators are resolved, implicit multiplication is
// made explicit, √X becomes sqrt(X), X! becomes factorial(X), percentages
// become divisions by 100, and unclosed parentheses are closed. Normalize
// never fails; anything it cannot make sense of is left for the tokenizer or
// parser to report.
//
// Normalizing a canonical expression leaves it unchanged.
func Normalize(raw, decimalSeparator, groupingSeparator string) string {
	s := substitute(raw, decimalSeparator, groupingSeparator)
	s = insertMultiplication(s)
	s = rewriteSqrt(s)
	s = rewriteFactorial(s)
	s = rewritePercent(s)
	return balance(s)
}

var glyphs = strings.NewReplacer("×", "*", "÷", "/", "−", "-")

// substitute maps operator glyphs to ASCII, removes whitespace and grouping
// separators, makes the decimal separator a point, and spells log as logten.
func substitute(s, dec, group string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = glyphs.Replace(s)
	if group != "" && group != dec {
		s = strings.ReplaceAll(s, group, "")
	}
	if dec != "" && dec != "." {
		s = strings.ReplaceAll(s, dec, ".")
	}
	return expandLog(s)
}

// expandLog replaces each log that is not already logten with logten.
func expandLog(s string) string {
	if !strings.Contains(s, "log") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for {
		k := strings.Index(s, "log")
		if k < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:k+len("log")])
		s = s[k+len("log"):]
		if !strings.HasPrefix(s, "ten") {
			b.WriteString("ten")
		}
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9' || r == '.'
}

// isLetter reports whether r can be part of a function or constant name
// spelled in ASCII.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// closesOperand reports whether r ends an operand without being a digit.
func closesOperand(r rune) bool {
	switch r {
	case ')', '!', '%', 'π':
		return true
	}
	return false
}

// isConstWord reports whether w names a constant.
func isConstWord(w []byte) bool {
	return string(w) == "e" || string(w) == "pi"
}

// insertMultiplication makes multiplication explicit where a product is
// written by juxtaposition, e.g. 2π, 3(4), (1)(2), 5!2 and 2sin(x).
func insertMultiplication(s string) string {
	out := make([]byte, 0, len(s)+len(s)/2)
	var prev rune
	// word is the start of the trailing run of ASCII letters in out.
	word := 0
	for _, r := range s {
		constWord := isLetter(prev) && isConstWord(out[word:])
		var star bool
		switch {
		case prev == 0:
		case r == '(':
			star = isDigit(prev) || closesOperand(prev) || constWord
		case isDigit(r):
			star = closesOperand(prev) || constWord
		case r == '√':
			star = !strings.ContainsRune("+-*/^#(√", prev)
		case r == 'π':
			star = isDigit(prev) || closesOperand(prev) || constWord
		case isLetter(r) && !isLetter(prev):
			star = isDigit(prev) || closesOperand(prev)
		}
		if star {
			out = append(out, '*')
		}
		if isLetter(r) && !isLetter(prev) {
			word = len(out)
		}
		out = utf8.AppendRune(out, r)
		prev = r
	}
	return string(out)
}

// closesRoot reports whether r ends the operand of a √ written without
// parentheses. last is the byte before r in the output.
func closesRoot(r rune, last byte) bool {
	switch r {
	case '*', '-', '/', '+', '^', '#', ')':
		return true
	case '(':
		// A paren after a name is a call and belongs to the operand.
		return !isLetter(rune(last))
	}
	return false
}

// rewriteSqrt rewrites √X as sqrt(X).
func rewriteSqrt(s string) string {
	if !strings.ContainsRune(s, '√') {
		return s
	}
	out := make([]byte, 0, len(s)+16)
	// open holds the real paren depth at which each synthetic paren opened.
	var open []int
	depth := 0
	for i, r := range s {
		for len(open) > 0 && open[len(open)-1] == depth {
			last := out[len(out)-1]
			if last == '(' || !closesRoot(r, last) {
				// A sign right after the synthetic paren is part of the
				// operand.
				break
			}
			out = append(out, ')')
			open = open[:len(open)-1]
		}
		switch r {
		case '√':
			out = append(out, "sqrt"...)
			if !strings.HasPrefix(s[i+len("√"):], "(") {
				out = append(out, '(')
				open = append(open, depth)
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
		}
		out = utf8.AppendRune(out, r)
	}
	for range open {
		out = append(out, ')')
	}
	return string(out)
}

// postfixStops are the bytes that end the operand of a postfix ! or %
// written without parentheses.
const postfixStops = "()*-/+^#%!"

// operandStart finds the start of the operand that ends at the end of b. If
// b ends with a parenthesized group, the operand is the group together with
// any function name in front of it. If there is no operand, the result is
// len(b).
func operandStart(b []byte) int {
	k := len(b)
	if k > 0 && b[k-1] == ')' {
		depth := 0
		for k--; k >= 0; k-- {
			switch b[k] {
			case ')':
				depth++
			case '(':
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if k < 0 {
			return len(b)
		}
		for k > 0 && isLetter(rune(b[k-1])) {
			k--
		}
		return k
	}
	for k > 0 && strings.IndexByte(postfixStops, b[k-1]) < 0 {
		k--
	}
	return k
}

// isGroup reports whether s is a single parenthesized group.
func isGroup(s string) bool {
	if len(s) < 2 || s[0] != '(' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			return i == len(s)-1
		}
	}
	return false
}

// rewriteFactorial rewrites X! as factorial(X), innermost first.
func rewriteFactorial(s string) string {
	if !strings.Contains(s, "!") {
		return s
	}
	out := make([]byte, 0, len(s)+16)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '!' {
			out = append(out, c)
			continue
		}
		k := operandStart(out)
		if k == len(out) {
			// Nothing to apply to. The tokenizer reports it.
			out = append(out, c)
			continue
		}
		arg := string(out[k:])
		out = append(out[:k], "factorial"...)
		if !isGroup(arg) {
			out = append(out, '(')
			out = append(out, arg...)
			out = append(out, ')')
			continue
		}
		out = append(out, arg...)
	}
	return string(out)
}

// rewritePercent rewrites percentages. A percentage added to or subtracted
// from a value is a percentage of that value, so 50+10% is 55; any other
// X% is X/100.
func rewritePercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	return expandPercent(percentOf(s))
}

// endsOperand reports whether c can be the last byte of an operand, making a
// following sign binary.
func endsOperand(c byte) bool {
	return isDigit(rune(c)) || isLetter(rune(c)) || c >= utf8.RuneSelf || strings.IndexByte(")%!", c) >= 0
}

// percentOf rewrites A op B% T as (A)*(1 op (B)% T) for the last % in s,
// where op is a binary + or - at the same paren depth, A extends to the start
// of the enclosing group, and T is the rest of the term after the %. A is
// written once, so the output grows linearly with the number of
// percentages. Text before the group, A and B are rewritten recursively.
func percentOf(s string) string {
	p := strings.LastIndexByte(s, '%')
	if p < 0 {
		return s
	}
	b := -1
	depth := 0
scan:
	for j := p - 1; j >= 0; j-- {
		switch s[j] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				break scan
			}
			depth--
		case '+', '-':
			if depth == 0 && j > 0 && endsOperand(s[j-1]) {
				b = j
				break scan
			}
		}
	}
	if b < 0 {
		return percentOf(s[:p]) + s[p:]
	}
	g := groupStart(s, b)
	e := termEnd(s, p+1)
	left := percentOf(s[g:b])
	arg := percentOf(s[b+1 : p])
	var r strings.Builder
	r.Grow(len(s) + 16)
	r.WriteString(percentOf(s[:g]))
	r.WriteByte('(')
	r.WriteString(left)
	r.WriteString(")*(1")
	r.WriteByte(s[b])
	r.WriteByte('(')
	r.WriteString(arg)
	r.WriteByte(')')
	r.WriteString(s[p:e])
	r.WriteByte(')')
	r.WriteString(s[e:])
	return r.String()
}

// termEnd finds the end of the term continuing at position i: the next
// binary + or - at the same paren depth, the close paren of the enclosing
// group, or the end of s.
func termEnd(s string, i int) int {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return j
			}
			depth--
		case '+', '-':
			if depth == 0 && endsOperand(s[j-1]) {
				return j
			}
		}
	}
	return len(s)
}

// groupStart finds the start of the contents of the group enclosing
// position b, or 0 at the top level.
func groupStart(s string, b int) int {
	depth := 0
	for j := b - 1; j >= 0; j-- {
		switch s[j] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				return j + 1
			}
			depth--
		}
	}
	return 0
}

// expandPercent rewrites each X% as (X/100).
func expandPercent(s string) string {
	out := make([]byte, 0, len(s)+16)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		k := operandStart(out)
		if k == len(out) {
			out = append(out, c)
			continue
		}
		arg := string(out[k:])
		out = append(out[:k], '(')
		out = append(out, arg...)
		out = append(out, "/100)"...)
	}
	return string(out)
}

// balance appends a close paren for each unclosed open paren.
func balance(s string) string {
	n := strings.Count(s, "(") - strings.Count(s, ")")
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(")", n)
}
