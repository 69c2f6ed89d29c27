package calcengine

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal literal.
	tokenNum
	// tokenOp is an operator.
	tokenOp
	// tokenFunc is a function name.
	tokenFunc
	// tokenConst is a named constant, π or e.
	tokenConst
	// tokenOpen is an open paren.
	tokenOpen
	// tokenClose is a close paren.
	tokenClose
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenOp:
		return "Op"
	case tokenFunc:
		return "Func"
	case tokenConst:
		return "Const"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be operators. The
// keypad glyphs ×, ÷ and − are accepted as spellings of *, / and -.
const Operators = "+-*/^#×÷−"

// canonop maps each operator rune to the text of its token.
var canonop = map[rune]string{
	'+': "+",
	'-': "-",
	'−': "-",
	'*': "*",
	'×': "*",
	'/': "/",
	'÷': "/",
	'^': "^",
	'#': "#",
}

// identifiers lists every name the lexer knows, longest first, so that
// matching the first entry that prefixes the input is a longest match.
var identifiers = []struct {
	name string
	kind tokenKind
}{
	{"factorial", tokenFunc},
	{"arcsin", tokenFunc},
	{"arccos", tokenFunc},
	{"arctan", tokenFunc},
	{"logten", tokenFunc},
	{"sqrt", tokenFunc},
	{"exp", tokenFunc},
	{"log", tokenFunc},
	{"sin", tokenFunc},
	{"cos", tokenFunc},
	{"tan", tokenFunc},
	{"ln", tokenFunc},
	{"pi", tokenConst},
	{"π", tokenConst},
	{"e", tokenConst},
}

type lexer struct {
	src string
	// off is the byte offset of the next rune.
	off int
	// col is the 1-based rune column of the next rune.
	col int
}

func lex(src string) *lexer {
	return &lexer{src: src, col: 1}
}

// tokenize scans all of src. The result always ends with an EOF token
// unless there is an error.
func tokenize(src string) ([]lexToken, error) {
	l := lex(src)
	var toks []lexToken
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

// peekRune returns the next rune and its size without consuming it. The
// size is 0 at the end of input.
func (l *lexer) peekRune() (rune, int) {
	if l.off >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.off:])
}

// advance consumes n bytes spanning runes runes.
func (l *lexer) advance(n, runes int) {
	l.off += n
	l.col += runes
}

// next scans the next token from the input. At the end of input, the result
// is an EOF token.
func (l *lexer) next() (lexToken, error) {
	for {
		r, sz := l.peekRune()
		if sz == 0 || !unicode.IsSpace(r) {
			break
		}
		l.advance(sz, 1)
	}
	tok := lexToken{pos: l.col}
	r, sz := l.peekRune()
	switch {
	case sz == 0:
		tok.kind = tokenEOF
		return tok, nil
	case '0' <= r && r <= '9', r == '.':
		return l.scanNum(tok)
	case r == '(':
		l.advance(sz, 1)
		tok.text = "("
		tok.kind = tokenOpen
		return tok, nil
	case r == ')':
		l.advance(sz, 1)
		tok.text = ")"
		tok.kind = tokenClose
		return tok, nil
	}
	if op, ok := canonop[r]; ok {
		l.advance(sz, 1)
		tok.text = op
		tok.kind = tokenOp
		return tok, nil
	}
	rest := l.src[l.off:]
	for _, id := range identifiers {
		if strings.HasPrefix(rest, id.name) {
			l.advance(len(id.name), utf8.RuneCountInString(id.name))
			tok.text = id.name
			tok.kind = id.kind
			return tok, nil
		}
	}
	if unicode.IsLetter(r) {
		// Report the whole unknown word rather than its first letter.
		n := 0
		for _, c := range rest {
			if !unicode.IsLetter(c) {
				break
			}
			n++
		}
		return tok, &LexError{Text: string([]rune(rest)[:n]), Kind: "identifier", Col: tok.pos}
	}
	return tok, &LexError{Text: string(r), Col: tok.pos}
}

// scanNum scans a decimal literal: digits with at most one decimal point.
func (l *lexer) scanNum(tok lexToken) (lexToken, error) {
	start := l.off
	var dig, dot bool
	for {
		r, sz := l.peekRune()
		if sz == 0 {
			break
		}
		if r == '.' {
			if dot {
				return tok, &LexError{Text: l.src[start:l.off] + ".", Kind: "number", Col: tok.pos}
			}
			dot = true
		} else if '0' <= r && r <= '9' {
			dig = true
		} else {
			break
		}
		l.advance(sz, 1)
	}
	if !dig {
		return tok, &LexError{Text: l.src[start:l.off], Kind: "number", Col: tok.pos}
	}
	tok.text = l.src[start:l.off]
	tok.kind = tokenNum
	return tok, nil
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "identifier", or the empty string if no token kind had been decided.
	Kind string
	// Col is the column of the first rune of the invalid token.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
