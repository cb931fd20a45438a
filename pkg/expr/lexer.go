package expr

import (
	"strconv"
	"strings"
)

// tokenType is the kind of an expression token.
type tokenType int

const (
	tokLiteral tokenType = iota // `text` or -1.5
	tokIdent                    // a.b.c
	tokCall                     // ident(args) after reduction
	tokDollar                   // "$"
	tokColon                    // ":"
	tokArrow                    // "->"
	tokLParen                   // "("
	tokRParen                   // ")"
	tokComma                    // ","
	tokSpace                    // run of whitespace
	tokOther                    // anything else
)

// token is one lexical token. Literal holds the parsed value of literals;
// call holds the reduced call of tokCall.
type token struct {
	typ     tokenType
	lexeme  string
	literal any
	call    *Call
}

// isStructural reports whether whitespace next to t is insignificant.
func (t token) isStructural() bool {
	switch t.typ {
	case tokArrow, tokLParen, tokRParen, tokComma:
		return true
	}
	return false
}

func isWord(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// lex splits input into tokens. Backtick strings are opaque, so structural
// characters inside them never count as punctuation.
func lex(input string) []token {
	var toks []token
	for i := 0; i < len(input); {
		c := input[i]
		start := i
		switch {
		case c == '`':
			if end := strings.IndexByte(input[i+1:], '`'); end >= 0 {
				text := input[i+1 : i+1+end]
				i += end + 2
				toks = append(toks, token{typ: tokLiteral, lexeme: input[start:i], literal: text})
				continue
			}
			i++
			toks = append(toks, token{typ: tokOther, lexeme: "`"})
		case isDigit(c) || c == '-' && i+1 < len(input) && isDigit(input[i+1]):
			i = scanNumber(input, i)
			f, _ := strconv.ParseFloat(input[start:i], 64)
			toks = append(toks, token{typ: tokLiteral, lexeme: input[start:i], literal: f})
		case isWord(c) || c == '.':
			for i < len(input) && (isWord(input[i]) || input[i] == '.') {
				i++
			}
			toks = append(toks, token{typ: tokIdent, lexeme: input[start:i]})
		case c == '-' && i+1 < len(input) && input[i+1] == '>':
			i += 2
			toks = append(toks, token{typ: tokArrow, lexeme: "->"})
		case isSpace(c):
			for i < len(input) && isSpace(input[i]) {
				i++
			}
			toks = append(toks, token{typ: tokSpace, lexeme: input[start:i]})
		default:
			i++
			toks = append(toks, token{typ: punctuation(c), lexeme: input[start:i]})
		}
	}
	return toks
}

// scanNumber returns the end of the number starting at i: -?\d+(\.\d+)?
func scanNumber(input string, i int) int {
	if input[i] == '-' {
		i++
	}
	for i < len(input) && isDigit(input[i]) {
		i++
	}
	if i+1 < len(input) && input[i] == '.' && isDigit(input[i+1]) {
		i++
		for i < len(input) && isDigit(input[i]) {
			i++
		}
	}
	return i
}

func punctuation(c byte) tokenType {
	switch c {
	case '$':
		return tokDollar
	case ':':
		return tokColon
	case '(':
		return tokLParen
	case ')':
		return tokRParen
	case ',':
		return tokComma
	default:
		return tokOther
	}
}

// trimStructural drops whitespace adjacent to "(", ")", "," and "->".
func trimStructural(toks []token) []token {
	out := make([]token, 0, len(toks))
	for i, t := range toks {
		if t.typ == tokSpace {
			if i > 0 && toks[i-1].isStructural() || i+1 < len(toks) && toks[i+1].isStructural() {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// reduce folds ident(args) into call tokens. An argument list holds only
// literals or empty slots; anything else is an error. An identifier not
// followed by "(" stays an identifier.
func reduce(input string, toks []token) ([]token, error) {
	out := make([]token, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.typ != tokIdent || i+1 >= len(toks) || toks[i+1].typ != tokLParen {
			out = append(out, t)
			continue
		}
		end := -1
		for j := i + 2; j < len(toks); j++ {
			if toks[j].typ == tokRParen {
				end = j
				break
			}
		}
		if end < 0 {
			out = append(out, t)
			continue
		}
		args, err := parseArgs(input, toks[i+2:end])
		if err != nil {
			return nil, err
		}
		out = append(out, token{typ: tokCall, lexeme: t.lexeme, call: &Call{Name: t.lexeme, Args: args}})
		i = end
	}
	return out, nil
}

// parseArgs reads a comma separated argument list. An empty list has no
// arguments; an empty slot in a non-empty list is nil.
func parseArgs(input string, toks []token) ([]any, error) {
	if len(toks) == 0 || len(toks) == 1 && toks[0].typ == tokSpace {
		return nil, nil
	}
	var args []any
	var slot []token
	flush := func() error {
		switch {
		case len(slot) == 0:
			args = append(args, nil)
		case len(slot) == 1 && slot[0].typ == tokLiteral:
			args = append(args, slot[0].literal)
		default:
			return syntaxError(input, "call arguments must be literals")
		}
		slot = slot[:0]
		return nil
	}
	for _, t := range toks {
		if t.typ == tokComma {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		slot = append(slot, t)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return args, nil
}

// tokenize runs the lexer, whitespace trimming and call reduction.
func tokenize(input string) ([]token, error) {
	toks, err := reduce(input, trimStructural(lex(input)))
	if err != nil {
		return nil, err
	}
	for _, t := range toks {
		if t.typ != tokIdent && t.typ != tokCall {
			continue
		}
		if !validPath(t.lexeme) {
			return nil, syntaxError(input, "malformed identifier "+strconv.Quote(t.lexeme))
		}
	}
	return toks, nil
}

// validPath reports whether every dot separated segment is a non-empty run
// of letters, digits and underscores.
func validPath(s string) bool {
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			return false
		}
		for i := 0; i < len(seg); i++ {
			if !isWord(seg[i]) {
				return false
			}
		}
	}
	return true
}
