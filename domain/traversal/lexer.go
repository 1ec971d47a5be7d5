package traversal

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenDot
	tokenLParen
	tokenRParen
	tokenComma
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenDot:
		return "'.'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenComma:
		return "','"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a fragment into tokens. String literals may use single or
// double quotes and support backslash escapes.
func lex(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '.':
			tokens = append(tokens, token{kind: tokenDot, text: ".", pos: i})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ",", pos: i})
			i++
		case r == '\'' || r == '"':
			text, next, err := lexString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, text: text, pos: i})
			i = next
		case unicode.IsDigit(r) || (r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			i++
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) || runes[i] == 'e' || runes[i] == 'E') {
				i++
			}
			if i < len(runes) && strings.ContainsRune("lLdDfF", runes[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: string(runes[start:i]), pos: start})
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: string(runes[start:i]), pos: start})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at %d", ErrSyntax, r, i)
		}
	}

	return append(tokens, token{kind: tokenEOF, pos: len(runes)}), nil
}

func lexString(runes []rune, start int) (string, int, error) {
	quote := runes[start]
	var sb strings.Builder

	for i := start + 1; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			switch runes[i] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(runes[i])
			}
		case r == quote:
			return sb.String(), i + 1, nil
		default:
			sb.WriteRune(r)
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated string starting at %d", ErrSyntax, start)
}
