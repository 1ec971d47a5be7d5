package traversal

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MaxFragmentLength = 2000
	MaxDepth          = 6
	MaxSteps          = 64
)

// Parse turns a fragment into a validated Traversal. A leading "g." source
// prefix and a trailing semicolon are tolerated. A fragment without a
// terminal step is given toList.
func Parse(fragment string) (*Traversal, error) {
	text := strings.TrimSpace(fragment)
	text = strings.TrimSpace(strings.TrimSuffix(text, ";"))
	if text == "" {
		return nil, ErrEmptyFragment
	}
	if len(text) > MaxFragmentLength {
		return nil, fmt.Errorf("%w: fragment exceeds %d characters", ErrTooComplex, MaxFragmentLength)
	}

	toks, err := lex(text)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: toks}
	if p.peek().kind == tokenIdent && p.peek().text == "g" && p.peekAt(1).kind == tokenDot {
		p.pos += 2
	}

	steps, err := p.parseChain(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, fmt.Errorf("%w: unexpected %s at %d", ErrSyntax, tok.kind, tok.pos)
	}

	t := &Traversal{Steps: steps, Terminal: TerminalToList}
	last := steps[len(steps)-1]
	if term, ok := terminals[last.Name]; ok {
		if len(last.Args) > 0 {
			return nil, fmt.Errorf("%w: %s() takes no arguments", ErrSyntax, last.Name)
		}
		t.Terminal = term
		t.Steps = steps[:len(steps)-1]
	}

	if len(t.Steps) == 0 || !allowedSteps[t.Steps[0].Name].start {
		return nil, fmt.Errorf("%w: traversal must start with V() or E()", ErrSyntax)
	}
	if err := validate(t.Steps); err != nil {
		return nil, err
	}
	return t, nil
}

// MustParse is Parse for fragments known to be valid.
func MustParse(fragment string) *Traversal {
	t, err := Parse(fragment)
	if err != nil {
		panic(err)
	}
	return t
}

func validate(steps []Step) error {
	for _, step := range steps {
		if _, ok := terminals[step.Name]; ok {
			return fmt.Errorf("%w: %s() must be the last step", ErrSyntax, step.Name)
		}

		rule, ok := allowedSteps[step.Name]
		if !ok {
			return fmt.Errorf("%w: %s()", ErrStepNotAllowed, step.Name)
		}
		if len(step.Args) < rule.minArgs || (rule.maxArgs != unbounded && len(step.Args) > rule.maxArgs) {
			return fmt.Errorf("%w: %s() does not accept %d arguments", ErrSyntax, step.Name, len(step.Args))
		}

		for _, arg := range step.Args {
			if err := validateValue(arg); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateValue(v Value) error {
	switch v.Kind {
	case KindTraversal:
		return validate(v.Traversal.Steps)
	case KindPredicate:
		for _, arg := range v.Predicate.Args {
			if arg.Kind == KindTraversal || arg.Kind == KindPredicate {
				return fmt.Errorf("%w: %s.%s() takes literal arguments", ErrSyntax, v.Predicate.Namespace, v.Predicate.Name)
			}
		}
	}
	return nil
}

type parser struct {
	tokens []token
	pos    int
	steps  int
}

func (p *parser) peek() token {
	return p.peekAt(0)
}

func (p *parser) peekAt(offset int) token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *parser) next() token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, fmt.Errorf("%w: expected %s at %d, found %s", ErrSyntax, kind, tok.pos, tok.kind)
	}
	return tok, nil
}

func (p *parser) parseChain(depth int) ([]Step, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrTooComplex, MaxDepth)
	}

	var steps []Step
	for {
		step, err := p.parseStep(depth)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)

		p.steps++
		if p.steps > MaxSteps {
			return nil, fmt.Errorf("%w: more than %d steps", ErrTooComplex, MaxSteps)
		}

		if p.peek().kind != tokenDot {
			return steps, nil
		}
		p.next()
	}
}

func (p *parser) parseStep(depth int) (Step, error) {
	name, err := p.expect(tokenIdent)
	if err != nil {
		return Step{}, err
	}
	if _, err := p.expect(tokenLParen); err != nil {
		return Step{}, err
	}

	args, err := p.parseArgs(depth)
	if err != nil {
		return Step{}, err
	}
	return Step{Name: name.text, Args: args}, nil
}

// parseArgs reads arguments up to and including the closing parenthesis.
func (p *parser) parseArgs(depth int) ([]Value, error) {
	if p.peek().kind == tokenRParen {
		p.next()
		return nil, nil
	}

	var args []Value
	for {
		v, err := p.parseValue(depth)
		if err != nil {
			return nil, err
		}
		args = append(args, v)

		tok := p.next()
		switch tok.kind {
		case tokenComma:
			continue
		case tokenRParen:
			return args, nil
		default:
			return nil, fmt.Errorf("%w: expected ',' or ')' at %d, found %s", ErrSyntax, tok.pos, tok.kind)
		}
	}
}

func (p *parser) parseValue(depth int) (Value, error) {
	tok := p.next()

	switch tok.kind {
	case tokenString:
		return Value{Kind: KindString, Str: tok.text}, nil
	case tokenNumber:
		return parseNumber(tok)
	case tokenIdent:
		return p.parseIdentValue(tok, depth)
	}
	return Value{}, fmt.Errorf("%w: unexpected %s at %d", ErrSyntax, tok.kind, tok.pos)
}

func (p *parser) parseIdentValue(tok token, depth int) (Value, error) {
	switch tok.text {
	case "true", "false":
		return Value{Kind: KindBool, Bool: tok.text == "true"}, nil
	case "null":
		return Value{Kind: KindNull}, nil
	case "__":
		if _, err := p.expect(tokenDot); err != nil {
			return Value{}, err
		}
		return p.parseAnonymous(depth)
	}

	if names, ok := predicates[tok.text]; ok && p.peek().kind == tokenDot {
		p.next()
		name, err := p.expect(tokenIdent)
		if err != nil {
			return Value{}, err
		}
		if !names[name.text] {
			return Value{}, fmt.Errorf("%w: predicate %s.%s", ErrStepNotAllowed, tok.text, name.text)
		}
		return p.parsePredicate(tok.text, name.text, depth)
	}

	if names, ok := tokens[tok.text]; ok && p.peek().kind == tokenDot {
		p.next()
		name, err := p.expect(tokenIdent)
		if err != nil {
			return Value{}, err
		}
		if !names[name.text] {
			return Value{}, fmt.Errorf("%w: unknown token %s.%s", ErrSyntax, tok.text, name.text)
		}
		return Value{Kind: KindToken, Token: Token{Namespace: tok.text, Name: name.text}}, nil
	}

	if p.peek().kind == tokenLParen {
		if ns, ok := predicateNamespace(tok.text); ok {
			return p.parsePredicate(ns, tok.text, depth)
		}
		// A bare step call starts an anonymous traversal.
		p.pos--
		return p.parseAnonymous(depth)
	}

	if t, ok := bareTokens[tok.text]; ok {
		return Value{Kind: KindToken, Token: t}, nil
	}
	return Value{}, fmt.Errorf("%w: unexpected identifier %q at %d", ErrSyntax, tok.text, tok.pos)
}

func (p *parser) parsePredicate(namespace, name string, depth int) (Value, error) {
	if _, err := p.expect(tokenLParen); err != nil {
		return Value{}, err
	}
	args, err := p.parseArgs(depth)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindPredicate, Predicate: &Predicate{Namespace: namespace, Name: name, Args: args}}, nil
}

func (p *parser) parseAnonymous(depth int) (Value, error) {
	steps, err := p.parseChain(depth + 1)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindTraversal, Traversal: &Traversal{Steps: steps}}, nil
}

func parseNumber(tok token) (Value, error) {
	text := tok.text
	isFloat := strings.ContainsAny(text, ".eE")

	switch suffix := text[len(text)-1]; suffix {
	case 'l', 'L':
		text = text[:len(text)-1]
	case 'd', 'D', 'f', 'F':
		text = text[:len(text)-1]
		isFloat = true
	}

	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: invalid number %q at %d", ErrSyntax, tok.text, tok.pos)
		}
		return Value{Kind: KindFloat, Float: f}, nil
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: invalid number %q at %d", ErrSyntax, tok.text, tok.pos)
	}
	return Value{Kind: KindInt, Int: n}, nil
}
