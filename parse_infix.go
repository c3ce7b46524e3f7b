// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"strings"

	"github.com/pkg/errors"
)

// Infix-form parser: operators and parentheses, precedence
// `~` (highest) > `&` > `|`/`^` > `=>`/`<=>` (lowest), statement terminated
// by `;`. Every identifier becomes a variable on first sight. Implemented as
// a standard precedence-climbing recursive descent, grounded on the same
// Eval1/Eval2 contract in original_source/biddyInOut.c that parse_prefix.go
// draws on (find-or-add per identifier, single manager-owned result).

type infixParser struct {
	m      *Manager
	tokens []string
	pos    int
}

// ParseInfix parses one `expr ;` statement and returns its edge. Identifiers
// not yet declared as variables are created, in first-seen order.
func (m *Manager) ParseInfix(src string) (Edge, error) {
	p := &infixParser{m: m, tokens: tokenizeInfix(src)}
	f, err := p.biimp()
	if err != nil {
		return NullEdge, err
	}
	tok, ok := p.peek()
	if !ok || tok != ";" {
		return NullEdge, errors.Wrap(ErrParse, "infix: statement must end with ';'")
	}
	p.pos++
	if p.pos != len(p.tokens) {
		return NullEdge, errors.Wrapf(ErrParse, "infix: unexpected trailing token %q", p.tokens[p.pos])
	}
	return f, nil
}

func (p *infixParser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

// biimp: imp (<=> imp)*. imp already consumes every `<=>` at its own level,
// so this loop finds none left over.
func (p *infixParser) biimp() (Edge, error) {
	lhs, err := p.imp()
	if err != nil {
		return NullEdge, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok != "<=>" {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.imp()
		if err != nil {
			return NullEdge, err
		}
		lhs, err = p.m.Biimp(lhs, rhs)
		if err != nil {
			return NullEdge, err
		}
	}
}

// imp: or ((=> | <=>) or)*  (implication treated as left-associative at this
// tier, alongside <=>, since they share one precedence level)
func (p *infixParser) imp() (Edge, error) {
	lhs, err := p.orxor()
	if err != nil {
		return NullEdge, err
	}
	for {
		tok, ok := p.peek()
		if !ok || (tok != "=>" && tok != "<=>") {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.orxor()
		if err != nil {
			return NullEdge, err
		}
		if tok == "=>" {
			lhs, err = p.m.Imp(lhs, rhs)
		} else {
			lhs, err = p.m.Biimp(lhs, rhs)
		}
		if err != nil {
			return NullEdge, err
		}
	}
}

// orxor: and ((| | ^) and)*
func (p *infixParser) orxor() (Edge, error) {
	lhs, err := p.and()
	if err != nil {
		return NullEdge, err
	}
	for {
		tok, ok := p.peek()
		if !ok || (tok != "|" && tok != "^") {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.and()
		if err != nil {
			return NullEdge, err
		}
		if tok == "|" {
			lhs, err = p.m.Or(lhs, rhs)
		} else {
			lhs, err = p.m.Xor(lhs, rhs)
		}
		if err != nil {
			return NullEdge, err
		}
	}
}

// and: not (& not)*
func (p *infixParser) and() (Edge, error) {
	lhs, err := p.not()
	if err != nil {
		return NullEdge, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok != "&" {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.not()
		if err != nil {
			return NullEdge, err
		}
		lhs, err = p.m.And(lhs, rhs)
		if err != nil {
			return NullEdge, err
		}
	}
}

// not: ~ not | atom
func (p *infixParser) not() (Edge, error) {
	tok, ok := p.peek()
	if ok && tok == "~" {
		p.pos++
		inner, err := p.not()
		if err != nil {
			return NullEdge, err
		}
		return p.m.Not(inner)
	}
	return p.atom()
}

// atom: '(' biimp ')' | identifier
func (p *infixParser) atom() (Edge, error) {
	tok, ok := p.peek()
	if !ok {
		return NullEdge, errors.Wrap(ErrParse, "infix: unexpected end of input")
	}
	if tok == "(" {
		p.pos++
		f, err := p.biimp()
		if err != nil {
			return NullEdge, err
		}
		tok, ok = p.peek()
		if !ok || tok != ")" {
			return NullEdge, errors.Wrap(ErrParse, "infix: unclosed parenthesis")
		}
		p.pos++
		return f, nil
	}
	p.pos++
	if !isIdentifier(tok) {
		return NullEdge, errors.Wrapf(ErrParse, "infix: invalid identifier %q", tok)
	}
	v, err := p.m.findOrAddVariable(tok)
	if err != nil {
		return NullEdge, err
	}
	return p.m.Ithvar(int(v))
}

// tokenizeInfix splits src into identifier/operator/punctuation tokens.
func tokenizeInfix(src string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == ' ', r == '\t', r == '\n', r == '\r':
			flush()
		case r == '<' && i+2 < len(runes) && runes[i+1] == '=' && runes[i+2] == '>':
			flush()
			tokens = append(tokens, "<=>")
			i += 2
		case r == '=' && i+1 < len(runes) && runes[i+1] == '>':
			flush()
			tokens = append(tokens, "=>")
			i++
		case r == '&', r == '|', r == '^', r == '~', r == '(', r == ')', r == ';':
			flush()
			tokens = append(tokens, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}
