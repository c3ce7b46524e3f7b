// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"strings"

	"github.com/pkg/errors"
)

// Prefix-form parser: `name = (op arg ...)`, operators
// and/or/xor/not, identifiers matching [A-Za-z_][A-Za-z0-9_\[\]]*,
// whitespace-insensitive. Grounded on the recursive-descent structure of
// Biddy_Managed_Eval2/createBddFromBTree in original_source/biddyInOut.c,
// re-expressed as a direct one-pass recursion over a token slice instead of
// an intermediate binary-tree container, since Go's recursion needs no such
// staging structure to preserve sharing: every leaf still resolves through
// findOrAddVariable, so repeated names reuse the same canonical edge.

type prefixParser struct {
	m      *Manager
	tokens []string
	pos    int
}

// ParsePrefix parses one `name = (op arg ...)` statement and registers the
// result as a named formula, creating any variable seen for the first time.
// It returns the formula's edge.
func (m *Manager) ParsePrefix(src string) (Edge, error) {
	tokens := tokenizePrefix(src)
	if len(tokens) < 2 || tokens[1] != "=" {
		return NullEdge, errors.Wrap(ErrParse, "prefix: expected 'name = (...)'")
	}
	name := tokens[0]
	p := &prefixParser{m: m, tokens: tokens, pos: 2}
	f, err := p.expr()
	if err != nil {
		return NullEdge, err
	}
	if p.pos != len(p.tokens) {
		return NullEdge, errors.Wrapf(ErrParse, "prefix: unexpected trailing token %q", p.tokens[p.pos])
	}
	if err := m.KeepFormulaUntilPurge(name, f); err != nil {
		return NullEdge, err
	}
	return f, nil
}

func (p *prefixParser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *prefixParser) expr() (Edge, error) {
	tok, ok := p.peek()
	if !ok {
		return NullEdge, errors.Wrap(ErrParse, "prefix: unexpected end of input")
	}
	if tok != "(" {
		return p.leaf(tok)
	}
	p.pos++ // consume "("
	op, ok := p.peek()
	if !ok {
		return NullEdge, errors.Wrap(ErrParse, "prefix: unclosed parenthesis")
	}
	p.pos++

	args := make([]Edge, 0, 2)
	for {
		tok, ok := p.peek()
		if !ok {
			return NullEdge, errors.Wrap(ErrParse, "prefix: unclosed parenthesis")
		}
		if tok == ")" {
			p.pos++
			break
		}
		arg, err := p.expr()
		if err != nil {
			return NullEdge, err
		}
		args = append(args, arg)
	}
	return p.reduce(op, args)
}

func (p *prefixParser) leaf(tok string) (Edge, error) {
	p.pos++
	if !isIdentifier(tok) {
		return NullEdge, errors.Wrapf(ErrParse, "prefix: invalid identifier %q", tok)
	}
	v, err := p.m.findOrAddVariable(tok)
	if err != nil {
		return NullEdge, err
	}
	return p.m.Ithvar(int(v))
}

func (p *prefixParser) reduce(op string, args []Edge) (Edge, error) {
	switch op {
	case "not":
		if len(args) != 1 {
			return NullEdge, errors.Wrap(ErrParse, "prefix: not takes one argument")
		}
		return p.m.Not(args[0])
	case "and":
		return p.reduceBinary(args, p.m.And)
	case "or":
		return p.reduceBinary(args, p.m.Or)
	case "xor":
		return p.reduceBinary(args, p.m.Xor)
	default:
		return NullEdge, errors.Wrapf(ErrParse, "prefix: unknown operator %q", op)
	}
}

func (p *prefixParser) reduceBinary(args []Edge, op func(Edge, Edge) (Edge, error)) (Edge, error) {
	if len(args) < 2 {
		return NullEdge, errors.Wrap(ErrParse, "prefix: operator takes at least two arguments")
	}
	res := args[0]
	for _, a := range args[1:] {
		var err error
		res, err = op(res, a)
		if err != nil {
			return NullEdge, err
		}
	}
	return res, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9', r == '[', r == ']':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// tokenizePrefix splits a prefix-form statement into tokens, treating "(",
// ")" and "=" as standalone tokens regardless of surrounding whitespace.
func tokenizePrefix(src string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range src {
		switch {
		case r == '(', r == ')', r == '=':
			flush()
			tokens = append(tokens, string(r))
		case r == ' ', r == '\t', r == '\n', r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}
