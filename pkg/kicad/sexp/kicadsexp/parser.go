package kicadsexp

import (
	"fmt"
	"io"
	"strings"
)

// Parser parses S-expressions from a lexer
type Parser struct {
	lexer   *Lexer
	current Token
}

// NewParser creates a new parser from an io.Reader
func NewParser(r io.Reader) *Parser {
	return &Parser{
		lexer: NewLexer(r),
	}
}

// Parse parses every top-level S-expression in r
func Parse(r io.Reader) ([]Sexp, error) {
	return NewParser(r).ParseAll()
}

// ParseString is Parse for in-memory input
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}

// ParseAll parses all top-level S-expressions from the input
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp
	for {
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.current.Type == TokenEOF {
			return result, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
	}
}

func (p *Parser) next() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *Parser) parseExpr() (Sexp, error) {
	switch p.current.Type {
	case TokenLeftParen:
		return p.parseList()
	case TokenSymbol:
		return Symbol(p.current.Value), nil
	case TokenString:
		return String(p.current.Value), nil
	case TokenRightParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", p.current.Line)
	}
	return nil, fmt.Errorf("line %d: unexpected EOF", p.current.Line)
}

func (p *Parser) parseList() (Sexp, error) {
	start := p.current.Line
	list := &List{}
	for {
		if err := p.next(); err != nil {
			return nil, err
		}
		switch p.current.Type {
		case TokenRightParen:
			return list, nil
		case TokenEOF:
			return nil, fmt.Errorf("line %d: unexpected EOF in list", start)
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, elem)
	}
}
