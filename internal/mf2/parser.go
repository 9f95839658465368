package mf2

import (
	"strconv"

	"github.com/triesap/mf2-i18n/internal/core"
)

// ParseError is a malformed-syntax diagnostic from the parser.
type ParseError struct {
	Message string
	Span    Span
}

func (e *ParseError) Error() string { return e.Message }
func (e *ParseError) Unwrap() error { return core.ErrInput }

// ParseMessage lexes and parses a full MF2 message body.
func ParseMessage(input string) (Message, error) {
	tokens, err := LexAll(input)
	if err != nil {
		le := err.(*LexError)
		return Message{}, &ParseError{Message: le.Message, Span: le.Span}
	}
	p := &parser{tokens: tokens}
	return p.parseMessage(false)
}

type parser struct {
	tokens []Token
	index  int
}

func (p *parser) parseMessage(stopOnRBrace bool) (Message, error) {
	var segments []Segment
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}
		switch tok.Kind {
		case TokText:
			p.next()
			segments = append(segments, Segment{IsText: true, Text: tok.Value, Span: tok.Span})
		case TokLBrace:
			p.next()
			expr, err := p.parseExpr()
			if err != nil {
				return Message{}, err
			}
			segments = append(segments, Segment{Expr: expr, Span: expr.Span})
		case TokRBrace:
			if stopOnRBrace {
				return Message{Segments: segments}, nil
			}
			return Message{}, p.err("unexpected closing brace", tok.Span)
		default:
			return Message{}, p.err("unexpected token in message", tok.Span)
		}
	}
	return Message{Segments: segments}, nil
}

func (p *parser) parseExpr() (Expr, error) {
	start, ok := p.peekSpan()
	if !ok {
		start = Span{Line: 1, Column: 1}
	}
	if _, err := p.expect(TokDollar); err != nil {
		return Expr{}, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return Expr{}, err
	}
	formatter := ""
	if p.peekIs(TokColon) {
		p.next()
		formatter, err = p.expectIdent()
		if err != nil {
			return Expr{}, err
		}
	}

	if p.peekIs(TokArrow) {
		p.next()
		cases, err := p.parseCases()
		if err != nil {
			return Expr{}, err
		}
		end, err := p.expect(TokRBrace)
		if err != nil {
			return Expr{}, err
		}
		kind := SelectPlain
		if formatter == "plural" {
			kind = SelectPlural
		}
		for _, c := range cases {
			if c.Key.Kind == CaseExact {
				kind = SelectPlural
			}
		}
		return Expr{
			Kind:       ExprSelect,
			Selector:   name,
			Cases:      cases,
			SelectKind: kind,
			Span:       spanMerge(start, end.Span),
		}, nil
	}

	end, err := p.expect(TokRBrace)
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: ExprVariable, Name: name, Formatter: formatter, Span: spanMerge(start, end.Span)}, nil
}

func (p *parser) parseCases() ([]SelectCase, error) {
	var cases []SelectCase
	for {
		tok, ok := p.peek()
		if !ok || tok.Kind == TokRBrace {
			break
		}
		isDefault := false
		if p.peekIs(TokStar) {
			p.next()
			isDefault = true
		}
		if _, err := p.expect(TokLBracket); err != nil {
			return nil, err
		}
		key, err := p.parseCaseKey()
		if err != nil {
			return nil, err
		}
		keyEnd, err := p.expect(TokRBracket)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokLBrace); err != nil {
			return nil, err
		}
		value, err := p.parseMessage(true)
		if err != nil {
			return nil, err
		}
		endTok, err := p.expect(TokRBrace)
		if err != nil {
			return nil, err
		}
		cases = append(cases, SelectCase{
			Key:       key,
			Value:     value,
			IsDefault: isDefault,
			Span:      spanMerge(keyEnd.Span, endTok.Span),
		})
	}
	return cases, nil
}

func (p *parser) parseCaseKey() (CaseKey, error) {
	if p.peekIs(TokEquals) {
		p.next()
		numTok, err := p.expectNumber()
		if err != nil {
			return CaseKey{}, err
		}
		n, convErr := strconv.ParseUint(numTok, 10, 32)
		if convErr != nil {
			sp, _ := p.peekSpan()
			return CaseKey{}, p.err("invalid exact number", sp)
		}
		return CaseKey{Kind: CaseExact, Exact: uint32(n)}, nil
	}
	tok, ok := p.peek()
	if ok {
		switch tok.Kind {
		case TokIdent:
			p.next()
			if tok.Value == "other" {
				return CaseKey{Kind: CaseOther}, nil
			}
			return CaseKey{Kind: CaseIdent, Ident: tok.Value}, nil
		case TokNumber:
			p.next()
			return CaseKey{Kind: CaseIdent, Ident: tok.Value}, nil
		}
	}
	sp, _ := p.peekSpan()
	return CaseKey{}, p.err("expected case key", sp)
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok, ok := p.next()
	if !ok {
		return Token{}, p.err("unexpected eof", Span{Line: 1, Column: 1})
	}
	if tok.Kind != kind {
		return Token{}, p.err("unexpected token", tok.Span)
	}
	return tok, nil
}

func (p *parser) expectIdent() (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", p.err("unexpected eof", Span{Line: 1, Column: 1})
	}
	if tok.Kind != TokIdent {
		return "", p.err("expected identifier", tok.Span)
	}
	return tok.Value, nil
}

func (p *parser) expectNumber() (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", p.err("unexpected eof", Span{Line: 1, Column: 1})
	}
	if tok.Kind != TokNumber {
		return "", p.err("expected number", tok.Span)
	}
	return tok.Value, nil
}

func (p *parser) peek() (Token, bool) {
	if p.index >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.index], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.index++
	}
	return tok, ok
}

func (p *parser) peekIs(kind TokenKind) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == kind
}

func (p *parser) peekSpan() (Span, bool) {
	tok, ok := p.peek()
	if !ok {
		return Span{}, false
	}
	return tok.Span, true
}

func (p *parser) err(message string, span Span) error {
	return &ParseError{Message: message, Span: span}
}

func spanMerge(start, end Span) Span {
	return Span{Start: start.Start, End: end.End, Line: start.Line, Column: start.Column}
}
