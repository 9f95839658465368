// Package mf2 implements a constrained-subset MessageFormat 2 lexer,
// recursive-descent parser, and validator, grounded on the byte-oriented
// dual-mode lexer and recursive parser this toolchain was distilled from.
package mf2

import (
	"fmt"

	"github.com/triesap/mf2-i18n/internal/core"
)

// Span is a 1-based (line, column) source location plus byte offsets.
type Span struct {
	Start, End    int
	Line, Column int
}

// TokenKind tags a lexical token.
type TokenKind uint8

const (
	TokText TokenKind = iota
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokDollar
	TokColon
	TokEquals
	TokComma
	TokStar
	TokArrow
	TokIdent
	TokNumber
)

// Token is a single lexed unit carrying its literal text and span.
type Token struct {
	Kind  TokenKind
	Value string
	Span  Span
}

// LexError is a malformed-input diagnostic from the lexer.
type LexError struct {
	Message string
	Span    Span
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

func (e *LexError) Unwrap() error { return core.ErrInput }

type lexer struct {
	input    string
	offset   int
	line     int
	column   int
	inExpr   bool
	exprDepth int
}

// LexAll tokenizes a full MF2 message body.
func LexAll(input string) ([]Token, error) {
	l := &lexer{input: input, line: 1, column: 1}
	var tokens []Token
	for l.offset < len(l.input) {
		var err error
		if l.inExpr {
			err = l.lexExprToken(&tokens)
		} else {
			err = l.lexTextToken(&tokens)
		}
		if err != nil {
			return nil, err
		}
	}
	if l.exprDepth > 0 {
		return nil, &LexError{Message: "unclosed brace", Span: l.singleSpan(l.offset)}
	}
	return tokens, nil
}

func (l *lexer) lexTextToken(tokens *[]Token) error {
	start := l.offset
	line, column := l.line, l.column
	for l.offset < len(l.input) {
		b := l.input[l.offset]
		if b == '{' || (b == '}' && l.exprDepth > 0) {
			if l.offset > start {
				*tokens = append(*tokens, Token{
					Kind: TokText, Value: l.input[start:l.offset],
					Span: Span{start, l.offset, line, column},
				})
			}
			sp := l.singleSpan(l.offset)
			if b == '{' {
				*tokens = append(*tokens, Token{Kind: TokLBrace, Value: "{", Span: sp})
				l.exprDepth++
			} else {
				*tokens = append(*tokens, Token{Kind: TokRBrace, Value: "}", Span: sp})
				l.exprDepth--
			}
			l.advance()
			l.inExpr = true
			return nil
		}
		l.advance()
	}
	if l.offset > start {
		*tokens = append(*tokens, Token{
			Kind: TokText, Value: l.input[start:l.offset],
			Span: Span{start, l.offset, line, column},
		})
	}
	return nil
}

func (l *lexer) lexExprToken(tokens *[]Token) error {
	l.skipWhitespace()
	if l.offset >= len(l.input) {
		return nil
	}
	b := l.input[l.offset]
	line, column := l.line, l.column
	sp := l.singleSpan(l.offset)

	switch {
	case b == '}':
		if l.exprDepth == 0 {
			return &LexError{Message: "unbalanced brace", Span: sp}
		}
		*tokens = append(*tokens, Token{Kind: TokRBrace, Value: "}", Span: sp})
		l.advance()
		l.exprDepth--
		l.inExpr = false
	case b == '{':
		*tokens = append(*tokens, Token{Kind: TokLBrace, Value: "{", Span: sp})
		l.advance()
		l.exprDepth++
		l.inExpr = false
	case b == '[':
		*tokens = append(*tokens, Token{Kind: TokLBracket, Value: "[", Span: sp})
		l.advance()
	case b == ']':
		*tokens = append(*tokens, Token{Kind: TokRBracket, Value: "]", Span: sp})
		l.advance()
	case b == '*':
		*tokens = append(*tokens, Token{Kind: TokStar, Value: "*", Span: sp})
		l.advance()
	case b == '$':
		*tokens = append(*tokens, Token{Kind: TokDollar, Value: "$", Span: sp})
		l.advance()
	case b == ':':
		*tokens = append(*tokens, Token{Kind: TokColon, Value: ":", Span: sp})
		l.advance()
	case b == '=':
		*tokens = append(*tokens, Token{Kind: TokEquals, Value: "=", Span: sp})
		l.advance()
	case b == ',':
		*tokens = append(*tokens, Token{Kind: TokComma, Value: ",", Span: sp})
		l.advance()
	case b == '-' && l.peekAt(l.offset+1) == '>':
		*tokens = append(*tokens, Token{Kind: TokArrow, Value: "->", Span: Span{l.offset, l.offset + 2, line, column}})
		l.advance()
		l.advance()
	case b == '-' || isDigit(b):
		tok, err := l.lexNumber()
		if err != nil {
			return err
		}
		*tokens = append(*tokens, tok)
	default:
		if isIdentStart(b) {
			*tokens = append(*tokens, l.lexIdent())
		} else {
			return &LexError{Message: "unexpected character", Span: sp}
		}
	}
	return nil
}

func (l *lexer) lexIdent() Token {
	start := l.offset
	line, column := l.line, l.column
	l.advance()
	for l.offset < len(l.input) && isIdentContinue(l.input[l.offset]) {
		l.advance()
	}
	return Token{Kind: TokIdent, Value: l.input[start:l.offset], Span: Span{start, l.offset, line, column}}
}

func (l *lexer) lexNumber() (Token, error) {
	start := l.offset
	line, column := l.line, l.column
	if l.input[l.offset] == '-' {
		l.advance()
	}
	sawDigit := false
	for l.offset < len(l.input) && isDigit(l.input[l.offset]) {
		sawDigit = true
		l.advance()
	}
	if l.offset < len(l.input) && l.input[l.offset] == '.' {
		l.advance()
		for l.offset < len(l.input) && isDigit(l.input[l.offset]) {
			sawDigit = true
			l.advance()
		}
	}
	if !sawDigit {
		return Token{}, &LexError{Message: "invalid number", Span: Span{start, l.offset, line, column}}
	}
	return Token{Kind: TokNumber, Value: l.input[start:l.offset], Span: Span{start, l.offset, line, column}}, nil
}

func (l *lexer) skipWhitespace() {
	for l.offset < len(l.input) {
		b := l.input[l.offset]
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			l.advance()
		} else {
			break
		}
	}
}

func (l *lexer) advance() {
	b := l.input[l.offset]
	l.offset++
	if b == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *lexer) peekAt(i int) byte {
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *lexer) singleSpan(start int) Span {
	return Span{start, start + 1, l.line, l.column}
}

func isDigit(b byte) bool        { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool   { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isIdentContinue(b byte) bool { return isIdentStart(b) || isDigit(b) || b == '-' }
