// Package extract scans source text for `t!("key", name: type, ...)` calls
// and recovers the message keys and declared argument specs they name.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/extract.rs.
package extract

import (
	"fmt"
	"strings"

	"github.com/triesap/mf2-i18n/internal/core"
)

// Message is one `t!` call site recovered from a source file.
type Message struct {
	Key  string
	Args []core.ArgSpec
	Line int
	Col  int
}

// Messages scans input and returns every t! call site found, in order of
// appearance. The scanner is byte-oriented: it skips line comments, block
// comments, string literals, and Rust-style raw string literals so that
// a "t!(...)" appearing inside one of those is never mistaken for a call.
func Messages(input string) ([]Message, error) {
	s := &scanner{input: []byte(input), line: 1, column: 1}
	var out []Message
	for {
		b, ok := s.peek()
		if !ok {
			break
		}
		switch {
		case s.startsLineComment():
			s.skipLineComment()
		case s.startsBlockComment():
			s.skipBlockComment()
		case s.startsRawString():
			if err := s.skipRawString(); err != nil {
				return nil, err
			}
		case b == '"':
			if err := s.skipString(); err != nil {
				return nil, err
			}
		case s.startsMacro():
			msg, err := s.parseMacro()
			if err != nil {
				return nil, err
			}
			out = append(out, msg)
		default:
			s.bump()
		}
	}
	return out, nil
}

type scanner struct {
	input  []byte
	index  int
	line   int
	column int
}

func (s *scanner) peek() (byte, bool) {
	if s.index >= len(s.input) {
		return 0, false
	}
	return s.input[s.index], true
}

func (s *scanner) peekAt(offset int) (byte, bool) {
	idx := s.index + offset
	if idx >= len(s.input) {
		return 0, false
	}
	return s.input[idx], true
}

func (s *scanner) bump() (byte, bool) {
	b, ok := s.peek()
	if !ok {
		return 0, false
	}
	s.index++
	if b == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return b, true
}

func (s *scanner) errorf(start, line, col int, format string, args ...interface{}) error {
	return &core.Diagnostic{
		Code:    "extract",
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	}
}

func (s *scanner) startsLineComment() bool {
	b, ok := s.peek()
	n, nok := s.peekAt(1)
	return ok && b == '/' && nok && n == '/'
}

func (s *scanner) startsBlockComment() bool {
	b, ok := s.peek()
	n, nok := s.peekAt(1)
	return ok && b == '/' && nok && n == '*'
}

func (s *scanner) startsRawString() bool {
	b, ok := s.peek()
	if !ok || b != 'r' {
		return false
	}
	idx := s.index + 1
	for idx < len(s.input) && s.input[idx] == '#' {
		idx++
	}
	return idx < len(s.input) && s.input[idx] == '"'
}

func (s *scanner) startsMacro() bool {
	b, ok := s.peek()
	n, nok := s.peekAt(1)
	if !ok || b != 't' || !nok || n != '!' {
		return false
	}
	if s.index > 0 && isIdentContinue(s.input[s.index-1]) {
		return false
	}
	return true
}

func (s *scanner) skipLineComment() {
	for {
		b, ok := s.bump()
		if !ok || b == '\n' {
			return
		}
	}
}

func (s *scanner) skipBlockComment() {
	s.bump()
	s.bump()
	for {
		b, ok := s.bump()
		if !ok {
			return
		}
		if b == '*' {
			if n, nok := s.peek(); nok && n == '/' {
				s.bump()
				return
			}
		}
	}
}

func (s *scanner) skipString() error {
	start, line, col := s.index, s.line, s.column
	s.bump()
	for {
		b, ok := s.bump()
		if !ok {
			return s.errorf(start, line, col, "unterminated string literal")
		}
		switch b {
		case '\\':
			s.bump()
		case '"':
			return nil
		}
	}
}

func (s *scanner) skipRawString() error {
	start, line, col := s.index, s.line, s.column
	s.bump()
	hashes := 0
	for {
		b, ok := s.peek()
		if !ok || b != '#' {
			break
		}
		hashes++
		s.bump()
	}
	if b, ok := s.peek(); !ok || b != '"' {
		return s.errorf(start, line, col, "invalid raw string")
	}
	s.bump()
	for {
		b, ok := s.peek()
		if !ok {
			return s.errorf(start, line, col, "unterminated raw string")
		}
		if b == '"' {
			s.bump()
			matched := true
			for i := 0; i < hashes; i++ {
				if n, nok := s.peek(); nok && n == '#' {
					s.bump()
				} else {
					matched = false
					break
				}
			}
			if matched {
				return nil
			}
			continue
		}
		s.bump()
	}
}

func (s *scanner) parseMacro() (Message, error) {
	start, line, col := s.index, s.line, s.column
	s.bump()
	s.bump()
	s.skipWS()
	if b, ok := s.peek(); !ok || b != '(' {
		return Message{}, s.errorf(start, line, col, "expected '(' after t!")
	}
	s.bump()
	s.skipWS()
	if b, ok := s.peek(); !ok || b != '"' {
		return Message{}, s.errorf(start, line, col, "expected string literal key")
	}
	key, err := s.parseStringValue()
	if err != nil {
		return Message{}, err
	}
	s.skipWS()
	var args []core.ArgSpec
	if b, ok := s.peek(); ok && b == ',' {
		s.bump()
		for {
			s.skipWS()
			if b, ok := s.peek(); ok && b == ')' {
				break
			}
			name, err := s.parseIdent()
			if err != nil {
				return Message{}, err
			}
			s.skipWS()
			if b, ok := s.peek(); !ok || b != ':' {
				return Message{}, s.errorf(start, line, col, "expected ':' after argument name")
			}
			s.bump()
			s.skipWS()
			argType, err := s.parseArgType()
			if err != nil {
				return Message{}, err
			}
			args = append(args, core.ArgSpec{Name: name, Type: argType})
			s.skipWS()
			b, ok = s.peek()
			switch {
			case ok && b == ',':
				s.bump()
			case ok && b == ')':
			default:
				return Message{}, s.errorf(start, line, col, "expected ',' or ')' after argument")
			}
			if ok && b == ')' {
				break
			}
		}
	}
	s.skipWS()
	if b, ok := s.peek(); !ok || b != ')' {
		return Message{}, s.errorf(start, line, col, "expected ')' to close t! macro")
	}
	s.bump()
	return Message{Key: key, Args: args, Line: line, Col: col}, nil
}

func (s *scanner) parseStringValue() (string, error) {
	start, line, col := s.index, s.line, s.column
	s.bump()
	var out strings.Builder
	for {
		b, ok := s.bump()
		if !ok {
			return "", s.errorf(start, line, col, "unterminated string literal")
		}
		switch b {
		case '\\':
			if n, nok := s.bump(); nok {
				out.WriteByte(n)
			}
		case '"':
			return out.String(), nil
		default:
			out.WriteByte(b)
		}
	}
}

func (s *scanner) parseIdent() (string, error) {
	start, line, col := s.index, s.line, s.column
	first, ok := s.peek()
	if !ok || !isIdentStart(first) {
		return "", s.errorf(start, line, col, "expected identifier")
	}
	var out strings.Builder
	out.WriteByte(first)
	s.bump()
	for {
		b, ok := s.peek()
		if !ok || !isIdentContinue(b) {
			break
		}
		out.WriteByte(b)
		s.bump()
	}
	return out.String(), nil
}

func (s *scanner) parseArgType() (core.ArgType, error) {
	start, line, col := s.index, s.line, s.column
	ident, err := s.parseIdent()
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(ident) {
	case "string", "str":
		return core.ArgString, nil
	case "number", "num":
		return core.ArgNumber, nil
	case "bool", "boolean":
		return core.ArgBool, nil
	case "datetime", "date_time":
		return core.ArgDateTime, nil
	case "unit":
		return core.ArgUnit, nil
	case "currency":
		return core.ArgCurrency, nil
	case "any":
		return core.ArgAny, nil
	default:
		return 0, s.errorf(start, line, col, "unknown argument type %q", ident)
	}
}

func (s *scanner) skipWS() {
	for {
		b, ok := s.peek()
		if !ok || !isASCIISpace(b) {
			return
		}
		s.bump()
	}
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
