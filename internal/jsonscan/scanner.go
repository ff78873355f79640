package jsonscan

import (
	"sleuth/internal/source"
)

// Scanner converts a document into JSON tokens. It never stops on bad
// input: unknown bytes become TokInvalid tokens and scanning continues,
// so the parser can report every problem it can still make sense of.
type Scanner struct {
	cur Cursor
}

func NewScanner(f *source.File) *Scanner {
	return &Scanner{cur: NewCursor(f)}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_' || isDigit(b)
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.cur.Peek() {
		case ' ', '\t', '\n', '\r':
			s.cur.Bump()
		default:
			return
		}
	}
}

// Next returns the next token. After TokEOF it keeps returning TokEOF.
func (s *Scanner) Next() Token {
	s.skipWhitespace()
	start := s.cur.Mark()

	if s.cur.EOF() {
		return Token{Kind: TokEOF, Span: s.cur.SpanFrom(start)}
	}

	b := s.cur.Peek()
	switch {
	case b == '{':
		s.cur.Bump()
		return Token{Kind: TokLBrace, Span: s.cur.SpanFrom(start)}
	case b == '}':
		s.cur.Bump()
		return Token{Kind: TokRBrace, Span: s.cur.SpanFrom(start)}
	case b == '[':
		s.cur.Bump()
		return Token{Kind: TokLBracket, Span: s.cur.SpanFrom(start)}
	case b == ']':
		s.cur.Bump()
		return Token{Kind: TokRBracket, Span: s.cur.SpanFrom(start)}
	case b == ':':
		s.cur.Bump()
		return Token{Kind: TokColon, Span: s.cur.SpanFrom(start)}
	case b == ',':
		s.cur.Bump()
		return Token{Kind: TokComma, Span: s.cur.SpanFrom(start)}
	case b == '"':
		return s.scanString(start)
	case b == '-' || isDigit(b):
		return s.scanNumberOrLiteral(start)
	case isIdentByte(b):
		return s.scanLiteral(start)
	default:
		s.cur.Bump()
		return Token{Kind: TokInvalid, Span: s.cur.SpanFrom(start)}
	}
}

// scanString consumes a double-quoted string. A newline before the closing
// quote terminates the token and marks it Unterminated: JSON strings cannot
// span lines, and stopping at the line break keeps later errors local.
func (s *Scanner) scanString(start Mark) Token {
	s.cur.Bump() // открывающая кавычка
	for !s.cur.EOF() {
		b := s.cur.Peek()
		if b == '"' {
			s.cur.Bump()
			return Token{Kind: TokString, Span: s.cur.SpanFrom(start)}
		}
		if b == '\n' || b == '\r' {
			return Token{Kind: TokString, Span: s.cur.SpanFrom(start), Unterminated: true}
		}
		if b == '\\' {
			s.cur.Bump()
			if !s.cur.EOF() && s.cur.Peek() != '\n' && s.cur.Peek() != '\r' {
				s.cur.Bump()
			}
			continue
		}
		s.cur.Bump()
	}
	return Token{Kind: TokString, Span: s.cur.SpanFrom(start), Unterminated: true}
}

// scanNumberOrLiteral handles tokens starting with '-' or a digit.
// "-Infinity" lexes as a bad literal, not a malformed number.
func (s *Scanner) scanNumberOrLiteral(start Mark) Token {
	if s.cur.Peek() == '-' && !isDigit(s.cur.PeekAt(1)) {
		s.cur.Bump()
		if isIdentByte(s.cur.Peek()) {
			for isIdentByte(s.cur.Peek()) {
				s.cur.Bump()
			}
			return Token{Kind: TokBadLiteral, Span: s.cur.SpanFrom(start)}
		}
		return Token{Kind: TokInvalid, Span: s.cur.SpanFrom(start)}
	}

	s.cur.Eat('-')
	for isDigit(s.cur.Peek()) {
		s.cur.Bump()
	}
	if s.cur.Peek() == '.' {
		s.cur.Bump()
		for isDigit(s.cur.Peek()) {
			s.cur.Bump()
		}
	}
	if b := s.cur.Peek(); b == 'e' || b == 'E' {
		s.cur.Bump()
		if b := s.cur.Peek(); b == '+' || b == '-' {
			s.cur.Bump()
		}
		for isDigit(s.cur.Peek()) {
			s.cur.Bump()
		}
	}
	return Token{Kind: TokNumber, Span: s.cur.SpanFrom(start)}
}

func (s *Scanner) scanLiteral(start Mark) Token {
	for isIdentByte(s.cur.Peek()) {
		s.cur.Bump()
	}
	span := s.cur.SpanFrom(start)
	switch s.cur.File.TextAt(span) {
	case "true":
		return Token{Kind: TokTrue, Span: span}
	case "false":
		return Token{Kind: TokFalse, Span: span}
	case "null":
		return Token{Kind: TokNull, Span: span}
	default:
		// NaN, Infinity, undefined, любое другое слово
		return Token{Kind: TokBadLiteral, Span: span}
	}
}
