package jsonscan

import "sleuth/internal/source"

// TokenKind enumerates lexical token classes of a JSON document.
type TokenKind uint8

const (
	TokEOF TokenKind = iota
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokColon
	TokComma
	TokString
	TokNumber
	TokTrue
	TokFalse
	TokNull
	// TokBadLiteral covers bare words JSON does not allow: NaN, Infinity,
	// undefined, unquoted identifiers.
	TokBadLiteral
	// TokInvalid is a byte no token can start with.
	TokInvalid
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokLBracket:
		return "'['"
	case TokRBracket:
		return "']'"
	case TokColon:
		return "':'"
	case TokComma:
		return "','"
	case TokString:
		return "string"
	case TokNumber:
		return "number"
	case TokTrue:
		return "'true'"
	case TokFalse:
		return "'false'"
	case TokNull:
		return "'null'"
	case TokBadLiteral:
		return "bare literal"
	case TokInvalid:
		return "invalid character"
	}
	return "unknown"
}

// Token is one lexical token with its byte span.
type Token struct {
	Kind TokenKind
	Span source.Span
	// Unterminated marks a string token that reached end of line or input
	// before its closing quote.
	Unterminated bool
}
