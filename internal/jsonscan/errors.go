package jsonscan

import "sleuth/internal/source"

// ErrCode classifies a parse problem. The parser emits structured codes
// with byte spans instead of free-form error text, so callers never have
// to pattern-match messages to find out what went wrong.
type ErrCode uint8

const (
	ErrUnknown ErrCode = iota
	ErrTrailingComma
	ErrMissingComma
	ErrMissingColon
	ErrUnexpectedToken
	ErrUnexpectedEOF
	ErrUnclosedString
	ErrUnclosedDelimiter
	ErrBadLiteral
	ErrBadNumber
	ErrTrailingContent
)

func (c ErrCode) String() string {
	switch c {
	case ErrTrailingComma:
		return "trailing comma"
	case ErrMissingComma:
		return "missing comma"
	case ErrMissingColon:
		return "missing colon"
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrUnexpectedEOF:
		return "unexpected end of input"
	case ErrUnclosedString:
		return "unclosed string"
	case ErrUnclosedDelimiter:
		return "unclosed delimiter"
	case ErrBadLiteral:
		return "non-JSON literal"
	case ErrBadNumber:
		return "malformed number"
	case ErrTrailingContent:
		return "content after top-level value"
	}
	return "unknown"
}

// Error is one structured parse problem.
type Error struct {
	Code ErrCode
	Span source.Span
	Msg  string
}

// Fatal reports whether the problem prevents treating the document as
// valid JSON. Bad literals are lexically recoverable: the tree is still
// complete and later stages can describe them precisely.
func (e Error) Fatal() bool {
	return e.Code != ErrBadLiteral
}
