package jsonscan

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"sleuth/internal/source"
)

// maxDepth bounds nesting so hostile input cannot blow the stack.
const maxDepth = 512

// Result holds the tolerant parse outcome. Root is non-nil whenever at
// least a partial tree could be built; Errors lists every structured
// problem found along the way.
type Result struct {
	Root   *Value
	Errors []Error
	// MissingClosers contains the closing delimiters, in closing order,
	// that were still open when input ended. Empty when balanced.
	MissingClosers string
}

// Valid reports whether the document parsed without fatal errors.
func (r *Result) Valid() bool {
	for _, e := range r.Errors {
		if e.Fatal() {
			return false
		}
	}
	return r.Root != nil
}

type parser struct {
	sc   *Scanner
	f    *source.File
	tok  Token
	errs []Error
	open []byte // ожидаемые закрывающие скобки, в порядке открытия
	eof  bool   // ErrUnexpectedEOF уже зафиксирован
}

// Parse runs the tolerant parser over the whole document.
func Parse(f *source.File) *Result {
	p := &parser{sc: NewScanner(f), f: f}
	p.advance()

	var root *Value
	if p.tok.Kind == TokEOF {
		p.errorAt(ErrUnexpectedEOF, p.tok.Span, "document is empty")
	} else {
		root = p.parseValue(0)
		if p.tok.Kind != TokEOF {
			p.errorAt(ErrTrailingContent, p.tok.Span, fmt.Sprintf("unexpected %s after the top-level value", p.tok.Kind))
		}
	}

	closers := make([]byte, 0, len(p.open))
	for i := len(p.open) - 1; i >= 0; i-- {
		closers = append(closers, p.open[i])
	}

	return &Result{
		Root:           root,
		Errors:         p.errs,
		MissingClosers: string(closers),
	}
}

func (p *parser) advance() {
	p.tok = p.sc.Next()
}

func (p *parser) errorAt(code ErrCode, span source.Span, msg string) {
	p.errs = append(p.errs, Error{Code: code, Span: span, Msg: msg})
}

func (p *parser) unexpectedEOF(openSpan source.Span) {
	// об одном обрыве сообщаем один раз
	if p.eof {
		return
	}
	p.eof = true
	p.errorAt(ErrUnexpectedEOF, p.tok.Span, "input ended before the document was complete")
	if !openSpan.Empty() {
		p.errorAt(ErrUnclosedDelimiter, openSpan, "opened here and never closed")
	}
}

func (p *parser) parseValue(depth int) *Value {
	if depth > maxDepth {
		p.errorAt(ErrUnexpectedToken, p.tok.Span, "nesting too deep")
		p.advance()
		return nil
	}

	tok := p.tok
	switch tok.Kind {
	case TokString:
		p.advance()
		if tok.Unterminated {
			p.errorAt(ErrUnclosedString, tok.Span, "string reaches end of line without a closing quote")
		}
		return &Value{Kind: KindString, Span: tok.Span, Str: decodeString(p.f.TextAt(tok.Span), tok.Unterminated)}

	case TokNumber:
		p.advance()
		raw := p.f.TextAt(tok.Span)
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			p.errorAt(ErrBadNumber, tok.Span, fmt.Sprintf("malformed number %q", raw))
		}
		return &Value{Kind: KindNumber, Span: tok.Span, Num: num, Raw: raw}

	case TokTrue:
		p.advance()
		return &Value{Kind: KindBool, Span: tok.Span, Bool: true}

	case TokFalse:
		p.advance()
		return &Value{Kind: KindBool, Span: tok.Span, Bool: false}

	case TokNull:
		p.advance()
		return &Value{Kind: KindNull, Span: tok.Span}

	case TokBadLiteral:
		p.advance()
		raw := p.f.TextAt(tok.Span)
		p.errorAt(ErrBadLiteral, tok.Span, fmt.Sprintf("%q is not valid JSON", raw))
		return &Value{Kind: KindBad, Span: tok.Span, Raw: raw}

	case TokLBrace:
		return p.parseObject(depth)

	case TokLBracket:
		return p.parseArray(depth)

	case TokEOF:
		p.unexpectedEOF(source.Span{})
		return nil

	default:
		p.errorAt(ErrUnexpectedToken, tok.Span, fmt.Sprintf("expected a value, found %s", tok.Kind))
		p.advance()
		return nil
	}
}

func (p *parser) parseObject(depth int) *Value {
	open := p.tok.Span
	p.open = append(p.open, '}')
	p.advance()

	obj := &Value{Kind: KindObject, Span: open}

	for {
		switch p.tok.Kind {
		case TokRBrace:
			obj.Span = obj.Span.Cover(p.tok.Span)
			p.open = p.open[:len(p.open)-1]
			p.advance()
			return obj
		case TokEOF:
			p.unexpectedEOF(open)
			obj.Span = obj.Span.Cover(p.tok.Span)
			return obj
		case TokComma:
			// запятая без члена перед ней
			p.errorAt(ErrUnexpectedToken, p.tok.Span, "expected a property, found ','")
			p.advance()
			continue
		}

		member, ok := p.parseMember(depth)
		if ok {
			obj.Members = append(obj.Members, member)
			if member.Value != nil {
				obj.Span = obj.Span.Cover(member.Value.Span)
			}
		}

		switch p.tok.Kind {
		case TokComma:
			comma := p.tok.Span
			p.advance()
			if p.tok.Kind == TokRBrace {
				p.errorAt(ErrTrailingComma, comma, "remove the comma before '}'")
			}
		case TokRBrace, TokEOF:
			// закрытие обработает следующая итерация
		case TokString:
			// следующий ключ без запятой между членами
			at := memberEnd(member)
			p.errorAt(ErrMissingComma, at, "expected ',' between properties")
		default:
			p.errorAt(ErrUnexpectedToken, p.tok.Span, fmt.Sprintf("expected ',' or '}', found %s", p.tok.Kind))
			p.skipToRecovery(TokRBrace)
		}
	}
}

func (p *parser) parseMember(depth int) (Member, bool) {
	var member Member

	switch p.tok.Kind {
	case TokString:
		if p.tok.Unterminated {
			p.errorAt(ErrUnclosedString, p.tok.Span, "property name reaches end of line without a closing quote")
		}
		member.Key = decodeString(p.f.TextAt(p.tok.Span), p.tok.Unterminated)
		member.KeySpan = p.tok.Span
		p.advance()
	case TokBadLiteral:
		raw := p.f.TextAt(p.tok.Span)
		p.errorAt(ErrUnexpectedToken, p.tok.Span, fmt.Sprintf("property name %q must be quoted", raw))
		member.Key = raw
		member.KeySpan = p.tok.Span
		p.advance()
	default:
		p.errorAt(ErrUnexpectedToken, p.tok.Span, fmt.Sprintf("expected a property name, found %s", p.tok.Kind))
		p.skipToRecovery(TokRBrace)
		return member, false
	}

	if p.tok.Kind == TokColon {
		p.advance()
	} else {
		p.errorAt(ErrMissingColon, source.Point(member.KeySpan.File, member.KeySpan.End), "expected ':' after the property name")
		// если дальше идёт значение, продолжаем как будто двоеточие было
	}

	member.Value = p.parseValue(depth + 1)
	return member, true
}

func (p *parser) parseArray(depth int) *Value {
	open := p.tok.Span
	p.open = append(p.open, ']')
	p.advance()

	arr := &Value{Kind: KindArray, Span: open}

	for {
		switch p.tok.Kind {
		case TokRBracket:
			arr.Span = arr.Span.Cover(p.tok.Span)
			p.open = p.open[:len(p.open)-1]
			p.advance()
			return arr
		case TokEOF:
			p.unexpectedEOF(open)
			arr.Span = arr.Span.Cover(p.tok.Span)
			return arr
		case TokComma:
			p.errorAt(ErrUnexpectedToken, p.tok.Span, "expected a value, found ','")
			p.advance()
			continue
		}

		elem := p.parseValue(depth + 1)
		if elem != nil {
			arr.Elems = append(arr.Elems, elem)
			arr.Span = arr.Span.Cover(elem.Span)
		}

		switch p.tok.Kind {
		case TokComma:
			comma := p.tok.Span
			p.advance()
			if p.tok.Kind == TokRBracket {
				p.errorAt(ErrTrailingComma, comma, "remove the comma before ']'")
			}
		case TokRBracket, TokEOF:
			// закрытие обработает следующая итерация
		default:
			if elem != nil && startsValue(p.tok.Kind) {
				p.errorAt(ErrMissingComma, source.Point(elem.Span.File, elem.Span.End), "expected ',' between array elements")
			} else {
				p.errorAt(ErrUnexpectedToken, p.tok.Span, fmt.Sprintf("expected ',' or ']', found %s", p.tok.Kind))
				p.skipToRecovery(TokRBracket)
			}
		}
	}
}

// skipToRecovery drops tokens until a comma, the matching closer, or EOF,
// so one garbled region produces one error instead of a cascade. A closer
// of the other kind also stops recovery, since it may belong to the
// enclosing structure.
func (p *parser) skipToRecovery(closer TokenKind) {
	advanced := false
	for {
		switch p.tok.Kind {
		case TokComma, TokEOF, closer:
			return
		case TokRBrace, TokRBracket:
			// чужая скобка прямо на входе: съедаем её, иначе
			// вызывающий цикл застрянет на этом токене
			if !advanced {
				p.advance()
			}
			return
		}
		p.advance()
		advanced = true
	}
}

func startsValue(k TokenKind) bool {
	switch k {
	case TokString, TokNumber, TokTrue, TokFalse, TokNull, TokBadLiteral, TokLBrace, TokLBracket:
		return true
	}
	return false
}

func memberEnd(m Member) source.Span {
	if m.Value != nil {
		return source.Point(m.Value.Span.File, m.Value.Span.End)
	}
	return source.Point(m.KeySpan.File, m.KeySpan.End)
}

// decodeString converts raw quoted text into its value. The input includes
// the opening quote and, unless unterminated, the closing quote.
func decodeString(raw string, unterminated bool) string {
	if len(raw) == 0 {
		return ""
	}
	inner := raw
	if inner[0] == '"' {
		inner = inner[1:]
	}
	if !unterminated && len(inner) > 0 && inner[len(inner)-1] == '"' {
		inner = inner[:len(inner)-1]
	}
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}

	var sb strings.Builder
	sb.Grow(len(inner))
	for i := 0; i < len(inner); {
		c := inner[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(inner) {
			sb.WriteByte(c)
			break
		}
		switch inner[i+1] {
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		case '/':
			sb.WriteByte('/')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			if i+6 <= len(inner) {
				if n, err := strconv.ParseUint(inner[i+2:i+6], 16, 32); err == nil {
					r := rune(n)
					// суррогатная пара
					if utf16.IsSurrogate(r) && i+12 <= len(inner) && inner[i+6] == '\\' && inner[i+7] == 'u' {
						if n2, err2 := strconv.ParseUint(inner[i+8:i+12], 16, 32); err2 == nil {
							if combined := utf16.DecodeRune(r, rune(n2)); combined != utf8.RuneError {
								sb.WriteRune(combined)
								i += 12
								continue
							}
						}
					}
					sb.WriteRune(r)
					i += 6
					continue
				}
			}
			sb.WriteByte('u')
		default:
			sb.WriteByte(inner[i+1])
		}
		i += 2
	}
	return sb.String()
}
