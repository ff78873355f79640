package structure

import (
	"fmt"

	"sleuth/internal/diag"
	"sleuth/internal/source"
)

// ValidateXML counts opening and closing tags and reports an imbalance.
// Self-closing elements, processing instructions, comments and declarations
// do not count. This is deliberately shallow: sleuth checks that the
// document can close, not that it follows a schema.
func ValidateXML(f *source.File, bag *diag.Bag) {
	opens, closes, unmatched := scanTags(f)
	if opens == closes {
		return
	}

	span := unmatched
	if span.Empty() && f.LineCount() > 0 {
		span = f.LineSpan(1)
	}
	fd, ok := diag.NewError(diag.StrTagImbalance, span,
		fmt.Sprintf("%d opening tags but %d closing tags", opens, closes),
		diag.Evidence{
			Observed:      fmt.Sprintf("%d opened, %d closed", opens, closes),
			ExpectedRange: "every opening tag matched by a closing tag",
			Context:       lineContext(f, span),
		})
	if ok {
		fd = fd.WithWhy("an unbalanced document truncates silently in most XML readers")
		if opens > closes {
			fd = fd.WithAction("close the tag marked above")
		} else {
			fd = fd.WithAction("remove the stray closing tag marked above")
		}
		bag.Add(fd)
	}
}

type openTag struct {
	name string
	span source.Span
}

// scanTags walks the raw bytes once. It returns the open/close counts and
// the span of the first tag left unmatched (an unclosed opener, or a stray
// closer when there are more closers than openers). Closing tags match
// openers by name, so a close over an unclosed child still pairs with its
// own opener and the child stays on the stack as the culprit.
func scanTags(f *source.File) (opens, closes int, unmatched source.Span) {
	content := f.Content
	var stack []openTag
	var strayClose source.Span

	for i := 0; i < len(content); i++ {
		if content[i] != '<' {
			continue
		}
		if i+1 >= len(content) {
			break
		}
		switch content[i+1] {
		case '?':
			i = skipUntil(content, i+2, "?>")
		case '!':
			if i+3 < len(content) && content[i+2] == '-' && content[i+3] == '-' {
				i = skipUntil(content, i+4, "-->")
			} else {
				i = skipUntil(content, i+2, ">")
			}
		case '/':
			end := skipUntil(content, i+2, ">")
			closes++
			name := tagName(content, i+2)
			matched := false
			for k := len(stack) - 1; k >= 0; k-- {
				if stack[k].name == name {
					stack = append(stack[:k], stack[k+1:]...)
					matched = true
					break
				}
			}
			if !matched && strayClose.Empty() {
				strayClose = tagSpan(f, i, end)
			}
			i = end
		default:
			end := skipUntil(content, i+1, ">")
			if end > i && end < len(content) && content[end-1] == '/' {
				// самозакрывающийся элемент
				i = end
				continue
			}
			opens++
			stack = append(stack, openTag{name: tagName(content, i+1), span: tagSpan(f, i, end)})
			i = end
		}
	}

	if opens > closes && len(stack) > 0 {
		return opens, closes, stack[0].span
	}
	return opens, closes, strayClose
}

func tagName(content []byte, start int) string {
	end := start
	for end < len(content) {
		b := content[end]
		if b == '>' || b == '/' || b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			break
		}
		end++
	}
	return string(content[start:end])
}

// skipUntil advances past the first occurrence of marker at or after start
// and returns the index of its last byte; at end of input it returns the
// last index.
func skipUntil(content []byte, start int, marker string) int {
	for i := start; i+len(marker) <= len(content); i++ {
		if string(content[i:i+len(marker)]) == marker {
			return i + len(marker) - 1
		}
	}
	return len(content) - 1
}

func tagSpan(f *source.File, start, end int) source.Span {
	e := uint32(end + 1)
	if e > uint32(len(f.Content)) {
		e = uint32(len(f.Content))
	}
	return source.Span{File: f.ID, Start: uint32(start), End: e}
}
