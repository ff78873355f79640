package structure

import (
	"fmt"
	"strings"

	"sleuth/internal/diag"
	"sleuth/internal/jsonscan"
	"sleuth/internal/source"
)

// ValidateJSON tolerantly parses the document and converts every structured
// parse problem into a finding. On top of the parser's own errors a
// whole-document sweep catches trailing commas the recovery logic skipped,
// so one validation pass surfaces every occurrence. When the document is
// valid, softer checks run: duplicate keys and inconsistent indentation.
func ValidateJSON(f *source.File, bag *diag.Bag) *jsonscan.Result {
	res := jsonscan.Parse(f)

	swept := make(map[uint32]bool)
	for _, e := range res.Errors {
		reportJSONError(f, res, e, bag)
		if e.Code == jsonscan.ErrTrailingComma {
			swept[e.Span.Start] = true
		}
	}

	// парсер останавливает классификацию после восстановления, поэтому
	// оставшиеся хвостовые запятые добираем отдельным проходом
	for _, sp := range jsonscan.SweepTrailingCommas(f) {
		if swept[sp.Start] {
			continue
		}
		swept[sp.Start] = true
		if fd, ok := diag.NewError(diag.StrTrailingComma, sp,
			"trailing comma before a closing bracket",
			diag.Evidence{Observed: quoteSnippet(f, sp), Context: lineContext(f, sp)},
		); ok {
			fd = fd.WithWhy("strict JSON parsers reject the whole document over one stray comma").
				WithAction("remove the comma").
				WithFix(stripCommaFix(sp))
			bag.Add(fd)
		}
	}

	if res.Valid() && res.Root != nil {
		scanDuplicateKeys(f, res.Root, bag)
		scanIndentation(f, bag)
	}
	return res
}

func reportJSONError(f *source.File, res *jsonscan.Result, e jsonscan.Error, bag *diag.Bag) {
	ev := diag.Evidence{Observed: quoteSnippet(f, e.Span), Context: lineContext(f, e.Span)}
	if ev.Observed == `""` {
		ev.Observed = e.Code.String()
	}

	switch e.Code {
	case jsonscan.ErrTrailingComma:
		if fd, ok := diag.NewError(diag.StrTrailingComma, e.Span, "trailing comma before a closing bracket", ev); ok {
			fd = fd.WithWhy("strict JSON parsers reject the whole document over one stray comma").
				WithAction("remove the comma").
				WithFix(stripCommaFix(e.Span))
			bag.Add(fd)
		}

	case jsonscan.ErrMissingComma:
		if fd, ok := diag.NewError(diag.StrMissingComma, e.Span, e.Msg, ev); ok {
			fd = fd.WithWhy("without the separator the rest of the document cannot be read reliably").
				WithAction("insert a comma").
				WithFix(diag.Fix{
					ID:            "json.insert-missing-comma",
					Title:         "insert the missing comma",
					Applicability: diag.FixAlwaysSafe,
					Edits:         []diag.TextEdit{{Span: e.Span, NewText: ","}},
				})
			bag.Add(fd)
		}

	case jsonscan.ErrUnexpectedEOF:
		if fd, ok := diag.NewError(diag.StrUnexpectedEOF, e.Span, "unexpected end of input", ev); ok {
			fd = fd.WithWhy("the document ends before every opened brace and bracket is closed").
				WithAction("append the missing closing brackets")
			if res.MissingClosers != "" {
				end := source.Point(f.ID, uint32(len(f.Content)))
				fd = fd.WithFix(diag.Fix{
					ID:            "json.append-closers",
					Title:         fmt.Sprintf("append %q at end of input", res.MissingClosers),
					Applicability: diag.FixAlwaysSafe,
					Edits:         []diag.TextEdit{{Span: end, NewText: res.MissingClosers}},
				})
			}
			bag.Add(fd)
		}

	case jsonscan.ErrUnclosedDelimiter:
		if fd, ok := diag.NewError(diag.StrUnclosedDelimiter, e.Span, e.Msg, ev); ok {
			bag.Add(fd.WithAction("close this bracket"))
		}

	case jsonscan.ErrUnclosedString:
		if fd, ok := diag.NewError(diag.StrUnclosedString, e.Span, e.Msg, ev); ok {
			fd = fd.WithWhy("an unterminated string swallows everything up to the end of the line").
				WithAction("add the closing quote").
				WithFix(diag.Fix{
					ID:            "json.close-string",
					Title:         "add a closing quote at end of line",
					Applicability: diag.FixNeedsReview,
					Edits:         []diag.TextEdit{{Span: source.Point(f.ID, e.Span.End), NewText: `"`}},
				})
			bag.Add(fd)
		}

	case jsonscan.ErrBadLiteral:
		fd, ok := diag.New(diag.SevWarning, diag.ConfHigh, diag.StrBadLiteral, e.Span, e.Msg, ev)
		if ok {
			fd = fd.WithWhy("NaN, Infinity and undefined are JavaScript values, not JSON; most parsers fail on them").
				WithAction("replace the literal with null or a real value").
				WithFix(diag.Fix{
					ID:            "json.null-literal",
					Title:         "replace with null",
					Applicability: diag.FixNeedsReview,
					Edits:         []diag.TextEdit{{Span: e.Span, NewText: "null", OldText: f.TextAt(e.Span)}},
				})
			bag.Add(fd)
		}

	case jsonscan.ErrBadNumber:
		if fd, ok := diag.NewError(diag.StrBadNumber, e.Span, e.Msg, ev); ok {
			bag.Add(fd.WithAction("rewrite the number in plain JSON notation"))
		}

	default:
		// ErrMissingColon, ErrUnexpectedToken, ErrTrailingContent и всё
		// неклассифицированное: общий код без автофикса
		if fd, ok := diag.NewError(diag.StrUnexpectedToken, e.Span, e.Msg, ev); ok {
			bag.Add(fd.WithAction("fix the document by hand; this shape cannot be repaired mechanically"))
		}
	}
}

func stripCommaFix(sp source.Span) diag.Fix {
	return diag.Fix{
		ID:            "json.strip-trailing-comma",
		Title:         "remove the trailing comma",
		Applicability: diag.FixAlwaysSafe,
		Edits:         []diag.TextEdit{{Span: sp, OldText: ","}},
	}
}

// scanDuplicateKeys walks every object in the tree. JSON allows duplicate
// keys syntactically, but almost every consumer silently keeps only one of
// the values, so the duplicate is worth a warning.
func scanDuplicateKeys(f *source.File, node *jsonscan.Value, bag *diag.Bag) {
	if node == nil {
		return
	}
	switch node.Kind {
	case jsonscan.KindObject:
		seen := make(map[string]source.Span, len(node.Members))
		for i := range node.Members {
			m := node.Members[i]
			if first, dup := seen[m.Key]; dup {
				fd, ok := diag.New(diag.SevWarning, diag.ConfHigh, diag.StrDuplicateKey, m.KeySpan,
					fmt.Sprintf("duplicate key %q", m.Key),
					diag.Evidence{Observed: quoteSnippet(f, m.KeySpan), Context: lineContext(f, m.KeySpan)},
				)
				if ok {
					fd = fd.WithNote(first, "first defined here").
						WithWhy("parsers keep only one of the values; which one depends on the parser").
						WithAction("rename or remove one of the keys")
					bag.Add(fd)
				}
			} else {
				seen[m.Key] = m.KeySpan
			}
			scanDuplicateKeys(f, m.Value, bag)
		}
	case jsonscan.KindArray:
		for _, elem := range node.Elems {
			scanDuplicateKeys(f, elem, bag)
		}
	}
}

// scanIndentation warns once when the document mixes tabs and spaces for
// indentation. Deeper style checking is not this tool's job.
func scanIndentation(f *source.File, bag *diag.Bag) {
	sawSpaces := false
	sawTabs := false
	for line := uint32(1); line <= f.LineCount(); line++ {
		span := f.LineSpan(line)
		text := f.TextAt(span)
		indent := text[:len(text)-len(strings.TrimLeft(text, " \t"))]
		if indent == "" {
			continue
		}
		hasTab := strings.ContainsRune(indent, '\t')
		hasSpace := strings.ContainsRune(indent, ' ')
		if (hasTab && (sawSpaces || hasSpace)) || (hasSpace && sawTabs) {
			indentSpan := source.Span{File: f.ID, Start: span.Start, End: span.Start + uint32(len(indent))}
			fd, ok := diag.New(diag.SevWarning, diag.ConfMedium, diag.StrInconsistentIndent, indentSpan,
				"indentation mixes tabs and spaces",
				diag.Evidence{Observed: fmt.Sprintf("line %d indents with both tabs and spaces", line)},
			)
			if ok {
				bag.Add(fd.WithAction("pick one indentation character and reformat"))
			}
			return
		}
		sawTabs = sawTabs || hasTab
		sawSpaces = sawSpaces || hasSpace
	}
}

// quoteSnippet returns the source text at span, quoted and truncated so
// evidence stays readable for spans that cover whole subtrees.
func quoteSnippet(f *source.File, sp source.Span) string {
	text := f.TextAt(sp)
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return fmt.Sprintf("%q", text)
}

func lineContext(f *source.File, sp source.Span) string {
	line := strings.TrimSpace(f.TextAt(f.LineSpan(f.LineOf(sp.Start))))
	if len(line) > 60 {
		line = line[:60] + "..."
	}
	return line
}
