package jsonscan

import "sleuth/internal/source"

// SweepTrailingCommas scans the whole document for commas directly followed
// (modulo whitespace) by '}' or ']'. The parser stops classifying after its
// recovery budget runs out; the sweep makes sure every occurrence surfaces
// in a single validation pass. Quoted regions are skipped.
func SweepTrailingCommas(f *source.File) []source.Span {
	var spans []source.Span
	content := f.Content

	inString := false
	for i := 0; i < len(content); i++ {
		b := content[i]
		if inString {
			switch b {
			case '\\':
				i++
			case '"', '\n', '\r':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(content) && (content[j] == ' ' || content[j] == '\t' || content[j] == '\n' || content[j] == '\r') {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				spans = append(spans, source.Span{File: f.ID, Start: uint32(i), End: uint32(i + 1)})
			}
		}
	}
	return spans
}

// DelimiterBalance counts unmatched braces and brackets outside strings.
// Positive values mean unclosed openers; negative mean stray closers.
func DelimiterBalance(f *source.File) (braces, brackets int) {
	content := f.Content
	inString := false
	for i := 0; i < len(content); i++ {
		b := content[i]
		if inString {
			switch b {
			case '\\':
				i++
			case '"', '\n', '\r':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			brackets++
		case ']':
			brackets--
		}
	}
	return braces, brackets
}
