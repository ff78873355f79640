package structure

import (
	"fmt"
	"strings"

	"sleuth/internal/diag"
	"sleuth/internal/source"
)

// ValidateYAML applies one shallow rule: every meaningful line must either
// contain a ':' or start a list item with '-'. Blank lines, comments and
// document markers are exempt. The check is a heuristic, so violations are
// warnings: block scalars legitimately break the rule, but in data files a
// bare line is almost always a forgotten key.
func ValidateYAML(f *source.File, bag *diag.Bag) {
	for line := uint32(1); line <= f.LineCount(); line++ {
		span := f.LineSpan(line)
		trimmed := strings.TrimSpace(f.TextAt(span))
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"),
			trimmed == "---", trimmed == "...":
			continue
		case strings.HasPrefix(trimmed, "-"), strings.Contains(trimmed, ":"):
			continue
		}

		fd, ok := diag.New(diag.SevWarning, diag.ConfMedium, diag.StrBareYAMLLine, span,
			fmt.Sprintf("line %d is neither a key nor a list item", line),
			diag.Evidence{Observed: quoteSnippet(f, span)})
		if ok {
			fd = fd.WithWhy("a bare line usually means a key was deleted or a ':' was forgotten").
				WithAction("turn the line into 'key: value' or a '- item', or remove it")
			bag.Add(fd)
		}
	}
}
