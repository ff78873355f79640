package structure

import (
	"fmt"
	"regexp"
	"strconv"

	"sleuth/internal/diag"
	"sleuth/internal/jsonscan"
	"sleuth/internal/source"
)

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ].*)?$`)
	slashDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// ScanValueHygiene walks a valid JSON tree for values that parse fine but
// smell wrong: empty strings, arrays and objects, and typed data stored in
// strings ("42", "true", "2024-01-01"). These only run after a clean parse;
// on broken documents the structural errors take all the attention.
func ScanValueHygiene(f *source.File, root *jsonscan.Value, bag *diag.Bag) {
	walkHygiene(f, "", root, bag)
}

func walkHygiene(f *source.File, name string, node *jsonscan.Value, bag *diag.Bag) {
	if node == nil {
		return
	}
	switch node.Kind {
	case jsonscan.KindObject:
		if len(node.Members) == 0 {
			reportEmpty(f, name, node.Span, "empty object", bag)
			return
		}
		for i := range node.Members {
			m := node.Members[i]
			child := m.Key
			if name != "" {
				child = name + "." + m.Key
			}
			walkHygiene(f, child, m.Value, bag)
		}
	case jsonscan.KindArray:
		if len(node.Elems) == 0 {
			reportEmpty(f, name, node.Span, "empty array", bag)
			return
		}
		for _, elem := range node.Elems {
			walkHygiene(f, name, elem, bag)
		}
	case jsonscan.KindString:
		if node.Str == "" {
			reportEmpty(f, name, node.Span, "empty string", bag)
			return
		}
		if kind := stringTypedKind(node.Str); kind != "" {
			fd, ok := diag.New(diag.SevWarning, diag.ConfMedium, diag.SchStringTypedValue, node.Span,
				fmt.Sprintf("%s stored as a string", kind),
				diag.Evidence{
					Observed: fmt.Sprintf("%q", node.Str),
					Context:  fieldContext(name),
				})
			if ok {
				fd = fd.WithWhy("string-wrapped values defeat numeric comparisons and sorting downstream").
					WithAction(fmt.Sprintf("store the value as a %s if the field is meant to be typed", kind))
				bag.Add(fd)
			}
		}
	}
}

func reportEmpty(f *source.File, name string, sp source.Span, what string, bag *diag.Bag) {
	fd, ok := diag.New(diag.SevInfo, diag.ConfHigh, diag.SchEmptyValue, sp, what,
		diag.Evidence{Observed: quoteSnippet(f, sp), Context: fieldContext(name)})
	if ok {
		fd = fd.WithAction("use null if the value is intentionally absent")
		bag.Add(fd)
	}
}

// stringTypedKind reports what non-string type the text looks like, or ""
// when it is honestly a string.
func stringTypedKind(s string) string {
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return "number"
	}
	if s == "true" || s == "false" {
		return "boolean"
	}
	if isoDateRe.MatchString(s) || slashDateRe.MatchString(s) {
		return "date"
	}
	return ""
}

func fieldContext(name string) string {
	if name == "" {
		return "top-level value"
	}
	return "field " + name
}
