// Package structure runs the format-specific validators of the first
// inspection stage. Each validator reads one document, reports every
// structural problem it can classify as a typed finding with exact byte
// spans, and attaches always-safe fixes where a mechanical rewrite cannot
// change meaning. A problem that cannot be classified still produces a
// generic finding: silence on broken input is worse than a vague report.
package structure

import (
	"sleuth/internal/diag"
	"sleuth/internal/jsonscan"
	"sleuth/internal/record"
	"sleuth/internal/source"
)

// Validate dispatches to the validator for the given format. For JSON the
// tolerant parse result is returned so later stages can reuse the tree
// instead of parsing twice.
func Validate(f *source.File, format record.Format, bag *diag.Bag) *jsonscan.Result {
	switch format {
	case record.FormatJSON:
		return ValidateJSON(f, bag)
	case record.FormatCSV:
		ValidateCSV(f, bag)
	case record.FormatXML:
		ValidateXML(f, bag)
	case record.FormatYAML:
		ValidateYAML(f, bag)
	}
	return nil
}
