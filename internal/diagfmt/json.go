package diagfmt

import (
	"encoding/json"
	"io"

	"sleuth/internal/diag"
	"sleuth/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// EvidenceJSON carries the observation behind a finding. Empty parts are
// omitted; the whole object is never empty by construction.
type EvidenceJSON struct {
	Observed      string `json:"observed,omitempty"`
	ExpectedRange string `json:"expected_range,omitempty"`
	Statistic     string `json:"statistic,omitempty"`
	Context       string `json:"context,omitempty"`
	Baseline      string `json:"baseline,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
	OldText  string       `json:"old_text,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Applicability string        `json:"applicability"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// FindingJSON представляет находку в JSON формате
type FindingJSON struct {
	Severity        string       `json:"severity"`
	Confidence      string       `json:"confidence"`
	Category        string       `json:"category"`
	Code            string       `json:"code"`
	Message         string       `json:"message"`
	Location        LocationJSON `json:"location"`
	Evidence        EvidenceJSON `json:"evidence"`
	WhyItMatters    string       `json:"why_it_matters,omitempty"`
	SuggestedAction string       `json:"suggested_action,omitempty"`
	CanAutoFix      bool         `json:"can_auto_fix"`
	Notes           []NoteJSON   `json:"notes,omitempty"`
	Fixes           []FixJSON    `json:"fixes,omitempty"`
}

// FindingsOutput представляет корневую структуру JSON вывода
type FindingsOutput struct {
	Findings []FindingJSON `json:"findings"`
	Count    int           `json:"count"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Infos    int           `json:"infos"`
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	f := fs.Get(span.File)

	var path string
	switch pathMode {
	case PathModeAbsolute:
		path = f.FormatPath("absolute", "")
	case PathModeRelative:
		path = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		path = f.FormatPath("basename", "")
	case PathModeAuto:
		path = f.FormatPath("auto", "")
	default:
		path = f.Path
	}

	loc := LocationJSON{
		File:      path,
		StartByte: span.Start,
		EndByte:   span.End,
	}

	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}

	return loc
}

// BuildFindingsOutput формирует структуру JSON-вывода без сериализации.
func BuildFindingsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) FindingsOutput {
	findings := make([]FindingJSON, 0, bag.Len())

	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	for i := 0; i < maxItems; i++ {
		d := items[i]

		fj := FindingJSON{
			Severity:   d.Severity.String(),
			Confidence: d.Confidence.String(),
			Category:   d.Category().String(),
			Code:       d.Code.ID(),
			Message:    d.Message,
			Location:   makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
			Evidence: EvidenceJSON{
				Observed:      d.Evidence.Observed,
				ExpectedRange: d.Evidence.ExpectedRange,
				Statistic:     d.Evidence.Statistic,
				Context:       d.Evidence.Context,
				Baseline:      d.Evidence.Baseline,
			},
			WhyItMatters:    d.WhyItMatters,
			SuggestedAction: d.SuggestedAction,
			CanAutoFix:      d.CanAutoFix(),
		}

		if opts.IncludeNotes && len(d.Notes) > 0 {
			fj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				fj.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}

		if opts.IncludeFixes && len(d.Fixes) > 0 {
			fj.Fixes = make([]FixJSON, 0, len(d.Fixes))
			for _, fix := range d.Fixes {
				fixJSON := FixJSON{
					ID:            fix.ID,
					Title:         fix.Title,
					Applicability: fix.Applicability.String(),
				}
				fixJSON.Edits = make([]FixEditJSON, len(fix.Edits))
				for k, edit := range fix.Edits {
					fixJSON.Edits[k] = FixEditJSON{
						Location: makeLocation(edit.Span, fs, opts.PathMode, opts.IncludePositions),
						NewText:  edit.NewText,
						OldText:  edit.OldText,
					}
				}
				fj.Fixes = append(fj.Fixes, fixJSON)
			}
		}

		findings = append(findings, fj)
	}

	errors, warnings, infos := bag.CountBySeverity()
	return FindingsOutput{
		Findings: findings,
		Count:    len(findings),
		Errors:   errors,
		Warnings: warnings,
		Infos:    infos,
	}
}

// JSON форматирует находки в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output := BuildFindingsOutput(bag, fs, opts)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
