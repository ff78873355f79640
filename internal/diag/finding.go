package diag

import (
	"sleuth/internal/source"
)

// Evidence is the reproducible observation behind a finding. A finding
// without evidence is not allowed to exist: every claim sleuth makes must
// be falsifiable against the data it was derived from.
type Evidence struct {
	Observed      string // что именно найдено в данных
	ExpectedRange string // в каких пределах значение считалось бы нормальным
	Statistic     string // вычисленная статистика (z-score, доли, счётчики)
	Context       string // окружение: имя поля, номер записи, и т.п.
	Baseline      string // состояние предыдущей версии (только drift)
}

func (e Evidence) Empty() bool {
	return e.Observed == "" && e.ExpectedRange == "" && e.Statistic == "" &&
		e.Context == "" && e.Baseline == ""
}

type Note struct {
	Span source.Span
	Msg  string
}

// FixApplicability describes how safely a fix can be applied without review.
type FixApplicability uint8

const (
	// FixAlwaysSafe fixes are line-scoped rewrites that cannot change meaning.
	FixAlwaysSafe FixApplicability = iota
	// FixNeedsReview fixes are plausible but may lose information.
	FixNeedsReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixAlwaysSafe:
		return "always-safe"
	case FixNeedsReview:
		return "needs-review"
	}
	return "unknown"
}

// TextEdit replaces the text at Span with NewText. OldText, when set, is a
// guard: the edit is rejected if the document no longer matches it.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is a suggested rewrite attached to a finding.
type Fix struct {
	ID            string
	Title         string
	Applicability FixApplicability
	Edits         []TextEdit
}

// Finding is one reported issue. Findings are append-only during a single
// analysis and immutable afterwards.
type Finding struct {
	Severity        Severity
	Confidence      Confidence
	Code            Code
	Primary         source.Span
	Message         string
	Evidence        Evidence
	WhyItMatters    string
	SuggestedAction string
	Notes           []Note
	Fixes           []Fix
}

func (f Finding) Category() Category {
	return f.Code.Category()
}

// CanAutoFix reports whether the finding carries at least one always-safe fix.
func (f Finding) CanAutoFix() bool {
	for _, fix := range f.Fixes {
		if fix.Applicability == FixAlwaysSafe {
			return true
		}
	}
	return false
}
