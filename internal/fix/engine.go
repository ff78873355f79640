// Package fix applies the rewrites suggested by findings. The engine is
// deliberately conservative: by default only always-safe fixes run, every
// edit is guarded by the text it expects to replace, conflicting edits are
// skipped rather than merged, and a caller-supplied re-parse gate can veto
// the whole rewrite when the result is still broken.
package fix

import (
	"errors"
	"fmt"
	"sort"

	"sleuth/internal/diag"
	"sleuth/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ErrReparse is returned when the fixed content fails the re-parse gate;
// the original content is left untouched.
var ErrReparse = errors.New("fixed content does not parse; refusing the rewrite")

// Options configures fix selection.
type Options struct {
	// IncludeNeedsReview also applies fixes that may lose information.
	IncludeNeedsReview bool
	// Reparse, when set, validates the rewritten content before it is
	// accepted. Returning false rejects the whole rewrite.
	Reparse func(content []byte) bool
}

// Applied records one successfully applied fix.
type Applied struct {
	FixID     string
	Title     string
	Code      diag.Code
	Message   string
	EditCount int
}

// Skipped records a fix that was not applied and why.
type Skipped struct {
	FixID  string
	Title  string
	Reason string
}

// Result is the outcome of one Apply call over one document.
type Result struct {
	// Content is the rewritten document; equal to the input when nothing
	// was applied.
	Content []byte
	Applied []Applied
	Skipped []Skipped
}

func (r *Result) Changed() bool {
	return len(r.Applied) > 0
}

type candidate struct {
	finding diag.Finding
	fix     diag.Fix
	order   int
}

// Apply selects fixes from the findings and applies them to the file's
// content in memory. The caller decides what to do with Result.Content;
// the file on disk is never touched here.
func Apply(f *source.File, findings []diag.Finding, opts Options) (*Result, error) {
	result := &Result{Content: f.Content}

	candidates := gather(findings, opts, result)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	var accepted []diag.TextEdit
	for _, cand := range candidates {
		reason := stage(f, cand.fix.Edits, accepted)
		if reason != "" {
			result.Skipped = append(result.Skipped, Skipped{
				FixID:  cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: reason,
			})
			continue
		}
		accepted = append(accepted, cand.fix.Edits...)
		result.Applied = append(result.Applied, Applied{
			FixID:     cand.fix.ID,
			Title:     cand.fix.Title,
			Code:      cand.finding.Code,
			Message:   cand.finding.Message,
			EditCount: len(cand.fix.Edits),
		})
	}

	if len(accepted) == 0 {
		return result, ErrNoFixes
	}

	result.Content = applyEdits(f.Content, accepted)

	if opts.Reparse != nil && !opts.Reparse(result.Content) {
		result.Content = f.Content
		result.Applied = nil
		return result, ErrReparse
	}
	return result, nil
}

func gather(findings []diag.Finding, opts Options, result *Result) []candidate {
	var cands []candidate
	order := 0
	for i := range findings {
		for _, fx := range findings[i].Fixes {
			if len(fx.Edits) == 0 {
				result.Skipped = append(result.Skipped, Skipped{FixID: fx.ID, Title: fx.Title, Reason: "fix has no edits"})
				continue
			}
			if fx.Applicability != diag.FixAlwaysSafe && !opts.IncludeNeedsReview {
				result.Skipped = append(result.Skipped, Skipped{
					FixID:  fx.ID,
					Title:  fx.Title,
					Reason: fmt.Sprintf("applicability is %s", fx.Applicability),
				})
				continue
			}
			cands = append(cands, candidate{finding: findings[i], fix: fx, order: order})
			order++
		}
	}
	return cands
}

// sortCandidates orders fixes deterministically: by position, then by the
// order the findings produced them, then by id.
func sortCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		fi, fj := cands[i].finding, cands[j].finding
		if fi.Primary.Start != fj.Primary.Start {
			return fi.Primary.Start < fj.Primary.Start
		}
		if fi.Primary.End != fj.Primary.End {
			return fi.Primary.End < fj.Primary.End
		}
		if cands[i].order != cands[j].order {
			return cands[i].order < cands[j].order
		}
		return cands[i].fix.ID < cands[j].fix.ID
	})
}

// stage checks whether the edits can be applied on top of what was already
// accepted. Returns "" when they can, otherwise the skip reason. All checks
// run against the original content: edits are positioned in original
// coordinates and applied in one descending pass at the end.
func stage(f *source.File, edits []diag.TextEdit, accepted []diag.TextEdit) string {
	for _, e := range edits {
		if e.Span.File != f.ID {
			return "edit targets another file"
		}
		if int(e.Span.End) > len(f.Content) || e.Span.End < e.Span.Start {
			return "edit span out of range"
		}
		if e.OldText != "" && string(f.Content[e.Span.Start:e.Span.End]) != e.OldText {
			return "existing text does not match expected content"
		}
		for _, prev := range accepted {
			if spansConflict(prev, e) {
				return "conflicts with a previously accepted fix"
			}
		}
	}
	return ""
}

// applyEdits rewrites content in one pass. Edits are applied in descending
// span order so earlier offsets stay valid without bookkeeping.
func applyEdits(content []byte, edits []diag.TextEdit) []byte {
	sorted := append([]diag.TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start > sorted[j].Span.Start
		}
		return sorted[i].Span.End > sorted[j].Span.End
	})

	out := append([]byte(nil), content...)
	for _, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		suffix := append([]byte(nil), out[end:]...)
		out = append(append(out[:start], []byte(e.NewText)...), suffix...)
	}
	return out
}

// spansConflict reports whether two edits' spans overlap. Spans are
// half-open. Two zero-length inserts at the same position conflict: their
// relative order would be ambiguous.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return aStart == bStart
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
