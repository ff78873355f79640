package diag

import "sleuth/internal/source"

// New constructs a finding. It returns ok=false when the evidence is empty;
// callers must drop such findings rather than emit unfalsifiable claims.
func New(sev Severity, conf Confidence, code Code, primary source.Span, msg string, ev Evidence) (Finding, bool) {
	if ev.Empty() {
		return Finding{}, false
	}
	return Finding{
		Severity:   sev,
		Confidence: conf,
		Code:       code,
		Primary:    primary,
		Message:    msg,
		Evidence:   ev,
	}, true
}

// NewError is a shorthand for high-confidence error findings.
func NewError(code Code, primary source.Span, msg string, ev Evidence) (Finding, bool) {
	return New(SevError, ConfHigh, code, primary, msg, ev)
}

func (f Finding) WithNote(sp source.Span, msg string) Finding {
	f.Notes = append(f.Notes, Note{Span: sp, Msg: msg})
	return f
}

func (f Finding) WithFix(fix Fix) Finding {
	f.Fixes = append(f.Fixes, fix)
	return f
}

func (f Finding) WithWhy(why string) Finding {
	f.WhyItMatters = why
	return f
}

func (f Finding) WithAction(action string) Finding {
	f.SuggestedAction = action
	return f
}
