package engine

import (
	"fmt"
	"strings"

	"sleuth/internal/diag"
	"sleuth/internal/profile"
	"sleuth/internal/record"
)

// checkLogic runs cross-field rules inside single records: date ranges
// where the start is after the end, and duplicate values in identifier
// fields.
func checkLogic(ds *record.Dataset, prof *profile.DataProfile, bag *diag.Bag) {
	checkDateOrder(ds, prof, bag)
	checkDuplicateIDs(ds, prof, bag)
}

// checkDateOrder pairs date fields named start*/end* (startDate/endDate,
// start_date/end_date and similar) and flags records where the start comes
// after the end.
func checkDateOrder(ds *record.Dataset, prof *profile.DataProfile, bag *diag.Bag) {
	for fi := range prof.Fields {
		startField := &prof.Fields[fi]
		lower := strings.ToLower(startField.Name)
		if !strings.HasPrefix(lower, "start") {
			continue
		}
		endName, ok := matchEndField(prof, startField.Name)
		if !ok {
			continue
		}

		for ri := 0; ri < prof.SampleSize; ri++ {
			sv, okS := ds.Records[ri].Get(startField.Name)
			ev, okE := ds.Records[ri].Get(endName)
			if !okS || !okE || sv.Kind != record.KindString || ev.Kind != record.KindString {
				continue
			}
			startTS, ok1 := profile.ParseDate(sv.Str)
			endTS, ok2 := profile.ParseDate(ev.Str)
			if !ok1 || !ok2 || !startTS.After(endTS) {
				continue
			}

			span, _ := ds.Span(ri, startField.Name)
			fd, ok := diag.New(diag.SevError, diag.ConfHigh, diag.LgcDateOrder, span,
				fmt.Sprintf("%q (%s) is after %q (%s) in record %d", startField.Name, sv.Str, endName, ev.Str, ri+1),
				diag.Evidence{
					Observed:      fmt.Sprintf("%s > %s", sv.Str, ev.Str),
					ExpectedRange: fmt.Sprintf("%s <= %s", startField.Name, endName),
					Context:       fmt.Sprintf("record %d", ri+1),
				})
			if ok {
				endSpan, _ := ds.Span(ri, endName)
				fd = fd.WithNote(endSpan, "end date is here").
					WithWhy("a range that ends before it starts breaks any duration or interval computation").
					WithAction("swap the two dates or fix the wrong one")
				bag.Add(fd)
			}
		}
	}
}

// matchEndField maps "startDate" to "endDate", "start_date" to "end_date",
// "start" to "end". Comparison ignores case; the field must exist.
func matchEndField(prof *profile.DataProfile, startName string) (string, bool) {
	suffix := startName[len("start"):]
	for i := range prof.Fields {
		name := prof.Fields[i].Name
		if strings.HasPrefix(strings.ToLower(name), "end") && strings.EqualFold(name[len("end"):], suffix) {
			return name, true
		}
	}
	return "", false
}

// idField reports whether a field is an identifier by naming convention:
// "id", "*_id", "*.id" or a camel-case "*Id"/"*ID" tail.
func idField(name string) bool {
	lower := strings.ToLower(name)
	if lower == "id" || strings.HasSuffix(lower, "_id") || strings.HasSuffix(lower, ".id") {
		return true
	}
	return len(name) > 2 && (strings.HasSuffix(name, "Id") || strings.HasSuffix(name, "ID"))
}

// checkDuplicateIDs flags repeated values in identifier fields. Only fires
// when the duplicates are the exception: an id field that is mostly unique.
func checkDuplicateIDs(ds *record.Dataset, prof *profile.DataProfile, bag *diag.Bag) {
	for fi := range prof.Fields {
		fa := &prof.Fields[fi]
		if !idField(fa.Name) {
			continue
		}

		firstSeen := make(map[string]int)
		for ri := 0; ri < prof.SampleSize; ri++ {
			v, ok := ds.Records[ri].Get(fa.Name)
			if !ok || v.Kind == record.KindNull {
				continue
			}
			display := v.Display()
			first, dup := firstSeen[display]
			if !dup {
				firstSeen[display] = ri
				continue
			}

			span, _ := ds.Span(ri, fa.Name)
			fd, ok := diag.New(diag.SevWarning, diag.ConfHigh, diag.LgcDuplicateID, span,
				fmt.Sprintf("id %q in field %q already used by record %d", display, fa.Name, first+1),
				diag.Evidence{
					Observed:      display,
					ExpectedRange: "unique across all records",
					Context:       fmt.Sprintf("field %s, records %d and %d", fa.Name, first+1, ri+1),
				})
			if ok {
				firstSpan, _ := ds.Span(first, fa.Name)
				fd = fd.WithNote(firstSpan, "first used here").
					WithWhy("duplicate identifiers silently merge or overwrite records downstream").
					WithAction("assign a unique id to one of the records")
				bag.Add(fd)
			}
		}
	}
}
