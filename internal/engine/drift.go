package engine

import (
	"fmt"
	"math"

	"sleuth/internal/config"
	"sleuth/internal/diag"
	"sleuth/internal/profile"
	"sleuth/internal/source"
)

// compareProfiles reports what changed between two versions of the same
// document: record counts, the field set, and enum value sets. Both
// profiles are computed independently; drift never mixes their data.
func compareProfiles(cur, prev *profile.DataProfile, span source.Span, bag *diag.Bag, cfg *config.Drift) {
	checkRecordCount(cur, prev, span, bag, cfg)
	checkFieldSet(cur, prev, span, bag)
	checkEnumGrowth(cur, prev, span, bag)
}

func checkRecordCount(cur, prev *profile.DataProfile, span source.Span, bag *diag.Bag, cfg *config.Drift) {
	if prev.RecordCount == 0 {
		return
	}
	delta := float64(cur.RecordCount-prev.RecordCount) / float64(prev.RecordCount)
	if math.Abs(delta) < cfg.RecordCountRatio {
		return
	}

	direction := "grew"
	if delta < 0 {
		direction = "shrank"
	}
	fd, ok := diag.New(diag.SevWarning, diag.ConfHigh, diag.DrfRecordCount, span,
		fmt.Sprintf("record count %s by %.0f%%", direction, math.Abs(delta)*100),
		diag.Evidence{
			Observed:  fmt.Sprintf("%d records", cur.RecordCount),
			Baseline:  fmt.Sprintf("%d records", prev.RecordCount),
			Statistic: fmt.Sprintf("%.0f%% change, threshold %.0f%%", math.Abs(delta)*100, cfg.RecordCountRatio*100),
		})
	if ok {
		fd = fd.WithWhy("a jump this large usually means a truncated export or a duplicated batch").
			WithAction("compare the exports that produced the two versions")
		bag.Add(fd)
	}
}

func checkFieldSet(cur, prev *profile.DataProfile, span source.Span, bag *diag.Bag) {
	prevFields := make(map[string]bool, len(prev.Fields))
	for i := range prev.Fields {
		prevFields[prev.Fields[i].Name] = true
	}
	curFields := make(map[string]bool, len(cur.Fields))
	for i := range cur.Fields {
		curFields[cur.Fields[i].Name] = true
	}

	for i := range cur.Fields {
		name := cur.Fields[i].Name
		if prevFields[name] {
			continue
		}
		fd, ok := diag.New(diag.SevInfo, diag.ConfHigh, diag.DrfFieldAdded, span,
			fmt.Sprintf("field added: %s", name),
			diag.Evidence{
				Observed: fmt.Sprintf("field %q present", name),
				Baseline: "field absent in the previous version",
			})
		if ok {
			bag.Add(fd.WithAction("confirm the schema change is intentional"))
		}
	}

	for i := range prev.Fields {
		name := prev.Fields[i].Name
		if curFields[name] {
			continue
		}
		fd, ok := diag.New(diag.SevWarning, diag.ConfHigh, diag.DrfFieldRemoved, span,
			fmt.Sprintf("field removed: %s", name),
			diag.Evidence{
				Observed: fmt.Sprintf("field %q absent", name),
				Baseline: "field present in the previous version",
			})
		if ok {
			fd = fd.WithWhy("consumers reading the removed field will start seeing nulls or errors").
				WithAction("confirm the removal is intentional")
			bag.Add(fd)
		}
	}
}

// checkEnumGrowth reports values that joined an enum-like field present in
// both versions.
func checkEnumGrowth(cur, prev *profile.DataProfile, span source.Span, bag *diag.Bag) {
	for i := range cur.Fields {
		curField := &cur.Fields[i]
		if curField.Enum == nil {
			continue
		}
		prevField := prev.Field(curField.Name)
		if prevField == nil || prevField.Enum == nil {
			continue
		}

		for _, v := range curField.Enum.Values {
			if prevField.Enum.Has(v) {
				continue
			}
			fd, ok := diag.New(diag.SevInfo, diag.ConfMedium, diag.DrfNewEnumValue, span,
				fmt.Sprintf("new value %q in enum-like field %q", v, curField.Name),
				diag.Evidence{
					Observed: v,
					Baseline: fmt.Sprintf("previous values: %v", prevField.Enum.Values),
					Context:  fmt.Sprintf("field %s", curField.Name),
				})
			if ok {
				bag.Add(fd.WithAction("check whether consumers handle the new value"))
			}
		}
	}
}
