package engine

import (
	"fmt"

	"sleuth/internal/diag"
	"sleuth/internal/profile"
	"sleuth/internal/record"
)

// minEnumRecords is how many records a file needs before a lone enum value
// counts as a violation rather than small-sample noise.
const minEnumRecords = 20

// checkSchema compares every value against what the profile says the field
// normally holds.
func checkSchema(ds *record.Dataset, prof *profile.DataProfile, bag *diag.Bag, format record.Format) {
	for fi := range prof.Fields {
		fa := &prof.Fields[fi]
		if fa.DataType == profile.TypeMixed || fa.DataType == profile.TypeNull {
			// без типа большинства сравнивать не с чем
			continue
		}
		for ri := 0; ri < prof.SampleSize; ri++ {
			v, ok := ds.Records[ri].Get(fa.Name)
			if !ok || v.Kind == record.KindNull {
				continue
			}
			checkValueType(ds, fa, ri, v, bag, format)
			checkEnum(ds, fa, prof, ri, v, bag)
		}
	}
}

func checkValueType(ds *record.Dataset, fa *profile.FieldAnalysis, ri int, v record.Value, bag *diag.Bag, format record.Format) {
	vt := valueTypeOf(v)
	if vt == fa.DataType {
		return
	}

	conf := diag.ConfHigh
	if numberStringPair(vt, fa.DataType) {
		switch format {
		case record.FormatCSV, record.FormatXML:
			// текстовые форматы не различают 7 и "7"; тип угадала коэрция
			return
		default:
			conf = diag.ConfMedium
		}
	}

	span, _ := ds.Span(ri, fa.Name)
	fd, ok := diag.New(diag.SevWarning, conf, diag.SchTypeMismatch, span,
		fmt.Sprintf("field %q is usually %s, record %d holds %s", fa.Name, fa.DataType, ri+1, vt),
		diag.Evidence{
			Observed:      v.Display(),
			ExpectedRange: fa.DataType.String(),
			Context:       fmt.Sprintf("field %s, record %d", fa.Name, ri+1),
		})
	if ok {
		fd = fd.WithWhy("one differently typed value breaks consumers that trust the column type").
			WithAction(fmt.Sprintf("convert the value to %s or fix the producer", fa.DataType))
		bag.Add(fd)
	}
}

func checkEnum(ds *record.Dataset, fa *profile.FieldAnalysis, prof *profile.DataProfile, ri int, v record.Value, bag *diag.Bag) {
	if fa.Enum == nil || prof.SampleSize < minEnumRecords {
		return
	}
	display := v.Display()
	if fa.Enum.Counts[display] != 1 {
		return
	}
	// одиночка в поле, где остальные значения повторяются: похоже на опечатку
	repeats := 0
	for _, c := range fa.Enum.Counts {
		if c > 1 {
			repeats++
		}
	}
	if repeats == 0 || repeats < len(fa.Enum.Counts)-1 {
		return
	}

	span, _ := ds.Span(ri, fa.Name)
	fd, ok := diag.New(diag.SevWarning, diag.ConfMedium, diag.SchEnumViolation, span,
		fmt.Sprintf("value %q appears once in enum-like field %q", display, fa.Name),
		diag.Evidence{
			Observed:      display,
			ExpectedRange: fmt.Sprintf("one of %v", fa.Enum.Values),
			Context:       fmt.Sprintf("field %s, record %d", fa.Name, ri+1),
		})
	if ok {
		fd = fd.WithWhy("in a field with a fixed value set, a one-off value is usually a typo").
			WithAction("check the value against the expected set")
		bag.Add(fd)
	}
}

func valueTypeOf(v record.Value) profile.DataType {
	switch v.Kind {
	case record.KindBool:
		return profile.TypeBoolean
	case record.KindNumber:
		return profile.TypeNumber
	case record.KindString:
		if profile.LooksLikeDate(v.Str) {
			return profile.TypeDate
		}
		return profile.TypeString
	}
	return profile.TypeNull
}

func numberStringPair(a, b profile.DataType) bool {
	return (a == profile.TypeNumber && b == profile.TypeString) ||
		(a == profile.TypeString && b == profile.TypeNumber)
}
