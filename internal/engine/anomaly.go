package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"sleuth/internal/config"
	"sleuth/internal/diag"
	"sleuth/internal/profile"
	"sleuth/internal/record"
)

// checkAnomalies hunts for values that are well-formed but implausible:
// statistical outliers, lone negatives, impossible dates and placeholder
// junk.
func checkAnomalies(ds *record.Dataset, prof *profile.DataProfile, bag *diag.Bag, cfg *config.Anomaly) {
	now := time.Now()
	for fi := range prof.Fields {
		fa := &prof.Fields[fi]
		switch fa.DataType {
		case profile.TypeNumber:
			checkNumericField(ds, fa, prof.SampleSize, bag, cfg)
		case profile.TypeDate:
			checkDateField(ds, fa, prof.SampleSize, bag, cfg, now)
		case profile.TypeString:
			checkPlaceholders(ds, fa, prof.SampleSize, bag, cfg)
		}
	}
}

func checkNumericField(ds *record.Dataset, fa *profile.FieldAnalysis, sample int, bag *diag.Bag, cfg *config.Anomaly) {
	st := fa.Numeric
	if st == nil {
		return
	}

	negatives := 0
	for ri := 0; ri < sample; ri++ {
		if v, ok := ds.Records[ri].Get(fa.Name); ok && v.Kind == record.KindNumber && v.Num < 0 {
			negatives++
		}
	}

	for ri := 0; ri < sample; ri++ {
		v, ok := ds.Records[ri].Get(fa.Name)
		if !ok || v.Kind != record.KindNumber {
			continue
		}

		// строго больше порога: ровно на границе значение ещё нормальное
		if z := st.ZScore(v.Num); math.Abs(z) > cfg.ZScoreThreshold {
			span, _ := ds.Span(ri, fa.Name)
			fd, ok := diag.New(diag.SevWarning, diag.ConfHigh, diag.AnmOutlier, span,
				fmt.Sprintf("value %s in field %q is a statistical outlier", v.Display(), fa.Name),
				diag.Evidence{
					Observed:      v.Display(),
					ExpectedRange: fmt.Sprintf("%.4g .. %.4g (mean %.4g)", st.Min, st.Max, st.Mean),
					Statistic:     fmt.Sprintf("z-score %.2f, threshold %.2f", z, cfg.ZScoreThreshold),
					Context:       fmt.Sprintf("field %s, record %d", fa.Name, ri+1),
				})
			if ok {
				fd = fd.WithWhy("a value this far from the rest usually means a unit mixup or a data entry slip").
					WithAction("verify the value against its source")
				bag.Add(fd)
			}
		}

		// единственное отрицательное значение в поле без других отрицательных
		if v.Num < 0 && negatives == 1 {
			span, _ := ds.Span(ri, fa.Name)
			fd, ok := diag.New(diag.SevWarning, diag.ConfMedium, diag.AnmNegative, span,
				fmt.Sprintf("field %q is otherwise non-negative, record %d holds %s", fa.Name, ri+1, v.Display()),
				diag.Evidence{
					Observed:      v.Display(),
					ExpectedRange: ">= 0, as in every other record",
					Context:       fmt.Sprintf("field %s, record %d", fa.Name, ri+1),
				})
			if ok {
				fd = fd.WithWhy("a lone negative in a non-negative field is usually a sign flip or a sentinel").
					WithAction("check whether the sign is intentional")
				bag.Add(fd)
			}
		}
	}
}

func checkDateField(ds *record.Dataset, fa *profile.FieldAnalysis, sample int, bag *diag.Bag, cfg *config.Anomaly, now time.Time) {
	futureLimit := now.AddDate(cfg.FutureYears, 0, 0)

	for ri := 0; ri < sample; ri++ {
		v, ok := ds.Records[ri].Get(fa.Name)
		if !ok || v.Kind != record.KindString {
			continue
		}
		ts, parsed := profile.ParseDate(v.Str)
		if !parsed {
			continue
		}

		var code diag.Code
		var msg string
		switch {
		case ts.Year() < cfg.MinYear:
			code = diag.AnmAncientDate
			msg = fmt.Sprintf("date %s in field %q predates %d", v.Str, fa.Name, cfg.MinYear)
		case ts.After(futureLimit):
			code = diag.AnmFutureDate
			msg = fmt.Sprintf("date %s in field %q is more than %d years in the future", v.Str, fa.Name, cfg.FutureYears)
		default:
			continue
		}

		span, _ := ds.Span(ri, fa.Name)
		fd, ok := diag.New(diag.SevWarning, diag.ConfHigh, code, span, msg,
			diag.Evidence{
				Observed:      v.Str,
				ExpectedRange: fmt.Sprintf("%d .. %d", cfg.MinYear, now.Year()+cfg.FutureYears),
				Context:       fmt.Sprintf("field %s, record %d", fa.Name, ri+1),
			})
		if ok {
			fd = fd.WithWhy("dates outside the plausible range are usually defaults (epoch, 9999) leaking through").
				WithAction("check how the date was produced")
			bag.Add(fd)
		}
	}
}

// checkPlaceholders only fires on fields that are otherwise populated and
// varied; in a sparse or constant field the tokens are probably deliberate.
func checkPlaceholders(ds *record.Dataset, fa *profile.FieldAnalysis, sample int, bag *diag.Bag, cfg *config.Anomaly) {
	if fa.NullRate >= cfg.PlaceholderNullRate || fa.UniqueRate <= cfg.PlaceholderUniqueRate {
		return
	}
	tokens := make(map[string]bool, len(cfg.Placeholders))
	for _, t := range cfg.Placeholders {
		tokens[strings.ToLower(t)] = true
	}

	for ri := 0; ri < sample; ri++ {
		v, ok := ds.Records[ri].Get(fa.Name)
		if !ok || v.Kind != record.KindString {
			continue
		}
		if !tokens[strings.ToLower(strings.TrimSpace(v.Str))] {
			continue
		}
		span, _ := ds.Span(ri, fa.Name)
		fd, ok := diag.New(diag.SevWarning, diag.ConfMedium, diag.AnmPlaceholder, span,
			fmt.Sprintf("placeholder %q in populated field %q", v.Str, fa.Name),
			diag.Evidence{
				Observed:  v.Str,
				Statistic: fmt.Sprintf("field is %.0f%% populated, %.0f%% unique", (1-fa.NullRate)*100, fa.UniqueRate*100),
				Context:   fmt.Sprintf("field %s, record %d", fa.Name, ri+1),
			})
		if ok {
			fd = fd.WithWhy("placeholder text hides missing data from null checks while polluting real values").
				WithAction("use null instead of a placeholder token")
			bag.Add(fd)
		}
	}
}
