package profile

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"sleuth/internal/jsonscan"
	"sleuth/internal/record"
	"sleuth/internal/source"
)

func datasetFromJSON(t *testing.T, content string) *record.Dataset {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.json", []byte(content))
	f := fs.Get(id)
	res := jsonscan.Parse(f)
	if !res.Valid() {
		t.Fatalf("test document does not parse: %v", res.Errors)
	}
	return record.FromJSON(f, res.Root)
}

func jsonRows(values []string, field string) string {
	rows := make([]string, len(values))
	for i, v := range values {
		rows[i] = fmt.Sprintf(`{%q: %s}`, field, v)
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func TestMajorityTypeStrictBoundary(t *testing.T) {
	// ровно 80% -- ещё mixed, строго больше -- уже типизировано
	eighty := make([]string, 0, 10)
	for i := 0; i < 8; i++ {
		eighty = append(eighty, "1")
	}
	eighty = append(eighty, `"a"`, `"b"`)
	ds := datasetFromJSON(t, jsonRows(eighty, "x"))
	p := Build(ds, 0, Options{})
	if got := p.Field("x").DataType; got != TypeMixed {
		t.Errorf("80%% exactly: type = %v, want mixed", got)
	}

	var eightyOne []string
	for i := 0; i < 81; i++ {
		eightyOne = append(eightyOne, "1")
	}
	for i := 0; i < 19; i++ {
		eightyOne = append(eightyOne, `"a"`)
	}
	ds = datasetFromJSON(t, jsonRows(eightyOne, "x"))
	p = Build(ds, 0, Options{})
	if got := p.Field("x").DataType; got != TypeNumber {
		t.Errorf("81%%: type = %v, want number", got)
	}
}

func TestNullRateCountsMissingFields(t *testing.T) {
	ds := datasetFromJSON(t, `[{"a": 1, "b": "x"}, {"a": null}, {"a": 3}]`)
	p := Build(ds, 0, Options{})

	a := p.Field("a")
	if a.NullCount != 1 || math.Abs(a.NullRate-1.0/3) > 1e-9 {
		t.Errorf("a: nulls=%d rate=%f", a.NullCount, a.NullRate)
	}
	// поле b отсутствует в двух записях из трёх
	b := p.Field("b")
	if b.NullCount != 2 {
		t.Errorf("b: nulls=%d", b.NullCount)
	}
}

func TestNumericStats(t *testing.T) {
	vals := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	ds := datasetFromJSON(t, jsonRows(vals, "n"))
	p := Build(ds, 0, Options{})

	st := p.Field("n").Numeric
	if st == nil {
		t.Fatal("no numeric stats")
	}
	if st.Min != 1 || st.Max != 10 {
		t.Errorf("min/max = %f/%f", st.Min, st.Max)
	}
	if st.Mean != 5.5 || st.Median != 5.5 {
		t.Errorf("mean/median = %f/%f", st.Mean, st.Median)
	}
	// nearest-rank: ceil(p/100*10)-1
	if st.P90 != 9 {
		t.Errorf("p90 = %f, want 9", st.P90)
	}
	if st.P95 != 10 || st.P99 != 10 {
		t.Errorf("p95/p99 = %f/%f", st.P95, st.P99)
	}
	if st.HasNegatives {
		t.Error("no negatives in input")
	}
}

func TestZeroInflation(t *testing.T) {
	ds := datasetFromJSON(t, jsonRows([]string{"0", "0", "0", "1", "2"}, "n"))
	p := Build(ds, 0, Options{})
	if !p.Field("n").Numeric.ZeroInflated {
		t.Error("60% zeros must be zero-inflated")
	}

	ds = datasetFromJSON(t, jsonRows([]string{"0", "0", "1", "2"}, "n"))
	p = Build(ds, 0, Options{})
	if p.Field("n").Numeric.ZeroInflated {
		t.Error("exactly 50% zeros is not inflated")
	}
}

func TestZScoreConstantField(t *testing.T) {
	ds := datasetFromJSON(t, jsonRows([]string{"5", "5", "5"}, "n"))
	p := Build(ds, 0, Options{})
	if z := p.Field("n").Numeric.ZScore(100); z != 0 {
		t.Errorf("constant field z = %f", z)
	}
}

func TestEnumDetection(t *testing.T) {
	ds := datasetFromJSON(t, jsonRows([]string{`"on"`, `"off"`, `"on"`, `"on"`, `"off"`}, "state"))
	p := Build(ds, 0, Options{})

	e := p.Field("state").Enum
	if e == nil {
		t.Fatal("two distinct values must be enum-like")
	}
	if len(e.Values) != 2 || e.Values[0] != "off" || e.Values[1] != "on" {
		t.Errorf("values = %v", e.Values)
	}
	if e.Counts["on"] != 3 {
		t.Errorf("counts = %v", e.Counts)
	}

	// больше лимита уникальных значений -- не enum
	var many []string
	for i := 0; i < 25; i++ {
		many = append(many, fmt.Sprintf("%q", fmt.Sprintf("v%d", i)))
	}
	p = Build(datasetFromJSON(t, jsonRows(many, "x")), 0, Options{})
	if p.Field("x").Enum != nil {
		t.Error("25 distinct values must not be enum-like")
	}
}

func TestStringPattern(t *testing.T) {
	ds := datasetFromJSON(t, jsonRows([]string{`"a@b.com"`, `"c@d.org"`}, "mail"))
	p := Build(ds, 0, Options{})
	st := p.Field("mail").String
	if st == nil || st.Pattern != "email" {
		t.Errorf("string stats = %+v", st)
	}

	ds = datasetFromJSON(t, jsonRows([]string{`"a@b.com"`, `"not an email"`}, "mail"))
	p = Build(ds, 0, Options{})
	if got := p.Field("mail").String.Pattern; got != "" {
		t.Errorf("mixed content pattern = %q", got)
	}
}

func TestDateType(t *testing.T) {
	ds := datasetFromJSON(t, jsonRows([]string{`"2024-01-02"`, `"2023-12-31"`}, "day"))
	p := Build(ds, 0, Options{})
	if got := p.Field("day").DataType; got != TypeDate {
		t.Errorf("type = %v, want date", got)
	}
}

func TestReducedSampling(t *testing.T) {
	ds := datasetFromJSON(t, jsonRows([]string{"1", "2", "3", "4"}, "n"))
	p := Build(ds, 0, Options{MaxRecords: 2})
	if p.RecordCount != 4 || p.SampleSize != 2 {
		t.Errorf("records=%d sample=%d", p.RecordCount, p.SampleSize)
	}
	if p.Field("n").Numeric.Max != 2 {
		t.Errorf("stats must only cover the sample, max = %f", p.Field("n").Numeric.Max)
	}
}

func TestSamplesCapped(t *testing.T) {
	var vals []string
	for i := 0; i < 30; i++ {
		vals = append(vals, fmt.Sprintf("%d", i))
	}
	ds := datasetFromJSON(t, jsonRows(vals, "n"))
	p := Build(ds, 0, Options{})
	if got := len(p.Field("n").Samples); got != 10 {
		t.Errorf("samples = %d, want 10", got)
	}
}

func TestParseDate(t *testing.T) {
	if _, ok := ParseDate("2024-06-01"); !ok {
		t.Error("iso date must parse")
	}
	if ts, ok := ParseDate("01/02/2006"); !ok || ts.Month() != 1 {
		t.Error("slash date is month-first")
	}
	if _, ok := ParseDate("tomorrow"); ok {
		t.Error("prose must not parse")
	}
}
