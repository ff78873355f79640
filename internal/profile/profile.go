// Package profile computes per-field statistics over a flattened dataset.
// The profile is the ground truth every later stage compares against:
// schema checks need the majority type, anomaly checks need the moments,
// drift checks need two profiles side by side.
package profile

import (
	"sort"

	"sleuth/internal/record"
)

// DataType is the majority type of a field across all its records.
type DataType uint8

const (
	TypeNull DataType = iota
	TypeBoolean
	TypeNumber
	TypeString
	TypeDate
	TypeMixed
)

func (t DataType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeDate:
		return "date"
	case TypeMixed:
		return "mixed"
	}
	return "unknown"
}

// NumericStats are computed only for number-typed fields.
type NumericStats struct {
	Count        int
	Min          float64
	Max          float64
	Mean         float64
	Median       float64
	Stdev        float64
	P90          float64
	P95          float64
	P99          float64
	HasNegatives bool
	ZeroInflated bool
}

// StringStats are computed only for string-typed fields. Pattern is the
// format every sampled value matched (email, url, ipv4, uuid), or "".
type StringStats struct {
	MinLen  int
	MaxLen  int
	AvgLen  float64
	Pattern string
}

// EnumInfo is present when a field has few enough distinct values to be
// treated as a closed set.
type EnumInfo struct {
	Values []string // отсортированы для детерминизма
	Counts map[string]int
}

// Has reports whether v is in the observed set.
func (e *EnumInfo) Has(v string) bool {
	_, ok := e.Counts[v]
	return ok
}

// FieldAnalysis is everything the profiler learned about one field.
type FieldAnalysis struct {
	Name        string
	DataType    DataType
	NullCount   int
	NullRate    float64
	UniqueCount int
	UniqueRate  float64
	Samples     []string
	Numeric     *NumericStats
	String      *StringStats
	Enum        *EnumInfo
}

// DataProfile describes one document.
type DataProfile struct {
	Format      record.Format
	RecordCount int
	// SampleSize is how many records were actually profiled; less than
	// RecordCount only in reduced sampling mode.
	SampleSize int
	FileSize   int
	Fields     []FieldAnalysis
}

// Field returns the analysis for name, if present.
func (p *DataProfile) Field(name string) *FieldAnalysis {
	for i := range p.Fields {
		if p.Fields[i].Name == name {
			return &p.Fields[i]
		}
	}
	return nil
}

// Options tune the profiler. Zero values fall back to the defaults below.
type Options struct {
	// MaxRecords caps how many records are profiled; 0 profiles all.
	MaxRecords int
	// MajorityShare is the strict threshold for declaring a majority type.
	MajorityShare float64
	// EnumMaxUnique is the largest distinct-value count still treated as
	// an enum.
	EnumMaxUnique int
	// ZeroShare is the zero-inflation threshold.
	ZeroShare float64
	// SampleValues is how many example values each field keeps.
	SampleValues int
	// PatternSamples is how many string values are tested for a format.
	PatternSamples int
}

func (o Options) withDefaults() Options {
	if o.MajorityShare == 0 {
		o.MajorityShare = 0.8
	}
	if o.EnumMaxUnique == 0 {
		o.EnumMaxUnique = 20
	}
	if o.ZeroShare == 0 {
		o.ZeroShare = 0.5
	}
	if o.SampleValues == 0 {
		o.SampleValues = 10
	}
	if o.PatternSamples == 0 {
		o.PatternSamples = 100
	}
	return o
}

// Build profiles the dataset. The walk is single-pass per field and fully
// deterministic: same bytes in, same profile out.
func Build(ds *record.Dataset, fileSize int, opts Options) *DataProfile {
	opts = opts.withDefaults()

	sample := len(ds.Records)
	if opts.MaxRecords > 0 && sample > opts.MaxRecords {
		sample = opts.MaxRecords
	}

	prof := &DataProfile{
		Format:      ds.Format,
		RecordCount: len(ds.Records),
		SampleSize:  sample,
		FileSize:    fileSize,
		Fields:      make([]FieldAnalysis, 0, len(ds.FieldNames)),
	}

	for _, name := range ds.FieldNames {
		prof.Fields = append(prof.Fields, analyzeField(ds, name, sample, opts))
	}
	return prof
}

func analyzeField(ds *record.Dataset, name string, sample int, opts Options) FieldAnalysis {
	fa := FieldAnalysis{Name: name}

	typeCounts := make(map[DataType]int)
	distinct := make(map[string]int)
	var numbers []float64
	var strLenSum, strCount int
	minLen, maxLen := -1, 0
	nonNull := 0

	for i := 0; i < sample; i++ {
		v, ok := ds.Records[i].Get(name)
		if !ok || v.Kind == record.KindNull {
			// отсутствующее поле считается null
			fa.NullCount++
			continue
		}
		nonNull++

		vt := valueType(v)
		typeCounts[vt]++

		display := v.Display()
		distinct[display]++
		if len(fa.Samples) < opts.SampleValues && distinct[display] == 1 {
			fa.Samples = append(fa.Samples, display)
		}

		if v.Kind == record.KindNumber {
			numbers = append(numbers, v.Num)
		}
		if v.Kind == record.KindString {
			n := len(v.Str)
			strLenSum += n
			strCount++
			if minLen < 0 || n < minLen {
				minLen = n
			}
			if n > maxLen {
				maxLen = n
			}
		}
	}

	if sample > 0 {
		fa.NullRate = float64(fa.NullCount) / float64(sample)
	}
	fa.UniqueCount = len(distinct)
	if nonNull > 0 {
		fa.UniqueRate = float64(fa.UniqueCount) / float64(nonNull)
	}

	fa.DataType = majorityType(typeCounts, nonNull, opts.MajorityShare)

	if fa.DataType == TypeNumber && len(numbers) > 0 {
		fa.Numeric = numericStats(numbers, opts.ZeroShare)
	}
	if fa.DataType == TypeString && strCount > 0 {
		fa.String = &StringStats{
			MinLen:  minLen,
			MaxLen:  maxLen,
			AvgLen:  float64(strLenSum) / float64(strCount),
			Pattern: detectPattern(ds, name, sample, opts.PatternSamples),
		}
	}
	if nonNull > 0 && len(distinct) <= opts.EnumMaxUnique {
		values := make([]string, 0, len(distinct))
		for v := range distinct {
			values = append(values, v)
		}
		sort.Strings(values)
		fa.Enum = &EnumInfo{Values: values, Counts: distinct}
	}
	return fa
}

// valueType classifies one value. Strings that look like calendar dates
// count as dates; everything the reader already typed keeps its kind.
func valueType(v record.Value) DataType {
	switch v.Kind {
	case record.KindBool:
		return TypeBoolean
	case record.KindNumber:
		return TypeNumber
	case record.KindString:
		if LooksLikeDate(v.Str) {
			return TypeDate
		}
		return TypeString
	}
	return TypeNull
}

// majorityType picks the dominant type when it holds a strict majority of
// the non-null values. Exactly at the threshold the field stays mixed.
func majorityType(counts map[DataType]int, nonNull int, share float64) DataType {
	if nonNull == 0 {
		return TypeNull
	}
	best := TypeNull
	bestCount := 0
	for t, c := range counts {
		if c > bestCount || (c == bestCount && t < best) {
			best = t
			bestCount = c
		}
	}
	if float64(bestCount)/float64(nonNull) > share {
		return best
	}
	return TypeMixed
}

func detectPattern(ds *record.Dataset, name string, sample, maxSamples int) string {
	checked := 0
	var pattern string
	for i := 0; i < sample && checked < maxSamples; i++ {
		v, ok := ds.Records[i].Get(name)
		if !ok || v.Kind != record.KindString {
			continue
		}
		checked++
		p := classifyString(v.Str)
		if p == "" {
			return ""
		}
		if pattern == "" {
			pattern = p
		} else if pattern != p {
			return ""
		}
	}
	return pattern
}
