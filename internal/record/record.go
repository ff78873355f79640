// Package record turns parsed documents of every supported format into a
// uniform flat shape: a list of records, each a list of named fields with
// typed values and byte spans back into the source. All later analysis
// stages work on this shape and never touch format-specific trees again.
package record

import (
	"sleuth/internal/source"
)

// Kind is the structural type of a single field value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	}
	return "unknown"
}

// Value is one field value. Located reports whether Span points at the
// exact source text of the value; when false the span is a coarser
// fallback (usually the record's line) and must not be quoted as exact.
type Value struct {
	Kind    Kind
	Str     string
	Num     float64
	Bool    bool
	Span    source.Span
	Located bool
}

// Display returns the value as the user saw it in the file.
func (v Value) Display() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber, KindString:
		return v.Str
	}
	return v.Str
}

// Field is a named value inside one record.
type Field struct {
	Name  string
	Value Value
}

// Record is one flattened row. Field order is the encounter order in the
// source document.
type Record struct {
	Fields []Field
	// Span covers the whole record (array element, CSV line, XML element).
	Span source.Span
}

// Get returns the value for name, if the record has that field.
func (r *Record) Get(name string) (Value, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return r.Fields[i].Value, true
		}
	}
	return Value{}, false
}

// Dataset is the flattened document: one record per top-level array
// element (or a single record when the root is one object/mapping).
type Dataset struct {
	Format     Format
	FileID     source.FileID
	Records    []Record
	FieldNames []string // в порядке первого появления
	seen       map[string]bool
}

func newDataset(format Format, fileID source.FileID) *Dataset {
	return &Dataset{
		Format: format,
		FileID: fileID,
		seen:   make(map[string]bool),
	}
}

func (d *Dataset) noteField(name string) {
	if d.seen[name] {
		return
	}
	d.seen[name] = true
	d.FieldNames = append(d.FieldNames, name)
}

// Span returns the located span for (record index, field name). The second
// return is false when only a record-level fallback is available.
func (d *Dataset) Span(recordIdx int, fieldName string) (source.Span, bool) {
	if recordIdx < 0 || recordIdx >= len(d.Records) {
		return source.Span{}, false
	}
	rec := &d.Records[recordIdx]
	if v, ok := rec.Get(fieldName); ok && v.Located {
		return v.Span, true
	}
	return rec.Span, false
}
