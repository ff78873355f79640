package jsonscan

import "sleuth/internal/source"

// ValueKind enumerates the node kinds of a parsed JSON tree.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
	// KindBad marks a value position holding a non-JSON literal such as
	// NaN, Infinity, or undefined. The parser keeps the node so later
	// stages can still locate and describe it.
	KindBad
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindBad:
		return "bad literal"
	}
	return "unknown"
}

// Member is one key/value pair of an object, with the key's own span kept
// separately so findings can point at the key rather than the whole pair.
type Member struct {
	Key     string
	KeySpan source.Span
	Value   *Value
}

// Value is one node of the parsed tree. Every node carries the byte span
// of the text it was parsed from.
type Value struct {
	Kind    ValueKind
	Span    source.Span
	Members []Member // объект
	Elems   []*Value // массив
	Str     string   // декодированная строка
	Num     float64
	Bool    bool
	Raw     string // исходный текст литерала (числа и bad literals)
}

// Lookup returns the member value for key, or nil.
func (v *Value) Lookup(key string) *Value {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	for i := range v.Members {
		if v.Members[i].Key == key {
			return v.Members[i].Value
		}
	}
	return nil
}
