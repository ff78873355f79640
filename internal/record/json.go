package record

import (
	"sleuth/internal/jsonscan"
	"sleuth/internal/source"
)

// FromJSON flattens a parsed JSON tree. A top-level array yields one record
// per element; a top-level object yields a single record. Nested objects
// flatten into dotted field names; nested arrays and bad literals keep
// their raw source text as a string value.
func FromJSON(f *source.File, root *jsonscan.Value) *Dataset {
	ds := newDataset(FormatJSON, f.ID)
	if root == nil {
		return ds
	}

	switch root.Kind {
	case jsonscan.KindArray:
		for _, elem := range root.Elems {
			ds.appendJSONRecord(f, elem)
		}
	default:
		ds.appendJSONRecord(f, root)
	}
	return ds
}

func (d *Dataset) appendJSONRecord(f *source.File, node *jsonscan.Value) {
	if node == nil {
		return
	}
	rec := Record{Span: node.Span}
	if node.Kind == jsonscan.KindObject {
		flattenJSONObject(f, "", node, &rec)
	} else {
		// скалярный элемент массива верхнего уровня
		rec.Fields = append(rec.Fields, Field{Name: "value", Value: jsonValue(f, node)})
	}
	for i := range rec.Fields {
		d.noteField(rec.Fields[i].Name)
	}
	d.Records = append(d.Records, rec)
}

func flattenJSONObject(f *source.File, prefix string, obj *jsonscan.Value, rec *Record) {
	for i := range obj.Members {
		m := obj.Members[i]
		name := m.Key
		if prefix != "" {
			name = prefix + "." + name
		}
		if m.Value != nil && m.Value.Kind == jsonscan.KindObject {
			flattenJSONObject(f, name, m.Value, rec)
			continue
		}
		rec.Fields = append(rec.Fields, Field{Name: name, Value: jsonValue(f, m.Value)})
	}
}

func jsonValue(f *source.File, node *jsonscan.Value) Value {
	if node == nil {
		return Value{Kind: KindNull}
	}
	switch node.Kind {
	case jsonscan.KindNull:
		return Value{Kind: KindNull, Span: node.Span, Located: true}
	case jsonscan.KindBool:
		return Value{Kind: KindBool, Bool: node.Bool, Span: node.Span, Located: true}
	case jsonscan.KindNumber:
		return Value{Kind: KindNumber, Num: node.Num, Str: node.Raw, Span: node.Span, Located: true}
	case jsonscan.KindString:
		return Value{Kind: KindString, Str: node.Str, Span: node.Span, Located: true}
	case jsonscan.KindBad:
		// NaN/Infinity/undefined профилируются как null: численного
		// значения у них нет, а структурная стадия уже сообщила о них
		return Value{Kind: KindNull, Str: node.Raw, Span: node.Span, Located: true}
	default:
		// вложенный массив: сохраняем исходный текст как строку
		return Value{Kind: KindString, Str: f.TextAt(node.Span), Span: node.Span, Located: true}
	}
}
