package record

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"sleuth/internal/source"
)

// FromYAML builds a dataset from a YAML document. A top-level sequence of
// mappings yields one record per item; a top-level mapping yields a single
// record. yaml.v3 reports 1-based line/column per node, which maps onto
// byte offsets through the file's line index.
func FromYAML(f *source.File) (*Dataset, error) {
	ds := newDataset(FormatYAML, f.ID)

	var doc yaml.Node
	if err := yaml.Unmarshal(f.Content, &doc); err != nil {
		return ds, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return ds, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		for _, item := range root.Content {
			ds.appendYAMLRecord(f, item)
		}
	case yaml.MappingNode:
		ds.appendYAMLRecord(f, root)
	case yaml.ScalarNode:
		rec := Record{Span: yamlSpan(f, root)}
		rec.Fields = append(rec.Fields, Field{Name: "value", Value: yamlValue(f, root)})
		ds.noteField("value")
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func (d *Dataset) appendYAMLRecord(f *source.File, node *yaml.Node) {
	rec := Record{Span: yamlSpan(f, node)}
	if node.Kind == yaml.MappingNode {
		flattenYAMLMapping(f, "", node, &rec)
	} else {
		rec.Fields = append(rec.Fields, Field{Name: "value", Value: yamlValue(f, node)})
	}
	for i := range rec.Fields {
		d.noteField(rec.Fields[i].Name)
	}
	d.Records = append(d.Records, rec)
}

func flattenYAMLMapping(f *source.File, prefix string, node *yaml.Node, rec *Record) {
	// yaml.v3 хранит мэппинг как плоский список [ключ, значение, ...]
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]
		name := key.Value
		if prefix != "" {
			name = prefix + "." + name
		}
		if val.Kind == yaml.MappingNode {
			flattenYAMLMapping(f, name, val, rec)
			continue
		}
		rec.Fields = append(rec.Fields, Field{Name: name, Value: yamlValue(f, val)})
	}
}

func yamlValue(f *source.File, node *yaml.Node) Value {
	span := yamlSpan(f, node)
	if node.Kind != yaml.ScalarNode {
		// вложенная последовательность: исходный текст как строка
		return Value{Kind: KindString, Str: f.TextAt(span), Span: span, Located: true}
	}

	switch node.Tag {
	case "!!null":
		return Value{Kind: KindNull, Span: span, Located: true}
	case "!!bool":
		b := strings.EqualFold(node.Value, "true") || strings.EqualFold(node.Value, "yes") || strings.EqualFold(node.Value, "on")
		return Value{Kind: KindBool, Bool: b, Span: span, Located: true}
	case "!!int", "!!float":
		if num, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return Value{Kind: KindNumber, Num: num, Str: node.Value, Span: span, Located: true}
		}
		return Value{Kind: KindString, Str: node.Value, Span: span, Located: true}
	default:
		return Value{Kind: KindString, Str: node.Value, Span: span, Located: true}
	}
}

// yamlSpan converts a node's line/column into a byte span covering the
// node's own text. For composite nodes the span covers their first line.
func yamlSpan(f *source.File, node *yaml.Node) source.Span {
	if node.Line <= 0 || uint32(node.Line) > f.LineCount() {
		return source.Span{File: f.ID}
	}
	lineStart := f.LineIdx[node.Line-1]
	start := lineStart + uint32(node.Column-1)
	end := start
	if node.Kind == yaml.ScalarNode {
		end = start + uint32(len(node.Value))
	} else {
		end = f.LineSpan(uint32(node.Line)).End
	}
	limit := uint32(len(f.Content))
	if start > limit {
		start = limit
	}
	if end > limit {
		end = limit
	}
	return source.Span{File: f.ID, Start: start, End: end}
}
