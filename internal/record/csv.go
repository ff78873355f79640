package record

import (
	"strconv"
	"strings"

	"sleuth/internal/source"
)

// Cell is one CSV field with its exact byte span (quotes included when the
// field was quoted).
type Cell struct {
	Text     string // содержимое без кавычек, с развёрнутыми ""
	Span     source.Span
	Quoted   bool
	Unclosed bool // кавычка открыта и не закрыта до конца строки
}

// SplitCSVLine splits one line into cells, comma-separated and quote-aware
// per RFC 4180. It never fails: malformed quoting is reported through the
// Unclosed flag so the structure validator can turn it into a finding.
func SplitCSVLine(f *source.File, lineSpan source.Span) []Cell {
	text := f.TextAt(lineSpan)
	base := lineSpan.Start

	cells := make([]Cell, 0, 8)
	i := 0
	for {
		cellStart := i
		var sb strings.Builder
		quoted := false
		unclosed := false

		if i < len(text) && text[i] == '"' {
			quoted = true
			i++
			for {
				if i >= len(text) {
					unclosed = true
					break
				}
				if text[i] == '"' {
					if i+1 < len(text) && text[i+1] == '"' {
						sb.WriteByte('"') // экранированная кавычка
						i += 2
						continue
					}
					i++
					break
				}
				sb.WriteByte(text[i])
				i++
			}
			// хвост после закрывающей кавычки до запятой приклеиваем как есть
			for i < len(text) && text[i] != ',' {
				sb.WriteByte(text[i])
				i++
			}
		} else {
			for i < len(text) && text[i] != ',' {
				sb.WriteByte(text[i])
				i++
			}
		}

		cells = append(cells, Cell{
			Text:     sb.String(),
			Span:     source.Span{File: lineSpan.File, Start: base + uint32(cellStart), End: base + uint32(i)},
			Quoted:   quoted,
			Unclosed: unclosed,
		})

		if i >= len(text) {
			return cells
		}
		i++ // запятая
		if i == len(text) {
			// строка кончается запятой: последняя ячейка пустая
			cells = append(cells, Cell{
				Text: "",
				Span: source.Span{File: lineSpan.File, Start: base + uint32(i), End: base + uint32(i)},
			})
			return cells
		}
	}
}

// FromCSV builds a dataset from a CSV document. The first non-empty line is
// the header; every later non-empty line becomes a record. Values are
// coerced the way spreadsheets read them: numerics become numbers,
// true/false become booleans, empty cells become nulls.
func FromCSV(f *source.File) *Dataset {
	ds := newDataset(FormatCSV, f.ID)

	var header []Cell
	for line := uint32(1); line <= f.LineCount(); line++ {
		lineSpan := f.LineSpan(line)
		if strings.TrimSpace(f.TextAt(lineSpan)) == "" {
			continue
		}
		cells := SplitCSVLine(f, lineSpan)
		if header == nil {
			header = cells
			for _, c := range header {
				ds.noteField(strings.TrimSpace(c.Text))
			}
			continue
		}

		rec := Record{Span: lineSpan}
		n := len(cells)
		if n > len(header) {
			n = len(header)
		}
		for i := 0; i < n; i++ {
			name := strings.TrimSpace(header[i].Text)
			rec.Fields = append(rec.Fields, Field{Name: name, Value: coerceText(cells[i].Text, cells[i].Span)})
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

// coerceText infers a typed value from raw text, the way CSV and XML
// readers must: the format itself carries no type information.
func coerceText(text string, span source.Span) Value {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Value{Kind: KindNull, Span: span, Located: true}
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return Value{Kind: KindBool, Bool: true, Span: span, Located: true}
	case "false":
		return Value{Kind: KindBool, Bool: false, Span: span, Located: true}
	}
	if num, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Value{Kind: KindNumber, Num: num, Str: trimmed, Span: span, Located: true}
	}
	return Value{Kind: KindString, Str: trimmed, Span: span, Located: true}
}
