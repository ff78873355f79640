package record

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"fortio.org/safecast"

	"sleuth/internal/source"
)

// FromXML builds a dataset from an XML document. The direct children of the
// root element become records; each record's child elements become fields
// holding the concatenated character data. Spans come from the decoder's
// input offsets, so they are exact for flat documents and conservative for
// nested ones.
func FromXML(f *source.File) (*Dataset, error) {
	ds := newDataset(FormatXML, f.ID)
	dec := xml.NewDecoder(bytes.NewReader(f.Content))
	dec.Strict = false

	depth := 0
	var rec *Record
	var recStart int64

	var fieldName string
	var fieldStart int64
	var fieldText strings.Builder
	var fieldEnd int64

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// возвращаем то, что успели собрать
			return ds, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 1:
				// корневой элемент
			case 2:
				rec = &Record{}
				recStart = dec.InputOffset()
			case 3:
				fieldName = t.Name.Local
				fieldStart = dec.InputOffset()
				fieldEnd = fieldStart
				fieldText.Reset()
			default:
				// глубже третьего уровня текст стекается в то же поле
			}

		case xml.CharData:
			if depth >= 3 && fieldName != "" {
				fieldText.Write(t)
				fieldEnd = dec.InputOffset()
			}

		case xml.EndElement:
			switch depth {
			case 3:
				if rec != nil && fieldName != "" {
					span := offsetSpan(f, fieldStart, fieldEnd)
					rec.Fields = append(rec.Fields, Field{
						Name:  fieldName,
						Value: coerceText(fieldText.String(), span),
					})
				}
				fieldName = ""
			case 2:
				if rec != nil {
					rec.Span = offsetSpan(f, recStart, dec.InputOffset())
					for i := range rec.Fields {
						ds.noteField(rec.Fields[i].Name)
					}
					ds.Records = append(ds.Records, *rec)
					rec = nil
				}
			}
			depth--
		}
	}
	return ds, nil
}

func offsetSpan(f *source.File, start, end int64) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		s = 0
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil || e < s {
		e = s
	}
	return source.Span{File: f.ID, Start: s, End: e}
}
