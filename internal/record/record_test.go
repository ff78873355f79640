package record

import (
	"testing"

	"sleuth/internal/jsonscan"
	"sleuth/internal/source"
)

func virtualFile(t *testing.T, content string) (*source.FileSet, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.dat", []byte(content))
	return fs, fs.Get(id)
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    Format
	}{
		{"json object", `{"a": 1}`, FormatJSON},
		{"json array", `[1, 2, 3]`, FormatJSON},
		{"json with leading space", "  \n\t{\"a\": 1}", FormatJSON},
		{"xml", `<root><item/></root>`, FormatXML},
		{"csv", "id,name\n1,alice\n2,bob", FormatCSV},
		{"yaml", "name: alice\nage: 30", FormatYAML},
		{"empty", "", FormatJSON},
		{"plain text", "hello world\nsecond line", FormatJSON},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect([]byte(tc.content)); got != tc.want {
				t.Errorf("Detect(%q) = %v, want %v", tc.content, got, tc.want)
			}
		})
	}
}

func TestFormatForPath(t *testing.T) {
	if got := FormatForPath("data.csv"); got != FormatCSV {
		t.Errorf("data.csv -> %v", got)
	}
	if got := FormatForPath("cfg.yml"); got != FormatYAML {
		t.Errorf("cfg.yml -> %v", got)
	}
	if got := FormatForPath("notes.txt"); got != FormatAuto {
		t.Errorf("notes.txt -> %v", got)
	}
}

func TestSplitCSVLineBasic(t *testing.T) {
	_, f := virtualFile(t, "a,b,c")
	cells := SplitCSVLine(f, f.LineSpan(1))
	if len(cells) != 3 {
		t.Fatalf("ожидали 3 ячейки, получили %d", len(cells))
	}
	for i, want := range []string{"a", "b", "c"} {
		if cells[i].Text != want {
			t.Errorf("cell %d = %q, want %q", i, cells[i].Text, want)
		}
	}
	// спаны должны указывать ровно на текст ячейки
	if f.TextAt(cells[1].Span) != "b" {
		t.Errorf("span of cell 1 covers %q", f.TextAt(cells[1].Span))
	}
}

func TestSplitCSVLineQuoted(t *testing.T) {
	_, f := virtualFile(t, `1,"hello, world","say ""hi"""`)
	cells := SplitCSVLine(f, f.LineSpan(1))
	if len(cells) != 3 {
		t.Fatalf("ожидали 3 ячейки, получили %d", len(cells))
	}
	if cells[1].Text != "hello, world" {
		t.Errorf("quoted cell = %q", cells[1].Text)
	}
	if cells[2].Text != `say "hi"` {
		t.Errorf("escaped quotes = %q", cells[2].Text)
	}
	if !cells[1].Quoted || cells[0].Quoted {
		t.Error("Quoted flags wrong")
	}
}

func TestSplitCSVLineUnclosedQuote(t *testing.T) {
	_, f := virtualFile(t, `1,"broken`)
	cells := SplitCSVLine(f, f.LineSpan(1))
	if len(cells) != 2 {
		t.Fatalf("ожидали 2 ячейки, получили %d", len(cells))
	}
	if !cells[1].Unclosed {
		t.Error("незакрытая кавычка не помечена")
	}
}

func TestSplitCSVLineTrailingComma(t *testing.T) {
	_, f := virtualFile(t, "a,b,")
	cells := SplitCSVLine(f, f.LineSpan(1))
	if len(cells) != 3 {
		t.Fatalf("ожидали 3 ячейки, получили %d", len(cells))
	}
	if cells[2].Text != "" {
		t.Errorf("последняя ячейка должна быть пустой, получили %q", cells[2].Text)
	}
}

func TestFromCSV(t *testing.T) {
	_, f := virtualFile(t, "id,name,active\n1,alice,true\n2,bob,false\n\n3,,true")
	ds := FromCSV(f)

	if len(ds.FieldNames) != 3 {
		t.Fatalf("field names: %v", ds.FieldNames)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("ожидали 3 записи, получили %d", len(ds.Records))
	}

	v, ok := ds.Records[0].Get("id")
	if !ok || v.Kind != KindNumber || v.Num != 1 {
		t.Errorf("id = %+v", v)
	}
	v, _ = ds.Records[0].Get("active")
	if v.Kind != KindBool || !v.Bool {
		t.Errorf("active = %+v", v)
	}
	// пустая ячейка превращается в null
	v, _ = ds.Records[2].Get("name")
	if v.Kind != KindNull {
		t.Errorf("empty cell = %+v", v)
	}
}

func TestFromJSONArray(t *testing.T) {
	_, f := virtualFile(t, `[{"id": 1, "user": {"name": "alice"}}, {"id": 2, "tags": [1, 2]}]`)
	res := jsonscan.Parse(f)
	if !res.Valid() {
		t.Fatalf("parse errors: %v", res.Errors)
	}
	ds := FromJSON(f, res.Root)

	if len(ds.Records) != 2 {
		t.Fatalf("ожидали 2 записи, получили %d", len(ds.Records))
	}
	// вложенный объект раскрывается в точечное имя
	v, ok := ds.Records[0].Get("user.name")
	if !ok || v.Str != "alice" {
		t.Errorf("user.name = %+v, ok=%v", v, ok)
	}
	// вложенный массив остаётся строкой с исходным текстом
	v, ok = ds.Records[1].Get("tags")
	if !ok || v.Kind != KindString || v.Str != "[1, 2]" {
		t.Errorf("tags = %+v", v)
	}
}

func TestFromJSONScalarElements(t *testing.T) {
	_, f := virtualFile(t, `[1, "two", null]`)
	res := jsonscan.Parse(f)
	ds := FromJSON(f, res.Root)

	if len(ds.Records) != 3 {
		t.Fatalf("records: %d", len(ds.Records))
	}
	v, _ := ds.Records[0].Get("value")
	if v.Kind != KindNumber || v.Num != 1 {
		t.Errorf("first = %+v", v)
	}
	v, _ = ds.Records[2].Get("value")
	if v.Kind != KindNull {
		t.Errorf("third = %+v", v)
	}
}

func TestFromJSONSingleObject(t *testing.T) {
	_, f := virtualFile(t, `{"a": 1, "b": "x"}`)
	res := jsonscan.Parse(f)
	ds := FromJSON(f, res.Root)
	if len(ds.Records) != 1 {
		t.Fatalf("records: %d", len(ds.Records))
	}
	if len(ds.FieldNames) != 2 {
		t.Errorf("fields: %v", ds.FieldNames)
	}
}

func TestFromXML(t *testing.T) {
	_, f := virtualFile(t, "<users>\n<user><id>1</id><name>alice</name></user>\n<user><id>2</id><name>bob</name></user>\n</users>")
	ds, err := FromXML(f)
	if err != nil {
		t.Fatalf("FromXML: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("ожидали 2 записи, получили %d", len(ds.Records))
	}
	v, ok := ds.Records[0].Get("id")
	if !ok || v.Kind != KindNumber || v.Num != 1 {
		t.Errorf("id = %+v", v)
	}
	v, _ = ds.Records[1].Get("name")
	if v.Kind != KindString || v.Str != "bob" {
		t.Errorf("name = %+v", v)
	}
}

func TestFromYAMLSequence(t *testing.T) {
	_, f := virtualFile(t, "- id: 1\n  name: alice\n- id: 2\n  name: bob\n")
	ds, err := FromYAML(f)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("ожидали 2 записи, получили %d", len(ds.Records))
	}
	v, ok := ds.Records[0].Get("id")
	if !ok || v.Kind != KindNumber || v.Num != 1 {
		t.Errorf("id = %+v", v)
	}
	// спан скаляра должен указывать на его текст в файле
	if got := f.TextAt(v.Span); got != "1" {
		t.Errorf("span covers %q", got)
	}
}

func TestFromYAMLMapping(t *testing.T) {
	_, f := virtualFile(t, "name: alice\nmeta:\n  age: 30\nok: true\n")
	ds, err := FromYAML(f)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if len(ds.Records) != 1 {
		t.Fatalf("records: %d", len(ds.Records))
	}
	v, ok := ds.Records[0].Get("meta.age")
	if !ok || v.Kind != KindNumber || v.Num != 30 {
		t.Errorf("meta.age = %+v", v)
	}
	v, _ = ds.Records[0].Get("ok")
	if v.Kind != KindBool || !v.Bool {
		t.Errorf("ok = %+v", v)
	}
}

func TestDatasetSpanFallback(t *testing.T) {
	_, f := virtualFile(t, "id,name\n1,alice\n")
	ds := FromCSV(f)

	span, exact := ds.Span(0, "name")
	if !exact {
		t.Error("csv values carry exact spans")
	}
	if f.TextAt(span) != "alice" {
		t.Errorf("span covers %q", f.TextAt(span))
	}

	// несуществующее поле падает на спан записи
	span, exact = ds.Span(0, "missing")
	if exact {
		t.Error("missing field must not be exact")
	}
	if f.TextAt(span) != "1,alice" {
		t.Errorf("fallback covers %q", f.TextAt(span))
	}
}
