package source

import (
	"strings"
	"testing"
)

func TestBuildLineIndexSeparators(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []uint32
	}{
		{"empty", "", []uint32{0}},
		{"no newline", "abc", []uint32{0}},
		{"lf", "a\nb\n", []uint32{0, 2, 4}},
		{"crlf", "a\r\nb\r\n", []uint32{0, 3, 6}},
		{"bare cr", "a\rb\rc", []uint32{0, 2, 4}},
		{"mixed", "a\nb\r\nc\rd", []uint32{0, 2, 5, 7}},
	}
	for _, tc := range cases {
		got := buildLineIndex([]byte(tc.content))
		if len(got) != len(tc.want) {
			t.Errorf("%s: expected %d line starts, got %v", tc.name, len(tc.want), got)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: lineIdx[%d] = %d, want %d", tc.name, i, got[i], tc.want[i])
			}
		}
	}
}

// TestResolveRoundTrip проверяет, что для каждого валидного смещения
// позиция (line, col) снова указывает на тот же символ.
func TestResolveRoundTrip(t *testing.T) {
	content := "alpha\nbeta\r\ngamma\rdelta\n"
	fs := NewFileSet()
	id := fs.AddVirtual("round.json", []byte(content))
	f := fs.Get(id)

	for off := 0; off <= len(content); off++ {
		start, _ := fs.Resolve(Span{File: id, Start: uint32(off), End: uint32(off)})
		lineStart := f.LineIdx[start.Line-1]
		back := lineStart + start.Col - 1
		if back != uint32(off) {
			t.Fatalf("offset %d resolved to %d:%d which maps back to %d", off, start.Line, start.Col, back)
		}
		line := f.GetLine(start.Line)
		idx := int(start.Col - 1)
		if idx < len(line) && line[idx] != content[off] {
			t.Errorf("offset %d: line %q col %d has %q, want %q", off, line, start.Col, line[idx], content[off])
		}
	}
}

func TestResolveClampsOutOfRange(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("clamp.json", []byte("ab\ncd"))

	start, end := fs.Resolve(Span{File: id, Start: 100, End: 200})
	if start.Line != 2 || start.Col != 3 {
		t.Errorf("expected clamp to end of file (2:3), got %d:%d", start.Line, start.Col)
	}
	if end != start {
		t.Errorf("expected both ends clamped identically, got %v and %v", start, end)
	}
}

func TestGetLineBounds(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.csv", []byte("id,age\r\n1,2\r\n"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "id,age" {
		t.Errorf("line 1 = %q, want %q", got, "id,age")
	}
	if got := f.GetLine(2); got != "1,2" {
		t.Errorf("line 2 = %q, want %q", got, "1,2")
	}
	if got := f.GetLine(0); got != "" {
		t.Errorf("line 0 should be empty, got %q", got)
	}
	if got := f.GetLine(99); got != "" {
		t.Errorf("line 99 should be empty, got %q", got)
	}
}

func TestTextAt(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.json", []byte(`{"a":1}`))
	f := fs.Get(id)

	if got := f.TextAt(Span{File: id, Start: 1, End: 4}); got != `"a"` {
		t.Errorf("TextAt = %q, want %q", got, `"a"`)
	}
	if got := f.TextAt(Span{File: id, Start: 5, End: 500}); got != "1}" {
		t.Errorf("TextAt clamped = %q, want %q", got, "1}")
	}
	if got := f.TextAt(Span{File: id, Start: 500, End: 600}); got != "" {
		t.Errorf("TextAt out of range = %q, want empty", got)
	}
}

func TestLineSpanMatchesGetLine(t *testing.T) {
	content := "one\ntwo\r\nthree"
	fs := NewFileSet()
	id := fs.AddVirtual("ls.yaml", []byte(content))
	f := fs.Get(id)

	for n := uint32(1); n <= f.LineCount(); n++ {
		if got, want := f.TextAt(f.LineSpan(n)), f.GetLine(n); got != want {
			t.Errorf("line %d: TextAt(LineSpan) = %q, GetLine = %q", n, got, want)
		}
	}
}

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("data.json", []byte(`{"a":1}`), 0)
	id2 := fs.Add("data.json", []byte(`{"a":1,"b":2}`), 0)
	if id1 == id2 {
		t.Fatal("expected distinct FileIDs for two versions of the same path")
	}

	latest, ok := fs.GetLatest("data.json")
	if !ok || latest != id2 {
		t.Errorf("GetLatest = %d ok=%v, want %d", latest, ok, id2)
	}
	if string(fs.Get(id1).Content) != `{"a":1}` {
		t.Error("first version content changed after second Add")
	}
}

func TestRemoveBOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("{}")...)
	got, had := removeBOM(content)
	if !had || string(got) != "{}" {
		t.Errorf("removeBOM = %q had=%v", got, had)
	}

	plain := []byte("{}")
	got, had = removeBOM(plain)
	if had || string(got) != "{}" {
		t.Errorf("removeBOM on plain input = %q had=%v", got, had)
	}
}

func TestHashDiffersPerContent(t *testing.T) {
	fs := NewFileSet()
	a := fs.AddVirtual("a", []byte("x"))
	b := fs.AddVirtual("b", []byte("y"))
	if fs.Get(a).Hash == fs.Get(b).Hash {
		t.Error("expected different hashes for different content")
	}
	if !strings.HasPrefix(fs.Get(a).Path, "a") {
		t.Errorf("unexpected path normalization: %q", fs.Get(a).Path)
	}
}
