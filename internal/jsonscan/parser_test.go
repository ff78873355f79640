package jsonscan

import (
	"testing"

	"sleuth/internal/source"
)

func parseText(t *testing.T, text string) (*Result, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.json", []byte(text))
	f := fs.Get(id)
	return Parse(f), f
}

func hasError(r *Result, code ErrCode) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestParseValidDocument(t *testing.T) {
	r, _ := parseText(t, `{"name":"ada","age":36,"tags":["x","y"],"ok":true,"none":null}`)
	if !r.Valid() {
		t.Fatalf("expected valid parse, errors: %v", r.Errors)
	}
	if r.Root.Kind != KindObject || len(r.Root.Members) != 5 {
		t.Fatalf("unexpected tree shape: %+v", r.Root)
	}
	if v := r.Root.Lookup("age"); v == nil || v.Kind != KindNumber || v.Num != 36 {
		t.Errorf("age = %+v", v)
	}
	if v := r.Root.Lookup("tags"); v == nil || v.Kind != KindArray || len(v.Elems) != 2 {
		t.Errorf("tags = %+v", v)
	}
}

func TestTrailingCommaObject(t *testing.T) {
	r, f := parseText(t, `{"a":1,}`)
	if r.Valid() {
		t.Fatal("trailing comma must not parse as valid")
	}
	if !hasError(r, ErrTrailingComma) {
		t.Fatalf("expected ErrTrailingComma, got %v", r.Errors)
	}
	for _, e := range r.Errors {
		if e.Code == ErrTrailingComma {
			if got := f.TextAt(e.Span); got != "," {
				t.Errorf("trailing comma span covers %q, want %q", got, ",")
			}
		}
	}
	// дерево всё равно построено
	if r.Root == nil || len(r.Root.Members) != 1 || r.Root.Members[0].Key != "a" {
		t.Errorf("expected recovered tree with member a, got %+v", r.Root)
	}
}

func TestTrailingCommaArray(t *testing.T) {
	r, _ := parseText(t, `[1,2,]`)
	if !hasError(r, ErrTrailingComma) {
		t.Fatalf("expected ErrTrailingComma, got %v", r.Errors)
	}
	if len(r.Root.Elems) != 2 {
		t.Errorf("expected 2 elements, got %d", len(r.Root.Elems))
	}
}

func TestMissingCommaBetweenProperties(t *testing.T) {
	r, _ := parseText(t, `{"a":1 "b":2}`)
	if !hasError(r, ErrMissingComma) {
		t.Fatalf("expected ErrMissingComma, got %v", r.Errors)
	}
	if len(r.Root.Members) != 2 {
		t.Errorf("both properties should survive recovery, got %d", len(r.Root.Members))
	}
}

func TestStrayCloserInObject(t *testing.T) {
	// посторонняя ']' внутри объекта: восстановление обязано двигаться
	// вперёд, а не крутиться на одном токене
	for _, text := range []string{`{]`, `{"a":1,]`, `{"a":1]`, `[{]]`} {
		r, _ := parseText(t, text)
		if r.Valid() {
			t.Errorf("%q must not parse as valid", text)
		}
		if !hasError(r, ErrUnexpectedToken) {
			t.Errorf("%q: expected ErrUnexpectedToken, got %v", text, r.Errors)
		}
		if len(r.Errors) > 8 {
			t.Errorf("%q: error cascade, %d errors", text, len(r.Errors))
		}
	}

	r, _ := parseText(t, `{"a":1]`)
	if r.Root == nil || len(r.Root.Members) != 1 || r.Root.Members[0].Key != "a" {
		t.Errorf("parsed members must survive recovery, got %+v", r.Root)
	}
}

func TestUnexpectedEOF(t *testing.T) {
	r, _ := parseText(t, `{"a":{"b":[1,2`)
	if !hasError(r, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", r.Errors)
	}
	if r.MissingClosers != "]}}" {
		t.Errorf("MissingClosers = %q, want %q", r.MissingClosers, "]}}")
	}
}

func TestBadLiteralsAreNonFatal(t *testing.T) {
	r, _ := parseText(t, `{"x":NaN,"y":Infinity,"z":undefined}`)
	if !r.Valid() {
		t.Fatalf("bad literals must be recoverable, errors: %v", r.Errors)
	}
	count := 0
	for _, e := range r.Errors {
		if e.Code == ErrBadLiteral {
			count++
		}
	}
	if count != 3 {
		t.Errorf("expected 3 bad literal errors, got %d (%v)", count, r.Errors)
	}
	if v := r.Root.Lookup("x"); v == nil || v.Kind != KindBad || v.Raw != "NaN" {
		t.Errorf("x = %+v", v)
	}
}

func TestNegativeInfinityLexesAsBadLiteral(t *testing.T) {
	r, _ := parseText(t, `[-Infinity]`)
	if !hasError(r, ErrBadLiteral) {
		t.Fatalf("expected ErrBadLiteral for -Infinity, got %v", r.Errors)
	}
}

func TestUnclosedString(t *testing.T) {
	r, _ := parseText(t, "{\"a\":\"oops\n}")
	if !hasError(r, ErrUnclosedString) {
		t.Fatalf("expected ErrUnclosedString, got %v", r.Errors)
	}
}

func TestStringDecoding(t *testing.T) {
	r, _ := parseText(t, `{"s":"a\"b\\c\ndA😀"}`)
	if !r.Valid() {
		t.Fatalf("errors: %v", r.Errors)
	}
	want := "a\"b\\c\ndA\U0001F600"
	if got := r.Root.Lookup("s").Str; got != want {
		t.Errorf("decoded %q, want %q", got, want)
	}
}

func TestEmptyDocument(t *testing.T) {
	r, _ := parseText(t, "   ")
	if r.Valid() {
		t.Fatal("empty document must not be valid")
	}
	if !hasError(r, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", r.Errors)
	}
}

func TestTrailingContent(t *testing.T) {
	r, _ := parseText(t, `{"a":1} {"b":2}`)
	if !hasError(r, ErrTrailingContent) {
		t.Errorf("expected ErrTrailingContent, got %v", r.Errors)
	}
}

func TestSpansPointIntoSource(t *testing.T) {
	text := `{"key": 42}`
	r, f := parseText(t, text)
	v := r.Root.Lookup("key")
	if got := f.TextAt(v.Span); got != "42" {
		t.Errorf("value span covers %q, want %q", got, "42")
	}
	if got := f.TextAt(r.Root.Members[0].KeySpan); got != `"key"` {
		t.Errorf("key span covers %q, want %q", got, `"key"`)
	}
}
