package fix

import (
	"errors"
	"testing"

	"sleuth/internal/diag"
	"sleuth/internal/jsonscan"
	"sleuth/internal/source"
	"sleuth/internal/structure"
)

func setup(t *testing.T, content string) (*source.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.dat", []byte(content))
	return fs.Get(id), diag.NewBag(100)
}

func jsonReparse(content []byte) bool {
	fs := source.NewFileSet()
	id := fs.AddVirtual("reparse.json", content)
	return jsonscan.Parse(fs.Get(id)).Valid()
}

func TestApplyTrailingComma(t *testing.T) {
	f, bag := setup(t, `{"a":1,}`)
	structure.ValidateJSON(f, bag)

	res, err := Apply(f, bag.Items(), Options{Reparse: jsonReparse})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.Content); got != `{"a":1}` {
		t.Errorf("content = %q", got)
	}
	if len(res.Applied) != 1 {
		t.Errorf("applied: %+v", res.Applied)
	}
}

func TestApplyMultipleEditsDescending(t *testing.T) {
	// несколько правок в одном проходе: правки применяются от конца файла,
	// чтобы смещения не уплывали
	f, bag := setup(t, "{\"a\": [1,2,],\n \"b\": {\"c\": 3,},\n \"d\": 4,}")
	structure.ValidateJSON(f, bag)
	bag.Sort()
	bag.Dedup()

	res, err := Apply(f, bag.Items(), Options{Reparse: jsonReparse})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "{\"a\": [1,2],\n \"b\": {\"c\": 3},\n \"d\": 4}"
	if got := string(res.Content); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
	if len(res.Applied) != 3 {
		t.Errorf("applied %d fixes", len(res.Applied))
	}
}

func TestApplyAppendsMissingClosers(t *testing.T) {
	f, bag := setup(t, `{"a": [1, 2`)
	structure.ValidateJSON(f, bag)

	res, err := Apply(f, bag.Items(), Options{Reparse: jsonReparse})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.Content); got != `{"a": [1, 2]}` {
		t.Errorf("content = %q", got)
	}
}

func TestApplySkipsNeedsReviewByDefault(t *testing.T) {
	f, bag := setup(t, `{"x": NaN}`)
	structure.ValidateJSON(f, bag)

	_, err := Apply(f, bag.Items(), Options{})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}

	// с явным разрешением literal заменяется на null
	res, err := Apply(f, bag.Items(), Options{IncludeNeedsReview: true, Reparse: jsonReparse})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.Content); got != `{"x": null}` {
		t.Errorf("content = %q", got)
	}
}

func TestApplyOldTextGuard(t *testing.T) {
	f, _ := setup(t, `{"a":1}`)
	fd, _ := diag.NewError(diag.StrTrailingComma, source.Span{File: f.ID, Start: 6, End: 7}, "fake", diag.Evidence{Observed: "x"})
	fd = fd.WithFix(diag.Fix{
		ID:            "test.guard",
		Applicability: diag.FixAlwaysSafe,
		Edits:         []diag.TextEdit{{Span: source.Span{File: f.ID, Start: 6, End: 7}, OldText: ","}},
	})

	res, err := Apply(f, []diag.Finding{fd}, Options{})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "existing text does not match expected content" {
		t.Errorf("skipped: %+v", res.Skipped)
	}
}

func TestApplyConflictingEdits(t *testing.T) {
	f, _ := setup(t, "abcdef")
	mk := func(id string, start, end uint32) diag.Finding {
		fd, _ := diag.NewError(diag.StrUnexpectedToken, source.Span{File: f.ID, Start: start, End: end}, "t", diag.Evidence{Observed: "x"})
		return fd.WithFix(diag.Fix{
			ID:            id,
			Applicability: diag.FixAlwaysSafe,
			Edits:         []diag.TextEdit{{Span: source.Span{File: f.ID, Start: start, End: end}, NewText: "_"}},
		})
	}

	res, err := Apply(f, []diag.Finding{mk("first", 1, 4), mk("second", 3, 5)}, Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].FixID != "first" {
		t.Errorf("applied: %+v", res.Applied)
	}
	if len(res.Skipped) != 1 {
		t.Errorf("skipped: %+v", res.Skipped)
	}
	if got := string(res.Content); got != "a_ef" {
		t.Errorf("content = %q", got)
	}
}

func TestApplyReparseGate(t *testing.T) {
	f, bag := setup(t, `{"a":1,}`)
	structure.ValidateJSON(f, bag)

	res, err := Apply(f, bag.Items(), Options{Reparse: func([]byte) bool { return false }})
	if !errors.Is(err, ErrReparse) {
		t.Fatalf("err = %v, want ErrReparse", err)
	}
	// исходный текст не тронут
	if got := string(res.Content); got != `{"a":1,}` {
		t.Errorf("content = %q", got)
	}
	if res.Changed() {
		t.Error("rejected rewrite must not count as applied")
	}
}

func TestApplyNoFixes(t *testing.T) {
	f, _ := setup(t, "plain")
	if _, err := Apply(f, nil, Options{}); !errors.Is(err, ErrNoFixes) {
		t.Errorf("err = %v", err)
	}
}
