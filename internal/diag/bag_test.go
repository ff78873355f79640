package diag

import (
	"testing"

	"sleuth/internal/source"
)

func mustFinding(t *testing.T, sev Severity, conf Confidence, code Code, start, end uint32) Finding {
	t.Helper()
	f, ok := New(sev, conf, code, source.Span{Start: start, End: end}, "test", Evidence{Observed: "x"})
	if !ok {
		t.Fatal("expected finding to be constructed")
	}
	return f
}

func TestNewRejectsEmptyEvidence(t *testing.T) {
	_, ok := New(SevError, ConfHigh, StrParseFailed, source.Span{}, "no proof", Evidence{})
	if ok {
		t.Error("finding with empty evidence must be rejected")
	}

	bag := NewBag(10)
	if bag.Add(Finding{Severity: SevError, Code: StrParseFailed}) {
		t.Error("Bag.Add must refuse findings with empty evidence")
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(10)
	bag.Add(mustFinding(t, SevInfo, ConfHigh, SchEmptyValue, 0, 1))
	bag.Add(mustFinding(t, SevWarning, ConfLow, StrDuplicateKey, 5, 6))
	bag.Add(mustFinding(t, SevError, ConfMedium, SchTypeMismatch, 20, 21))
	bag.Add(mustFinding(t, SevError, ConfHigh, AnmOutlier, 30, 31))
	bag.Add(mustFinding(t, SevError, ConfHigh, AnmOutlier, 10, 11))
	bag.Sort()

	items := bag.Items()
	// Ошибки раньше предупреждений, high-confidence раньше medium,
	// внутри группы — по возрастанию позиции.
	wantCodes := []Code{AnmOutlier, AnmOutlier, SchTypeMismatch, StrDuplicateKey, SchEmptyValue}
	for i, want := range wantCodes {
		if items[i].Code != want {
			t.Fatalf("position %d: got %s, want %s", i, items[i].Code.ID(), want.ID())
		}
	}
	if items[0].Primary.Start != 10 || items[1].Primary.Start != 30 {
		t.Errorf("ties must break by ascending offset: got %d then %d", items[0].Primary.Start, items[1].Primary.Start)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(mustFinding(t, SevError, ConfHigh, StrTrailingComma, 3, 4))
	bag.Add(mustFinding(t, SevError, ConfHigh, StrTrailingComma, 3, 4))
	bag.Add(mustFinding(t, SevError, ConfHigh, StrTrailingComma, 8, 9))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Errorf("expected 2 findings after dedup, got %d", bag.Len())
	}
}

func TestHasStructuralErrors(t *testing.T) {
	bag := NewBag(10)
	bag.Add(mustFinding(t, SevWarning, ConfHigh, StrDuplicateKey, 0, 1))
	if bag.HasStructuralErrors() {
		t.Error("structure warning must not count as a structural error")
	}
	bag.Add(mustFinding(t, SevError, ConfHigh, SchTypeMismatch, 0, 1))
	if bag.HasStructuralErrors() {
		t.Error("schema error must not count as a structural error")
	}
	bag.Add(mustFinding(t, SevError, ConfHigh, StrParseFailed, 0, 1))
	if !bag.HasStructuralErrors() {
		t.Error("structure error must trigger the short-circuit condition")
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(mustFinding(t, SevError, ConfHigh, StrParseFailed, 0, 1)) {
		t.Fatal("first Add should succeed")
	}
	if bag.Add(mustFinding(t, SevError, ConfHigh, StrParseFailed, 1, 2)) {
		t.Error("Add beyond capacity should report false")
	}
}

func TestBagLargeLimit(t *testing.T) {
	// лимит за пределами uint16 не должен сворачиваться в ноль
	bag := NewBag(65536)
	if bag.Cap() != 65536 {
		t.Fatalf("Cap = %d, want 65536", bag.Cap())
	}
	if !bag.Add(mustFinding(t, SevError, ConfHigh, StrParseFailed, 0, 1)) {
		t.Error("Add must succeed well below the limit")
	}

	small := NewBag(2)
	big := NewBag(65536)
	big.Add(mustFinding(t, SevWarning, ConfHigh, SchEmptyValue, 0, 1))
	big.Add(mustFinding(t, SevWarning, ConfHigh, SchEmptyValue, 1, 2))
	big.Add(mustFinding(t, SevWarning, ConfHigh, SchEmptyValue, 2, 3))
	small.Merge(big)
	if small.Len() != 3 || small.Cap() < 3 {
		t.Errorf("after merge: len %d cap %d", small.Len(), small.Cap())
	}
}

func TestCodeIDRanges(t *testing.T) {
	cases := []struct {
		code Code
		id   string
		cat  Category
	}{
		{StrTrailingComma, "STR1002", CatStructure},
		{SchTypeMismatch, "SCH2001", CatSchema},
		{AnmOutlier, "ANM3001", CatAnomaly},
		{LgcDateOrder, "LGC4001", CatLogic},
		{DrfFieldAdded, "DRF5002", CatDrift},
		{IntFileTooLarge, "INT6001", CatStructure},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.id {
			t.Errorf("Code %d ID = %q, want %q", tc.code, got, tc.id)
		}
		if got := tc.code.Category(); got != tc.cat {
			t.Errorf("Code %d category = %s, want %s", tc.code, got, tc.cat)
		}
	}
}
