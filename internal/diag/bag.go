package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates findings produced during one analysis. It is owned by a
// single analysis call and never shared.
type Bag struct {
	items []Finding
	max   int
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	// преаллокация ограничена, сам лимит - нет
	prealloc := max
	if prealloc > 256 {
		prealloc = 256
	}
	return &Bag{
		items: make([]Finding, 0, prealloc),
		max:   max,
	}
}

// Add добавляет находку, учитывая лимит.
// Возвращает false, если находка не добавлена (достигнут лимит
// или у находки пустое доказательство).
func (b *Bag) Add(f Finding) bool {
	if f.Evidence.Empty() {
		return false
	}
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, f)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors возвращает true, если есть хотя бы одна находка уровня Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasStructuralErrors reports whether any error-severity structure finding
// exists. This is the pipeline's short-circuit condition: such a document
// cannot be meaningfully profiled.
func (b *Bag) HasStructuralErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError && b.items[i].Category() == CatStructure {
			return true
		}
	}
	return false
}

// CountBySeverity returns the number of findings per severity level.
func (b *Bag) CountBySeverity() (errors, warnings, infos int) {
	for i := range b.items {
		switch b.items[i].Severity {
		case SevError:
			errors++
		case SevWarning:
			warnings++
		default:
			infos++
		}
	}
	return
}

// Items возвращает read-only slice находок.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Finding {
	return b.items
}

// Merge объединяет находки из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if newTotal := len(b.items) + len(other.items); newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
}

// Sort сортирует находки в порядке отчёта: severity (error > warning > info),
// затем confidence (high > medium > low), затем позиция в файле, затем код.
// Порядок детерминирован для одинакового входа.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		fi, fj := b.items[i], b.items[j]
		if fi.Severity != fj.Severity {
			return fi.Severity > fj.Severity
		}
		if fi.Confidence != fj.Confidence {
			return fi.Confidence > fj.Confidence
		}
		if fi.Primary.File != fj.Primary.File {
			return fi.Primary.File < fj.Primary.File
		}
		if fi.Primary.Start != fj.Primary.Start {
			return fi.Primary.Start < fj.Primary.Start
		}
		if fi.Primary.End != fj.Primary.End {
			return fi.Primary.End < fj.Primary.End
		}
		return fi.Code < fj.Code
	})
}

// Dedup удаляет повторы по паре (Code, Primary).
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Finding, 0, len(b.items))
	for _, f := range b.items {
		key := fmt.Sprintf("%d:%s", f.Code, f.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, f)
	}
	b.items = newitems
}
