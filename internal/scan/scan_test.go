package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sleuth/internal/diag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", "[]")
	b := writeFile(t, dir, "sub/b.csv", "x\n1\n")
	writeFile(t, dir, "notes.txt", "не данные")

	files, err := CollectFiles([]string{dir, a})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v", files)
	}
	// отсортировано и без дублей, .txt отброшен
	if files[0] != a || files[1] != b {
		t.Errorf("files = %v", files)
	}
}

func TestCollectFilesMissing(t *testing.T) {
	if _, err := CollectFiles([]string{"/no/such/path"}); err == nil {
		t.Error("want error for a missing path")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.json", `[{"id": 1}, {"id": 2}]`)
	broken := writeFile(t, dir, "broken.json", `{"a": 1,}`)

	events := make(chan Event, 256)
	r := Runner{Jobs: 2, Events: events}
	results, err := r.Run(context.Background(), []string{clean, broken})
	if err != nil {
		t.Fatal(err)
	}
	close(events)

	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	// порядок результатов совпадает с порядком входов
	if results[0].Path != clean || results[1].Path != broken {
		t.Errorf("order lost: %q, %q", results[0].Path, results[1].Path)
	}
	if results[0].Err != nil || results[0].Result.Bag.HasErrors() {
		t.Errorf("clean file flagged: %+v", results[0])
	}
	if !results[1].Result.Bag.HasErrors() {
		t.Error("broken file not flagged")
	}
	if !hasCode(results[1].Result.Bag, diag.StrTrailingComma) {
		t.Error("trailing comma not reported")
	}

	var done, failed int
	for ev := range events {
		switch {
		case ev.Status == StatusDone:
			done++
		case ev.Status == StatusError:
			failed++
		}
	}
	if done != 1 || failed != 1 {
		t.Errorf("done = %d, failed = %d", done, failed)
	}
}

func TestRunUnreadableFile(t *testing.T) {
	r := Runner{}
	results, err := r.Run(context.Background(), []string{"/no/such/file.json"})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err == nil {
		t.Error("want a read error")
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
