package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"sleuth/internal/diag"
	"sleuth/internal/source"
)

// fixtureBag собирает набор находок над одним виртуальным документом.
func fixtureBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := "{\"a\": 1,}\n{\"b\": 2}\n"
	id := fs.AddVirtual("data.json", []byte(content))

	bag := diag.NewBag(100)

	comma := source.Span{File: id, Start: 7, End: 8}
	f1, ok := diag.NewError(diag.StrTrailingComma, comma,
		"trailing comma before '}'", diag.Evidence{Observed: "\",\""})
	if !ok {
		t.Fatal("evidence rejected")
	}
	f1 = f1.WithAction("remove the comma").
		WithFix(diag.Fix{
			ID:            "json.strip-comma",
			Title:         "remove trailing comma",
			Applicability: diag.FixAlwaysSafe,
			Edits:         []diag.TextEdit{{Span: comma, OldText: ","}},
		})
	bag.Add(f1)

	f2, ok := diag.New(diag.SevWarning, diag.ConfMedium, diag.SchTypeMismatch,
		source.Span{File: id, Start: 11, End: 14},
		"field \"b\" is mostly numeric", diag.Evidence{Observed: "\"b\"", Context: "record 2"})
	if !ok {
		t.Fatal("evidence rejected")
	}
	f2 = f2.WithNote(comma, "first seen here")
	bag.Add(f2)

	bag.Sort()
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := fixtureBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		Color:       false,
		Context:     0,
		ShowDetails: true,
		ShowNotes:   true,
		ShowFixes:   true,
	})
	out := buf.String()

	if !strings.Contains(out, "data.json:1:8: ERROR STR1002 [high]: trailing comma before '}'") {
		t.Errorf("header line missing:\n%s", out)
	}
	if !strings.Contains(out, "1 | {\"a\": 1,}") {
		t.Errorf("context line missing:\n%s", out)
	}
	// каретка под запятой: 7 байт отступа
	if !strings.Contains(out, "|        ^") {
		t.Errorf("caret misplaced:\n%s", out)
	}
	if !strings.Contains(out, "observed: \",\"") {
		t.Errorf("evidence missing:\n%s", out)
	}
	if !strings.Contains(out, "action: remove the comma") {
		t.Errorf("action missing:\n%s", out)
	}
	if !strings.Contains(out, "fix: remove trailing comma [always-safe]") {
		t.Errorf("fix line missing:\n%s", out)
	}
	if !strings.Contains(out, "note: first seen here (data.json:1:8)") {
		t.Errorf("note missing:\n%s", out)
	}
}

func TestPrettyContextWindow(t *testing.T) {
	bag, fs := fixtureBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	out := buf.String()

	// у второй находки (строка 2) контекст захватывает строку 1
	if !strings.Contains(out, "2 | {\"b\": 2}") {
		t.Errorf("finding line missing:\n%s", out)
	}
	if strings.Count(out, "1 | {\"a\": 1,}") != 2 {
		t.Errorf("line 1 must appear in both context windows:\n%s", out)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := fixtureBag(t)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatal(err)
	}

	var out FindingsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Count != 2 || out.Errors != 1 || out.Warnings != 1 || out.Infos != 0 {
		t.Errorf("counters = %d/%d/%d/%d", out.Count, out.Errors, out.Warnings, out.Infos)
	}

	first := out.Findings[0]
	if first.Code != "STR1002" || first.Severity != "ERROR" || first.Category != "structure" {
		t.Errorf("first finding = %+v", first)
	}
	if first.Location.StartByte != 7 || first.Location.StartLine != 1 || first.Location.StartCol != 8 {
		t.Errorf("location = %+v", first.Location)
	}
	if !first.CanAutoFix || len(first.Fixes) != 1 || first.Fixes[0].Applicability != "always-safe" {
		t.Errorf("fix not serialized: %+v", first.Fixes)
	}
	if len(out.Findings[1].Notes) != 1 {
		t.Errorf("notes not serialized: %+v", out.Findings[1])
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := fixtureBag(t)
	out := BuildFindingsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Findings) != 1 {
		t.Errorf("truncation failed: count=%d", out.Count)
	}
	// счётчики по severity считаются по всему Bag, а не по срезу
	if out.Errors != 1 || out.Warnings != 1 {
		t.Errorf("severity counters = %d/%d", out.Errors, out.Warnings)
	}
}

func TestSARIF(t *testing.T) {
	bag, fs := fixtureBag(t)
	var buf bytes.Buffer
	err := SARIF(&buf, bag, fs, SarifRunMeta{
		ToolName:       "sleuth",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"sleuth", "inspect", "data.json"},
	})
	if err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if log.Version != "2.1.0" {
		t.Errorf("version = %q", log.Version)
	}
	if len(log.Runs) != 1 {
		t.Fatalf("runs = %d", len(log.Runs))
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "sleuth" || run.Tool.Driver.Version != "0.1.0" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %d", len(run.Results))
	}
	if run.Results[0].RuleID != "STR1002" || run.Results[0].Level != "error" {
		t.Errorf("first result = %+v", run.Results[0])
	}
	if run.Results[1].Level != "warning" {
		t.Errorf("second result level = %q", run.Results[1].Level)
	}
	region := run.Results[0].Locations[0].PhysicalLocation.Region
	if region.StartLine != 1 || region.StartColumn != 8 {
		t.Errorf("region = %+v", region)
	}
	if len(run.Tool.Driver.Rules) != 2 {
		t.Errorf("rules = %+v", run.Tool.Driver.Rules)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].CommandLine != "sleuth inspect data.json" {
		t.Errorf("invocation = %+v", run.Invocations)
	}
}

func TestShort(t *testing.T) {
	bag, fs := fixtureBag(t)
	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeAuto)

	want := "data.json:1:8: ERROR STR1002 trailing comma before '}'\n" +
		"data.json:2:2: WARNING SCH2001 field \"b\" is mostly numeric\n"
	if buf.String() != want {
		t.Errorf("short output:\n%s\nwant:\n%s", buf.String(), want)
	}
}
