// Package engine runs the six-stage inspection pipeline over one document:
// structure, profile, schema, anomaly, logic, drift. One Analyze call owns
// everything it touches (file set, profile, findings), so concurrent calls
// never share state. Analysis failures come back as findings, never as raw
// errors: the caller always gets a report.
package engine

import (
	"context"
	"fmt"

	"sleuth/internal/config"
	"sleuth/internal/diag"
	"sleuth/internal/jsonscan"
	"sleuth/internal/observ"
	"sleuth/internal/profile"
	"sleuth/internal/record"
	"sleuth/internal/source"
	"sleuth/internal/structure"
)

// Stage identifies one step of the pipeline, for progress reporting.
type Stage uint8

const (
	StageStructure Stage = iota
	StageProfile
	StageSchema
	StageAnomaly
	StageLogic
	StageDrift
)

func (s Stage) String() string {
	switch s {
	case StageStructure:
		return "structure"
	case StageProfile:
		return "profile"
	case StageSchema:
		return "schema"
	case StageAnomaly:
		return "anomaly"
	case StageLogic:
		return "logic"
	case StageDrift:
		return "drift"
	}
	return "unknown"
}

// AnalyzeRequest describes one document to inspect.
type AnalyzeRequest struct {
	Content  []byte
	FileName string
	// Format is a hint; FormatAuto sniffs from content.
	Format record.Format
	// PreviousContent, when set, enables the drift stage.
	PreviousContent []byte
	// PreviousProfile, when set, is compared instead of PreviousContent
	// (baseline mode). PreviousContent wins when both are present.
	PreviousProfile *profile.DataProfile
	// Config falls back to the defaults when nil.
	Config *config.Config
	// Progress, when set, is called at the start of every stage.
	Progress func(Stage)
	// StructureOnly stops the pipeline after the structure stage.
	StructureOnly bool
}

// AnalyzeResult is the outcome of one analysis.
type AnalyzeResult struct {
	Bag     *diag.Bag
	Profile *profile.DataProfile
	FileSet *source.FileSet
	FileID  source.FileID
	Format  record.Format
	// JSON holds the parse tree for JSON inputs; the fix command reuses
	// it for its re-parse gate.
	JSON *jsonscan.Result
	// Timings covers every stage that actually ran.
	Timings observ.Report
}

// Analyze runs the pipeline. A panic escaping any stage is recovered once
// here and reported as a single synthetic structural finding.
func Analyze(ctx context.Context, req AnalyzeRequest) *AnalyzeResult {
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
	}

	res := &AnalyzeResult{
		Bag:     diag.NewBag(cfg.Limits.MaxFindings),
		FileSet: source.NewFileSet(),
	}

	timer := observ.NewTimer()
	enter := func(s Stage) int {
		if req.Progress != nil {
			req.Progress(s)
		}
		return timer.Begin(s.String())
	}
	defer func() { res.Timings = timer.Report() }()

	defer func() {
		if r := recover(); r != nil {
			// документ не должен уметь ронять детектив
			fd, ok := diag.NewError(diag.IntUnanalyzable, source.Span{File: res.FileID},
				"file could not be analyzed",
				diag.Evidence{Observed: fmt.Sprintf("internal failure: %v", r)})
			if ok {
				res.Bag.Add(fd.WithAction("report this input; it triggered a bug in the analyzer"))
			}
			finish(res.Bag)
		}
	}()

	res.FileID = res.FileSet.AddVirtual(fileName(req.FileName), req.Content)
	f := res.FileSet.Get(res.FileID)

	if tooLarge(f, cfg, res.Bag) {
		finish(res.Bag)
		return res
	}

	res.Format = resolveFormat(req.Format, req.FileName, req.Content)

	// стадия 1: структура
	ph := enter(StageStructure)
	res.JSON = structure.Validate(f, res.Format, res.Bag)
	if res.Format == record.FormatJSON && res.JSON != nil && res.JSON.Valid() {
		structure.ScanValueHygiene(f, res.JSON.Root, res.Bag)
	}
	timer.End(ph, res.Format.String())
	if req.StructureOnly || res.Bag.HasStructuralErrors() || ctx.Err() != nil {
		finish(res.Bag)
		return res
	}

	// стадия 2: профиль
	ph = enter(StageProfile)
	ds := buildDataset(f, res.Format, res.JSON, res.Bag)
	if res.Bag.HasStructuralErrors() {
		finish(res.Bag)
		return res
	}
	res.Profile = profile.Build(ds, len(f.Content), profileOptions(f, cfg))
	timer.End(ph, fmt.Sprintf("%d records", res.Profile.RecordCount))

	// стадии 3-5
	ph = enter(StageSchema)
	checkSchema(ds, res.Profile, res.Bag, res.Format)
	timer.End(ph, "")
	ph = enter(StageAnomaly)
	checkAnomalies(ds, res.Profile, res.Bag, &cfg.Anomaly)
	timer.End(ph, "")
	ph = enter(StageLogic)
	checkLogic(ds, res.Profile, res.Bag)
	timer.End(ph, "")

	// стадия 6: дрейф против предыдущей версии или бейзлайна
	if prev := previousProfile(req, res.FileSet, cfg); prev != nil {
		ph = enter(StageDrift)
		compareProfiles(res.Profile, prev, f.LineSpan(1), res.Bag, &cfg.Drift)
		timer.End(ph, "")
	}

	finish(res.Bag)
	return res
}

func finish(bag *diag.Bag) {
	bag.Sort()
	bag.Dedup()
}

func fileName(name string) string {
	if name == "" {
		return "<input>"
	}
	return name
}

func tooLarge(f *source.File, cfg *config.Config, bag *diag.Bag) bool {
	limit := cfg.Limits.MaxFileSizeMB << 20
	if limit <= 0 || len(f.Content) <= limit {
		return false
	}
	fd, ok := diag.NewError(diag.IntFileTooLarge, source.Span{File: f.ID},
		fmt.Sprintf("file is larger than %d MB", cfg.Limits.MaxFileSizeMB),
		diag.Evidence{
			Observed:      fmt.Sprintf("%d bytes", len(f.Content)),
			ExpectedRange: fmt.Sprintf("at most %d bytes", limit),
		})
	if ok {
		bag.Add(fd.WithAction("split the file or raise limits.max-file-size-mb in sleuth.toml"))
	}
	return true
}

func resolveFormat(hint record.Format, name string, content []byte) record.Format {
	if hint != record.FormatAuto {
		return hint
	}
	if byExt := record.FormatForPath(name); byExt != record.FormatAuto {
		return byExt
	}
	return record.Detect(content)
}

func profileOptions(f *source.File, cfg *config.Config) profile.Options {
	opts := profile.Options{
		MajorityShare:  cfg.Profile.MajorityShare,
		EnumMaxUnique:  cfg.Profile.EnumMaxUnique,
		ZeroShare:      cfg.Profile.ZeroShare,
		SampleValues:   cfg.Profile.SampleValues,
		PatternSamples: cfg.Profile.PatternSamples,
	}
	if len(f.Content) > cfg.Limits.ReducedSamplingMB<<20 {
		opts.MaxRecords = cfg.Limits.ReducedMaxRecords
	}
	return opts
}

// buildDataset flattens the document. Reader failures that the structure
// stage did not already classify become one generic structural finding.
func buildDataset(f *source.File, format record.Format, jsonRes *jsonscan.Result, bag *diag.Bag) *record.Dataset {
	switch format {
	case record.FormatJSON:
		if jsonRes == nil || jsonRes.Root == nil {
			return record.FromJSON(f, nil)
		}
		return record.FromJSON(f, jsonRes.Root)
	case record.FormatCSV:
		return record.FromCSV(f)
	case record.FormatXML:
		ds, err := record.FromXML(f)
		if err != nil {
			reportUnreadable(f, err, bag)
		}
		return ds
	case record.FormatYAML:
		ds, err := record.FromYAML(f)
		if err != nil {
			reportUnreadable(f, err, bag)
		}
		return ds
	}
	return record.FromJSON(f, nil)
}

func reportUnreadable(f *source.File, err error, bag *diag.Bag) {
	fd, ok := diag.NewError(diag.StrParseFailed, f.LineSpan(1),
		"document could not be read",
		diag.Evidence{Observed: err.Error()})
	if ok {
		bag.Add(fd.WithAction("fix the document by hand; this shape cannot be repaired mechanically"))
	}
}

func previousProfile(req AnalyzeRequest, fs *source.FileSet, cfg *config.Config) *profile.DataProfile {
	if len(req.PreviousContent) > 0 {
		prevID := fs.AddVirtual(fileName(req.FileName)+".previous", req.PreviousContent)
		prev := fs.Get(prevID)
		format := resolveFormat(req.Format, req.FileName, req.PreviousContent)

		// предыдущая версия профилируется независимо, её находки не нужны
		scratch := diag.NewBag(cfg.Limits.MaxFindings)
		jsonRes := structure.Validate(prev, format, scratch)
		if scratch.HasStructuralErrors() {
			return nil
		}
		ds := buildDataset(prev, format, jsonRes, scratch)
		if scratch.HasStructuralErrors() {
			return nil
		}
		return profile.Build(ds, len(prev.Content), profileOptions(prev, cfg))
	}
	return req.PreviousProfile
}
