// Package scan runs the inspection engine over many files concurrently.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"sleuth/internal/baseline"
	"sleuth/internal/config"
	"sleuth/internal/engine"
	"sleuth/internal/logging"
	"sleuth/internal/record"
)

// Status describes where a file is in the scan.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress update. File-less events are not emitted; every
// event belongs to a concrete path.
type Event struct {
	File   string
	Stage  engine.Stage
	Status Status
}

// FileResult pairs a path with its analysis outcome. Err is set only when
// the file could not be read at all; analysis failures live in the Bag.
type FileResult struct {
	Path   string
	Result *engine.AnalyzeResult
	Err    error
}

// Runner drives concurrent analysis. Zero value is usable: one worker,
// default config, no events.
type Runner struct {
	Jobs   int
	Config *config.Config
	// Format forces a format for every file; FormatAuto sniffs per file.
	Format record.Format
	// StructureOnly stops each analysis after the structure stage.
	StructureOnly bool
	// Baselines, when set, enables drift against stored snapshots. Files
	// without a snapshot are analyzed without the drift stage.
	Baselines *baseline.Store
	// Events, when set, receives progress updates. Run does not close it.
	Events chan<- Event
}

// CollectFiles expands the argument list: plain files are kept as-is,
// directories are walked recursively for files in a known data format.
// The result is sorted and deduplicated.
func CollectFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if record.FormatForPath(path) != record.FormatAuto {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// Run analyzes every file and returns one result per input, in input order.
// The only error it returns is context cancellation.
func (r *Runner) Run(ctx context.Context, files []string) ([]FileResult, error) {
	jobs := r.Jobs
	if jobs < 1 {
		jobs = 1
	}

	log := logging.New("scan")
	log.Debug("starting", "files", len(files), "jobs", jobs)

	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		i, path := i, path
		r.emit(ctx, Event{File: path, Status: StatusQueued})
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.analyzeOne(ctx, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) analyzeOne(ctx context.Context, path string) FileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		r.emit(ctx, Event{File: path, Status: StatusError})
		return FileResult{Path: path, Err: err}
	}

	req := engine.AnalyzeRequest{
		Content:       content,
		FileName:      path,
		Format:        r.Format,
		Config:        r.Config,
		StructureOnly: r.StructureOnly,
		Progress: func(s engine.Stage) {
			r.emit(ctx, Event{File: path, Stage: s, Status: StatusWorking})
		},
	}
	if r.Baselines != nil {
		if snap, err := r.Baselines.Get(path); err == nil {
			req.PreviousProfile = &snap.Profile
		}
	}
	res := engine.Analyze(ctx, req)

	status := StatusDone
	if res.Bag.HasErrors() {
		status = StatusError
	}
	logging.New("scan").Debug("analyzed", "path", path, "findings", res.Bag.Len())
	r.emit(ctx, Event{File: path, Status: status})
	return FileResult{Path: path, Result: res}
}

func (r *Runner) emit(ctx context.Context, ev Event) {
	if r.Events == nil {
		return
	}
	select {
	case r.Events <- ev:
	case <-ctx.Done():
	}
}
