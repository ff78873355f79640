package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"sleuth/internal/baseline"
	"sleuth/internal/config"
	"sleuth/internal/engine"
	"sleuth/internal/record"
	"sleuth/internal/scan"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <file|directory>...",
	Short: "Run the full inspection over data files",
	Long: `Run all six inspection stages (structure, profile, schema, anomaly, logic,
drift) over the given files or directories and report every finding with its
evidence. Directories are walked recursively for known data formats.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	inspectCmd.Flags().String("input", "auto", "input data format (auto|json|csv|xml|yaml)")
	inspectCmd.Flags().String("previous", "", "previous version of the file, enables the drift stage (single file only)")
	inspectCmd.Flags().Bool("against-baseline", false, "compare against the stored baseline snapshot")
	inspectCmd.Flags().Bool("save-baseline", false, "store the resulting profile as the new baseline snapshot")
	inspectCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	inspectCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
	inspectCmd.Flags().Bool("with-notes", false, "include finding notes in output")
	inspectCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	inspectCmd.Flags().Bool("details", false, "include evidence and suggested actions in pretty output")
	inspectCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	inputStr, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	inputFormat, err := readInputFormat(inputStr)
	if err != nil {
		return err
	}

	previousPath, err := cmd.Flags().GetString("previous")
	if err != nil {
		return err
	}
	againstBaseline, err := cmd.Flags().GetBool("against-baseline")
	if err != nil {
		return err
	}
	saveBaseline, err := cmd.Flags().GetBool("save-baseline")
	if err != nil {
		return err
	}
	if previousPath != "" && againstBaseline {
		return fmt.Errorf("--previous and --against-baseline cannot be used together")
	}

	files, err := scan.CollectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no data files found under %v", args)
	}
	if previousPath != "" && len(files) != 1 {
		return fmt.Errorf("--previous only works with a single file")
	}

	var store *baseline.Store
	if againstBaseline || saveBaseline {
		store, err = baseline.Open()
		if err != nil {
			return err
		}
	}

	var results []scan.FileResult
	if previousPath != "" {
		results, err = inspectWithPrevious(cmd, files[0], previousPath, inputFormat, cfg)
	} else {
		runner := &scan.Runner{
			Jobs:   resolveJobs(cmd),
			Config: cfg,
			Format: inputFormat,
		}
		if againstBaseline {
			runner.Baselines = store
		}
		results, err = runScan(cmd, runner, files)
	}
	if err != nil {
		return err
	}

	if saveBaseline {
		if err := storeBaselines(store, results); err != nil {
			return err
		}
	}

	exit, err := reportResults(cmd, results)
	if err != nil {
		return err
	}
	if exit != 0 {
		return silentExit(cmd)
	}
	return nil
}

func inspectWithPrevious(cmd *cobra.Command, path, previousPath string, format record.Format, cfg *config.Config) ([]scan.FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	previous, err := os.ReadFile(previousPath)
	if err != nil {
		return nil, err
	}
	res := engine.Analyze(cmd.Context(), engine.AnalyzeRequest{
		Content:         content,
		FileName:        path,
		Format:          format,
		PreviousContent: previous,
		Config:          cfg,
	})
	return []scan.FileResult{{Path: path, Result: res}}, nil
}

func resolveJobs(cmd *cobra.Command) int {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil || jobs < 1 {
		return runtime.NumCPU()
	}
	return jobs
}

func storeBaselines(store *baseline.Store, results []scan.FileResult) error {
	for _, r := range results {
		res := r.Result
		if res == nil || res.Profile == nil || res.Bag.HasErrors() {
			continue
		}
		content := res.FileSet.Get(res.FileID).Content
		if err := store.Put(r.Path, res.Format, res.Profile, content); err != nil {
			return fmt.Errorf("save baseline for %s: %w", r.Path, err)
		}
	}
	return nil
}
