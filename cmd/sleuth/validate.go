package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sleuth/internal/scan"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] <file|directory>...",
	Short: "Check structure only, without profiling or anomaly detection",
	Long: `Run only the structure stage: format syntax, delimiter balance, duplicate
keys and column counts. Useful as a fast pre-commit or CI gate.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	validateCmd.Flags().String("input", "auto", "input data format (auto|json|csv|xml|yaml)")
	validateCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	validateCmd.Flags().String("ui", "off", "interactive progress display (auto|on|off)")
	validateCmd.Flags().Bool("with-notes", false, "include finding notes in output")
	validateCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	validateCmd.Flags().Bool("details", false, "include evidence and suggested actions in pretty output")
	validateCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	files, err := scan.CollectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no data files found under %v", args)
	}

	runner := &scan.Runner{
		Jobs:          resolveJobs(cmd),
		Config:        cfg,
		Format:        inputFormat,
		StructureOnly: true,
	}
	results, err := runScan(cmd, runner, files)
	if err != nil {
		return err
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
