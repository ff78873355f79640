package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sleuth/internal/engine"
	"sleuth/internal/fix"
	"sleuth/internal/jsonscan"
	"sleuth/internal/record"
	"sleuth/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file>",
	Short: "Apply automatic repairs to a damaged data file",
	Long: `Run the structure stage, collect the suggested fixes and apply the safe
ones. The repaired document must re-parse cleanly, otherwise no change is
made. Without --write the result is only summarized.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("write", false, "write the repaired document back to the file")
	fixCmd.Flags().String("output", "", "write the repaired document to a different path")
	fixCmd.Flags().Bool("unsafe", false, "also apply fixes that need review (may lose information)")
	fixCmd.Flags().String("input", "auto", "input data format (auto|json|csv|xml|yaml)")
}

func runFix(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	unsafeFixes, err := cmd.Flags().GetBool("unsafe")
	if err != nil {
		return err
	}
	inputStr, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	inputFormat, err := readInputFormat(inputStr)
	if err != nil {
		return err
	}
	if write && outputPath != "" {
		return fmt.Errorf("--write and --output are mutually exclusive")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(targetPath)
	if err != nil {
		return err
	}

	res := engine.Analyze(cmd.Context(), engine.AnalyzeRequest{
		Content:       content,
		FileName:      targetPath,
		Format:        inputFormat,
		Config:        cfg,
		StructureOnly: true,
	})

	opts := fix.Options{IncludeNeedsReview: unsafeFixes}
	if res.Format == record.FormatJSON {
		opts.Reparse = jsonReparse
	}

	f := res.FileSet.Get(res.FileID)
	applyRes, applyErr := fix.Apply(f, res.Bag.Items(), opts)
	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) {
			fmt.Fprintln(os.Stdout, "No applicable fixes found.")
			return nil
		}
		if errors.Is(applyErr, fix.ErrReparse) {
			return fmt.Errorf("fix: the repaired document does not re-parse, nothing was changed")
		}
		return applyErr
	}

	printApplySummary(applyRes)
	if !applyRes.Changed() {
		return nil
	}

	switch {
	case write:
		if err := os.WriteFile(targetPath, applyRes.Content, 0o644); err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Updated %s\n", targetPath)
	case outputPath != "":
		if err := os.WriteFile(outputPath, applyRes.Content, 0o644); err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", outputPath)
	default:
		fmt.Fprintln(os.Stdout, "Dry run; pass --write to update the file.")
	}
	return nil
}

func printApplySummary(res *fix.Result) {
	if len(res.Applied) > 0 {
		fmt.Fprintf(os.Stdout, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			fmt.Fprintf(os.Stdout, "  %s [%s] (%d edits)\n", item.Title, item.FixID, item.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(os.Stdout, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.FixID
			if id == "" {
				id = "(unnamed)"
			}
			fmt.Fprintf(os.Stdout, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
		}
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(os.Stdout, "No fixes applied.")
	}
}

func jsonReparse(content []byte) bool {
	fs := source.NewFileSet()
	id := fs.AddVirtual("reparse.json", content)
	return jsonscan.Parse(fs.Get(id)).Valid()
}
