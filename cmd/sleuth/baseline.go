package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sleuth/internal/baseline"
	"sleuth/internal/engine"
	"sleuth/internal/scan"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage stored profile snapshots used for drift detection",
}

var baselineSaveCmd = &cobra.Command{
	Use:   "save <file|directory>...",
	Short: "Profile the files and store the snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBaselineSave,
}

var baselineShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the stored snapshot for a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselineShow,
}

var baselineDropCmd = &cobra.Command{
	Use:   "drop <file>...",
	Short: "Delete stored snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBaselineDrop,
}

func init() {
	baselineSaveCmd.Flags().String("input", "auto", "input data format (auto|json|csv|xml|yaml)")
	baselineCmd.AddCommand(baselineSaveCmd)
	baselineCmd.AddCommand(baselineShowCmd)
	baselineCmd.AddCommand(baselineDropCmd)
}

func runBaselineSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
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
	store, err := baseline.Open()
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

	saved := 0
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		res := engine.Analyze(cmd.Context(), engine.AnalyzeRequest{
			Content:  content,
			FileName: path,
			Format:   inputFormat,
			Config:   cfg,
		})
		if res.Profile == nil {
			fmt.Fprintf(os.Stderr, "sleuth: %s is structurally broken, snapshot not saved\n", path)
			continue
		}
		if err := store.Put(path, res.Format, res.Profile, content); err != nil {
			return fmt.Errorf("save baseline for %s: %w", path, err)
		}
		saved++
	}
	fmt.Fprintf(os.Stdout, "Saved %d snapshot(s).\n", saved)
	if saved < len(files) {
		return silentExit(cmd)
	}
	return nil
}

func runBaselineShow(cmd *cobra.Command, args []string) error {
	store, err := baseline.Open()
	if err != nil {
		return err
	}
	snap, err := store.Get(args[0])
	if err != nil {
		if errors.Is(err, baseline.ErrNotFound) {
			return fmt.Errorf("no snapshot stored for %s", args[0])
		}
		return err
	}

	fmt.Fprintf(os.Stdout, "%s\n", snap.Name)
	fmt.Fprintf(os.Stdout, "  taken:   %s\n", snap.TakenAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(os.Stdout, "  content: sha256:%s\n", snap.ContentHash)
	printProfile(os.Stdout, &snap.Profile)
	return nil
}

func runBaselineDrop(cmd *cobra.Command, args []string) error {
	store, err := baseline.Open()
	if err != nil {
		return err
	}
	for _, path := range args {
		if err := store.Drop(path); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stdout, "Dropped %d snapshot(s).\n", len(args))
	return nil
}
