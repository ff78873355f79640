package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sleuth/internal/diagfmt"
	"sleuth/internal/scan"
	"sleuth/internal/version"
)

// reportResults prints every analysis outcome in the chosen output format
// and returns the process exit code (1 when any file has error findings or
// could not be read).
func reportResults(cmd *cobra.Command, results []scan.FileResult) (int, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return 0, err
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return 0, err
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return 0, err
	}
	details, err := cmd.Flags().GetBool("details")
	if err != nil {
		return 0, err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return 0, err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return 0, err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return 0, err
	}
	color, err := useColor(cmd)
	if err != nil {
		return 0, err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	exit := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "sleuth: %s: %v\n", r.Path, r.Err)
			exit = 1
		} else if r.Result.Bag.HasErrors() {
			exit = 1
		}
	}

	switch format {
	case "pretty":
		prettyOpts := diagfmt.PrettyOpts{
			Color:       color,
			Context:     2,
			PathMode:    pathMode,
			ShowDetails: details,
			ShowNotes:   withNotes,
			ShowFixes:   suggest,
		}
		multi := len(results) > 1
		first := true
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			if !first {
				fmt.Fprintln(os.Stdout)
			}
			first = false
			if multi {
				fmt.Fprintf(os.Stdout, "== %s ==\n", r.Path)
			}
			if r.Result.Bag.Len() == 0 {
				if !quiet {
					fmt.Fprintf(os.Stdout, "no findings in %s\n", r.Path)
				}
			} else {
				diagfmt.Pretty(os.Stdout, r.Result.Bag, r.Result.FileSet, prettyOpts)
			}
			if showTimings {
				printStageTimings(os.Stdout, r.Result.Timings)
			}
		}

	case "short":
		for _, r := range results {
			if r.Err == nil {
				diagfmt.Short(os.Stdout, r.Result.Bag, r.Result.FileSet, pathMode)
			}
		}

	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     suggest,
		}
		if len(results) == 1 && results[0].Err == nil {
			r := results[0]
			if err := diagfmt.JSON(os.Stdout, r.Result.Bag, r.Result.FileSet, jsonOpts); err != nil {
				return exit, err
			}
			break
		}
		output := make(map[string]diagfmt.FindingsOutput, len(results))
		for _, r := range results {
			if r.Err == nil {
				output[r.Path] = diagfmt.BuildFindingsOutput(r.Result.Bag, r.Result.FileSet, jsonOpts)
			}
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return exit, err
		}

	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "sleuth",
			ToolVersion:    version.Plain,
			InvocationArgs: os.Args,
		}
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			if err := diagfmt.SARIF(os.Stdout, r.Result.Bag, r.Result.FileSet, meta); err != nil {
				return exit, err
			}
		}

	default:
		return exit, fmt.Errorf("unknown format: %s", format)
	}

	return exit, nil
}
