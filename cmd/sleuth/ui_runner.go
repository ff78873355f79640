package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sleuth/internal/scan"
	"sleuth/internal/ui"
)

// uiMode управляет прогресс-баром: on, off или auto (решает терминал).
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.TrimSpace(strings.ToLower(value)))
	switch mode {
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	case "":
		return uiModeAuto, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func shouldUseTUI(mode uiMode) bool {
	if mode == uiModeAuto {
		return isTerminal(os.Stdout)
	}
	return mode == uiModeOn
}

type scanOutcome struct {
	results []scan.FileResult
	err     error
}

// runScan executes the runner, with a live progress display when the --ui
// mode, the output format and the terminal all allow it.
func runScan(cmd *cobra.Command, runner *scan.Runner, files []string) ([]scan.FileResult, error) {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return nil, err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, err
	}

	if quiet || format != "pretty" || !shouldUseTUI(mode) {
		return runner.Run(cmd.Context(), files)
	}

	events := make(chan scan.Event, 256)
	runner.Events = events
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		results, runErr := runner.Run(cmd.Context(), files)
		outcomeCh <- scanOutcome{results: results, err: runErr}
		close(events)
	}()

	model := ui.NewProgressModel(fmt.Sprintf("inspecting %d file(s)", len(files)), files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
