package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sleuth/internal/logging"
	"sleuth/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sleuth",
	Short: "Data detective for JSON, CSV, XML and YAML files",
	Long:  `Sleuth inspects data files for structural damage, suspicious values and drift between versions, and backs every finding with evidence from the file itself.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelStr, err := cmd.Root().PersistentFlags().GetString("log-level")
		if err != nil {
			return err
		}
		logFormat, err := cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return err
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelStr)); err != nil {
			return fmt.Errorf("invalid --log-level value %q: %w", levelStr, err)
		}
		logging.Init(level, logFormat)
		return nil
	},
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-findings", 0, "maximum number of findings to show (0=config default)")
	rootCmd.PersistentFlags().String("config", "", "path to sleuth.toml (default: discovered from the working directory upwards)")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this path")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this path")
	rootCmd.PersistentFlags().String("traceprofile", "", "write a runtime trace to this path")
	rootCmd.PersistentFlags().String("log-level", "warn", "log verbosity (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log output format (text|json)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
