package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sleuth/internal/config"
	"sleuth/internal/record"
)

// loadConfig resolves the effective configuration: an explicit --config path
// wins, otherwise sleuth.toml is discovered upwards from the working
// directory, otherwise the defaults apply. --max-findings overrides the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, _, err = config.Discover(wd)
		if err != nil {
			return nil, err
		}
	}

	maxFindings, err := cmd.Root().PersistentFlags().GetInt("max-findings")
	if err != nil {
		return nil, err
	}
	if maxFindings > 0 {
		cfg.Limits.MaxFindings = maxFindings
	}
	return cfg, nil
}

func useColor(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
}

// readInputFormat maps the --input flag onto a record format hint.
func readInputFormat(value string) (record.Format, error) {
	f, ok := record.ParseFormat(value)
	if !ok {
		return record.FormatAuto, fmt.Errorf("invalid --input value %q (expected auto|json|csv|xml|yaml)", value)
	}
	return f, nil
}

// silentExit suppresses cobra usage output when findings were already
// printed; main still exits with status 1.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
