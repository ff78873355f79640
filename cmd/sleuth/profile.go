package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sleuth/internal/diagfmt"
	"sleuth/internal/engine"
	"sleuth/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile [flags] <file>",
	Short: "Show what the data looks like, field by field",
	Long: `Build and print the data profile: record count, per-field types, null and
uniqueness rates, numeric statistics, string patterns and closed value sets.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	profileCmd.Flags().String("input", "auto", "input data format (auto|json|csv|xml|yaml)")
}

type fieldPayload struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	NullRate    float64  `json:"null_rate"`
	UniqueCount int      `json:"unique_count"`
	Samples     []string `json:"samples,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	EnumValues  []string `json:"enum_values,omitempty"`

	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
	Stdev  *float64 `json:"stdev,omitempty"`
	P95    *float64 `json:"p95,omitempty"`
}

type profilePayload struct {
	Format      string         `json:"format"`
	RecordCount int            `json:"record_count"`
	SampleSize  int            `json:"sample_size"`
	FileSize    int            `json:"file_size"`
	Fields      []fieldPayload `json:"fields"`
}

func runProfile(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
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
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	res := engine.Analyze(cmd.Context(), engine.AnalyzeRequest{
		Content:  content,
		FileName: args[0],
		Format:   inputFormat,
		Config:   cfg,
	})

	if res.Profile == nil {
		// структура сломана, профиль построить нельзя
		fmt.Fprintf(os.Stderr, "sleuth: %s cannot be profiled:\n", args[0])
		diagfmt.Short(os.Stderr, res.Bag, res.FileSet, diagfmt.PathModeAuto)
		return silentExit(cmd)
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(buildProfilePayload(res.Profile))
	case "pretty":
		printProfile(os.Stdout, res.Profile)
		return nil
	}
	return fmt.Errorf("unknown format: %s", format)
}

func buildProfilePayload(p *profile.DataProfile) profilePayload {
	payload := profilePayload{
		Format:      p.Format.String(),
		RecordCount: p.RecordCount,
		SampleSize:  p.SampleSize,
		FileSize:    p.FileSize,
		Fields:      make([]fieldPayload, 0, len(p.Fields)),
	}
	for _, fa := range p.Fields {
		fp := fieldPayload{
			Name:        fa.Name,
			Type:        fa.DataType.String(),
			NullRate:    fa.NullRate,
			UniqueCount: fa.UniqueCount,
			Samples:     fa.Samples,
		}
		if fa.String != nil {
			fp.Pattern = fa.String.Pattern
		}
		if fa.Enum != nil {
			fp.EnumValues = fa.Enum.Values
		}
		if s := fa.Numeric; s != nil {
			fp.Min, fp.Max = &s.Min, &s.Max
			fp.Mean, fp.Median = &s.Mean, &s.Median
			fp.Stdev, fp.P95 = &s.Stdev, &s.P95
		}
		payload.Fields = append(payload.Fields, fp)
	}
	return payload
}

func printProfile(out *os.File, p *profile.DataProfile) {
	fmt.Fprintf(out, "%s, %d records (%d profiled), %d bytes\n",
		p.Format, p.RecordCount, p.SampleSize, p.FileSize)
	for _, fa := range p.Fields {
		fmt.Fprintf(out, "  %-24s %-8s null %4.1f%%  unique %d\n",
			fa.Name, fa.DataType, fa.NullRate*100, fa.UniqueCount)
		if s := fa.Numeric; s != nil {
			fmt.Fprintf(out, "%26s min %.4g  max %.4g  mean %.4g  stdev %.4g  p95 %.4g\n",
				"", s.Min, s.Max, s.Mean, s.Stdev, s.P95)
		}
		if fa.String != nil && fa.String.Pattern != "" {
			fmt.Fprintf(out, "%26s pattern: %s\n", "", fa.String.Pattern)
		}
		if fa.Enum != nil {
			fmt.Fprintf(out, "%26s values: %v\n", "", fa.Enum.Values)
		}
	}
}
