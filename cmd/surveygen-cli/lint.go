package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/lint"
)

type lintReport struct {
	File string `json:"file"`
	lint.Result
}

func newLintCommand(_ *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lint <file>...",
		Short: "Check survey documents for configuration errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := make([]lintReport, 0, len(args))
			invalid := 0
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				result, err := lint.Document(raw, element.DetectFormat(path))
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				if !result.Valid {
					invalid++
				}
				reports = append(reports, lintReport{File: path, Result: result})
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				for _, report := range reports {
					if len(report.Issues) == 0 {
						fmt.Fprintf(w, "%s: ok\n", report.File)
						continue
					}
					for _, issue := range report.Issues {
						fmt.Fprintf(w, "%s: %s\n", report.File, issue)
					}
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d documents invalid", invalid, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
