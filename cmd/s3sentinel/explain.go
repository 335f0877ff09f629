package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/output"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/render"
)

func newExplainCmd() *cobra.Command {
	var (
		reportPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "explain <CHECK_ID>",
		Short: "Show every bucket's outcome for one check from a saved report",
		Long: `Reads a report written by "s3sentinel scan --output" and lists each bucket's
outcome for the given check, grouped by status. No AWS calls are made.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checkID := strings.ToUpper(args[0])
			result, err := output.ReadReportFile(reportPath)
			if err != nil {
				return err
			}

			exp := render.Explain(result, checkID)
			w := cmd.OutOrStdout()
			if format == "json" {
				if err := render.WriteExplainJSON(w, exp, checkID); err != nil {
					return err
				}
			} else if exp != nil {
				render.RenderCheckExplanation(w, exp)
			}
			if exp == nil {
				return fmt.Errorf("check %s did not run in report %s", checkID, reportPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reportPath, "report", "", "Report file written by scan --output")
	cmd.Flags().StringVar(&format, "format", "table", `Output format: "table" or "json"`)
	_ = cmd.MarkFlagRequired("report")
	return cmd
}
