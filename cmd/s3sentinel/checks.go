package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/checkpacks/s3posture"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/output"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/policy"
)

func newChecksCmd(a *app) *cobra.Command {
	var (
		policyPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List the built-in checks in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("policy") {
				policyPath = a.cfg.Scan.Policy
			}
			pol, err := loadValidPolicy(policyPath)
			if err != nil {
				return err
			}

			enabled := make(map[string]bool)
			for _, id := range policy.EnabledChecks(packIDs(), pol) {
				enabled[id] = true
			}
			var entries []output.CatalogEntry
			for _, c := range s3posture.New() {
				entries = append(entries, output.CatalogEntry{
					ID:       c.ID(),
					Name:     c.Name(),
					Severity: policy.SeverityFor(c.ID(), c.Severity(), pol),
					Enabled:  enabled[c.ID()],
				})
			}

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			case "table", "":
				output.RenderCatalog(cmd.OutOrStdout(), entries, useColor(a.cfg.Output.NoColor))
				return nil
			default:
				return fmt.Errorf("unsupported format %q (want table or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&policyPath, "policy", "", "Show enablement and severities as resolved by this policy file")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Policy file commands",
	}
	cmd.AddCommand(newPolicyValidateCmd())
	return cmd
}

func newPolicyValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a policy file against the built-in checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			pol, err := policy.LoadPolicy(path)
			if err != nil {
				return err
			}

			errs := policy.Validate(pol, packIDs())
			w := cmd.OutOrStdout()
			if len(errs) == 0 {
				fmt.Fprintf(w, "%s: OK (%d check overrides)\n", path, len(pol.Checks))
				return nil
			}
			fmt.Fprintf(w, "%s: %d problem(s)\n", path, len(errs))
			for _, e := range errs {
				fmt.Fprintf(w, "  - %s\n", e)
			}
			return &exitError{code: exitFatal, silent: true}
		},
	}
}
