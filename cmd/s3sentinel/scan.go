package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/checkpacks/s3posture"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/checks"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/config"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/engine"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/metrics"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/output"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/policy"
)

type scanFlags struct {
	profile          string
	region           string
	buckets          []string
	patterns         []string
	format           string
	output           string
	policy           string
	concurrency      int
	checkConcurrency int
	checkTimeout     time.Duration
	timeout          time.Duration
	metricsFile      string
	maxAttempts      int
	noColor          bool
	hideCompliant    bool
}

func newScanCmd(a *app) *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Audit S3 bucket configuration in an AWS account",
		Long: `Lists the buckets visible to the profile, runs every enabled check against
each selected bucket and renders one finding per check per bucket.

Exit status is 1 on a fatal error (credentials, bucket listing) and 2 when
the policy enforcement block fails the scan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.overlay(cmd, a.cfg)
			return a.runScan(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.profile, "profile", "", "AWS profile name (default: config aws.profile, then the default credential chain)")
	fl.StringVar(&f.region, "region", "", "Only scan buckets in this region")
	fl.StringArrayVar(&f.buckets, "bucket", nil, "Bucket name to scan (repeatable)")
	fl.StringArrayVar(&f.patterns, "match", nil, "Glob selecting buckets to scan, e.g. 'prod-*' (repeatable)")
	fl.StringVar(&f.format, "format", "", "Output format: table, json or ndjson")
	fl.StringVar(&f.output, "output", "", "Also write the full JSON report to this file")
	fl.StringVar(&f.policy, "policy", "", "Policy file enabling checks, overriding severities and setting enforcement")
	fl.IntVar(&f.concurrency, "concurrency", 0, "Buckets scanned in parallel")
	fl.IntVar(&f.checkConcurrency, "check-concurrency", 0, "Checks run in parallel per bucket")
	fl.DurationVar(&f.checkTimeout, "check-timeout", 0, "Timeout for a single check")
	fl.DurationVar(&f.timeout, "timeout", 0, "Overall scan deadline; unfinished work is reported as partial")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	fl.IntVar(&f.maxAttempts, "max-attempts", 0, "Maximum SDK attempts per AWS API call")
	fl.BoolVar(&f.noColor, "no-color", false, "Disable coloured table output")
	fl.BoolVar(&f.hideCompliant, "hide-compliant", false, "Omit COMPLIANT rows from the table")

	return cmd
}

// overlay copies explicitly set flags over cfg and fills unset flags from it.
func (f *scanFlags) overlay(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if !changed("profile") {
		f.profile = cfg.AWS.Profile
	}
	if !changed("region") {
		f.region = cfg.AWS.Region
	}
	if changed("max-attempts") {
		cfg.AWS.MaxAttempts = f.maxAttempts
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("no-color") {
		cfg.Output.NoColor = f.noColor
	}
	if changed("policy") {
		cfg.Scan.Policy = f.policy
	}
	if changed("concurrency") {
		cfg.Scan.Concurrency = f.concurrency
	}
	if changed("check-concurrency") {
		cfg.Scan.CheckConcurrency = f.checkConcurrency
	}
	if changed("check-timeout") {
		cfg.Scan.CheckTimeout = f.checkTimeout
	}
	if changed("timeout") {
		cfg.Scan.Timeout = f.timeout
	}
	if changed("metrics-file") {
		cfg.Scan.MetricsFile = f.metricsFile
	}
}

func (a *app) runScan(cmd *cobra.Command, f scanFlags) error {
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	pol, err := loadValidPolicy(cfg.Scan.Policy)
	if err != nil {
		return err
	}

	selected := policy.ApplyPolicy(s3posture.New(), pol)
	if len(selected) == 0 {
		return errors.New("policy disables every check; nothing to scan")
	}
	registry := checks.NewDefaultCheckRegistry(selected...)

	recorder := metrics.New()
	orch := engine.NewOrchestrator(registry,
		engine.WithLogger(a.logger),
		engine.WithRecorder(recorder),
	)
	eng := engine.NewAWSScanEngine(a.newProvider(cfg), a.newClient, orch, engine.ScanOptions{
		Concurrency:      cfg.Scan.Concurrency,
		CheckConcurrency: cfg.Scan.CheckConcurrency,
		CheckTimeout:     cfg.Scan.CheckTimeout,
		ScanTimeout:      cfg.Scan.Timeout,
	}, a.logger)

	result, err := eng.RunScan(cmd.Context(), engine.ScanRequest{
		Profile:  f.profile,
		Region:   f.region,
		Buckets:  f.buckets,
		Patterns: f.patterns,
	})
	if err != nil {
		return err
	}

	for _, name := range result.NotFound {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: bucket %q not found\n", name)
	}

	opts := output.TableOptions{
		Colored:       useColor(cfg.Output.NoColor),
		HideCompliant: f.hideCompliant,
	}
	if err := output.Render(cmd.OutOrStdout(), format, result, opts); err != nil {
		return err
	}

	if f.output != "" {
		if err := output.WriteReportFile(f.output, result); err != nil {
			return err
		}
	}
	if cfg.Scan.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.Scan.MetricsFile); err != nil {
			return err
		}
	}

	if policy.ShouldFail(result.Findings(), pol) {
		return &exitError{code: exitPolicy, err: errPolicyViolation}
	}
	return nil
}

// loadValidPolicy loads and validates the policy at path. An empty path
// means no policy.
func loadValidPolicy(path string) (*policy.PolicyConfig, error) {
	if path == "" {
		return nil, nil
	}
	pol, err := policy.LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	if errs := policy.Validate(pol, packIDs()); len(errs) > 0 {
		return nil, fmt.Errorf("invalid policy %s: %w", path, errors.Join(errs...))
	}
	return pol, nil
}

// packIDs returns the IDs of every built-in check in registry order.
func packIDs() []string {
	pack := s3posture.New()
	ids := make([]string, len(pack))
	for i, c := range pack {
		ids[i] = c.ID()
	}
	return ids
}
