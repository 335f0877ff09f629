package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/engine"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/policy"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers/aws/common"
)

// defaultPolicyPath is probed by doctor when no policy is configured.
const defaultPolicyPath = "./s3sentinel.yaml"

// DoctorResult is the structured output of s3sentinel doctor. It can be
// serialised to JSON via --format=json or rendered as text (default).
type DoctorResult struct {
	Config struct {
		Path    string `json:"path"`
		Present bool   `json:"present"`
	} `json:"config"`

	AWS struct {
		Profile     string   `json:"profile,omitempty"`
		Profiles    []string `json:"profiles,omitempty"`
		Credentials bool     `json:"credentials_ok"`
		AccountID   string   `json:"account_id,omitempty"`
		Region      string   `json:"region,omitempty"`
		S3Access    bool     `json:"s3_access_ok"`
		BucketCount int      `json:"bucket_count"`
		Error       string   `json:"error,omitempty"`
	} `json:"aws"`

	Policy struct {
		Path    string   `json:"path"`
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"policy"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd(a *app) *cobra.Command {
	var (
		format     string
		profile    string
		region     string
		policyPath string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run environment diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("profile") {
				profile = a.cfg.AWS.Profile
			}
			if !cmd.Flags().Changed("region") {
				region = a.cfg.AWS.Region
			}
			if !cmd.Flags().Changed("policy") {
				policyPath = a.cfg.Scan.Policy
			}
			if policyPath == "" {
				policyPath = defaultPolicyPath
			}

			probe := doctorProbe{
				provider:   a.newProvider(a.cfg),
				newClient:  a.newClient,
				configPath: a.loader.ConfigPath(),
				profile:    profile,
				region:     region,
				policyPath: policyPath,
			}
			result, err := runDoctor(cmd.Context(), probe, cmd.OutOrStdout(), format)
			if err != nil {
				// Rendering failure.
				return err
			}
			if !result.OverallHealthy {
				return &exitError{code: exitFatal, silent: true}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", `Output format: "table" or "json"`)
	cmd.Flags().StringVar(&profile, "profile", "", "AWS profile to use (default: credential chain)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region to probe")
	cmd.Flags().StringVar(&policyPath, "policy", "", "Policy file to validate (default: ./s3sentinel.yaml)")
	return cmd
}

// doctorProbe is everything runDoctor needs to inspect the environment.
type doctorProbe struct {
	provider   common.AWSClientProvider
	newClient  engine.ClientBuilder
	configPath string
	profile    string
	region     string
	policyPath string
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures; callers inspect
// result.OverallHealthy for the verdict.
func runDoctor(ctx context.Context, p doctorProbe, w io.Writer, format string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, p)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
// It performs no rendering.
func collectDoctorResult(ctx context.Context, p doctorProbe) DoctorResult {
	var result DoctorResult

	result.Config.Path = p.configPath
	if _, err := os.Stat(p.configPath); err == nil {
		result.Config.Present = true
	}

	// AWS: profiles → credentials + STS account ID → ListBuckets.
	result.AWS.Profile = p.profile
	if names, err := p.provider.ListProfiles(ctx); err == nil {
		result.AWS.Profiles = names
	}
	profileCfg, err := p.provider.LoadProfile(ctx, p.profile, p.region)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.Profile = profileCfg.ProfileName
		result.AWS.AccountID = profileCfg.AccountID
		result.AWS.Region = profileCfg.Region

		buckets, err := p.newClient(profileCfg.Config, p.region).ListBuckets(ctx)
		if err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.S3Access = true
			result.AWS.BucketCount = len(buckets)
		}
	}

	// Policy: stat → load → validate (file is optional).
	result.Policy.Path = p.policyPath
	_, statErr := os.Stat(p.policyPath)
	if statErr == nil {
		result.Policy.Present = true
		cfg, loadErr := policy.LoadPolicy(p.policyPath)
		if loadErr != nil {
			result.Policy.Errors = []string{loadErr.Error()}
		} else {
			errs := policy.Validate(cfg, packIDs())
			if len(errs) == 0 {
				result.Policy.Valid = true
			}
			for _, e := range errs {
				result.Policy.Errors = append(result.Policy.Errors, e.Error())
			}
		}
	} else if !os.IsNotExist(statErr) {
		// Present but unreadable.
		result.Policy.Present = true
		result.Policy.Errors = []string{statErr.Error()}
	}

	result.OverallHealthy = result.AWS.Credentials &&
		result.AWS.S3Access &&
		(!result.Policy.Present || result.Policy.Valid)

	return result
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintln(w, "\nConfig:")
	if result.Config.Present {
		doctorPrint(w, "Config file", "OK", result.Config.Path)
	} else {
		doctorPrint(w, "Config file", "Not found (defaults)", result.Config.Path)
	}

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	doctorPrint(w, "Profiles found", fmt.Sprintf("%d", len(result.AWS.Profiles)), "")
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
		doctorPrint(w, "S3 ListBuckets", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		if result.AWS.S3Access {
			doctorPrint(w, "S3 ListBuckets", "OK", fmt.Sprintf("%d buckets", result.AWS.BucketCount))
		} else {
			doctorPrint(w, "S3 ListBuckets", "FAIL", result.AWS.Error)
		}
	}

	fmt.Fprintln(w, "\nPolicy:")
	if !result.Policy.Present {
		doctorPrint(w, "Policy file", "Not found (optional)", result.Policy.Path)
		return
	}
	doctorPrint(w, "Policy file", "YES", result.Policy.Path)
	if result.Policy.Valid {
		doctorPrint(w, "Policy valid", "OK", "")
		return
	}
	for _, e := range result.Policy.Errors {
		doctorPrint(w, "Policy valid", "FAIL", e)
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
