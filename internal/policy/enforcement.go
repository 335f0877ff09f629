package policy

import "github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"

// ShouldFail reports whether findings breach the enforcement block of cfg.
//
// It returns false when cfg is nil or findings is empty. Otherwise it returns
// true when:
//   - fail_on_error is set and any finding has status ERROR, or
//   - fail_on_severity is a valid severity and any NON_COMPLIANT finding has
//     that severity or higher.
//
// COMPLIANT, NOT_CONFIGURED and UNKNOWN findings never trigger severity
// enforcement. An unrecognised fail_on_severity is ignored.
func ShouldFail(findings []models.Finding, cfg *PolicyConfig) bool {
	if cfg == nil {
		return false
	}
	enf := cfg.Enforcement

	threshold := 0
	if enf.FailOnSeverity != "" {
		if sev, ok := parseSeverity(enf.FailOnSeverity); ok {
			threshold = severityRank[sev]
		}
	}

	for _, f := range findings {
		if enf.FailOnError && f.Status == models.StatusError {
			return true
		}
		if threshold > 0 && f.Status == models.StatusNonCompliant {
			if r, ok := severityRank[f.Severity]; ok && r >= threshold {
				return true
			}
		}
	}
	return false
}
