package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// severityRank orders severities for threshold comparisons.
// CRITICAL (5) > HIGH (4) > MEDIUM (3) > LOW (2) > INFO (1).
var severityRank = map[models.Severity]int{
	models.SeverityCritical: 5,
	models.SeverityHigh:     4,
	models.SeverityMedium:   3,
	models.SeverityLow:      2,
	models.SeverityInfo:     1,
}

// parseSeverity returns the canonical severity for s, case-insensitively.
func parseSeverity(s string) (models.Severity, bool) {
	sev := models.Severity(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := severityRank[sev]
	return sev, ok
}

// Validate checks cfg for semantic correctness and returns all validation errors
// found. An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - check IDs must appear in availableCheckIDs
//   - check severity overrides must be valid severity values if set
//   - enforcement fail_on_severity must be a valid severity value if set
//
// All errors are collected before returning; Validate never stops at the first error.
// Errors are ordered by check ID so output is stable.
func Validate(cfg *PolicyConfig, availableCheckIDs []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}

	knownIDs := make(map[string]struct{}, len(availableCheckIDs))
	for _, id := range availableCheckIDs {
		knownIDs[id] = struct{}{}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	ids := make([]string, 0, len(cfg.Checks))
	for id := range cfg.Checks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		ccfg := cfg.Checks[id]
		if _, ok := knownIDs[id]; !ok {
			errs = append(errs, fmt.Errorf("checks.%s: unknown check ID", id))
		}
		if ccfg.Severity != "" {
			if _, ok := parseSeverity(ccfg.Severity); !ok {
				errs = append(errs, fmt.Errorf("checks.%s.severity: invalid value %q; valid values: CRITICAL, HIGH, MEDIUM, LOW, INFO", id, ccfg.Severity))
			}
		}
	}

	if s := cfg.Enforcement.FailOnSeverity; s != "" {
		if _, ok := parseSeverity(s); !ok {
			errs = append(errs, fmt.Errorf("enforcement.fail_on_severity: invalid value %q; valid values: CRITICAL, HIGH, MEDIUM, LOW, INFO", s))
		}
	}

	return errs
}
