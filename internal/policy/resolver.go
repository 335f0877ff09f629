package policy

import (
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/checks"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// EnabledChecks returns the IDs from ids that cfg leaves enabled, preserving
// order. Checks absent from the policy are enabled.
func EnabledChecks(ids []string, cfg *PolicyConfig) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if isEnabled(id, cfg) {
			out = append(out, id)
		}
	}
	return out
}

// SeverityFor returns the severity cfg assigns to checkID, or def when the
// policy has no valid override.
func SeverityFor(checkID string, def models.Severity, cfg *PolicyConfig) models.Severity {
	if cfg == nil {
		return def
	}
	ccfg, ok := cfg.Checks[checkID]
	if !ok || ccfg.Severity == "" {
		return def
	}
	if sev, valid := parseSeverity(ccfg.Severity); valid {
		return sev
	}
	return def
}

// ApplyPolicy returns the checks that stay enabled under cfg, in their
// original order, with severity overrides applied. A nil cfg returns all
// checks unchanged. Invalid severities are ignored here; Validate reports them.
func ApplyPolicy(all []checks.Check, cfg *PolicyConfig) []checks.Check {
	if cfg == nil {
		return all
	}

	result := make([]checks.Check, 0, len(all))
	for _, c := range all {
		if !isEnabled(c.ID(), cfg) {
			continue
		}
		result = append(result, checks.WithSeverity(c, SeverityFor(c.ID(), c.Severity(), cfg)))
	}
	return result
}

func isEnabled(id string, cfg *PolicyConfig) bool {
	if cfg == nil {
		return true
	}
	ccfg, ok := cfg.Checks[id]
	return !ok || ccfg.Enabled == nil || *ccfg.Enabled
}
