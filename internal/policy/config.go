// Package policy loads the optional YAML policy file that tunes a scan:
// which checks run, their severities, and when the CLI exits non-zero.
package policy

// PolicyConfig is the parsed policy file.
//
//	version: 1
//	checks:
//	  S3_LIFECYCLE: {enabled: false}
//	  S3_ACCESS_LOGGING: {severity: HIGH}
//	enforcement:
//	  fail_on_severity: HIGH
//	  fail_on_error: true
type PolicyConfig struct {
	Version     int                    `yaml:"version"`
	Checks      map[string]CheckConfig `yaml:"checks"`
	Enforcement EnforcementConfig      `yaml:"enforcement"`
}

// CheckConfig overrides one check. Nil Enabled means "keep enabled".
type CheckConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Severity string `yaml:"severity,omitempty"`
}

// EnforcementConfig decides when a finished scan counts as failed.
type EnforcementConfig struct {
	// FailOnSeverity fails the scan when any NON_COMPLIANT finding has this
	// severity or higher. Empty disables severity enforcement.
	FailOnSeverity string `yaml:"fail_on_severity,omitempty"`

	// FailOnError fails the scan when any finding is ERROR.
	FailOnError bool `yaml:"fail_on_error,omitempty"`
}
