package checks

import "github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"

// severityOverride reports a different default severity for the wrapped check.
type severityOverride struct {
	Check
	severity models.Severity
}

func (o severityOverride) Severity() models.Severity { return o.severity }

// WithSeverity returns c reporting sev as its severity. Evaluation is
// delegated unchanged.
func WithSeverity(c Check, sev models.Severity) Check {
	if c.Severity() == sev {
		return c
	}
	return severityOverride{Check: c, severity: sev}
}
