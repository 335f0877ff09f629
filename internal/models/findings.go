package models

import (
	"errors"
	"time"
)

// CheckStatus is the outcome tag of a single check against a single bucket.
type CheckStatus string

const (
	StatusCompliant     CheckStatus = "COMPLIANT"
	StatusNonCompliant  CheckStatus = "NON_COMPLIANT"
	StatusNotConfigured CheckStatus = "NOT_CONFIGURED"
	// StatusUnknown means the check ran but could not determine the state.
	StatusUnknown CheckStatus = "UNKNOWN"
	// StatusError is an execution failure, distinct from a negative result.
	StatusError CheckStatus = "ERROR"
)

// Severity represents the impact level of a non-compliant finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// errUnspecified is used when an ERROR finding is built from a nil error.
var errUnspecified = errors.New("check failed without an error message")

// Finding is the result of one check on one bucket.
// It is the atomic output unit of the scan orchestrator.
//
// Error is non-empty if and only if Status == StatusError. Use NewFinding and
// NewErrorFinding rather than struct literals to keep that invariant.
type Finding struct {
	CheckID   string         `json:"check_id"`
	CheckName string         `json:"check_name"`
	Status    CheckStatus    `json:"status"`
	Severity  Severity       `json:"severity"`
	Detail    string         `json:"detail"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// NewFinding returns a non-error finding. Passing StatusError is a programming
// mistake; the finding is downgraded to an ERROR finding carrying detail as
// its message so the invariant still holds.
func NewFinding(checkID string, status CheckStatus, detail string) Finding {
	if status == StatusError {
		return NewErrorFinding(checkID, errors.New(detail))
	}
	return Finding{
		CheckID: checkID,
		Status:  status,
		Detail:  detail,
	}
}

// NewErrorFinding returns an ERROR finding for checkID. A nil err still yields
// a populated Error field.
func NewErrorFinding(checkID string, err error) Finding {
	if err == nil {
		err = errUnspecified
	}
	return Finding{
		CheckID: checkID,
		Status:  StatusError,
		Detail:  "check could not be completed",
		Error:   err.Error(),
	}
}

// WithMetadata returns f with key set in its Metadata map. The receiver's map
// is copied so findings never share metadata.
func (f Finding) WithMetadata(key string, value any) Finding {
	meta := make(map[string]any, len(f.Metadata)+1)
	for k, v := range f.Metadata {
		meta[k] = v
	}
	meta[key] = value
	f.Metadata = meta
	return f
}

// Valid reports whether f satisfies the error/status invariant.
func (f Finding) Valid() bool {
	return (f.Status == StatusError) == (f.Error != "")
}

// Report is one bucket's full audit result. Findings holds exactly one entry
// per registered check, in registry order.
type Report struct {
	Bucket   Bucket    `json:"bucket"`
	Findings []Finding `json:"findings"`
}

// HasErrors reports whether any finding in r has StatusError.
func (r Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Status == StatusError {
			return true
		}
	}
	return false
}

// ScanSummary aggregates counts across a ScanResult.
type ScanSummary struct {
	ResourcesListed    int `json:"resources_listed"`
	ResourcesAttempted int `json:"resources_attempted"`
	// ResourcesSucceeded counts reports without any ERROR finding.
	ResourcesSucceeded int `json:"resources_succeeded"`
	// ResourcesSkipped counts buckets never started because the scan deadline
	// expired first.
	ResourcesSkipped int `json:"resources_skipped"`

	TotalFindings int `json:"total_findings"`
	Compliant     int `json:"compliant"`
	NonCompliant  int `json:"non_compliant"`
	NotConfigured int `json:"not_configured"`
	Unknown       int `json:"unknown"`
	Errors        int `json:"errors"`
}

// ScanResult is the top-level output of a scan. Reports are ordered as the
// buckets were listed (or supplied), independent of completion order.
type ScanResult struct {
	ScanID     string    `json:"scan_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Profile    string    `json:"profile,omitempty"`
	AccountID  string    `json:"account_id,omitempty"`
	Region     string    `json:"region,omitempty"`
	// Partial is true when the scan deadline expired before every bucket and
	// check had run.
	Partial bool     `json:"partial"`
	Checks  []string `json:"checks"`
	// NotFound lists explicitly requested bucket names that were not listed.
	NotFound []string    `json:"not_found,omitempty"`
	Summary  ScanSummary `json:"summary"`
	Reports  []Report    `json:"reports"`
}

// Record is the flattened rendering unit: one per finding.
type Record struct {
	Bucket    string      `json:"bucket"`
	Region    string      `json:"region,omitempty"`
	CheckID   string      `json:"check_id"`
	CheckName string      `json:"check_name"`
	Status    CheckStatus `json:"status"`
	Severity  Severity    `json:"severity"`
	Detail    string      `json:"detail"`
	Error     string      `json:"error,omitempty"`
}

// Records flattens r into one Record per finding, bucket order first and
// registry order second.
func (r *ScanResult) Records() []Record {
	if r == nil {
		return nil
	}
	var out []Record
	for _, rep := range r.Reports {
		for _, f := range rep.Findings {
			out = append(out, Record{
				Bucket:    rep.Bucket.Name,
				Region:    rep.Bucket.Region,
				CheckID:   f.CheckID,
				CheckName: f.CheckName,
				Status:    f.Status,
				Severity:  f.Severity,
				Detail:    f.Detail,
				Error:     f.Error,
			})
		}
	}
	return out
}

// Findings returns every finding in r with its bucket, for callers that only
// care about statuses (policy enforcement, metrics).
func (r *ScanResult) Findings() []Finding {
	if r == nil {
		return nil
	}
	var out []Finding
	for _, rep := range r.Reports {
		out = append(out, rep.Findings...)
	}
	return out
}
