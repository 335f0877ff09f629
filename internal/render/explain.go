// Package render provides presentation helpers for s3sentinel explanations.
// It is a pure rendering package: no scanning, no AWS API calls.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// statusOrder is the order in which status groups are rendered: actionable
// outcomes first.
var statusOrder = []models.CheckStatus{
	models.StatusNonCompliant,
	models.StatusError,
	models.StatusUnknown,
	models.StatusNotConfigured,
	models.StatusCompliant,
}

// BucketOutcome is one bucket's result for the explained check.
type BucketOutcome struct {
	Bucket string `json:"bucket"`
	Region string `json:"region,omitempty"`
	Detail string `json:"detail"`
}

// StatusGroup collects the buckets that share a status.
type StatusGroup struct {
	Status  models.CheckStatus `json:"status"`
	Buckets []BucketOutcome    `json:"buckets"`
}

// CheckExplanation is every bucket's outcome for a single check, grouped by
// status.
type CheckExplanation struct {
	CheckID   string          `json:"check_id"`
	CheckName string          `json:"check_name"`
	Severity  models.Severity `json:"severity"`
	Total     int             `json:"total"`
	Groups    []StatusGroup   `json:"groups"`
}

// Explain gathers the findings of checkID across result. It returns nil when
// the check did not run in that scan.
func Explain(result *models.ScanResult, checkID string) *CheckExplanation {
	if result == nil {
		return nil
	}
	ran := false
	for _, id := range result.Checks {
		if id == checkID {
			ran = true
			break
		}
	}
	if !ran {
		return nil
	}

	exp := &CheckExplanation{CheckID: checkID}
	byStatus := make(map[models.CheckStatus][]BucketOutcome)
	for _, rep := range result.Reports {
		for _, f := range rep.Findings {
			if f.CheckID != checkID {
				continue
			}
			exp.CheckName = f.CheckName
			exp.Severity = f.Severity
			exp.Total++

			detail := f.Detail
			if f.Status == models.StatusError {
				detail = f.Error
			}
			byStatus[f.Status] = append(byStatus[f.Status], BucketOutcome{
				Bucket: rep.Bucket.Name,
				Region: rep.Bucket.Region,
				Detail: detail,
			})
		}
	}

	for _, status := range statusOrder {
		buckets := byStatus[status]
		if len(buckets) == 0 {
			continue
		}
		sort.Slice(buckets, func(i, j int) bool { return buckets[i].Bucket < buckets[j].Bucket })
		exp.Groups = append(exp.Groups, StatusGroup{Status: status, Buckets: buckets})
	}
	return exp
}

// RenderCheckExplanation writes exp to w.
//
// Example output:
//
//	CHECK S3_ENCRYPTION (S3 Default Encryption, HIGH)
//	Buckets: 3
//
//	NON_COMPLIANT (1):
//	  ✗ open-bucket [eu-west-1]
//	    no server-side encryption configured
//
//	COMPLIANT (2):
//	  ✓ logs
//	  ✓ secure-bucket [us-east-1]
func RenderCheckExplanation(w io.Writer, exp *CheckExplanation) {
	fmt.Fprintf(w, "CHECK %s (%s, %s)\n", exp.CheckID, exp.CheckName, exp.Severity)
	fmt.Fprintf(w, "Buckets: %d\n", exp.Total)

	for _, g := range exp.Groups {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s (%d):\n", g.Status, len(g.Buckets))

		mark := "✗"
		if g.Status == models.StatusCompliant {
			mark = "✓"
		}
		for _, b := range g.Buckets {
			region := ""
			if b.Region != "" {
				region = " [" + b.Region + "]"
			}
			fmt.Fprintf(w, "  %s %s%s\n", mark, b.Bucket, region)
			// Compliant details only restate the check name.
			if g.Status != models.StatusCompliant && b.Detail != "" {
				fmt.Fprintf(w, "    %s\n", b.Detail)
			}
		}
	}
}

// WriteExplainJSON writes the explanation as indented JSON to w.
//
// When exp is non-nil, the output is:
//
//	{"explanation": { ...explanation fields... }}
//
// When exp is nil (check not in the report), the output is:
//
//	{"error": "No check S3_X found in report"}
func WriteExplainJSON(w io.Writer, exp *CheckExplanation, checkID string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if exp == nil {
		return enc.Encode(map[string]string{
			"error": fmt.Sprintf("No check %s found in report", checkID),
		})
	}
	return enc.Encode(map[string]any{
		"explanation": exp,
	})
}
