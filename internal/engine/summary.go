package engine

import "github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"

// computeSummary counts findings by status across reports. Resource list
// counters that depend on scheduling (listed, skipped) are set by the caller.
func computeSummary(reports []models.Report) models.ScanSummary {
	s := models.ScanSummary{ResourcesAttempted: len(reports)}
	for _, r := range reports {
		if !r.HasErrors() {
			s.ResourcesSucceeded++
		}
		for _, f := range r.Findings {
			s.TotalFindings++
			switch f.Status {
			case models.StatusCompliant:
				s.Compliant++
			case models.StatusNonCompliant:
				s.NonCompliant++
			case models.StatusNotConfigured:
				s.NotConfigured++
			case models.StatusUnknown:
				s.Unknown++
			case models.StatusError:
				s.Errors++
			}
		}
	}
	return s
}
