package checks

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// S3VersioningCheck verifies that object versioning is enabled.
type S3VersioningCheck struct{}

func (c S3VersioningCheck) ID() string                { return "S3_VERSIONING" }
func (c S3VersioningCheck) Name() string              { return "S3 Versioning" }
func (c S3VersioningCheck) Severity() models.Severity { return models.SeverityMedium }

// Evaluate compares the raw status case-sensitively with "Enabled". Suspended
// and never-enabled buckets are NON_COMPLIANT.
func (c S3VersioningCheck) Evaluate(ctx CheckContext) models.Finding {
	status, err := ctx.Client.GetVersioning(ctx.Context, ctx.Bucket)
	if err != nil {
		return failure(c, err)
	}
	switch status {
	case models.VersioningEnabled:
		return result(c, models.StatusCompliant, "versioning enabled")
	case "":
		return result(c, models.StatusNonCompliant, "versioning was never enabled")
	default:
		return result(c, models.StatusNonCompliant, fmt.Sprintf("versioning is %s", status)).
			WithMetadata("versioning_status", string(status))
	}
}
