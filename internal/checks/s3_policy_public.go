package checks

import (
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

// S3PolicyPublicCheck flags buckets whose bucket policy grants public access.
type S3PolicyPublicCheck struct{}

func (c S3PolicyPublicCheck) ID() string                { return "S3_POLICY_PUBLIC" }
func (c S3PolicyPublicCheck) Name() string              { return "S3 Public Bucket Policy" }
func (c S3PolicyPublicCheck) Severity() models.Severity { return models.SeverityHigh }

// Evaluate returns NOT_CONFIGURED for buckets without a policy.
func (c S3PolicyPublicCheck) Evaluate(ctx CheckContext) models.Finding {
	status, err := ctx.Client.GetPolicyStatus(ctx.Context, ctx.Bucket)
	switch {
	case providers.IsNotConfigured(err):
		return result(c, models.StatusNotConfigured, "no bucket policy")
	case err != nil:
		return failure(c, err)
	case status != nil && status.IsPublic:
		return result(c, models.StatusNonCompliant, "bucket policy allows public access")
	default:
		return result(c, models.StatusCompliant, "bucket policy is not public")
	}
}
