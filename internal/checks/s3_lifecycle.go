package checks

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

// S3LifecycleCheck reports how many lifecycle rules a bucket has. It is
// informational: any successful fetch is COMPLIANT.
type S3LifecycleCheck struct{}

func (c S3LifecycleCheck) ID() string                { return "S3_LIFECYCLE" }
func (c S3LifecycleCheck) Name() string              { return "S3 Lifecycle Rules" }
func (c S3LifecycleCheck) Severity() models.Severity { return models.SeverityInfo }

func (c S3LifecycleCheck) Evaluate(ctx CheckContext) models.Finding {
	rules, err := ctx.Client.GetLifecycleRules(ctx.Context, ctx.Bucket)
	if err != nil && !providers.IsNotConfigured(err) {
		return failure(c, err)
	}
	n := len(rules)
	return result(c, models.StatusCompliant, fmt.Sprintf("%d rules", n)).
		WithMetadata("rule_count", n)
}
