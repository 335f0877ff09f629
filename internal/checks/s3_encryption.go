package checks

import (
	"fmt"
	"strings"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

// S3EncryptionCheck verifies that default server-side encryption is
// configured on the bucket.
type S3EncryptionCheck struct{}

func (c S3EncryptionCheck) ID() string                { return "S3_ENCRYPTION" }
func (c S3EncryptionCheck) Name() string              { return "S3 Default Encryption" }
func (c S3EncryptionCheck) Severity() models.Severity { return models.SeverityHigh }

// Evaluate returns COMPLIANT with the configured algorithms, NON_COMPLIANT
// when no configuration exists, and ERROR when the fetch fails.
func (c S3EncryptionCheck) Evaluate(ctx CheckContext) models.Finding {
	cfg, err := ctx.Client.GetEncryption(ctx.Context, ctx.Bucket)
	switch {
	case providers.IsNotConfigured(err):
		return result(c, models.StatusNonCompliant, "no server-side encryption configured")
	case err != nil:
		return failure(c, err)
	case cfg == nil || len(cfg.Rules) == 0:
		return result(c, models.StatusNonCompliant, "no server-side encryption configured")
	}

	algorithms := make([]string, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		a := rule.Algorithm
		if a == "" {
			a = "unspecified"
		}
		if rule.BucketKeyEnabled {
			a += " (bucket key)"
		}
		algorithms = append(algorithms, a)
	}
	return result(c, models.StatusCompliant,
		fmt.Sprintf("server-side encryption enabled: %s", strings.Join(algorithms, ", "))).
		WithMetadata("algorithms", algorithms)
}
