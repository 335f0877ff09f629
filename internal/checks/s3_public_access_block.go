package checks

import (
	"fmt"
	"strings"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

// S3PublicAccessBlockCheck verifies that all four bucket-level Block Public
// Access settings are enabled.
type S3PublicAccessBlockCheck struct{}

func (c S3PublicAccessBlockCheck) ID() string                { return "S3_PUBLIC_ACCESS_BLOCK" }
func (c S3PublicAccessBlockCheck) Name() string              { return "S3 Block Public Access" }
func (c S3PublicAccessBlockCheck) Severity() models.Severity { return models.SeverityHigh }

// Evaluate names every disabled setting in a NON_COMPLIANT finding.
func (c S3PublicAccessBlockCheck) Evaluate(ctx CheckContext) models.Finding {
	pab, err := ctx.Client.GetPublicAccessBlock(ctx.Context, ctx.Bucket)
	switch {
	case providers.IsNotConfigured(err):
		return result(c, models.StatusNonCompliant, "no public access block configured")
	case err != nil:
		return failure(c, err)
	case pab == nil:
		return result(c, models.StatusNonCompliant, "no public access block configured")
	}

	settings := []struct {
		name    string
		enabled bool
	}{
		{"blockPublicAcls", pab.BlockPublicAcls},
		{"ignorePublicAcls", pab.IgnorePublicAcls},
		{"blockPublicPolicy", pab.BlockPublicPolicy},
		{"restrictPublicBuckets", pab.RestrictPublicBuckets},
	}
	var disabled []string
	for _, s := range settings {
		if !s.enabled {
			disabled = append(disabled, s.name)
		}
	}
	if len(disabled) == 0 {
		return result(c, models.StatusCompliant, "all public access block settings enabled")
	}
	return result(c, models.StatusNonCompliant,
		fmt.Sprintf("public access block settings disabled: %s", strings.Join(disabled, ", "))).
		WithMetadata("disabled_settings", disabled)
}
