package checks

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// S3AccessLoggingCheck verifies that server access logging is enabled.
type S3AccessLoggingCheck struct{}

func (c S3AccessLoggingCheck) ID() string                { return "S3_ACCESS_LOGGING" }
func (c S3AccessLoggingCheck) Name() string              { return "S3 Server Access Logging" }
func (c S3AccessLoggingCheck) Severity() models.Severity { return models.SeverityLow }

// Evaluate reports a fetch failure as UNKNOWN rather than ERROR: the logging
// state could not be determined but the check itself did not break.
func (c S3AccessLoggingCheck) Evaluate(ctx CheckContext) models.Finding {
	cfg, err := ctx.Client.GetLogging(ctx.Context, ctx.Bucket)
	if err != nil {
		return result(c, models.StatusUnknown, fmt.Sprintf("logging state could not be determined: %v", err))
	}
	if cfg == nil || !cfg.Enabled {
		return result(c, models.StatusNonCompliant, "server access logging disabled")
	}
	f := result(c, models.StatusCompliant, fmt.Sprintf("logging to %s/%s", cfg.TargetBucket, cfg.TargetPrefix))
	return f.WithMetadata("target_bucket", cfg.TargetBucket)
}
