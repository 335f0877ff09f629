package s3posture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/checks"
)

func TestNew_CanonicalOrder(t *testing.T) {
	r := checks.NewDefaultCheckRegistry(New()...)
	assert.Equal(t, []string{
		"S3_ENCRYPTION",
		"S3_VERSIONING",
		"S3_PUBLIC_ACCESS_BLOCK",
		"S3_ACCESS_LOGGING",
		"S3_LIFECYCLE",
		"S3_ACL_EXPOSURE",
		"S3_POLICY_PUBLIC",
	}, r.IDs())
}
