package checks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers/providerstest"
)

const bucketName = "data"

// evaluate runs c against a fake client holding one bucket in state st.
func evaluate(t *testing.T, c Check, st providerstest.BucketState) models.Finding {
	t.Helper()
	client := &providerstest.Client{
		States: map[string]providerstest.BucketState{bucketName: st},
	}
	f := c.Evaluate(CheckContext{
		Context: context.Background(),
		Bucket:  models.Bucket{Name: bucketName},
		Client:  client,
	})
	assert.Equal(t, c.ID(), f.CheckID)
	assert.Equal(t, c.Name(), f.CheckName)
	assert.Equal(t, c.Severity(), f.Severity)
	assert.True(t, f.Valid(), "finding violates the error/status invariant: %+v", f)
	return f
}

func failing(op string) providerstest.BucketState {
	return providerstest.BucketState{Errors: map[string]error{
		op: providers.NewProviderError(op, bucketName, errors.New("AccessDenied")),
	}}
}

// ── encryption ───────────────────────────────────────────────────────────────

func TestS3EncryptionCheck(t *testing.T) {
	f := evaluate(t, S3EncryptionCheck{}, providerstest.BucketState{
		Encryption: &models.EncryptionConfig{Rules: []models.EncryptionRule{{Algorithm: "AES256"}}},
	})
	assert.Equal(t, models.StatusCompliant, f.Status)
	assert.Contains(t, f.Detail, "AES256")

	f = evaluate(t, S3EncryptionCheck{}, providerstest.BucketState{})
	assert.Equal(t, models.StatusNonCompliant, f.Status)
	assert.Equal(t, "no server-side encryption configured", f.Detail)

	f = evaluate(t, S3EncryptionCheck{}, failing("GetEncryption"))
	assert.Equal(t, models.StatusError, f.Status)
	assert.Contains(t, f.Error, "AccessDenied")
}

func TestFailure_ProviderTimeoutDetail(t *testing.T) {
	f := evaluate(t, S3VersioningCheck{}, providerstest.BucketState{Errors: map[string]error{
		"GetVersioning": providers.NewProviderError("GetBucketVersioning", bucketName, context.DeadlineExceeded),
	}})
	assert.Equal(t, models.StatusError, f.Status)
	assert.Equal(t, "provider call timed out", f.Detail)
	assert.Contains(t, f.Error, "deadline exceeded")

	f = evaluate(t, S3VersioningCheck{}, failing("GetVersioning"))
	assert.Equal(t, "check could not be completed", f.Detail)
}

// ── versioning ───────────────────────────────────────────────────────────────

func TestS3VersioningCheck(t *testing.T) {
	cases := []struct {
		status models.VersioningStatus
		want   models.CheckStatus
	}{
		{"Enabled", models.StatusCompliant},
		{"Suspended", models.StatusNonCompliant},
		{"", models.StatusNonCompliant},
		{"enabled", models.StatusNonCompliant},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			f := evaluate(t, S3VersioningCheck{}, providerstest.BucketState{Versioning: tc.status})
			assert.Equal(t, tc.want, f.Status)
		})
	}

	f := evaluate(t, S3VersioningCheck{}, failing("GetVersioning"))
	assert.Equal(t, models.StatusError, f.Status)
}

// ── public access block ──────────────────────────────────────────────────────

func TestS3PublicAccessBlockCheck_AllEnabled(t *testing.T) {
	f := evaluate(t, S3PublicAccessBlockCheck{}, providerstest.BucketState{
		PublicAccessBlock: &models.PublicAccessBlockConfig{
			BlockPublicAcls: true, IgnorePublicAcls: true, BlockPublicPolicy: true, RestrictPublicBuckets: true,
		},
	})
	assert.Equal(t, models.StatusCompliant, f.Status)
}

func TestS3PublicAccessBlockCheck_NamesDisabledSetting(t *testing.T) {
	f := evaluate(t, S3PublicAccessBlockCheck{}, providerstest.BucketState{
		PublicAccessBlock: &models.PublicAccessBlockConfig{
			BlockPublicAcls: true, IgnorePublicAcls: true, BlockPublicPolicy: true, RestrictPublicBuckets: false,
		},
	})
	assert.Equal(t, models.StatusNonCompliant, f.Status)
	assert.Contains(t, f.Detail, "restrictPublicBuckets")
	assert.NotContains(t, f.Detail, "blockPublicAcls")
	assert.Equal(t, []string{"restrictPublicBuckets"}, f.Metadata["disabled_settings"])
}

func TestS3PublicAccessBlockCheck_Absent(t *testing.T) {
	f := evaluate(t, S3PublicAccessBlockCheck{}, providerstest.BucketState{})
	assert.Equal(t, models.StatusNonCompliant, f.Status)
	assert.Equal(t, "no public access block configured", f.Detail)

	f = evaluate(t, S3PublicAccessBlockCheck{}, failing("GetPublicAccessBlock"))
	assert.Equal(t, models.StatusError, f.Status)
}

// ── access logging ───────────────────────────────────────────────────────────

func TestS3AccessLoggingCheck(t *testing.T) {
	f := evaluate(t, S3AccessLoggingCheck{}, providerstest.BucketState{
		Logging: &models.LoggingConfig{Enabled: true, TargetBucket: "audit-logs", TargetPrefix: "data/"},
	})
	assert.Equal(t, models.StatusCompliant, f.Status)
	assert.Contains(t, f.Detail, "audit-logs")

	f = evaluate(t, S3AccessLoggingCheck{}, providerstest.BucketState{})
	assert.Equal(t, models.StatusNonCompliant, f.Status)
}

func TestS3AccessLoggingCheck_ErrorIsUnknown(t *testing.T) {
	f := evaluate(t, S3AccessLoggingCheck{}, failing("GetLogging"))
	assert.Equal(t, models.StatusUnknown, f.Status)
	assert.Empty(t, f.Error)
	assert.Contains(t, f.Detail, "AccessDenied")
}

// ── lifecycle ────────────────────────────────────────────────────────────────

func TestS3LifecycleCheck(t *testing.T) {
	f := evaluate(t, S3LifecycleCheck{}, providerstest.BucketState{
		Lifecycle: []models.LifecycleRule{{ID: "a", Status: "Enabled"}, {ID: "b", Status: "Disabled"}},
	})
	assert.Equal(t, models.StatusCompliant, f.Status)
	assert.Equal(t, "2 rules", f.Detail)
	assert.Equal(t, 2, f.Metadata["rule_count"])

	f = evaluate(t, S3LifecycleCheck{}, providerstest.BucketState{})
	assert.Equal(t, models.StatusCompliant, f.Status)
	assert.Equal(t, "0 rules", f.Detail)

	f = evaluate(t, S3LifecycleCheck{}, failing("GetLifecycleRules"))
	assert.Equal(t, models.StatusError, f.Status)
}

// ── ACL exposure ─────────────────────────────────────────────────────────────

func TestS3ACLExposureCheck_OneOffender(t *testing.T) {
	f := evaluate(t, S3ACLExposureCheck{}, providerstest.BucketState{
		ACL: []models.ACLGrant{
			{Grantee: "AllUsers", Permission: "READ"},
			{Grantee: "owner-canonical-id", GranteeType: "CanonicalUser", Permission: "FULL_CONTROL"},
		},
	})
	assert.Equal(t, models.StatusNonCompliant, f.Status)
	assert.Equal(t, []OffendingGrant{{Group: "AllUsers", Permission: "READ"}}, f.Metadata["offending_grants"])
	assert.Equal(t, "grants READ to All Users globally", f.Detail)
}

func TestS3ACLExposureCheck_MatchesGroupURIs(t *testing.T) {
	f := evaluate(t, S3ACLExposureCheck{}, providerstest.BucketState{
		ACL: []models.ACLGrant{
			{Grantee: "http://acs.amazonaws.com/groups/global/AllUsers", Permission: "WRITE_ACP"},
			{Grantee: "http://acs.amazonaws.com/groups/global/AuthenticatedUsers", Permission: "READ_ACP"},
			{Grantee: "http://acs.amazonaws.com/groups/s3/LogDelivery", Permission: "WRITE"},
		},
	})
	require.Equal(t, models.StatusNonCompliant, f.Status)
	assert.Equal(t, []OffendingGrant{
		{Group: "AllUsers", Permission: "WRITE_ACP"},
		{Group: "AuthenticatedUsers", Permission: "READ_ACP"},
	}, f.Metadata["offending_grants"])
	assert.Equal(t, "grants WRITE_ACP to All Users globally; grants READ_ACP to Authenticated Users globally", f.Detail)
}

func TestS3ACLExposureCheck_PrivateAndError(t *testing.T) {
	f := evaluate(t, S3ACLExposureCheck{}, providerstest.BucketState{
		ACL: []models.ACLGrant{{Grantee: "owner", Permission: "FULL_CONTROL"}},
	})
	assert.Equal(t, models.StatusCompliant, f.Status)
	assert.Nil(t, f.Metadata)

	f = evaluate(t, S3ACLExposureCheck{}, failing("GetACL"))
	assert.Equal(t, models.StatusError, f.Status)
}

// ── bucket policy ────────────────────────────────────────────────────────────

func TestS3PolicyPublicCheck(t *testing.T) {
	f := evaluate(t, S3PolicyPublicCheck{}, providerstest.BucketState{Policy: &models.PolicyStatus{IsPublic: true}})
	assert.Equal(t, models.StatusNonCompliant, f.Status)

	f = evaluate(t, S3PolicyPublicCheck{}, providerstest.BucketState{Policy: &models.PolicyStatus{}})
	assert.Equal(t, models.StatusCompliant, f.Status)

	f = evaluate(t, S3PolicyPublicCheck{}, providerstest.BucketState{})
	assert.Equal(t, models.StatusNotConfigured, f.Status)

	f = evaluate(t, S3PolicyPublicCheck{}, failing("GetPolicyStatus"))
	assert.Equal(t, models.StatusError, f.Status)
}
