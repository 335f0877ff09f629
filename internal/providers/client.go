// Package providers defines the contract between the scan core and a cloud
// object-storage provider. The core depends on a provider only through
// Client; SDK bindings live in provider-specific subpackages.
//
// Every bucket-scoped accessor distinguishes three outcomes:
//   - a value: the facet is present and configured
//   - ErrNotConfigured: the facet is explicitly absent (a legitimate state)
//   - any other error, normally a *ProviderError: transport or permission failure
//
// Callers must test for ErrNotConfigured with errors.Is before treating an
// error as a failure.
package providers

import (
	"context"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// Client is the read-only provider capability used by checks and the
// orchestrator. Implementations must be safe for concurrent use.
type Client interface {
	// ListBuckets returns every bucket visible to the credentials. It either
	// succeeds fully or fails with an error wrapping ErrProviderUnavailable
	// or ErrAuthenticationMissing; it never returns a partial list.
	ListBuckets(ctx context.Context) ([]models.Bucket, error)

	// GetEncryption returns the default SSE configuration, or ErrNotConfigured.
	GetEncryption(ctx context.Context, bucket models.Bucket) (*models.EncryptionConfig, error)

	// GetVersioning returns the raw versioning status. Never-enabled
	// versioning is reported as an empty status, not as an error.
	GetVersioning(ctx context.Context, bucket models.Bucket) (models.VersioningStatus, error)

	// GetPublicAccessBlock returns the bucket Block Public Access settings,
	// or ErrNotConfigured.
	GetPublicAccessBlock(ctx context.Context, bucket models.Bucket) (*models.PublicAccessBlockConfig, error)

	// GetLogging returns the server access logging state. Disabled logging
	// is a value with Enabled == false.
	GetLogging(ctx context.Context, bucket models.Bucket) (*models.LoggingConfig, error)

	// GetLifecycleRules returns the lifecycle rules, or ErrNotConfigured.
	GetLifecycleRules(ctx context.Context, bucket models.Bucket) ([]models.LifecycleRule, error)

	// GetACL returns every ACL grant on the bucket.
	GetACL(ctx context.Context, bucket models.Bucket) ([]models.ACLGrant, error)

	// GetPolicyStatus returns the bucket policy public status, or
	// ErrNotConfigured when no bucket policy is attached.
	GetPolicyStatus(ctx context.Context, bucket models.Bucket) (*models.PolicyStatus, error)
}
