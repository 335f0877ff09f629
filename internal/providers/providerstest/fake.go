// Package providerstest provides an in-memory providers.Client for tests.
package providerstest

import (
	"context"
	"sync"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

// BucketState is the configuration of one fake bucket. A nil facet pointer
// means "not configured"; an entry in Errors makes that facet's call fail.
type BucketState struct {
	Encryption        *models.EncryptionConfig
	Versioning        models.VersioningStatus
	PublicAccessBlock *models.PublicAccessBlockConfig
	Logging           *models.LoggingConfig
	Lifecycle         []models.LifecycleRule
	ACL               []models.ACLGrant
	Policy            *models.PolicyStatus

	// Errors maps a facet operation name (e.g. "GetACL") to the error it
	// returns.
	Errors map[string]error
}

// Client is a fake providers.Client backed by a map of bucket states.
// It is safe for concurrent use.
type Client struct {
	Buckets []models.Bucket
	States  map[string]BucketState

	// ListErr, when set, is returned by ListBuckets.
	ListErr error

	// Hook, when set, runs before every facet call. Tests use it to block,
	// sleep or panic inside a check.
	Hook func(ctx context.Context, op string, bucket models.Bucket)

	mu    sync.Mutex
	calls map[string]int
}

var _ providers.Client = (*Client)(nil)

// Calls returns how many times op was invoked.
func (c *Client) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

func (c *Client) enter(ctx context.Context, op string, b models.Bucket) (BucketState, error) {
	c.mu.Lock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[op]++
	c.mu.Unlock()

	if c.Hook != nil {
		c.Hook(ctx, op, b)
	}
	st := c.States[b.Name]
	if err, ok := st.Errors[op]; ok {
		return st, err
	}
	return st, nil
}

func (c *Client) ListBuckets(ctx context.Context) ([]models.Bucket, error) {
	c.mu.Lock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls["ListBuckets"]++
	c.mu.Unlock()

	if c.ListErr != nil {
		return nil, c.ListErr
	}
	out := make([]models.Bucket, len(c.Buckets))
	copy(out, c.Buckets)
	return out, nil
}

func (c *Client) GetEncryption(ctx context.Context, b models.Bucket) (*models.EncryptionConfig, error) {
	st, err := c.enter(ctx, "GetEncryption", b)
	if err != nil {
		return nil, err
	}
	if st.Encryption == nil {
		return nil, providers.ErrNotConfigured
	}
	return st.Encryption, nil
}

func (c *Client) GetVersioning(ctx context.Context, b models.Bucket) (models.VersioningStatus, error) {
	st, err := c.enter(ctx, "GetVersioning", b)
	if err != nil {
		return "", err
	}
	return st.Versioning, nil
}

func (c *Client) GetPublicAccessBlock(ctx context.Context, b models.Bucket) (*models.PublicAccessBlockConfig, error) {
	st, err := c.enter(ctx, "GetPublicAccessBlock", b)
	if err != nil {
		return nil, err
	}
	if st.PublicAccessBlock == nil {
		return nil, providers.ErrNotConfigured
	}
	return st.PublicAccessBlock, nil
}

func (c *Client) GetLogging(ctx context.Context, b models.Bucket) (*models.LoggingConfig, error) {
	st, err := c.enter(ctx, "GetLogging", b)
	if err != nil {
		return nil, err
	}
	if st.Logging == nil {
		return &models.LoggingConfig{}, nil
	}
	return st.Logging, nil
}

func (c *Client) GetLifecycleRules(ctx context.Context, b models.Bucket) ([]models.LifecycleRule, error) {
	st, err := c.enter(ctx, "GetLifecycleRules", b)
	if err != nil {
		return nil, err
	}
	if st.Lifecycle == nil {
		return nil, providers.ErrNotConfigured
	}
	return st.Lifecycle, nil
}

func (c *Client) GetACL(ctx context.Context, b models.Bucket) ([]models.ACLGrant, error) {
	st, err := c.enter(ctx, "GetACL", b)
	if err != nil {
		return nil, err
	}
	return st.ACL, nil
}

func (c *Client) GetPolicyStatus(ctx context.Context, b models.Bucket) (*models.PolicyStatus, error) {
	st, err := c.enter(ctx, "GetPolicyStatus", b)
	if err != nil {
		return nil, err
	}
	if st.Policy == nil {
		return nil, providers.ErrNotConfigured
	}
	return st.Policy, nil
}
