// Package awss3 implements providers.Client on top of the AWS SDK v2 S3
// service. It only translates SDK responses into the provider contract; it
// never decides whether a configuration is compliant.
package awss3

import (
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

// Client is the production providers.Client for AWS S3.
//
// Bucket-scoped calls go to a client configured for the bucket's region,
// because S3 rejects cross-region requests with a redirect instead of
// following it. Regional clients are created lazily and reused.
type Client struct {
	cfg     aws.Config
	factory clientFactory
	base    s3APIClient

	// listRegion, when set, restricts ListBuckets to buckets in that region.
	listRegion string

	mu       sync.Mutex
	regional map[string]s3APIClient
}

var _ providers.Client = (*Client)(nil)

// New returns a Client backed by real SDK clients. bucketRegion narrows
// ListBuckets to one region; pass "" to list every bucket in the account.
func New(cfg aws.Config, bucketRegion string) *Client {
	return NewWithFactory(cfg, bucketRegion, newDefaultS3Client)
}

// NewWithFactory returns a Client that uses f to build its SDK clients,
// allowing tests to inject fakes.
func NewWithFactory(cfg aws.Config, bucketRegion string, f clientFactory) *Client {
	return &Client{
		cfg:        cfg,
		factory:    f,
		base:       f(cfg),
		listRegion: bucketRegion,
		regional:   make(map[string]s3APIClient),
	}
}

// clientFor returns the SDK client to use for a bucket in region.
func (c *Client) clientFor(region string) s3APIClient {
	if region == "" || region == c.cfg.Region {
		return c.base
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.regional[region]; ok {
		return cl
	}
	regionalCfg := c.cfg.Copy()
	regionalCfg.Region = region
	cl := c.factory(regionalCfg)
	c.regional[region] = cl
	return cl
}
