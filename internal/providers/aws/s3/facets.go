package awss3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// GetEncryption returns the bucket's default SSE rules. A bucket without a
// configuration (ServerSideEncryptionConfigurationNotFoundError) yields
// ErrNotConfigured.
func (c *Client) GetEncryption(ctx context.Context, bucket models.Bucket) (*models.EncryptionConfig, error) {
	out, err := c.clientFor(bucket.Region).GetBucketEncryption(ctx, &s3svc.GetBucketEncryptionInput{
		Bucket: aws.String(bucket.Name),
	})
	if err != nil {
		return nil, classify("GetBucketEncryption", bucket.Name, err, codeNoEncryption)
	}
	if out.ServerSideEncryptionConfiguration == nil {
		return nil, notConfigured("GetBucketEncryption", bucket.Name)
	}

	cfg := &models.EncryptionConfig{}
	for _, r := range out.ServerSideEncryptionConfiguration.Rules {
		rule := models.EncryptionRule{
			BucketKeyEnabled: aws.ToBool(r.BucketKeyEnabled),
		}
		if d := r.ApplyServerSideEncryptionByDefault; d != nil {
			rule.Algorithm = string(d.SSEAlgorithm)
			rule.KMSKeyID = aws.ToString(d.KMSMasterKeyID)
		}
		cfg.Rules = append(cfg.Rules, rule)
	}
	return cfg, nil
}

// GetVersioning returns the raw versioning status. Buckets that never had
// versioning enabled return an empty status.
func (c *Client) GetVersioning(ctx context.Context, bucket models.Bucket) (models.VersioningStatus, error) {
	out, err := c.clientFor(bucket.Region).GetBucketVersioning(ctx, &s3svc.GetBucketVersioningInput{
		Bucket: aws.String(bucket.Name),
	})
	if err != nil {
		return "", classify("GetBucketVersioning", bucket.Name, err)
	}
	return models.VersioningStatus(out.Status), nil
}

// GetPublicAccessBlock returns the bucket-level Block Public Access settings,
// or ErrNotConfigured (NoSuchPublicAccessBlockConfiguration).
func (c *Client) GetPublicAccessBlock(ctx context.Context, bucket models.Bucket) (*models.PublicAccessBlockConfig, error) {
	out, err := c.clientFor(bucket.Region).GetPublicAccessBlock(ctx, &s3svc.GetPublicAccessBlockInput{
		Bucket: aws.String(bucket.Name),
	})
	if err != nil {
		return nil, classify("GetPublicAccessBlock", bucket.Name, err, codeNoPublicAccessBlock)
	}
	pab := out.PublicAccessBlockConfiguration
	if pab == nil {
		return nil, notConfigured("GetPublicAccessBlock", bucket.Name)
	}
	return &models.PublicAccessBlockConfig{
		BlockPublicAcls:       aws.ToBool(pab.BlockPublicAcls),
		IgnorePublicAcls:      aws.ToBool(pab.IgnorePublicAcls),
		BlockPublicPolicy:     aws.ToBool(pab.BlockPublicPolicy),
		RestrictPublicBuckets: aws.ToBool(pab.RestrictPublicBuckets),
	}, nil
}

// GetLogging returns the server access logging configuration. A response
// without LoggingEnabled means logging is off.
func (c *Client) GetLogging(ctx context.Context, bucket models.Bucket) (*models.LoggingConfig, error) {
	out, err := c.clientFor(bucket.Region).GetBucketLogging(ctx, &s3svc.GetBucketLoggingInput{
		Bucket: aws.String(bucket.Name),
	})
	if err != nil {
		return nil, classify("GetBucketLogging", bucket.Name, err)
	}
	if out.LoggingEnabled == nil {
		return &models.LoggingConfig{Enabled: false}, nil
	}
	return &models.LoggingConfig{
		Enabled:      true,
		TargetBucket: aws.ToString(out.LoggingEnabled.TargetBucket),
		TargetPrefix: aws.ToString(out.LoggingEnabled.TargetPrefix),
	}, nil
}

// GetLifecycleRules returns the lifecycle rules, or ErrNotConfigured
// (NoSuchLifecycleConfiguration).
func (c *Client) GetLifecycleRules(ctx context.Context, bucket models.Bucket) ([]models.LifecycleRule, error) {
	out, err := c.clientFor(bucket.Region).GetBucketLifecycleConfiguration(ctx, &s3svc.GetBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucket.Name),
	})
	if err != nil {
		return nil, classify("GetBucketLifecycleConfiguration", bucket.Name, err, codeNoLifecycle)
	}
	rules := make([]models.LifecycleRule, 0, len(out.Rules))
	for _, r := range out.Rules {
		rules = append(rules, models.LifecycleRule{
			ID:     aws.ToString(r.ID),
			Status: string(r.Status),
		})
	}
	return rules, nil
}

// GetACL returns every grant on the bucket ACL.
func (c *Client) GetACL(ctx context.Context, bucket models.Bucket) ([]models.ACLGrant, error) {
	out, err := c.clientFor(bucket.Region).GetBucketAcl(ctx, &s3svc.GetBucketAclInput{
		Bucket: aws.String(bucket.Name),
	})
	if err != nil {
		return nil, classify("GetBucketAcl", bucket.Name, err)
	}
	grants := make([]models.ACLGrant, 0, len(out.Grants))
	for _, g := range out.Grants {
		grants = append(grants, models.ACLGrant{
			Grantee:     granteeIdentifier(g.Grantee),
			GranteeType: granteeType(g.Grantee),
			Permission:  string(g.Permission),
		})
	}
	return grants, nil
}

// GetPolicyStatus returns whether the bucket policy makes the bucket public.
// Buckets without a policy (NoSuchBucketPolicy) yield ErrNotConfigured.
func (c *Client) GetPolicyStatus(ctx context.Context, bucket models.Bucket) (*models.PolicyStatus, error) {
	out, err := c.clientFor(bucket.Region).GetBucketPolicyStatus(ctx, &s3svc.GetBucketPolicyStatusInput{
		Bucket: aws.String(bucket.Name),
	})
	if err != nil {
		return nil, classify("GetBucketPolicyStatus", bucket.Name, err, codeNoBucketPolicy)
	}
	if out.PolicyStatus == nil {
		return &models.PolicyStatus{IsPublic: false}, nil
	}
	return &models.PolicyStatus{IsPublic: aws.ToBool(out.PolicyStatus.IsPublic)}, nil
}

// granteeIdentifier returns the most specific identifier of g: group URI
// first, then canonical ID, email, and display name.
func granteeIdentifier(g *s3types.Grantee) string {
	if g == nil {
		return ""
	}
	for _, v := range []*string{g.URI, g.ID, g.EmailAddress, g.DisplayName} {
		if s := aws.ToString(v); s != "" {
			return s
		}
	}
	return ""
}

func granteeType(g *s3types.Grantee) string {
	if g == nil {
		return ""
	}
	return string(g.Type)
}
