package awss3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3APIClient is the narrow S3 interface used by the provider client. It
// embeds ListBucketsAPIClient so the SDK paginator can be used directly, and
// covers one read call per audited bucket facet.
type s3APIClient interface {
	s3svc.ListBucketsAPIClient
	GetBucketEncryption(ctx context.Context, params *s3svc.GetBucketEncryptionInput, optFns ...func(*s3svc.Options)) (*s3svc.GetBucketEncryptionOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3svc.GetBucketVersioningInput, optFns ...func(*s3svc.Options)) (*s3svc.GetBucketVersioningOutput, error)
	GetPublicAccessBlock(ctx context.Context, params *s3svc.GetPublicAccessBlockInput, optFns ...func(*s3svc.Options)) (*s3svc.GetPublicAccessBlockOutput, error)
	GetBucketLogging(ctx context.Context, params *s3svc.GetBucketLoggingInput, optFns ...func(*s3svc.Options)) (*s3svc.GetBucketLoggingOutput, error)
	GetBucketLifecycleConfiguration(ctx context.Context, params *s3svc.GetBucketLifecycleConfigurationInput, optFns ...func(*s3svc.Options)) (*s3svc.GetBucketLifecycleConfigurationOutput, error)
	GetBucketAcl(ctx context.Context, params *s3svc.GetBucketAclInput, optFns ...func(*s3svc.Options)) (*s3svc.GetBucketAclOutput, error)
	GetBucketPolicyStatus(ctx context.Context, params *s3svc.GetBucketPolicyStatusInput, optFns ...func(*s3svc.Options)) (*s3svc.GetBucketPolicyStatusOutput, error)
}

// clientFactory creates an S3 API client from an AWS config.
// Injection point: tests replace this with a function returning fakes.
type clientFactory func(cfg aws.Config) s3APIClient

// newDefaultS3Client creates a production S3 SDK client from cfg.
func newDefaultS3Client(cfg aws.Config) s3APIClient {
	return s3svc.NewFromConfig(cfg)
}
