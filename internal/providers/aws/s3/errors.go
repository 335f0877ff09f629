package awss3

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

// S3 error codes that mean "this facet is not configured" rather than
// "the request failed".
const (
	codeNoEncryption        = "ServerSideEncryptionConfigurationNotFoundError"
	codeNoPublicAccessBlock = "NoSuchPublicAccessBlockConfiguration"
	codeNoLifecycle         = "NoSuchLifecycleConfiguration"
	codeNoBucketPolicy      = "NoSuchBucketPolicy"
)

// credentialCodes are ListBuckets error codes meaning the credentials
// themselves were rejected.
var credentialCodes = map[string]bool{
	"ExpiredToken":          true,
	"InvalidAccessKeyId":    true,
	"InvalidToken":          true,
	"SignatureDoesNotMatch": true,
}

// classify converts an SDK error from op on bucket into the provider
// taxonomy. Errors whose API code is one of absentCodes become
// ErrNotConfigured; everything else becomes a *providers.ProviderError.
func classify(op, bucket string, err error, absentCodes ...string) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return providers.NewProviderError(op, bucket, err)
	}

	code := apiErr.ErrorCode()
	for _, c := range absentCodes {
		if code == c {
			return notConfigured(op, bucket)
		}
	}

	pe := providers.NewProviderError(op, bucket, err)
	pe.Code = code
	return pe
}

func notConfigured(op, bucket string) error {
	return fmt.Errorf("%s bucket %s: %w", op, bucket, providers.ErrNotConfigured)
}

// listFailure wraps a ListBuckets failure as fatal. Rejected credentials map
// to ErrAuthenticationMissing, everything else to ErrProviderUnavailable.
func listFailure(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		sentinel := providers.ErrProviderUnavailable
		if credentialCodes[apiErr.ErrorCode()] {
			sentinel = providers.ErrAuthenticationMissing
		}
		return fmt.Errorf("%w: list buckets: %s: %s", sentinel, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("%w: list buckets: %w", providers.ErrProviderUnavailable, err)
}
