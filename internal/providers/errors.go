package providers

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for the scan error taxonomy. Use errors.Is to test for them.
var (
	// ErrAuthenticationMissing means no credentials could be resolved. Fatal:
	// the scan is aborted before any provider call.
	ErrAuthenticationMissing = errors.New("no cloud credentials found")

	// ErrProviderUnavailable means the bucket list could not be obtained.
	// Fatal: the whole scan is aborted and no reports are produced.
	ErrProviderUnavailable = errors.New("cloud provider unavailable")

	// ErrNotConfigured marks an explicitly absent facet. It is not a failure.
	ErrNotConfigured = errors.New("not configured")
)

// ProviderError is a failed facet fetch for a single bucket. It is recovered
// locally as an ERROR finding and never aborts a scan.
type ProviderError struct {
	// Op is the provider operation that failed (e.g. "GetBucketAcl").
	Op string

	// Bucket is the bucket name, when the operation was bucket-scoped.
	Bucket string

	// Code is the provider error code, when one was returned.
	Code string

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *ProviderError) Error() string {
	switch {
	case e.Bucket != "" && e.Code != "":
		return fmt.Sprintf("%s bucket %s: %s: %v", e.Op, e.Bucket, e.Code, e.Err)
	case e.Bucket != "":
		return fmt.Sprintf("%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline expiry.
func (e *ProviderError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// NewProviderError wraps err as a *ProviderError for op on bucket.
func NewProviderError(op, bucket string, err error) *ProviderError {
	return &ProviderError{Op: op, Bucket: bucket, Err: err}
}

// IsNotConfigured reports whether err marks an explicitly absent facet.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsFatal reports whether err must abort a scan.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAuthenticationMissing) || errors.Is(err, ErrProviderUnavailable)
}
