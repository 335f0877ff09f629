// Package s3posture provides the S3 bucket posture check pack.
// It groups the built-in checks into a single New() function that the CLI
// wires into a DefaultCheckRegistry before invoking the scan engine.
//
// The slice order is the canonical report order. New checks are appended.
package s3posture

import "github.com/pankaj-dahiya-devops/s3-sentinel/internal/checks"

// New returns the default S3 posture check pack.
func New() []checks.Check {
	return []checks.Check{
		checks.S3EncryptionCheck{},        // HIGH:   no default server-side encryption
		checks.S3VersioningCheck{},        // MEDIUM: versioning not enabled
		checks.S3PublicAccessBlockCheck{}, // HIGH:   a Block Public Access setting is off
		checks.S3AccessLoggingCheck{},     // LOW:    server access logging disabled
		checks.S3LifecycleCheck{},         // INFO:   lifecycle rule count
		checks.S3ACLExposureCheck{},       // HIGH:   ACL grants to AllUsers/AuthenticatedUsers
		checks.S3PolicyPublicCheck{},      // HIGH:   bucket policy is public
	}
}
