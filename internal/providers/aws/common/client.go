// Package common resolves AWS profiles and credentials for the S3 provider.
// It is the only place that talks to the SDK's shared config loader.
package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ProfileConfig is a resolved AWS profile with its SDK configuration. It is the unit passed from the loader into
// the scan engine.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/credentials or "default".
	ProfileName string

	// AccountID is the resolved AWS account ID for this profile (via STS).
	AccountID string

	// Region is the home region for this profile configuration.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration. The S3 provider
	// derives its regional clients from it.
	Config aws.Config
}

// AWSClientProvider loads AWS configurations. It is the sole entry point for
// AWS credential and region management.
//
// Implementations must use the AWS SDK v2 only. Never call the aws CLI.
type AWSClientProvider interface {
	// LoadProfile returns a ProfileConfig for the named profile. Pass an
	// empty profile to load the default profile and an empty region to use
	// the profile's own region.
	//
	// Errors wrap providers.ErrAuthenticationMissing when no credentials can
	// be resolved and providers.ErrProviderUnavailable when the identity
	// call fails.
	LoadProfile(ctx context.Context, profile, region string) (*ProfileConfig, error)

	// ListProfiles returns every profile name found in ~/.aws/credentials
	// and ~/.aws/config.
	ListProfiles(ctx context.Context) ([]string, error)
}
