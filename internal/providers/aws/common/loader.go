package common

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/version"
)

// fallbackRegion is used when neither the caller nor the profile sets a
// region. S3 ListBuckets is global, so any commercial region works.
const fallbackRegion = "us-east-1"

// configLoader matches awsconfig.LoadDefaultConfig.
type configLoader func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error)

// DefaultAWSClientProvider is the production implementation of AWSClientProvider.
// It reads credentials from the standard AWS credential chain (environment,
// shared config and credentials files, SSO, instance roles) using the AWS
// SDK v2.
//
// Inject a custom ClientFactory via NewDefaultAWSClientProviderWithFactory to
// replace real SDK clients with mocks in unit tests.
type DefaultAWSClientProvider struct {
	factory     ClientFactory
	load        configLoader
	maxAttempts int
	homeDir     func() (string, error)
}

// NewDefaultAWSClientProvider returns a provider backed by the real AWS SDK.
func NewDefaultAWSClientProvider() *DefaultAWSClientProvider {
	return NewDefaultAWSClientProviderWithFactory(NewClientSet)
}

// NewDefaultAWSClientProviderWithFactory returns a provider that uses f to
// create its ClientSet. Pass a mock factory in tests.
func NewDefaultAWSClientProviderWithFactory(f ClientFactory) *DefaultAWSClientProvider {
	return &DefaultAWSClientProvider{
		factory: f,
		load:    awsconfig.LoadDefaultConfig,
		homeDir: os.UserHomeDir,
	}
}

// WithMaxAttempts sets the SDK retryer's maximum attempts per request.
// Zero keeps the SDK default.
func (p *DefaultAWSClientProvider) WithMaxAttempts(n int) *DefaultAWSClientProvider {
	p.maxAttempts = n
	return p
}

// LoadProfile loads the AWS SDK config for the named profile, verifies that
// credentials resolve, and returns a ProfileConfig including the account ID.
func (p *DefaultAWSClientProvider) LoadProfile(ctx context.Context, profile, region string) (*ProfileConfig, error) {
	name := profileDisplayName(profile)

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithAppID(version.AppID()),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if p.maxAttempts > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(p.maxAttempts))
	}

	cfg, err := p.load(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS profile %q: %w: %w", name, providers.ErrAuthenticationMissing, err)
	}

	if cfg.Region == "" {
		cfg.Region = fallbackRegion
	}

	if cfg.Credentials == nil {
		return nil, fmt.Errorf("profile %q: %w", name, providers.ErrAuthenticationMissing)
	}
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("profile %q: %w: %w", name, providers.ErrAuthenticationMissing, err)
	}

	clients := p.factory(cfg)

	accountID, err := resolveAccountID(ctx, clients.STS)
	if err != nil {
		return nil, fmt.Errorf("resolve account ID for profile %q: %w: %w", name, providers.ErrProviderUnavailable, err)
	}

	return &ProfileConfig{
		ProfileName: name,
		AccountID:   accountID,
		Region:      cfg.Region,
		Config:      cfg,
	}, nil
}

// ListProfiles returns the deduplicated profile names defined in
// ~/.aws/credentials and ~/.aws/config.
func (p *DefaultAWSClientProvider) ListProfiles(_ context.Context) ([]string, error) {
	home, err := p.homeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return discoverProfileNames(home)
}

// profileDisplayName returns a human-readable profile identifier. An empty
// string (the default profile) is shown as "default".
func profileDisplayName(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}

// resolveAccountID calls STS GetCallerIdentity to retrieve the numeric AWS
// account ID for the credentials currently loaded in stsClient.
func resolveAccountID(ctx context.Context, stsClient STSClient) (string, error) {
	out, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	if out.Account == nil {
		return "", fmt.Errorf("STS GetCallerIdentity returned nil account")
	}
	return aws.ToString(out.Account), nil
}

// discoverProfileNames reads the shared credentials and config files under
// home and returns every profile name found, deduplicated, in file order.
func discoverProfileNames(home string) ([]string, error) {
	credProfiles, err := parseProfilesFromFile(filepath.Join(home, ".aws", "credentials"), false)
	if err != nil {
		return nil, err
	}
	cfgProfiles, err := parseProfilesFromFile(filepath.Join(home, ".aws", "config"), true)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var all []string
	for _, name := range append(credProfiles, cfgProfiles...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		all = append(all, name)
	}
	return all, nil
}

// parseProfilesFromFile scans path for INI section headers and returns the
// profile name from each. With stripProfilePrefix, "[profile staging]"
// yields "staging". A missing file yields nil without an error.
func parseProfilesFromFile(path string, stripProfilePrefix bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var profiles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}

		name := line[1 : len(line)-1]
		if stripProfilePrefix && name != "default" {
			// sso-session and services sections are not profiles.
			if !strings.HasPrefix(name, "profile ") {
				continue
			}
			name = strings.TrimPrefix(name, "profile ")
		}
		profiles = append(profiles, strings.TrimSpace(name))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return profiles, nil
}
