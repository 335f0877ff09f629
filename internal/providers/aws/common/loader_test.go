package common

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/version"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeSTS struct {
	account *string
	err     error
}

func (f fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: f.account}, nil
}

func staticCreds() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{AccessKeyID: "AKID", SecretAccessKey: "secret"}, nil
	})
}

// newTestProvider returns a provider whose config loader records the options
// it was given and returns cfg.
func newTestProvider(cfg aws.Config, loadErr error, stsClient STSClient) (*DefaultAWSClientProvider, *awsconfig.LoadOptions) {
	seen := &awsconfig.LoadOptions{}
	p := NewDefaultAWSClientProviderWithFactory(func(aws.Config) *ClientSet {
		return &ClientSet{STS: stsClient}
	})
	p.load = func(_ context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			_ = fn(seen)
		}
		return cfg, loadErr
	}
	return p, seen
}

// ── LoadProfile ──────────────────────────────────────────────────────────────

func TestLoadProfile_Success(t *testing.T) {
	p, seen := newTestProvider(
		aws.Config{Credentials: staticCreds()},
		nil,
		fakeSTS{account: aws.String("111122223333")},
	)
	p.WithMaxAttempts(5)

	pc, err := p.LoadProfile(context.Background(), "staging", "eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "staging", pc.ProfileName)
	assert.Equal(t, "111122223333", pc.AccountID)
	assert.Equal(t, fallbackRegion, pc.Region, "loader result had no region")

	assert.Equal(t, "staging", seen.SharedConfigProfile)
	assert.Equal(t, "eu-west-1", seen.Region)
	assert.Equal(t, 5, seen.RetryMaxAttempts)
	assert.Equal(t, version.AppID(), seen.AppID)
}

func TestLoadProfile_DefaultProfileName(t *testing.T) {
	p, seen := newTestProvider(
		aws.Config{Region: "ap-south-1", Credentials: staticCreds()},
		nil,
		fakeSTS{account: aws.String("1")},
	)
	pc, err := p.LoadProfile(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "default", pc.ProfileName)
	assert.Equal(t, "ap-south-1", pc.Region)
	assert.Empty(t, seen.SharedConfigProfile)
}

func TestLoadProfile_NoCredentials(t *testing.T) {
	failing := aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{}, errors.New("failed to refresh cached credentials")
	})
	p, _ := newTestProvider(aws.Config{Credentials: failing}, nil, fakeSTS{})

	_, err := p.LoadProfile(context.Background(), "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrAuthenticationMissing)
	assert.True(t, providers.IsFatal(err))

	p, _ = newTestProvider(aws.Config{}, nil, fakeSTS{})
	_, err = p.LoadProfile(context.Background(), "", "")
	assert.ErrorIs(t, err, providers.ErrAuthenticationMissing)
}

func TestLoadProfile_LoadConfigFailure(t *testing.T) {
	p, _ := newTestProvider(aws.Config{}, errors.New("failed to get shared config profile, ghost"), fakeSTS{})
	_, err := p.LoadProfile(context.Background(), "ghost", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrAuthenticationMissing)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestLoadProfile_STSFailureIsProviderUnavailable(t *testing.T) {
	p, _ := newTestProvider(aws.Config{Credentials: staticCreds()}, nil, fakeSTS{err: errors.New("ExpiredToken")})
	_, err := p.LoadProfile(context.Background(), "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "ExpiredToken")
}

func TestLoadProfile_NilAccount(t *testing.T) {
	p, _ := newTestProvider(aws.Config{Credentials: staticCreds()}, nil, fakeSTS{})
	_, err := p.LoadProfile(context.Background(), "", "")
	assert.ErrorContains(t, err, "nil account")
}

// ── profile discovery ────────────────────────────────────────────────────────

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestListProfiles(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".aws", "credentials"), `
[default]
aws_access_key_id = x

[prod]
aws_access_key_id = y
`)
	writeFile(t, filepath.Join(home, ".aws", "config"), `
[default]
region = us-east-1

[profile prod]
region = eu-west-1

[profile audit]
sso_session = corp

[sso-session corp]
sso_start_url = https://example.awsapps.com/start
`)

	p := NewDefaultAWSClientProvider()
	p.homeDir = func() (string, error) { return home, nil }

	names, err := p.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "prod", "audit"}, names)
}

func TestListProfiles_NoFiles(t *testing.T) {
	p := NewDefaultAWSClientProvider()
	p.homeDir = func() (string, error) { return t.TempDir(), nil }

	names, err := p.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
