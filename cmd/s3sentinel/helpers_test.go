package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/config"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers/providerstest"
)

// ── config mock ───────────────────────────────────────────────────────────────

type staticLoader struct {
	cfg  *config.Config
	path string
}

func (l staticLoader) Load() (*config.Config, error) {
	c := *l.cfg
	return &c, nil
}

func (l staticLoader) ConfigPath() string { return l.path }

// ── AWS mock ──────────────────────────────────────────────────────────────────

type mockAWSProvider struct {
	profileErr  error
	lastProfile string
	lastRegion  string
}

func (m *mockAWSProvider) LoadProfile(_ context.Context, profile, region string) (*common.ProfileConfig, error) {
	m.lastProfile, m.lastRegion = profile, region
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	name := profile
	if name == "" {
		name = "default"
	}
	return &common.ProfileConfig{
		ProfileName: name,
		AccountID:   "123456789012",
		Region:      "us-east-1",
		Config:      aws.Config{Region: "us-east-1"},
	}, nil
}

func (m *mockAWSProvider) ListProfiles(context.Context) ([]string, error) {
	return []string{"default", "audit"}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func secureState() providerstest.BucketState {
	return providerstest.BucketState{
		Encryption: &models.EncryptionConfig{Rules: []models.EncryptionRule{{Algorithm: "aws:kms"}}},
		Versioning: models.VersioningEnabled,
		PublicAccessBlock: &models.PublicAccessBlockConfig{
			BlockPublicAcls: true, IgnorePublicAcls: true, BlockPublicPolicy: true, RestrictPublicBuckets: true,
		},
		Logging:   &models.LoggingConfig{Enabled: true, TargetBucket: "access-logs"},
		Lifecycle: []models.LifecycleRule{{ID: "expire", Status: "Enabled"}},
		ACL:       []models.ACLGrant{{Grantee: "owner-canonical-id", GranteeType: "CanonicalUser", Permission: "FULL_CONTROL"}},
		Policy:    &models.PolicyStatus{IsPublic: false},
	}
}

// openState has no encryption, so S3_ENCRYPTION is NON_COMPLIANT HIGH.
func openState() providerstest.BucketState {
	st := secureState()
	st.Encryption = nil
	return st
}

func fakeAccount() *providerstest.Client {
	return &providerstest.Client{
		Buckets: []models.Bucket{
			{Name: "secure-bucket", Region: "us-east-1"},
			{Name: "open-bucket", Region: "eu-west-1"},
		},
		States: map[string]providerstest.BucketState{
			"secure-bucket": secureState(),
			"open-bucket":   openState(),
		},
	}
}

// newTestApp wires a fake provider and client. The config path never exists
// and logging is quiet so test output stays readable.
func newTestApp(p common.AWSClientProvider, client providers.Client) *app {
	cfg := config.Default()
	cfg.Log.Level = "error"
	return &app{
		loader:      staticLoader{cfg: cfg, path: filepath.Join(os.TempDir(), "s3sentinel-absent", "config.yaml")},
		newProvider: func(*config.Config) common.AWSClientProvider { return p },
		newClient:   func(aws.Config, string) providers.Client { return client },
	}
}

// execute runs the root command with args and returns captured stdout,
// stderr and the command error.
func execute(t *testing.T, a *app, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmdWithApp(a)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
