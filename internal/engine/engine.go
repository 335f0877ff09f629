package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/logging"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers/aws/common"
	awss3 "github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers/aws/s3"
)

// ScanRequest is the sole input to Engine.RunScan.
type ScanRequest struct {
	// Profile is the named AWS profile to use. Empty means the default profile.
	Profile string

	// Region overrides the profile region and restricts the bucket list to
	// buckets in that region. Empty scans buckets in every region.
	Region string

	// Buckets selects buckets by exact name.
	Buckets []string

	// Patterns selects buckets by glob (path.Match syntax). A bucket is
	// scanned when it matches Buckets or Patterns; with neither set, every
	// listed bucket is scanned.
	Patterns []string
}

// Engine is the scan invocation surface used by the CLI.
//
// Fatal errors wrap providers.ErrAuthenticationMissing or
// providers.ErrProviderUnavailable; every other failure is reported as a
// finding inside the returned result.
type Engine interface {
	RunScan(ctx context.Context, req ScanRequest) (*models.ScanResult, error)
}

// ClientBuilder creates the provider client for a loaded profile.
type ClientBuilder func(cfg aws.Config, region string) providers.Client

// NewS3Client is the production ClientBuilder.
func NewS3Client(cfg aws.Config, region string) providers.Client {
	return awss3.New(cfg, region)
}

// AWSScanEngine implements Engine for AWS S3. It resolves credentials
// through the common provider, builds the S3 client and delegates all check
// execution to the Orchestrator. It never calls the AWS SDK directly.
type AWSScanEngine struct {
	provider     common.AWSClientProvider
	newClient    ClientBuilder
	orchestrator *Orchestrator
	options      ScanOptions
	logger       zerolog.Logger
}

// NewAWSScanEngine constructs an AWSScanEngine. options supplies the
// concurrency and timeout settings for every scan; its Resources and Filter
// fields are ignored and derived from each ScanRequest instead.
func NewAWSScanEngine(
	provider common.AWSClientProvider,
	newClient ClientBuilder,
	orchestrator *Orchestrator,
	options ScanOptions,
	logger zerolog.Logger,
) *AWSScanEngine {
	if newClient == nil {
		newClient = NewS3Client
	}
	return &AWSScanEngine{
		provider:     provider,
		newClient:    newClient,
		orchestrator: orchestrator,
		options:      options,
		logger:       logging.Component(logger, "engine"),
	}
}

// RunScan implements Engine.
func (e *AWSScanEngine) RunScan(ctx context.Context, req ScanRequest) (*models.ScanResult, error) {
	if err := ValidateGlobs(req.Patterns...); err != nil {
		return nil, err
	}

	loadStart := time.Now()
	profile, err := e.provider.LoadProfile(ctx, req.Profile, req.Region)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", req.Profile, err)
	}
	e.logger.Debug().
		Str("profile", profile.ProfileName).
		Str("account", profile.AccountID).
		Str("region", profile.Region).
		Dur("elapsed", time.Since(loadStart)).
		Msg("profile loaded")

	opts := e.options
	opts.Resources = nil
	tracker := newNameTracker(req.Buckets)
	opts.Filter = Any(tracker.filter(), patternFilter(req.Patterns))

	client := e.newClient(profile.Config, req.Region)
	result, err := e.orchestrator.Scan(ctx, client, opts)
	if err != nil {
		return nil, fmt.Errorf("scan profile %q: %w", profile.ProfileName, err)
	}

	result.Profile = profile.ProfileName
	result.AccountID = profile.AccountID
	result.Region = req.Region
	result.NotFound = tracker.missing()
	for _, name := range result.NotFound {
		e.logger.Warn().Str("bucket", name).Msg("requested bucket not found")
	}
	return result, nil
}

func patternFilter(patterns []string) ResourceFilter {
	if len(patterns) == 0 {
		return nil
	}
	return MatchGlobs(patterns...)
}

// nameTracker is a MatchNames filter that remembers which names matched.
// The orchestrator applies filters sequentially before fan-out, so no lock
// is needed.
type nameTracker struct {
	names []string
	seen  map[string]bool
}

func newNameTracker(names []string) *nameTracker {
	t := &nameTracker{names: names, seen: make(map[string]bool, len(names))}
	for _, n := range names {
		t.seen[n] = false
	}
	return t
}

func (t *nameTracker) filter() ResourceFilter {
	if len(t.names) == 0 {
		return nil
	}
	match := MatchNames(t.names...)
	return func(b models.Bucket) bool {
		if match(b) {
			t.seen[b.Name] = true
			return true
		}
		return false
	}
}

// missing returns the requested names that were never listed, in request
// order without duplicates.
func (t *nameTracker) missing() []string {
	var out []string
	done := make(map[string]bool)
	for _, n := range t.names {
		if !t.seen[n] && !done[n] {
			out = append(out, n)
			done[n] = true
		}
	}
	return out
}
