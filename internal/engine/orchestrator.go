package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/checks"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/logging"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

const (
	// defaultConcurrency caps the number of buckets scanned in parallel.
	// Keeps outbound S3 API concurrency predictable on large accounts.
	defaultConcurrency = 5

	// defaultCheckConcurrency runs the checks of one bucket serially.
	defaultCheckConcurrency = 1

	// defaultCheckTimeout bounds every single check, provider calls included.
	defaultCheckTimeout = 30 * time.Second
)

// errDeadlineBeforeRun is the ERROR finding cause for checks that never
// started because the scan deadline expired first.
var errDeadlineBeforeRun = fmt.Errorf("scan deadline exceeded before check ran: %w", context.DeadlineExceeded)

// ScanOptions configures a single Orchestrator.Scan call.
type ScanOptions struct {
	// Resources, when non-nil, is scanned instead of calling ListBuckets.
	Resources []models.Bucket

	// Filter narrows the resource list. Nil selects every resource.
	Filter ResourceFilter

	// Concurrency is the number of buckets scanned in parallel.
	// Defaults to 5 when zero.
	Concurrency int

	// CheckConcurrency is the number of checks run in parallel per bucket.
	// Defaults to 1 (serial) when zero.
	CheckConcurrency int

	// CheckTimeout bounds each check. Defaults to 30s when zero.
	CheckTimeout time.Duration

	// ScanTimeout, when positive, is the overall scan deadline. Work not
	// started before it expires is skipped and the result marked partial.
	ScanTimeout time.Duration
}

func (o ScanOptions) withDefaults() ScanOptions {
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	if o.CheckConcurrency <= 0 {
		o.CheckConcurrency = defaultCheckConcurrency
	}
	if o.CheckTimeout <= 0 {
		o.CheckTimeout = defaultCheckTimeout
	}
	return o
}

// Recorder receives per-check and per-scan measurements. The metrics
// package provides the Prometheus implementation.
type Recorder interface {
	ObserveCheck(checkID string, status models.CheckStatus, d time.Duration)
	ObserveScan(summary models.ScanSummary, partial bool)
}

// Orchestrator runs every registered check against every selected bucket
// and assembles the findings into a ScanResult. It holds no state between
// scans and is safe for concurrent use.
type Orchestrator struct {
	registry checks.CheckRegistry
	logger   zerolog.Logger
	recorder Recorder
	now      func() time.Time
	newID    func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator's logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logging.Component(l, "orchestrator") }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithClock replaces time.Now for scan timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator replaces the random UUID scan ID generator.
func WithIDGenerator(f func() string) Option {
	return func(o *Orchestrator) { o.newID = f }
}

// NewOrchestrator returns an Orchestrator evaluating the checks in registry.
func NewOrchestrator(registry checks.CheckRegistry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		logger:   zerolog.Nop(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Scan lists (or takes) the buckets, runs every registered check against
// each selected bucket and returns the aggregated result.
//
// A ListBuckets failure is returned as an error with no result. Every other
// failure is recorded as an ERROR finding; Scan then still returns a result,
// even when every finding is an error.
func (o *Orchestrator) Scan(ctx context.Context, client providers.Client, opts ScanOptions) (*models.ScanResult, error) {
	opts = opts.withDefaults()
	started := o.now()

	if opts.ScanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ScanTimeout)
		defer cancel()
	}

	resources := opts.Resources
	if resources == nil {
		listed, err := client.ListBuckets(ctx)
		if err != nil {
			return nil, fmt.Errorf("list buckets: %w", err)
		}
		resources = listed
	}
	listedCount := len(resources)
	selected := opts.Filter.apply(resources)

	registered := o.registry.All()
	o.logger.Info().
		Int("buckets", len(selected)).
		Int("listed", listedCount).
		Int("checks", len(registered)).
		Msg("scan started")

	// One slot per selected bucket; a nil slot means the bucket never started.
	slots := make([]*models.Report, len(selected))
	interrupted := make([]bool, len(selected))

	g := new(errgroup.Group)
	g.SetLimit(opts.Concurrency)
	for i, b := range selected {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			report, cut := o.scanBucket(ctx, client, b, registered, opts)
			slots[i] = &report
			interrupted[i] = cut
			return nil
		})
	}
	// Workers never return errors: failures are findings.
	_ = g.Wait()

	reports := make([]models.Report, 0, len(slots))
	skipped := 0
	for _, r := range slots {
		if r == nil {
			skipped++
			continue
		}
		reports = append(reports, *r)
	}

	summary := computeSummary(reports)
	summary.ResourcesListed = listedCount
	summary.ResourcesSkipped = skipped

	partial := skipped > 0
	for _, cut := range interrupted {
		partial = partial || cut
	}
	result := &models.ScanResult{
		ScanID:     o.newID(),
		StartedAt:  started,
		FinishedAt: o.now(),
		Partial:    partial,
		Checks:     checkIDs(registered),
		Summary:    summary,
		Reports:    reports,
	}

	if o.recorder != nil {
		o.recorder.ObserveScan(summary, partial)
	}
	o.logger.Info().
		Str("scan_id", result.ScanID).
		Int("attempted", summary.ResourcesAttempted).
		Int("succeeded", summary.ResourcesSucceeded).
		Int("skipped", summary.ResourcesSkipped).
		Int("non_compliant", summary.NonCompliant).
		Int("errors", summary.Errors).
		Bool("partial", partial).
		Msg("scan complete")

	return result, nil
}

// scanBucket runs every check against b and returns its report with
// findings in registry order. cut is true when the scan deadline kept at
// least one check from completing.
func (o *Orchestrator) scanBucket(
	ctx context.Context,
	client providers.Client,
	b models.Bucket,
	registered []checks.Check,
	opts ScanOptions,
) (report models.Report, cut bool) {
	findings := make([]models.Finding, len(registered))
	ran := make([]bool, len(registered))
	cuts := make([]bool, len(registered))

	g := new(errgroup.Group)
	g.SetLimit(opts.CheckConcurrency)
	for i, c := range registered {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			findings[i], cuts[i] = o.runCheck(ctx, client, b, c, opts.CheckTimeout)
			ran[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for i, c := range registered {
		cut = cut || cuts[i]
		if ran[i] {
			continue
		}
		cut = true
		findings[i] = normalize(c, models.NewErrorFinding(c.ID(), errDeadlineBeforeRun))
		o.observe(b, findings[i], 0)
	}
	return models.Report{Bucket: b, Findings: findings}, cut
}

// runCheck evaluates c against b inside the failure isolation boundary:
// a panic, a timeout or an invalid finding all become ERROR findings.
// cut reports an ERROR caused by the scan deadline rather than the check.
func (o *Orchestrator) runCheck(
	ctx context.Context,
	client providers.Client,
	b models.Bucket,
	c checks.Check,
	timeout time.Duration,
) (f models.Finding, cut bool) {
	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so a check that ignores its context can still finish and exit.
	done := make(chan models.Finding, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- models.NewErrorFinding(c.ID(), fmt.Errorf("check panicked: %v", r))
			}
		}()
		done <- c.Evaluate(checks.CheckContext{Context: cctx, Bucket: b, Client: client})
	}()

	select {
	case f = <-done:
	case <-cctx.Done():
		f = models.NewErrorFinding(c.ID(), timeoutError(ctx, c, b, timeout))
	}
	f = normalize(c, f)
	o.observe(b, f, time.Since(start))
	return f, f.Status == models.StatusError && ctx.Err() != nil
}

// timeoutError describes why a check's context expired: its own timeout or
// the overall scan deadline.
func timeoutError(scanCtx context.Context, c checks.Check, b models.Bucket, timeout time.Duration) error {
	cause := fmt.Errorf("check timed out after %s: %w", timeout, context.DeadlineExceeded)
	if scanCtx.Err() != nil {
		cause = fmt.Errorf("scan deadline exceeded during check: %w", scanCtx.Err())
	}
	return providers.NewProviderError(c.ID(), b.Name, cause)
}

func (o *Orchestrator) observe(b models.Bucket, f models.Finding, d time.Duration) {
	if o.recorder != nil {
		o.recorder.ObserveCheck(f.CheckID, f.Status, d)
	}
	if f.Status == models.StatusError {
		o.logger.Warn().
			Str("bucket", b.Name).
			Str("check", f.CheckID).
			Str("error", f.Error).
			Msg("check failed")
		return
	}
	o.logger.Debug().
		Str("bucket", b.Name).
		Str("check", f.CheckID).
		Str("status", string(f.Status)).
		Dur("duration", d).
		Msg("check evaluated")
}

// normalize stamps f with c's identity and repairs findings that break the
// status/error invariant by turning them into ERROR findings.
func normalize(c checks.Check, f models.Finding) models.Finding {
	switch f.Status {
	case models.StatusCompliant, models.StatusNonCompliant, models.StatusNotConfigured, models.StatusUnknown:
		if f.Error != "" {
			f = models.NewErrorFinding(c.ID(), fmt.Errorf("check returned status %s with error: %s", f.Status, f.Error))
		}
	case models.StatusError:
		if f.Error == "" {
			f = models.NewErrorFinding(c.ID(), fmt.Errorf("check reported an error without a message"))
		}
	default:
		f = models.NewErrorFinding(c.ID(), fmt.Errorf("check returned invalid status %q", f.Status))
	}
	f.CheckID = c.ID()
	f.CheckName = c.Name()
	f.Severity = c.Severity()
	return f
}

func checkIDs(cs []checks.Check) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID()
	}
	return ids
}
