// Package checks defines the posture check contract, the ordered check
// registry and the built-in S3 checks.
package checks

import (
	"context"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

// CheckContext is the sole input to Check.Evaluate: one bucket and the
// provider client used to fetch its configuration facets.
type CheckContext struct {
	// Context bounds every provider call made by the check. The orchestrator
	// sets a per-check deadline on it.
	Context context.Context

	// Bucket is the resource under evaluation.
	Bucket models.Bucket

	// Client is the provider boundary. Checks must not reach the SDK directly.
	Client providers.Client
}

// Check is a single posture check against a single bucket.
// Checks must be stateless and safe to call concurrently.
type Check interface {
	// ID returns the unique, stable identifier (e.g. "S3_ENCRYPTION").
	ID() string

	// Name returns a short human-readable check name.
	Name() string

	// Severity returns the default severity of a NON_COMPLIANT result.
	Severity() models.Severity

	// Evaluate returns exactly one finding. Provider failures are returned as
	// ERROR (or UNKNOWN) findings, never as panics.
	Evaluate(ctx CheckContext) models.Finding
}

// CheckRegistry holds the set of active checks in evaluation order.
type CheckRegistry interface {
	// Register adds a check to the registry. Panics on duplicate ID.
	Register(check Check)

	// All returns all registered checks in registration order.
	All() []Check

	// IDs returns the registered check IDs in registration order.
	IDs() []string

	// Get returns the check registered under id.
	Get(id string) (Check, bool)
}
