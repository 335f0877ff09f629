package engine

import (
	"fmt"
	"path"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// ResourceFilter selects the buckets a scan evaluates. It replaces any
// interactive bucket selection: callers decide up front.
type ResourceFilter func(models.Bucket) bool

// apply returns the buckets in bs accepted by f, preserving order.
// A nil filter accepts every bucket.
func (f ResourceFilter) apply(bs []models.Bucket) []models.Bucket {
	if f == nil {
		return bs
	}
	out := make([]models.Bucket, 0, len(bs))
	for _, b := range bs {
		if f(b) {
			out = append(out, b)
		}
	}
	return out
}

// MatchNames accepts buckets whose name is exactly one of names.
func MatchNames(names ...string) ResourceFilter {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(b models.Bucket) bool {
		_, ok := set[b.Name]
		return ok
	}
}

// MatchGlobs accepts buckets whose name matches any of the path.Match
// patterns. Malformed patterns match nothing; use ValidateGlobs to reject
// them up front.
func MatchGlobs(patterns ...string) ResourceFilter {
	return func(b models.Bucket) bool {
		for _, p := range patterns {
			if ok, _ := path.Match(p, b.Name); ok {
				return true
			}
		}
		return false
	}
}

// ValidateGlobs returns an error for the first malformed pattern.
func ValidateGlobs(patterns ...string) error {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return &InvalidPatternError{Pattern: p, Err: err}
		}
	}
	return nil
}

// InvalidPatternError reports a malformed bucket glob.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid bucket pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Any accepts a bucket accepted by at least one non-nil filter. With no
// non-nil filters it returns nil, selecting every bucket.
func Any(filters ...ResourceFilter) ResourceFilter {
	var active []ResourceFilter
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(b models.Bucket) bool {
		for _, f := range active {
			if f(b) {
				return true
			}
		}
		return false
	}
}
