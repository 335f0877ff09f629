package models

import "time"

// Bucket identifies a scanned S3 bucket. Name is unique within the account.
// Region is empty when the provider did not report one.
type Bucket struct {
	Name      string    `json:"name"`
	Region    string    `json:"region,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// EncryptionConfig is the default server-side encryption configuration of a
// bucket.
type EncryptionConfig struct {
	Rules []EncryptionRule `json:"rules"`
}

// EncryptionRule is one SSE rule. Algorithm is the provider's algorithm name
// (e.g. "AES256", "aws:kms", "aws:kms:dsse").
type EncryptionRule struct {
	Algorithm        string `json:"algorithm"`
	KMSKeyID         string `json:"kms_key_id,omitempty"`
	BucketKeyEnabled bool   `json:"bucket_key_enabled"`
}

// VersioningStatus is the raw, case-preserved versioning state reported by the
// provider: "Enabled", "Suspended", or empty when versioning was never turned on.
type VersioningStatus string

// VersioningEnabled is the only state treated as compliant. Providers report
// this value case-sensitively.
const VersioningEnabled VersioningStatus = "Enabled"

// PublicAccessBlockConfig holds the four bucket-level Block Public Access
// settings. A nil setting from the provider is reported as false.
type PublicAccessBlockConfig struct {
	BlockPublicAcls       bool `json:"block_public_acls"`
	IgnorePublicAcls      bool `json:"ignore_public_acls"`
	BlockPublicPolicy     bool `json:"block_public_policy"`
	RestrictPublicBuckets bool `json:"restrict_public_buckets"`
}

// LoggingConfig is the server access logging state of a bucket.
type LoggingConfig struct {
	Enabled      bool   `json:"enabled"`
	TargetBucket string `json:"target_bucket,omitempty"`
	TargetPrefix string `json:"target_prefix,omitempty"`
}

// LifecycleRule is a single lifecycle rule. Only identity and status are
// carried; retention decisions are left to the operator.
type LifecycleRule struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ACLGrant is one ACL entry. Grantee is the most specific identifier the
// provider returned: group URI, canonical user ID, or email address.
type ACLGrant struct {
	Grantee     string `json:"grantee"`
	GranteeType string `json:"grantee_type,omitempty"`
	Permission  string `json:"permission"`
}

// PolicyStatus reports whether the bucket policy makes the bucket public.
type PolicyStatus struct {
	IsPublic bool `json:"is_public"`
}
