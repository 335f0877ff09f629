package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplain_FromSavedReport(t *testing.T) {
	report := filepath.Join(t.TempDir(), "report.json")
	a := newTestApp(&mockAWSProvider{}, fakeAccount())
	_, _, err := execute(t, a, "scan", "--format", "json", "--output", report)
	require.NoError(t, err)

	out, _, err := execute(t, a, "explain", "s3_encryption", "--report", report)
	require.NoError(t, err)

	assert.Contains(t, out, "CHECK S3_ENCRYPTION")
	assert.Contains(t, out, "NON_COMPLIANT (1):")
	assert.Contains(t, out, "✗ open-bucket [eu-west-1]")
	assert.Contains(t, out, "✓ secure-bucket [us-east-1]")
	assert.Less(t, strings.Index(out, "open-bucket"), strings.Index(out, "secure-bucket"))
}

func TestExplain_UnknownCheck(t *testing.T) {
	report := filepath.Join(t.TempDir(), "report.json")
	a := newTestApp(&mockAWSProvider{}, fakeAccount())
	_, _, err := execute(t, a, "scan", "--format", "json", "--output", report)
	require.NoError(t, err)

	out, _, err := execute(t, a, "explain", "S3_NOPE", "--report", report, "--format", "json")
	require.Error(t, err)
	assert.Contains(t, out, "No check S3_NOPE found in report")
}

func TestExplain_RequiresReport(t *testing.T) {
	_, _, err := execute(t, newTestApp(&mockAWSProvider{}, fakeAccount()), "explain", "S3_ENCRYPTION")
	require.Error(t, err)
}
