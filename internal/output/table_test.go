package output_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/output"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func renderToString(result *models.ScanResult, opts output.TableOptions) string {
	var buf bytes.Buffer
	output.RenderTable(&buf, result, opts)
	return buf.String()
}

func sampleResult() *models.ScanResult {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.ScanResult{
		ScanID:     "scan-1",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Profile:    "prod",
		AccountID:  "123456789012",
		Checks:     []string{"S3_ENCRYPTION", "S3_VERSIONING"},
		Reports: []models.Report{
			{
				Bucket: models.Bucket{Name: "alpha-logs", Region: "us-east-1"},
				Findings: []models.Finding{
					{CheckID: "S3_ENCRYPTION", Status: models.StatusCompliant, Severity: models.SeverityHigh, Detail: "AES256"},
					{CheckID: "S3_VERSIONING", Status: models.StatusNonCompliant, Severity: models.SeverityMedium, Detail: "versioning is Suspended"},
				},
			},
			{
				Bucket: models.Bucket{Name: "beta-data"},
				Findings: []models.Finding{
					{CheckID: "S3_ENCRYPTION", Status: models.StatusError, Severity: models.SeverityHigh, Detail: "check could not be completed", Error: "GetBucketEncryption bucket beta-data: AccessDenied: denied"},
					{CheckID: "S3_VERSIONING", Status: models.StatusCompliant, Severity: models.SeverityMedium, Detail: "versioning is Enabled"},
				},
			},
		},
		Summary: models.ScanSummary{
			ResourcesListed: 2, ResourcesAttempted: 2, ResourcesSucceeded: 1,
			TotalFindings: 4, Compliant: 2, NonCompliant: 1, Errors: 1,
		},
	}
}

// ── table ─────────────────────────────────────────────────────────────────────

func TestRenderTable_HeadersAndRows(t *testing.T) {
	out := renderToString(sampleResult(), output.TableOptions{})
	for _, want := range []string{"BUCKET", "REGION", "CHECK", "STATUS", "SEVERITY", "DETAIL",
		"alpha-logs", "beta-data", "S3_ENCRYPTION", "NON_COMPLIANT", "versioning is Suspended"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output\ngot:\n%s", want, out)
		}
	}
}

func TestRenderTable_ErrorShownInDetail(t *testing.T) {
	out := renderToString(sampleResult(), output.TableOptions{DetailWidth: 200})
	if !strings.Contains(out, "AccessDenied: denied") {
		t.Errorf("expected error text in DETAIL column\ngot:\n%s", out)
	}
}

func TestRenderTable_MissingRegionShownAsDash(t *testing.T) {
	out := renderToString(sampleResult(), output.TableOptions{})
	var betaLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "beta-data") {
			betaLine = line
		}
	}
	if !strings.Contains(betaLine, " - ") {
		t.Errorf("expected '-' region on beta-data row, got %q", betaLine)
	}
}

func TestRenderTable_BucketPrintedOncePerGroup(t *testing.T) {
	out := renderToString(sampleResult(), output.TableOptions{})
	if n := strings.Count(out, "alpha-logs"); n != 1 {
		t.Errorf("alpha-logs printed %d times, want 1\ngot:\n%s", n, out)
	}
}

func TestRenderTable_HideCompliant(t *testing.T) {
	out := renderToString(sampleResult(), output.TableOptions{HideCompliant: true})
	if strings.Contains(out, " COMPLIANT") {
		t.Errorf("COMPLIANT rows must be hidden\ngot:\n%s", out)
	}
	if !strings.Contains(out, "NON_COMPLIANT") {
		t.Errorf("NON_COMPLIANT row must remain\ngot:\n%s", out)
	}
}

func TestRenderTable_NoFindings(t *testing.T) {
	out := renderToString(&models.ScanResult{}, output.TableOptions{})
	if strings.TrimSpace(out) != "No findings." {
		t.Errorf("got %q, want %q", out, "No findings.")
	}
}

func TestRenderTable_NoColorByDefault(t *testing.T) {
	out := renderToString(sampleResult(), output.TableOptions{})
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain table must not contain ANSI escapes\ngot:\n%q", out)
	}
}

func TestRenderTable_ColoredStatus(t *testing.T) {
	out := renderToString(sampleResult(), output.TableOptions{Colored: true})
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("colored table must contain ANSI escapes\ngot:\n%q", out)
	}
}

// ── Colorize / ShortenMessage ─────────────────────────────────────────────────

func TestColorize(t *testing.T) {
	if got := output.Colorize("HIGH", false); got != "HIGH" {
		t.Errorf("uncolored: got %q", got)
	}
	if got := output.Colorize("HIGH", true); !strings.HasPrefix(got, "\x1b[31") || !strings.Contains(got, "HIGH") {
		t.Errorf("colored HIGH: got %q", got)
	}
	if got := output.Colorize("SOMETHING", true); got != "SOMETHING" {
		t.Errorf("unknown label must be unchanged, got %q", got)
	}
}

func TestShortenMessage(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 1, "a..."},
	}
	for _, tc := range cases {
		if got := output.ShortenMessage(tc.in, tc.max); got != tc.want {
			t.Errorf("ShortenMessage(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

// ── summary ───────────────────────────────────────────────────────────────────

func TestRenderSummary(t *testing.T) {
	res := sampleResult()
	res.NotFound = []string{"ghost"}
	res.Partial = true

	var buf bytes.Buffer
	output.RenderSummary(&buf, res, false)
	out := buf.String()

	for _, want := range []string{"scan-1", "prod", "123456789012", "1.5s",
		"2 listed, 2 scanned, 1 clean, 0 skipped", "NON_COMPLIANT", "ghost", "partial"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary\ngot:\n%s", want, out)
		}
	}
}

// ── machine formats ───────────────────────────────────────────────────────────

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]output.Format{"": output.FormatTable, "JSON": output.FormatJSON, " ndjson ": output.FormatNDJSON} {
		got, err := output.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := output.ParseFormat("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := output.RenderJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var got models.ScanResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ScanID != "scan-1" || len(got.Reports) != 2 || got.Summary.Errors != 1 {
		t.Errorf("unexpected decoded result: %+v", got)
	}
}

func TestRenderNDJSON_OneRecordPerLine(t *testing.T) {
	var buf bytes.Buffer
	if err := output.RenderNDJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("RenderNDJSON: %v", err)
	}

	var recs []models.Record
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var r models.Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("line %d: %v", len(recs)+1, err)
		}
		recs = append(recs, r)
	}
	if len(recs) != 4 {
		t.Fatalf("got %d records, want 4", len(recs))
	}
	if recs[0].Bucket != "alpha-logs" || recs[0].CheckID != "S3_ENCRYPTION" {
		t.Errorf("first record out of order: %+v", recs[0])
	}
	if recs[2].Status != models.StatusError || recs[2].Error == "" {
		t.Errorf("error record lost its error: %+v", recs[2])
	}
}

func TestRender_Dispatch(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Render(&buf, output.FormatTable, sampleResult(), output.TableOptions{}); err != nil {
		t.Fatalf("Render table: %v", err)
	}
	if !strings.Contains(buf.String(), "Scan Summary") {
		t.Errorf("table format must include the summary block")
	}
	if err := output.Render(&buf, output.Format("yaml"), sampleResult(), output.TableOptions{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	if err := output.WriteReportFile(path, sampleResult()); err != nil {
		t.Fatalf("WriteReportFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), `"scan_id": "scan-1"`) {
		t.Errorf("report missing scan id:\n%s", data)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}

	back, err := output.ReadReportFile(path)
	if err != nil {
		t.Fatalf("ReadReportFile: %v", err)
	}
	if back.ScanID != "scan-1" || len(back.Records()) != 4 {
		t.Errorf("report did not round-trip: %+v", back)
	}
}

func TestReadReportFile_Errors(t *testing.T) {
	if _, err := output.ReadReportFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := output.ReadReportFile(bad); err == nil {
		t.Error("expected error for malformed report")
	}
}

// ── catalog ───────────────────────────────────────────────────────────────────

func TestRenderCatalog(t *testing.T) {
	var buf bytes.Buffer
	output.RenderCatalog(&buf, []output.CatalogEntry{
		{ID: "S3_ENCRYPTION", Name: "S3 Default Encryption", Severity: models.SeverityHigh, Enabled: true},
		{ID: "S3_LIFECYCLE", Name: "S3 Lifecycle Rules", Severity: models.SeverityInfo, Enabled: false},
	}, false)
	out := buf.String()

	encIdx := strings.Index(out, "S3_ENCRYPTION")
	lcIdx := strings.Index(out, "S3_LIFECYCLE")
	if encIdx < 0 || lcIdx < 0 || encIdx > lcIdx {
		t.Errorf("catalog must list checks in registry order\ngot:\n%s", out)
	}
	for _, want := range []string{"SEVERITY", "ENABLED", "S3 Default Encryption", "yes", "no"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in catalog\ngot:\n%s", want, out)
		}
	}
}
