// Package output renders scan results for humans (table, summary) and for
// machines (JSON, NDJSON). It only consumes models; it never runs checks.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// TableOptions controls how RenderTable renders findings.
type TableOptions struct {
	// Colored colours status and severity labels. Default false (CI-safe).
	Colored bool

	// HideCompliant drops COMPLIANT rows so only actionable findings remain.
	HideCompliant bool

	// DetailWidth caps the DETAIL column. Defaults to 60.
	DetailWidth int
}

const defaultDetailWidth = 60

// palette returns the colour used for a status or severity label.
func palette(label string) *color.Color {
	switch label {
	case string(models.StatusCompliant):
		return color.New(color.FgGreen)
	case string(models.StatusNonCompliant), string(models.SeverityHigh):
		return color.New(color.FgRed)
	case string(models.SeverityCritical), string(models.StatusError):
		return color.New(color.FgRed, color.Bold)
	case string(models.SeverityMedium), string(models.StatusUnknown):
		return color.New(color.FgYellow)
	case string(models.SeverityLow), string(models.StatusNotConfigured):
		return color.New(color.FgBlue)
	default:
		return nil
	}
}

// Colorize wraps label in its palette colour when colored is true.
// When colored is false the string is returned unchanged (CI-safe default).
func Colorize(label string, colored bool) string {
	if !colored {
		return label
	}
	c := palette(label)
	if c == nil {
		return label
	}
	// Forced so piping through a non-TTY still honours an explicit request.
	c.EnableColor()
	return c.Sprint(label)
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// RenderTable writes one row per finding to w, grouped by bucket in report
// order. Errors are shown in the DETAIL column in place of the detail text.
//
// Columns:
//
//	BUCKET  REGION  CHECK  STATUS  SEVERITY  DETAIL
func RenderTable(w io.Writer, result *models.ScanResult, opts TableOptions) {
	if opts.DetailWidth <= 0 {
		opts.DetailWidth = defaultDetailWidth
	}

	records := result.Records()
	rows := make([][]string, 0, len(records))
	lastBucket := ""
	for _, r := range records {
		if opts.HideCompliant && r.Status == models.StatusCompliant {
			continue
		}
		detail := r.Detail
		if r.Status == models.StatusError {
			detail = r.Error
		}
		bucket, region := r.Bucket, r.Region
		if region == "" {
			region = "-"
		}
		// Bucket and region repeat on every row of a group; print them once.
		if bucket == lastBucket {
			bucket, region = "", ""
		} else {
			lastBucket = bucket
		}
		rows = append(rows, []string{
			bucket,
			region,
			r.CheckID,
			Colorize(string(r.Status), opts.Colored),
			Colorize(string(r.Severity), opts.Colored),
			ShortenMessage(detail, opts.DetailWidth),
		})
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Bucket", "Region", "Check", "Status", "Severity", "Detail"})
	table.SetAutoFormatHeaders(true)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(true)
	table.SetColumnSeparator(" ")
	table.SetCenterSeparator(" ")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

// RenderSummary writes the scan summary block to w.
func RenderSummary(w io.Writer, result *models.ScanResult, colored bool) {
	s := result.Summary

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scan Summary")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "  %-18s %s\n", "Scan ID:", result.ScanID)
	if result.Profile != "" {
		fmt.Fprintf(w, "  %-18s %s\n", "Profile:", result.Profile)
	}
	if result.AccountID != "" {
		fmt.Fprintf(w, "  %-18s %s\n", "Account:", result.AccountID)
	}
	if result.Region != "" {
		fmt.Fprintf(w, "  %-18s %s\n", "Region:", result.Region)
	}
	fmt.Fprintf(w, "  %-18s %s\n", "Duration:", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(w, "  %-18s %d listed, %d scanned, %d clean, %d skipped\n", "Buckets:",
		s.ResourcesListed, s.ResourcesAttempted, s.ResourcesSucceeded, s.ResourcesSkipped)
	fmt.Fprintf(w, "  %-18s %d\n", "Findings:", s.TotalFindings)

	counts := []struct {
		status models.CheckStatus
		n      int
	}{
		{models.StatusCompliant, s.Compliant},
		{models.StatusNonCompliant, s.NonCompliant},
		{models.StatusNotConfigured, s.NotConfigured},
		{models.StatusUnknown, s.Unknown},
		{models.StatusError, s.Errors},
	}
	for _, c := range counts {
		label := fmt.Sprintf("%-16s", string(c.status))
		if c.n > 0 {
			label = Colorize(string(c.status), colored) + strings.Repeat(" ", 16-len(c.status))
		}
		fmt.Fprintf(w, "    %s %d\n", label, c.n)
	}

	if len(result.NotFound) > 0 {
		fmt.Fprintf(w, "  %-18s %s\n", "Not found:", strings.Join(result.NotFound, ", "))
	}
	if result.Partial {
		fmt.Fprintln(w, Colorize(string(models.StatusUnknown), colored)+
			" scan deadline reached; results are partial")
	}
}
