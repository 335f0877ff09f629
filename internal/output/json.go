package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// Format selects how a ScanResult is written.
type Format string

const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
)

// ParseFormat validates s case-insensitively. An empty string means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or ndjson)", s)
	}
}

// RenderJSON writes result as a single indented JSON document.
func RenderJSON(w io.Writer, result *models.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode scan result: %w", err)
	}
	return nil
}

// RenderNDJSON writes one Record per line, bucket order then check order.
func RenderNDJSON(w io.Writer, result *models.ScanResult) error {
	enc := json.NewEncoder(w)
	for _, rec := range result.Records() {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %s/%s: %w", rec.Bucket, rec.CheckID, err)
		}
	}
	return nil
}

// Render dispatches on format. Table output includes the summary block.
func Render(w io.Writer, format Format, result *models.ScanResult, opts TableOptions) error {
	switch format {
	case FormatJSON:
		return RenderJSON(w, result)
	case FormatNDJSON:
		return RenderNDJSON(w, result)
	case FormatTable, "":
		RenderTable(w, result, opts)
		RenderSummary(w, result, opts.Colored)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteReportFile writes result to path as indented JSON, creating parent
// directories as needed. The file is written atomically via a temp file.
func WriteReportFile(path string, result *models.ScanResult) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".s3sentinel-report-*")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := RenderJSON(tmp, result); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return nil
}

// ReadReportFile decodes a report previously written by WriteReportFile.
func ReadReportFile(path string) (*models.ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	var result models.ScanResult
	if err := json.NewDecoder(f).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode report file %q: %w", path, err)
	}
	return &result, nil
}
