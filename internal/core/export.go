package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultExportPath is the file name used when the caller gives none.
const DefaultExportPath = "reporte_proyectos.json"

// Export writes the consolidated report to path as indented UTF-8 JSON.
// Failures are logged and reported as false; they are never returned.
func (r *Registry) Export(path string) bool {
	if path == "" {
		path = DefaultExportPath
	}
	report := r.ConsolidatedReport()
	b, err := EncodeReport(report)
	if err == nil {
		err = WriteFile(path, b, 0o644)
	}
	if err != nil {
		slog.Error("Failed to export report", "path", path, "error", err)
		return false
	}
	slog.Info("Report exported",
		"path", path,
		"projects", report.TotalProjects,
		"beneficiaries", report.TotalBeneficiaries)
	return true
}

// EncodeReport renders v with two space indentation, keeping non-ASCII and
// HTML-significant characters literal.
func EncodeReport(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes b to a temp file next to path and renames it into place,
// so readers never observe a partially written report.
func WriteFile(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
