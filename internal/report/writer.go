package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/flakescan/internal/scanner"
)

// Format is the serialization of the structured report.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown report format %q (want json or yaml)", s)
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Writer persists the scan artifacts into Dir.
type Writer struct {
	Dir         string
	SummaryFile string
	IssuesFile  string // without extension
	Format      Format
	SARIF       bool
}

// Artifacts holds the paths that were written. SARIF is empty unless
// requested.
type Artifacts struct {
	Summary string
	Issues  string
	SARIF   string
}

// Write writes the summary text, then the structured report, then the
// optional SARIF log. The first failure is returned; files already written
// stay on disk.
func (w Writer) Write(r *scanner.Result) (Artifacts, error) {
	var out Artifacts
	format := w.format()

	out.Summary = filepath.Join(w.Dir, w.SummaryFile)
	if err := os.WriteFile(out.Summary, []byte(r.RepoSummaryText), 0o644); err != nil {
		return out, fmt.Errorf("writing summary: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, r, format); err != nil {
		return out, fmt.Errorf("encoding report: %w", err)
	}
	out.Issues = filepath.Join(w.Dir, w.IssuesFile+format.Ext())
	if err := os.WriteFile(out.Issues, buf.Bytes(), 0o644); err != nil {
		return out, fmt.Errorf("writing report: %w", err)
	}

	if w.SARIF {
		path := filepath.Join(w.Dir, w.IssuesFile+".sarif")
		if err := WriteSARIF(path, r); err != nil {
			return out, err
		}
		out.SARIF = path
	}

	return out, nil
}

// Names returns the file names Write creates inside Dir.
func (w Writer) Names() []string {
	names := []string{w.SummaryFile, w.IssuesFile + w.format().Ext()}
	if w.SARIF {
		names = append(names, w.IssuesFile+".sarif")
	}
	return names
}

func (w Writer) format() Format {
	if w.Format == "" {
		return FormatJSON
	}
	return w.Format
}

// Encode serializes the result in the given format as UTF-8 text.
func Encode(w io.Writer, r *scanner.Result, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return fmt.Errorf("unknown report format %q", format)
}
