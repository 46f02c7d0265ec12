package report

import (
	"fmt"
	"io"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/blackwell-systems/flakescan/internal/scanner"
)

const (
	sarifToolName = "flakescan"
	sarifToolURI  = "https://github.com/blackwell-systems/flakescan"

	// Rule IDs for the per-file checks.
	RuleDuplicateLoginFile      = "duplicate_login_file"
	RuleSuspiciousSelectorsFile = "suspicious_selectors_file"
)

// BuildSARIF converts a result into a SARIF 2.1.0 log: one warning per
// stored detector example and one note per flagged file.
func BuildSARIF(r *scanner.Result) (*sarif.Report, error) {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(sarifToolName, sarifToolURI)

	for _, name := range scanner.DetectorNames() {
		n := r.Count(name)
		if n == 0 {
			continue
		}
		rule := run.AddRule(name).
			WithDescription(fmt.Sprintf("%s: %d occurrences", PrettyName(name), n)).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "warning"})

		for _, ex := range r.PatternExamples[name] {
			msg := ex.Snippet
			if msg == "" {
				msg = PrettyName(name) + " match"
			}
			run.AddResult(sarif.NewRuleResult(rule.ID).
				WithLevel("warning").
				WithMessage(sarif.NewTextMessage(msg)).
				WithLocations([]*sarif.Location{fileLocation(ex.File)}))
		}
	}

	addFileRule(run, RuleDuplicateLoginFile,
		"Login flow driven inline; consider extracting a fixture", r.DuplicateLoginFiles)
	addFileRule(run, RuleSuspiciousSelectorsFile,
		"Suspicious or unstable selectors", r.SuspiciousSelectorsFiles)

	log.AddRun(run)
	return log, nil
}

func addFileRule(run *sarif.Run, id, description string, files []string) {
	if len(files) == 0 {
		return
	}
	rule := run.AddRule(id).
		WithDescription(description).
		WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "note"})
	for _, f := range files {
		run.AddResult(sarif.NewRuleResult(rule.ID).
			WithLevel("note").
			WithMessage(sarif.NewTextMessage(description)).
			WithLocations([]*sarif.Location{fileLocation(f)}))
	}
}

func fileLocation(path string) *sarif.Location {
	return sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(path)),
	)
}

// WriteSARIF builds the SARIF log for r and writes it to path.
func WriteSARIF(path string, r *scanner.Result) error {
	log, err := BuildSARIF(r)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing SARIF report: %w", err)
	}
	return writeAndClose(file, log)
}

// writeAndClose writes log to wc and closes it. A close failure is reported
// when the write itself succeeded.
func writeAndClose(wc io.WriteCloser, log *sarif.Report) error {
	if err := log.PrettyWrite(wc); err != nil {
		_ = wc.Close()
		return fmt.Errorf("writing SARIF report: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing SARIF report: %w", err)
	}
	return nil
}
