// Package report renders a finalized scan result as human-readable text and
// persists the scan artifacts.
package report

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/flakescan/internal/scanner"
	"github.com/blackwell-systems/flakescan/internal/suggest"
)

// Render stores the summary text on the result. Call it once, after
// Finalize and before writing artifacts.
func Render(r *scanner.Result) {
	r.RepoSummaryText = Summarize(r)
}

// Summarize renders the summary text for a finalized result. The output
// depends only on r, so the same result always renders identically.
func Summarize(r *scanner.Result) string {
	lines := []string{
		fmt.Sprintf("Repo: %s", r.RepoName),
		fmt.Sprintf("Total files scanned: %d", r.TotalFiles),
		fmt.Sprintf("Test files found: %d", len(r.TestFiles)),
		fmt.Sprintf("Pages / POM files: %d", len(r.PagesFiles)),
		"",
	}

	for _, name := range scanner.DetectorNames() {
		if n := r.Count(name); n > 0 {
			lines = append(lines, fmt.Sprintf("- %s: %d occurrences", PrettyName(name), n))
		}
	}

	if n := len(r.DuplicateLoginFiles); n > 0 {
		lines = append(lines, fmt.Sprintf("- duplicate/inline login found in %d files (consider extracting fixture)", n))
	}
	if n := len(r.SuspiciousSelectorsFiles); n > 0 {
		lines = append(lines, fmt.Sprintf("- suspicious/unstable selectors found in %d files (prefer role or test-id locators)", n))
	}

	if suggestions := suggest.NewEngine().Run(r); len(suggestions) > 0 {
		lines = append(lines, "", "Quick suggestions:")
		for _, s := range suggestions {
			lines = append(lines, "- "+s.Text)
		}
	}

	return strings.Join(lines, "\n")
}

// PrettyName turns a detector name into its display form.
func PrettyName(detector string) string {
	return strings.ReplaceAll(detector, "_", " ")
}
