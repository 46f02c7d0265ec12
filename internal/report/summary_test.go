package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/flakescan/internal/scanner"
)

func fullResult() *scanner.Result {
	r := scanner.NewResult("demo")
	r.TotalFiles = 5
	r.TestFiles = []string{"tests/a.spec.ts", "tests/b.spec.ts"}
	r.PagesFiles = []string{"pages/login.page.ts"}
	r.PatternCounts[scanner.ExpectAssert] = 1
	r.PatternCounts[scanner.WaitForTimeout] = 2
	r.DuplicateLoginFiles = []string{"tests/a.spec.ts"}
	r.SuspiciousSelectorsFiles = []string{"tests/b.spec.ts"}
	return r
}

func TestSummarize_FullLayout(t *testing.T) {
	want := strings.Join([]string{
		"Repo: demo",
		"Total files scanned: 5",
		"Test files found: 2",
		"Pages / POM files: 1",
		"",
		"- waitForTimeout: 2 occurrences",
		"- expect assert: 1 occurrences",
		"- duplicate/inline login found in 1 files (consider extracting fixture)",
		"- suspicious/unstable selectors found in 1 files (prefer role or test-id locators)",
		"",
		"Quick suggestions:",
		"- Replace hard waits (waitForTimeout) with explicit waits (waitForSelector/waitForResponse).",
		"- Extract login flow into a fixture/shared helper to reduce duplication.",
		"- Review selectors for stability (avoid brittle CSS/XPath).",
	}, "\n")

	assert.Equal(t, want, Summarize(fullResult()))
}

func TestSummarize_LowLevelLookupSuggestionLast(t *testing.T) {
	r := fullResult()
	r.PatternCounts[scanner.PageDollar] = 1

	lines := strings.Split(Summarize(r), "\n")
	assert.Equal(t,
		"- Avoid page.$ usage for core actions; use robust waitForSelector or built-in locators.",
		lines[len(lines)-1])
	assert.Contains(t, lines, "- page dollar: 1 occurrences")
}

func TestSummarize_Deterministic(t *testing.T) {
	assert.Equal(t, Summarize(fullResult()), Summarize(fullResult()))
}

func TestSummarize_NoFindings(t *testing.T) {
	r := scanner.NewResult("empty")
	r.TotalFiles = 2

	want := "Repo: empty\nTotal files scanned: 2\nTest files found: 0\nPages / POM files: 0\n"
	assert.Equal(t, want, Summarize(r))
}

func TestPrettyName(t *testing.T) {
	assert.Equal(t, "page click with timeout", PrettyName(scanner.PageClickWithTimeout))
	assert.Equal(t, "waitForTimeout", PrettyName(scanner.WaitForTimeout))
}

// --- end-to-end through the scanner ---

func TestRender_HardWaitsAndAssertion(t *testing.T) {
	root := t.TempDir()
	src := "await page.waitForTimeout(500);\nawait page.waitForTimeout(1000);\nexpect(x).toBe(1);\n"
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tests"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tests", "a.spec.ts"), []byte(src), 0o644))

	r, err := scanner.Scan(context.Background(), root, scanner.Options{})
	require.NoError(t, err)
	Render(r)

	assert.Equal(t, 2, r.Count(scanner.WaitForTimeout))
	assert.Equal(t, 1, r.Count(scanner.ExpectAssert))
	assert.Contains(t, r.RepoSummaryText, "- waitForTimeout: 2 occurrences")
	assert.Contains(t, r.RepoSummaryText, "- expect assert: 1 occurrences")
	assert.Contains(t, r.RepoSummaryText, "Quick suggestions:\n- Replace hard waits")
}

func TestRender_NoMatches(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("nothing to see\n"), 0o644))

	r, err := scanner.Scan(context.Background(), root, scanner.Options{})
	require.NoError(t, err)
	Render(r)

	assert.Contains(t, r.RepoSummaryText, "Repo: "+filepath.Base(root))
	assert.Contains(t, r.RepoSummaryText, "Test files found: 0")
	assert.Contains(t, r.RepoSummaryText, "Pages / POM files: 0")
	assert.NotContains(t, r.RepoSummaryText, "Quick suggestions")
}
