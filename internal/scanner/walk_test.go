package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files under root from a map of slash-separated relative
// paths to contents.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// playwrightTree mirrors a small Playwright project with the usual mix of
// anti-patterns.
func playwrightTree() map[string]string {
	return map[string]string{
		"tests/checkout.spec.ts": "import { LoginPage } from '../pages/loginPage';\n" +
			"test('checkout', async ({ page }) => {\n" +
			"  await page.waitForTimeout(5000);\n" +
			"  const b = await page.$('#maybe-checkout');\n" +
			"  await page.click('#checkout', { timeout: 2000 });\n" +
			"  expect(true).toBe(true);\n" +
			"});\n",
		"tests/login.spec.ts": "test('login', async ({ page }) => {\n" +
			"  const login = new LoginPage(page);\n" +
			"  await login.login('demo', 'password');\n" +
			"  expect(true).toBe(true);\n" +
			"});\n",
		"pages/loginPage.ts": "export class LoginPage {\n" +
			"  async login(user, pass) {\n" +
			"    await this.page.fill(this.username, user);\n" +
			"  }\n" +
			"}\n",
		"playwright.config.ts": "export default { retries: 0 };\n",
	}
}

// ---------------------------------------------------------------------------
// Scan
// ---------------------------------------------------------------------------

func TestScan_PlaywrightTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, playwrightTree())

	r, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(root), r.RepoName)
	assert.Equal(t, 4, r.TotalFiles)
	assert.Equal(t, []string{"tests/checkout.spec.ts", "tests/login.spec.ts"}, r.TestFiles)
	assert.Equal(t, []string{"pages/loginPage.ts"}, r.PagesFiles)
	assert.Equal(t, 1, r.Count(WaitForTimeout))
	assert.Equal(t, 1, r.Count(HardSleep))
	assert.Equal(t, 1, r.Count(PageDollar))
	assert.Equal(t, 1, r.Count(PageClickWithTimeout))
	assert.Equal(t, 2, r.Count(ExpectAssert))
	assert.Equal(t, []string{"pages/loginPage.ts", "tests/checkout.spec.ts", "tests/login.spec.ts"}, r.DuplicateLoginFiles)
	assert.Equal(t, []string{"tests/checkout.spec.ts"}, r.SuspiciousSelectorsFiles)
	assert.Empty(t, r.RepoSummaryText)
}

func TestScan_TwoHardWaitsOneAssertion(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"flaky.spec.ts": "await page.waitForTimeout(100);\nawait page.waitForTimeout(200);\nexpect(x).toBe(1);\n",
	})

	r, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count(WaitForTimeout))
	assert.Equal(t, 1, r.Count(ExpectAssert))
	assert.Len(t, r.PatternExamples[WaitForTimeout], 2)
	assert.Len(t, r.PatternExamples[ExpectAssert], 1)
}

func TestScan_EmptyTree(t *testing.T) {
	r, err := Scan(context.Background(), t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, r.TotalFiles)
	assert.NotNil(t, r.TestFiles)
	assert.NotNil(t, r.PatternCounts)
	assert.Empty(t, r.PatternCounts)
}

func TestScan_LoginSpecInNestedTestsDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"e2e/tests/login.spec.ts": "const p = new LoginPage(page);\n",
	})

	r, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Contains(t, r.TestFiles, "e2e/tests/login.spec.ts")
	assert.Contains(t, r.DuplicateLoginFiles, "e2e/tests/login.spec.ts")
}

func TestScan_SkipsDependencyAndVCSDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"node_modules/pkg/tests/wait.spec.ts": "await page.waitForTimeout(1);",
		"app/node_modules/x/index.js":         "await page.waitForTimeout(1);",
		".git/hooks/pre-commit":               "await page.waitForTimeout(1);",
		"tests/ok.spec.ts":                    "expect(1);",
	})

	r, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, r.TotalFiles)
	assert.Equal(t, []string{"tests/ok.spec.ts"}, r.TestFiles)
	assert.Zero(t, r.Count(WaitForTimeout))
	assert.NotContains(t, r.PatternCounts, WaitForTimeout)
}

func TestScan_GitHubDirIsNotSkipped(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".github/workflows/e2e.yml": "run: npx playwright test",
	})

	r, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, r.TotalFiles)
}

func TestScan_UnreadableFileCountsAsEmpty(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"tests/ok.spec.ts": "expect(1);"})

	// Dangling symlink: listed by the walk, never opened.
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink(filepath.Join(root, "missing.ts"), filepath.Join(root, "tests", "broken.spec.ts")))
	}
	// Binary content containing a detector match is not text.
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"),
		append([]byte("page.waitForTimeout( LoginPage "), 0xff, 0xfe), 0o644))

	r, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)

	want := 2
	if runtime.GOOS != "windows" {
		want = 3
	}
	assert.Equal(t, want, r.TotalFiles)
	assert.Equal(t, map[string]int{ExpectAssert: 1}, r.PatternCounts)
	assert.Empty(t, r.DuplicateLoginFiles)
	assert.Empty(t, r.SuspiciousSelectorsFiles)
}

func TestScan_PermissionDeniedFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	root := t.TempDir()
	path := filepath.Join(root, "secret.spec.ts")
	require.NoError(t, os.WriteFile(path, []byte("await page.waitForTimeout(1); LoginPage"), 0o000))

	r, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, r.TotalFiles)
	assert.Empty(t, r.PatternCounts)
	assert.Empty(t, r.DuplicateLoginFiles)
	assert.Equal(t, []string{"secret.spec.ts"}, r.TestFiles)
}

func TestScan_ExampleCapAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.spec.ts": "expect(1);\nexpect(2);\n",
		"b.spec.ts": "expect(3);\nexpect(4);\n",
		"c.spec.ts": "expect(5);\nexpect(6);\n",
	})

	r, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, 6, r.Count(ExpectAssert))
	require.Len(t, r.PatternExamples[ExpectAssert], MaxExamples)
	assert.Equal(t, "a.spec.ts", r.PatternExamples[ExpectAssert][0].File)
	assert.Equal(t, "a.spec.ts", r.PatternExamples[ExpectAssert][1].File)
	assert.Equal(t, "b.spec.ts", r.PatternExamples[ExpectAssert][2].File)
}

func TestScan_ExampleCountMatchesSmallCounts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, playwrightTree())

	r, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	for name, n := range r.PatternCounts {
		want := n
		if want > MaxExamples {
			want = MaxExamples
		}
		assert.Len(t, r.PatternExamples[name], want, "detector %s", name)
	}
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, playwrightTree())

	first, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	second, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScan_WorkersMatchSequential(t *testing.T) {
	root := t.TempDir()
	files := playwrightTree()
	for i := 0; i < 20; i++ {
		files["tests/gen/"+strings.Repeat("x", i+1)+".spec.ts"] = "expect(a);\nawait page.waitForTimeout(1);\n"
	}
	writeTree(t, root, files)

	sequential, err := Scan(context.Background(), root, Options{Workers: 1})
	require.NoError(t, err)
	parallel, err := Scan(context.Background(), root, Options{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, sequential, parallel)
}

func TestScan_ExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"fixtures/data/wait.spec.ts": "await page.waitForTimeout(1);",
		"tests/a.spec.ts":            "expect(1);",
		"tests/__snapshots__/a.snap": "expect(1);",
	})

	r, err := Scan(context.Background(), root, Options{Exclude: []string{"fixtures", "**/*.snap"}})
	require.NoError(t, err)
	assert.Equal(t, 1, r.TotalFiles)
	assert.Equal(t, []string{"tests/a.spec.ts"}, r.TestFiles)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"), Options{})
	assert.Error(t, err)
}

func TestScan_RootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.ts")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Scan(context.Background(), path, Options{})
	assert.Error(t, err)
}

func TestScan_EmptyRoot(t *testing.T) {
	_, err := Scan(context.Background(), "", Options{})
	assert.Error(t, err)
}

func TestScan_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, playwrightTree())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, root, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_SkipFilesAreNotCounted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"repo_summary.txt":       "page.waitForTimeout( LoginPage",
		"repo_issues.json":       `{"snippet": "await page.waitForTimeout(1);"}`,
		"tests/repo_issues.json": "expect(1);",
		"tests/a.spec.ts":        "expect(1);",
	})

	r, err := Scan(context.Background(), root, Options{SkipFiles: []string{"repo_summary.txt", "repo_issues.json"}})
	require.NoError(t, err)
	assert.Equal(t, 2, r.TotalFiles, "only root-level artifacts are skipped")
	assert.Equal(t, map[string]int{ExpectAssert: 2}, r.PatternCounts)
	assert.Empty(t, r.DuplicateLoginFiles)
}

// ---------------------------------------------------------------------------
// ValidateExcludes
// ---------------------------------------------------------------------------

func TestValidateExcludes(t *testing.T) {
	assert.NoError(t, ValidateExcludes([]string{"fixtures/**", "*.snap"}))
	assert.Error(t, ValidateExcludes([]string{"[unclosed"}))
}
