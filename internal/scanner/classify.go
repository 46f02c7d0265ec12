package scanner

import (
	"path"
	"strings"
)

var (
	testSuffixes = []string{".spec.ts", ".spec.js", ".test.ts", ".test.js"}
	pageSuffixes = []string{"page.ts", "page.js"}
)

const (
	testsDir = "tests"
	pagesDir = "pages"
)

// Classify tags a relative path as a test file, a page-object file, both or
// neither. Backslash separators are normalized to forward slashes first.
func Classify(relPath string) Tags {
	p := strings.ReplaceAll(relPath, `\`, "/")
	dir, base := path.Split(p)
	lower := strings.ToLower(base)

	return Tags{
		Test:       hasAnySuffix(lower, testSuffixes) || hasDirSegment(dir, testsDir),
		PageObject: hasDirSegment(dir, pagesDir) || hasAnySuffix(lower, pageSuffixes),
	}
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// hasDirSegment reports whether any segment of dir equals name exactly.
func hasDirSegment(dir, name string) bool {
	for _, seg := range strings.Split(dir, "/") {
		if seg == name {
			return true
		}
	}
	return false
}
